package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is a catalog card as stored by the crawler.
type Card struct {
	ID            uuid.UUID
	Reference     string
	Name          string
	Faction       Faction
	SetCode       string
	Rarity        string
	Subtypes      []string
	MainCost      *int
	RecallCost    *int
	ForestPower   *int
	MountainPower *int
	OceanPower    *int
	MainText      *string
	EchoText      *string
	ImageURL      *string
	LastSeenPrice *float64
	LastSeenAt    *time.Time
	InSale        bool
	IndexedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CardText is the slice of a card the indexing pipeline reads.
type CardText struct {
	CardID   uuid.UUID
	MainText *string
	EchoText *string
}

// Text returns the card's ability boxes as a CardText.
func (c *Card) Text() CardText {
	return CardText{CardID: c.ID, MainText: c.MainText, EchoText: c.EchoText}
}

// DisplayCard is a card together with its indexed ability lines.
type DisplayCard struct {
	Card
	Lines []AbilityLine
}
