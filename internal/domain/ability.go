package domain

import (
	"strconv"

	"github.com/google/uuid"
)

// SupportLineNumber is the line number given to the echo box line.
const SupportLineNumber = 99

// Substitute markers stored in place of missing or literal fragments.
const (
	SubstituteNoCondition = "$noCondition"
	SubstituteStatic      = "$static"
)

// AbilityLine is one segmented line of a card's ability text.
type AbilityLine struct {
	ID          uuid.UUID
	CardID      uuid.UUID
	LineNumber  int
	IsSupport   bool
	Text        string
	StartOffset int
	EndOffset   int
	Status      ParseStatus
	Spans       []PartSpan
}

// Key returns the natural key of the line.
func (l *AbilityLine) Key() LineKey {
	return LineKey{CardID: l.CardID, LineNumber: l.LineNumber, IsSupport: l.IsSupport}
}

// LineKey identifies a line within a card independent of its row id.
type LineKey struct {
	CardID     uuid.UUID
	LineNumber int
	IsSupport  bool
}

// AbilityPart is a deduplicated facet dictionary entry.
type AbilityPart struct {
	ID        uuid.UUID
	Text      string
	Kind      FacetKind
	IsSupport bool
}

// PartKey is the natural key of a dictionary entry.
type PartKey struct {
	Text      string
	Kind      FacetKind
	IsSupport bool
}

// String returns the memo key form "kind|isSupport|text".
func (k PartKey) String() string {
	return string(k.Kind) + "|" + strconv.FormatBool(k.IsSupport) + "|" + k.Text
}

// PartSpan links a line to a dictionary part at a rune range of the line text.
type PartSpan struct {
	PartID         uuid.UUID
	Kind           FacetKind
	Text           string
	StartOffset    int
	EndOffset      int
	SubstituteText *string
}

// LinkKey identifies a link within its line.
type LinkKey struct {
	PartID uuid.UUID
	Kind   FacetKind
}

// Key returns the link key of the span.
func (s *PartSpan) Key() LinkKey {
	return LinkKey{PartID: s.PartID, Kind: s.Kind}
}

// PartLink is a stored line-to-part link.
type PartLink struct {
	LineID uuid.UUID
	PartSpan
}

// ReindexResult counts the row changes made by re-indexing.
type ReindexResult struct {
	LinesCreated   int
	LinesUpdated   int
	LinesUnchanged int
	LinesDeleted   int
	LinesUnparsed  int
	LinksCreated   int
	LinksDeleted   int
}

// Add accumulates other into r.
func (r *ReindexResult) Add(other ReindexResult) {
	r.LinesCreated += other.LinesCreated
	r.LinesUpdated += other.LinesUpdated
	r.LinesUnchanged += other.LinesUnchanged
	r.LinesDeleted += other.LinesDeleted
	r.LinesUnparsed += other.LinesUnparsed
	r.LinksCreated += other.LinksCreated
	r.LinksDeleted += other.LinksDeleted
}

// BatchResult summarizes a batch indexing run.
type BatchResult struct {
	ReindexResult
	Cards int
	Pages int
}

// FacetUsage is a dictionary part with the number of lines linking it.
type FacetUsage struct {
	ID         uuid.UUID
	Text       string
	Kind       FacetKind
	IsSupport  bool
	UsageCount int
}
