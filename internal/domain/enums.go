package domain

// FacetKind is the role a text fragment plays in an ability line.
type FacetKind string

const (
	FacetTrigger     FacetKind = "trigger"
	FacetCondition   FacetKind = "condition"
	FacetEffect      FacetKind = "effect"
	FacetExtraEffect FacetKind = "extra_effect"
)

func (k FacetKind) String() string { return string(k) }

func (k FacetKind) IsValid() bool {
	switch k {
	case FacetTrigger, FacetCondition, FacetEffect, FacetExtraEffect:
		return true
	}
	return false
}

// PartKind returns the dictionary kind of parts linked with this kind.
// Extra effects are stored as effect parts.
func (k FacetKind) PartKind() FacetKind {
	if k == FacetExtraEffect {
		return FacetEffect
	}
	return k
}

// LinkKinds returns the link kinds a search facet of this kind matches.
func (k FacetKind) LinkKinds() []FacetKind {
	if k == FacetEffect {
		return []FacetKind{FacetEffect, FacetExtraEffect}
	}
	return []FacetKind{k}
}

// ParseStatus records whether a grammar rule matched an ability line.
type ParseStatus string

const (
	ParseOK       ParseStatus = "ok"
	ParseUnparsed ParseStatus = "unparsed"
)

func (s ParseStatus) String() string { return string(s) }

// Faction is the card faction code.
type Faction string

const (
	FactionAxiom   Faction = "AX"
	FactionBravos  Faction = "BR"
	FactionLyra    Faction = "LY"
	FactionMuna    Faction = "MU"
	FactionOrdis   Faction = "OR"
	FactionYzmir   Faction = "YZ"
	FactionNeutral Faction = "NE"
)

func (f Faction) String() string { return string(f) }

func (f Faction) IsValid() bool {
	switch f {
	case FactionAxiom, FactionBravos, FactionLyra, FactionMuna,
		FactionOrdis, FactionYzmir, FactionNeutral:
		return true
	}
	return false
}

// TextStrategy selects how the free-text card filter is evaluated.
type TextStrategy string

const (
	TextSubstring TextStrategy = "substring"
	TextRanked    TextStrategy = "ranked"
)

func (s TextStrategy) String() string { return string(s) }
