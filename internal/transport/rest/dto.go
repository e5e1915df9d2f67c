package rest

import (
	"time"

	"github.com/Taum/marketbot-sub000/internal/domain"
	"github.com/Taum/marketbot-sub000/internal/service/search"
)

type intRangeRequest struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

func (r *intRangeRequest) toDomain() domain.IntRange {
	if r == nil {
		return domain.IntRange{}
	}
	return domain.IntRange{Min: r.Min, Max: r.Max}
}

type priceRangeRequest struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type combinationRequest struct {
	Trigger   *string `json:"trigger"`
	Condition *string `json:"condition"`
	Effect    *string `json:"effect"`
}

type pageRequest struct {
	Number       int  `json:"number"`
	Size         int  `json:"size"`
	IncludeTotal bool `json:"includeTotal"`
}

type searchRequest struct {
	Combinations         []combinationRequest `json:"combinations"`
	MatchAllCombinations bool                 `json:"matchAllCombinations"`
	IncludeSupport       bool                 `json:"includeSupport"`
	Name                 *string              `json:"name"`
	CardText             *string              `json:"cardText"`
	Factions             []string             `json:"factions"`
	SetCodes             []string             `json:"setCodes"`
	Subtypes             []string             `json:"subtypes"`
	MainCost             *intRangeRequest     `json:"mainCost"`
	RecallCost           *intRangeRequest     `json:"recallCost"`
	ForestPower          *intRangeRequest     `json:"forestPower"`
	MountainPower        *intRangeRequest     `json:"mountainPower"`
	OceanPower           *intRangeRequest     `json:"oceanPower"`
	Price                *priceRangeRequest   `json:"price"`
	InSaleOnly           bool                 `json:"inSaleOnly"`
	Page                 *pageRequest         `json:"page"`
}

func (r *searchRequest) toInput() search.SearchInput {
	q := domain.SearchQuery{
		MatchAllCombinations: r.MatchAllCombinations,
		IncludeSupport:       r.IncludeSupport,
		Name:                 r.Name,
		CardText:             r.CardText,
		SetCodes:             r.SetCodes,
		Subtypes:             r.Subtypes,
		MainCost:             r.MainCost.toDomain(),
		RecallCost:           r.RecallCost.toDomain(),
		ForestPower:          r.ForestPower.toDomain(),
		MountainPower:        r.MountainPower.toDomain(),
		OceanPower:           r.OceanPower.toDomain(),
		InSaleOnly:           r.InSaleOnly,
	}
	for _, c := range r.Combinations {
		q.Combinations = append(q.Combinations, domain.AbilityCombination{
			Trigger:   c.Trigger,
			Condition: c.Condition,
			Effect:    c.Effect,
		})
	}
	for _, f := range r.Factions {
		q.Factions = append(q.Factions, domain.Faction(f))
	}
	if r.Price != nil {
		q.Price = domain.PriceRange{Min: r.Price.Min, Max: r.Price.Max}
	}

	page := domain.PageRequest{Number: 1}
	if r.Page != nil {
		page = domain.PageRequest{Number: r.Page.Number, Size: r.Page.Size, IncludeTotal: r.Page.IncludeTotal}
		if page.Number == 0 {
			page.Number = 1
		}
	}
	return search.SearchInput{Query: q, Page: page}
}

type spanResponse struct {
	PartID         string  `json:"partId"`
	Kind           string  `json:"kind"`
	Text           string  `json:"text"`
	StartOffset    int     `json:"startOffset"`
	EndOffset      int     `json:"endOffset"`
	SubstituteText *string `json:"substituteText,omitempty"`
}

type lineResponse struct {
	ID          string         `json:"id"`
	LineNumber  int            `json:"lineNumber"`
	IsSupport   bool           `json:"isSupport"`
	Text        string         `json:"text"`
	StartOffset int            `json:"startOffset"`
	EndOffset   int            `json:"endOffset"`
	Status      string         `json:"status"`
	Spans       []spanResponse `json:"spans"`
}

type cardResponse struct {
	ID            string         `json:"id"`
	Reference     string         `json:"reference"`
	Name          string         `json:"name"`
	Faction       string         `json:"faction"`
	SetCode       string         `json:"setCode"`
	Rarity        string         `json:"rarity"`
	Subtypes      []string       `json:"subtypes"`
	MainCost      *int           `json:"mainCost"`
	RecallCost    *int           `json:"recallCost"`
	ForestPower   *int           `json:"forestPower"`
	MountainPower *int           `json:"mountainPower"`
	OceanPower    *int           `json:"oceanPower"`
	MainText      *string        `json:"mainText"`
	EchoText      *string        `json:"echoText"`
	ImageURL      *string        `json:"imageUrl,omitempty"`
	LastSeenPrice *float64       `json:"lastSeenPrice"`
	LastSeenAt    *time.Time     `json:"lastSeenAt,omitempty"`
	InSale        bool           `json:"inSale"`
	Lines         []lineResponse `json:"lines"`
}

type searchResponse struct {
	Cards      []cardResponse `json:"cards"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalCount *int           `json:"totalCount,omitempty"`
	PageCount  *int           `json:"pageCount,omitempty"`
	Strategy   string         `json:"strategy"`
}

type facetResponse struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Kind       string `json:"kind"`
	IsSupport  bool   `json:"isSupport"`
	UsageCount int    `json:"usageCount"`
}

type reindexResponse struct {
	LinesCreated   int `json:"linesCreated"`
	LinesUpdated   int `json:"linesUpdated"`
	LinesUnchanged int `json:"linesUnchanged"`
	LinesDeleted   int `json:"linesDeleted"`
	LinesUnparsed  int `json:"linesUnparsed"`
	LinksCreated   int `json:"linksCreated"`
	LinksDeleted   int `json:"linksDeleted"`
}

func toCardResponse(c *domain.DisplayCard) cardResponse {
	lines := make([]lineResponse, len(c.Lines))
	for i, l := range c.Lines {
		spans := make([]spanResponse, len(l.Spans))
		for j, s := range l.Spans {
			spans[j] = spanResponse{
				PartID:         s.PartID.String(),
				Kind:           s.Kind.String(),
				Text:           s.Text,
				StartOffset:    s.StartOffset,
				EndOffset:      s.EndOffset,
				SubstituteText: s.SubstituteText,
			}
		}
		lines[i] = lineResponse{
			ID:          l.ID.String(),
			LineNumber:  l.LineNumber,
			IsSupport:   l.IsSupport,
			Text:        l.Text,
			StartOffset: l.StartOffset,
			EndOffset:   l.EndOffset,
			Status:      l.Status.String(),
			Spans:       spans,
		}
	}

	subtypes := c.Subtypes
	if subtypes == nil {
		subtypes = []string{}
	}
	return cardResponse{
		ID:            c.ID.String(),
		Reference:     c.Reference,
		Name:          c.Name,
		Faction:       c.Faction.String(),
		SetCode:       c.SetCode,
		Rarity:        c.Rarity,
		Subtypes:      subtypes,
		MainCost:      c.MainCost,
		RecallCost:    c.RecallCost,
		ForestPower:   c.ForestPower,
		MountainPower: c.MountainPower,
		OceanPower:    c.OceanPower,
		MainText:      c.MainText,
		EchoText:      c.EchoText,
		ImageURL:      c.ImageURL,
		LastSeenPrice: c.LastSeenPrice,
		LastSeenAt:    c.LastSeenAt,
		InSale:        c.InSale,
		Lines:         lines,
	}
}

func toSearchResponse(res *search.SearchResult) searchResponse {
	cards := make([]cardResponse, len(res.Cards))
	for i := range res.Cards {
		cards[i] = toCardResponse(&res.Cards[i])
	}
	return searchResponse{
		Cards:      cards,
		Page:       res.Page,
		PageSize:   res.PageSize,
		TotalCount: res.TotalCount,
		PageCount:  res.PageCount,
		Strategy:   res.Strategy.String(),
	}
}

func toFacetResponses(facets []domain.FacetUsage) []facetResponse {
	out := make([]facetResponse, len(facets))
	for i, f := range facets {
		out[i] = facetResponse{
			ID:         f.ID.String(),
			Text:       f.Text,
			Kind:       f.Kind.String(),
			IsSupport:  f.IsSupport,
			UsageCount: f.UsageCount,
		}
	}
	return out
}

func toReindexResponse(r domain.ReindexResult) reindexResponse {
	return reindexResponse{
		LinesCreated:   r.LinesCreated,
		LinesUpdated:   r.LinesUpdated,
		LinesUnchanged: r.LinesUnchanged,
		LinesDeleted:   r.LinesDeleted,
		LinesUnparsed:  r.LinesUnparsed,
		LinksCreated:   r.LinksCreated,
		LinksDeleted:   r.LinksDeleted,
	}
}
