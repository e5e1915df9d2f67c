package ability

import (
	"github.com/google/uuid"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

// LinePlan is the set of row changes that brings the stored lines of a card
// in line with a fresh segmentation.
type LinePlan struct {
	CreateLines   []domain.AbilityLine
	UpdateLines   []domain.AbilityLine
	DeleteLineIDs []uuid.UUID
	CreateLinks   []domain.PartLink
	UpdateLinks   []domain.PartLink
	DeleteLinks   []domain.PartLink

	linesUpdated   int
	linesUnchanged int
}

// IsEmpty reports whether applying the plan would change nothing.
func (p *LinePlan) IsEmpty() bool {
	return len(p.CreateLines) == 0 && len(p.UpdateLines) == 0 && len(p.DeleteLineIDs) == 0 &&
		len(p.CreateLinks) == 0 && len(p.UpdateLinks) == 0 && len(p.DeleteLinks) == 0
}

// Merge appends other's changes to p.
func (p *LinePlan) Merge(other LinePlan) {
	p.CreateLines = append(p.CreateLines, other.CreateLines...)
	p.UpdateLines = append(p.UpdateLines, other.UpdateLines...)
	p.DeleteLineIDs = append(p.DeleteLineIDs, other.DeleteLineIDs...)
	p.CreateLinks = append(p.CreateLinks, other.CreateLinks...)
	p.UpdateLinks = append(p.UpdateLinks, other.UpdateLinks...)
	p.DeleteLinks = append(p.DeleteLinks, other.DeleteLinks...)
	p.linesUpdated += other.linesUpdated
	p.linesUnchanged += other.linesUnchanged
}

// Summary converts the plan into result counters. Links removed by a line
// delete cascade are not counted.
func (p *LinePlan) Summary() domain.ReindexResult {
	return domain.ReindexResult{
		LinesCreated:   len(p.CreateLines),
		LinesUpdated:   p.linesUpdated,
		LinesUnchanged: p.linesUnchanged,
		LinesDeleted:   len(p.DeleteLineIDs),
		LinksCreated:   len(p.CreateLinks),
		LinksDeleted:   len(p.DeleteLinks),
	}
}

// DiffLines compares the stored lines of one card with the lines of a new
// segmentation. Lines are matched on (lineNumber, isSupport); links on
// (partId, kind). New lines get fresh ids, matched lines keep theirs.
func DiffLines(existing, next []domain.AbilityLine) LinePlan {
	var plan LinePlan

	byKey := make(map[domain.LineKey]domain.AbilityLine, len(existing))
	for _, l := range existing {
		byKey[l.Key()] = l
	}
	seen := make(map[domain.LineKey]struct{}, len(next))

	for _, n := range next {
		key := n.Key()
		seen[key] = struct{}{}

		old, ok := byKey[key]
		if !ok {
			n.ID = uuid.New()
			plan.CreateLines = append(plan.CreateLines, n)
			for _, sp := range n.Spans {
				plan.CreateLinks = append(plan.CreateLinks, domain.PartLink{LineID: n.ID, PartSpan: sp})
			}
			continue
		}

		n.ID = old.ID
		rowChanged := old.Text != n.Text || old.StartOffset != n.StartOffset ||
			old.EndOffset != n.EndOffset || old.Status != n.Status
		if rowChanged {
			plan.UpdateLines = append(plan.UpdateLines, n)
		}

		linksChanged := diffLinks(&plan, n.ID, old.Spans, n.Spans)
		if rowChanged || linksChanged {
			plan.linesUpdated++
		} else {
			plan.linesUnchanged++
		}
	}

	for _, l := range existing {
		if _, ok := seen[l.Key()]; !ok {
			plan.DeleteLineIDs = append(plan.DeleteLineIDs, l.ID)
		}
	}
	return plan
}

func diffLinks(plan *LinePlan, lineID uuid.UUID, old, next []domain.PartSpan) bool {
	oldByKey := make(map[domain.LinkKey]domain.PartSpan, len(old))
	for _, sp := range old {
		oldByKey[sp.Key()] = sp
	}

	changed := false
	kept := make(map[domain.LinkKey]struct{}, len(next))
	for _, sp := range next {
		k := sp.Key()
		kept[k] = struct{}{}
		prev, ok := oldByKey[k]
		switch {
		case !ok:
			plan.CreateLinks = append(plan.CreateLinks, domain.PartLink{LineID: lineID, PartSpan: sp})
			changed = true
		case !sameSpan(prev, sp):
			plan.UpdateLinks = append(plan.UpdateLinks, domain.PartLink{LineID: lineID, PartSpan: sp})
			changed = true
		}
	}
	for _, sp := range old {
		if _, ok := kept[sp.Key()]; !ok {
			plan.DeleteLinks = append(plan.DeleteLinks, domain.PartLink{LineID: lineID, PartSpan: sp})
			changed = true
		}
	}
	return changed
}

func sameSpan(a, b domain.PartSpan) bool {
	if a.StartOffset != b.StartOffset || a.EndOffset != b.EndOffset {
		return false
	}
	switch {
	case a.SubstituteText == nil && b.SubstituteText == nil:
		return true
	case a.SubstituteText == nil || b.SubstituteText == nil:
		return false
	}
	return *a.SubstituteText == *b.SubstituteText
}
