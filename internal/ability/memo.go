package ability

import (
	"github.com/google/uuid"

	"github.com/Taum/marketbot-sub000/internal/domain"
)

// PartMemo caches dictionary ids by part key for the duration of one
// indexing call. A forked memo reads through to its parent and keeps its own
// writes until Commit, so ids from a rolled-back transaction never leak into
// the parent. PartMemo is not safe for concurrent use.
type PartMemo struct {
	parent *PartMemo
	ids    map[string]uuid.UUID
}

// NewPartMemo returns an empty memo.
func NewPartMemo() *PartMemo {
	return &PartMemo{ids: make(map[string]uuid.UUID)}
}

// Lookup returns the id stored for key in this memo or any ancestor.
func (m *PartMemo) Lookup(key domain.PartKey) (uuid.UUID, bool) {
	k := key.String()
	for cur := m; cur != nil; cur = cur.parent {
		if id, ok := cur.ids[k]; ok {
			return id, true
		}
	}
	return uuid.Nil, false
}

// Store records the id for key.
func (m *PartMemo) Store(key domain.PartKey, id uuid.UUID) {
	m.ids[key.String()] = id
}

// Missing returns the keys that have no id yet.
func (m *PartMemo) Missing(keys []domain.PartKey) []domain.PartKey {
	var out []domain.PartKey
	for _, k := range keys {
		if _, ok := m.Lookup(k); !ok {
			out = append(out, k)
		}
	}
	return out
}

// Fork returns a child memo layered over m.
func (m *PartMemo) Fork() *PartMemo {
	return &PartMemo{parent: m, ids: make(map[string]uuid.UUID)}
}

// Commit copies the child's entries into its parent. It is a no-op on a root
// memo.
func (m *PartMemo) Commit() {
	if m.parent == nil {
		return
	}
	for k, id := range m.ids {
		m.parent.ids[k] = id
	}
	clear(m.ids)
}

// Len returns the number of entries stored directly in m.
func (m *PartMemo) Len() int { return len(m.ids) }
