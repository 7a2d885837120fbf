// Package recent tracks the recently viewed PDFs: at most MaxEntries,
// one per document id, newest first.
package recent

import (
	"encoding/json"
	"fmt"
	"time"

	"pdfcatalog/internal/localstore"
	"pdfcatalog/internal/model"
)

const (
	// StoreKey is the key the list is persisted under.
	StoreKey   = "recentPDFs"
	MaxEntries = 10
)

// List is the ordered recent-views list, newest first.
type List []model.RecentEntry

// Add moves doc to the front stamped with at, dropping any older entry for
// the same id and truncating to MaxEntries.
func (l List) Add(doc model.Document, at time.Time) List {
	out := make(List, 0, MaxEntries)
	out = append(out, model.RecentEntry{Document: doc, ViewedAt: at.UnixMilli()})
	for _, e := range l {
		if e.ID == doc.ID {
			continue
		}
		if len(out) == MaxEntries {
			break
		}
		out = append(out, e)
	}
	return out
}

// Load reads the list from s. A missing or unreadable value yields an empty list.
func Load(s localstore.Store) (List, error) {
	raw, ok, err := s.Get(StoreKey)
	if err != nil {
		return List{}, err
	}
	if !ok || len(raw) == 0 {
		return List{}, nil
	}
	var l List
	if err := json.Unmarshal(raw, &l); err != nil {
		return List{}, nil
	}
	if len(l) > MaxEntries {
		l = l[:MaxEntries]
	}
	return l, nil
}

// Save serializes l as JSON text under StoreKey.
func Save(s localstore.Store, l List) error {
	if l == nil {
		l = List{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("encode recent list: %w", err)
	}
	return s.Set(StoreKey, b)
}

// Record loads the list, adds doc and saves it back.
func Record(s localstore.Store, doc model.Document, at time.Time) (List, error) {
	l, err := Load(s)
	if err != nil {
		return nil, err
	}
	l = l.Add(doc, at)
	if err := Save(s, l); err != nil {
		return nil, err
	}
	return l, nil
}
