// Moodcast - Emotion-Adaptive Short-Video Recommendation Engine
// Copyright 2026 Moodcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moodcast/moodcast

package recommend

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// catalogEntry pairs an immutable record with its mutable exposure
// counter. The counter lives outside the record so concurrent reads of
// the record never race with RecordView.
type catalogEntry struct {
	record ContentRecord
	views  atomic.Int64
}

// Catalog is the in-memory content index: an id→record map plus a
// category→id-set auxiliary index. The index is append-oriented at
// runtime; Upsert takes the exclusive lock, all read paths share it.
type Catalog struct {
	mu         sync.RWMutex
	entries    map[string]*catalogEntry
	byCategory map[Category]map[string]struct{}
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries:    make(map[string]*catalogEntry),
		byCategory: make(map[Category]map[string]struct{}),
	}
}

// Upsert indexes a record, replacing any previous record with the same
// id. Records with an empty id or an empty category set are rejected
// with ErrInvalidContent. A replaced record keeps its accumulated view
// count.
func (c *Catalog) Upsert(rec ContentRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("record has empty id: %w", ErrInvalidContent)
	}
	if len(rec.Categories) == 0 {
		return fmt.Errorf("record %q has no categories: %w", rec.ID, ErrInvalidContent)
	}
	for _, cat := range rec.Categories {
		if cat == "" {
			return fmt.Errorf("record %q has an empty category tag: %w", rec.ID, ErrInvalidContent)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &catalogEntry{record: rec}
	if prev, ok := c.entries[rec.ID]; ok {
		entry.views.Store(prev.views.Load())
		c.removeFromIndexLocked(prev.record)
	}
	entry.views.Add(rec.ViewCount) // imported snapshots carry prior exposure
	entry.record.ViewCount = 0
	c.entries[rec.ID] = entry
	for _, cat := range rec.Categories {
		set, ok := c.byCategory[cat]
		if !ok {
			set = make(map[string]struct{})
			c.byCategory[cat] = set
		}
		set[rec.ID] = struct{}{}
	}
	return nil
}

func (c *Catalog) removeFromIndexLocked(rec ContentRecord) {
	for _, cat := range rec.Categories {
		if set, ok := c.byCategory[cat]; ok {
			delete(set, rec.ID)
			if len(set) == 0 {
				delete(c.byCategory, cat)
			}
		}
	}
}

// Get returns a snapshot of one record with its current view count, or
// ErrUnknownContent.
func (c *Catalog) Get(id string) (ContentRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok {
		return ContentRecord{}, fmt.Errorf("content %q: %w", id, ErrUnknownContent)
	}
	return entry.snapshot(), nil
}

// Contains reports whether an id is indexed.
func (c *Catalog) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[id]
	return ok
}

// AllCandidates returns a snapshot slice of every indexed record in
// stable id order, each with its view count at snapshot time. The
// slice is owned by the caller.
func (c *Catalog) AllCandidates() []ContentRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]ContentRecord, 0, len(c.entries))
	for _, entry := range c.entries {
		out = append(out, entry.snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByCategory returns snapshots of every record carrying the given tag,
// in stable id order.
func (c *Catalog) ByCategory(cat Category) []ContentRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids, ok := c.byCategory[cat]
	if !ok {
		return nil
	}
	out := make([]ContentRecord, 0, len(ids))
	for id := range ids {
		out = append(out, c.entries[id].snapshot())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// RecordView increments the exposure counter for an admitted record.
// Unknown ids return ErrUnknownContent.
func (c *Catalog) RecordView(id string) error {
	c.mu.RLock()
	entry, ok := c.entries[id]
	c.mu.RUnlock()
	if !ok {
		return fmt.Errorf("content %q: %w", id, ErrUnknownContent)
	}
	entry.views.Add(1)
	return nil
}

// Len returns the number of indexed records.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Categories returns the distinct category tags currently indexed, in
// stable order.
func (c *Catalog) Categories() []Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Category, 0, len(c.byCategory))
	for cat := range c.byCategory {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (e *catalogEntry) snapshot() ContentRecord {
	rec := e.record
	rec.Categories = append([]Category(nil), e.record.Categories...)
	rec.ViewCount = e.views.Load()
	return rec
}
