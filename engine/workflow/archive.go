// Package workflow holds the reviewable archive of negotiation
// records, distinct from the live in-progress session.
package workflow

import (
	"strings"
	"sync"

	"github.com/negotiapro/copilot/engine/core"
	"github.com/negotiapro/copilot/engine/negotiation"
)

// Filter narrows a record listing. Both conditions are conjunctive:
// Status is an exact match (empty or StatusAll matches everything)
// and TextQuery is a case-insensitive substring match against the
// counterparty name and the summary.
type Filter struct {
	Status    Status
	TextQuery string
}

// Archive is the in-memory collection of negotiation records. New
// records are prepended so the most recent negotiation lists first;
// listings preserve stored order.
type Archive struct {
	mu      sync.RWMutex
	records []*Record
}

// NewArchive returns an empty archive.
func NewArchive() *Archive {
	return &Archive{}
}

// Archive implements negotiation.Archiver: it receives a completed
// live session and stores it as a new record.
func (a *Archive) Archive(rec negotiation.ArchiveRecord) error {
	a.Add(newRecordFromSession(rec))
	return nil
}

// Add stores a record at the front of the archive.
func (a *Archive) Add(rec *Record) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.records = append([]*Record{rec}, a.records...)
}

// Remove deletes the record with the given ID. Removing an absent
// record is a no-op.
func (a *Archive) Remove(id core.ID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.records {
		if a.records[i].ID == id {
			a.records = append(a.records[:i], a.records[i+1:]...)
			return
		}
	}
}

// Get returns the record with the given ID, if present.
func (a *Archive) Get(id core.ID) (*Record, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for i := range a.records {
		if a.records[i].ID == id {
			return a.records[i], true
		}
	}
	return nil, false
}

// List returns the records matching the filter, in stored order.
func (a *Archive) List(filter Filter) []*Record {
	a.mu.RLock()
	defer a.mu.RUnlock()
	query := strings.ToLower(filter.TextQuery)
	out := make([]*Record, 0, len(a.records))
	for _, rec := range a.records {
		if filter.Status != "" && filter.Status != StatusAll && rec.Status != filter.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(rec.Counterparty), query) &&
			!strings.Contains(strings.ToLower(rec.Summary), query) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// Stats summarizes the archive for the review dashboard cards.
type Stats struct {
	Total          int
	Completed      int
	Pending        int
	Messages       int
	Todos          int
	CompletedTodos int
	PendingTodos   int
}

// Stats computes archive-wide counters.
func (a *Archive) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var s Stats
	s.Total = len(a.records)
	for _, rec := range a.records {
		switch rec.Status {
		case StatusCompleted:
			s.Completed++
		case StatusPending:
			s.Pending++
		}
		s.Messages += len(rec.Log)
		s.Todos += len(rec.Todos)
		for _, todo := range rec.Todos {
			if todo.Status == TodoCompleted {
				s.CompletedTodos++
			} else {
				s.PendingTodos++
			}
		}
	}
	return s
}
