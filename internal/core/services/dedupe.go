package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/akash-d122/helpdesk-triage/internal/core/domain"
)

// duplicateEntry is one remembered ticket vector.
type duplicateEntry struct {
	tokens map[string]struct{}
	seenAt time.Time
}

// DuplicateDetector flags tickets whose stemmed-token sets are near
// duplicates of recently seen tickets. Entries older than the window
// are evicted lazily on each call; under low traffic stale entries may
// linger until the next call, which is acceptable at-most-eventual
// cleanup rather than a strict TTL.
//
// Safe for concurrent use.
type DuplicateDetector struct {
	mu        sync.Mutex
	entries   map[string]duplicateEntry
	window    time.Duration
	threshold float64
	now       func() time.Time
}

// NewDuplicateDetector creates a detector with the given similarity
// threshold and retention window.
func NewDuplicateDetector(threshold float64, window time.Duration) *DuplicateDetector {
	return &DuplicateDetector{
		entries:   make(map[string]duplicateEntry),
		window:    window,
		threshold: threshold,
		now:       time.Now,
	}
}

// Check compares the ticket's token set against the cache, returns any
// matches at or above the threshold, and then remembers the ticket.
func (d *DuplicateDetector) Check(ticketID string, tokens map[string]struct{}) []domain.DuplicateMatch {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	cutoff := now.Add(-d.window)
	for id, entry := range d.entries {
		if entry.seenAt.Before(cutoff) {
			delete(d.entries, id)
		}
	}

	var matches []domain.DuplicateMatch
	if len(tokens) > 0 {
		for id, entry := range d.entries {
			if id == ticketID {
				continue
			}
			sim := jaccard(tokens, entry.tokens)
			if sim >= d.threshold {
				matches = append(matches, domain.DuplicateMatch{
					TicketID:   id,
					Similarity: sim,
					Reason:     fmt.Sprintf("token overlap %.0f%% with recent ticket", sim*100),
				})
			}
		}
		d.entries[ticketID] = duplicateEntry{tokens: tokens, seenAt: now}
	}
	return matches
}

// Size returns the number of remembered ticket vectors.
func (d *DuplicateDetector) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.entries)
}
