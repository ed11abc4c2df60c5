package entities

import "time"

// Candidate belongs to the current election generation. IDs are assigned
// sequentially from 0 per generation and the whole set is cleared when a new
// election is created; individual candidates are never deleted.
type Candidate struct {
	ID           uint64
	Name         string
	Party        string
	Manifesto    string
	VoteCount    uint64
	Active       bool
	RegisteredAt time.Time
}
