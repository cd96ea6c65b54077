package refdata

import "sync/atomic"

// Holder publishes the current snapshot to concurrent readers.
// Snapshots are replaced wholesale, never modified.
type Holder struct {
	p atomic.Pointer[Store]
}

// NewHolder returns a holder serving s.
func NewHolder(s *Store) *Holder {
	h := &Holder{}
	h.p.Store(s)
	return h
}

// Get returns the current snapshot.
func (h *Holder) Get() *Store { return h.p.Load() }

// Set publishes a new snapshot.
func (h *Holder) Set(s *Store) { h.p.Store(s) }
