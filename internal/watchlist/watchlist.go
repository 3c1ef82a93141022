// Package watchlist holds the in-memory set of watched Server Bourse IDs.
// The list is process-scoped: it starts empty and is never persisted.
package watchlist

import (
	"errors"
	"strconv"
	"sync"
	"time"

	domain "github.com/donaldgifford/sb-price-watch/pkg/types"
)

var (
	// ErrInvalidID is returned when an ID is not a non-negative base-10 integer.
	ErrInvalidID = errors.New("invalid server ID")
	// ErrDuplicateID is returned when the ID is already on the watch list.
	ErrDuplicateID = errors.New("server ID already watched")
)

// Store is an insertion-ordered, mutex-guarded watch list.
type Store struct {
	mu      sync.Mutex
	entries []domain.WatchEntry
	nowFunc func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithNowFunc overrides the clock used for AddedAt.
func WithNowFunc(f func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = f
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ValidateID reports whether id is a syntactically valid server ID.
func ValidateID(id string) error {
	// 63 bits keeps every accepted ID representable as a feed int64.
	if _, err := strconv.ParseUint(id, 10, 63); err != nil {
		return ErrInvalidID
	}
	return nil
}

// Add appends a new entry with a zero previous price and empty datacenter.
func (s *Store) Add(id string) (domain.WatchEntry, error) {
	if err := ValidateID(id); err != nil {
		return domain.WatchEntry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		return domain.WatchEntry{}, ErrDuplicateID
	}

	e := domain.WatchEntry{ID: id, AddedAt: s.nowFunc()}
	s.entries = append(s.entries, e)
	return e, nil
}

// FindByID returns a copy of the entry with the given ID.
func (s *Store) FindByID(id string) (domain.WatchEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.WatchEntry{}, false
	}
	return s.entries[i], true
}

// RemoveByID deletes the entry with the given ID and reports whether it existed.
func (s *Store) RemoveByID(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// Update applies fn to the stored entry in place while holding the lock.
// It returns false if the entry no longer exists.
func (s *Store) Update(id string, fn func(*domain.WatchEntry)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	fn(&s.entries[i])
	return true
}

// IDs returns the watched IDs in insertion order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, len(s.entries))
	for i := range s.entries {
		ids[i] = s.entries[i].ID
	}
	return ids
}

// List returns a copy of all entries in insertion order.
func (s *Store) List() []domain.WatchEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.WatchEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Len returns the number of watched entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}
