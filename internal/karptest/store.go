package karptest

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/spraakbanken/karp-client-go/models"
)

// Store holds the entries and API keys a fake backend serves from.
type Store struct {
	mu      sync.RWMutex
	entries []models.EntryDto
	keys    [][]byte // bcrypt hashed
}

// NewStore creates a store holding entries.
func NewStore(entries ...models.EntryDto) *Store {
	return &Store{entries: entries}
}

// Add appends entries to the store.
func (s *Store) Add(entries ...models.EntryDto) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entries...)
}

// Entries returns a copy of all entries.
func (s *Store) Entries() []models.EntryDto {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.EntryDto, len(s.entries))
	copy(out, s.entries)
	return out
}

// AddAPIKey makes key valid. Once a key is added, requests without a
// valid api_key are rejected.
func (s *Store) AddAPIKey(key string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	if err != nil {
		return errors.Wrap(err, "failed to hash api key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, hash)
	return nil
}

// Authorized reports whether key may query the store.
func (s *Store) Authorized(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.keys) == 0 {
		return true
	}
	for _, hash := range s.keys {
		if bcrypt.CompareHashAndPassword(hash, []byte(key)) == nil {
			return true
		}
	}
	return false
}
