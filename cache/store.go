package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Kind names one of the independent cached resources. Each kind has its own
// staleness rule; entries of different kinds never share keys.
type Kind string

const (
	KindBalances   Kind = "balances"
	KindIcons      Kind = "icons"
	KindAssetLists Kind = "asset_lists"
	KindDomains    Kind = "domains"
)

// ttls holds the fixed per-kind staleness rule. Entries older than their
// kind's TTL are treated as absent.
var ttls = map[Kind]time.Duration{
	KindBalances:   3 * time.Minute,
	KindIcons:      24 * time.Hour,
	KindAssetLists: time.Hour,
	KindDomains:    24 * time.Hour,
}

type entry struct {
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store is a keyed read-through cache shared by every pipeline call site
// (balance fetch, icon fetch, list aggregation, home-domain lookup). It is
// always passed explicitly so tests can substitute a fresh instance; there
// is no package-level instance.
//
// Writes replace the whole value for a key; readers get either the old or
// the fully-replaced new value, never a partial merge.
type Store struct {
	mu   sync.Mutex
	data map[string]entry
	path string // "" means in-memory only

	// now is replaceable in tests to exercise TTL expiry.
	now func() time.Time
}

// NewStore creates an in-memory Store.
func NewStore() *Store {
	return &Store{
		data: map[string]entry{},
		now:  time.Now,
	}
}

// NewPersistentStore creates a Store backed by a JSON file at path. A
// missing or unreadable file starts the store empty; load errors are
// swallowed the same way the wallet session cache always has.
func NewPersistentStore(path string) *Store {
	s := NewStore()
	s.path = path
	content, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	loaded := map[string]entry{}
	if err = json.Unmarshal(content, &loaded); err != nil {
		return s
	}
	s.data = loaded
	return s
}

func cacheKey(kind Kind, network, key string) string {
	return strings.ToLower(fmt.Sprintf("%s/%s/%s", kind, network, key))
}

// Lookup returns the cached value for (kind, network, key) when one exists
// and is within its kind's TTL.
func (s *Store) Lookup(kind Kind, network, key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, found := s.data[cacheKey(kind, network, key)]
	if !found {
		return nil, false
	}
	if s.now().Sub(e.UpdatedAt) >= ttls[kind] {
		return nil, false
	}
	return e.Value, true
}

// Write stores value under (kind, network, key), replacing any previous
// entry wholesale and stamping it with the current time.
func (s *Store) Write(kind Kind, network, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[cacheKey(kind, network, key)] = entry{
		Value:     value,
		UpdatedAt: s.now(),
	}
	return s.persist()
}

// Invalidate drops the entry for (kind, network, key). Used after an
// operation that is known to change the underlying resource, e.g. a
// balance-changing transaction.
func (s *Store) Invalidate(kind Kind, network, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, cacheKey(kind, network, key))
	return s.persist()
}

// LookupJSON unmarshals a cached value into out. A hit with a value that no
// longer unmarshals is treated as a miss.
func (s *Store) LookupJSON(kind Kind, network, key string, out any) bool {
	raw, found := s.Lookup(kind, network, key)
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false
	}
	return true
}

// WriteJSON marshals value and stores it under (kind, network, key).
func (s *Store) WriteJSON(kind Kind, network, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Write(kind, network, key, raw)
}

// persist flushes the whole store to disk. Callers must hold s.mu.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	jsonData, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, jsonData, 0644)
}
