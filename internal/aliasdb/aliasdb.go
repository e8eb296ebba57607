// internal/aliasdb/aliasdb.go
package aliasdb

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.etcd.io/bbolt"
)

var bucketAliases = []byte("aliases")

// Alias records who an entered name resolved to, so the next run can
// match it without asking again. Keys are folded entered names
// (namematch.AliasKey); the login is the stable side because roster
// display names can change between exports.
type Alias struct {
	SISLoginID string    `json:"sis_login_id"`
	Name       string    `json:"name"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Entry pairs a stored alias with its key, for listings.
type Entry struct {
	Key string
	Alias
}

// Store is a bbolt-backed alias database.
type Store struct {
	db *bbolt.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketAliases)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Put stores a under key, overwriting any previous resolution.
func (s *Store) Put(key string, a Alias) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(a)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketAliases).Put([]byte(key), data)
	})
}

// Get returns the alias stored under key; ok is false when absent.
func (s *Store) Get(key string) (Alias, bool, error) {
	var a Alias
	found := false
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketAliases).Get([]byte(key))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &a)
	})
	return a, found, err
}

// Lookup implements namematch.AliasLookup; storage errors read as a
// miss so a damaged entry degrades to the fuzzy stage.
func (s *Store) Lookup(key string) (string, bool) {
	a, ok, err := s.Get(key)
	if err != nil || !ok {
		return "", false
	}
	return a.SISLoginID, true
}

// List returns every stored alias sorted by key.
func (s *Store) List() ([]Entry, error) {
	var out []Entry
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAliases).ForEach(func(k, v []byte) error {
			var a Alias
			if err := json.Unmarshal(v, &a); err != nil {
				return err
			}
			out = append(out, Entry{Key: string(k), Alias: a})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}
