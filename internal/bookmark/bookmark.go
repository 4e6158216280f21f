package bookmark

import (
	"fmt"
	"log"
	"strconv"
	"strings"
)

// KV is the persistence the bookmarks are kept in.
type KV interface {
	Has(key string) bool
	Get(key string) ([]byte, error)
	Set(key string, value []byte)
	Commit() error
}

// Store maps file identifiers to line offsets.
type Store struct {
	kv KV
}

// New wraps kv.
func New(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns the saved offset for file, or 0 when none is saved or the
// saved value is unreadable.
func (s *Store) Load(file string) int {
	if !s.kv.Has(file) {
		return 0
	}
	raw, err := s.kv.Get(file)
	if err != nil {
		log.Printf("bookmark: read %q: %v", file, err)
		return 0
	}
	offset, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil || offset < 0 {
		log.Printf("bookmark: ignoring bad value %q for %q", raw, file)
		return 0
	}
	return offset
}

// Save records offset for file and commits it.
func (s *Store) Save(file string, offset int) error {
	if offset < 0 {
		offset = 0
	}
	s.kv.Set(file, []byte(strconv.Itoa(offset)))
	if err := s.kv.Commit(); err != nil {
		return fmt.Errorf("bookmark: save %q: %w", file, err)
	}
	log.Printf("bookmark: %q at line %d", file, offset)
	return nil
}
