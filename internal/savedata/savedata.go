// Package savedata is a small persistent key/value store. Each store lives in
// its own namespace directory so unrelated data never collides.
package savedata

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"
)

// Store buffers writes in memory until Commit flushes them to disk.
type Store struct {
	d       *diskv.Diskv
	dir     string
	pending map[string][]byte
}

// Open returns the store for namespace name under dir, creating it if needed.
func Open(dir, name string) (*Store, error) {
	base := filepath.Join(dir, name)
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("savedata: create %s: %w", base, err)
	}
	tmp := filepath.Join(dir, "."+name+".tmp")
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return nil, fmt.Errorf("savedata: create %s: %w", tmp, err)
	}
	return &Store{
		d: diskv.New(diskv.Options{
			BasePath:          base,
			TempDir:           tmp,
			AdvancedTransform: keyToPathTransform,
			InverseTransform:  pathToKeyTransform,
			CacheSizeMax:      64 * 1024,
		}),
		dir:     base,
		pending: make(map[string][]byte),
	}, nil
}

// Dir is the namespace directory.
func (s *Store) Dir() string {
	return s.dir
}

// Has reports whether key holds a value, committed or not.
func (s *Store) Has(key string) bool {
	if _, ok := s.pending[key]; ok {
		return true
	}
	return s.d.Has(key)
}

// Get returns the value stored for key.
func (s *Store) Get(key string) ([]byte, error) {
	if val, ok := s.pending[key]; ok {
		return append([]byte(nil), val...), nil
	}
	return s.d.Read(key)
}

// Set stages value for key. It is not durable until Commit.
func (s *Store) Set(key string, value []byte) {
	s.pending[key] = append([]byte(nil), value...)
}

// Delete removes key from the store immediately.
func (s *Store) Delete(key string) error {
	delete(s.pending, key)
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}

// Commit writes every staged value, syncing each file before it replaces the
// previous one.
func (s *Store) Commit() error {
	keys := make([]string, 0, len(s.pending))
	for key := range s.pending {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := s.d.WriteStream(key, bytes.NewReader(s.pending[key]), true); err != nil {
			return fmt.Errorf("savedata: commit %q: %w", key, err)
		}
		delete(s.pending, key)
	}
	return nil
}

// Keys lists committed keys in sorted order.
func (s *Store) Keys(ctx context.Context) []string {
	var keys []string
	for key := range s.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// maxNameLen keeps each path element well below the 255-byte file name limit
// of common filesystems.
const maxNameLen = 128

// Keys may contain any character, including path separators, so file
// names are their base64 form. Long encodings are split into nested
// directories of at most maxNameLen bytes each.
func keyToPathTransform(key string) *diskv.PathKey {
	name := base64.RawURLEncoding.EncodeToString([]byte(key))
	var dirs []string
	for len(name) > maxNameLen {
		dirs = append(dirs, name[:maxNameLen])
		name = name[maxNameLen:]
	}
	return &diskv.PathKey{Path: dirs, FileName: name}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	name := strings.Join(pathKey.Path, "") + pathKey.FileName
	key, err := base64.RawURLEncoding.DecodeString(name)
	if err != nil {
		return name
	}
	return string(key)
}
