package catalog

import (
	"io/fs"
	"log"
	"strings"
)

// ErrorPrefix marks the single entry returned when the directory cannot be listed.
const ErrorPrefix = "Error:"

// Source lists resource names at the catalog root.
type Source interface {
	List() ([]string, error)
}

// FSSource lists the regular files at the root of an fs.FS.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource creates a source reading the top level of fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// List returns the names of non-directory entries in directory order.
func (s *FSSource) List() ([]string, error) {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// Catalog filters a Source down to readable text files.
type Catalog struct {
	src  Source
	exts []string
}

// New returns a catalog accepting names that end in one of exts, compared
// case-insensitively.
func New(src Source, exts []string) *Catalog {
	lowered := make([]string, 0, len(exts))
	for _, ext := range exts {
		lowered = append(lowered, strings.ToLower(ext))
	}
	return &Catalog{src: src, exts: lowered}
}

// ListFiles returns the eligible file names in source order. When the source
// fails the result is a single entry starting with ErrorPrefix.
func (c *Catalog) ListFiles() []string {
	names, err := c.src.List()
	if err != nil {
		log.Printf("catalog: list: %v", err)
		return []string{ErrorPrefix + " " + err.Error()}
	}
	files := make([]string, 0, len(names))
	for _, name := range names {
		if c.isText(name) {
			files = append(files, name)
		}
	}
	return files
}

func (c *Catalog) isText(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range c.exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// IsError reports whether files is the error shape returned by ListFiles.
func IsError(files []string) bool {
	return len(files) > 0 && strings.HasPrefix(files[0], ErrorPrefix)
}
