// Package paginate turns a plain-text file into fixed-size pages of
// word-wrapped lines. Every page request re-scans the file from its first
// byte and keeps only the requested window in memory; no line index survives
// between calls.
package paginate

import (
	"errors"
	"io/fs"
	"log"

	"github.com/kyaoi/thumbooks/internal/config"
)

// Kind classifies what a Page holds.
type Kind int

const (
	// Content is a window of wrapped document lines.
	Content Kind = iota
	// EndOfFile is the single-line page returned past the last wrapped line.
	EndOfFile
	// ReadError is a diagnostic page for a file that could not be read.
	ReadError
)

func (k Kind) String() string {
	switch k {
	case Content:
		return "content"
	case EndOfFile:
		return "eof"
	case ReadError:
		return "read-error"
	default:
		return "unknown"
	}
}

// EOFLine is the text of the end-of-file page.
const EOFLine = "EOF reached"

// Page is one screenful of wrapped lines.
type Page struct {
	Lines []string
	// Last is true when no wrapped line follows the page, including the
	// end-of-file and read-error pages.
	Last bool
	Kind Kind
	Err  error
}

// Paginator computes pages for files in fsys.
type Paginator struct {
	fsys         fs.FS
	linesPerPage int
	charsPerLine int
}

// New returns a paginator over fsys using the page geometry in geo.
func New(fsys fs.FS, geo config.Geometry) *Paginator {
	return &Paginator{
		fsys:         fsys,
		linesPerPage: geo.LinesPerPage,
		charsPerLine: geo.CharsPerLine,
	}
}

// ComputePage returns the page of name starting at the wrapped line offset.
// Negative offsets are treated as 0. Results depend only on the arguments and
// the file contents.
func (p *Paginator) ComputePage(name string, offset int) Page {
	if offset < 0 {
		offset = 0
	}

	f, err := p.fsys.Open(name)
	if err != nil {
		return readErrorPage(name, err)
	}
	defer f.Close()

	// Scan one line past the window so a full final page is reported as last.
	end := offset + p.linesPerPage
	window := make([]string, 0, p.linesPerPage)
	produced := 0
	err = scan(f, p.charsPerLine, func(line string) error {
		if produced >= offset && produced < end {
			window = append(window, line)
		}
		produced++
		if produced > end {
			return errStop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStop) {
		return readErrorPage(name, err)
	}

	if len(window) == 0 {
		return Page{Lines: []string{EOFLine}, Last: true, Kind: EndOfFile}
	}
	return Page{
		Lines: window,
		Last:  produced <= end,
		Kind:  Content,
	}
}

func readErrorPage(name string, err error) Page {
	log.Printf("paginate: read %s: %v", name, err)
	return Page{
		Lines: []string{"Read error", "Check file!", err.Error()},
		Last:  true,
		Kind:  ReadError,
		Err:   err,
	}
}
