// Package nav drives the menu and reader views from button presses.
package nav

import (
	"log"

	"github.com/muesli/reflow/truncate"

	"github.com/kyaoi/thumbooks/internal/catalog"
	"github.com/kyaoi/thumbooks/internal/config"
	"github.com/kyaoi/thumbooks/internal/display"
	"github.com/kyaoi/thumbooks/internal/paginate"
)

const (
	menuTitle   = "Select File:"
	noFilesText = "No files"
)

// Catalog lists the books that can be opened.
type Catalog interface {
	ListFiles() []string
}

// Bookmarks persists one line offset per file.
type Bookmarks interface {
	Load(file string) int
	Save(file string, offset int) error
}

// Paginator computes the page of a file at a line offset.
type Paginator interface {
	ComputePage(file string, offset int) paginate.Page
}

// Machine holds the navigation state. It is not safe for concurrent use; a
// single poll loop owns it.
type Machine struct {
	geo       config.Geometry
	catalog   Catalog
	bookmarks Bookmarks
	pages     Paginator

	state    State
	lastMenu Menu
	done     bool
}

// New creates a machine in the menu state.
func New(geo config.Geometry, c Catalog, b Bookmarks, p Paginator) *Machine {
	m := &Machine{
		geo:       geo,
		catalog:   c,
		bookmarks: b,
		pages:     p,
	}
	m.enterMenu(Menu{})
	return m
}

// State returns the current variant.
func (m *Machine) State() State {
	return m.state
}

// Done reports whether the session has ended.
func (m *Machine) Done() bool {
	return m.done
}

// Step applies the buttons pressed during one poll cycle.
func (m *Machine) Step(in Buttons) {
	if m.done || in == 0 {
		return
	}
	switch s := m.state.(type) {
	case Menu:
		m.stepMenu(s, in)
	case Reading:
		m.stepReading(s, in)
	}
}

// Refresh recomputes the page being read, for when the file changed on disk.
func (m *Machine) Refresh() {
	if s, ok := m.state.(Reading); ok {
		m.state = m.paginate(s)
	}
}

// Shutdown ends the session, saving the open book's position first.
func (m *Machine) Shutdown() {
	if m.done {
		return
	}
	if s, ok := m.state.(Reading); ok {
		m.save(s)
	}
	m.done = true
}

func (m *Machine) stepMenu(s Menu, in Buttons) {
	if s.DeadEnd() {
		if in.Pressed(B) {
			m.done = true
		}
		return
	}

	visible := m.geo.MenuItemsVisible
	if in.Pressed(Up) {
		s = s.MovePrevious(visible)
	}
	if in.Pressed(Down) {
		s = s.MoveNext(visible)
	}
	m.state = s

	if in.Pressed(A) {
		m.lastMenu = s
		file := s.Files[s.Selected]
		m.state = m.paginate(Reading{File: file, Offset: m.bookmarks.Load(file)})
		return
	}
	if in.Pressed(B) {
		m.done = true
	}
}

func (m *Machine) stepReading(s Reading, in Buttons) {
	step := m.geo.LinesPerPage
	offset := s.Offset

	if in.Pressed(Left) && offset > 0 {
		offset = max(0, offset-step)
	}
	if in.Pressed(Right) && !s.AtEOF {
		offset += step
	}
	if in.Pressed(B) {
		s.Offset = offset
		m.save(s)
		m.enterMenu(m.lastMenu)
		return
	}
	if in.Pressed(Up) {
		offset = 0
	}
	if in.Pressed(Down) {
		offset = m.bookmarks.Load(s.File)
	}
	if in.Pressed(A) {
		s.Offset = offset
		m.save(s)
	}

	if offset != s.Offset {
		s.Offset = offset
		s = m.paginate(s)
	}
	m.state = s
}

func (m *Machine) paginate(s Reading) Reading {
	s.Page = m.pages.ComputePage(s.File, s.Offset)
	s.AtEOF = s.Page.Last
	return s
}

func (m *Machine) save(s Reading) {
	if err := m.bookmarks.Save(s.File, s.Offset); err != nil {
		log.Printf("nav: %v", err)
	}
}

// enterMenu refetches the catalog, keeping prev's selection where possible.
func (m *Machine) enterMenu(prev Menu) {
	files := m.catalog.ListFiles()
	switch {
	case len(files) == 0:
		m.state = Menu{Message: noFilesText}
	case catalog.IsError(files):
		m.state = Menu{Message: files[0]}
	default:
		m.state = Menu{
			Files:    files,
			Selected: prev.Selected,
			Top:      prev.Top,
		}.clamp(m.geo.MenuItemsVisible)
	}
}

// Render draws the current view onto s and presents it.
func (m *Machine) Render(s display.Surface) {
	s.Clear()
	switch st := m.state.(type) {
	case Menu:
		m.renderMenu(s, st)
	case Reading:
		for i, line := range st.Page.Lines {
			s.DrawText(line, 0, i, display.Normal)
		}
	}
	s.Present()
}

func (m *Machine) renderMenu(s display.Surface, st Menu) {
	if st.DeadEnd() {
		for i, line := range paginate.WrapString(st.Message, m.geo.CharsPerLine) {
			s.DrawText(line, 0, i, display.Normal)
		}
		return
	}

	s.DrawText(menuTitle, 0, 0, display.Normal)
	width := uint(m.geo.CharsPerLine)
	for i := 0; i < m.geo.MenuItemsVisible; i++ {
		idx := st.Top + i
		if idx >= len(st.Files) {
			break
		}
		marker, style := " ", display.Normal
		if idx == st.Selected {
			marker, style = ">", display.Highlight
		}
		s.DrawText(marker+truncate.String(st.Files[idx], width), 0, i+1, style)
	}
}

// GridSize is the base size of the grid a view is drawn on. Lines wider than
// CharsPerLine, such as an unbreakable word or a read error, grow the grid
// instead of being cut.
func GridSize(geo config.Geometry) (int, int) {
	return geo.CharsPerLine + 1, max(geo.LinesPerPage, geo.MenuItemsVisible+1)
}
