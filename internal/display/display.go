// Package display is the character-grid surface the reader draws on.
package display

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Style selects how a cell is drawn.
type Style uint8

const (
	Normal Style = iota
	Highlight
)

// Surface is a monospace character grid. Callers clear it, draw every line
// of the view and present it once.
type Surface interface {
	Clear()
	DrawText(text string, x, y int, style Style)
	Present()
}

// Cell is one grid position. Rune is 0 for the right half of a wide rune.
type Cell struct {
	Rune  rune
	Style Style
}

// Grid is an in-memory Surface with a back buffer for drawing and a front
// buffer holding the last presented frame. The base size is a minimum: text
// drawn past the right or bottom edge grows the back buffer, and Clear
// shrinks it back.
type Grid struct {
	width  int
	height int
	back   [][]Cell
	front  [][]Cell
	frames int
}

// NewGrid returns a blank grid of at least width x height cells.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: max(width, 0), height: max(height, 0)}
	g.back = blank(g.width, g.height)
	g.front = blank(g.width, g.height)
	return g
}

func blank(width, height int) [][]Cell {
	rows := make([][]Cell, height)
	for y := range rows {
		rows[y] = blankRow(width)
	}
	return rows
}

func blankRow(width int) []Cell {
	row := make([]Cell, width)
	for x := range row {
		row[x] = Cell{Rune: ' '}
	}
	return row
}

// Size returns the dimensions of the presented frame in cells.
func (g *Grid) Size() (int, int) {
	return frameSize(g.front, g.width)
}

func frameSize(rows [][]Cell, minWidth int) (int, int) {
	if len(rows) == 0 {
		return minWidth, 0
	}
	return len(rows[0]), len(rows)
}

// Clear blanks the back buffer and restores the base size.
func (g *Grid) Clear() {
	g.back = blank(g.width, g.height)
}

// grow widens and lengthens the back buffer to hold at least width x height
// cells, keeping every row the same length.
func (g *Grid) grow(width, height int) {
	cur, _ := frameSize(g.back, g.width)
	if width > cur {
		for y := range g.back {
			g.back[y] = append(g.back[y], blankRow(width-cur)...)
		}
		cur = width
	}
	for len(g.back) < height {
		g.back = append(g.back, blankRow(cur))
	}
}

// DrawText writes text starting at column x of row y, growing the grid when
// the text does not fit. Cells left of column 0 or above row 0 are dropped,
// as are zero-width runes.
func (g *Grid) DrawText(text string, x, y int, style Style) {
	if y < 0 {
		return
	}
	col := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col >= 0 {
			g.grow(col+w, y+1)
			g.back[y][col] = Cell{Rune: r, Style: style}
			if w == 2 {
				g.back[y][col+1] = Cell{Rune: 0, Style: style}
			}
		}
		col += w
	}
}

// Present makes the back buffer the visible frame.
func (g *Grid) Present() {
	g.front = make([][]Cell, len(g.back))
	for y, row := range g.back {
		g.front[y] = append([]Cell(nil), row...)
	}
	g.frames++
}

// Frames counts calls to Present.
func (g *Grid) Frames() int {
	return g.frames
}

// Row returns the cells of presented row y.
func (g *Grid) Row(y int) []Cell {
	if y < 0 || y >= len(g.front) {
		return nil
	}
	return append([]Cell(nil), g.front[y]...)
}

// Lines returns the presented frame as text with trailing spaces removed.
func (g *Grid) Lines() []string {
	lines := make([]string, len(g.front))
	for y, row := range g.front {
		var b strings.Builder
		for _, c := range row {
			if c.Rune != 0 {
				b.WriteRune(c.Rune)
			}
		}
		lines[y] = strings.TrimRight(b.String(), " ")
	}
	return lines
}

// String is the presented frame joined by newlines.
func (g *Grid) String() string {
	return strings.Join(g.Lines(), "\n")
}
