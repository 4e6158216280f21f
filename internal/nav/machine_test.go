package nav

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/require"

	"github.com/kyaoi/thumbooks/internal/catalog"
	"github.com/kyaoi/thumbooks/internal/config"
	"github.com/kyaoi/thumbooks/internal/display"
	"github.com/kyaoi/thumbooks/internal/paginate"
)

type fakeCatalog struct {
	files []string
	calls int
}

func (c *fakeCatalog) ListFiles() []string {
	c.calls++
	return c.files
}

type fakeBookmarks struct {
	offsets map[string]int
	saves   []string
	err     error
}

func newFakeBookmarks() *fakeBookmarks {
	return &fakeBookmarks{offsets: map[string]int{}}
}

func (b *fakeBookmarks) Load(file string) int { return b.offsets[file] }

func (b *fakeBookmarks) Save(file string, offset int) error {
	b.saves = append(b.saves, fmt.Sprintf("%s=%d", file, offset))
	if b.err != nil {
		return b.err
	}
	b.offsets[file] = offset
	return nil
}

// numbered returns a book with n single-word raw lines.
func numbered(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "line%d\n", i)
	}
	return b.String()
}

type fixture struct {
	machine   *Machine
	catalog   *fakeCatalog
	bookmarks *fakeBookmarks
	pages     *paginate.Paginator
	grid      *display.Grid
}

func newFixture(t *testing.T, books map[string]string, order ...string) *fixture {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, body := range books {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	geo := config.DefaultGeometry()
	f := &fixture{
		catalog:   &fakeCatalog{files: order},
		bookmarks: newFakeBookmarks(),
		pages:     paginate.New(fsys, geo),
	}
	f.machine = New(geo, f.catalog, f.bookmarks, f.pages)
	f.grid = display.NewGrid(GridSize(geo))
	return f
}

func (f *fixture) press(buttons ...Buttons) {
	for _, b := range buttons {
		f.machine.Step(b)
		f.machine.Render(f.grid)
	}
}

func (f *fixture) menu(t *testing.T) Menu {
	t.Helper()
	s, ok := f.machine.State().(Menu)
	require.True(t, ok, "expected menu, got %T", f.machine.State())
	return s
}

func (f *fixture) reading(t *testing.T) Reading {
	t.Helper()
	s, ok := f.machine.State().(Reading)
	require.True(t, ok, "expected reading, got %T", f.machine.State())
	return s
}

func sevenBooks() []string {
	return []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt", "f.txt", "g.txt"}
}

func TestMenuWrapAround(t *testing.T) {
	f := newFixture(t, nil, sevenBooks()...)

	f.press(Up)
	m := f.menu(t)
	require.Equal(t, 6, m.Selected)
	require.Equal(t, 2, m.Top)

	f.press(Down)
	m = f.menu(t)
	require.Equal(t, 0, m.Selected)
	require.Equal(t, 0, m.Top)
}

func TestMenuScrollsDown(t *testing.T) {
	f := newFixture(t, nil, sevenBooks()...)

	f.press(Down, Down, Down, Down)
	require.Equal(t, Menu{Files: sevenBooks(), Selected: 4, Top: 0}, f.menu(t))

	f.press(Down)
	require.Equal(t, 5, f.menu(t).Selected)
	require.Equal(t, 1, f.menu(t).Top)

	f.press(Up, Up)
	require.Equal(t, 3, f.menu(t).Selected)
	require.Equal(t, 1, f.menu(t).Top)

	f.press(Up, Up, Up)
	require.Equal(t, 0, f.menu(t).Selected)
	require.Equal(t, 0, f.menu(t).Top)
}

func TestMenuSelectionAlwaysVisible(t *testing.T) {
	f := newFixture(t, nil, sevenBooks()...)
	seq := []Buttons{Up, Up, Down, Down, Down, Up, Down, Down, Down, Down, Down, Down, Up}
	for _, b := range seq {
		f.press(b)
		m := f.menu(t)
		require.GreaterOrEqual(t, m.Selected, m.Top)
		require.Less(t, m.Selected, m.Top+5)
		require.GreaterOrEqual(t, m.Top, 0)
	}
}

func TestMenuShortCatalogSnapsToZero(t *testing.T) {
	f := newFixture(t, nil, "a.txt", "b.txt")
	f.press(Up)
	require.Equal(t, Menu{Files: []string{"a.txt", "b.txt"}, Selected: 1, Top: 0}, f.menu(t))
}

func TestMenuRender(t *testing.T) {
	f := newFixture(t, nil, "a-very-long-book-title.txt", "b.txt")
	f.press(Down)

	require.Equal(t, []string{
		"Select File:",
		" a-very-long-book-t",
		">b.txt",
		"",
		"",
		"",
	}, f.grid.Lines())
	require.Equal(t, display.Highlight, f.grid.Row(2)[0].Style)
	require.Equal(t, display.Normal, f.grid.Row(1)[0].Style)
}

func TestEmptyCatalogIsDeadEnd(t *testing.T) {
	f := newFixture(t, nil)
	f.press(Down, A, Up)
	require.True(t, f.menu(t).DeadEnd())
	require.False(t, f.machine.Done())
	require.Equal(t, "No files", f.grid.Lines()[0])

	f.press(B)
	require.True(t, f.machine.Done())
}

func TestCatalogErrorIsDeadEnd(t *testing.T) {
	f := newFixture(t, nil, catalog.ErrorPrefix+" permission denied")
	f.press(A)
	require.True(t, f.menu(t).DeadEnd())
	require.Equal(t, []string{"Error: permission", "denied", "", "", "", ""}, f.grid.Lines())

	f.press(B)
	require.True(t, f.machine.Done())
}

func TestMenuCloseEndsSession(t *testing.T) {
	f := newFixture(t, nil, "a.txt")
	f.press(B)
	require.True(t, f.machine.Done())

	frames := f.grid.Frames()
	f.press(A)
	require.Equal(t, frames+1, f.grid.Frames())
	require.True(t, f.machine.Done())
	require.Empty(t, f.bookmarks.saves)
}

func TestConfirmOpensAtBookmark(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": numbered(30)}, "a.txt")
	f.bookmarks.offsets["a.txt"] = 12

	f.press(A)
	r := f.reading(t)
	require.Equal(t, "a.txt", r.File)
	require.Equal(t, 12, r.Offset)
	require.Equal(t, []string{"line12", "line13", "line14", "line15", "line16", "line17"}, f.grid.Lines())
}

func TestPageForwardAndBackward(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": numbered(14)}, "a.txt")
	f.press(A)
	require.Equal(t, 0, f.reading(t).Offset)

	f.press(Right)
	require.Equal(t, 6, f.reading(t).Offset)
	require.False(t, f.reading(t).AtEOF)

	f.press(Right)
	r := f.reading(t)
	require.Equal(t, 12, r.Offset)
	require.True(t, r.AtEOF)
	require.Equal(t, []string{"line12", "line13"}, r.Page.Lines)

	f.press(Right)
	require.Equal(t, 12, f.reading(t).Offset, "page-forward is ignored at end of file")

	f.press(Left, Left)
	require.Equal(t, 0, f.reading(t).Offset)

	f.press(Left)
	require.Equal(t, 0, f.reading(t).Offset, "offset never goes negative")
}

func TestPageBackwardClampsAtZero(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": numbered(30)}, "a.txt")
	f.bookmarks.offsets["a.txt"] = 4
	f.press(A, Left)
	require.Equal(t, 0, f.reading(t).Offset)
}

func TestExactlyOnePageStopsForward(t *testing.T) {
	f := newFixture(t, map[string]string{"six.txt": numbered(6)}, "six.txt")
	f.press(A)
	require.True(t, f.reading(t).AtEOF)

	f.press(Right)
	require.Equal(t, 0, f.reading(t).Offset)
}

func TestJumpToStartAndBookmark(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": numbered(40)}, "a.txt")
	f.bookmarks.offsets["a.txt"] = 18

	f.press(A, Right)
	require.Equal(t, 24, f.reading(t).Offset)

	f.press(Up)
	require.Equal(t, 0, f.reading(t).Offset)

	f.press(Down)
	require.Equal(t, 18, f.reading(t).Offset)
	require.Empty(t, f.bookmarks.saves)
}

func TestMarkSavesAndStays(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": numbered(40)}, "a.txt")
	f.press(A, Right, Right, A)

	r := f.reading(t)
	require.Equal(t, 12, r.Offset)
	require.Equal(t, []string{"a.txt=12"}, f.bookmarks.saves)

	f.press(Up, Down)
	require.Equal(t, 12, f.reading(t).Offset)
}

func TestCloseBookmarksAndReopens(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": numbered(40), "b.txt": "b\n"}, "b.txt", "a.txt")
	f.press(Down, A, Right, Right)
	require.Equal(t, 12, f.reading(t).Offset)

	f.press(B)
	require.Equal(t, []string{"a.txt=12"}, f.bookmarks.saves)
	m := f.menu(t)
	require.Equal(t, 1, m.Selected, "selection is kept on return")
	require.Equal(t, 2, f.catalog.calls, "catalog is refetched on menu entry")

	f.press(A)
	require.Equal(t, 12, f.reading(t).Offset)
	want := f.pages.ComputePage("a.txt", 12)
	require.Equal(t, want.Lines, f.grid.Lines())
}

func TestReturnToMenuClampsSelection(t *testing.T) {
	f := newFixture(t, map[string]string{"g.txt": "g\n"}, sevenBooks()...)
	f.press(Up, A)
	f.catalog.files = []string{"a.txt", "b.txt"}

	f.press(B)
	require.Equal(t, Menu{Files: []string{"a.txt", "b.txt"}, Selected: 1, Top: 0}, f.menu(t))
}

func TestReturnToEmptyMenuIsDeadEnd(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": "a\n"}, "a.txt")
	f.press(A)
	f.catalog.files = nil

	f.press(B)
	require.True(t, f.menu(t).DeadEnd())
}

func TestReadErrorPageStaysInteractive(t *testing.T) {
	f := newFixture(t, nil, "gone.txt")
	f.bookmarks.offsets["gone.txt"] = 12

	f.press(A)
	r := f.reading(t)
	require.Equal(t, paginate.ReadError, r.Page.Kind)
	require.True(t, r.AtEOF)
	require.Equal(t, "Read error", f.grid.Lines()[0])

	f.press(Right)
	require.Equal(t, 12, f.reading(t).Offset)

	f.press(Left)
	require.Equal(t, 6, f.reading(t).Offset)

	f.press(B)
	require.Equal(t, []string{"gone.txt=6"}, f.bookmarks.saves)
	f.menu(t)
}

func TestSaveFailureKeepsSessionAlive(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": numbered(20)}, "a.txt")
	f.bookmarks.err = errors.New("disk full")
	f.press(A, Right, A, B)
	f.menu(t)
	require.False(t, f.machine.Done())
}

func TestShutdownSavesOpenBook(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": numbered(20)}, "a.txt")
	f.press(A, Right)
	f.machine.Shutdown()
	require.True(t, f.machine.Done())
	require.Equal(t, []string{"a.txt=6"}, f.bookmarks.saves)

	f.machine.Shutdown()
	require.Len(t, f.bookmarks.saves, 1)
}

func TestRefreshRepaginates(t *testing.T) {
	fsys := fstest.MapFS{"a.txt": &fstest.MapFile{Data: []byte("old\n")}}
	geo := config.DefaultGeometry()
	m := New(geo, &fakeCatalog{files: []string{"a.txt"}}, newFakeBookmarks(), paginate.New(fsys, geo))
	m.Step(A)

	fsys["a.txt"] = &fstest.MapFile{Data: []byte("new\n")}
	m.Refresh()
	require.Equal(t, []string{"new"}, m.State().(Reading).Page.Lines)
}

func TestEveryStepRendersOnce(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": numbered(20)}, "a.txt")
	f.press(0, 0, A, Right)
	require.Equal(t, 4, f.grid.Frames())
}

func TestLongWordIsRenderedWhole(t *testing.T) {
	f := newFixture(t, map[string]string{"a.txt": "a supercalifragilisticexpialidocious b\n"}, "a.txt")
	f.press(A)

	page := f.reading(t).Page
	require.Equal(t, "supercalifragilisticexpialidocious", page.Lines[1])
	require.Equal(t, page.Lines, f.grid.Lines()[:len(page.Lines)])
}

func TestReadErrorPageIsRenderedWhole(t *testing.T) {
	f := newFixture(t, nil, "missing.txt")
	f.press(A)

	page := f.reading(t).Page
	require.Equal(t, paginate.ReadError, page.Kind)
	require.Len(t, page.Lines, 3)
	require.Greater(t, len(page.Lines[2]), config.DefaultGeometry().CharsPerLine)
	require.Equal(t, page.Lines, f.grid.Lines()[:3])
}

func TestLongCatalogErrorIsRenderedWhole(t *testing.T) {
	msg := catalog.ErrorPrefix + " open /media/books/library: input/output error on a very slow card reader"
	f := newFixture(t, nil, msg)
	f.press(A)

	var shown []string
	for _, line := range f.grid.Lines() {
		if line != "" {
			shown = append(shown, line)
		}
	}
	require.Equal(t, strings.Fields(msg), strings.Fields(strings.Join(shown, " ")))
}

func TestMenuTruncatesWideNamesByCells(t *testing.T) {
	f := newFixture(t, nil, "日本語の長い本のタイトルです.txt", "b.txt")
	f.press(Down)

	row := f.grid.Lines()[1]
	require.True(t, strings.HasPrefix(row, " 日本語"), row)
	require.LessOrEqual(t, runewidth.StringWidth(row), config.DefaultGeometry().CharsPerLine+1)
}
