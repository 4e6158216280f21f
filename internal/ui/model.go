package ui

import (
	"fmt"
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	styles "github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/fsnotify/fsnotify"

	"github.com/kyaoi/thumbooks/internal/config"
	"github.com/kyaoi/thumbooks/internal/display"
	"github.com/kyaoi/thumbooks/internal/nav"
	"github.com/kyaoi/thumbooks/internal/paginate"
)

const helpMarkdown = `# ThumBooks

| key | menu | reading |
|---|---|---|
| ↑ / k | previous book | back to the beginning |
| ↓ / j | next book | back to the bookmark |
| ← / h | | previous page |
| → / l | | next page |
| enter / a | open book | set bookmark |
| esc / b | quit | close book (bookmarks it) |

Press **?** or **esc** to close this help.
`

var (
	screenBorderColor = lipgloss.Color("#7aa2f7")
	lineStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#c0caf5"))
	selectedStyle     = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#1a1b26")).
				Background(lipgloss.Color("#7aa2f7")).
				Bold(true)
	screenStyle = lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(screenBorderColor).
			Background(lipgloss.Color("#1a1b26"))
	statusStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#a9b1d6")).
			Background(lipgloss.Color("#1f2335"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff6b6b"))
	helpBoxStyle = lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Background(lipgloss.Color("#1f2335"))
)

// Model implements the Bubble Tea program for the reader. Each key press is
// one poll cycle of the navigation machine.
type Model struct {
	machine  *nav.Machine
	geo      config.Geometry
	grid     *display.Grid
	keys     keyMap
	help     help.Model
	showHelp bool
	helpText string
	width    int
	height   int
	err      error

	rootDir   string
	watcher   *fsnotify.Watcher
	watchChan chan tea.Msg
	watchDone chan struct{}
}

type fileEventMsg struct {
	path string
	op   fsnotify.Op
}

type fileWatchErrMsg struct {
	err error
}

// NewModel constructs the reader model with the provided initial state.
func NewModel(state State) *Model {
	m := &Model{
		machine: state.Machine,
		geo:     state.Geometry,
		grid:    display.NewGrid(nav.GridSize(state.Geometry)),
		keys:    newKeyMap(),
		help:    help.New(),
		rootDir: state.RootDir,
	}
	m.machine.Render(m.grid)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.rootDir == "" {
		return nil
	}
	return m.startWatching(m.rootDir)
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case fileEventMsg:
		return m, m.handleFileEvent(msg)
	case fileWatchErrMsg:
		m.err = msg.err
		log.Printf("ui: watch: %v", msg.err)
		return m, m.waitForFileEvent()
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.helpText = ""
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.machine.Shutdown()
		return m.quit()
	}

	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		}
		return nil
	}
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = true
		return nil
	}

	m.err = nil
	m.machine.Step(m.keys.buttons(msg))
	m.machine.Render(m.grid)
	if m.machine.Done() {
		return m.quit()
	}
	return nil
}

func (m *Model) quit() tea.Cmd {
	m.stopWatching()
	return tea.Quit
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.showHelp {
		overlay := helpBoxStyle.Render(m.renderHelp())
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay)
		}
		return overlay
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		screenStyle.Render(m.renderGrid()),
		statusStyle.Render(m.statusLine()),
		m.help.View(m.keys),
	)
	if m.err != nil {
		errLine := errStyle.Render(m.err.Error())
		body = lipgloss.JoinVertical(lipgloss.Left, errLine, body)
	}
	return body
}

func (m *Model) renderGrid() string {
	_, rows := m.grid.Size()
	var builder strings.Builder
	for y := 0; y < rows; y++ {
		var run strings.Builder
		current := display.Normal
		flush := func() {
			if run.Len() == 0 {
				return
			}
			builder.WriteString(styleFor(current).Render(run.String()))
			run.Reset()
		}
		for _, cell := range m.grid.Row(y) {
			if cell.Rune == 0 {
				continue
			}
			if cell.Style != current {
				flush()
				current = cell.Style
			}
			run.WriteRune(cell.Rune)
		}
		flush()
		if y < rows-1 {
			builder.WriteByte('\n')
		}
	}
	return builder.String()
}

func styleFor(s display.Style) lipgloss.Style {
	if s == display.Highlight {
		return selectedStyle
	}
	return lineStyle
}

func (m *Model) statusLine() string {
	switch s := m.machine.State().(type) {
	case nav.Menu:
		if s.DeadEnd() {
			return "no books"
		}
		return fmt.Sprintf("%d/%d books", s.Selected+1, len(s.Files))
	case nav.Reading:
		page := s.Offset/max(m.geo.LinesPerPage, 1) + 1
		switch s.Page.Kind {
		case paginate.EndOfFile:
			return fmt.Sprintf("%s · end", s.File)
		case paginate.ReadError:
			return fmt.Sprintf("%s · unreadable", s.File)
		}
		return fmt.Sprintf("%s · page %d · line %d", s.File, page, s.Offset)
	}
	return ""
}

func (m *Model) renderHelp() string {
	if m.helpText != "" {
		return m.helpText
	}
	width := m.width - helpBoxStyle.GetHorizontalFrameSize()
	rendered := helpMarkdown
	renderer, err := newRenderer(width)
	if err == nil {
		rendered, err = renderer.Render(helpMarkdown)
	}
	if err != nil {
		log.Printf("ui: help: %v", err)
		rendered = helpMarkdown
	}
	if width > 0 {
		lines := strings.Split(rendered, "\n")
		for i, line := range lines {
			lines[i] = ansi.Truncate(line, width, "")
		}
		rendered = strings.Join(lines, "\n")
	}
	m.helpText = strings.TrimRight(rendered, "\n")
	return m.helpText
}

func newRenderer(width int) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(styles.TokyoNightStyle)}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	} else {
		opts = append(opts, glamour.WithWordWrap(0))
	}
	return glamour.NewTermRenderer(opts...)
}
