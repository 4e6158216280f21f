package nav

import "github.com/kyaoi/thumbooks/internal/paginate"

// Buttons is the set of buttons that went down since the previous poll.
type Buttons uint8

const (
	Up Buttons = 1 << iota
	Down
	Left
	Right
	A
	B
)

// Pressed reports whether any of want is in the set.
func (b Buttons) Pressed(want Buttons) bool {
	return b&want != 0
}

// State is either Menu or Reading.
type State interface {
	isState()
}

// Menu is the file-selection list. Top is the first visible entry. When
// Message is set the catalog was empty or failed and only B is accepted.
type Menu struct {
	Files    []string
	Selected int
	Top      int
	Message  string
}

// Reading shows one page of File starting at wrapped line Offset.
type Reading struct {
	File   string
	Offset int
	AtEOF  bool
	Page   paginate.Page
}

func (Menu) isState()    {}
func (Reading) isState() {}

// DeadEnd reports whether the menu can only be closed.
func (m Menu) DeadEnd() bool {
	return m.Message != ""
}

// MovePrevious selects the previous entry, wrapping from the first to the
// last, and scrolls the window of visible entries to keep it in view.
func (m Menu) MovePrevious(visible int) Menu {
	n := len(m.Files)
	if n == 0 {
		return m
	}
	m.Selected = (m.Selected - 1 + n) % n
	if m.Selected < m.Top {
		m.Top = m.Selected
	} else if m.Selected == n-1 {
		m.Top = max(0, n-visible)
	}
	return m
}

// MoveNext selects the next entry, wrapping from the last to the first.
func (m Menu) MoveNext(visible int) Menu {
	n := len(m.Files)
	if n == 0 {
		return m
	}
	m.Selected = (m.Selected + 1) % n
	if m.Selected >= m.Top+visible {
		m.Top++
	} else if m.Selected == 0 {
		m.Top = 0
	}
	return m
}

// clamp restores 0 <= Top <= Selected < Top+visible for the current files.
func (m Menu) clamp(visible int) Menu {
	n := len(m.Files)
	if n == 0 {
		m.Selected, m.Top = 0, 0
		return m
	}
	m.Selected = min(max(m.Selected, 0), n-1)
	m.Top = min(m.Top, max(0, n-visible))
	if m.Top > m.Selected {
		m.Top = m.Selected
	}
	if m.Selected >= m.Top+visible {
		m.Top = m.Selected - visible + 1
	}
	m.Top = max(m.Top, 0)
	return m
}
