package ui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/kyaoi/thumbooks/internal/nav"
)

func (m *Model) startWatching(dir string) tea.Cmd {
	if err := m.ensureWatcher(); err != nil {
		m.err = err
		return nil
	}
	if err := m.watcher.Add(filepath.Clean(dir)); err != nil {
		m.err = err
		return nil
	}
	return m.waitForFileEvent()
}

func (m *Model) ensureWatcher() error {
	if m.watcher != nil {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher
	m.watchChan = make(chan tea.Msg, 10)
	m.watchDone = make(chan struct{})

	go m.watchLoop()
	return nil
}

func (m *Model) watchLoop() {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !m.forward(fileEventMsg{path: event.Name, op: event.Op}) {
				return
			}
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			if !m.forward(fileWatchErrMsg{err: err}) {
				return
			}
		}
	}
}

// forward hands msg to the program, giving up once the watcher is stopped.
func (m *Model) forward(msg tea.Msg) bool {
	select {
	case m.watchChan <- msg:
		return true
	case <-m.watchDone:
		return false
	}
}

// stopWatching closes the watcher and releases a blocked watchLoop.
func (m *Model) stopWatching() {
	if m.watcher == nil {
		return
	}
	select {
	case <-m.watchDone:
		return
	default:
	}
	close(m.watchDone)
	_ = m.watcher.Close()
}

func (m *Model) waitForFileEvent() tea.Cmd {
	if m.watchChan == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-m.watchChan
		if !ok {
			return nil
		}
		return msg
	}
}

// handleFileEvent re-paginates the open book when it changes on disk. The
// catalog is only refreshed when the menu is entered again.
func (m *Model) handleFileEvent(msg fileEventMsg) tea.Cmd {
	reading, ok := m.machine.State().(nav.Reading)
	if ok && filepath.Base(msg.path) == reading.File {
		m.machine.Refresh()
		m.machine.Render(m.grid)
	}
	return m.waitForFileEvent()
}
