package app

import (
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kyaoi/thumbooks/internal/config"
	"github.com/kyaoi/thumbooks/internal/ui"
)

// Run executes the Bubble Tea program for the reader.
func Run(cfg config.Config) error {
	closeLog, err := setupLogging(cfg.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	services, err := NewServices(cfg)
	if err != nil {
		return err
	}
	log.Printf("app: reading %s, bookmarks in %s", services.RootDir, services.Store.Dir())
	return runProgram(LoadInitialState(services))
}

func runProgram(state ui.State) error {
	program := tea.NewProgram(ui.NewModel(state), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// setupLogging points the standard logger at path, or discards output so the
// alternate screen stays clean.
func setupLogging(path string) (func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return func() {}, nil
	}
	f, err := tea.LogToFile(path, "thumbooks")
	if err != nil {
		return nil, err
	}
	return func() { _ = f.Close() }, nil
}
