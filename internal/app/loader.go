package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kyaoi/thumbooks/internal/bookmark"
	"github.com/kyaoi/thumbooks/internal/catalog"
	"github.com/kyaoi/thumbooks/internal/config"
	"github.com/kyaoi/thumbooks/internal/nav"
	"github.com/kyaoi/thumbooks/internal/paginate"
	"github.com/kyaoi/thumbooks/internal/savedata"
	"github.com/kyaoi/thumbooks/internal/ui"
)

// ErrNotDir is returned when the configured root is not a directory.
var ErrNotDir = errors.New("path is not a directory")

// Services are the reader components built from one configuration.
type Services struct {
	Config    config.Config
	RootDir   string
	Catalog   *catalog.Catalog
	Pages     *paginate.Paginator
	Store     *savedata.Store
	Bookmarks *bookmark.Store
}

// NewServices resolves the root directory and opens the bookmark store.
func NewServices(cfg config.Config) (*Services, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", root, ErrNotDir)
	}

	store, err := savedata.Open(cfg.DataDir, cfg.StoreName)
	if err != nil {
		return nil, err
	}

	fsys := os.DirFS(root)
	return &Services{
		Config:    cfg,
		RootDir:   root,
		Catalog:   catalog.New(catalog.NewFSSource(fsys), cfg.Extensions),
		Pages:     paginate.New(fsys, cfg.Geometry),
		Store:     store,
		Bookmarks: bookmark.New(store),
	}, nil
}

// NewMachine starts a navigation session in the menu.
func (s *Services) NewMachine() *nav.Machine {
	return nav.New(s.Config.Geometry, s.Catalog, s.Bookmarks, s.Pages)
}

// LoadInitialState prepares the UI state for a reading session.
func LoadInitialState(s *Services) ui.State {
	return ui.State{
		Machine:  s.NewMachine(),
		Geometry: s.Config.Geometry,
		RootDir:  s.RootDir,
	}
}
