package ui

import (
	"github.com/kyaoi/thumbooks/internal/config"
	"github.com/kyaoi/thumbooks/internal/nav"
)

// State contains the data required to bootstrap the Bubble Tea model.
type State struct {
	Machine  *nav.Machine
	Geometry config.Geometry
	// RootDir is watched for changes to the open book. Empty disables watching.
	RootDir string
}
