package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

// ErrInvalidGeometry is returned when a page or menu dimension is not positive.
var ErrInvalidGeometry = errors.New("config: page and menu dimensions must be positive")

// ErrNoStoreName is returned when the save namespace is empty.
var ErrNoStoreName = errors.New("config: store name must not be empty")

// Geometry holds the fixed display dimensions shared by the paginator and
// the navigation state machine.
type Geometry struct {
	LinesPerPage     int `toml:"lines_per_page"`
	CharsPerLine     int `toml:"chars_per_line"`
	MenuItemsVisible int `toml:"menu_items_visible"`
}

// Config is built once at startup and handed to every component.
type Config struct {
	Root       string   `toml:"root"`
	DataDir    string   `toml:"data_dir"`
	StoreName  string   `toml:"store_name"`
	Extensions []string `toml:"extensions"`
	LogFile    string   `toml:"log_file"`
	Geometry   Geometry `toml:"geometry"`
}

// DefaultGeometry matches a 72x40 screen using a 3x5 font.
func DefaultGeometry() Geometry {
	return Geometry{
		LinesPerPage:     6,
		CharsPerLine:     18,
		MenuItemsVisible: 5,
	}
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Root:       ".",
		DataDir:    "~/.thumbooks",
		StoreName:  "ThumBooks",
		Extensions: []string{".txt"},
		Geometry:   DefaultGeometry(),
	}
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("root", d.Root)
	v.SetDefault("data_dir", d.DataDir)
	v.SetDefault("store_name", d.StoreName)
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("geometry.lines_per_page", d.Geometry.LinesPerPage)
	v.SetDefault("geometry.chars_per_line", d.Geometry.CharsPerLine)
	v.SetDefault("geometry.menu_items_visible", d.Geometry.MenuItemsVisible)
}

// NewViper returns a viper instance that reads .thumbooks.* files and
// THUMBOOKS_* environment variables.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigName(".thumbooks")
	v.SetEnvPrefix("THUMBOOKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file and returns the resolved configuration.
// An explicit file set with v.SetConfigFile must exist.
func Load(v *viper.Viper) (Config, error) {
	if v.ConfigFileUsed() == "" {
		if override := os.Getenv("THUMBOOKS_CONFIG_PATH"); override != "" {
			v.AddConfigPath(override)
		}
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := Config{
		Root:       v.GetString("root"),
		DataDir:    v.GetString("data_dir"),
		StoreName:  v.GetString("store_name"),
		Extensions: normalizeExtensions(v.GetStringSlice("extensions")),
		LogFile:    v.GetString("log_file"),
		Geometry: Geometry{
			LinesPerPage:     v.GetInt("geometry.lines_per_page"),
			CharsPerLine:     v.GetInt("geometry.chars_per_line"),
			MenuItemsVisible: v.GetInt("geometry.menu_items_visible"),
		},
	}

	var err error
	if cfg.Root, err = expand(cfg.Root); err != nil {
		return Config{}, err
	}
	if cfg.DataDir, err = expand(cfg.DataDir); err != nil {
		return Config{}, err
	}
	if cfg.LogFile, err = expand(cfg.LogFile); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether the configuration can drive a session.
func (c Config) Validate() error {
	if err := c.Geometry.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.StoreName) == "" {
		return ErrNoStoreName
	}
	return nil
}

// Validate reports whether every dimension is positive.
func (g Geometry) Validate() error {
	if g.LinesPerPage <= 0 || g.CharsPerLine <= 0 || g.MenuItemsVisible <= 0 {
		return fmt.Errorf("%w: %+v", ErrInvalidGeometry, g)
	}
	return nil
}

// StorePath is the directory holding the save namespace.
func (c Config) StorePath() string {
	return filepath.Join(c.DataDir, c.StoreName)
}

// TOML renders the configuration in the config file format.
func (c Config) TOML() ([]byte, error) {
	return toml.Marshal(c)
}

func expand(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("config: expand %q: %w", path, err)
	}
	return expanded, nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
