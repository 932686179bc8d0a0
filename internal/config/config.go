package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gravitas-games/baseplanner/internal/occupancy"
	"gopkg.in/yaml.v3"
)

// Config holds all planner configuration
type Config struct {
	Board    BoardConfig    `yaml:"board"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Storage  StorageConfig  `yaml:"storage"`
	Terminal TerminalConfig `yaml:"terminal"`
	Log      LogConfig      `yaml:"log"`
}

// BoardConfig holds grid and projection settings
type BoardConfig struct {
	GridSize     int     `yaml:"grid_size"`
	Tile         float64 `yaml:"tile"` // half-width of one cell's diamond, CSS px
	TopPadding   float64 `yaml:"top_padding"`
	CanvasWidth  int     `yaml:"canvas_width"`
	CanvasHeight int     `yaml:"canvas_height"`
}

// CatalogConfig points at a building catalog file
type CatalogConfig struct {
	Path string `yaml:"path"` // empty means the built-in catalog
}

// StorageConfig holds save slot settings
type StorageConfig struct {
	AppName string `yaml:"app_name"`
}

// TerminalConfig holds terminal surface settings
type TerminalConfig struct {
	Tile int `yaml:"tile"` // half-width of one cell in terminal columns
}

// LogConfig holds logging settings
type LogConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads path, falling back to Default when the file does not exist
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (cfg *Config) applyDefaults() {
	if cfg.Board.GridSize == 0 {
		cfg.Board.GridSize = 60
	}
	if cfg.Board.Tile == 0 {
		cfg.Board.Tile = 22
	}
	if cfg.Board.TopPadding == 0 {
		cfg.Board.TopPadding = 50
	}
	if cfg.Board.CanvasWidth == 0 {
		cfg.Board.CanvasWidth = 1280
	}
	if cfg.Board.CanvasHeight == 0 {
		cfg.Board.CanvasHeight = 800
	}
	if cfg.Storage.AppName == "" {
		cfg.Storage.AppName = "baseplanner"
	}
	if cfg.Terminal.Tile == 0 {
		cfg.Terminal.Tile = 2
	}
}

func (cfg *Config) validate() error {
	if n := cfg.Board.GridSize; n < 1 || n > occupancy.MaxSize {
		return fmt.Errorf("board.grid_size %d outside 1..%d", n, occupancy.MaxSize)
	}
	if cfg.Board.Tile < 0 || cfg.Board.TopPadding < 0 {
		return fmt.Errorf("board.tile and board.top_padding must not be negative")
	}
	if cfg.Board.CanvasWidth < 0 || cfg.Board.CanvasHeight < 0 {
		return fmt.Errorf("board canvas size %dx%d must not be negative", cfg.Board.CanvasWidth, cfg.Board.CanvasHeight)
	}
	if cfg.Terminal.Tile < 0 {
		return fmt.Errorf("terminal.tile %d must not be negative", cfg.Terminal.Tile)
	}
	return nil
}
