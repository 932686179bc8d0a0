package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gravitas-games/baseplanner/internal/catalog"
	"github.com/gravitas-games/baseplanner/internal/config"
	"github.com/gravitas-games/baseplanner/internal/editor"
	"github.com/gravitas-games/baseplanner/internal/layout"
	"github.com/gravitas-games/baseplanner/internal/terminal"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/planner.yaml"
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// the screen owns stdout; logs go to a file or nowhere
	log.SetOutput(io.Discard)
	if cfg.Log.Verbose {
		f, err := os.OpenFile("planner-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cat, err := catalog.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	store, err := layout.OpenStore(cfg.Storage.AppName)
	if err != nil {
		log.Printf("Save slots disabled: %v", err)
		store = nil
	}

	ed := editor.New(cat,
		editor.WithGridSize(cfg.Board.GridSize),
		editor.WithBus(editor.NewSyncBus()),
	)

	screen, err := terminal.Open()
	if err != nil {
		return fmt.Errorf("failed to open terminal: %w", err)
	}
	defer screen.Fini()

	return terminal.New(screen, ed, store, cfg.Terminal.Tile).Run()
}
