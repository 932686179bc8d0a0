package main

import (
	"io"
	"log"
	"os"

	"github.com/gravitas-games/baseplanner/internal/catalog"
	"github.com/gravitas-games/baseplanner/internal/config"
	"github.com/gravitas-games/baseplanner/internal/editor"
	"github.com/gravitas-games/baseplanner/internal/iso"
	"github.com/gravitas-games/baseplanner/internal/layout"
	"github.com/gravitas-games/baseplanner/internal/surface"
)

func main() {
	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/planner.yaml"
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.Log.Verbose {
		log.SetOutput(io.Discard)
	}
	log.Printf("Configuration loaded from %s", configPath)

	cat, err := catalog.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Failed to load catalog: %v", err)
	}

	store, err := layout.OpenStore(cfg.Storage.AppName)
	if err != nil {
		// slots are optional
		log.Printf("Save slots disabled: %v", err)
		store = nil
	}

	ed := editor.New(cat,
		editor.WithGridSize(cfg.Board.GridSize),
		editor.WithTransform(iso.New(cfg.Board.Tile, float64(cfg.Board.CanvasWidth), cfg.Board.TopPadding)),
		editor.WithBus(editor.NewSyncBus()),
	)

	if len(os.Args) > 1 {
		if err := importFile(ed, os.Args[1]); err != nil {
			log.SetOutput(os.Stderr)
			log.Fatalf("Failed to import %s: %v", os.Args[1], err)
		}
	}

	game := surface.New(cfg, ed, store)
	if err := game.Run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Planner error: %v", err)
	}
}

func importFile(ed *editor.Editor, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	snap, err := layout.Decode(f)
	if err != nil {
		return err
	}
	return ed.Import(snap)
}
