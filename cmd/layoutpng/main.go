// Command layoutpng renders a layout file or save slot to PNG.
//
//	layoutpng [-slot name | -in layout.json] [-ranges] -out base.png
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gravitas-games/baseplanner/internal/catalog"
	"github.com/gravitas-games/baseplanner/internal/config"
	"github.com/gravitas-games/baseplanner/internal/editor"
	"github.com/gravitas-games/baseplanner/internal/layout"
)

func main() {
	in := flag.String("in", "", "layout JSON file")
	slot := flag.String("slot", "", "save slot name")
	out := flag.String("out", "layout.png", "output PNG file")
	ranges := flag.Bool("ranges", false, "draw range ellipses")
	list := flag.Bool("list", false, "list save slots and exit")
	flag.Parse()

	if err := run(*in, *slot, *out, *ranges, *list); err != nil {
		fmt.Fprintln(os.Stderr, "layoutpng:", err)
		os.Exit(1)
	}
}

func run(in, slot, out string, ranges, list bool) error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/planner.yaml"
	}
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	cat, err := catalog.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	var snap layout.Snapshot
	switch {
	case list || slot != "":
		store, err := layout.OpenStore(cfg.Storage.AppName)
		if err != nil {
			return err
		}
		if list {
			names, err := store.List()
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		}
		if snap, err = store.Load(slot); err != nil {
			return err
		}
	case in != "":
		f, err := os.Open(in)
		if err != nil {
			return err
		}
		defer f.Close()
		if snap, err = layout.Decode(f); err != nil {
			return err
		}
	default:
		return fmt.Errorf("one of -in, -slot or -list is required")
	}

	// validate through the editor so a broken file is reported, not drawn
	ed := editor.New(cat, editor.WithGridSize(cfg.Board.GridSize))
	if err := ed.Import(snap); err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	opts := layout.RenderOptions{
		GridSize:   cfg.Board.GridSize,
		Tile:       cfg.Board.Tile,
		TopPadding: cfg.Board.TopPadding,
		ShowRanges: ranges,
	}
	if err := layout.RenderPNG(f, ed.Export(), cat, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
