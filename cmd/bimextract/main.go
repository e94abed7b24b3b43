package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"bim-tools/internal/config"
	"bim-tools/internal/extract"
	"bim-tools/internal/logging"
	"bim-tools/internal/scene"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	scenePath := flag.String("scene", "", "Scene file (.glb or .json snapshot)")
	baseDir := flag.String("base", "", "Base export directory")
	collections := flag.String("collections", "", "Comma-separated project collections to extract")
	workers := flag.Int("workers", 0, "Parallel storey exports (default: CPU count)")
	logFile := flag.String("log", "", "Append run log to this file as well as stderr")

	flag.Parse()
	_ = godotenv.Load()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		ScenePath:  *scenePath,
		BaseExport: *baseDir,
		Workers:    *workers,
	})
	if *collections != "" {
		cfg.Collections = nil
		for _, name := range strings.Split(*collections, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Collections = append(cfg.Collections, name)
			}
		}
	}

	if cfg.ScenePath == "" || len(cfg.Collections) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: bimextract -scene file.glb -collections \"1772509-STR,1772509-CVC\" [-base DIR] [-workers N]")
		os.Exit(2)
	}

	log, closeLog, err := logging.New(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	s, err := scene.Load(cfg.ScenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	reports, err := extract.Run(extract.Config{
		Scene:       s,
		BaseDir:     cfg.BaseExport,
		Collections: cfg.Collections,
		Workers:     cfg.Workers,
		Log:         log,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	for _, r := range reports {
		fmt.Printf("%s (%s) -> %s\n", r.Collection, r.Discipline, r.Dir)
		for _, st := range r.Storeys {
			status := "ok"
			if !st.Success {
				status = "FAILED: " + st.Error
			}
			fmt.Printf("  %-20s %4d elements  %s\n", st.Storey, len(st.Elements), status)
		}
		fmt.Printf("  Indexed %d elements\n", r.Indexed)
	}
}
