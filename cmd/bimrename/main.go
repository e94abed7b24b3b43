package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"bim-tools/internal/config"
	"bim-tools/internal/scene"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	scenePath := flag.String("scene", "", "Scene file (.glb or .json snapshot)")
	collection := flag.String("collection", "", "Imported collection tree to rename")
	project := flag.String("project", "", "Project code, e.g. 1772509")
	site := flag.String("site", "", "Site name")
	building := flag.String("building", "", "Building name")
	discipline := flag.String("discipline", "", "Discipline code (STR, ARC, CVC, ...)")
	mapFile := flag.String("map", "", "JSON rename map to apply instead of the standard hierarchy")
	dryRun := flag.Bool("dry-run", false, "Print the planned renames without applying them")
	out := flag.String("out", "", "Output scene file (defaults to overwriting the input)")

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
	cfg.Resolve(config.Flags{ScenePath: *scenePath})

	if cfg.ScenePath == "" || (*collection == "" && *mapFile == "") {
		fmt.Fprintln(os.Stderr, "Usage: bimrename -scene file.glb -collection NAME -project CODE -discipline STR [-site S -building B] [-dry-run]")
		fmt.Fprintln(os.Stderr, "       bimrename -scene file.glb -map renames.json [-dry-run]")
		os.Exit(2)
	}

	s, err := scene.Load(cfg.ScenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	var steps []scene.RenameStep
	if *mapFile != "" {
		steps, err = applyMapFile(s, *mapFile, *dryRun)
	} else {
		steps, err = scene.RenameHierarchy(s, scene.RenameOptions{
			Collection:  *collection,
			ProjectCode: *project,
			Site:        *site,
			Building:    *building,
			Discipline:  *discipline,
			DryRun:      *dryRun,
		})
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	verb := "Renamed"
	if *dryRun {
		verb = "Would rename"
	}
	for _, step := range steps {
		if step.New == "" {
			fmt.Printf("Collection %q not found, skipped\n", step.Old)
			continue
		}
		fmt.Printf("%s %q -> %q\n", verb, step.Old, step.New)
	}
	fmt.Printf("%d collections\n", len(steps))

	if *dryRun {
		return
	}
	target := *out
	if target == "" {
		target = cfg.ScenePath
	}
	if err := s.Save(target); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving scene: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Scene written to %s\n", target)
}

// renameMap is the JSON shape of a -map file: explicit renames plus
// parent/child pairs to reorganize afterwards.
type renameMap struct {
	Renames  map[string]string `json:"renames"`
	Reparent [][2]string       `json:"reparent"`
}

func applyMapFile(s *scene.Scene, path string, dryRun bool) ([]scene.RenameStep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m renameMap
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	steps := scene.ApplyRenameMap(s, m.Renames, dryRun)
	if err := scene.Reorganize(s, m.Reparent, dryRun); err != nil {
		return nil, err
	}
	return steps, nil
}
