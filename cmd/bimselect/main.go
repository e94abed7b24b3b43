package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"bim-tools/internal/config"
	"bim-tools/internal/scene"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	scenePath := flag.String("scene", "", "Scene file (.glb or .json snapshot)")
	collection := flag.String("collection", "", "Collection name or substring to select")
	hidden := flag.Bool("hidden", false, "Include hidden objects in the selection")
	validate := flag.String("validate", "", "Comma-separated IFC categories that must be present")
	pattern := flag.Bool("pattern", false, "Report every collection matching -collection instead of the first")
	list := flag.Bool("list", false, "List all collections and exit")

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

	if cfg.ScenePath == "" {
		fmt.Fprintln(os.Stderr, "Error: no scene file. Use -scene or config.json.")
		os.Exit(1)
	}

	s, err := scene.Load(cfg.ScenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}

	if *list {
		for _, name := range s.Names() {
			fmt.Println(name)
		}
		return
	}

	if *collection == "" {
		fmt.Fprintln(os.Stderr, "Error: -collection is required (or use -list).")
		os.Exit(1)
	}
	if *pattern {
		matches := s.Match(*collection)
		if len(matches) == 0 {
			fmt.Fprintf(os.Stderr, "Error: no collection matches %q\n", *collection)
			os.Exit(1)
		}
		for i, c := range matches {
			if i > 0 {
				fmt.Println()
			}
			printReport(scene.Report(c, *hidden))
		}
		return
	}

	c := s.Find(*collection)
	if c == nil {
		fmt.Fprintf(os.Stderr, "Error: collection %q not found\n", *collection)
		os.Exit(1)
	}

	report := scene.Report(c, *hidden)
	printReport(report)

	if *validate != "" {
		expected := strings.Split(*validate, ",")
		for i := range expected {
			expected[i] = strings.TrimSpace(expected[i])
		}
		if missing := report.Validate(expected); len(missing) > 0 {
			fmt.Printf("\nMissing categories: %s\n", strings.Join(missing, ", "))
			os.Exit(1)
		}
		fmt.Println("\nAll expected categories present.")
	}
}

func printReport(r *scene.SelectionReport) {
	fmt.Printf("Collection: %s\n", r.CollectionName)
	fmt.Printf("  Objects selected: %d (%d direct, %d sub-collections)\n",
		r.Total, r.DirectObjects, r.SubCollections)
	fmt.Printf("  Meshes: %d  Empties: %d  Other: %d\n",
		len(r.MeshObjects), len(r.EmptyObjects), len(r.OtherObjects))

	if !r.Bounds.Empty() {
		size := r.Bounds.Size()
		fmt.Printf("  Bounds: %.1fm x %.1fm x %.1fm\n", size[0], size[1], size[2])
	}

	if len(r.ByCategory) > 0 {
		cats := make([]string, 0, len(r.ByCategory))
		for cat := range r.ByCategory {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		fmt.Println("  Categories:")
		for _, cat := range cats {
			fmt.Printf("    %-28s %d\n", cat, r.ByCategory[cat])
		}
	}

	if len(r.Hidden) > 0 {
		fmt.Printf("  Hidden objects: %d\n", len(r.Hidden))
	}
	for _, w := range r.Warnings {
		fmt.Printf("  Warning: %s\n", w)
	}
}
