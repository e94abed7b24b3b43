package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"bim-tools/internal/align"
	"bim-tools/internal/config"
	"bim-tools/internal/scene"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	scenePath := flag.String("scene", "", "Scene file (.glb or .json snapshot)")
	list := flag.String("list", "", "List collections matching this pattern and exit")
	info := flag.String("info", "", "Print position stats for one collection and exit")
	coll1 := flag.String("c1", "", "First collection (reference)")
	coll2 := flag.String("c2", "", "Second collection")
	multi := flag.String("multi", "", "Comma-separated collections for all-pairs analysis")
	precise := flag.Bool("precise", false, "Match reference points instead of bounding boxes")
	category := flag.String("category", "IfcBuildingStorey", "Reference point category for -precise/-apply")
	apply := flag.Bool("apply", false, "Apply the recommended displacement to the second collection")
	out := flag.String("out", "", "Output scene file after -apply")

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

	switch {
	case *list != "":
		for _, c := range s.Match(*list) {
			fmt.Println(c.Name)
		}

	case *info != "":
		c := mustFind(s, *info)
		printStats(align.Analyze(c))

	case *multi != "":
		names := splitList(*multi)
		report, err := align.CompareAll(s, names)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printMulti(report)

	case *coll1 != "" && *coll2 != "":
		c1 := mustFind(s, *coll1)
		c2 := mustFind(s, *coll2)

		if *apply {
			res, err := align.Apply(c1, c2, *category)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("Moved %d objects of %s by (%.2f, %.2f, %.2f)m\n",
				res.ObjectsMoved, res.CollectionMoved,
				res.Displacement[0], res.Displacement[1], res.Displacement[2])
			if *out != "" {
				if err := s.Save(*out); err != nil {
					fmt.Fprintf(os.Stderr, "Error saving scene: %v\n", err)
					os.Exit(1)
				}
				fmt.Printf("Scene written to %s\n", *out)
			}
			return
		}

		if *precise {
			report, err := align.Precise(c1, c2, *category)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			printPrecise(report)
			return
		}
		printComparison(align.Compare(c1, c2))

	default:
		fmt.Fprintln(os.Stderr, "Usage: bimalign -scene file.glb -c1 NAME -c2 NAME [-precise|-apply]")
		fmt.Fprintln(os.Stderr, "       bimalign -scene file.glb -multi \"a,b,c\" | -info NAME | -list PATTERN")
		os.Exit(2)
	}
}

func mustFind(s *scene.Scene, name string) *scene.Collection {
	c := s.Find(name)
	if c == nil {
		fmt.Fprintf(os.Stderr, "Error: collection %q not found\n", name)
		os.Exit(1)
	}
	return c
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printStats(st *align.Stats) {
	fmt.Printf("Collection: %s\n", st.CollectionName)
	fmt.Printf("  Objects: %d (%d meshes, %d empties)\n", st.Total, st.MeshCount, st.EmptyCount)
	fmt.Printf("  Center: (%.2f, %.2f, %.2f)\n", st.Center[0], st.Center[1], st.Center[2])
	fmt.Printf("  Size: %.1fm x %.1fm x %.1fm\n", st.Width, st.Depth, st.Height)
	fmt.Printf("  Reference points: %d\n", len(st.ReferencePoints))
}

func printComparison(cmp *align.Comparison) {
	fmt.Printf("Collection 1: %s\n", cmp.Stats1.CollectionName)
	fmt.Printf("Collection 2: %s\n", cmp.Stats2.CollectionName)
	fmt.Printf("  Center distance: %.2fm\n", cmp.CenterDistance)
	fmt.Printf("  Min distance:    %.2fm\n", cmp.MinDistance)
	fmt.Printf("  Max distance:    %.2fm\n", cmp.MaxDistance)
	fmt.Printf("  Axis distances:  X %.2fm  Y %.2fm  Z %.2fm\n",
		cmp.AxisDistances[0], cmp.AxisDistances[1], cmp.AxisDistances[2])

	for _, issue := range cmp.Issues {
		fmt.Printf("  Issue: %s\n", issue)
	}
	if len(cmp.ReferenceDistances) > 0 {
		fmt.Println("  Reference point distances:")
		for _, rd := range cmp.ReferenceDistances {
			fmt.Printf("    [%s] %s <-> %s: %.2fm\n", rd.Category, rd.Object1, rd.Object2, rd.Distance)
		}
	}
	fmt.Println("Recommendations:")
	for _, rec := range cmp.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}

func printMulti(report *align.MultiReport) {
	for _, pair := range report.Pairs {
		fmt.Printf("%s <-> %s: %.2fm\n",
			pair.Collection1, pair.Collection2, pair.Comparison.CenterDistance)
	}
	fmt.Printf("Comparisons: %d  Average: %.2fm  Max: %.2fm\n",
		len(report.Pairs), report.AverageDistance, report.MaxDistance)
	for _, rec := range report.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}

func printPrecise(report *align.PreciseReport) {
	fmt.Printf("Collection 1: %s (%d %s points)\n",
		report.Collection1, len(report.Points1), report.Category)
	fmt.Printf("Collection 2: %s (%d %s points)\n",
		report.Collection2, len(report.Points2), report.Category)

	if len(report.Matches) > 0 {
		fmt.Println("Matches:")
		for _, m := range report.Matches {
			fmt.Printf("  %s: %.2fm\n", m.Name, m.Distance)
		}
		fmt.Printf("Recommended displacement: (%.2f, %.2f, %.2f)m\n",
			report.Displacement[0], report.Displacement[1], report.Displacement[2])
	}
	fmt.Println("Recommendations:")
	for _, rec := range report.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
}
