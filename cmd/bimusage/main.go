package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"

	"bim-tools/internal/config"
	"bim-tools/internal/library"
	"bim-tools/internal/mathutil"
	"bim-tools/internal/render"
	"bim-tools/internal/scene"
	"bim-tools/internal/usage"
)

const planMargin = 40

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	dbPath := flag.String("db", "", "Library database (bim_library.sqlite) to analyze")
	storey := flag.String("storey", "", "Storey to analyze; empty lists the storeys")
	scenePath := flag.String("scene", "", "Scene file for the visualization modes")
	collection := flag.String("collection", "", "Collection to visualize")
	overlay := flag.String("overlay", "", "Write the 3D usage overlay to this glb file")
	plan := flag.String("plan", "", "Write a 2D usage plan to this webp file")
	ppm := flag.Float64("ppm", 0, "Plan resolution in pixels per metre")

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
	if *ppm > 0 {
		cfg.PixelsPerMetre = *ppm
	}

	switch {
	case *dbPath != "":
		analyzeDB(*dbPath, *storey)

	case cfg.ScenePath != "" && *collection != "":
		visualize(cfg, *collection, *overlay, *plan)

	default:
		fmt.Fprintln(os.Stderr, "Usage: bimusage -db DIR/bim_library.sqlite [-storey NAME]")
		fmt.Fprintln(os.Stderr, "       bimusage -scene file.glb -collection NAME [-overlay usage.glb] [-plan usage.webp]")
		os.Exit(2)
	}
}

func analyzeDB(path, storey string) {
	store, err := library.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening library: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if storey == "" {
		storeys, err := store.Storeys()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, s := range storeys {
			fmt.Println(s)
		}
		return
	}

	report, err := usage.Analyze(store, storey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Storey %s: %d elements (%d filtered out)\n",
		report.Storey, report.Total, report.Filtered)
	for _, cat := range report.Categories {
		fmt.Printf("  %-20s %4d\n", cat.Category, cat.Count)
		for _, sub := range sortedKeys(cat.Subcategories) {
			fmt.Printf("    %-18s %4d\n", sub, cat.Subcategories[sub])
		}
	}
}

func visualize(cfg config.Config, collection, overlay, plan string) {
	s, err := scene.Load(cfg.ScenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}
	c := s.Find(collection)
	if c == nil {
		fmt.Fprintf(os.Stderr, "Error: collection %q not found\n", collection)
		os.Exit(1)
	}

	v := usage.Visualize(c)
	fmt.Printf("Rendered %d objects in %d categories (%d filtered out)\n",
		v.Rendered, len(v.Counts), v.Filtered)
	for _, main := range sortedCategories(v.Counts) {
		total := 0
		for _, n := range v.Counts[main] {
			total += n
		}
		fmt.Printf("  %-20s %4d\n", main, total)
	}

	if overlay != "" {
		if err := v.Scene.Save(overlay); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving overlay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Overlay written to %s\n", overlay)
	}
	if plan != "" {
		if err := writePlan(cfg, c, v, plan); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving plan: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Plan written to %s\n", plan)
	}
}

// writePlan draws one colored rectangle per relevant object footprint,
// the same shapes the 3D overlay builds as prisms.
func writePlan(cfg config.Config, c *scene.Collection, v *usage.Visualization, path string) error {
	bounds := mathutil.EmptyBox()
	for _, obj := range c.MeshObjects() {
		if obj.Mesh == nil {
			continue
		}
		for _, pos := range obj.Mesh.Positions {
			bounds.Extend(obj.Location.Add(mathutil.Vec3{float64(pos[0]), float64(pos[1]), float64(pos[2])}))
		}
	}
	if bounds.Empty() {
		return fmt.Errorf("bimusage: collection %s has no geometry", c.Name)
	}
	p := render.NewPlan(bounds, cfg.PixelsPerMetre, planMargin)

	for _, obj := range c.MeshObjects() {
		if obj.Mesh == nil || !usage.Include(obj.Name) {
			continue
		}
		box := mathutil.EmptyBox()
		for _, pos := range obj.Mesh.Positions {
			box.Extend(obj.Location.Add(mathutil.Vec3{float64(pos[0]), float64(pos[1]), float64(pos[2])}))
		}
		p.Draw(render.Rect{
			MinX: box.Min[0], MinY: box.Min[1],
			MaxX: box.Max[0], MaxY: box.Max[1],
			Fill: render.RGBA(usage.Color(usage.Categorize(obj.Name))),
		})
	}

	entries := make([]render.LegendEntry, 0, len(v.Counts))
	for _, main := range sortedCategories(v.Counts) {
		total := 0
		for _, n := range v.Counts[main] {
			total += n
		}
		entries = append(entries, render.LegendEntry{
			Label: fmt.Sprintf("%s (%d)", main, total),
			Color: render.RGBA(usage.Color(main)),
		})
	}
	p.Legend(entries)
	return render.SaveWebP(path, p.Image())
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCategories(m map[string]map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
