package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"bim-tools/internal/config"
	"bim-tools/internal/footprint"
	"bim-tools/internal/render"
	"bim-tools/internal/scene"
)

const planMargin = 40

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	scenePath := flag.String("scene", "", "Scene file (.glb or .json snapshot)")
	collection := flag.String("collection", "", "Collection whose footprint is tiled")
	overlay := flag.String("overlay", "", "Write the 3D tiling overlay to this glb file")
	plan := flag.String("plan", "", "Write a 2D plan to this webp file")
	ppm := flag.Float64("ppm", 0, "Plan resolution in pixels per metre")
	underlay := flag.String("underlay", "", "Background image for the plan (png, jpeg or tga)")

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
	if *underlay != "" {
		cfg.Underlay = *underlay
	}

	if cfg.ScenePath == "" || *collection == "" {
		fmt.Fprintln(os.Stderr, "Usage: bimtile -scene file.glb -collection NAME [-overlay tiling.glb] [-plan tiling.webp]")
		os.Exit(2)
	}

	s, err := scene.Load(cfg.ScenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scene: %v\n", err)
		os.Exit(1)
	}
	c := s.Find(*collection)
	if c == nil {
		fmt.Fprintf(os.Stderr, "Error: collection %q not found\n", *collection)
		os.Exit(1)
	}

	grid, err := footprint.BuildGrid(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	modules := footprint.Tile(grid)

	size := grid.Bounds.Size()
	fmt.Printf("Footprint: %.1fm x %.1fm, %d occupied cells\n", size[0], size[1], grid.Occupied())
	fmt.Printf("Placed %d modules of %.2fm x %.2fm\n",
		len(modules), footprint.ModuleLength, footprint.ModuleWidth)

	if *overlay != "" {
		if err := footprint.Overlay(grid, modules).Save(*overlay); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving overlay: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Overlay written to %s\n", *overlay)
	}

	if *plan != "" {
		if err := writePlan(cfg, grid, modules, *plan); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving plan: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Plan written to %s\n", *plan)
	}
}

func writePlan(cfg config.Config, grid *footprint.Grid, modules []footprint.Module, path string) error {
	p := render.NewPlan(grid.Bounds, cfg.PixelsPerMetre, planMargin)

	if cfg.Underlay != "" {
		img, err := render.LoadUnderlay(cfg.Underlay)
		if err != nil {
			return err
		}
		p.Underlay(img)
	}

	for gx := 0; gx < grid.Width; gx++ {
		for gy := 0; gy < grid.Height; gy++ {
			if !grid.At(gx, gy) {
				continue
			}
			x := grid.MinX + float64(gx)*grid.CellSize
			y := grid.MinY + float64(gy)*grid.CellSize
			p.Draw(render.Rect{
				MinX: x, MinY: y,
				MaxX: x + grid.CellSize, MaxY: y + grid.CellSize,
				Fill: render.RGBA(footprint.FootprintColor),
			})
		}
	}
	for _, m := range modules {
		p.Draw(render.Rect{
			MinX: m.X, MinY: m.Y,
			MaxX: m.X + m.Length, MaxY: m.Y + m.Width,
			Fill:    render.RGBA(footprint.ModuleColor),
			Outline: true,
		})
	}

	p.Legend([]render.LegendEntry{
		{Label: "Building footprint", Color: render.RGBA(footprint.FootprintColor)},
		{Label: fmt.Sprintf("Modules (%d)", len(modules)), Color: render.RGBA(footprint.ModuleColor)},
	})
	return render.SaveWebP(path, p.Image())
}
