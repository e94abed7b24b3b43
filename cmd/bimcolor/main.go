package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"bim-tools/internal/appearance"
	"bim-tools/internal/config"
	"bim-tools/internal/scene"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	scenePath := flag.String("scene", "", "Scene file (.glb or .json snapshot)")
	collection := flag.String("collection", "", "Collection to recolor")
	preset := flag.String("preset", "", "Color preset name (rouge, bleu, vert, ...)")
	rgba := flag.String("color", "", "Explicit color as \"r,g,b,a\" in 0..1")
	simple := flag.Bool("simple", false, "Only color objects without a material")
	transparency := flag.Float64("transparency", -1, "Transparency percentage 0..100 instead of recoloring")
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

	if cfg.ScenePath == "" || *collection == "" {
		fmt.Fprintln(os.Stderr, "Usage: bimcolor -scene file.glb -collection NAME -preset rouge | -color r,g,b,a | -transparency 50")
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

	switch {
	case *transparency >= 0:
		alpha, touched := appearance.Transparency(c, *transparency)
		fmt.Printf("Set %.0f%% transparency (alpha %.2f) on %d objects of %s\n",
			*transparency, alpha, touched, c.Name)

	case *preset != "" || *rgba != "":
		color, err := resolveColor(*preset, *rgba)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		touched := appearance.Recolor(c, color, !*simple)
		fmt.Printf("Colored %d objects of %s (material %s)\n",
			touched, c.Name, appearance.MaterialName(c.Name))

	default:
		fmt.Fprintln(os.Stderr, "Error: nothing to do. Use -preset, -color or -transparency.")
		os.Exit(2)
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

func resolveColor(preset, rgba string) ([4]float32, error) {
	if preset != "" {
		return appearance.Preset(preset)
	}
	parts := strings.Split(rgba, ",")
	if len(parts) != 4 {
		return [4]float32{}, fmt.Errorf("color must have 4 comma-separated components, got %q", rgba)
	}
	var color [4]float32
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return [4]float32{}, fmt.Errorf("bad color component %q: %w", p, err)
		}
		color[i] = float32(v)
	}
	return color, nil
}
