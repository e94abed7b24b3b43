// Package appearance recolors collections and makes them transparent,
// the way disciplines are told apart during coordination reviews.
package appearance

import (
	"fmt"
	"sort"
	"strings"

	"bim-tools/internal/scene"
)

// Presets are the predefined review colors, keyed by their French names.
var Presets = map[string][4]float32{
	"rouge":       {1.0, 0.0, 0.0, 1.0},
	"vert":        {0.0, 1.0, 0.0, 1.0},
	"bleu":        {0.0, 0.0, 1.0, 1.0},
	"jaune":       {1.0, 1.0, 0.0, 1.0},
	"cyan":        {0.0, 1.0, 1.0, 1.0},
	"magenta":     {1.0, 0.0, 1.0, 1.0},
	"orange":      {1.0, 0.5, 0.0, 1.0},
	"violet":      {0.5, 0.0, 1.0, 1.0},
	"bleu_fonce":  {0.0, 0.0, 0.8, 1.0},
	"rouge_fonce": {0.8, 0.0, 0.0, 1.0},
	"vert_fonce":  {0.0, 0.8, 0.0, 1.0},
	"gris":        {0.5, 0.5, 0.5, 1.0},
	"blanc":       {1.0, 1.0, 1.0, 1.0},
	"noir":        {0.0, 0.0, 0.0, 1.0},
}

// Preset resolves a preset color by name. The error lists the available
// names.
func Preset(name string) ([4]float32, error) {
	if c, ok := Presets[name]; ok {
		return c, nil
	}
	names := make([]string, 0, len(Presets))
	for n := range Presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return [4]float32{}, fmt.Errorf("appearance: unknown preset %q (available: %s)",
		name, strings.Join(names, ", "))
}

// MaterialName is the shared material a recolored collection gets.
func MaterialName(collectionName string) string {
	safe := strings.ReplaceAll(collectionName, "/", "_")
	safe = strings.ReplaceAll(safe, " ", "_")
	return "Color_" + safe
}

// Recolor assigns a flat base color material to every mesh object of the
// subtree. With force set, existing materials are replaced; otherwise
// only objects without one are filled in. It returns the number of
// objects touched.
func Recolor(c *scene.Collection, color [4]float32, force bool) int {
	name := MaterialName(c.Name)
	count := 0
	for _, obj := range c.MeshObjects() {
		if obj.Mesh == nil {
			continue
		}
		if !force && obj.Mesh.HasMaterial {
			continue
		}
		obj.Mesh.Color = [4]float32{color[0], color[1], color[2], 1.0}
		obj.Mesh.HasMaterial = true
		obj.Mesh.MaterialName = name
		obj.Mesh.AlphaBlend = false
		count++
	}
	return count
}

// Transparency sets the alpha of every mesh object's material from a
// transparency percentage (0 = opaque, 100 = invisible). Objects without
// a material get a fresh one. It returns the applied alpha and the
// number of objects touched.
func Transparency(c *scene.Collection, percent float64) (float32, int) {
	alpha := 1.0 - percent/100.0
	if alpha < 0 {
		alpha = 0
	} else if alpha > 1 {
		alpha = 1
	}

	count := 0
	for _, obj := range c.MeshObjects() {
		if obj.Mesh == nil {
			continue
		}
		// Freshly materialized objects get a red base so they stand out
		// from objects that already carried a material.
		if !obj.Mesh.HasMaterial {
			obj.Mesh.HasMaterial = true
			obj.Mesh.MaterialName = "Transparent_" + obj.Name
			obj.Mesh.Color = [4]float32{0.8, 0.1, 0.1, 1}
		}
		obj.Mesh.Color[3] = float32(alpha)
		obj.Mesh.AlphaBlend = true
		count++
	}
	return float32(alpha), count
}
