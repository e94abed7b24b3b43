package usage

import (
	"fmt"

	"bim-tools/internal/gltfio"
	"bim-tools/internal/mathutil"
	"bim-tools/internal/scene"
)

const prismHeight = 0.1

// VisualizationName is the overlay's root collection.
const VisualizationName = "FLOOR_USAGE_VISUALIZATION"

// Visualization is the built overlay plus the per-category counts it
// represents.
type Visualization struct {
	Scene    *scene.Scene
	Counts   map[string]map[string]int
	Rendered int
	Filtered int
}

// Visualize builds flat colored prisms over the footprint of every
// relevant mesh object of a collection, grouped per usage category.
func Visualize(target *scene.Collection) *Visualization {
	root := &scene.Collection{Name: VisualizationName}
	subcolls := map[string]*scene.Collection{}
	v := &Visualization{
		Scene:  &scene.Scene{Collections: []*scene.Collection{root}},
		Counts: map[string]map[string]int{},
	}

	for _, obj := range target.MeshObjects() {
		if obj.Mesh == nil {
			continue
		}
		if !Include(obj.Name) {
			v.Filtered++
			continue
		}
		main := Categorize(obj.Name)
		sub := Subcategory(obj.Name)

		coll, ok := subcolls[main]
		if !ok {
			coll = &scene.Collection{Name: "FLOOR_USAGE_" + main}
			subcolls[main] = coll
			root.Children = append(root.Children, coll)
		}

		bounds := mathutil.EmptyBox()
		for _, p := range obj.Mesh.Positions {
			bounds.Extend(obj.Location.Add(mathutil.Vec3{float64(p[0]), float64(p[1]), float64(p[2])}))
		}

		prism := gltfio.Prism(bounds.Min[0], bounds.Min[1], bounds.Max[0], bounds.Max[1], 0, prismHeight)
		prism.Color = Color(main)
		prism.HasMaterial = true
		prism.MaterialName = fmt.Sprintf("Usage_Material_%s_%s", main, sub)
		coll.Objects = append(coll.Objects, &scene.Object{
			Name: fmt.Sprintf("Usage_Prism_%s_%s_%s", main, sub, obj.Name),
			Kind: scene.KindMesh,
			Mesh: prism,
		})

		if v.Counts[main] == nil {
			v.Counts[main] = map[string]int{}
		}
		v.Counts[main][sub]++
		v.Rendered++
	}
	return v
}
