package scene

import (
	"bim-tools/internal/ifc"
	"bim-tools/internal/mathutil"
)

// SelectionReport summarizes the objects gathered from one collection
// subtree, the way an operator inspects a selection before acting on it.
type SelectionReport struct {
	CollectionName string
	Total          int
	DirectObjects  int
	SubCollections int

	ByKind     map[Kind]int
	ByCategory map[string]int

	MeshObjects  []string
	EmptyObjects []string
	OtherObjects []string

	Bounds mathutil.Box3
	Hidden []string

	Warnings []string
}

// Select gathers every object of the subtree. Hidden objects are skipped
// unless includeHidden is set.
func Select(c *Collection, includeHidden bool) []*Object {
	var out []*Object
	for _, obj := range c.AllObjects() {
		if obj.Hidden && !includeHidden {
			continue
		}
		out = append(out, obj)
	}
	return out
}

// Report builds the selection summary for a collection subtree.
func Report(c *Collection, includeHidden bool) *SelectionReport {
	r := &SelectionReport{
		CollectionName: c.Name,
		SubCollections: len(c.Children),
		ByKind:         make(map[Kind]int),
		ByCategory:     make(map[string]int),
		Bounds:         mathutil.EmptyBox(),
	}

	direct := make(map[*Object]bool, len(c.Objects))
	for _, obj := range c.Objects {
		direct[obj] = true
	}

	for _, obj := range c.AllObjects() {
		if obj.Hidden {
			r.Hidden = append(r.Hidden, obj.Name)
			if !includeHidden {
				continue
			}
		}

		r.Total++
		if direct[obj] {
			r.DirectObjects++
		}
		r.ByKind[obj.Kind]++
		if cat := ifc.Category(obj.Name); cat != "" {
			r.ByCategory[cat]++
		}

		switch obj.Kind {
		case KindMesh:
			r.MeshObjects = append(r.MeshObjects, obj.Name)
		case KindEmpty:
			r.EmptyObjects = append(r.EmptyObjects, obj.Name)
		default:
			r.OtherObjects = append(r.OtherObjects, obj.Name)
		}
		r.Bounds.Extend(obj.Location)
	}

	if r.Total == 0 {
		r.Warnings = append(r.Warnings, "no objects selected")
	}
	if r.ByKind[KindEmpty] == 0 {
		r.Warnings = append(r.Warnings, "no reference empties selected")
	}
	return r
}

// Validate checks a selection report against the IFC categories the
// operator expects and returns the missing ones.
func (r *SelectionReport) Validate(expected []string) []string {
	var missing []string
	for _, cat := range expected {
		if r.ByCategory[cat] == 0 {
			missing = append(missing, cat)
		}
	}
	return missing
}
