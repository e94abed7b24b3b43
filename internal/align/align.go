// Package align measures and corrects the spatial offset between imported
// collection trees, typically a structure model against an envelope model.
// All distances are metres.
package align

import (
	"errors"
	"fmt"
	"math"

	"bim-tools/internal/ifc"
	"bim-tools/internal/mathutil"
	"bim-tools/internal/scene"
)

var ErrNoReferencePoints = errors.New("align: no reference points")

// RefPoint is a reference empty carried by an imported model, usually a
// storey, site or building marker.
type RefPoint struct {
	Name         string
	SpecificName string
	Category     string
	Location     mathutil.Vec3
}

// Stats summarizes the object positions of one collection subtree.
type Stats struct {
	CollectionName string
	Total          int
	MeshCount      int
	EmptyCount     int

	Bounds mathutil.Box3
	Center mathutil.Vec3
	Width  float64
	Depth  float64
	Height float64

	Categories      map[string]int
	ReferencePoints []RefPoint
}

// Analyze scans a collection subtree and gathers its position stats and
// reference points.
func Analyze(c *scene.Collection) *Stats {
	st := &Stats{
		CollectionName: c.Name,
		Bounds:         mathutil.EmptyBox(),
		Categories:     make(map[string]int),
	}

	for _, obj := range c.AllObjects() {
		st.Total++
		switch obj.Kind {
		case scene.KindMesh:
			st.MeshCount++
		case scene.KindEmpty:
			st.EmptyCount++
			if ifc.IsReference(obj.Name) {
				st.ReferencePoints = append(st.ReferencePoints, RefPoint{
					Name:         obj.Name,
					SpecificName: ifc.SpecificName(obj.Name),
					Category:     ifc.Category(obj.Name),
					Location:     obj.Location,
				})
			}
		}
		if cat := ifc.Category(obj.Name); cat != "" {
			st.Categories[cat]++
		}
		st.Bounds.Extend(obj.Location)
	}

	if st.Total > 0 {
		st.Center = st.Bounds.Center()
		size := st.Bounds.Size()
		st.Width, st.Depth, st.Height = size[0], size[1], size[2]
	}
	return st
}

// RefDistance is the distance between two same-category reference points,
// one from each collection.
type RefDistance struct {
	Category string
	Object1  string
	Object2  string
	Distance float64
}

// Comparison is the pairwise distance analysis of two collections.
type Comparison struct {
	Stats1 *Stats
	Stats2 *Stats

	CenterDistance float64
	AxisDistances  mathutil.Vec3
	MinDistance    float64
	MaxDistance    float64

	ReferenceDistances []RefDistance
	Issues             []string
	Recommendations    []string
}

// Compare measures the spatial offset between two collection subtrees.
func Compare(a, b *scene.Collection) *Comparison {
	cmp := &Comparison{
		Stats1: Analyze(a),
		Stats2: Analyze(b),
	}

	cmp.CenterDistance = mathutil.Distance(cmp.Stats1.Center, cmp.Stats2.Center)
	cmp.AxisDistances = cmp.Stats1.Center.Sub(cmp.Stats2.Center).Abs()

	if !cmp.Stats1.Bounds.Empty() && !cmp.Stats2.Bounds.Empty() {
		cmp.MinDistance = mathutil.MinSeparation(cmp.Stats1.Bounds, cmp.Stats2.Bounds)
		cmp.MaxDistance = mathutil.MaxSeparation(cmp.Stats1.Bounds, cmp.Stats2.Bounds)
	}

	for _, r1 := range cmp.Stats1.ReferencePoints {
		for _, r2 := range cmp.Stats2.ReferencePoints {
			if r1.Category != r2.Category {
				continue
			}
			cmp.ReferenceDistances = append(cmp.ReferenceDistances, RefDistance{
				Category: r1.Category,
				Object1:  r1.Name,
				Object2:  r2.Name,
				Distance: mathutil.Distance(r1.Location, r2.Location),
			})
		}
	}

	if cmp.CenterDistance > 100 {
		cmp.Issues = append(cmp.Issues, "large distance between collection centers")
	}
	if cmp.AxisDistances[2] > 50 {
		cmp.Issues = append(cmp.Issues, "large height offset on the Z axis")
	}

	cmp.Recommendations = recommendations(cmp)
	return cmp
}

// recommendations applies the operator-tuned thresholds used on site.
func recommendations(cmp *Comparison) []string {
	var recs []string
	if cmp.CenterDistance > 100 {
		recs = append(recs, fmt.Sprintf("align centers: move one collection by %.1fm", cmp.CenterDistance))
	}
	if cmp.AxisDistances[2] > 50 {
		recs = append(recs, fmt.Sprintf("align vertically: correct the %.1fm height offset", cmp.AxisDistances[2]))
	}
	if cmp.AxisDistances[0] > 50 {
		recs = append(recs, fmt.Sprintf("align X: correct the %.1fm offset", cmp.AxisDistances[0]))
	}
	if cmp.AxisDistances[1] > 50 {
		recs = append(recs, fmt.Sprintf("align Y: correct the %.1fm offset", cmp.AxisDistances[1]))
	}
	if len(recs) == 0 {
		recs = append(recs, "collections appear well aligned")
	}
	return recs
}

// PairResult is one comparison of a multi-collection analysis.
type PairResult struct {
	Collection1 string
	Collection2 string
	Comparison  *Comparison
}

// MultiReport is the all-pairs analysis of a set of collections.
type MultiReport struct {
	Collections     []string
	Pairs           []PairResult
	AverageDistance float64
	MaxDistance     float64
	Recommendations []string
}

// CompareAll compares every pair of the named collections. Each name
// resolves exactly first, then by substring.
func CompareAll(s *scene.Scene, names []string) (*MultiReport, error) {
	colls := make([]*scene.Collection, len(names))
	for i, name := range names {
		c := s.Find(name)
		if c == nil {
			return nil, fmt.Errorf("%w: %s", scene.ErrCollectionNotFound, name)
		}
		colls[i] = c
	}

	report := &MultiReport{Collections: names}
	total := 0.0
	for i := 0; i < len(colls); i++ {
		for j := i + 1; j < len(colls); j++ {
			cmp := Compare(colls[i], colls[j])
			report.Pairs = append(report.Pairs, PairResult{
				Collection1: names[i],
				Collection2: names[j],
				Comparison:  cmp,
			})
			total += cmp.CenterDistance
			report.MaxDistance = math.Max(report.MaxDistance, cmp.CenterDistance)
		}
	}

	if len(report.Pairs) > 0 {
		report.AverageDistance = total / float64(len(report.Pairs))
	}
	if report.AverageDistance > 100 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("high average distance: %.1fm", report.AverageDistance))
	}
	if report.MaxDistance > 200 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("large maximum distance: %.1fm", report.MaxDistance))
	}
	return report, nil
}
