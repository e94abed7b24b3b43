package align

import (
	"fmt"
	"math"
	"sort"

	"bim-tools/internal/ifc"
	"bim-tools/internal/mathutil"
	"bim-tools/internal/scene"
)

// Match pairs two same-named reference points, one per collection.
// Distance is the elevation gap between the two, the quantity operators
// care about when stacking storeys.
type Match struct {
	Name     string
	Point1   RefPoint
	Point2   RefPoint
	Distance float64
}

// PreciseReport is the reference-point alignment of two collections.
type PreciseReport struct {
	Collection1 string
	Collection2 string
	Category    string

	Points1 []RefPoint
	Points2 []RefPoint

	Matches         []Match
	Displacement    mathutil.Vec3
	Recommendations []string
}

// Primary returns the closest matched pair, the one the recommended
// displacement is derived from.
func (r *PreciseReport) Primary() *Match {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// Precise matches the reference empties of one category between two
// collections by specific name and derives the displacement that would
// bring the second collection onto the first.
func Precise(a, b *scene.Collection, category string) (*PreciseReport, error) {
	points1 := referencePoints(a, category)
	points2 := referencePoints(b, category)
	if len(points1) == 0 {
		return nil, fmt.Errorf("%w: no %s empty in %s", ErrNoReferencePoints, category, a.Name)
	}
	if len(points2) == 0 {
		return nil, fmt.Errorf("%w: no %s empty in %s", ErrNoReferencePoints, category, b.Name)
	}

	report := &PreciseReport{
		Collection1: a.Name,
		Collection2: b.Name,
		Category:    category,
		Points1:     points1,
		Points2:     points2,
	}

	byName := make(map[string]RefPoint, len(points2))
	for _, p := range points2 {
		byName[p.SpecificName] = p
	}
	for _, p1 := range points1 {
		p2, ok := byName[p1.SpecificName]
		if !ok {
			continue
		}
		report.Matches = append(report.Matches, Match{
			Name:     p1.SpecificName,
			Point1:   p1,
			Point2:   p2,
			Distance: math.Abs(p1.Location[2] - p2.Location[2]),
		})
	}
	sort.SliceStable(report.Matches, func(i, j int) bool {
		return report.Matches[i].Distance < report.Matches[j].Distance
	})

	if primary := report.Primary(); primary != nil {
		report.Displacement = primary.Point1.Location.Sub(primary.Point2.Location)
	}
	report.Recommendations = preciseRecommendations(report)
	return report, nil
}

// referencePoints gathers the reference empties of one category, sorted
// by elevation.
func referencePoints(c *scene.Collection, category string) []RefPoint {
	var points []RefPoint
	for _, obj := range c.AllObjects() {
		if obj.Kind != scene.KindEmpty || ifc.Category(obj.Name) != category {
			continue
		}
		points = append(points, RefPoint{
			Name:         obj.Name,
			SpecificName: ifc.SpecificName(obj.Name),
			Category:     category,
			Location:     obj.Location,
		})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Location[2] < points[j].Location[2]
	})
	return points
}

func preciseRecommendations(r *PreciseReport) []string {
	primary := r.Primary()
	if primary == nil {
		return []string{"no exact match between reference points"}
	}

	recs := []string{
		fmt.Sprintf("primary reference point: %s", primary.Name),
		fmt.Sprintf("distance between matched points: %.2fm", primary.Distance),
	}
	for i, axis := range [3]string{"X", "Y", "Z"} {
		if math.Abs(r.Displacement[i]) > 1.0 {
			recs = append(recs, fmt.Sprintf("displacement %s: %.2fm", axis, r.Displacement[i]))
		}
	}

	if len(r.Matches) > 1 {
		minD, maxD := r.Matches[0].Distance, r.Matches[0].Distance
		for _, m := range r.Matches[1:] {
			minD = math.Min(minD, m.Distance)
			maxD = math.Max(maxD, m.Distance)
		}
		if spread := maxD - minD; spread > 5.0 {
			recs = append(recs, fmt.Sprintf("inconsistent alignment: %.2fm spread between reference points", spread))
		} else {
			recs = append(recs, "alignment is consistent across all reference points")
		}
	}
	return recs
}

// ApplyResult records an applied alignment.
type ApplyResult struct {
	CollectionMoved string
	Displacement    mathutil.Vec3
	ObjectsMoved    int
	Report          *PreciseReport
}

// Apply aligns the second collection onto the first by shifting every
// object it contains by the recommended displacement.
func Apply(a, b *scene.Collection, category string) (*ApplyResult, error) {
	report, err := Precise(a, b, category)
	if err != nil {
		return nil, err
	}
	return &ApplyResult{
		CollectionMoved: b.Name,
		Displacement:    report.Displacement,
		ObjectsMoved:    b.Move(report.Displacement),
		Report:          report,
	}, nil
}
