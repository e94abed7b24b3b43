package scene

import (
	"fmt"

	"bim-tools/internal/ifc"
)

// RenameOptions configures a hierarchy renaming pass over one imported
// collection tree. Collection must name the tree root so nothing outside
// it is touched.
type RenameOptions struct {
	Collection  string
	ProjectCode string
	Site        string
	Building    string
	Discipline  string
	DryRun      bool
}

// RenameStep records one planned (or applied) rename.
type RenameStep struct {
	Old string
	New string
}

// RenameHierarchy renames the target collection and its descendants to the
// standard IfcProject/IfcSite/IfcBuilding/IfcBuildingStorey convention.
// With DryRun set the steps are returned without being applied.
func RenameHierarchy(s *Scene, opt RenameOptions) ([]RenameStep, error) {
	if opt.Collection == "" {
		return nil, fmt.Errorf("scene: rename: a target collection is required")
	}
	root := s.Find(opt.Collection)
	if root == nil {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, opt.Collection)
	}

	suffix := ifc.DisciplineSuffix(opt.Discipline)
	steps := []RenameStep{{Old: root.Name, New: ifc.ProjectName(opt.ProjectCode, suffix)}}
	if !opt.DryRun {
		root.Name = steps[0].New
	}

	var walk func(c *Collection)
	walk = func(c *Collection) {
		for _, child := range c.Children {
			if newName, ok := ifc.RenameChild(child.Name, opt.Site, opt.Building, suffix); ok {
				steps = append(steps, RenameStep{Old: child.Name, New: newName})
				if !opt.DryRun {
					child.Name = newName
				}
			}
			walk(child)
		}
	}
	walk(root)
	return steps, nil
}

// ApplyRenameMap renames existing collections by exact name. Missing
// collections are skipped and reported in the returned steps with an
// empty New name.
func ApplyRenameMap(s *Scene, renames map[string]string, dryRun bool) []RenameStep {
	var steps []RenameStep
	for old, newName := range renames {
		found := false
		for _, c := range s.All() {
			if c.Name == old {
				steps = append(steps, RenameStep{Old: old, New: newName})
				if !dryRun {
					c.Name = newName
				}
				found = true
				break
			}
		}
		if !found {
			steps = append(steps, RenameStep{Old: old})
		}
	}
	return steps
}

// Reorganize applies parent/child pairs to the tree, moving each child
// under its parent. Pairs referencing unknown collections abort.
func Reorganize(s *Scene, pairs [][2]string, dryRun bool) error {
	for _, pair := range pairs {
		if dryRun {
			if s.Find(pair[0]) == nil || s.Find(pair[1]) == nil {
				return fmt.Errorf("%w: %s or %s", ErrCollectionNotFound, pair[0], pair[1])
			}
			continue
		}
		if err := s.Reparent(pair[0], pair[1]); err != nil {
			return fmt.Errorf("%s under %s: %w", pair[1], pair[0], err)
		}
	}
	return nil
}
