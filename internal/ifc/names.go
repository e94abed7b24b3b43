// Package ifc handles the string-encoded IFC naming convention used by the
// scene snapshots: collection and object names carry a path-like taxonomy
// such as "IfcProject/1772509/STR" or "IfcBuildingStorey/NIVEAU 3.001".
// Only the naming convention is interpreted here, not the IFC schema itself.
package ifc

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var ErrIncompleteHierarchy = errors.New("ifc: incomplete project hierarchy")

// Category returns the first "Ifc*" segment of a path-like name, or ""
// when the name carries no IFC category.
func Category(name string) string {
	if !strings.Contains(name, "Ifc") {
		return ""
	}
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, "Ifc") {
			return part
		}
	}
	return ""
}

var dupSuffixRe = regexp.MustCompile(`\.\d{3}$`)

// SpecificName extracts the human label from a taxonomy name:
// "IfcBuildingStorey/NIVEAU 1.001" -> "NIVEAU 1". Numeric duplicate
// suffixes (.001, .002, ...) are stripped.
func SpecificName(name string) string {
	if !strings.Contains(name, "/") {
		return dupSuffixRe.ReplaceAllString(name, "")
	}
	part := strings.SplitN(name, "/", 2)[1]
	// A further discipline segment may follow the label.
	if i := strings.Index(part, "/"); i >= 0 {
		part = part[:i]
	}
	return dupSuffixRe.ReplaceAllString(part, "")
}

// IsReference reports whether an object name marks a spatial reference
// point (site, building or storey placeholder).
func IsReference(name string) bool {
	for _, keyword := range []string{"IfcBuildingStorey", "IfcSite", "IfcBuilding"} {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// CleanName collapses the duplicated storey prefix some export rounds
// produce ("IfcBuildingStorey/IfcBuildingStorey/...").
func CleanName(name string) string {
	const dup = "IfcBuildingStorey/IfcBuildingStorey/"
	if strings.HasPrefix(name, dup) {
		return "IfcBuildingStorey/" + strings.TrimPrefix(name, dup)
	}
	return name
}

var levelNumRe = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// NormalizeStorey maps a raw level label to the standard storey segment:
// foundations become "Fond.", the roof "Toit", numbered levels "Niv_<n>".
// Special levels (mezzanines, canopies) keep a cleaned form of their label.
func NormalizeStorey(label string) string {
	upper := strings.ToUpper(label)
	switch {
	case strings.Contains(upper, "FONDATION"):
		return "Fond."
	case strings.Contains(upper, "TOIT"):
		return "Toit"
	case strings.Contains(label, "D.A.") || strings.Contains(upper, "MARQUISE") || strings.Contains(upper, "SUP."):
		clean := strings.ReplaceAll(label, " ", "_")
		return strings.ReplaceAll(clean, ".", "_")
	case strings.Contains(upper, "NIVEAU"):
		if m := levelNumRe.FindString(label); m != "" {
			return "Niv_" + m
		}
		clean := strings.ReplaceAll(label, "NIVEAU ", "")
		return strings.ReplaceAll(clean, " ", "_")
	default:
		return strings.ReplaceAll(label, " ", "_")
	}
}

// Hierarchy identifies the spatial containers of a project collection.
type Hierarchy struct {
	Site     string
	Project  string
	Building string
}

// Discipline returns the trailing discipline segment of a project
// collection name ("IfcProject/1772509/STR" -> "STR"), or "".
func Discipline(collName string) string {
	parts := strings.Split(collName, "/")
	if len(parts) < 3 {
		return ""
	}
	return parts[len(parts)-1]
}

// ParseHierarchy derives site, project and building labels from a project
// collection name and the names of its descendant collections. Trailing
// discipline segments are stripped from every label.
func ParseHierarchy(collName string, descendantNames []string) (Hierarchy, error) {
	var h Hierarchy

	if Category(collName) == "IfcProject" {
		h.Project = SpecificName(collName)
	}
	for _, name := range descendantNames {
		switch Category(name) {
		case "IfcSite":
			h.Site = SpecificName(name)
		case "IfcBuilding":
			h.Building = SpecificName(name)
		}
	}

	if h.Site == "" || h.Project == "" || h.Building == "" {
		return h, fmt.Errorf("%w: site=%q project=%q building=%q",
			ErrIncompleteHierarchy, h.Site, h.Project, h.Building)
	}
	return h, nil
}
