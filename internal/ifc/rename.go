package ifc

import "strings"

// DisciplineSuffix returns the segment appended to renamed collection
// names. Without a discipline the legacy ".001" duplicate marker is kept so
// renamed trees never collide with an already conforming hierarchy.
func DisciplineSuffix(discipline string) string {
	if discipline == "" {
		return ".001"
	}
	return "/" + discipline
}

// ProjectName builds the standard root collection name for a project code.
func ProjectName(code, suffix string) string {
	return "IfcProject/" + code + suffix
}

// RenameChild maps a raw imported collection name to its standard IFC
// hierarchy name. The second result is false when the name identifies
// neither a site, a building nor a storey.
func RenameChild(name, site, building, suffix string) (string, bool) {
	upper := strings.ToUpper(name)

	switch {
	case strings.Contains(upper, "SITE") || strings.Contains(name, "IfcSite"):
		return "IfcSite/" + site + suffix, true

	case (strings.Contains(upper, "BUILDING") || strings.Contains(name, "IfcBuilding")) &&
		!strings.Contains(upper, "STOREY"):
		return "IfcBuilding/" + building + suffix, true

	case strings.Contains(upper, "STOREY") || strings.HasPrefix(name, "IfcBuildingStorey/"):
		level := name
		if i := strings.Index(name, "/"); i >= 0 {
			level = name[i+1:]
		}
		return CleanName("IfcBuildingStorey/" + NormalizeStorey(level) + suffix), true
	}
	return "", false
}
