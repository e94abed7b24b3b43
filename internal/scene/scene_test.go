package scene

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bim-tools/internal/gltfio"
	"bim-tools/internal/mathutil"
)

func testScene() *Scene {
	storey1 := &Collection{
		Name: "IfcBuildingStorey/NIVEAU 1/STR",
		Objects: []*Object{
			{Name: "IfcBuildingStorey/NIVEAU 1.001", Kind: KindEmpty, Location: mathutil.Vec3{0, 0, 0}},
			{Name: "IfcColumn/C-01", Kind: KindMesh, Location: mathutil.Vec3{1, 2, 0}},
			{Name: "IfcColumn/C-02", Kind: KindMesh, Location: mathutil.Vec3{3, 4, 0}, Hidden: true},
		},
	}
	storey2 := &Collection{
		Name: "IfcBuildingStorey/NIVEAU 2/STR",
		Objects: []*Object{
			{Name: "IfcBuildingStorey/NIVEAU 2.001", Kind: KindEmpty, Location: mathutil.Vec3{0, 0, 4}},
			{Name: "IfcBeam/B-01", Kind: KindMesh, Location: mathutil.Vec3{1, 2, 4}},
		},
	}
	building := &Collection{
		Name:     "IfcBuilding/MDA-Nicolet/STR",
		Children: []*Collection{storey1, storey2},
	}
	site := &Collection{
		Name:     "IfcSite/Montreal/STR",
		Children: []*Collection{building},
		Objects: []*Object{
			{Name: "IfcSite/Montreal.001", Kind: KindEmpty},
		},
	}
	project := &Collection{
		Name:     "IfcProject/1772509/STR",
		Children: []*Collection{site},
	}
	return &Scene{Collections: []*Collection{project}}
}

func TestFind(t *testing.T) {
	s := testScene()

	exact := s.Find("IfcSite/Montreal/STR")
	require.NotNil(t, exact)
	assert.Equal(t, "IfcSite/Montreal/STR", exact.Name)

	// Substring fallback, first match in preorder.
	byPattern := s.Find("NIVEAU 2")
	require.NotNil(t, byPattern)
	assert.Equal(t, "IfcBuildingStorey/NIVEAU 2/STR", byPattern.Name)

	assert.Nil(t, s.Find("IfcProject/9999"))
}

func TestMatch(t *testing.T) {
	s := testScene()
	assert.Len(t, s.Match("ifcbuildingstorey"), 2)
	assert.Len(t, s.Match("niveau 1"), 1)
	assert.Empty(t, s.Match("ENVELOPPE"))
}

func TestAllObjectsAndMove(t *testing.T) {
	s := testScene()
	project := s.Collections[0]

	objs := project.AllObjects()
	assert.Len(t, objs, 6)
	assert.Len(t, project.MeshObjects(), 3)

	moved := s.Find("NIVEAU 1").Move(mathutil.Vec3{10, 0, 0})
	assert.Equal(t, 3, moved)
	assert.Equal(t, mathutil.Vec3{11, 2, 0}, s.Find("NIVEAU 1").Objects[1].Location)
}

func TestReport(t *testing.T) {
	s := testScene()
	storey := s.Find("NIVEAU 1")

	r := Report(storey, false)
	assert.Equal(t, 2, r.Total) // hidden column skipped
	assert.Equal(t, 2, r.DirectObjects)
	assert.Equal(t, 1, r.ByKind[KindMesh])
	assert.Equal(t, 1, r.ByKind[KindEmpty])
	assert.Equal(t, 1, r.ByCategory["IfcColumn"])
	assert.Equal(t, []string{"IfcColumn/C-02"}, r.Hidden)
	assert.Empty(t, r.Warnings)

	all := Report(storey, true)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, 2, all.ByCategory["IfcColumn"])

	missing := all.Validate([]string{"IfcColumn", "IfcBeam"})
	assert.Equal(t, []string{"IfcBeam"}, missing)
}

func TestReportWarnings(t *testing.T) {
	r := Report(&Collection{Name: "empty"}, false)
	assert.Contains(t, r.Warnings, "no objects selected")
	assert.Contains(t, r.Warnings, "no reference empties selected")
}

func TestRenameHierarchy(t *testing.T) {
	raw := &Scene{Collections: []*Collection{
		{
			Name: "IfcProject/My Project.001",
			Children: []*Collection{
				{
					Name: "My Site",
					Children: []*Collection{
						{
							Name: "My Building",
							Children: []*Collection{
								{Name: "IfcBuildingStorey/NIVEAU 3"},
								{Name: "IfcBuildingStorey/FONDATIONS"},
							},
						},
					},
				},
			},
		},
	}}

	opts := RenameOptions{
		Collection:  "IfcProject/My Project.001",
		ProjectCode: "1772509",
		Site:        "Montreal",
		Building:    "MDA-Nicolet",
		Discipline:  "STR",
		DryRun:      true,
	}

	steps, err := RenameHierarchy(raw, opts)
	require.NoError(t, err)
	assert.Len(t, steps, 5)
	// Dry run leaves the tree untouched.
	assert.NotNil(t, raw.Find("My Site"))

	opts.DryRun = false
	_, err = RenameHierarchy(raw, opts)
	require.NoError(t, err)
	assert.NotNil(t, raw.Find("IfcProject/1772509/STR"))
	assert.NotNil(t, raw.Find("IfcSite/Montreal/STR"))
	assert.NotNil(t, raw.Find("IfcBuilding/MDA-Nicolet/STR"))
	assert.NotNil(t, raw.Find("IfcBuildingStorey/Niv_3/STR"))
	assert.NotNil(t, raw.Find("IfcBuildingStorey/Fond./STR"))

	_, err = RenameHierarchy(raw, RenameOptions{Collection: "nope-nothing"})
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestApplyRenameMapAndReorganize(t *testing.T) {
	s := &Scene{Collections: []*Collection{
		{Name: "IfcProject/My Project"},
		{Name: "IfcSite/My Site"},
	}}

	steps := ApplyRenameMap(s, map[string]string{
		"IfcSite/My Site": "IfcSite/Montreal",
		"missing":         "whatever",
	}, false)
	assert.Len(t, steps, 2)
	assert.NotNil(t, s.Find("IfcSite/Montreal"))
	// A missing collection surfaces as a step with an empty New name.
	for _, step := range steps {
		if step.Old == "missing" {
			assert.Empty(t, step.New)
		} else {
			assert.Equal(t, "IfcSite/Montreal", step.New)
		}
	}

	err := Reorganize(s, [][2]string{{"IfcProject/My Project", "IfcSite/Montreal"}}, false)
	require.NoError(t, err)
	project := s.Find("IfcProject/My Project")
	require.Len(t, project.Children, 1)
	assert.Equal(t, "IfcSite/Montreal", project.Children[0].Name)
	// Reparenting removed the site from the top level.
	assert.Len(t, s.Collections, 1)

	err = Reorganize(s, [][2]string{{"IfcProject/My Project", "gone"}}, false)
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := testScene()
	path := filepath.Join(t.TempDir(), "scene.json")

	require.NoError(t, s.SaveSnapshot(path))
	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)

	assert.Equal(t, s.Names(), loaded.Names())
	orig := s.Find("NIVEAU 1").AllObjects()
	got := loaded.Find("NIVEAU 1").AllObjects()
	require.Len(t, got, len(orig))
	for i := range orig {
		assert.Equal(t, orig[i].Name, got[i].Name)
		assert.Equal(t, orig[i].Kind, got[i].Kind)
		assert.Equal(t, orig[i].Location, got[i].Location)
		assert.Equal(t, orig[i].Hidden, got[i].Hidden)
	}
}

func TestGLBRoundTrip(t *testing.T) {
	s := &Scene{Collections: []*Collection{{
		Name: "IfcBuildingStorey/NIVEAU 1/STR",
		Objects: []*Object{
			{Name: "IfcBuildingStorey/NIVEAU 1.001", Kind: KindEmpty, Location: mathutil.Vec3{12.5, -3.25, 4.75}},
			{
				Name:     "IfcWall/W-01",
				Kind:     KindMesh,
				Location: mathutil.Vec3{1.5, 2.25, 0},
				GlobalID: "2O2Fr$t4X7Zf8NOew3FLKI",
				Mesh:     gltfio.Quad(0, 0, 2, 1, 0),
			},
		},
	}}}
	path := filepath.Join(t.TempDir(), "scene.glb")

	require.NoError(t, s.Save(path))
	loaded, err := LoadGLB(path)
	require.NoError(t, err)

	coll := loaded.Find("NIVEAU 1")
	require.NotNil(t, coll)
	objs := coll.AllObjects()
	require.Len(t, objs, 2)

	empty := objs[0]
	assert.Equal(t, KindEmpty, empty.Kind)
	assert.InDelta(t, 12.5, empty.Location[0], 1e-6)
	assert.InDelta(t, -3.25, empty.Location[1], 1e-6)
	assert.InDelta(t, 4.75, empty.Location[2], 1e-6)

	wall := objs[1]
	assert.Equal(t, KindMesh, wall.Kind)
	assert.Equal(t, "2O2Fr$t4X7Zf8NOew3FLKI", wall.GlobalID)
	assert.Equal(t, mathutil.Vec3{1.5, 2.25, 0}, wall.Location)
	require.NotNil(t, wall.Mesh)
	assert.Len(t, wall.Mesh.Positions, 4)
}
