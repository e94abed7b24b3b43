package importer

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bim-tools/internal/extract"
	"bim-tools/internal/gltfio"
	"bim-tools/internal/library"
	"bim-tools/internal/mathutil"
	"bim-tools/internal/scene"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func sampleIndex() []library.IndexRecord {
	return []library.IndexRecord{
		{Name: "IfcWall/W-01", Storey: "NIVEAU 3", Discipline: "STR", GLBPath: "glb/STR_NIVEAU_3.glb"},
		{Name: "IfcWall/W-02", Storey: "NIVEAU 3", Discipline: "STR", GLBPath: "glb/STR_NIVEAU_3.glb"},
		{Name: "IfcSlab/S-01", Storey: "NIVEAU 4", Discipline: "STR", GLBPath: "glb/STR_NIVEAU_4.glb"},
		{Name: "IfcDuct/D-01", Storey: "NIVEAU 3", Discipline: "CVC", GLBPath: "glb/CVC_NIVEAU_3.glb"},
	}
}

func TestFilter(t *testing.T) {
	records := sampleIndex()

	all := Group(records, Filter{})
	assert.Len(t, all, 3)

	str := Group(records, Filter{Discipline: "STR"})
	require.Len(t, str, 2)
	assert.Equal(t, "STR/NIVEAU 3", str[0].CollectionName())
	assert.Len(t, str[0].Records, 2)
	assert.Equal(t, "STR/NIVEAU 4", str[1].CollectionName())

	// Substring match, the way levels are referred to on site.
	niv3 := Group(records, Filter{Storey: "NIVEAU 3"})
	assert.Len(t, niv3, 2)

	none := Group(records, Filter{Storey: "NIVEAU 9"})
	assert.Empty(t, none)
}

func TestRunMissingFiles(t *testing.T) {
	dir := t.TempDir()
	indexPath := filepath.Join(dir, "index.json")
	require.NoError(t, library.WriteIndex(indexPath, sampleIndex()))

	s, report, err := Run(Config{IndexPath: indexPath, Log: quietLog()})
	require.NoError(t, err)
	assert.Equal(t, 3, report.Batches)
	assert.Equal(t, 0, report.Imported)
	assert.Len(t, report.Missing, 3)
	assert.Empty(t, s.Collections)
}

func extractedLibrary(t *testing.T) library.Layout {
	t.Helper()

	wall := gltfio.Quad(0, 0, 4, 0.2, 0)
	src := &scene.Scene{Collections: []*scene.Collection{
		{
			Name: "IfcProject/1772509/STR",
			Children: []*scene.Collection{
				{Name: "IfcSite/Montreal/STR"},
				{Name: "IfcBuilding/MDA-Nicolet/STR"},
				{
					Name: "IfcBuildingStorey/NIVEAU 3/STR",
					Objects: []*scene.Object{
						{Name: "IfcWall/W-01", Kind: scene.KindMesh, Location: mathutil.Vec3{1, 0, 9}, Mesh: wall},
						{Name: "IfcWall/W-02", Kind: scene.KindMesh, Location: mathutil.Vec3{5, 0, 9}, Mesh: wall},
					},
				},
				{
					Name: "IfcBuildingStorey/NIVEAU 4/STR",
					Objects: []*scene.Object{
						{Name: "IfcSlab/S-01", Kind: scene.KindMesh, Location: mathutil.Vec3{0, 0, 12}, Mesh: gltfio.Quad(0, 0, 10, 10, 0)},
					},
				},
			},
		},
	}}

	base := t.TempDir()
	_, err := extract.Run(extract.Config{
		Scene:       src,
		BaseDir:     base,
		Collections: []string{"IfcProject/1772509/STR"},
		Workers:     1,
		Log:         quietLog(),
	})
	require.NoError(t, err)

	return library.Layout{
		BaseDir: base, Site: "Montreal", ProjectID: "1772509",
		Building: "MDA-Nicolet", Discipline: "STR",
	}
}

func TestRoundTrip(t *testing.T) {
	layout := extractedLibrary(t)

	s, report, err := Run(Config{
		IndexPath: layout.IndexPath(),
		GLBDir:    layout.GLBDir(),
		Log:       quietLog(),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Batches)
	assert.Equal(t, 3, report.Imported)
	assert.Empty(t, report.Missing)

	niv3 := s.Find("STR/NIVEAU 3")
	require.NotNil(t, niv3)
	objs := niv3.AllObjects()
	require.Len(t, objs, 2)
	names := []string{objs[0].Name, objs[1].Name}
	assert.Contains(t, names, "IfcWall/W-01")
	assert.Contains(t, names, "IfcWall/W-02")
	for _, obj := range objs {
		assert.Equal(t, scene.KindMesh, obj.Kind)
		require.NotNil(t, obj.Mesh)
		assert.Len(t, obj.Mesh.Positions, 4)
	}

	niv4 := s.Find("STR/NIVEAU 4")
	require.NotNil(t, niv4)
	assert.Len(t, niv4.AllObjects(), 1)
}

func TestRoundTripStoreyFilter(t *testing.T) {
	layout := extractedLibrary(t)

	s, report, err := Run(Config{
		IndexPath: layout.IndexPath(),
		GLBDir:    layout.GLBDir(),
		Filter:    Filter{Storey: "NIVEAU 4", Discipline: "STR"},
		Log:       quietLog(),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Batches)
	assert.Equal(t, 1, report.Imported)
	assert.Nil(t, s.Find("STR/NIVEAU 3"))
	require.NotNil(t, s.Find("STR/NIVEAU 4"))
}
