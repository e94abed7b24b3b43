package library

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	l := Layout{
		BaseDir:    "/export",
		Site:       "Montreal Est",
		ProjectID:  "1772509",
		Building:   "MDA-Nicolet",
		Discipline: "STR",
	}

	assert.Equal(t, filepath.Join("/export", "Montreal_Est_1772509", "MDA-Nicolet_STR"), l.Dir())
	assert.Equal(t, filepath.Join(l.Dir(), "glb"), l.GLBDir())
	assert.Equal(t, filepath.Join(l.Dir(), "bim_library.sqlite"), l.DBPath())
	assert.Equal(t, filepath.Join(l.Dir(), "index.json"), l.IndexPath())
	assert.Equal(t, "STR_NIVEAU_3.glb", l.GLBFile("NIVEAU 3"))
	assert.Equal(t, filepath.Join(l.GLBDir(), "STR_NIVEAU_3.glb"), l.GLBPath("NIVEAU 3"))
}

func testElements(created time.Time) []*Element {
	return []*Element{
		{
			GlobalID:   "2O2Fr$t4X7Zf8NOew3FLOH",
			Name:       "IfcWall/Cloison 92mm",
			Type:       "MESH",
			Storey:     "NIVEAU 5",
			Discipline: "STR",
			GLBPath:    "glb/STR_NIVEAU_5.glb",
			CreatedAt:  created,
			Properties: map[string]string{"LoadBearing": "True", "FireRating": "1h"},
		},
		{
			GlobalID:   "1kTvXnbbzCWw8lcMd1dR4o",
			Name:       "IfcWall/Cloison 92mm",
			Type:       "MESH",
			Storey:     "NIVEAU 5",
			Discipline: "STR",
			GLBPath:    "glb/STR_NIVEAU_5.glb",
			CreatedAt:  created,
		},
		{
			GlobalID:   "0jf0XnbbzCWw8lcMd1dR4o",
			Name:       "IfcSlab/Plancher",
			Type:       "MESH",
			Storey:     "NIVEAU 4",
			Discipline: "STR",
			GLBPath:    "glb/STR_NIVEAU_4.glb",
			CreatedAt:  created,
		},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "bim_library.sqlite"))
	require.NoError(t, err)
	defer store.Close()

	created := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	elements := testElements(created)
	require.NoError(t, store.InsertBatch(elements))

	// Inserted ids are backfilled.
	for _, el := range elements {
		assert.Greater(t, el.ID, int64(0))
	}

	storeys, err := store.Storeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"NIVEAU 4", "NIVEAU 5"}, storeys)

	loaded, err := store.ElementsByStorey("NIVEAU 5")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "IfcWall/Cloison 92mm", loaded[0].Name)
	assert.Equal(t, created, loaded[0].CreatedAt)
	assert.Equal(t, map[string]string{"LoadBearing": "True", "FireRating": "1h"}, loaded[0].Properties)
	assert.Nil(t, loaded[1].Properties)
}

func TestUsageByStorey(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "bim_library.sqlite"))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.InsertBatch(testElements(time.Now().UTC())))

	rows, err := store.UsageByStorey("NIVEAU 5")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, UsageRow{Name: "IfcWall/Cloison 92mm", Type: "MESH", Count: 2}, rows[0])

	empty, err := store.UsageByStorey("NIVEAU 99")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestIndexRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	records := []IndexRecord{
		{
			Name:       "IfcWall/Cloison 92mm",
			Storey:     "NIVEAU 5",
			Type:       "MESH",
			Discipline: "STR",
			GLBPath:    "glb/STR_NIVEAU_5.glb",
			GlobalID:   "2O2Fr$t4X7Zf8NOew3FLOH",
			Properties: map[string]string{"LoadBearing": "True"},
		},
		{Name: "IfcSlab/Plancher", Storey: "NIVEAU 4", Type: "MESH", Discipline: "STR"},
	}

	require.NoError(t, WriteIndex(path, records))
	loaded, err := ReadIndex(path)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)
}
