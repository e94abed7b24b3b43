// Package importer rebuilds scene collections from a library index,
// loading the per-storey glb batches back into one scene.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"bim-tools/internal/library"
	"bim-tools/internal/scene"
)

// Filter selects index records by substring, how the field crews refer to
// levels. Empty fields match everything.
type Filter struct {
	Storey     string
	Discipline string
}

// Matches reports whether a record passes the filter.
func (f Filter) Matches(r library.IndexRecord) bool {
	if f.Storey != "" && !strings.Contains(r.Storey, f.Storey) {
		return false
	}
	if f.Discipline != "" && !strings.Contains(r.Discipline, f.Discipline) {
		return false
	}
	return true
}

// Batch is one (discipline, storey, glb) group of filtered records.
type Batch struct {
	Discipline string
	Storey     string
	GLBPath    string
	Records    []library.IndexRecord
}

// CollectionName is the collection a batch imports into.
func (b Batch) CollectionName() string {
	return b.Discipline + "/" + b.Storey
}

// Group filters the index and groups the surviving records per batch,
// preserving index order.
func Group(records []library.IndexRecord, f Filter) []Batch {
	type key struct{ discipline, storey, glb string }
	index := make(map[key]int)
	var batches []Batch

	for _, r := range records {
		if !f.Matches(r) {
			continue
		}
		k := key{r.Discipline, r.Storey, r.GLBPath}
		i, ok := index[k]
		if !ok {
			i = len(batches)
			index[k] = i
			batches = append(batches, Batch{
				Discipline: r.Discipline,
				Storey:     r.Storey,
				GLBPath:    r.GLBPath,
			})
		}
		batches[i].Records = append(batches[i].Records, r)
	}
	return batches
}

// Config drives one import run.
type Config struct {
	IndexPath string
	GLBDir    string
	Filter    Filter
	Log       *logrus.Logger
}

// Report summarizes an import run.
type Report struct {
	Batches  int
	Imported int
	Missing  []string
}

// Run reads the index, filters it and merges each batch glb into a fresh
// scene, one collection per batch. Missing batch files are reported and
// skipped.
func Run(cfg Config) (*scene.Scene, *Report, error) {
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}
	records, err := library.ReadIndex(cfg.IndexPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.GLBDir == "" {
		cfg.GLBDir = filepath.Join(filepath.Dir(cfg.IndexPath), "glb")
	}

	batches := Group(records, cfg.Filter)
	cfg.Log.Infof("importing %d batches after filtering", len(batches))

	out := &scene.Scene{}
	report := &Report{Batches: len(batches)}

	for _, batch := range batches {
		glbPath := resolveGLB(batch.GLBPath, cfg.GLBDir)
		if glbPath == "" {
			cfg.Log.Warnf("missing batch file for %s", batch.CollectionName())
			report.Missing = append(report.Missing, batch.GLBPath)
			continue
		}

		loaded, err := scene.LoadGLB(glbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("importer: load %s: %w", glbPath, err)
		}

		coll := out.Ensure(batch.CollectionName())
		for _, c := range loaded.Collections {
			for _, obj := range c.AllObjects() {
				coll.Objects = append(coll.Objects, obj)
				report.Imported++
			}
		}
		cfg.Log.Infof("imported batch %s into %s", filepath.Base(glbPath), batch.CollectionName())
	}
	return out, report, nil
}

// resolveGLB resolves a recorded batch path, trying the recorded location
// first and the library glb dir second. It returns "" when neither exists.
func resolveGLB(recorded, glbDir string) string {
	if recorded == "" {
		return ""
	}
	if filepath.IsAbs(recorded) {
		if _, err := os.Stat(recorded); err == nil {
			return recorded
		}
	}
	local := filepath.Join(glbDir, filepath.Base(recorded))
	if _, err := os.Stat(local); err == nil {
		return local
	}
	return ""
}
