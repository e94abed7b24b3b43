// Package extract exports the mesh objects of project collections into a
// library: one glb batch per storey plus the SQLite/JSON element index.
package extract

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bim-tools/internal/gltfio"
	"bim-tools/internal/ifc"
	"bim-tools/internal/library"
	"bim-tools/internal/scene"
)

// Config holds all shared resources for an extraction run.
type Config struct {
	Scene       *scene.Scene
	BaseDir     string
	Collections []string
	Workers     int
	Log         *logrus.Logger
}

// StoreyResult holds the outcome of exporting one storey batch.
type StoreyResult struct {
	Storey   string
	GLBPath  string
	Elements []*library.Element
	Success  bool
	Error    string
}

// Report summarizes the extraction of one project collection.
type Report struct {
	Collection string
	Discipline string
	Dir        string
	Storeys    []StoreyResult
	Indexed    int
}

// Run extracts every configured collection in turn. A missing collection
// or an unresolvable hierarchy aborts that collection, not the run.
func Run(cfg Config) ([]Report, error) {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Log == nil {
		cfg.Log = logrus.New()
	}

	var reports []Report
	for _, name := range cfg.Collections {
		report, err := extractCollection(cfg, name)
		if err != nil {
			cfg.Log.WithError(err).Errorf("skipping %s", name)
			continue
		}
		reports = append(reports, *report)
	}
	if len(reports) == 0 {
		return nil, fmt.Errorf("extract: no collection extracted")
	}
	return reports, nil
}

func extractCollection(cfg Config, name string) (*Report, error) {
	coll := cfg.Scene.Find(name)
	if coll == nil {
		return nil, fmt.Errorf("%w: %s", scene.ErrCollectionNotFound, name)
	}

	discipline := ifc.Discipline(coll.Name)
	hier, err := ifc.ParseHierarchy(coll.Name, coll.DescendantNames())
	if err != nil {
		return nil, fmt.Errorf("extract: %s: %w", coll.Name, err)
	}

	layout := library.Layout{
		BaseDir:    cfg.BaseDir,
		Site:       hier.Site,
		ProjectID:  hier.Project,
		Building:   hier.Building,
		Discipline: discipline,
	}
	if err := layout.MkDirs(); err != nil {
		return nil, fmt.Errorf("extract: create %s: %w", layout.Dir(), err)
	}

	store, err := library.Open(layout.DBPath())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	// The library keeps its own run history in log.txt, so the run log is
	// teed into it for the duration of this collection.
	if f, err := os.OpenFile(layout.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
		defer f.Close()
		scoped := logrus.New()
		scoped.SetFormatter(cfg.Log.Formatter)
		scoped.SetLevel(cfg.Log.GetLevel())
		scoped.SetOutput(io.MultiWriter(cfg.Log.Out, f))
		cfg.Log = scoped
	}

	cfg.Log.Infof("extracting %s into %s", discipline, layout.Dir())

	storeys := storeyCollections(coll)
	results := runBatches(cfg, layout, discipline, storeys)

	// Database and index writes stay sequential; only the glb encoding
	// runs on the pool.
	var index []library.IndexRecord
	indexed := 0
	for _, res := range results {
		if len(res.Elements) == 0 {
			continue
		}
		if err := store.InsertBatch(res.Elements); err != nil {
			return nil, err
		}
		for _, el := range res.Elements {
			index = append(index, library.IndexRecordOf(el))
		}
		indexed += len(res.Elements)
		cfg.Log.Infof("batch done for storey %s (%d elements)", res.Storey, len(res.Elements))
	}
	if err := library.WriteIndex(layout.IndexPath(), index); err != nil {
		return nil, err
	}

	cfg.Log.Infof("extraction done for %s: %d elements indexed", discipline, indexed)
	return &Report{
		Collection: coll.Name,
		Discipline: discipline,
		Dir:        layout.Dir(),
		Storeys:    results,
		Indexed:    indexed,
	}, nil
}

// storeyCollections picks the storey children of a project subtree.
func storeyCollections(coll *scene.Collection) []*scene.Collection {
	var out []*scene.Collection
	coll.Walk(func(c *scene.Collection) {
		if ifc.Category(c.Name) == "IfcBuildingStorey" {
			out = append(out, c)
		}
	})
	return out
}

// runBatches encodes the storey glb batches on a worker pool.
func runBatches(cfg Config, layout library.Layout, discipline string, storeys []*scene.Collection) []StoreyResult {
	total := len(storeys)
	results := make([]StoreyResult, total)
	var processed atomic.Int64

	start := time.Now()
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					cfg.Log.Infof("[%d/%d] %.1f storeys/sec", p, total, rate)
				}
			}
		}
	}()

	storeyChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range storeyChan {
				results[idx] = exportStorey(cfg, layout, discipline, storeys[idx])
				processed.Add(1)
			}
		}()
	}
	for i := range storeys {
		storeyChan <- i
	}
	close(storeyChan)

	wg.Wait()
	close(done)
	return results
}

func exportStorey(cfg Config, layout library.Layout, discipline string, coll *scene.Collection) StoreyResult {
	storey := ifc.SpecificName(coll.Name)
	res := StoreyResult{Storey: storey}

	objs := coll.MeshObjects()
	if len(objs) == 0 {
		res.Success = true
		return res
	}

	glbPath := layout.GLBPath(storey)
	if err := writeBatch(glbPath, storey, objs); err != nil {
		// A failed glb write does not abort the batch. The elements are
		// still indexed, with an empty glb_path.
		cfg.Log.WithError(err).Errorf("glb batch failed for storey %s", storey)
		res.Error = err.Error()
		glbPath = ""
	} else {
		res.Success = true
		res.GLBPath = glbPath
	}

	now := time.Now().UTC()
	for _, obj := range objs {
		globalID := obj.GlobalID
		if globalID == "" {
			globalID = uuid.NewString()
		}
		res.Elements = append(res.Elements, &library.Element{
			GlobalID:   globalID,
			Name:       obj.Name,
			Type:       string(obj.Kind),
			Storey:     storey,
			Discipline: discipline,
			GLBPath:    glbPath,
			CreatedAt:  now,
			Properties: CleanProperties(obj.Properties),
		})
	}
	return res
}

// writeBatch encodes one storey's mesh objects as a flat glb.
func writeBatch(path, storey string, objs []*scene.Object) error {
	b := gltfio.NewBuilder("bim-tools extract")
	root := b.AddGroup(-1, storey)
	for _, obj := range objs {
		if obj.Mesh == nil {
			continue
		}
		extras := map[string]interface{}{}
		if obj.GlobalID != "" {
			extras["global_id"] = obj.GlobalID
		}
		b.AddMesh(root, obj.Name, obj.Location, obj.Mesh, extras)
	}
	return b.Save(path)
}

// hostPropertyBlocks are the property-set blocks the authoring tool
// attaches to every object. They are scene bookkeeping, not element data,
// and never reach the library.
var hostPropertyBlocks = map[string]bool{
	"BIMObjectProperties": true, "BIMProperties": true, "DocProperties": true,
	"BIMGeoreferenceProperties": true, "BIMAggregateProperties": true, "BIMNestProperties": true,
	"BIMModelProperties": true, "WebProperties": true, "BIMProjectProperties": true,
	"BIMSystemProperties": true, "BIMDebugProperties": true, "DiffProperties": true,
	"BIMSpatialDecompositionProperties": true, "BIMRootProperties": true, "BIMGridProperties": true,
	"BIMGeometryProperties": true, "BIMSearchProperties": true, "GlobalPsetProperties": true,
	"BIMQtoProperties": true, "BIMMaterialProperties": true, "BIMStylesProperties": true,
	"BIMProfileProperties": true, "BIMClassificationProperties": true, "BIMBSDDProperties": true,
	"BIMClassificationReferenceProperties": true,
}

// CleanProperties drops the host property blocks and internal keys from a
// scraped property map.
func CleanProperties(props map[string]string) map[string]string {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]string, len(props))
	for k, v := range props {
		if hostPropertyBlocks[k] || strings.HasPrefix(k, "_") {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
