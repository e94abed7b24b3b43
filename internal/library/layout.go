// Package library manages the on-disk element library an extraction run
// produces: a directory of per-storey glb batches, a SQLite database and a
// JSON index describing every exported element.
package library

import (
	"os"
	"path/filepath"
	"strings"
)

// Layout resolves the directory structure of one library:
// <base>/<site>_<project>/<building>_<discipline>/{glb/,bim_library.sqlite,index.json,log.txt}.
type Layout struct {
	BaseDir    string
	Site       string
	ProjectID  string
	Building   string
	Discipline string
}

// Dir is the building/discipline directory holding the whole library.
func (l Layout) Dir() string {
	project := sanitize(l.Site) + "_" + l.ProjectID
	building := sanitize(l.Building) + "_" + l.Discipline
	return filepath.Join(l.BaseDir, project, building)
}

func (l Layout) GLBDir() string    { return filepath.Join(l.Dir(), "glb") }
func (l Layout) DBPath() string    { return filepath.Join(l.Dir(), "bim_library.sqlite") }
func (l Layout) IndexPath() string { return filepath.Join(l.Dir(), "index.json") }
func (l Layout) LogPath() string   { return filepath.Join(l.Dir(), "log.txt") }

// GLBFile is the batch file for one storey, relative to nothing: callers
// join it themselves or use GLBPath.
func (l Layout) GLBFile(storey string) string {
	return l.Discipline + "_" + sanitize(storey) + ".glb"
}

// GLBPath is the absolute batch path for one storey.
func (l Layout) GLBPath(storey string) string {
	return filepath.Join(l.GLBDir(), l.GLBFile(storey))
}

// MkDirs creates the library directory tree.
func (l Layout) MkDirs() error {
	return os.MkdirAll(l.GLBDir(), 0o755)
}

// sanitize turns a human label into a filesystem-safe path segment.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	return strings.ReplaceAll(s, "/", "_")
}
