package scene

import (
	"encoding/json"
	"fmt"
	"os"

	"bim-tools/internal/mathutil"
)

// JSON snapshots carry the tree and object metadata but no mesh payloads;
// geometry stays in glb files.

type snapshotObject struct {
	Name       string            `json:"name"`
	Kind       Kind              `json:"kind"`
	Location   [3]float64        `json:"location"`
	GlobalID   string            `json:"global_id,omitempty"`
	Hidden     bool              `json:"hidden,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type snapshotCollection struct {
	Name     string               `json:"name"`
	Children []snapshotCollection `json:"collections,omitempty"`
	Objects  []snapshotObject     `json:"objects,omitempty"`
}

type snapshot struct {
	Collections []snapshotCollection `json:"collections"`
}

// LoadSnapshot reads a JSON scene snapshot.
func LoadSnapshot(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}

	s := &Scene{}
	for _, sc := range snap.Collections {
		s.Collections = append(s.Collections, fromSnapshot(sc))
	}
	return s, nil
}

// SaveSnapshot writes the scene as a JSON snapshot.
func (s *Scene) SaveSnapshot(path string) error {
	snap := snapshot{}
	for _, c := range s.Collections {
		snap.Collections = append(snap.Collections, toSnapshot(c))
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("scene: encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("scene: write %s: %w", path, err)
	}
	return nil
}

func fromSnapshot(sc snapshotCollection) *Collection {
	coll := &Collection{Name: sc.Name}
	for _, child := range sc.Children {
		coll.Children = append(coll.Children, fromSnapshot(child))
	}
	for _, so := range sc.Objects {
		kind := so.Kind
		if kind == "" {
			kind = KindOther
		}
		coll.Objects = append(coll.Objects, &Object{
			Name:       so.Name,
			Kind:       kind,
			Location:   mathutil.Vec3(so.Location),
			GlobalID:   so.GlobalID,
			Hidden:     so.Hidden,
			Properties: so.Properties,
		})
	}
	return coll
}

func toSnapshot(c *Collection) snapshotCollection {
	sc := snapshotCollection{Name: c.Name}
	for _, child := range c.Children {
		sc.Children = append(sc.Children, toSnapshot(child))
	}
	for _, obj := range c.Objects {
		sc.Objects = append(sc.Objects, snapshotObject{
			Name:       obj.Name,
			Kind:       obj.Kind,
			Location:   [3]float64(obj.Location),
			GlobalID:   obj.GlobalID,
			Hidden:     obj.Hidden,
			Properties: obj.Properties,
		})
	}
	return sc
}
