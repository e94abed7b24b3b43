// Package scene models the collection hierarchy a BIM scene carries:
// a tree of named collections holding mesh and empty objects. Scenes
// are loaded from glb snapshots or JSON snapshots; names are the only
// identifier a collection has.
package scene

import (
	"errors"
	"strings"

	"bim-tools/internal/gltfio"
	"bim-tools/internal/mathutil"
)

var ErrCollectionNotFound = errors.New("scene: collection not found")

// Kind tags what a scene object is.
type Kind string

const (
	KindMesh  Kind = "MESH"
	KindEmpty Kind = "EMPTY"
	KindOther Kind = "OTHER"
)

// Object is a single scene element. Mesh payloads are only present for
// mesh objects decoded from a glb snapshot.
type Object struct {
	Name       string
	Kind       Kind
	Location   mathutil.Vec3
	GlobalID   string
	Hidden     bool
	Properties map[string]string
	Mesh       *gltfio.MeshData
}

// Collection is a named group of objects and sub-collections.
type Collection struct {
	Name     string
	Children []*Collection
	Objects  []*Object
}

// Scene is the root container of top-level collections.
type Scene struct {
	Collections []*Collection
}

// All returns every collection in the scene, preorder.
func (s *Scene) All() []*Collection {
	var out []*Collection
	for _, c := range s.Collections {
		c.Walk(func(col *Collection) {
			out = append(out, col)
		})
	}
	return out
}

// Names returns the names of every collection in the scene.
func (s *Scene) Names() []string {
	all := s.All()
	names := make([]string, len(all))
	for i, c := range all {
		names[i] = c.Name
	}
	return names
}

// Find resolves a collection by exact name first, then by substring. It
// returns nil when nothing matches.
func (s *Scene) Find(name string) *Collection {
	all := s.All()
	for _, c := range all {
		if c.Name == name {
			return c
		}
	}
	for _, c := range all {
		if strings.Contains(c.Name, name) {
			return c
		}
	}
	return nil
}

// Match returns every collection whose name contains pattern,
// case-insensitively.
func (s *Scene) Match(pattern string) []*Collection {
	lower := strings.ToLower(pattern)
	var out []*Collection
	for _, c := range s.All() {
		if strings.Contains(strings.ToLower(c.Name), lower) {
			out = append(out, c)
		}
	}
	return out
}

// Ensure returns the top-level collection with the given name, creating it
// when absent.
func (s *Scene) Ensure(name string) *Collection {
	for _, c := range s.Collections {
		if c.Name == name {
			return c
		}
	}
	c := &Collection{Name: name}
	s.Collections = append(s.Collections, c)
	return c
}

// Reparent moves the named child collection under the named parent. Both
// must already exist.
func (s *Scene) Reparent(parentName, childName string) error {
	var parent, child *Collection
	for _, c := range s.All() {
		switch c.Name {
		case parentName:
			parent = c
		case childName:
			child = c
		}
	}
	if parent == nil || child == nil {
		return ErrCollectionNotFound
	}
	for _, existing := range parent.Children {
		if existing.Name == child.Name {
			return nil
		}
	}
	s.detach(child)
	parent.Children = append(parent.Children, child)
	return nil
}

func (s *Scene) detach(target *Collection) {
	for i, c := range s.Collections {
		if c == target {
			s.Collections = append(s.Collections[:i], s.Collections[i+1:]...)
			return
		}
	}
	for _, c := range s.All() {
		for i, child := range c.Children {
			if child == target {
				c.Children = append(c.Children[:i], c.Children[i+1:]...)
				return
			}
		}
	}
}

// Walk visits c and all of its descendants, preorder.
func (c *Collection) Walk(fn func(*Collection)) {
	fn(c)
	for _, child := range c.Children {
		child.Walk(fn)
	}
}

// AllObjects gathers the objects of c and all of its descendants.
func (c *Collection) AllObjects() []*Object {
	var out []*Object
	c.Walk(func(col *Collection) {
		out = append(out, col.Objects...)
	})
	return out
}

// MeshObjects gathers the mesh objects of c and all of its descendants.
func (c *Collection) MeshObjects() []*Object {
	var out []*Object
	for _, obj := range c.AllObjects() {
		if obj.Kind == KindMesh {
			out = append(out, obj)
		}
	}
	return out
}

// DescendantNames lists the names of every collection below c.
func (c *Collection) DescendantNames() []string {
	var out []string
	for _, child := range c.Children {
		child.Walk(func(col *Collection) {
			out = append(out, col.Name)
		})
	}
	return out
}

// Move shifts every object location in the subtree by delta and returns
// the number of objects moved.
func (c *Collection) Move(delta mathutil.Vec3) int {
	moved := 0
	c.Walk(func(col *Collection) {
		for _, obj := range col.Objects {
			obj.Location = obj.Location.Add(delta)
			moved++
		}
	})
	return moved
}
