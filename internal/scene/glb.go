package scene

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/qmuntal/gltf"

	"bim-tools/internal/gltfio"
	"bim-tools/internal/mathutil"
)

// Extras keys reserved by the toolkit. Anything else in node extras is
// treated as an object property.
const (
	extrasCollection = "collection"
	extrasGlobalID   = "global_id"
	extrasHidden     = "hidden"
	extrasProperties = "properties"
)

// Load reads a scene from a glb/glTF snapshot or a JSON snapshot,
// depending on the file extension.
func Load(path string) (*Scene, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadSnapshot(path)
	}
	return LoadGLB(path)
}

// LoadGLB builds the collection tree from a glb node hierarchy: nodes with
// children (or tagged as collections) become collections, leaf nodes with a
// mesh become mesh objects, the rest become empties. Node translations
// accumulate so object locations are absolute.
func LoadGLB(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}

	s := &Scene{}
	if len(doc.Scenes) == 0 {
		return s, nil
	}
	sceneIdx := 0
	if doc.Scene != nil {
		sceneIdx = int(*doc.Scene)
	}

	for _, root := range doc.Scenes[sceneIdx].Nodes {
		node := doc.Nodes[int(root)]
		if isContainer(node) {
			coll, err := loadCollection(doc, node, mathutil.Vec3{})
			if err != nil {
				return nil, err
			}
			s.Collections = append(s.Collections, coll)
			continue
		}
		// Loose top-level objects live in an implicit scene collection.
		obj, err := loadObject(doc, node, mathutil.Vec3{})
		if err != nil {
			return nil, err
		}
		loose := s.Ensure("Scene Collection")
		loose.Objects = append(loose.Objects, obj)
	}
	return s, nil
}

func loadCollection(doc *gltf.Document, node *gltf.Node, offset mathutil.Vec3) (*Collection, error) {
	coll := &Collection{Name: node.Name}
	at := offset.Add(translation(node))

	for _, childIdx := range node.Children {
		child := doc.Nodes[int(childIdx)]
		if isContainer(child) {
			sub, err := loadCollection(doc, child, at)
			if err != nil {
				return nil, err
			}
			coll.Children = append(coll.Children, sub)
			continue
		}
		obj, err := loadObject(doc, child, at)
		if err != nil {
			return nil, err
		}
		coll.Objects = append(coll.Objects, obj)
	}
	return coll, nil
}

func loadObject(doc *gltf.Document, node *gltf.Node, offset mathutil.Vec3) (*Object, error) {
	obj := &Object{
		Name:     node.Name,
		Kind:     KindEmpty,
		Location: offset.Add(translation(node)),
	}

	extras := gltfio.NodeExtras(node)
	obj.GlobalID, _ = extras[extrasGlobalID].(string)
	obj.Hidden, _ = extras[extrasHidden].(bool)
	obj.Properties = extractProperties(extras)

	if node.Mesh != nil {
		obj.Kind = KindMesh
		md, err := gltfio.ReadMeshData(doc, doc.Meshes[int(*node.Mesh)])
		if err != nil {
			return nil, fmt.Errorf("scene: object %q: %w", node.Name, err)
		}
		obj.Mesh = md
	}
	return obj, nil
}

// extractProperties flattens extras into string properties, keeping only
// simple values and merging a nested "properties" object when present.
func extractProperties(extras map[string]interface{}) map[string]string {
	if len(extras) == 0 {
		return nil
	}
	props := make(map[string]string)
	add := func(key string, value interface{}) {
		switch v := value.(type) {
		case string:
			props[key] = v
		case bool:
			props[key] = fmt.Sprintf("%t", v)
		case float64:
			props[key] = strconv.FormatFloat(v, 'g', -1, 64)
		}
	}
	for key, value := range extras {
		switch key {
		case extrasCollection, extrasGlobalID, extrasHidden:
			// reserved
		case extrasProperties:
			if nested, ok := value.(map[string]interface{}); ok {
				for k, v := range nested {
					add(k, v)
				}
			}
		default:
			add(key, value)
		}
	}
	if len(props) == 0 {
		return nil
	}
	return props
}

func isContainer(node *gltf.Node) bool {
	if node.Mesh != nil {
		return false
	}
	if len(node.Children) > 0 {
		return true
	}
	extras := gltfio.NodeExtras(node)
	tagged, _ := extras[extrasCollection].(bool)
	return tagged
}

func translation(node *gltf.Node) mathutil.Vec3 {
	return mathutil.Vec3{
		float64(node.Translation[0]),
		float64(node.Translation[1]),
		float64(node.Translation[2]),
	}
}

// Save writes the scene as a glb file, or as a JSON snapshot when the
// path carries a .json extension.
func (s *Scene) Save(path string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return s.SaveSnapshot(path)
	}
	b := gltfio.NewBuilder("bim-tools")
	for _, coll := range s.Collections {
		if err := saveCollection(b, -1, coll); err != nil {
			return err
		}
	}
	return b.Save(path)
}

func saveCollection(b *gltfio.Builder, parent int, coll *Collection) error {
	group := b.AddGroup(parent, coll.Name)
	for _, obj := range coll.Objects {
		extras := objectExtras(obj)
		if obj.Kind == KindMesh && obj.Mesh != nil {
			b.AddMesh(group, obj.Name, obj.Location, obj.Mesh, extras)
		} else {
			b.AddEmpty(group, obj.Name, obj.Location, extras)
		}
	}
	for _, child := range coll.Children {
		if err := saveCollection(b, group, child); err != nil {
			return err
		}
	}
	return nil
}

func objectExtras(obj *Object) map[string]interface{} {
	extras := make(map[string]interface{})
	if obj.GlobalID != "" {
		extras[extrasGlobalID] = obj.GlobalID
	}
	if obj.Hidden {
		extras[extrasHidden] = true
	}
	if len(obj.Properties) > 0 {
		props := make(map[string]interface{}, len(obj.Properties))
		for k, v := range obj.Properties {
			props[k] = v
		}
		extras[extrasProperties] = props
	}
	if len(extras) == 0 {
		return nil
	}
	return extras
}
