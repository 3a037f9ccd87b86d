package studio

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const (
	glbMagic       = 0x46546C67 // "glTF"
	positionStride = 12
)

// ParseModel reads a glTF asset (binary .glb or JSON .gltf) and returns an
// object whose LocalBounds cover every mesh of the default scene.
func ParseModel(data []byte) (*Object3D, error) {
	doc, err := decodeGLTF(data)
	if err != nil {
		return nil, err
	}
	object := &Object3D{
		Scale:       Vec3{1, 1, 1},
		LocalBounds: EmptyBox(),
	}

	roots, err := rootNodes(doc)
	if err != nil {
		return nil, err
	}
	visited := make(map[int]bool)
	for _, root := range roots {
		if err := walk(doc, root, mgl64.Ident4(), object, visited); err != nil {
			return nil, err
		}
	}
	if len(roots) > 0 && object.Name == "" {
		object.Name = doc.Nodes[roots[0]].Name
	}
	return object, nil
}

func decodeGLTF(data []byte) (*gltf.Document, error) {
	isBinary := len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic
	if !isBinary {
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			return nil, fmt.Errorf("gltf: not a glTF asset")
		}
		data = trimmed
	}
	var doc gltf.Document
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("gltf: decode: %w", err)
	}
	return &doc, nil
}

func rootNodes(doc *gltf.Document) ([]int, error) {
	if len(doc.Scenes) > 0 {
		index := 0
		if doc.Scene != nil {
			index = int(*doc.Scene)
		}
		if index < 0 || index >= len(doc.Scenes) {
			return nil, fmt.Errorf("gltf: scene %d out of range", index)
		}
		nodes := make([]int, len(doc.Scenes[index].Nodes))
		for i, n := range doc.Scenes[index].Nodes {
			nodes[i] = int(n)
		}
		return nodes, nil
	}
	// without scenes every node nobody references is a root
	referenced := make(map[int]bool)
	for _, node := range doc.Nodes {
		for _, child := range node.Children {
			referenced[int(child)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !referenced[i] {
			roots = append(roots, i)
		}
	}
	return roots, nil
}

func walk(doc *gltf.Document, index int, parent Mat4, object *Object3D, visited map[int]bool) error {
	if index < 0 || index >= len(doc.Nodes) {
		return fmt.Errorf("gltf: node %d out of range", index)
	}
	if visited[index] {
		return fmt.Errorf("gltf: node %d visited twice", index)
	}
	visited[index] = true
	node := doc.Nodes[index]
	world := parent.Mul4(localMatrix(node))

	if node.Mesh != nil {
		bounds, vertices, err := meshBounds(doc, int(*node.Mesh))
		if err != nil {
			return err
		}
		object.LocalBounds = object.LocalBounds.Union(bounds.ApplyMatrix(world))
		object.MeshCount++
		object.VertexCount += vertices
	}
	for _, child := range node.Children {
		if err := walk(doc, int(child), world, object, visited); err != nil {
			return err
		}
	}
	return nil
}

// localMatrix prefers an explicit matrix and otherwise composes TRS, treating
// zero rotation and scale as unset.
func localMatrix(node *gltf.Node) Mat4 {
	matrix := Mat4(node.Matrix)
	if matrix != (Mat4{}) && matrix != mgl64.Ident4() {
		return matrix
	}
	rotation := node.Rotation
	if rotation == [4]float64{} {
		rotation = [4]float64{0, 0, 0, 1}
	}
	scale := Vec3(node.Scale)
	if scale == (Vec3{}) {
		scale = Vec3{1, 1, 1}
	}
	return ComposeTRS(Vec3(node.Translation), rotation, scale)
}

func meshBounds(doc *gltf.Document, index int) (Box3, int, error) {
	if index < 0 || index >= len(doc.Meshes) {
		return Box3{}, 0, fmt.Errorf("gltf: mesh %d out of range", index)
	}
	bounds := EmptyBox()
	vertices := 0
	for _, primitive := range doc.Meshes[index].Primitives {
		accessorIndex, ok := primitive.Attributes["POSITION"]
		if !ok {
			continue
		}
		if accessorIndex < 0 || int(accessorIndex) >= len(doc.Accessors) {
			return Box3{}, 0, fmt.Errorf("gltf: accessor %d out of range", accessorIndex)
		}
		accessor := doc.Accessors[accessorIndex]
		box, err := accessorBounds(doc, accessor)
		if err != nil {
			return Box3{}, 0, err
		}
		bounds = bounds.Union(box)
		vertices += int(accessor.Count)
	}
	return bounds, vertices, nil
}

// accessorBounds prefers the declared min/max and falls back to reading
// float positions from the buffer.
func accessorBounds(doc *gltf.Document, accessor *gltf.Accessor) (Box3, error) {
	if len(accessor.Min) == 3 && len(accessor.Max) == 3 {
		return Box3{
			Min: Vec3{accessor.Min[0], accessor.Min[1], accessor.Min[2]},
			Max: Vec3{accessor.Max[0], accessor.Max[1], accessor.Max[2]},
		}, nil
	}
	if accessor.Type != gltf.AccessorVec3 || accessor.ComponentType != gltf.ComponentFloat {
		return Box3{}, fmt.Errorf("gltf: POSITION accessor must be float VEC3")
	}
	if accessor.BufferView == nil {
		return Box3{}, fmt.Errorf("gltf: POSITION accessor has no bounds and no buffer view")
	}
	if err := checkPositionRange(doc, accessor); err != nil {
		return Box3{}, err
	}
	positions, err := modeler.ReadPosition(doc, accessor, nil)
	if err != nil {
		return Box3{}, fmt.Errorf("gltf: read POSITION: %w", err)
	}
	box := EmptyBox()
	for _, p := range positions {
		box = box.ExpandByPoint(Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
	}
	return box, nil
}

// checkPositionRange rejects accessors whose data falls outside their buffer
// view or buffer before anything is sliced.
func checkPositionRange(doc *gltf.Document, accessor *gltf.Accessor) error {
	if accessor.ByteOffset < 0 || accessor.Count < 0 {
		return fmt.Errorf("gltf: POSITION accessor has negative offset or count")
	}
	viewIndex := int(*accessor.BufferView)
	if viewIndex < 0 || viewIndex >= len(doc.BufferViews) {
		return fmt.Errorf("gltf: buffer view %d out of range", viewIndex)
	}
	view := doc.BufferViews[viewIndex]
	if view.ByteOffset < 0 || view.ByteLength < 0 || view.ByteStride < 0 {
		return fmt.Errorf("gltf: buffer view %d has negative offset, length or stride", viewIndex)
	}
	if view.Buffer < 0 || int(view.Buffer) >= len(doc.Buffers) {
		return fmt.Errorf("gltf: buffer %d out of range", view.Buffer)
	}
	if accessor.Count == 0 {
		return nil
	}
	stride := positionStride
	if view.ByteStride > 0 {
		stride = int(view.ByteStride)
	}
	end := int(accessor.ByteOffset) + (int(accessor.Count)-1)*stride + positionStride
	if end > int(view.ByteLength) || int(view.ByteOffset)+int(view.ByteLength) > len(doc.Buffers[view.Buffer].Data) {
		return fmt.Errorf("gltf: POSITION data exceeds buffer")
	}
	return nil
}
