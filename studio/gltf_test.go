package studio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	glbChunkJSON = 0x4E4F534A
	glbChunkBIN  = 0x004E4942
	glbHeaderLen = 12
)

func buildGLB(t *testing.T, doc string, bin []byte) []byte {
	t.Helper()
	jsonChunk := []byte(doc)
	for len(jsonChunk)%4 != 0 {
		jsonChunk = append(jsonChunk, ' ')
	}
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}
	length := glbHeaderLen + 8 + len(jsonChunk)
	if bin != nil {
		length += 8 + len(bin)
	}
	var buf bytes.Buffer
	write := func(v uint32) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }
	write(glbMagic)
	write(2)
	write(uint32(length))
	write(uint32(len(jsonChunk)))
	write(glbChunkJSON)
	buf.Write(jsonChunk)
	if bin != nil {
		write(uint32(len(bin)))
		write(glbChunkBIN)
		buf.Write(bin)
	}
	return buf.Bytes()
}

func float32s(values ...float32) []byte {
	out := make([]byte, 0, len(values)*4)
	for _, v := range values {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(v))
	}
	return out
}

// a unit mesh spanning (0,0,0)..(2,4,6), shifted by the node translation
const ringDoc = `{
	"asset": {"version": "2.0"},
	"scene": 0,
	"scenes": [{"nodes": [0]}],
	"nodes": [{"name": "ring", "mesh": 0, "translation": [10, 0, 0]}],
	"meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
	"accessors": [{"componentType": 5126, "count": 8, "type": "VEC3", "min": [0, 0, 0], "max": [2, 4, 6]}]
}`

func TestParseModelGLB(t *testing.T) {
	object, err := ParseModel(buildGLB(t, ringDoc, nil))
	require.NoError(t, err)
	assert.Equal(t, "ring", object.Name)
	assert.Equal(t, 1, object.MeshCount)
	assert.Equal(t, 8, object.VertexCount)
	assert.Equal(t, Box3{Min: Vec3{10, 0, 0}, Max: Vec3{12, 4, 6}}, object.LocalBounds)
}

func TestParseModelJSON(t *testing.T) {
	object, err := ParseModel([]byte("  " + ringDoc))
	require.NoError(t, err)
	assert.Equal(t, Vec3{12, 4, 6}, object.LocalBounds.Max)
}

func TestParseModelReadsBinaryPositions(t *testing.T) {
	doc := `{
		"asset": {"version": "2.0"},
		"nodes": [{"children": [1], "scale": [2, 2, 2]}, {"mesh": 0}],
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
		"accessors": [{"bufferView": 0, "componentType": 5126, "count": 3, "type": "VEC3"}],
		"bufferViews": [{"buffer": 0, "byteOffset": 0, "byteLength": 36}],
		"buffers": [{"byteLength": 36}]
	}`
	bin := float32s(-1, 0, 0, 1, 2, 0, 0, -3, 0.5)
	object, err := ParseModel(buildGLB(t, doc, bin))
	require.NoError(t, err)
	assert.Equal(t, Box3{Min: Vec3{-2, -6, 0}, Max: Vec3{2, 4, 1}}, object.LocalBounds)
}

func TestParseModelRotation(t *testing.T) {
	// 90 degrees around Z maps +X onto +Y
	doc := `{
		"asset": {"version": "2.0"},
		"scenes": [{"nodes": [0]}],
		"nodes": [{"mesh": 0, "rotation": [0, 0, 0.7071067811865476, 0.7071067811865476]}],
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
		"accessors": [{"componentType": 5126, "count": 2, "type": "VEC3", "min": [0, 0, 0], "max": [3, 1, 1]}]
	}`
	object, err := ParseModel([]byte(doc))
	require.NoError(t, err)
	assert.InDelta(t, -1, object.LocalBounds.Min[0], 1e-9)
	assert.InDelta(t, 3, object.LocalBounds.Max[1], 1e-9)
}

func TestParseModelEmptyScene(t *testing.T) {
	object, err := ParseModel([]byte(`{"asset":{"version":"2.0"},"scenes":[{"nodes":[]}]}`))
	require.NoError(t, err)
	assert.True(t, object.LocalBounds.IsEmpty())
	assert.Equal(t, Vec3{}, object.LocalBounds.Center())
}

func TestParseModelErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"not gltf", []byte("hello"), "not a glTF asset"},
		{"bad json", []byte("{"), "gltf: decode"},
		{"bad scene", []byte(`{"asset":{"version":"2.0"},"scene":3,"scenes":[{}]}`), "scene 3 out of range"},
		{"bad mesh", []byte(`{"asset":{"version":"2.0"},"nodes":[{"mesh":2}]}`), "mesh 2 out of range"},
		{"cycle", []byte(`{"asset":{"version":"2.0"},"scenes":[{"nodes":[0]}],"nodes":[{"children":[0]}]}`), "visited twice"},
		{"truncated glb", []byte{0x67, 0x6C, 0x54, 0x46, 2, 0}, "gltf: decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModel(tt.data)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseModelRejectsBadPositionRanges(t *testing.T) {
	const layout = `{
		"asset": {"version": "2.0"},
		"nodes": [{"mesh": 0}],
		"meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
		"accessors": [{"bufferView": 0, "byteOffset": %d, "componentType": 5126, "count": %d, "type": "VEC3"}],
		"bufferViews": [{"buffer": 0, "byteOffset": %d, "byteLength": 24, "byteStride": %d}],
		"buffers": [{"byteLength": 24}]
	}`
	tests := []struct {
		name           string
		accessorOffset int
		count          int
		viewOffset     int
		stride         int
		want           string
	}{
		{"negative accessor offset", -12, 2, 0, 0, "negative offset or count"},
		{"negative count", 0, -1, 0, 0, "negative offset or count"},
		{"negative view offset", 0, 2, -4, 0, "negative offset, length or stride"},
		{"negative stride", 0, 2, 0, -12, "negative offset, length or stride"},
		{"past view end", 12, 2, 0, 0, "exceeds buffer"},
		{"view past buffer end", 0, 2, 4, 0, "exceeds buffer"},
		{"stride past view end", 0, 2, 0, 16, "exceeds buffer"},
	}
	bin := float32s(0, 0, 0, 1, 1, 1)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fmt.Sprintf(layout, tt.accessorOffset, tt.count, tt.viewOffset, tt.stride)
			var err error
			require.NotPanics(t, func() { _, err = ParseModel(buildGLB(t, doc, bin)) })
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestComposeTRS(t *testing.T) {
	m := ComposeTRS(Vec3{1, 2, 3}, [4]float64{0, 0, 0, 1}, Vec3{2, 2, 2})
	assert.Equal(t, Vec3{3, 4, 5}, mgl64.TransformCoordinate(Vec3{1, 1, 1}, m))
	assert.Equal(t, m, mgl64.Ident4().Mul4(m))

	// a zero quaternion is treated as no rotation
	assert.Equal(t, mgl64.Translate3D(1, 0, 0), ComposeTRS(Vec3{1, 0, 0}, [4]float64{}, Vec3{1, 1, 1}))
}
