package glr

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Vertex attribute locations used by every mesh and built-in shader.
const (
	AttribPosition = 0
	AttribUV       = 1
	AttribNormal   = 2
)

// MeshData is the CPU-side description of a mesh. Vertices holds xyz
// triples, UVs uv pairs and Normals xyz triples. Indices is optional.
type MeshData struct {
	Vertices []float32
	UVs      []float32
	Normals  []float32
	Indices  []uint32
	Mode     DrawMode
}

// Mesh is a vertex array with one buffer per vertex stream.
type Mesh struct {
	dev Device

	VAO  uint32
	VBOV uint32
	VBOU uint32
	VBON uint32
	VBOI uint32

	NumVerts   int
	NumIndices int
	Mode       DrawMode

	hasVerts   bool
	hasUVs     bool
	hasNormals bool
}

// NewMesh uploads data to the GPU.
func NewMesh(dev Device, data MeshData) (*Mesh, error) {
	if len(data.Vertices)%3 != 0 {
		return nil, fmt.Errorf("mesh: %v vertex floats is not a multiple of 3", len(data.Vertices))
	}
	if len(data.UVs)%2 != 0 {
		return nil, fmt.Errorf("mesh: %v uv floats is not a multiple of 2", len(data.UVs))
	}
	if len(data.Normals)%3 != 0 {
		return nil, fmt.Errorf("mesh: %v normal floats is not a multiple of 3", len(data.Normals))
	}

	m := &Mesh{dev: dev, Mode: data.Mode}
	m.VAO = dev.CreateVertexArray()

	m.NumVerts = len(data.Vertices) / 3
	m.hasVerts = m.NumVerts > 0
	m.VBOV = m.stream(AttribPosition, 3, data.Vertices)

	if len(data.UVs) > 0 {
		m.hasUVs = true
		m.VBOU = m.stream(AttribUV, 2, data.UVs)
	}
	if len(data.Normals) > 0 {
		m.hasNormals = true
		m.VBON = m.stream(AttribNormal, 3, data.Normals)
	}
	if len(data.Indices) > 0 {
		m.NumIndices = len(data.Indices)
		m.VBOI = dev.CreateBuffer()
		dev.NamedBufferData(m.VBOI, len(data.Indices)*4, data.Indices)
		dev.VertexArrayElementBuffer(m.VAO, m.VBOI)
	}
	return m, nil
}

func (m *Mesh) stream(index uint32, components int32, data []float32) uint32 {
	buf := m.dev.CreateBuffer()
	m.dev.NamedBufferData(buf, len(data)*4, data)
	m.dev.VertexArrayAttrib(m.VAO, index, buf, components)
	return buf
}

// NewMeshFromBytes builds a mesh from little-endian float32 byte streams.
// Empty uvs or normals are omitted.
func NewMeshFromBytes(dev Device, verts, uvs, normals []byte, mode DrawMode) (*Mesh, error) {
	v, err := bytesToFloats(verts)
	if err != nil {
		return nil, fmt.Errorf("vertices: %w", err)
	}
	u, err := bytesToFloats(uvs)
	if err != nil {
		return nil, fmt.Errorf("uvs: %w", err)
	}
	n, err := bytesToFloats(normals)
	if err != nil {
		return nil, fmt.Errorf("normals: %w", err)
	}
	return NewMesh(dev, MeshData{Vertices: v, UVs: u, Normals: n, Mode: mode})
}

func bytesToFloats(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%v bytes is not a multiple of 4", len(b))
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

// Valid reports whether the mesh owns a vertex array and at least one
// populated stream.
func (m *Mesh) Valid() bool {
	if m == nil || m.VAO == 0 {
		return false
	}
	return (m.hasVerts && m.VBOV != 0) ||
		(m.hasUVs && m.VBOU != 0) ||
		(m.hasNormals && m.VBON != 0)
}

// Delete frees the buffers and vertex array. It is safe to call more
// than once.
func (m *Mesh) Delete() {
	if m == nil || m.VAO == 0 {
		return
	}
	for _, b := range []uint32{m.VBOV, m.VBOU, m.VBON, m.VBOI} {
		if b != 0 {
			m.dev.DeleteBuffer(b)
		}
	}
	m.dev.DeleteVertexArray(m.VAO)
	m.VAO, m.VBOV, m.VBOU, m.VBON, m.VBOI = 0, 0, 0, 0, 0
	m.NumVerts, m.NumIndices = 0, 0
	m.hasVerts, m.hasUVs, m.hasNormals = false, false, false
}

// Use binds the vertex array.
func (m *Mesh) Use() {
	m.dev.BindVertexArray(m.VAO)
}

// Draw binds and draws the whole mesh.
func (m *Mesh) Draw() {
	m.Use()
	if m.NumIndices > 0 {
		m.dev.DrawElements(m.Mode.glEnum(), int32(m.NumIndices))
		return
	}
	m.dev.DrawArrays(m.Mode.glEnum(), 0, int32(m.NumVerts))
}

// NewFullscreenQuad returns a clip-space quad drawn as a triangle strip,
// with uvs covering 0-1.
func NewFullscreenQuad(dev Device) (*Mesh, error) {
	return NewMesh(dev, MeshData{
		Vertices: []float32{
			-1, -1, 0,
			1, -1, 0,
			-1, 1, 0,
			1, 1, 0,
		},
		UVs: []float32{
			0, 0,
			1, 0,
			0, 1,
			1, 1,
		},
		Mode: TriangleStrip,
	})
}

// NewUnitQuad returns a 0-1 quad as two triangles, used for sprites.
func NewUnitQuad(dev Device) (*Mesh, error) {
	return NewMesh(dev, MeshData{
		Vertices: []float32{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
		},
		UVs: []float32{
			0, 0,
			1, 0,
			0, 1,
			1, 0,
			1, 1,
			0, 1,
		},
		Mode: Triangles,
	})
}
