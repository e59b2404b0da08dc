package glr

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Renderable is one draw of the renderer's list.
//
// A zero Model draws with the identity matrix and a zero Tint draws
// untinted (White); use a Tint with zero alpha but non-zero color to
// draw fully transparent.
type Renderable struct {
	// Texture is bound to unit 0 before drawing. Zero means none.
	Texture  uint32
	Layer    uint64
	Sublayer uint64

	// Mesh defaults to the renderer's unit quad, Shader to its sprite
	// shader.
	Mesh   *Mesh
	Shader *Shader

	Model mgl32.Mat4
	Tint  Color
}

// Sprite returns an untinted renderable drawing tex over the rectangle
// (x, y, w, h) with the default quad and shader.
func Sprite(tex *Texture, layer, sublayer uint64, x, y, w, h float32) Renderable {
	var handle uint32
	if tex != nil {
		handle = tex.Handle
	}
	return Renderable{
		Texture:  handle,
		Layer:    layer,
		Sublayer: sublayer,
		Model:    mgl32.Translate3D(x, y, 0).Mul4(mgl32.Scale3D(w, h, 1)),
		Tint:     White,
	}
}

// Comparator orders renderables; it returns a negative number when a
// draws before b.
type Comparator func(a, b Renderable) int

// ByLayer draws lower layers first, then lower sublayers, and groups
// equal textures so that binds are batched.
func ByLayer(a, b Renderable) int {
	if c := cmp.Compare(a.Layer, b.Layer); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Sublayer, b.Sublayer); c != 0 {
		return c
	}
	return cmp.Compare(a.Texture, b.Texture)
}

// RenderList is an ordered list of renderables.
type RenderList struct {
	list []Renderable
}

// Add appends renderables to the list.
func (l *RenderList) Add(r ...Renderable) {
	l.list = append(l.list, r...)
}

// At returns a pointer to the i-th renderable.
func (l *RenderList) At(i int) *Renderable {
	return &l.list[i]
}

// Clear empties the list, keeping its capacity.
func (l *RenderList) Clear() {
	l.list = l.list[:0]
}

func (l *RenderList) Empty() bool {
	return len(l.list) == 0
}

func (l *RenderList) Len() int {
	return len(l.list)
}

// Sort orders the list with cmp, or ByLayer when cmp is nil. Equal
// elements keep their insertion order.
func (l *RenderList) Sort(cmp Comparator) {
	if cmp == nil {
		cmp = ByLayer
	}
	slices.SortStableFunc(l.list, cmp)
}
