package glr_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"

	"github.com/gmlewis/glrender/glr"
)

func TestRenderListSort(t *testing.T) {
	var list glr.RenderList
	list.Add(
		glr.Renderable{Texture: 5, Layer: 2, Sublayer: 0},
		glr.Renderable{Texture: 3, Layer: 1, Sublayer: 1},
		glr.Renderable{Texture: 9, Layer: 1, Sublayer: 0},
		glr.Renderable{Texture: 2, Layer: 1, Sublayer: 1},
		glr.Renderable{Texture: 1, Layer: 0, Sublayer: 7},
	)
	list.Sort(nil)

	var got []uint32
	for i := 0; i < list.Len(); i++ {
		got = append(got, list.At(i).Texture)
	}
	assert.Equal(t, []uint32{1, 9, 2, 3, 5}, got)
}

func TestRenderListSortStable(t *testing.T) {
	var list glr.RenderList
	for i := 0; i < 5; i++ {
		list.Add(glr.Renderable{Texture: 4, Layer: 1, Tint: glr.RGBA16(uint16(i), 0, 0, 0)})
	}
	list.Add(glr.Renderable{Texture: 4, Layer: 0})
	list.Sort(glr.ByLayer)

	assert.Equal(t, uint64(0), list.At(0).Layer)
	for i := 1; i < list.Len(); i++ {
		assert.Equal(t, uint16(i-1), list.At(i).Tint.R)
	}
}

func TestRenderListCustomComparator(t *testing.T) {
	var list glr.RenderList
	list.Add(glr.Renderable{Layer: 1}, glr.Renderable{Layer: 3}, glr.Renderable{Layer: 2})
	list.Sort(func(a, b glr.Renderable) int { return glr.ByLayer(b, a) })
	assert.Equal(t, uint64(3), list.At(0).Layer)
	assert.Equal(t, uint64(1), list.At(2).Layer)
}

func TestRenderListClear(t *testing.T) {
	var list glr.RenderList
	assert.True(t, list.Empty())
	list.Add(glr.Renderable{}, glr.Renderable{})
	assert.Equal(t, 2, list.Len())
	assert.False(t, list.Empty())

	list.At(1).Layer = 8
	assert.Equal(t, uint64(8), list.At(1).Layer)

	list.Clear()
	assert.True(t, list.Empty())
}

func TestSprite(t *testing.T) {
	r := glr.Sprite(nil, 2, 1, 10, 20, 4, 8)
	assert.Zero(t, r.Texture)
	assert.Equal(t, uint64(2), r.Layer)
	assert.Equal(t, uint64(1), r.Sublayer)
	assert.Equal(t, glr.White, r.Tint)

	corner := r.Model.Mul4x1(mgl32.Vec4{1, 1, 0, 1})
	assert.Equal(t, mgl32.Vec4{14, 28, 0, 1}, corner)
	origin := r.Model.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	assert.Equal(t, mgl32.Vec4{10, 20, 0, 1}, origin)
}
