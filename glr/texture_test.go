package glr_test

import (
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmlewis/glrender/glr"
	"github.com/gmlewis/glrender/glr/glrtest"
)

func TestNewTexture(t *testing.T) {
	dev := glrtest.New()
	tex := glr.NewTexture(dev, "albedo", 4, 2, glr.RGB, glr.Nearest, glr.Trilinear, true)
	require.True(t, tex.Valid())

	h := tex.Handle
	assert.Equal(t, []string{
		fmt.Sprintf("CreateTexture() = %d", h),
		fmt.Sprintf("TextureStorage2D(%d, 0x%x, 4, 2)", h, gl.SRGB8),
		fmt.Sprintf("ClearTexImage(%d, 0x%x)", h, gl.RGB),
		fmt.Sprintf("TextureParameteri(%d, 0x%x, 0x%x)", h, gl.TEXTURE_MIN_FILTER, gl.NEAREST),
		fmt.Sprintf("TextureParameteri(%d, 0x%x, 0x%x)", h, gl.TEXTURE_MAG_FILTER, gl.LINEAR),
		fmt.Sprintf("TextureParameterf(%d, 0x%x, 1)", h, gl.TEXTURE_MAX_ANISOTROPY),
	}, dev.Calls)
	assert.Equal(t, uint32(4), tex.Width)
	assert.Equal(t, uint32(2), tex.Height)
	assert.Equal(t, "albedo", tex.Name)
}

func TestNewTextureFromPixels(t *testing.T) {
	dev := glrtest.New()
	pix := []uint8{1, 2, 3, 4, 5, 6}

	tex, err := glr.NewTextureFromPixels(dev, "grey", pix, 3, 2, glr.Grey, glr.Bilinear, glr.Bilinear, false)
	require.NoError(t, err)
	assert.Equal(t, pix, dev.TexturePixels(tex.Handle))
	assert.Equal(t, 1, dev.Count(fmt.Sprintf("TextureStorage2D(%d, 0x%x, 3, 2)", tex.Handle, gl.R8)))
	assert.Zero(t, dev.Count("ClearTexImage"))

	_, err = glr.NewTextureFromPixels(dev, "short", pix, 2, 2, glr.RGB, glr.Nearest, glr.Nearest, false)
	assert.ErrorIs(t, err, glr.ErrShortPixels)
}

func TestNewSolidTexture(t *testing.T) {
	dev := glrtest.New()
	tex := glr.NewSolidTexture(dev, "red", 255, 0, 0, 128, true)

	assert.Equal(t, uint32(1), tex.Width)
	assert.Equal(t, uint32(1), tex.Height)
	assert.Equal(t, glr.RGBA, tex.Format)
	assert.Equal(t, []uint8{255, 0, 0, 128}, dev.TexturePixels(tex.Handle))
	assert.Equal(t, 1, dev.Count(fmt.Sprintf("TextureStorage2D(%d, 0x%x, 1, 1)", tex.Handle, gl.SRGB8_ALPHA8)))
}

func TestNewTextureFromImage(t *testing.T) {
	dev := glrtest.New()
	img := image.NewGray(image.Rect(2, 2, 4, 3))
	img.SetGray(2, 2, color.Gray{Y: 10})
	img.SetGray(3, 2, color.Gray{Y: 20})

	tex, err := glr.NewTextureFromImage(dev, "img", img, glr.Nearest, glr.Nearest, false)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), tex.Width)
	assert.Equal(t, uint32(1), tex.Height)
	assert.Equal(t, []uint8{10, 10, 10, 255, 20, 20, 20, 255}, dev.TexturePixels(tex.Handle))
}

func TestTextureSubImage(t *testing.T) {
	dev := glrtest.New()
	tex := glr.NewTexture(dev, "atlas", 8, 8, glr.RGBA, glr.Nearest, glr.Nearest, false)
	dev.Reset()

	require.NoError(t, tex.SubImage(make([]uint8, 2*2*4), 2, 2, 6, 6, glr.RGBA))
	assert.Equal(t, []string{fmt.Sprintf("TextureSubImage2D(%d, 6, 6, 2, 2, 0x%x)", tex.Handle, gl.RGBA)}, dev.Calls)

	assert.Error(t, tex.SubImage(make([]uint8, 2*2*4), 2, 2, 7, 0, glr.RGBA))
	assert.Error(t, tex.SubImage(make([]uint8, 4), 1, 1, 0xFFFFFFFF, 0, glr.RGBA))
	assert.Error(t, tex.SubImage(make([]uint8, 4), 1, 1, 0, 0xFFFFFFFF, glr.RGBA))
	assert.Error(t, tex.SubImage(make([]uint8, 4), 0xFFFFFFFF, 1, 2, 0, glr.RGBA))
	assert.Equal(t, 1, dev.Count("TextureSubImage2D"))
	assert.ErrorIs(t, tex.SubImage(make([]uint8, 3), 2, 2, 0, 0, glr.RGBA), glr.ErrShortPixels)
}

func TestTextureDownload(t *testing.T) {
	dev := glrtest.New()
	pix := []uint8{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}
	tex, err := glr.NewTextureFromPixels(dev, "dl", pix, 2, 2, glr.RGBA, glr.Nearest, glr.Nearest, false)
	require.NoError(t, err)

	out, err := tex.Download(glr.RGBA)
	require.NoError(t, err)
	assert.Equal(t, "dl", out.Name)
	assert.Equal(t, 2, out.Width)
	assert.Equal(t, 2, out.Height)
	assert.Equal(t, pix, out.Pix)

	img := out.Image()
	assert.Equal(t, image.Rect(0, 0, 2, 2), img.Bounds())
	assert.Equal(t, color.NRGBA{13, 14, 15, 16}, img.At(1, 1))
}

func TestTextureDelete(t *testing.T) {
	dev := glrtest.New()
	tex := glr.NewTexture(dev, "gone", 2, 2, glr.RGBA, glr.Nearest, glr.Nearest, false)
	h := tex.Handle

	tex.Delete()
	assert.False(t, tex.Valid())
	assert.Zero(t, tex.Handle)
	assert.Zero(t, tex.Width)
	assert.Empty(t, tex.Name)
	assert.False(t, dev.IsLive(h))

	tex.Delete()
	assert.Equal(t, 1, dev.Count("DeleteTexture"))

	_, err := tex.Download(glr.RGBA)
	assert.ErrorIs(t, err, glr.ErrDeleted)
}

func TestDownloadedImageFormats(t *testing.T) {
	grey := &glr.DownloadedImage{Width: 2, Height: 1, Format: glr.Grey, Pix: []uint8{7, 9}}
	assert.Equal(t, color.Gray{Y: 9}, grey.Image().At(1, 0))

	rgb := &glr.DownloadedImage{Width: 1, Height: 1, Format: glr.RGB, Pix: []uint8{1, 2, 3}}
	assert.Equal(t, color.NRGBA{1, 2, 3, 255}, rgb.Image().At(0, 0))
}
