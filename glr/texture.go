package glr

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/go-gl/gl/v4.6-core/gl"
)

var (
	// ErrDeleted is returned when a deleted resource is used.
	ErrDeleted = errors.New("glr: resource has been deleted")
	// ErrShortPixels is returned when pixel data is smaller than its dimensions require.
	ErrShortPixels = errors.New("glr: pixel data too short")
)

// Texture is an on-VRAM 2D texture.
type Texture struct {
	dev Device

	Handle uint32
	Width  uint32
	Height uint32
	Format ColorFormat
	Name   string
	Path   string

	// Instructions for how to bind this texture.
	BindingKind   ShaderKind
	BindingIOMode IOMode      // compute only
	BindingFormat ImageFormat // compute only
	BindingIndex  uint32
}

// DownloadedImage is texture data read back from the GPU.
type DownloadedImage struct {
	Name   string
	Width  int
	Height int
	Format ColorFormat
	Pix    []uint8
}

// Image wraps the downloaded pixels in an image.Image.
func (d *DownloadedImage) Image() image.Image {
	rect := image.Rect(0, 0, d.Width, d.Height)
	switch d.Format {
	case Grey:
		return &image.Gray{Pix: d.Pix, Stride: d.Width, Rect: rect}
	case RGB:
		img := image.NewNRGBA(rect)
		for i, j := 0, 0; i+2 < len(d.Pix) && j+3 < len(img.Pix); i, j = i+3, j+4 {
			img.Pix[j], img.Pix[j+1], img.Pix[j+2], img.Pix[j+3] = d.Pix[i], d.Pix[i+1], d.Pix[i+2], 0xff
		}
		return img
	}
	return &image.NRGBA{Pix: d.Pix, Stride: d.Width * 4, Rect: rect}
}

func newTexture(dev Device, name string, width, height uint32, format ColorFormat, sRGB bool) *Texture {
	t := &Texture{
		dev:    dev,
		Name:   name,
		Width:  width,
		Height: height,
		Format: format,
	}
	t.Handle = dev.CreateTexture()
	dev.TextureStorage2D(t.Handle, format.internalFormat(sRGB), int32(width), int32(height))
	return t
}

// NewTexture allocates VRAM for a texture without assigning data to it.
// The storage is cleared to zero; use SubImage to fill it.
func NewTexture(dev Device, name string, width, height uint32, format ColorFormat, min, mag FilterMode, sRGB bool) *Texture {
	t := newTexture(dev, name, width, height, format, sRGB)
	t.Clear()
	t.SetFilterMode(min, mag)
	t.SetAnisotropyLevel(1)
	return t
}

// NewTextureFromPixels creates a texture from a flat, tightly packed
// pixel array.
func NewTextureFromPixels(dev Device, name string, pix []uint8, width, height uint32, format ColorFormat, min, mag FilterMode, sRGB bool) (*Texture, error) {
	if need := int(width) * int(height) * format.Channels(); len(pix) < need {
		return nil, fmt.Errorf("texture %q: %w: have %v bytes, need %v", name, ErrShortPixels, len(pix), need)
	}
	t := newTexture(dev, name, width, height, format, sRGB)
	dev.TextureSubImage2D(t.Handle, 0, 0, int32(width), int32(height), format.pixelFormat(), pix)
	t.SetFilterMode(min, mag)
	t.SetAnisotropyLevel(1)
	return t, nil
}

// NewTextureFromImage creates an RGBA texture from any image.
func NewTextureFromImage(dev Device, name string, img image.Image, min, mag FilterMode, sRGB bool) (*Texture, error) {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Stride != b.Dx()*4 || b.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}
	return NewTextureFromPixels(dev, name, nrgba.Pix, uint32(b.Dx()), uint32(b.Dy()), RGBA, min, mag, sRGB)
}

// NewSolidTexture generates a single color 1x1 texture.
func NewSolidTexture(dev Device, name string, r, g, b, a uint8, sRGB bool) *Texture {
	t := newTexture(dev, name, 1, 1, RGBA, sRGB)
	dev.TextureSubImage2D(t.Handle, 0, 0, 1, 1, gl.RGBA, []uint8{r, g, b, a})
	t.SetFilterMode(Bilinear, Bilinear)
	t.SetAnisotropyLevel(1)
	return t
}

// Valid reports whether the texture still owns a GPU object.
func (t *Texture) Valid() bool {
	return t != nil && t.Handle != 0
}

// Delete frees the GPU texture. It is safe to call more than once.
func (t *Texture) Delete() {
	if !t.Valid() {
		return
	}
	t.dev.DeleteTexture(t.Handle)
	t.Handle = 0
	t.Width, t.Height = 0, 0
	t.Format = RGBA
	t.Name, t.Path = "", ""
}

// Use binds the texture to the given texture unit.
func (t *Texture) Use(unit uint32) {
	t.dev.BindTextureUnit(unit, t.Handle)
}

// SetFilterMode sets the minification and magnification filters.
func (t *Texture) SetFilterMode(min, mag FilterMode) {
	t.dev.TextureParameteri(t.Handle, gl.TEXTURE_MIN_FILTER, min.minFilter())
	t.dev.TextureParameteri(t.Handle, gl.TEXTURE_MAG_FILTER, mag.magFilter())
}

// SetAnisotropyLevel sets the maximum anisotropy used when sampling.
func (t *Texture) SetAnisotropyLevel(level uint32) {
	t.dev.TextureParameterf(t.Handle, gl.TEXTURE_MAX_ANISOTROPY, float32(level))
}

// SubImage replaces a w*h region at (x, y) with pix.
func (t *Texture) SubImage(pix []uint8, w, h, x, y uint32, format ColorFormat) error {
	if !t.Valid() {
		return fmt.Errorf("texture subimage: %w", ErrDeleted)
	}
	if x > t.Width || w > t.Width-x || y > t.Height || h > t.Height-y {
		return fmt.Errorf("texture %q: region %vx%v at (%v,%v) exceeds %vx%v", t.Name, w, h, x, y, t.Width, t.Height)
	}
	if need := int(w) * int(h) * format.Channels(); len(pix) < need {
		return fmt.Errorf("texture %q: %w: have %v bytes, need %v", t.Name, ErrShortPixels, len(pix), need)
	}
	t.dev.TextureSubImage2D(t.Handle, int32(x), int32(y), int32(w), int32(h), format.pixelFormat(), pix)
	return nil
}

// Clear zeroes the texture contents.
func (t *Texture) Clear() {
	t.dev.ClearTexImage(t.Handle, t.Format.pixelFormat())
}

// Download reads the texture back in the requested format.
func (t *Texture) Download(format ColorFormat) (*DownloadedImage, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("texture download: %w", ErrDeleted)
	}
	w, h := t.dev.TextureSize(t.Handle)
	out := &DownloadedImage{
		Name:   t.Name,
		Width:  int(w),
		Height: int(h),
		Format: format,
		Pix:    make([]uint8, int(w)*int(h)*format.Channels()),
	}
	t.dev.GetTextureImage(t.Handle, format.pixelFormat(), out.Pix)
	return out, nil
}
