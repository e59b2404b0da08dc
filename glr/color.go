package glr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Color is a 16-bit per channel, non-premultiplied RGBA color.
// The zero value is transparent black.
type Color struct {
	R, G, B, A uint16
}

var (
	Black       = Color{0, 0, 0, 0xffff}
	White       = Color{0xffff, 0xffff, 0xffff, 0xffff}
	Transparent = Color{}
)

func unitTo16(v float32) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xffff
	}
	return uint16(math32.Round(v * 0xffff))
}

// RGBf returns an opaque color from 0-1 components.
func RGBf(r, g, b float32) Color {
	return RGBAf(r, g, b, 1)
}

// RGBAf returns a color from 0-1 components. Out of range values are clamped.
func RGBAf(r, g, b, a float32) Color {
	return Color{unitTo16(r), unitTo16(g), unitTo16(b), unitTo16(a)}
}

// RGB8 returns an opaque color from 0-255 components.
func RGB8(r, g, b uint8) Color {
	return RGBA8(r, g, b, 0xff)
}

// RGBA8 returns a color from 0-255 components.
func RGBA8(r, g, b, a uint8) Color {
	return Color{uint16(r) * 257, uint16(g) * 257, uint16(b) * 257, uint16(a) * 257}
}

// RGB16 returns an opaque color from 0-65535 components.
func RGB16(r, g, b uint16) Color {
	return Color{r, g, b, 0xffff}
}

// RGBA16 returns a color from 0-65535 components.
func RGBA16(r, g, b, a uint16) Color {
	return Color{r, g, b, a}
}

// Hex returns a color from its 0xAARRGGBB representation.
func Hex(hex uint32) Color {
	return RGBA8(uint8(hex>>16), uint8(hex>>8), uint8(hex), uint8(hex>>24))
}

// ParseWeb parses "#RGB", "#RRGGBB" or "#RRGGBBAA". The leading '#' is optional.
func ParseWeb(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Color{}, fmt.Errorf("parse color %q: want #RGB, #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return RGBA8(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Add returns the per-channel sum, saturating at the maximum.
func (c Color) Add(o Color) Color {
	add := func(a, b uint16) uint16 {
		s := uint32(a) + uint32(b)
		if s > 0xffff {
			return 0xffff
		}
		return uint16(s)
	}
	return Color{add(c.R, o.R), add(c.G, o.G), add(c.B, o.B), add(c.A, o.A)}
}

// RGBf is the 0-1 float RGB representation.
func (c Color) RGBf() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.R) / 0xffff, float32(c.G) / 0xffff, float32(c.B) / 0xffff}
}

// RGBAf is the 0-1 float RGBA representation.
func (c Color) RGBAf() mgl32.Vec4 {
	return c.RGBf().Vec4(float32(c.A) / 0xffff)
}

// RGB8 is the 0-255 RGB representation.
func (c Color) RGB8() [3]uint8 {
	return [3]uint8{uint8(c.R >> 8), uint8(c.G >> 8), uint8(c.B >> 8)}
}

// RGBA8 is the 0-255 RGBA representation.
func (c Color) RGBA8() [4]uint8 {
	return [4]uint8{uint8(c.R >> 8), uint8(c.G >> 8), uint8(c.B >> 8), uint8(c.A >> 8)}
}

// RGB16 is the 0-65535 RGB representation.
func (c Color) RGB16() [3]uint16 {
	return [3]uint16{c.R, c.G, c.B}
}

// RGBA16 is the 0-65535 RGBA representation.
func (c Color) RGBA16() [4]uint16 {
	return [4]uint16{c.R, c.G, c.B, c.A}
}

// Hex is the 0xAARRGGBB representation.
func (c Color) Hex() uint32 {
	p := c.RGBA8()
	return uint32(p[3])<<24 | uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
}

// Web is the #RRGGBBAA representation.
func (c Color) Web() string {
	p := c.RGBA8()
	return fmt.Sprintf("#%02X%02X%02X%02X", p[0], p[1], p[2], p[3])
}

func (c Color) String() string {
	return c.Web()
}

// RGBA implements image/color.Color. The result is alpha-premultiplied.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(c.A)
	r = uint32(c.R) * a / 0xffff
	g = uint32(c.G) * a / 0xffff
	b = uint32(c.B) * a / 0xffff
	return r, g, b, a
}
