package glr

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
)

// ColorFormat is the pixel layout of texture data.
type ColorFormat byte

const (
	RGBA ColorFormat = iota
	RGB
	Grey
)

func (f ColorFormat) String() string {
	switch f {
	case RGBA:
		return "RGBA"
	case RGB:
		return "RGB"
	case Grey:
		return "Grey"
	}
	return fmt.Sprintf("ColorFormat(%d)", byte(f))
}

// Channels returns the number of bytes per pixel.
func (f ColorFormat) Channels() int {
	switch f {
	case RGB:
		return 3
	case Grey:
		return 1
	}
	return 4
}

// internalFormat returns the sized storage format.
func (f ColorFormat) internalFormat(sRGB bool) uint32 {
	switch f {
	case RGB:
		if sRGB {
			return gl.SRGB8
		}
		return gl.RGB8
	case Grey:
		return gl.R8
	}
	if sRGB {
		return gl.SRGB8_ALPHA8
	}
	return gl.RGBA8
}

// pixelFormat returns the client-side pixel format.
func (f ColorFormat) pixelFormat() uint32 {
	switch f {
	case RGB:
		return gl.RGB
	case Grey:
		return gl.RED
	}
	return gl.RGBA
}

// FilterMode is a texture sampling filter.
type FilterMode byte

const (
	Nearest FilterMode = iota
	Bilinear
	Trilinear
)

func (m FilterMode) String() string {
	switch m {
	case Nearest:
		return "nearest"
	case Bilinear:
		return "bilinear"
	case Trilinear:
		return "trilinear"
	}
	return fmt.Sprintf("FilterMode(%d)", byte(m))
}

// ParseFilterMode maps a config name to a FilterMode.
func ParseFilterMode(s string) (FilterMode, error) {
	switch s {
	case "nearest", "":
		return Nearest, nil
	case "bilinear":
		return Bilinear, nil
	case "trilinear":
		return Trilinear, nil
	}
	return Nearest, fmt.Errorf("unknown filter mode %q", s)
}

func (m FilterMode) minFilter() int32 {
	switch m {
	case Bilinear:
		return gl.LINEAR
	case Trilinear:
		return gl.LINEAR_MIPMAP_LINEAR
	}
	return gl.NEAREST
}

// magFilter never selects a mipmap filter; GL rejects those for
// magnification.
func (m FilterMode) magFilter() int32 {
	switch m {
	case Bilinear, Trilinear:
		return gl.LINEAR
	}
	return gl.NEAREST
}

// Attachment is a framebuffer attachment option.
type Attachment byte

const (
	AttachColor Attachment = iota
	AttachAlpha
	AttachDepth
	AttachStencil
)

func (a Attachment) String() string {
	switch a {
	case AttachColor:
		return "color"
	case AttachAlpha:
		return "alpha"
	case AttachDepth:
		return "depth"
	case AttachStencil:
		return "stencil"
	}
	return fmt.Sprintf("Attachment(%d)", byte(a))
}

// DrawMode is a primitive topology.
type DrawMode byte

const (
	Triangles DrawMode = iota
	TriangleStrip
	TriangleFan
	Points
	Lines
	LineStrip
)

func (m DrawMode) String() string {
	switch m {
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle strip"
	case TriangleFan:
		return "triangle fan"
	case Points:
		return "points"
	case Lines:
		return "lines"
	case LineStrip:
		return "line strip"
	}
	return fmt.Sprintf("DrawMode(%d)", byte(m))
}

func (m DrawMode) glEnum() uint32 {
	switch m {
	case TriangleStrip:
		return gl.TRIANGLE_STRIP
	case TriangleFan:
		return gl.TRIANGLE_FAN
	case Points:
		return gl.POINTS
	case Lines:
		return gl.LINES
	case LineStrip:
		return gl.LINE_STRIP
	}
	return gl.TRIANGLES
}

// IOMode is the access mode of an image binding.
type IOMode byte

const (
	WriteOnly IOMode = iota
	ReadOnly
	ReadWrite
)

func (m IOMode) String() string {
	switch m {
	case WriteOnly:
		return "write"
	case ReadOnly:
		return "read"
	case ReadWrite:
		return "read-write"
	}
	return fmt.Sprintf("IOMode(%d)", byte(m))
}

func (m IOMode) glEnum() uint32 {
	switch m {
	case ReadOnly:
		return gl.READ_ONLY
	case ReadWrite:
		return gl.READ_WRITE
	}
	return gl.WRITE_ONLY
}

// ImageFormat is the format of an image binding used by compute shaders.
type ImageFormat byte

const (
	ImageRGBA32F ImageFormat = iota
	ImageRGBA16F
	ImageRGBA8
	ImageR32F
)

func (f ImageFormat) String() string {
	switch f {
	case ImageRGBA32F:
		return "rgba32f"
	case ImageRGBA16F:
		return "rgba16f"
	case ImageRGBA8:
		return "rgba8"
	case ImageR32F:
		return "r32f"
	}
	return fmt.Sprintf("ImageFormat(%d)", byte(f))
}

func (f ImageFormat) glEnum() uint32 {
	switch f {
	case ImageRGBA16F:
		return gl.RGBA16F
	case ImageRGBA8:
		return gl.RGBA8
	case ImageR32F:
		return gl.R32F
	}
	return gl.RGBA32F
}

// BlendFactor is a blend function factor.
type BlendFactor byte

const (
	Zero BlendFactor = iota
	One
	SrcColor
	OneMinusSrcColor
	SrcAlpha
	OneMinusSrcAlpha
	DstAlpha
	OneMinusDstAlpha
	DstColor
	OneMinusDstColor
)

func (b BlendFactor) String() string {
	switch b {
	case Zero:
		return "zero"
	case One:
		return "one"
	case SrcColor:
		return "src color"
	case OneMinusSrcColor:
		return "one minus src color"
	case SrcAlpha:
		return "src alpha"
	case OneMinusSrcAlpha:
		return "one minus src alpha"
	case DstAlpha:
		return "dst alpha"
	case OneMinusDstAlpha:
		return "one minus dst alpha"
	case DstColor:
		return "dst color"
	case OneMinusDstColor:
		return "one minus dst color"
	}
	return fmt.Sprintf("BlendFactor(%d)", byte(b))
}

func (b BlendFactor) glEnum() uint32 {
	switch b {
	case Zero:
		return gl.ZERO
	case SrcColor:
		return gl.SRC_COLOR
	case OneMinusSrcColor:
		return gl.ONE_MINUS_SRC_COLOR
	case SrcAlpha:
		return gl.SRC_ALPHA
	case OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case DstAlpha:
		return gl.DST_ALPHA
	case OneMinusDstAlpha:
		return gl.ONE_MINUS_DST_ALPHA
	case DstColor:
		return gl.DST_COLOR
	case OneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	}
	return gl.ONE
}

// ShaderKind says which pipeline a texture is bound for.
type ShaderKind byte

const (
	FragVert ShaderKind = iota
	ComputeKind
)

func (k ShaderKind) String() string {
	if k == ComputeKind {
		return "compute"
	}
	return "frag/vert"
}

// framebufferStatus describes an incomplete framebuffer status.
func framebufferStatus(status uint32) string {
	switch status {
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return "incomplete attachment"
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return "missing attachment"
	case gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:
		return "incomplete draw buffer"
	case gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:
		return "incomplete read buffer"
	case gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		return "incomplete multisample"
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return "framebuffers are not supported"
	case gl.FRAMEBUFFER_UNDEFINED:
		return "undefined"
	}
	return fmt.Sprintf("status 0x%x", status)
}
