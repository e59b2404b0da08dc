package glr

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/gmlewis/glrender/logging"
)

// ErrIncompleteFramebuffer is returned when the driver reports a
// framebuffer as incomplete after creation.
var ErrIncompleteFramebuffer = errors.New("glr: incomplete framebuffer")

// Framebuffer is a framebuffer object with texture attachments.
type Framebuffer struct {
	dev Device

	Handle        uint32
	ColorHandle   uint32
	DepthHandle   uint32
	StencilHandle uint32
	Width         uint32
	Height        uint32
	Name          string

	hasColor   bool
	hasAlpha   bool
	hasDepth   bool
	hasStencil bool
	filter     FilterMode
}

// NewFramebuffer creates a framebuffer of the given size with the
// requested attachments. Alpha selects an RGBA color attachment instead
// of RGB.
//
// If the driver reports the result incomplete, the framebuffer is still
// returned along with an error wrapping ErrIncompleteFramebuffer.
func NewFramebuffer(dev Device, name string, width, height uint32, attachments ...Attachment) (*Framebuffer, error) {
	fb := &Framebuffer{
		dev:    dev,
		Name:   name,
		Width:  width,
		Height: height,
	}
	for _, a := range attachments {
		switch a {
		case AttachColor:
			fb.hasColor = true
		case AttachAlpha:
			fb.hasAlpha = true
		case AttachDepth:
			fb.hasDepth = true
		case AttachStencil:
			fb.hasStencil = true
		}
	}
	return fb, fb.create()
}

func (fb *Framebuffer) create() error {
	dev := fb.dev
	fb.Handle = dev.CreateFramebuffer()
	w, h := int32(fb.Width), int32(fb.Height)

	var drawBuffers []uint32
	if fb.hasColor {
		fb.ColorHandle = dev.CreateTexture()
		format := uint32(gl.RGB32F)
		if fb.hasAlpha {
			format = gl.RGBA32F
		}
		dev.TextureStorage2D(fb.ColorHandle, format, w, h)
		dev.TextureParameteri(fb.ColorHandle, gl.TEXTURE_MIN_FILTER, fb.filter.minFilter())
		dev.TextureParameteri(fb.ColorHandle, gl.TEXTURE_MAG_FILTER, fb.filter.magFilter())
		dev.TextureParameteri(fb.ColorHandle, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		dev.TextureParameteri(fb.ColorHandle, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		dev.NamedFramebufferTexture(fb.Handle, gl.COLOR_ATTACHMENT0, fb.ColorHandle)
		drawBuffers = append(drawBuffers, gl.COLOR_ATTACHMENT0)
	}

	switch {
	case fb.hasDepth && fb.hasStencil:
		fb.DepthHandle = dev.CreateTexture()
		dev.TextureStorage2D(fb.DepthHandle, gl.DEPTH24_STENCIL8, w, h)
		dev.NamedFramebufferTexture(fb.Handle, gl.DEPTH_STENCIL_ATTACHMENT, fb.DepthHandle)
		fb.StencilHandle = fb.DepthHandle
	case fb.hasDepth:
		fb.DepthHandle = dev.CreateTexture()
		dev.TextureStorage2D(fb.DepthHandle, gl.DEPTH_COMPONENT32F, w, h)
		dev.NamedFramebufferTexture(fb.Handle, gl.DEPTH_ATTACHMENT, fb.DepthHandle)
	case fb.hasStencil:
		fb.StencilHandle = dev.CreateTexture()
		dev.TextureStorage2D(fb.StencilHandle, gl.STENCIL_INDEX8, w, h)
		dev.NamedFramebufferTexture(fb.Handle, gl.STENCIL_ATTACHMENT, fb.StencilHandle)
	}

	dev.NamedFramebufferDrawBuffers(fb.Handle, drawBuffers)

	if status := dev.CheckNamedFramebufferStatus(fb.Handle); status != gl.FRAMEBUFFER_COMPLETE {
		reason := framebufferStatus(status)
		logging.WithComponent("framebuffer").Warnf("Framebuffer creation error: %v (%q)", reason, fb.Name)
		return fmt.Errorf("framebuffer %q: %w: %v", fb.Name, ErrIncompleteFramebuffer, reason)
	}
	return nil
}

func (fb *Framebuffer) destroy() {
	dev := fb.dev
	if fb.Handle != 0 {
		dev.DeleteFramebuffer(fb.Handle)
	}
	if fb.ColorHandle != 0 {
		dev.DeleteTexture(fb.ColorHandle)
	}
	if fb.DepthHandle != 0 {
		dev.DeleteTexture(fb.DepthHandle)
	}
	if fb.StencilHandle != 0 && fb.StencilHandle != fb.DepthHandle {
		dev.DeleteTexture(fb.StencilHandle)
	}
	fb.Handle, fb.ColorHandle, fb.DepthHandle, fb.StencilHandle = 0, 0, 0, 0
}

// Valid reports whether the framebuffer still owns a GPU object.
func (fb *Framebuffer) Valid() bool {
	return fb != nil && fb.Handle != 0
}

// Delete frees the framebuffer and its attachments. It is safe to call
// more than once.
func (fb *Framebuffer) Delete() {
	if !fb.Valid() {
		return
	}
	fb.destroy()
	fb.Width, fb.Height = 0, 0
	fb.hasColor, fb.hasAlpha, fb.hasDepth, fb.hasStencil = false, false, false, false
	fb.Name = ""
}

// Use makes the framebuffer the draw target and fits the viewport and
// scissor box to it.
func (fb *Framebuffer) Use() {
	fb.dev.BindFramebuffer(fb.Handle)
	fb.dev.Viewport(0, 0, int32(fb.Width), int32(fb.Height))
	fb.dev.Scissor(0, 0, int32(fb.Width), int32(fb.Height))
}

// Bind binds the texture behind an attachment to a texture unit.
func (fb *Framebuffer) Bind(a Attachment, unit uint32) {
	switch a {
	case AttachColor, AttachAlpha:
		fb.dev.BindTextureUnit(unit, fb.ColorHandle)
	case AttachDepth:
		fb.dev.BindTextureUnit(unit, fb.DepthHandle)
	case AttachStencil:
		fb.dev.BindTextureUnit(unit, fb.StencilHandle)
	}
}

// SetFilterMode sets how the color attachment is sampled when bound
// as a texture. The setting survives Regenerate.
func (fb *Framebuffer) SetFilterMode(mode FilterMode) {
	fb.filter = mode
	if fb.ColorHandle == 0 {
		return
	}
	fb.dev.TextureParameteri(fb.ColorHandle, gl.TEXTURE_MIN_FILTER, mode.minFilter())
	fb.dev.TextureParameteri(fb.ColorHandle, gl.TEXTURE_MAG_FILTER, mode.magFilter())
}

// Regenerate recreates the framebuffer at a new size. Contents are lost.
func (fb *Framebuffer) Regenerate(width, height uint32) error {
	fb.Width = width
	fb.Height = height
	fb.destroy()
	return fb.create()
}

// HasAttachment reports whether the framebuffer was created with a.
func (fb *Framebuffer) HasAttachment(a Attachment) bool {
	switch a {
	case AttachColor:
		return fb.hasColor
	case AttachAlpha:
		return fb.hasAlpha
	case AttachDepth:
		return fb.hasDepth
	case AttachStencil:
		return fb.hasStencil
	}
	return false
}
