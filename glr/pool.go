package glr

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
)

var poolAttachments = []Attachment{AttachColor, AttachAlpha, AttachDepth}

// FramebufferPool hands out color+alpha+depth framebuffers for
// intermediate passes. Framebuffers are handed back with Release.
type FramebufferPool struct {
	dev   Device
	pool  []*Framebuffer
	inUse map[*Framebuffer]bool
}

// NewFramebufferPool preallocates n framebuffers of the given size.
func NewFramebufferPool(dev Device, n int, width, height uint32) (*FramebufferPool, error) {
	p := &FramebufferPool{dev: dev, inUse: make(map[*Framebuffer]bool)}
	for i := 0; i < n; i++ {
		if _, err := p.add(width, height); err != nil {
			p.Delete()
			return nil, err
		}
	}
	return p, nil
}

func (p *FramebufferPool) add(width, height uint32) (*Framebuffer, error) {
	fb, err := NewFramebuffer(p.dev, fmt.Sprintf("Pool %v", len(p.pool)), width, height, poolAttachments...)
	if err != nil {
		fb.Delete()
		return nil, err
	}
	p.pool = append(p.pool, fb)
	return fb, nil
}

// Acquire returns the first free framebuffer, regenerating it when its
// size differs from the request, or grows the pool when none is free.
// The framebuffer is bound and cleared.
func (p *FramebufferPool) Acquire(width, height uint32) (*Framebuffer, error) {
	var out *Framebuffer
	for _, fb := range p.pool {
		if p.inUse[fb] {
			continue
		}
		if fb.Width != width || fb.Height != height {
			if err := fb.Regenerate(width, height); err != nil {
				return nil, err
			}
		}
		out = fb
		break
	}
	if out == nil {
		var err error
		if out, err = p.add(width, height); err != nil {
			return nil, err
		}
	}

	p.inUse[out] = true
	out.Use()
	p.dev.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	return out, nil
}

// Release returns fb to the pool.
func (p *FramebufferPool) Release(fb *Framebuffer) {
	delete(p.inUse, fb)
}

// Resize regenerates every pooled framebuffer at the new size.
func (p *FramebufferPool) Resize(width, height uint32) error {
	for _, fb := range p.pool {
		if err := fb.Regenerate(width, height); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of framebuffers owned by the pool.
func (p *FramebufferPool) Len() int {
	return len(p.pool)
}

// InUse returns the number of framebuffers currently acquired.
func (p *FramebufferPool) InUse() int {
	return len(p.inUse)
}

// Delete frees every pooled framebuffer.
func (p *FramebufferPool) Delete() {
	for _, fb := range p.pool {
		fb.Delete()
	}
	p.pool = nil
	clear(p.inUse)
}
