// Package glrtest provides an in-memory glr.Device that records every
// call, for testing code that drives the GPU without a GL context.
package glrtest

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"

	"github.com/gmlewis/glrender/glr"
)

type texture struct {
	width, height int32
	pix           []uint8
}

// Device records calls and hands out increasing handles starting at 1.
type Device struct {
	// Calls holds one entry per call, e.g. "BindFramebuffer(3)".
	Calls []string

	// Status is returned by CheckNamedFramebufferStatus when non-zero.
	Status uint32
	// CompileErrors makes CompileProgram fail for the named programs.
	CompileErrors map[string]error
	// MissingUniforms are reported as inactive (location -1).
	MissingUniforms map[string]bool
	// BackBuffer is returned by ReadPixels when the default framebuffer
	// is bound.
	BackBuffer []uint8
	// Errors are returned by GetError, oldest first.
	Errors []uint32

	next      uint32
	textures  map[uint32]*texture
	live      map[uint32]string
	locations map[string]int32
	bound     uint32
}

var _ glr.Device = &Device{}

// New returns an empty recording device.
func New() *Device {
	return &Device{
		CompileErrors:   make(map[string]error),
		MissingUniforms: make(map[string]bool),
		textures:        make(map[uint32]*texture),
		live:            make(map[uint32]string),
		locations:       make(map[string]int32),
	}
}

func (d *Device) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Device) create(kind string) uint32 {
	d.next++
	d.live[d.next] = kind
	return d.next
}

func (d *Device) release(kind string, h uint32) {
	if d.live[h] == kind {
		delete(d.live, h)
	}
}

// Reset forgets the recorded calls but keeps object state.
func (d *Device) Reset() {
	d.Calls = nil
}

// Count returns how many recorded calls start with prefix.
func (d *Device) Count(prefix string) int {
	n := 0
	for _, c := range d.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls that start with any of the prefixes.
func (d *Device) Filter(prefixes ...string) []string {
	var out []string
	for _, c := range d.Calls {
		for _, p := range prefixes {
			if strings.HasPrefix(c, p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// Live returns the number of objects of kind ("texture", "framebuffer",
// "buffer", "vertex array", "program") that have not been deleted.
func (d *Device) Live(kind string) int {
	n := 0
	for _, k := range d.live {
		if k == kind {
			n++
		}
	}
	return n
}

// IsLive reports whether handle h has been created and not deleted.
func (d *Device) IsLive(h uint32) bool {
	_, ok := d.live[h]
	return ok
}

// Bound returns the currently bound draw framebuffer.
func (d *Device) Bound() uint32 {
	return d.bound
}

// TexturePixels returns the last full upload to texture tex.
func (d *Device) TexturePixels(tex uint32) []uint8 {
	if t, ok := d.textures[tex]; ok {
		return t.pix
	}
	return nil
}

func (d *Device) CreateTexture() uint32 {
	h := d.create("texture")
	d.textures[h] = &texture{}
	d.record("CreateTexture() = %d", h)
	return h
}

func (d *Device) TextureStorage2D(tex, internalFormat uint32, width, height int32) {
	if t, ok := d.textures[tex]; ok {
		t.width, t.height = width, height
	}
	d.record("TextureStorage2D(%d, 0x%x, %d, %d)", tex, internalFormat, width, height)
}

func (d *Device) TextureSubImage2D(tex uint32, x, y, width, height int32, format uint32, pixels []uint8) {
	if t, ok := d.textures[tex]; ok && x == 0 && y == 0 && width == t.width && height == t.height {
		t.pix = append([]uint8(nil), pixels...)
	}
	d.record("TextureSubImage2D(%d, %d, %d, %d, %d, 0x%x)", tex, x, y, width, height, format)
}

func (d *Device) TextureParameteri(tex, pname uint32, param int32) {
	d.record("TextureParameteri(%d, 0x%x, 0x%x)", tex, pname, param)
}

func (d *Device) TextureParameterf(tex, pname uint32, param float32) {
	d.record("TextureParameterf(%d, 0x%x, %v)", tex, pname, param)
}

func (d *Device) ClearTexImage(tex, format uint32) {
	if t, ok := d.textures[tex]; ok {
		t.pix = nil
	}
	d.record("ClearTexImage(%d, 0x%x)", tex, format)
}

func (d *Device) TextureSize(tex uint32) (width, height int32) {
	if t, ok := d.textures[tex]; ok {
		return t.width, t.height
	}
	return 0, 0
}

func (d *Device) GetTextureImage(tex, format uint32, pixels []uint8) {
	if t, ok := d.textures[tex]; ok {
		copy(pixels, t.pix)
	}
	d.record("GetTextureImage(%d, 0x%x, %d)", tex, format, len(pixels))
}

func (d *Device) BindTextureUnit(unit, tex uint32) {
	d.record("BindTextureUnit(%d, %d)", unit, tex)
}

func (d *Device) DeleteTexture(tex uint32) {
	d.release("texture", tex)
	delete(d.textures, tex)
	d.record("DeleteTexture(%d)", tex)
}

func (d *Device) CreateFramebuffer() uint32 {
	h := d.create("framebuffer")
	d.record("CreateFramebuffer() = %d", h)
	return h
}

func (d *Device) NamedFramebufferTexture(fb, attachment, tex uint32) {
	d.record("NamedFramebufferTexture(%d, 0x%x, %d)", fb, attachment, tex)
}

func (d *Device) NamedFramebufferDrawBuffers(fb uint32, bufs []uint32) {
	d.record("NamedFramebufferDrawBuffers(%d, %v)", fb, bufs)
}

func (d *Device) CheckNamedFramebufferStatus(fb uint32) uint32 {
	d.record("CheckNamedFramebufferStatus(%d)", fb)
	if d.Status != 0 {
		return d.Status
	}
	return gl.FRAMEBUFFER_COMPLETE
}

func (d *Device) BindFramebuffer(fb uint32) {
	d.bound = fb
	d.record("BindFramebuffer(%d)", fb)
}

func (d *Device) DeleteFramebuffer(fb uint32) {
	d.release("framebuffer", fb)
	d.record("DeleteFramebuffer(%d)", fb)
}

func (d *Device) Viewport(x, y, width, height int32) {
	d.record("Viewport(%d, %d, %d, %d)", x, y, width, height)
}

func (d *Device) Scissor(x, y, width, height int32) {
	d.record("Scissor(%d, %d, %d, %d)", x, y, width, height)
}

func (d *Device) ClearColor(r, g, b, a float32) {
	d.record("ClearColor(%v, %v, %v, %v)", r, g, b, a)
}

func (d *Device) Clear(mask uint32) {
	d.record("Clear(0x%x) fb=%d", mask, d.bound)
}

func (d *Device) ReadPixels(x, y, width, height int32, pixels []uint8) {
	if d.bound == 0 {
		copy(pixels, d.BackBuffer)
	}
	d.record("ReadPixels(%d, %d, %d, %d)", x, y, width, height)
}

func (d *Device) CreateVertexArray() uint32 {
	h := d.create("vertex array")
	d.record("CreateVertexArray() = %d", h)
	return h
}

func (d *Device) CreateBuffer() uint32 {
	h := d.create("buffer")
	d.record("CreateBuffer() = %d", h)
	return h
}

func (d *Device) NamedBufferData(buf uint32, size int, data any) {
	d.record("NamedBufferData(%d, %d)", buf, size)
}

func (d *Device) VertexArrayAttrib(vao, index, buf uint32, components int32) {
	d.record("VertexArrayAttrib(%d, %d, %d, %d)", vao, index, buf, components)
}

func (d *Device) VertexArrayElementBuffer(vao, buf uint32) {
	d.record("VertexArrayElementBuffer(%d, %d)", vao, buf)
}

func (d *Device) BindVertexArray(vao uint32) {
	d.record("BindVertexArray(%d)", vao)
}

func (d *Device) DeleteBuffer(buf uint32) {
	d.release("buffer", buf)
	d.record("DeleteBuffer(%d)", buf)
}

func (d *Device) DeleteVertexArray(vao uint32) {
	d.release("vertex array", vao)
	d.record("DeleteVertexArray(%d)", vao)
}

func (d *Device) CompileProgram(name string, stages []glr.ShaderStage) (uint32, error) {
	if err := d.CompileErrors[name]; err != nil {
		d.record("CompileProgram(%q) failed", name)
		return 0, fmt.Errorf("%v: %w", name, err)
	}
	h := d.create("program")
	d.record("CompileProgram(%q, %d stages) = %d", name, len(stages), h)
	return h, nil
}

func (d *Device) UseProgram(prog uint32) {
	d.record("UseProgram(%d)", prog)
}

func (d *Device) GetUniformLocation(prog uint32, name string) int32 {
	d.record("GetUniformLocation(%d, %q)", prog, name)
	if d.MissingUniforms[name] {
		return -1
	}
	key := fmt.Sprintf("%d/%s", prog, name)
	loc, ok := d.locations[key]
	if !ok {
		loc = int32(len(d.locations))
		d.locations[key] = loc
	}
	return loc
}

func (d *Device) ProgramUniform(prog uint32, loc int32, value any) {
	d.record("ProgramUniform(%d, %d, %v)", prog, loc, value)
}

func (d *Device) DeleteProgram(prog uint32) {
	d.release("program", prog)
	d.record("DeleteProgram(%d)", prog)
}

func (d *Device) Enable(capability uint32) {
	d.record("Enable(0x%x)", capability)
}

func (d *Device) Disable(capability uint32) {
	d.record("Disable(0x%x)", capability)
}

func (d *Device) BlendFunc(src, dst uint32) {
	d.record("BlendFunc(0x%x, 0x%x)", src, dst)
}

func (d *Device) DrawArrays(mode uint32, first, count int32) {
	d.record("DrawArrays(0x%x, %d, %d) fb=%d", mode, first, count, d.bound)
}

func (d *Device) DrawElements(mode uint32, count int32) {
	d.record("DrawElements(0x%x, %d) fb=%d", mode, count, d.bound)
}

func (d *Device) BindImageTexture(unit, tex, access, format uint32) {
	d.record("BindImageTexture(%d, %d, 0x%x, 0x%x)", unit, tex, access, format)
}

func (d *Device) DispatchCompute(x, y, z uint32) {
	d.record("DispatchCompute(%d, %d, %d)", x, y, z)
}

func (d *Device) GetError() uint32 {
	if len(d.Errors) == 0 {
		return gl.NO_ERROR
	}
	e := d.Errors[0]
	d.Errors = d.Errors[1:]
	return e
}

func (d *Device) GetString(name uint32) string {
	return "glrtest"
}
