package glr

import (
	"fmt"
	"image"
	"maps"
	"slices"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gmlewis/glrender/logging"
)

// PostStack is an ordered list of post-processing passes. Each pass
// samples the previous result from texture unit 0.
type PostStack []*Shader

// Renderer draws render lists into a pair of ping-pong framebuffers,
// optionally post-processes per layer and globally, and presents the
// result to the back buffer.
type Renderer struct {
	dev    Device
	width  uint32
	height uint32

	fbos    [2]*Framebuffer
	cur     int
	scratch *Framebuffer

	fullscreenQuad *Mesh
	unitQuad       *Mesh
	transfer       *Shader
	sprite         *Shader

	clearColor  Color
	filter      FilterMode
	blending    bool
	depthTest   bool
	blendSrc    BlendFactor
	blendDst    BlendFactor
	compositing bool

	globalStack PostStack
	layerStacks map[uint64]PostStack
	frameGlobal PostStack
	frameLayers map[uint64]PostStack

	view         mgl32.Mat4
	projection   mgl32.Mat4
	boundTexture uint32
}

// NewRenderer creates the renderer's framebuffers, meshes and built-in
// shaders for a width x height back buffer.
func NewRenderer(dev Device, width, height uint32) (*Renderer, error) {
	r := &Renderer{
		dev:         dev,
		width:       width,
		height:      height,
		layerStacks: make(map[uint64]PostStack),
		frameLayers: make(map[uint64]PostStack),
		view:        mgl32.Ident4(),
		projection:  mgl32.Ident4(),
	}
	if err := r.init(); err != nil {
		r.Delete()
		return nil, fmt.Errorf("NewRenderer: %w", err)
	}

	r.SetClearColor(Black)
	r.SetBlendMode(SrcAlpha, OneMinusSrcAlpha)
	r.SetBlending(true)
	r.SetDepthTest(false)
	return r, nil
}

func (r *Renderer) init() error {
	var err error
	for i, name := range []string{"Ping", "Pong"} {
		if r.fbos[i], err = NewFramebuffer(r.dev, name, r.width, r.height, AttachColor, AttachAlpha, AttachDepth); err != nil {
			return err
		}
	}
	if r.scratch, err = NewFramebuffer(r.dev, "Scratch", r.width, r.height, AttachColor, AttachAlpha); err != nil {
		return err
	}
	if r.fullscreenQuad, err = NewFullscreenQuad(r.dev); err != nil {
		return err
	}
	if r.unitQuad, err = NewUnitQuad(r.dev); err != nil {
		return err
	}
	if r.transfer, err = NewShader(r.dev, "transfer", fullscreenVertexShader, transferFragmentShader); err != nil {
		return err
	}
	if r.sprite, err = NewShader(r.dev, "sprite", spriteVertexShader, spriteFragmentShader); err != nil {
		return err
	}
	return nil
}

// Delete frees everything the renderer created. Post-processing shaders
// belong to the caller and are left alone.
func (r *Renderer) Delete() {
	r.fbos[0].Delete()
	r.fbos[1].Delete()
	r.scratch.Delete()
	r.fullscreenQuad.Delete()
	r.unitQuad.Delete()
	r.transfer.Delete()
	r.sprite.Delete()
}

// Size returns the back buffer size.
func (r *Renderer) Size() (width, height uint32) {
	return r.width, r.height
}

// Resize regenerates the internal framebuffers for a new back buffer size.
func (r *Renderer) Resize(width, height uint32) error {
	r.width, r.height = width, height
	for _, fb := range []*Framebuffer{r.fbos[0], r.fbos[1], r.scratch} {
		if err := fb.Regenerate(width, height); err != nil {
			return err
		}
	}
	return nil
}

// Target returns the ping-pong framebuffer most recently drawn to.
func (r *Renderer) Target() *Framebuffer {
	return r.fbos[r.cur]
}

// Scratch returns the framebuffer layers are composited into.
func (r *Renderer) Scratch() *Framebuffer {
	return r.scratch
}

// SetGlobalPostStack sets the passes applied to the whole frame.
func (r *Renderer) SetGlobalPostStack(stack PostStack) {
	r.globalStack = slices.Clone(stack)
}

// SetLayerPostStack sets the passes applied to one layer. An empty
// stack removes the layer's passes.
func (r *Renderer) SetLayerPostStack(layer uint64, stack PostStack) {
	if len(stack) == 0 {
		delete(r.layerStacks, layer)
		return
	}
	r.layerStacks[layer] = slices.Clone(stack)
}

// AddGlobalPostStackToThisFrame appends passes to the global stack for
// the next Render only.
func (r *Renderer) AddGlobalPostStackToThisFrame(stack PostStack) {
	r.frameGlobal = append(r.frameGlobal, stack...)
}

// AddLayerPostStackToThisFrame appends passes to a layer's stack for the
// next Render only.
func (r *Renderer) AddLayerPostStackToThisFrame(layer uint64, stack PostStack) {
	if len(stack) == 0 {
		return
	}
	r.frameLayers[layer] = append(r.frameLayers[layer], stack...)
}

func (r *Renderer) endFrame() {
	r.frameGlobal = r.frameGlobal[:0]
	clear(r.frameLayers)
}

// layered reports whether this frame needs per-layer compositing: stack
// is non-empty or a layer present in list has passes of its own.
func (r *Renderer) layered(list *RenderList, stack PostStack) bool {
	if len(stack) > 0 {
		return true
	}
	if len(r.layerStacks) == 0 && len(r.frameLayers) == 0 {
		return false
	}
	for i := 0; i < list.Len(); i++ {
		layer := list.At(i).Layer
		if len(r.layerStacks[layer]) > 0 || len(r.frameLayers[layer]) > 0 {
			return true
		}
	}
	return false
}

// LayersWithPostStacks returns the layers that have persistent stacks.
func (r *Renderer) LayersWithPostStacks() []uint64 {
	return slices.Sorted(maps.Keys(r.layerStacks))
}

// Render sorts list with ByLayer and draws it.
//
// Without any layer post-processing every renderable is drawn into one
// ping-pong buffer. Otherwise each layer is drawn into a fresh,
// transparent buffer, run through its passes (the layer's persistent
// stack, then this frame's, then stack) and composited onto the scratch
// buffer, which is copied back once all layers are done. Global passes
// run last and the result is drawn to the back buffer.
//
// Per-frame stacks are dropped when Render returns.
func (r *Renderer) Render(list *RenderList, view, projection mgl32.Mat4, stack PostStack) {
	defer r.endFrame()
	if list == nil || list.Empty() {
		return
	}
	list.Sort(ByLayer)
	r.view = view
	r.projection = projection

	r.bindTexture(list.At(0).Texture, true)

	if !r.layered(list, stack) {
		r.pingPong()
		for i := 0; i < list.Len(); i++ {
			entry := list.At(i)
			r.bindTexture(entry.Texture, false)
			r.drawRenderable(entry)
		}
	} else {
		r.scratch.Use()
		r.ClearCurrentFramebuffer()

		r.compositing = true
		r.pingPong()
		prevLayer := list.At(0).Layer
		for i := 0; i < list.Len(); i++ {
			entry := list.At(i)
			if entry.Layer != prevLayer {
				r.postProcessLayer(prevLayer, stack)
				r.drawToScratch()
				r.pingPong()
				r.bindTexture(entry.Texture, true)
				prevLayer = entry.Layer
			}
			r.bindTexture(entry.Texture, false)
			r.drawRenderable(entry)
		}
		r.postProcessLayer(prevLayer, stack)
		r.drawToScratch()
		r.compositing = false

		r.scratchToPingPong()
	}

	if global := r.globalPasses(); len(global) > 0 {
		r.postProcessGlobal(global)
	}
	r.drawToBackBuffer()
}

func (r *Renderer) globalPasses() PostStack {
	if len(r.frameGlobal) == 0 {
		return r.globalStack
	}
	return append(slices.Clone(r.globalStack), r.frameGlobal...)
}

func (r *Renderer) bindTexture(tex uint32, force bool) {
	if !force && tex == r.boundTexture {
		return
	}
	r.dev.BindTextureUnit(0, tex)
	r.boundTexture = tex
}

// pingPong switches to the other ping-pong buffer and clears it. While
// compositing layers the buffer is cleared to transparent.
func (r *Renderer) pingPong() {
	r.cur ^= 1
	r.fbos[r.cur].Use()
	if r.compositing && r.clearColor != Transparent {
		r.dev.ClearColor(0, 0, 0, 0)
		r.ClearCurrentFramebuffer()
		c := r.clearColor.RGBAf()
		r.dev.ClearColor(c[0], c[1], c[2], c[3])
		return
	}
	r.ClearCurrentFramebuffer()
}

// postProcessLayer runs the passes that apply to layer over the current
// ping-pong buffer.
func (r *Renderer) postProcessLayer(layer uint64, stack PostStack) {
	var passes PostStack
	passes = append(passes, r.layerStacks[layer]...)
	passes = append(passes, r.frameLayers[layer]...)
	passes = append(passes, stack...)
	r.runPasses(passes)
}

// postProcessGlobal runs the global passes over the current ping-pong
// buffer.
func (r *Renderer) postProcessGlobal(stack PostStack) {
	r.runPasses(stack)
}

func (r *Renderer) runPasses(stack PostStack) {
	if len(stack) == 0 {
		return
	}
	defer r.suspendBlendAndDepth()()
	for _, pass := range stack {
		if !pass.Exists() {
			logging.WithComponent("renderer").Warn("skipping deleted post-processing pass")
			continue
		}
		src := r.fbos[r.cur]
		r.pingPong()
		src.Bind(AttachColor, 0)
		r.boundTexture = src.ColorHandle
		pass.Use()
		pass.SendUniforms()
		r.fullscreenQuad.Draw()
	}
}

// suspendBlendAndDepth turns blending and depth testing off for a copy
// and returns a func that restores them.
func (r *Renderer) suspendBlendAndDepth() func() {
	blending, depth := r.blending, r.depthTest
	if blending {
		r.dev.Disable(gl.BLEND)
	}
	if depth {
		r.dev.Disable(gl.DEPTH_TEST)
	}
	return func() {
		if blending {
			r.dev.Enable(gl.BLEND)
		}
		if depth {
			r.dev.Enable(gl.DEPTH_TEST)
		}
	}
}

func (r *Renderer) transferFrom(src *Framebuffer) {
	r.transfer.Use()
	src.Bind(AttachColor, 0)
	r.boundTexture = src.ColorHandle
	r.fullscreenQuad.Draw()
}

// drawToBackBuffer presents the current ping-pong buffer.
func (r *Renderer) drawToBackBuffer() {
	defer r.suspendBlendAndDepth()()
	r.UseBackBuffer()
	r.ClearCurrentFramebuffer()
	r.transferFrom(r.fbos[r.cur])
}

// drawToScratch composites the current ping-pong buffer over the scratch
// buffer with the current blend mode.
func (r *Renderer) drawToScratch() {
	if !r.blending {
		r.dev.Enable(gl.BLEND)
		defer r.dev.Disable(gl.BLEND)
	}
	if r.depthTest {
		r.dev.Disable(gl.DEPTH_TEST)
		defer r.dev.Enable(gl.DEPTH_TEST)
	}
	r.scratch.Use()
	r.transferFrom(r.fbos[r.cur])
}

// scratchToPingPong copies the composited scratch buffer into the next
// ping-pong buffer.
func (r *Renderer) scratchToPingPong() {
	defer r.suspendBlendAndDepth()()
	r.pingPong()
	r.transferFrom(r.scratch)
}

func (r *Renderer) drawRenderable(entry *Renderable) {
	mesh := entry.Mesh
	if mesh == nil {
		mesh = r.unitQuad
	}
	shader := entry.Shader
	if shader == nil {
		shader = r.sprite
	}
	model := entry.Model
	if model == (mgl32.Mat4{}) {
		model = mgl32.Ident4()
	}
	tint := entry.Tint
	if tint == Transparent {
		tint = White
	}
	for _, u := range []struct {
		name string
		v    any
	}{
		{"u_model", model},
		{"u_view", r.view},
		{"u_projection", r.projection},
		{"u_tint", tint.RGBAf()},
	} {
		if err := shader.SetUniform(u.name, u.v); err != nil {
			logging.WithComponent("renderer").Warnf("drawRenderable: %v", err)
			return
		}
	}
	shader.Use()
	shader.SendUniforms()
	mesh.Draw()
}

// UseBackBuffer makes the default framebuffer the draw target.
func (r *Renderer) UseBackBuffer() {
	r.dev.BindFramebuffer(0)
	r.dev.Viewport(0, 0, int32(r.width), int32(r.height))
	r.dev.Scissor(0, 0, int32(r.width), int32(r.height))
}

// SetClearColor sets the color used to clear framebuffers.
func (r *Renderer) SetClearColor(c Color) {
	f := c.RGBAf()
	r.dev.ClearColor(f[0], f[1], f[2], f[3])
	r.clearColor = c
}

// ClearColor returns the current clear color.
func (r *Renderer) ClearColor() Color {
	return r.clearColor
}

// ClearCurrentFramebuffer clears color and depth of the bound framebuffer.
func (r *Renderer) ClearCurrentFramebuffer() {
	r.dev.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (r *Renderer) toggle(capability uint32, on bool) {
	if on {
		r.dev.Enable(capability)
	} else {
		r.dev.Disable(capability)
	}
}

func (r *Renderer) SetScissorTest(on bool) {
	r.toggle(gl.SCISSOR_TEST, on)
}

func (r *Renderer) SetDepthTest(on bool) {
	r.depthTest = on
	r.toggle(gl.DEPTH_TEST, on)
}

func (r *Renderer) SetBlending(on bool) {
	r.blending = on
	r.toggle(gl.BLEND, on)
}

func (r *Renderer) SetBlendMode(src, dst BlendFactor) {
	r.blendSrc, r.blendDst = src, dst
	r.dev.BlendFunc(src.glEnum(), dst.glEnum())
}

// BlendMode returns the factors last set with SetBlendMode.
func (r *Renderer) BlendMode() (src, dst BlendFactor) {
	return r.blendSrc, r.blendDst
}

func (r *Renderer) SetCullFace(on bool) {
	r.toggle(gl.CULL_FACE, on)
}

// SetFilterMode sets how the renderer's own buffers are sampled by
// post-processing passes and transfers.
func (r *Renderer) SetFilterMode(mode FilterMode) {
	r.filter = mode
	r.fbos[0].SetFilterMode(mode)
	r.fbos[1].SetFilterMode(mode)
	r.scratch.SetFilterMode(mode)
}

func (r *Renderer) FilterMode() FilterMode {
	return r.filter
}

// BindImage binds a texture handle as an image for compute shaders.
func (r *Renderer) BindImage(unit, handle uint32, mode IOMode, format ImageFormat) {
	r.dev.BindImageTexture(unit, handle, mode.glEnum(), format.glEnum())
}

// BindTextureImage binds t using its own binding instructions.
func (r *Renderer) BindTextureImage(t *Texture) {
	if t.BindingKind == ComputeKind {
		r.BindImage(t.BindingIndex, t.Handle, t.BindingIOMode, t.BindingFormat)
		return
	}
	t.Use(t.BindingIndex)
}

// StartComputeShader dispatches enough work groups of workSize to cover
// contextSize.
func (r *Renderer) StartComputeShader(contextSize, workSize [2]uint32) {
	groups := func(n, size uint32) uint32 {
		if size == 0 {
			size = 1
		}
		g := n / size
		if n%size != 0 {
			g++
		}
		return g
	}
	r.dev.DispatchCompute(groups(contextSize[0], workSize[0]), groups(contextSize[1], workSize[1]), 1)
}

// Draw draws n vertices of the bound vertex array.
func (r *Renderer) Draw(mode DrawMode, n int) {
	r.dev.DrawArrays(mode.glEnum(), 0, int32(n))
}

// ReadPixels reads the back buffer into an image, top row first.
func (r *Renderer) ReadPixels() *image.RGBA {
	w, h := int(r.width), int(r.height)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	r.dev.BindFramebuffer(0)
	raw := make([]uint8, w*h*4)
	r.dev.ReadPixels(0, 0, int32(w), int32(h), raw)
	stride := w * 4
	for y := 0; y < h; y++ {
		copy(img.Pix[y*stride:(y+1)*stride], raw[(h-1-y)*stride:(h-y)*stride])
	}
	return img
}
