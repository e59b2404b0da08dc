package glr

// ShaderStage is one stage of a program: a GL shader type
// (gl.VERTEX_SHADER, gl.FRAGMENT_SHADER, gl.COMPUTE_SHADER) and its source.
type ShaderStage struct {
	Type   uint32
	Source string
}

// Device is the subset of the OpenGL 4.5 direct-state-access API used by
// this package. OpenGL implements it against a live context; glrtest
// implements it in memory.
//
// All calls must be made from the thread that owns the context.
type Device interface {
	CreateTexture() uint32
	TextureStorage2D(tex, internalFormat uint32, width, height int32)
	TextureSubImage2D(tex uint32, x, y, width, height int32, format uint32, pixels []uint8)
	TextureParameteri(tex, pname uint32, param int32)
	TextureParameterf(tex, pname uint32, param float32)
	ClearTexImage(tex, format uint32)
	TextureSize(tex uint32) (width, height int32)
	GetTextureImage(tex, format uint32, pixels []uint8)
	BindTextureUnit(unit, tex uint32)
	DeleteTexture(tex uint32)

	CreateFramebuffer() uint32
	NamedFramebufferTexture(fb, attachment, tex uint32)
	NamedFramebufferDrawBuffers(fb uint32, bufs []uint32)
	CheckNamedFramebufferStatus(fb uint32) uint32
	BindFramebuffer(fb uint32)
	DeleteFramebuffer(fb uint32)
	Viewport(x, y, width, height int32)
	Scissor(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	ReadPixels(x, y, width, height int32, pixels []uint8)

	CreateVertexArray() uint32
	CreateBuffer() uint32
	// NamedBufferData uploads data (a []float32 or []uint32) of size bytes.
	NamedBufferData(buf uint32, size int, data any)
	// VertexArrayAttrib binds buf to attribute index of vao as tightly
	// packed float components.
	VertexArrayAttrib(vao, index, buf uint32, components int32)
	VertexArrayElementBuffer(vao, buf uint32)
	BindVertexArray(vao uint32)
	DeleteBuffer(buf uint32)
	DeleteVertexArray(vao uint32)

	CompileProgram(name string, stages []ShaderStage) (uint32, error)
	UseProgram(prog uint32)
	GetUniformLocation(prog uint32, name string) int32
	// ProgramUniform uploads one of the values accepted by Shader.SetUniform.
	ProgramUniform(prog uint32, loc int32, value any)
	DeleteProgram(prog uint32)

	Enable(capability uint32)
	Disable(capability uint32)
	BlendFunc(src, dst uint32)
	DrawArrays(mode uint32, first, count int32)
	DrawElements(mode uint32, count int32)
	BindImageTexture(unit, tex, access, format uint32)
	DispatchCompute(x, y, z uint32)

	GetError() uint32
	GetString(name uint32) string
}
