package glr

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gmlewis/glrender/logging"
)

// OpenGL is a Device backed by the current OpenGL 4.5+ context.
type OpenGL struct{}

var _ Device = &OpenGL{}

// NewOpenGL loads the GL entry points for the context that is current on
// the calling thread.
func NewOpenGL() (*OpenGL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl.Init: %w", err)
	}

	// pixel slices are tightly packed
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)

	d := &OpenGL{}
	log := logging.WithComponent("opengl")
	log.Infof("vendor: %s", d.GetString(gl.VENDOR))
	log.Infof("renderer: %s", d.GetString(gl.RENDERER))
	log.Infof("driver: %s", d.GetString(gl.VERSION))
	return d, nil
}

// ptr is gl.Ptr that tolerates empty slices.
func ptr(data any) any {
	switch v := data.(type) {
	case []uint8:
		if len(v) == 0 {
			return nil
		}
	case []float32:
		if len(v) == 0 {
			return nil
		}
	case []uint32:
		if len(v) == 0 {
			return nil
		}
	}
	return data
}

func (d *OpenGL) CreateTexture() uint32 {
	var h uint32
	gl.CreateTextures(gl.TEXTURE_2D, 1, &h)
	return h
}

func (d *OpenGL) TextureStorage2D(tex, internalFormat uint32, width, height int32) {
	gl.TextureStorage2D(tex, 1, internalFormat, width, height)
}

func (d *OpenGL) TextureSubImage2D(tex uint32, x, y, width, height int32, format uint32, pixels []uint8) {
	gl.TextureSubImage2D(tex, 0, x, y, width, height, format, gl.UNSIGNED_BYTE, gl.Ptr(ptr(pixels)))
}

func (d *OpenGL) TextureParameteri(tex, pname uint32, param int32) {
	gl.TextureParameteri(tex, pname, param)
}

func (d *OpenGL) TextureParameterf(tex, pname uint32, param float32) {
	gl.TextureParameterf(tex, pname, param)
}

func (d *OpenGL) ClearTexImage(tex, format uint32) {
	zero := []uint8{0, 0, 0, 0}
	gl.ClearTexImage(tex, 0, format, gl.UNSIGNED_BYTE, gl.Ptr(zero))
}

func (d *OpenGL) TextureSize(tex uint32) (width, height int32) {
	gl.GetTextureLevelParameteriv(tex, 0, gl.TEXTURE_WIDTH, &width)
	gl.GetTextureLevelParameteriv(tex, 0, gl.TEXTURE_HEIGHT, &height)
	return width, height
}

func (d *OpenGL) GetTextureImage(tex, format uint32, pixels []uint8) {
	gl.GetTextureImage(tex, 0, format, gl.UNSIGNED_BYTE, int32(len(pixels)), gl.Ptr(ptr(pixels)))
}

func (d *OpenGL) BindTextureUnit(unit, tex uint32) {
	gl.BindTextureUnit(unit, tex)
}

func (d *OpenGL) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

func (d *OpenGL) CreateFramebuffer() uint32 {
	var h uint32
	gl.CreateFramebuffers(1, &h)
	return h
}

func (d *OpenGL) NamedFramebufferTexture(fb, attachment, tex uint32) {
	gl.NamedFramebufferTexture(fb, attachment, tex, 0)
}

func (d *OpenGL) NamedFramebufferDrawBuffers(fb uint32, bufs []uint32) {
	if len(bufs) == 0 {
		gl.NamedFramebufferDrawBuffer(fb, gl.NONE)
		return
	}
	gl.NamedFramebufferDrawBuffers(fb, int32(len(bufs)), &bufs[0])
}

func (d *OpenGL) CheckNamedFramebufferStatus(fb uint32) uint32 {
	return gl.CheckNamedFramebufferStatus(fb, gl.FRAMEBUFFER)
}

func (d *OpenGL) BindFramebuffer(fb uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fb)
}

func (d *OpenGL) DeleteFramebuffer(fb uint32) {
	gl.DeleteFramebuffers(1, &fb)
}

func (d *OpenGL) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *OpenGL) Scissor(x, y, width, height int32) {
	gl.Scissor(x, y, width, height)
}

func (d *OpenGL) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *OpenGL) Clear(mask uint32) {
	gl.Clear(mask)
}

func (d *OpenGL) ReadPixels(x, y, width, height int32, pixels []uint8) {
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(ptr(pixels)))
}

func (d *OpenGL) CreateVertexArray() uint32 {
	var h uint32
	gl.CreateVertexArrays(1, &h)
	return h
}

func (d *OpenGL) CreateBuffer() uint32 {
	var h uint32
	gl.CreateBuffers(1, &h)
	return h
}

func (d *OpenGL) NamedBufferData(buf uint32, size int, data any) {
	gl.NamedBufferData(buf, size, gl.Ptr(ptr(data)), gl.STATIC_DRAW)
}

func (d *OpenGL) VertexArrayAttrib(vao, index, buf uint32, components int32) {
	gl.VertexArrayAttribBinding(vao, index, index)
	gl.VertexArrayVertexBuffer(vao, index, buf, 0, components*4)
	gl.EnableVertexArrayAttrib(vao, index)
	gl.VertexArrayAttribFormat(vao, index, components, gl.FLOAT, false, 0)
}

func (d *OpenGL) VertexArrayElementBuffer(vao, buf uint32) {
	gl.VertexArrayElementBuffer(vao, buf)
}

func (d *OpenGL) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

func (d *OpenGL) DeleteBuffer(buf uint32) {
	gl.DeleteBuffers(1, &buf)
}

func (d *OpenGL) DeleteVertexArray(vao uint32) {
	gl.DeleteVertexArrays(1, &vao)
}

func (d *OpenGL) CompileProgram(name string, stages []ShaderStage) (uint32, error) {
	var shaders []uint32
	defer func() {
		for _, s := range shaders {
			gl.DeleteShader(s)
		}
	}()

	for _, stage := range stages {
		s, err := compileShader(stage.Source, stage.Type)
		if err != nil {
			return 0, fmt.Errorf("%v: %w", name, err)
		}
		shaders = append(shaders, s)
	}

	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)

		return 0, fmt.Errorf("%v: failed to link program: %v", name, strings.TrimRight(log, "\x00"))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	if !strings.HasSuffix(source, "\x00") {
		source += "\x00"
	}
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)

		return 0, fmt.Errorf("failed to compile %v shader: %v", stageName(shaderType), strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

func stageName(shaderType uint32) string {
	switch shaderType {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	case gl.GEOMETRY_SHADER:
		return "geometry"
	case gl.COMPUTE_SHADER:
		return "compute"
	}
	return fmt.Sprintf("0x%x", shaderType)
}

func (d *OpenGL) UseProgram(prog uint32) {
	gl.UseProgram(prog)
}

func (d *OpenGL) GetUniformLocation(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func (d *OpenGL) ProgramUniform(prog uint32, loc int32, value any) {
	switch v := value.(type) {
	case float32:
		gl.ProgramUniform1f(prog, loc, v)
	case int32:
		gl.ProgramUniform1i(prog, loc, v)
	case uint32:
		gl.ProgramUniform1ui(prog, loc, v)
	case mgl32.Vec2:
		gl.ProgramUniform2fv(prog, loc, 1, &v[0])
	case mgl32.Vec3:
		gl.ProgramUniform3fv(prog, loc, 1, &v[0])
	case mgl32.Vec4:
		gl.ProgramUniform4fv(prog, loc, 1, &v[0])
	case mgl32.Mat3:
		gl.ProgramUniformMatrix3fv(prog, loc, 1, false, &v[0])
	case mgl32.Mat4:
		gl.ProgramUniformMatrix4fv(prog, loc, 1, false, &v[0])
	}
}

func (d *OpenGL) DeleteProgram(prog uint32) {
	gl.DeleteProgram(prog)
}

func (d *OpenGL) Enable(capability uint32) {
	gl.Enable(capability)
}

func (d *OpenGL) Disable(capability uint32) {
	gl.Disable(capability)
}

func (d *OpenGL) BlendFunc(src, dst uint32) {
	gl.BlendFunc(src, dst)
}

func (d *OpenGL) DrawArrays(mode uint32, first, count int32) {
	gl.DrawArrays(mode, first, count)
}

func (d *OpenGL) DrawElements(mode uint32, count int32) {
	gl.DrawElements(mode, count, gl.UNSIGNED_INT, gl.PtrOffset(0))
}

func (d *OpenGL) BindImageTexture(unit, tex, access, format uint32) {
	gl.BindImageTexture(unit, tex, 0, false, 0, access, format)
}

func (d *OpenGL) DispatchCompute(x, y, z uint32) {
	gl.DispatchCompute(x, y, z)
}

func (d *OpenGL) GetError() uint32 {
	return gl.GetError()
}

func (d *OpenGL) GetString(name uint32) string {
	s := gl.GetString(name)
	if s == nil {
		return ""
	}
	return gl.GoStr(s)
}

// CheckError logs and returns the first pending GL error, if any.
func CheckError(dev Device, where string) error {
	e := dev.GetError()
	if e == gl.NO_ERROR {
		return nil
	}
	err := fmt.Errorf("%v: GL ERROR: %v", where, errorName(e))
	logging.WithComponent("opengl").Warn(err)
	return err
}

func errorName(e uint32) string {
	switch e {
	case gl.INVALID_ENUM:
		return "invalid enum"
	case gl.INVALID_VALUE:
		return "invalid value"
	case gl.INVALID_OPERATION:
		return "invalid operation"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "invalid framebuffer operation"
	case gl.OUT_OF_MEMORY:
		return "out of memory"
	case gl.STACK_UNDERFLOW:
		return "stack underflow"
	case gl.STACK_OVERFLOW:
		return "stack overflow"
	}
	return fmt.Sprintf("0x%x", e)
}
