package glr

import (
	"errors"
	"fmt"
	"sort"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnsupportedUniform is returned by SetUniform for value types that
// have no GL uniform equivalent.
var ErrUnsupportedUniform = errors.New("glr: unsupported uniform type")

// Uniform is a named uniform value and its cached location. A location
// of -1 means the program has no active uniform of that name.
type Uniform struct {
	Location int32
	Value    any
}

// Shader is a linked vertex/fragment or compute program.
type Shader struct {
	dev Device

	Handle  uint32
	Name    string
	Compute bool

	uniforms map[string]*Uniform
}

// NewShader compiles and links a vertex/fragment program.
func NewShader(dev Device, name, vert, frag string) (*Shader, error) {
	h, err := dev.CompileProgram(name, []ShaderStage{
		{Type: gl.VERTEX_SHADER, Source: vert},
		{Type: gl.FRAGMENT_SHADER, Source: frag},
	})
	if err != nil {
		return nil, err
	}
	return &Shader{dev: dev, Handle: h, Name: name, uniforms: make(map[string]*Uniform)}, nil
}

// NewComputeShader compiles and links a compute program.
func NewComputeShader(dev Device, name, comp string) (*Shader, error) {
	h, err := dev.CompileProgram(name, []ShaderStage{
		{Type: gl.COMPUTE_SHADER, Source: comp},
	})
	if err != nil {
		return nil, err
	}
	return &Shader{dev: dev, Handle: h, Name: name, Compute: true, uniforms: make(map[string]*Uniform)}, nil
}

// Exists reports whether the shader was created and not yet deleted.
func (s *Shader) Exists() bool {
	return s != nil && s.Handle != 0
}

// Valid is the same as Exists.
func (s *Shader) Valid() bool {
	return s.Exists()
}

// Delete frees the program. It is safe to call more than once.
func (s *Shader) Delete() {
	if !s.Exists() {
		return
	}
	s.dev.DeleteProgram(s.Handle)
	s.Handle = 0
	s.Name = ""
	clear(s.uniforms)
}

// Use makes the program current.
func (s *Shader) Use() {
	s.dev.UseProgram(s.Handle)
}

func checkUniform(v any) error {
	switch v.(type) {
	case float32, int32, uint32, mgl32.Vec2, mgl32.Vec3, mgl32.Vec4, mgl32.Mat3, mgl32.Mat4:
		return nil
	}
	return fmt.Errorf("%w: %T", ErrUnsupportedUniform, v)
}

// SetUniform stores a value to be sent by SendUniforms. v must be one of
// float32, int32, uint32, mgl32.Vec2, Vec3, Vec4, Mat3 or Mat4.
func (s *Shader) SetUniform(name string, v any) error {
	if !s.Exists() {
		return fmt.Errorf("uniform %q: %w", name, ErrDeleted)
	}
	if err := checkUniform(v); err != nil {
		return fmt.Errorf("uniform %q: %w", name, err)
	}
	u, ok := s.uniforms[name]
	if !ok {
		u = &Uniform{Location: s.dev.GetUniformLocation(s.Handle, name)}
		s.uniforms[name] = u
	}
	u.Value = v
	return nil
}

// Uniform returns the stored uniform of the given name.
func (s *Shader) Uniform(name string) (Uniform, bool) {
	u, ok := s.uniforms[name]
	if !ok {
		return Uniform{}, false
	}
	return *u, true
}

// SendUniforms uploads every stored uniform that the program uses,
// in name order.
func (s *Shader) SendUniforms() {
	names := make([]string, 0, len(s.uniforms))
	for name := range s.uniforms {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		u := s.uniforms[name]
		if u.Location < 0 {
			continue
		}
		s.dev.ProgramUniform(s.Handle, u.Location, u.Value)
	}
}
