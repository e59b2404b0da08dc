package glr

import (
	"fmt"
	"sort"
)

const fullscreenVertexShader = `#version 450 core
layout(location = 0) in vec3 vert;
layout(location = 1) in vec2 uv;
out vec2 fragUV;
void main() {
	gl_Position = vec4(vert, 1);
	fragUV = uv;
}
`

const transferFragmentShader = `#version 450 core
layout(binding = 0) uniform sampler2D u_texture;
in vec2 fragUV;
out vec4 outputColor;
void main() {
	outputColor = texture(u_texture, fragUV);
}
`

const spriteVertexShader = `#version 450 core
layout(location = 0) in vec3 vert;
layout(location = 1) in vec2 uv;
uniform mat4 u_model;
uniform mat4 u_view;
uniform mat4 u_projection;
out vec2 fragUV;
void main() {
	gl_Position = u_projection * u_view * u_model * vec4(vert, 1);
	fragUV = uv;
}
`

const spriteFragmentShader = `#version 450 core
layout(binding = 0) uniform sampler2D u_texture;
uniform vec4 u_tint;
in vec2 fragUV;
out vec4 outputColor;
void main() {
	outputColor = texture(u_texture, fragUV) * u_tint;
}
`

const invertFragmentShader = `#version 450 core
layout(binding = 0) uniform sampler2D u_texture;
in vec2 fragUV;
out vec4 outputColor;
void main() {
	vec4 c = texture(u_texture, fragUV);
	outputColor = vec4(vec3(c.a) - c.rgb, c.a);
}
`

const grayscaleFragmentShader = `#version 450 core
layout(binding = 0) uniform sampler2D u_texture;
in vec2 fragUV;
out vec4 outputColor;
void main() {
	vec4 c = texture(u_texture, fragUV);
	float l = dot(c.rgb, vec3(0.2126, 0.7152, 0.0722));
	outputColor = vec4(vec3(l), c.a);
}
`

const tintFragmentShader = `#version 450 core
layout(binding = 0) uniform sampler2D u_texture;
uniform vec4 u_tint;
in vec2 fragUV;
out vec4 outputColor;
void main() {
	outputColor = texture(u_texture, fragUV) * u_tint;
}
`

// NewPostShader builds a post-processing pass from a fragment shader
// that samples u_texture (unit 0) at fragUV.
func NewPostShader(dev Device, name, frag string) (*Shader, error) {
	return NewShader(dev, name, fullscreenVertexShader, frag)
}

// NewInvertEffect returns a pass that inverts (premultiplied) color.
func NewInvertEffect(dev Device) (*Shader, error) {
	return NewPostShader(dev, "invert", invertFragmentShader)
}

// NewGrayscaleEffect returns a pass that converts to Rec. 709 luminance.
func NewGrayscaleEffect(dev Device) (*Shader, error) {
	return NewPostShader(dev, "grayscale", grayscaleFragmentShader)
}

// NewTintEffect returns a pass that multiplies by c.
func NewTintEffect(dev Device, c Color) (*Shader, error) {
	s, err := NewPostShader(dev, "tint", tintFragmentShader)
	if err != nil {
		return nil, err
	}
	if err := s.SetUniform("u_tint", c.RGBAf()); err != nil {
		s.Delete()
		return nil, err
	}
	return s, nil
}

var effects = map[string]func(Device) (*Shader, error){
	"invert":    NewInvertEffect,
	"grayscale": NewGrayscaleEffect,
}

// Effect builds a built-in effect by name.
func Effect(dev Device, name string) (*Shader, error) {
	f, ok := effects[name]
	if !ok {
		return nil, fmt.Errorf("unknown effect %q (have %v)", name, EffectNames())
	}
	return f(dev)
}

// EffectNames lists the names accepted by Effect.
func EffectNames() []string {
	names := make([]string, 0, len(effects))
	for name := range effects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
