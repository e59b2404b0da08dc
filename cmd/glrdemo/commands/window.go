package commands

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gmlewis/glrender/glr"
)

// openContext creates a hidden window with a current OpenGL 4.6 core
// context and loads a glr device for it. The returned func tears the
// window down.
func openContext(width, height int) (*glr.OpenGL, func(), error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("glfw.Init: %v", err)
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Visible, glfw.False)
	window, err := glfw.CreateWindow(width, height, "glrdemo", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("CreateWindow(%v,%v): %v", width, height, err)
	}
	window.MakeContextCurrent()

	dev, err := glr.NewOpenGL()
	if err != nil {
		glfw.Terminate()
		return nil, nil, err
	}
	return dev, glfw.Terminate, nil
}
