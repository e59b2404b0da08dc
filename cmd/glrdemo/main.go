// glrdemo renders a layered, post-processed test scene offscreen with
// the glr renderer.
package main

import (
	"os"
	"runtime"

	"github.com/gmlewis/glrender/cmd/glrdemo/commands"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
