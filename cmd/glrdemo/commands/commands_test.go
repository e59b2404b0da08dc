package commands

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmlewis/glrender/config"
	"github.com/gmlewis/glrender/glr"
	"github.com/gmlewis/glrender/glr/glrtest"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Render.Width = 4
	cfg.Render.Height = 2
	return cfg
}

func TestBuildScene(t *testing.T) {
	dev := glrtest.New()
	cfg := testConfig()
	cfg.Post.Global = []string{"grayscale"}
	cfg.Post.Layers = map[string][]string{"1": {"invert"}, "2": {"invert", "grayscale"}}
	require.NoError(t, cfg.Validate())

	s, err := buildScene(dev, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1+cfg.Render.Layers, s.list.Len())
	assert.Len(t, s.textures, 1+cfg.Render.Layers)
	assert.Len(t, s.global, 1)
	assert.Len(t, s.layers[1], 1)
	assert.Len(t, s.layers[2], 2)
	assert.Same(t, s.layers[1][0], s.layers[2][0])
	assert.Equal(t, 1, dev.Count(`CompileProgram("invert"`))
	assert.Equal(t, 1, dev.Count(`CompileProgram("grayscale"`))

	s.Delete()
	assert.Zero(t, dev.Live("texture"))
	assert.Zero(t, dev.Live("program"))
	assert.True(t, s.list.Empty())
}

func TestBuildSceneCompileError(t *testing.T) {
	dev := glrtest.New()
	dev.CompileErrors["invert"] = fmt.Errorf("no invert")
	cfg := testConfig()
	cfg.Post.Global = []string{"invert"}

	_, err := buildScene(dev, cfg)
	assert.ErrorContains(t, err, "no invert")
	assert.Zero(t, dev.Live("texture"))
}

func TestChecker(t *testing.T) {
	img := checker(glr.RGB8(200, 100, 50))
	assert.Equal(t, image.Rect(0, 0, checkerSize, checkerSize), img.Bounds())
	assert.Equal(t, uint8(200), img.NRGBAAt(0, 0).R)
	assert.Equal(t, uint8(100), img.NRGBAAt(1, 0).R)
	assert.Equal(t, uint8(255), img.NRGBAAt(1, 0).A)
}

func TestRenderFrame(t *testing.T) {
	dev := glrtest.New()
	cfg := testConfig()

	img, err := renderFrame(dev, cfg)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
	assert.Equal(t, 1+cfg.Render.Layers, dev.Count(fmt.Sprintf("DrawArrays(0x%x, 0, 6)", gl.TRIANGLES)))
	assert.Equal(t, 1, dev.Count("ReadPixels(0, 0, 4, 2)"))

	assert.Zero(t, dev.Live("texture"))
	assert.Zero(t, dev.Live("framebuffer"))
	assert.Zero(t, dev.Live("program"))
}

func TestRenderFrameLayerEffects(t *testing.T) {
	dev := glrtest.New()
	cfg := testConfig()
	cfg.Post.Layers = map[string][]string{"1": {"invert"}}

	_, err := renderFrame(dev, cfg)
	require.NoError(t, err)

	var invert string
	for _, c := range dev.Calls {
		if strings.HasPrefix(c, `CompileProgram("invert"`) {
			invert = fmt.Sprintf("UseProgram(%v)", c[strings.LastIndex(c, " ")+1:])
		}
	}
	require.NotEmpty(t, invert)
	assert.Equal(t, 1, dev.Count(invert))
}

func TestRenderFrameGLError(t *testing.T) {
	dev := glrtest.New()
	dev.Errors = []uint32{gl.OUT_OF_MEMORY}

	_, err := renderFrame(dev, testConfig())
	assert.EqualError(t, err, "render: GL ERROR: out of memory")
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "frame.png")
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Pix[0] = 0x7f

	require.NoError(t, writePNG(path, src))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	got, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), got.Bounds())
}

func TestPrintInfo(t *testing.T) {
	var buf bytes.Buffer
	printInfo(&buf, glrtest.New())
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Vendor:   glrtest", lines[0])
	assert.True(t, strings.HasPrefix(lines[3], "GLSL:"))
}

func TestRenderCommandBadConfig(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs([]string{"render", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "reading config")
}
