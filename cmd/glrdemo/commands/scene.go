package commands

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"

	"github.com/gmlewis/glrender/config"
	"github.com/gmlewis/glrender/glr"
	"github.com/gmlewis/glrender/logging"
)

var layerPalette = []glr.Color{
	glr.Hex(0xffe63946),
	glr.Hex(0xfff1a208),
	glr.Hex(0xff2a9d8f),
	glr.Hex(0xff457b9d),
	glr.Hex(0xff9b5de5),
}

const checkerSize = 8

// scene owns the GPU objects of the demo frame.
type scene struct {
	textures []*glr.Texture
	effects  map[string]*glr.Shader
	list     glr.RenderList
	global   glr.PostStack
	layers   map[uint64]glr.PostStack
}

// checker returns a checkerboard alternating c and c at half intensity.
func checker(c glr.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, checkerSize, checkerSize))
	dark := glr.RGBA16(c.R/2, c.G/2, c.B/2, c.A)
	for y := 0; y < checkerSize; y++ {
		for x := 0; x < checkerSize; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, c)
			} else {
				img.Set(x, y, dark)
			}
		}
	}
	return img
}

// buildScene lays out a full-frame background on layer 0 and one
// checkered sprite per layer, stepping diagonally across the frame.
func buildScene(dev glr.Device, cfg *config.Config) (*scene, error) {
	s := &scene{
		effects: make(map[string]*glr.Shader),
		layers:  make(map[uint64]glr.PostStack),
	}

	filter, err := cfg.FilterMode()
	if err != nil {
		return nil, err
	}

	w, h := float32(cfg.Render.Width), float32(cfg.Render.Height)
	bg := glr.NewSolidTexture(dev, "background", 0x30, 0x30, 0x38, 0xff, false)
	s.textures = append(s.textures, bg)
	s.list.Add(glr.Sprite(bg, 0, 0, 0, 0, w, h))

	n := cfg.Render.Layers
	step := float32(0)
	if n > 1 {
		step = 1 / float32(n-1)
	}
	for i := 0; i < n; i++ {
		c := layerPalette[i%len(layerPalette)]
		tex, err := glr.NewTextureFromImage(dev, fmt.Sprintf("layer %v", i), checker(c), filter, filter, false)
		if err != nil {
			s.Delete()
			return nil, err
		}
		s.textures = append(s.textures, tex)

		x := float32(i) * step * w / 2
		y := float32(i) * step * h / 2
		s.list.Add(glr.Sprite(tex, uint64(i), 1, x, y, w/2, h/2))
	}

	if s.global, err = s.stack(dev, cfg.Post.Global); err != nil {
		s.Delete()
		return nil, err
	}
	layerEffects, err := cfg.LayerEffects()
	if err != nil {
		s.Delete()
		return nil, err
	}
	for layer, names := range layerEffects {
		stack, err := s.stack(dev, names)
		if err != nil {
			s.Delete()
			return nil, err
		}
		s.layers[layer] = stack
	}
	return s, nil
}

// stack builds a post stack from effect names. Each effect is compiled
// once and shared between stacks.
func (s *scene) stack(dev glr.Device, names []string) (glr.PostStack, error) {
	var out glr.PostStack
	for _, name := range names {
		e, ok := s.effects[name]
		if !ok {
			var err error
			if e, err = glr.Effect(dev, name); err != nil {
				return nil, err
			}
			s.effects[name] = e
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *scene) Delete() {
	for _, t := range s.textures {
		t.Delete()
	}
	for _, e := range s.effects {
		e.Delete()
	}
	s.list.Clear()
}

// renderFrame draws the configured scene and returns the presented
// back buffer.
func renderFrame(dev glr.Device, cfg *config.Config) (*image.RGBA, error) {
	log := logging.WithComponent("glrdemo")

	clearColor, err := cfg.ClearColor()
	if err != nil {
		return nil, err
	}
	filter, err := cfg.FilterMode()
	if err != nil {
		return nil, err
	}

	r, err := glr.NewRenderer(dev, cfg.Render.Width, cfg.Render.Height)
	if err != nil {
		return nil, err
	}
	defer r.Delete()

	r.SetClearColor(clearColor)
	r.SetFilterMode(filter)
	r.SetBlending(cfg.Render.Blending)
	r.SetDepthTest(cfg.Render.DepthTest)

	s, err := buildScene(dev, cfg)
	if err != nil {
		return nil, err
	}
	defer s.Delete()

	r.SetGlobalPostStack(s.global)
	for layer, stack := range s.layers {
		r.SetLayerPostStack(layer, stack)
	}

	log.WithFields(logrus.Fields{
		"renderables":   s.list.Len(),
		"layers":        cfg.Render.Layers,
		"global_passes": len(s.global),
		"layer_stacks":  r.LayersWithPostStacks(),
	}).Info("rendering frame")

	w, h := float32(cfg.Render.Width), float32(cfg.Render.Height)
	r.Render(&s.list, mgl32.Ident4(), mgl32.Ortho2D(0, w, 0, h), nil)
	if err := glr.CheckError(dev, "render"); err != nil {
		return nil, err
	}
	return r.ReadPixels(), nil
}
