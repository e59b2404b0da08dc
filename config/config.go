// Package config loads the glrdemo configuration from file, environment
// and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/gmlewis/glrender/glr"
)

// MaxLayers bounds the number of layers the demo scene may use.
const MaxLayers = 64

// Config represents the demo configuration.
type Config struct {
	Render  RenderConfig  `mapstructure:"render"`
	Post    PostConfig    `mapstructure:"post"`
	Output  string        `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type RenderConfig struct {
	Width      uint32 `mapstructure:"width"`
	Height     uint32 `mapstructure:"height"`
	ClearColor string `mapstructure:"clear_color"`
	Filter     string `mapstructure:"filter"`
	Blending   bool   `mapstructure:"blending"`
	DepthTest  bool   `mapstructure:"depth_test"`
	Layers     int    `mapstructure:"layers"`
}

// PostConfig names built-in effects. Layers is keyed by layer number.
type PostConfig struct {
	Global []string            `mapstructure:"global"`
	Layers map[string][]string `mapstructure:"layers"`
}

type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	File    string `mapstructure:"file"`
	Console bool   `mapstructure:"console"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			Width:      640,
			Height:     480,
			ClearColor: "#000000",
			Filter:     "bilinear",
			Blending:   true,
			DepthTest:  false,
			Layers:     3,
		},
		Post: PostConfig{
			Global: []string{},
			Layers: map[string][]string{},
		},
		Output: "frame.png",
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
		},
	}
}

// Load loads configuration from cfgFile (or glrender.yaml in the working
// directory or $HOME/.glrender), GLRENDER_* environment variables and
// defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".glrender"))
		}
		v.SetConfigType("yaml")
		v.SetConfigName("glrender")
	}

	v.SetEnvPrefix("GLRENDER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.Output = expandPath(cfg.Output)
	cfg.Logging.File = expandPath(cfg.Logging.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Render.Width == 0 || c.Render.Height == 0 {
		return errors.New("render.width and render.height must be positive")
	}
	if c.Render.Layers < 1 || c.Render.Layers > MaxLayers {
		return fmt.Errorf("render.layers must be between 1 and %v", MaxLayers)
	}
	if _, err := glr.ParseWeb(c.Render.ClearColor); err != nil {
		return fmt.Errorf("render.clear_color: %w", err)
	}
	if _, err := glr.ParseFilterMode(c.Render.Filter); err != nil {
		return fmt.Errorf("render.filter: %w", err)
	}

	names := glr.EffectNames()
	for _, name := range c.Post.Global {
		if !slices.Contains(names, name) {
			return fmt.Errorf("post.global: effect %q must be one of: %v", name, names)
		}
	}
	layers, err := c.LayerEffects()
	if err != nil {
		return err
	}
	for layer, effects := range layers {
		if layer >= uint64(c.Render.Layers) {
			return fmt.Errorf("post.layers: layer %v is outside 0..%v", layer, c.Render.Layers-1)
		}
		for _, name := range effects {
			if !slices.Contains(names, name) {
				return fmt.Errorf("post.layers.%v: effect %q must be one of: %v", layer, name, names)
			}
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}
	return nil
}

// LayerEffects returns the per-layer effect names keyed by layer number.
func (c *Config) LayerEffects() (map[uint64][]string, error) {
	out := make(map[uint64][]string, len(c.Post.Layers))
	for key, effects := range c.Post.Layers {
		layer, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("post.layers: bad layer %q: %w", key, err)
		}
		out[layer] = effects
	}
	return out, nil
}

// ClearColor returns the parsed render.clear_color.
func (c *Config) ClearColor() (glr.Color, error) {
	return glr.ParseWeb(c.Render.ClearColor)
}

// FilterMode returns the parsed render.filter.
func (c *Config) FilterMode() (glr.FilterMode, error) {
	return glr.ParseFilterMode(c.Render.Filter)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return os.ExpandEnv(path)
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("render.width", cfg.Render.Width)
	v.SetDefault("render.height", cfg.Render.Height)
	v.SetDefault("render.clear_color", cfg.Render.ClearColor)
	v.SetDefault("render.filter", cfg.Render.Filter)
	v.SetDefault("render.blending", cfg.Render.Blending)
	v.SetDefault("render.depth_test", cfg.Render.DepthTest)
	v.SetDefault("render.layers", cfg.Render.Layers)

	v.SetDefault("post.global", cfg.Post.Global)
	v.SetDefault("post.layers", cfg.Post.Layers)

	v.SetDefault("output", cfg.Output)

	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.console", cfg.Logging.Console)
}
