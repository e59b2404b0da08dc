package commands

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gmlewis/glrender/logging"
)

var outputPath string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the test scene offscreen and write it as PNG",
	Args:  cobra.NoArgs,
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output PNG file (overrides the config output)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if outputPath != "" {
		cfg.Output = outputPath
	}

	dev, done, err := openContext(int(cfg.Render.Width), int(cfg.Render.Height))
	if err != nil {
		return err
	}
	defer done()

	img, err := renderFrame(dev, cfg)
	if err != nil {
		return err
	}
	if err := writePNG(cfg.Output, img); err != nil {
		return err
	}
	logging.WithComponent("glrdemo").Infof("wrote %v", cfg.Output)
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %v (%vx%v)\n", cfg.Output, cfg.Render.Width, cfg.Render.Height)
	return nil
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("png.Encode(%v): %w", path, err)
	}
	return f.Close()
}
