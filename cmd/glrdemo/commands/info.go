package commands

import (
	"fmt"
	"io"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/spf13/cobra"

	"github.com/gmlewis/glrender/glr"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the OpenGL driver strings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		dev, done, err := openContext(1, 1)
		if err != nil {
			return err
		}
		defer done()
		printInfo(cmd.OutOrStdout(), dev)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printInfo(w io.Writer, dev glr.Device) {
	for _, s := range []struct {
		label string
		name  uint32
	}{
		{"Vendor", gl.VENDOR},
		{"Renderer", gl.RENDERER},
		{"Version", gl.VERSION},
		{"GLSL", gl.SHADING_LANGUAGE_VERSION},
	} {
		fmt.Fprintf(w, "%-9s %v\n", s.label+":", dev.GetString(s.name))
	}
}
