package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gmlewis/glrender/config"
	"github.com/gmlewis/glrender/logging"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "glrdemo",
	Short: "Render a test scene with the glr OpenGL renderer",
	Long: `glrdemo drives the glr renderer against a hidden OpenGL 4.6 window.

It draws one sprite layer per configured layer, runs the configured
post-processing effects per layer and over the whole frame, and writes
the presented back buffer to a PNG file.`,
	Version:      "0.1.0",
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./glrender.yaml or $HOME/.glrender/glrender.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// loadConfig reads the configuration and initializes logging from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	level := cfg.Logging.Level
	if viper.GetBool("verbose") {
		level = "debug"
	}
	if err := logging.Init(level, cfg.Logging.File, cfg.Logging.Console); err != nil {
		return nil, err
	}
	return cfg, nil
}
