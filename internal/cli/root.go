package cli

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/config"
	apperrors "github.com/tessro/soundscape/internal/errors"
	"github.com/tessro/soundscape/internal/logger"
)

var (
	cfgFile    string
	jsonOut    bool
	verbose    bool
	deviceFlag string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "soundscape",
	Short: "Control a networked music server from the command line",
	Long: `Soundscape drives a music server's speakers: browse playlists, play and
skip tracks, adjust volume and play mode, and follow playback live.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.soundscaperc)")
	rootCmd.PersistentFlags().BoolVarP(&jsonOut, "json", "j", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&deviceFlag, "device", "d", "", "target device (did or name)")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	if err := cfg.Validate(); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid config"), apperrors.ErrInvalidConfig)
	}

	logCfg := logger.Config{Output: cfg.Log.Output, Level: cfg.Log.Level, File: cfg.Log.File}
	if verbose {
		logCfg.Level = "debug"
	}
	return logger.Init(logCfg)
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, apperrors.Format(err))
		os.Exit(1)
	}
}

// Config returns the loaded configuration.
func Config() *config.Config {
	return cfg
}

// JSONOutput returns true if JSON output is requested.
func JSONOutput() bool {
	return jsonOut
}

// Verbose returns true if verbose output is requested.
func Verbose() bool {
	return verbose
}
