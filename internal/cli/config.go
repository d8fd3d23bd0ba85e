package cli

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/config"
	apperrors "github.com/tessro/soundscape/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the local config file",
	Long:  `View and change ~/.soundscaperc (or the file given with --config).`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long:  `Display the configuration in effect, after defaults and environment overrides.`,
	RunE:  runConfigShow,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Long:  `Open the config file in $EDITOR and validate it afterwards.`,
	RunE:  runConfigEdit,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with defaults",
	Long:  `Write a config file populated with default values. Fails if one exists.`,
	// Skips config loading: the file may not exist yet.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE:              runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one config key",
	Long: `Change one key in the config file, keeping the rest.

Supported keys:
  ` + strings.Join(config.Keys(), "\n  ") + `

Examples:
  soundscape config set server.url http://192.168.1.20:8090
  soundscape config set defaults.device Kitchen
  soundscape config set tui.theme dark`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configSetDeviceCmd = &cobra.Command{
	Use:   "set-device",
	Short: "Pick the default speaker",
	Long:  `Same as "soundscape devices select".`,
	Args:  cobra.NoArgs,
	RunE:  runDevicesSelect,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetDeviceCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(cfg)
	}

	enc := toml.NewEncoder(os.Stdout)
	enc.Indent = "  "
	return errors.Wrap(enc.Encode(cfg), "encoding config")
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	path := getConfigPath()
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return errors.Mark(errors.Newf("no config file at %s", path), apperrors.ErrConfigNotFound)
	}

	editor, err := findEditor()
	if err != nil {
		return err
	}
	run := exec.CommandContext(cmd.Context(), editor, path)
	run.Stdin, run.Stdout, run.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := run.Run(); err != nil {
		return errors.Wrapf(err, "running %s", editor)
	}

	edited, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	if err := edited.Validate(); err != nil {
		return errors.Mark(err, apperrors.ErrInvalidConfig)
	}
	return nil
}

// findEditor prefers $EDITOR, then $VISUAL, then the first common editor on PATH.
func findEditor() (string, error) {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if e := os.Getenv(env); e != "" {
			return e, nil
		}
	}
	for _, e := range []string{"nano", "vim", "vi", "notepad"} {
		if _, err := exec.LookPath(e); err == nil {
			return e, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := getConfigPath()
	if err := config.Init(configPath); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "created",
			"path":   configPath,
		})
	}

	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Set the server address: soundscape config set server.url http://<host>:<port>")
	fmt.Println("  2. Pick a default speaker: soundscape devices select")
	return nil
}

// getConfigPath is --config, the config file in use, or the default path.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if path := config.FindConfigFile(); path != "" {
		return path
	}
	return config.DefaultPath()
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	if err := config.Set(getConfigPath(), key, value); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]string{
			"status": "updated",
			"key":    key,
			"value":  value,
		})
	}
	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}
