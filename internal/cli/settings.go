package cli

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/core"
	"github.com/tessro/soundscape/internal/wizard"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change server settings",
	Long:  `Commands for the music server's own configuration.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show server settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one server setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one server setting",
	Long: `Change one server setting and save the whole settings object.

A value replacing a boolean or a number is converted when it parses as one.

Examples:
  soundscape settings set hostname 192.168.1.20
  soundscape settings set enable_pull_ask true`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit server settings in a form",
	Args:  cobra.NoArgs,
	RunE:  runSettingsEdit,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsEditCmd)
	rootCmd.AddCommand(settingsCmd)
}

func isSecret(key string) bool {
	return strings.Contains(key, "password")
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	st, err := newStore()
	if err != nil {
		return err
	}
	settings, err := st.LoadSettings(cmd.Context())
	if err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(settings)
	}

	table := NewTable("KEY", "VALUE")
	for _, k := range settings.Keys() {
		v := settings.String(k)
		if isSecret(k) && v != "" && !Verbose() {
			v = "********"
		}
		table.Row(k, TruncateString(v, 80))
	}
	table.Flush()
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	st, err := newStore()
	if err != nil {
		return err
	}
	settings, err := st.LoadSettings(cmd.Context())
	if err != nil {
		return err
	}

	key := args[0]
	v, ok := settings[key]
	if !ok {
		return errors.Newf("unknown setting %q", key)
	}
	if JSONOutput() {
		return printJSON(map[string]any{key: v})
	}
	fmt.Println(settings.String(key))
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := newStore()
	if err != nil {
		return err
	}
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	updated := settings.Clone()
	if updated == nil {
		updated = core.Settings{}
	}
	updated.Set(key, value)
	if err := st.SaveSettings(ctx, updated); err != nil {
		return err
	}

	if JSONOutput() {
		return printJSON(map[string]any{"status": "updated", "key": key, "value": updated[key]})
	}
	fmt.Printf("Set %s = %s\n", key, updated.String(key))
	return nil
}

func runSettingsEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if !wizard.IsTerminal() {
		return errors.New("settings edit needs a terminal; use 'soundscape settings set'")
	}

	st, err := newStore()
	if err != nil {
		return err
	}
	settings, err := st.LoadSettings(ctx)
	if err != nil {
		return err
	}

	updated, err := wizard.EditSettings(settings)
	if err != nil {
		return err
	}
	if err := st.SaveSettings(ctx, updated); err != nil {
		return err
	}
	fmt.Println("✓ Settings saved")
	return nil
}
