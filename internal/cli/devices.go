package cli

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/tessro/soundscape/internal/config"
	"github.com/tessro/soundscape/internal/core"
	apperrors "github.com/tessro/soundscape/internal/errors"
	"github.com/tessro/soundscape/internal/wizard"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List playback devices",
	Long:  `Lists the speakers the server knows about, with their play mode.`,
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

var devicesSelectCmd = &cobra.Command{
	Use:   "select [device]",
	Short: "Choose the default device",
	Long: `Save the default device to the config file. Without an argument a
picker is shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDevicesSelect,
}

func init() {
	devicesCmd.AddCommand(devicesSelectCmd)
	rootCmd.AddCommand(devicesCmd)
}

type deviceJSON struct {
	DID      string `json:"did"`
	Name     string `json:"name"`
	Hardware string `json:"hardware,omitempty"`
	PlayMode string `json:"play_mode,omitempty"`
	PlayType *int   `json:"play_type,omitempty"`
	Selected bool   `json:"selected"`
}

func runDevices(cmd *cobra.Command, args []string) error {
	st, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	if JSONOutput() {
		out := make([]deviceJSON, 0, len(snap.Devices))
		for _, d := range snap.Devices {
			dj := deviceJSON{
				DID:      d.DID,
				Name:     d.Name,
				Hardware: d.Hardware,
				PlayType: d.PlayType,
				Selected: d.DID == snap.SelectedDevice,
			}
			if mode, ok := d.PlayMode(); ok {
				dj.PlayMode = mode.String()
			}
			out = append(out, dj)
		}
		return printJSON(out)
	}

	if len(snap.Devices) == 0 {
		fmt.Println("No devices found")
		return nil
	}

	table := NewTable("", "DID", "NAME", "HARDWARE", "PLAY MODE")
	for _, d := range snap.Devices {
		mode := "-"
		if m, ok := d.PlayMode(); ok {
			mode = m.Label()
		}
		table.Row(StatusIcon(d.DID == snap.SelectedDevice), d.DID, d.Name, d.Hardware, mode)
	}
	table.Flush()

	if Verbose() {
		fmt.Printf("\n%d devices on %s\n", len(snap.Devices), cfg.Server.URL)
	}
	return nil
}

func runDevicesSelect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	st, err := connect(ctx)
	if err != nil {
		return err
	}
	snap := st.Snapshot()

	var did string
	if len(args) == 1 {
		d, ok := core.FindDevice(snap.Devices, args[0])
		if !ok {
			return errors.Mark(errors.Newf("device %q not found", args[0]), apperrors.ErrDeviceNotFound)
		}
		did = d.DID
	} else {
		did, err = wizard.RunDevicePicker(snap.Devices, snap.SelectedDevice)
		if err != nil {
			return err
		}
	}

	return saveDefaultDevice(snap.Devices, did)
}

func saveDefaultDevice(devices []core.Device, did string) error {
	path := getConfigPath()
	if err := config.SetDevice(path, did); err != nil {
		return err
	}

	name := did
	if d, ok := core.FindDevice(devices, did); ok {
		name = d.Label()
	}
	if JSONOutput() {
		return printJSON(map[string]string{"status": "updated", "device": did, "name": name, "path": path})
	}
	fmt.Printf("Default device: %s (%s)\n", name, did)
	return nil
}
