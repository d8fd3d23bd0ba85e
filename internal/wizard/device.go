package wizard

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"

	"github.com/tessro/soundscape/internal/core"
)

// DeviceOptions builds picker options for devices. The current device is
// listed first and marked.
func DeviceOptions(devices []core.Device, current string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(devices))
	for _, d := range devices {
		label := d.Label()
		if d.Name != "" && d.Name != d.DID {
			label = fmt.Sprintf("%s (%s)", d.Name, d.DID)
		}
		if mode, ok := d.PlayMode(); ok {
			label += " · " + mode.Label()
		}
		if d.DID == current {
			label += " [current]"
			options = append([]huh.Option[string]{huh.NewOption(label, d.DID)}, options...)
			continue
		}
		options = append(options, huh.NewOption(label, d.DID))
	}
	return options
}

// RunDevicePicker asks the user to choose a device and returns its did.
func RunDevicePicker(devices []core.Device, current string) (string, error) {
	if len(devices) == 0 {
		return "", errors.New("no devices to choose from")
	}

	selected := current
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select default device").
				Description("Commands use this device when --device is not given").
				Options(DeviceOptions(devices, current)...).
				Value(&selected),
		),
	).WithTheme(huh.ThemeCatppuccin())

	if err := form.Run(); err != nil {
		return "", errors.Wrap(err, "selection cancelled")
	}
	return selected, nil
}
