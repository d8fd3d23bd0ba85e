package wizard

import (
	"os"

	"golang.org/x/term"

	"github.com/tessro/soundscape/internal/core"
)

// Interactive provides interactive fallback functionality.
type Interactive struct {
	enabled    bool
	searchFunc SearchFunc
	devices    []core.Device
	current    string
}

// NewInteractive creates a new interactive handler.
func NewInteractive() *Interactive {
	return &Interactive{
		enabled: true,
	}
}

// SetEnabled enables or disables interactive mode.
func (i *Interactive) SetEnabled(enabled bool) {
	i.enabled = enabled
}

// SetSearchFunc sets the search function for the search wizard.
func (i *Interactive) SetSearchFunc(fn SearchFunc) {
	i.searchFunc = fn
}

// SetDevices sets the available devices and the current one for the picker.
func (i *Interactive) SetDevices(devices []core.Device, current string) {
	i.devices = devices
	i.current = current
}

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// CanInteract returns true if interactive mode is available.
func (i *Interactive) CanInteract() bool {
	return i.enabled && IsTerminal()
}

// PromptSearch launches the search wizard if interactive mode is available.
// Returns the chosen track name, or "" if cancelled or not interactive.
func (i *Interactive) PromptSearch() (string, error) {
	if !i.CanInteract() || i.searchFunc == nil {
		return "", nil
	}
	return RunSearch(i.searchFunc)
}

// PromptDevice launches the device picker if interactive mode is available.
// Returns the chosen did, or "" if not interactive.
func (i *Interactive) PromptDevice() (string, error) {
	if !i.CanInteract() || len(i.devices) == 0 {
		return "", nil
	}
	return RunDevicePicker(i.devices, i.current)
}

// NeedsDevice reports whether the user has to pick a device: nothing was
// asked for and the choice is ambiguous.
func NeedsDevice(requested string, devices []core.Device) bool {
	if requested != "" {
		return false
	}
	return len(devices) > 1
}
