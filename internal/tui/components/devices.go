package components

import (
	"github.com/tessro/soundscape/internal/core"
	"github.com/tessro/soundscape/internal/tui/styles"
)

// Devices displays the backend's devices
type Devices struct {
	List
}

// NewDevices creates a new Devices component
func NewDevices() *Devices {
	return &Devices{}
}

// Device returns the highlighted device.
func (d *Devices) Device(devices []core.Device) (core.Device, bool) {
	if i := d.Selected(); i < len(devices) {
		return devices[i], true
	}
	return core.Device{}, false
}

// Render renders the devices panel. selected is the active did and
// defaultID the configured default.
func (d *Devices) Render(devices []core.Device, selected, defaultID string, width, height int, focused bool) string {
	rows := make([]Row, len(devices))
	for i, dev := range devices {
		marker := ""
		if dev.DID == selected {
			marker = styles.Playing.Render("●")
		}
		if dev.DID == defaultID {
			marker += styles.Dim.Render("★")
		}
		rows[i] = Row{Text: dev.Label(), Marker: marker, Active: dev.DID == selected}
	}
	body := d.renderRows(rows, width-4, height-4, focused)
	return panel("Devices", body, "No devices found", width, height, focused)
}
