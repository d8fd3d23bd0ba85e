package core

import (
	"encoding/json"
	"strings"
)

// Device represents a speaker the backend can drive.
type Device struct {
	DID      string `json:"did"`
	Name     string `json:"name"`
	Hardware string `json:"hardware,omitempty"`

	// PlayType is the backend's numeric play-mode index. Nil when the
	// backend did not report one.
	PlayType *int `json:"play_type,omitempty"`

	// Raw keeps every field the backend sent for this device.
	Raw map[string]any `json:"-"`
}

// PlayMode returns the device's play mode and whether the backend reported one.
func (d Device) PlayMode() (PlayMode, bool) {
	if d.PlayType == nil {
		return PlayModeSequential, false
	}
	return ModeFromIndex(*d.PlayType), true
}

// Label returns a human-readable label for pickers and tables.
func (d Device) Label() string {
	if d.Name == "" {
		return d.DID
	}
	return d.Name
}

// UnmarshalJSON decodes a device_list entry. The backend names the device
// id miotDID; it is normalized into DID.
func (d *Device) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = Device{Raw: raw}
	if v, ok := raw["miotDID"]; ok {
		d.DID = stringValue(v)
	}
	if d.DID == "" {
		d.DID = stringValue(raw["did"])
	}
	d.Name = stringValue(raw["name"])
	d.Hardware = stringValue(raw["hardware"])

	// play_type arrives as a JSON number; anything else is ignored.
	if v, ok := raw["play_type"].(float64); ok {
		i := int(v)
		d.PlayType = &i
	}
	return nil
}

// FindDevice returns the device whose DID or name matches id.
func FindDevice(devices []Device, id string) (Device, bool) {
	for _, d := range devices {
		if d.DID == id {
			return d, true
		}
	}
	for _, d := range devices {
		if FoldEqual(d.Name, id) {
			return d, true
		}
	}
	return Device{}, false
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		b, _ := json.Marshal(s)
		return string(b)
	default:
		return ""
	}
}
