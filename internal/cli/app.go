package cli

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/tessro/soundscape/internal/api"
	apperrors "github.com/tessro/soundscape/internal/errors"
	"github.com/tessro/soundscape/internal/player"
	"github.com/tessro/soundscape/internal/store"
	"github.com/tessro/soundscape/internal/wizard"
)

// newClient builds the HTTP client from the [server] section.
func newClient() (*api.Client, error) {
	opts := []api.Option{
		api.WithBasicAuth(cfg.Server.Username, cfg.Server.Password),
		api.WithLogger(zlog.Logger),
	}
	if cfg.Server.Timeout > 0 {
		opts = append(opts, api.WithTimeout(time.Duration(cfg.Server.Timeout)*time.Second))
	}
	return api.New(cfg.Server.URL, opts...)
}

func newPlayer() (*player.Player, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}
	return player.New(client), nil
}

// requestedDevice is --device, falling back to defaults.device.
func requestedDevice() string {
	if deviceFlag != "" {
		return deviceFlag
	}
	return cfg.Defaults.Device
}

func newStore() (*store.Store, error) {
	p, err := newPlayer()
	if err != nil {
		return nil, err
	}
	return store.New(p, store.WithDevice(requestedDevice()), store.WithLogger(zlog.Logger)), nil
}

// connect builds a store and loads the device list.
func connect(ctx context.Context) (*store.Store, error) {
	st, err := newStore()
	if err != nil {
		return nil, err
	}
	if err := st.LoadDevices(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// connectDevice is connect plus a resolved device. With nothing requested
// and several devices on a terminal, the user picks one.
func connectDevice(ctx context.Context) (*store.Store, error) {
	st, err := connect(ctx)
	if err != nil {
		return nil, err
	}

	snap := st.Snapshot()
	if wizard.NeedsDevice(requestedDevice(), snap.Devices) {
		ia := wizard.NewInteractive()
		ia.SetEnabled(!JSONOutput())
		ia.SetDevices(snap.Devices, snap.SelectedDevice)
		did, err := ia.PromptDevice()
		if err != nil {
			return nil, err
		}
		if did != "" && did != snap.SelectedDevice {
			if err := st.SetDevice(ctx, did); err != nil {
				return nil, err
			}
			snap = st.Snapshot()
		}
	}

	if snap.MissingDevice != "" {
		return nil, errors.Mark(errors.Newf("device %q not found", snap.MissingDevice), apperrors.ErrDeviceNotFound)
	}
	if !snap.HasDevice() {
		return nil, apperrors.ErrNoDevice
	}
	if _, ok := snap.Device(); !ok {
		return nil, errors.Mark(errors.Newf("device %q not found", snap.SelectedDevice), apperrors.ErrDeviceNotFound)
	}
	return st, nil
}
