package config

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"

	apperrors "github.com/tessro/soundscape/internal/errors"
)

const header = "# soundscape configuration\n\n"

type kind int

const (
	kindString kind = iota
	kindInt
	kindBool
)

// settable lists the keys `config set` accepts.
var settable = map[string]kind{
	"server.url":           kindString,
	"server.username":      kindString,
	"server.password":      kindString,
	"server.timeout":       kindInt,
	"defaults.device":      kindString,
	"defaults.playlist":    kindString,
	"poll.interval":        kindInt,
	"poll.resync_interval": kindInt,
	"tail.interval":        kindInt,
	"tail.no_emoji":        kindBool,
	"tail.timestamp":       kindBool,
	"tail.format":          kindString,
	"tui.theme":            kindString,
	"tui.hide_help":        kindBool,
	"log.level":            kindString,
	"log.output":           kindString,
	"log.file":             kindString,
}

// Keys returns the keys Set accepts, sorted.
func Keys() []string {
	keys := make([]string, 0, len(settable))
	for k := range settable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Init writes a config file with default values. It fails if path exists.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	var buf bytes.Buffer
	buf.WriteString(header)
	enc := toml.NewEncoder(&buf)
	enc.Indent = "  "
	if err := enc.Encode(Default()); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	return writeFile(path, buf.Bytes())
}

// Set updates one "section.key" in the file at path. The file must exist,
// and the result must still validate; otherwise the file is left untouched.
func Set(path, key, value string) error {
	k, ok := settable[key]
	if !ok {
		return errors.WithHint(
			errors.Newf("unknown config key %q", key),
			"supported keys: "+strings.Join(Keys(), ", "),
		)
	}

	typed, err := convert(k, key, value)
	if err != nil {
		return err
	}

	orig, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Mark(
				errors.Newf("config file not found at %s", path),
				apperrors.ErrConfigNotFound,
			)
		}
		return errors.Wrap(err, "failed to read config")
	}

	raw := map[string]any{}
	if _, err := toml.Decode(string(orig), &raw); err != nil {
		return errors.Wrapf(err, "failed to parse %s", path)
	}

	section, field, _ := strings.Cut(key, ".")
	sectionMap, ok := raw[section].(map[string]any)
	if !ok {
		sectionMap = map[string]any{}
		raw[section] = sectionMap
	}
	sectionMap[field] = typed

	var buf bytes.Buffer
	buf.WriteString(header)
	enc := toml.NewEncoder(&buf)
	enc.Indent = "  "
	if err := enc.Encode(raw); err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return err
	}
	cfg, err := LoadFrom(path)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		_ = writeFile(path, orig)
		return err
	}
	return nil
}

// SetDevice records the default device.
func SetDevice(path, did string) error {
	return Set(path, "defaults.device", did)
}

func convert(k kind, key, value string) (any, error) {
	switch k {
	case kindInt:
		i, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, errors.Newf("value must be an integer for %s", key)
		}
		return i, nil
	case kindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, errors.Newf("value must be true or false for %s", key)
		}
		return b, nil
	default:
		return value, nil
	}
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
