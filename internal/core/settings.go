package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/mitchellh/mapstructure"
)

// Settings is the backend's free-form configuration object.
type Settings map[string]any

// Clone returns a shallow copy.
func (s Settings) Clone() Settings {
	if s == nil {
		return nil
	}
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Keys returns the setting keys in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders a single value for display.
func (s Settings) String(key string) string {
	v, ok := s[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

// Set stores value under key, keeping the type of any existing value where
// the text can be parsed as that type.
func (s Settings) Set(key, value string) {
	switch s[key].(type) {
	case bool:
		if b, err := strconv.ParseBool(value); err == nil {
			s[key] = b
			return
		}
	case float64:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			s[key] = f
			return
		}
	}
	s[key] = value
}

// SettingsForm is the typed view of the settings the client knows how to
// edit. Fields map to backend keys through their json tags.
type SettingsForm struct {
	// Account
	Account  string `json:"account"`
	Password string `json:"password"`

	// Paths
	MusicPath      string `json:"music_path"`
	DownloadPath   string `json:"download_path"`
	TempPath       string `json:"temp_path"`
	ConfPath       string `json:"conf_path"`
	CacheDir       string `json:"cache_dir"`
	LogFile        string `json:"log_file"`
	FFmpegLocation string `json:"ffmpeg_location"`

	// Network
	Hostname         string `json:"hostname"`
	Port             string `json:"port"`
	PublicPort       string `json:"public_port"`
	Proxy            string `json:"proxy"`
	DisableHTTPAuth  bool   `json:"disable_httpauth"`
	HTTPAuthUsername string `json:"httpauth_username"`
	HTTPAuthPassword string `json:"httpauth_password"`

	// Voice commands
	ActiveCmd               string `json:"active_cmd"`
	KeywordsPlayLocal       string `json:"keywords_playlocal"`
	KeywordsPlay            string `json:"keywords_play"`
	KeywordsPlaylist        string `json:"keywords_playlist"`
	KeywordsStop            string `json:"keywords_stop"`
	KeywordsSearchPlayLocal string `json:"keywords_search_playlocal"`
	KeywordsSearchPlay      string `json:"keywords_search_play"`
	EnableCmdDelMusic       bool   `json:"enable_cmd_del_music"`

	// Conversation pull
	EnablePullAsk bool   `json:"enable_pull_ask"`
	PullAskSec    string `json:"pull_ask_sec"`
	GetAskByMina  bool   `json:"get_ask_by_mina"`

	// TTS prompts
	StopTTSMsg        string `json:"stop_tts_msg"`
	PlayTypeOneTTSMsg string `json:"play_type_one_tts_msg"`
	PlayTypeAllTTSMsg string `json:"play_type_all_tts_msg"`
	PlayTypeRndTTSMsg string `json:"play_type_rnd_tts_msg"`
	PlayTypeSinTTSMsg string `json:"play_type_sin_tts_msg"`
	PlayTypeSeqTTSMsg string `json:"play_type_seq_tts_msg"`
}

// Form decodes the known keys into a SettingsForm. Numbers and booleans
// sent as strings (and the reverse) are converted.
func (s Settings) Form() (SettingsForm, error) {
	var form SettingsForm
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &form,
	})
	if err != nil {
		return form, err
	}
	if err := dec.Decode(map[string]any(s)); err != nil {
		return form, fmt.Errorf("decode settings: %w", err)
	}
	return form, nil
}

// Merge returns a copy of s with the form's fields written back. Keys the
// form does not know about are preserved, and a field that was a number
// stays a number when its new text parses as one.
func (s Settings) Merge(form SettingsForm) (Settings, error) {
	var fields map[string]any
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &fields,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(form); err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}

	out := s.Clone()
	if out == nil {
		out = Settings{}
	}
	for key, v := range fields {
		if str, ok := v.(string); ok {
			if _, wasNum := out[key].(float64); wasNum {
				if f, err := strconv.ParseFloat(str, 64); err == nil {
					out[key] = f
					continue
				}
			}
		}
		out[key] = v
	}
	return out, nil
}
