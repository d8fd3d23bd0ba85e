package wizard

import (
	"github.com/charmbracelet/huh"
	"github.com/cockroachdb/errors"

	"github.com/tessro/soundscape/internal/core"
)

// settingField binds one backend key to a form field. Exactly one of text
// and flag is set.
type settingField struct {
	key    string
	title  string
	text   *string
	flag   *bool
	secret bool
}

type settingSection struct {
	title  string
	fields []settingField
}

func settingSections(f *core.SettingsForm) []settingSection {
	return []settingSection{
		{"Account", []settingField{
			{key: "account", title: "Account", text: &f.Account},
			{key: "password", title: "Password", text: &f.Password, secret: true},
		}},
		{"Paths", []settingField{
			{key: "music_path", title: "Music directory", text: &f.MusicPath},
			{key: "download_path", title: "Download directory", text: &f.DownloadPath},
			{key: "temp_path", title: "Temp directory", text: &f.TempPath},
			{key: "conf_path", title: "Config directory", text: &f.ConfPath},
			{key: "cache_dir", title: "Cache directory", text: &f.CacheDir},
			{key: "log_file", title: "Log file", text: &f.LogFile},
			{key: "ffmpeg_location", title: "ffmpeg location", text: &f.FFmpegLocation},
		}},
		{"Network", []settingField{
			{key: "hostname", title: "Hostname", text: &f.Hostname},
			{key: "port", title: "Port", text: &f.Port},
			{key: "public_port", title: "Public port", text: &f.PublicPort},
			{key: "proxy", title: "Proxy", text: &f.Proxy},
			{key: "disable_httpauth", title: "Disable HTTP auth", flag: &f.DisableHTTPAuth},
			{key: "httpauth_username", title: "HTTP auth username", text: &f.HTTPAuthUsername},
			{key: "httpauth_password", title: "HTTP auth password", text: &f.HTTPAuthPassword, secret: true},
		}},
		{"Voice commands", []settingField{
			{key: "active_cmd", title: "Active commands", text: &f.ActiveCmd},
			{key: "keywords_playlocal", title: "Play local keywords", text: &f.KeywordsPlayLocal},
			{key: "keywords_play", title: "Play keywords", text: &f.KeywordsPlay},
			{key: "keywords_playlist", title: "Playlist keywords", text: &f.KeywordsPlaylist},
			{key: "keywords_stop", title: "Stop keywords", text: &f.KeywordsStop},
			{key: "keywords_search_playlocal", title: "Search local keywords", text: &f.KeywordsSearchPlayLocal},
			{key: "keywords_search_play", title: "Search keywords", text: &f.KeywordsSearchPlay},
			{key: "enable_cmd_del_music", title: "Allow deleting music by voice", flag: &f.EnableCmdDelMusic},
		}},
		{"Conversation pull", []settingField{
			{key: "enable_pull_ask", title: "Pull conversation", flag: &f.EnablePullAsk},
			{key: "pull_ask_sec", title: "Pull interval (seconds)", text: &f.PullAskSec},
			{key: "get_ask_by_mina", title: "Pull through Mina", flag: &f.GetAskByMina},
		}},
		{"Voice prompts", []settingField{
			{key: "stop_tts_msg", title: "Stop prompt", text: &f.StopTTSMsg},
			{key: "play_type_one_tts_msg", title: "Single loop prompt", text: &f.PlayTypeOneTTSMsg},
			{key: "play_type_all_tts_msg", title: "All loop prompt", text: &f.PlayTypeAllTTSMsg},
			{key: "play_type_rnd_tts_msg", title: "Random prompt", text: &f.PlayTypeRndTTSMsg},
			{key: "play_type_sin_tts_msg", title: "Single prompt", text: &f.PlayTypeSinTTSMsg},
			{key: "play_type_seq_tts_msg", title: "Sequential prompt", text: &f.PlayTypeSeqTTSMsg},
		}},
	}
}

func (s settingSection) group() *huh.Group {
	fields := make([]huh.Field, 0, len(s.fields))
	for _, f := range s.fields {
		if f.flag != nil {
			fields = append(fields, huh.NewConfirm().
				Key(f.key).
				Title(f.title).
				Value(f.flag))
			continue
		}
		input := huh.NewInput().
			Key(f.key).
			Title(f.title).
			Value(f.text)
		if f.secret {
			input = input.EchoMode(huh.EchoModePassword)
		}
		fields = append(fields, input)
	}
	return huh.NewGroup(fields...).Title(s.title)
}

// EditSettings shows the settings form, one page per section, and returns
// settings with the edits merged in. Keys the form does not cover are kept.
func EditSettings(settings core.Settings) (core.Settings, error) {
	form, err := settings.Form()
	if err != nil {
		return nil, err
	}

	sections := settingSections(&form)
	groups := make([]*huh.Group, len(sections))
	for i, s := range sections {
		groups[i] = s.group()
	}

	if err := huh.NewForm(groups...).WithTheme(huh.ThemeCatppuccin()).Run(); err != nil {
		return nil, errors.Wrap(err, "settings edit cancelled")
	}
	return settings.Merge(form)
}
