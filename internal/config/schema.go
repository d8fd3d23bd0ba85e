package config

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `toml:"server" json:"server"`
	Defaults DefaultsConfig `toml:"defaults" json:"defaults"`
	Poll     PollConfig     `toml:"poll" json:"poll"`
	Tail     TailConfig     `toml:"tail" json:"tail"`
	TUI      TUIConfig      `toml:"tui" json:"tui"`
	Log      LogConfig      `toml:"log" json:"log"`
}

// ServerConfig holds the backend connection settings.
type ServerConfig struct {
	URL      string `toml:"url" json:"url" default:"http://192.168.110.56:8090" validate:"required,url"`
	Username string `toml:"username" json:"username,omitempty"`
	Password string `toml:"password" json:"-"`

	// Timeout is in seconds. Zero leaves requests without a client-side limit.
	Timeout int `toml:"timeout" json:"timeout" validate:"gte=0"`
}

// DefaultsConfig holds what to select when nothing is given on the command line.
type DefaultsConfig struct {
	Device   string `toml:"device" json:"device,omitempty"`
	Playlist string `toml:"playlist" json:"playlist,omitempty"`
}

// PollConfig holds the playback poll and background resync settings.
type PollConfig struct {
	// Interval is in milliseconds.
	Interval int `toml:"interval" json:"interval" default:"1000" validate:"gte=100"`
	// ResyncInterval is in seconds.
	ResyncInterval int `toml:"resync_interval" json:"resync_interval" default:"30" validate:"gte=0"`
}

// TailConfig holds settings for tail/follow mode.
type TailConfig struct {
	Interval  int    `toml:"interval" json:"interval" default:"1000" validate:"gte=100"`
	NoEmoji   bool   `toml:"no_emoji" json:"no_emoji"`
	Timestamp bool   `toml:"timestamp" json:"timestamp"`
	Format    string `toml:"format" json:"format,omitempty"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme    string `toml:"theme" json:"theme" default:"auto" validate:"oneof=auto dark light"`
	HideHelp bool   `toml:"hide_help" json:"hide_help"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `toml:"level" json:"level" default:"info" validate:"oneof=debug info warn error"`
	Output string `toml:"output" json:"output" default:"stderr" validate:"oneof=stderr stdout file"`
	File   string `toml:"file" json:"file,omitempty" validate:"required_if=Output file"`
}
