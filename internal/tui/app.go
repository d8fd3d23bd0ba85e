// Package tui is the interactive dashboard.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/go-co-op/gocron"
	zlog "github.com/rs/zerolog/log"

	"github.com/tessro/soundscape/internal/config"
	"github.com/tessro/soundscape/internal/player"
	"github.com/tessro/soundscape/internal/poll"
	"github.com/tessro/soundscape/internal/store"
	"github.com/tessro/soundscape/internal/tui/components"
	"github.com/tessro/soundscape/internal/tui/styles"
)

// Panel represents which panel is focused
type Panel int

const (
	PanelNowPlaying Panel = iota
	PanelPlaylists
	PanelTracks
	PanelDevices

	panelCount = 4
)

const (
	volumeStep    = 5
	volumeSettle  = 400 * time.Millisecond
	noticeTTL     = 4 * time.Second
	actionTimeout = 10 * time.Second
)

// Options configures the dashboard.
type Options struct {
	Theme           string
	HideHelp        bool
	PollInterval    time.Duration
	ResyncInterval  time.Duration
	DefaultDevice   string
	DefaultPlaylist string
	// ConfigPath is where `d` records the default device. Empty disables it.
	ConfigPath string
}

// Model is the main TUI model
type Model struct {
	store   *store.Store
	opts    Options
	changes <-chan struct{}
	now     func() time.Time

	st      store.State
	width   int
	height  int
	focused Panel

	keys     keyMap
	help     help.Model
	showHelp bool

	nowPlaying *components.NowPlaying
	playlists  *components.Playlists
	tracks     *components.Tracks
	devices    *components.Devices

	searching   bool
	searchInput textinput.Model
	searchTerm  string

	playlistsVersion uint64
	volumeSeq        int

	flash   string
	flashAt time.Time

	quitting bool
}

// NewModel creates a dashboard over st. Every store change must be signalled
// on changes.
func NewModel(st *store.Store, changes <-chan struct{}, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "Search tracks..."
	ti.CharLimit = 100
	ti.Width = 40

	return Model{
		store:       st,
		opts:        opts,
		changes:     changes,
		now:         time.Now,
		st:          st.Snapshot(),
		focused:     PanelPlaylists,
		keys:        defaultKeyMap(),
		help:        help.New(),
		nowPlaying:  components.NewNowPlaying(),
		playlists:   components.NewPlaylists(),
		tracks:      components.NewTracks(),
		devices:     components.NewDevices(),
		searchInput: ti,
	}
}

// Messages
type stateChangedMsg struct{}
type tickMsg time.Time
type volumeSettleMsg struct{ seq, level int }
type flashMsg string
type defaultDeviceSetMsg string

// listen waits for the next store change.
func (m Model) listen() tea.Cmd {
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// run executes a store action off the UI goroutine. Failures are already
// routed to the banner or notices by the store.
func (m Model) run(action func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		if err := action(ctx); err != nil {
			zlog.Debug().Err(err).Msg("dashboard action failed")
		}
		return nil
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.listen(),
		m.tick(),
		m.run(m.store.Bootstrap),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateChangedMsg:
		m.applyState()
		return m, m.listen()

	case tickMsg:
		m.store.ExpireNotices(noticeTTL)
		if m.flash != "" && m.now().Sub(m.flashAt) > noticeTTL {
			m.flash = ""
		}
		return m, m.tick()

	case volumeSettleMsg:
		if msg.seq != m.volumeSeq {
			return m, nil
		}
		level := msg.level
		return m, m.run(func(ctx context.Context) error {
			return m.store.SetVolumeEnd(ctx, level)
		})

	case flashMsg:
		m.flash = string(msg)
		m.flashAt = m.now()
		return m, nil

	case defaultDeviceSetMsg:
		m.opts.DefaultDevice = string(msg)
		m.flash = "Default device saved"
		m.flashAt = m.now()
		return m, nil
	}

	if m.searching {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyState takes a fresh snapshot. When the playlist collection changed,
// the configured default playlist (or else the last one) is selected.
func (m *Model) applyState() {
	m.st = m.store.Snapshot()

	if m.st.PlaylistsVersion == m.playlistsVersion || m.st.Playlists.Len() == 0 {
		return
	}
	m.playlistsVersion = m.st.PlaylistsVersion

	name := m.startupPlaylist()
	if name == "" {
		return
	}
	if name != m.st.SelectedPlaylist {
		m.store.SetPlaylist(name)
		m.st = m.store.Snapshot()
	}
	m.playlists.Focus(m.st.Playlists, name)
	m.tracks.Reset()
}

func (m Model) startupPlaylist() string {
	if m.opts.DefaultPlaylist != "" {
		if name, ok := m.st.Playlists.Find(m.opts.DefaultPlaylist); ok {
			return name
		}
	}
	name, _ := m.st.Playlists.Last()
	return name
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Cancel) {
			m.showHelp = false
		}
		return m, nil
	}

	if m.searching {
		return m.handleSearchKeyPress(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.focused = (m.focused + 1) % panelCount
		return m, nil

	case key.Matches(msg, m.keys.ShiftTab):
		m.focused = (m.focused + panelCount - 1) % panelCount
		return m, nil

	case key.Matches(msg, m.keys.Dismiss):
		m.store.ClearError()
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		return m, m.run(m.store.TogglePlayPause)

	case key.Matches(msg, m.keys.Next):
		return m, m.run(m.store.PlayNext)

	case key.Matches(msg, m.keys.Prev):
		return m, m.run(m.store.PlayPrevious)

	case key.Matches(msg, m.keys.VolumeUp):
		return m.nudgeVolume(volumeStep)

	case key.Matches(msg, m.keys.VolumeDown):
		return m.nudgeVolume(-volumeStep)

	case key.Matches(msg, m.keys.Shuffle):
		return m, m.run(m.store.ToggleShuffle)

	case key.Matches(msg, m.keys.Loop):
		return m, m.run(m.store.ToggleLoop)

	case key.Matches(msg, m.keys.Mode):
		return m, m.run(m.store.CyclePlayMode)

	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchInput.SetValue(m.searchTerm)
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		m.searchTerm = ""
		return m, m.run(m.store.RefreshMusicList)

	case key.Matches(msg, m.keys.Info):
		return m, m.run(func(ctx context.Context) error {
			_, err := m.store.LoadMusicInfo(ctx, "")
			return err
		})

	case key.Matches(msg, m.keys.Copy):
		return m, m.copyURL()

	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.Top):
		m.move(-1 << 30)
	case key.Matches(msg, m.keys.Bottom):
		m.move(1 << 30)

	case key.Matches(msg, m.keys.Select):
		return m.activate()

	case key.Matches(msg, m.keys.Default):
		if m.focused == PanelDevices {
			return m, m.saveDefaultDevice()
		}
	}

	return m, nil
}

func (m Model) handleSearchKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.searching = false
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()
		term := strings.TrimSpace(m.searchInput.Value())
		m.searchTerm = term
		if term == "" {
			return m, m.run(func(ctx context.Context) error {
				return m.store.SearchChanged(ctx, "")
			})
		}
		m.tracks.Reset()
		m.focused = PanelTracks
		return m, m.run(func(ctx context.Context) error {
			_, err := m.store.SubmitSearch(ctx, term)
			return err
		})
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// nudgeVolume shows the new level at once and commits it once presses
// have settled.
func (m Model) nudgeVolume(delta int) (tea.Model, tea.Cmd) {
	level := player.ClampVolume(m.st.Volume + delta)
	if err := m.store.SetVolume(level); err != nil {
		return m, nil
	}
	m.st = m.store.Snapshot()

	m.volumeSeq++
	seq := m.volumeSeq
	return m, tea.Tick(volumeSettle, func(time.Time) tea.Msg {
		return volumeSettleMsg{seq: seq, level: level}
	})
}

func (m *Model) move(delta int) {
	switch m.focused {
	case PanelPlaylists:
		m.playlists.Move(delta, m.st.Playlists.Len())
	case PanelTracks:
		m.tracks.Move(delta, len(m.st.MusicList))
	case PanelDevices:
		m.devices.Move(delta, len(m.st.Devices))
	}
}

// activate handles enter on the focused panel.
func (m Model) activate() (tea.Model, tea.Cmd) {
	switch m.focused {
	case PanelNowPlaying:
		return m, m.run(m.store.TogglePlayPause)

	case PanelPlaylists:
		name := m.playlists.Name(m.st.Playlists)
		if name == "" {
			return m, nil
		}
		m.store.SetPlaylist(name)
		m.st = m.store.Snapshot()
		m.searchTerm = ""
		m.tracks.Reset()
		m.focused = PanelTracks
		return m, nil

	case PanelTracks:
		track := m.tracks.Name(m.st.MusicList)
		if track == "" {
			return m, nil
		}
		playlist := m.st.SelectedPlaylist
		if playlist == "" {
			playlist, _, _ = m.st.Playlists.DefaultList()
		}
		return m, m.run(func(ctx context.Context) error {
			return m.store.PlayMusicFromPlaylist(ctx, playlist, track)
		})

	case PanelDevices:
		dev, ok := m.devices.Device(m.st.Devices)
		if !ok {
			return m, nil
		}
		return m, m.run(func(ctx context.Context) error {
			if err := m.store.SetDevice(ctx, dev.DID); err != nil {
				return err
			}
			_ = m.store.LoadVolume(ctx)
			return m.store.LoadCurrentMusic(ctx)
		})
	}
	return m, nil
}

func (m Model) copyURL() tea.Cmd {
	st := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()

		info, err := st.LoadMusicInfo(ctx, "")
		if err != nil {
			return nil
		}
		if info.URL == "" {
			return flashMsg("No URL for " + info.Name)
		}
		if err := clipboard.WriteAll(info.URL); err != nil {
			st.SetError("Failed to copy: " + err.Error())
			return nil
		}
		return flashMsg("Copied " + info.URL)
	}
}

func (m Model) saveDefaultDevice() tea.Cmd {
	dev, ok := m.devices.Device(m.st.Devices)
	if !ok {
		return nil
	}
	path := m.opts.ConfigPath
	st := m.store
	return func() tea.Msg {
		if path == "" {
			return flashMsg("No config file; run `soundscape config init`")
		}
		if err := config.SetDevice(path, dev.DID); err != nil {
			st.SetError("Failed to save default device: " + err.Error())
			return nil
		}
		return defaultDeviceSetMsg(dev.DID)
	}
}

// View renders the UI
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var top []string
	if m.st.Error != "" {
		top = append(top, styles.Banner.Width(m.width).Render("⚠ "+m.st.Error+"  (x to dismiss)"))
	}
	if m.searching {
		top = append(top, lipgloss.NewStyle().Padding(0, 1).Render(m.searchInput.View()))
	}
	status := m.renderStatusBar()

	avail := m.height - len(top) - lipgloss.Height(status)
	topHeight := avail * 45 / 100
	bottomHeight := avail - topHeight

	leftWidth := m.width * 60 / 100
	rightWidth := m.width - leftWidth

	tracksTitle := m.st.SelectedPlaylist
	if m.searchTerm != "" {
		tracksTitle = "Search: " + m.searchTerm
	}

	nowPlaying := m.nowPlaying.Render(m.st, leftWidth-2, topHeight-2, m.focused == PanelNowPlaying)
	tracks := m.tracks.Render(m.st.MusicList, m.st.TrackName(), tracksTitle, leftWidth-2, bottomHeight-2, m.focused == PanelTracks)
	devices := m.devices.Render(m.st.Devices, m.st.SelectedDevice, m.opts.DefaultDevice, rightWidth-2, topHeight-2, m.focused == PanelDevices)
	playlists := m.playlists.Render(m.st.Playlists, m.st.SelectedPlaylist, rightWidth-2, bottomHeight-2, m.focused == PanelPlaylists)

	leftCol := lipgloss.JoinVertical(lipgloss.Left, nowPlaying, tracks)
	rightCol := lipgloss.JoinVertical(lipgloss.Left, devices, playlists)
	main := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, rightCol)

	rows := append(top, main, status)
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m Model) renderStatusBar() string {
	var left string
	switch {
	case len(m.st.Notices) > 0:
		n := m.st.Notices[len(m.st.Notices)-1]
		if n.Success {
			left = styles.Playing.Render(n.Message)
		} else {
			left = styles.Notice.Render(n.Message)
		}
	case m.flash != "":
		left = styles.Notice.Render(m.flash)
	case !m.opts.HideHelp:
		left = m.help.ShortHelpView(m.keys.ShortHelp())
	}

	var right string
	if m.st.Loading {
		right = styles.Dim.Render("working… ")
	}
	if !m.st.UpdatedAt.IsZero() {
		right += styles.Dim.Render("updated " + humanize.Time(m.st.UpdatedAt))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderHelp() string {
	h := m.help
	h.ShowAll = true

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.Highlight.Render("soundscape - Keyboard Shortcuts"),
		"",
		h.View(m.keys),
		"",
		styles.Dim.Render("Press ? or Esc to close"),
	)

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(styles.FocusedBorder.Padding(1, 2).Render(content))
}

// Run starts the dashboard and blocks until it exits. It owns the poll
// supervisor and the background resync job for its lifetime.
func Run(ctx context.Context, st *store.Store, opts Options) error {
	styles.SetTheme(opts.Theme)

	poller := supervise(st, opts.PollInterval)
	defer poller.Close()
	defer st.SetHooks(store.Hooks{})

	changes := make(chan struct{}, 1)
	unsubscribe := st.Subscribe(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	if opts.ResyncInterval > 0 {
		sched, err := startResync(st, opts.ResyncInterval)
		if err != nil {
			return err
		}
		defer sched.Stop()
	}

	p := tea.NewProgram(NewModel(st, changes, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// startResync reloads devices and volume every interval so changes made
// elsewhere show up.
// supervise hooks a poll supervisor to st. Playback starting arms it. A device
// change disarms it; the store resets playback on a change, so the new
// device's first playing reply arms it again.
func supervise(st *store.Store, interval time.Duration) *poll.Supervisor {
	poller := poll.New(st, interval)
	st.SetHooks(store.Hooks{
		PlayStarted:   poller.Arm,
		DeviceChanged: func(string) { poller.Disarm() },
	})
	return poller
}

func startResync(st *store.Store, interval time.Duration) (*gocron.Scheduler, error) {
	sched := gocron.NewScheduler(time.Local)
	_, err := sched.Every(interval).WaitForSchedule().SingletonMode().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		_ = st.LoadDevices(ctx)
		_ = st.LoadVolume(ctx)
		// Picks up playback after the resync changed the device.
		_ = st.LoadCurrentMusic(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to schedule resync")
	}
	sched.StartAsync()
	return sched, nil
}
