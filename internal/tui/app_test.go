package tui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/soundscape/internal/api"
	"github.com/tessro/soundscape/internal/player"
	"github.com/tessro/soundscape/internal/store"
)

// backend is a minimal HTTP backend with one device and two playlists.
type backend struct {
	mu    sync.Mutex
	calls []string
	posts map[string]map[string]any
}

func (b *backend) handle(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.calls = append(b.calls, r.URL.Path)
	var body map[string]any
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &body)
		b.posts[r.URL.Path] = body
	}
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/getsetting":
		_, _ = io.WriteString(w, `{"hostname":"10.0.0.2","device_list":[{"miotDID":"111","name":"Kitchen","play_type":0}]}`)
	case "/musiclist":
		_, _ = io.WriteString(w, `{"所有歌曲":["a.mp3","b.mp3","c.mp3"],"Rock":["c.mp3"]}`)
	case "/getvolume":
		_, _ = io.WriteString(w, `{"ret":"OK","volume":30}`)
	case "/setvolume":
		_ = json.NewEncoder(w).Encode(map[string]any{"ret": "OK", "volume": body["volume"]})
	case "/playingmusic":
		_, _ = io.WriteString(w, `{"ret":"OK","is_playing":false,"cur_music":"","cur_playlist":""}`)
	case "/searchmusic":
		_, _ = io.WriteString(w, `["b.mp3"]`)
	default:
		_, _ = io.WriteString(w, `{"ret":"OK"}`)
	}
}

func (b *backend) called(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == path {
			return true
		}
	}
	return false
}

func (b *backend) body(path string) map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.posts[path]
}

func newTestStore(t *testing.T) (*store.Store, *backend) {
	t.Helper()
	b := &backend{posts: map[string]map[string]any{}}
	server := httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(server.Close)

	client, err := api.New(server.URL, api.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	st := store.New(player.New(client), store.WithLogger(zerolog.Nop()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, st.Bootstrap(ctx))
	return st, b
}

func newTestModel(t *testing.T, opts Options) (Model, *store.Store, *backend) {
	t.Helper()
	st, b := newTestStore(t)
	m := NewModel(st, nil, opts)
	m = update(t, m, stateChangedMsg{})
	return m, st, b
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var enter = tea.KeyMsg{Type: tea.KeyEnter}

func TestStartupSelectsLastPlaylist(t *testing.T) {
	_, st, _ := newTestModel(t, Options{})

	snap := st.Snapshot()
	assert.Equal(t, "Rock", snap.SelectedPlaylist)
	assert.Equal(t, []string{"c.mp3"}, snap.MusicList.Names())
}

func TestStartupPrefersConfiguredPlaylist(t *testing.T) {
	_, st, _ := newTestModel(t, Options{DefaultPlaylist: "rock"})
	assert.Equal(t, "Rock", st.Snapshot().SelectedPlaylist, "matched case-insensitively")

	_, st, _ = newTestModel(t, Options{DefaultPlaylist: "所有歌曲"})
	assert.Equal(t, "所有歌曲", st.Snapshot().SelectedPlaylist)
}

func TestVolumeCommitsAfterSettle(t *testing.T) {
	m, st, b := newTestModel(t, Options{})

	m, cmd := press(t, m, runes("+"))
	require.NotNil(t, cmd)
	m, _ = press(t, m, runes("+"))

	snap := st.Snapshot()
	assert.Equal(t, 40, snap.Volume, "shown immediately")
	assert.True(t, snap.VolumePending)
	assert.False(t, b.called("/setvolume"), "nothing sent while pressing")

	_, cmd = m.Update(volumeSettleMsg{seq: 1, level: 35})
	assert.Nil(t, cmd, "superseded press does not commit")

	_, cmd = m.Update(volumeSettleMsg{seq: 2, level: 40})
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, float64(40), b.body("/setvolume")["volume"])
	snap = st.Snapshot()
	assert.Equal(t, 40, snap.Volume)
	assert.False(t, snap.VolumePending)
}

func TestSearchSubmit(t *testing.T) {
	m, st, b := newTestModel(t, Options{})

	m, _ = press(t, m, runes("/"))
	assert.True(t, m.searching)

	m.searchInput.SetValue("b")
	m, cmd := press(t, m, enter)
	require.NotNil(t, cmd)
	cmd()

	assert.False(t, m.searching)
	assert.Equal(t, "b", m.searchTerm)
	assert.Equal(t, PanelTracks, m.focused)
	assert.True(t, b.called("/searchmusic"))
	assert.Equal(t, []string{"b.mp3"}, st.Snapshot().MusicList.Names())
}

func TestEmptySearchRefreshes(t *testing.T) {
	m, _, b := newTestModel(t, Options{})

	m, _ = press(t, m, runes("/"))
	m, cmd := press(t, m, enter)
	require.NotNil(t, cmd)
	cmd()

	assert.Empty(t, m.searchTerm)
	assert.Equal(t, player.CmdRefreshList, b.body("/cmd")["cmd"])
}

func TestPlaySelectedTrack(t *testing.T) {
	m, _, b := newTestModel(t, Options{})

	m.focused = PanelTracks
	_, cmd := press(t, m, enter)
	require.NotNil(t, cmd)
	cmd()

	assert.Equal(t, map[string]any{"did": "111", "listname": "Rock", "musicname": "c.mp3"}, b.body("/playmusiclist"))
}

func TestSelectPlaylist(t *testing.T) {
	m, st, _ := newTestModel(t, Options{})

	m.focused = PanelPlaylists
	m, _ = press(t, m, runes("g"))
	m, _ = press(t, m, enter)

	assert.Equal(t, PanelTracks, m.focused)
	assert.Equal(t, "所有歌曲", st.Snapshot().SelectedPlaylist)
	assert.Len(t, st.Snapshot().MusicList, 3)
}

func TestPanelsCycle(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	require.Equal(t, PanelPlaylists, m.focused)

	tab := tea.KeyMsg{Type: tea.KeyTab}
	m, _ = press(t, m, tab)
	assert.Equal(t, PanelTracks, m.focused)
	m, _ = press(t, m, tab)
	m, _ = press(t, m, tab)
	assert.Equal(t, PanelNowPlaying, m.focused)

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, PanelDevices, m.focused)
}

func TestDismissBanner(t *testing.T) {
	m, st, _ := newTestModel(t, Options{})
	st.SetError("Failed to play music: boom")

	_, _ = press(t, m, runes("x"))
	assert.Empty(t, st.Snapshot().Error)
}

func TestToggleWithoutTrackSetsBanner(t *testing.T) {
	m, st, b := newTestModel(t, Options{})

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	require.NotNil(t, cmd)
	cmd()

	assert.NotEmpty(t, st.Snapshot().Error)
	assert.False(t, b.called("/playmusiclist"))
}

func TestView(t *testing.T) {
	m, st, _ := newTestModel(t, Options{})
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	view := m.View()
	for _, want := range []string{"Now Playing", "Devices", "Playlists", "Kitchen", "c.mp3"} {
		assert.Contains(t, view, want)
	}

	st.SetError("Failed to load devices: boom")
	m = update(t, m, stateChangedMsg{})
	assert.Contains(t, m.View(), "Failed to load devices: boom")

	m, _ = press(t, m, runes("?"))
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	m, cmd := press(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestViewBeforeSize(t *testing.T) {
	m, _, _ := newTestModel(t, Options{})
	assert.True(t, strings.HasPrefix(m.View(), "Loading"))
}
