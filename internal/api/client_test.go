package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tessro/soundscape/internal/core"
	apperrors "github.com/tessro/soundscape/internal/errors"
)

type recorded struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   map[string]any
}

// newTestServer serves canned JSON per path and records every request.
func newTestServer(t *testing.T, responses map[string]string) (*Client, *[]recorded) {
	t.Helper()
	var reqs []recorded
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{method: r.Method, path: r.URL.Path, query: r.URL.Query(), header: r.Header.Clone()}
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &rec.body)
		}
		reqs = append(reqs, rec)

		body, ok := responses[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, WithBasicAuth("admin", "secret"))
	require.NoError(t, err)
	return c, &reqs
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultBaseURL + "/"},
		{"10.0.0.2:8090", "http://10.0.0.2:8090/"},
		{"https://music.example.com/", "https://music.example.com/"},
		{"http://host:8090/proxy?x=1#frag", "http://host:8090/proxy/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := parseBaseURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}

	_, err := parseBaseURL("http://")
	assert.Error(t, err)
}

func TestRequestHeaders(t *testing.T) {
	c, reqs := newTestServer(t, map[string]string{"/getversion": `{"version":"0.3.50"}`})

	v, err := c.GetVersion(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "0.3.50", v)

	require.Len(t, *reqs, 1)
	h := (*reqs)[0].header
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.NotEmpty(t, h.Get("X-Request-Id"))

	user, pass, ok := (&http.Request{Header: h}).BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "admin", user)
	assert.Equal(t, "secret", pass)
}

func TestNoAuthWithoutPassword(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = io.WriteString(w, `{"version":"1"}`)
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL, WithBasicAuth("admin", ""))
	require.NoError(t, err)
	_, err = c.GetVersion(testContext(t))
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestPathPrefixIsKept(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = io.WriteString(w, `{"version":"1"}`)
	}))
	t.Cleanup(server.Close)

	c, err := New(server.URL + "/music")
	require.NoError(t, err)
	_, err = c.GetVersion(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, "/music/getversion", gotPath)
}

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		unauthorized bool
	}{
		{"not found", http.StatusNotFound, false},
		{"server error", http.StatusInternalServerError, false},
		{"unauthorized", http.StatusUnauthorized, true},
		{"forbidden", http.StatusForbidden, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			t.Cleanup(server.Close)

			c, err := New(server.URL)
			require.NoError(t, err)

			_, err = c.GetVersion(testContext(t))
			require.Error(t, err)

			var httpErr *HTTPError
			require.True(t, errors.As(err, &httpErr))
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, http.StatusText(tt.status), httpErr.Status)
			assert.Contains(t, httpErr.Body, "nope")
			assert.Equal(t, tt.status, StatusCode(err))
			assert.Equal(t, tt.unauthorized, errors.Is(err, apperrors.ErrUnauthorized))
		})
	}
}

func TestTransportErrorIsUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	c, err := New(addr)
	require.NoError(t, err)

	err = c.SendCommand(testContext(t), "d1", "下一首")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrServerUnreachable))
	assert.Equal(t, 0, StatusCode(err))
}

func TestGetSettingsWithDevices(t *testing.T) {
	c, reqs := newTestServer(t, map[string]string{
		"/getsetting": `{
			"hostname": "192.168.1.2",
			"port": 8090,
			"device_list": [
				{"miotDID": "111", "name": "Kitchen", "hardware": "L05B", "play_type": 2},
				{"miotDID": "222", "name": "Bedroom"}
			]
		}`,
	})

	payload, err := c.GetSettings(testContext(t), true)
	require.NoError(t, err)

	assert.Equal(t, "true", (*reqs)[0].query.Get("need_device_list"))
	require.Len(t, payload.Devices, 2)
	assert.Equal(t, "111", payload.Devices[0].DID)
	mode, ok := payload.Devices[0].PlayMode()
	assert.True(t, ok)
	assert.Equal(t, core.PlayModeRandom, mode)
	_, ok = payload.Devices[1].PlayMode()
	assert.False(t, ok)

	assert.NotContains(t, payload.Settings, "device_list")
	assert.Equal(t, "192.168.1.2", payload.Settings.String("hostname"))
}

func TestSaveSettingsSendsObject(t *testing.T) {
	c, reqs := newTestServer(t, map[string]string{"/savesetting": `"save success"`})

	err := c.SaveSettings(testContext(t), core.Settings{"hostname": "h", "port": float64(9000)})
	require.NoError(t, err)

	req := (*reqs)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, map[string]any{"hostname": "h", "port": float64(9000)}, req.body)
}

func TestVolume(t *testing.T) {
	c, reqs := newTestServer(t, map[string]string{
		"/getvolume": `{"ret":"OK","volume":28}`,
		"/setvolume": `{"ret":"OK","volume":40}`,
	})
	ctx := testContext(t)

	got, err := c.GetVolume(ctx, "111")
	require.NoError(t, err)
	assert.True(t, got.OK())
	assert.Equal(t, 28, got.Level())
	assert.Equal(t, "111", (*reqs)[0].query.Get("did"))

	set, err := c.SetVolume(ctx, "111", 40)
	require.NoError(t, err)
	assert.Equal(t, 40, set.Level())
	assert.Equal(t, map[string]any{"did": "111", "volume": float64(40)}, (*reqs)[1].body)
}

func TestVolumeNotOK(t *testing.T) {
	c, _ := newTestServer(t, map[string]string{"/getvolume": `{"ret":"Did not exist"}`})

	got, err := c.GetVolume(testContext(t), "x")
	require.NoError(t, err)
	assert.False(t, got.OK())
}

func TestGetMusicListKeepsOrder(t *testing.T) {
	c, _ := newTestServer(t, map[string]string{
		"/musiclist": `{"收藏": ["a"], "所有歌曲": ["a", "b"], "meta": 3, "临时": []}`,
	})

	lists, err := c.GetMusicList(testContext(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"收藏", "所有歌曲", "临时"}, lists.Names())

	name, tracks, ok := lists.DefaultList()
	require.True(t, ok)
	assert.Equal(t, "所有歌曲", name)
	assert.Equal(t, []string{"a", "b"}, tracks.Names())
}

func TestSearchMusic(t *testing.T) {
	c, reqs := newTestServer(t, map[string]string{
		"/searchmusic": `["晴天", {"name": "稻香", "title": "Daoxiang"}]`,
	})

	result, err := c.SearchMusic(testContext(t), "周 杰伦&")
	require.NoError(t, err)
	assert.Equal(t, "周 杰伦&", (*reqs)[0].query.Get("name"))

	assert.True(t, result.IsList)
	want := core.TrackList{core.BareTrack("晴天"), core.TaggedTrack("稻香", "", "Daoxiang")}
	if diff := cmp.Diff(want, result.Tracks); diff != "" {
		t.Errorf("SearchMusic() mismatch (-want +got):\n%s", diff)
	}
}

func TestSearchMusicNotAList(t *testing.T) {
	c, _ := newTestServer(t, map[string]string{"/searchmusic": `{"ret":"busy"}`})

	result, err := c.SearchMusic(testContext(t), "x")
	require.NoError(t, err)
	assert.False(t, result.IsList)
	assert.Nil(t, result.Tracks)
}

func TestGetCurrentPlaylist(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"string", `"所有歌曲"`, "所有歌曲"},
		{"object", `{"ret":"OK","cur_playlist":"收藏"}`, "收藏"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestServer(t, map[string]string{"/curplaylist": tt.body})
			got, err := c.GetCurrentPlaylist(testContext(t), "111")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlayMusicList(t *testing.T) {
	c, reqs := newTestServer(t, map[string]string{"/playmusiclist": `{"ret":"OK"}`})

	require.NoError(t, c.PlayMusicList(testContext(t), "111", "收藏", ""))
	assert.Equal(t, map[string]any{"did": "111", "listname": "收藏", "musicname": ""}, (*reqs)[0].body)
}

func TestGetPlayingMusic(t *testing.T) {
	c, _ := newTestServer(t, map[string]string{
		"/playingmusic": `{"ret":"OK","is_playing":false,"cur_music":"x","cur_playlist":"A","offset":10,"duration":200}`,
	})

	resp, err := c.GetPlayingMusic(testContext(t), "111")
	require.NoError(t, err)
	require.True(t, resp.OK())

	state := resp.State("111")
	assert.False(t, state.IsPlaying)
	assert.Equal(t, "x", state.TrackName())
	assert.InDelta(t, 0.05, state.Progress.Fraction(), 1e-9)
}

func TestGetMusicInfo(t *testing.T) {
	c, reqs := newTestServer(t, map[string]string{
		"/musicinfo": `{"ret":"OK","name":"晴天","url":"http://h/music/晴天.mp3",
			"tags":{"title":"晴天","artist":"周杰伦","album":"叶惠美","year":2003,"picture":"/p.jpg"}}`,
	})

	info, err := c.GetMusicInfo(testContext(t), "晴天", true)
	require.NoError(t, err)

	q := (*reqs)[0].query
	assert.Equal(t, "true", q.Get("musictag"))
	assert.Equal(t, "晴天", q.Get("name"))

	want := core.MusicInfo{
		Name: "晴天",
		URL:  "http://h/music/晴天.mp3",
		Tags: core.MusicTags{Title: "晴天", Artist: "周杰伦", Album: "叶惠美", Year: "2003"},
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("GetMusicInfo() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMusicInfoEmptyName(t *testing.T) {
	c, reqs := newTestServer(t, nil)
	_, err := c.GetMusicInfo(testContext(t), " ", true)
	assert.Error(t, err)
	assert.Empty(t, *reqs)
}

func TestSendCommand(t *testing.T) {
	c, reqs := newTestServer(t, map[string]string{"/cmd": `{"ret":"OK"}`})

	require.NoError(t, c.SendCommand(testContext(t), "111", "刷新列表"))
	req := (*reqs)[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/cmd", req.path)
	assert.Equal(t, map[string]any{"did": "111", "cmd": "刷新列表"}, req.body)
}

func TestBadJSONIsBadResponse(t *testing.T) {
	c, _ := newTestServer(t, map[string]string{"/getversion": `<html>`})
	_, err := c.GetVersion(testContext(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrBadResponse))
}
