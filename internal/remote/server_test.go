package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/tutor"
)

// harness runs a session behind a remote server.
type harness struct {
	mu      sync.Mutex
	session *tutor.Session
	server  *Server
	http    *httptest.Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{session: tutor.NewSession()}
	h.server = NewServer(func(key keyboard.KeyID) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.session.PressVirtual(key)
	})
	h.session.AddObserver(h.server)
	h.http = httptest.NewServer(h.server.Handler())
	t.Cleanup(func() {
		h.server.Close()
		h.http.Close()
	})
	return h
}

func (h *harness) dial(t *testing.T) *Client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, h.http.URL)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func readEvent(t *testing.T, c *Client) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ev, err := c.ReadEvent(ctx)
	require.NoError(t, err)
	return ev
}

func TestServer_PressRoundTrip(t *testing.T) {
	h := newHarness(t)
	c := h.dial(t)

	require.NoError(t, c.Press("a"))
	ev := readEvent(t, c)
	assert.Equal(t, Event{Type: TypeEvent, Key: "a", Source: "virtual", Text: "a", Caret: 1}, ev)

	require.NoError(t, c.Press(keyboard.KeyShiftLeft))
	ev = readEvent(t, c)
	assert.Equal(t, "ShiftLeft", ev.Key)
	assert.True(t, ev.Uppercase)

	require.NoError(t, c.Press("b"))
	ev = readEvent(t, c)
	assert.Equal(t, "aB", ev.Text)
	assert.Equal(t, 2, ev.Caret)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.Equal(t, "aB", h.session.State().Text)
}

func TestServer_BroadcastsToEveryClient(t *testing.T) {
	h := newHarness(t)
	pad := h.dial(t)
	watcher := h.dial(t)
	require.Eventually(t, func() bool { return h.server.Clients() == 2 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, pad.Press(keyboard.KeySpace))
	assert.Equal(t, "Space", readEvent(t, watcher).Key)
	assert.Equal(t, " ", readEvent(t, pad).Text)
}

func TestServer_BroadcastsPhysicalPresses(t *testing.T) {
	h := newHarness(t)
	c := h.dial(t)
	require.Eventually(t, func() bool { return h.server.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	h.mu.Lock()
	h.session.SetTutorMode(true)
	h.session.PhysicalKeyDown(keyboard.ModifierSnapshot{Code: "KeyZ"})
	h.mu.Unlock()

	ev := readEvent(t, c)
	assert.Equal(t, "z", ev.Key)
	assert.Equal(t, "physical", ev.Source)
	assert.True(t, ev.TutorMode)
}

func TestServer_RejectsInvalidMessages(t *testing.T) {
	h := newHarness(t)
	c := h.dial(t)

	require.NoError(t, c.Press("NotAKey"))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := c.ReadEvent(ctx)
	assert.ErrorIs(t, err, ErrInvalidMessage)

	// The connection survives a bad message.
	require.NoError(t, c.Press("q"))
	assert.Equal(t, "q", readEvent(t, c).Text)
}

func TestServer_CloseDisconnectsClients(t *testing.T) {
	h := newHarness(t)
	c := h.dial(t)
	require.Eventually(t, func() bool { return h.server.Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, h.server.Close())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := c.ReadEvent(ctx)
	assert.Error(t, err)
	assert.Eventually(t, func() bool { return h.server.Clients() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestServer_StartListens(t *testing.T) {
	srv := NewServer(nil, WithAdvertise(false))
	require.NoError(t, srv.Start("127.0.0.1:0"))
	defer srv.Close()

	addr := srv.Addr()
	require.NotNil(t, addr)

	resp, err := http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+addr.String()+"/ws", nil)
	require.NoError(t, err)
	conn.Close()
}

func TestDecodePress(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    keyboard.KeyID
		wantErr bool
	}{
		{name: "letter", data: `{"type":"press","key":"a"}`, want: "a"},
		{name: "uppercase letter", data: `{"type":"press","key":"A"}`, want: "a"},
		{name: "named key any case", data: `{"type":"press","key":"shiftleft"}`, want: keyboard.KeyShiftLeft},
		{name: "symbol", data: `{"type":"press","key":";"}`, want: ";"},
		{name: "unknown key", data: `{"type":"press","key":"F13"}`, wantErr: true},
		{name: "empty key", data: `{"type":"press","key":""}`, wantErr: true},
		{name: "missing key", data: `{"type":"press"}`, wantErr: true},
		{name: "wrong type", data: `{"type":"event","key":"a"}`, wantErr: true},
		{name: "extra field", data: `{"type":"press","key":"a","repeat":3}`, wantErr: true},
		{name: "not json", data: `press a`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePress([]byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidMessage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		addr    string
		want    string
		wantErr bool
	}{
		{addr: "192.168.1.20:7321", want: "ws://192.168.1.20:7321/ws"},
		{addr: "ws://host:7321", want: "ws://host:7321/ws"},
		{addr: "http://127.0.0.1:8080", want: "ws://127.0.0.1:8080/ws"},
		{addr: "https://kids.example/pad", want: "wss://kids.example/pad"},
		{addr: "ftp://host", wantErr: true},
		{addr: "ws://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := WebSocketURL(tt.addr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
