package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/muurk/kidskeys/internal/keyboard"
)

// Client presses keys on a remote keyboard.
type Client struct {
	conn *websocket.Conn
	wmu  sync.Mutex
}

// WebSocketURL turns "host:port", "ws://host:port" or "http://host:port"
// into the websocket endpoint URL.
func WebSocketURL(addr string) (string, error) {
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", addr, err)
	}
	switch u.Scheme {
	case "ws", "wss":
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid address %q: unsupported scheme %s", addr, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid address %q: missing host", addr)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/ws"
	}
	return u.String(), nil
}

// Dial connects to the keyboard at addr.
func Dial(ctx context.Context, addr string) (*Client, error) {
	endpoint, err := WebSocketURL(addr)
	if err != nil {
		return nil, err
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", endpoint, err)
	}
	return &Client{conn: conn}, nil
}

// Press sends one key press.
func (c *Client) Press(key keyboard.KeyID) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(NewPress(key)); err != nil {
		return fmt.Errorf("failed to send press: %w", err)
	}
	return nil
}

// ReadEvent waits for the next event from the keyboard. Error replies are
// returned as errors wrapping ErrInvalidMessage.
func (c *Client) ReadEvent(ctx context.Context) (Event, error) {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetReadDeadline(deadline)
	} else {
		_ = c.conn.SetReadDeadline(time.Time{})
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return Event{}, fmt.Errorf("failed to read event: %w", err)
		}
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &head); err != nil {
			return Event{}, fmt.Errorf("failed to decode message: %w", err)
		}
		switch head.Type {
		case TypeEvent:
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				return Event{}, fmt.Errorf("failed to decode event: %w", err)
			}
			return ev, nil
		case TypeError:
			var reply ErrorReply
			_ = json.Unmarshal(data, &reply)
			return Event{}, fmt.Errorf("%w: %s", ErrInvalidMessage, reply.Error)
		}
	}
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.wmu.Lock()
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.wmu.Unlock()
	return c.conn.Close()
}
