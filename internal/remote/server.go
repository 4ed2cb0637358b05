package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/kidskeys/internal/keyboard"
	"github.com/muurk/kidskeys/internal/logging"
	"github.com/muurk/kidskeys/internal/tutor"
	"github.com/muurk/kidskeys/internal/version"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 1024

	// Outgoing messages buffered per client before events are dropped
	sendBuffer = 64
)

// Sink receives key presses from remote clients. It is called from
// connection goroutines.
type Sink func(key keyboard.KeyID)

// Server is the remote key pad endpoint. Clients press keys over a
// websocket and receive every accepted key event of the session.
type Server struct {
	sink      Sink
	name      string
	advertise bool
	upgrader  websocket.Upgrader

	mu       sync.Mutex
	clients  map[*client]struct{}
	http     *http.Server
	listener net.Listener
	mdns     *zeroconf.Server
}

type client struct {
	conn       *websocket.Conn
	remoteAddr string
	send       chan []byte
}

// Option configures a Server.
type Option func(*Server)

// WithName sets the instance name announced over mDNS.
func WithName(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.name = name
		}
	}
}

// WithAdvertise turns mDNS announcement on or off.
func WithAdvertise(on bool) Option {
	return func(s *Server) {
		s.advertise = on
	}
}

// NewServer creates a server delivering presses to sink.
func NewServer(sink Sink, opts ...Option) *Server {
	s := &Server{
		sink:    sink,
		name:    defaultName(),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func defaultName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "kidskeys"
	}
	return "kidskeys on " + host
}

// Handler returns the HTTP handler serving /ws and /healthz.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok\n"))
	})
	return mux
}

// Start listens on addr and serves in the background. When advertising is
// on the server is announced as ServiceType.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.mu.Lock()
	s.listener = ln
	s.http = srv
	s.mu.Unlock()

	logging.Info("Remote key pad listening", zap.String("addr", ln.Addr().String()))

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Remote key pad stopped", zap.Error(err))
		}
	}()

	if s.advertise {
		port := ln.Addr().(*net.TCPAddr).Port
		txt := []string{"path=/ws", "version=" + version.Version}
		mdns, err := zeroconf.Register(s.name, ServiceType, ServiceDomain, port, txt, nil)
		if err != nil {
			logging.Warn("Failed to advertise over mDNS", zap.Error(err))
		} else {
			s.mu.Lock()
			s.mdns = mdns
			s.mu.Unlock()
			logging.Info("Advertising remote key pad",
				zap.String("name", s.name),
				zap.Int("port", port),
			)
		}
	}
	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Close stops advertising, disconnects every client and stops the server.
func (s *Server) Close() error {
	s.mu.Lock()
	mdns, srv := s.mdns, s.http
	s.mdns, s.http = nil, nil
	for c := range s.clients {
		_ = c.conn.Close()
	}
	s.mu.Unlock()

	if mdns != nil {
		mdns.Shutdown()
	}
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// KeyPressed broadcasts a session event to every client.
func (s *Server) KeyPressed(ev tutor.Event) {
	s.Broadcast(NewEvent(ev))
}

// Broadcast sends v as JSON to every client. Slow clients miss messages
// rather than block the caller.
func (s *Server) Broadcast(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error("Failed to encode broadcast", zap.Error(err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			logging.Warn("Dropping event for slow client", zap.String("remote_addr", c.remoteAddr))
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("WebSocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	c := &client{
		conn:       conn,
		remoteAddr: r.RemoteAddr,
		send:       make(chan []byte, sendBuffer),
	}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	logging.LogConnection(c.remoteAddr, "websocket_opened")

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer func() {
		s.mu.Lock()
		if _, ok := s.clients[c]; ok {
			delete(s.clients, c)
			close(c.send)
		}
		s.mu.Unlock()
		_ = c.conn.Close()
		logging.LogConnection(c.remoteAddr, "websocket_closed")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Info("Connection closed with error",
					zap.String("remote_addr", c.remoteAddr),
					zap.Error(err),
				)
			}
			return
		}
		logging.LogRemoteMessage(c.remoteAddr, "received", data)

		key, err := DecodePress(data)
		if err != nil {
			s.reply(c, ErrorReply{Type: TypeError, Error: err.Error()})
			continue
		}
		if s.sink != nil {
			s.sink(key)
		}
	}
}

func (s *Server) reply(c *client, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (s *Server) writeLoop(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
			logging.LogRemoteMessage(c.remoteAddr, "sent", data)

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
