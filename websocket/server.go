// Package websocket serves the browser front-end and streams simulation
// frames to it over a websocket connection.
package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/esimov/ascii-smoke/palette"
	"github.com/esimov/ascii-smoke/scene"
	"github.com/esimov/ascii-smoke/telemetry"
)

const (
	sendBuffer      = 4
	injectionBuffer = 64
	writeWait       = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// Params holds the HTTP settings.
type Params struct {
	Address string
	Prefix  string
	Root    string
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server serves static files and fans frames out to websocket clients.
type Server struct {
	params   Params
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}

	injections chan Injection
}

// NewServer resolves the static root and prepares the server.
func NewServer(p Params, logger *slog.Logger) (*Server, error) {
	root, err := filepath.Abs(p.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving static root: %w", err)
	}
	p.Root = root
	if p.Prefix == "" {
		p.Prefix = "/"
	}
	return &Server{
		params: p,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients:    make(map[*client]struct{}),
		injections: make(chan Injection, injectionBuffer),
	}, nil
}

// Handler returns the HTTP handler with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(s.params.Prefix, http.StripPrefix(s.params.Prefix, http.FileServer(http.Dir(s.params.Root))))
	mux.HandleFunc("/ws", s.serveWS)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("request", "remote", r.RemoteAddr, "method", r.Method, "url", r.URL.String())
		mux.ServeHTTP(w, r)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.params.Address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown", "error", err)
		}
		s.closeClients()
	}()

	s.logger.Info("serving", "root", s.params.Root, "prefix", s.params.Prefix, "address", s.params.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Injections delivers smoke injection requests received from clients.
func (s *Server) Injections() <-chan Injection {
	return s.injections
}

// ClientCount returns the number of connected clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast encodes the frame once and queues it for every client. Clients
// that have fallen behind skip the frame.
func (s *Server) Broadcast(f Frame) error {
	msg, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding frame: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- msg:
		default:
			s.logger.Debug("client behind, dropping frame", "remote", c.conn.RemoteAddr().String(), "frame", f.Frame)
		}
	}
	return nil
}

// Run serves the front-end and steps the scene at fps frames per second,
// broadcasting every frame and applying client injections between frames.
// Each frame's statistics go to rec when it is not nil.
func (s *Server) Run(ctx context.Context, sc *scene.Scene, fps int, rec *telemetry.Recorder) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- s.ListenAndServe(ctx) }()

	ramp := palette.NewRamp()
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return <-errc
		case err := <-errc:
			return err
		case inj := <-s.injections:
			sc.Inject(inj.X, inj.Y, inj.Amount)
		case now := <-ticker.C:
			sc.Step(now.Sub(last))
			last = now

			if err := s.Broadcast(NewFrame(sc, ramp)); err != nil {
				return err
			}
			if err := rec.Write(telemetry.Collect(sc.Frame(), sc.SimTime(), sc.Solver())); err != nil {
				s.logger.Error("telemetry", "error", err)
			}
		}
	}
}

// serveWS upgrades the connection and registers the client.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		var herr websocket.HandshakeError
		if !errors.As(err, &herr) {
			s.logger.Error("upgrade", "error", err)
		}
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.logger.Info("client connected", "remote", conn.RemoteAddr().String())

	go s.writePump(c)
	go s.readPump(c)
}

// readPump listens for injection messages until the connection drops.
func (s *Server) readPump(c *client) {
	defer s.unregister(c)

	for {
		var inj Injection
		if err := c.conn.ReadJSON(&inj); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("read", "error", err)
			}
			return
		}
		select {
		case s.injections <- inj:
		default:
			s.logger.Warn("injection queue full, dropping", "x", inj.X, "y", inj.Y)
		}
	}
}

// writePump sends queued frames until the send channel is closed.
func (s *Server) writePump(c *client) {
	defer c.conn.Close()

	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.logger.Debug("write", "error", err)
			s.unregister(c)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.send)
	s.logger.Info("client disconnected", "remote", c.conn.RemoteAddr().String())
}

func (s *Server) closeClients() {
	s.mu.Lock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.Unlock()

	for _, c := range clients {
		s.unregister(c)
	}
}
