// Package web serves the game to a local browser over a websocket. One game
// runs on the server. The first connected client controls it; later
// clients only watch until the controller leaves.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/calbreak/internal/engine"
	"github.com/vovakirdan/calbreak/internal/session"
	"github.com/vovakirdan/calbreak/internal/storage"
)

//go:embed static/index.html
var indexHTML []byte

const (
	sendQueueSize = 256
	writeWait     = 10 * time.Second
)

// Game statuses reported in page messages.
const (
	StatusReady   = "ready"
	StatusPlaying = "playing"
	StatusEnded   = "ended"
)

// Options configures a Server.
type Options struct {
	// Session is the template for every game. The server fills in
	// Scheduler, Input, Clock and Sinks.
	Session session.Options
	Logger  *log.Logger
}

type client struct {
	conn      *websocket.Conn
	sendQueue chan []byte
}

// Server owns the shared game and the connected clients.
type Server struct {
	opts      Options
	logger    *log.Logger
	upgrader  websocket.Upgrader
	sched     *engine.FrameScheduler
	input     *remoteInput
	ledger    *storage.Store
	ownLedger bool

	mu         sync.Mutex
	clients    map[*client]struct{}
	controller *client

	// Only touched on the scheduler goroutine once Run has started.
	sess   *session.Session
	status string
}

// sameOrigin accepts browsers on a page served by this host and clients
// that send no Origin at all.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// NewServer creates a server with a game ready to start.
func NewServer(opts Options) (*Server, error) {
	if opts.Session.Document == nil {
		return nil, fmt.Errorf("web: document is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		upgrader: websocket.Upgrader{CheckOrigin: sameOrigin},
		sched:    engine.NewFrameScheduler(opts.Session.Config.TickInterval()),
		input:    newRemoteInput(),
		ledger:   opts.Session.Ledger,
		clients:  make(map[*client]struct{}),
	}

	if s.ledger == nil {
		ledger, err := storage.Open(storage.Memory)
		if err != nil {
			return nil, fmt.Errorf("web: %w", err)
		}
		s.ledger = ledger
		s.ownLedger = true
	}

	if err := s.newGame(); err != nil {
		s.closeLedger()
		return nil, err
	}
	return s, nil
}

func (s *Server) newGame() error {
	opts := s.opts.Session
	opts.Scheduler = s.sched
	opts.Input = s.input
	opts.Clock = time.Now
	opts.Ledger = s.ledger
	opts.Sinks = append([]engine.Sink{&broadcastSink{s: s}}, opts.Sinks...)
	if opts.Logger == nil {
		opts.Logger = s.logger
	}

	sess, err := session.New(opts)
	if err != nil {
		return fmt.Errorf("web: %w", err)
	}
	if s.sess != nil {
		_ = s.sess.Close()
	}
	s.sess = sess
	s.status = StatusReady
	return nil
}

func (s *Server) closeLedger() {
	if s.ownLedger {
		_ = s.ledger.Close()
	}
}

// Handler returns the HTTP routes: the page, the websocket and the run
// history.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.serveIndex)
	mux.Handle("/ws", s)
	mux.HandleFunc("/api/runs", s.serveRuns)
	return mux
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) serveRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.ledger.Runs(20)
	if err != nil {
		s.logger.Error("list runs", "err", err)
		http.Error(w, "ledger unavailable", http.StatusInternalServerError)
		return
	}
	counts, err := s.ledger.OutcomeCounts()
	if err != nil {
		s.logger.Error("count outcomes", "err", err)
		http.Error(w, "ledger unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(RunsResponse{Runs: runs, Outcomes: counts})
}

// Run drives the game until ctx is done. Ticks, timeouts and every client
// command run on the calling goroutine.
func (s *Server) Run(ctx context.Context) error {
	err := s.sched.Run(ctx)
	if s.sess != nil && s.sess.Engine().Running() {
		_ = s.sess.Stop()
	}
	if s.sess != nil {
		_ = s.sess.Close()
	}
	s.closeLedger()

	s.mu.Lock()
	for c := range s.clients {
		_ = c.conn.Close()
	}
	s.mu.Unlock()

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// ListenAndServe serves on addr and runs the game until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	runErr := make(chan error, 1)
	go func() { runErr <- s.Run(ctx) }()

	select {
	case err := <-errc:
		cancel()
		<-runErr
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = srv.Shutdown(shutdownCtx)
		return <-runErr
	}
}

// ServeHTTP upgrades the connection and pumps messages until the client
// goes away.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &client{conn: conn, sendQueue: make(chan []byte, sendQueueSize)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	if s.controller == nil {
		s.controller = c
	}
	controls := s.controller == c
	s.mu.Unlock()
	s.logger.Info("client connected", "remote", conn.RemoteAddr(), "controller", controls)

	go func() {
		for msg := range c.sendQueue {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				s.logger.Debug("write failed", "remote", conn.RemoteAddr(), "err", err)
				return
			}
		}
	}()

	s.send(c, RoleMessage{Type: TypeRole, Controller: controls})
	s.sched.Do(func() { s.send(c, s.pageMessage()) })

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var msg ClientMessage
		if err := json.Unmarshal(p, &msg); err != nil {
			s.send(c, ErrorMessage{Type: TypeError, Error: "malformed message"})
			continue
		}
		s.handleMessage(c, msg)
	}

	s.disconnect(c)
}

func (s *Server) disconnect(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.sendQueue)
	_ = c.conn.Close()
	s.logger.Info("client disconnected", "remote", c.conn.RemoteAddr())

	if s.controller != c {
		return
	}
	s.controller = nil
	s.input.Release()
	for next := range s.clients {
		s.controller = next
		if b, ok := encode(RoleMessage{Type: TypeRole, Controller: true}); ok {
			select {
			case next.sendQueue <- b:
			default:
			}
		}
		s.logger.Info("controller handed over", "remote", next.conn.RemoteAddr())
		break
	}
}

func (s *Server) controls(c *client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.controller == c
}

func (s *Server) handleMessage(c *client, msg ClientMessage) {
	if !s.controls(c) {
		if msg.Type != TypeKeyDown && msg.Type != TypeKeyUp {
			s.send(c, ErrorMessage{Type: TypeError, Error: "watching only: another browser controls this game"})
		}
		return
	}

	switch msg.Type {
	case TypeKeyDown, TypeKeyUp:
		// The accumulator is safe to feed from the read goroutine.
		s.input.Key(msg.Key, msg.Type == TypeKeyDown)
	case TypeStart:
		s.sched.Do(func() { s.start(c) })
	case TypeStop:
		s.sched.Do(s.stop)
	case TypeDecline, TypeKeep:
		s.sched.Do(func() { s.followUp(c, msg.Type) })
	default:
		s.send(c, ErrorMessage{Type: TypeError, Error: "unknown message type " + msg.Type})
	}
}

func (s *Server) start(c *client) {
	if s.status == StatusEnded {
		if err := s.newGame(); err != nil {
			s.send(c, ErrorMessage{Type: TypeError, Error: err.Error()})
			return
		}
	}
	if s.status != StatusReady {
		return
	}
	if err := s.sess.Start(); err != nil {
		s.send(c, ErrorMessage{Type: TypeError, Error: err.Error()})
		return
	}
	s.status = StatusPlaying
	s.broadcast(s.pageMessage())
}

func (s *Server) stop() {
	if s.status != StatusPlaying {
		return
	}
	_ = s.sess.Stop()
	s.sess.Document().Reset()
	if err := s.newGame(); err != nil {
		s.logger.Error("restart failed", "err", err)
		return
	}
	s.broadcast(s.pageMessage())
}

func (s *Server) followUp(c *client, action string) {
	var msg FollowUpMessage
	switch action {
	case TypeDecline:
		declined, err := s.sess.Decline()
		msg = newFollowUpMessage(action, declined)
		if err != nil {
			msg.Error = err.Error()
		}
	case TypeKeep:
		msg = FollowUpMessage{Type: TypeFollowUp, Action: action}
		if err := s.sess.Keep(); err != nil {
			msg.Error = err.Error()
		}
	}
	if msg.Error != "" {
		s.send(c, msg)
		return
	}
	s.broadcast(msg)
	s.broadcast(s.pageMessage())
}

func (s *Server) pageMessage() PageMessage {
	return newPageMessage(s.opts.Session.Layout, s.status, s.sess.Document(), s.sess.Engine().Area())
}

func encode(v any) ([]byte, bool) {
	b, err := json.Marshal(v)
	return b, err == nil
}

func (s *Server) send(c *client, v any) {
	b, ok := encode(v)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, live := s.clients[c]; !live {
		return
	}
	select {
	case c.sendQueue <- b:
	default:
		s.logger.Warn("dropping message, send queue full", "remote", c.conn.RemoteAddr())
	}
}

func (s *Server) broadcast(v any) {
	b, ok := encode(v)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.sendQueue <- b:
		default:
			s.logger.Warn("dropping message, send queue full", "remote", c.conn.RemoteAddr())
		}
	}
}

// Clients returns the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// broadcastSink relays engine output to every client. It runs on the
// scheduler goroutine.
type broadcastSink struct {
	s *Server
}

func (b *broadcastSink) Frame(f engine.Frame) {
	b.s.broadcast(newFrameMessage(f))
}

func (b *broadcastSink) Event(ev engine.Event) {
	switch ev := ev.(type) {
	case engine.ObstacleDestroyedEvent:
		b.s.broadcast(EventMessage{Type: TypeDestroyed, Tick: ev.Tick, ID: string(ev.ID), Label: ev.Label})
	case engine.PaddleBounceEvent:
		b.s.broadcast(EventMessage{Type: TypeBounce, Tick: ev.Tick, Zone: ev.Zone.String()})
	case engine.TickFailedEvent:
		b.s.status = StatusEnded
		b.s.broadcast(EventMessage{Type: TypeFailed, Tick: ev.Tick, Error: ev.Err.Error()})
	case engine.OutcomeEvent:
		b.s.status = StatusEnded
		msg := OutcomeMessage{
			Type:      TypeOutcome,
			Tick:      ev.Tick,
			Outcome:   ev.Outcome.String(),
			Title:     ev.Outcome.Title(),
			RunID:     b.s.sess.RunID(),
			Destroyed: make([]string, 0, len(ev.Destroyed)),
		}
		for _, id := range ev.Destroyed {
			msg.Destroyed = append(msg.Destroyed, string(id))
		}
		b.s.broadcast(msg)
	}
}
