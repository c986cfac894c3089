package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/calbreak/internal/calendar"
	"github.com/vovakirdan/calbreak/internal/config"
	"github.com/vovakirdan/calbreak/internal/core"
	"github.com/vovakirdan/calbreak/internal/obstacle"
	"github.com/vovakirdan/calbreak/internal/session"
	"github.com/vovakirdan/calbreak/internal/storage"
)

type recordingListener struct {
	events []string
}

func (r *recordingListener) KeyDown(k core.Key, _ time.Time) {
	r.events = append(r.events, "down "+k.String())
}

func (r *recordingListener) KeyUp(k core.Key, _ time.Time) {
	r.events = append(r.events, "up "+k.String())
}

func TestRemoteInput(t *testing.T) {
	in := newRemoteInput()
	l := &recordingListener{}

	if in.Key("left", true) {
		t.Error("key delivered without a listener")
	}
	in.Attach(l)

	tests := []struct {
		name string
		down bool
		want bool
	}{
		{"left", true, true},
		{"ArrowRight", true, true},
		{"left", false, true},
		{"up", true, false},
		{"", false, false},
	}
	for _, tt := range tests {
		if got := in.Key(tt.name, tt.down); got != tt.want {
			t.Errorf("Key(%q, %v) = %v, want %v", tt.name, tt.down, got, tt.want)
		}
	}

	want := "down left,down right,up left"
	if got := strings.Join(l.events, ","); got != want {
		t.Errorf("events = %q, want %q", got, want)
	}

	// Right is still held; Release lifts it once.
	in.Release()
	in.Release()
	want += ",up right"
	if got := strings.Join(l.events, ","); got != want {
		t.Errorf("after Release events = %q, want %q", got, want)
	}

	in.Detach()
	if in.Key("right", false) {
		t.Error("key delivered after Detach")
	}
}

type harness struct {
	srv    *Server
	ts     *httptest.Server
	ledger *storage.Store
	cancel context.CancelFunc
	done   chan error
}

func newHarness(t *testing.T, doc *calendar.Document) *harness {
	t.Helper()

	ledger, err := storage.Open(storage.Memory)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultEngineConfig()
	cfg.Physics.TickMS = 5

	srv, err := NewServer(Options{Session: session.Options{
		Layout:   "test",
		Preset:   config.PresetNormal,
		Seed:     1,
		Config:   cfg,
		Document: doc,
		Ledger:   ledger,
	}})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &harness{srv: srv, ledger: ledger, cancel: cancel, done: make(chan error, 1)}
	go func() { h.done <- srv.Run(ctx) }()
	h.ts = httptest.NewServer(srv.Handler())

	t.Cleanup(func() {
		h.ts.Close()
		h.cancel()
		if err := <-h.done; err != nil {
			t.Errorf("Run: %v", err)
		}
		_ = ledger.Close()
	})
	return h
}

func (h *harness) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg ClientMessage) {
	t.Helper()
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
}

// readUntil skips messages until one of the given type arrives and decodes
// it into v.
func readUntil(t *testing.T, conn *websocket.Conn, typ string, v any) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("waiting for %q: %v", typ, err)
		}
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(p, &head); err != nil {
			t.Fatalf("bad message %s: %v", p, err)
		}
		if head.Type == typ {
			if err := json.Unmarshal(p, v); err != nil {
				t.Fatalf("decode %s: %v", typ, err)
			}
			return
		}
	}
}

func emptyPage() *calendar.Document {
	return calendar.NewDocument(400, 600, core.RectFromSize(0, 0, 400, 600), nil)
}

func TestPageOnConnect(t *testing.T) {
	doc := emptyPage()
	if err := doc.Add(calendar.Event{
		ID:       obstacle.ID("standup"),
		Title:    "Standup",
		Rect:     core.RectFromSize(40, 100, 120, 40),
		Controls: calendar.DefaultControls(),
	}); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, doc)
	conn := h.dial(t)

	var page PageMessage
	readUntil(t, conn, TypePage, &page)

	if page.Layout != "test" || page.Status != StatusReady {
		t.Errorf("page = %+v", page)
	}
	if page.Viewport != (vec{X: 400, Y: 600}) {
		t.Errorf("viewport = %+v", page.Viewport)
	}
	if len(page.Events) != 1 {
		t.Fatalf("events = %+v", page.Events)
	}
	ev := page.Events[0]
	if ev.ID != "standup" || ev.Box != (box{X: 40, Y: 100, W: 120, H: 40}) || ev.Destroyed {
		t.Errorf("event = %+v", ev)
	}
}

func TestPlayOverWebsocket(t *testing.T) {
	h := newHarness(t, emptyPage())
	conn := h.dial(t)

	var page PageMessage
	readUntil(t, conn, TypePage, &page)

	send(t, conn, ClientMessage{Type: TypeStart})

	var frame FrameMessage
	readUntil(t, conn, TypeFrame, &frame)
	if frame.Tick != 1 || frame.Radius <= 0 {
		t.Errorf("frame = %+v", frame)
	}

	var outcome OutcomeMessage
	readUntil(t, conn, TypeOutcome, &outcome)
	if outcome.Outcome != "game-won" || outcome.Tick != 1 || outcome.RunID == "" {
		t.Errorf("outcome = %+v", outcome)
	}

	send(t, conn, ClientMessage{Type: TypeKeep})
	var follow FollowUpMessage
	readUntil(t, conn, TypeFollowUp, &follow)
	if follow.Action != TypeKeep || follow.Error != "" {
		t.Errorf("followup = %+v", follow)
	}

	run, err := h.ledger.Run(outcome.RunID)
	if err != nil || run == nil || run.Outcome != "game-won" {
		t.Errorf("ledger run = %+v, %v", run, err)
	}

	resp, err := http.Get(h.ts.URL + "/api/runs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body RunsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	runs := body.Runs
	if len(runs) != 1 || runs[0].ID != outcome.RunID {
		t.Fatalf("runs = %+v", runs)
	}
	if body.Outcomes["game-won"] != 1 {
		t.Errorf("outcomes = %v", body.Outcomes)
	}

	// Starting again after the end plays a fresh game.
	send(t, conn, ClientMessage{Type: TypeStart})
	readUntil(t, conn, TypeOutcome, &outcome)
	if outcome.RunID == runs[0].ID {
		t.Error("second game reused the run id")
	}
}

func TestSecondClientWatches(t *testing.T) {
	h := newHarness(t, emptyPage())
	first := h.dial(t)

	var role RoleMessage
	readUntil(t, first, TypeRole, &role)
	if !role.Controller {
		t.Fatal("first client does not control the game")
	}

	second := h.dial(t)
	readUntil(t, second, TypeRole, &role)
	if role.Controller {
		t.Fatal("second client controls the game")
	}

	send(t, second, ClientMessage{Type: TypeStart})
	var msg ErrorMessage
	readUntil(t, second, TypeError, &msg)
	if !strings.Contains(msg.Error, "watching") {
		t.Errorf("error = %q", msg.Error)
	}

	// The watcher takes over once the controller leaves.
	_ = first.Close()
	readUntil(t, second, TypeRole, &role)
	if !role.Controller {
		t.Error("watcher was not promoted")
	}
}

func TestForeignOriginRejected(t *testing.T) {
	h := newHarness(t, emptyPage())
	url := "ws" + strings.TrimPrefix(h.ts.URL, "http") + "/ws"

	header := http.Header{"Origin": {"http://evil.example"}}
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	if err == nil {
		_ = conn.Close()
		t.Fatal("foreign origin was upgraded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("resp = %v, err = %v, want 403", resp, err)
	}

	header = http.Header{"Origin": {h.ts.URL}}
	conn, _, err = websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("same origin dial: %v", err)
	}
	defer conn.Close()

	var role RoleMessage
	readUntil(t, conn, TypeRole, &role)
	if !role.Controller {
		t.Error("rejected client took the controller slot")
	}
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", true},
		{"http://localhost:8080", true},
		{"http://LOCALHOST:8080", true},
		{"http://localhost:9090", false},
		{"https://example.com", false},
		{"://bad", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://localhost:8080/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := sameOrigin(r); got != tt.want {
				t.Errorf("sameOrigin(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestFollowUpBeforeEnd(t *testing.T) {
	h := newHarness(t, emptyPage())
	conn := h.dial(t)

	send(t, conn, ClientMessage{Type: TypeDecline})
	var follow FollowUpMessage
	readUntil(t, conn, TypeFollowUp, &follow)
	if follow.Error == "" {
		t.Error("decline before the game ended succeeded")
	}
}

func TestUnknownMessage(t *testing.T) {
	h := newHarness(t, emptyPage())
	conn := h.dial(t)

	send(t, conn, ClientMessage{Type: "jump"})
	var msg ErrorMessage
	readUntil(t, conn, TypeError, &msg)
	if !strings.Contains(msg.Error, "jump") {
		t.Errorf("error = %q", msg.Error)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{")); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, TypeError, &msg)
	if msg.Error != "malformed message" {
		t.Errorf("error = %q", msg.Error)
	}
}

func TestIndex(t *testing.T) {
	h := newHarness(t, emptyPage())

	resp, err := http.Get(h.ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "/ws") {
		t.Errorf("index: status %d", resp.StatusCode)
	}

	resp, err = http.Get(h.ts.URL + "/missing")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing: status %d", resp.StatusCode)
	}
}

func TestNewServerRequiresDocument(t *testing.T) {
	if _, err := NewServer(Options{}); err == nil {
		t.Error("NewServer without a document succeeded")
	}
}
