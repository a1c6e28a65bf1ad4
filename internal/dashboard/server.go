package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"bazinga/internal/consciousness"
	"bazinga/internal/logging"
)

// DefaultAddr matches the config default for the dashboard server.
const DefaultAddr = "localhost:8137"

const (
	shutdownWait = 5 * time.Second
	minPoll      = 50 * time.Millisecond
	liveRowCap   = 15
)

// ============================================================================
// SERVER
// ============================================================================

// Server hosts the live dashboard page and its WebSocket stream.
type Server struct {
	engine *consciousness.Engine
	hub    *Hub
	addr   string

	mu    sync.Mutex
	bound string
}

// NewServer wires a dashboard server to an engine. An empty addr falls
// back to DefaultAddr.
func NewServer(engine *consciousness.Engine, addr string) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{engine: engine, hub: NewHub(), addr: addr}
}

// Hub returns the server's client hub.
func (s *Server) Hub() *Hub { return s.hub }

// Addr reports the bound listen address. Empty until Run has bound it.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bound
}

// Run serves until the context is cancelled. The hub loop, the broadcast
// pump, and the HTTP listener run under one errgroup; cancellation shuts
// the listener down gracefully and disconnects every client.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("dashboard listen on %s: %w", s.addr, err)
	}
	s.mu.Lock()
	s.bound = ln.Addr().String()
	s.mu.Unlock()

	srv := &http.Server{
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.hub.Run()
		return nil
	})
	g.Go(func() error {
		return s.pump(ctx)
	})
	g.Go(func() error {
		logging.Server("dashboard listening on http://%s", s.Addr())
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("dashboard serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		err := srv.Shutdown(shutCtx)
		s.hub.Stop()
		return err
	})
	return g.Wait()
}

// pump watches the engine and broadcasts once per completed cycle: the
// fresh snapshot plus the thought that cycle appended.
func (s *Server) pump(ctx context.Context) error {
	interval := s.engine.Config().CycleInterval / 4
	if interval < minPoll {
		interval = minPoll
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := s.engine.Cycles()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			cycles := s.engine.Cycles()
			if cycles == last {
				continue
			}
			last = cycles
			s.hub.BroadcastState(s.engine.Snapshot())
			if recent := s.engine.RecentThoughts(1); len(recent) == 1 {
				s.hub.BroadcastThought(recent[0])
			}
		}
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ServeWS(s.hub, w, r)
}

// handleIndex renders the live page with the current state baked in; the
// page's script keeps it current over the WebSocket.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	snap := s.engine.Snapshot()
	data := pageData{
		Snap:     snap,
		TrustVal: fmt.Sprintf("%.2f", snap.Trust),
		ResVal:   fmt.Sprintf("%.3f", snap.Resonance),
		Rows:     liveRows(s.engine.RecentThoughts(liveRowCap)),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := livePageTmpl.Execute(w, data); err != nil {
		logging.Get(logging.CategoryServer).Error("render live page: %v", err)
	}
}

// ============================================================================
// LIVE PAGE
// ============================================================================

type liveRow struct {
	Time      string
	Pattern   string
	State     string
	Resonance string
	Trust     string
}

type pageData struct {
	Snap     consciousness.Snapshot
	TrustVal string
	ResVal   string
	Rows     []liveRow
}

// liveRows formats thoughts newest first, the order the table grows in.
func liveRows(thoughts []consciousness.Thought) []liveRow {
	rows := make([]liveRow, 0, len(thoughts))
	for i := len(thoughts) - 1; i >= 0; i-- {
		t := thoughts[i]
		rows = append(rows, liveRow{
			Time:      t.At.Format("15:04:05"),
			Pattern:   t.Pattern,
			State:     string(t.State),
			Resonance: fmt.Sprintf("%.3f", t.Resonance),
			Trust:     fmt.Sprintf("%.2f", t.Trust),
		})
	}
	return rows
}

var livePageTmpl = template.Must(template.New("live").Parse(livePageHTML))

const livePageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>BAZINGA Live Dashboard</title>
<style>
  body {
    margin: 0;
    padding: 24px;
    min-height: 100vh;
    font-family: 'Segoe UI', -apple-system, sans-serif;
    background: linear-gradient(180deg, #0a0a2a 0%, #1a1a4a 100%);
    color: #ffffff;
  }
  header { text-align: center; margin-bottom: 28px; }
  header h1 { margin: 0; color: #84fab0; font-weight: 600; }
  header p { margin: 4px 0 0; color: rgba(255,255,255,0.65); }
  .dot { display: inline-block; width: 10px; height: 10px; border-radius: 50%; margin-right: 6px; background: #888888; }
  .dot.live { background: #84fab0; }
  .dot.dead { background: #e05667; }
  .metrics {
    display: grid;
    grid-template-columns: repeat(auto-fit, minmax(150px, 1fr));
    gap: 14px;
    max-width: 1080px;
    margin: 0 auto 24px;
  }
  .card {
    background: rgba(255,255,255,0.05);
    border: 1px solid rgba(77,84,235,0.35);
    border-radius: 10px;
    padding: 16px;
  }
  .metric .value { font-size: 28px; color: #84fab0; }
  .metric .label {
    font-size: 11px;
    text-transform: uppercase;
    letter-spacing: 1px;
    color: rgba(255,255,255,0.55);
  }
  .wide { max-width: 1080px; margin: 0 auto 24px; }
  .wide h2 { margin: 0 0 10px; font-size: 15px; color: #4d54eb; }
  table { width: 100%; border-collapse: collapse; font-size: 13px; }
  th, td { padding: 6px 10px; text-align: left; }
  th { color: #4d54eb; border-bottom: 1px solid rgba(77,84,235,0.35); }
  td { border-bottom: 1px solid rgba(255,255,255,0.07); }
  footer { text-align: center; color: rgba(255,255,255,0.5); font-size: 13px; }
</style>
</head>
<body>
<header>
  <h1>BAZINGA Live Dashboard</h1>
  <p><span id="status" class="dot"></span>{{.Snap.Name}} v{{.Snap.Version}} &middot; session {{.Snap.Session}}</p>
</header>

<div class="metrics">
  <div class="card metric"><div class="value" id="mode">{{.Snap.Mode}}</div><div class="label">State</div></div>
  <div class="card metric"><div class="value" id="trust">{{.TrustVal}}</div><div class="label">Trust Level</div></div>
  <div class="card metric"><div class="value" id="resonance">{{.ResVal}}</div><div class="label">Resonance</div></div>
  <div class="card metric"><div class="value" id="thoughts">{{.Snap.Thoughts}}</div><div class="label">Thoughts</div></div>
  <div class="card metric"><div class="value" id="cycles">{{.Snap.Cycles}}</div><div class="label">Cycles</div></div>
  <div class="card metric"><div class="value" id="conversations">{{.Snap.Conversations}}</div><div class="label">Conversations</div></div>
</div>

<div class="card wide">
  <h2>Live Thoughts</h2>
  <table>
    <thead><tr><th>Time</th><th>Pattern</th><th>State</th><th>Resonance</th><th>Trust</th></tr></thead>
    <tbody id="rows">
      {{range .Rows}}<tr><td>{{.Time}}</td><td>{{.Pattern}}</td><td>{{.State}}</td><td>{{.Resonance}}</td><td>{{.Trust}}</td></tr>
      {{end}}
    </tbody>
  </table>
</div>

<footer>
  <p>&#10216;&psi;|&#9674;|&Omega;&#10217; streaming one envelope per cycle</p>
</footer>

<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var sock = new WebSocket(proto + location.host + "/ws");
  var dot = document.getElementById("status");

  function set(id, text) {
    document.getElementById(id).textContent = text;
  }

  function applyState(s) {
    set("mode", s.mode);
    set("trust", s.trust.toFixed(2));
    set("resonance", s.resonance.toFixed(3));
    set("thoughts", s.thoughts_count);
    set("cycles", s.cycles);
    set("conversations", s.conversations);
  }

  function addThought(t) {
    var body = document.getElementById("rows");
    var row = body.insertRow(0);
    row.insertCell(0).textContent = new Date(t.timestamp).toLocaleTimeString();
    row.insertCell(1).textContent = t.pattern;
    row.insertCell(2).textContent = t.state;
    row.insertCell(3).textContent = t.resonance.toFixed(3);
    row.insertCell(4).textContent = t.trust.toFixed(2);
    while (body.rows.length > 15) {
      body.deleteRow(body.rows.length - 1);
    }
  }

  sock.onopen = function () { dot.className = "dot live"; };
  sock.onclose = function () { dot.className = "dot dead"; };
  sock.onmessage = function (evt) {
    var lines = evt.data.split("\n");
    for (var i = 0; i < lines.length; i++) {
      if (!lines[i]) continue;
      var msg = JSON.parse(lines[i]);
      if (msg.type === "state") {
        applyState(msg.data);
      } else if (msg.type === "thought") {
        addThought(msg.data);
      }
    }
  };

  setInterval(function () {
    if (sock.readyState === WebSocket.OPEN) {
      sock.send(JSON.stringify({type: "ping"}));
    }
  }, 30000);
})();
</script>
</body>
</html>
`
