// Package server streams viewer sessions to browsers over WebSocket. Each
// connection owns one viewer.Session driven by a single goroutine; the page
// renders the model with three.js from the frame states it receives.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/partview/internal/assets"
	"github.com/Faultbox/partview/internal/catalog"
	"github.com/Faultbox/partview/internal/config"
	"github.com/Faultbox/partview/internal/logger"
	"github.com/Faultbox/partview/internal/viewer"
)

//go:embed web
var webFS embed.FS

const (
	writeTimeout  = 5 * time.Second
	inboundBuffer = 64
	maxMessage    = 4096
)

// Server hosts the page, the model file and the session socket.
type Server struct {
	cfg     *config.Config
	cat     *catalog.Catalog
	manager *assets.Manager
	log     *zap.Logger

	upgrader websocket.Upgrader
	mux      *http.ServeMux

	mu      sync.Mutex
	clients map[*client]struct{}
	wg      sync.WaitGroup
}

type client struct {
	conn   *websocket.Conn
	in     chan Command
	reload chan struct{}
	done   chan struct{}
}

// New creates a server. A nil manager gets a private one.
func New(cfg *config.Config, cat *catalog.Catalog, manager *assets.Manager) *Server {
	if manager == nil {
		manager = assets.NewManager()
	}
	sv := &Server{
		cfg:     cfg,
		cat:     cat,
		manager: manager,
		log:     logger.Named("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		mux:     http.NewServeMux(),
		clients: make(map[*client]struct{}),
	}

	page, _ := fs.Sub(webFS, "web")
	sv.mux.Handle("/", http.FileServer(http.FS(page)))
	sv.mux.HandleFunc("/model.glb", sv.serveModel)
	sv.mux.HandleFunc("/ws", sv.serveWS)
	return sv
}

// Handler returns the HTTP handler.
func (sv *Server) Handler() http.Handler { return sv.mux }

// Sessions returns the number of connected viewers.
func (sv *Server) Sessions() int {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return len(sv.clients)
}

// Reload asks every session to load the model again.
func (sv *Server) Reload() {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	for c := range sv.clients {
		select {
		case c.reload <- struct{}{}:
		default:
		}
	}
	sv.log.Info("reload broadcast", zap.Int("sessions", len(sv.clients)))
}

// Run serves on cfg.Server.Addr until ctx is cancelled.
func (sv *Server) Run(ctx context.Context) error {
	hs := &http.Server{
		Addr:        sv.cfg.Server.Addr,
		Handler:     sv.mux,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		sv.log.Info("listening", zap.String("addr", hs.Addr))
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving %s: %w", hs.Addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := hs.Shutdown(shutdownCtx)
	sv.closeAll()
	sv.wg.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (sv *Server) closeAll() {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	for c := range sv.clients {
		c.conn.Close()
	}
}

func (sv *Server) serveModel(w http.ResponseWriter, r *http.Request) {
	data, err := sv.manager.Bytes(sv.cfg.Model.Path)
	if err != nil {
		sv.log.Warn("serving model", zap.Error(err))
		http.Error(w, "model not available", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "model/gltf-binary")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

func (sv *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := sv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		sv.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	c := &client{
		conn:   conn,
		in:     make(chan Command, inboundBuffer),
		reload: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	sv.mu.Lock()
	sv.clients[c] = struct{}{}
	sv.mu.Unlock()
	sv.wg.Add(1)

	defer func() {
		sv.mu.Lock()
		delete(sv.clients, c)
		sv.mu.Unlock()
		close(c.done)
		conn.Close()
		sv.wg.Done()
	}()

	go c.readLoop(sv.log)
	sv.runSession(r.Context(), c)
}

// readLoop decodes inbound messages until the connection fails, then
// closes c.in.
func (c *client) readLoop(log *zap.Logger) {
	defer close(c.in)
	c.conn.SetReadLimit(maxMessage)
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("websocket read", zap.Error(err))
			}
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.Debug("bad command", zap.Error(err))
			continue
		}
		if cmd.Type == CmdReload {
			continue
		}
		select {
		case c.in <- cmd:
		case <-c.done:
			return
		}
	}
}

// runSession owns the session: every call into it happens here.
func (sv *Server) runSession(ctx context.Context, c *client) {
	s := viewer.New(sv.cfg, sv.cat)
	log := s.Logger()
	log.Info("session started", zap.String("remote", c.conn.RemoteAddr().String()))
	defer func() {
		if err := s.Dispose(); err != nil {
			log.Warn("dispose", zap.Error(err))
		}
		log.Info("session ended")
	}()

	pending := sv.startLoad(ctx, s)

	fps := sv.cfg.Server.FPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	start := time.Now()

	for {
		var loaded <-chan struct{}
		if pending != nil {
			loaded = pending.Done()
		}

		select {
		case <-ctx.Done():
			return
		case <-loaded:
			// already finished; LoadModel only installs the result
			err := s.LoadModel(ctx, pending)
			pending = nil
			if err != nil {
				if werr := c.write(Event{Type: EventError, Error: err.Error()}); werr != nil {
					return
				}
			}
		case <-c.reload:
			sv.manager.Invalidate(sv.cfg.Model.Path)
			pending = sv.startLoad(ctx, s)
			if err := c.write(Event{Type: CmdReload}); err != nil {
				return
			}
		case cmd, ok := <-c.in:
			if !ok {
				return
			}
			apply(s, cmd)
		case now := <-ticker.C:
			s.Frame(now.Sub(start))
			st := s.State()
			if err := c.write(Event{Type: EventFrame, State: &st}); err != nil {
				log.Debug("websocket write", zap.Error(err))
				return
			}
		}
	}
}

// startLoad begins loading the configured model for s. Without a model
// path the session only logs and stays empty and not ready.
func (sv *Server) startLoad(ctx context.Context, s *viewer.Session) *assets.Task {
	path := sv.cfg.Model.Path
	if path == "" {
		if err := s.Open(ctx, path, assets.Options{}); err != nil {
			s.Logger().Debug("no model to load", zap.Error(err))
		}
		return nil
	}
	return assets.Load(ctx, path, assets.Options{Manager: sv.manager, Geometry: sv.cfg.Model.Geometry})
}

// Event is one outbound message.
type Event struct {
	Type  string             `json:"type"`
	State *viewer.FrameState `json:"state,omitempty"`
	// Error describes a failed model load.
	Error string `json:"error,omitempty"`
}

func (c *client) write(ev Event) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(ev)
}

// apply routes one command to the session.
func apply(s *viewer.Session, cmd Command) {
	switch cmd.Type {
	case CmdResize:
		s.Resize(cmd.Width, cmd.Height)
	case CmdClick:
		s.Click(cmd.X, cmd.Y)
	case CmdLabel:
		s.ClickLabel(cmd.ID)
	case CmdMeasure:
		s.SetLabelSize(cmd.ID, cmd.LabelWidth, cmd.LabelHeight)
	case CmdExplode:
		s.Explode()
	case CmdImplode:
		s.Implode()
	case CmdToggle:
		s.Toggle()
	case CmdExitFocus:
		s.ExitFocus()
	case CmdZoom:
		s.Zoom(cmd.Sign)
	case CmdOrbit:
		s.Orbit(cmd.DX, cmd.DY)
	case CmdWheel:
		s.Wheel(cmd.Delta)
	default:
		s.Logger().Debug("unknown command", zap.String("type", cmd.Type))
	}
}
