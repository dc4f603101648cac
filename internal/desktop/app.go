// Package desktop runs a viewer session in a native SDL2/OpenGL window.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/partview/internal/assets"
	"github.com/Faultbox/partview/internal/catalog"
	"github.com/Faultbox/partview/internal/config"
	"github.com/Faultbox/partview/internal/engine/input"
	"github.com/Faultbox/partview/internal/engine/overlay"
	"github.com/Faultbox/partview/internal/engine/render"
	"github.com/Faultbox/partview/internal/engine/window"
	"github.com/Faultbox/partview/internal/logger"
	"github.com/Faultbox/partview/internal/viewer"
)

// App is the desktop viewer.
type App struct {
	cfg *config.Config
	log *zap.Logger

	win     *window.Window
	input   *input.Input
	scene   *render.Scene
	ui      *render.UI
	overlay *overlay.Overlay
	pointer overlay.Pointer

	session *viewer.Session
	manager *assets.Manager
	watcher *assets.Watcher

	ctx     context.Context
	cancel  context.CancelFunc
	path    string
	pending *assets.Task

	// picked and changed are fed from the dialog and watcher goroutines;
	// the main loop drains them.
	picked  chan string
	changed chan string
}

// New opens the window and prepares the renderers.
func New(cfg *config.Config, cat *catalog.Catalog) (*App, error) {
	a := &App{
		cfg:     cfg,
		log:     logger.Named("desktop"),
		manager: assets.NewManager(),
		picked:  make(chan string, 1),
		changed: make(chan string, 1),
	}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	var err error
	a.win, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	if err := gl.Init(); err != nil {
		a.win.Close()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	a.log.Info("OpenGL initialized", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	a.scene, err = render.NewScene()
	if err != nil {
		a.win.Close()
		return nil, err
	}
	atlas := overlay.NewAtlas()
	a.ui, err = render.NewUI(atlas)
	if err != nil {
		a.scene.Close()
		a.win.Close()
		return nil, err
	}
	a.overlay = overlay.New(atlas)
	a.input = input.New()

	w, h := a.win.Size()
	a.session = viewer.New(cfg, cat, viewer.WithSize(w, h), viewer.WithReady(a.onReady))
	return a, nil
}

func (a *App) onReady(err error) {
	if err != nil {
		a.win.SetTitle(a.cfg.Window.Title)
		return
	}
	a.scene.Upload(a.session.Model())
	a.win.SetTitle(fmt.Sprintf("%s - %s", a.cfg.Window.Title, a.session.Model().Name))
}

// Open starts loading path in the background. The model replaces the current
// one when the load finishes.
func (a *App) Open(path string) {
	if path == "" {
		_ = a.session.Open(a.ctx, "", a.loadOptions())
		return
	}
	if a.path != path {
		a.watch(path)
	}
	a.path = path
	a.pending = assets.Load(a.ctx, path, a.loadOptions())
	a.log.Info("loading model", zap.String("path", path))
}

func (a *App) loadOptions() assets.Options {
	return assets.Options{Manager: a.manager, Geometry: a.cfg.Model.Geometry}
}

func (a *App) watch(path string) {
	if !a.cfg.Model.Watch {
		return
	}
	if a.watcher != nil {
		a.watcher.Close()
		a.watcher = nil
	}
	w, err := assets.Watch(path, a.manager, assets.DefaultDebounce, func(p string) {
		select {
		case a.changed <- p:
		default:
		}
	})
	if err != nil {
		a.log.Warn("model watch disabled", zap.Error(err))
		return
	}
	a.watcher = w
}

// OpenDialog shows the native file picker without blocking the frame loop.
func (a *App) OpenDialog() {
	go func() {
		filename, err := dialog.File().
			Filter("glTF models", "glb", "gltf").
			Filter("All files", "*").
			Title("Open model").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				a.log.Warn("file dialog", zap.Error(err))
			}
			return
		}
		select {
		case a.picked <- filename:
		default:
		}
	}()
}

// Run drives the frame loop until the window closes.
func (a *App) Run() error {
	start := time.Now()
	frames := 0
	fpsTimer := start

	a.log.Info("starting frame loop")
	for {
		if a.input.Update() {
			return nil
		}
		for _, ev := range a.input.Events() {
			a.handle(ev)
		}
		a.poll()

		a.session.Frame(time.Since(start))
		a.draw()
		a.win.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames))
			frames = 0
			fpsTimer = time.Now()
		}
	}
}

// poll consumes finished loads and requests from other goroutines.
func (a *App) poll() {
	select {
	case path := <-a.picked:
		a.Open(path)
	case path := <-a.changed:
		a.log.Info("model changed on disk", zap.String("path", path))
		a.Open(path)
	default:
	}

	if a.pending == nil {
		return
	}
	select {
	case <-a.pending.Done():
		task := a.pending
		a.pending = nil
		if err := a.session.LoadModel(a.ctx, task); err != nil {
			a.log.Warn("load failed", zap.Error(err))
		}
	default:
	}
}

func (a *App) handle(ev input.Event) {
	s := a.session
	switch ev.Type {
	case input.EventWindowResize:
		s.Resize(a.win.Size())

	case input.EventMouseMove:
		x, y := float32(ev.MouseX), float32(ev.MouseY)
		a.overlay.Hover(x, y)
		if dx, dy := a.pointer.Move(x, y); dx != 0 || dy != 0 {
			s.Orbit(dx, dy)
		}

	case input.EventMouseDown:
		if ev.Button == sdl.BUTTON_LEFT {
			a.pointer.Press(float32(ev.MouseX), float32(ev.MouseY))
		}

	case input.EventMouseUp:
		if ev.Button != sdl.BUTTON_LEFT {
			return
		}
		x, y := float32(ev.MouseX), float32(ev.MouseY)
		if a.pointer.Release(x, y) && !a.overlay.Click(s, x, y) {
			s.Click(x, y)
		}

	case input.EventWheel:
		s.Wheel(ev.Wheel)

	case input.EventDrop:
		a.Open(ev.Path)

	case input.EventKeyDown:
		switch ev.Key {
		case sdl.SCANCODE_E, sdl.SCANCODE_SPACE:
			s.Toggle()
		case sdl.SCANCODE_ESCAPE, sdl.SCANCODE_BACKSPACE:
			s.ExitFocus()
		case sdl.SCANCODE_EQUALS, sdl.SCANCODE_KP_PLUS:
			s.Zoom(1)
		case sdl.SCANCODE_MINUS, sdl.SCANCODE_KP_MINUS:
			s.Zoom(-1)
		case sdl.SCANCODE_O:
			a.OpenDialog()
		case sdl.SCANCODE_R:
			if a.path != "" {
				a.manager.Invalidate(a.path)
				a.Open(a.path)
			}
		case sdl.SCANCODE_F:
			s.FitCamera()
		}
	}
}

func (a *App) draw() {
	s := a.session
	dw, dh := a.win.DrawableSize()
	w, h := a.win.Size()

	a.scene.Draw(s.Model(), s.Camera().ViewProjection(), dw, dh, s.Focus().Focused())

	a.overlay.Update(s)
	a.ui.Begin(w, h)
	a.overlay.Draw(a.ui)
	a.ui.End()
}

// Close releases everything the app owns.
func (a *App) Close() {
	a.log.Info("closing viewer")
	a.cancel()
	if err := a.session.Dispose(); err != nil {
		a.log.Debug("dispose", zap.Error(err))
	}
	if a.watcher != nil {
		a.watcher.Close()
	}
	a.manager.Close()
	if a.ui != nil {
		a.ui.Close()
	}
	if a.scene != nil {
		a.scene.Close()
	}
	if a.win != nil {
		a.win.Close()
	}
}
