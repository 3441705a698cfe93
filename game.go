package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/strafe/audio"
	"github.com/milk9111/strafe/engine"
	"github.com/milk9111/strafe/netsync"
	"github.com/milk9111/strafe/prefabs"
	"github.com/milk9111/strafe/replay"
	"github.com/milk9111/strafe/sim/component"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

var errQuit = errors.New("quit")

type gameOptions struct {
	level   string
	debug   bool
	seed    uint64
	serve   string
	replay  string
	record  string
	dev     component.DevMultipliers
	hasDev  bool
	audio   bool
	capture bool
}

// hudBoard keeps the latest throttled HUD for Draw.
type hudBoard struct {
	hud       component.HUDState
	published int
}

func (h *hudBoard) PublishHUD(hud component.HUDState) {
	h.hud = hud
	h.published++
}

type Game struct {
	session *engine.Session
	input   *Input
	hud     *hudBoard
	synth   *audio.Synth
	bcast   *netsync.Broadcaster
	rec     *replay.Recording
	ghost   *replay.Recording
	watcher *prefabs.Watcher

	ui     *ebitenui.UI
	status *widget.Text

	opts      gameOptions
	start     time.Time
	runTick   uint64
	paused    bool
	quit      bool
	clipboard bool
	zoom      float64

	message      string
	messageUntil time.Time
}

func NewGame(opts gameOptions) (*Game, error) {
	g := &Game{
		input: NewInput(),
		hud:   &hudBoard{},
		opts:  opts,
		start: time.Now(),
		zoom:  12,
	}

	cfg := engine.SessionConfig{Level: opts.level, Seed: opts.seed}
	if opts.hasDev {
		cfg.Dev = &opts.dev
	}
	session, err := engine.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	g.session = session
	g.rec = replay.New(session.Level.Name, opts.seed)

	sinks := engine.Sinks{HUD: g.hud, Recorder: g.rec}
	if opts.audio {
		g.synth = audio.NewSynth()
		if err := g.synth.Initialize(); err != nil {
			log.Printf("audio disabled: %v", err)
		}
		sinks.Events = g.synth
	}
	if opts.serve != "" {
		g.bcast = netsync.NewBroadcaster(nil)
		sinks.Network = g.bcast
		mux := http.NewServeMux()
		mux.Handle("/ws", g.bcast)
		go func() {
			log.Printf("spectators: ws://%s/ws", opts.serve)
			if err := http.ListenAndServe(opts.serve, mux); err != nil {
				log.Printf("spectator server: %v", err)
			}
		}()
	}
	session.SetSinks(sinks)

	if opts.replay != "" {
		ghost, err := replay.LoadFile(opts.replay)
		if err != nil {
			log.Printf("failed to load replay %s: %v", opts.replay, err)
		} else {
			g.ghost = ghost
		}
	}

	if w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts")); err != nil {
		log.Printf("hot reload disabled: %v", err)
	} else {
		g.watcher = w
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard disabled: %v", err)
	} else {
		g.clipboard = true
	}

	g.ui, g.status = NewPauseUI(g)
	g.input.SetCaptured(opts.capture)
	return g, nil
}

func (g *Game) Update() error {
	if g.quit {
		return errQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	g.pollReload()

	if g.paused {
		g.refreshPanel()
		g.ui.Update()
		return nil
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		g.session.Controller.RequestRespawn()
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		g.toggleRun()
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copySnapshot()
	case inpututil.IsKeyJustPressed(ebiten.KeyF3):
		g.opts.debug = !g.opts.debug
	}
	if _, wy := ebiten.Wheel(); wy != 0 && ebiten.IsKeyPressed(ebiten.KeyAltLeft) {
		g.zoom = min(max(g.zoom*(1+0.1*wy), 3), 60)
	}

	g.session.Tick(g.input.Update(), time.Since(g.start))
	return nil
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	g.input.SetCaptured(!paused && g.opts.capture)
}

func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			changed, err := g.session.Reload(path)
			switch {
			case err != nil:
				log.Printf("reload %s: %v", path, err)
				g.flash("reload failed: " + filepath.Base(path))
			case changed:
				g.flash("reloaded " + filepath.Base(path))
			}
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("watcher: %v", err)
			}
			return
		default:
			return
		}
	}
}

func (g *Game) toggleRun() {
	c := g.session.Controller
	if c.Recording() {
		c.StopRun()
		g.flash(fmt.Sprintf("run stopped: %d frames", g.rec.Len()))
		if g.opts.record != "" {
			if err := g.rec.SaveFile(g.opts.record); err != nil {
				log.Printf("save replay: %v", err)
				g.flash("replay not saved")
			}
		}
		return
	}
	g.rec.Reset()
	g.runTick = c.TickCount()
	c.StartRun()
	g.flash("run started")
}

func (g *Game) copySnapshot() {
	if !g.clipboard {
		return
	}
	c := g.session.Controller
	text, err := netsync.EncodeString(netsync.NewSnapshot(c.TickCount(), c.Pose(), c.Body().Velocity))
	if err != nil {
		log.Print(err)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	g.flash("pose copied")
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.messageUntil = time.Now().Add(2 * time.Second)
}

// Close releases the host's background resources.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.bcast != nil {
		g.bcast.Close()
	}
	if g.synth != nil {
		g.synth.Close()
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
