package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/engine"
	"github.com/milk9111/strafe/geom"
	"github.com/milk9111/strafe/sim/component"
)

// Terminals report key presses but not releases, so a key counts as held
// until its auto-repeat stops arriving.
const holdWindow = 150 * time.Millisecond

// Arrow keys turn by this many mouse counts per tick.
const turnCounts = 6.0

// cellX and cellZ are the metres covered by one terminal cell.
const (
	cellX = 0.5
	cellZ = 1.0
)

type hud struct {
	last component.HUDState
}

func (h *hud) PublishHUD(s component.HUDState) { h.last = s }

type Game struct {
	screen  tcell.Screen
	session *engine.Session
	stepper engine.Stepper
	hud     *hud

	held  map[rune]time.Time
	keys  map[tcell.Key]time.Time
	input component.InputSnapshot
	start time.Time
}

func NewGame(level string, seed uint64) (*Game, error) {
	session, err := engine.NewSession(engine.SessionConfig{Level: level, Seed: seed})
	if err != nil {
		return nil, err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	g := &Game{
		screen:  screen,
		session: session,
		hud:     &hud{},
		held:    make(map[rune]time.Time),
		keys:    make(map[tcell.Key]time.Time),
		start:   time.Now(),
	}
	session.SetSinks(engine.Sinks{HUD: g.hud})
	return g, nil
}

// handleInput records key presses and reports whether the player asked to quit.
func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		now := time.Now()
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyRune:
			r := ev.Rune()
			g.held[r] = now
			if r >= '1' && r <= '6' {
				g.input.SelectSlot = int(r - '0')
			}
			if r == 'x' {
				g.session.Controller.RequestRespawn()
			}
		default:
			g.keys[ev.Key()] = now
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return false
}

func (g *Game) down(r rune, now time.Time) bool {
	t, ok := g.held[r]
	return ok && now.Sub(t) < holdWindow
}

func (g *Game) keyDown(k tcell.Key, now time.Time) bool {
	t, ok := g.keys[k]
	return ok && now.Sub(t) < holdWindow
}

func (g *Game) sample(now time.Time) *component.InputSnapshot {
	s := &g.input
	s.Forward = g.down('w', now)
	s.Back = g.down('s', now)
	s.Left = g.down('a', now)
	s.Right = g.down('d', now)
	s.Jump = g.down(' ', now)
	s.Crouch = g.down('c', now)
	s.Prone = g.down('z', now)
	s.Fire = g.down('f', now)
	s.AltFire = g.down('v', now)
	s.Grapple = g.down('e', now)
	s.Reload = g.down('r', now)
	s.Dash = g.down('q', now)
	s.HoldBreath = g.down('b', now)

	switch {
	case g.keyDown(tcell.KeyLeft, now):
		s.MouseDX -= turnCounts
	case g.keyDown(tcell.KeyRight, now):
		s.MouseDX += turnCounts
	}
	switch {
	case g.keyDown(tcell.KeyUp, now):
		s.MouseDY -= turnCounts
	case g.keyDown(tcell.KeyDown, now):
		s.MouseDY += turnCounts
	}
	return s
}

func (g *Game) update(frame time.Duration) {
	now := time.Now()
	for n := g.stepper.Advance(frame); n > 0; n-- {
		g.session.Tick(g.sample(now), now.Sub(g.start))
	}
}

func (g *Game) draw() {
	g.screen.Clear()
	w, h := g.screen.Size()
	c := g.session.Controller
	pose := c.Pose()
	feet := pose.Position

	cell := func(p mgl64.Vec3) (int, int) {
		return w/2 + int(math.Floor((p.X()-feet.X())/cellX)), h/2 + int(math.Floor((p.Z()-feet.Z())/cellZ))
	}
	fill := func(b geom.AABB, r rune, style tcell.Style) {
		x0, y0 := cell(b.Min)
		x1, y1 := cell(b.Max)
		for y := max(y0, 0); y <= min(y1, h-2); y++ {
			for x := max(x0, 0); x <= min(x1, w-1); x++ {
				g.screen.SetContent(x, y, r, nil, style)
			}
		}
	}

	world := g.session.World
	for _, s := range world.Solids() {
		switch {
		case s.Max.Y() <= feet.Y()+0.01:
			fill(s, '.', tcell.StyleDefault.Foreground(tcell.ColorGray))
		case s.Max.Y() <= feet.Y()+component.DefaultConstants().MantleMaxHeight:
			fill(s, '+', tcell.StyleDefault.Foreground(tcell.ColorSilver))
		default:
			fill(s, '#', tcell.StyleDefault.Foreground(tcell.ColorWhite))
		}
	}
	for _, tr := range world.Triggers() {
		style := tcell.StyleDefault.Foreground(tcell.ColorYellow)
		if tr.Kind == component.ZoneHazard {
			style = tcell.StyleDefault.Foreground(tcell.ColorRed)
		}
		if tr.Disabled {
			style = tcell.StyleDefault.Foreground(tcell.ColorGray)
		}
		fill(tr.Box, '~', style)
	}
	for _, t := range world.Targets() {
		fill(t.Box, 'T', tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
	}
	for _, a := range world.Anchors() {
		x, y := cell(a)
		g.screen.SetContent(x, y, 'o', nil, tcell.StyleDefault.Foreground(tcell.ColorAqua))
	}
	pool := c.Projectiles()
	for i := range pool.Items {
		if p := &pool.Items[i]; p.Active {
			x, y := cell(p.Pos)
			g.screen.SetContent(x, y, '*', nil, tcell.StyleDefault.Foreground(tcell.ColorOrange))
		}
	}

	g.screen.SetContent(w/2, h/2, facing(pose.Yaw), nil, tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true))
	g.status(w, h)
	g.screen.Show()
}

// facing picks an arrow for yaw; yaw 0 looks toward -Z, which is up the screen.
func facing(yaw float64) rune {
	arrows := []rune{'^', '<', 'v', '>'}
	i := int(math.Round(yaw/(math.Pi/2))) % 4
	if i < 0 {
		i += 4
	}
	return arrows[i]
}

func (g *Game) status(w, h int) {
	s := g.hud.last
	ammo := "inf"
	if !s.Ammo.Unlimited {
		ammo = fmt.Sprintf("%d/%d", s.Ammo.Magazine, s.Ammo.Reserve)
	}
	line := fmt.Sprintf("%5.1f m/s %s %s %s hp %.0f kills %d", s.Speed, s.Stance, s.Weapon, ammo, s.Health, g.session.Kills())
	if s.WallRun {
		line += " wallrun"
	}
	if s.Grapple {
		line += " grapple"
	}
	style := tcell.StyleDefault.Reverse(true)
	for x, r := range []rune(line) {
		if x >= w {
			break
		}
		g.screen.SetContent(x, h-1, r, nil, style)
	}
}

func (g *Game) Run() {
	ticker := time.NewTicker(engine.Step * 2)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if g.handleInput(ev) {
				return
			}
		case now := <-ticker.C:
			g.update(now.Sub(last))
			last = now
			g.draw()
		}
	}
}

func main() {
	levelName := flag.String("level", "", "level name in levels/ or a path to a level file")
	seed := flag.Uint64("seed", 1, "seed for weapon spread and recoil jitter")
	flag.Parse()

	// The terminal owns stdout, so logs go to a file.
	logFile, err := os.OpenFile("strafe-tui.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		log.SetOutput(logFile)
		defer logFile.Close()
	}

	g, err := NewGame(*levelName, *seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer g.screen.Fini()
	g.Run()
}
