package main

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/engine"
	"github.com/milk9111/strafe/geom"
	"github.com/milk9111/strafe/sim/component"
	"golang.org/x/image/colornames"
)

// Draw renders a top-down view centred on the player: X to the right and
// -Z (yaw 0) up the screen.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Black)

	c := g.session.Controller
	pose := c.Pose()
	center := pose.Position
	toScreen := func(p mgl64.Vec3) (float32, float32) {
		return float32((p.X()-center.X())*g.zoom + baseWidth/2), float32((p.Z()-center.Z())*g.zoom + baseHeight/2)
	}
	box := func(b geom.AABB, fill, stroke color.Color) {
		x, y := toScreen(b.Min)
		w := float32((b.Max.X() - b.Min.X()) * g.zoom)
		h := float32((b.Max.Z() - b.Min.Z()) * g.zoom)
		if fill != nil {
			vector.FillRect(screen, x, y, w, h, fill, false)
		}
		if stroke != nil {
			vector.StrokeRect(screen, x, y, w, h, 1, stroke, false)
		}
	}

	w := g.session.World
	for _, s := range w.Solids() {
		box(s, solidColor(s, pose.Position.Y()), colornames.Dimgray)
	}
	for _, tr := range w.Triggers() {
		clr := triggerColor(tr.Kind, tr.Scripted)
		if tr.Disabled {
			clr = colornames.Gray
		}
		box(tr.Box, nil, clr)
	}
	for _, t := range w.Targets() {
		box(t.Box, colornames.Crimson, nil)
	}
	for _, a := range w.Anchors() {
		x, y := toScreen(a)
		vector.StrokeCircle(screen, x, y, 4, 1, colornames.Lightgrey, true)
	}

	for i := range c.Projectiles().Items {
		p := &c.Projectiles().Items[i]
		if !p.Active {
			continue
		}
		x, y := toScreen(p.Pos)
		vector.FillCircle(screen, x, y, 3, colornames.Orange, true)
	}

	px, py := toScreen(pose.Position)
	if st := c.State(); st.Grapple.Attached {
		ax, ay := toScreen(st.Grapple.Anchor)
		vector.StrokeLine(screen, px, py, ax, ay, 2, colornames.Lightgrey, true)
	}
	if g.ghost != nil {
		if gp, ok := g.ghost.Sample(time.Duration(c.TickCount()-g.runTick) * engine.Step); ok {
			gx, gy := toScreen(gp.Position)
			vector.FillCircle(screen, gx, gy, float32(0.4*g.zoom), color.NRGBA{R: 0x90, G: 0xee, B: 0x90, A: 0x80}, true)
		}
	}
	vector.FillCircle(screen, px, py, float32(0.4*g.zoom), colornames.Deepskyblue, true)
	fwd := common.FlatForward(pose.Yaw).Mul(1.5)
	fx, fy := toScreen(pose.Position.Add(fwd))
	vector.StrokeLine(screen, px, py, fx, fy, 2, colornames.White, true)

	ebitenutil.DebugPrint(screen, g.hudText())

	if g.paused {
		g.ui.Draw(screen)
	}
}

func solidColor(b geom.AABB, eyeY float64) color.Color {
	switch {
	case b.Max.Y() <= eyeY+0.01:
		return colornames.Darkslategray
	case b.Max.Y() <= eyeY+2:
		return colornames.Slategray
	default:
		return colornames.Lightslategray
	}
}

func triggerColor(k component.ZoneKind, scripted bool) color.Color {
	if scripted {
		return colornames.Mediumorchid
	}
	switch k {
	case component.ZoneBoostPad:
		return colornames.Gold
	case component.ZoneLaunchPad:
		return colornames.Lime
	case component.ZoneSpeedGate:
		return colornames.Aqua
	case component.ZoneAmmoPickup:
		return colornames.Khaki
	case component.ZoneHazard:
		return colornames.Orangered
	}
	return colornames.White
}

func (g *Game) hudText() string {
	h := g.hud.hud
	c := g.session.Controller
	var b strings.Builder
	fmt.Fprintf(&b, "TPS %.0f  FPS %.0f  tick %d\n", ebiten.ActualTPS(), ebiten.ActualFPS(), c.TickCount())
	fmt.Fprintf(&b, "speed %5.2f  h %5.2f  pos %.2f %.2f %.2f\n", h.Speed, c.HorizontalSpeed(), h.Position.X(), h.Position.Y(), h.Position.Z())
	fmt.Fprintf(&b, "%s  grounded %v  health %.0f\n", h.Stance, h.Grounded, h.Health)
	ammo := "inf"
	if !h.Ammo.Unlimited {
		ammo = fmt.Sprintf("%d/%d", h.Ammo.Magazine, h.Ammo.Reserve)
	}
	fmt.Fprintf(&b, "%s %s  ads %.2f  scope %.2f  inspect %.2f\n", h.Weapon, ammo, h.ADS, h.Scope, h.Inspect)

	var flags []string
	if h.WallRun {
		flags = append(flags, "wallrun")
	}
	if h.Grapple {
		flags = append(flags, "grapple")
	}
	if h.Bhop {
		flags = append(flags, "bhop")
	}
	if c.Recording() {
		flags = append(flags, fmt.Sprintf("run %.2fs", float64(c.TickCount()-g.runTick)*component.Dt))
	}
	fmt.Fprintf(&b, "%s  kills %d\n", strings.Join(flags, " "), g.session.Kills())

	if g.opts.debug {
		dev := c.Dev()
		st := c.State()
		fmt.Fprintf(&b, "dev speed x%.2f gravity x%.2f  grace %d  yaw %.1f pitch %.1f\n",
			dev.Speed, dev.Gravity, st.GraceTicks, mgl64.RadToDeg(c.Pose().Yaw), mgl64.RadToDeg(c.Pose().Pitch))
		if g.bcast != nil {
			sent, dropped := g.bcast.Stats()
			fmt.Fprintf(&b, "spectators %d  sent %d  dropped %d\n", g.bcast.Spectators(), sent, dropped)
		}
		if g.synth != nil {
			played, dropped := g.synth.Stats()
			fmt.Fprintf(&b, "voices %d  played %d  dropped %d\n", g.synth.Active(), played, dropped)
		}
		zones, zoneCap := c.PendingZones()
		fmt.Fprintf(&b, "hud publishes %d  zone queue %d/%d\n", g.hud.published, zones, zoneCap)
	}
	if time.Now().Before(g.messageUntil) {
		b.WriteString(g.message)
		b.WriteByte('\n')
	}
	return b.String()
}
