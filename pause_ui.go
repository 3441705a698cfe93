package main

import (
	"fmt"
	"image/color"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// devStep scales a developer multiplier per click.
const devStep = 1.25

// NewPauseUI builds the pause panel: resume, the speed and gravity
// multipliers, respawn, run recording and quit. The returned text shows the
// current multipliers and is refreshed while paused.
func NewPauseUI(g *Game) (*ebitenui.UI, *widget.Text) {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x55, G: 0x55, B: 0x55, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	text := func(label string) *widget.Text {
		return widget.NewText(widget.TextOpts.Text(label, &face, white), widget.TextOpts.WidgetOpts(center))
	}
	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}
	stepper := func(label string, down, up func()) *widget.Container {
		c := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
			)),
			widget.ContainerOpts.WidgetOpts(center),
		)
		c.AddChild(text(label))
		c.AddChild(button("-", down))
		c.AddChild(button("+", up))
		return c
	}

	scaleDev := func(speed, gravity float64) func() {
		return func() {
			c := g.session.Controller
			m := c.Dev()
			m.Speed *= speed
			m.Gravity *= gravity
			c.SetDevMultipliers(m)
		}
	}

	status := text("")

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth/3, baseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(text("Paused"))
	panel.AddChild(status)
	panel.AddChild(button("Resume", func() { g.setPaused(false) }))
	panel.AddChild(stepper("Speed", scaleDev(1/devStep, 1), scaleDev(devStep, 1)))
	panel.AddChild(stepper("Gravity", scaleDev(1, 1/devStep), scaleDev(1, devStep)))
	panel.AddChild(button("Reset multipliers", func() {
		g.session.Controller.SetDevMultipliers(g.session.Bundle().Tuning.Dev)
	}))
	panel.AddChild(button("Respawn", func() {
		g.session.Controller.RequestRespawn()
		g.setPaused(false)
	}))
	panel.AddChild(button("Start / stop run", g.toggleRun))
	panel.AddChild(button("Quit", func() { g.quit = true }))

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}, status
}

func (g *Game) refreshPanel() {
	if g.status == nil {
		return
	}
	c := g.session.Controller
	dev := c.Dev()
	run := "idle"
	if c.Recording() {
		run = fmt.Sprintf("recording %d frames", g.rec.Len())
	}
	g.status.Label = fmt.Sprintf("speed x%.2f   gravity x%.2f   run %s", dev.Speed, dev.Gravity, run)
}
