package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/strafe/sim/component"
)

func main() {
	debug := flag.Bool("debug", false, "show debug counters in the HUD")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	levelName := flag.String("level", "", "level name in levels/ or a path to a level file")
	seed := flag.Uint64("seed", 1, "seed for weapon spread and recoil jitter")
	serve := flag.String("serve", "", "serve spectator snapshots over websocket on this address, e.g. :8080")
	replayPath := flag.String("replay", "", "replay file to show as a ghost")
	recordPath := flag.String("record", "", "save each finished run to this replay file")
	speed := flag.Float64("speed", 0, "developer speed multiplier (0 keeps the tuning file's)")
	gravity := flag.Float64("gravity", 0, "developer gravity multiplier (0 keeps the tuning file's)")
	mute := flag.Bool("mute", false, "disable audio")
	free := flag.Bool("free-cursor", false, "do not capture the mouse")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	opts := gameOptions{
		level:   *levelName,
		debug:   *debug,
		seed:    *seed,
		serve:   *serve,
		replay:  *replayPath,
		record:  *recordPath,
		audio:   !*mute,
		capture: !*free,
	}
	if *speed != 0 || *gravity != 0 {
		opts.hasDev = true
		opts.dev = component.DevMultipliers{Speed: *speed, Gravity: *gravity}.Sanitized()
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("strafe")
	ebiten.SetTPS(component.TickRate)

	game, err := NewGame(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}
