package world

import (
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/strafe/common"
	"github.com/milk9111/strafe/levels"
	"github.com/milk9111/strafe/prefabs"
	"github.com/milk9111/strafe/sim/component"
)

const (
	phaseEnter = "enter"
	phaseStay  = "stay"
	phaseExit  = "exit"
)

const triggerDispatchScript = `
if __phase == "enter" {
	on_enter(__engine, __state)
} else if __phase == "stay" {
	on_stay(__engine, __state)
} else if __phase == "exit" {
	on_exit(__engine, __state)
}
`

// scriptRuntime runs one trigger's tengo handlers. The first failure is
// logged and disables the trigger for the rest of the level.
type scriptRuntime struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	engine   *tengo.ImmutableMap
	logger   *log.Logger
	disabled bool

	// Per-run context read by the engine functions.
	probe  Probe
	sink   ZoneSink
	pushed int
}

func newScriptRuntime(t levels.Trigger, logger *log.Logger) (*scriptRuntime, error) {
	src, err := prefabs.LoadScript(t.Script)
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", t.Script, err)
	}

	rt := &scriptRuntime{
		name:   t.Name,
		state:  &tengo.Map{Value: map[string]tengo.Object{}},
		logger: logger,
	}
	rt.engine = rt.buildEngine(t.Props)

	script := tengo.NewScript([]byte(string(src) + "\n" + triggerDispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		rt.fail(err)
		return rt, nil
	}
	rt.compiled = compiled
	return rt, nil
}

func (rt *scriptRuntime) fail(err error) {
	rt.disabled = true
	rt.logger.Printf("world: trigger %q script error: %v", rt.name, err)
}

// run executes one phase and returns how many zone events it pushed.
func (rt *scriptRuntime) run(phase string, probe Probe, sink ZoneSink) int {
	if rt == nil || rt.disabled || rt.compiled == nil {
		return 0
	}
	rt.probe = probe
	rt.sink = sink
	rt.pushed = 0

	err := rt.compiled.Set("__phase", phase)
	if err == nil {
		err = rt.compiled.Set("__engine", rt.engine)
	}
	if err == nil {
		err = rt.compiled.Set("__state", rt.state)
	}
	if err == nil {
		err = rt.compiled.Run()
	}
	if err != nil {
		rt.fail(err)
	}
	rt.sink = nil
	return rt.pushed
}

func (rt *scriptRuntime) push(evt component.ZoneEvent) tengo.Object {
	if rt.sink == nil || !rt.sink.PushZone(evt) {
		return tengo.FalseValue
	}
	rt.pushed++
	return tengo.TrueValue
}

func (rt *scriptRuntime) buildEngine(props map[string]any) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	fn := func(name string, f tengo.CallableFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("boost", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := floats("boost", args, 2)
		if err != nil {
			return nil, err
		}
		dir := common.NormalizeOr(mgl64.Vec3{v[0], 0, v[1]}, mgl64.Vec3{0, 0, -1})
		return rt.push(component.BoostPad(dir)), nil
	})
	fn("launch", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := floats("launch", args, 3)
		if err != nil {
			return nil, err
		}
		return rt.push(component.LaunchPad(mgl64.Vec3{v[0], v[1], v[2]})), nil
	})
	fn("speed_gate", func(args ...tengo.Object) (tengo.Object, error) {
		return rt.push(component.SpeedGate()), nil
	})
	fn("ammo", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, _ := tengo.ToString(args[0])
		kind, ok := component.ParseWeaponKind(name)
		if !ok {
			return nil, fmt.Errorf("ammo: unknown weapon %q", name)
		}
		amount, ok := tengo.ToInt(args[1])
		if !ok {
			return nil, fmt.Errorf("ammo: amount must be a number")
		}
		return rt.push(component.AmmoPickup(kind, amount)), nil
	})
	fn("ammo_all", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		amount, ok := tengo.ToInt(args[0])
		if !ok {
			return nil, fmt.Errorf("ammo_all: amount must be a number")
		}
		return rt.push(component.AmmoPickupAll(amount)), nil
	})
	fn("hazard", func(args ...tengo.Object) (tengo.Object, error) {
		v, err := floats("hazard", args, 1)
		if err != nil {
			return nil, err
		}
		return rt.push(component.Hazard(v[0])), nil
	})
	fn("time", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: rt.probe.Now}, nil
	})
	fn("speed", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: rt.probe.Velocity.Len()}, nil
	})
	fn("position", func(args ...tengo.Object) (tengo.Object, error) {
		p := rt.probe.Feet
		return &tengo.Array{Value: []tengo.Object{
			&tengo.Float{Value: p.X()}, &tengo.Float{Value: p.Y()}, &tengo.Float{Value: p.Z()},
		}}, nil
	})
	fn("prop", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		key, _ := tengo.ToString(args[0])
		if v, ok := props[strings.TrimSpace(key)]; ok {
			return tengo.FromInterface(v)
		}
		if len(args) > 1 {
			return args[1], nil
		}
		return tengo.UndefinedValue, nil
	})
	fn("log", func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, len(args))
		for i, a := range args {
			parts[i], _ = tengo.ToString(a)
		}
		rt.logger.Printf("world: trigger %q: %s", rt.name, strings.Join(parts, " "))
		return tengo.UndefinedValue, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

func floats(name string, args []tengo.Object, n int) ([]float64, error) {
	if len(args) != n {
		return nil, tengo.ErrWrongNumArguments
	}
	out := make([]float64, n)
	for i, a := range args {
		v, ok := tengo.ToFloat64(a)
		if !ok {
			return nil, fmt.Errorf("%s: argument %d must be a number", name, i+1)
		}
		out[i] = v
	}
	return out, nil
}
