package sim

// Scratch holds the reusable buffers a tick needs so that steady-state ticks
// do not allocate. Small vectors and rays are passed by value instead.
type Scratch struct {
	Splash []SplashTarget
}

func NewScratch() *Scratch {
	return &Scratch{Splash: make([]SplashTarget, 0, 32)}
}
