package sim

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrRunning       = errors.New("sim: runner already running")
	ErrNoSession     = errors.New("sim: no such session")
	ErrSessionExists = errors.New("sim: session already exists")
)

// Frame is what a runner publishes after an emitted step.
type Frame struct {
	Step     int // completed steps in this run
	Total    int
	Time     float64
	Metric   float64
	Snapshot [][]float64
}

type Observer interface {
	OnFrame(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f Frame)

func (fn ObserverFunc) OnFrame(f Frame) { fn(f) }

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Config struct {
	Steps     int
	Diagonals bool
	Wrap      bool
	Delay     time.Duration
	// FrameSkip drops that many steps between emitted frames; the last step
	// is always emitted.
	FrameSkip int
}

func DefaultConfig() Config {
	return Config{
		Steps:     100,
		Diagonals: true,
		Wrap:      false,
	}
}

func (c Config) Validate() error {
	if c.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", c.Steps)
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative, got %s", c.Delay)
	}
	if c.FrameSkip < 0 {
		return fmt.Errorf("frame skip must not be negative, got %d", c.FrameSkip)
	}
	return nil
}

// emits reports whether step i (0-based) of n publishes a frame.
func (c Config) emits(i, n int) bool {
	return c.FrameSkip == 0 || i%(c.FrameSkip+1) == 0 || i == n-1
}

type Result struct {
	Steps   int
	History []float64
	Metrics map[string]float64
	Final   [][]float64
	Stopped bool
	Elapsed time.Duration
}
