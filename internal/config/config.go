package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/gridsim/internal/experiment"
	"github.com/san-kum/gridsim/internal/sim"
	"github.com/san-kum/gridsim/internal/stencil"
)

const (
	DefaultModel  = "heat"
	DefaultWidth  = 40
	DefaultHeight = 20
	DefaultSteps  = 200
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Model       string             `yaml:"model"`
	Width       int                `yaml:"width"`
	Height      int                `yaml:"height"`
	Steps       int                `yaml:"steps"`
	Diagonals   bool               `yaml:"diagonals"`
	Wrap        bool               `yaml:"wrap"`
	Delay       string             `yaml:"delay,omitempty"`
	FrameSkip   int                `yaml:"frame_skip,omitempty"`
	Params      map[string]float64 `yaml:"params,omitempty"`
	ValidValues []float64          `yaml:"valid_values,omitempty"`
	Cells       []Cell             `yaml:"cells,omitempty"`
	Blocks      []Block            `yaml:"blocks,omitempty"`
	Obstacles   []Rect             `yaml:"obstacles,omitempty"`
}

type Cell struct {
	Row   int     `yaml:"row"`
	Col   int     `yaml:"col"`
	Value float64 `yaml:"value"`
}

// Rect is an inclusive cell rectangle; corners may come in any order.
type Rect struct {
	R1 int `yaml:"r1"`
	C1 int `yaml:"c1"`
	R2 int `yaml:"r2"`
	C2 int `yaml:"c2"`
}

type Block struct {
	Rect  `yaml:",inline"`
	Value float64 `yaml:"value"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:     DefaultModel,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Steps:     DefaultSteps,
		Diagonals: true,
		Params:    make(map[string]float64),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) DelayDuration() (time.Duration, error) {
	if c.Delay == "" {
		return 0, nil
	}
	return time.ParseDuration(c.Delay)
}

// DelayDurationOr returns the configured delay, or fallback when it is unset
// or unparsable.
func (c *Config) DelayDurationOr(fallback time.Duration) time.Duration {
	d, err := c.DelayDuration()
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate checks shape and run settings. Model parameters are checked when
// the model is instantiated.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("%w: model is required", ErrInvalid)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: grid must be at least 1x1, got %dx%d", ErrInvalid, c.Width, c.Height)
	}
	if _, err := c.DelayDuration(); err != nil {
		return fmt.Errorf("%w: delay: %v", ErrInvalid, err)
	}
	rc, _ := c.RunConfig()
	if err := rc.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func (c *Config) RunConfig() (sim.Config, error) {
	delay, err := c.DelayDuration()
	if err != nil {
		return sim.Config{}, err
	}
	return sim.Config{
		Steps:     c.Steps,
		Diagonals: c.Diagonals,
		Wrap:      c.Wrap,
		Delay:     delay,
		FrameSkip: c.FrameSkip,
	}, nil
}

// ExperimentConfig maps the file layout onto an experiment whose Init hook
// applies the initial conditions.
func (c *Config) ExperimentConfig() (experiment.Config, error) {
	rc, err := c.RunConfig()
	if err != nil {
		return experiment.Config{}, err
	}
	return experiment.Config{
		Model:       c.Model,
		Width:       c.Width,
		Height:      c.Height,
		Params:      c.Params,
		ValidValues: c.ValidValues,
		Run:         rc,
		Init:        c.Apply,
	}, nil
}

// Apply writes the initial conditions: cells, then blocks, then obstacles.
func (c *Config) Apply(e *stencil.Engine) error {
	for _, cell := range c.Cells {
		if err := e.SetValue(cell.Row, cell.Col, cell.Value); err != nil {
			return err
		}
	}
	for _, b := range c.Blocks {
		if err := e.SetValueBlock(b.R1, b.C1, b.R2, b.C2, b.Value); err != nil {
			return err
		}
	}
	for _, o := range c.Obstacles {
		e.SetObstacleRect(o.R1, o.C1, o.R2, o.C2)
	}
	return nil
}

func (c *Config) Clone() *Config {
	out := *c
	out.Params = make(map[string]float64, len(c.Params))
	for k, v := range c.Params {
		out.Params[k] = v
	}
	out.ValidValues = append([]float64(nil), c.ValidValues...)
	out.Cells = append([]Cell(nil), c.Cells...)
	out.Blocks = append([]Block(nil), c.Blocks...)
	out.Obstacles = append([]Rect(nil), c.Obstacles...)
	return &out
}
