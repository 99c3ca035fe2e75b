package config

import "sort"

var Presets = map[string]map[string]*Config{
	"heat": {
		"spot": {
			Model: "heat", Width: 21, Height: 21, Steps: 200, Diagonals: true,
			Params: map[string]float64{"diffusivity": 0.2, "dt": 1.0},
			Cells:  []Cell{{Row: 10, Col: 10, Value: 1000}},
		},
		"wall": {
			Model: "heat", Width: 40, Height: 20, Steps: 400, Diagonals: true,
			Params:    map[string]float64{"diffusivity": 0.2, "dt": 1.0},
			Blocks:    []Block{{Rect: Rect{R1: 0, C1: 0, R2: 19, C2: 4}, Value: 100}},
			Obstacles: []Rect{{R1: 0, C1: 20, R2: 14, C2: 20}},
		},
		"torus": {
			Model: "heat", Width: 30, Height: 30, Steps: 300, Wrap: true,
			Params: map[string]float64{"diffusivity": 0.1, "dt": 2.0},
			Blocks: []Block{{Rect: Rect{R1: 0, C1: 0, R2: 4, C2: 4}, Value: 50}},
		},
	},
	"ripple": {
		"pulse": {
			Model: "ripple", Width: 41, Height: 21, Steps: 30, Diagonals: true, Delay: "50ms",
			Cells: []Cell{{Row: 10, Col: 20, Value: 1}},
		},
		"binary": {
			Model: "ripple", Width: 41, Height: 21, Steps: 40, Wrap: true,
			ValidValues: []float64{0, 1},
			Cells:       []Cell{{Row: 5, Col: 5, Value: 1}, {Row: 15, Col: 30, Value: 1}},
		},
		"maze": {
			Model: "ripple", Width: 30, Height: 15, Steps: 60, Diagonals: false,
			Cells:     []Cell{{Row: 7, Col: 2, Value: 1}},
			Obstacles: []Rect{{R1: 0, C1: 10, R2: 10, C2: 10}, {R1: 4, C1: 20, R2: 14, C2: 20}},
		},
	},
	"average": {
		"block": {
			Model: "average", Width: 20, Height: 20, Steps: 20,
			Blocks: []Block{{Rect: Rect{R1: 8, C1: 8, R2: 11, C2: 11}, Value: 9}},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
