package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Model     string             `json:"model"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Steps     int                `json:"steps"`
	Diagonals bool               `json:"diagonals"`
	Wrap      bool               `json:"wrap"`
	Stopped   bool               `json:"stopped"`
	Params    map[string]float64 `json:"params,omitempty"`
	History   []float64          `json:"history"`
	Final     [][]float64        `json:"final"`
	Obstacles [][]bool           `json:"obstacles,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

func NewExportData(rec RunRecord) ExportData {
	data := ExportData{
		Model:     rec.Model,
		Diagonals: rec.Config.Diagonals,
		Wrap:      rec.Config.Wrap,
		Params:    rec.Params,
		Obstacles: rec.Obstacles,
	}
	if res := rec.Result; res != nil {
		data.Steps = res.Steps
		data.Stopped = res.Stopped
		data.History = res.History
		data.Final = res.Final
		data.Metrics = res.Metrics
		if len(res.Final) > 0 {
			data.Height = len(res.Final)
			data.Width = len(res.Final[0])
		}
	}
	return data
}

// ExportJSON writes rec as indented JSON.
func ExportJSON(w io.Writer, rec RunRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewExportData(rec))
}
