package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/gridsim/internal/sim"
)

var ErrEmptyResult = errors.New("storage: result has no final field")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Timestamp time.Time          `json:"timestamp"`
	Width     int                `json:"width"`
	Height    int                `json:"height"`
	Steps     int                `json:"steps"`
	Diagonals bool               `json:"diagonals"`
	Wrap      bool               `json:"wrap"`
	Stopped   bool               `json:"stopped"`
	Params    map[string]float64 `json:"params,omitempty"`
	Metrics   map[string]float64 `json:"metrics"`
}

// RunRecord is everything persisted for one finished run.
type RunRecord struct {
	Model     string
	Params    map[string]float64
	Config    sim.Config
	Result    *sim.Result
	Obstacles [][]bool
}

func (s *Store) Save(rec RunRecord) (string, error) {
	if rec.Result == nil || len(rec.Result.Final) == 0 {
		return "", ErrEmptyResult
	}

	runID, runDir, err := s.newRunDir(rec.Model)
	if err != nil {
		return "", err
	}

	final := rec.Result.Final
	meta := RunMetadata{
		ID:        runID,
		Model:     rec.Model,
		Timestamp: time.Now(),
		Width:     len(final[0]),
		Height:    len(final),
		Steps:     rec.Result.Steps,
		Diagonals: rec.Config.Diagonals,
		Wrap:      rec.Config.Wrap,
		Stopped:   rec.Result.Stopped,
		Params:    rec.Params,
		Metrics:   rec.Result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	history := make([][]string, 0, len(rec.Result.History)+1)
	history = append(history, []string{"step", "metric"})
	for i, v := range rec.Result.History {
		history = append(history, []string{strconv.Itoa(i), formatFloat(v)})
	}
	if err := writeCSV(filepath.Join(runDir, "history.csv"), history); err != nil {
		return "", err
	}

	rows := make([][]string, len(final))
	for r, row := range final {
		rows[r] = make([]string, len(row))
		for c, v := range row {
			rows[r][c] = formatFloat(v)
		}
	}
	if err := writeCSV(filepath.Join(runDir, "final.csv"), rows); err != nil {
		return "", err
	}

	if obstacles := obstacleRecords(rec.Obstacles); len(obstacles) > 1 {
		if err := writeCSV(filepath.Join(runDir, "obstacles.csv"), obstacles); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) newRunDir(model string) (string, string, error) {
	base := fmt.Sprintf("%s_%d", model, time.Now().Unix())
	runID := base
	for i := 2; ; i++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if os.IsNotExist(err) {
			if err := s.Init(); err != nil {
				return "", "", err
			}
			continue
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, i)
	}
}

// List returns saved runs, newest first. Unreadable entries are skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadHistory returns the metric series indexed by step.
func (s *Store) LoadHistory(runID string) ([]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []float64{}, nil
	}

	history := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("history %s: %w", runID, err)
		}
		history = append(history, v)
	}
	return history, nil
}

// LoadSnapshot returns the final logical field of a run.
func (s *Store) LoadSnapshot(runID string) ([][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "final.csv"))
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, len(records))
	for r, record := range records {
		rows[r] = make([]float64, len(record))
		for c, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("snapshot %s: row %d: %w", runID, r, err)
			}
			rows[r][c] = v
		}
	}
	return rows, nil
}

// LoadObstacles returns the saved obstacle mask, or nil when the run had none.
func (s *Store) LoadObstacles(runID string, width, height int) ([][]bool, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, "obstacles.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	mask := make([][]bool, height)
	for r := range mask {
		mask[r] = make([]bool, width)
	}
	if len(records) < 2 {
		return mask, nil
	}
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		r, err1 := strconv.Atoi(record[0])
		c, err2 := strconv.Atoi(record[1])
		if err := errors.Join(err1, err2); err != nil {
			return nil, fmt.Errorf("obstacles %s: %w", runID, err)
		}
		if r >= 0 && r < height && c >= 0 && c < width {
			mask[r][c] = true
		}
	}
	return mask, nil
}

func obstacleRecords(mask [][]bool) [][]string {
	records := [][]string{{"row", "col"}}
	for r, row := range mask {
		for c, blocked := range row {
			if blocked {
				records = append(records, []string{strconv.Itoa(r), strconv.Itoa(c)})
			}
		}
	}
	return records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
