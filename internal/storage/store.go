package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"spinmc/internal/mc"
)

// Store persists completed runs under a base directory, one subdirectory per
// run holding metadata.json, trace.csv, and snapshot.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                  string    `json:"id"`
	Mode                string    `json:"mode"`
	Timestamp           time.Time `json:"timestamp"`
	Seed                int64     `json:"seed"`
	Sweeps              int       `json:"sweeps"`
	EquilibrationSweeps int       `json:"equilibration_sweeps"`
	SampleInterval      int       `json:"sample_interval"`
	Temperature         float64   `json:"temperature"`
	NumSites            int       `json:"num_sites"`
	Samples             int       `json:"samples"`
	Energy              float64   `json:"energy"`
	Magnetization       float64   `json:"magnetization"`
	AcceptanceRate      float64   `json:"acceptance_rate"`
}

func (s *Store) Save(mode string, cfg mc.Config, numSites int, result *mc.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", mode, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:                  runID,
		Mode:                mode,
		Timestamp:           time.Now(),
		Seed:                cfg.Seed,
		Sweeps:              cfg.Sweeps,
		EquilibrationSweeps: cfg.EquilibrationSweeps,
		SampleInterval:      cfg.SampleInterval,
		Temperature:         cfg.Temperature,
		NumSites:            numSites,
		Samples:             len(result.Trace),
		Energy:              result.Estimators.Energy,
		Magnetization:       result.Estimators.Magnetization,
		AcceptanceRate:      result.AcceptanceRate(),
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	tracePath := filepath.Join(runDir, "trace.csv")
	if err := writeTrace(tracePath, result.Trace); err != nil {
		return "", err
	}

	if len(result.FinalState) > 0 {
		snapshotPath := filepath.Join(runDir, "snapshot.csv")
		if err := WriteSnapshot(snapshotPath, result.FinalState); err != nil {
			return "", err
		}
	}

	return runID, nil
}

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

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadTrace reads a stored sample trace and returns the column header and
// one row of values per sample.
func (s *Store) LoadTrace(runID string) ([]string, [][]float64, error) {
	tracePath := filepath.Join(s.baseDir, runID, "trace.csv")
	file, err := os.Open(tracePath)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}

	if len(records) == 0 {
		return nil, [][]float64{}, nil
	}

	header := records[0]
	rows := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		row := make([]float64, 0, len(records[i]))
		for _, field := range records[i] {
			val, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

func traceHeader(sublattices int) []string {
	header := []string{"sweep", "energy", "magnetization"}
	for s := 0; s < sublattices; s++ {
		header = append(header,
			fmt.Sprintf("s%d_x", s), fmt.Sprintf("s%d_y", s), fmt.Sprintf("s%d_z", s))
	}
	return header
}

func traceRow(sample mc.Sample) []string {
	row := []string{
		strconv.Itoa(sample.Sweep),
		strconv.FormatFloat(sample.Energy, 'f', 6, 64),
		strconv.FormatFloat(sample.Magnetization, 'f', 6, 64),
	}
	for _, v := range sample.SpinVector {
		for d := 0; d < 3; d++ {
			row = append(row, strconv.FormatFloat(v[d], 'f', 6, 64))
		}
	}
	return row
}

func writeTrace(path string, trace []mc.Sample) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	if len(trace) == 0 {
		return nil
	}

	if err := w.Write(traceHeader(len(trace[0].SpinVector))); err != nil {
		return err
	}
	for _, sample := range trace {
		if err := w.Write(traceRow(sample)); err != nil {
			return err
		}
	}

	return nil
}

// WriteSnapshot writes the per-site spin components of a final state, one
// row per site. Single-component rows get a "spin" header, three-component
// rows get x,y,z.
func WriteSnapshot(path string, state [][]float64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	defer w.Flush()

	header := []string{"site", "spin"}
	if len(state) > 0 && len(state[0]) == 3 {
		header = []string{"site", "x", "y", "z"}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, components := range state {
		row := []string{strconv.Itoa(i)}
		for _, v := range components {
			row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}
