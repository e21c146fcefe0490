// Package store persists simulation runs to disk: one directory per
// run holding a JSON metadata file, a CSV history of beam statistics
// sampled over simulation time, and a CSV of detector hits.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/accelsim/internal/beam"
	"github.com/san-kum/accelsim/internal/lattice"
)

// Store roots every run under a single base directory.
type Store struct {
	baseDir string
}

// New returns a Store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Init creates the base directory if it does not already exist.
func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata summarizes a completed or in-progress run.
type RunMetadata struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Seed        uint64    `json:"seed"`
	TimeStep    float64   `json:"timeStep"`
	Integrator  string    `json:"integrator"`
	Species     string    `json:"species"`
	LatticeKind string    `json:"latticeKind"`
	StepCount   uint64    `json:"stepCount"`
	FinalStats  beam.Statistics `json:"finalStats"`
}

// Run bundles everything a single call to Save persists.
type Run struct {
	Meta       RunMetadata
	History    []beam.Statistics // sampled once per recorded tick
	HistoryT   []float64         // simulation time at each sample
	Hits       []lattice.Hit
}

// Save writes a run's metadata, statistics history, and detector hits
// under a fresh timestamped directory, returning its run ID.
func (s *Store) Save(run Run) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	run.Meta.ID = runID
	run.Meta.Timestamp = time.Now()

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), run.Meta); err != nil {
		return "", err
	}
	if err := writeStatisticsCSV(filepath.Join(runDir, "history.csv"), run.HistoryT, run.History); err != nil {
		return "", err
	}
	if err := writeHitsCSV(filepath.Join(runDir, "hits.csv"), run.Hits); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeStatisticsCSV(path string, times []float64, history []beam.Statistics) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"time", "activeParticles", "lostParticles",
		"meanEnergy", "rmsEnergy",
		"rmsSizeX", "rmsSizeY", "rmsSizeZ",
		"emittanceX", "emittanceY",
		"normalizedEmittanceX", "normalizedEmittanceY",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, stat := range history {
		row := []string{
			formatFloat(times[i]),
			strconv.Itoa(stat.ActiveParticles),
			strconv.Itoa(stat.LostParticles),
			formatFloat(stat.MeanEnergy),
			formatFloat(stat.RMSEnergy),
			formatFloat(stat.RMSSize.X),
			formatFloat(stat.RMSSize.Y),
			formatFloat(stat.RMSSize.Z),
			formatFloat(stat.EmittanceX),
			formatFloat(stat.EmittanceY),
			formatFloat(stat.NormalizedEmittanceX),
			formatFloat(stat.NormalizedEmittanceY),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeHitsCSV(path string, hits []lattice.Hit) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"time", "particleID", "x", "y", "z", "px", "py", "pz"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, hit := range hits {
		row := []string{
			formatFloat(hit.Time),
			strconv.FormatUint(hit.ParticleID, 10),
			formatFloat(hit.Position.X), formatFloat(hit.Position.Y), formatFloat(hit.Position.Z),
			formatFloat(hit.Momentum.X), formatFloat(hit.Momentum.Y), formatFloat(hit.Momentum.Z),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// List returns the metadata for every run under the base directory,
// most recent first. Directories missing or holding an unparsable
// metadata.json are silently skipped.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}

	for i, j := 0, len(runs)-1; i < j; i, j = i+1, j-1 {
		runs[i], runs[j] = runs[j], runs[i]
	}
	return runs, nil
}

// Load reads a single run's metadata by ID.
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

// LoadHistory reads back a run's statistics-over-time CSV.
func (s *Store) LoadHistory(runID string) ([]float64, []beam.Statistics, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "history.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return nil, nil, nil
	}

	times := make([]float64, 0, len(records)-1)
	history := make([]beam.Statistics, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 12 {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		active, _ := strconv.Atoi(rec[1])
		lost, _ := strconv.Atoi(rec[2])
		meanE, _ := strconv.ParseFloat(rec[3], 64)
		rmsE, _ := strconv.ParseFloat(rec[4], 64)

		times = append(times, t)
		history = append(history, beam.Statistics{
			ActiveParticles: active,
			LostParticles:   lost,
			MeanEnergy:      meanE,
			RMSEnergy:       rmsE,
		})
	}
	return times, history, nil
}
