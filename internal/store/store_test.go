package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/accelsim/internal/beam"
	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/lattice"
)

func TestSaveAndListRoundTrip(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "runs"))
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	run := Run{
		Meta: RunMetadata{
			Seed:        7,
			TimeStep:    1e-11,
			Integrator:  "Boris",
			Species:     "Proton",
			LatticeKind: "circular",
			StepCount:   100,
		},
		HistoryT: []float64{0, 1e-11, 2e-11},
		History: []beam.Statistics{
			{ActiveParticles: 100, MeanEnergy: 1e9, RMSEnergy: 1e6},
			{ActiveParticles: 100, MeanEnergy: 1e9, RMSEnergy: 1e6},
			{ActiveParticles: 99, LostParticles: 1, MeanEnergy: 1e9, RMSEnergy: 1e6},
		},
		Hits: []lattice.Hit{
			{Time: 1e-11, ParticleID: 3, Position: geom.Vec3{Z: 10}, Momentum: geom.Vec3{Z: 1}},
		},
	}

	id, err := s.Save(run)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty run ID")
	}

	runs, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].ID != id {
		t.Errorf("expected ID %s, got %s", id, runs[0].ID)
	}
	if runs[0].Integrator != "Boris" {
		t.Errorf("expected integrator Boris, got %s", runs[0].Integrator)
	}
}

func TestLoad(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "runs"))
	s.Init()

	id, err := s.Save(Run{Meta: RunMetadata{Species: "Electron"}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	meta, err := s.Load(id)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if meta.Species != "Electron" {
		t.Errorf("expected species Electron, got %s", meta.Species)
	}
}

func TestLoadHistory(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "runs"))
	s.Init()

	id, err := s.Save(Run{
		Meta:     RunMetadata{},
		HistoryT: []float64{0, 1e-11},
		History: []beam.Statistics{
			{ActiveParticles: 10, MeanEnergy: 5e8},
			{ActiveParticles: 9, LostParticles: 1, MeanEnergy: 5e8},
		},
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	times, history, err := s.LoadHistory(id)
	if err != nil {
		t.Fatalf("LoadHistory: %v", err)
	}
	if len(times) != 2 || len(history) != 2 {
		t.Fatalf("expected 2 history samples, got %d/%d", len(times), len(history))
	}
	if history[1].LostParticles != 1 {
		t.Errorf("expected 1 lost particle at second sample, got %d", history[1].LostParticles)
	}
}

func TestListOnMissingBaseDirReturnsEmpty(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"))
	runs, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestSaveWritesRunFiles(t *testing.T) {
	baseDir := filepath.Join(t.TempDir(), "runs")
	s := New(baseDir)
	s.Init()

	id, err := s.Save(Run{Meta: RunMetadata{Species: "Proton"}})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	runDir := filepath.Join(baseDir, id)
	for _, name := range []string{"metadata.json", "history.csv", "hits.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("expected %s to be created", name)
		}
	}
}
