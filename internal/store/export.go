package store

import (
	"encoding/json"
	"os"
)

// ExportData is the flattened, self-contained JSON shape written by
// ExportJSON/ExportJSONStdout: everything needed to re-plot a run
// without reopening the run directory.
type ExportData struct {
	Integrator  string            `json:"integrator"`
	Species     string            `json:"species"`
	LatticeKind string            `json:"latticeKind"`
	TimeStep    float64           `json:"timeStep"`
	StepCount   uint64            `json:"stepCount"`
	Times       []float64         `json:"times"`
	History     []HistoryEntry    `json:"history"`
}

// HistoryEntry is one sampled tick of beam statistics, flattened for
// JSON export.
type HistoryEntry struct {
	ActiveParticles int     `json:"activeParticles"`
	LostParticles   int     `json:"lostParticles"`
	MeanEnergy      float64 `json:"meanEnergy"`
	RMSEnergy       float64 `json:"rmsEnergy"`
	EmittanceX      float64 `json:"emittanceX"`
	EmittanceY      float64 `json:"emittanceY"`
}

func toExportData(run Run) ExportData {
	data := ExportData{
		Integrator:  run.Meta.Integrator,
		Species:     run.Meta.Species,
		LatticeKind: run.Meta.LatticeKind,
		TimeStep:    run.Meta.TimeStep,
		StepCount:   run.Meta.StepCount,
		Times:       run.HistoryT,
		History:     make([]HistoryEntry, len(run.History)),
	}
	for i, stat := range run.History {
		data.History[i] = HistoryEntry{
			ActiveParticles: stat.ActiveParticles,
			LostParticles:   stat.LostParticles,
			MeanEnergy:      stat.MeanEnergy,
			RMSEnergy:       stat.RMSEnergy,
			EmittanceX:      stat.EmittanceX,
			EmittanceY:      stat.EmittanceY,
		}
	}
	return data
}

// ExportJSON writes a run's history as a single self-contained JSON
// document, for consumption outside the store's own directory layout.
func ExportJSON(path string, run Run) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(toExportData(run))
}

// ExportJSONStdout writes the same document to stdout, for CLI
// piping.
func ExportJSONStdout(run Run) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(toExportData(run))
}
