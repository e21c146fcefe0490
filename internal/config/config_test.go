package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRunConfig(t *testing.T) {
	cfg := DefaultRunConfig()

	if cfg.Simulation.TimeStep <= 0 {
		t.Error("timeStep should be positive")
	}
	if cfg.Simulation.IntegratorType.Name() != "Boris" {
		t.Errorf("expected default integrator Boris, got %s", cfg.Simulation.IntegratorType.Name())
	}
	if cfg.Simulation.ParticleCount == 0 {
		t.Error("particleCount should be positive")
	}
}

func TestIntegratorCodeNameDefaultsToBorisForUnknownValue(t *testing.T) {
	var unknown IntegratorCode = 99
	if unknown.Name() != "Boris" {
		t.Errorf("expected unrecognized integrator code to default to Boris, got %s", unknown.Name())
	}
}

func TestIntegratorCodeNames(t *testing.T) {
	cases := map[IntegratorCode]string{
		IntegratorEuler:  "Euler",
		IntegratorVerlet: "Verlet",
		IntegratorBoris:  "Boris",
		IntegratorRK4:    "RK4",
	}
	for code, want := range cases {
		if got := code.Name(); got != want {
			t.Errorf("code %d: expected %s, got %s", code, want, got)
		}
	}
}

func TestRunConfigSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")

	cfg := DefaultRunConfig()
	cfg.Simulation.TimeStep = 5e-12
	cfg.Simulation.IntegratorType = IntegratorRK4
	cfg.Window.Width = 1920

	if err := SaveRunConfig(path, cfg); err != nil {
		t.Fatalf("SaveRunConfig: %v", err)
	}

	loaded, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig: %v", err)
	}

	if loaded.Simulation.TimeStep != cfg.Simulation.TimeStep {
		t.Errorf("expected timeStep %g, got %g", cfg.Simulation.TimeStep, loaded.Simulation.TimeStep)
	}
	if loaded.Simulation.IntegratorType != IntegratorRK4 {
		t.Errorf("expected integratorType RK4, got %v", loaded.Simulation.IntegratorType)
	}
	if loaded.Window.Width != 1920 {
		t.Errorf("expected window width 1920, got %d", loaded.Window.Width)
	}
}

func TestLoadRunConfigMissingSectionsKeepDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.json")

	partial := []byte(`{"simulation":{"timeStep":2e-11}}`)
	if err := os.WriteFile(path, partial, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	loaded, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig: %v", err)
	}
	if loaded.Simulation.TimeStep != 2e-11 {
		t.Errorf("expected overridden timeStep, got %g", loaded.Simulation.TimeStep)
	}
	if loaded.Simulation.IntegratorType.Name() != "Boris" {
		t.Errorf("expected untouched integratorType to keep default Boris, got %s", loaded.Simulation.IntegratorType.Name())
	}
	if loaded.Window.Width != 1280 {
		t.Errorf("expected untouched window section to keep default width, got %d", loaded.Window.Width)
	}
}

func TestAcceleratorFileSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lattice.json")

	file := &AcceleratorFile{
		LatticeType: "circular",
		TotalLength: 40,
		Components: []ComponentSpec{
			{Type: "dipole", Name: "B1", Length: 2, Aperture: 0.05, Field: 1.5},
			{Type: "quadrupole", Name: "QF1", Length: 0.5, Aperture: 0.05, Gradient: 20},
			{Type: "rfcavity", Name: "RF1", Length: 1.0, Aperture: 0.05, Voltage: 1e6, Frequency: 5e8, Phase: 0},
		},
	}

	if err := SaveAcceleratorFile(path, file); err != nil {
		t.Fatalf("SaveAcceleratorFile: %v", err)
	}
	loaded, err := LoadAcceleratorFile(path)
	if err != nil {
		t.Fatalf("LoadAcceleratorFile: %v", err)
	}
	if loaded.LatticeType != "circular" || len(loaded.Components) != 3 {
		t.Fatalf("unexpected round trip result: %+v", loaded)
	}
	if loaded.Components[1].Gradient != 20 {
		t.Errorf("expected quadrupole gradient 20, got %g", loaded.Components[1].Gradient)
	}
}

func TestAcceleratorFileToLattice(t *testing.T) {
	file := &AcceleratorFile{
		LatticeType: "circular",
		Components: []ComponentSpec{
			{Type: "dipole", Name: "B1", Length: 2, Aperture: 0.05, Field: 1.5},
			{Type: "quadrupole", Name: "QF1", Length: 0.5, Aperture: 0.05, Gradient: 20},
			{Type: "drift", Name: "D1", Length: 1, Aperture: 0.05},
		},
	}

	lat := file.ToLattice()
	if lat.ComponentCount() != 3 {
		t.Fatalf("expected 3 components, got %d", lat.ComponentCount())
	}
	if !lat.IsClosed() {
		t.Error("expected a circular AcceleratorFile to produce a closed lattice")
	}
	if len(lat.Dipoles()) != 1 || lat.Dipoles()[0].Field() != 1.5 {
		t.Errorf("expected dipole field 1.5 to carry through, got %+v", lat.Dipoles())
	}
	if len(lat.Quadrupoles()) != 1 || lat.Quadrupoles()[0].Gradient() != 20 {
		t.Errorf("expected quadrupole gradient 20 to carry through, got %+v", lat.Quadrupoles())
	}
	if lat.ComponentNamed("D1") == nil {
		t.Error("expected the \"drift\" alias to produce a BeamPipe component")
	}
}

func TestAcceleratorFileToLatticeSkipsUnknownComponentType(t *testing.T) {
	file := &AcceleratorFile{
		LatticeType: "linear",
		Components: []ComponentSpec{
			{Type: "dipole", Name: "B1", Length: 2, Aperture: 0.05, Field: 1.5},
			{Type: "Solenoid", Name: "S1", Length: 1, Aperture: 0.05},
			{Type: "quadrupole", Name: "QF1", Length: 0.5, Aperture: 0.05, Gradient: 20},
		},
	}

	lat := file.ToLattice()
	if lat.ComponentCount() != 2 {
		t.Fatalf("expected the unrecognized component type to be skipped, got %d components", lat.ComponentCount())
	}
	if lat.IsClosed() {
		t.Error("expected a linear AcceleratorFile to produce an open lattice")
	}
	if lat.ComponentNamed("S1") != nil {
		t.Error("expected the unknown-type component to be absent from the lattice")
	}
}

func TestGetBeamPreset(t *testing.T) {
	params, ok := GetBeamPreset("proton", "injection")
	if !ok {
		t.Fatal("expected proton/injection preset to exist")
	}
	if params.NumParticles == 0 {
		t.Error("expected non-zero particle count")
	}
}

func TestGetBeamPresetNotFound(t *testing.T) {
	if _, ok := GetBeamPreset("proton", "nonexistent"); ok {
		t.Error("expected nonexistent preset name to report not found")
	}
	if _, ok := GetBeamPreset("nonexistent", "injection"); ok {
		t.Error("expected nonexistent species to report not found")
	}
}

func TestListBeamPresets(t *testing.T) {
	presets := ListBeamPresets("proton")
	if len(presets) == 0 {
		t.Error("expected presets for proton")
	}
	if ListBeamPresets("nonexistent") != nil {
		t.Error("expected nil for unrecognized species")
	}
}
