package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/accelsim/internal/analysis"
	"github.com/san-kum/accelsim/internal/beam"
	"github.com/san-kum/accelsim/internal/config"
	"github.com/san-kum/accelsim/internal/controller"
	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/geom"
	"github.com/san-kum/accelsim/internal/integrators"
	"github.com/san-kum/accelsim/internal/lattice"
	"github.com/san-kum/accelsim/internal/particle"
	"github.com/san-kum/accelsim/internal/snapshot"
	"github.com/san-kum/accelsim/internal/store"
	"github.com/san-kum/accelsim/internal/units"
)

var (
	dataDir string

	species       string
	numParticles  int
	kineticEnergy float64
	distribution  string
	seed          uint64
	presetName    string

	integratorName string
	timeStep       float64
	numSteps       uint64

	cells      int
	cellLength float64
	quadLength float64
	gradient   float64

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "accelsim",
		Short: "charged-particle accelerator beam-dynamics simulator core",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".accelsim", "run data directory")

	beamCmd := &cobra.Command{
		Use:   "beam",
		Short: "generate a beam and print its statistics",
		RunE:  runBeam,
	}
	beamCmd.Flags().StringVar(&species, "species", "proton", "particle species (proton|electron|positron|antiproton)")
	beamCmd.Flags().IntVar(&numParticles, "n", 1000, "number of particles")
	beamCmd.Flags().Float64Var(&kineticEnergy, "energy-mev", 1000, "kinetic energy per particle, MeV")
	beamCmd.Flags().StringVar(&distribution, "distribution", "gaussian", "gaussian|uniform|waterbag")
	beamCmd.Flags().Uint64Var(&seed, "seed", 42, "random seed")
	beamCmd.Flags().StringVar(&presetName, "preset", "", "beam preset name (species/preset, overrides other flags)")

	fodoCmd := &cobra.Command{
		Use:   "fodo",
		Short: "build a FODO cell lattice and print its layout",
		RunE:  runFODO,
	}
	fodoCmd.Flags().IntVar(&cells, "cells", 4, "number of FODO cells")
	fodoCmd.Flags().Float64Var(&cellLength, "cell-length", 10.0, "cell length, m")
	fodoCmd.Flags().Float64Var(&quadLength, "quad-length", 0.5, "quadrupole length, m")
	fodoCmd.Flags().Float64Var(&gradient, "gradient", 20.0, "quadrupole gradient magnitude, T/m")

	runCmd := &cobra.Command{
		Use:   "run <lattice.json> <beam.json>",
		Short: "bind a lattice and beam loaded from JSON, run the controller, and save the result",
		Args:  cobra.ExactArgs(2),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&integratorName, "integrator", "Boris", "Euler|Verlet|Boris|RK4")
	runCmd.Flags().Float64Var(&timeStep, "dt", 1e-11, "fixed timestep, s")
	runCmd.Flags().Uint64Var(&numSteps, "steps", 1000, "number of steps")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run's history as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a run's mean energy and active particle count over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [species]",
		Short: "list available beam presets for a species",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListBeamPresets(args[0])
			if len(names) == 0 {
				fmt.Printf("no presets for species: %s\n", args[0])
				return nil
			}
			fmt.Println(headerStyle.Render(fmt.Sprintf("presets for %s:", args[0])))
			for _, n := range names {
				fmt.Printf("  %s\n", n)
			}
			return nil
		},
	}

	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "estimate the betatron tune of a single particle in a FODO ring",
		RunE:  runTune,
	}
	tuneCmd.Flags().IntVar(&cells, "cells", 8, "number of FODO cells in the ring")
	tuneCmd.Flags().Float64Var(&cellLength, "cell-length", 10.0, "cell length, m")
	tuneCmd.Flags().Float64Var(&quadLength, "quad-length", 0.5, "quadrupole length, m")
	tuneCmd.Flags().Float64Var(&gradient, "gradient", 20.0, "quadrupole gradient magnitude, T/m")
	tuneCmd.Flags().Uint64Var(&numSteps, "turns", 200, "number of revolutions to track")

	rootCmd.AddCommand(beamCmd, fodoCmd, runCmd, listCmd, exportCmd, plotCmd, presetsCmd, tuneCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func beamParams() beam.Parameters {
	if presetName != "" {
		parts := splitOnce(presetName, '/')
		if p, ok := config.GetBeamPreset(parts[0], parts[1]); ok {
			return p
		}
		fmt.Fprintf(os.Stderr, "unknown preset %q, falling back to flags\n", presetName)
	}

	params := beam.DefaultParameters()
	params.Species = speciesFromFlag(species)
	params.NumParticles = numParticles
	params.KineticEnergy = kineticEnergy * units.MeV
	params.Distribution = distributionFromFlag(distribution)
	params.Seed = seed
	return params
}

// loadBeamParameters reads a beam.Parameters JSON file, starting from
// beam.DefaultParameters so any field the file omits keeps its
// default value, matching LoadRunConfig's partial-file behavior.
func loadBeamParameters(path string) (beam.Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return beam.Parameters{}, err
	}
	params := beam.DefaultParameters()
	if err := json.Unmarshal(data, &params); err != nil {
		return beam.Parameters{}, err
	}
	return params, nil
}

func splitOnce(s string, sep byte) [2]string {
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			return [2]string{s[:i], s[i+1:]}
		}
	}
	return [2]string{s, ""}
}

// speciesFromFlag defaults to Proton for any unrecognized name, matching
// the engine's config-domain error policy of falling back rather than
// failing.
func speciesFromFlag(s string) beam.Species {
	switch s {
	case "electron":
		return beam.SpeciesElectron
	case "positron":
		return beam.SpeciesPositron
	case "antiproton":
		return beam.SpeciesAntiproton
	default:
		return beam.SpeciesProton
	}
}

func distributionFromFlag(s string) beam.Distribution {
	switch s {
	case "uniform":
		return beam.DistributionUniform
	case "waterbag":
		return beam.DistributionWaterbag
	default:
		return beam.DistributionGaussian
	}
}

func buildRing() *lattice.Lattice {
	params := lattice.FODOCellParams{
		CellLength:   cellLength,
		QuadLength:   quadLength,
		QuadGradient: gradient,
		Aperture:     0.05,
	}
	lat := lattice.New()
	lat.BuildFODOLattice(params, cells)
	lat.AddComponent(lattice.NewDetector("BPM1", lattice.DefaultAperture()))
	lat.CloseRing()
	return lat
}

func runBeam(cmd *cobra.Command, args []string) error {
	ens := beam.Generate(beamParams())
	stats := ens.Compute()

	fmt.Println(headerStyle.Render(fmt.Sprintf("beam: %d particles, %s", stats.TotalParticles, species)))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "active\t%d\n", stats.ActiveParticles)
	fmt.Fprintf(w, "mean energy (MeV)\t%.4f\n", stats.MeanEnergy/units.MeV)
	fmt.Fprintf(w, "rms energy (MeV)\t%.4f\n", stats.RMSEnergy/units.MeV)
	fmt.Fprintf(w, "rms size x,y,z (mm)\t%.4f, %.4f, %.4f\n", stats.RMSSize.X*1e3, stats.RMSSize.Y*1e3, stats.RMSSize.Z*1e3)
	fmt.Fprintf(w, "emittance x,y (m*rad)\t%.6e, %.6e\n", stats.EmittanceX, stats.EmittanceY)
	fmt.Fprintf(w, "normalized emittance x,y\t%.6e, %.6e\n", stats.NormalizedEmittanceX, stats.NormalizedEmittanceY)
	return w.Flush()
}

func runFODO(cmd *cobra.Command, args []string) error {
	lat := buildRing()

	fmt.Println(headerStyle.Render(fmt.Sprintf("FODO ring: %d cells, circumference %.2fm", cells, lat.Circumference())))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tS (m)\tLENGTH (m)")
	for _, c := range snapshot.Components(lat) {
		fmt.Fprintf(w, "%s\t%s\t%.3f\t%.3f\n", c.Name, c.Type, c.SPosition, c.Length)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	refProton := particle.Proton(geom.Vec3{}, geom.Vec3{})
	refProton.SetKineticEnergy(1*units.GeV, geom.Vec3{Z: 1})
	fmt.Printf("\nquadrupoles: %d, dipoles: %d, total bending angle at 1 GeV: %.4f rad\n",
		lat.QuadrupoleCount(), lat.DipoleCount(), lat.TotalBendingAngle(refProton.MomentumMagnitude()))
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	latFile, err := config.LoadAcceleratorFile(args[0])
	if err != nil {
		return fmt.Errorf("loading lattice %s: %w", args[0], err)
	}
	lat := latFile.ToLattice()

	params, err := loadBeamParameters(args[1])
	if err != nil {
		return fmt.Errorf("loading beam %s: %w", args[1], err)
	}
	ens := beam.Generate(params)

	ctrl := controller.New(ens)
	ctrl.SetAccelerator(lat)
	ctrl.SetIntegrator(integratorByName(integratorName))
	ctrl.SetTimeStep(timeStep)
	ctrl.Start()

	var history []beam.Statistics
	var historyT []float64

	sampleEvery := numSteps / 100
	if sampleEvery == 0 {
		sampleEvery = 1
	}

	start := time.Now()
	for i := uint64(0); i < numSteps; i++ {
		if err := ctrl.Step(context.Background()); err != nil {
			return err
		}
		if i%sampleEvery == 0 {
			s := ctrl.Stats()
			history = append(history, ens.Compute())
			historyT = append(historyT, s.SimulationTime)
		}
	}
	elapsed := time.Since(start)

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	run := store.Run{
		Meta: store.RunMetadata{
			Seed:        params.Seed,
			TimeStep:    timeStep,
			Integrator:  integratorName,
			Species:     string(params.Species),
			LatticeKind: latFile.LatticeType,
			StepCount:   numSteps,
			FinalStats:  ens.Compute(),
		},
		History:  history,
		HistoryT: historyT,
		Hits:     ctrl.DetectorHits(),
	}
	runID, err := st.Save(run)
	if err != nil {
		return err
	}

	fmt.Printf("completed %d steps in %v (%.0f steps/sec)\n", numSteps, elapsed, ctrl.Stats().StepsPerSecond)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("active particles: %d/%d\n", run.Meta.FinalStats.ActiveParticles, run.Meta.FinalStats.TotalParticles)
	fmt.Printf("detector hits: %d\n", len(run.Hits))
	return nil
}

func integratorByName(name string) integrators.Integrator {
	return integrators.Create(name)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSPECIES\tINTEGRATOR\tSTEPS\tACTIVE/TOTAL\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%s\n",
			r.ID, r.Species, r.Integrator, r.StepCount,
			r.FinalStats.ActiveParticles, r.FinalStats.TotalParticles,
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	times, history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	return store.ExportJSONStdout(store.Run{Meta: *meta, History: history, HistoryT: times})
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	_, history, err := st.LoadHistory(args[0])
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no history recorded for run %s", args[0])
	}

	energies := make([]float64, len(history))
	active := make([]float64, len(history))
	for i, h := range history {
		energies[i] = h.MeanEnergy / units.MeV
		active[i] = float64(h.ActiveParticles)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("run %s (%s, %s)", meta.ID, meta.Species, meta.Integrator)))
	fmt.Println(asciigraph.Plot(energies, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("mean energy (MeV)")))
	fmt.Println()
	fmt.Println(asciigraph.Plot(active, asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("active particles")))
	return nil
}

func runTune(cmd *cobra.Command, args []string) error {
	lat := buildRing()
	mgr := field.NewManager()
	lat.PopulateFieldManager(mgr)

	p0 := particle.Proton(geom.Vec3{X: 1e-3}, geom.Vec3{})
	p0.SetKineticEnergy(1*units.GeV, geom.Vec3{Z: 1})

	revolutionTime := lat.Circumference() / p0.Speed()
	dt := revolutionTime / 1000
	integ := integrators.NewBoris()

	turnByTurn := make([]float64, 0, numSteps)
	for turn := uint64(0); turn < numSteps; turn++ {
		for t := 0.0; t < revolutionTime; t += dt {
			integ.Step(p0, mgr, t, dt)
		}
		turnByTurn = append(turnByTurn, p0.Position().X)
	}

	tune := analysis.BetatronTune(turnByTurn)
	fmt.Printf("tracked %d turns around a %.2fm ring\n", numSteps, lat.Circumference())
	fmt.Printf("fractional betatron tune (x): %.4f\n", tune)
	return nil
}
