package lattice_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/lattice"
)

func TestLattice(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Lattice Suite")
}

var _ = Describe("Lattice", func() {
	var lat *lattice.Lattice

	BeforeEach(func() {
		lat = lattice.New()
	})

	Describe("prefix-summed s-positions", func() {
		It("places each component's entrance at the running sum of prior lengths", func() {
			lat.AddComponent(lattice.NewBeamPipe("D1", 2.0, lattice.DefaultAperture()))
			lat.AddComponent(lattice.NewDipole("B1", 3.0, 1.2, lattice.DefaultAperture()))
			lat.AddComponent(lattice.NewBeamPipe("D2", 1.5, lattice.DefaultAperture()))
			lat.ComputeLattice()

			Expect(lat.ComponentAt(0).EntranceS()).To(Equal(0.0))
			Expect(lat.ComponentAt(1).EntranceS()).To(Equal(2.0))
			Expect(lat.ComponentAt(2).EntranceS()).To(Equal(5.0))
			Expect(lat.TotalLength()).To(Equal(6.5))
		})

		It("resolves ComponentAtS to the containing element", func() {
			lat.AddComponent(lattice.NewBeamPipe("D1", 2.0, lattice.DefaultAperture()))
			lat.AddComponent(lattice.NewDipole("B1", 3.0, 1.2, lattice.DefaultAperture()))
			lat.ComputeLattice()

			Expect(lat.ComponentAtS(1.0).Name()).To(Equal("D1"))
			Expect(lat.ComponentAtS(2.0).Name()).To(Equal("B1"))
			Expect(lat.ComponentAtS(4.99).Name()).To(Equal("B1"))
		})

		It("wraps s modulo circumference once the ring is closed", func() {
			lat.AddComponent(lattice.NewBeamPipe("D1", 5.0, lattice.DefaultAperture()))
			lat.CloseRing()

			Expect(lat.ComponentAtS(7.0).Name()).To(Equal("D1"))
			Expect(lat.ComponentAtS(-1.0).Name()).To(Equal("D1"))
		})
	})

	Describe("FODO cell construction", func() {
		It("emits QF, drift, QD, drift with equal flanking drift lengths", func() {
			params := lattice.FODOCellParams{
				CellLength:   10.0,
				QuadLength:   0.5,
				QuadGradient: 50.0,
				Aperture:     0.05,
			}
			lat.BuildFODOCell(params, "C1")
			lat.ComputeLattice()

			Expect(lat.ComponentCount()).To(Equal(4))
			Expect(lat.ComponentAt(0).Type()).To(Equal(lattice.TypeQuadrupole))
			Expect(lat.ComponentAt(1).Type()).To(Equal(lattice.TypeBeamPipe))
			Expect(lat.ComponentAt(2).Type()).To(Equal(lattice.TypeQuadrupole))
			Expect(lat.ComponentAt(3).Type()).To(Equal(lattice.TypeBeamPipe))
			Expect(lat.TotalLength()).To(BeNumerically("~", 10.0, 1e-9))

			qf := lat.ComponentAt(0).(*lattice.Quadrupole)
			qd := lat.ComponentAt(2).(*lattice.Quadrupole)
			Expect(qf.IsFocusing()).To(BeTrue())
			Expect(qd.IsFocusing()).To(BeFalse())
			Expect(qf.Gradient()).To(Equal(-qd.Gradient()))
		})

		// Property 10: a lattice built from numCells FODO cells has
		// exactly 2*numCells quadrupoles.
		It("scales quadrupole count linearly with the number of cells", func() {
			params := lattice.DefaultFODOCellParams()
			lat.BuildFODOLattice(params, 5)
			lat.ComputeLattice()

			Expect(lat.QuadrupoleCount()).To(Equal(10))
		})
	})

	Describe("field manager population", func() {
		It("registers a field source per active magnet and skips passive elements", func() {
			lat.AddComponent(lattice.NewBeamPipe("D1", 1.0, lattice.DefaultAperture()))
			lat.AddComponent(lattice.NewDipole("B1", 1.0, 1.0, lattice.DefaultAperture()))
			lat.AddComponent(lattice.NewQuadrupole("Q1", 0.5, 10.0, lattice.DefaultAperture()))
			lat.AddComponent(lattice.NewDetector("Det1", lattice.DefaultAperture()))
			lat.ComputeLattice()

			mgr := field.NewManager()
			lat.PopulateFieldManager(mgr)
			Expect(mgr.SourceCount()).To(Equal(2))
		})
	})
})
