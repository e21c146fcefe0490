package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/accelsim/internal/field"
	"github.com/san-kum/accelsim/internal/integrators"
	"github.com/san-kum/accelsim/internal/particle"
)

// Axis names one coordinate of a particle's phase space for plotting.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
	AxisPx
	AxisPy
	AxisPz
)

func axisValue(p *particle.Particle, axis Axis) float64 {
	switch axis {
	case AxisX:
		return p.Position().X
	case AxisY:
		return p.Position().Y
	case AxisZ:
		return p.Position().Z
	case AxisPx:
		return p.Momentum().X
	case AxisPy:
		return p.Momentum().Y
	default:
		return p.Momentum().Z
	}
}

// PhasePortrait2D holds a trajectory projected onto two phase space
// axes.
type PhasePortrait2D struct {
	XAxis, YAxis Axis
	Points       []struct{ X, Y float64 }
}

// GeneratePhasePortrait integrates p0 through mgr for duration seconds
// and records its projection onto (xAxis, yAxis) at every step. p0 is
// not mutated; a private copy is stepped instead.
func GeneratePhasePortrait(
	integ integrators.Integrator,
	mgr *field.Manager,
	p0 *particle.Particle,
	xAxis, yAxis Axis,
	dt, duration float64,
) *PhasePortrait2D {
	p := particle.New(p0.Mass(), p0.Charge(), p0.Position(), p0.Momentum())

	portrait := &PhasePortrait2D{
		XAxis:  xAxis,
		YAxis:  yAxis,
		Points: make([]struct{ X, Y float64 }, 0, int(duration/dt)),
	}

	for t := 0.0; t < duration; t += dt {
		integ.Step(p, mgr, t, dt)
		portrait.Points = append(portrait.Points, struct{ X, Y float64 }{
			X: axisValue(p, xAxis),
			Y: axisValue(p, yAxis),
		})
	}

	return portrait
}

// PhasePortraitToASCII renders a phase portrait as a scatter plot of
// Unicode box-drawing characters, for terminal display.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 {
		return ""
	}

	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y
	for _, p := range portrait.Points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection records a particle's transverse position each time
// it crosses s=threshold along the chosen longitudinal axis with
// positive-going velocity — the standard turn-by-turn tune diagnostic
// for a circular lattice.
type PoincareSection struct {
	Points []struct{ X, Y float64 }
}

// GeneratePoincareSection integrates p0 for duration seconds, sampling
// (xAxis, yAxis) every time crossAxis crosses threshold going upward.
func GeneratePoincareSection(
	integ integrators.Integrator,
	mgr *field.Manager,
	p0 *particle.Particle,
	crossAxis Axis,
	threshold float64,
	xAxis, yAxis Axis,
	dt, duration float64,
) *PoincareSection {
	p := particle.New(p0.Mass(), p0.Charge(), p0.Position(), p0.Momentum())
	section := &PoincareSection{Points: make([]struct{ X, Y float64 }, 0)}

	prevVal := axisValue(p, crossAxis)
	for t := 0.0; t < duration; t += dt {
		integ.Step(p, mgr, t, dt)
		currVal := axisValue(p, crossAxis)

		if prevVal < threshold && currVal >= threshold {
			section.Points = append(section.Points, struct{ X, Y float64 }{
				X: axisValue(p, xAxis),
				Y: axisValue(p, yAxis),
			})
		}
		prevVal = currVal
	}

	return section
}

// PoincareSectionToASCII renders a section using the same layout as
// PhasePortraitToASCII.
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "no crossings detected"
	}
	portrait := &PhasePortrait2D{Points: section.Points}
	return PhasePortraitToASCII(portrait, width, height)
}
