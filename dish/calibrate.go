package dish

import (
	"fmt"
	"math"
)

// coincidentEps is the minimum span, in micrometers, below which two
// reference points are considered coincident. Stage repeatability is well
// above this.
const coincidentEps = 1e-3

// Fit derives the geometric model of a container from the ordered reference
// points captured during a calibration session. The protocol (number and
// meaning of the points) is selected by the descriptor's FitMode. Fitting is
// deterministic: identical inputs always produce an identical model.
func Fit(desc ContainerDescriptor, points []Point) (GeometryModel, error) {
	if len(points) < desc.RequiredPoints {
		return GeometryModel{}, fmt.Errorf("%w: dish %q needs %d reference points, got %d",
			ErrInsufficientData, desc.Name, desc.RequiredPoints, len(points))
	}

	switch desc.FitMode {
	case FitCenterEdge:
		return fitRoundDish(desc, points)
	case FitDiagonalCorners:
		return fitPlate(desc, points)
	case FitAdjacentWells:
		return fitAdjacentWells(desc, points)
	default:
		return GeometryModel{}, fmt.Errorf("%w: dish %q has unknown fit mode %q", ErrConfiguration, desc.Name, desc.FitMode)
	}
}

// fitRoundDish fits a single circular dish. With two points the first is the
// dish center and the second a point on the edge. With three or more points
// all of them are edge points: three give the exact circumcircle, more give
// the least-squares circle.
func fitRoundDish(desc ContainerDescriptor, points []Point) (GeometryModel, error) {
	var (
		center Point
		radius float64
		err    error
	)
	switch {
	case len(points) == 2:
		center = points[0]
		radius = Distance(points[0], points[1])
	case len(points) == 3:
		center, radius, err = FindCircle(points[0], points[1], points[2])
	default:
		center, radius, err = FitCircle(points)
	}
	if err != nil {
		return GeometryModel{}, err
	}

	if radius <= coincidentEps {
		return GeometryModel{}, fmt.Errorf("%w: center and edge points coincide", ErrCalibration)
	}
	if err := checkExpectedRadius(desc, radius); err != nil {
		return GeometryModel{}, err
	}

	return GeometryModel{
		Shape:  ShapeCircle,
		Anchor: center,
		Radius: radius,
	}, nil
}

// checkExpectedRadius rejects a measured dish radius outside the descriptor
// tolerance band, typically caused by marking the wrong ring of the dish.
func checkExpectedRadius(desc ContainerDescriptor, radius float64) error {
	if desc.NominalRadius <= 0 {
		return nil
	}
	tol := desc.RadiusTolerance
	if tol <= 0 {
		tol = 0.05
	}
	lower := desc.NominalRadius * (1 - tol)
	upper := desc.NominalRadius * (1 + tol)
	if radius < lower || radius > upper {
		return fmt.Errorf("%w: measured radius %.0f outside [%.0f, %.0f] expected for %s",
			ErrCalibration, radius, lower, upper, desc.Name)
	}
	return nil
}

// fitPlate fits a rectangular multi-well plate from the centers of two
// diagonally opposite wells: A1 first, then the last well of the last row.
// The per-well pitch is the span divided by (cols-1, rows-1); its sign
// encodes the stage axis direction.
func fitPlate(desc ContainerDescriptor, points []Point) (GeometryModel, error) {
	if desc.Rows <= 1 || desc.Cols <= 1 {
		return GeometryModel{}, fmt.Errorf("%w: dish %q is %dx%d, diagonal calibration needs at least 2 rows and 2 columns",
			ErrCalibration, desc.Name, desc.Rows, desc.Cols)
	}

	a, b := points[0], points[1]
	spanX := b.X - a.X
	spanY := b.Y - a.Y
	if math.Abs(spanX) <= coincidentEps || math.Abs(spanY) <= coincidentEps {
		return GeometryModel{}, fmt.Errorf("%w: corner points span %.3f x %.3f, need a non-degenerate span on both axes",
			ErrCalibration, math.Abs(spanX), math.Abs(spanY))
	}

	model := GeometryModel{
		Shape:  desc.WellShape,
		Anchor: a,
		PitchX: spanX / float64(desc.Cols-1),
		PitchY: spanY / float64(desc.Rows-1),
	}
	switch desc.WellShape {
	case ShapeCircle:
		model.Radius = desc.WellRadius
	case ShapeRectangle:
		model.HalfWidth = desc.WellWidth / 2
		model.HalfHeight = desc.WellHeight / 2
	}
	return model, nil
}

// fitAdjacentWells fits a small multi-well dish from three well centers:
// A1, its column neighbour A2, and its row neighbour B1. The first pair
// fixes the column pitch, the third point the row pitch. Wells are assumed
// axis-aligned with the stage; rotation is not corrected.
func fitAdjacentWells(desc ContainerDescriptor, points []Point) (GeometryModel, error) {
	a1, a2, b1 := points[0], points[1], points[2]

	pitchX := a2.X - a1.X
	pitchY := b1.Y - a1.Y
	if math.Abs(pitchX) <= coincidentEps {
		return GeometryModel{}, fmt.Errorf("%w: wells A1 and A2 coincide on the x axis", ErrCalibration)
	}
	if math.Abs(pitchY) <= coincidentEps {
		return GeometryModel{}, fmt.Errorf("%w: wells A1 and B1 coincide on the y axis", ErrCalibration)
	}

	model := GeometryModel{
		Shape:  desc.WellShape,
		Anchor: a1,
		PitchX: pitchX,
		PitchY: pitchY,
	}
	switch desc.WellShape {
	case ShapeCircle:
		model.Radius = desc.WellRadius
	case ShapeRectangle:
		model.HalfWidth = desc.WellWidth / 2
		model.HalfHeight = desc.WellHeight / 2
	}
	return model, nil
}
