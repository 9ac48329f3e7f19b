package dish

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/mat"
)

// Distance calculates Euclidean distance between two stage positions.
func Distance(a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Centroid calculates the center of mass of a set of points.
func Centroid(points []Point) (Point, error) {
	if len(points) == 0 {
		return Point{}, fmt.Errorf("%w: centroid of empty point set", ErrInsufficientData)
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return Point{X: sumX / n, Y: sumY / n}, nil
}

// BoundingBox returns the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point) (orb.Bound, error) {
	if len(points) == 0 {
		return orb.Bound{}, fmt.Errorf("%w: bounding box of empty point set", ErrInsufficientData)
	}
	b := orb.Bound{Min: points[0].Orb(), Max: points[0].Orb()}
	for _, p := range points[1:] {
		b = b.Extend(p.Orb())
	}
	return b, nil
}

// Normalize maps value into [0, 1] relative to the [min, max] interval,
// clamping values outside it. A degenerate interval yields 0.
func Normalize(value, min, max float64) float64 {
	if max <= min {
		return 0
	}
	n := (value - min) / (max - min)
	return math.Min(1, math.Max(0, n))
}

// FindCircle computes the center and radius of the circle passing through
// three points via the circumcenter formula. Collinear points admit no
// unique circle and fail calibration.
func FindCircle(p1, p2, p3 Point) (Point, float64, error) {
	d := 2 * (p1.X*(p2.Y-p3.Y) + p2.X*(p3.Y-p1.Y) + p3.X*(p1.Y-p2.Y))
	if math.Abs(d) < 1e-9 {
		return Point{}, 0, fmt.Errorf("%w: edge points are collinear", ErrCalibration)
	}

	s1 := p1.X*p1.X + p1.Y*p1.Y
	s2 := p2.X*p2.X + p2.Y*p2.Y
	s3 := p3.X*p3.X + p3.Y*p3.Y

	center := Point{
		X: (s1*(p2.Y-p3.Y) + s2*(p3.Y-p1.Y) + s3*(p1.Y-p2.Y)) / d,
		Y: (s1*(p3.X-p2.X) + s2*(p1.X-p3.X) + s3*(p2.X-p1.X)) / d,
	}
	return center, Distance(center, p1), nil
}

// FitCircle computes the least-squares circle through n >= 3 edge points
// using the Kåsa formulation: each point contributes one row of the linear
// system [2x 2y 1][cx cy k]^T = x^2+y^2 with r^2 = k + cx^2 + cy^2.
func FitCircle(points []Point) (Point, float64, error) {
	n := len(points)
	if n < 3 {
		return Point{}, 0, fmt.Errorf("%w: circle fit needs at least 3 points, got %d", ErrInsufficientData, n)
	}

	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	for i, p := range points {
		a.Set(i, 0, 2*p.X)
		a.Set(i, 1, 2*p.Y)
		a.Set(i, 2, 1)
		b.SetVec(i, p.X*p.X+p.Y*p.Y)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return Point{}, 0, fmt.Errorf("%w: edge points are degenerate: %v", ErrCalibration, err)
	}

	center := Point{X: sol.AtVec(0), Y: sol.AtVec(1)}
	r2 := sol.AtVec(2) + center.X*center.X + center.Y*center.Y
	if r2 <= 0 {
		return Point{}, 0, fmt.Errorf("%w: circle fit produced non-positive radius", ErrCalibration)
	}
	return center, math.Sqrt(r2), nil
}
