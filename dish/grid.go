package dish

import (
	"fmt"
	"math"
)

// GridOptions control tile grid generation.
type GridOptions struct {
	// FOV is the physical field of view of one exposure. Both extents must
	// be positive.
	FOV FieldOfView
	// Overlap is the minimum fractional overlap between adjacent tile
	// footprints, in [0, 1). Nil selects the optimal overlap per axis: the
	// smallest value that lets an integer number of tiles span the well
	// exactly.
	Overlap *float64
	// MinCornersIn applies to circular wells only. Zero keeps a tile when
	// its center lies inside the circle; 1-4 keeps it when at least that
	// many of its footprint corners do.
	MinCornersIn int
}

// GenerateGrid computes, for every well of the layout, the serpentine-ordered
// tile positions whose field-of-view footprints jointly cover the well.
//
// Tiles are laid on a regular grid over the well's bounding box, spaced by
// step = fov * (1 - overlap) per axis. When the span is not an integer
// multiple of the step, the tile count is rounded up and the rows/columns
// re-spaced evenly, pulling the last row and column inward: coverage is
// guaranteed and no footprint overshoots the bounding box (a well narrower
// than one field of view yields a single centered tile, overshooting by less
// than one field of view). For circular wells, tiles failing the containment
// policy are discarded.
func GenerateGrid(layout *WellLayout, opts GridOptions) ([]WellTiles, error) {
	if opts.FOV.Width <= 0 || opts.FOV.Height <= 0 {
		return nil, fmt.Errorf("%w: field of view must be positive, got %g x %g",
			ErrConfiguration, opts.FOV.Width, opts.FOV.Height)
	}
	if opts.Overlap != nil {
		ov := *opts.Overlap
		if ov < 0 || ov >= 1 {
			return nil, fmt.Errorf("%w: overlap fraction %g outside [0, 1)", ErrConfiguration, ov)
		}
		if opts.FOV.Width*(1-ov) <= 0 || opts.FOV.Height*(1-ov) <= 0 {
			return nil, fmt.Errorf("%w: overlap fraction %g yields a non-positive step", ErrConfiguration, ov)
		}
	}
	if opts.MinCornersIn < 0 || opts.MinCornersIn > 4 {
		return nil, fmt.Errorf("%w: minCornersIn %d outside [0, 4]", ErrConfiguration, opts.MinCornersIn)
	}

	grids := make([]WellTiles, 0, len(layout.Wells))
	for _, well := range layout.Wells {
		grids = append(grids, WellTiles{
			WellIndex: well.Index,
			WellName:  well.Name,
			Tiles:     wellGrid(layout, well, opts),
		})
	}
	return grids, nil
}

// wellGrid lays the serpentine tile grid of a single well.
func wellGrid(layout *WellLayout, well Well, opts GridOptions) []Tile {
	bounds := layout.WellBounds(well)
	spanX := bounds.Max[0] - bounds.Min[0]
	spanY := bounds.Max[1] - bounds.Min[1]

	ovX, ovY := effectiveOverlap(opts, spanX, spanY)
	xs := axisCenters(bounds.Min[0], bounds.Max[0], opts.FOV.Width, opts.FOV.Width*(1-ovX))
	ys := axisCenters(bounds.Min[1], bounds.Max[1], opts.FOV.Height, opts.FOV.Height*(1-ovY))

	tiles := make([]Tile, 0, len(xs)*len(ys))
	for i, y := range ys {
		// Serpentine: even rows left to right, odd rows right to left.
		for k := range xs {
			j := k
			if i%2 == 1 {
				j = len(xs) - 1 - k
			}
			pos := Point{X: xs[j], Y: y}
			if layout.Shape == ShapeCircle && !circleKeeps(well.Center, layout.Radius, pos, opts) {
				continue
			}
			tiles = append(tiles, Tile{
				Position:  pos,
				WellIndex: well.Index,
				WellName:  well.Name,
				Row:       i,
				Col:       j,
			})
		}
	}
	return tiles
}

func effectiveOverlap(opts GridOptions, spanX, spanY float64) (float64, float64) {
	if opts.Overlap != nil {
		return *opts.Overlap, *opts.Overlap
	}
	return OptimalOverlap(opts.FOV, spanX, spanY)
}

// OptimalOverlap returns, per axis, the smallest overlap fraction at which
// an integer number of fields of view spans the given axis lengths exactly.
func OptimalOverlap(fov FieldOfView, spanX, spanY float64) (ovX, ovY float64) {
	ovX = axisOptimalOverlap(spanX, fov.Width)
	ovY = axisOptimalOverlap(spanY, fov.Height)
	return ovX, ovY
}

func axisOptimalOverlap(span, fov float64) float64 {
	if span <= fov {
		return 0
	}
	n := span / fov
	ceiled := math.Ceil(n)
	return (ceiled - n) / ceiled
}

// axisCenters returns the tile center coordinates along one axis. The count
// is the smallest number of footprints of size fov, placed at stride <= step,
// that covers [lo, hi]; centers are then spaced evenly between the two
// boundary-flush positions.
func axisCenters(lo, hi, fov, step float64) []float64 {
	span := hi - lo
	if span <= fov {
		return []float64{(lo + hi) / 2}
	}
	n := int(math.Ceil((span-fov)/step-1e-9)) + 1
	first := lo + fov/2
	last := hi - fov/2
	stride := (last - first) / float64(n-1)

	centers := make([]float64, n)
	for i := range centers {
		centers[i] = first + stride*float64(i)
	}
	return centers
}

// circleKeeps applies the circular-well containment policy to a candidate
// tile center.
func circleKeeps(center Point, radius float64, pos Point, opts GridOptions) bool {
	if opts.MinCornersIn == 0 {
		return insideCircle(center, radius, pos.X, pos.Y)
	}

	hw, hh := opts.FOV.Width/2, opts.FOV.Height/2
	corners := [4][2]float64{
		{pos.X - hw, pos.Y - hh},
		{pos.X + hw, pos.Y - hh},
		{pos.X - hw, pos.Y + hh},
		{pos.X + hw, pos.Y + hh},
	}
	inside := 0
	for _, c := range corners {
		if insideCircle(center, radius, c[0], c[1]) {
			inside++
		}
	}
	return inside >= opts.MinCornersIn
}

func insideCircle(center Point, radius, x, y float64) bool {
	dx, dy := x-center.X, y-center.Y
	return dx*dx+dy*dy < radius*radius
}
