package dish

import (
	"fmt"

	"github.com/paulmach/orb"
)

// Point is a 2D stage position. Coordinates are in micrometers unless a
// caller has established a different unit; the core never converts units.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Orb converts the point to an orb.Point for use with orb geometry helpers.
func (p Point) Orb() orb.Point {
	return orb.Point{p.X, p.Y}
}

// WellShape identifies the footprint of a well.
type WellShape string

const (
	ShapeCircle    WellShape = "circle"
	ShapeRectangle WellShape = "rectangle"
)

// FitMode selects the reference-point protocol used to calibrate a container.
type FitMode string

const (
	// FitCenterEdge calibrates a single round dish from its center plus one
	// or more edge points.
	FitCenterEdge FitMode = "center-edge"
	// FitDiagonalCorners calibrates a multi-well plate from the centers of
	// two diagonally opposite wells (A1 and the last well).
	FitDiagonalCorners FitMode = "diagonal-corners"
	// FitAdjacentWells calibrates a small multi-well dish from the centers
	// of A1, A2 and B1. Wells are assumed axis-aligned; no rotation is
	// fitted.
	FitAdjacentWells FitMode = "adjacent-wells"
)

// GeometryModel holds the fitted geometric parameters of a calibrated
// container. It is a tagged variant: Shape selects which of the well-extent
// fields are meaningful. Anchor is the dish center for single-well dishes
// and the A1 well center for plates.
type GeometryModel struct {
	Shape  WellShape `json:"shape"`
	Anchor Point     `json:"anchor"`

	// Radius is the well radius for circular wells.
	Radius float64 `json:"radius,omitempty"`
	// HalfWidth/HalfHeight are the well half extents for rectangular wells.
	HalfWidth  float64 `json:"halfWidth,omitempty"`
	HalfHeight float64 `json:"halfHeight,omitempty"`

	// PitchX/PitchY are the fitted center-to-center well spacings. Zero for
	// single-well containers. Negative values are valid and encode the
	// stage axis direction.
	PitchX float64 `json:"pitchX,omitempty"`
	PitchY float64 `json:"pitchY,omitempty"`
}

// ContainerDescriptor is a static catalog entry describing a supported
// container type. Descriptors are immutable; Lookup returns copies.
type ContainerDescriptor struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`

	WellShape WellShape `json:"wellShape"`
	// Nominal well extents: radius for circular wells, width/height for
	// rectangular wells. In micrometers.
	WellRadius float64 `json:"wellRadius,omitempty"`
	WellWidth  float64 `json:"wellWidth,omitempty"`
	WellHeight float64 `json:"wellHeight,omitempty"`

	// NominalPitchX/NominalPitchY are the nominal center-to-center well
	// spacings. Zero for single-well dishes.
	NominalPitchX float64 `json:"nominalPitchX,omitempty"`
	NominalPitchY float64 `json:"nominalPitchY,omitempty"`

	// ColOffsets are nominal cumulative x offsets of each column relative
	// to A1, for containers with non-uniform gaps between columns. Nil
	// means uniform pitch.
	ColOffsets []float64 `json:"colOffsets,omitempty"`

	// NominalRadius is the expected overall dish radius for round dishes.
	// When non-zero, a fitted radius outside RadiusTolerance of it fails
	// calibration.
	NominalRadius   float64 `json:"nominalRadius,omitempty"`
	RadiusTolerance float64 `json:"radiusTolerance,omitempty"`

	FitMode        FitMode  `json:"fitMode"`
	RequiredPoints int      `json:"requiredPoints"`
	PointHints     []string `json:"pointHints"`
}

// Well is a single well of a calibrated layout.
type Well struct {
	Name   string `json:"name"` // e.g. "A1"
	Index  int    `json:"index"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Center Point  `json:"center"`
}

// WellLayout is the set of absolute well positions derived from a container
// descriptor and a fitted geometry model. Wells are ordered row-major. All
// wells share the same shape and extents.
type WellLayout struct {
	Container ContainerDescriptor `json:"container"`
	Shape     WellShape           `json:"shape"`

	Radius     float64 `json:"radius,omitempty"`
	HalfWidth  float64 `json:"halfWidth,omitempty"`
	HalfHeight float64 `json:"halfHeight,omitempty"`

	Wells []Well `json:"wells"`
}

// WellBounds returns the axis-aligned bounding box of a well. Circular wells
// use the bounding square of the circle.
func (l *WellLayout) WellBounds(w Well) orb.Bound {
	hw, hh := l.halfExtents()
	return orb.Bound{
		Min: orb.Point{w.Center.X - hw, w.Center.Y - hh},
		Max: orb.Point{w.Center.X + hw, w.Center.Y + hh},
	}
}

// Contains reports whether p lies inside the footprint of a well.
func (l *WellLayout) Contains(w Well, p Point) bool {
	switch l.Shape {
	case ShapeCircle:
		dx, dy := p.X-w.Center.X, p.Y-w.Center.Y
		return dx*dx+dy*dy <= l.Radius*l.Radius
	default:
		return l.WellBounds(w).Contains(p.Orb())
	}
}

func (l *WellLayout) halfExtents() (hw, hh float64) {
	if l.Shape == ShapeCircle {
		return l.Radius, l.Radius
	}
	return l.HalfWidth, l.HalfHeight
}

// FieldOfView is the physical area captured by one exposure at the current
// magnification, in the same units as the stage coordinates.
type FieldOfView struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Tile is a single imaging position inside a well. Row and Col are grid
// indices within the well's tile grid.
type Tile struct {
	Position  Point  `json:"position"`
	WellIndex int    `json:"wellIndex"`
	WellName  string `json:"wellName"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
}

// WellTiles is the ordered tile list of one well, already serpentine-ordered
// for acquisition.
type WellTiles struct {
	WellIndex int    `json:"wellIndex"`
	WellName  string `json:"wellName"`
	Tiles     []Tile `json:"tiles"`
}

// ImagingPlan is the terminal artifact handed to the acquisition driver: the
// full ordered traversal of all tiles, grouped by well in serpentine well
// order. It is read-only once produced.
type ImagingPlan struct {
	Container   string      `json:"container"`
	FieldOfView FieldOfView `json:"fieldOfView"`
	Tiles       []Tile      `json:"tiles"`
}

// TotalTravel returns the Euclidean stage travel over the plan, summed over
// consecutive tile positions.
func (p *ImagingPlan) TotalTravel() float64 {
	var total float64
	for i := 1; i < len(p.Tiles); i++ {
		total += Distance(p.Tiles[i-1].Position, p.Tiles[i].Position)
	}
	return total
}

// String summarizes the plan for logging.
func (p *ImagingPlan) String() string {
	wells := make(map[int]struct{}, 8)
	for _, t := range p.Tiles {
		wells[t.WellIndex] = struct{}{}
	}
	return fmt.Sprintf("plan{%s: %d tiles in %d wells, travel %.0f}", p.Container, len(p.Tiles), len(wells), p.TotalTravel())
}
