package dish

import (
	"fmt"
	"sort"
)

// mm converts millimeters to the micrometer stage unit.
const mm = 1000.0

// catalog is the static table of supported containers, keyed by name.
// Dimensions follow the manufacturer specifications the microscope was
// validated against. The table is built once and never mutated; Lookup
// hands out copies.
var catalog = map[string]ContainerDescriptor{
	"35mm": {
		Name:            "35mm",
		Rows:            1,
		Cols:            1,
		WellShape:       ShapeCircle,
		NominalRadius:   10.5 * mm,
		RadiusTolerance: 0.05,
		FitMode:         FitCenterEdge,
		RequiredPoints:  2,
		PointHints: []string{
			"move the stage to the center of the dish",
			"move the stage to a point on the inner edge ring",
		},
	},
	"96well": {
		Name:           "96well",
		Rows:           8,
		Cols:           12,
		WellShape:      ShapeCircle,
		WellRadius:     7.0 / 2 * mm,
		NominalPitchX:  99.0 * mm / 11,
		NominalPitchY:  63.0 * mm / 7,
		FitMode:        FitDiagonalCorners,
		RequiredPoints: 2,
		PointHints: []string{
			"move the stage to the center of well A1",
			"move the stage to the center of well H12",
		},
	},
	"6well": {
		Name:           "6well",
		Rows:           2,
		Cols:           3,
		WellShape:      ShapeCircle,
		WellRadius:     34.8 / 2 * mm,
		NominalPitchX:  39.12 * mm,
		NominalPitchY:  39.12 * mm,
		FitMode:        FitDiagonalCorners,
		RequiredPoints: 2,
		PointHints: []string{
			"move the stage to the center of well A1",
			"move the stage to the center of well B3",
		},
	},
	"24well": {
		Name:           "24well",
		Rows:           4,
		Cols:           6,
		WellShape:      ShapeCircle,
		WellRadius:     15.6 / 2 * mm,
		NominalPitchX:  19.3 * mm,
		NominalPitchY:  19.3 * mm,
		FitMode:        FitDiagonalCorners,
		RequiredPoints: 2,
		PointHints: []string{
			"move the stage to the center of well A1",
			"move the stage to the center of well D6",
		},
	},
	"ibidi-8well": {
		Name:          "ibidi-8well",
		Rows:          2,
		Cols:          4,
		WellShape:     ShapeRectangle,
		WellWidth:     11.0 * mm,
		WellHeight:    10.0 * mm,
		NominalPitchX: (11.0 + 1.4) * mm,
		NominalPitchY: (10.0 + 1.6) * mm,
		// Gaps between columns are 1.4, 2.0 and 1.4 mm, so column offsets
		// relative to A1 are non-uniform.
		ColOffsets: []float64{
			0,
			(11.0 + 1.4) * mm,
			(22.0 + 3.4) * mm,
			(33.0 + 4.8) * mm,
		},
		FitMode:        FitAdjacentWells,
		RequiredPoints: 3,
		PointHints: []string{
			"move the stage to the center of well A1",
			"move the stage to the center of well A2",
			"move the stage to the center of well B1",
		},
	},
}

// Lookup returns the descriptor for a named container type.
func Lookup(name string) (ContainerDescriptor, error) {
	desc, ok := catalog[name]
	if !ok {
		return ContainerDescriptor{}, fmt.Errorf("%w: unknown dish name %q", ErrConfiguration, name)
	}
	// Copy the slices so callers cannot mutate the catalog.
	desc.PointHints = append([]string(nil), desc.PointHints...)
	desc.ColOffsets = append([]float64(nil), desc.ColOffsets...)
	return desc, nil
}

// ContainerNames returns the supported container names in sorted order.
func ContainerNames() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
