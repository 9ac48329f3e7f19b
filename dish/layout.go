package dish

import (
	"fmt"
	"sort"
	"strings"
)

// LayoutFor projects the container's rows x cols nominal grid through a
// fitted geometry model into absolute stage coordinates. Wells are named
// A1..style and ordered row-major. No fitting logic lives here: adding a new
// container type only touches the catalog and, if needed, Fit.
func LayoutFor(desc ContainerDescriptor, model GeometryModel) (*WellLayout, error) {
	if desc.Rows <= 0 || desc.Cols <= 0 {
		return nil, fmt.Errorf("%w: dish %q has %dx%d wells", ErrConfiguration, desc.Name, desc.Rows, desc.Cols)
	}
	if desc.Rows > 26 {
		return nil, fmt.Errorf("%w: dish %q has %d rows, row names only cover A-Z", ErrConfiguration, desc.Name, desc.Rows)
	}
	if model.Shape != desc.WellShape {
		return nil, fmt.Errorf("%w: model shape %q does not match dish %q shape %q",
			ErrConfiguration, model.Shape, desc.Name, desc.WellShape)
	}

	layout := &WellLayout{
		Container: desc,
		Shape:     model.Shape,
	}
	switch model.Shape {
	case ShapeCircle:
		if model.Radius <= 0 {
			return nil, fmt.Errorf("%w: model radius must be positive, got %g", ErrCalibration, model.Radius)
		}
		layout.Radius = model.Radius
	case ShapeRectangle:
		if model.HalfWidth <= 0 || model.HalfHeight <= 0 {
			return nil, fmt.Errorf("%w: model half extents must be positive, got %g x %g",
				ErrCalibration, model.HalfWidth, model.HalfHeight)
		}
		layout.HalfWidth = model.HalfWidth
		layout.HalfHeight = model.HalfHeight
	default:
		return nil, fmt.Errorf("%w: unknown well shape %q", ErrConfiguration, model.Shape)
	}

	multiWell := desc.Rows*desc.Cols > 1
	if multiWell && (model.PitchX == 0 || model.PitchY == 0) {
		return nil, fmt.Errorf("%w: model carries no pitch for multi-well dish %q", ErrCalibration, desc.Name)
	}

	layout.Wells = make([]Well, 0, desc.Rows*desc.Cols)
	for i := 0; i < desc.Rows; i++ {
		for j := 0; j < desc.Cols; j++ {
			layout.Wells = append(layout.Wells, Well{
				Name:   wellName(i, j),
				Index:  i*desc.Cols + j,
				Row:    i,
				Col:    j,
				Center: Point{X: model.Anchor.X + colOffset(desc, model, j), Y: model.Anchor.Y + model.PitchY*float64(i)},
			})
		}
	}
	return layout, nil
}

// colOffset returns the x offset of column j relative to the A1 anchor. For
// containers with non-uniform column gaps the nominal offset table is scaled
// to the fitted pitch of the first column pair.
func colOffset(desc ContainerDescriptor, model GeometryModel, j int) float64 {
	if len(desc.ColOffsets) > j && desc.NominalPitchX != 0 {
		return desc.ColOffsets[j] * (model.PitchX / desc.NominalPitchX)
	}
	return model.PitchX * float64(j)
}

func wellName(row, col int) string {
	return fmt.Sprintf("%c%d", 'A'+rune(row), col+1)
}

// Select returns a copy of the layout restricted to the named wells, in
// layout (row-major) order. The single selector "all" keeps every well.
func (l *WellLayout) Select(selection []string) (*WellLayout, error) {
	if len(selection) == 0 || (len(selection) == 1 && strings.EqualFold(selection[0], "all")) {
		out := *l
		out.Wells = append([]Well(nil), l.Wells...)
		return &out, nil
	}

	wanted := make(map[string]bool, len(selection))
	for _, name := range selection {
		wanted[strings.ToUpper(name)] = true
	}

	out := *l
	out.Wells = nil
	for _, w := range l.Wells {
		if wanted[w.Name] {
			out.Wells = append(out.Wells, w)
			delete(wanted, w.Name)
		}
	}
	if len(wanted) > 0 {
		missing := make([]string, 0, len(wanted))
		for name := range wanted {
			missing = append(missing, name)
		}
		sort.Strings(missing)
		return nil, fmt.Errorf("%w: wells %s not found in dish %s", ErrConfiguration,
			strings.Join(missing, ", "), l.Container.Name)
	}
	return &out, nil
}
