package dish

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rectWellLayout builds a single rectangular well centered at the origin.
func rectWellLayout(halfW, halfH float64) *WellLayout {
	return &WellLayout{
		Container: ContainerDescriptor{Name: "test-rect", Rows: 1, Cols: 1, WellShape: ShapeRectangle},
		Shape:     ShapeRectangle,
		HalfWidth: halfW, HalfHeight: halfH,
		Wells: []Well{{Name: "A1", Index: 0, Center: Point{}}},
	}
}

// circleWellLayout builds a single circular well centered at the origin.
func circleWellLayout(radius float64) *WellLayout {
	return &WellLayout{
		Container: ContainerDescriptor{Name: "test-circle", Rows: 1, Cols: 1, WellShape: ShapeCircle},
		Shape:     ShapeCircle,
		Radius:    radius,
		Wells:     []Well{{Name: "A1", Index: 0, Center: Point{}}},
	}
}

func fixedOverlap(v float64) *float64 {
	return &v
}

func TestGenerateGridExactMultiple(t *testing.T) {
	// 2000 x 1000 well, 500 x 250 field of view, zero overlap: exactly
	// 4 x 4 tiles, none outside the well.
	layout := rectWellLayout(1000, 500)
	grids, err := GenerateGrid(layout, GridOptions{
		FOV:     FieldOfView{Width: 500, Height: 250},
		Overlap: fixedOverlap(0),
	})
	require.NoError(t, err)
	require.Len(t, grids, 1)

	tiles := grids[0].Tiles
	require.Len(t, tiles, 16)

	bounds := layout.WellBounds(layout.Wells[0])
	for _, tile := range tiles {
		assert.GreaterOrEqual(t, tile.Position.X-250, bounds.Min[0])
		assert.LessOrEqual(t, tile.Position.X+250, bounds.Max[0])
		assert.GreaterOrEqual(t, tile.Position.Y-125, bounds.Min[1])
		assert.LessOrEqual(t, tile.Position.Y+125, bounds.Max[1])
	}

	// Adjacent tiles are exactly one step apart.
	assert.InDelta(t, 500, tiles[1].Position.X-tiles[0].Position.X, 1e-9)
}

func TestGenerateGridSerpentineAdjacency(t *testing.T) {
	layout := rectWellLayout(1000, 500)
	grids, err := GenerateGrid(layout, GridOptions{
		FOV:     FieldOfView{Width: 500, Height: 250},
		Overlap: fixedOverlap(0),
	})
	require.NoError(t, err)

	tiles := grids[0].Tiles
	for i := 1; i < len(tiles); i++ {
		dx := math.Abs(tiles[i].Position.X - tiles[i-1].Position.X)
		dy := math.Abs(tiles[i].Position.Y - tiles[i-1].Position.Y)
		// Serpentine: consecutive tiles move by one grid step along exactly
		// one axis.
		moved := 0
		if dx > 1e-9 {
			assert.InDelta(t, 500, dx, 1e-9)
			moved++
		}
		if dy > 1e-9 {
			assert.InDelta(t, 250, dy, 1e-9)
			moved++
		}
		assert.Equal(t, 1, moved, "tiles %d and %d are not grid-adjacent", i-1, i)
	}

	// Row 1 runs right to left.
	assert.Equal(t, 0, tiles[0].Row)
	assert.Equal(t, 0, tiles[0].Col)
	assert.Equal(t, 1, tiles[4].Row)
	assert.Equal(t, 3, tiles[4].Col)
}

func TestGenerateGridCoverage(t *testing.T) {
	// Non-integer span/fov ratio: the last row/column is pulled inward and
	// the union of footprints must still cover the whole well.
	layout := rectWellLayout(1000, 500)
	fov := FieldOfView{Width: 300, Height: 300}
	grids, err := GenerateGrid(layout, GridOptions{FOV: fov, Overlap: fixedOverlap(0.1)})
	require.NoError(t, err)

	tiles := grids[0].Tiles
	require.NotEmpty(t, tiles)

	bounds := layout.WellBounds(layout.Wells[0])
	const samples = 60
	for i := 0; i <= samples; i++ {
		for j := 0; j <= samples; j++ {
			p := Point{
				X: bounds.Min[0] + (bounds.Max[0]-bounds.Min[0])*float64(i)/samples,
				Y: bounds.Min[1] + (bounds.Max[1]-bounds.Min[1])*float64(j)/samples,
			}
			covered := false
			for _, tile := range tiles {
				if math.Abs(p.X-tile.Position.X) <= fov.Width/2+1e-9 &&
					math.Abs(p.Y-tile.Position.Y) <= fov.Height/2+1e-9 {
					covered = true
					break
				}
			}
			if !covered {
				t.Fatalf("well point (%.1f, %.1f) not covered by any tile footprint", p.X, p.Y)
			}
		}
	}
}

func TestGenerateGridCircleCenterContainment(t *testing.T) {
	layout := circleWellLayout(1000)
	grids, err := GenerateGrid(layout, GridOptions{
		FOV:     FieldOfView{Width: 400, Height: 400},
		Overlap: fixedOverlap(0),
	})
	require.NoError(t, err)

	// 5x5 candidate grid minus the 4 corner tiles whose centers fall
	// outside the circle.
	tiles := grids[0].Tiles
	assert.Len(t, tiles, 21)
	for _, tile := range tiles {
		d := Distance(tile.Position, layout.Wells[0].Center)
		assert.Less(t, d, layout.Radius, "tile center outside the well")
	}
}

func TestGenerateGridCircleCornerPolicy(t *testing.T) {
	layout := circleWellLayout(1000)
	grids, err := GenerateGrid(layout, GridOptions{
		FOV:          FieldOfView{Width: 400, Height: 400},
		Overlap:      fixedOverlap(0),
		MinCornersIn: 4,
	})
	require.NoError(t, err)

	// Requiring all four corners inside keeps only the fully interior 3x3
	// block.
	assert.Len(t, grids[0].Tiles, 9)
}

func TestGenerateGridSmallWellSingleTile(t *testing.T) {
	// A well narrower than one field of view yields a single centered tile.
	layout := rectWellLayout(100, 100)
	grids, err := GenerateGrid(layout, GridOptions{
		FOV:     FieldOfView{Width: 500, Height: 500},
		Overlap: fixedOverlap(0),
	})
	require.NoError(t, err)

	require.Len(t, grids[0].Tiles, 1)
	assert.Equal(t, Point{}, grids[0].Tiles[0].Position)
}

func TestGenerateGridOptimalOverlap(t *testing.T) {
	// span 2000, fov 600: four tiles with ~16.7% overlap fill the axis
	// exactly.
	ovX, ovY := OptimalOverlap(FieldOfView{Width: 600, Height: 600}, 2000, 2000)
	assert.InDelta(t, (4.0-2000.0/600.0)/4.0, ovX, 1e-12)
	assert.Equal(t, ovX, ovY)

	layout := rectWellLayout(1000, 1000)
	grids, err := GenerateGrid(layout, GridOptions{FOV: FieldOfView{Width: 600, Height: 600}})
	require.NoError(t, err)
	assert.Len(t, grids[0].Tiles, 16)
}

func TestGenerateGridInvalidOptions(t *testing.T) {
	layout := rectWellLayout(1000, 500)

	tests := []struct {
		name string
		opts GridOptions
	}{
		{name: "zero fov", opts: GridOptions{FOV: FieldOfView{}}},
		{name: "negative fov", opts: GridOptions{FOV: FieldOfView{Width: -10, Height: 10}}},
		{name: "overlap one", opts: GridOptions{FOV: FieldOfView{Width: 10, Height: 10}, Overlap: fixedOverlap(1)}},
		{name: "overlap above one", opts: GridOptions{FOV: FieldOfView{Width: 10, Height: 10}, Overlap: fixedOverlap(1.5)}},
		{name: "negative overlap", opts: GridOptions{FOV: FieldOfView{Width: 10, Height: 10}, Overlap: fixedOverlap(-0.1)}},
		{name: "bad corner policy", opts: GridOptions{FOV: FieldOfView{Width: 10, Height: 10}, MinCornersIn: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GenerateGrid(layout, tt.opts)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestGenerateGridIdempotent(t *testing.T) {
	layout := circleWellLayout(10500)
	opts := GridOptions{FOV: FieldOfView{Width: 1331.2, Height: 1331.2}}

	first, err := GenerateGrid(layout, opts)
	require.NoError(t, err)
	second, err := GenerateGrid(layout, opts)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("GenerateGrid is not deterministic (-first +second):\n%s", diff)
	}
}
