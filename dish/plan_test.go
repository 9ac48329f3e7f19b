package dish

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sixWellLayout builds a calibrated 2x3 plate with 10 mm pitch.
func sixWellLayout() *WellLayout {
	desc := ContainerDescriptor{
		Name: "test-6well", Rows: 2, Cols: 3,
		WellShape: ShapeCircle, WellRadius: 4000,
	}
	wells := make([]Well, 0, 6)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			wells = append(wells, Well{
				Name:   wellName(i, j),
				Index:  i*3 + j,
				Row:    i,
				Col:    j,
				Center: Point{X: float64(j) * 10000, Y: float64(i) * 10000},
			})
		}
	}
	return &WellLayout{Container: desc, Shape: ShapeCircle, Radius: 4000, Wells: wells}
}

// singleTileGrids gives every well exactly one tile at its center.
func singleTileGrids(layout *WellLayout) []WellTiles {
	grids := make([]WellTiles, 0, len(layout.Wells))
	for _, w := range layout.Wells {
		grids = append(grids, WellTiles{
			WellIndex: w.Index,
			WellName:  w.Name,
			Tiles:     []Tile{{Position: w.Center, WellIndex: w.Index, WellName: w.Name}},
		})
	}
	return grids
}

func TestBuildPlanSerpentineWellOrder(t *testing.T) {
	layout := sixWellLayout()
	plan, err := BuildPlan(layout, singleTileGrids(layout), FieldOfView{Width: 1000, Height: 1000})
	require.NoError(t, err)

	var visited []string
	for _, tile := range plan.Tiles {
		visited = append(visited, tile.WellName)
	}
	// Row A left to right, row B right to left.
	assert.Equal(t, []string{"A1", "A2", "A3", "B3", "B2", "B1"}, visited)
}

func TestBuildPlanAdjacentWells(t *testing.T) {
	layout := sixWellLayout()
	plan, err := BuildPlan(layout, singleTileGrids(layout), FieldOfView{Width: 1000, Height: 1000})
	require.NoError(t, err)

	// Consecutive positions are one well pitch apart, never a diagonal jump.
	for i := 1; i < len(plan.Tiles); i++ {
		d := Distance(plan.Tiles[i-1].Position, plan.Tiles[i].Position)
		assert.InDelta(t, 10000, d, 1e-9, "jump between tiles %d and %d", i-1, i)
	}
	assert.InDelta(t, 5*10000, plan.TotalTravel(), 1e-9)
}

func TestBuildPlanKeepsTileOrderWithinWell(t *testing.T) {
	layout := sixWellLayout()
	grids, err := GenerateGrid(layout, GridOptions{
		FOV:     FieldOfView{Width: 2000, Height: 2000},
		Overlap: fixedOverlap(0),
	})
	require.NoError(t, err)

	plan, err := BuildPlan(layout, grids, FieldOfView{Width: 2000, Height: 2000})
	require.NoError(t, err)

	// The plan is the concatenation of the per-well tile lists in visit
	// order, with no reordering inside a well.
	offset := 0
	for _, name := range []string{"A1", "A2", "A3", "B3", "B2", "B1"} {
		var wellTiles []Tile
		for _, g := range grids {
			if g.WellName == name {
				wellTiles = g.Tiles
			}
		}
		require.NotNil(t, wellTiles)
		if diff := cmp.Diff(wellTiles, plan.Tiles[offset:offset+len(wellTiles)]); diff != "" {
			t.Errorf("well %s tiles reordered (-grid +plan):\n%s", name, diff)
		}
		offset += len(wellTiles)
	}
	assert.Equal(t, offset, len(plan.Tiles))
}

func TestBuildPlanMissingWell(t *testing.T) {
	layout := sixWellLayout()
	grids := singleTileGrids(layout)[:5]

	_, err := BuildPlan(layout, grids, FieldOfView{Width: 1000, Height: 1000})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestBuildPlanDuplicateWell(t *testing.T) {
	layout := sixWellLayout()
	grids := singleTileGrids(layout)
	grids = append(grids, grids[0])

	_, err := BuildPlan(layout, grids, FieldOfView{Width: 1000, Height: 1000})
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestBuildPlanSelectedWells(t *testing.T) {
	layout := sixWellLayout()
	selected, err := layout.Select([]string{"a1", "b2"})
	require.NoError(t, err)

	grids := []WellTiles{
		{WellIndex: 0, WellName: "A1", Tiles: []Tile{{Position: Point{}, WellIndex: 0, WellName: "A1"}}},
		{WellIndex: 4, WellName: "B2", Tiles: []Tile{{Position: Point{X: 10000, Y: 10000}, WellIndex: 4, WellName: "B2"}}},
	}
	plan, err := BuildPlan(selected, grids, FieldOfView{Width: 1000, Height: 1000})
	require.NoError(t, err)

	require.Len(t, plan.Tiles, 2)
	assert.Equal(t, "A1", plan.Tiles[0].WellName)
	assert.Equal(t, "B2", plan.Tiles[1].WellName)
}

func TestSampleFieldsDeterministic(t *testing.T) {
	layout := circleWellLayout(10500)
	grids, err := GenerateGrid(layout, GridOptions{
		FOV:     FieldOfView{Width: 1000, Height: 1000},
		Overlap: fixedOverlap(0),
	})
	require.NoError(t, err)
	tiles := grids[0].Tiles
	require.Greater(t, len(tiles), 20)

	first, err := SampleFields(tiles, 12, 42)
	require.NoError(t, err)
	second, err := SampleFields(tiles, 12, 42)
	require.NoError(t, err)

	assert.Len(t, first, 12)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed gave different samples (-first +second):\n%s", diff)
	}

	other, err := SampleFields(tiles, 12, 43)
	require.NoError(t, err)
	assert.NotEqual(t, first, other, "different seeds should pick different fields")
}

func TestSampleFieldsSubsetOfInput(t *testing.T) {
	layout := circleWellLayout(10500)
	grids, err := GenerateGrid(layout, GridOptions{
		FOV:     FieldOfView{Width: 1000, Height: 1000},
		Overlap: fixedOverlap(0),
	})
	require.NoError(t, err)
	tiles := grids[0].Tiles

	sampled, err := SampleFields(tiles, 8, 7)
	require.NoError(t, err)

	seen := make(map[Point]bool)
	for _, tile := range tiles {
		seen[tile.Position] = true
	}
	for _, tile := range sampled {
		assert.True(t, seen[tile.Position], "sampled tile %v not in the input grid", tile.Position)
	}
}

func TestSampleFieldsOrderingShortensTravel(t *testing.T) {
	// Four corners of a square: any crossing path is longer than the
	// perimeter walk the 2-opt pass should settle on.
	tiles := []Tile{
		{Position: Point{X: 0, Y: 0}},
		{Position: Point{X: 1000, Y: 1000}},
		{Position: Point{X: 0, Y: 1000}},
		{Position: Point{X: 1000, Y: 0}},
	}

	ordered, err := SampleFields(tiles, 4, 1)
	require.NoError(t, err)

	var travel float64
	for i := 1; i < len(ordered); i++ {
		travel += Distance(ordered[i-1].Position, ordered[i].Position)
	}
	assert.InDelta(t, 3000, travel, 1e-9)
}

func TestSampleFieldsErrors(t *testing.T) {
	tiles := []Tile{{Position: Point{}}, {Position: Point{X: 1}}}

	_, err := SampleFields(tiles, 0, 1)
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = SampleFields(tiles, 3, 1)
	assert.ErrorIs(t, err, ErrConfiguration)
}
