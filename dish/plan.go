package dish

import (
	"fmt"
	"math/rand"
)

// BuildPlan orders the per-well tile lists into the final stage traversal.
// Wells are visited in serpentine order across the plate rows (row 0 left to
// right, row 1 right to left, ...) and each well's tiles keep their internal
// serpentine order, so consecutive positions are always adjacent tiles or
// adjacent wells, never arbitrary jumps. This trades global optimality for a
// deterministic, predictable path.
func BuildPlan(layout *WellLayout, grids []WellTiles, fov FieldOfView) (*ImagingPlan, error) {
	byWell := make(map[int][]Tile, len(grids))
	for _, g := range grids {
		if _, dup := byWell[g.WellIndex]; dup {
			return nil, fmt.Errorf("%w: duplicate tile list for well %s", ErrConfiguration, g.WellName)
		}
		byWell[g.WellIndex] = g.Tiles
	}

	// Group layout wells by row, preserving column order.
	rows := make(map[int][]Well)
	maxRow := 0
	for _, w := range layout.Wells {
		rows[w.Row] = append(rows[w.Row], w)
		if w.Row > maxRow {
			maxRow = w.Row
		}
	}

	plan := &ImagingPlan{
		Container:   layout.Container.Name,
		FieldOfView: fov,
	}
	for r := 0; r <= maxRow; r++ {
		wells := rows[r]
		if r%2 == 1 {
			wells = reversedWells(wells)
		}
		for _, w := range wells {
			tiles, ok := byWell[w.Index]
			if !ok {
				return nil, fmt.Errorf("%w: no tile list for well %s", ErrConfiguration, w.Name)
			}
			plan.Tiles = append(plan.Tiles, tiles...)
		}
	}
	return plan, nil
}

func reversedWells(wells []Well) []Well {
	out := make([]Well, len(wells))
	for i, w := range wells {
		out[len(wells)-1-i] = w
	}
	return out
}

// SampleFields draws a deterministic random subset of n tiles from a well's
// tile list and orders it for short stage travel, for sparse acquisition
// modes that image a fixed number of fields per well rather than the full
// grid. The ordering is nearest-neighbour followed by 2-opt improvement; it
// is a heuristic, not an exact shortest tour.
func SampleFields(tiles []Tile, n int, seed int64) ([]Tile, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: field sample size must be positive, got %d", ErrConfiguration, n)
	}
	if n > len(tiles) {
		return nil, fmt.Errorf("%w: cannot sample %d fields from %d tiles", ErrConfiguration, n, len(tiles))
	}

	rng := rand.New(rand.NewSource(seed))
	picked := make([]Tile, 0, n)
	for _, i := range rng.Perm(len(tiles))[:n] {
		picked = append(picked, tiles[i])
	}

	ordered := nearestNeighbourOrder(picked)
	twoOpt(ordered)
	return ordered, nil
}

// nearestNeighbourOrder greedily chains tiles starting from the first pick.
func nearestNeighbourOrder(tiles []Tile) []Tile {
	if len(tiles) < 3 {
		return tiles
	}
	out := make([]Tile, 0, len(tiles))
	remaining := append([]Tile(nil), tiles...)

	current := remaining[0]
	out = append(out, current)
	remaining = remaining[1:]
	for len(remaining) > 0 {
		best := 0
		bestDist := Distance(current.Position, remaining[0].Position)
		for i, t := range remaining[1:] {
			if d := Distance(current.Position, t.Position); d < bestDist {
				best, bestDist = i+1, d
			}
		}
		current = remaining[best]
		out = append(out, current)
		remaining = append(remaining[:best], remaining[best+1:]...)
	}
	return out
}

// twoOpt removes path crossings by reversing segments while any reversal
// shortens the tour. Bounded by a fixed pass count to keep the runtime
// proportional to the input.
func twoOpt(tiles []Tile) {
	const maxPasses = 8
	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for i := 0; i < len(tiles)-2; i++ {
			for j := i + 2; j < len(tiles)-1; j++ {
				before := Distance(tiles[i].Position, tiles[i+1].Position) +
					Distance(tiles[j].Position, tiles[j+1].Position)
				after := Distance(tiles[i].Position, tiles[j].Position) +
					Distance(tiles[i+1].Position, tiles[j+1].Position)
				if after < before-1e-9 {
					reverseTiles(tiles[i+1 : j+1])
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func reverseTiles(tiles []Tile) {
	for i, j := 0, len(tiles)-1; i < j; i, j = i+1, j-1 {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}
