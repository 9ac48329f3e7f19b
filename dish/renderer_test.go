package dish

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rendererFixture(t *testing.T) (*WellLayout, *ImagingPlan) {
	t.Helper()
	layout := sixWellLayout()
	fov := FieldOfView{Width: 2000, Height: 2000}
	grids, err := GenerateGrid(layout, GridOptions{FOV: fov, Overlap: fixedOverlap(0)})
	require.NoError(t, err)
	plan, err := BuildPlan(layout, grids, fov)
	require.NoError(t, err)
	return layout, plan
}

func TestRenderPreview(t *testing.T) {
	layout, plan := rendererFixture(t)
	r := NewPlanRenderer(layout, plan)

	img := r.Render()
	require.NotNil(t, img)
	assert.Greater(t, img.Rect.Dx(), 2*r.Padding)
	assert.Greater(t, img.Rect.Dy(), 2*r.Padding)

	// Background, well outlines, tile footprints and the path must all be
	// present.
	background := color.RGBA{240, 240, 240, 255}
	wants := []color.RGBA{
		background,
		{0, 0, 139, 255},     // well outlines
		{144, 238, 144, 255}, // tile footprints
		{255, 99, 71, 255},   // traversal path
	}
	found := make(map[color.RGBA]bool)
	for y := 0; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Rect.Dx(); x++ {
			if c, ok := img.At(x, y).(color.RGBA); ok {
				found[c] = true
			}
		}
	}
	for _, c := range wants {
		assert.True(t, found[c], "color %v missing from the preview", c)
	}
}

func TestRenderWithoutPlan(t *testing.T) {
	layout, _ := rendererFixture(t)
	r := NewPlanRenderer(layout, nil)

	img := r.Render()
	require.NotNil(t, img)

	// Well outlines still draw, the path does not.
	found := make(map[color.RGBA]bool)
	for y := 0; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Rect.Dx(); x++ {
			if c, ok := img.At(x, y).(color.RGBA); ok {
				found[c] = true
			}
		}
	}
	assert.True(t, found[color.RGBA{0, 0, 139, 255}])
	assert.False(t, found[color.RGBA{255, 99, 71, 255}])
}

func TestRenderSizeCap(t *testing.T) {
	layout, plan := rendererFixture(t)
	r := NewPlanRenderer(layout, plan)
	r.Scale = 1 // would be 20000 px wide uncapped

	img := r.Render()
	assert.LessOrEqual(t, img.Rect.Dx(), 4000)
	assert.LessOrEqual(t, img.Rect.Dy(), 4000)
}

func TestSavePNG(t *testing.T) {
	layout, plan := rendererFixture(t)
	path := filepath.Join(t.TempDir(), "plan.png")

	require.NoError(t, NewPlanRenderer(layout, plan).SavePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Greater(t, img.Bounds().Dx(), 0)
}
