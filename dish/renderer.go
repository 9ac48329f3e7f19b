package dish

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// PlanRenderer renders a calibrated layout and its imaging plan to a raster
// preview image: well outlines, tile footprints and the traversal path.
type PlanRenderer struct {
	Layout *WellLayout
	Plan   *ImagingPlan

	Scale   float64 // pixels per stage unit
	Padding int     // padding in pixels
}

// NewPlanRenderer creates a renderer with default settings. Stage units are
// micrometers, so the default scale keeps a 96-well plate around 2000 px
// wide.
func NewPlanRenderer(layout *WellLayout, plan *ImagingPlan) *PlanRenderer {
	return &PlanRenderer{
		Layout:  layout,
		Plan:    plan,
		Scale:   0.02,
		Padding: 30,
	}
}

// Render draws the preview image.
func (r *PlanRenderer) Render() *image.RGBA {
	b := boundsOf(r.Layout)
	width := int((b.Max[0]-b.Min[0])*r.Scale) + 2*r.Padding
	height := int((b.Max[1]-b.Min[1])*r.Scale) + 2*r.Padding

	// Limit size
	if width > 4000 {
		r.Scale *= float64(4000) / float64(width)
		width = 4000
		height = int((b.Max[1]-b.Min[1])*r.Scale) + 2*r.Padding
	}
	if height > 4000 {
		r.Scale *= float64(4000) / float64(height)
		height = 4000
		width = int((b.Max[0]-b.Min[0])*r.Scale) + 2*r.Padding
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{240, 240, 240, 255})
		}
	}

	toImage := func(p Point) (int, int) {
		x := int((p.X-b.Min[0])*r.Scale) + r.Padding
		y := int((p.Y-b.Min[1])*r.Scale) + r.Padding
		return x, y
	}

	wellColor := color.RGBA{0, 0, 139, 255}     // dark blue outlines
	tileColor := color.RGBA{144, 238, 144, 255} // light green footprints
	pathColor := color.RGBA{255, 99, 71, 255}   // tomato traversal path

	// First pass: well outlines and labels.
	for _, w := range r.Layout.Wells {
		cx, cy := toImage(w.Center)
		switch r.Layout.Shape {
		case ShapeCircle:
			drawCircleOutline(img, cx, cy, int(r.Layout.Radius*r.Scale), wellColor)
		case ShapeRectangle:
			hw := int(r.Layout.HalfWidth * r.Scale)
			hh := int(r.Layout.HalfHeight * r.Scale)
			drawRectOutline(img, cx-hw, cy-hh, cx+hw, cy+hh, wellColor)
		}
		drawText(img, cx-7, cy+4, w.Name, color.RGBA{0, 0, 0, 255})
	}

	// Second pass: tile footprints.
	if r.Plan != nil {
		fw := int(r.Plan.FieldOfView.Width * r.Scale / 2)
		fh := int(r.Plan.FieldOfView.Height * r.Scale / 2)
		for _, t := range r.Plan.Tiles {
			cx, cy := toImage(t.Position)
			drawRectOutline(img, cx-fw, cy-fh, cx+fw, cy+fh, tileColor)
		}

		// Third pass: traversal path.
		for i := 1; i < len(r.Plan.Tiles); i++ {
			x1, y1 := toImage(r.Plan.Tiles[i-1].Position)
			x2, y2 := toImage(r.Plan.Tiles[i].Position)
			drawLine(img, x1, y1, x2, y2, pathColor)
		}
	}

	return img
}

// SavePNG renders the preview and writes it to a file.
func (r *PlanRenderer) SavePNG(path string) error {
	img := r.Render()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return png.Encode(f, img)
}

// drawText renders text onto an image at the specified position.
func drawText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}

// drawCircleOutline draws a 1 px circle outline by angle stepping.
func drawCircleOutline(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	if radius <= 0 {
		return
	}
	steps := 8 * radius
	for i := 0; i < steps; i++ {
		theta := 2 * math.Pi * float64(i) / float64(steps)
		x := cx + int(float64(radius)*math.Cos(theta))
		y := cy + int(float64(radius)*math.Sin(theta))
		setPixel(img, x, y, c)
	}
}

func drawRectOutline(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	for x := x1; x <= x2; x++ {
		setPixel(img, x, y1, c)
		setPixel(img, x, y2, c)
	}
	for y := y1; y <= y2; y++ {
		setPixel(img, x1, y, c)
		setPixel(img, x2, y, c)
	}
}

// drawLine draws a 1 px line by linear interpolation.
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, c color.RGBA) {
	dx, dy := x2-x1, y2-y1
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		setPixel(img, x1, y1, c)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x1 + dx*i/steps
		y := y1 + dy*i/steps
		setPixel(img, x, y, c)
	}
}

func setPixel(img *image.RGBA, x, y int, c color.RGBA) {
	if x >= 0 && x < img.Rect.Dx() && y >= 0 && y < img.Rect.Dy() {
		img.Set(x, y, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
