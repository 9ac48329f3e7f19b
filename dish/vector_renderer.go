package dish

import (
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/paulmach/orb"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// VectorPlanRenderer renders a layout and plan as vector graphics, suitable
// for crisp zooming into individual tiles. Output units are millimeters.
type VectorPlanRenderer struct {
	Layout *WellLayout
	Plan   *ImagingPlan

	Padding     float64           // padding in stage units
	GridSpacing float64           // background grid spacing in stage units; 0 disables
	Resolution  canvas.Resolution // resolution for PNG output
}

// NewVectorPlanRenderer creates a vector renderer with default settings.
func NewVectorPlanRenderer(layout *WellLayout, plan *ImagingPlan) *VectorPlanRenderer {
	return &VectorPlanRenderer{
		Layout:      layout,
		Plan:        plan,
		Padding:     2 * mm,
		GridSpacing: 10 * mm,
		Resolution:  canvas.DPI(300),
	}
}

// canvasRenderer is the subset both the svg and rasterizer backends satisfy.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the plan preview as an SVG to the provided writer.
func (r *VectorPlanRenderer) RenderToSVG(w io.Writer) error {
	width, height := r.size()
	svgRenderer := svg.New(w, width/mm, height/mm, nil)
	r.renderToCanvas(svgRenderer, width, height)
	return svgRenderer.Close()
}

// RenderToPNG writes the plan preview as a rasterized PNG to the provided
// writer.
func (r *VectorPlanRenderer) RenderToPNG(w io.Writer) error {
	width, height := r.size()
	rast := rasterizer.New(width/mm, height/mm, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, width, height)
	return png.Encode(w, rast)
}

func (r *VectorPlanRenderer) size() (width, height float64) {
	b := boundsOf(r.Layout)
	return (b.Max[0] - b.Min[0]) + 2*r.Padding, (b.Max[1] - b.Min[1]) + 2*r.Padding
}

func (r *VectorPlanRenderer) renderToCanvas(renderer canvasRenderer, width, height float64) {
	b := boundsOf(r.Layout)

	// World stage units to canvas millimeters, y flipped so row A draws at
	// the top.
	toCanvas := func(p Point) (float64, float64) {
		return ((p.X - b.Min[0]) + r.Padding) / mm, (height - ((p.Y - b.Min[1]) + r.Padding)) / mm
	}

	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(width/mm, height/mm), bgStyle, canvas.Identity)

	// Background grid.
	if r.GridSpacing > 0 {
		gridStyle := canvas.DefaultStyle
		gridStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		gridStyle.Stroke = canvas.Paint{Color: canvas.Gray}
		gridStyle.StrokeWidth = 0.05
		gridStyle.Dashes = []float64{0.5, 0.5}

		for x := math.Floor(b.Min[0]/r.GridSpacing) * r.GridSpacing; x <= b.Max[0]; x += r.GridSpacing {
			p := &canvas.Path{}
			x1, y1 := toCanvas(Point{X: x, Y: b.Min[1]})
			x2, y2 := toCanvas(Point{X: x, Y: b.Max[1]})
			p.MoveTo(x1, y1)
			p.LineTo(x2, y2)
			renderer.RenderPath(p, gridStyle, canvas.Identity)
		}
		for y := math.Floor(b.Min[1]/r.GridSpacing) * r.GridSpacing; y <= b.Max[1]; y += r.GridSpacing {
			p := &canvas.Path{}
			x1, y1 := toCanvas(Point{X: b.Min[0], Y: y})
			x2, y2 := toCanvas(Point{X: b.Max[0], Y: y})
			p.MoveTo(x1, y1)
			p.LineTo(x2, y2)
			renderer.RenderPath(p, gridStyle, canvas.Identity)
		}
	}

	// Well outlines.
	wellStyle := canvas.DefaultStyle
	wellStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	wellStyle.Stroke = canvas.Paint{Color: color.RGBA{0, 0, 139, 255}}
	wellStyle.StrokeWidth = 0.2

	for _, well := range r.Layout.Wells {
		cx, cy := toCanvas(well.Center)
		var p *canvas.Path
		switch r.Layout.Shape {
		case ShapeCircle:
			p = canvas.Circle(r.Layout.Radius/mm).Translate(cx, cy)
		case ShapeRectangle:
			w, h := 2*r.Layout.HalfWidth/mm, 2*r.Layout.HalfHeight/mm
			p = canvas.Rectangle(w, h).Translate(cx-w/2, cy-h/2)
		}
		renderer.RenderPath(p, wellStyle, canvas.Identity)
	}

	if r.Plan == nil {
		return
	}

	// Tile footprints.
	tileStyle := canvas.DefaultStyle
	tileStyle.Fill = canvas.Paint{Color: color.RGBA{86, 142, 86, 60}}
	tileStyle.Stroke = canvas.Paint{Color: color.RGBA{0, 100, 0, 255}}
	tileStyle.StrokeWidth = 0.05

	fw, fh := r.Plan.FieldOfView.Width/mm, r.Plan.FieldOfView.Height/mm
	for _, t := range r.Plan.Tiles {
		cx, cy := toCanvas(t.Position)
		p := canvas.Rectangle(fw, fh).Translate(cx-fw/2, cy-fh/2)
		renderer.RenderPath(p, tileStyle, canvas.Identity)
	}

	// Traversal path.
	if len(r.Plan.Tiles) > 1 {
		pathStyle := canvas.DefaultStyle
		pathStyle.Fill = canvas.Paint{Color: canvas.Transparent}
		pathStyle.Stroke = canvas.Paint{Color: color.RGBA{200, 60, 40, 255}}
		pathStyle.StrokeWidth = 0.1

		p := &canvas.Path{}
		for i, t := range r.Plan.Tiles {
			cx, cy := toCanvas(t.Position)
			if i == 0 {
				p.MoveTo(cx, cy)
			} else {
				p.LineTo(cx, cy)
			}
		}
		renderer.RenderPath(p, pathStyle, canvas.Identity)
	}
}

func boundsOf(layout *WellLayout) orb.Bound {
	b := layout.WellBounds(layout.Wells[0])
	for _, w := range layout.Wells[1:] {
		b = b.Union(layout.WellBounds(w))
	}
	return b
}
