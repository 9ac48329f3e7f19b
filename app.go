package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/BennyGinger/a1-stage/dish"
)

// App encapsulates the application state and dependencies.
type App struct {
	Config      *dish.Config
	Layout      *dish.WellLayout
	Plan        *dish.ImagingPlan
	Calibration *dish.CalibrationRecord

	// CLI flags (effectively dependencies)
	ConfigFile   string
	PointsFile   string
	OutputFile   string
	RenderFormat string
	VectorFormat string
	HTTPPort     int
}

// NewApp creates a new App instance.
func NewApp() *App {
	return &App{}
}

// LoadConfig loads the run configuration from the configured path.
func (a *App) LoadConfig() error {
	config, err := dish.LoadConfig(a.ConfigFile)
	if err != nil {
		return err
	}
	a.Config = config
	return nil
}

// RunListDishes prints the container catalog.
func (a *App) RunListDishes() {
	fmt.Println("Supported dishes:")
	for _, name := range dish.ContainerNames() {
		desc, _ := dish.Lookup(name)
		fmt.Printf("  %-12s %dx%d %s wells, %d reference points\n",
			desc.Name, desc.Rows, desc.Cols, desc.WellShape, desc.RequiredPoints)
		for _, hint := range desc.PointHints {
			fmt.Printf("               - %s\n", hint)
		}
	}
}

// RunCalibrate fits the dish geometry from the recorded reference points
// and persists the calibration record.
func (a *App) RunCalibrate() error {
	desc, err := dish.Lookup(a.Config.Dish)
	if err != nil {
		return err
	}
	if a.PointsFile == "" {
		return fmt.Errorf("calibration needs -points with the recorded reference points")
	}

	points, err := dish.CollectReferencePoints(desc, dish.FilePointSource(a.PointsFile))
	if err != nil {
		return err
	}
	model, err := dish.Fit(desc, points)
	if err != nil {
		return err
	}

	rec := &dish.CalibrationRecord{Dish: desc.Name, Model: model}
	path := a.Config.CalibrationPath()
	if err := dish.SaveCalibration(path, rec); err != nil {
		return err
	}
	a.Calibration = rec

	log.Printf("Calibration successful for %s: anchor (%.0f, %.0f)", desc.Name, model.Anchor.X, model.Anchor.Y)
	if model.Shape == dish.ShapeCircle {
		log.Printf("  well radius %.0f", model.Radius)
	}
	log.Printf("  saved to %s", path)
	return nil
}

// BuildPlan loads the calibration, derives the well layout and computes the
// full imaging plan.
func (a *App) BuildPlan() error {
	rec, err := dish.LoadCalibration(a.Config.CalibrationPath())
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("dish %s is not calibrated yet, run -calibrate first", a.Config.Dish)
	}
	if rec.Dish != a.Config.Dish {
		return fmt.Errorf("calibration file is for dish %s, config wants %s", rec.Dish, a.Config.Dish)
	}
	a.Calibration = rec

	desc, err := dish.Lookup(a.Config.Dish)
	if err != nil {
		return err
	}
	layout, err := dish.LayoutFor(desc, rec.Model)
	if err != nil {
		return err
	}
	layout, err = layout.Select(a.Config.Wells)
	if err != nil {
		return err
	}

	grids, err := dish.GenerateGrid(layout, a.Config.GridOptions())
	if err != nil {
		return err
	}

	if n := a.Config.SampleFields; n > 0 {
		for i := range grids {
			// Offset the seed per well so wells draw distinct fields while
			// the whole run stays reproducible.
			sampled, err := dish.SampleFields(grids[i].Tiles, n, a.Config.SampleSeed+int64(grids[i].WellIndex))
			if err != nil {
				return fmt.Errorf("sampling fields in well %s: %w", grids[i].WellName, err)
			}
			grids[i].Tiles = sampled
		}
	}

	plan, err := dish.BuildPlan(layout, grids, a.Config.FOV)
	if err != nil {
		return err
	}

	a.Layout = layout
	a.Plan = plan
	log.Printf("Built %s", plan)
	return nil
}

// RunPlan writes the imaging plan as JSON to the output file, or stdout when
// none is configured.
func (a *App) RunPlan() error {
	if err := a.BuildPlan(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(a.Plan, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling plan: %w", err)
	}
	if a.OutputFile == "" || a.OutputFile == "-" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(a.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("writing plan: %w", err)
	}
	log.Printf("Plan written to %s", a.OutputFile)
	return nil
}

// RunRender renders the plan preview.
func (a *App) RunRender() error {
	if err := a.BuildPlan(); err != nil {
		return err
	}

	out := a.OutputFile
	switch a.RenderFormat {
	case "", "raster":
		if out == "" {
			out = "plan-preview.png"
		}
		if err := dish.NewPlanRenderer(a.Layout, a.Plan).SavePNG(out); err != nil {
			return err
		}
	case "vector":
		renderer := dish.NewVectorPlanRenderer(a.Layout, a.Plan)
		if out == "" {
			out = "plan-preview." + a.vectorExt()
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		switch a.vectorExt() {
		case "svg":
			if err := renderer.RenderToSVG(f); err != nil {
				return err
			}
		case "png":
			if err := renderer.RenderToPNG(f); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown vector format %q (svg, png)", a.VectorFormat)
		}
	default:
		return fmt.Errorf("unknown render format %q (raster, vector)", a.RenderFormat)
	}

	log.Printf("Preview written to %s", out)
	return nil
}

func (a *App) vectorExt() string {
	if a.VectorFormat == "" {
		return "svg"
	}
	return a.VectorFormat
}

// RunPublish publishes the plan to the configured MQTT broker.
func (a *App) RunPublish() error {
	if err := a.BuildPlan(); err != nil {
		return err
	}
	if a.Config.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker must be configured for -publish")
	}

	client, err := dish.ConnectPublisher(a.Config.MQTT)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	publisher := dish.NewPlanPublisher(client, a.Config.MQTT.TopicPrefix)
	if err := publisher.PublishPlan(a.Plan); err != nil {
		return err
	}
	log.Printf("Published %d positions to %s", len(a.Plan.Tiles), a.Config.MQTT.Broker)
	return nil
}
