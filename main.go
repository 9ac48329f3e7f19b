package main

import (
	"flag"
	"fmt"
	"log"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	configFile    = flag.String("config", "config.yaml", "Path to configuration file")
	listDishes    = flag.Bool("list-dishes", false, "List supported dish types and exit")
	calibrateMode = flag.Bool("calibrate", false, "Fit the dish geometry from recorded reference points")
	pointsFile    = flag.String("points", "", "JSON file with the recorded reference points (for -calibrate)")
	planMode      = flag.Bool("plan", false, "Compute the imaging plan and write it as JSON")
	renderMode    = flag.Bool("render", false, "Render a plan preview image")
	renderFormat  = flag.String("format", "raster", "Render format: raster or vector")
	vectorFormat  = flag.String("vector-format", "svg", "Vector output format: svg or png")
	outputFile    = flag.String("output", "", "Output file (default depends on mode)")
	publishMode   = flag.Bool("publish", false, "Publish the imaging plan to the configured MQTT broker")
	httpMode      = flag.Bool("http", false, "Serve the plan preview over HTTP")
	httpPort      = flag.Int("http-port", 8080, "HTTP server port")
)

func main() {
	flag.Parse()
	fmt.Printf("a1-stage version: %s\n", Version)

	app := NewApp()
	app.ConfigFile = *configFile
	app.PointsFile = *pointsFile
	app.OutputFile = *outputFile
	app.RenderFormat = *renderFormat
	app.VectorFormat = *vectorFormat
	app.HTTPPort = *httpPort

	if *listDishes {
		app.RunListDishes()
		return
	}

	if err := app.LoadConfig(); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	switch {
	case *calibrateMode:
		if err := app.RunCalibrate(); err != nil {
			log.Fatalf("Calibration failed: %v", err)
		}
	case *planMode:
		if err := app.RunPlan(); err != nil {
			log.Fatalf("Planning failed: %v", err)
		}
	case *renderMode:
		if err := app.RunRender(); err != nil {
			log.Fatalf("Rendering failed: %v", err)
		}
	case *publishMode:
		if err := app.RunPublish(); err != nil {
			log.Fatalf("Publishing failed: %v", err)
		}
	case *httpMode:
		if err := app.RunServe(); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	default:
		fmt.Println("a1-stage: dish calibration and imaging plan generation")
		fmt.Println("Use -list-dishes to show supported dish types")
		fmt.Println("Use -calibrate -points points.json to fit the dish geometry")
		fmt.Println("Use -plan to compute the imaging plan")
		fmt.Println("Use -render to write a plan preview image")
		fmt.Println("Use -publish to hand the plan to the acquisition driver over MQTT")
		fmt.Println("Use -http to serve the plan preview")
		fmt.Println("\nConfiguration:")
		fmt.Println("  config.yaml - dish selection, field of view, overlap and output settings")
		fmt.Println("  calib_<dish>.json - persisted calibration (written by -calibrate)")
	}
}
