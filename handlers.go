package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/BennyGinger/a1-stage/dish"
)

// newHTTPServer creates the plan preview server. The plan is computed once
// at startup and served read-only; rebuilding requires a restart, matching
// the one-shot nature of a calibration session.
func newHTTPServer(layout *dish.WellLayout, plan *dish.ImagingPlan) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] /health request from %s", r.RemoteAddr)
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
			Container string    `json:"container"`
			Tiles     int       `json:"tiles"`
		}{
			Status:    "ok",
			Timestamp: time.Now(),
			Container: plan.Container,
			Tiles:     len(plan.Tiles),
		}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("Error encoding health status: %v", err)
		}
	})

	mux.HandleFunc("/plan.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(plan); err != nil {
			log.Printf("Error encoding plan: %v", err)
		}
	})

	mux.HandleFunc("/plan.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		renderer := dish.NewVectorPlanRenderer(layout, plan)
		if err := renderer.RenderToPNG(w); err != nil {
			log.Printf("Error rendering plan PNG: %v", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
		}
	})

	mux.HandleFunc("/plan.svg", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/svg+xml")
		renderer := dish.NewVectorPlanRenderer(layout, plan)
		if err := renderer.RenderToSVG(w); err != nil {
			log.Printf("Error rendering plan SVG: %v", err)
			http.Error(w, "render failed", http.StatusInternalServerError)
		}
	})

	return mux
}

// RunServe starts the plan preview HTTP server.
func (a *App) RunServe() error {
	if err := a.BuildPlan(); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", a.HTTPPort)
	log.Printf("Serving plan preview on %s", addr)
	return http.ListenAndServe(addr, newHTTPServer(a.Layout, a.Plan))
}
