package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/models"
	"github.com/ghostshopper/ghostshopper/internal/services"
)

// historySize is how many past runs the dashboard lists
const historySize = 10

// ReportHandler renders the dashboard with the latest run
type ReportHandler struct {
	template   *template.Template
	runService services.RunService
	targetURL  string
}

// NewReportHandler creates a new report handler
func NewReportHandler(templatePath string, runService services.RunService, targetURL string) (*ReportHandler, error) {
	funcMap := template.FuncMap{
		"evidenceURL": func(path string) string {
			return "/" + strings.TrimPrefix(path, "/")
		},
		"duration": func(d time.Duration) string {
			return d.Round(time.Second).String()
		},
	}

	tmpl, err := template.New("report.html").Funcs(funcMap).ParseFiles(templatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &ReportHandler{
		template:   tmpl,
		runService: runService,
		targetURL:  targetURL,
	}, nil
}

// ReportData represents the data for the report template
type ReportData struct {
	TargetURL string
	Run       *models.Run
	Status    string
	History   []*models.Run
}

// ServeHTTP handles the GET / request
func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		sendErrorResponse(w, fmt.Sprintf("Route not found: %s", r.URL.Path), http.StatusNotFound)
		return
	}

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data := ReportData{
		TargetURL: h.targetURL,
		Status:    "ready",
	}

	run, err := h.runService.LatestRun()
	switch {
	case err == nil:
		data.Run = run
		data.Status = string(run.Status)
	case !errors.Is(err, models.ErrRunNotFound):
		log.Printf("Error loading latest run: %v", err)
	}

	if data.History, err = h.runService.ListRuns(historySize); err != nil {
		log.Printf("Error loading run history: %v", err)
	}

	if err := h.template.Execute(w, data); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}
