package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/ghostshopper/ghostshopper/internal/models"
	"github.com/ghostshopper/ghostshopper/internal/services"
)

// maxRunsLimit caps ?limit= on the run history listing
const maxRunsLimit = 100

// RunListResponse is the body of GET /api/results?limit=N
type RunListResponse struct {
	Success bool          `json:"success"`
	Count   int           `json:"count"`
	Runs    []RunResponse `json:"runs"`
}

// ResultsHandler returns the latest run, the one named by ?id=, or the
// newest ?limit= runs as JSON
type ResultsHandler struct {
	runService services.RunService
}

// NewResultsHandler creates a new results handler
func NewResultsHandler(runService services.RunService) *ResultsHandler {
	return &ResultsHandler{
		runService: runService,
	}
}

// ServeHTTP handles the GET /api/results request
func (h *ResultsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		h.listRuns(w, limit)
		return
	}

	var run *models.Run
	var err error
	if id := r.URL.Query().Get("id"); id != "" {
		run, err = h.runService.GetRun(id)
	} else {
		run, err = h.runService.LatestRun()
	}

	if errors.Is(err, models.ErrRunNotFound) {
		sendJSON(w, map[string]interface{}{
			"success": false,
			"message": "No results available. Run a test first.",
		}, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error loading results: %v", err)
		sendErrorResponse(w, "Failed to load results", http.StatusInternalServerError)
		return
	}

	sendJSON(w, newRunResponse(run, ""), http.StatusOK)
}

func (h *ResultsHandler) listRuns(w http.ResponseWriter, rawLimit string) {
	limit, err := strconv.Atoi(rawLimit)
	if err != nil || limit <= 0 {
		sendErrorResponse(w, fmt.Sprintf("limit must be a positive integer, got %q", rawLimit), http.StatusBadRequest)
		return
	}
	if limit > maxRunsLimit {
		limit = maxRunsLimit
	}

	runs, err := h.runService.ListRuns(limit)
	if err != nil {
		log.Printf("Error listing runs: %v", err)
		sendErrorResponse(w, "Failed to load results", http.StatusInternalServerError)
		return
	}

	resp := RunListResponse{
		Success: true,
		Count:   len(runs),
		Runs:    make([]RunResponse, 0, len(runs)),
	}
	for _, run := range runs {
		resp.Runs = append(resp.Runs, newRunResponse(run, ""))
	}
	sendJSON(w, resp, http.StatusOK)
}
