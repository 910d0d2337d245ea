package handlers

import (
	"log"
	"net/http"

	"github.com/ghostshopper/ghostshopper/internal/services"
)

// TestHandler starts a background run against the default store
type TestHandler struct {
	runService services.RunService
}

// NewTestHandler creates a new test handler
func NewTestHandler(runService services.RunService) *TestHandler {
	return &TestHandler{
		runService: runService,
	}
}

// ServeHTTP handles the GET /test request
func (h *TestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	run, err := h.runService.RunAsync("")
	if err != nil {
		log.Printf("Error starting background run: %v", err)
		sendErrorResponse(w, "Failed to start test", http.StatusInternalServerError)
		return
	}

	sendJSON(w, map[string]interface{}{
		"success": true,
		"message": "Test started in background",
		"status":  run.Status,
		"run_id":  run.ID,
	}, http.StatusAccepted)
}

// RunTestHandler executes a run synchronously and returns its results
type RunTestHandler struct {
	runService services.RunService
}

// NewRunTestHandler creates a new run test handler
func NewRunTestHandler(runService services.RunService) *RunTestHandler {
	return &RunTestHandler{
		runService: runService,
	}
}

// ServeHTTP handles the POST /run_test request
func (h *RunTestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	targetURL := r.FormValue("target_url")
	log.Printf("Starting run against %q", targetURL)

	run, err := h.runService.RunSync(targetURL)
	if err != nil {
		log.Printf("Error executing run: %v", err)
		sendJSON(w, map[string]interface{}{
			"success": false,
			"message": "Failed to execute test: " + err.Error(),
			"error":   err.Error(),
		}, http.StatusInternalServerError)
		return
	}

	sendJSON(w, newRunResponse(run, "Test executed"), http.StatusOK)
}
