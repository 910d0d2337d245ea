package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/models"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RunResponse is the JSON body describing a run
type RunResponse struct {
	Success       bool                `json:"success"`
	Message       string              `json:"message,omitempty"`
	RunID         string              `json:"run_id"`
	Status        models.RunStatus    `json:"status"`
	Results       []models.StepResult `json:"results"`
	ExecutionTime string              `json:"execution_time"`
	Timestamp     string              `json:"timestamp"`
}

func newRunResponse(run *models.Run, message string) RunResponse {
	results := run.Results
	if results == nil {
		results = []models.StepResult{}
	}

	return RunResponse{
		Success:       true,
		Message:       message,
		RunID:         run.ID,
		Status:        run.Status,
		Results:       results,
		ExecutionTime: run.ExecutionTime().Round(time.Millisecond).String(),
		Timestamp:     time.Now().Format(time.RFC3339),
	}
}

// sendJSON writes body as JSON with the given status code
func sendJSON(w http.ResponseWriter, body interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	sendJSON(w, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	}, statusCode)
}
