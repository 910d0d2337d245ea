package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ghostshopper/ghostshopper/internal/models"
)

const reportTemplatePath = "../../templates/report.html"

func TestReportHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		path           string
		latest         *models.Run
		latestErr      error
		expectedStatus int
		checkContent   []string
		absentContent  []string
	}{
		{
			name:           "no runs yet",
			method:         http.MethodGet,
			path:           "/",
			latestErr:      models.ErrRunNotFound,
			expectedStatus: http.StatusOK,
			checkContent:   []string{"QA Ghost Shopper", ">ready</span>", "No results yet", "https://www.saucedemo.com"},
		},
		{
			name:           "passed run",
			method:         http.MethodGet,
			path:           "/",
			latest:         finishedRun(passedResults()),
			expectedStatus: http.StatusOK,
			checkContent: []string{
				">passed</span>",
				"Store opened",
				"/evidence/run-1/01_home_20261019_080000.png",
				"42s",
			},
			absentContent: []string{"No results yet", `class="step step-error"`},
		},
		{
			name:           "aborted run",
			method:         http.MethodGet,
			path:           "/",
			latest:         finishedRun(append(passedResults(), models.NewSentinelResult(errors.New("cart missing")))),
			expectedStatus: http.StatusOK,
			checkContent:   []string{">failed</span>", `class="step step-error"`, "Step 99", "error: cart missing"},
		},
		{
			name:           "store failure still renders",
			method:         http.MethodGet,
			path:           "/",
			latestErr:      errors.New("connection refused"),
			expectedStatus: http.StatusOK,
			checkContent:   []string{">ready</span>", "No results yet"},
		},
		{
			name:           "unknown path",
			method:         http.MethodGet,
			path:           "/nope",
			expectedStatus: http.StatusNotFound,
			checkContent:   []string{"Route not found"},
		},
		{
			name:           "method not allowed - POST",
			method:         http.MethodPost,
			path:           "/",
			expectedStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockRunService{
				LatestRunFunc: func() (*models.Run, error) {
					return tt.latest, tt.latestErr
				},
			}

			handler, err := NewReportHandler(reportTemplatePath, mockService, "https://www.saucedemo.com")
			if err != nil {
				t.Fatalf("Failed to create handler: %v", err)
			}

			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			body := w.Body.String()
			for _, content := range tt.checkContent {
				if !strings.Contains(body, content) {
					t.Errorf("expected response to contain '%s'", content)
				}
			}
			for _, content := range tt.absentContent {
				if strings.Contains(body, content) {
					t.Errorf("expected response not to contain '%s'", content)
				}
			}
		})
	}
}

func TestNewReportHandler_InvalidTemplate(t *testing.T) {
	_, err := NewReportHandler("nonexistent.html", &MockRunService{}, "")
	if err == nil {
		t.Error("expected error for missing template")
	}
}

func TestReportHandler_History(t *testing.T) {
	// GIVEN two earlier runs
	older := finishedRun(append(passedResults()[:1], models.NewSentinelResult(errors.New("login failed"))))
	older.ID = "run-0"
	older.Status = models.RunStatusFailed
	gotLimit := 0
	mockService := &MockRunService{
		LatestRunFunc: func() (*models.Run, error) { return finishedRun(passedResults()), nil },
		ListRunsFunc: func(limit int) ([]*models.Run, error) {
			gotLimit = limit
			return []*models.Run{finishedRun(passedResults()), older}, nil
		},
	}
	handler, err := NewReportHandler(reportTemplatePath, mockService, "https://www.saucedemo.com")
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}

	// WHEN
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	// THEN
	if gotLimit != historySize {
		t.Errorf("expected history limit %d, got %d", historySize, gotLimit)
	}
	body := w.Body.String()
	if n := strings.Count(body, `class="history-run"`); n != 2 {
		t.Errorf("expected 2 history rows, got %d", n)
	}
	for _, content := range []string{"Recent runs", `href="/api/results?id=run-0"`, `href="/api/results?id=run-1"`} {
		if !strings.Contains(body, content) {
			t.Errorf("expected response to contain '%s'", content)
		}
	}
}

func TestReportHandler_NoHistory(t *testing.T) {
	mockService := &MockRunService{
		LatestRunFunc: func() (*models.Run, error) { return nil, models.ErrRunNotFound },
		ListRunsFunc:  func(int) ([]*models.Run, error) { return nil, errors.New("connection refused") },
	}
	handler, err := NewReportHandler(reportTemplatePath, mockService, "https://www.saucedemo.com")
	if err != nil {
		t.Fatalf("Failed to create handler: %v", err)
	}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "Recent runs") {
		t.Error("expected no history section")
	}
}
