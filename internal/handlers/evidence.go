package handlers

import (
	"net/http"
	"strings"
)

// EvidencePrefix is the URL prefix screenshots are served under
const EvidencePrefix = "/evidence/"

// EvidenceHandler serves screenshot files from the evidence directory
type EvidenceHandler struct {
	files http.Handler
}

// NewEvidenceHandler creates a handler serving files below dir
func NewEvidenceHandler(dir string) *EvidenceHandler {
	return &EvidenceHandler{
		files: http.StripPrefix(EvidencePrefix, http.FileServer(http.Dir(dir))),
	}
}

// ServeHTTP handles GET /evidence/<run>/<file>
func (h *EvidenceHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// No directory listings
	if strings.HasSuffix(r.URL.Path, "/") {
		sendErrorResponse(w, "Evidence not found", http.StatusNotFound)
		return
	}

	h.files.ServeHTTP(w, r)
}
