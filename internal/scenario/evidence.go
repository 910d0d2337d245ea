package scenario

import (
	"fmt"
	"log"
	"path"
	"path/filepath"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/browser"
)

// EvidenceURLPrefix is the prefix of evidence paths handed to the report
const EvidenceURLPrefix = "evidence"

const evidenceTimestampLayout = "20060102_150405"

// Evidence writes the screenshots of one run. Files live in a directory
// named after the run ID so concurrent runs never collide, and each file
// name carries a per-run counter and the capture time.
type Evidence struct {
	dir     string
	urlDir  string
	counter int
	now     func() time.Time
}

// NewEvidence creates the evidence writer for one run
func NewEvidence(baseDir, runID string) *Evidence {
	return &Evidence{
		dir:    filepath.Join(baseDir, runID),
		urlDir: path.Join(EvidenceURLPrefix, runID),
		now:    time.Now,
	}
}

// Dir returns the directory screenshots are written to
func (e *Evidence) Dir() string {
	return e.dir
}

// Capture takes a screenshot and returns its report-relative path, or an
// empty string when the capture failed.
func (e *Evidence) Capture(session browser.Session, label string) string {
	e.counter++
	filename := fmt.Sprintf("%02d_%s_%s.png", e.counter, label, e.now().Format(evidenceTimestampLayout))

	if err := session.Screenshot(filepath.Join(e.dir, filename)); err != nil {
		log.Printf("[scenario] error capturing screenshot %s: %v", filename, err)
		return ""
	}

	log.Printf("[scenario] screenshot saved: %s", filename)
	return path.Join(e.urlDir, filename)
}
