package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ghostshopper/ghostshopper/internal/models"
)

var rule = strings.Repeat("=", 60)

// PrintRun writes a plain-text summary of a finished run, one block per record
func PrintRun(w io.Writer, run *models.Run) {
	fmt.Fprintln(w, rule)
	if run.Aborted() {
		fmt.Fprintln(w, "RUN ABORTED")
	} else {
		fmt.Fprintln(w, "RUN COMPLETED")
	}
	fmt.Fprintln(w, rule)

	fmt.Fprintf(w, "Run: %s\n", run.ID)
	fmt.Fprintf(w, "Target: %s\n", run.TargetURL)
	fmt.Fprintf(w, "Status: %s\n", run.Status)
	fmt.Fprintf(w, "Execution time: %s\n", run.ExecutionTime().Round(time.Millisecond))
	fmt.Fprintf(w, "\nTotal records: %d\n\n", len(run.Results))

	for _, res := range run.Results {
		fmt.Fprintf(w, "   Step %d: %s\n", res.Step, res.Description)
		fmt.Fprintf(w, "   Status: %s\n", res.Status)
		if path := res.EvidencePath(); path != "" {
			fmt.Fprintf(w, "   Evidence: %s\n", path)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, rule)
}
