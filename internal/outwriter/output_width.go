package outwriter

import (
	"os"

	"github.com/pmcharts/pmc/internal/contract"
	"golang.org/x/term"
)

// GetMaxTableTitleWidth calculates the maximum width for observation titles in
// table output based on terminal width and the fixed columns.
func GetMaxTableTitleWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// ID + Date + Kind + Sport + Duration + Metrics with borders/padding
	baseWidth := 10 + 12 + 10 + 12 + 11 + 30 + 20

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 60 {
		return 60
	}
	return available
}
