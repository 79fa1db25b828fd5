package outwriter

import (
	"fmt"
	"io"

	"github.com/pmcharts/pmc/schema"
)

// PrintStoreStatus prints store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Fprintf(w, "Total Observations: %d (%d planned)\n", status.TotalObservations, status.PlannedObservations)
	fmt.Fprintf(w, "Total Seasons: %d\n", status.TotalSeasons)
	if status.TotalObservations > 0 {
		fmt.Fprintf(w, "First Observation: %s\n", status.FirstObservation.Format(schema.DateFormat))
		fmt.Fprintf(w, "Last Observation: %s\n", status.LastObservation.Format(schema.DateFormat))
	}
	fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}
