// Command pmc tracks training load with the Performance Manager model.
package main

import (
	"os"

	"github.com/pmcharts/pmc/cmd"
	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/internal/datastore"
)

func main() {
	err := cmd.Execute()
	datastore.CloseStores()
	if err != nil {
		contract.Logger().Error(err)
		os.Exit(1)
	}
}
