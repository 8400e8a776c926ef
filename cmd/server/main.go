package main

import (
	"fmt"
	"os"

	"github.com/MKhiriev/care-coord/models"
)

// Set via -ldflags at build time.
var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	if err := newRootCmd(buildInfo).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
