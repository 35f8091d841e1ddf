package main

import (
	"errors"
	"log"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sarchlab/tileablerr/config"
	"github.com/sarchlab/tileablerr/tileable"
	"github.com/sarchlab/tileablerr/verify"
)

// main builds the routing-resource graph of an architecture file and
// verifies it.
func main() {
	archPath := os.Getenv("TILEABLERR_ARCH_YAML")
	if archPath == "" {
		archPath = "samples/ioring/ioring.yaml"
	}

	arch, err := config.LoadArchFile(archPath)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", archPath, err)
	}

	device, err := arch.Resolve()
	if err != nil {
		log.Fatalf("Failed to resolve %s: %v", archPath, err)
	}

	reg := prometheus.NewRegistry()
	res, buildErr := device.Builder().
		WithMetrics(tileable.NewMetrics(reg)).
		Build()

	name := filepath.Base(archPath)
	var report *verify.VerificationReport
	if buildErr != nil {
		report = verify.GenerateReport(name, nil, 0, buildErr)

		var verr *verify.ValidationError
		if errors.As(buildErr, &verr) {
			report.Issues = verr.Issues
		}
	} else {
		report = verify.GenerateReport(name, res.Graph, res.ChannelWidth, nil)
	}
	report.WriteReport(os.Stdout)

	if metricsPath := os.Getenv("TILEABLERR_METRICS_FILE"); metricsPath != "" {
		if err := prometheus.WriteToTextfile(metricsPath, reg); err != nil {
			log.Fatalf("Failed to write metrics: %v", err)
		}
	}

	if !report.OK() {
		log.Fatalf("%s verification failed with %d issues", name, len(report.Issues))
	}
}
