package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sarchlab/tileablerr/config"
	"github.com/sarchlab/tileablerr/tileable"
	"github.com/sarchlab/tileablerr/verify"
	"github.com/tebeka/atexit"
)

//go:embed ioring.yaml
var ioRingArch []byte

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: tileable.LevelTrace,
	}))

	arch, err := config.ParseArch(ioRingArch)
	if err != nil {
		atexit.Fatalf("parse architecture: %v", err)
	}

	device, err := arch.Resolve()
	if err != nil {
		atexit.Fatalf("resolve architecture: %v", err)
	}

	res, err := device.Builder().
		WithLogger(logger).
		WithMetrics(tileable.NewMetrics(prometheus.NewRegistry())).
		Build()
	if err != nil {
		atexit.Fatalf("build routing-resource graph: %v", err)
	}

	report := verify.GenerateReport("ioring", res.Graph, res.ChannelWidth, nil)
	report.WriteReport(os.Stdout)

	fmt.Printf("GSBs: %d, unique switch blocks: %d\n", res.Stats.GSBs, res.Stats.UniqueSBs)
	for _, kind := range []tileable.EdgeKind{
		tileable.EdgeKindSourceOPIN,
		tileable.EdgeKindIPINSink,
		tileable.EdgeKindGSB,
		tileable.EdgeKindVIB,
		tileable.EdgeKindDirect,
	} {
		fmt.Printf("%-12s %d\n", kind, res.Stats.EdgesByKind[kind])
	}

	atexit.Exit(0)
}
