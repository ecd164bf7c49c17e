package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lixenwraith/overlap/audio"
	"github.com/lixenwraith/overlap/core"
	"github.com/lixenwraith/overlap/scenario"
	"github.com/lixenwraith/overlap/status"
)

var (
	scenarioFlag = flag.String("scenario", "scenarios/pond.yaml", "Scenario file")
	debugFlag    = flag.Bool("debug", false, "Write debug logs to "+logDir+"/"+logFileName)
	metricsFlag  = flag.String("metrics", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	muteFlag     = flag.Bool("mute", false, "Start with audio cues muted")
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			core.HandleCrash(r)
		}
	}()

	flag.Parse()

	logFile, logger := setupLogging(*debugFlag)
	if logFile != nil {
		defer logFile.Close()
	}

	sc, err := scenario.Load(*scenarioFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scenario: %v\n", err)
		os.Exit(1)
	}

	reg := status.NewRegistry()
	if *metricsFlag != "" {
		if err := serveMetrics(*metricsFlag, reg, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start metrics: %v\n", err)
			os.Exit(1)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize screen: %v\n", err)
		os.Exit(1)
	}
	core.SetCrashReset(screen.Fini)
	defer screen.Fini()

	sounds := audio.NewSoundManager()
	if err := sounds.Initialize(); err != nil {
		// Non-fatal, the demo runs without sound
		logger.Warn("audio unavailable", slog.Any("error", err))
	} else {
		defer sounds.Cleanup()
	}
	sounds.SetMuted(*muteFlag)

	a := newApp(screen, sc, reg, sounds, logger)
	if err := a.reload(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Failed to build scenario: %v\n", err)
		os.Exit(1)
	}
	a.run()
}

func serveMetrics(addr string, reg *status.Registry, logger *slog.Logger) error {
	if _, err := status.NewCollector(reg, "overlap_demo", nil); err != nil {
		return err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	core.Go(func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server stopped", slog.Any("error", err))
		}
	})
	logger.Info("serving metrics", slog.String("addr", addr))
	return nil
}
