package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"linewatch/config"
	"linewatch/internal/api"
	"linewatch/internal/container"
	"linewatch/internal/infrastructure/acquisition"
	"linewatch/internal/pipeline"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (yaml or json)")
		debug      = flag.Bool("debug", false, "enable debug logging")
		simulation = flag.Bool("simulation", false, "run built-in simulation stations")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel, *debug)

	if *simulation && len(cfg.Stations) == 0 {
		cfg.Stations = simulationStations()
	}

	c, err := container.New(cfg)
	if err != nil {
		slog.Error("failed to build system", "error", err)
		os.Exit(1)
	}

	if err := c.System.Start(); err != nil {
		slog.Warn("some stations failed to start", "error", err)
	}

	server := api.NewServer(cfg.HTTPAddr, c.System)
	go func() {
		if err := server.Run(); err != nil {
			slog.Error("http server failed", "error", err)
		}
	}()

	// Ожидаем сигнал завершения.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	slog.Info("shutting down")
	c.System.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
}

// setupLogging настраивает глобальный slog. Флаг -debug перекрывает
// уровень из конфигурации.
func setupLogging(level string, debug bool) {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if debug {
		lvl = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}

// simulationStations возвращает две демонстрационные станции на
// синтетических кадрах: контроль дна и контроль загрязнений.
func simulationStations() map[string]config.StationConfig {
	return map[string]config.StationConfig{
		"base_inspection": {
			Source: acquisition.Config{
				Type:              "simulation",
				Width:             640,
				Height:            480,
				Seed:              1,
				DefectProbability: 0.3,
			},
			PipelineType: string(pipeline.TypeBottleBase),
			RateLimitMS:  200,
			Reject:       "log",
		},
		"contamination_check": {
			Source: acquisition.Config{
				Type:              "simulation",
				Width:             640,
				Height:            480,
				Seed:              2,
				DefectProbability: 0.5,
			},
			PipelineType: string(pipeline.TypeContamination),
			RateLimitMS:  200,
			Reject:       "log",
		},
	}
}
