// Package container собирает зависимости приложения из конфигурации.
package container

import (
	"fmt"
	"log/slog"
	"time"

	"linewatch/config"
	"linewatch/internal/application"
	"linewatch/internal/domain/port"
	"linewatch/internal/imgproc"
	"linewatch/internal/infrastructure/acquisition"
	"linewatch/internal/infrastructure/notify"
	"linewatch/internal/infrastructure/vision"
	"linewatch/internal/pipeline"
)

// Container держит собранный граф зависимостей.
type Container struct {
	Config *config.Config
	System *application.System
	Accel  imgproc.Accelerator
	log    *slog.Logger
}

// New собирает систему: ускоритель, станции из конфигурации, обработчики
// отбраковки. Недоступный ускоритель не является ошибкой, конвейеры
// работают на чистых реализациях.
func New(cfg *config.Config) (*Container, error) {
	c := &Container{
		Config: cfg,
		System: application.NewSystem(),
		log:    slog.Default().With("component", "container"),
	}

	accel, err := vision.NewAccelerator()
	if err != nil {
		c.log.Info("native acceleration unavailable, using pure implementations", "reason", err)
	} else {
		c.log.Info("native acceleration enabled", "backend", accel.Name())
		c.Accel = accel
	}

	for id, sc := range cfg.Stations {
		st, err := c.BuildStation(id, sc)
		if err != nil {
			return nil, fmt.Errorf("build station %s: %w", id, err)
		}
		c.System.AddStation(st)
	}
	return c, nil
}

// BuildStation создаёт станцию по её конфигурации: источник, конвейер,
// детектор и обработчик отбраковки.
func (c *Container) BuildStation(id string, sc config.StationConfig) (*application.Station, error) {
	source, err := acquisition.New(id, sc.Source)
	if err != nil {
		return nil, err
	}

	ptype := sc.PipelineType
	if ptype == "" {
		ptype = string(pipeline.TypeContamination)
	}
	t, err := pipeline.ParseType(ptype)
	if err != nil {
		return nil, err
	}
	pipe, err := pipeline.NewFromType(id+"_pipeline", t, c.Accel)
	if err != nil {
		return nil, err
	}

	useColor := true
	if sc.Detector.UseColor != nil {
		useColor = *sc.Detector.UseColor
	}
	detector := vision.NewContaminationDetector("contamination", vision.ContaminationConfig{
		MinContaminantSize: sc.Detector.MinContaminantSize,
		MaxContaminantSize: sc.Detector.MaxContaminantSize,
		ContrastThreshold:  sc.Detector.ContrastThreshold,
		MinConfidence:      sc.Detector.MinConfidence,
		UseColor:           useColor,
	})

	rejecter, err := c.buildRejecter(sc.Reject)
	if err != nil {
		return nil, err
	}

	inspector := application.NewInspector(id, pipe, detector)
	rate := time.Duration(sc.RateLimitMS) * time.Millisecond
	return application.NewStation(id, source, inspector, rejecter, rate), nil
}

func (c *Container) buildRejecter(kind string) (port.RejectionHandler, error) {
	switch kind {
	case "", "log":
		return notify.NewLogRejecter(), nil
	case "telegram":
		return notify.NewTelegramRejecter(c.Config.TelegramToken, c.Config.TelegramChatID)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown reject handler %q", kind)
	}
}
