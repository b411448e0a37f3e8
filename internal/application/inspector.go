// Package application содержит сервисный слой: инспектор кадров, станция
// контроля и координатор станций.
package application

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"linewatch/internal/domain/entity"
	"linewatch/internal/domain/port"
	"linewatch/internal/imgproc"
	"linewatch/internal/pipeline"
)

// Inspector прогоняет кадр через конвейер предобработки и опрашивает
// детекторы дефектов. Инспектор не хранит состояния между кадрами и
// безопасен для повторного использования.
type Inspector struct {
	id        string
	pipe      *pipeline.Pipeline
	detectors []port.DefectDetector
	log       *slog.Logger
}

// NewInspector создаёт инспектор с конвейером и набором детекторов.
func NewInspector(id string, pipe *pipeline.Pipeline, detectors ...port.DefectDetector) *Inspector {
	return &Inspector{
		id:        id,
		pipe:      pipe,
		detectors: detectors,
		log:       slog.Default().With("component", "inspector", "inspector", id),
	}
}

// ID возвращает идентификатор инспектора.
func (in *Inspector) ID() string { return in.id }

// Inspect выполняет полную инспекцию кадра: предобработка, детекция,
// визуализация. Ошибка конвейера или детектора помечает результат как
// неуспешный, но уже накопленные дефекты и изображения сохраняются.
func (in *Inspector) Inspect(img *entity.Image) *entity.InspectionResult {
	start := time.Now()
	result := &entity.InspectionResult{
		InspectionID: fmt.Sprintf("%s_%s", in.id, uuid.NewString()),
		Timestamp:    start,
		Success:      true,
		Images:       map[string]*entity.Image{"original": img.Clone()},
		Metadata:     map[string]any{"inspector_id": in.id},
	}
	defer func() {
		result.ProcessingTime = time.Since(start)
		result.Metadata["processing_time"] = result.ProcessingTime.Seconds()
	}()

	pctx := in.pipe.Process(img, nil)
	if pctx.ResultImage != nil {
		result.Images["processed"] = pctx.ResultImage
	}
	if !pctx.Success {
		in.log.Error("pipeline failed",
			"inspection_id", result.InspectionID,
			"stage", pctx.ErrorStage,
			"error", pctx.Err)
		result.Success = false
		result.Metadata["error"] = fmt.Sprintf("pipeline stage %s: %v", pctx.ErrorStage, pctx.Err)
		return result
	}

	// Детекторы смотрят на выход конвейера; оверлеи рисуются на исходном кадре.
	for _, det := range in.detectors {
		defects, err := det.Detect(pctx.ResultImage, pctx)
		if err != nil {
			in.log.Error("detector failed",
				"inspection_id", result.InspectionID,
				"detector", det.Name(),
				"error", err)
			result.Success = false
			result.Metadata["error"] = fmt.Sprintf("detector %s: %v", det.Name(), err)
			break
		}
		result.Defects = append(result.Defects, defects...)

		if viz, ok := det.(port.Visualizer); ok {
			result.Images["visualization_"+det.Name()] = viz.Visualize(img, defects)
		}
	}

	if result.Success {
		result.Images["visualization"] = in.renderSummary(img, result.Defects)
	}

	in.log.Debug("inspection finished",
		"inspection_id", result.InspectionID,
		"success", result.Success,
		"defects", result.DefectCount())
	return result
}

// renderSummary рисует сводный оверлей: маркер и подпись на каждый дефект
// плюс строка с общим счётчиком.
func (in *Inspector) renderSummary(img *entity.Image, defects []entity.Defect) *entity.Image {
	viz := imgproc.ToBGR(img)
	for _, d := range defects {
		col := imgproc.ConfidenceColor(d.Confidence)
		imgproc.DrawCircle(viz, d.Position[0], d.Position[1], 12, col, 2)
		imgproc.DrawLabel(viz, fmt.Sprintf("%s: %.2f", string(d.Type), d.Confidence),
			d.Position[0]-20, d.Position[1]-18, col)
	}
	banner := imgproc.ColorGreen
	if len(defects) > 0 {
		banner = imgproc.ColorRed
	}
	imgproc.DrawLabel(viz, fmt.Sprintf("defects: %d", len(defects)), 10, 20, banner)
	return viz
}
