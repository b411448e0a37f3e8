// Package notify содержит обработчики отбраковки: запись в лог и
// уведомление оператора через Telegram.
package notify

import (
	"log/slog"

	"linewatch/internal/domain/entity"
	"linewatch/internal/domain/port"
)

// LogRejecter пишет факт отбраковки в структурированный лог.
type LogRejecter struct {
	log *slog.Logger
}

// NewLogRejecter создаёт лог-обработчик отбраковки.
func NewLogRejecter() *LogRejecter {
	return &LogRejecter{log: slog.Default().With("component", "rejecter")}
}

// Reject логирует результат инспекции с дефектами.
func (r *LogRejecter) Reject(result *entity.InspectionResult) error {
	r.log.Warn("bottle rejected",
		"inspection_id", result.InspectionID,
		"defects", result.DefectCount(),
		"processing_time", result.ProcessingTime)
	for _, d := range result.Defects {
		r.log.Warn("defect detail",
			"inspection_id", result.InspectionID,
			"type", string(d.Type),
			"position", d.Position,
			"size", d.Size,
			"confidence", d.Confidence)
	}
	return nil
}

var _ port.RejectionHandler = (*LogRejecter)(nil)
