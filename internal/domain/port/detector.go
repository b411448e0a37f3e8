package port

import (
	"linewatch/internal/domain/entity"
	"linewatch/internal/pipeline"
)

// DefectDetector интерфейс детектора дефектов. Detect детерминирован при
// одинаковых пикселях и конфигурации; контекст конвейера опционален и несёт
// артефакты стадий (например, контуры).
type DefectDetector interface {
	// Name возвращает имя детектора
	Name() string

	// Detect анализирует кадр и возвращает найденные дефекты
	Detect(img *entity.Image, pctx *pipeline.Context) ([]entity.Defect, error)
}

// Visualizer опционально реализуется детектором, умеющим рисовать
// собственную аннотированную визуализацию поверх кадра.
type Visualizer interface {
	Visualize(img *entity.Image, defects []entity.Defect) *entity.Image
}
