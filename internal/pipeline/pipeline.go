// Package pipeline реализует компонуемый конвейер обработки изображений:
// упорядоченные именованные стадии с поштучным таймингом и изоляцией сбоев.
package pipeline

import (
	"log/slog"
	"time"

	"linewatch/internal/domain/entity"
)

// Stage — одна именованная трансформация изображения. Стадия неизменяема
// после создания, не хранит ссылок на кадры между вызовами и не имеет
// побочных эффектов за пределами переданного контекста.
type Stage interface {
	Name() string
	Process(img *entity.Image, pctx *Context) (*entity.Image, error)
}

// Pipeline — упорядоченная последовательность стадий. Порядок фиксируется
// при сборке; сам конвейер не хранит состояния между прогонами и может
// переиспользоваться после сбоя стадии.
type Pipeline struct {
	name   string
	stages []Stage
	log    *slog.Logger
}

// New создаёт конвейер с заданными стадиями.
func New(name string, stages ...Stage) *Pipeline {
	return &Pipeline{
		name:   name,
		stages: stages,
		log:    slog.Default().With("component", "pipeline", "pipeline", name),
	}
}

// Name возвращает имя конвейера.
func (p *Pipeline) Name() string {
	return p.name
}

// AddStage добавляет стадию в конец; возвращает конвейер для чейнинга.
func (p *Pipeline) AddStage(s Stage) *Pipeline {
	p.stages = append(p.stages, s)
	return p
}

// Stages возвращает число стадий.
func (p *Pipeline) Stages() int {
	return len(p.stages)
}

// Process прогоняет кадр через все стадии по порядку. Вход копируется, так
// что стадии никогда не трогают данные вызывающего. При ошибке стадии
// оставшиеся стадии не выполняются, в контексте фиксируются ошибка, имя
// упавшей стадии и последний успешно полученный кадр. TotalTime заполняется
// всегда, в том числе при сбое.
func (p *Pipeline) Process(img *entity.Image, pctx *Context) *Context {
	if pctx == nil {
		pctx = NewContext()
	}
	pctx.PipelineName = p.name
	pctx.StartTime = time.Now()
	defer func() {
		pctx.TotalTime = time.Since(pctx.StartTime)
		p.log.Debug("pipeline completed",
			"success", pctx.Success,
			"total_time", pctx.TotalTime)
	}()

	current := img.Clone()
	for _, stage := range p.stages {
		stageStart := time.Now()
		out, err := stage.Process(current, pctx)
		pctx.StageTimes[stage.Name()] = time.Since(stageStart)
		if err != nil {
			p.log.Error("stage failed", "stage", stage.Name(), "error", err)
			pctx.Success = false
			pctx.Err = err
			pctx.ErrorStage = stage.Name()
			pctx.ResultImage = current
			return pctx
		}
		current = out
	}

	pctx.ResultImage = current
	pctx.Success = true
	return pctx
}
