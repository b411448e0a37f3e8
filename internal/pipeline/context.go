package pipeline

import (
	"time"

	"linewatch/internal/domain/entity"
	"linewatch/internal/imgproc"
)

// Context — сквозной контекст одного прогона конвейера. Создаётся заново на
// каждый вызов Process, принадлежит ровно одной горутине и передаётся по
// цепочке стадий в эксклюзивное владение; стадии пишут в него побочные
// артефакты (контуры, линии) для последующих стадий и вызывающего кода.
type Context struct {
	PipelineName string
	StartTime    time.Time

	// Итог прогона.
	ResultImage *entity.Image
	StageTimes  map[string]time.Duration
	TotalTime   time.Duration
	Success     bool
	Err         error
	ErrorStage  string

	// Побочные артефакты стадий.
	Contours []*imgproc.Contour
	Lines    []imgproc.Line
}

// NewContext создаёт пустой контекст прогона.
func NewContext() *Context {
	return &Context{
		StageTimes: make(map[string]time.Duration),
	}
}

// StageTimeTotal суммирует время всех стадий.
func (c *Context) StageTimeTotal() time.Duration {
	var total time.Duration
	for _, d := range c.StageTimes {
		total += d
	}
	return total
}
