package application

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"linewatch/internal/domain/entity"
	"linewatch/internal/domain/port"
)

// readBackoff — пауза после неудачного чтения кадра.
const readBackoff = 100 * time.Millisecond

// stopTimeout — предел ожидания завершения рабочей горутины при остановке.
const stopTimeout = 2 * time.Second

// StationStatus — срез состояния станции для мониторинга.
type StationStatus struct {
	StationID         string    `json:"station_id"`
	Running           bool      `json:"running"`
	FramesProcessed   int64     `json:"frames_processed"`
	DefectsDetected   int64     `json:"defects_detected"` // кадры с дефектами
	AvgProcessingTime float64   `json:"avg_processing_time"` // секунды, EMA
	LastResultTime    time.Time `json:"last_result_time"`
}

// Station — одна точка контроля на линии: источник кадров, инспектор и
// обработчик отбраковки, связанные выделенной горутиной.
type Station struct {
	id        string
	source    port.ImageSource
	inspector *Inspector
	rejecter  port.RejectionHandler
	rateLimit time.Duration
	log       *slog.Logger

	mu      sync.Mutex // защищает переходы Start/Stop
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	statsMu         sync.Mutex
	framesProcessed int64
	defectsDetected int64
	avgProcessing   float64 // секунды
	lastResult      *entity.InspectionResult
	lastResultTime  time.Time
}

// NewStation создаёт станцию. rejecter может быть nil, тогда отбраковка
// только логируется инспектором.
func NewStation(id string, source port.ImageSource, inspector *Inspector, rejecter port.RejectionHandler, rateLimit time.Duration) *Station {
	return &Station{
		id:        id,
		source:    source,
		inspector: inspector,
		rejecter:  rejecter,
		rateLimit: rateLimit,
		log:       slog.Default().With("component", "station", "station", id),
	}
}

// ID возвращает идентификатор станции.
func (s *Station) ID() string { return s.id }

// Start открывает источник и запускает рабочий цикл. Повторный запуск
// работающей станции — ошибка.
func (s *Station) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return fmt.Errorf("station %s is already running", s.id)
	}
	if err := s.source.Open(); err != nil {
		return fmt.Errorf("start station %s: %w", s.id, err)
	}

	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.running.Store(true)
	go s.loop()

	s.log.Info("station started", "rate_limit", s.rateLimit)
	return nil
}

// Stop останавливает рабочий цикл и закрывает источник. Вызов на
// остановленной станции безопасен. Ожидание горутины ограничено
// stopTimeout, чтобы зависший источник не блокировал остановку системы.
func (s *Station) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return
	}
	close(s.stopCh)
	select {
	case <-s.doneCh:
	case <-time.After(stopTimeout):
		s.log.Warn("worker did not stop in time, abandoning")
	}
	s.running.Store(false)
	s.source.Close()
	s.log.Info("station stopped")
}

// Running сообщает, работает ли станция.
func (s *Station) Running() bool {
	return s.running.Load()
}

// loop — рабочий цикл станции: читать, инспектировать, отбраковывать.
// Любая ошибка кадра логируется и не прерывает цикл.
func (s *Station) loop() {
	defer close(s.doneCh)

	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		frameStart := time.Now()
		frame, err := s.source.Read()
		if err != nil {
			s.log.Warn("frame read failed", "error", err)
			if !s.sleep(readBackoff) {
				return
			}
			continue
		}

		result := s.inspector.Inspect(frame)
		s.updateStats(result)

		if result.HasDefects() && s.rejecter != nil {
			if err := s.rejecter.Reject(result); err != nil {
				s.log.Error("rejection handler failed",
					"inspection_id", result.InspectionID, "error", err)
			}
		}

		if d := s.frameDelay(time.Since(frameStart)); d > 0 && !s.sleep(d) {
			return
		}
	}
}

// frameDelay возвращает остаток паузы кадра: лимит темпа за вычетом уже
// потраченного на кадр времени. Медленный кадр паузы не получает.
func (s *Station) frameDelay(elapsed time.Duration) time.Duration {
	if s.rateLimit <= 0 {
		return 0
	}
	if d := s.rateLimit - elapsed; d > 0 {
		return d
	}
	return 0
}

// sleep ждёт d или сигнала остановки; false = пора завершаться.
func (s *Station) sleep(d time.Duration) bool {
	select {
	case <-s.stopCh:
		return false
	case <-time.After(d):
		return true
	}
}

// updateStats обновляет счётчики и скользящее среднее времени обработки.
// Первый замер берётся как есть, дальше EMA с коэффициентом 0.1.
func (s *Station) updateStats(result *entity.InspectionResult) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	s.framesProcessed++
	if result.HasDefects() {
		s.defectsDetected++
	}
	elapsed := result.ProcessingTime.Seconds()
	if s.framesProcessed == 1 {
		s.avgProcessing = elapsed
	} else {
		s.avgProcessing = s.avgProcessing*0.9 + elapsed*0.1
	}
	s.lastResult = result
	s.lastResultTime = time.Now()
}

// Status возвращает срез состояния станции.
func (s *Station) Status() StationStatus {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()

	return StationStatus{
		StationID:         s.id,
		Running:           s.running.Load(),
		FramesProcessed:   s.framesProcessed,
		DefectsDetected:   s.defectsDetected,
		AvgProcessingTime: s.avgProcessing,
		LastResultTime:    s.lastResultTime,
	}
}

// LastResult возвращает результат последней инспекции, если он есть.
func (s *Station) LastResult() (*entity.InspectionResult, bool) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.lastResult, s.lastResult != nil
}
