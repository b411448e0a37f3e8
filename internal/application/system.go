package application

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// SystemStatus — срез состояния всей системы.
type SystemStatus struct {
	Stations        map[string]StationStatus `json:"stations"`
	StationCount    int                      `json:"station_count"`
	RunningStations int                      `json:"running_stations"`
	SystemTime      time.Time                `json:"system_time"`
}

// System координирует станции контроля: владеет реестром по идентификатору
// и транслирует групповые команды запуска и остановки.
type System struct {
	mu       sync.Mutex
	stations map[string]*Station
	log      *slog.Logger
}

// NewSystem создаёт пустую систему.
func NewSystem() *System {
	return &System{
		stations: make(map[string]*Station),
		log:      slog.Default().With("component", "system"),
	}
}

// AddStation регистрирует станцию. Станция с тем же идентификатором
// предварительно останавливается и замещается: на один идентификатор
// всегда ровно один владелец источника.
func (s *System) AddStation(st *Station) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.stations[st.ID()]; ok {
		s.log.Info("replacing station", "station", st.ID())
		old.Stop()
	}
	s.stations[st.ID()] = st
}

// RemoveStation останавливает и удаляет станцию; false, если её нет.
func (s *System) RemoveStation(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.stations[id]
	if !ok {
		return false
	}
	st.Stop()
	delete(s.stations, id)
	return true
}

// Station возвращает станцию по идентификатору.
func (s *System) Station(id string) (*Station, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stations[id]
	return st, ok
}

// Start запускает все станции. Сбой одной станции логируется и не мешает
// запуску остальных; накопленные ошибки возвращаются одним значением.
func (s *System) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, id := range s.sortedIDs() {
		if err := s.stations[id].Start(); err != nil {
			s.log.Error("station failed to start", "station", id, "error", err)
			errs = append(errs, fmt.Errorf("station %s: %w", id, err))
		}
	}
	s.log.Info("system started", "stations", len(s.stations), "failed", len(errs))
	return errors.Join(errs...)
}

// Stop останавливает все станции.
func (s *System) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range s.sortedIDs() {
		s.stations[id].Stop()
	}
	s.log.Info("system stopped", "stations", len(s.stations))
}

// Status собирает срезы состояния всех станций.
func (s *System) Status() SystemStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := SystemStatus{
		Stations:     make(map[string]StationStatus, len(s.stations)),
		StationCount: len(s.stations),
		SystemTime:   time.Now(),
	}
	for id, st := range s.stations {
		snap := st.Status()
		status.Stations[id] = snap
		if snap.Running {
			status.RunningStations++
		}
	}
	return status
}

// sortedIDs возвращает идентификаторы станций в стабильном порядке.
// Вызывается под мьютексом.
func (s *System) sortedIDs() []string {
	ids := make([]string, 0, len(s.stations))
	for id := range s.stations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
