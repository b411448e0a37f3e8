// Package acquisition содержит источники кадров: файлы, каталоги,
// камеры (сборка с тегом gocv) и синтетический генератор для стендов.
package acquisition

import (
	"fmt"

	"linewatch/internal/domain/port"
)

// Config описывает один источник кадров. Интерпретация полей зависит
// от типа источника.
type Config struct {
	Type              string  `yaml:"type" json:"type"` // file, directory, camera, simulation
	Path              string  `yaml:"path" json:"path"`
	DeviceID          int     `yaml:"device_id" json:"device_id"`
	Width             int     `yaml:"width" json:"width"`
	Height            int     `yaml:"height" json:"height"`
	Loop              bool    `yaml:"loop" json:"loop"`
	Seed              int64   `yaml:"seed" json:"seed"`
	DefectProbability float64 `yaml:"defect_probability" json:"defect_probability"`
}

// New создаёт источник кадров по конфигурации. Неизвестный тип — ошибка,
// а не тихий фолбэк: опечатка в конфиге должна валить старт станции.
func New(id string, cfg Config) (port.ImageSource, error) {
	switch cfg.Type {
	case "file":
		return NewFileSource(id, cfg.Path, cfg.Width, cfg.Height), nil
	case "directory":
		return NewDirectorySource(id, cfg.Path, cfg.Loop), nil
	case "camera":
		return NewCameraSource(id, cfg.DeviceID, cfg.Width, cfg.Height)
	case "simulation":
		return NewSimSource(id, cfg), nil
	default:
		return nil, fmt.Errorf("unknown source type %q for source %s", cfg.Type, id)
	}
}
