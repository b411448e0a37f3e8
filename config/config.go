// Package config загружает конфигурацию системы из YAML/JSON файла и
// переменных окружения. Окружение имеет приоритет над файлом.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"linewatch/internal/infrastructure/acquisition"
	"linewatch/internal/pipeline"
)

// DetectorConfig — настройки детектора загрязнений одной станции.
// Нулевые поля заменяются значениями по умолчанию при сборке детектора.
type DetectorConfig struct {
	MinContaminantSize int     `yaml:"min_contaminant_size" json:"min_contaminant_size"`
	MaxContaminantSize int     `yaml:"max_contaminant_size" json:"max_contaminant_size"`
	ContrastThreshold  float64 `yaml:"contrast_threshold" json:"contrast_threshold"`
	MinConfidence      float64 `yaml:"min_confidence" json:"min_confidence"`
	UseColor           *bool   `yaml:"use_color" json:"use_color"` // nil = включено
}

// StationConfig — описание одной станции контроля.
type StationConfig struct {
	Source       acquisition.Config `yaml:"source" json:"source"`
	PipelineType string             `yaml:"pipeline_type" json:"pipeline_type"`
	RateLimitMS  int                `yaml:"rate_limit_ms" json:"rate_limit_ms"`
	Reject       string             `yaml:"reject" json:"reject"` // log, telegram, none
	Detector     DetectorConfig     `yaml:"detector" json:"detector"`
}

// Config — корневая конфигурация системы.
type Config struct {
	HTTPAddr       string                   `yaml:"http_addr" json:"http_addr"`
	LogLevel       string                   `yaml:"log_level" json:"log_level"`
	TelegramToken  string                   `yaml:"telegram_token" json:"telegram_token"`
	TelegramChatID int64                    `yaml:"telegram_chat_id" json:"telegram_chat_id"`
	Stations       map[string]StationConfig `yaml:"stations" json:"stations"`
}

// Default возвращает конфигурацию по умолчанию: без станций, HTTP на :8080.
func Default() *Config {
	return &Config{
		HTTPAddr: ":8080",
		LogLevel: "info",
		Stations: map[string]StationConfig{},
	}
}

// Load читает конфигурацию. Порядок: значения по умолчанию, затем файл
// (path или CONFIG_PATH), затем переменные окружения. Отсутствие .env
// не считается ошибкой.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyDefaults()

	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		chatID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile разбирает файл конфигурации. Формат выбирается по расширению,
// по умолчанию YAML.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	return nil
}

// applyDefaults подмешивает станцию default в остальные станции: пустые
// поля берут значения из неё. Сама запись default станцией не становится.
func (c *Config) applyDefaults() {
	def, ok := c.Stations["default"]
	if !ok {
		return
	}
	delete(c.Stations, "default")
	for id, st := range c.Stations {
		if st.Source.Type == "" {
			st.Source = def.Source
		}
		if st.PipelineType == "" {
			st.PipelineType = def.PipelineType
		}
		if st.RateLimitMS == 0 {
			st.RateLimitMS = def.RateLimitMS
		}
		if st.Reject == "" {
			st.Reject = def.Reject
		}
		if st.Detector == (DetectorConfig{}) {
			st.Detector = def.Detector
		}
		c.Stations[id] = st
	}
}

// Validate проверяет согласованность конфигурации станций.
func (c *Config) Validate() error {
	for id, st := range c.Stations {
		if st.Source.Type == "" {
			return fmt.Errorf("station %s: source type is required", id)
		}
		if st.PipelineType != "" {
			if _, err := pipeline.ParseType(st.PipelineType); err != nil {
				return fmt.Errorf("station %s: %w", id, err)
			}
		}
		if st.RateLimitMS < 0 {
			return fmt.Errorf("station %s: rate_limit_ms must be non-negative", id)
		}
		switch st.Reject {
		case "", "log", "telegram", "none":
		default:
			return fmt.Errorf("station %s: unknown reject handler %q", id, st.Reject)
		}
		if st.Reject == "telegram" && c.TelegramToken == "" {
			return fmt.Errorf("station %s: telegram reject requires telegram_token", id)
		}
	}
	return nil
}
