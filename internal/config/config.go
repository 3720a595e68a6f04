package config

import (
	"io/ioutil"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения.

type Config struct {
	Game     GameConfig     `yaml:"game"`
	EventBus EventBusConfig `yaml:"eventbus"`
	Server   ServerConfig   `yaml:"server"`
}

// GameConfig описывает параметры воксельной структуры.
// VoidRadius и AnchorRadius — два независимых порога: первый определяет
// полую сердцевину, второй — зону опоры вокруг неё. Они не выводятся
// друг из друга и настраиваются отдельно.
type GameConfig struct {
	GridSize       int     `yaml:"grid_size"`
	VoidRadius     float64 `yaml:"void_radius"`
	AnchorRadius   float64 `yaml:"anchor_radius"`
	NoiseSeed      int64   `yaml:"noise_seed"`
	NoiseAmplitude float64 `yaml:"noise_amplitude"`
	DebrisTTL      int     `yaml:"debris_ttl_seconds"`
}

type EventBusConfig struct {
	URL       string `yaml:"url"`
	Stream    string `yaml:"stream"`
	Retention int    `yaml:"retention_hours"`
}

type ServerConfig struct {
	RESTPort    int `yaml:"rest_port"`
	MetricsPort int `yaml:"metrics_port"`
}

// GetGridSize возвращает размер сетки с fallback значением по умолчанию
func (g *GameConfig) GetGridSize() int {
	if g.GridSize > 0 {
		return g.GridSize
	}
	return 8
}

// GetVoidRadius возвращает радиус полой сердцевины
func (g *GameConfig) GetVoidRadius() float64 {
	if g.VoidRadius > 0 {
		return g.VoidRadius
	}
	return 1.5
}

// GetAnchorRadius возвращает радиус зоны опоры
func (g *GameConfig) GetAnchorRadius() float64 {
	if g.AnchorRadius > 0 {
		return g.AnchorRadius
	}
	return 2.5
}

// GetDebrisTTL возвращает время жизни обломка в секундах
func (g *GameConfig) GetDebrisTTL() int {
	if g.DebrisTTL > 0 {
		return g.DebrisTTL
	}
	return 5
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "EXCAVATION_REST_PORT", 8088)
}

// GetMetricsPort возвращает Prometheus метрики порт с поддержкой fallback значений
func (s *ServerConfig) GetMetricsPort() int {
	return getPortWithEnvFallback(s.MetricsPort, "EXCAVATION_METRICS_PORT", 2112)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	// Если порт задан в конфиге и больше 0, используем его
	if configPort > 0 {
		return configPort
	}

	// Пробуем прочитать из environment variable
	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	// Используем дефолтное значение
	return defaultPort
}

// Load читает YAML файл конфигурации.
// Если path == "", пытается прочитать из ENV EXCAVATION_CONFIG или возвращает nil, nil.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("EXCAVATION_CONFIG")
		if path == "" {
			return nil, nil // конфиг не задан — использовать дефолты
		}
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
