package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string `env:"TELEGRAM_TOKEN"`

	// Путь к libonnxruntime; если пустой, ищется в системных путях
	OnnxRuntimeLib string `env:"ONNXRUNTIME_LIB"`

	CovidModelPath         string `env:"COVID_MODEL_PATH"         envDefault:"modelo_covid.onnx"`
	CovidMetadataPath      string `env:"COVID_METADATA_PATH"`
	RadiographModelPath    string `env:"RADIOGRAPH_MODEL_PATH"    envDefault:"radiografia_classifier.onnx"`
	RadiographMetadataPath string `env:"RADIOGRAPH_METADATA_PATH"`

	// Если путь пустой, история хранится только в памяти
	HistoryDBPath string `env:"HISTORY_DB_PATH"`
	HistoryLimit  int    `env:"HISTORY_LIMIT"   envDefault:"5"`

	UpdateTimeout int    `env:"UPDATE_TIMEOUT" envDefault:"60"`
	ResizeFilter  string `env:"RESIZE_FILTER"  envDefault:"catmullrom"`
	Preprocessor  string `env:"PREPROCESSOR"   envDefault:"go"`
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.HistoryLimit <= 0 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be positive, got %d", cfg.HistoryLimit)
	}
	switch cfg.Preprocessor {
	case "go", "gocv":
	default:
		return nil, fmt.Errorf("unknown PREPROCESSOR %q", cfg.Preprocessor)
	}

	return cfg, nil
}
