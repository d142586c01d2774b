package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"xray-bot/config"
	telegram "xray-bot/internal/api"
	"xray-bot/internal/container"
	"xray-bot/internal/domain/port"
	"xray-bot/internal/infrastructure/onnx"
	"xray-bot/internal/infrastructure/storage"
	"xray-bot/internal/infrastructure/storage/sqlite"
	"xray-bot/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	if err := run(cfg); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	preprocessor, err := vision.New(cfg.Preprocessor, cfg.ResizeFilter)
	if err != nil {
		return err
	}

	// Бот работает и без моделей: на снимки отвечает, что анализ недоступен.
	models, closeModels := loadModels(cfg)
	defer closeModels()

	// Создаём хранилища
	userRepo := storage.NewMemoryUserRepository()
	var history port.DiagnosisRepository = storage.NewMemoryDiagnosisRepository(cfg.HistoryLimit)
	if cfg.HistoryDBPath != "" {
		store, err := sqlite.Open(cfg.HistoryDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		history = store
		log.Printf("History stored in %s", cfg.HistoryDBPath)
	}

	// Собираем сервисы приложения
	appContainer := container.New(userRepo, history, preprocessor, models)

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, telegram.Options{
		HistoryLimit:  cfg.HistoryLimit,
		UpdateTimeout: cfg.UpdateTimeout,
	})
	if err != nil {
		return err
	}

	log.Println("Bot is running...")
	return bot.Run(ctx)
}

// loadModels загружает обе модели; при ошибке модели остаются nil.
func loadModels(cfg *config.Config) (container.Models, func()) {
	var models container.Models

	if err := onnx.InitRuntime(cfg.OnnxRuntimeLib); err != nil {
		log.Printf("Error loading models: %v", err)
		return models, func() {}
	}

	validity, err := onnx.Open("radiograph", cfg.RadiographModelPath, cfg.RadiographMetadataPath, onnx.ValidityDefaults())
	if err != nil {
		log.Printf("Error loading models: %v", err)
		onnx.DestroyRuntime()
		return models, func() {}
	}

	covid, err := onnx.Open("covid", cfg.CovidModelPath, cfg.CovidMetadataPath, onnx.CovidDefaults())
	if err != nil {
		log.Printf("Error loading models: %v", err)
		validity.Close()
		onnx.DestroyRuntime()
		return models, func() {}
	}

	log.Println("Models loaded")
	models.Validity = validity
	models.Covid = covid
	return models, func() {
		validity.Close()
		covid.Close()
		onnx.DestroyRuntime()
	}
}
