package port

import (
	"context"

	"xray-bot/internal/domain/entity"
)

// ImageClassifier интерфейс предобученной модели классификации
type ImageClassifier interface {
	// InputSpec возвращает форму входного тензора модели
	InputSpec() entity.InputSpec

	// Predict выполняет прямой проход и возвращает выходной вектор
	Predict(ctx context.Context, tensor []float32) ([]float32, error)
}
