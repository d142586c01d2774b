package port

import (
	"context"

	"xray-bot/internal/domain/entity"
)

// Preprocessor интерфейс подготовки изображения к модели
type Preprocessor interface {
	// Prepare декодирует изображение и приводит его к тензору заданной формы
	Prepare(ctx context.Context, imageData []byte, spec entity.InputSpec) ([]float32, error)
}
