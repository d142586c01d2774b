package port

import (
	"context"

	"xray-bot/internal/domain/entity"
)

// DiagnosisRepository интерфейс истории анализов
type DiagnosisRepository interface {
	// Record сохраняет результат анализа
	Record(ctx context.Context, diagnosis *entity.Diagnosis) error

	// ListByUser возвращает последние анализы пользователя, новые первыми
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entity.Diagnosis, error)
}
