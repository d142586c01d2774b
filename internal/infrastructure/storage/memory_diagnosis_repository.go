package storage

import (
	"context"
	"fmt"
	"sync"

	"xray-bot/internal/domain/entity"
	"xray-bot/internal/domain/port"
)

// MemoryDiagnosisRepository in-memory история анализов, теряется при перезапуске
type MemoryDiagnosisRepository struct {
	mu     sync.RWMutex
	keep   int // сколько последних анализов хранить на пользователя; 0 без ограничения
	byUser map[int64][]*entity.Diagnosis
}

// NewMemoryDiagnosisRepository создаёт новое in-memory хранилище истории,
// которое держит не больше keep последних анализов на пользователя.
func NewMemoryDiagnosisRepository(keep int) *MemoryDiagnosisRepository {
	return &MemoryDiagnosisRepository{
		keep:   keep,
		byUser: make(map[int64][]*entity.Diagnosis),
	}
}

// Record сохраняет результат анализа
func (r *MemoryDiagnosisRepository) Record(ctx context.Context, diagnosis *entity.Diagnosis) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stored := *diagnosis
	r.mu.Lock()
	list := append(r.byUser[diagnosis.UserID], &stored)
	if r.keep > 0 && len(list) > r.keep {
		n := copy(list, list[len(list)-r.keep:])
		clear(list[n:])
		list = list[:n]
	}
	r.byUser[diagnosis.UserID] = list
	r.mu.Unlock()

	return nil
}

// ListByUser возвращает последние анализы пользователя, новые первыми
func (r *MemoryDiagnosisRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*entity.Diagnosis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than zero")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.byUser[userID]
	out := make([]*entity.Diagnosis, 0, min(limit, len(all)))
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		d := *all[i]
		out = append(out, &d)
	}

	return out, nil
}

// Проверка реализации интерфейса
var _ port.DiagnosisRepository = (*MemoryDiagnosisRepository)(nil)
