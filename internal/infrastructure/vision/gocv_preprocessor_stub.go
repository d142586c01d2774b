//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"xray-bot/internal/domain/entity"
	"xray-bot/internal/domain/port"
)

// ErrGoCVDisabled сборка без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

type GoCVPreprocessor struct{}

// NewGoCVPreprocessor создаёт препроцессор-заглушку (без OpenCV).
func NewGoCVPreprocessor() *GoCVPreprocessor {
	return &GoCVPreprocessor{}
}

// Prepare возвращает ошибку, если сборка без тега gocv.
func (p *GoCVPreprocessor) Prepare(ctx context.Context, imageData []byte, spec entity.InputSpec) ([]float32, error) {
	_ = ctx
	_ = imageData
	_ = spec
	return nil, ErrGoCVDisabled
}

// Проверка реализации интерфейса
var _ port.Preprocessor = (*GoCVPreprocessor)(nil)
