package entity

import "errors"

var (
	// ErrModelsUnavailable модели не загружены при старте
	ErrModelsUnavailable = errors.New("models are not loaded")
	// ErrEmptyImage пустые данные изображения
	ErrEmptyImage = errors.New("empty image")
	// ErrUnexpectedShape тензор не совпадает с входом модели
	ErrUnexpectedShape = errors.New("unexpected tensor shape")
	// ErrUnexpectedOutput выход модели короче ожидаемого
	ErrUnexpectedOutput = errors.New("unexpected model output")
)
