package vision

import (
	"fmt"

	"xray-bot/internal/domain/port"
)

// New выбирает реализацию препроцессора: "go" (по умолчанию) или "gocv".
func New(kind, filter string) (port.Preprocessor, error) {
	switch kind {
	case "", "go":
		f, err := ParseFilter(filter)
		if err != nil {
			return nil, err
		}
		return NewImagePreprocessor(f), nil
	case "gocv":
		return NewGoCVPreprocessor(), nil
	default:
		return nil, fmt.Errorf("unknown preprocessor %q", kind)
	}
}
