package onnx

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"xray-bot/internal/domain/entity"
)

// Metadata описывает экспортированную модель: имена и формы тензоров.
type Metadata struct {
	InputShape  []int64             `json:"input_shape"`
	OutputShape []int64             `json:"output_shape"`
	InputName   string              `json:"input_name"`
	OutputName  string              `json:"output_name"`
	Layout      entity.TensorLayout `json:"layout"`
	Classes     []string            `json:"classes"`
}

// ValidityDefaults метаданные классификатора валидности снимка (Keras, RGB 224x224, sigmoid).
func ValidityDefaults() Metadata {
	return Metadata{
		InputShape:  []int64{1, 224, 224, 3},
		OutputShape: []int64{1, 1},
		InputName:   "input",
		OutputName:  "output",
		Layout:      entity.LayoutNHWC,
		Classes:     []string{"radiografia"},
	}
}

// CovidDefaults метаданные классификатора COVID-19 (Keras, grayscale 224x224, softmax).
func CovidDefaults() Metadata {
	return Metadata{
		InputShape:  []int64{1, 224, 224, 1},
		OutputShape: []int64{1, 2},
		InputName:   "input",
		OutputName:  "output",
		Layout:      entity.LayoutNHWC,
		Classes:     []string{"normal", "covid"},
	}
}

// LoadMetadata читает JSON поверх значений по умолчанию.
// Пустой путь или отсутствующий файл дают defaults.
func LoadMetadata(path string, defaults Metadata) (Metadata, error) {
	if path == "" {
		return defaults, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaults, nil
	}
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	meta := defaults
	if err := json.Unmarshal(raw, &meta); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if _, err := meta.InputSpec(); err != nil {
		return Metadata{}, err
	}

	return meta, nil
}

// InputSpec переводит форму входа в описание изображения.
func (m Metadata) InputSpec() (entity.InputSpec, error) {
	if len(m.InputShape) != 4 || m.InputShape[0] != 1 {
		return entity.InputSpec{}, fmt.Errorf("%w: input shape %v, want [1 H W C] or [1 C H W]",
			entity.ErrUnexpectedShape, m.InputShape)
	}

	spec := entity.InputSpec{Layout: m.Layout}
	switch m.Layout {
	case entity.LayoutNCHW:
		spec.Channels, spec.Height, spec.Width = int(m.InputShape[1]), int(m.InputShape[2]), int(m.InputShape[3])
	case entity.LayoutNHWC, "":
		spec.Layout = entity.LayoutNHWC
		spec.Height, spec.Width, spec.Channels = int(m.InputShape[1]), int(m.InputShape[2]), int(m.InputShape[3])
	default:
		return entity.InputSpec{}, fmt.Errorf("unknown tensor layout %q", m.Layout)
	}

	if spec.Width <= 0 || spec.Height <= 0 || spec.Channels <= 0 {
		return entity.InputSpec{}, fmt.Errorf("%w: input shape %v", entity.ErrUnexpectedShape, m.InputShape)
	}
	return spec, nil
}

// OutputSize количество элементов выходного тензора.
func (m Metadata) OutputSize() int {
	if len(m.OutputShape) == 0 {
		return 0
	}
	size := int64(1)
	for _, dim := range m.OutputShape {
		size *= dim
	}
	return int(size)
}

// Open читает метаданные и загружает модель.
func Open(name, modelPath, metadataPath string, defaults Metadata) (*Model, error) {
	meta, err := LoadMetadata(metadataPath, defaults)
	if err != nil {
		return nil, fmt.Errorf("%s metadata: %w", name, err)
	}
	return LoadModel(name, modelPath, meta)
}
