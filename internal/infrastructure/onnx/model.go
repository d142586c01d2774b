package onnx

import (
	"context"
	"fmt"
	"log"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"xray-bot/internal/domain/entity"
	"xray-bot/internal/domain/port"
)

// InitRuntime инициализирует окружение ONNX Runtime один раз на процесс.
func InitRuntime(libPath string) error {
	if ort.IsInitialized() {
		return nil
	}
	if libPath != "" {
		ort.SetSharedLibraryPath(libPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return nil
}

// DestroyRuntime освобождает окружение; модели должны быть закрыты раньше.
func DestroyRuntime() {
	if ort.IsInitialized() {
		ort.DestroyEnvironment()
	}
}

// Model сессия ONNX Runtime с заранее выделенными тензорами.
type Model struct {
	name         string
	session      *ort.AdvancedSession
	Metadata     Metadata
	spec         entity.InputSpec
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]

	// Тензоры общие, поэтому прогоны сериализуются.
	mu sync.Mutex
}

// LoadModel открывает модель; InitRuntime должен быть вызван заранее.
func LoadModel(name, modelPath string, meta Metadata) (*Model, error) {
	spec, err := meta.InputSpec()
	if err != nil {
		return nil, err
	}
	if meta.OutputSize() <= 0 {
		return nil, fmt.Errorf("%w: output shape %v", entity.ErrUnexpectedShape, meta.OutputShape)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(meta.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{meta.InputName}, []string{meta.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session for %s: %w", modelPath, err)
	}

	log.Printf("Model %s loaded from %s: input %v (%s), output %v",
		name, modelPath, meta.InputShape, spec.Layout, meta.OutputShape)

	return &Model{
		name:         name,
		session:      session,
		Metadata:     meta,
		spec:         spec,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// InputSpec возвращает форму входа модели.
func (m *Model) InputSpec() entity.InputSpec {
	return m.spec
}

// Predict копирует тензор во вход, выполняет сессию и возвращает копию выхода.
func (m *Model) Predict(ctx context.Context, tensor []float32) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(tensor) != m.spec.Size() {
		return nil, fmt.Errorf("%w: %s expects %d values, got %d",
			entity.ErrUnexpectedShape, m.name, m.spec.Size(), len(tensor))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.inputTensor.GetData(), tensor)
	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("%s inference failed: %w", m.name, err)
	}

	out := make([]float32, len(m.outputTensor.GetData()))
	copy(out, m.outputTensor.GetData())
	return out, nil
}

// Close освобождает сессию и тензоры.
func (m *Model) Close() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		m.session.Destroy()
	}
	if m.inputTensor != nil {
		m.inputTensor.Destroy()
	}
	if m.outputTensor != nil {
		m.outputTensor.Destroy()
	}
}

// Проверка реализации интерфейса
var _ port.ImageClassifier = (*Model)(nil)
