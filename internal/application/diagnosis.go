package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"xray-bot/internal/domain/entity"
	"xray-bot/internal/domain/port"
)

// DiagnosisService прогоняет снимок через классификатор валидности и классификатор COVID-19.
type DiagnosisService struct {
	preprocessor port.Preprocessor
	validity     port.ImageClassifier
	covid        port.ImageClassifier
	history      port.DiagnosisRepository
	now          func() time.Time
}

// NewDiagnosisService создаёт сервис; любая из моделей может быть nil, если не загрузилась.
func NewDiagnosisService(preprocessor port.Preprocessor, validity, covid port.ImageClassifier, history port.DiagnosisRepository) *DiagnosisService {
	return &DiagnosisService{
		preprocessor: preprocessor,
		validity:     validity,
		covid:        covid,
		history:      history,
		now:          time.Now,
	}
}

// Ready сообщает, что обе модели загружены.
func (s *DiagnosisService) Ready() bool {
	return s.validity != nil && s.covid != nil
}

// Diagnose проверяет снимок и, если это рентген, оценивает вероятность COVID-19.
func (s *DiagnosisService) Diagnose(ctx context.Context, userID, chatID int64, image []byte) (*entity.Diagnosis, error) {
	if !s.Ready() {
		return nil, entity.ErrModelsUnavailable
	}

	validity, err := s.checkRadiograph(ctx, image)
	if err != nil {
		return nil, err
	}

	diagnosis := &entity.Diagnosis{
		ID:        uuid.NewString(),
		UserID:    userID,
		ChatID:    chatID,
		Validity:  validity,
		CreatedAt: s.now().UTC(),
	}

	if validity.IsRadiograph() {
		covid, err := s.analyzeCovid(ctx, image)
		if err != nil {
			return nil, err
		}
		diagnosis.Covid = covid
	}

	if s.history != nil {
		if err := s.history.Record(ctx, diagnosis); err != nil {
			log.Printf("Error recording diagnosis %s: %v", diagnosis.ID, err)
		}
	}

	return diagnosis, nil
}

// CheckRadiograph запускает только классификатор валидности.
func (s *DiagnosisService) CheckRadiograph(ctx context.Context, image []byte) (entity.ValidityResult, error) {
	if s.validity == nil {
		return entity.ValidityResult{}, entity.ErrModelsUnavailable
	}
	return s.checkRadiograph(ctx, image)
}

// History возвращает последние анализы пользователя.
func (s *DiagnosisService) History(ctx context.Context, userID int64, limit int) ([]*entity.Diagnosis, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.ListByUser(ctx, userID, limit)
}

func (s *DiagnosisService) checkRadiograph(ctx context.Context, image []byte) (entity.ValidityResult, error) {
	out, err := s.run(ctx, s.validity, image)
	if err != nil {
		return entity.ValidityResult{}, fmt.Errorf("validate radiograph: %w", err)
	}
	if len(out) < 1 {
		return entity.ValidityResult{}, fmt.Errorf("validate radiograph: %w: empty output", entity.ErrUnexpectedOutput)
	}
	return entity.ValidityResult{Score: float64(out[0])}, nil
}

func (s *DiagnosisService) analyzeCovid(ctx context.Context, image []byte) (*entity.CovidResult, error) {
	out, err := s.run(ctx, s.covid, image)
	if err != nil {
		return nil, fmt.Errorf("covid analysis: %w", err)
	}
	if len(out) <= entity.CovidClassIndex {
		return nil, fmt.Errorf("covid analysis: %w: %d values, want 2", entity.ErrUnexpectedOutput, len(out))
	}

	probs := make([]float64, len(out))
	for i, v := range out {
		probs[i] = float64(v)
	}
	return &entity.CovidResult{Probabilities: probs}, nil
}

func (s *DiagnosisService) run(ctx context.Context, model port.ImageClassifier, image []byte) ([]float32, error) {
	spec := model.InputSpec()
	tensor, err := s.preprocessor.Prepare(ctx, image, spec)
	if err != nil {
		return nil, err
	}
	if len(tensor) != spec.Size() {
		return nil, fmt.Errorf("%w: got %d values, want %d", entity.ErrUnexpectedShape, len(tensor), spec.Size())
	}
	return model.Predict(ctx, tensor)
}
