package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"

	"xray-bot/internal/domain/entity"
	"xray-bot/internal/domain/port"
	"xray-bot/internal/infrastructure/dataset"
)

// epsilon как в Keras: вероятности обрезаются перед логарифмом.
const epsilon = 1e-7

// EvaluationService оценивает модель COVID-19 на отложенной выборке.
type EvaluationService struct {
	preprocessor port.Preprocessor
	covid        port.ImageClassifier
	readFile     func(string) ([]byte, error)
}

func NewEvaluationService(preprocessor port.Preprocessor, covid port.ImageClassifier) *EvaluationService {
	return &EvaluationService{
		preprocessor: preprocessor,
		covid:        covid,
		readFile:     os.ReadFile,
	}
}

// Evaluate прогоняет выборку; нечитаемые снимки пропускаются и учитываются в Skipped.
func (s *EvaluationService) Evaluate(ctx context.Context, samples []dataset.Sample) (*entity.EvaluationReport, error) {
	if s.covid == nil {
		return nil, entity.ErrModelsUnavailable
	}

	report := &entity.EvaluationReport{}
	spec := s.covid.InputSpec()
	for _, sample := range samples {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := s.readFile(sample.Path)
		if err != nil {
			log.Printf("Skipping %s: %v", sample.Path, err)
			report.Skipped++
			continue
		}
		tensor, err := s.preprocessor.Prepare(ctx, data, spec)
		if err != nil {
			log.Printf("Skipping %s: %v", sample.Path, err)
			report.Skipped++
			continue
		}

		out, err := s.covid.Predict(ctx, tensor)
		if err != nil {
			return nil, fmt.Errorf("predict %s: %w", sample.Path, err)
		}
		if len(out) <= entity.CovidClassIndex {
			return nil, fmt.Errorf("predict %s: %w: %d values", sample.Path, entity.ErrUnexpectedOutput, len(out))
		}

		predicted := entity.LabelNormal
		if out[entity.LabelCovid] > out[entity.LabelNormal] {
			predicted = entity.LabelCovid
		}
		report.Add(sample.Label, predicted, crossEntropy(out, sample.Label))
	}

	return report, nil
}

// crossEntropy категориальная кросс-энтропия для one-hot метки.
func crossEntropy(probs []float32, label int) float64 {
	p := math.Min(math.Max(float64(probs[label]), epsilon), 1-epsilon)
	return -math.Log(p)
}
