package entity

import "time"

const (
	// RadiographThreshold порог классификатора валидности снимка
	RadiographThreshold = 0.5

	// Пороги вероятности COVID-19 в процентах
	HighRiskThreshold     = 70.0
	PossibleRiskThreshold = 50.0

	// CovidClassIndex индекс класса COVID-19 в выходе модели ([normal, covid])
	CovidClassIndex = 1
)

// RiskLevel уровень риска COVID-19 по снимку
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskPossible RiskLevel = "possible"
	RiskHigh     RiskLevel = "high"
)

// ValidityResult выход классификатора «это рентген грудной клетки?».
type ValidityResult struct {
	Score float64 // сигмоидный выход модели, 0..1
}

// IsRadiograph сообщает, похож ли снимок на рентген грудной клетки.
func (v ValidityResult) IsRadiograph() bool {
	return v.Score >= RadiographThreshold
}

// Confidence возвращает уверенность в принятом решении, 0..1.
func (v ValidityResult) Confidence() float64 {
	if v.IsRadiograph() {
		return v.Score
	}
	return 1 - v.Score
}

// CovidResult вектор вероятностей классификатора COVID-19.
type CovidResult struct {
	Probabilities []float64
}

// Probability возвращает вероятность COVID-19 в процентах.
func (c CovidResult) Probability() float64 {
	if len(c.Probabilities) <= CovidClassIndex {
		return 0
	}
	return c.Probabilities[CovidClassIndex] * 100
}

// Risk переводит вероятность в уровень риска.
func (c CovidResult) Risk() RiskLevel {
	p := c.Probability()
	switch {
	case p > HighRiskThreshold:
		return RiskHigh
	case p > PossibleRiskThreshold:
		return RiskPossible
	default:
		return RiskLow
	}
}

// Diagnosis итог анализа одного снимка.
type Diagnosis struct {
	ID        string
	UserID    int64
	ChatID    int64
	Validity  ValidityResult
	Covid     *CovidResult // nil, если снимок отклонён
	CreatedAt time.Time
}

// Rejected сообщает, что снимок не прошёл проверку валидности.
func (d *Diagnosis) Rejected() bool {
	return d.Covid == nil
}
