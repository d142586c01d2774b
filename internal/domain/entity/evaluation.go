package entity

// Классы датасета, совпадают с индексами выхода модели COVID-19.
const (
	LabelNormal = 0
	LabelCovid  = 1
)

// EvaluationReport накапливает результаты оценки модели на отложенной выборке.
// Confusion[истинный][предсказанный].
type EvaluationReport struct {
	Confusion [2][2]int
	LossSum   float64
	Skipped   int
}

// Add учитывает одно предсказание.
func (r *EvaluationReport) Add(label, predicted int, loss float64) {
	r.Confusion[label][predicted]++
	r.LossSum += loss
}

// Total количество учтённых примеров.
func (r *EvaluationReport) Total() int {
	return r.Confusion[0][0] + r.Confusion[0][1] + r.Confusion[1][0] + r.Confusion[1][1]
}

// Accuracy доля верных предсказаний.
func (r *EvaluationReport) Accuracy() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return float64(r.Confusion[0][0]+r.Confusion[1][1]) / float64(total)
}

// Loss средняя категориальная кросс-энтропия.
func (r *EvaluationReport) Loss() float64 {
	total := r.Total()
	if total == 0 {
		return 0
	}
	return r.LossSum / float64(total)
}

// Precision точность по классу COVID-19.
func (r *EvaluationReport) Precision() float64 {
	tp := r.Confusion[LabelCovid][LabelCovid]
	fp := r.Confusion[LabelNormal][LabelCovid]
	if tp+fp == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fp)
}

// Recall полнота по классу COVID-19.
func (r *EvaluationReport) Recall() float64 {
	tp := r.Confusion[LabelCovid][LabelCovid]
	fn := r.Confusion[LabelCovid][LabelNormal]
	if tp+fn == 0 {
		return 0
	}
	return float64(tp) / float64(tp+fn)
}
