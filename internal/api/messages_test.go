package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"xray-bot/internal/domain/entity"
)

func TestFormatDiagnosis(t *testing.T) {
	cases := []struct {
		name  string
		covid float64
		want  string
	}{
		{"high", 0.8123, "⚠️⚠️ ALTA PROBABILIDAD DE COVID-19 ⚠️⚠️\nProbabilidad: 81.23%"},
		{"possible", 0.6, "⚠️ Posible COVID-19 detectado\nProbabilidad: 60.00%"},
		{"low", 0.5, "✅ No se detectaron signos claros de COVID-19\nProbabilidad: 50.00%"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := &entity.Diagnosis{
				Validity: entity.ValidityResult{Score: 0.9},
				Covid:    &entity.CovidResult{Probabilities: []float64{1 - tc.covid, tc.covid}},
			}
			require.True(t, strings.HasPrefix(formatDiagnosis(d), tc.want))
		})
	}

	require.Equal(t, msgNotRadiograph, formatDiagnosis(&entity.Diagnosis{}))
}

func TestFormatHistory(t *testing.T) {
	require.Equal(t, msgHistoryEmpty, formatHistory(nil))

	at := time.Date(2026, 10, 17, 9, 5, 0, 0, time.UTC)
	text := formatHistory([]*entity.Diagnosis{
		{CreatedAt: at, Covid: &entity.CovidResult{Probabilities: []float64{0.4, 0.6}}},
		{CreatedAt: at.Add(-time.Hour)},
	})

	require.Contains(t, text, "17.10.2026 09:05: COVID-19 60.00% (⚠️ posible)")
	require.Contains(t, text, "17.10.2026 08:05: no es una radiografía")
}
