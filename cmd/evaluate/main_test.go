package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"xray-bot/internal/domain/entity"
)

func TestPrintReport(t *testing.T) {
	var r entity.EvaluationReport
	r.Add(entity.LabelCovid, entity.LabelCovid, 0.1)
	r.Add(entity.LabelNormal, entity.LabelCovid, 0.9)
	r.Skipped = 1

	var buf bytes.Buffer
	printReport(&buf, &r)

	out := buf.String()
	require.Contains(t, out, "Evaluados: 2 (omitidos: 1)")
	require.Contains(t, out, "Precisión (accuracy): 0.5000")
	require.Contains(t, out, "Pérdida: 0.5000")
	require.Contains(t, out, "normal        0      1")
	require.Contains(t, out, "covid         0      1")
}
