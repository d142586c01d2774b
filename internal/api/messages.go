package telegram

import (
	"fmt"
	"strings"

	"xray-bot/internal/domain/entity"
)

const (
	msgStart = `¡Hola! Envíame una radiografía de tórax para:
1. Validar si es una radiografía válida
2. Analizar signos posibles de COVID`

	msgHelp = `ℹ️ Cómo usar el bot:

1️⃣ Envía una foto de una radiografía de tórax (o la imagen como archivo)
2️⃣ El bot comprueba que sea una radiografía válida
3️⃣ Si lo es, recibes la probabilidad de signos de COVID-19

📋 Comandos:
/history — últimos análisis
/cancel — cancelar la operación actual

⚕️ El resultado no sustituye el diagnóstico de un médico.`

	msgSendPhoto          = "Por favor, envíame una imagen de una radiografía."
	msgCancelled          = "❌ Operación cancelada. Envía una radiografía cuando quieras."
	msgUnknownCommand     = "❓ Comando desconocido. Usa /help para ver la ayuda."
	msgProcessing         = "⏳ Analizando la imagen..."
	msgModelsUnavailable  = "Lo siento, los modelos no se han cargado correctamente. Inténtalo más tarde."
	msgDownloadError      = "⚠️ No se pudo descargar la imagen. Inténtalo de nuevo."
	msgTooLarge           = "⚠️ El archivo es demasiado grande (máximo 20 MB)."
	msgProcessingErrorFmt = "Error al procesar la imagen: %v"
	msgBadDimensions      = "La imagen no tiene las dimensiones esperadas para el análisis."
	msgHistoryEmpty       = "Todavía no hay análisis. Envía una radiografía para empezar."
	msgHistoryError       = "⚠️ No se pudo cargar el historial."

	msgNotRadiograph = "⚠️ La imagen no parece ser una radiografía válida. " +
		"Por favor envía una imagen clara de una radiografía de tórax."
)

// formatDiagnosis превращает результат анализа в ответ пользователю.
func formatDiagnosis(d *entity.Diagnosis) string {
	if d.Rejected() {
		return msgNotRadiograph
	}

	p := d.Covid.Probability()
	switch d.Covid.Risk() {
	case entity.RiskHigh:
		return fmt.Sprintf("⚠️⚠️ ALTA PROBABILIDAD DE COVID-19 ⚠️⚠️\n"+
			"Probabilidad: %.2f%%\n\n"+
			"Recomendación: Consulta inmediatamente con un especialista.", p)
	case entity.RiskPossible:
		return fmt.Sprintf("⚠️ Posible COVID-19 detectado\n"+
			"Probabilidad: %.2f%%\n\n"+
			"Recomendación: Consulta con un médico para evaluación adicional.", p)
	default:
		return fmt.Sprintf("✅ No se detectaron signos claros de COVID-19\n"+
			"Probabilidad: %.2f%%\n\n"+
			"Nota: Este resultado no descarta completamente la posibilidad de infección. "+
			"Consulta a un médico si tienes síntomas.", p)
	}
}

var riskLabels = map[entity.RiskLevel]string{
	entity.RiskHigh:     "⚠️⚠️ alta",
	entity.RiskPossible: "⚠️ posible",
	entity.RiskLow:      "✅ baja",
}

// formatHistory список последних анализов, новые первыми.
func formatHistory(list []*entity.Diagnosis) string {
	if len(list) == 0 {
		return msgHistoryEmpty
	}

	var sb strings.Builder
	sb.WriteString("🗂 Últimos análisis:\n")
	for _, d := range list {
		ts := d.CreatedAt.Format("02.01.2006 15:04")
		if d.Rejected() {
			fmt.Fprintf(&sb, "\n%s: no es una radiografía", ts)
			continue
		}
		fmt.Fprintf(&sb, "\n%s: COVID-19 %.2f%% (%s)", ts, d.Covid.Probability(), riskLabels[d.Covid.Risk()])
	}
	return sb.String()
}
