package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "token")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "token", cfg.TelegramToken)
	require.Equal(t, "modelo_covid.onnx", cfg.CovidModelPath)
	require.Equal(t, "radiografia_classifier.onnx", cfg.RadiographModelPath)
	require.Empty(t, cfg.HistoryDBPath)
	require.Equal(t, 5, cfg.HistoryLimit)
	require.Equal(t, 60, cfg.UpdateTimeout)
	require.Equal(t, "catmullrom", cfg.ResizeFilter)
	require.Equal(t, "go", cfg.Preprocessor)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HISTORY_DB_PATH", "history.db")
	t.Setenv("HISTORY_LIMIT", "3")
	t.Setenv("PREPROCESSOR", "gocv")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "history.db", cfg.HistoryDBPath)
	require.Equal(t, 3, cfg.HistoryLimit)
	require.Equal(t, "gocv", cfg.Preprocessor)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("HISTORY_LIMIT", "0")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("HISTORY_LIMIT", "5")
	t.Setenv("PREPROCESSOR", "tensorflow")
	_, err = Load()
	require.Error(t, err)
}
