package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"xray-bot/internal/domain/entity"
)

func TestRecordAndListByUser(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

	require.NoError(t, store.Record(ctx, &entity.Diagnosis{
		ID:        "rejected",
		UserID:    1,
		ChatID:    10,
		Validity:  entity.ValidityResult{Score: 0.2},
		CreatedAt: now,
	}))
	require.NoError(t, store.Record(ctx, &entity.Diagnosis{
		ID:        "covid",
		UserID:    1,
		ChatID:    10,
		Validity:  entity.ValidityResult{Score: 0.9},
		Covid:     &entity.CovidResult{Probabilities: []float64{0.25, 0.75}},
		CreatedAt: now.Add(time.Minute),
	}))
	require.NoError(t, store.Record(ctx, &entity.Diagnosis{
		ID:        "other-user",
		UserID:    2,
		ChatID:    20,
		Validity:  entity.ValidityResult{Score: 0.9},
		CreatedAt: now,
	}))

	list, err := store.ListByUser(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.Equal(t, "covid", list[0].ID)
	require.NotNil(t, list[0].Covid)
	require.Equal(t, entity.RiskHigh, list[0].Covid.Risk())
	require.Equal(t, now.Add(time.Minute), list[0].CreatedAt)

	require.Equal(t, "rejected", list[1].ID)
	require.True(t, list[1].Rejected())
	require.InDelta(t, 0.2, list[1].Validity.Score, 1e-9)

	list, err = store.ListByUser(ctx, 1, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRecordValidation(t *testing.T) {
	store := openTempStore(t)
	ctx := context.Background()

	require.Error(t, store.Record(ctx, &entity.Diagnosis{}))
	_, err := store.ListByUser(ctx, 1, 0)
	require.Error(t, err)
}

func TestOpen_ReappliesMigrationsIdempotently(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestUpSection(t *testing.T) {
	require.Equal(t, "\nA\n", upSection("-- +migrate Up\nA\n-- +migrate Down\nB"))
	require.Equal(t, "plain", upSection("plain"))
}

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}
