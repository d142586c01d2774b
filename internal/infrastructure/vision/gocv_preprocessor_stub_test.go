//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoCVPreprocessorStub(t *testing.T) {
	_, err := NewGoCVPreprocessor().Prepare(context.Background(), []byte{1}, rgbSpec)
	require.ErrorIs(t, err, ErrGoCVDisabled)
}
