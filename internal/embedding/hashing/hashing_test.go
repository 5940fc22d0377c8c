package hashing

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidDimension(t *testing.T) {
	_, err := New(0)
	require.Error(t, err)
	_, err = New(-5)
	require.Error(t, err)
}

func TestEmbedBatchPreservesOrderAndLength(t *testing.T) {
	e, err := New(128)
	require.NoError(t, err)

	texts := []string{"출장비 정산", "휴가 신청", "출장비 정산"}
	vectors, err := e.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	for _, v := range vectors {
		assert.Len(t, v, 128)
	}
	// Identical texts embed identically; different texts differ.
	assert.Equal(t, vectors[0], vectors[2])
	assert.NotEqual(t, vectors[0], vectors[1])
}

func TestEmbedBatchDeterministic(t *testing.T) {
	e, err := New(768)
	require.NoError(t, err)

	a, err := e.EmbedBatch(context.Background(), []string{"출장비 한도는 얼마인가요"})
	require.NoError(t, err)
	b, err := e.EmbedBatch(context.Background(), []string{"출장비 한도는 얼마인가요"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEmbedBatchUnitNorm(t *testing.T) {
	e, err := New(64)
	require.NoError(t, err)

	vectors, err := e.EmbedBatch(context.Background(), []string{"출장비 정산 한도 규정 안내"})
	require.NoError(t, err)
	norm := 0.0
	for _, x := range vectors[0] {
		norm += x * x
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}

func TestEmbedBatchEmptyTextYieldsZeroVector(t *testing.T) {
	e, err := New(32)
	require.NoError(t, err)

	vectors, err := e.EmbedBatch(context.Background(), []string{""})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	for _, x := range vectors[0] {
		assert.Zero(t, x)
	}
}

func TestEmbedBatchCancelledContext(t *testing.T) {
	e, err := New(32)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.EmbedBatch(ctx, []string{"취소된 요청"})
	require.ErrorIs(t, err, context.Canceled)
}
