package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrizeMatrix_Validate(t *testing.T) {
	t.Run("valid matrix", func(t *testing.T) {
		matrix := PrizeMatrix{
			{Value: 100, Count: 5},
			{Value: 25, Count: 10},
		}
		assert.NoError(t, matrix.Validate())
	})

	t.Run("empty matrix", func(t *testing.T) {
		assert.Error(t, PrizeMatrix{}.Validate())
	})

	t.Run("non-positive value", func(t *testing.T) {
		matrix := PrizeMatrix{{Value: 0, Count: 5}}
		assert.Error(t, matrix.Validate())
	})

	t.Run("negative count", func(t *testing.T) {
		matrix := PrizeMatrix{{Value: 100, Count: -1}}
		assert.Error(t, matrix.Validate())
	})

	t.Run("zero count is allowed but matrix needs at least one prize", func(t *testing.T) {
		assert.Error(t, PrizeMatrix{{Value: 100, Count: 0}}.Validate())
		assert.NoError(t, PrizeMatrix{
			{Value: 100, Count: 0},
			{Value: 25, Count: 1},
		}.Validate())
	})
}

func TestPrizeMatrix_Pool(t *testing.T) {
	matrix := PrizeMatrix{
		{Value: 100, Count: 1},
		{Value: 25, Count: 10},
	}

	pool := matrix.Pool()
	require.Len(t, pool, matrix.TotalPrizes())
	require.Len(t, pool, 11)

	counts := make(map[int64]int)
	for _, v := range pool {
		counts[v]++
	}
	assert.Equal(t, 1, counts[100])
	assert.Equal(t, 10, counts[25])

	assert.Equal(t, int64(100+25*10), pool.Total())
}
