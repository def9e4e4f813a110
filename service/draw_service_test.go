package service

import (
	"math"
	"math/rand"
	"testing"

	"bondsim/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMatrix() models.PrizeMatrix {
	return models.PrizeMatrix{
		{Value: 100, Count: 1},
		{Value: 25, Count: 10},
	}
}

func TestNewDrawService_Validation(t *testing.T) {
	t.Run("invalid matrix", func(t *testing.T) {
		_, err := NewDrawService(models.PrizeMatrix{}, 21000)
		assert.Error(t, err)
	})

	t.Run("invalid odds", func(t *testing.T) {
		_, err := NewDrawService(testMatrix(), 0)
		assert.Error(t, err)
	})

	t.Run("valid", func(t *testing.T) {
		svc, err := NewDrawService(testMatrix(), 21000)
		require.NoError(t, err)
		assert.Equal(t, 21000, svc.Odds())
		assert.Equal(t, 11, svc.PoolSize())
	})
}

func TestDrawService_SimulateDraw(t *testing.T) {
	svc, err := NewDrawService(testMatrix(), 2)
	require.NoError(t, err)

	t.Run("winners are valid units with prizes from the pool", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))

		for i := 0; i < 100; i++ {
			result, err := svc.SimulateDraw(rng, 8)
			require.NoError(t, err)

			prev := -1
			for _, win := range result {
				assert.GreaterOrEqual(t, win.UnitID, 0)
				assert.Less(t, win.UnitID, 8)
				assert.Greater(t, win.UnitID, prev, "unit ids must ascend")
				prev = win.UnitID
				assert.Contains(t, []int64{25, 100}, win.PrizeValue)
			}
			assert.LessOrEqual(t, len(result), svc.PoolSize())
		}
	})

	t.Run("without replacement inside one draw", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))

		for i := 0; i < 200; i++ {
			result, err := svc.SimulateDraw(rng, 8)
			require.NoError(t, err)

			// the pool has exactly one 100-value prize, so a single draw can
			// never assign it twice
			hundreds := 0
			for _, win := range result {
				if win.PrizeValue == 100 {
					hundreds++
				}
			}
			assert.LessOrEqual(t, hundreds, 1)
		}
	})

	t.Run("zero holding size wins nothing", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		result, err := svc.SimulateDraw(rng, 0)
		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("negative holding size rejected", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		_, err := svc.SimulateDraw(rng, -1)
		assert.Error(t, err)
	})
}

func TestDrawService_SimulateDraw_CapacityExceeded(t *testing.T) {
	// odds=1 makes every unit win; a holding larger than the pool must be
	// rejected, not clamped
	svc, err := NewDrawService(models.PrizeMatrix{{Value: 25, Count: 2}}, 1)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	_, err = svc.SimulateDraw(rng, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPrizePoolExhausted)

	// a holding that exactly fits the pool still succeeds
	result, err := svc.SimulateDraw(rng, 2)
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestDrawService_WinRateConvergence(t *testing.T) {
	const (
		odds        = 5
		holdingSize = 500
		draws       = 2000
	)

	svc, err := NewDrawService(models.PrizeMatrix{{Value: 25, Count: 600}}, odds)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(99))
	wins := 0
	for i := 0; i < draws; i++ {
		result, err := svc.SimulateDraw(rng, holdingSize)
		require.NoError(t, err)
		wins += len(result)
	}

	// 1e6 Bernoulli trials at p=0.2: the empirical rate should sit well
	// inside a few standard deviations of the expectation
	trials := float64(holdingSize * draws)
	p := 1.0 / float64(odds)
	rate := float64(wins) / trials
	tolerance := 5 * math.Sqrt(p*(1-p)/trials)
	assert.InDelta(t, p, rate, tolerance)
}

func TestDrawService_Determinism(t *testing.T) {
	svc, err := NewDrawService(testMatrix(), 3)
	require.NoError(t, err)

	run := func(seed int64) []models.DrawResult {
		rng := rand.New(rand.NewSource(seed))
		var results []models.DrawResult
		for i := 0; i < 50; i++ {
			result, err := svc.SimulateDraw(rng, 6)
			require.NoError(t, err)
			results = append(results, result)
		}
		return results
	}

	assert.Equal(t, run(42), run(42))
}
