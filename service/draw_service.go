package service

import (
	"fmt"
	"math/rand"

	"bondsim/models"
)

type drawService struct {
	pool models.PrizePool
	odds int
}

// NewDrawService creates a new draw service over the given prize table
func NewDrawService(matrix models.PrizeMatrix, odds int) (DrawService, error) {
	if err := matrix.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prize matrix: %w", err)
	}
	if odds < 1 {
		return nil, fmt.Errorf("odds must be >= 1, got %d", odds)
	}
	return &drawService{
		pool: matrix.Pool(),
		odds: odds,
	}, nil
}

func (s *drawService) Odds() int {
	return s.odds
}

func (s *drawService) PoolSize() int {
	return len(s.pool)
}

func (s *drawService) SimulateDraw(rng *rand.Rand, holdingSize int) (models.DrawResult, error) {
	if holdingSize < 0 {
		return nil, fmt.Errorf("holding size must be non-negative, got %d", holdingSize)
	}

	// Each unit is an independent trial: a draw from the discrete uniform
	// range [0, odds) with a single winning outcome. Winning unit ids ascend
	// by construction.
	var winners []int
	for unit := 0; unit < holdingSize; unit++ {
		if rng.Intn(s.odds) == 0 {
			winners = append(winners, unit)
		}
	}
	if len(winners) == 0 {
		return nil, nil
	}

	prizes, err := s.samplePrizes(rng, len(winners))
	if err != nil {
		return nil, err
	}

	result := make(models.DrawResult, len(winners))
	for i, unit := range winners {
		result[i] = models.DrawWin{UnitID: unit, PrizeValue: prizes[i]}
	}
	return result, nil
}

// samplePrizes draws n prize values from the pool without replacement: a
// uniform random subset of exactly n pool positions. Rejection sampling keeps
// this cheap when n is a small fraction of the pool, which it always is at
// realistic odds; the permutation fallback covers dense subsets.
func (s *drawService) samplePrizes(rng *rand.Rand, n int) ([]int64, error) {
	if n > len(s.pool) {
		return nil, fmt.Errorf("%w: draw produced %d winners but only %d prizes are available",
			ErrPrizePoolExhausted, n, len(s.pool))
	}

	if n*2 > len(s.pool) {
		prizes := make([]int64, n)
		for i, idx := range rng.Perm(len(s.pool))[:n] {
			prizes[i] = s.pool[idx]
		}
		return prizes, nil
	}

	seen := make(map[int]struct{}, n)
	prizes := make([]int64, 0, n)
	for len(prizes) < n {
		idx := rng.Intn(len(s.pool))
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		prizes = append(prizes, s.pool[idx])
	}
	return prizes, nil
}
