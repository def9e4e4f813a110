package models

import "fmt"

// PrizeBand is one tier of the prize table: a prize value and how many prizes
// of that value are available in a single draw.
type PrizeBand struct {
	Value int64 `json:"value"`
	Count int   `json:"count"`
}

// PrizeMatrix is the ordered prize table for one draw, highest tier first by
// convention. Counts are per draw; the table is never depleted across draws.
type PrizeMatrix []PrizeBand

// Validate checks the prize table for malformed bands.
func (m PrizeMatrix) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("prize matrix must contain at least one band")
	}
	for i, band := range m {
		if band.Value <= 0 {
			return fmt.Errorf("prize matrix band %d: value must be positive, got %d", i, band.Value)
		}
		if band.Count < 0 {
			return fmt.Errorf("prize matrix band %d: count must be non-negative, got %d", i, band.Count)
		}
	}
	if m.TotalPrizes() == 0 {
		return fmt.Errorf("prize matrix must contain at least one prize")
	}
	return nil
}

// TotalPrizes returns the number of prizes available in a single draw.
func (m PrizeMatrix) TotalPrizes() int {
	total := 0
	for _, band := range m {
		total += band.Count
	}
	return total
}

// Pool materializes the prize table as a multiset, each value repeated per its
// band count. The pool is the population for without-replacement assignment
// and is logically fresh for every draw.
func (m PrizeMatrix) Pool() PrizePool {
	pool := make(PrizePool, 0, m.TotalPrizes())
	for _, band := range m {
		for i := 0; i < band.Count; i++ {
			pool = append(pool, band.Value)
		}
	}
	return pool
}

// PrizePool is the materialized prize multiset for one draw. Treated as
// immutable after construction; samplers must not reorder or deplete it.
type PrizePool []int64

// Total returns the summed value of every prize in the pool.
func (p PrizePool) Total() int64 {
	var total int64
	for _, v := range p {
		total += v
	}
	return total
}
