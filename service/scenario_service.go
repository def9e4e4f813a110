package service

import (
	"fmt"

	"bondsim/models"
)

type scenarioService struct{}

// NewScenarioService creates a new scenario service
func NewScenarioService() ScenarioService {
	return &scenarioService{}
}

// Group derives synthetic holding periods from the flat record table. Each
// residue class modulo the group count stands in for one investor who held
// the units for holdingSpan draws; since every simulation is an independent
// draw from the same distribution, the classes do not need to be contiguous
// for the per-holding sums to be correctly distributed.
//
// When simTotal is not a multiple of holdingSpan, the trailing residue class
// would aggregate fewer than holdingSpan draws and bias its total downward,
// so the group count is reduced by one and all records are re-bucketed over
// the remaining classes.
func (s *scenarioService) Group(records []models.SimulationRecord, holdingSize, holdingSpan, simTotal int) ([]models.GroupedTotal, error) {
	if holdingSize < 0 {
		return nil, fmt.Errorf("holding size must be non-negative, got %d", holdingSize)
	}
	if holdingSpan < 1 {
		return nil, fmt.Errorf("holding span must be positive, got %d", holdingSpan)
	}
	if simTotal < 1 {
		return nil, fmt.Errorf("simulation total must be positive, got %d", simTotal)
	}

	groupCount := (simTotal + holdingSpan - 1) / holdingSpan
	if simTotal%holdingSpan != 0 {
		groupCount--
	}
	if groupCount < 1 {
		return nil, fmt.Errorf("%w: holding span %d exceeds %d simulated draws",
			ErrInsufficientSampleSize, holdingSpan, simTotal)
	}

	totals := make([]int64, groupCount)
	for _, rec := range records {
		if rec.UnitID >= holdingSize {
			continue
		}
		totals[rec.SimulationID%groupCount] += rec.PrizeValue
	}

	// Every group id appears exactly once; groups without a single win stay
	// at zero rather than being omitted, which would bias every downstream
	// statistic upward.
	grouped := make([]models.GroupedTotal, groupCount)
	for id, total := range totals {
		grouped[id] = models.GroupedTotal{GroupID: id, TotalPrize: total}
	}
	return grouped, nil
}
