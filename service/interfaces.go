package service

import (
	"context"
	"math/rand"

	"bondsim/models"
)

// SimulationStore defines persistence for completed batches and their flat
// record tables. A batch and its records are written atomically; nothing
// mutates them afterwards.
type SimulationStore interface {
	// SaveBatch persists the batch metadata and its flat record table in one
	// transaction. On success the batch ID and creation time are set.
	SaveBatch(ctx context.Context, batch *models.Batch, records []models.SimulationRecord) error

	// GetBatch retrieves batch metadata by ID, nil if not found
	GetBatch(ctx context.Context, id int64) (*models.Batch, error)

	// GetLatestBatch returns the most recently created batch, nil if none exist
	GetLatestBatch(ctx context.Context) (*models.Batch, error)

	// GetRecordsByBatch returns the flat record table for a batch
	GetRecordsByBatch(ctx context.Context, batchID int64) ([]models.SimulationRecord, error)
}

// DrawService runs independent prize draws over a holding
type DrawService interface {
	// SimulateDraw runs one draw over holdingSize units using the supplied
	// random source. Each unit wins independently with probability 1/odds;
	// winners are assigned prize values from the pool without replacement.
	SimulateDraw(rng *rand.Rand, holdingSize int) (models.DrawResult, error)

	// Odds returns the configured per-unit win denominator
	Odds() int

	// PoolSize returns the number of prizes available in a single draw
	PoolSize() int
}

// BatchService runs batches of independent draws and persists the flat table
type BatchService interface {
	// Run executes the batch described by spec and persists the result.
	// Draws are executed in parallel across independently seeded workers.
	Run(ctx context.Context, spec models.BatchSpec) (*models.Batch, error)
}

// ScenarioService regroups a flat record table into synthetic holding periods
type ScenarioService interface {
	// Group filters records to unitID < holdingSize and buckets simulation
	// ids into holdingSpan-sized synthetic holdings by residue class. The
	// result covers every group id exactly once, zero-filled.
	Group(records []models.SimulationRecord, holdingSize, holdingSpan, simTotal int) ([]models.GroupedTotal, error)
}

// StatsService derives scenario statistics from grouped totals
type StatsService interface {
	// Summarize computes summary statistics for one scenario
	Summarize(totals []models.GroupedTotal, holdingSize, holdingSpan int) (*models.ScenarioSummary, error)

	// BuildMatrix computes the median annualized return rate for every
	// (size, span) pair against a persisted batch, reusing one fetch of the
	// flat record table for all cells
	BuildMatrix(ctx context.Context, batchID int64, sizes, spans []int) (*models.ReturnMatrix, error)
}
