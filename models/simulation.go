package models

import "time"

// DrawWin pairs a winning unit with the prize value assigned to it in one draw.
type DrawWin struct {
	UnitID     int
	PrizeValue int64
}

// DrawResult is the outcome of a single draw: one entry per winning unit.
// Units that did not win do not appear.
type DrawResult []DrawWin

// SimulationRecord is one row of the flat batch output: a unit that won a
// prize in a specific simulated draw. The same flat table answers every
// downstream scenario query without re-simulation.
type SimulationRecord struct {
	BatchID      int64 `db:"batch_id"`
	SimulationID int   `db:"simulation_id"`
	UnitID       int   `db:"unit_id"`
	PrizeValue   int64 `db:"prize_value"`
}

// BatchSpec describes a batch run request.
type BatchSpec struct {
	SimulationCount int
	HoldingSize     int
	Seed            int64
	Workers         int // 0 means one worker per CPU
}

// Batch is the persisted metadata for one completed batch run.
type Batch struct {
	ID               int64                  `db:"id"`
	SimulationCount  int                    `db:"simulation_count"`
	HoldingSize      int                    `db:"holding_size"`
	Odds             int                    `db:"odds"`
	Seed             int64                  `db:"seed"`
	RecordCount      int                    `db:"record_count"`
	ExecutionSummary map[string]interface{} `db:"execution_summary"`
	CreatedAt        time.Time              `db:"created_at"`
}

// GroupedTotal is the summed prize value for one synthetic holding period.
// Every group id in [0, groupCount) appears exactly once in a grouping,
// zero-filled when no record contributed.
type GroupedTotal struct {
	GroupID    int
	TotalPrize int64
}

// ScenarioSummary holds the statistics for one (holding size, holding span)
// scenario derived from a grouping.
type ScenarioSummary struct {
	HoldingSize  int
	HoldingSpan  int
	GroupCount   int
	Mean         float64
	Median       float64
	Min          float64
	Max          float64
	Percentile25 float64
	Percentile75 float64
	Percentile90 float64

	// AnnualizedRate is the median return in percent per year, with the
	// holding span expressed in months.
	AnnualizedRate float64
}

// ReturnMatrix is the scenario grid: Cells[i][j] is the median annualized
// return rate for Spans[i] and Sizes[j].
type ReturnMatrix struct {
	BatchID int64
	Sizes   []int
	Spans   []int
	Cells   [][]float64
}
