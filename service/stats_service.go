package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bondsim/events"
	"bondsim/models"

	"github.com/montanaflynn/stats"
	log "github.com/sirupsen/logrus"
)

type statsService struct {
	store    SimulationStore
	scenario ScenarioService
	bus      *events.Bus
}

// NewStatsService creates a new stats service
func NewStatsService(store SimulationStore, scenario ScenarioService, bus *events.Bus) StatsService {
	return &statsService{
		store:    store,
		scenario: scenario,
		bus:      bus,
	}
}

func (s *statsService) Summarize(totals []models.GroupedTotal, holdingSize, holdingSpan int) (*models.ScenarioSummary, error) {
	if holdingSize < 1 {
		return nil, fmt.Errorf("holding size must be positive, got %d", holdingSize)
	}
	if holdingSpan < 1 {
		return nil, fmt.Errorf("holding span must be positive, got %d", holdingSpan)
	}
	if len(totals) == 0 {
		return nil, fmt.Errorf("%w: no synthetic holdings to summarize", ErrInsufficientSampleSize)
	}

	data := make(stats.Float64Data, len(totals))
	for i, total := range totals {
		data[i] = float64(total.TotalPrize)
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compute mean: %w", err)
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compute median: %w", err)
	}
	min, err := stats.Min(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compute min: %w", err)
	}
	max, err := stats.Max(data)
	if err != nil {
		return nil, fmt.Errorf("failed to compute max: %w", err)
	}
	p25, err := stats.Percentile(data, 25)
	if err != nil {
		return nil, fmt.Errorf("failed to compute 25th percentile: %w", err)
	}
	p75, err := stats.Percentile(data, 75)
	if err != nil {
		return nil, fmt.Errorf("failed to compute 75th percentile: %w", err)
	}
	p90, err := stats.Percentile(data, 90)
	if err != nil {
		return nil, fmt.Errorf("failed to compute 90th percentile: %w", err)
	}

	return &models.ScenarioSummary{
		HoldingSize:  holdingSize,
		HoldingSpan:  holdingSpan,
		GroupCount:   len(totals),
		Mean:         mean,
		Median:       median,
		Min:          min,
		Max:          max,
		Percentile25: p25,
		Percentile75: p75,
		Percentile90: p90,
		// median total won, per unit, per month, annualized, in percent
		AnnualizedRate: median / float64(holdingSize) / float64(holdingSpan) * 12 * 100,
	}, nil
}

func (s *statsService) BuildMatrix(ctx context.Context, batchID int64, sizes, spans []int) (*models.ReturnMatrix, error) {
	if len(sizes) == 0 || len(spans) == 0 {
		return nil, fmt.Errorf("at least one holding size and span are required")
	}
	for _, size := range sizes {
		if size < 1 {
			return nil, fmt.Errorf("holding size must be positive, got %d", size)
		}
	}
	for _, span := range spans {
		if span < 1 {
			return nil, fmt.Errorf("holding span must be positive, got %d", span)
		}
	}

	batch, err := s.store.GetBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}
	if batch == nil {
		return nil, fmt.Errorf("batch %d not found", batchID)
	}

	// One fetch of the flat table serves every cell; re-simulating per
	// scenario is exactly what the regrouping design avoids.
	records, err := s.store.GetRecordsByBatch(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get records for batch %d: %w", batchID, err)
	}

	started := time.Now()

	cells := make([][]float64, len(spans))
	for i := range cells {
		cells[i] = make([]float64, len(sizes))
	}
	errs := make([]error, len(spans)*len(sizes))

	// Cells are independent read-only queries over the immutable table
	var wg sync.WaitGroup
	for i, span := range spans {
		for j, size := range sizes {
			wg.Add(1)
			go func(i, j, span, size int) {
				defer wg.Done()

				totals, err := s.scenario.Group(records, size, span, batch.SimulationCount)
				if err != nil {
					errs[i*len(sizes)+j] = fmt.Errorf("scenario (size=%d, span=%d): %w", size, span, err)
					return
				}
				summary, err := s.Summarize(totals, size, span)
				if err != nil {
					errs[i*len(sizes)+j] = fmt.Errorf("scenario (size=%d, span=%d): %w", size, span, err)
					return
				}
				cells[i][j] = summary.AnnualizedRate
			}(i, j, span, size)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	matrix := &models.ReturnMatrix{
		BatchID: batchID,
		Sizes:   append([]int(nil), sizes...),
		Spans:   append([]int(nil), spans...),
		Cells:   cells,
	}

	if s.bus != nil {
		s.bus.Emit(ctx, events.MatrixBuiltEvent{
			BatchID:   batchID,
			SizeCount: len(sizes),
			SpanCount: len(spans),
			Duration:  time.Since(started),
		})
	}

	log.WithFields(log.Fields{
		"batchId":    batchID,
		"sizes":      len(sizes),
		"spans":      len(spans),
		"durationMs": time.Since(started).Milliseconds(),
	}).Info("Scenario matrix built")

	return matrix, nil
}
