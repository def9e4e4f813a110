package service

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"bondsim/events"
	"bondsim/models"

	log "github.com/sirupsen/logrus"
)

type batchService struct {
	draw  DrawService
	store SimulationStore
	bus   *events.Bus
}

// NewBatchService creates a new batch service
func NewBatchService(draw DrawService, store SimulationStore, bus *events.Bus) BatchService {
	return &batchService{
		draw:  draw,
		store: store,
		bus:   bus,
	}
}

func (s *batchService) Run(ctx context.Context, spec models.BatchSpec) (*models.Batch, error) {
	if spec.SimulationCount < 1 {
		return nil, fmt.Errorf("simulation count must be positive, got %d", spec.SimulationCount)
	}
	if spec.HoldingSize < 1 {
		return nil, fmt.Errorf("holding size must be positive, got %d", spec.HoldingSize)
	}

	workers := spec.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > spec.SimulationCount {
		workers = spec.SimulationCount
	}

	log.WithFields(log.Fields{
		"simulationCount": spec.SimulationCount,
		"holdingSize":     spec.HoldingSize,
		"workers":         workers,
		"seed":            spec.Seed,
	}).Info("Starting batch run")

	started := time.Now()

	records, err := s.runDraws(ctx, spec, workers)
	if err != nil {
		return nil, err
	}

	var totalPrize int64
	for _, rec := range records {
		totalPrize += rec.PrizeValue
	}

	batch := &models.Batch{
		SimulationCount: spec.SimulationCount,
		HoldingSize:     spec.HoldingSize,
		Odds:            s.draw.Odds(),
		Seed:            spec.Seed,
		RecordCount:     len(records),
		ExecutionSummary: map[string]interface{}{
			"workers":           workers,
			"duration_ms":       time.Since(started).Milliseconds(),
			"total_prize_value": totalPrize,
			"pool_size":         s.draw.PoolSize(),
		},
	}

	// Stage the completion event; it only reaches subscribers once the batch
	// has actually been committed.
	txBus := events.NewTransactionalBus(s.bus)

	if err := s.store.SaveBatch(ctx, batch, records); err != nil {
		txBus.Discard()
		return nil, fmt.Errorf("failed to persist batch: %w", err)
	}

	txBus.Publish(events.BatchCompletedEvent{
		BatchID:         batch.ID,
		SimulationCount: batch.SimulationCount,
		HoldingSize:     batch.HoldingSize,
		RecordCount:     batch.RecordCount,
		Seed:            batch.Seed,
		Duration:        time.Since(started),
	})
	txBus.Flush(ctx)

	log.WithFields(log.Fields{
		"batchId":     batch.ID,
		"recordCount": batch.RecordCount,
		"durationMs":  time.Since(started).Milliseconds(),
	}).Info("Batch run completed")

	return batch, nil
}

// runDraws executes the draws across workers. Each worker owns a contiguous
// range of simulation ids and its own random source seeded from the batch
// seed plus the worker index; no random state is shared.
func (s *batchService) runDraws(ctx context.Context, spec models.BatchSpec, workers int) ([]models.SimulationRecord, error) {
	perWorker := spec.SimulationCount / workers
	remainder := spec.SimulationCount % workers

	results := make([][]models.SimulationRecord, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	start := 0
	for w := 0; w < workers; w++ {
		count := perWorker
		if w < remainder {
			count++
		}

		wg.Add(1)
		go func(worker, first, count int) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(spec.Seed + int64(worker)))
			var records []models.SimulationRecord

			for sim := first; sim < first+count; sim++ {
				select {
				case <-ctx.Done():
					errs[worker] = ctx.Err()
					return
				default:
				}

				result, err := s.draw.SimulateDraw(rng, spec.HoldingSize)
				if err != nil {
					errs[worker] = fmt.Errorf("simulation %d failed: %w", sim, err)
					return
				}
				for _, win := range result {
					records = append(records, models.SimulationRecord{
						SimulationID: sim,
						UnitID:       win.UnitID,
						PrizeValue:   win.PrizeValue,
					})
				}
			}
			results[worker] = records
		}(w, start, count)

		start += count
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("batch run aborted: %w", err)
		}
	}

	var merged []models.SimulationRecord
	for _, part := range results {
		merged = append(merged, part...)
	}
	return merged, nil
}
