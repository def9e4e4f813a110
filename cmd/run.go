package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"bondsim/config"
	"bondsim/database"
	"bondsim/events"
	"bondsim/models"
	"bondsim/repository"
	"bondsim/service"
)

// Run initializes the application, executes a batch run and reports the
// scenario matrix
func Run(ctx context.Context) error {
	log.Println("Starting bond return simulator...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Println("Database connection established successfully")

	// Initialize event bus with logging subscribers
	eventBus := events.NewBus()
	subscribeLogging(eventBus)

	// Initialize repository and services
	repo := repository.NewSimulationRepository(db)
	drawService, err := service.NewDrawService(cfg.PrizeTable, cfg.Odds)
	if err != nil {
		return fmt.Errorf("failed to initialize draw service: %w", err)
	}
	batchService := service.NewBatchService(drawService, repo, eventBus)
	scenarioService := service.NewScenarioService()
	statsService := service.NewStatsService(repo, scenarioService, eventBus)

	// Run the batch at the largest holding size any scenario needs; every
	// smaller scenario is derived from the same records
	batch, err := batchService.Run(ctx, models.BatchSpec{
		SimulationCount: cfg.SimulationCount,
		HoldingSize:     cfg.MaxHoldingSize,
		Seed:            cfg.RandomSeed,
		Workers:         cfg.BatchWorkers,
	})
	if err != nil {
		return fmt.Errorf("batch run failed: %w", err)
	}

	// Build the scenario matrix
	matrix, err := statsService.BuildMatrix(ctx, batch.ID, cfg.HoldingSizes, cfg.HoldingSpans)
	if err != nil {
		return fmt.Errorf("failed to build scenario matrix: %w", err)
	}

	// Render the report
	if err := renderMatrix(os.Stdout, matrix); err != nil {
		return fmt.Errorf("failed to render matrix: %w", err)
	}
	if cfg.ReportCSVPath != "" {
		if err := writeMatrixCSV(cfg.ReportCSVPath, matrix); err != nil {
			return fmt.Errorf("failed to write CSV report: %w", err)
		}
		log.Printf("CSV report written to %s", cfg.ReportCSVPath)
	}

	return nil
}

// subscribeLogging wires the batch lifecycle events to log output
func subscribeLogging(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBatchCompleted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.BatchCompletedEvent); ok {
			log.Printf("Batch %d completed: %d simulations, %d winning records in %s",
				e.BatchID, e.SimulationCount, e.RecordCount, e.Duration)
		}
	})
	bus.Subscribe(events.EventTypeMatrixBuilt, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.MatrixBuiltEvent); ok {
			log.Printf("Scenario matrix for batch %d built: %d sizes x %d spans in %s",
				e.BatchID, e.SizeCount, e.SpanCount, e.Duration)
		}
	})
}
