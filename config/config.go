package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"bondsim/models"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Draw configuration
	Odds       int                // per-unit win denominator (p = 1/Odds per draw)
	PrizeTable models.PrizeMatrix // prize value -> count per draw

	// Batch configuration
	SimulationCount int
	MaxHoldingSize  int
	BatchWorkers    int // 0 means one worker per CPU
	RandomSeed      int64

	// Scenario matrix configuration
	HoldingSizes []int // units
	HoldingSpans []int // months

	// Report configuration
	ReportCSVPath string

	// Environment
	Environment string // "development", "production" or "test"
}

// defaultPrizeTable mirrors the published monthly tier table for a
// premium-bond style draw. Overridden via PRIZE_TABLE.
var defaultPrizeTable = models.PrizeMatrix{
	{Value: 1_000_000, Count: 2},
	{Value: 100_000, Count: 91},
	{Value: 50_000, Count: 182},
	{Value: 25_000, Count: 365},
	{Value: 10_000, Count: 910},
	{Value: 5_000, Count: 1_821},
	{Value: 1_000, Count: 19_020},
	{Value: 500, Count: 57_060},
	{Value: 100, Count: 2_339_946},
	{Value: 50, Count: 2_339_946},
	{Value: 25, Count: 1_026_651},
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Draw settings with defaults
		Odds:       21000,
		PrizeTable: defaultPrizeTable,

		// Batch settings with defaults
		SimulationCount: 60000,
		MaxHoldingSize:  50000,
		BatchWorkers:    0,
		RandomSeed:      time.Now().UnixNano(),

		// Scenario defaults: sizes in units, spans in months
		HoldingSizes: []int{100, 1000, 5000, 10000, 25000, 50000},
		HoldingSpans: []int{1, 3, 6, 12, 24, 60},

		// Report
		ReportCSVPath: os.Getenv("REPORT_CSV_PATH"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if odds := os.Getenv("PRIZE_ODDS"); odds != "" {
		parsed, err := strconv.Atoi(odds)
		if err != nil {
			return nil, fmt.Errorf("invalid PRIZE_ODDS %q: %w", odds, err)
		}
		config.Odds = parsed
	}
	if table := os.Getenv("PRIZE_TABLE"); table != "" {
		var matrix models.PrizeMatrix
		if err := json.Unmarshal([]byte(table), &matrix); err != nil {
			return nil, fmt.Errorf("invalid PRIZE_TABLE: %w", err)
		}
		config.PrizeTable = matrix
	}
	if count := os.Getenv("SIMULATION_COUNT"); count != "" {
		if parsed, err := strconv.Atoi(count); err == nil {
			config.SimulationCount = parsed
		}
	}
	if size := os.Getenv("MAX_HOLDING_SIZE"); size != "" {
		if parsed, err := strconv.Atoi(size); err == nil {
			config.MaxHoldingSize = parsed
		}
	}
	if workers := os.Getenv("BATCH_WORKERS"); workers != "" {
		if parsed, err := strconv.Atoi(workers); err == nil {
			config.BatchWorkers = parsed
		}
	}
	if seed := os.Getenv("RANDOM_SEED"); seed != "" {
		if parsed, err := strconv.ParseInt(seed, 10, 64); err == nil {
			config.RandomSeed = parsed
		}
	}
	if sizes := os.Getenv("HOLDING_SIZES"); sizes != "" {
		parsed, err := parseIntList(sizes)
		if err != nil {
			return nil, fmt.Errorf("invalid HOLDING_SIZES %q: %w", sizes, err)
		}
		config.HoldingSizes = parsed
	}
	if spans := os.Getenv("HOLDING_SPANS"); spans != "" {
		parsed, err := parseIntList(spans)
		if err != nil {
			return nil, fmt.Errorf("invalid HOLDING_SPANS %q: %w", spans, err)
		}
		config.HoldingSpans = parsed
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	// Validate draw configuration before any simulation runs
	if config.Odds < 1 {
		return nil, fmt.Errorf("PRIZE_ODDS must be >= 1, got %d", config.Odds)
	}
	if err := config.PrizeTable.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prize table: %w", err)
	}
	if config.SimulationCount < 1 {
		return nil, fmt.Errorf("SIMULATION_COUNT must be positive, got %d", config.SimulationCount)
	}
	if config.MaxHoldingSize < 1 {
		return nil, fmt.Errorf("MAX_HOLDING_SIZE must be positive, got %d", config.MaxHoldingSize)
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}

// parseIntList parses a comma-separated list of positive integers
func parseIntList(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		if parsed < 1 {
			return nil, fmt.Errorf("value must be positive, got %d", parsed)
		}
		result = append(result, parsed)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("list is empty")
	}
	return result, nil
}
