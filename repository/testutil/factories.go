package testutil

import (
	"bondsim/models"
)

// CreateTestBatch creates a batch with default values
func CreateTestBatch(simulationCount, holdingSize int) *models.Batch {
	return &models.Batch{
		SimulationCount: simulationCount,
		HoldingSize:     holdingSize,
		Odds:            21000,
		Seed:            42,
		ExecutionSummary: map[string]interface{}{
			"workers": 4,
		},
	}
}

// CreateTestRecords creates one winning record per simulation with a fixed
// prize value
func CreateTestRecords(simulationCount int, prizeValue int64) []models.SimulationRecord {
	records := make([]models.SimulationRecord, 0, simulationCount)
	for sim := 0; sim < simulationCount; sim++ {
		records = append(records, models.SimulationRecord{
			SimulationID: sim,
			UnitID:       sim % 10,
			PrizeValue:   prizeValue,
		})
	}
	return records
}
