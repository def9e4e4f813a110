package repository

import (
	"context"
	"testing"

	"bondsim/models"
	"bondsim/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationRepository_SaveBatch(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSimulationRepository(testDB.DB)
	ctx := context.Background()

	t.Run("persists batch and records", func(t *testing.T) {
		batch := testutil.CreateTestBatch(20, 10)
		records := testutil.CreateTestRecords(20, 25)

		err := repo.SaveBatch(ctx, batch, records)
		require.NoError(t, err)
		assert.NotZero(t, batch.ID)
		assert.False(t, batch.CreatedAt.IsZero())
		assert.Equal(t, 20, batch.RecordCount)

		fetched, err := repo.GetBatch(ctx, batch.ID)
		require.NoError(t, err)
		require.NotNil(t, fetched)
		assert.Equal(t, batch.ID, fetched.ID)
		assert.Equal(t, 20, fetched.SimulationCount)
		assert.Equal(t, 10, fetched.HoldingSize)
		assert.Equal(t, 21000, fetched.Odds)
		assert.Equal(t, int64(42), fetched.Seed)
		assert.Equal(t, 20, fetched.RecordCount)
		require.NotNil(t, fetched.ExecutionSummary)
		// JSONB has no integer type; numbers come back as float64
		assert.Equal(t, float64(4), fetched.ExecutionSummary["workers"])
	})

	t.Run("batch without records", func(t *testing.T) {
		batch := testutil.CreateTestBatch(5, 1)

		err := repo.SaveBatch(ctx, batch, nil)
		require.NoError(t, err)
		assert.NotZero(t, batch.ID)
		assert.Equal(t, 0, batch.RecordCount)

		records, err := repo.GetRecordsByBatch(ctx, batch.ID)
		require.NoError(t, err)
		assert.Empty(t, records)
	})
}

func TestSimulationRepository_GetBatch(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSimulationRepository(testDB.DB)
	ctx := context.Background()

	t.Run("missing batch returns nil", func(t *testing.T) {
		batch, err := repo.GetBatch(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, batch)
	})
}

func TestSimulationRepository_GetLatestBatch(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSimulationRepository(testDB.DB)
	ctx := context.Background()

	t.Run("no batches returns nil", func(t *testing.T) {
		batch, err := repo.GetLatestBatch(ctx)
		require.NoError(t, err)
		assert.Nil(t, batch)
	})

	t.Run("returns the most recent batch", func(t *testing.T) {
		first := testutil.CreateTestBatch(10, 5)
		require.NoError(t, repo.SaveBatch(ctx, first, nil))

		second := testutil.CreateTestBatch(30, 15)
		require.NoError(t, repo.SaveBatch(ctx, second, nil))

		latest, err := repo.GetLatestBatch(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, second.ID, latest.ID)
		assert.Equal(t, 30, latest.SimulationCount)
	})
}

func TestSimulationRepository_GetRecordsByBatch(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewSimulationRepository(testDB.DB)
	ctx := context.Background()

	t.Run("records round-trip in order", func(t *testing.T) {
		batch := testutil.CreateTestBatch(3, 10)
		records := []models.SimulationRecord{
			{SimulationID: 2, UnitID: 0, PrizeValue: 100},
			{SimulationID: 0, UnitID: 7, PrizeValue: 25},
			{SimulationID: 0, UnitID: 3, PrizeValue: 50},
			{SimulationID: 1, UnitID: 1, PrizeValue: 25},
		}

		err := repo.SaveBatch(ctx, batch, records)
		require.NoError(t, err)

		fetched, err := repo.GetRecordsByBatch(ctx, batch.ID)
		require.NoError(t, err)
		require.Len(t, fetched, 4)

		// ordered by simulation id then unit id
		assert.Equal(t, models.SimulationRecord{BatchID: batch.ID, SimulationID: 0, UnitID: 3, PrizeValue: 50}, fetched[0])
		assert.Equal(t, models.SimulationRecord{BatchID: batch.ID, SimulationID: 0, UnitID: 7, PrizeValue: 25}, fetched[1])
		assert.Equal(t, models.SimulationRecord{BatchID: batch.ID, SimulationID: 1, UnitID: 1, PrizeValue: 25}, fetched[2])
		assert.Equal(t, models.SimulationRecord{BatchID: batch.ID, SimulationID: 2, UnitID: 0, PrizeValue: 100}, fetched[3])
	})

	t.Run("unknown batch returns no records", func(t *testing.T) {
		records, err := repo.GetRecordsByBatch(ctx, 999999)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("records are scoped to their batch", func(t *testing.T) {
		one := testutil.CreateTestBatch(2, 10)
		require.NoError(t, repo.SaveBatch(ctx, one, testutil.CreateTestRecords(2, 25)))

		two := testutil.CreateTestBatch(3, 10)
		require.NoError(t, repo.SaveBatch(ctx, two, testutil.CreateTestRecords(3, 50)))

		records, err := repo.GetRecordsByBatch(ctx, one.ID)
		require.NoError(t, err)
		require.Len(t, records, 2)
		for _, rec := range records {
			assert.Equal(t, one.ID, rec.BatchID)
			assert.Equal(t, int64(25), rec.PrizeValue)
		}
	})
}
