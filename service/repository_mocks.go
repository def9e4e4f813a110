package service

import (
	"context"

	"bondsim/models"

	"github.com/stretchr/testify/mock"
)

// MockSimulationStore is a mock implementation of SimulationStore
type MockSimulationStore struct {
	mock.Mock
}

func (m *MockSimulationStore) SaveBatch(ctx context.Context, batch *models.Batch, records []models.SimulationRecord) error {
	args := m.Called(ctx, batch, records)
	return args.Error(0)
}

func (m *MockSimulationStore) GetBatch(ctx context.Context, id int64) (*models.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockSimulationStore) GetLatestBatch(ctx context.Context) (*models.Batch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Batch), args.Error(1)
}

func (m *MockSimulationStore) GetRecordsByBatch(ctx context.Context, batchID int64) ([]models.SimulationRecord, error) {
	args := m.Called(ctx, batchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.SimulationRecord), args.Error(1)
}
