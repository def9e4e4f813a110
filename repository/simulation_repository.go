package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bondsim/database"
	"bondsim/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// queryable abstracts over a connection pool and a transaction
type queryable interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// SimulationRepository implements the SimulationStore interface
type SimulationRepository struct {
	db *database.DB
	q  queryable
}

// NewSimulationRepository creates a new simulation repository
func NewSimulationRepository(db *database.DB) *SimulationRepository {
	return &SimulationRepository{db: db, q: db.Pool}
}

// SaveBatch persists the batch metadata row and its flat record table in a
// single transaction. The batch is either fully visible to queries or not
// at all; there is no partially written state to read.
func (r *SimulationRepository) SaveBatch(ctx context.Context, batch *models.Batch, records []models.SimulationRecord) error {
	summaryJSON, err := json.Marshal(batch.ExecutionSummary)
	if err != nil {
		return fmt.Errorf("failed to marshal execution summary: %w", err)
	}

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		query := `
			INSERT INTO batches
			(simulation_count, holding_size, odds, seed, record_count, execution_summary)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at
		`

		err := tx.QueryRow(ctx, query,
			batch.SimulationCount,
			batch.HoldingSize,
			batch.Odds,
			batch.Seed,
			len(records),
			summaryJSON,
		).Scan(&batch.ID, &batch.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create batch: %w", err)
		}
		batch.RecordCount = len(records)

		if len(records) == 0 {
			return nil
		}

		rows := make([][]any, len(records))
		for i, rec := range records {
			rows[i] = []any{batch.ID, rec.SimulationID, rec.UnitID, rec.PrizeValue}
		}

		copied, err := tx.CopyFrom(ctx,
			pgx.Identifier{"simulation_records"},
			[]string{"batch_id", "simulation_id", "unit_id", "prize_value"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("failed to copy simulation records: %w", err)
		}
		if copied != int64(len(records)) {
			return fmt.Errorf("expected to copy %d records, copied %d", len(records), copied)
		}

		return nil
	})
}

// GetBatch retrieves batch metadata by ID
func (r *SimulationRepository) GetBatch(ctx context.Context, id int64) (*models.Batch, error) {
	query := `
		SELECT id, simulation_count, holding_size, odds, seed, record_count,
		       execution_summary, created_at
		FROM batches
		WHERE id = $1
	`

	return r.scanBatch(r.q.QueryRow(ctx, query, id))
}

// GetLatestBatch returns the most recently created batch
func (r *SimulationRepository) GetLatestBatch(ctx context.Context) (*models.Batch, error) {
	query := `
		SELECT id, simulation_count, holding_size, odds, seed, record_count,
		       execution_summary, created_at
		FROM batches
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	return r.scanBatch(r.q.QueryRow(ctx, query))
}

func (r *SimulationRepository) scanBatch(row pgx.Row) (*models.Batch, error) {
	var batch models.Batch
	var summaryJSON []byte

	err := row.Scan(
		&batch.ID,
		&batch.SimulationCount,
		&batch.HoldingSize,
		&batch.Odds,
		&batch.Seed,
		&batch.RecordCount,
		&summaryJSON,
		&batch.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get batch: %w", err)
	}

	if len(summaryJSON) > 0 {
		if err := json.Unmarshal(summaryJSON, &batch.ExecutionSummary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution summary: %w", err)
		}
	}

	return &batch, nil
}

// GetRecordsByBatch returns the flat record table for a batch
func (r *SimulationRepository) GetRecordsByBatch(ctx context.Context, batchID int64) ([]models.SimulationRecord, error) {
	query := `
		SELECT batch_id, simulation_id, unit_id, prize_value
		FROM simulation_records
		WHERE batch_id = $1
		ORDER BY simulation_id, unit_id
	`

	rows, err := r.q.Query(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get records for batch %d: %w", batchID, err)
	}
	defer rows.Close()

	var records []models.SimulationRecord
	for rows.Next() {
		var rec models.SimulationRecord
		err := rows.Scan(
			&rec.BatchID,
			&rec.SimulationID,
			&rec.UnitID,
			&rec.PrizeValue,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan simulation record: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate simulation records: %w", err)
	}

	return records, nil
}
