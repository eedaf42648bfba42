// Package database provides database operations for the investment projection engine.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"investment-projection-engine/internal/models"
)

// ErrQuoteNotFound is returned when a quote ID does not exist.
var ErrQuoteNotFound = errors.New("quote not found")

// QuoteRepository handles quote database operations. Inputs and computed
// results are stored as JSONB documents; the engine itself never reads them
// back, persistence is purely a record of a run.
type QuoteRepository struct {
	db *DB
}

// NewQuoteRepository creates a new quote repository.
func NewQuoteRepository(db *DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

// Create inserts a new quote and returns its generated ID.
func (r *QuoteRepository) Create(ctx context.Context, quote *models.QuoteCreate) (string, error) {
	inputsJSON, err := json.Marshal(quote.Inputs)
	if err != nil {
		return "", fmt.Errorf("failed to marshal inputs: %w", err)
	}
	mortgageJSON, err := marshalNullable(quote.Mortgage)
	if err != nil {
		return "", fmt.Errorf("failed to marshal mortgage: %w", err)
	}
	projectionJSON, err := marshalNullable(quote.Projection)
	if err != nil {
		return "", fmt.Errorf("failed to marshal projection: %w", err)
	}
	exitsJSON, err := marshalNullable(quote.Exits)
	if err != nil {
		return "", fmt.Errorf("failed to marshal exits: %w", err)
	}

	query := `
		INSERT INTO quotes (
			id, property_name, client_name, status,
			inputs, mortgage, projection, exits,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id`

	id := uuid.New().String()
	now := time.Now().UTC()

	err = r.db.QueryRowContext(ctx, query,
		id,
		quote.PropertyName,
		quote.ClientName,
		string(models.QuoteStatusDraft),
		inputsJSON,
		mortgageJSON,
		projectionJSON,
		exitsJSON,
		now,
	).Scan(&id)

	if err != nil {
		return "", fmt.Errorf("failed to create quote: %w", err)
	}

	return id, nil
}

// GetByID fetches a full quote record.
func (r *QuoteRepository) GetByID(ctx context.Context, id string) (*models.Quote, error) {
	query := `
		SELECT id, property_name, client_name, status,
		       inputs, mortgage, projection, exits,
		       COALESCE(snapshot_key, ''), created_at, updated_at
		FROM quotes
		WHERE id = $1`

	var (
		quote          models.Quote
		status         string
		inputsJSON     []byte
		mortgageJSON   []byte
		projectionJSON []byte
		exitsJSON      []byte
	)

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&quote.ID,
		&quote.PropertyName,
		&quote.ClientName,
		&status,
		&inputsJSON,
		&mortgageJSON,
		&projectionJSON,
		&exitsJSON,
		&quote.SnapshotKey,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("failed to get quote: %w", err)
	}

	quote.Status = models.QuoteStatus(status)
	if err := json.Unmarshal(inputsJSON, &quote.Inputs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal inputs: %w", err)
	}
	if err := unmarshalNullable(mortgageJSON, &quote.Mortgage); err != nil {
		return nil, fmt.Errorf("failed to unmarshal mortgage: %w", err)
	}
	if err := unmarshalNullable(projectionJSON, &quote.Projection); err != nil {
		return nil, fmt.Errorf("failed to unmarshal projection: %w", err)
	}
	if err := unmarshalNullable(exitsJSON, &quote.Exits); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exits: %w", err)
	}

	return &quote, nil
}

// List returns quote summaries, newest first.
func (r *QuoteRepository) List(ctx context.Context, limit, offset int) ([]models.QuoteSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, property_name, client_name, status,
		       (inputs->>'base_price')::float8,
		       COALESCE(inputs->>'currency', ''),
		       created_at
		FROM quotes
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var summaries []models.QuoteSummary
	for rows.Next() {
		var s models.QuoteSummary
		var status string
		if err := rows.Scan(&s.ID, &s.PropertyName, &s.ClientName, &status, &s.BasePrice, &s.Currency, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote summary: %w", err)
		}
		s.Status = models.QuoteStatus(status)
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

// UpdateResults replaces the stored projection and exit analysis after a
// recomputation triggered by an input change.
func (r *QuoteRepository) UpdateResults(ctx context.Context, id string, projection *models.Projection, exits *models.ExitAnalysis) error {
	projectionJSON, err := marshalNullable(projection)
	if err != nil {
		return fmt.Errorf("failed to marshal projection: %w", err)
	}
	exitsJSON, err := marshalNullable(exits)
	if err != nil {
		return fmt.Errorf("failed to marshal exits: %w", err)
	}

	query := `
		UPDATE quotes
		SET projection = $2, exits = $3, updated_at = $4
		WHERE id = $1`

	affected, err := r.db.ExecContext(ctx, query, id, projectionJSON, exitsJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update quote results: %w", err)
	}
	if affected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

// SetSnapshotKey records the S3 key of an archived quote export.
func (r *QuoteRepository) SetSnapshotKey(ctx context.Context, id, key string) error {
	affected, err := r.db.ExecContext(ctx,
		`UPDATE quotes SET snapshot_key = $2, updated_at = $3 WHERE id = $1`,
		id, key, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set snapshot key: %w", err)
	}
	if affected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

// Delete removes a quote.
func (r *QuoteRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.db.ExecContext(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	if affected == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

// marshalNullable marshals a pointer, passing nil through as SQL NULL.
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// unmarshalNullable restores a pointer field, leaving it nil for SQL NULL.
func unmarshalNullable[T any](data []byte, target **T) error {
	if len(data) == 0 {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*target = &v
	return nil
}
