// Package analyses stores deal analyses per user and property.
package analyses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/damo1005/dealflow-properties-sub003/internal/domain"
	"github.com/damo1005/dealflow-properties-sub003/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultListLimit caps list queries that do not set a limit.
const DefaultListLimit = 100

// Record is a saved analysis together with the input it was computed from.
type Record struct {
	ID              string                     `json:"id"`
	UserID          string                     `json:"user_id"`
	PropertyID      string                     `json:"property_id"`
	Strategy        domain.StrategyKind        `json:"strategy"`
	PurchasePrice   float64                    `json:"purchase_price"`
	Score           int                        `json:"score"`
	MonthlyCashFlow float64                    `json:"monthly_cash_flow"`
	Input           domain.DealInput           `json:"input"`
	Result          *domain.DealAnalysisResult `json:"result"`
	CreatedAt       time.Time                  `json:"created_at"`
}

// Repository persists analyses in the analyses database.
type Repository struct {
	db  *sql.DB
	now func() time.Time
	log zerolog.Logger
}

// NewRepository creates an analyses repository over an analyses database connection.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		now: time.Now,
		log: log.With().Str("repository", "analyses").Logger(),
	}
}

// Save stores result under a new id.
func (r *Repository) Save(ctx context.Context, userID, propertyID string, input domain.DealInput, result *domain.DealAnalysisResult) (*Record, error) {
	if userID == "" || propertyID == "" {
		return nil, fmt.Errorf("%w: user id and property id are required", domain.ErrInvalidInput)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: analysis result is required", domain.ErrInvalidInput)
	}

	inputBlob, err := encode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis input: %w", err)
	}
	resultBlob, err := encode(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis result: %w", err)
	}

	rec := &Record{
		ID:              uuid.NewString(),
		UserID:          userID,
		PropertyID:      propertyID,
		Strategy:        result.Strategy,
		PurchasePrice:   result.PurchasePrice,
		Score:           result.Score.Total,
		MonthlyCashFlow: result.MonthlyCashFlow,
		Input:           input,
		Result:          result,
		CreatedAt:       r.now().UTC().Truncate(time.Millisecond),
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO analyses (id, user_id, property_id, strategy, purchase_price, score,
			monthly_cash_flow, input, result, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.UserID, rec.PropertyID, string(rec.Strategy), rec.PurchasePrice, rec.Score,
		rec.MonthlyCashFlow, inputBlob, resultBlob, rec.CreatedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("failed to save analysis: %w", err)
	}

	r.log.Debug().Str("id", rec.ID).Str("property_id", propertyID).Int("score", rec.Score).Msg("Analysis saved")
	return rec, nil
}

const selectColumns = `SELECT id, user_id, property_id, strategy, purchase_price, score,
	monthly_cash_flow, input, result, created_at FROM analyses`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var (
		rec        Record
		strategy   string
		inputBlob  []byte
		resultBlob []byte
		createdAt  int64
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.PropertyID, &strategy, &rec.PurchasePrice, &rec.Score,
		&rec.MonthlyCashFlow, &inputBlob, &resultBlob, &createdAt); err != nil {
		return nil, err
	}
	rec.Strategy = domain.StrategyKind(strategy)
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()

	if err := decode(inputBlob, &rec.Input); err != nil {
		return nil, fmt.Errorf("failed to decode input of analysis %s: %w", rec.ID, err)
	}
	rec.Result = &domain.DealAnalysisResult{}
	if err := decode(resultBlob, rec.Result); err != nil {
		return nil, fmt.Errorf("failed to decode result of analysis %s: %w", rec.ID, err)
	}
	return &rec, nil
}

// Get returns the analysis with the given id, or domain.ErrNotFound.
func (r *Repository) Get(ctx context.Context, id string) (*Record, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("analysis %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}
	return rec, nil
}

// ListByUser returns a user's analyses, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID, limit)
}

// ListByProperty returns every analysis of a property, newest first.
func (r *Repository) ListByProperty(ctx context.Context, propertyID string, limit int) ([]Record, error) {
	return r.list(ctx, `WHERE property_id = ?`, propertyID, limit)
}

func (r *Repository) list(ctx context.Context, where, arg string, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	done := utils.MeasureQuery("list_analyses", r.log)
	rows, err := r.db.QueryContext(ctx, selectColumns+` `+where+` ORDER BY created_at DESC, id LIMIT ?`, arg, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			r.log.Warn().Err(err).Msg("Failed to scan analysis row")
			continue
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}
	done(int64(len(records)))
	return records, nil
}

// Delete removes an analysis. Deleting an unknown id returns domain.ErrNotFound.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("analysis %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// PruneOlderThan deletes analyses created before cutoff and returns how many were removed.
func (r *Repository) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	done := utils.MeasureQuery("prune_analyses", r.log)
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE created_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to prune analyses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to prune analyses: %w", err)
	}
	done(n)
	if n > 0 {
		r.log.Info().Int64("deleted", n).Time("cutoff", cutoff).Msg("Pruned old analyses")
	}
	return n, nil
}

// Count returns the number of stored analyses.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count analyses: %w", err)
	}
	return n, nil
}
