package submissions

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/immiconsole/internal/client/models"
	"github.com/dmitrijs2005/immiconsole/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.SubmissionRecord) error {
	query := `INSERT INTO submissions (id, workflow, email, state, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, string(rec.Workflow), rec.Email, rec.State, rec.Message, rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Latest(ctx context.Context, limit int) ([]models.SubmissionRecord, error) {
	query := `SELECT id, workflow, email, state, message, created_at
		FROM submissions ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select submissions: %w", err)
	}
	defer rows.Close()

	result := make([]models.SubmissionRecord, 0)
	for rows.Next() {
		var (
			rec       models.SubmissionRecord
			workflow  string
			createdAt string
		)
		if err := rows.Scan(&rec.ID, &workflow, &rec.Email, &rec.State, &rec.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		rec.Workflow = models.Workflow(workflow)
		rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("bad created_at %q: %w", createdAt, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate submissions: %w", err)
	}
	return result, nil
}
