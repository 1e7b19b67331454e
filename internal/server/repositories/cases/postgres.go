package cases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/immiconsole/internal/common"
	"github.com/dmitrijs2005/immiconsole/internal/dbx"
	"github.com/dmitrijs2005/immiconsole/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) AddDocumentUpdate(ctx context.Context, u *models.DocumentUpdate) (*models.DocumentUpdate, error) {
	query :=
		`INSERT INTO document_updates (id, admin_id, email, status, visa_type, file_name, storage_key, size_bytes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		u.ID, u.AdminID, u.Email, u.Status, u.VisaType,
		u.File.Name, u.File.StorageKey, u.File.SizeBytes).Scan(&u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return u, nil
}

func (r *PostgresRepository) AddVisaRecord(ctx context.Context, v *models.VisaRecord) (*models.VisaRecord, error) {
	query :=
		`INSERT INTO visa_records (id, admin_id, email, details, file_name, storage_key, size_bytes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		v.ID, v.AdminID, v.Email, []byte(v.Details),
		v.File.Name, v.File.StorageKey, v.File.SizeBytes).Scan(&v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return v, nil
}

// LatestStatus returns the most recently recorded status for email, or
// common.ErrorNotFound when none exists.
func (r *PostgresRepository) LatestStatus(ctx context.Context, email string) (string, error) {
	query :=
		`SELECT status FROM document_updates
		 WHERE email = $1
		 ORDER BY created_at DESC
		 LIMIT 1
		 `

	var status string
	err := r.db.QueryRowContext(ctx, query, email).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("db error: %w", err)
	}

	return status, nil
}
