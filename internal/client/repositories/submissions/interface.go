// Package submissions stores the console's local journal of submit attempts.
package submissions

import (
	"context"

	"github.com/dmitrijs2005/immiconsole/internal/client/models"
)

type Repository interface {
	Insert(ctx context.Context, rec *models.SubmissionRecord) error
	// Latest returns up to limit records, newest first. limit <= 0 means all.
	Latest(ctx context.Context, limit int) ([]models.SubmissionRecord, error)
}
