// Package cases stores the outcome of the two submission endpoints:
// document status updates and visa detail records.
package cases

import (
	"context"

	"github.com/dmitrijs2005/immiconsole/internal/server/models"
)

type Repository interface {
	AddDocumentUpdate(ctx context.Context, u *models.DocumentUpdate) (*models.DocumentUpdate, error)
	AddVisaRecord(ctx context.Context, v *models.VisaRecord) (*models.VisaRecord, error)
	LatestStatus(ctx context.Context, email string) (string, error)
}
