// Package admins stores the operators allowed to sign in.
package admins

import (
	"context"

	"github.com/dmitrijs2005/immiconsole/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, admin *models.Admin) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
}
