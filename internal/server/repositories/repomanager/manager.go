package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/immiconsole/internal/dbx"
	"github.com/dmitrijs2005/immiconsole/internal/server/repositories/admins"
	"github.com/dmitrijs2005/immiconsole/internal/server/repositories/cases"
)

// RepositoryManager vends repositories bound to either the pool or a
// transaction, so services can compose them inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Admins(db dbx.DBTX) admins.Repository
	Cases(db dbx.DBTX) cases.Repository
}
