package services

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/immiconsole/internal/common"
	"github.com/dmitrijs2005/immiconsole/internal/dbx"
	"github.com/dmitrijs2005/immiconsole/internal/server/models"
	"github.com/dmitrijs2005/immiconsole/internal/server/repositories/admins"
	"github.com/dmitrijs2005/immiconsole/internal/server/repositories/cases"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeAdmins struct {
	byEmail   map[string]*models.Admin
	getErr    error
	createErr error
	created   []*models.Admin
}

func (f *fakeAdmins) Create(ctx context.Context, a *models.Admin) (*models.Admin, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.ID = "new-admin"
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeAdmins) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if a, ok := f.byEmail[email]; ok {
		return a, nil
	}
	return nil, common.ErrorNotFound
}

type fakeCases struct {
	latest    string
	latestErr error
	addErr    error
	docs      []*models.DocumentUpdate
	visas     []*models.VisaRecord
}

func (f *fakeCases) AddDocumentUpdate(ctx context.Context, u *models.DocumentUpdate) (*models.DocumentUpdate, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.docs = append(f.docs, u)
	return u, nil
}

func (f *fakeCases) AddVisaRecord(ctx context.Context, v *models.VisaRecord) (*models.VisaRecord, error) {
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.visas = append(f.visas, v)
	return v, nil
}

func (f *fakeCases) LatestStatus(ctx context.Context, email string) (string, error) {
	if f.latestErr != nil {
		return "", f.latestErr
	}
	if f.latest == "" {
		return "", common.ErrorNotFound
	}
	return f.latest, nil
}

type fakeManager struct {
	admins *fakeAdmins
	cases  *fakeCases
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Admins(dbx.DBTX) admins.Repository          { return m.admins }
func (m *fakeManager) Cases(dbx.DBTX) cases.Repository            { return m.cases }

type fakeStore struct {
	keys []string
	data [][]byte
	err  error
}

func (f *fakeStore) Put(ctx context.Context, body io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(body)
	f.data = append(f.data, b)
	key := "documents/2025/01/01/k.pdf"
	f.keys = append(f.keys, key)
	return key, nil
}
