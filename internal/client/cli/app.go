package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/immiconsole/internal/client/client"
	"github.com/dmitrijs2005/immiconsole/internal/client/config"
	"github.com/dmitrijs2005/immiconsole/internal/client/form"
	"github.com/dmitrijs2005/immiconsole/internal/client/intake"
	"github.com/dmitrijs2005/immiconsole/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/immiconsole/internal/client/repositories/submissions"
	"github.com/dmitrijs2005/immiconsole/internal/client/services"
	"github.com/dmitrijs2005/immiconsole/internal/client/session"
	"github.com/dmitrijs2005/immiconsole/internal/client/submission"
	"github.com/dmitrijs2005/immiconsole/internal/logging"
)

type App struct {
	config  *config.Config
	db      *sql.DB
	log     logging.Logger
	store   *session.Store
	auth    services.AuthGateway
	journal submissions.Repository

	docForm  *form.DocumentForm
	docCtrl  *submission.Controller
	visaForm *form.VisaForm
	visaCtrl *submission.Controller

	reader *bufio.Reader
	out    io.Writer

	unsubscribe func()
	// lostNotified is set once the operator has been told the session ended.
	lostNotified bool
}

// NewApp opens the state database, restores any persisted session and wires
// the controllers.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.StateDBPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	hc := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout)
	app, err := newApp(ctx, c, db, hc, log, os.Stdin, os.Stdout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, db *sql.DB, hc client.Client, log logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	store := session.NewStore(metadata.NewSQLiteRepository(db), log)
	if err := store.Load(ctx); err != nil {
		return nil, err
	}

	auth := services.NewAuthGateway(hc, store, log)
	journal := submissions.NewSQLiteRepository(db)

	a := &App{
		config:  c,
		db:      db,
		log:     log,
		store:   store,
		auth:    auth,
		journal: journal,
		reader:  bufio.NewReader(in),
		out:     out,
	}

	a.docForm = form.NewDocumentForm(intake.New(a.onReject))
	a.docCtrl = submission.NewController(submission.DocumentWorkflow{Form: a.docForm}, auth, hc, journal, log)
	a.visaForm = form.NewVisaForm(intake.New(a.onReject))
	a.visaCtrl = submission.NewController(submission.VisaWorkflow{Form: a.visaForm}, auth, hc, journal, log)

	a.unsubscribe = store.Subscribe(a.onSessionLost)
	return a, nil
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to the immigration admin console (type 'help' for commands)")
	if sess, _, ok := a.store.Current(); ok {
		printlnFn(fmt.Sprintf("Restored session for %s.", sess.Email))
	}
	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the state database.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if err := a.db.Close(); err != nil {
		a.log.Error(context.Background(), "failed to close state database", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.auth.IsAuthenticated()
}

func (a *App) getStatus() string {
	sess, _, ok := a.store.Current()
	if !ok {
		return "(logged out)"
	}
	if sess.Role != "" {
		return fmt.Sprintf("(%s %s)", sess.Email, sess.Role)
	}
	return fmt.Sprintf("(%s)", sess.Email)
}

// onSessionLost tells the operator why they were logged out.
func (a *App) onSessionLost(r session.Reason) {
	a.log.Info(context.Background(), "session lost", "reason", r.String())
	if r == session.ReasonExpired {
		printlnFn(submission.MsgSessionExpired)
		a.lostNotified = true
	}
}

func (a *App) onReject(r intake.Rejection) {
	printlnFn(r.Message)
}
