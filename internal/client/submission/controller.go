// Package submission runs the submit protocol shared by the console's forms.
//
// A Controller owns one form. Submit checks preconditions locally, sends one
// multipart request with the operator's bearer credential, and maps the answer
// to an Outcome. Nothing is retried.
package submission

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/immiconsole/internal/client/client"
	"github.com/dmitrijs2005/immiconsole/internal/client/models"
	"github.com/dmitrijs2005/immiconsole/internal/client/repositories/submissions"
	"github.com/dmitrijs2005/immiconsole/internal/client/services"
	"github.com/dmitrijs2005/immiconsole/internal/logging"
	"github.com/google/uuid"
)

// ErrInFlight is returned by Submit while an earlier attempt is outstanding.
var ErrInFlight = errors.New("submission already in flight")

// ErrMustReset is returned by Submit after a success until Reset is called.
var ErrMustReset = errors.New("submission succeeded, reset before submitting again")

type Controller struct {
	wf      Workflow
	auth    services.AuthGateway
	client  client.Client
	journal submissions.Repository
	log     logging.Logger

	newID func() string
	now   func() time.Time

	mu      sync.Mutex
	outcome Outcome
}

// NewController wires a workflow to the transport. journal may be nil.
func NewController(wf Workflow, auth services.AuthGateway, c client.Client, journal submissions.Repository, log logging.Logger) *Controller {
	return &Controller{
		wf:      wf,
		auth:    auth,
		client:  c,
		journal: journal,
		log:     log.With("workflow", string(wf.Name())),
		newID:   uuid.NewString,
		now:     time.Now,
	}
}

// Outcome returns the latest outcome.
func (c *Controller) Outcome() Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outcome
}

// Reset re-initialises the form, its attachment and the outcome together.
// It is refused while a request is in flight.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.outcome.State == InFlight {
		return ErrInFlight
	}
	c.wf.Reset()
	c.outcome = Outcome{State: Idle}
	return nil
}

// Submit performs one attempt and returns its outcome. The error is non-nil
// only when the attempt was refused outright (ErrInFlight, ErrMustReset); every
// other failure is reported through the Outcome.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	switch c.outcome.State {
	case InFlight:
		defer c.mu.Unlock()
		return c.outcome, ErrInFlight
	case Success:
		defer c.mu.Unlock()
		return c.outcome, ErrMustReset
	}
	id := c.newID()
	c.outcome = Outcome{State: InFlight, SubmissionID: id}
	c.mu.Unlock()

	// Captured up front: a successful document upload clears the form.
	email := c.wf.Email()
	o := c.attempt(ctx, id)

	c.mu.Lock()
	c.outcome = o
	c.mu.Unlock()

	c.log.Info(ctx, "submission finished", "submission_id", id, "state", o.State.String(), "kind", o.Kind.String(), "status", o.StatusCode)
	c.record(ctx, o, email)
	return o, nil
}

// attempt runs without c.mu held: clearing a session notifies subscribers
// synchronously and they may read the controller.
func (c *Controller) attempt(ctx context.Context, id string) Outcome {
	if o, failed := c.precondition(id); failed {
		return o
	}

	cred, err := c.auth.Credential(ctx)
	if err != nil {
		return c.authFailure(id, err)
	}

	req, err := c.wf.Build()
	if err != nil {
		c.log.Error(ctx, "failed to build request", "submission_id", id, "error", err)
		return Outcome{State: RecoverableError, Kind: KindValidation, Message: err.Error(), SubmissionID: id}
	}
	req.Header = cred.Header
	req.RequestID = id

	c.log.Info(ctx, "submission sent", "submission_id", id, "state", InFlight.String())
	resp, err := c.client.PostMultipart(ctx, req)
	return c.resolve(ctx, id, cred, resp, err)
}

// precondition checks the session, the attachment and the form values.
// Token expiry is checked later by Credential.
func (c *Controller) precondition(id string) (Outcome, bool) {
	if !c.auth.IsAuthenticated() {
		return Outcome{State: SessionExpired, Kind: KindAuth, Message: MsgAuthRequired, SubmissionID: id}, true
	}
	if _, ok := c.wf.Attachment(); !ok {
		return Outcome{State: RecoverableError, Kind: KindValidation, Message: MsgSelectPDF, SubmissionID: id}, true
	}
	if msg := c.wf.Validate(); msg != "" {
		return Outcome{State: RecoverableError, Kind: KindValidation, Message: msg, SubmissionID: id}, true
	}
	return Outcome{}, false
}

func (c *Controller) authFailure(id string, err error) Outcome {
	msg := MsgAuthRequired
	if errors.Is(err, services.ErrSessionExpired) {
		msg = MsgSessionExpired
	}
	return Outcome{State: SessionExpired, Kind: KindAuth, Message: msg, SubmissionID: id}
}

// resolve maps the transport result to an outcome.
func (c *Controller) resolve(ctx context.Context, id string, cred services.Credential, resp *client.Response, err error) Outcome {
	var se *client.ServerError

	switch {
	case errors.Is(err, client.ErrUnauthorized):
		if xerr := c.auth.Expire(ctx, cred.Generation); xerr != nil {
			c.log.Error(ctx, "failed to clear session", "submission_id", id, "error", xerr)
		}
		return Outcome{State: SessionExpired, Kind: KindAuth, Message: MsgSessionExpired, StatusCode: 401, SubmissionID: id}

	case !c.auth.Current(cred.Generation):
		// The session this request was sent under is gone; its result no
		// longer belongs to anyone.
		c.log.Warn(ctx, "discarding result of a submission sent under a cleared session", "submission_id", id)
		return Outcome{State: SessionExpired, Kind: KindAuth, Message: MsgSessionExpired, SubmissionID: id}

	case errors.As(err, &se):
		return Outcome{State: RecoverableError, Kind: KindServer, Message: c.wf.FailurePrefix() + se.Error(), StatusCode: se.StatusCode, SubmissionID: id}

	case err != nil:
		// ErrUnavailable, a cancelled context, or anything else that left us
		// without a response.
		c.log.Warn(ctx, "submission got no response", "submission_id", id, "error", err)
		return Outcome{State: RecoverableError, Kind: KindNetwork, Message: MsgNetworkError, SubmissionID: id}
	}

	msg := c.wf.Succeeded()
	return Outcome{State: Success, Message: msg, StatusCode: resp.StatusCode, SubmissionID: id}
}

// record appends o to the journal. Journal failures never change the outcome.
func (c *Controller) record(ctx context.Context, o Outcome, email string) {
	if c.journal == nil {
		return
	}
	rec := &models.SubmissionRecord{
		ID:        o.SubmissionID,
		Workflow:  c.wf.Name(),
		Email:     email,
		State:     o.State.String(),
		Message:   o.Message,
		CreatedAt: c.now().UTC(),
	}
	if err := c.journal.Insert(ctx, rec); err != nil {
		c.log.Error(ctx, "failed to journal submission", "submission_id", o.SubmissionID, "error", err)
	}
}
