// Package services contains the console's application services.
// This file defines the Auth Gateway: login, logout, credential attachment and
// expiry handling. It is the only component that writes the session store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/immiconsole/internal/client/client"
	"github.com/dmitrijs2005/immiconsole/internal/client/models"
	"github.com/dmitrijs2005/immiconsole/internal/client/session"
	"github.com/dmitrijs2005/immiconsole/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

const (
	MsgFillAllFields = "Please fill in all fields"
	MsgNetworkError  = "Network error. Please check your connection and try again."
)

var (
	// ErrNoSession is returned when an authenticated action has no session.
	ErrNoSession = errors.New("no session")
	// ErrSessionExpired is returned when the stored credential has expired
	// locally or the session changed while a call was outstanding.
	ErrSessionExpired = errors.New("session expired")
)

// LoginFailure classifies a failed login.
type LoginFailure int

const (
	LoginMissingFields LoginFailure = iota + 1
	LoginInvalidCredentials
	LoginNetwork
	LoginStale
)

// LoginError is a typed login outcome. Message is shown to the operator.
type LoginError struct {
	Kind    LoginFailure
	Message string
	Err     error
}

func (e *LoginError) Error() string { return e.Message }

func (e *LoginError) Unwrap() error { return e.Err }

// Credential is what an authenticated call needs: the header to send and the
// session generation to check the result against.
type Credential struct {
	Header     map[string]string
	Generation session.Generation
}

// AuthGateway defines the authentication operations used by the console.
//
// Contract:
//   - Login: one attempt against the backend; persists the session on success.
//   - Logout: clears the session; idempotent.
//   - Expire: clears the session a 401 was received for.
//   - AuthHeader: bearer header or an empty map.
//   - Credential: AuthHeader plus generation, refusing missing or expired tokens.
//
// No method retries.
type AuthGateway interface {
	Login(ctx context.Context, email, password string) (models.Session, error)
	Logout(ctx context.Context) error
	Expire(ctx context.Context, gen session.Generation) error
	AuthHeader() map[string]string
	Credential(ctx context.Context) (Credential, error)
	IsAuthenticated() bool
	Current(gen session.Generation) bool
}

type authGateway struct {
	client client.Client
	store  *session.Store
	log    logging.Logger
	now    func() time.Time
}

// NewAuthGateway binds the gateway to a transport and the session store.
func NewAuthGateway(c client.Client, store *session.Store, log logging.Logger) AuthGateway {
	return &authGateway{client: c, store: store, log: log, now: time.Now}
}

func (a *authGateway) Login(ctx context.Context, email, password string) (models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return models.Session{}, &LoginError{Kind: LoginMissingFields, Message: MsgFillAllFields}
	}

	gen := a.store.Generation()

	resp, err := a.client.Login(ctx, email, password)
	if err != nil {
		var ce *client.CredentialsError
		switch {
		case errors.As(err, &ce):
			a.log.Info(ctx, "login rejected", "email", email)
			return models.Session{}, &LoginError{Kind: LoginInvalidCredentials, Message: ce.Message, Err: err}
		case errors.Is(err, client.ErrUnavailable):
			a.log.Warn(ctx, "login failed", "email", email, "error", err)
			return models.Session{}, &LoginError{Kind: LoginNetwork, Message: MsgNetworkError, Err: err}
		default:
			return models.Session{}, fmt.Errorf("login: %w", err)
		}
	}

	sess := models.Session{
		Token:   resp.IDToken,
		Profile: models.Profile{Email: resp.Email, Role: resp.Role},
	}

	applied, err := a.store.SetIfCurrent(ctx, gen, sess)
	if err != nil {
		return models.Session{}, fmt.Errorf("login: %w", err)
	}
	if !applied {
		a.log.Warn(ctx, "discarding login result, session changed while it was in flight", "email", email)
		return models.Session{}, &LoginError{Kind: LoginStale, Message: "Login was superseded. Please try again.", Err: ErrSessionExpired}
	}

	a.log.Info(ctx, "logged in", "email", sess.Email, "role", sess.Role)
	return sess, nil
}

func (a *authGateway) Logout(ctx context.Context) error {
	return a.store.Clear(ctx, session.ReasonLogout)
}

// Expire clears the session that was current at gen. A newer session, for
// example one created by logging in again, is left alone.
func (a *authGateway) Expire(ctx context.Context, gen session.Generation) error {
	_, err := a.store.ClearIfCurrent(ctx, gen, session.ReasonExpired)
	return err
}

func (a *authGateway) AuthHeader() map[string]string {
	sess, _, ok := a.store.Current()
	return authHeader(sess, ok)
}

// authHeader is the Authorization header for sess, or an empty map when there
// is no session.
func authHeader(sess models.Session, ok bool) map[string]string {
	if !ok {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + sess.Token}
}

func (a *authGateway) Credential(ctx context.Context) (Credential, error) {
	sess, gen, ok := a.store.Current()
	if !ok {
		return Credential{}, ErrNoSession
	}
	if a.tokenExpired(sess.Token) {
		if err := a.Expire(ctx, gen); err != nil {
			a.log.Error(ctx, "failed to clear expired session", "error", err)
		}
		return Credential{}, ErrSessionExpired
	}
	return Credential{
		Header:     authHeader(sess, true),
		Generation: gen,
	}, nil
}

func (a *authGateway) IsAuthenticated() bool {
	_, _, ok := a.store.Current()
	return ok
}

// Current reports whether gen is still the store's generation.
func (a *authGateway) Current(gen session.Generation) bool {
	return a.store.Generation() == gen
}

// tokenExpired reads the exp claim without verifying the signature; only the
// backend can verify. Tokens that are not JWTs, or carry no exp, never expire
// locally.
func (a *authGateway) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !a.now().Before(exp.Time)
}
