package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/immiconsole/internal/client/client"
	"github.com/dmitrijs2005/immiconsole/internal/client/models"
	"github.com/dmitrijs2005/immiconsole/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/immiconsole/internal/client/session"
	"github.com/dmitrijs2005/immiconsole/internal/logging"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- helpers ----

func newStore(t *testing.T) (*session.Store, metadata.Repository) {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := metadata.NewSQLiteRepository(db)
	return session.NewStore(repo, logging.NewNop()), repo
}

// fakeClient implements client.Client for gateway and controller tests.
type fakeClient struct {
	LoginRet *client.LoginResponse
	LoginErr error
	// OnLogin runs inside Login before it returns.
	OnLogin func()

	PostRet *client.Response
	PostErr error
	OnPost  func()

	LoginCalls int
	LastEmail  string
	LastPass   string
	Posts      []*client.MultipartRequest
}

func (f *fakeClient) Login(_ context.Context, email, password string) (*client.LoginResponse, error) {
	f.LoginCalls++
	f.LastEmail, f.LastPass = email, password
	if f.OnLogin != nil {
		f.OnLogin()
	}
	return f.LoginRet, f.LoginErr
}

func (f *fakeClient) PostMultipart(_ context.Context, req *client.MultipartRequest) (*client.Response, error) {
	f.Posts = append(f.Posts, req)
	if f.OnPost != nil {
		f.OnPost()
	}
	return f.PostRet, f.PostErr
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	require.NoError(t, err)
	return tok
}

// ---- tests ----

func TestLogin_PersistsSession(t *testing.T) {
	ctx := context.Background()
	store, repo := newStore(t)
	fc := &fakeClient{LoginRet: &client.LoginResponse{IDToken: "t1", Email: "a@b.com", Role: "admin"}}
	gw := NewAuthGateway(fc, store, logging.NewNop())

	sess, err := gw.Login(ctx, "a@b.com", "x")
	require.NoError(t, err)

	want := models.Session{Token: "t1", Profile: models.Profile{Email: "a@b.com", Role: "admin"}}
	assert.Equal(t, want, sess)
	assert.True(t, gw.IsAuthenticated())
	assert.Equal(t, map[string]string{"Authorization": "Bearer t1"}, gw.AuthHeader())

	token, ok, err := repo.Get(ctx, session.KeyAuthToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "t1", token)
}

func TestLogin_MissingFieldsSkipsNetwork(t *testing.T) {
	store, _ := newStore(t)
	fc := &fakeClient{}
	gw := NewAuthGateway(fc, store, logging.NewNop())

	for _, tc := range [][2]string{{"", "x"}, {"a@b.com", ""}, {"  ", "x"}} {
		_, err := gw.Login(context.Background(), tc[0], tc[1])
		var le *LoginError
		require.True(t, errors.As(err, &le))
		assert.Equal(t, LoginMissingFields, le.Kind)
		assert.Equal(t, MsgFillAllFields, le.Message)
	}
	assert.Zero(t, fc.LoginCalls)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind LoginFailure
		wantMsg  string
	}{
		{"rejected", &client.CredentialsError{Message: "Invalid email or password"}, LoginInvalidCredentials, "Invalid email or password"},
		{"no token", &client.CredentialsError{Message: "Authentication token not received"}, LoginInvalidCredentials, "Authentication token not received"},
		{"network", client.ErrUnavailable, LoginNetwork, MsgNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newStore(t)
			gw := NewAuthGateway(&fakeClient{LoginErr: tt.err}, store, logging.NewNop())

			_, err := gw.Login(context.Background(), "a@b.com", "x")
			var le *LoginError
			require.True(t, errors.As(err, &le))
			assert.Equal(t, tt.wantKind, le.Kind)
			assert.Equal(t, tt.wantMsg, le.Error())
			assert.False(t, gw.IsAuthenticated())
		})
	}
}

func TestLogin_StaleResultIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	require.NoError(t, store.Set(ctx, models.Session{Token: "old"}))

	fc := &fakeClient{LoginRet: &client.LoginResponse{IDToken: "t1", Email: "a@b.com", Role: "admin"}}
	gw := NewAuthGateway(fc, store, logging.NewNop())
	fc.OnLogin = func() { require.NoError(t, gw.Logout(ctx)) }

	_, err := gw.Login(ctx, "a@b.com", "x")
	var le *LoginError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, LoginStale, le.Kind)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.False(t, gw.IsAuthenticated())
}

func TestLogout_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	gw := NewAuthGateway(&fakeClient{}, store, logging.NewNop())
	require.NoError(t, store.Set(ctx, models.Session{Token: "t1"}))

	require.NoError(t, gw.Logout(ctx))
	require.NoError(t, gw.Logout(ctx))
	assert.False(t, gw.IsAuthenticated())
	assert.Empty(t, gw.AuthHeader())
}

func TestExpire_OnlyClearsMatchingGeneration(t *testing.T) {
	ctx := context.Background()
	store, _ := newStore(t)
	gw := NewAuthGateway(&fakeClient{}, store, logging.NewNop())

	require.NoError(t, store.Set(ctx, models.Session{Token: "t1"}))
	oldGen := store.Generation()
	require.NoError(t, store.Set(ctx, models.Session{Token: "t2"}))

	require.NoError(t, gw.Expire(ctx, oldGen))
	assert.True(t, gw.IsAuthenticated())

	var reasons []session.Reason
	store.Subscribe(func(r session.Reason) { reasons = append(reasons, r) })
	require.NoError(t, gw.Expire(ctx, store.Generation()))
	assert.False(t, gw.IsAuthenticated())
	assert.Equal(t, []session.Reason{session.ReasonExpired}, reasons)
}

func TestCredential(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no session", func(t *testing.T) {
		store, _ := newStore(t)
		gw := NewAuthGateway(&fakeClient{}, store, logging.NewNop())
		_, err := gw.Credential(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("opaque token", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.Set(ctx, models.Session{Token: "t1"}))
		gw := NewAuthGateway(&fakeClient{}, store, logging.NewNop())

		cred, err := gw.Credential(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"Authorization": "Bearer t1"}, cred.Header)
		assert.Equal(t, store.Generation(), cred.Generation)
	})

	t.Run("valid jwt", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.Set(ctx, models.Session{Token: signedToken(t, now.Add(time.Hour))}))
		gw := NewAuthGateway(&fakeClient{}, store, logging.NewNop()).(*authGateway)
		gw.now = func() time.Time { return now }

		_, err := gw.Credential(ctx)
		require.NoError(t, err)
	})

	t.Run("expired jwt clears session", func(t *testing.T) {
		store, _ := newStore(t)
		require.NoError(t, store.Set(ctx, models.Session{Token: signedToken(t, now.Add(-time.Minute))}))
		gw := NewAuthGateway(&fakeClient{}, store, logging.NewNop()).(*authGateway)
		gw.now = func() time.Time { return now }

		_, err := gw.Credential(ctx)
		assert.ErrorIs(t, err, ErrSessionExpired)
		assert.False(t, gw.IsAuthenticated())
	})
}
