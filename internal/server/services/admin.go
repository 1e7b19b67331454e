// Package services contains server-side business logic. This file implements
// AdminService, which checks operator credentials and mints idTokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/immiconsole/internal/common"
	"github.com/dmitrijs2005/immiconsole/internal/logging"
	"github.com/dmitrijs2005/immiconsole/internal/server/auth"
	"github.com/dmitrijs2005/immiconsole/internal/server/config"
	"github.com/dmitrijs2005/immiconsole/internal/server/models"
	"github.com/dmitrijs2005/immiconsole/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

const RoleAdmin = "admin"

// dummyHash is compared against when the email is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.MinCost)

// LoginResult is what a successful sign-in hands back to the console.
type LoginResult struct {
	IDToken string
	Email   string
	Role    string
}

type AdminService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	log           logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
	bcryptCost    int
}

func NewAdminService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *AdminService {
	return &AdminService{
		db:            db,
		repomanager:   m,
		log:           log,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		bcryptCost:    bcrypt.DefaultCost,
	}
}

// Login checks email and password and returns a signed idToken.
// Unknown emails and wrong passwords both yield common.ErrorUnauthorized.
func (s *AdminService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, invalid("Please fill in all fields")
	}

	admin, err := s.repomanager.Admins(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		s.log.Error(ctx, "admin lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword(admin.PasswordHash, []byte(password)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(admin.ID, admin.Email, admin.Role, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &LoginResult{IDToken: token, Email: admin.Email, Role: admin.Role}, nil
}

// Authenticate validates a bearer token.
func (s *AdminService) Authenticate(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// EnsureAdmin creates the bootstrap admin unless one with that email exists.
// An empty email is a no-op.
func (s *AdminService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" {
		return nil
	}
	if password == "" {
		return fmt.Errorf("bootstrap admin %s has no password", email)
	}

	repo := s.repomanager.Admins(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("error looking up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	_, err = repo.Create(ctx, &models.Admin{Email: email, PasswordHash: hash, Role: RoleAdmin})
	if err != nil && !errors.Is(err, common.ErrorAlreadyExists) {
		return fmt.Errorf("error creating admin: %w", err)
	}

	s.log.Info(ctx, "bootstrap admin ready", "email", email)
	return nil
}
