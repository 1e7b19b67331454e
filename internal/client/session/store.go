// Package session holds the operator's authenticated identity.
//
// Store is the single writer of the persisted credential. Components that
// depend on authentication receive the Store explicitly and subscribe to be
// told when the session is lost.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/immiconsole/internal/client/models"
	"github.com/dmitrijs2005/immiconsole/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/immiconsole/internal/logging"
)

// Persistence keys in the metadata table.
const (
	KeyAuthToken = "authToken"
	KeyUserData  = "userData"
)

// Reason says why a session ended.
type Reason int

const (
	ReasonLogout Reason = iota + 1
	ReasonExpired
)

func (r Reason) String() string {
	switch r {
	case ReasonLogout:
		return "logout"
	case ReasonExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Generation changes on every Set and every effective Clear. A result computed
// under one generation is stale once the store reports another.
type Generation uint64

// Store keeps the current Session in memory and mirrors it to durable storage.
type Store struct {
	repo metadata.Repository
	log  logging.Logger

	// writeMu serialises every write so storage and memory change together.
	// It is taken before mu, never after.
	writeMu sync.Mutex

	mu      sync.Mutex
	current *models.Session
	gen     Generation
	subs    map[int]func(Reason)
	nextSub int
}

func NewStore(repo metadata.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: log, subs: make(map[int]func(Reason))}
}

// Load restores a persisted session. A missing token leaves the store empty.
// An unreadable profile keeps the token with an empty profile.
func (s *Store) Load(ctx context.Context) error {
	token, ok, err := s.repo.Get(ctx, KeyAuthToken)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok || token == "" {
		return nil
	}

	sess := models.Session{Token: token}
	raw, ok, err := s.repo.Get(ctx, KeyUserData)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if ok {
		if err := json.Unmarshal([]byte(raw), &sess.Profile); err != nil {
			s.log.Warn(ctx, "stored user data is not valid JSON", "error", err)
			sess.Profile = models.Profile{}
		}
	}

	s.mu.Lock()
	s.current = &sess
	s.gen++
	s.mu.Unlock()
	return nil
}

// Current returns a copy of the session, the generation it belongs to and
// whether a session exists at all.
func (s *Store) Current() (models.Session, Generation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return models.Session{}, s.gen, false
	}
	return *s.current, s.gen, true
}

func (s *Store) Generation() Generation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Set replaces the session. Both keys are written in one transaction before the
// in-memory copy changes.
func (s *Store) Set(ctx context.Context, sess models.Session) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.set(ctx, sess)
}

// SetIfCurrent is Set guarded by a generation captured earlier. It reports
// false, writing nothing, when the store has moved on since gen.
func (s *Store) SetIfCurrent(ctx context.Context, gen Generation, sess models.Session) (bool, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.Generation() != gen {
		return false, nil
	}
	return true, s.set(ctx, sess)
}

// set requires writeMu.
func (s *Store) set(ctx context.Context, sess models.Session) error {
	user, err := json.Marshal(sess.Profile)
	if err != nil {
		return fmt.Errorf("encode user data: %w", err)
	}
	if err := s.repo.SetMany(ctx, map[string]string{
		KeyAuthToken: sess.Token,
		KeyUserData:  string(user),
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.current = &sess
	s.gen++
	s.mu.Unlock()
	return nil
}

// Clear drops the session from memory and storage and notifies subscribers.
// Clearing an empty store only makes sure storage is empty; subscribers are
// not called again.
func (s *Store) Clear(ctx context.Context, reason Reason) error {
	s.writeMu.Lock()
	_, err := s.clearLocked(ctx, reason, nil)
	return err
}

// ClearIfCurrent is Clear guarded by a generation captured earlier. It reports
// false, touching nothing, when the store has moved on since gen.
func (s *Store) ClearIfCurrent(ctx context.Context, gen Generation, reason Reason) (bool, error) {
	s.writeMu.Lock()
	return s.clearLocked(ctx, reason, &gen)
}

// clearLocked must be entered with writeMu held and releases it before
// subscribers run, so they may call back into the store.
func (s *Store) clearLocked(ctx context.Context, reason Reason, gen *Generation) (bool, error) {
	s.mu.Lock()
	if gen != nil && s.gen != *gen {
		s.mu.Unlock()
		s.writeMu.Unlock()
		return false, nil
	}
	had := s.current != nil
	s.current = nil
	var subs []func(Reason)
	if had {
		s.gen++
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	err := s.repo.Delete(ctx, KeyAuthToken, KeyUserData)
	s.writeMu.Unlock()

	if had {
		s.log.Info(ctx, "session cleared", "reason", reason.String())
	}
	for _, fn := range subs {
		fn(reason)
	}
	if err != nil {
		return true, fmt.Errorf("clear session: %w", err)
	}
	return true, nil
}

// Subscribe registers fn to run after every session loss. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(Reason)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}
