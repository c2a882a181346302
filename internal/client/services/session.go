// Package services contains the console's state machines: the session
// store, the shared search filter and the user list and edit controllers.
// Presentation code drives them and renders their snapshots; they never
// print anything themselves.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/userconsole/internal/client/api"
	"github.com/dmitrijs2005/userconsole/internal/client/models"
	"github.com/dmitrijs2005/userconsole/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/userconsole/internal/dbx"
	"github.com/dmitrijs2005/userconsole/internal/logging"
)

// Well-known metadata keys of the persisted session.
const (
	KeyAuthToken = "auth_token"
	KeyAuthEmail = "auth_email"
)

type SessionState int

const (
	Anonymous SessionState = iota
	Authenticated
)

func (s SessionState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Gate reports whether protected views may be used.
type Gate interface {
	IsAuthenticated() bool
}

// SessionStore owns the opaque auth token. Its state is derived from the
// persisted token only: read once at construction, written on Login,
// removed on Logout.
type SessionStore struct {
	mu        sync.RWMutex
	token     string
	email     string
	loggingIn bool
	// gen is bumped by Logout; a login started under an older gen is dropped.
	gen uint64

	// persistMu orders writes to the persisted session.
	persistMu sync.Mutex

	client api.Client
	db     *sql.DB
	log    logging.Logger
}

var (
	_ Gate            = (*SessionStore)(nil)
	_ api.TokenSource = (*SessionStore)(nil)
)

// NewSessionStore resolves the initial state from local storage. It does not
// touch the network.
func NewSessionStore(ctx context.Context, client api.Client, db *sql.DB, log logging.Logger) (*SessionStore, error) {
	s := &SessionStore{client: client, db: db, log: log.With("component", "session")}

	repo := s.getMetadataRepo()
	token, found, err := repo.Get(ctx, KeyAuthToken)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !found || len(token) == 0 {
		return s, nil
	}

	email, _, err := repo.Get(ctx, KeyAuthEmail)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	s.token, s.email = string(token), string(email)
	return s, nil
}

func (s *SessionStore) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(s.db)
}

func (s *SessionStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

func (s *SessionStore) State() SessionState {
	if s.IsAuthenticated() {
		return Authenticated
	}
	return Anonymous
}

// Token implements api.TokenSource.
func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Email is the address the current session signed in with.
func (s *SessionStore) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// Login validates the form, exchanges the credentials for a token and
// persists it. On any failure the state is left as it was and the error is
// returned: *ValidationError, *api.AuthError, *api.FetchError or ErrBusy.
// A login overtaken by Logout returns ErrStale and leaves no trace.
func (s *SessionStore) Login(ctx context.Context, creds models.Credentials) error {
	if fe := ValidateCredentials(creds); len(fe) > 0 {
		return &ValidationError{Fields: fe}
	}

	s.mu.Lock()
	if s.loggingIn {
		s.mu.Unlock()
		return ErrBusy
	}
	s.loggingIn = true
	gen := s.gen
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loggingIn = false
		s.mu.Unlock()
	}()

	token, err := s.client.Login(ctx, creds)
	if err != nil {
		s.log.Warn(ctx, "login failed", "email", creds.Email, "error", err)
		return err
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if s.stale(gen) {
		s.log.Info(ctx, "login finished after logout, dropped", "email", creds.Email)
		return ErrStale
	}

	if err := s.saveSession(ctx, token, creds.Email); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.mu.Lock()
	s.token, s.email = token, creds.Email
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "email", creds.Email)
	return nil
}

func (s *SessionStore) stale(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen != gen
}

// saveSession writes the token and email in a single transaction.
func (s *SessionStore) saveSession(ctx context.Context, token, email string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, KeyAuthToken, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, KeyAuthEmail, []byte(email))
	})
}

// Logout removes the persisted token. The store is Anonymous afterwards even
// when the storage cleanup fails; that failure is still returned.
// A login still waiting on the server is discarded.
func (s *SessionStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	s.mu.Unlock()

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	err := s.getMetadataRepo().Delete(ctx, KeyAuthToken, KeyAuthEmail)

	s.mu.Lock()
	email := s.email
	s.token, s.email = "", ""
	s.mu.Unlock()

	if err != nil {
		s.log.Error(ctx, "clear persisted session", "error", err)
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info(ctx, "signed out", "email", email)
	return nil
}
