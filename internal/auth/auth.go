package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/rihla-app/localbase/internal/backend"
	"github.com/rihla-app/localbase/internal/row"
)

const (
	// UsersCollection is the reserved collection holding credential records.
	// Application code should not write to it directly.
	UsersCollection = "auth_users"

	// SessionSlot is the store slot holding the single persisted session.
	SessionSlot = "session"

	// sessionTTL is the expiry horizon stamped on new sessions. The horizon
	// is informational: nothing in the emulator enforces it, matching a demo
	// client that never refreshes tokens.
	sessionTTL = time.Hour
)

// Session is the active authenticated identity: an opaque access token, the
// public user record (password stripped), and an expiry horizon.
type Session struct {
	Token     string
	User      row.Row
	ExpiresAt time.Time
}

// Service emulates the credential and session subsystem of the hosted
// backend. At most one session is persisted at a time: signing in replaces
// it, signing out removes it. All session transitions run under the
// backend's lock, so they are atomic with respect to every other store
// operation.
type Service struct {
	backend *backend.Backend
	tokens  backend.IDGenerator
	now     func() time.Time

	subscribers subscriberTable
}

// Option allows configuration of service parameters.
type Option func(*Service)

// WithTokenGenerator overrides the session token generator.
func WithTokenGenerator(g backend.IDGenerator) Option {
	return func(s *Service) {
		s.tokens = g
	}
}

// WithClock overrides the time source used for expiry horizons.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates an auth service sharing the given backend's store and lock.
func New(b *backend.Backend, opts ...Option) *Service {
	s := &Service{
		backend: b,
		tokens:  backend.UUIDv7Generator{},
		now:     time.Now,
	}
	s.subscribers.init()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignUp registers a new credential and immediately signs it in. The profile
// fragment is merged into the stored user record. Fails with DUPLICATE_USER
// if the email is already registered; the existing session is untouched in
// that case.
func (s *Service) SignUp(ctx context.Context, email, password string, profile row.Row) (Session, error) {
	var sess Session
	err := s.backend.WithLock(func() error {
		st := s.backend.Store()
		users, err := st.ReadCollection(ctx, UsersCollection)
		if err != nil {
			return backend.StorageFault(err)
		}
		for _, u := range users {
			if row.Equal(u["email"], row.String(email)) {
				return backend.DuplicateUser(email)
			}
		}

		user := profile.Clone()
		if user == nil {
			user = row.Row{}
		}
		user[row.IDField] = row.String(s.backend.IDs().NewID())
		user["email"] = row.String(email)
		user["password"] = row.String(password)

		if err := st.WriteCollection(ctx, UsersCollection, append(users, user)); err != nil {
			return backend.StorageFault(err)
		}

		sess, err = s.openSession(ctx, user)
		return err
	})
	if err != nil {
		return Session{}, err
	}

	s.backend.Logger().Info("signed up", "email", email)
	s.notify(EventSignedIn, &sess)
	return sess, nil
}

// SignIn authenticates an exact email+password pair and persists a new
// session. Fails with INVALID_CREDENTIALS when no pair matches.
func (s *Service) SignIn(ctx context.Context, email, password string) (Session, error) {
	var sess Session
	err := s.backend.WithLock(func() error {
		st := s.backend.Store()
		users, err := st.ReadCollection(ctx, UsersCollection)
		if err != nil {
			return backend.StorageFault(err)
		}
		for _, u := range users {
			if row.Equal(u["email"], row.String(email)) && row.Equal(u["password"], row.String(password)) {
				sess, err = s.openSession(ctx, u)
				return err
			}
		}
		return backend.InvalidCredentials()
	})
	if err != nil {
		return Session{}, err
	}

	s.backend.Logger().Info("signed in", "email", email)
	s.notify(EventSignedIn, &sess)
	return sess, nil
}

// SignInWithProvider emulates a third-party identity flow by unconditionally
// minting a fresh credential tagged with the provider name and signing it
// in. No external identity check happens; offline demo sign-in is meant to
// always succeed. Do not harden this.
func (s *Service) SignInWithProvider(ctx context.Context, provider string) (Session, error) {
	var sess Session
	err := s.backend.WithLock(func() error {
		st := s.backend.Store()
		users, err := st.ReadCollection(ctx, UsersCollection)
		if err != nil {
			return backend.StorageFault(err)
		}

		id := s.backend.IDs().NewID()
		user := row.Row{
			row.IDField: row.String(id),
			"email":     row.String(fmt.Sprintf("%s.%s@rihla.local", provider, id)),
			"provider":  row.String(provider),
		}
		if err := st.WriteCollection(ctx, UsersCollection, append(users, user)); err != nil {
			return backend.StorageFault(err)
		}

		sess, err = s.openSession(ctx, user)
		return err
	})
	if err != nil {
		return Session{}, err
	}

	s.backend.Logger().Info("signed in with provider", "provider", provider)
	s.notify(EventSignedIn, &sess)
	return sess, nil
}

// SignOut clears the persisted session. Idempotent: signing out while
// signed out is a no-op and notifies nobody.
func (s *Service) SignOut(ctx context.Context) error {
	cleared := false
	err := s.backend.WithLock(func() error {
		st := s.backend.Store()
		_, found, err := st.ReadSlot(ctx, SessionSlot)
		if err != nil {
			return backend.StorageFault(err)
		}
		if !found {
			return nil
		}
		if err := st.ClearSlot(ctx, SessionSlot); err != nil {
			return backend.StorageFault(err)
		}
		cleared = true
		return nil
	})
	if err != nil {
		return err
	}

	if cleared {
		s.backend.Logger().Info("signed out")
		s.notify(EventSignedOut, nil)
	}
	return nil
}

// CurrentSession returns the persisted session, or found=false when signed
// out. It never blocks beyond the backend lock.
func (s *Service) CurrentSession(ctx context.Context) (Session, bool, error) {
	var (
		sess  Session
		found bool
	)
	err := s.backend.WithLock(func() error {
		doc, ok, err := s.backend.Store().ReadSlot(ctx, SessionSlot)
		if err != nil {
			return backend.StorageFault(err)
		}
		if !ok {
			return nil
		}
		sess = decodeSession(doc)
		found = true
		return nil
	})
	if err != nil {
		return Session{}, false, err
	}
	return sess, found, nil
}

// openSession persists a fresh session for the given credential record.
// Must be called under the backend lock.
func (s *Service) openSession(ctx context.Context, user row.Row) (Session, error) {
	public := user.Clone()
	delete(public, "password")

	sess := Session{
		Token:     s.tokens.NewID(),
		User:      public,
		ExpiresAt: s.now().UTC().Add(sessionTTL),
	}
	doc := row.Row{
		"token":      row.String(sess.Token),
		"user":       public,
		"expires_at": row.Time(sess.ExpiresAt),
	}
	if err := s.backend.Store().WriteSlot(ctx, SessionSlot, doc); err != nil {
		return Session{}, backend.StorageFault(err)
	}
	return sess, nil
}

func decodeSession(doc row.Row) Session {
	sess := Session{}
	if token, ok := doc["token"].(row.String); ok {
		sess.Token = string(token)
	}
	if user, ok := doc["user"].(row.Row); ok {
		sess.User = user
	}
	if at, ok := doc["expires_at"].(row.Time); ok {
		sess.ExpiresAt = time.Time(at)
	}
	return sess
}
