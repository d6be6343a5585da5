// Package services contains application services for the account client.
// This file defines the session controller: it owns the current view, the
// signed-in user and the loading flag, and drives sign-in, registration and
// sign-out against the account service and the local user store.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophaccount/internal/client/client"
	"github.com/dmitrijs2005/gophaccount/internal/client/models"
	"github.com/dmitrijs2005/gophaccount/internal/common"
	"github.com/dmitrijs2005/gophaccount/internal/logging"
)

var (
	ErrPasswordTooShort  = errors.New("password too short")
	ErrEmptyAvatar       = errors.New("avatar image is empty")
	ErrBusy              = errors.New("another request is in progress")
	ErrClosed            = errors.New("session closed")
	ErrNotAuthenticated  = errors.New("not signed in")
	ErrInvalidTransition = errors.New("invalid view transition")
)

// StateListener receives a snapshot after every state change. It is called
// outside the controller lock and may call State.
type StateListener func(models.SessionState)

// Option configures a SessionService.
type Option func(*SessionService)

// WithSessionTTL makes Restore ignore records saved longer than d ago.
// Zero disables the check.
func WithSessionTTL(d time.Duration) Option {
	return func(s *SessionService) { s.ttl = d }
}

// WithStateListener subscribes fn to state changes.
func WithStateListener(fn StateListener) Option {
	return func(s *SessionService) { s.listener = fn }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *SessionService) { s.now = now }
}

// SessionService is the session controller.
//
// At most one network request (Login, Register, UploadAvatar) is pending at
// a time; a second one fails with ErrBusy without touching the network.
// Close cancels a pending request and any result arriving afterwards is
// dropped without changing state or notifying.
type SessionService struct {
	client   client.Client
	store    UserStore
	notifier Notifier
	logger   logging.Logger

	ttl      time.Duration
	now      func() time.Time
	listener StateListener

	mu     sync.Mutex
	state  models.SessionState
	closed bool

	inFlight atomic.Bool
	lifetime context.Context
	cancel   context.CancelFunc
}

// NewSessionService creates a controller showing the login view with no user.
// Call Restore to pick up a stored session.
func NewSessionService(c client.Client, store UserStore, n Notifier, l logging.Logger, opts ...Option) *SessionService {
	if n == nil {
		n = nopNotifier{}
	}
	if l == nil {
		l = logging.NewNopLogger()
	}
	s := &SessionService{
		client:   c,
		store:    store,
		notifier: n,
		logger:   l.With("component", "session"),
		now:      time.Now,
		state:    models.SessionState{View: models.ViewLogin},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lifetime, s.cancel = context.WithCancel(context.Background())
	return s
}

// State returns a snapshot of the current session state.
func (s *SessionService) State() models.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *SessionService) snapshotLocked() models.SessionState {
	st := s.state
	st.User = st.User.Clone()
	return st
}

// update applies fn under the lock and notifies the listener. It reports
// false, leaving state untouched, once the controller is closed.
func (s *SessionService) update(fn func(st *models.SessionState)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	fn(&s.state)
	snap := s.snapshotLocked()
	listener := s.listener
	s.mu.Unlock()

	if listener != nil {
		listener(snap)
	}
	return true
}

func (s *SessionService) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// begin claims the in-flight slot, raises Loading and returns a request
// context that also ends when the controller is closed. done must be called
// exactly once. With signedOut set, the request is refused while a user is
// signed in.
func (s *SessionService) begin(ctx context.Context, signedOut bool) (reqCtx context.Context, done func(), err error) {
	if s.isClosed() {
		return nil, nil, ErrClosed
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, nil, ErrBusy
	}
	if signedOut && s.State().LoggedIn() {
		s.inFlight.Store(false)
		return nil, nil, fmt.Errorf("%w: signed in", ErrInvalidTransition)
	}
	if !s.update(func(st *models.SessionState) { st.Loading = true }) {
		s.inFlight.Store(false)
		return nil, nil, ErrClosed
	}

	reqCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.lifetime, cancel)

	return reqCtx, func() {
		stop()
		cancel()
		s.update(func(st *models.SessionState) { st.Loading = false })
		s.inFlight.Store(false)
	}, nil
}

// fail reports a failed request to the user unless the controller has been
// closed in the meantime.
func (s *SessionService) fail(ctx context.Context, op string, err error, fallback string) error {
	if s.isClosed() {
		s.logger.Debug(ctx, "result dropped after close", "op", op, "error", err)
		return ErrClosed
	}
	s.logger.Warn(ctx, op+" failed", "error", err)
	s.notifier.Notify(ctx, failure(failureMessage(err, fallback)))
	return err
}

func failureMessage(err error, fallback string) string {
	if msg, ok := client.ServerMessage(err); ok {
		return msg
	}
	if errors.Is(err, client.ErrRejected) {
		return fallback
	}
	return MsgConnection
}

// Restore picks up a stored user. No request is made: a stored record is
// trusted as is unless a session TTL is configured and it has expired.
func (s *SessionService) Restore(ctx context.Context) error {
	u, savedAt, err := s.store.Get(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrMalformedUser) {
			s.logger.Error(ctx, "reading stored user failed", "error", err)
			return fmt.Errorf("restore session: %w", err)
		}
		s.logger.Warn(ctx, "discarding malformed stored user", "error", err)
		s.forget(ctx)
		u = nil
	}

	if u != nil && s.expired(savedAt) {
		s.logger.Info(ctx, "stored session expired", "saved_at", savedAt)
		s.forget(ctx)
		u = nil
	}

	if !s.update(func(st *models.SessionState) {
		st.User = u
		if u != nil {
			st.View = models.ViewHome
		} else {
			st.View = models.ViewLogin
		}
	}) {
		return ErrClosed
	}

	if u != nil {
		s.logger.Info(ctx, "session restored", "user_id", u.ID)
	}
	return nil
}

func (s *SessionService) expired(savedAt time.Time) bool {
	if s.ttl <= 0 {
		return false
	}
	if savedAt.IsZero() {
		return true
	}
	return s.now().Sub(savedAt) > s.ttl
}

func (s *SessionService) forget(ctx context.Context) {
	if err := s.store.Remove(ctx); err != nil {
		s.logger.Error(ctx, "removing stored user failed", "error", err)
	}
}

// Register creates an account. On success the form is cleared and the login
// view is shown; the new account is not signed in. It is refused with
// ErrInvalidTransition while a user is signed in.
func (s *SessionService) Register(ctx context.Context, form *models.RegisterForm) error {
	if s.State().LoggedIn() {
		return fmt.Errorf("%w: register while signed in", ErrInvalidTransition)
	}
	if utf8.RuneCountInString(form.Password) < common.MinPasswordLength {
		s.notifier.Notify(ctx, failure(MsgPasswordTooShort))
		return ErrPasswordTooShort
	}

	reqCtx, done, err := s.begin(ctx, true)
	if err != nil {
		return err
	}
	defer done()

	if err := s.client.Register(reqCtx, form.Email, form.Password, form.FullName); err != nil {
		return s.fail(ctx, "register", err, MsgRegisterFailed)
	}

	if !s.update(func(st *models.SessionState) { st.View = models.ViewLogin }) {
		return ErrClosed
	}
	s.logger.Info(ctx, "registered", "email", form.Email)
	form.Reset()
	s.notifier.Notify(ctx, success(MsgRegistered))
	return nil
}

// Login signs in and persists the returned user record. Signing in over an
// existing session is refused with ErrInvalidTransition; log out first.
func (s *SessionService) Login(ctx context.Context, form *models.LoginForm) error {
	reqCtx, done, err := s.begin(ctx, true)
	if err != nil {
		return err
	}
	defer done()

	u, err := s.client.Login(reqCtx, form.Email, form.Password)
	if err != nil {
		return s.fail(ctx, "login", err, MsgLoginFailed)
	}

	if !s.update(func(st *models.SessionState) {
		st.User = u.Clone()
		st.View = models.ViewHome
	}) {
		return ErrClosed
	}
	form.Reset()

	// The in-memory session stands even if it cannot be saved.
	if err := s.store.Set(ctx, u, s.now()); err != nil {
		s.logger.Error(ctx, "saving user failed", "error", err, "user_id", u.ID)
	}

	s.logger.Info(ctx, "signed in", "user_id", u.ID)
	s.notifier.Notify(ctx, success(MsgWelcome))
	return nil
}

// Logout clears the user locally. The in-memory session is cleared even when
// the store fails; the store error is returned.
func (s *SessionService) Logout(ctx context.Context) error {
	if !s.update(func(st *models.SessionState) {
		st.User = nil
		st.View = models.ViewLogin
	}) {
		return ErrClosed
	}

	err := s.store.Remove(ctx)
	if err != nil {
		s.logger.Error(ctx, "removing stored user failed", "error", err)
	}
	s.notifier.Notify(ctx, success(MsgSignedOut))
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Navigate switches views. home and profile need a signed-in user, login and
// register need none.
func (s *SessionService) Navigate(ctx context.Context, target models.View) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown view %q", ErrInvalidTransition, target)
	}

	var err error
	if !s.update(func(st *models.SessionState) {
		switch {
		case target.RequiresUser() && st.User == nil:
			err = ErrNotAuthenticated
		case !target.RequiresUser() && st.User != nil:
			err = fmt.Errorf("%w: %s while signed in", ErrInvalidTransition, target)
		default:
			st.View = target
		}
	}) {
		return ErrClosed
	}
	if err != nil {
		s.logger.Debug(ctx, "navigation refused", "target", target, "error", err)
	}
	return err
}

// UploadAvatar replaces the signed-in user's avatar and stores the updated
// record returned by the service.
func (s *SessionService) UploadAvatar(ctx context.Context, image []byte) error {
	cur := s.State().User
	if cur == nil {
		return ErrNotAuthenticated
	}
	if len(image) == 0 {
		s.notifier.Notify(ctx, failure(MsgAvatarEmpty))
		return ErrEmptyAvatar
	}

	reqCtx, done, err := s.begin(ctx, false)
	if err != nil {
		return err
	}
	defer done()

	u, err := s.client.UploadAvatar(reqCtx, cur.ID, image)
	if err != nil {
		return s.fail(ctx, "avatar upload", err, MsgAvatarFailed)
	}

	same := true
	if !s.update(func(st *models.SessionState) {
		if st.User == nil || st.User.ID != cur.ID {
			same = false
			return
		}
		st.User = u.Clone()
	}) {
		return ErrClosed
	}
	if !same {
		s.logger.Warn(ctx, "avatar result dropped, user changed", "user_id", cur.ID)
		return ErrNotAuthenticated
	}

	if err := s.store.Set(ctx, u, s.now()); err != nil {
		s.logger.Error(ctx, "saving user failed", "error", err, "user_id", u.ID)
	}
	s.notifier.Notify(ctx, success(MsgAvatarUpdated))
	return nil
}

// Ping proxies a liveness check to the underlying client.
func (s *SessionService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx)
}

// Close ends the controller lifetime: a pending request is cancelled and
// later results are dropped. Further calls return ErrClosed.
func (s *SessionService) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	s.logger.Debug(ctx, "session closed")
	return s.client.Close()
}
