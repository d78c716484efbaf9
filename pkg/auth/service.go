package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/bluebird/pkg/audit"
	"github.com/dmitrymomot/bluebird/pkg/logger"
	"github.com/dmitrymomot/bluebird/pkg/session"
	"github.com/dmitrymomot/bluebird/pkg/user"
)

// PasswordHasher hashes and checks passwords. *password.Hasher implements it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) (bool, error)
}

// Auditor records account events. *audit.Logger implements it.
type Auditor interface {
	Log(ctx context.Context, action string, opts ...audit.EventOption) error
	LogError(ctx context.Context, action string, err error, opts ...audit.EventOption) error
}

// Service registers users and runs the login handshake: it verifies
// credentials, then creates and saves a session holding the user id.
type Service struct {
	users  user.Repository
	hasher PasswordHasher
	store  session.Store
	cfg    session.Config
	logger *slog.Logger
	audit  Auditor
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAuditor records register, login and logout outcomes.
func WithAuditor(a Auditor) Option {
	return func(s *Service) {
		s.audit = a
	}
}

// NewService wires the handshake to its collaborators. cfg supplies the
// user id key, cookie length and session TTL.
func NewService(users user.Repository, hasher PasswordHasher, store session.Store, cfg session.Config, opts ...Option) *Service {
	s := &Service{
		users:  users,
		hasher: hasher,
		store:  store,
		cfg:    cfg,
		logger: logger.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user with a hashed password.
func (s *Service) Register(ctx context.Context, username, password string) (*user.User, error) {
	u, err := s.register(ctx, username, password)
	if err != nil {
		s.record(ctx, audit.ActionRegister, err, audit.WithMetadata("username", username))
		return nil, err
	}
	s.record(ctx, audit.ActionRegister, nil, audit.WithUserID(u.ID))
	return u, nil
}

func (s *Service) register(ctx context.Context, username, password string) (*user.User, error) {
	name, err := user.NormalizeUsername(username)
	if err != nil || password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, errors.Join(ErrInvalidInput, err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Username:     name,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered", logger.UserID(u.ID))
	return u, nil
}

// Authenticate checks credentials without touching sessions.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*user.User, error) {
	name, err := user.NormalizeUsername(username)
	if err != nil || password == "" {
		return nil, ErrInvalidInput
	}

	u, err := s.users.GetByUsername(ctx, name)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrWrongPassword
	}
	return u, nil
}

// Login authenticates the caller and returns the cookie for a new session
// bound to the user. No session is created when authentication fails.
func (s *Service) Login(ctx context.Context, username, password string) (string, *user.User, error) {
	cookie, u, err := s.login(ctx, username, password)
	if err != nil {
		s.record(ctx, audit.ActionLogin, err, audit.WithMetadata("username", username))
		return "", nil, err
	}
	s.record(ctx, audit.ActionLogin, nil, audit.WithUserID(u.ID))
	return cookie, u, nil
}

func (s *Service) login(ctx context.Context, username, password string) (string, *user.User, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}

	sess := session.NewWithConfig(s.cfg)
	if err := sess.Insert(s.cfg.UserIDKey, u.ID); err != nil {
		return "", nil, errors.Join(ErrSessionFailure, err)
	}

	cookie, err := s.store.Save(ctx, sess)
	if err != nil {
		return "", nil, errors.Join(ErrSessionFailure, err)
	}
	if cookie == "" {
		return "", nil, fmt.Errorf("%w: store returned no cookie for a new session", ErrSessionFailure)
	}

	s.logger.InfoContext(ctx, "user logged in", logger.UserID(u.ID), logger.SessionID(sess.ID()))
	return cookie, u, nil
}

// Logout deletes the session addressed by cookie. Cookies that cannot
// address a session are ignored.
func (s *Service) Logout(ctx context.Context, cookie string) error {
	if cookie == "" {
		return nil
	}
	uid, _ := session.UserIDFromContext(ctx)
	err := session.Destroy(ctx, s.store, cookie)
	if errors.Is(err, session.ErrDecode) {
		return nil
	}
	if err != nil {
		err = errors.Join(ErrSessionFailure, err)
		s.record(ctx, audit.ActionLogout, err, audit.WithUserID(uid))
		return err
	}
	s.record(ctx, audit.ActionLogout, nil, audit.WithUserID(uid))
	return nil
}

// record writes an audit event. Caller mistakes are failures, anything
// else is an error. Audit problems never fail the operation.
func (s *Service) record(ctx context.Context, action string, err error, opts ...audit.EventOption) {
	if s.audit == nil {
		return
	}

	var auditErr error
	switch {
	case err == nil:
		auditErr = s.audit.Log(ctx, action, opts...)
	case isRejection(err):
		opts = append(opts, audit.WithResult(audit.ResultFailure), audit.WithMetadata("reason", err.Error()))
		auditErr = s.audit.Log(ctx, action, opts...)
	default:
		auditErr = s.audit.LogError(ctx, action, err, opts...)
	}
	if auditErr != nil {
		s.logger.WarnContext(ctx, "audit event dropped", slog.String("action", action), logger.Error(auditErr))
	}
}

func isRejection(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrWrongPassword)
}
