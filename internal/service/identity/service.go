package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/logging"
	sessionrepo "storefront/internal/repository/session"
	userrepo "storefront/internal/repository/user"
)

var (
	// ErrInvalidCredentials is returned when email/password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.New("invalid token")
	ErrEmailTaken   = errors.New("email already registered")
)

// ValidationError reports a rejected sign-up field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// LogoutHook runs after a session has been deleted.
type LogoutHook func(ctx context.Context, sessionID string) error

// Service signs users up and in, and resolves session tokens.
type Service struct {
	users       userrepo.Repository
	sessions    sessionrepo.Repository
	tokens      *tokenManager
	validate    *validator.Validate
	sessionTTL  time.Duration
	passwordMin int
	hooks       []LogoutHook
	logger      *zap.Logger
	now         func() time.Time
}

func New(users userrepo.Repository, sessions sessionrepo.Repository, secret []byte, sessionTTL time.Duration, logger *zap.Logger) *Service {
	logger = logging.OrNop(logger)
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Service{
		users:       users,
		sessions:    sessions,
		tokens:      newTokenManager(secret),
		validate:    validator.New(),
		sessionTTL:  sessionTTL,
		passwordMin: 6,
		logger:      logger,
		now:         time.Now,
	}
}

// OnLogout registers fn to run for every logged out session.
func (s *Service) OnLogout(fn LogoutHook) {
	s.hooks = append(s.hooks, fn)
}

// SignUpInput captures the fields of the sign-up form.
type SignUpInput struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Name            string `json:"name"`
}

// SignUp registers a customer and signs them straight in.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*domain.Session, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.Name)
	if email == "" || in.Password == "" || name == "" {
		return nil, "", &ValidationError{Message: "Email, password, and name are required"}
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, "", &ValidationError{Field: "email", Message: "Please enter a valid email address"}
	}
	if in.ConfirmPassword != "" && in.ConfirmPassword != in.Password {
		return nil, "", &ValidationError{Field: "confirmPassword", Message: "Passwords do not match"}
	}
	if len(in.Password) < s.passwordMin {
		return nil, "", &ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	}
	u, err := s.create(ctx, email, name, in.Password, domain.RoleCustomer)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("signed up", zap.String("user_id", u.ID))
	return s.openSession(ctx, u)
}

// SignIn checks credentials and opens a new session.
func (s *Service) SignIn(ctx context.Context, email, password string) (*domain.Session, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	return s.openSession(ctx, u)
}

func (s *Service) openSession(ctx context.Context, u *domain.User) (*domain.Session, string, error) {
	now := s.now()
	if n, err := s.sessions.DeleteExpired(ctx, now); err != nil {
		s.logger.Warn("purge expired sessions", zap.Error(err))
	} else if n > 0 {
		s.logger.Debug("purged expired sessions", zap.Int64("count", n))
	}

	sess, err := s.sessions.Create(ctx, sessionrepo.CreateInput{
		UserID:    u.ID,
		ExpiresAt: now.Add(s.sessionTTL),
	})
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(sess.ID, u.ID, now, sess.ExpiresAt)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("signed in", zap.String("user_id", u.ID), zap.String("session_id", sess.ID))
	return sess, token, nil
}

// Authenticate resolves a bearer token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrInvalidToken
	}
	claims, expired, err := s.tokens.Parse(token)
	if expired {
		s.expire(ctx, claims.ID)
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, ErrInvalidToken
	}

	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if sess.UserID != claims.Subject {
		return nil, ErrInvalidToken
	}
	if !s.now().Before(sess.ExpiresAt) {
		s.expire(ctx, sess.ID)
		return nil, ErrInvalidToken
	}
	return sess, nil
}

// Profile returns the account behind token.
func (s *Service) Profile(ctx context.Context, token string) (*domain.User, error) {
	sess, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, sess.UserID)
}

// Logout ends the session. Its cart goes with it and logout hooks drop any
// other per-session state.
func (s *Service) Logout(ctx context.Context, sess *domain.Session) error {
	if err := s.sessions.Delete(ctx, sess.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	s.runHooks(ctx, sess.ID)
	s.logger.Info("signed out", zap.String("user_id", sess.UserID), zap.String("session_id", sess.ID))
	return nil
}

// EnsureAdmin creates the admin account unless the email is already taken.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		s.logger.Info("admin user already exists", zap.String("email", email))
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	if _, err := s.create(ctx, email, "Admin", password, domain.RoleAdmin); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil
		}
		return err
	}
	s.logger.Info("admin user created", zap.String("email", email))
	return nil
}

// SessionTTLSeconds exposes the session lifetime in seconds.
func (s *Service) SessionTTLSeconds() int {
	return int(s.sessionTTL.Seconds())
}

func (s *Service) create(ctx context.Context, email, name, password, role string) (*domain.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, domain.User{
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hashed),
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		return nil, ErrEmailTaken
	}
	return u, err
}

func (s *Service) expire(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("delete expired session", zap.String("session_id", sessionID), zap.Error(err))
		}
		return
	}
	s.runHooks(ctx, sessionID)
}

func (s *Service) runHooks(ctx context.Context, sessionID string) {
	for _, hook := range s.hooks {
		if err := hook(ctx, sessionID); err != nil {
			s.logger.Warn("logout hook failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}
}
