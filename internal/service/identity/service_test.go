package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"storefront/internal/domain"
	sessionrepo "storefront/internal/repository/session"
)

// memoryUsers is a lightweight in-memory user repository for tests.
type memoryUsers struct {
	byEmail map[string]domain.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byEmail: make(map[string]domain.User)}
}

func (r *memoryUsers) Create(_ context.Context, u domain.User) (*domain.User, error) {
	email := strings.ToLower(u.Email)
	if _, exists := r.byEmail[email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	clone := u
	clone.Email = email
	clone.ID = fmt.Sprintf("user-%d", len(r.byEmail)+1)
	r.byEmail[email] = clone
	return &clone, nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := r.byEmail[strings.ToLower(email)]; ok {
		return &u, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memoryUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.byEmail {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

type memorySessions struct {
	users    *memoryUsers
	sessions map[string]domain.Session
	seq      int
}

func newMemorySessions(users *memoryUsers) *memorySessions {
	return &memorySessions{users: users, sessions: make(map[string]domain.Session)}
}

func (r *memorySessions) Create(ctx context.Context, in sessionrepo.CreateInput) (*domain.Session, error) {
	u, err := r.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	r.seq++
	s := domain.Session{
		ID:        fmt.Sprintf("sess-%d", r.seq),
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		ExpiresAt: in.ExpiresAt,
	}
	r.sessions[s.ID] = s
	return &s, nil
}

func (r *memorySessions) Get(_ context.Context, id string) (*domain.Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *memorySessions) Delete(_ context.Context, id string) error {
	if _, ok := r.sessions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *memorySessions) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for id, s := range r.sessions {
		if !now.Before(s.ExpiresAt) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

func newService() (*Service, *memoryUsers, *memorySessions) {
	users := newMemoryUsers()
	sessions := newMemorySessions(users)
	return New(users, sessions, []byte("test-secret"), time.Hour, nil), users, sessions
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, users, _ := newService()
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, SignUpInput{
		Email:           " Ada@Example.com ",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Name:            "Ada",
	})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	u, err := users.GetByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u.Role != domain.RoleCustomer || u.PasswordHash == "secret1" {
		t.Fatalf("unexpected user %+v", u)
	}

	sess, token, err := svc.SignIn(ctx, "Ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if token == "" || sess.Email != "ada@example.com" {
		t.Fatalf("unexpected session %+v token %q", sess, token)
	}

	got, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != sess.ID {
		t.Fatalf("expected session %s, got %s", sess.ID, got.ID)
	}

	profile, err := svc.Profile(ctx, token)
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if profile.Name != "Ada" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestSignUp_OpensSession(t *testing.T) {
	svc, _, sessions := newService()
	ctx := context.Background()

	sess, token, err := svc.SignUp(ctx, SignUpInput{Email: "new@example.com", Password: "secret1", Name: "New"})
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if token == "" || sess.Email != "new@example.com" || sess.Role != domain.RoleCustomer {
		t.Fatalf("unexpected session %+v token %q", sess, token)
	}
	if _, ok := sessions.sessions[sess.ID]; !ok {
		t.Fatalf("session %s not stored", sess.ID)
	}

	got, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != sess.ID || got.UserID != sess.UserID {
		t.Fatalf("expected session %+v, got %+v", sess, got)
	}
}

func TestSignUp_Validation(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	cases := []struct {
		name  string
		in    SignUpInput
		field string
	}{
		{"missing name", SignUpInput{Email: "a@b.co", Password: "secret1"}, ""},
		{"missing email", SignUpInput{Password: "secret1", Name: "A"}, ""},
		{"bad email", SignUpInput{Email: "not-an-email", Password: "secret1", Name: "A"}, "email"},
		{"mismatch", SignUpInput{Email: "a@b.co", Password: "secret1", ConfirmPassword: "secret2", Name: "A"}, "confirmPassword"},
		{"short password", SignUpInput{Email: "a@b.co", Password: "abc", Name: "A"}, "password"},
	}
	for _, tc := range cases {
		_, _, err := svc.SignUp(ctx, tc.in)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("%s: expected ValidationError, got %v", tc.name, err)
		}
		if verr.Field != tc.field {
			t.Fatalf("%s: expected field %q, got %q", tc.name, tc.field, verr.Field)
		}
	}
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	in := SignUpInput{Email: "a@b.co", Password: "secret1", Name: "A"}

	if _, _, err := svc.SignUp(ctx, in); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	in.Email = "A@B.CO"
	if _, _, err := svc.SignUp(ctx, in); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	if _, _, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.co", Password: "secret1", Name: "A"}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}

	if _, _, err := svc.SignIn(ctx, "a@b.co", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.SignIn(ctx, "missing@b.co", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for missing user, got %v", err)
	}
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	svc, users, sessions := newService()
	ctx := context.Background()
	if _, _, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.co", Password: "secret1", Name: "A"}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	_, token, err := svc.SignIn(ctx, "a@b.co", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty token: %v", err)
	}
	if _, err := svc.Authenticate(ctx, token+"x"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("tampered token: %v", err)
	}

	other := New(users, sessions, []byte("other-secret"), time.Hour, nil)
	if _, err := other.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign secret: %v", err)
	}
}

func TestAuthenticate_ExpiredSessionIsDeleted(t *testing.T) {
	svc, _, sessions := newService()
	ctx := context.Background()
	if _, _, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.co", Password: "secret1", Name: "A"}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	sess, token, err := svc.SignIn(ctx, "a@b.co", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	var hooked []string
	svc.OnLogout(func(_ context.Context, id string) error {
		hooked = append(hooked, id)
		return nil
	})
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if _, ok := sessions.sessions[sess.ID]; ok {
		t.Fatalf("expired session should be deleted")
	}
	if len(hooked) != 1 || hooked[0] != sess.ID {
		t.Fatalf("expected hook for expired session, got %v", hooked)
	}
}

func TestLogout_EndsSessionAndRunsHooks(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()
	if _, _, err := svc.SignUp(ctx, SignUpInput{Email: "a@b.co", Password: "secret1", Name: "A"}); err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	sess, token, err := svc.SignIn(ctx, "a@b.co", "secret1")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	var dropped []string
	svc.OnLogout(func(_ context.Context, id string) error {
		dropped = append(dropped, id)
		return errors.New("hook failures are only logged")
	})

	if err := svc.Logout(ctx, sess); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(dropped) != 1 || dropped[0] != sess.ID {
		t.Fatalf("expected hook for %s, got %v", sess.ID, dropped)
	}
	if _, err := svc.Authenticate(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("token must be dead after logout, got %v", err)
	}
	// logging out twice is harmless
	if err := svc.Logout(ctx, sess); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	svc, users, _ := newService()
	ctx := context.Background()

	if err := svc.EnsureAdmin(ctx, "admin@freshmart.com", "Admin@123"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	if err := svc.EnsureAdmin(ctx, "admin@freshmart.com", "other"); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	admin := users.byEmail["admin@freshmart.com"]
	if admin.Role != domain.RoleAdmin || admin.Name != "Admin" {
		t.Fatalf("unexpected admin %+v", admin)
	}
	if _, _, err := svc.SignIn(ctx, "admin@freshmart.com", "Admin@123"); err != nil {
		t.Fatalf("admin sign in: %v", err)
	}
}
