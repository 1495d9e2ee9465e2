package service

import (
	"context"
	"errors"
	"time"

	"github.com/mikrodash/mikrodash/internal/auth"
	"github.com/mikrodash/mikrodash/internal/domain"
	"github.com/mikrodash/mikrodash/internal/store"
)

var (
	// ErrValidation covers missing or empty input; reported before any
	// store access.
	ErrValidation = errors.New("all fields are required")

	// ErrEmailTaken maps the store's uniqueness conflict on registration.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidCredentials is returned for both an unknown email and a
	// wrong password, so login never confirms account existence.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserNotFound means the verified token references a user that no
	// longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailNotFound is the recovery flow's lookup failure. It is
	// distinguishable from other outcomes, matching the reference behavior.
	ErrEmailNotFound = errors.New("could not find a user with that email")

	// ErrWrongAnswer is returned when the security answer does not match.
	ErrWrongAnswer = errors.New("failed to reset password, check your answer")

	// ErrTimeout marks a store call that hit its deadline; callers may retry.
	ErrTimeout = errors.New("request timed out")
)

// AuthService implements the registration, login, current-session, and
// password-recovery workflows. It classifies store and hashing failures
// into sentinel errors; nothing upstream inspects raw store errors.
type AuthService struct {
	users          domain.UserStore
	tenants        domain.TenantStore
	hasher         *auth.PasswordHasher
	tokens         *auth.TokenService
	sessionTimeout time.Duration

	// dummyHash is verified against when a login email is unknown, so the
	// unknown-email and wrong-password paths cost the same.
	dummyHash string
}

func NewAuthService(users domain.UserStore, tenants domain.TenantStore, hasher *auth.PasswordHasher, tokens *auth.TokenService, sessionTimeout time.Duration) *AuthService {
	dummyHash, _ := hasher.Hash("mikrodash-login-placeholder")
	return &AuthService{
		users:          users,
		tenants:        tenants,
		hasher:         hasher,
		tokens:         tokens,
		sessionTimeout: sessionTimeout,
		dummyHash:      dummyHash,
	}
}

type RegisterInput struct {
	Name             string
	Email            string
	Password         string
	TenantName       string
	SecurityQuestion string
	SecurityAnswer   string
}

// AuthResult is the outcome of a successful registration or login. The
// user projection never carries password or answer hashes (json:"-").
type AuthResult struct {
	Token  string
	User   *domain.User
	Tenant *domain.Tenant
}

// Register atomically creates a tenant and its first user, then issues a
// session token for the pair. A duplicate email leaves no partial tenant
// behind; the store transaction guarantees that.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" ||
		in.TenantName == "" || in.SecurityQuestion == "" || in.SecurityAnswer == "" {
		return nil, ErrValidation
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	answerHash, err := s.hasher.Hash(auth.NormalizeAnswer(in.SecurityAnswer))
	if err != nil {
		return nil, err
	}

	tenant := &domain.Tenant{Name: in.TenantName}
	user := &domain.User{
		Name:               in.Name,
		Email:              in.Email,
		PasswordHash:       passwordHash,
		SecurityQuestion:   in.SecurityQuestion,
		SecurityAnswerHash: answerHash,
	}

	if err := s.users.CreateTenantAndUser(ctx, tenant, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, classifyTimeout(err)
	}

	token, err := s.tokens.Issue(user.ID, tenant.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user, Tenant: tenant}, nil
}

// Login verifies the credentials and issues a fresh token. Unknown email
// and wrong password produce the identical ErrInvalidCredentials; the
// unknown-email path still runs a hash comparison to keep timing flat.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(s.dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, classifyTimeout(err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	tenant, err := s.tenants.GetByID(ctx, user.TenantID)
	if err != nil {
		return nil, classifyTimeout(err)
	}

	token, err := s.tokens.Issue(user.ID, tenant.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Token: token, User: user, Tenant: tenant}, nil
}

// CurrentSession resolves a verified identity back to its user and tenant
// records. The lookups share one short deadline; the frontend discards its
// token on any failure here, so hanging is worse than failing.
func (s *AuthService) CurrentSession(ctx context.Context, id domain.Identity) (*domain.User, *domain.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, s.sessionTimeout)
	defer cancel()

	user, err := s.users.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, classifyTimeout(err)
	}

	tenant, err := s.tenants.GetByID(ctx, user.TenantID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, classifyTimeout(err)
	}

	return user, tenant, nil
}

// SecurityQuestion is the first recovery step: it reveals only the stored
// question text, never the answer or its hash.
func (s *AuthService) SecurityQuestion(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", ErrValidation
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrEmailNotFound
		}
		return "", classifyTimeout(err)
	}

	return user.SecurityQuestion, nil
}

// ResetPassword is the second recovery step. Each request carries all
// inputs; no recovery state is held server-side between the two steps. On
// a wrong answer the stored password is untouched and the client may retry.
func (s *AuthService) ResetPassword(ctx context.Context, email, answer, newPassword string) error {
	if email == "" || answer == "" || newPassword == "" {
		return ErrValidation
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmailNotFound
		}
		return classifyTimeout(err)
	}

	if !s.hasher.Verify(user.SecurityAnswerHash, auth.NormalizeAnswer(answer)) {
		return ErrWrongAnswer
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, passwordHash); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmailNotFound
		}
		return classifyTimeout(err)
	}

	return nil
}

func classifyTimeout(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	return err
}
