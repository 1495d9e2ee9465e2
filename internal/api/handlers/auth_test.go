package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/mikrodash/mikrodash/internal/api/middleware"
	"github.com/mikrodash/mikrodash/internal/auth"
	"github.com/mikrodash/mikrodash/internal/domain"
	"github.com/mikrodash/mikrodash/internal/service"
	"github.com/mikrodash/mikrodash/internal/store"
)

// fakeCredentialStore backs the auth endpoints with in-memory maps,
// keeping the store-level uniqueness and not-found semantics.
type fakeCredentialStore struct {
	tenants map[uuid.UUID]*domain.Tenant
	users   map[uuid.UUID]*domain.User
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{
		tenants: make(map[uuid.UUID]*domain.Tenant),
		users:   make(map[uuid.UUID]*domain.User),
	}
}

func (f *fakeCredentialStore) CreateTenantAndUser(ctx context.Context, t *domain.Tenant, u *domain.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return store.ErrConflict
		}
	}
	t.ID = uuid.New()
	u.ID = uuid.New()
	u.TenantID = t.ID
	f.tenants[t.ID] = t
	f.users[u.ID] = u
	return nil
}

func (f *fakeCredentialStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeCredentialStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeCredentialStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeTenantStore struct{ f *fakeCredentialStore }

func (s fakeTenantStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	t, ok := s.f.tenants[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return t, nil
}

// newAuthTestServer wires the auth routes the same way the real router does.
func newAuthTestServer(t *testing.T) (*chi.Mux, *fakeCredentialStore) {
	t.Helper()

	f := newFakeCredentialStore()
	hasher := auth.NewPasswordHasher(4)
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	svc := service.NewAuthService(f, fakeTenantStore{f}, hasher, tokens, time.Second)
	h := NewAuthHandler(svc)

	r := chi.NewRouter()
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/security-question", h.SecurityQuestion)
		r.Post("/reset-password", h.ResetPassword)
		r.With(mw.BearerAuth(tokens)).Get("/me", h.Me)
	})
	return r, f
}

func postJSON(t *testing.T, r http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func registerAnn(t *testing.T, r http.Handler) map[string]any {
	t.Helper()
	rec := postJSON(t, r, "/api/auth/register", map[string]string{
		"name":             "Ann",
		"email":            "ann@x.com",
		"password":         "p1",
		"tenantName":       "Acme",
		"securityQuestion": "pet?",
		"securityAnswer":   "Rex",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRegisterEndpoint(t *testing.T) {
	r, f := newAuthTestServer(t)

	resp := registerAnn(t, r)

	assert.NotEmpty(t, resp["token"])
	user := resp["user"].(map[string]any)
	tenant := resp["tenant"].(map[string]any)
	assert.Equal(t, "Ann", user["name"])
	assert.Equal(t, "ann@x.com", user["email"])
	assert.Equal(t, "Acme", tenant["name"])
	assert.Equal(t, tenant["id"], user["tenantId"])

	// Hashes must never be echoed in any projection.
	_, hasHash := user["passwordHash"]
	assert.False(t, hasHash)
	for _, u := range f.users {
		assert.NotContains(t, []string{u.PasswordHash, u.SecurityAnswerHash}, "p1")
	}
}

func TestRegisterEndpoint_MissingField(t *testing.T) {
	r, f := newAuthTestServer(t)

	rec := postJSON(t, r, "/api/auth/register", map[string]string{
		"name":  "Ann",
		"email": "ann@x.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.tenants)
	assert.Empty(t, f.users)
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	r, f := newAuthTestServer(t)
	registerAnn(t, r)

	rec := postJSON(t, r, "/api/auth/register", map[string]string{
		"name":             "Ann Again",
		"email":            "ann@x.com",
		"password":         "p9",
		"tenantName":       "Other",
		"securityQuestion": "pet?",
		"securityAnswer":   "Rex",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, f.tenants, 1)
	assert.Len(t, f.users, 1)
}

func TestLoginEndpoint(t *testing.T) {
	r, _ := newAuthTestServer(t)
	reg := registerAnn(t, r)

	rec := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "ann@x.com",
		"password": "p1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["token"])
	// A fresh login issues a distinct token with the same claims.
	assert.NotEqual(t, reg["token"], resp["token"])
	assert.Equal(t, reg["user"].(map[string]any)["id"], resp["user"].(map[string]any)["id"])
}

func TestLoginEndpoint_GenericMessage(t *testing.T) {
	r, _ := newAuthTestServer(t)
	registerAnn(t, r)

	wrongPassword := postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "ann@x.com", "password": "nope",
	})
	unknownEmail := postJSON(t, r, "/api/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "p1",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	// Identical body for both failure causes.
	assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestMeEndpoint(t *testing.T) {
	r, _ := newAuthTestServer(t)
	reg := registerAnn(t, r)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+reg["token"].(string))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ann@x.com", resp["user"].(map[string]any)["email"])
	assert.Equal(t, "Acme", resp["tenant"].(map[string]any)["name"])
}

func TestMeEndpoint_Unauthenticated(t *testing.T) {
	r, _ := newAuthTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSecurityQuestionEndpoint(t *testing.T) {
	r, _ := newAuthTestServer(t)
	registerAnn(t, r)

	rec := postJSON(t, r, "/api/auth/security-question", map[string]string{"email": "ann@x.com"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pet?", resp["question"])
	// The response carries only the question text.
	assert.NotContains(t, strings.ToLower(rec.Body.String()), "rex")
	assert.NotContains(t, rec.Body.String(), "$2") // no bcrypt digest

	unknown := postJSON(t, r, "/api/auth/security-question", map[string]string{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, unknown.Code)
}

// TestPasswordRecoveryFlow walks the full reference scenario: register,
// login, fetch the question, reset with a case-insensitive answer, and
// confirm only the new password authenticates afterwards.
func TestPasswordRecoveryFlow(t *testing.T) {
	r, _ := newAuthTestServer(t)
	registerAnn(t, r)

	question := postJSON(t, r, "/api/auth/security-question", map[string]string{"email": "ann@x.com"})
	require.Equal(t, http.StatusOK, question.Code)

	reset := postJSON(t, r, "/api/auth/reset-password", map[string]string{
		"email":          "ann@x.com",
		"securityAnswer": "rex",
		"newPassword":    "p2",
	})
	require.Equal(t, http.StatusOK, reset.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(reset.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["message"])

	oldLogin := postJSON(t, r, "/api/auth/login", map[string]string{"email": "ann@x.com", "password": "p1"})
	assert.Equal(t, http.StatusUnauthorized, oldLogin.Code)

	newLogin := postJSON(t, r, "/api/auth/login", map[string]string{"email": "ann@x.com", "password": "p2"})
	assert.Equal(t, http.StatusOK, newLogin.Code)
}

func TestResetPasswordEndpoint_WrongAnswer(t *testing.T) {
	r, _ := newAuthTestServer(t)
	registerAnn(t, r)

	rec := postJSON(t, r, "/api/auth/reset-password", map[string]string{
		"email":          "ann@x.com",
		"securityAnswer": "fido",
		"newPassword":    "p2",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Old password still authenticates.
	login := postJSON(t, r, "/api/auth/login", map[string]string{"email": "ann@x.com", "password": "p1"})
	assert.Equal(t, http.StatusOK, login.Code)
}
