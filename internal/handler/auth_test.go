package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/cafe-fusion/api/internal/database"
	"github.com/cafe-fusion/api/internal/enum"
	"github.com/cafe-fusion/api/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type mockAuthStore struct {
	createUserFn     func(ctx context.Context, arg database.CreateUserParams) (database.User, error)
	getUserByEmailFn func(ctx context.Context, email string) (database.User, error)
}

func (m *mockAuthStore) CreateUser(ctx context.Context, arg database.CreateUserParams) (database.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(ctx, arg)
	}
	return database.User{ID: 1, Email: arg.Email, PasswordHash: arg.PasswordHash, Role: arg.Role}, nil
}

func (m *mockAuthStore) GetUserByEmail(ctx context.Context, email string) (database.User, error) {
	if m.getUserByEmailFn != nil {
		return m.getUserByEmailFn(ctx, email)
	}
	return database.User{}, pgx.ErrNoRows
}

func newAuthRouter(store *mockAuthStore) chi.Router {
	h := handler.NewAuthHandler(store, "test-secret", "open-sesame")
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func TestRegisterHandler(t *testing.T) {
	store := &mockAuthStore{}
	r := newAuthRouter(store)

	rec := doJSON(t, r, http.MethodPost, "/auth/register", map[string]string{
		"email":    "Asha@Example.com",
		"password": "supersecret",
	}, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		User        struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected an access token")
	}
	if resp.User.Email != "asha@example.com" {
		t.Errorf("expected normalized email, got %s", resp.User.Email)
	}
	if resp.User.Role != enum.UserRoleCustomer {
		t.Errorf("expected customer role, got %s", resp.User.Role)
	}
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	r := newAuthRouter(&mockAuthStore{})

	rec := doJSON(t, r, http.MethodPost, "/auth/register", map[string]string{
		"email":    "a@b.test",
		"password": "short",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRegisterStaffHandler_SetupCode(t *testing.T) {
	r := newAuthRouter(&mockAuthStore{})

	// Wrong code is rejected
	rec := doJSON(t, r, http.MethodPost, "/auth/register-staff", map[string]string{
		"email":      "staff@cafe.test",
		"password":   "supersecret",
		"setup_code": "wrong",
	}, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong setup code, got %d", rec.Code)
	}

	// Correct code creates a staff account
	rec = doJSON(t, r, http.MethodPost, "/auth/register-staff", map[string]string{
		"email":      "staff@cafe.test",
		"password":   "supersecret",
		"setup_code": "open-sesame",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		User struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.User.Role != enum.UserRoleStaff {
		t.Errorf("expected staff role, got %s", resp.User.Role)
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("supersecret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	store := &mockAuthStore{
		getUserByEmailFn: func(ctx context.Context, email string) (database.User, error) {
			if email == "asha@example.com" {
				return database.User{ID: 7, Email: email, PasswordHash: string(hash), Role: enum.UserRoleCustomer}, nil
			}
			return database.User{}, pgx.ErrNoRows
		},
	}
	r := newAuthRouter(store)

	rec := doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
		"email":    "asha@example.com",
		"password": "supersecret",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Wrong password
	rec = doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
		"email":    "asha@example.com",
		"password": "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}

	// Unknown user
	rec = doJSON(t, r, http.MethodPost, "/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "supersecret",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}
}
