package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/auth"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/models"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/utils"
)

// MockTokenValidator implements the TokenValidator interface for testing
type MockTokenValidator struct {
	ValidateFunc func(string, string) (*auth.Claims, error)
}

func (m *MockTokenValidator) ValidateToken(tokenString, expectedType string) (*auth.Claims, error) {
	return m.ValidateFunc(tokenString, expectedType)
}

// MockUserLookup implements the UserLookup interface for testing
type MockUserLookup struct {
	GetByIDFunc func(ctx context.Context, id int64) (*models.User, error)
}

func (m *MockUserLookup) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}

func acceptToken(expected string) *MockTokenValidator {
	return &MockTokenValidator{
		ValidateFunc: func(token, tokenType string) (*auth.Claims, error) {
			if token != expected || tokenType != "access" {
				return nil, utils.NewInvalidTokenError()
			}
			return &auth.Claims{UserID: 7, TokenType: "access"}, nil
		},
	}
}

func storedUser(role models.Role) *MockUserLookup {
	return &MockUserLookup{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return &models.User{ID: id, Name: "Jane", Email: "jane@example.com", Role: role}, nil
		},
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body utils.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Error == nil {
		t.Fatalf("expected an error body, got %s", rec.Body.String())
	}
	return body.Error.Code
}

func TestAuthenticator_Authenticate(t *testing.T) {
	a := auth.NewAuthenticator(acceptToken("good"), storedUser(models.RoleAdmin))

	tests := []struct {
		name      string
		setup     func(r *http.Request)
		wantErr   bool
		wantEmail string
	}{
		{
			name:      "bearer header",
			setup:     func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") },
			wantEmail: "jane@example.com",
		},
		{
			name:      "cookie fallback",
			setup:     func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "access_token", Value: "good"}) },
			wantEmail: "jane@example.com",
		},
		{
			name:    "no credentials",
			setup:   func(r *http.Request) {},
			wantErr: true,
		},
		{
			name:    "basic scheme",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Basic Z29vZA==") },
			wantErr: true,
		},
		{
			name:    "empty bearer",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") },
			wantErr: true,
		},
		{
			name:    "invalid token",
			setup:   func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			tt.setup(r)

			principal, err := a.Authenticate(r)

			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected an error")
				}
				if utils.StatusCode(err) != http.StatusUnauthorized {
					t.Errorf("Expected 401, got %d", utils.StatusCode(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if principal.Email != tt.wantEmail {
				t.Errorf("Expected email %s, got %s", tt.wantEmail, principal.Email)
			}
			if principal.Role != models.RoleAdmin {
				t.Errorf("Expected role from the store, got %s", principal.Role)
			}
		})
	}
}

func TestAuthenticator_DeletedUser(t *testing.T) {
	users := &MockUserLookup{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
			return nil, utils.NewNotFoundError("User", id)
		},
	}
	a := auth.NewAuthenticator(acceptToken("good"), users)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer good")

	_, err := a.Authenticate(r)

	if !errors.Is(err, utils.ErrInvalidToken) {
		t.Errorf("Expected invalid token for a missing user, got %v", err)
	}
}

func TestRequireAuth(t *testing.T) {
	var seen *auth.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.GetPrincipal(r)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("authenticated request reaches the handler", func(t *testing.T) {
		seen = nil
		handler := auth.NewAuthenticator(acceptToken("good"), storedUser(models.RoleUser)).RequireAuth()(next)

		r := httptest.NewRequest(http.MethodGet, "/cart", nil)
		r.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rec.Code)
		}
		if seen == nil || seen.ID != 7 || seen.Role != models.RoleUser {
			t.Errorf("Expected principal for user 7, got %+v", seen)
		}
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		seen = nil
		handler := auth.NewAuthenticator(acceptToken("good"), storedUser(models.RoleUser)).RequireAuth()(next)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "unauthorized" {
			t.Errorf("Expected unauthorized code, got %s", code)
		}
		if seen != nil {
			t.Error("Handler must not run")
		}
	})

	t.Run("expired token reports token_expired", func(t *testing.T) {
		validator := &MockTokenValidator{
			ValidateFunc: func(string, string) (*auth.Claims, error) {
				return nil, utils.NewExpiredTokenError()
			},
		}
		handler := auth.NewAuthenticator(validator, storedUser(models.RoleUser)).RequireAuth()(next)

		r := httptest.NewRequest(http.MethodGet, "/cart", nil)
		r.Header.Set("Authorization", "Bearer old")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rec.Code)
		}
		if code := errorCode(t, rec); code != "token_expired" {
			t.Errorf("Expected token_expired code, got %s", code)
		}
	})

	t.Run("store failure is a server error", func(t *testing.T) {
		users := &MockUserLookup{
			GetByIDFunc: func(ctx context.Context, id int64) (*models.User, error) {
				return nil, errors.New("connection refused")
			},
		}
		handler := auth.NewAuthenticator(acceptToken("good"), users).RequireAuth()(next)

		r := httptest.NewRequest(http.MethodGet, "/cart", nil)
		r.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d", rec.Code)
		}
	})
}

func TestPrincipalContext(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	if auth.IsAuthenticated(r) {
		t.Error("Expected a bare request to be unauthenticated")
	}
	if id, ok := auth.GetUserID(r); ok || id != 0 {
		t.Errorf("Expected no user ID, got %d", id)
	}

	r = r.WithContext(auth.WithPrincipal(r.Context(), &auth.Principal{ID: 123, Role: models.RoleUser}))

	id, ok := auth.GetUserID(r)
	if !ok || id != 123 {
		t.Errorf("Expected user ID 123, got %d (ok=%v)", id, ok)
	}
	if !auth.IsAuthenticated(r) {
		t.Error("Expected request to be authenticated")
	}

	r = r.WithContext(auth.WithPrincipal(r.Context(), nil))
	if auth.IsAuthenticated(r) {
		t.Error("Expected a nil principal to count as unauthenticated")
	}
}
