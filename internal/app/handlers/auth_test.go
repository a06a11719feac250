package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecoswap/ecoswap/internal/app/handlers"
	"github.com/ecoswap/ecoswap/internal/service"
	"github.com/ecoswap/ecoswap/internal/storage"
)

type fakeAuthService struct {
	token string
	err   error

	gotEmail    string
	gotUserType string
}

var _ service.AuthServiceInterface = (*fakeAuthService)(nil)

func (f *fakeAuthService) Register(ctx context.Context, name, email, password, userType string) (string, error) {
	f.gotEmail, f.gotUserType = email, userType
	return f.token, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, error) {
	f.gotEmail = email
	return f.token, f.err
}

func TestRegisterHandler_Success(t *testing.T) {
	svc := &fakeAuthService{token: "jwt-token"}
	handler := handlers.RegisterHandler(discardLogger(), svc)

	body := `{"name":"Иван","email":"ivan@example.com","password":"password123","userType":"buyer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	success, data, _ := decodeEnvelope(t, rec)
	assert.True(t, success)
	assert.Contains(t, string(data), "jwt-token")
	assert.Equal(t, "ivan@example.com", svc.gotEmail)
	assert.Equal(t, "buyer", svc.gotUserType)
}

func TestRegisterHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad email", `{"name":"Иван","email":"not-email","password":"password123","userType":"buyer"}`},
		{"short password", `{"name":"Иван","email":"ivan@example.com","password":"short","userType":"buyer"}`},
		{"admin type", `{"name":"Иван","email":"ivan@example.com","password":"password123","userType":"admin"}`},
		{"empty body", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.RegisterHandler(discardLogger(), &fakeAuthService{})
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			success, _, _ := decodeEnvelope(t, rec)
			assert.False(t, success)
		})
	}
}

func TestRegisterHandler_EmailTaken(t *testing.T) {
	svc := &fakeAuthService{err: fmt.Errorf("op: %w", storage.ErrEmailTaken)}
	handler := handlers.RegisterHandler(discardLogger(), svc)

	body := `{"name":"Иван","email":"ivan@example.com","password":"password123","userType":"buyer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	success, _, msg := decodeEnvelope(t, rec)
	assert.False(t, success)
	assert.Equal(t, "email already registered", msg)
}

func TestLoginHandler_Success(t *testing.T) {
	svc := &fakeAuthService{token: "jwt-token"}
	handler := handlers.LoginHandler(discardLogger(), svc)

	body := `{"email":"ivan@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	success, data, _ := decodeEnvelope(t, rec)
	assert.True(t, success)
	assert.Contains(t, string(data), "jwt-token")
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	svc := &fakeAuthService{err: fmt.Errorf("op: %w", service.ErrInvalidCredentials)}
	handler := handlers.LoginHandler(discardLogger(), svc)

	body := `{"email":"ivan@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	success, _, msg := decodeEnvelope(t, rec)
	assert.False(t, success)
	assert.Equal(t, "invalid credentials", msg)
}

func TestLoginHandler_DeactivatedAccount(t *testing.T) {
	svc := &fakeAuthService{err: fmt.Errorf("op: %w", service.ErrUserInactive)}
	handler := handlers.LoginHandler(discardLogger(), svc)

	body := `{"email":"ivan@example.com","password":"password123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
