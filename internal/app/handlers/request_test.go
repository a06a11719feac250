package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoswap/ecoswap/internal/app/handlers"
	"github.com/ecoswap/ecoswap/internal/auth/authmiddleware"
	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/service"
	"github.com/ecoswap/ecoswap/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// withUser кладет пользователя в контекст запроса, как это делает auth middleware.
func withUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), authmiddleware.UserKey, user)
	return r.WithContext(ctx)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (bool, json.RawMessage, string) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Message string          `json:"message"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	return env.Success, env.Data, env.Message
}

// fakeRequestService реализует service.RequestService для тестов хендлеров.
type fakeRequestService struct {
	created   *models.Request
	updated   *models.Request
	err       error
	deleteErr error

	gotBuyerID   int64
	gotSellerID  int64
	gotStatus    string
	gotPrice     *float64
	gotRequestID int64
}

var _ service.RequestService = (*fakeRequestService)(nil)

func (f *fakeRequestService) CreateRequest(ctx context.Context, buyerID, sellerID int64, itemName, pickupAddress, message string, requestedPrice *float64) (*models.Request, error) {
	f.gotBuyerID, f.gotSellerID, f.gotPrice = buyerID, sellerID, requestedPrice
	return f.created, f.err
}

func (f *fakeRequestService) ListBuyerRequests(ctx context.Context, buyerID int64) ([]*models.Request, error) {
	f.gotBuyerID = buyerID
	return []*models.Request{}, f.err
}

func (f *fakeRequestService) ListSellerRequests(ctx context.Context, sellerID int64) ([]*models.Request, error) {
	f.gotSellerID = sellerID
	return []*models.Request{}, f.err
}

func (f *fakeRequestService) UpdateRequestStatus(ctx context.Context, requestID, sellerID int64, newStatus string, approvedPrice *float64) (*models.Request, error) {
	f.gotRequestID, f.gotSellerID, f.gotStatus, f.gotPrice = requestID, sellerID, newStatus, approvedPrice
	return f.updated, f.err
}

func (f *fakeRequestService) DeleteRequest(ctx context.Context, requestID, buyerID int64) error {
	f.gotRequestID, f.gotBuyerID = requestID, buyerID
	return f.deleteErr
}

func TestCreateRequestHandler_Success(t *testing.T) {
	svc := &fakeRequestService{created: &models.Request{
		ID: 1, BuyerID: 42, SellerID: 10, ItemName: "Винтажное кресло",
		Status: models.RequestStatusPending,
	}}
	handler := handlers.CreateRequestHandler(discardLogger(), svc)

	body := `{"itemName":"Винтажное кресло","sellerId":10,"pickupAddress":"ул. Ленина, 1","requestedPrice":150}`
	req := httptest.NewRequest(http.MethodPost, "/api/requests/create", bytes.NewBufferString(body))
	req = withUser(req, &models.User{ID: 42, UserType: models.UserTypeBuyer})
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	success, data, _ := decodeEnvelope(t, rec)
	assert.True(t, success)
	assert.NotEmpty(t, data)

	assert.Equal(t, int64(42), svc.gotBuyerID)
	assert.Equal(t, int64(10), svc.gotSellerID)
	require.NotNil(t, svc.gotPrice)
	assert.Equal(t, 150.0, *svc.gotPrice)
}

func TestCreateRequestHandler_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing seller", `{"itemName":"Кресло","pickupAddress":"ул. Ленина, 1"}`},
		{"negative price", `{"itemName":"Кресло","sellerId":10,"pickupAddress":"ул. Ленина, 1","requestedPrice":-5}`},
		{"short address", `{"itemName":"Кресло","sellerId":10,"pickupAddress":"ул"}`},
		{"not json", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.CreateRequestHandler(discardLogger(), &fakeRequestService{})
			req := httptest.NewRequest(http.MethodPost, "/api/requests/create", bytes.NewBufferString(tt.body))
			req = withUser(req, &models.User{ID: 42, UserType: models.UserTypeBuyer})
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			success, _, msg := decodeEnvelope(t, rec)
			assert.False(t, success)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestCreateRequestHandler_NoUser(t *testing.T) {
	handler := handlers.CreateRequestHandler(discardLogger(), &fakeRequestService{})
	req := httptest.NewRequest(http.MethodPost, "/api/requests/create", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// requestStatusRouter монтирует хендлер с URL-параметром, как в приложении.
func requestStatusRouter(svc service.RequestService) http.Handler {
	r := chi.NewRouter()
	r.Put("/api/requests/{id}/status", handlers.RequestStatusHandler(discardLogger(), svc))
	r.Delete("/api/requests/{id}", handlers.DeleteRequestHandler(discardLogger(), svc))
	return r
}

func TestRequestStatusHandler_Approve(t *testing.T) {
	price, commission, earnings := 100.0, 10.0, 90.0
	svc := &fakeRequestService{updated: &models.Request{
		ID: 7, SellerID: 10, Status: models.RequestStatusApproved,
		ApprovedPrice: &price, AdminCommission: &commission, SellerEarnings: &earnings,
	}}
	router := requestStatusRouter(svc)

	body := `{"status":"approved","approvedPrice":100}`
	req := httptest.NewRequest(http.MethodPut, "/api/requests/7/status", bytes.NewBufferString(body))
	req = withUser(req, &models.User{ID: 10, UserType: models.UserTypeSeller})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	success, data, _ := decodeEnvelope(t, rec)
	assert.True(t, success)
	assert.Contains(t, string(data), `"admin_commission":10`)

	assert.Equal(t, int64(7), svc.gotRequestID)
	assert.Equal(t, int64(10), svc.gotSellerID)
	assert.Equal(t, models.RequestStatusApproved, svc.gotStatus)
	require.NotNil(t, svc.gotPrice)
	assert.Equal(t, 100.0, *svc.gotPrice)
}

func TestRequestStatusHandler_InvalidStatus(t *testing.T) {
	router := requestStatusRouter(&fakeRequestService{})

	body := `{"status":"pending"}`
	req := httptest.NewRequest(http.MethodPut, "/api/requests/7/status", bytes.NewBufferString(body))
	req = withUser(req, &models.User{ID: 10, UserType: models.UserTypeSeller})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestStatusHandler_NotFound(t *testing.T) {
	svc := &fakeRequestService{err: fmt.Errorf("op: %w", storage.ErrRequestNotFound)}
	router := requestStatusRouter(svc)

	body := `{"status":"declined"}`
	req := httptest.NewRequest(http.MethodPut, "/api/requests/7/status", bytes.NewBufferString(body))
	req = withUser(req, &models.User{ID: 11, UserType: models.UserTypeSeller})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	success, _, msg := decodeEnvelope(t, rec)
	assert.False(t, success)
	assert.Equal(t, "request not found", msg)
}

func TestDeleteRequestHandler_Success(t *testing.T) {
	svc := &fakeRequestService{}
	router := requestStatusRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/requests/7", nil)
	req = withUser(req, &models.User{ID: 42, UserType: models.UserTypeBuyer})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotRequestID)
	assert.Equal(t, int64(42), svc.gotBuyerID)
}

func TestDeleteRequestHandler_NotPending(t *testing.T) {
	svc := &fakeRequestService{deleteErr: fmt.Errorf("op: %w", service.ErrRequestNotPending)}
	router := requestStatusRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/api/requests/7", nil)
	req = withUser(req, &models.User{ID: 42, UserType: models.UserTypeBuyer})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	success, _, msg := decodeEnvelope(t, rec)
	assert.False(t, success)
	assert.Equal(t, "only pending requests can be deleted", msg)
}

func TestDeleteRequestHandler_BadID(t *testing.T) {
	router := requestStatusRouter(&fakeRequestService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/requests/abc", nil)
	req = withUser(req, &models.User{ID: 42, UserType: models.UserTypeBuyer})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
