package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/service"
)

func TestGetDashboard(t *testing.T) {
	orderRepo := newFakeOrderRepo()
	requestRepo := newFakeRequestRepo()
	svc := service.NewSellerService(discardLogger(), orderRepo, requestRepo)

	const sellerID = int64(10)

	// Доставленные позиции: 2*50 + 1*30 = 130; отправленная не считается
	orderRepo.addItem(&models.OrderItem{OrderID: 1, ProductID: 1, SellerID: sellerID,
		Quantity: 2, Price: 50, Status: models.OrderItemStatusDelivered})
	orderRepo.addItem(&models.OrderItem{OrderID: 1, ProductID: 2, SellerID: sellerID,
		Quantity: 1, Price: 30, Status: models.OrderItemStatusDelivered})
	orderRepo.addItem(&models.OrderItem{OrderID: 2, ProductID: 3, SellerID: sellerID,
		Quantity: 5, Price: 100, Status: models.OrderItemStatusShipped})
	// Чужой продавец
	orderRepo.addItem(&models.OrderItem{OrderID: 3, ProductID: 4, SellerID: 99,
		Quantity: 1, Price: 500, Status: models.OrderItemStatusDelivered})

	// Одобренные заявки: 90 из цены 100
	addApproved(requestRepo, sellerID, 100, time.Now())
	addApproved(requestRepo, 99, 1000, time.Now())

	dashboard, err := svc.GetDashboard(context.Background(), sellerID)
	require.NoError(t, err)

	assert.InDelta(t, 130.0, dashboard.OrderRevenue, 1e-9)
	assert.InDelta(t, 90.0, dashboard.RequestEarnings, 1e-9)
	assert.InDelta(t, 220.0, dashboard.TotalEarnings, 1e-9)
}

func TestGetDashboard_Empty(t *testing.T) {
	svc := service.NewSellerService(discardLogger(), newFakeOrderRepo(), newFakeRequestRepo())

	dashboard, err := svc.GetDashboard(context.Background(), 10)
	require.NoError(t, err)

	assert.Zero(t, dashboard.OrderRevenue)
	assert.Zero(t, dashboard.RequestEarnings)
	assert.Zero(t, dashboard.TotalEarnings)
}
