package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/service"
	"github.com/ecoswap/ecoswap/internal/storage"
)

func floatPtr(v float64) *float64 { return &v }

func setupRequestService(t *testing.T) (service.RequestService, *fakeRequestRepo, *fakeUserRepo) {
	t.Helper()
	requestRepo := newFakeRequestRepo()
	userRepo := newFakeUserRepo()
	svc := service.NewRequestService(discardLogger(), requestRepo, userRepo)
	return svc, requestRepo, userRepo
}

func addSeller(repo *fakeUserRepo) *models.User {
	return repo.addUser(&models.User{
		Name:     "Продавец",
		Email:    "seller@example.com",
		UserType: models.UserTypeSeller,
		IsActive: true,
	})
}

func TestCreateRequest_Success(t *testing.T) {
	svc, _, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	request, err := svc.CreateRequest(context.Background(), 42, seller.ID,
		"Винтажное кресло", "ул. Ленина, 1", "Заберу в выходные", floatPtr(150))
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusPending, request.Status)
	require.NotNil(t, request.RequestedPrice)
	assert.Equal(t, 150.0, *request.RequestedPrice)
	// До одобрения никаких расчетов нет
	assert.Nil(t, request.ApprovedPrice)
	assert.Nil(t, request.AdminCommission)
	assert.Nil(t, request.SellerEarnings)
}

func TestCreateRequest_WithoutPrice(t *testing.T) {
	svc, _, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	request, err := svc.CreateRequest(context.Background(), 42, seller.ID,
		"Торшер", "пр. Мира, 5", "", nil)
	require.NoError(t, err)

	assert.Nil(t, request.RequestedPrice)
}

func TestCreateRequest_SellerNotFound(t *testing.T) {
	svc, _, _ := setupRequestService(t)

	_, err := svc.CreateRequest(context.Background(), 42, 999, "Стол", "адрес", "", nil)
	assert.ErrorIs(t, err, service.ErrSellerNotFound)
}

func TestCreateRequest_SellerIsBuyer(t *testing.T) {
	svc, _, userRepo := setupRequestService(t)
	buyer := userRepo.addUser(&models.User{
		Email:    "buyer@example.com",
		UserType: models.UserTypeBuyer,
		IsActive: true,
	})

	_, err := svc.CreateRequest(context.Background(), 42, buyer.ID, "Стол", "адрес", "", nil)
	assert.ErrorIs(t, err, service.ErrSellerNotFound)
}

func TestUpdateRequestStatus_ApproveComputesCommission(t *testing.T) {
	svc, requestRepo, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	created, err := svc.CreateRequest(context.Background(), 42, seller.ID, "Комод", "адрес", "", floatPtr(90))
	require.NoError(t, err)

	updated, err := svc.UpdateRequestStatus(context.Background(), created.ID, seller.ID,
		models.RequestStatusApproved, floatPtr(100))
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusApproved, updated.Status)
	require.NotNil(t, updated.ApprovedPrice)
	require.NotNil(t, updated.AdminCommission)
	require.NotNil(t, updated.SellerEarnings)
	assert.Equal(t, 100.0, *updated.ApprovedPrice)
	assert.Equal(t, 10.0, *updated.AdminCommission)
	assert.Equal(t, 90.0, *updated.SellerEarnings)
	// Комиссия и выплата в сумме дают цену
	assert.InDelta(t, *updated.ApprovedPrice, *updated.AdminCommission+*updated.SellerEarnings, 1e-9)

	stored := requestRepo.requests[created.ID]
	assert.Equal(t, models.RequestStatusApproved, stored.Status)
}

func TestUpdateRequestStatus_ApproveWithoutPrice(t *testing.T) {
	svc, _, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	created, err := svc.CreateRequest(context.Background(), 42, seller.ID, "Комод", "адрес", "", nil)
	require.NoError(t, err)

	updated, err := svc.UpdateRequestStatus(context.Background(), created.ID, seller.ID,
		models.RequestStatusApproved, nil)
	require.NoError(t, err)

	// Без цены одобрение меняет только статус
	assert.Equal(t, models.RequestStatusApproved, updated.Status)
	assert.Nil(t, updated.ApprovedPrice)
	assert.Nil(t, updated.AdminCommission)
	assert.Nil(t, updated.SellerEarnings)
}

func TestUpdateRequestStatus_Decline(t *testing.T) {
	svc, _, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	created, err := svc.CreateRequest(context.Background(), 42, seller.ID, "Комод", "адрес", "", floatPtr(50))
	require.NoError(t, err)

	updated, err := svc.UpdateRequestStatus(context.Background(), created.ID, seller.ID,
		models.RequestStatusDeclined, floatPtr(50))
	require.NoError(t, err)

	// При отклонении pending-заявки цена игнорируется
	assert.Equal(t, models.RequestStatusDeclined, updated.Status)
	assert.Nil(t, updated.ApprovedPrice)
	assert.Nil(t, updated.AdminCommission)
	assert.Nil(t, updated.SellerEarnings)
}

func TestUpdateRequestStatus_ReapproveRecomputes(t *testing.T) {
	svc, _, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	created, err := svc.CreateRequest(context.Background(), 42, seller.ID, "Комод", "адрес", "", nil)
	require.NoError(t, err)

	_, err = svc.UpdateRequestStatus(context.Background(), created.ID, seller.ID,
		models.RequestStatusApproved, floatPtr(100))
	require.NoError(t, err)

	// Коррекция цены уже одобренной заявки пересчитывает комиссию
	updated, err := svc.UpdateRequestStatus(context.Background(), created.ID, seller.ID,
		models.RequestStatusApproved, floatPtr(200))
	require.NoError(t, err)

	assert.Equal(t, 200.0, *updated.ApprovedPrice)
	assert.Equal(t, 20.0, *updated.AdminCommission)
	assert.Equal(t, 180.0, *updated.SellerEarnings)
}

func TestUpdateRequestStatus_DeclineApprovedWithPriceRecomputes(t *testing.T) {
	svc, _, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	created, err := svc.CreateRequest(context.Background(), 42, seller.ID, "Комод", "адрес", "", nil)
	require.NoError(t, err)

	_, err = svc.UpdateRequestStatus(context.Background(), created.ID, seller.ID,
		models.RequestStatusApproved, floatPtr(100))
	require.NoError(t, err)

	// Заявка уже approved: новая цена пересчитывает комиссию независимо от нового статуса
	updated, err := svc.UpdateRequestStatus(context.Background(), created.ID, seller.ID,
		models.RequestStatusDeclined, floatPtr(300))
	require.NoError(t, err)

	assert.Equal(t, models.RequestStatusDeclined, updated.Status)
	assert.Equal(t, 300.0, *updated.ApprovedPrice)
	assert.Equal(t, 30.0, *updated.AdminCommission)
	assert.Equal(t, 270.0, *updated.SellerEarnings)
}

func TestUpdateRequestStatus_InvalidStatus(t *testing.T) {
	svc, _, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	created, err := svc.CreateRequest(context.Background(), 42, seller.ID, "Комод", "адрес", "", nil)
	require.NoError(t, err)

	_, err = svc.UpdateRequestStatus(context.Background(), created.ID, seller.ID, "pending", nil)
	assert.ErrorIs(t, err, service.ErrInvalidRequestStatus)
}

func TestUpdateRequestStatus_NotOwnedBySeller(t *testing.T) {
	svc, _, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	created, err := svc.CreateRequest(context.Background(), 42, seller.ID, "Комод", "адрес", "", nil)
	require.NoError(t, err)

	// Чужой продавец не видит заявку
	_, err = svc.UpdateRequestStatus(context.Background(), created.ID, seller.ID+1,
		models.RequestStatusApproved, floatPtr(100))
	assert.ErrorIs(t, err, storage.ErrRequestNotFound)
}

func TestDeleteRequest_Pending(t *testing.T) {
	svc, requestRepo, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	created, err := svc.CreateRequest(context.Background(), 42, seller.ID, "Комод", "адрес", "", nil)
	require.NoError(t, err)

	err = svc.DeleteRequest(context.Background(), created.ID, 42)
	require.NoError(t, err)
	assert.Empty(t, requestRepo.requests)
}

func TestDeleteRequest_ApprovedRejected(t *testing.T) {
	svc, requestRepo, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	created, err := svc.CreateRequest(context.Background(), 42, seller.ID, "Комод", "адрес", "", nil)
	require.NoError(t, err)

	_, err = svc.UpdateRequestStatus(context.Background(), created.ID, seller.ID,
		models.RequestStatusApproved, floatPtr(100))
	require.NoError(t, err)

	err = svc.DeleteRequest(context.Background(), created.ID, 42)
	assert.ErrorIs(t, err, service.ErrRequestNotPending)
	assert.Len(t, requestRepo.requests, 1)
}

func TestDeleteRequest_NotOwner(t *testing.T) {
	svc, _, userRepo := setupRequestService(t)
	seller := addSeller(userRepo)

	created, err := svc.CreateRequest(context.Background(), 42, seller.ID, "Комод", "адрес", "", nil)
	require.NoError(t, err)

	err = svc.DeleteRequest(context.Background(), created.ID, 43)
	assert.ErrorIs(t, err, storage.ErrRequestNotFound)
}
