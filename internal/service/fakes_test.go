package service_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/ecoswap/ecoswap/internal/storage"
)

// Фиктивные in-memory репозитории для тестов сервисного слоя.

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) addUser(user *models.User) *models.User {
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.ID] = user
	return user
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return nil, storage.ErrEmailTaken
		}
	}
	return f.addUser(user), nil
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUserRepo) SetUserActive(ctx context.Context, id int64, active bool) error {
	u, ok := f.users[id]
	if !ok {
		return storage.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func (f *fakeUserRepo) CountUsers(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

type fakeRequestRepo struct {
	requests map[int64]*models.Request
	nextID   int64
}

var _ storage.RequestStorage = (*fakeRequestRepo)(nil)

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: make(map[int64]*models.Request)}
}

func (f *fakeRequestRepo) CreateRequest(ctx context.Context, request *models.Request) (*models.Request, error) {
	f.nextID++
	request.ID = f.nextID
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeRequestRepo) GetRequestsByBuyerID(ctx context.Context, buyerID int64) ([]*models.Request, error) {
	var result []*models.Request
	for _, r := range f.requests {
		if r.BuyerID == buyerID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeRequestRepo) GetRequestsBySellerID(ctx context.Context, sellerID int64) ([]*models.Request, error) {
	var result []*models.Request
	for _, r := range f.requests {
		if r.SellerID == sellerID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeRequestRepo) GetRequestForSeller(ctx context.Context, id, sellerID int64) (*models.Request, error) {
	r, ok := f.requests[id]
	if !ok || r.SellerID != sellerID {
		return nil, storage.ErrRequestNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) GetRequestForBuyer(ctx context.Context, id, buyerID int64) (*models.Request, error) {
	r, ok := f.requests[id]
	if !ok || r.BuyerID != buyerID {
		return nil, storage.ErrRequestNotFound
	}
	return r, nil
}

func (f *fakeRequestRepo) UpdateRequestStatus(ctx context.Context, id int64, status string, approvedPrice, adminCommission, sellerEarnings *float64) error {
	r, ok := f.requests[id]
	if !ok {
		return storage.ErrRequestNotFound
	}
	r.Status = status
	// Nil-поля не перетирают существующие значения, как COALESCE в SQL
	if approvedPrice != nil {
		r.ApprovedPrice = approvedPrice
	}
	if adminCommission != nil {
		r.AdminCommission = adminCommission
	}
	if sellerEarnings != nil {
		r.SellerEarnings = sellerEarnings
	}
	r.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRequestRepo) DeleteRequest(ctx context.Context, id, buyerID int64) error {
	r, ok := f.requests[id]
	if !ok || r.BuyerID != buyerID {
		return storage.ErrRequestNotFound
	}
	delete(f.requests, id)
	return nil
}

func (f *fakeRequestRepo) ListApprovedRequests(ctx context.Context) ([]*models.Request, error) {
	var result []*models.Request
	for _, r := range f.requests {
		if r.Status == models.RequestStatusApproved {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeRequestRepo) SumApprovedEarningsBySeller(ctx context.Context, sellerID int64) (float64, error) {
	var total float64
	for _, r := range f.requests {
		if r.SellerID == sellerID && r.Status == models.RequestStatusApproved && r.SellerEarnings != nil {
			total += *r.SellerEarnings
		}
	}
	return total, nil
}

type fakeProductRepo struct {
	products map[int64]*models.Product
	nextID   int64
}

var _ storage.ProductStorage = (*fakeProductRepo)(nil)

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]*models.Product)}
}

func (f *fakeProductRepo) addProduct(p *models.Product) *models.Product {
	f.nextID++
	p.ID = f.nextID
	f.products[p.ID] = p
	return p
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.IsActive = true
	return f.addProduct(product), nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		return p, nil
	}
	return nil, storage.ErrProductNotFound
}

func (f *fakeProductRepo) ListProducts(ctx context.Context, filter storage.ProductFilter) ([]*models.Product, int64, error) {
	var result []*models.Product
	for _, p := range f.products {
		if p.IsActive && p.Stock > 0 {
			result = append(result, p)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeProductRepo) ListProductsBySeller(ctx context.Context, sellerID int64) ([]*models.Product, error) {
	var result []*models.Product
	for _, p := range f.products {
		if p.SellerID == sellerID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (f *fakeProductRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	p, ok := f.products[product.ID]
	if !ok || p.SellerID != product.SellerID {
		return storage.ErrProductNotFound
	}
	f.products[product.ID] = product
	return nil
}

func (f *fakeProductRepo) DeactivateProduct(ctx context.Context, id, sellerID int64) error {
	p, ok := f.products[id]
	if !ok || p.SellerID != sellerID {
		return storage.ErrProductNotFound
	}
	p.IsActive = false
	return nil
}

func (f *fakeProductRepo) LockProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error) {
	return f.GetProductByID(ctx, id)
}

func (f *fakeProductRepo) UpdateProductStockTx(ctx context.Context, tx *sql.Tx, id int64, newStock int) error {
	p, ok := f.products[id]
	if !ok {
		return storage.ErrProductNotFound
	}
	p.Stock = newStock
	return nil
}

func (f *fakeProductRepo) CountProducts(ctx context.Context) (int64, error) {
	return int64(len(f.products)), nil
}

type fakeOrderRepo struct {
	orders    map[int64]*models.Order
	items     map[int64]*models.OrderItem
	nextOrder int64
	nextItem  int64
}

var _ storage.OrderStorage = (*fakeOrderRepo)(nil)

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[int64]*models.Order),
		items:  make(map[int64]*models.OrderItem),
	}
}

func (f *fakeOrderRepo) addItem(item *models.OrderItem) *models.OrderItem {
	f.nextItem++
	item.ID = f.nextItem
	f.items[item.ID] = item
	return item
}

func (f *fakeOrderRepo) CreateOrderTx(ctx context.Context, tx *sql.Tx, order *models.Order) (int64, error) {
	f.nextOrder++
	order.ID = f.nextOrder
	order.CreatedAt = time.Now()
	f.orders[order.ID] = order
	return order.ID, nil
}

func (f *fakeOrderRepo) CreateOrderItemTx(ctx context.Context, tx *sql.Tx, item *models.OrderItem) error {
	f.addItem(item)
	return nil
}

func (f *fakeOrderRepo) GetOrdersByBuyerID(ctx context.Context, buyerID int64) ([]*models.Order, error) {
	var result []*models.Order
	for _, o := range f.orders {
		if o.BuyerID == buyerID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (f *fakeOrderRepo) GetOrderItemsBySellerID(ctx context.Context, sellerID int64) ([]*models.OrderItem, error) {
	var result []*models.OrderItem
	for _, item := range f.items {
		if item.SellerID == sellerID {
			result = append(result, item)
		}
	}
	return result, nil
}

func (f *fakeOrderRepo) GetOrderItemByID(ctx context.Context, id int64) (*models.OrderItem, error) {
	if item, ok := f.items[id]; ok {
		return item, nil
	}
	return nil, storage.ErrOrderItemNotFound
}

func (f *fakeOrderRepo) UpdateOrderItemStatus(ctx context.Context, id, sellerID int64, status string) error {
	item, ok := f.items[id]
	if !ok || item.SellerID != sellerID {
		return storage.ErrOrderItemNotFound
	}
	item.Status = status
	return nil
}

func (f *fakeOrderRepo) SumDeliveredBySeller(ctx context.Context, sellerID int64) (float64, error) {
	var total float64
	for _, item := range f.items {
		if item.SellerID == sellerID && item.Status == models.OrderItemStatusDelivered {
			total += float64(item.Quantity) * item.Price
		}
	}
	return total, nil
}

func (f *fakeOrderRepo) CountOrders(ctx context.Context) (int64, error) {
	return int64(len(f.orders)), nil
}
