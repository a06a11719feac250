package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecoswap/ecoswap/internal/domain/models"
)

var ErrRequestNotFound = errors.New("request not found")

// RequestStorage описывает методы для работы с заявками покупателей.
type RequestStorage interface {
	CreateRequest(ctx context.Context, request *models.Request) (*models.Request, error)
	GetRequestsByBuyerID(ctx context.Context, buyerID int64) ([]*models.Request, error)
	GetRequestsBySellerID(ctx context.Context, sellerID int64) ([]*models.Request, error)
	// GetRequestForSeller возвращает заявку, только если она адресована этому продавцу.
	GetRequestForSeller(ctx context.Context, id, sellerID int64) (*models.Request, error)
	// GetRequestForBuyer возвращает заявку, только если она создана этим покупателем.
	GetRequestForBuyer(ctx context.Context, id, buyerID int64) (*models.Request, error)
	// UpdateRequestStatus меняет статус и, если переданы, ценовые поля.
	// Nil-поля остаются нетронутыми. updated_at обновляется всегда.
	UpdateRequestStatus(ctx context.Context, id int64, status string, approvedPrice, adminCommission, sellerEarnings *float64) error
	DeleteRequest(ctx context.Context, id, buyerID int64) error
	// ListApprovedRequests возвращает все одобренные заявки для сводного отчета по комиссии.
	ListApprovedRequests(ctx context.Context) ([]*models.Request, error)
	SumApprovedEarningsBySeller(ctx context.Context, sellerID int64) (float64, error)
}

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) RequestStorage {
	return &requestRepository{db: db}
}

const requestColumns = "id, buyer_id, seller_id, item_name, message, pickup_address, requested_price, approved_price, admin_commission, seller_earnings, status, created_at, updated_at"

func scanRequest(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Request, error) {
	req := &models.Request{}
	var requestedPrice, approvedPrice, adminCommission, sellerEarnings sql.NullFloat64
	err := scanner.Scan(&req.ID, &req.BuyerID, &req.SellerID, &req.ItemName, &req.Message, &req.PickupAddress,
		&requestedPrice, &approvedPrice, &adminCommission, &sellerEarnings, &req.Status, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return nil, err
	}
	req.RequestedPrice = nullToPtr(requestedPrice)
	req.ApprovedPrice = nullToPtr(approvedPrice)
	req.AdminCommission = nullToPtr(adminCommission)
	req.SellerEarnings = nullToPtr(sellerEarnings)
	return req, nil
}

func nullToPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func (r *requestRepository) CreateRequest(ctx context.Context, request *models.Request) (*models.Request, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO requests (buyer_id, seller_id, item_name, message, pickup_address, requested_price, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		request.BuyerID, request.SellerID, request.ItemName, request.Message,
		request.PickupAddress, request.RequestedPrice, request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return request, nil
}

func (r *requestRepository) GetRequestsByBuyerID(ctx context.Context, buyerID int64) ([]*models.Request, error) {
	return r.listRequests(ctx, "buyer_id", buyerID)
}

func (r *requestRepository) GetRequestsBySellerID(ctx context.Context, sellerID int64) ([]*models.Request, error) {
	return r.listRequests(ctx, "seller_id", sellerID)
}

func (r *requestRepository) listRequests(ctx context.Context, ownerColumn string, ownerID int64) ([]*models.Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE %s = $1 ORDER BY created_at DESC`, requestColumns, ownerColumn)
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) GetRequestForSeller(ctx context.Context, id, sellerID int64) (*models.Request, error) {
	return r.getRequestOwned(ctx, id, "seller_id", sellerID)
}

func (r *requestRepository) GetRequestForBuyer(ctx context.Context, id, buyerID int64) (*models.Request, error) {
	return r.getRequestOwned(ctx, id, "buyer_id", buyerID)
}

func (r *requestRepository) getRequestOwned(ctx context.Context, id int64, ownerColumn string, ownerID int64) (*models.Request, error) {
	query := fmt.Sprintf("SELECT %s FROM requests WHERE id = $1 AND %s = $2", requestColumns, ownerColumn)
	req, err := scanRequest(r.db.QueryRowContext(ctx, query, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *requestRepository) UpdateRequestStatus(ctx context.Context, id int64, status string, approvedPrice, adminCommission, sellerEarnings *float64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE requests
		 SET status = $1,
		     approved_price = COALESCE($2, approved_price),
		     admin_commission = COALESCE($3, admin_commission),
		     seller_earnings = COALESCE($4, seller_earnings),
		     updated_at = NOW()
		 WHERE id = $5`,
		status, approvedPrice, adminCommission, sellerEarnings, id,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *requestRepository) DeleteRequest(ctx context.Context, id, buyerID int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM requests WHERE id = $1 AND buyer_id = $2", id, buyerID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrRequestNotFound
	}
	return nil
}

func (r *requestRepository) ListApprovedRequests(ctx context.Context) ([]*models.Request, error) {
	query := fmt.Sprintf("SELECT %s FROM requests WHERE status = $1 ORDER BY updated_at DESC", requestColumns)
	rows, err := r.db.QueryContext(ctx, query, models.RequestStatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*models.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *requestRepository) SumApprovedEarningsBySeller(ctx context.Context, sellerID int64) (float64, error) {
	var total float64
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(seller_earnings), 0) FROM requests WHERE seller_id = $1 AND status = $2",
		sellerID, models.RequestStatusApproved,
	).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
