package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ecoswap/ecoswap/internal/domain/models"
	"github.com/lib/pq"
)

var ErrProductNotFound = errors.New("product not found")

// ProductFilter - параметры выборки каталога: фильтр по категории,
// поиск по названию и пагинация через limit/offset.
type ProductFilter struct {
	CategoryID int64
	Search     string
	Limit      int
	Offset     int
}

// ProductStorage описывает методы для работы с объявлениями.
type ProductStorage interface {
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error)
	ListProductsBySeller(ctx context.Context, sellerID int64) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeactivateProduct(ctx context.Context, id, sellerID int64) error
	LockProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error)
	UpdateProductStockTx(ctx context.Context, tx *sql.Tx, id int64, newStock int) error
	CountProducts(ctx context.Context) (int64, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const productColumns = "p.id, p.seller_id, p.category_id, c.name, p.name, p.description, p.price, p.condition, p.image_url, p.stock, p.is_active, p.created_at, p.updated_at"

func scanProduct(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Product, error) {
	p := &models.Product{}
	err := scanner.Scan(&p.ID, &p.SellerID, &p.CategoryID, &p.CategoryName, &p.Name, &p.Description,
		&p.Price, &p.Condition, &p.ImageURL, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (seller_id, category_id, name, description, price, condition, image_url, stock, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
		 RETURNING id, created_at, updated_at`,
		product.SellerID, product.CategoryID, product.Name, product.Description,
		product.Price, product.Condition, product.ImageURL, product.Stock,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" { // foreign_key_violation
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	product.IsActive = true
	return product, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE p.id = $1`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListProducts возвращает страницу активных товаров с остатком на складе
// и общее количество строк под фильтром (для вычисления страниц).
func (r *productRepository) ListProducts(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error) {
	where := "WHERE p.is_active = TRUE AND p.stock > 0"
	args := []interface{}{}
	argn := 1

	if filter.CategoryID != 0 {
		where += fmt.Sprintf(" AND p.category_id = $%d", argn)
		args = append(args, filter.CategoryID)
		argn++
	}
	if filter.Search != "" {
		where += fmt.Sprintf(" AND p.name ILIKE $%d", argn)
		args = append(args, "%"+filter.Search+"%")
		argn++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM products p " + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON p.category_id = c.id ` + where +
		fmt.Sprintf(" ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d", argn, argn+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) ListProductsBySeller(ctx context.Context, sellerID int64) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p
		JOIN categories c ON p.category_id = c.id
		WHERE p.seller_id = $1
		ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

// UpdateProduct обновляет объявление, только если оно принадлежит продавцу.
func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products
		 SET category_id = $1, name = $2, description = $3, price = $4, condition = $5, image_url = $6, stock = $7, updated_at = NOW()
		 WHERE id = $8 AND seller_id = $9`,
		product.CategoryID, product.Name, product.Description, product.Price,
		product.Condition, product.ImageURL, product.Stock, product.ID, product.SellerID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// DeactivateProduct - мягкое удаление: объявление пропадает из каталога,
// но позиции старых заказов продолжают на него ссылаться.
func (r *productRepository) DeactivateProduct(ctx context.Context, id, sellerID int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND seller_id = $2",
		id, sellerID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) LockProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error) {
	p := &models.Product{}
	row := tx.QueryRowContext(ctx,
		"SELECT id, seller_id, category_id, name, price, stock, is_active FROM products WHERE id = $1 FOR UPDATE NOWAIT", id)
	if err := row.Scan(&p.ID, &p.SellerID, &p.CategoryID, &p.Name, &p.Price, &p.Stock, &p.IsActive); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "55P03" { // lock
				return nil, fmt.Errorf("resource is locked, please try again: %w", err)
			}
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) UpdateProductStockTx(ctx context.Context, tx *sql.Tx, id int64, newStock int) error {
	res, err := tx.ExecContext(ctx, "UPDATE products SET stock = $1, updated_at = NOW() WHERE id = $2", newStock, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *productRepository) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products WHERE is_active = TRUE").Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
