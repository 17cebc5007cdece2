package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiffinbox/backend/pkg/db/models"
	"github.com/tiffinbox/backend/pkg/pagination"
)

// Repository exposes persistence operations for orders.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts the order together with its item snapshots.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Save persists mutable order fields. Item snapshots are never rewritten.
func (r *Repository) Save(ctx context.Context, order *models.Order) (*models.Order, error) {
	err := r.db.WithContext(ctx).
		Omit("Items", "User", "AssignedTo").
		Save(order).Error
	if err != nil {
		return nil, err
	}
	return order, nil
}

// FindByID loads a single order with its items and assigned partner.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("AssignedTo").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber loads an order by its human-readable number.
func (r *Repository) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("AssignedTo").
		Where("order_number = ?", orderNumber).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByUser returns the account's orders, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	params = params.Normalize()
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("AssignedTo").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAll returns every order, newest first, with the owning user resolved.
func (r *Repository) ListAll(ctx context.Context, params pagination.Params) ([]models.Order, error) {
	params = params.Normalize()
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("AssignedTo").
		Preload("User").
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
