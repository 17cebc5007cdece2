package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiffinbox/backend/pkg/db/models"
	"github.com/tiffinbox/backend/pkg/pagination"
)

// Repository exposes persistence operations for catalog items.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new food item.
func (r *Repository) Create(ctx context.Context, item *models.FoodItem) (*models.FoodItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Save persists the full item row.
func (r *Repository) Save(ctx context.Context, item *models.FoodItem) (*models.FoodItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a single item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	var item models.FoodItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns a page of items, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.FoodItem, error) {
	params = params.Normalize()
	var items []models.FoodItem
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes the item row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.FoodItem{}, "id = ?", id).Error
}
