package partners

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiffinbox/backend/pkg/db/models"
	"github.com/tiffinbox/backend/pkg/pagination"
)

// Repository exposes persistence operations for delivery partners.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a partners repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new partner.
func (r *Repository) Create(ctx context.Context, partner *models.Partner) (*models.Partner, error) {
	if partner.ID == uuid.Nil {
		partner.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(partner).Error; err != nil {
		return nil, err
	}
	return partner, nil
}

// Save persists the partner row.
func (r *Repository) Save(ctx context.Context, partner *models.Partner) (*models.Partner, error) {
	if err := r.db.WithContext(ctx).Save(partner).Error; err != nil {
		return nil, err
	}
	return partner, nil
}

// FindByID loads a single partner.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	var partner models.Partner
	if err := r.db.WithContext(ctx).First(&partner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

// List returns a page of partners, newest first.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Partner, error) {
	params = params.Normalize()
	var partners []models.Partner
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&partners).Error
	if err != nil {
		return nil, err
	}
	return partners, nil
}

// Delete removes the partner row. Orders referencing it fall back to an
// unassigned state via the SET NULL constraint.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Partner{}, "id = ?", id).Error
}
