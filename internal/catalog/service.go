package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiffinbox/backend/pkg/db/models"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/pagination"
)

// Service exposes catalog operations.
type Service interface {
	List(ctx context.Context, params pagination.Params) ([]models.FoodItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
	Create(ctx context.Context, createdBy uuid.UUID, input CreateItemInput) (*models.FoodItem, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.FoodItem, error)
	StockIn(ctx context.Context, id uuid.UUID, qty int) (*models.FoodItem, error)
	StockOut(ctx context.Context, id uuid.UUID, qty int) (*models.FoodItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.FoodItem, error) {
	items, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list food items")
	}
	return items, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Food not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
	}
	return item, nil
}

func (s *service) Create(ctx context.Context, createdBy uuid.UUID, input CreateItemInput) (*models.FoodItem, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.StockQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must not be negative")
	}

	item := &models.FoodItem{
		Title:           title,
		Description:     strings.TrimSpace(input.Description),
		Images:          input.Images,
		Price:           input.Price,
		DiscountPercent: input.DiscountPercent,
		StockQty:        input.StockQty,
		InStock:         input.StockQty > 0,
		Dips:            input.Dips,
		Beverages:       input.Beverages,
		Drinks:          input.Drinks,
		Nutrition:       input.Nutrition,
	}
	if len(input.Images) > 0 {
		item.Image = input.Images[0]
	}
	if createdBy != uuid.Nil {
		item.CreatedBy = &createdBy
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create food item")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateItemInput) (*models.FoodItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyUpdateToItem(item, input)

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update food item")
	}
	return saved, nil
}

func (s *service) StockIn(ctx context.Context, id uuid.UUID, qty int) (*models.FoodItem, error) {
	return s.adjustStock(ctx, id, normalizeAdjustQty(qty))
}

func (s *service) StockOut(ctx context.Context, id uuid.UUID, qty int) (*models.FoodItem, error) {
	return s.adjustStock(ctx, id, -normalizeAdjustQty(qty))
}

// adjustStock applies a signed delta, floors the result at zero, and
// recomputes the cached in-stock flag.
func (s *service) adjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.FoodItem, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	item.StockQty += delta
	if item.StockQty < 0 {
		item.StockQty = 0
	}
	item.InStock = item.StockQty > 0

	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
	}
	return saved, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete food item")
	}
	return nil
}

func applyUpdateToItem(item *models.FoodItem, input UpdateItemInput) {
	if input.Title != nil {
		item.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		item.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.DiscountPercent != nil {
		item.DiscountPercent = *input.DiscountPercent
	}
	if input.StockQty != nil {
		item.StockQty = *input.StockQty
		if item.StockQty < 0 {
			item.StockQty = 0
		}
		item.InStock = item.StockQty > 0
	}
	if len(input.Images) > 0 {
		item.Images = input.Images
		item.Image = input.Images[0]
	}
	if input.Dips != nil {
		item.Dips = *input.Dips
	}
	if input.Beverages != nil {
		item.Beverages = *input.Beverages
	}
	if input.Drinks != nil {
		item.Drinks = *input.Drinks
	}
	if input.Nutrition != nil {
		item.Nutrition = input.Nutrition
	}
}

func normalizeAdjustQty(qty int) int {
	if qty <= 0 {
		return 1
	}
	return qty
}
