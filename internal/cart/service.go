package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiffinbox/backend/pkg/db"
	"github.com/tiffinbox/backend/pkg/db/models"
	"github.com/tiffinbox/backend/pkg/enums"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type foodLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error)
}

// Service exposes cart operations. Every mutation recomputes and persists
// the grand total before returning the cart.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*models.Cart, error)
	SetQuantity(ctx context.Context, userID, foodID uuid.UUID, qty int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, foodID uuid.UUID) (*models.Cart, error)
	UpdateAddons(ctx context.Context, userID, foodID uuid.UUID, input AddonSelectionInput) (*models.Cart, error)
}

type service struct {
	repo           *Repository
	tx             txRunner
	foods          foodLoader
	deliveryCharge decimal.Decimal
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo *Repository, tx txRunner, foods foodLoader, deliveryCharge decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if foods == nil {
		return nil, fmt.Errorf("food loader required")
	}
	if deliveryCharge.IsNegative() {
		return nil, fmt.Errorf("delivery charge must not be negative")
	}
	return &service{
		repo:           repo,
		tx:             tx,
		foods:          foods,
		deliveryCharge: deliveryCharge,
	}, nil
}

// AddItemInput captures a line addition. Quantity zero means "not supplied"
// and defaults to one.
type AddItemInput struct {
	FoodID   uuid.UUID
	Quantity int
	Addons   AddonSelectionInput
}

// AddonSelectionInput carries addon option names per facet. Prices are never
// taken from the client; each name is resolved against the catalog item.
type AddonSelectionInput struct {
	Dip      *string
	Beverage *string
	Drink    *string
}

func (in AddonSelectionInput) isEmpty() bool {
	return in.Dip == nil && in.Beverage == nil && in.Drink == nil
}

// Get returns the user's cart, creating an empty one on first access.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	cart, err := s.repo.FindByUser(ctx, userID)
	if err == nil {
		return s.reconcileTotal(ctx, cart)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	created, err := s.repo.Create(ctx, &models.Cart{
		UserID:         userID,
		DeliveryCharge: s.deliveryCharge,
		GrandTotal:     s.deliveryCharge,
	})
	if err != nil {
		// lost a first-access race, the winner's row is the cart
		if db.IsUniqueViolation(err, "") {
			return s.repo.FindByUser(ctx, userID)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	created.Items = []models.CartItem{}
	return created, nil
}

// reconcileTotal repairs the stored grand total when the lines changed behind
// the engine, e.g. a catalog delete cascading into cart_items.
func (s *service) reconcileTotal(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	total := computeGrandTotal(cart.Items, cart.DeliveryCharge)
	if total.Equal(cart.GrandTotal) {
		return cart, nil
	}
	cart.GrandTotal = total
	if _, err := s.repo.Save(ctx, cart); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart totals")
	}
	return cart, nil
}

func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*models.Cart, error) {
	if input.FoodID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food id is required")
	}
	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	food, err := s.foods.FindByID(ctx, input.FoodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Food not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
	}

	selection, err := resolveSelection(food, input.Addons)
	if err != nil {
		return nil, err
	}

	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByUserForUpdate(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
		}

		line := findLine(cart.Items, input.FoodID)
		if line != nil {
			line.Quantity += qty
			line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			line.Addons = mergeSelection(line.Addons, selection)
			if _, err := repo.SaveItem(ctx, line); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
			}
		} else {
			item := &models.CartItem{
				CartID:    cart.ID,
				FoodID:    food.ID,
				Quantity:  qty,
				UnitPrice: food.Price,
				LineTotal: food.Price.Mul(decimal.NewFromInt(int64(qty))),
				Addons:    selection,
			}
			if _, err := repo.CreateItem(ctx, item); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart line")
			}
		}

		return s.saveTotals(ctx, repo, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, userID)
}

func (s *service) SetQuantity(ctx context.Context, userID, foodID uuid.UUID, qty int) (*models.Cart, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	return s.mutateLine(ctx, userID, foodID, false, func(repo *Repository, line *models.CartItem) error {
		line.Quantity = qty
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(qty)))
		if _, err := repo.SaveItem(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
		}
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, userID, foodID uuid.UUID) (*models.Cart, error) {
	return s.mutateLine(ctx, userID, foodID, false, func(repo *Repository, line *models.CartItem) error {
		if err := repo.DeleteItem(ctx, line.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
		}
		return nil
	})
}

// UpdateAddons replaces the line's selection wholesale. Facets the client
// leaves out are cleared, unlike AddItem which merges per facet.
func (s *service) UpdateAddons(ctx context.Context, userID, foodID uuid.UUID, input AddonSelectionInput) (*models.Cart, error) {
	food, err := s.foods.FindByID(ctx, foodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Food not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load food item")
	}
	selection, err := resolveSelection(food, input)
	if err != nil {
		return nil, err
	}

	return s.mutateLine(ctx, userID, foodID, true, func(repo *Repository, line *models.CartItem) error {
		line.Addons = selection
		if _, err := repo.SaveItem(ctx, line); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
		}
		return nil
	})
}

// mutateLine locks the cart, applies fn to the matching line, recomputes the
// total and returns the refreshed cart. A missing line is a no-op unless
// requireLine is set.
func (s *service) mutateLine(ctx context.Context, userID, foodID uuid.UUID, requireLine bool, fn func(repo *Repository, line *models.CartItem) error) (*models.Cart, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cart, err := repo.FindByUserForUpdate(ctx, userID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
		}

		line := findLine(cart.Items, foodID)
		if line == nil {
			if requireLine {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Item not found in cart")
			}
			return nil
		}
		if err := fn(repo, line); err != nil {
			return err
		}
		return s.saveTotals(ctx, repo, cart)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, userID)
}

// saveTotals re-reads the lines under the transaction and persists the
// recomputed grand total.
func (s *service) saveTotals(ctx context.Context, repo *Repository, cart *models.Cart) error {
	var items []models.CartItem
	err := repo.db.WithContext(ctx).
		Where("cart_id = ?", cart.ID).
		Find(&items).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart lines")
	}

	cart.GrandTotal = computeGrandTotal(items, cart.DeliveryCharge)
	if _, err := repo.Save(ctx, cart); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart total")
	}
	return nil
}

func findLine(items []models.CartItem, foodID uuid.UUID) *models.CartItem {
	for i := range items {
		if items[i].FoodID == foodID {
			return &items[i]
		}
	}
	return nil
}

// resolveSelection maps facet option names onto catalog options, copying the
// price from the catalog rather than trusting the client.
func resolveSelection(food *models.FoodItem, input AddonSelectionInput) (*types.AddonSelection, error) {
	if input.isEmpty() {
		return nil, nil
	}

	selection := &types.AddonSelection{}
	facets := []struct {
		facet enums.AddonFacet
		name  *string
		dest  **types.AddonOption
	}{
		{enums.AddonFacetDip, input.Dip, &selection.Dip},
		{enums.AddonFacetBeverage, input.Beverage, &selection.Beverage},
		{enums.AddonFacetDrink, input.Drink, &selection.Drink},
	}
	for _, f := range facets {
		if f.name == nil {
			continue
		}
		opt := lookupOption(food.OptionsForFacet(f.facet.String()), *f.name)
		if opt == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown %s option %q", f.facet, *f.name))
		}
		*f.dest = opt
	}
	return selection, nil
}

func lookupOption(options types.AddonOptions, name string) *types.AddonOption {
	for _, opt := range options {
		if opt.Name == name {
			copied := opt
			return &copied
		}
	}
	return nil
}

// mergeSelection overlays incoming facets on the existing selection,
// preserving facets the addition did not mention.
func mergeSelection(existing, incoming *types.AddonSelection) *types.AddonSelection {
	if incoming == nil {
		return existing
	}
	if existing == nil {
		return incoming
	}
	merged := *existing
	if incoming.Dip != nil {
		merged.Dip = incoming.Dip
	}
	if incoming.Beverage != nil {
		merged.Beverage = incoming.Beverage
	}
	if incoming.Drink != nil {
		merged.Drink = incoming.Drink
	}
	return &merged
}
