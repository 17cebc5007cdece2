package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiffinbox/backend/internal/cart"
	"github.com/tiffinbox/backend/pkg/db"
	"github.com/tiffinbox/backend/pkg/db/models"
	"github.com/tiffinbox/backend/pkg/enums"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/pagination"
	"github.com/tiffinbox/backend/pkg/types"
)

// checkout retries a fresh order number when the unique index rejects one.
const maxOrderNumberAttempts = 3

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type partnerLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Partner, error)
}

// Service exposes the order lifecycle.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	TrackByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, error)
	ListAll(ctx context.Context, params pagination.Params) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
	Confirm(ctx context.Context, id uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error)
	AssignPartner(ctx context.Context, orderID, partnerID uuid.UUID) (*models.Order, error)
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) (*models.Order, error)
}

type service struct {
	repo     *Repository
	carts    *cart.Repository
	partners partnerLoader
	tx       txRunner
	now      func() time.Time
}

// NewService builds an order service backed by the provided stack.
func NewService(repo *Repository, carts *cart.Repository, partners partnerLoader, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if partners == nil {
		return nil, fmt.Errorf("partner loader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		carts:    carts,
		partners: partners,
		tx:       tx,
		now:      time.Now,
	}, nil
}

// CheckoutInput carries the customer contact snapshot and payment choice.
type CheckoutInput struct {
	Customer      types.Customer
	PaymentMethod enums.PaymentMethod
}

// Checkout freezes the cart into an order and empties the cart, atomically
// under the cart row lock so a concurrent mutation cannot double-submit.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.Customer.Name) == "" || strings.TrimSpace(input.Customer.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name and phone are required")
	}
	method := input.PaymentMethod
	if method == "" {
		method = enums.PaymentMethodCOD
	}
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	var created *models.Order
	for attempt := 0; attempt < maxOrderNumberAttempts; attempt++ {
		orderNumber, err := newOrderNumber(s.now())
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
		}

		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			cartRepo := s.carts.WithTx(tx)
			userCart, err := cartRepo.FindByUserForUpdate(ctx, userID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeInvalidState, "Cart is empty")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
			}
			if len(userCart.Items) == 0 {
				return pkgerrors.New(pkgerrors.CodeInvalidState, "Cart is empty")
			}

			order := &models.Order{
				OrderNumber:   orderNumber,
				UserID:        &userID,
				Customer:      input.Customer,
				Items:         snapshotItems(userCart.Items),
				Total:         userCart.GrandTotal,
				PaymentMethod: method,
				PaymentStatus: enums.PaymentStatusPending,
				Status:        enums.OrderStatusPlaced,
			}
			if created, err = s.repo.WithTx(tx).Create(ctx, order); err != nil {
				return err
			}

			if err := cartRepo.DeleteItemsByCart(ctx, userCart.ID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
			}
			userCart.GrandTotal = userCart.DeliveryCharge
			if _, err := cartRepo.Save(ctx, userCart); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart total")
			}
			return nil
		})
		if err == nil {
			return s.Get(ctx, created.ID)
		}
		if db.IsUniqueViolation(err, "order_number") {
			continue
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}
	return nil, pkgerrors.New(pkgerrors.CodeDependency, "could not allocate a unique order number")
}

// Get loads a single order.
func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) TrackByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number is required")
	}
	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Order, error) {
	sorted, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return sorted, nil
}

func (s *service) ListAll(ctx context.Context, params pagination.Params) ([]models.Order, error) {
	sorted, err := s.repo.ListAll(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return sorted, nil
}

// UpdateStatus moves the order along the enforced lifecycle.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == status {
		return order, nil
	}
	if !canTransition(order.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	order.Status = status
	if _, err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return order, nil
}

// Confirm is the placed-to-confirmed shortcut used by the admin surface.
func (s *service) Confirm(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.UpdateStatus(ctx, id, enums.OrderStatusConfirmed)
}

// Cancel moves any non-terminal order to cancelled.
func (s *service) Cancel(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == enums.OrderStatusCancelled {
		return order, nil
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("cannot cancel a %s order", order.Status))
	}

	order.Status = enums.OrderStatusCancelled
	if _, err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
	}
	return order, nil
}

// AssignPartner points the order at a delivery partner.
func (s *service) AssignPartner(ctx context.Context, orderID, partnerID uuid.UUID) (*models.Order, error) {
	order, err := s.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	partner, err := s.partners.FindByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Delivery partner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery partner")
	}

	order.AssignedToID = &partner.ID
	if _, err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign delivery partner")
	}
	order.AssignedTo = partner
	return order, nil
}

// SetPaymentStatus records the payment outcome reported by the operator.
func (s *service) SetPaymentStatus(ctx context.Context, id uuid.UUID, status enums.PaymentStatus) (*models.Order, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = status
	if _, err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	return order, nil
}

// snapshotItems freezes cart lines into order items.
func snapshotItems(lines []models.CartItem) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		foodID := line.FoodID
		item := models.OrderItem{
			FoodID:    &foodID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		}
		if line.Food != nil {
			item.Title = line.Food.Title
		}
		items = append(items, item)
	}
	return items
}
