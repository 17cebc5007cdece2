package partners

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiffinbox/backend/pkg/db"
	"github.com/tiffinbox/backend/pkg/db/models"
	"github.com/tiffinbox/backend/pkg/enums"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/pagination"
)

// Service exposes the courier directory.
type Service interface {
	Create(ctx context.Context, input CreatePartnerInput) (*models.Partner, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Partner, error)
	List(ctx context.Context, params pagination.Params) ([]models.Partner, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePartnerInput) (*models.Partner, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService builds a partners service backed by the provided repository.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("partners repository required")
	}
	return &service{repo: repo}, nil
}

// CreatePartnerInput carries the fields accepted when registering a courier.
type CreatePartnerInput struct {
	Name    string
	Phone   string
	Vehicle string
	Status  enums.PartnerStatus
}

// UpdatePartnerInput is a partial update; nil fields are left untouched.
type UpdatePartnerInput struct {
	Name    *string
	Phone   *string
	Vehicle *string
	Status  *enums.PartnerStatus
}

func (s *service) Create(ctx context.Context, input CreatePartnerInput) (*models.Partner, error) {
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	status := input.Status
	if status == "" {
		status = enums.PartnerStatusActive
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid partner status")
	}

	partner, err := s.repo.Create(ctx, &models.Partner{
		Name:    name,
		Phone:   phone,
		Vehicle: strings.TrimSpace(input.Vehicle),
		Status:  status,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "phone") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a partner with this phone already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create partner")
	}
	return partner, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	partner, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Delivery partner not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load partner")
	}
	return partner, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Partner, error) {
	partners, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list partners")
	}
	return partners, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePartnerInput) (*models.Partner, error) {
	partner, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		partner.Name = strings.TrimSpace(*input.Name)
	}
	if input.Phone != nil {
		partner.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Vehicle != nil {
		partner.Vehicle = strings.TrimSpace(*input.Vehicle)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid partner status")
		}
		partner.Status = *input.Status
	}

	saved, err := s.repo.Save(ctx, partner)
	if err != nil {
		if db.IsUniqueViolation(err, "phone") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a partner with this phone already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update partner")
	}
	return saved, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete partner")
	}
	return nil
}
