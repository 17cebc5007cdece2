package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tiffinbox/backend/internal/users"
	pkgauth "github.com/tiffinbox/backend/pkg/auth"
	"github.com/tiffinbox/backend/pkg/config"
	"github.com/tiffinbox/backend/pkg/db/models"
	"github.com/tiffinbox/backend/pkg/enums"
	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
)

// PasscodeProvider abstracts issue/verify so the SMS-backed implementation
// can be swapped without touching the service.
type PasscodeProvider interface {
	Issue(ctx context.Context, phone string) error
	Verify(ctx context.Context, phone, code string) error
}

// Service drives the phone/passcode login flow.
type Service interface {
	SendPasscode(ctx context.Context, phone string) error
	VerifyPasscode(ctx context.Context, phone, code string) (*models.User, string, error)
}

type service struct {
	users    *users.Repository
	passcode PasscodeProvider
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService wires the login flow dependencies.
func NewService(userRepo *users.Repository, passcode PasscodeProvider, jwtCfg config.JWTConfig) (Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if passcode == nil {
		return nil, fmt.Errorf("passcode provider required")
	}
	return &service{
		users:    userRepo,
		passcode: passcode,
		jwtCfg:   jwtCfg,
		now:      time.Now,
	}, nil
}

func (s *service) SendPasscode(ctx context.Context, phone string) error {
	return s.passcode.Issue(ctx, phone)
}

// VerifyPasscode checks the code, upserts the account for an unseen phone,
// and mints the session token bound to the account id.
func (s *service) VerifyPasscode(ctx context.Context, phone, code string) (*models.User, string, error) {
	phone = strings.TrimSpace(phone)

	if err := s.passcode.Verify(ctx, phone, code); err != nil {
		return nil, "", err
	}

	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		user, err = s.users.Create(ctx, &models.User{
			Phone:      phone,
			Role:       enums.UserRoleSeller,
			IsVerified: true,
		})
		if err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}
	} else if !user.IsVerified {
		if err := s.users.MarkVerified(ctx, user.ID); err != nil {
			return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark user verified")
		}
		user.IsVerified = true
	}

	token, err := pkgauth.MintSessionToken(s.jwtCfg, s.now(), pkgauth.SessionTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	return user, token, nil
}
