package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	"github.com/tiffinbox/backend/pkg/logger"
	redisclient "github.com/tiffinbox/backend/pkg/redis"
)

const passcodeDigits = 6

// PasscodeStore is the minimal redis surface the provider needs. The TTL on
// each key is what expires unverified codes automatically.
type PasscodeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	PasscodeKey(phone string) string
}

// Sender delivers the plain code to the phone. The production implementation
// is an SMS gateway; the development sender just logs it.
type Sender interface {
	Send(ctx context.Context, phone, code string) error
}

// Provider issues and verifies short-lived login passcodes. Codes are stored
// bcrypt-hashed; only the Sender ever sees the plain value.
type Provider struct {
	store PasscodeStore
	send  Sender
	ttl   time.Duration
	// devCode pins the issued code when non-empty so the flow can be
	// exercised without a real SMS gateway.
	devCode string
}

// NewProvider builds a passcode provider backed by the given store and sender.
func NewProvider(store PasscodeStore, send Sender, ttl time.Duration, devCode string) (*Provider, error) {
	if store == nil {
		return nil, fmt.Errorf("passcode store required")
	}
	if send == nil {
		return nil, fmt.Errorf("passcode sender required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("passcode ttl must be positive")
	}
	return &Provider{store: store, send: send, ttl: ttl, devCode: devCode}, nil
}

// Issue generates a code for the phone, stores its hash with the configured
// TTL, and hands the plain code to the sender. A previously issued code for
// the same phone is overwritten.
func (p *Provider) Issue(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	code := p.devCode
	if code == "" {
		generated, err := generateCode()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate passcode")
		}
		code = generated
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash passcode")
	}

	if err := p.store.Set(ctx, p.store.PasscodeKey(phone), string(hash), p.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store passcode")
	}

	return p.send.Send(ctx, phone, code)
}

// Verify checks the submitted code against the stored hash and consumes the
// record on success, so a code can only ever be used once.
func (p *Provider) Verify(ctx context.Context, phone, code string) error {
	phone = strings.TrimSpace(phone)
	code = strings.TrimSpace(code)
	if phone == "" || code == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone and otp required")
	}

	key := p.store.PasscodeKey(phone)
	stored, err := p.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redisclient.ErrNotFound) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Invalid or expired OTP")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load passcode")
	}

	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(code)) != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "Invalid or expired OTP")
	}

	if err := p.store.Del(ctx, key); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume passcode")
	}
	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < passcodeDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", passcodeDigits, n), nil
}

// LogSender is the development Sender: it logs the code instead of
// dispatching an SMS.
type LogSender struct {
	Logg *logger.Logger
}

// Send writes the code to the application log.
func (s LogSender) Send(ctx context.Context, phone, code string) error {
	if s.Logg != nil {
		ctx = s.Logg.WithFields(ctx, map[string]any{"phone": phone, "code": code})
		s.Logg.Info(ctx, "passcode issued (dev sender)")
	}
	return nil
}
