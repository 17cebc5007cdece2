package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/tiffinbox/backend/pkg/errors"
	redisclient "github.com/tiffinbox/backend/pkg/redis"
)

type memoryPasscodeStore struct {
	values map[string]string
}

func newMemoryPasscodeStore() *memoryPasscodeStore {
	return &memoryPasscodeStore{values: map[string]string{}}
}

func (s *memoryPasscodeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.values[key] = value.(string)
	return nil
}

func (s *memoryPasscodeStore) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", redisclient.ErrNotFound
	}
	return value, nil
}

func (s *memoryPasscodeStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.values, key)
	}
	return nil
}

func (s *memoryPasscodeStore) PasscodeKey(phone string) string {
	return "tb:otp:" + phone
}

type captureSender struct {
	phone string
	code  string
}

func (s *captureSender) Send(_ context.Context, phone, code string) error {
	s.phone = phone
	s.code = code
	return nil
}

func newTestProvider(t *testing.T, store PasscodeStore, sender Sender, devCode string) *Provider {
	t.Helper()

	provider, err := NewProvider(store, sender, 5*time.Minute, devCode)
	require.NoError(t, err)
	return provider
}

func TestIssueStoresHashNotPlainCode(t *testing.T) {
	store := newMemoryPasscodeStore()
	sender := &captureSender{}
	provider := newTestProvider(t, store, sender, "")
	ctx := context.Background()

	require.NoError(t, provider.Issue(ctx, "5550001"))

	assert.Equal(t, "5550001", sender.phone)
	assert.Len(t, sender.code, 6)
	stored := store.values["tb:otp:5550001"]
	require.NotEmpty(t, stored)
	assert.NotEqual(t, sender.code, stored)
}

func TestIssueUsesPinnedDevCode(t *testing.T) {
	store := newMemoryPasscodeStore()
	sender := &captureSender{}
	provider := newTestProvider(t, store, sender, "123456")

	require.NoError(t, provider.Issue(context.Background(), "5550001"))
	assert.Equal(t, "123456", sender.code)
}

func TestVerifyConsumesCodeOnSuccess(t *testing.T) {
	store := newMemoryPasscodeStore()
	sender := &captureSender{}
	provider := newTestProvider(t, store, sender, "123456")
	ctx := context.Background()

	require.NoError(t, provider.Issue(ctx, "5550001"))
	require.NoError(t, provider.Verify(ctx, "5550001", "123456"))

	// replaying the consumed code fails
	err := provider.Verify(ctx, "5550001", "123456")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	store := newMemoryPasscodeStore()
	provider := newTestProvider(t, store, &captureSender{}, "123456")
	ctx := context.Background()

	require.NoError(t, provider.Issue(ctx, "5550001"))

	err := provider.Verify(ctx, "5550001", "654321")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	// the wrong attempt does not consume the stored code
	require.NoError(t, provider.Verify(ctx, "5550001", "123456"))
}

func TestVerifyUnknownPhoneFails(t *testing.T) {
	provider := newTestProvider(t, newMemoryPasscodeStore(), &captureSender{}, "")

	err := provider.Verify(context.Background(), "5550002", "123456")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestIssueRequiresPhone(t *testing.T) {
	provider := newTestProvider(t, newMemoryPasscodeStore(), &captureSender{}, "")

	err := provider.Issue(context.Background(), "   ")
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
