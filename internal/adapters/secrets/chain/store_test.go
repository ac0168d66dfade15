package chain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bnema/rt-cli/internal/domain"
	portmocks "github.com/bnema/rt-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const ref = "rt://work/password"

var errNotFound = fmt.Errorf("backend: %w", domain.ErrSecretNotFound)

func newTestStore(t *testing.T) (*Store, *portmocks.MockSecretStore, *portmocks.MockSecretStore) {
	t.Helper()

	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store, err := NewStore(primary, fallback, nil)
	require.NoError(t, err)
	return store, primary, fallback
}

func TestNewStoreRejectsNilBackends(t *testing.T) {
	t.Parallel()

	_, err := NewStore(nil, portmocks.NewMockSecretStore(t), nil)
	require.ErrorIs(t, err, errNilPrimaryStore)

	_, err = NewStore(portmocks.NewMockSecretStore(t), nil, nil)
	require.ErrorIs(t, err, errNilFallbackStore)
}

func TestStoreGetUsesPrimaryWhenItSucceeds(t *testing.T) {
	t.Parallel()

	store, primary, _ := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, ref).Return("from-pass", nil).Once()

	value, err := store.Get(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "from-pass", value)
}

func TestStoreGetFallsBackAndLogsWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	primary := portmocks.NewMockSecretStore(t)
	fallback := portmocks.NewMockSecretStore(t)
	store, err := NewStore(primary, fallback, zap.New(core))
	require.NoError(t, err)

	primary.EXPECT().Get(mock.Anything, ref).Return("", errors.New("pass unavailable")).Once()
	fallback.EXPECT().Get(mock.Anything, ref).Return("from-file", nil).Once()

	value, err := store.Get(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "from-file", value)
	assert.Equal(t, 1, logs.FilterMessage("primary secret backend failed, using fallback").Len())
}

func TestStoreGetNotFoundInBothBackends(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, ref).Return("", errNotFound).Once()
	fallback.EXPECT().Get(mock.Anything, ref).Return("", errNotFound).Once()

	_, err := store.Get(context.Background(), ref)
	require.ErrorIs(t, err, domain.ErrSecretNotFound)
	assert.ErrorContains(t, err, "primary backend")
	assert.ErrorContains(t, err, "fallback backend")
}

func TestStorePutFallsBackWhenPrimaryFails(t *testing.T) {
	t.Parallel()

	store, primary, fallback := newTestStore(t)
	primary.EXPECT().Put(mock.Anything, ref, "secret").Return(errors.New("pass failed")).Once()
	fallback.EXPECT().Put(mock.Anything, ref, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), ref, "secret"))
}

func TestStorePutDoesNotCallFallbackWhenPrimarySucceeds(t *testing.T) {
	t.Parallel()

	store, primary, _ := newTestStore(t)
	primary.EXPECT().Put(mock.Anything, ref, "secret").Return(nil).Once()

	require.NoError(t, store.Put(context.Background(), ref, "secret"))
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	tests := []struct {
		name         string
		primaryErr   error
		fallbackErr  error
		wantErr      bool
		wantNotFound bool
	}{
		{name: "both deleted"},
		{name: "only in primary", fallbackErr: errNotFound},
		{name: "only in fallback", primaryErr: errNotFound},
		{name: "in neither", primaryErr: errNotFound, fallbackErr: errNotFound, wantErr: true, wantNotFound: true},
		{name: "primary broken", primaryErr: boom, wantErr: true},
		{name: "fallback broken", fallbackErr: boom, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, primary, fallback := newTestStore(t)
			primary.EXPECT().Delete(mock.Anything, ref).Return(tt.primaryErr).Once()
			fallback.EXPECT().Delete(mock.Anything, ref).Return(tt.fallbackErr).Once()

			err := store.Delete(context.Background(), ref)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantNotFound, errors.Is(err, domain.ErrSecretNotFound))
		})
	}
}

func TestStoreDoesNotFallbackOnCanceledContext(t *testing.T) {
	t.Parallel()

	store, primary, _ := newTestStore(t)
	primary.EXPECT().Get(mock.Anything, ref).Return("", context.Canceled).Once()
	primary.EXPECT().Delete(mock.Anything, ref).Return(context.Canceled).Once()

	_, err := store.Get(context.Background(), ref)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, store.Delete(context.Background(), ref), context.Canceled)
}
