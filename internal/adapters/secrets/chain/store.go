package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/rt-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/rt-cli/internal/adapters/secrets/pass"
	"github.com/bnema/rt-cli/internal/domain"
	"github.com/bnema/rt-cli/internal/ports"
	"go.uber.org/zap"
)

// Store tries the primary backend first and falls back to the second one
// when the primary fails for any reason other than cancellation.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
	logger   *zap.Logger
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore, logger *zap.Logger) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{primary: primary, fallback: fallback, logger: logger}, nil
}

func NewPassFirstWithFileFallback(passPrefix, fileRoot string, logger *zap.Logger) (*Store, error) {
	return NewStore(passstore.NewStore(passPrefix), filestore.NewStore(fileRoot), logger)
}

func (s *Store) Put(ctx context.Context, ref string, value string) error {
	err := s.primary.Put(ctx, ref, value)
	if err == nil {
		return nil
	}
	if shouldSkipFallback(err) {
		return err
	}
	s.logger.Warn("primary secret backend failed, using fallback", zap.String("op", "put"), zap.Error(err))

	fallbackErr := s.fallback.Put(ctx, ref, value)
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("primary backend put failed: %w; fallback backend put failed: %w", err, fallbackErr)
}

func (s *Store) Get(ctx context.Context, ref string) (string, error) {
	value, err := s.primary.Get(ctx, ref)
	if err == nil {
		return value, nil
	}
	if shouldSkipFallback(err) {
		return "", err
	}
	if !errors.Is(err, domain.ErrSecretNotFound) {
		s.logger.Warn("primary secret backend failed, using fallback", zap.String("op", "get"), zap.Error(err))
	}

	fallbackValue, fallbackErr := s.fallback.Get(ctx, ref)
	if fallbackErr == nil {
		return fallbackValue, nil
	}

	return "", fmt.Errorf("primary backend get failed: %w; fallback backend get failed: %w", err, fallbackErr)
}

// Delete removes the secret from both backends, since a put may have
// landed in either. Missing in one backend is fine; missing in both is
// ErrSecretNotFound.
func (s *Store) Delete(ctx context.Context, ref string) error {
	err := s.primary.Delete(ctx, ref)
	if err != nil && shouldSkipFallback(err) {
		return err
	}

	fallbackErr := s.fallback.Delete(ctx, ref)

	primaryMissing := errors.Is(err, domain.ErrSecretNotFound)
	fallbackMissing := errors.Is(fallbackErr, domain.ErrSecretNotFound)

	switch {
	case err == nil && (fallbackErr == nil || fallbackMissing):
		return nil
	case fallbackErr == nil && primaryMissing:
		return nil
	case primaryMissing && fallbackMissing:
		return fmt.Errorf("delete secret %q: %w", ref, domain.ErrSecretNotFound)
	}

	var errs []error
	if err != nil && !primaryMissing {
		errs = append(errs, fmt.Errorf("primary backend delete failed: %w", err))
	}
	if fallbackErr != nil && !fallbackMissing {
		errs = append(errs, fmt.Errorf("fallback backend delete failed: %w", fallbackErr))
	}
	return errors.Join(errs...)
}

func shouldSkipFallback(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
