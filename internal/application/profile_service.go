package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/rt-cli/internal/domain"
	"github.com/bnema/rt-cli/internal/ports"
)

type ProfileService struct {
	repo  ports.ProfileRepository
	store ports.SecretStore
}

func NewProfileService(repo ports.ProfileRepository, store ports.SecretStore) *ProfileService {
	return &ProfileService{
		repo:  repo,
		store: store,
	}
}

// SetProfile creates or updates a profile. When a password is given it is
// written to the secret store first and rolled back if the profile cannot be
// saved; a previous secret under a different ref is removed afterwards.
func (s *ProfileService) SetProfile(ctx context.Context, cmd SetProfileCommand) error {
	profile := cmd.Profile

	existing, err := s.repo.GetByID(ctx, profile.ID)
	found := err == nil
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return fmt.Errorf("get profile by id: %w", err)
	}

	if cmd.Password == "" {
		if !found || existing.SecretRef == "" {
			return fmt.Errorf("%w: password is required for a new profile", domain.ErrInvalidProfile)
		}
		profile.SecretRef = existing.SecretRef
		if err := profile.Validate(); err != nil {
			return err
		}
		if err := s.repo.Save(ctx, profile); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		return nil
	}

	if profile.SecretRef == "" {
		profile.SecretRef = domain.DefaultSecretRef(profile.ID)
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	if err := s.store.Put(ctx, profile.SecretRef, cmd.Password); err != nil {
		return fmt.Errorf("store profile password: %w", err)
	}

	if err := s.repo.Save(ctx, profile); err != nil {
		if rollbackErr := s.store.Delete(ctx, profile.SecretRef); rollbackErr != nil {
			return fmt.Errorf("save profile and rollback stored password: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save profile: %w", err)
	}

	if !found || existing.SecretRef == "" || existing.SecretRef == profile.SecretRef {
		return nil
	}

	if err := s.store.Delete(ctx, existing.SecretRef); err != nil {
		var rollbackErr error
		if restoreErr := s.repo.Save(ctx, existing); restoreErr != nil {
			rollbackErr = errors.Join(rollbackErr, restoreErr)
		}
		if newSecretDeleteErr := s.store.Delete(ctx, profile.SecretRef); newSecretDeleteErr != nil {
			rollbackErr = errors.Join(rollbackErr, newSecretDeleteErr)
		}
		if rollbackErr != nil {
			return fmt.Errorf("delete previous profile password and rollback profile update: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("delete previous profile password: %w", err)
	}

	return nil
}

// RemoveProfile deletes a profile and its stored password. If the password
// cannot be deleted the profile is restored so the secret is not orphaned.
func (s *ProfileService) RemoveProfile(ctx context.Context, id domain.ProfileID) error {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get profile by id: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}

	if profile.SecretRef == "" {
		return nil
	}

	if err := s.store.Delete(ctx, profile.SecretRef); err != nil && !errors.Is(err, domain.ErrSecretNotFound) {
		if restoreErr := s.repo.Save(ctx, profile); restoreErr != nil {
			return fmt.Errorf("delete profile password and restore profile: %w", errors.Join(err, restoreErr))
		}
		return fmt.Errorf("delete profile password: %w", err)
	}

	return nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id domain.ProfileID) (domain.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("get profile by id: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// Credentials returns the profile together with its stored password.
func (s *ProfileService) Credentials(ctx context.Context, id domain.ProfileID) (domain.Profile, string, error) {
	profile, err := s.GetProfile(ctx, id)
	if err != nil {
		return domain.Profile{}, "", err
	}
	if profile.SecretRef == "" {
		return domain.Profile{}, "", fmt.Errorf("profile %s has no stored password: %w", id, domain.ErrSecretNotFound)
	}

	password, err := s.store.Get(ctx, profile.SecretRef)
	if err != nil {
		return domain.Profile{}, "", fmt.Errorf("get profile password: %w", err)
	}
	return profile, password, nil
}
