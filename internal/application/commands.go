package application

import "github.com/bnema/rt-cli/internal/domain"

type SetProfileCommand struct {
	Profile domain.Profile
	// Password is stored in the secret store when non-empty. An empty
	// password keeps the one already stored for the profile.
	Password string
}
