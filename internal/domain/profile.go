package domain

import (
	"fmt"
	"net/url"
	"strings"
)

type ProfileID string

// Profile describes one RT server account the CLI can talk to.
type Profile struct {
	ID           ProfileID
	Name         string
	URL          string
	Username     string
	DefaultQueue string
	// SecretRef points to the password in the secret store, typically in
	// "rt://<profile>/password" form.
	SecretRef string
}

func (p Profile) Validate() error {
	if strings.TrimSpace(string(p.ID)) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(p.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidProfile)
	}
	if _, err := p.BaseURL(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidProfile, err)
	}
	return nil
}

// BaseURL returns the REST endpoint root with a trailing slash so request
// paths resolve beneath it.
func (p Profile) BaseURL() (*url.URL, error) {
	raw := strings.TrimSpace(p.URL)
	if raw == "" {
		return nil, fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url host is required")
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u, nil
}

func DefaultSecretRef(id ProfileID) string {
	return fmt.Sprintf("rt://%s/password", id)
}

const secretRefScheme = "rt://"

// SecretPath turns a secret reference into a relative slash-separated path.
// "rt://work/password" becomes "work/password"; references without the
// scheme are used as they are.
func SecretPath(ref string) (string, error) {
	path := strings.TrimPrefix(strings.TrimSpace(ref), secretRefScheme)
	path = strings.Trim(path, "/")
	if path == "" {
		return "", fmt.Errorf("secret reference %q is empty", ref)
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", fmt.Errorf("invalid secret reference %q", ref)
		}
	}
	return path, nil
}
