package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version  int             `toml:"version"`
	Profiles []profileSchema `toml:"profiles"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported profiles schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type profileSchema struct {
	ID           string `toml:"id"`
	Name         string `toml:"name,omitempty"`
	URL          string `toml:"url"`
	Username     string `toml:"username"`
	DefaultQueue string `toml:"default_queue,omitempty"`
	SecretRef    string `toml:"secret_ref,omitempty"`
}
