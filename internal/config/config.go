package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EnvPrefix  = "RT"
	configDir  = ".rt"
	configFile = "config.toml"

	KeyProfile        = "profile"
	KeyWorkers        = "workers"
	KeyWorkerLifetime = "worker_lifetime"
	KeyRequestTimeout = "request_timeout"
	KeyProfilesPath   = "profiles.path"
	KeySecretsBackend = "secrets.backend"
	KeyPassPrefix     = "secrets.pass_prefix"
	KeyFileRoot       = "secrets.file_root"
	KeyLogLevel       = "log.level"
	KeyLogEncoding    = "log.encoding"
	KeyLogOutputPaths = "log.output_paths"
)

type Config struct {
	// Profile is the profile used when a command does not name one.
	Profile        string         `mapstructure:"profile"`
	Workers        int            `mapstructure:"workers"`
	WorkerLifetime time.Duration  `mapstructure:"worker_lifetime"`
	RequestTimeout time.Duration  `mapstructure:"request_timeout"`
	Profiles       ProfilesConfig `mapstructure:"profiles"`
	Secrets        SecretsConfig  `mapstructure:"secrets"`
	Log            LogConfig      `mapstructure:"log"`
}

type ProfilesConfig struct {
	Path string `mapstructure:"path"`
}

type SecretsConfig struct {
	// Backend is "auto" (pass, falling back to files), "pass" or "file".
	Backend    string `mapstructure:"backend"`
	PassPrefix string `mapstructure:"pass_prefix"`
	FileRoot   string `mapstructure:"file_root"`
}

type LogConfig struct {
	Level       string   `mapstructure:"level"`
	Encoding    string   `mapstructure:"encoding"`
	OutputPaths []string `mapstructure:"output_paths"`
}

// DefaultPath is ~/.rt/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, configDir, configFile), nil
}

// Load reads path (or DefaultPath when empty) into v and decodes it. A
// missing file is not an error; defaults and RT_* environment variables
// still apply.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = viper.New()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	setDefaults(v, filepath.Join(home, configDir))

	if path == "" {
		path = filepath.Join(home, configDir, configFile)
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault(KeyProfile, "")
	v.SetDefault(KeyWorkers, 2)
	v.SetDefault(KeyWorkerLifetime, time.Duration(0))
	v.SetDefault(KeyRequestTimeout, 30*time.Second)
	v.SetDefault(KeyProfilesPath, filepath.Join(dir, "profiles.toml"))
	v.SetDefault(KeySecretsBackend, "auto")
	v.SetDefault(KeyPassPrefix, "rt-cli")
	v.SetDefault(KeyFileRoot, filepath.Join(dir, "secrets"))
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogEncoding, "console")
	v.SetDefault(KeyLogOutputPaths, []string{"stderr"})
}

func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return fmt.Errorf("%s must be positive, got %d", KeyWorkers, c.Workers)
	}
	if c.WorkerLifetime < 0 {
		return fmt.Errorf("%s must not be negative", KeyWorkerLifetime)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%s must be positive", KeyRequestTimeout)
	}
	switch c.Secrets.Backend {
	case "auto", "pass", "file":
	default:
		return fmt.Errorf("%s must be auto, pass or file, got %q", KeySecretsBackend, c.Secrets.Backend)
	}
	return nil
}
