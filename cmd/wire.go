package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	recordrender "github.com/bnema/rt-cli/internal/adapters/render/record"
	tomlrepo "github.com/bnema/rt-cli/internal/adapters/repo/toml"
	rtadapter "github.com/bnema/rt-cli/internal/adapters/rt"
	chainstore "github.com/bnema/rt-cli/internal/adapters/secrets/chain"
	filestore "github.com/bnema/rt-cli/internal/adapters/secrets/file"
	passstore "github.com/bnema/rt-cli/internal/adapters/secrets/pass"
	"github.com/bnema/rt-cli/internal/application"
	"github.com/bnema/rt-cli/internal/config"
	"github.com/bnema/rt-cli/internal/domain"
	"github.com/bnema/rt-cli/internal/logging"
	"github.com/bnema/rt-cli/internal/ports"
	"github.com/bnema/rt-cli/internal/protocol"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var errNoProfile = errors.New("no profile selected: pass --profile or set profile in the config file")

type app struct {
	cfg        *config.Config
	logger     *zap.Logger
	profiles   *application.ProfileService
	renderer   func(protocol.Body, recordrender.RenderOptions) (string, error)
	httpClient *http.Client
	serializer *protocol.Serializer
	clock      ports.Clock
}

func wireApp() (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v, os.Getenv("RT_CONFIG"))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire profile repository: %w", err)
	}

	secretStore, err := wireSecretStore(cfg.Secrets, logger)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		logger:     logger,
		profiles:   application.NewProfileService(repo, secretStore),
		renderer:   recordrender.Render,
		httpClient: http.DefaultClient,
		serializer: protocol.NewSerializer(),
		clock:      ports.SystemClock{},
	}, nil
}

func wireSecretStore(cfg config.SecretsConfig, logger *zap.Logger) (ports.SecretStore, error) {
	switch cfg.Backend {
	case "pass":
		return passstore.NewStore(cfg.PassPrefix), nil
	case "file":
		return filestore.NewStore(cfg.FileRoot), nil
	}

	store, err := chainstore.NewPassFirstWithFileFallback(cfg.PassPrefix, cfg.FileRoot, logger.Named("secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}
	return store, nil
}

// resolveProfile picks the profile named on the command line, then the
// configured default, then the only stored profile if there is exactly one.
func (a *app) resolveProfile(ctx context.Context, flag string) (domain.ProfileID, error) {
	if flag != "" {
		return domain.ProfileID(flag), nil
	}
	if a.cfg.Profile != "" {
		return domain.ProfileID(a.cfg.Profile), nil
	}

	profiles, err := a.profiles.ListProfiles(ctx)
	if err != nil {
		return "", err
	}
	if len(profiles) == 1 {
		return profiles[0].ID, nil
	}
	return "", errNoProfile
}

// ticketService starts a dispatcher logged in as the selected profile. The
// returned close function logs every worker out.
func (a *app) ticketService(ctx context.Context, profileFlag string) (*application.TicketService, func() error, error) {
	id, err := a.resolveProfile(ctx, profileFlag)
	if err != nil {
		return nil, nil, err
	}

	profile, password, err := a.profiles.Credentials(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	factory := rtadapter.NewFactory(rtadapter.Config{
		Profile:        profile,
		Password:       password,
		HTTPClient:     a.httpClient,
		RequestTimeout: a.cfg.RequestTimeout,
		Serializer:     a.serializer,
		Logger:         a.logger.Named("rt").With(zap.String("profile", string(profile.ID))),
	})

	dispatcher, err := application.NewDispatcher(factory, application.DispatcherOptions{
		Workers:        a.cfg.Workers,
		WorkerLifetime: a.cfg.WorkerLifetime,
		Clock:          a.clock,
		Logger:         a.logger.Named("dispatcher"),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start dispatcher: %w", err)
	}

	return application.NewTicketService(dispatcher, dispatcher.Size()), dispatcher.Close, nil
}
