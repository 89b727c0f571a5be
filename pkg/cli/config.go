package cli

import (
	"context"
	"io"
	"time"

	"github.com/frontdesk-dev/frontdesk/pkg/adapter"
	"github.com/frontdesk-dev/frontdesk/pkg/repository"
	"github.com/frontdesk-dev/frontdesk/pkg/server"
	"github.com/frontdesk-dev/frontdesk/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Logging
	logLevel string

	// Room token issuing (voice transport collaborator)
	livekitURL       string
	livekitAPIKey    string
	livekitAPISecret string
	tokenTTL         time.Duration
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("FRONTDESK_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// tokenFlags returns flags for the room token issuer with destination config
func tokenFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "livekit-url",
			Usage:       "Voice transport URL handed to callers",
			Sources:     cli.EnvVars("LIVEKIT_URL"),
			Destination: &cfg.livekitURL,
		},
		&cli.StringFlag{
			Name:        "livekit-api-key",
			Usage:       "Voice transport API key",
			Sources:     cli.EnvVars("LIVEKIT_API_KEY"),
			Destination: &cfg.livekitAPIKey,
		},
		&cli.StringFlag{
			Name:        "livekit-api-secret",
			Usage:       "Voice transport API secret",
			Sources:     cli.EnvVars("LIVEKIT_API_SECRET"),
			Destination: &cfg.livekitAPISecret,
		},
		&cli.DurationFlag{
			Name:        "token-ttl",
			Usage:       "Lifetime of issued room tokens",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("FRONTDESK_TOKEN_TTL"),
			Destination: &cfg.tokenTTL,
		},
	}
}

// newLogger builds a logger from the configured level and installs it as
// the default
func (cfg *config) newLogger(w io.Writer) {
	logging.SetDefault(logging.New(cfg.logLevel, w))
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (*repository.Firestore, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newTokenIssuer creates the room token issuer, or nil when not configured
func (cfg *config) newTokenIssuer() *server.TokenIssuer {
	if cfg.livekitAPIKey == "" || cfg.livekitAPISecret == "" {
		return nil
	}
	return &server.TokenIssuer{
		URL:       cfg.livekitURL,
		APIKey:    cfg.livekitAPIKey,
		APISecret: cfg.livekitAPISecret,
		TTL:       cfg.tokenTTL,
	}
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context, bucketName string) (adapter.Storage, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	storage, err := adapter.NewStorage(ctx, bucketName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}
