package cmd

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/declarr/declarr/config"
	gitsource "github.com/declarr/declarr/internal/providers/config/git"
	secretsfile "github.com/declarr/declarr/internal/providers/secrets/file"
	"github.com/declarr/declarr/prowlarr"
	"github.com/declarr/declarr/reconcile"
)

const (
	cachePassphraseEnv = "DECLARR_CACHE_PASSPHRASE"
	cachePathEnv       = "DECLARR_CACHE_PATH"
)

func buildLogger(cmd *cobra.Command) zerolog.Logger {
	levelName, _ := cmd.Flags().GetString("log-level")
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(levelName)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var writer io.Writer = zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}
	if asJSON, _ := cmd.Flags().GetBool("log-json"); asJSON {
		writer = cmd.ErrOrStderr()
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func loadDocument(ctx context.Context, cmd *cobra.Command) (*config.Document, error) {
	path, _ := cmd.Flags().GetString("config")
	repoURL, _ := cmd.Flags().GetString("config-repo")
	if strings.TrimSpace(repoURL) == "" {
		return config.Load(path)
	}

	branch, _ := cmd.Flags().GetString("config-branch")
	source, err := gitsource.NewSource(repoURL, path, gitsource.WithBranch(branch))
	if err != nil {
		return nil, err
	}
	return source.Load(ctx)
}

// buildClient wires the API client for the configured instance. An absent
// API key is looked up in the encrypted cache first and then discovered from
// the instance's bootstrap endpoint.
func buildClient(ctx context.Context, instance config.Instance, logger zerolog.Logger) (*prowlarr.Client, error) {
	hostURL := instance.HostURL()

	clientOptions := []prowlarr.ClientOption{
		prowlarr.WithClientLogger(logger),
		prowlarr.WithInsecureTLS(instance.InsecureTLS()),
	}
	if timeout := instance.Timeout(); timeout > 0 {
		clientOptions = append(clientOptions, prowlarr.WithTimeout(timeout))
	}

	apiKey := strings.TrimSpace(instance.APIKey)
	if apiKey == "" {
		apiKey = resolveAPIKey(ctx, hostURL, logger, clientOptions)
	}

	return prowlarr.NewClient(hostURL, apiKey, clientOptions...)
}

func buildReconciler(ctx context.Context, instance config.Instance, logger zerolog.Logger, verify bool) (*reconcile.Reconciler, error) {
	client, err := buildClient(ctx, instance, logger)
	if err != nil {
		return nil, err
	}
	accessor := prowlarr.NewAccessor(client, prowlarr.WithAccessorLogger(logger))
	return reconcile.New(accessor,
		reconcile.WithLogger(logger),
		reconcile.WithVerify(verify),
	), nil
}

func resolveAPIKey(ctx context.Context, hostURL string, logger zerolog.Logger, clientOptions []prowlarr.ClientOption) string {
	cache := openAPIKeyCache(logger)
	if cache != nil {
		if cached, err := cache.Get(ctx, hostURL); err == nil {
			logger.Debug().Msg("using cached API key")
			return cached
		}
	}

	discovered, err := prowlarr.DiscoverAPIKey(ctx, hostURL, clientOptions...)
	if err != nil {
		logger.Warn().Err(err).Msg("API key discovery failed, proceeding without credentials")
		return ""
	}
	logger.Debug().Msg("discovered API key from the instance")
	if cache != nil {
		if err := cache.Store(ctx, hostURL, discovered); err != nil {
			logger.Warn().Err(err).Msg("could not cache the discovered API key")
		}
	}
	return discovered
}

func openAPIKeyCache(logger zerolog.Logger) *secretsfile.APIKeyCache {
	passphrase := os.Getenv(cachePassphraseEnv)
	if strings.TrimSpace(passphrase) == "" {
		return nil
	}
	path := os.Getenv(cachePathEnv)
	if strings.TrimSpace(path) == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = home + "/.config/declarr/api-keys.json"
	}
	cache, err := secretsfile.NewAPIKeyCache(path, passphrase)
	if err != nil {
		logger.Warn().Err(err).Msg("api key cache unavailable")
		return nil
	}
	return cache
}
