// Command purged bridges a content platform's change hooks to Cloudflare cache
// purging for PDF attachments, alerting the site administrator by email when a
// purge fails.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mediaops/media-purge-go/awsx"
	"github.com/mediaops/media-purge-go/cloudflare"
	"github.com/mediaops/media-purge-go/events"
	"github.com/mediaops/media-purge-go/internal/httpx"
	"github.com/mediaops/media-purge-go/internal/server"
	"github.com/mediaops/media-purge-go/notify"
	"github.com/mediaops/media-purge-go/purge"
	"github.com/mediaops/media-purge-go/settings"
	"github.com/mediaops/media-purge-go/vault"
	"github.com/mediaops/media-purge-go/wpmedia"
)

func main() {
	configPath := flag.String("config", "config/purged.yaml", "path to the daemon config file")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := run(*configPath, logger); err != nil {
		logger.Fatal("purged exited", zap.Error(err))
	}
}

func run(configPath string, logger *zap.Logger) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	pgStore := settings.NewPostgresStore(pool)
	if err := pgStore.EnsureSchema(ctx); err != nil {
		return err
	}

	var store settings.Store = pgStore
	if cfg.Vault.Enabled {
		vaultClient, err := vault.NewFromEnv(vault.WithAddress(cfg.Vault.Address))
		if err != nil {
			return fmt.Errorf("create vault client: %w", err)
		}
		store = settings.WithTokenSource(pgStore,
			vault.NewTokenSource(vaultClient, cfg.Vault.Mount, cfg.Vault.Path, cfg.Vault.Field))
		logger.Info("vault token overlay enabled",
			zap.String("mount", cfg.Vault.Mount),
			zap.String("path", cfg.Vault.Path),
		)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		_ = rdb.Close()
	}()
	throttle := notify.NewRedisThrottle(rdb, "")

	factory, err := awsx.NewFactory(ctx, cfg.AWS.Region)
	if err != nil {
		return err
	}
	accountID, err := factory.AccountID(ctx)
	if err != nil {
		return fmt.Errorf("verify AWS credentials: %w", err)
	}
	logger.Info("AWS credentials verified",
		zap.String("account_id", accountID),
		zap.String("region", factory.Region()),
	)

	mailer, err := awsx.NewSESMailer(factory, cfg.AWS.FromAddress)
	if err != nil {
		return err
	}

	adminURL := cfg.Site.AdminURL
	notifier := notify.New(store, throttle, mailer, notify.Config{
		SiteName:         cfg.Site.Name,
		DefaultRecipient: cfg.Site.DefaultNotifyEmail,
		EditLink: func(resourceID int64) string {
			return fmt.Sprintf("%s/post.php?post=%d&action=edit", adminURL, resourceID)
		},
	}, logger)

	media, err := wpmedia.New(cfg.Site.URL)
	if err != nil {
		return fmt.Errorf("create media client: %w", err)
	}

	cdnHTTPClient := httpx.NewClient(httpx.DefaultTimeout)
	cdnBaseURL := cfg.Cloudflare.BaseURL
	clientFor := func(token string) (purge.CachePurger, error) {
		opts := []cloudflare.Option{cloudflare.WithHTTPClient(cdnHTTPClient)}
		if cdnBaseURL != "" {
			opts = append(opts, cloudflare.WithBaseURL(cdnBaseURL))
		}
		return cloudflare.New(token, opts...)
	}

	purger := purge.New(store, media, notifier, clientFor, logger)

	dispatcher := events.NewDispatcher()
	dispatcher.OnMetaUpdated(func(ctx context.Context, ev events.MetaUpdated) {
		purger.HandleMetaUpdate(ctx, ev.PostID, ev.MetaKey, ev.MetaValue)
	})
	dispatcher.OnAttachmentMetadata(func(ctx context.Context, ev events.AttachmentMetadata) map[string]any {
		metadata, _ := purger.HandleAttachmentMetadata(ctx, ev.Metadata, ev.PostID)
		return metadata
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.New(dispatcher, store, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("purged listening", zap.String("addr", cfg.Listen))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("purged stopped")
	return nil
}
