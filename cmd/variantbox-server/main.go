// cmd/variantbox-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/luisscruza/variantbox/internal/admin"
	"github.com/luisscruza/variantbox/internal/catalog"
	commonaws "github.com/luisscruza/variantbox/internal/common/aws"
	"github.com/luisscruza/variantbox/internal/common/config"
	"github.com/luisscruza/variantbox/internal/common/database"
	"github.com/luisscruza/variantbox/internal/common/logger"
	"github.com/luisscruza/variantbox/internal/common/observability"
	"github.com/luisscruza/variantbox/internal/notify"
	"github.com/luisscruza/variantbox/internal/server"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func buildNotifier(ctx context.Context, cfg *config.Config, log logger.Logger) (notify.OperatorNotifier, error) {
	if !cfg.Notifications.Enabled {
		return nil, nil
	}
	n := cfg.Notifications
	switch n.Provider {
	case "smtp":
		return notify.NewSMTPNotifier(n.SMTP, n.FromEmail, n.OperatorEmail, log), nil
	case "ses":
		client, err := commonaws.NewSESClient(ctx, n.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("init SES client: %w", err)
		}
		return notify.NewSESNotifier(client, n.FromEmail, n.OperatorEmail), nil
	case "sns":
		client, err := commonaws.NewSNSClient(ctx, n.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("init SNS client: %w", err)
		}
		return notify.NewSNSNotifier(client, n.AWS.SNSTopic), nil
	case "log":
		return notify.NewLogNotifier(log), nil
	}
	return nil, nil
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting variantbox server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Postgres with retry ---
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		zapLog.Fatal("postgres init failed", zap.Error(err))
	}
	defer pg.Close()

	err = retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return pg.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "Postgres connection")
	if err != nil {
		zapLog.Fatal("postgres unreachable", zap.Error(err))
	}

	// --- Redis with retry ---
	rdb, err := database.NewRedis(cfg.Database.Redis)
	if err != nil {
		zapLog.Fatal("redis init failed", zap.Error(err))
	}
	defer rdb.Close()

	err = retryWithBackoff(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return rdb.Ping(pingCtx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis unreachable", zap.Error(err))
	}

	// --- Optional Elasticsearch mirror ---
	var indexer *notify.Indexer
	if cfg.Database.Elasticsearch.Enabled {
		es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch init failed", zap.Error(err))
		}
		if err := es.Ping(); err != nil {
			zapLog.Warn("elasticsearch unreachable, continuing without search mirror", zap.Error(err))
		} else {
			indexer = notify.NewIndexer(es.Client, cfg.Database.Elasticsearch.Index, log)
		}
	}

	notifier, err := buildNotifier(ctx, cfg, log)
	if err != nil {
		zapLog.Fatal("notifier init failed", zap.Error(err))
	}

	catalogStore := catalog.NewStore(pg.GetDB(), log)
	adapter := catalog.NewAdapter(catalogStore, rdb.GetClient(), cfg.Catalog.CacheTTL, log)
	tokens := notify.NewTokenIssuer(rdb.GetClient(), cfg.Notifications.TokenTTL, log)
	notifyStore := notify.NewStore(pg.GetDB())
	notifyService := notify.NewService(notifyStore, tokens, catalogStore, notifier, indexer, log)
	defer notifyService.Close()

	var adminHandler *admin.Handler
	if cfg.Admin.Enabled {
		adminHandler = admin.NewHandler(notifyStore, catalogStore, cfg.Admin.PageSize, log)
	}

	router := server.New(server.Deps{
		Catalog:      adapter,
		Products:     catalogStore,
		Notify:       notifyService,
		Tokens:       tokens,
		AdminHandler: adminHandler,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", cfg.Server.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server failed", zap.Error(err))
		}
	}()

	// pprof on a side port, not exposed through the public router
	go func() {
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			zapLog.Warn("pprof listener failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown failed", zap.Error(err))
	}
}
