package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmacia/cmd"
	"farmacia/internal/adapters/out/kafka"
	"farmacia/internal/core/domain/model/settings"
	"farmacia/internal/core/ports"
	"farmacia/internal/pkg/telemetry"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName    = "farmacia-orders"
	serviceVersion = "1.0.0"

	shutdownTimeout = 10 * time.Second
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configs, logger); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, configs cmd.Config, logger *slog.Logger) error {
	shutdownTracer, err := telemetry.InitTracerProvider(ctx, configs.OTLPEndpoint, serviceName, serviceVersion)
	if err != nil {
		return fmt.Errorf("init tracer provider: %w", err)
	}
	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, serviceVersion)
	if err != nil {
		return fmt.Errorf("init meter provider: %w", err)
	}
	defer flush(logger, shutdownTracer, shutdownMeter)

	uowFactory, closeStore, err := cmd.OpenOrderStore(configs, logger)
	if err != nil {
		return err
	}
	defer closeStore() //nolint:errcheck // process is exiting

	publisher, closePublisher := statusEventPublisher(configs, logger)
	defer closePublisher()

	app, err := cmd.NewCompositionRoot(configs, uowFactory, publisher, logger)
	if err != nil {
		return err
	}

	jobManager := app.JobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	e := newWebServer(app, metricsHandler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "port", configs.HTTPPort)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("Shutting down HTTP server")
		return e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func newWebServer(app *cmd.CompositionRoot, metricsHandler http.Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware(serviceName)))

	e.GET("/metrics", echo.WrapHandler(metricsHandler))
	app.CreateServer().Register(e)

	return e
}

// statusEventPublisher returns a Kafka publisher in platform-managed mode when brokers are
// configured, or nil.
func statusEventPublisher(configs cmd.Config, logger *slog.Logger) (ports.StatusEventPublisher, func()) {
	current, err := configs.Settings()
	if err != nil || current.Mode != settings.PlatformManaged {
		return nil, func() {}
	}

	if len(configs.KafkaBrokers) == 0 {
		logger.Warn("Platform-managed mode without KAFKA_BROKERS, status changes will not be announced")
		return nil, func() {}
	}

	publisher := kafka.NewStatusEventPublisher(configs.KafkaBrokers, configs.KafkaStatusTopic, logger)
	return publisher, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to flush status events", "error", err)
		}
	}
}

func flush(logger *slog.Logger, shutdowns ...telemetry.ShutdownFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	for _, shutdown := range shutdowns {
		if err := shutdown(ctx); err != nil {
			logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}
}
