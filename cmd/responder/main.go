package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/your-org/cnm-responder/internal/catalog"
	"github.com/your-org/cnm-responder/internal/responder"
	"github.com/your-org/cnm-responder/pkg/config"
	"github.com/your-org/cnm-responder/pkg/kafka"
	"github.com/your-org/cnm-responder/pkg/logger"
	"github.com/your-org/cnm-responder/pkg/storage/objectstore"
	"github.com/your-org/cnm-responder/pkg/tracing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.New(cfg.App.LogLevel, cfg.App.Name)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	traceShutdown, err := tracing.Init(ctx, tracing.Config{
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		SampleRatio:    cfg.Tracing.SampleRatio,
		Attributes:     parseResourceAttributes(cfg.Tracing.ResourceAttr),
		ServiceName:    cfg.App.Name,
		ServiceVersion: cfg.App.Version,
	})
	if err != nil {
		logr.Fatal("init tracing", zap.Error(err))
	}
	defer traceShutdown(context.Background()) //nolint:errcheck

	store, err := objectstore.New(objectstore.Config{
		Provider:  cfg.Storage.Provider,
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
	})
	if err != nil {
		logr.Fatal("init object store", zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	catalogClient := catalog.NewClient(catalog.Config{
		URL:     cfg.Catalog.URL,
		UATURL:  cfg.Catalog.UATURL,
		Token:   cfg.Catalog.Token,
		Timeout: cfg.Catalog.Timeout,
	}, logr)

	service := responder.NewService(responder.Params{
		Catalog:      catalogClient,
		Staged:       responder.NewStagedRemover(store, cfg.Storage.BucketSuffix, logr),
		Output:       responder.NewOutputRemover(cfg.Cleanup.OutputMount, logr),
		RemoveOutput: cfg.Cleanup.RemoveOutput,
		Logger:       logr,
	})

	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		BatchSize:    cfg.Kafka.BatchSize,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		Compression:  kafka.CompressionFromString(cfg.Kafka.CompressionCodec),
		RequiredAcks: kafkago.RequireAll,
		MaxAttempts:  cfg.Kafka.Retries,
	})
	defer producer.Close(context.Background()) //nolint:errcheck

	reporter := responder.NewFailureReporter(producer, cfg.Kafka.FailureTopicMatch, logr)

	consumer := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.ResponseTopic,
		GroupID: cfg.Kafka.ConsumerGroup,
	})
	defer consumer.Close() //nolint:errcheck

	handler := responder.NewHTTPHandler(service, logr)
	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Error("ops server failed", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logr.Error("ops server shutdown failed", zap.Error(err))
		}
	}()

	logr.Info("responder starting",
		zap.String("topic", cfg.Kafka.ResponseTopic),
		zap.Strings("brokers", cfg.Kafka.Brokers),
	)

	for {
		msg, err := consumer.Fetch(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				logr.Info("responder stopping")
				return
			}
			logr.Fatal("fetch notification", zap.Error(err))
		}

		n, err := responder.ParseNotification(msg.Value)
		if err != nil {
			reportFailure(ctx, reporter, logr, "unknown", "unknown", err)
			os.Exit(1)
		}

		if err := service.Handle(ctx, n); err != nil {
			reportFailure(ctx, reporter, logr, n.Identifier, n.Collection, err)
			os.Exit(1)
		}

		if err := consumer.Commit(ctx, msg); err != nil {
			logr.Error("commit offset", zap.Error(err))
		}

		if cfg.App.RunOnce {
			logr.Info("single notification handled, exiting")
			return
		}
	}
}

// reportFailure logs and publishes the terminal failure; the caller exits
// non-zero. Offsets are not committed on this path so the bus re-delivers
// the notification.
func reportFailure(ctx context.Context, reporter *responder.FailureReporter, logr *zap.Logger, granule, collection string, err error) {
	logr.Error("ingestion response handling failed",
		zap.String("granule", granule),
		zap.String("collection", collection),
		zap.Error(err),
	)
	if rerr := reporter.Report(ctx, granule, collection, err.Error()); rerr != nil {
		logr.Error("publish failure notification", zap.Error(rerr))
	}
	logr.Error("exiting")
	logr.Sync() //nolint:errcheck
}

func parseResourceAttributes(raw string) map[string]string {
	if raw == "" {
		return map[string]string{}
	}
	attrs := map[string]string{}
	pairs := strings.Split(raw, ",")
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		if !strings.Contains(pair, "=") {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		attrs[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return attrs
}
