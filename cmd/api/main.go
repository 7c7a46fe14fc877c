package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"cloud.google.com/go/firestore"
	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lichtwerk/api/internal/geo"
	"github.com/lichtwerk/api/internal/handlers"
	"github.com/lichtwerk/api/internal/payments"
	"github.com/lichtwerk/api/internal/platform/config"
	pfirestore "github.com/lichtwerk/api/internal/platform/firestore"
	"github.com/lichtwerk/api/internal/platform/idempotency"
	"github.com/lichtwerk/api/internal/platform/jobs"
	"github.com/lichtwerk/api/internal/platform/observability"
	"github.com/lichtwerk/api/internal/platform/secrets"
	"github.com/lichtwerk/api/internal/priceboard"
	"github.com/lichtwerk/api/internal/repositories"
	firestoreRepo "github.com/lichtwerk/api/internal/repositories/firestore"
	"github.com/lichtwerk/api/internal/services"

	"github.com/oklog/ulid/v2"
)

func main() {
	ctx := context.Background()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")
	ctx = observability.WithLogger(ctx, logger)

	envValues, err := config.EnvironmentValues()
	if err != nil {
		logger.Fatal("failed to read environment values", zap.Error(err))
	}

	fetcher, err := newSecretFetcher(ctx, logger, envValues)
	if err != nil {
		logger.Fatal("failed to initialise secret fetcher", zap.Error(err))
	}
	defer func() {
		if err := fetcher.Close(); err != nil {
			logger.Warn("secret fetcher close error", zap.Error(err))
		}
	}()

	cfg, err := config.Load(ctx,
		config.WithSecretResolver(config.SecretResolverFunc(fetcher.Resolve)),
	)
	if err != nil {
		var missing *config.MissingSecretsError
		if errors.As(err, &missing) {
			logger.Fatal("missing required secrets", zap.Strings("secrets", missing.RedactedNames()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	firestoreProvider := pfirestore.NewProvider(cfg.Firestore)
	firestoreClient, err := firestoreProvider.Client(ctx)
	if err != nil {
		logger.Fatal("failed to initialise firestore client", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := firestoreProvider.Close(closeCtx); err != nil {
			logger.Warn("firestore close error", zap.Error(err))
		}
	}()

	orderRepo, err := firestoreRepo.NewOrderRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise order repository", zap.Error(err))
	}
	designRepo, err := firestoreRepo.NewDesignRepository(firestoreProvider)
	if err != nil {
		logger.Fatal("failed to initialise design repository", zap.Error(err))
	}

	var pubsubClient *pubsub.Client
	var orderTopic *pubsub.Topic
	var publisher services.OrderEventPublisher
	if projectID := strings.TrimSpace(cfg.Firestore.ProjectID); projectID != "" {
		pubsubClient, err = pubsub.NewClient(ctx, projectID)
		if err != nil {
			logger.Fatal("failed to initialise pubsub client", zap.Error(err))
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logger.Warn("pubsub close error", zap.Error(err))
			}
		}()
		orderTopic = pubsubClient.Topic(cfg.Jobs.OrderTopic)
		pub, err := jobs.NewPubSubOrderPublisher(orderTopic)
		if err != nil {
			logger.Fatal("failed to initialise order publisher", zap.Error(err))
		}
		publisher = pub
	} else {
		logger.Warn("pubsub disabled: no project id configured; order events will not be published")
	}

	metrics := observability.NewCalculationRecorder()

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Designs: designRepo,
		Logger:  services.EventLogger(observability.NewEventLogger(logger.Named("catalog"))),
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}

	var board services.BoardFetcher
	if strings.TrimSpace(cfg.PriceBoard.BoardID) != "" {
		boardClient, err := priceboard.NewClient(priceboard.ClientDeps{
			Endpoint: cfg.PriceBoard.Endpoint,
			APIToken: cfg.PriceBoard.APIToken,
			BoardID:  cfg.PriceBoard.BoardID,
			Client:   &http.Client{Timeout: cfg.PriceBoard.RequestTimeout},
		})
		if err != nil {
			logger.Fatal("failed to initialise price board client", zap.Error(err))
		}
		board = boardClient
	} else {
		logger.Warn("price board disabled: no board id configured; fallback prices stay active")
	}

	priceSync, err := services.NewPriceSyncService(services.PriceSyncServiceDeps{
		Board:   board,
		Catalog: catalogService,
		Logger:  services.EventLogger(observability.NewEventLogger(logger.Named("pricing"))),
		Metrics: metrics,
	})
	if err != nil {
		logger.Fatal("failed to initialise price sync service", zap.Error(err))
	}

	geoHTTPClient := &http.Client{Timeout: cfg.Geo.RequestTimeout}
	nominatim, err := geo.NewNominatimClient(geo.NominatimClientDeps{
		BaseURL:   cfg.Geo.NominatimBaseURL,
		Country:   cfg.Geo.Country,
		UserAgent: cfg.Geo.UserAgent,
		Client:    geoHTTPClient,
	})
	if err != nil {
		logger.Fatal("failed to initialise nominatim client", zap.Error(err))
	}
	osrm, err := geo.NewOSRMClient(geo.OSRMClientDeps{
		BaseURL: cfg.Geo.OSRMBaseURL,
		Client:  geoHTTPClient,
	})
	if err != nil {
		logger.Fatal("failed to initialise osrm client", zap.Error(err))
	}
	distanceResolver, err := geo.NewResolver(geo.ResolverDeps{
		Geocoder:         nominatim,
		Router:           osrm,
		OriginPostalCode: cfg.Geo.OriginPostalCode,
	})
	if err != nil {
		logger.Fatal("failed to initialise distance resolver", zap.Error(err))
	}

	pricingEngine, err := services.NewSignPricingEngine(services.SignPricingEngineDeps{
		Prices: priceSync,
		Logger: services.EventLogger(observability.NewEventLogger(logger.Named("pricing"))),
	})
	if err != nil {
		logger.Fatal("failed to initialise pricing engine", zap.Error(err))
	}
	shippingCalc, err := services.NewShippingCalculator(services.ShippingCalculatorDeps{
		Prices:   priceSync,
		Distance: distanceResolver,
		Logger:   services.EventLogger(observability.NewEventLogger(logger.Named("shipping"))),
	})
	if err != nil {
		logger.Fatal("failed to initialise shipping calculator", zap.Error(err))
	}
	quoteService, err := services.NewQuoteService(services.QuoteServiceDeps{
		Pricing:  pricingEngine,
		Shipping: shippingCalc,
		Catalog:  catalogService,
		Logger:   services.EventLogger(observability.NewEventLogger(logger.Named("quotes"))),
		Metrics:  metrics,
	})
	if err != nil {
		logger.Fatal("failed to initialise quote service", zap.Error(err))
	}

	var psp payments.Provider
	if strings.TrimSpace(cfg.PSP.StripeAPIKey) != "" {
		paymentsLogger := logger.Named("payments")
		stripeProvider, err := payments.NewStripeProvider(payments.StripeProviderConfig{
			APIKey: cfg.PSP.StripeAPIKey,
			Logger: payments.StripeLogger(observability.NewEventLogger(paymentsLogger)),
		})
		if err != nil {
			logger.Fatal("failed to initialise stripe provider", zap.Error(err))
		}
		psp = stripeProvider
	} else {
		logger.Warn("stripe disabled: no api key configured; submissions will not open checkout sessions")
	}

	orderService, err := services.NewOrderService(services.OrderServiceDeps{
		Orders:    orderRepo,
		Catalog:   catalogService,
		Quotes:    quoteService,
		Publisher: publisher,
		PSP:       psp,
		URLs:      checkoutURLsFromEnv(envValues),
		Logger:    services.EventLogger(observability.NewEventLogger(logger.Named("orders"))),
		IDGen: func() string {
			return ulid.Make().String()
		},
		InstallationDisabled: !cfg.Features.EnableInstallation,
	})
	if err != nil {
		logger.Fatal("failed to initialise order service", zap.Error(err))
	}

	var webhookHandlers *handlers.WebhookHandlers
	if psp != nil && strings.TrimSpace(cfg.PSP.StripeWebhookSecret) != "" {
		paymentService, err := services.NewPaymentService(services.PaymentServiceDeps{
			PSP:    psp,
			Logger: services.EventLogger(observability.NewEventLogger(logger.Named("payments"))),
		})
		if err != nil {
			logger.Fatal("failed to initialise payment service", zap.Error(err))
		}
		webhookHandlers = handlers.NewWebhookHandlers(cfg.PSP.StripeWebhookSecret, paymentService)
	} else {
		logger.Warn("stripe webhooks disabled: provider or endpoint secret not configured")
	}

	healthRepo, err := newHealthRepository(firestoreClient, fetcher, orderTopic, envValues)
	if err != nil {
		logger.Fatal("failed to initialise health repository", zap.Error(err))
	}
	systemService, err := services.NewSystemService(services.SystemServiceDeps{
		Health: healthRepo,
		Prices: priceSync,
	})
	if err != nil {
		logger.Fatal("failed to initialise system service", zap.Error(err))
	}

	idempotencyMiddleware := idempotency.Middleware(
		idempotency.NewMemoryStore(),
		idempotency.WithHeader(cfg.Idempotency.Header),
		idempotency.WithTTL(cfg.Idempotency.TTL),
		idempotency.WithLogger(zap.NewStdLog(logger.Named("idempotency"))),
	)

	syncCtx, syncCancel := context.WithCancel(context.Background())
	var syncWG sync.WaitGroup
	if cfg.Features.EnableBoardSync && board != nil {
		syncWG.Add(1)
		go func() {
			defer syncWG.Done()
			if err := priceSync.Run(syncCtx, cfg.PriceBoard.RefreshInterval); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("price sync loop stopped", zap.Error(err))
			}
		}()
	}

	middlewares := []func(http.Handler) http.Handler{
		observability.InjectLoggerMiddleware(logger.Named("http")),
		observability.TraceMiddleware(cfg.Firestore.ProjectID),
		observability.RecoveryMiddleware(logger.Named("http")),
		observability.RequestLoggerMiddleware(cfg.Firestore.ProjectID),
	}

	routerOpts := []handlers.Option{
		handlers.WithMiddlewares(middlewares...),
		handlers.WithHealthHandlers(handlers.NewHealthHandlers(systemService)),
		handlers.WithDesignRoutes(handlers.NewDesignHandlers(catalogService).Routes),
		handlers.WithQuoteRoutes(handlers.NewQuoteHandlers(quoteService, catalogService).Routes),
		handlers.WithDistanceRoutes(handlers.NewDistanceHandlers(distanceResolver).Routes),
		handlers.WithOrderRoutes(handlers.NewOrderHandlers(orderService, quoteService).Routes, idempotencyMiddleware),
		handlers.WithInternalRoutes(handlers.NewInternalHandlers(priceSync, systemService).Routes),
	}
	if webhookHandlers != nil {
		routerOpts = append(routerOpts, handlers.WithWebhookRoutes(webhookHandlers.Routes))
	}
	router := handlers.NewRouter(routerOpts...)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("lichtwerk api listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	syncCancel()
	syncWG.Wait()

	if orderTopic != nil {
		orderTopic.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newSecretFetcher(ctx context.Context, logger *zap.Logger, env map[string]string) (*secrets.Fetcher, error) {
	lookup := func(key string) string {
		if env == nil {
			return ""
		}
		return strings.TrimSpace(env[key])
	}

	fallbackPath := lookup("API_SECRET_FALLBACK_FILE")
	if fallbackPath == "" {
		fallbackPath = ".secrets.local"
	}
	defaultProject := lookup("API_SECRET_DEFAULT_PROJECT_ID")
	if defaultProject == "" {
		defaultProject = lookup("API_FIRESTORE_PROJECT_ID")
	}

	return secrets.NewFetcher(ctx,
		secrets.WithLogger(logger.Named("secrets")),
		secrets.WithDefaultProject(defaultProject),
		secrets.WithFallbackFile(fallbackPath),
	)
}

func checkoutURLsFromEnv(env map[string]string) services.CheckoutURLs {
	success := strings.TrimSpace(env["API_CHECKOUT_SUCCESS_URL"])
	if success == "" {
		success = "https://lichtwerk.example/bestellung/danke"
	}
	cancel := strings.TrimSpace(env["API_CHECKOUT_CANCEL_URL"])
	if cancel == "" {
		cancel = "https://lichtwerk.example/bestellung/abbruch"
	}
	return services.CheckoutURLs{SuccessURL: success, CancelURL: cancel}
}

func newHealthRepository(client *firestore.Client, fetcher *secrets.Fetcher, topic *pubsub.Topic, env map[string]string) (repositories.HealthRepository, error) {
	checks := make([]repositories.DependencyCheck, 0, 3)
	if client != nil {
		c := client
		checks = append(checks, repositories.DependencyCheck{
			Name:    "firestore",
			Timeout: 1500 * time.Millisecond,
			Check: func(ctx context.Context) error {
				iter := c.Collections(ctx)
				_, err := iter.Next()
				if errors.Is(err, iterator.Done) {
					return nil
				}
				return err
			},
		})
	}
	if fetcher != nil {
		const healthReference = "secret://system/healthz?version=latest"
		f := fetcher
		checks = append(checks, repositories.DependencyCheck{
			Name:    "secretManager",
			Timeout: time.Second,
			Check: func(ctx context.Context) error {
				_, err := f.Resolve(ctx, healthReference)
				if err == nil {
					return nil
				}
				// A missing probe secret still proves the service answers.
				if st, ok := status.FromError(err); ok && st.Code() == codes.NotFound {
					return nil
				}
				return err
			},
		})
	}
	if topic != nil {
		t := topic
		checks = append(checks, repositories.DependencyCheck{
			Name:    "pubsub",
			Timeout: 1500 * time.Millisecond,
			Check: func(ctx context.Context) error {
				ok, err := t.Exists(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("topic %s does not exist", t.ID())
				}
				return nil
			},
		})
	}

	return repositories.NewDependencyHealthRepository(checks, repositories.WithBuildInfo(buildInfoFromEnv(env)))
}

func buildInfoFromEnv(env map[string]string) repositories.BuildInfo {
	version := strings.TrimSpace(env["API_BUILD_VERSION"])
	if version == "" {
		version = "dev"
	}
	commit := strings.TrimSpace(env["API_BUILD_COMMIT_SHA"])
	if commit == "" {
		commit = "unknown"
	}
	environment := strings.TrimSpace(env["API_ENVIRONMENT"])
	if environment == "" {
		environment = "local"
	}
	return repositories.BuildInfo{
		Version:     version,
		CommitSHA:   commit,
		Environment: environment,
	}
}
