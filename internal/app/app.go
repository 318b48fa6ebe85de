package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/corray333/backend-labs/dukan/internal/dal/genai"
	"github.com/corray333/backend-labs/dukan/internal/dal/interfaces/ieventpublisher"
	"github.com/corray333/backend-labs/dukan/internal/dal/interfaces/ikvstore"
	"github.com/corray333/backend-labs/dukan/internal/dal/memory"
	"github.com/corray333/backend-labs/dukan/internal/dal/postgres"
	"github.com/corray333/backend-labs/dukan/internal/dal/rabbitmq"
	"github.com/corray333/backend-labs/dukan/internal/dal/redis"
	logrepo "github.com/corray333/backend-labs/dukan/internal/dal/repositories/event/log"
	rabbitmqrepo "github.com/corray333/backend-labs/dukan/internal/dal/repositories/event/rabbitmq"
	orderkv "github.com/corray333/backend-labs/dukan/internal/dal/repositories/order/kv"
	productkv "github.com/corray333/backend-labs/dukan/internal/dal/repositories/product/kv"
	settingskv "github.com/corray333/backend-labs/dukan/internal/dal/repositories/settings/kv"
	"github.com/corray333/backend-labs/dukan/internal/i18n"
	"github.com/corray333/backend-labs/dukan/internal/otel"
	"github.com/corray333/backend-labs/dukan/internal/service/services/countdownsvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/insightsvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/inventorysvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/metricssvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/ordersvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/paymentsvc"
	"github.com/corray333/backend-labs/dukan/internal/service/services/settingssvc"
	httptransport "github.com/corray333/backend-labs/dukan/internal/transport/http"
	"github.com/corray333/backend-labs/dukan/internal/worker/simulator"
	"github.com/spf13/viper"
)

// App represents the application.
type App struct {
	transport  *httptransport.HTTPTransport
	simulator  *simulator.Worker
	countdowns *countdownsvc.CountdownService
	insights   *insightsvc.InsightService

	// closers run in order on shutdown, after the workers have stopped.
	closers []closer
}

type closer struct {
	name  string
	close func(ctx context.Context) error
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	ctx := context.Background()
	a := &App{}

	var otelController *otel.OtelController
	if viper.GetBool("otel.enabled") {
		otelController = otel.MustInitOtel()
	}

	store := a.mustNewStore()
	publisher := a.mustNewPublisher()

	orderRepo := orderkv.NewOrderRepository(store)
	productRepo := productkv.NewProductRepository(store)
	settingsRepo := settingskv.NewSettingsRepository(store)

	inventorySvc := inventorysvc.MustNewInventoryService(
		inventorysvc.WithProductRepository(productRepo),
	)
	inventorySvc.Load(ctx)

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithOrderRepository(orderRepo),
		ordersvc.WithSettingsRepository(settingsRepo),
		ordersvc.WithInventory(inventorySvc),
		ordersvc.WithEventPublisher(publisher),
		ordersvc.WithStrictTransitions(viper.GetBool("orders.strict_transitions")),
	)
	orderSvc.Load(ctx)

	countdownSvc := countdownsvc.MustNewCountdownService(
		countdownsvc.WithOrderService(orderSvc),
	)

	sim := simulator.MustNewWorker(
		inventorySvc,
		orderSvc,
		countdownSvc,
		simulator.WithDelayRange(
			viper.GetDuration("simulator.min_delay"),
			viper.GetDuration("simulator.max_delay"),
		),
	)

	settingsSvc := settingssvc.MustNewSettingsService(
		settingssvc.WithSettingsRepository(settingsRepo),
		settingssvc.WithInventory(inventorySvc),
		settingssvc.WithInteractionMarker(sim),
	)

	insightSvc := insightsvc.MustNewInsightService(
		insightsvc.WithSource(genai.MustNewClient(ctx)),
		insightsvc.WithCatalog(inventorySvc),
		insightsvc.WithLanguageSource(settingsSvc),
		insightsvc.WithBreaker(insightsvc.BreakerSettings{
			MaxFailures: viper.GetUint32("insights.breaker.max_failures"),
			OpenTimeout: viper.GetDuration("insights.breaker.open_timeout"),
		}),
	)

	metricsSvc := metricssvc.MustNewMetricsService(
		metricssvc.WithOrderSource(orderSvc),
	)

	paymentSvc := paymentsvc.MustNewPaymentService(
		paymentsvc.WithOrderService(orderSvc),
		paymentsvc.WithPayee(viper.GetString("payments.upi_id"), viper.GetString("payments.payee_name")),
		paymentsvc.WithQRCodeURL(viper.GetString("payments.qr_code_url")),
	)

	orderSvc.OnStatusChange(countdownSvc.HandleStatusChange)
	orderSvc.OnStatusChange(sim.HandleStatusChange)
	inventorySvc.OnChange(sim.HandleInventoryChange)

	transport := httptransport.NewHTTPTransport(httptransport.Services{
		Orders:     orderSvc,
		Countdowns: countdownSvc,
		Inventory:  inventorySvc,
		Simulator:  sim,
		Insights:   insightSvc,
		Metrics:    metricsSvc,
		Payments:   paymentSvc,
		Settings:   settingsSvc,
		Catalog:    i18n.MustNewCatalog(),
	})
	transport.RegisterRoutes()

	a.transport = transport
	a.simulator = sim
	a.countdowns = countdownSvc
	a.insights = insightSvc

	if otelController != nil {
		a.closers = append(a.closers, closer{name: "Tracer", close: otelController.Shutdown})
	}

	return a
}

func (a *App) mustNewStore() ikvstore.IKVStore {
	switch backend := viper.GetString("store.backend"); backend {
	case "redis":
		client := redis.MustNewClient()
		a.closers = append(a.closers, closer{name: "Redis connection", close: func(context.Context) error {
			return client.Close()
		}})
		slog.Info("Using Redis store", "addr", viper.GetString("redis.addr"))

		return redis.NewStore(client, viper.GetString("redis.prefix"))
	case "postgres":
		client := postgres.MustNewClient()
		a.closers = append(a.closers, closer{name: "Database connection", close: func(context.Context) error {
			client.Close()

			return nil
		}})
		slog.Info("Using Postgres store")

		return postgres.NewStore(client)
	case "memory", "":
		slog.Info("Using in-memory store", "max_value_bytes", viper.GetInt("store.max_value_bytes"))

		return memory.NewStore(viper.GetInt("store.max_value_bytes"))
	default:
		panic("unknown store backend: " + backend)
	}
}

func (a *App) mustNewPublisher() ieventpublisher.IEventPublisher {
	if !viper.GetBool("rabbitmq.enabled") {
		return logrepo.NewEventLogRepository(slog.Default())
	}

	client := rabbitmq.MustNewClient()
	a.closers = append(a.closers, closer{name: "RabbitMQ connection", close: func(context.Context) error {
		return client.Close()
	}})

	return rabbitmqrepo.NewEventRabbitMQRepository(
		client,
		viper.GetString("rabbitmq.exchange"),
		viper.GetString("rabbitmq.queue"),
	)
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server", "port", viper.GetString("server.http.port"))
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	simulatorDone := make(chan struct{})
	go func() {
		defer close(simulatorDone)
		a.simulator.Start(ctx)
	}()

	// Initial insights, like the dashboard does on first load.
	go func() {
		for range a.insights.Refresh(ctx) {
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), viper.GetDuration("server.http.shutdown_timeout"))
	defer shutdownCancel()

	if err := a.transport.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.simulator.Stop()
	cancel()
	<-simulatorDone
	slog.Info("Order simulator stopped")

	a.countdowns.Stop()
	slog.Info("Countdowns stopped")

	for _, c := range a.closers {
		if err := c.close(shutdownCtx); err != nil {
			slog.Error(c.name+" close error", "error", err)
		} else {
			slog.Info(c.name + " closed gracefully")
		}
	}

	slog.Info("Application shutdown complete")
}
