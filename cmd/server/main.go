package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	identityapp "github.com/erp/pos/internal/application/identity"
	inventoryapp "github.com/erp/pos/internal/application/inventory"
	partnerapp "github.com/erp/pos/internal/application/partner"
	printingapp "github.com/erp/pos/internal/application/printing"
	reportapp "github.com/erp/pos/internal/application/report"
	appshared "github.com/erp/pos/internal/application/shared"
	tradeapp "github.com/erp/pos/internal/application/trade"
	"github.com/erp/pos/internal/domain/identity"
	"github.com/erp/pos/internal/domain/inventory"
	"github.com/erp/pos/internal/domain/partner"
	"github.com/erp/pos/internal/domain/shared"
	"github.com/erp/pos/internal/domain/trade"
	"github.com/erp/pos/internal/infrastructure/config"
	"github.com/erp/pos/internal/infrastructure/lock"
	"github.com/erp/pos/internal/infrastructure/logger"
	"github.com/erp/pos/internal/infrastructure/notify"
	"github.com/erp/pos/internal/infrastructure/printing"
	"github.com/erp/pos/internal/infrastructure/storage"
	"github.com/erp/pos/internal/infrastructure/store"
	"github.com/erp/pos/internal/infrastructure/telemetry"
	"github.com/erp/pos/internal/interfaces/http/handler"
	"github.com/erp/pos/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Telemetry comes first so its log bridge can be teed into the logger
	bootLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	providers, err := telemetry.Setup(context.Background(), cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, providers.ZapCore())
	if err != nil {
		bootLog.Fatal("Failed to initialize logger", zap.Error(err))
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting POS server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("store", cfg.Store.Driver),
	)

	// Open the record store backend
	backend, err := store.Open(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to open record store", zap.Error(err))
	}
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("Error closing record store", zap.Error(err))
		}
	}()
	log.Info("Record store opened", zap.String("driver", backend.Driver))

	var lockClient redis.UniversalClient
	if backend.Redis != nil {
		lockClient = backend.Redis
	}
	guard := lock.NewGuard(cfg.Lock, lockClient, log)

	// Record stores, one per persisted key
	kv := backend.KV
	products := store.NewJSONRecordStore[inventory.Product](kv, log)
	purchases := store.NewJSONRecordStore[inventory.StockAddition](kv, log)
	sales := store.NewJSONRecordStore[trade.SaleTransaction](kv, log)
	payments := store.NewJSONRecordStore[trade.InstallmentPayment](kv, log)
	customers := store.NewJSONRecordStore[partner.Customer](kv, log)
	guarantors := store.NewJSONRecordStore[partner.Guarantor](kv, log)
	suppliers := store.NewJSONRecordStore[partner.Supplier](kv, log)
	accounts := store.NewJSONRecordStore[identity.Account](kv, log)
	productCounter := store.NewKVCounter(kv, log)

	// Metrics
	metrics, err := telemetry.NewPOSMetrics(providers.Meter())
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}

	// Notification sinks
	feed := notify.NewFeed(cfg.Notify.FeedSize)
	sinks := []shared.Notifier{notify.NewLogSink(log), feed, metrics}
	if cfg.Notify.WebhookURL != "" {
		webhook := notify.NewWebhookSink(notify.WebhookConfig{
			URL:       cfg.Notify.WebhookURL,
			Shop:      cfg.App.ShopName,
			Timeout:   cfg.Notify.WebhookTimeout,
			QueueSize: cfg.Notify.WebhookQueueSize,
		}, log)
		defer webhook.Close()
		sinks = append(sinks, webhook)
		log.Info("Notification webhook enabled", zap.String("url", cfg.Notify.WebhookURL))
	}
	notifier := notify.NewMulti(log, sinks...)

	// Printable documents
	printerOpts := []printing.Option{printing.WithLogger(log)}
	if cfg.Printing.PDFEnabled {
		renderer := printing.NewChromedpRenderer(printing.ChromedpConfig{
			DefaultTimeout: cfg.Printing.RenderTimeout,
			RemoteURL:      cfg.Printing.ChromeURL,
			NoSandbox:      os.Geteuid() == 0,
			Logger:         log,
		})
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing PDF renderer", zap.Error(err))
			}
		}()
		printerOpts = append(printerOpts, printing.WithPDFRenderer(renderer))
	}
	if cfg.Storage.Enabled {
		documents, err := storage.NewS3DocumentStore(context.Background(), &cfg.Storage, log)
		if err != nil {
			log.Fatal("Failed to initialize document storage", zap.Error(err))
		}
		printerOpts = append(printerOpts, printing.WithDocumentStore(documents))
	}
	printer, err := printing.NewPrinter(
		printing.Shop{Name: cfg.App.ShopName},
		printing.NewFormatter(cfg.App.Currency, language.English, time.Local),
		printerOpts...,
	)
	if err != nil {
		log.Fatal("Failed to load document templates", zap.Error(err))
	}

	// Application services
	serviceOpts := []appshared.Option{appshared.WithGuard(guard), appshared.WithMetrics(metrics)}
	productService := inventoryapp.NewProductService(products, purchases, productCounter, notifier, serviceOpts...)
	saleService := tradeapp.NewSaleService(tradeapp.Stores{
		Products:   products,
		Sales:      sales,
		Payments:   payments,
		Customers:  customers,
		Guarantors: guarantors,
	}, notifier, serviceOpts...)
	customerRegistry := partnerapp.NewCustomerRegistry(customers, notifier, serviceOpts...)
	guarantorRegistry := partnerapp.NewGuarantorRegistry(guarantors, notifier, serviceOpts...)
	supplierRegistry := partnerapp.NewSupplierRegistry(suppliers, notifier, serviceOpts...)
	accountService := identityapp.NewAccountService(accounts, notifier, serviceOpts...)
	reportService := reportapp.NewReportService(sales, purchases, payments, time.Local)
	printService := printingapp.NewPrintService(sales, purchases, payments, printer, notifier)

	engine, err := router.NewEngine(router.EngineConfig{
		HTTP:      cfg.HTTP,
		Telemetry: cfg.Telemetry,
		Logger:    log,
		Meter:     providers.Meter(),
	}, router.Handlers{
		Products:      handler.NewProductHandler(productService),
		Sales:         handler.NewSaleHandler(saleService),
		Customers:     handler.NewPartnerHandler(customerRegistry),
		Guarantors:    handler.NewPartnerHandler(guarantorRegistry),
		Suppliers:     handler.NewPartnerHandler(supplierRegistry),
		Admins:        handler.NewAccountHandler(accountService, identity.RoleAdmin),
		Users:         handler.NewAccountHandler(accountService, identity.RoleUser),
		Reports:       handler.NewReportHandler(reportService),
		Notifications: handler.NewNotificationHandler(feed, log),
		Prints:        handler.NewPrintHandler(printService),
		System:        handler.NewSystemHandler(cfg.App.Name, backend.Driver),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := providers.Shutdown(ctx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
