package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"time"

	"storefront/internal/config"
	"storefront/internal/controllers"
	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/shutdown"
	"storefront/internal/store"
	"storefront/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"golang.org/x/time/rate"
)

const (
	AppName = "Storefront"
	AppID   = "com.storefront.app"

	dataFileName     = "app_data.db"
	eventBuffer      = 64
	windowWidth      = 420
	windowHeight     = 780
	storeOpenTimeout = 5 * time.Second
)

// Application holds the wired components for the lifetime of the process
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger
	config  config.Config

	controller *controllers.MainController
	view       *views.MainView
	bus        *events.Bus
	fetcher    *services.HTTPFetcher
	catalog    *models.Catalog
	kv         store.Store

	shutdown *shutdown.Manager
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration invalid: %v", err)
	}

	application := NewApplication(cfg)
	application.Run()
}

// NewApplication creates and wires every component
func NewApplication(cfg config.Config) *Application {
	appLogger := logger.New(logger.Options{
		Level: logger.ParseLevel(cfg.LogLevel),
		JSON:  cfg.JSONLogs,
		Fields: map[string]interface{}{
			"app_version": cfg.CurrentVersion,
		},
	})

	app.SetMetadata(fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: cfg.CurrentVersion,
	})
	fyneApp := app.NewWithID(AppID)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(windowWidth, windowHeight))
	window.CenterOnScreen()

	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":    cfg.CurrentVersion,
		"base_url":   cfg.BaseURL,
		"go_version": runtime.Version(),
		"log_level":  cfg.LogLevel,
	})

	kv := openStore(fyneApp, cfg, appLogger)

	fetcher := services.NewHTTPFetcher(cfg.BaseURL, cfg.HTTPTimeout, appLogger)
	catalog := services.NewCatalogService(fetcher, models.NewCatalog(),
		rate.Limit(cfg.RefreshRate), cfg.RefreshBurst, appLogger)
	updates := services.NewUpdateChecker(fetcher, kv, cfg.CurrentVersion, appLogger)
	images := services.NewImageLoader(fetcher, appLogger)

	bus := events.NewBus(eventBuffer)
	bus.OnPanic(func(event events.Event, recovered interface{}) {
		appLogger.Error("EventBus", fmt.Errorf("handler panic: %v", recovered), map[string]interface{}{
			"event": event.Type,
		})
	})

	mainView := views.NewMainView(window, bus, images, views.Options{
		AppName:  AppName,
		Version:  cfg.CurrentVersion,
		Currency: cfg.Currency,
		AboutURL: cfg.AboutURL,
	})

	mainController := controllers.NewMainController(catalog, updates, fyneApp, appLogger)
	mainController.SetMainView(mainView)
	mainController.Subscribe(bus)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     appLogger,
		config:     cfg,
		controller: mainController,
		view:       mainView,
		bus:        bus,
		fetcher:    fetcher,
		catalog:    catalog.Catalog(),
		kv:         kv,
		shutdown:   shutdown.NewManager(appLogger, shutdown.DefaultTimeout),
	}

	application.registerShutdown()
	application.setupLifecycle()

	return application
}

// openStore opens the SQLite store in the app storage root, falling back to
// memory so a read-only storage never blocks startup.
func openStore(fyneApp fyne.App, cfg config.Config, log logger.Logger) store.Store {
	path := cfg.DataPath
	if path == "" {
		if root := fyneApp.Storage().RootURI(); root != nil {
			path = filepath.Join(root.Path(), dataFileName)
		}
	}
	if path == "" {
		log.Warning("Application", "no storage root, using memory store", nil)
		return store.NewMemoryStore()
	}

	ctx, cancel := context.WithTimeout(context.Background(), storeOpenTimeout)
	defer cancel()

	kv, err := store.OpenSQLite(ctx, path)
	if err != nil {
		log.Error("Application", err, map[string]interface{}{
			"path": path,
		})
		return store.NewMemoryStore()
	}

	log.Debug("Application", "store opened", map[string]interface{}{
		"path": path,
	})
	return kv
}

// registerShutdown orders teardown: the store goes last, after everything
// that may still write to it.
func (a *Application) registerShutdown() {
	a.shutdown.Register("store", shutdown.ShutdownFunc(func() {
		if err := a.kv.Close(); err != nil {
			a.logger.Error("Application", err, map[string]interface{}{
				"step": "store",
			})
		}
	}))
	a.shutdown.Register("event bus", a.bus)
	a.shutdown.Register("controller", a.controller)
	a.shutdown.Register("view", a.view)
	a.shutdown.Register("metrics", shutdown.ShutdownFunc(a.logMetrics))
}

func (a *Application) setupLifecycle() {
	a.fyneApp.Lifecycle().SetOnStarted(func() {
		a.logger.Debug("Application", "ui started", nil)
		a.bus.Publish(events.Event{Type: events.UIReady})
	})

	a.window.SetCloseIntercept(func() {
		a.logger.Info("Application", "window close requested", nil)
		go func() {
			a.shutdown.Shutdown()
			fyne.Do(a.window.Close)
		}()
	})

	a.window.SetOnClosed(func() {
		a.logger.Info("Application", "window closed", nil)
	})

	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})
}

func (a *Application) logMetrics() {
	timings := a.fetcher.Timings()
	stats := a.catalog.Stats()
	fields := map[string]interface{}{
		"dropped_events": a.bus.Dropped(),
		"products":       stats.Products,
		"news":           stats.News,
	}
	if !stats.ProductsUpdated.IsZero() {
		fields["products_updated"] = stats.ProductsUpdated
	}
	if !stats.NewsUpdated.IsZero() {
		fields["news_updated"] = stats.NewsUpdated
	}
	for _, operation := range []string{
		services.ResourceProducts,
		services.ResourceNews,
		services.ResourceVersion,
		services.ResourceChangelog,
		services.OperationImage,
	} {
		if n := len(timings.GetTimings(operation)); n > 0 {
			fields[operation+"_fetches"] = n
			fields[operation+"_avg_ms"] = timings.GetAverageTime(operation).Milliseconds()
		}
	}
	a.logger.Info("Application", "session metrics", fields)
}

// Run shows the window and blocks until the application exits
func (a *Application) Run() {
	a.window.ShowAndRun()
	a.shutdown.Shutdown()
	a.logger.Info("Application", "terminated", nil)
}
