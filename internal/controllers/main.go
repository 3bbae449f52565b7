package controllers

import (
	"context"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/errors"

	"storefront/internal/events"
	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/services"
)

// View is what the controller drives. Implementations marshal calls onto
// the UI thread themselves.
type View interface {
	ShowProducts(products []models.Product)
	ShowNews(news []models.NewsItem)
	ShowProductDetail(product models.Product)
	ShowNewsDetail(item models.NewsItem)
	ShowUpdatePrompt(offer services.UpdateOffer)
	SetLastUpdateCheck(at time.Time)
}

// URLOpener hands URLs to the system browser.
type URLOpener interface {
	OpenURL(u *url.URL) error
}

type DetailKind int

const (
	DetailProduct DetailKind = iota + 1
	DetailNews
)

// Detail is the item whose dialog is currently open.
type Detail struct {
	Kind    DetailKind
	Product models.Product
	News    models.NewsItem
}

// MainController owns the session state and reacts to view events.
type MainController struct {
	catalog *services.CatalogService
	updates *services.UpdateChecker
	opener  URLOpener
	logger  logger.Logger

	mu     sync.RWMutex
	view   View
	detail *Detail

	started atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

func NewMainController(
	catalog *services.CatalogService,
	updates *services.UpdateChecker,
	opener URLOpener,
	log logger.Logger,
) *MainController {
	ctx, cancel := context.WithCancel(context.Background())

	return &MainController{
		catalog: catalog,
		updates: updates,
		opener:  opener,
		logger:  log,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// SetMainView associates the main view with this controller
func (mc *MainController) SetMainView(view View) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.view = view
}

func (mc *MainController) getView() View {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.view
}

// Subscribe registers the controller for every event the view emits.
func (mc *MainController) Subscribe(bus *events.Bus) {
	for _, eventType := range []string{
		events.UIReady,
		events.RefreshProducts,
		events.RefreshNews,
		events.ProductSelected,
		events.NewsSelected,
		events.DialogClosed,
		events.OpenLink,
		events.UpdateLater,
		events.UpdateAccept,
	} {
		bus.Subscribe(eventType, mc)
	}
}

func (mc *MainController) GetID() string {
	return "MainController"
}

// Handle dispatches a view event. It runs on the bus worker, never on the
// UI thread, so blocking fetches are fine here.
func (mc *MainController) Handle(event events.Event) {
	ctx := mc.ctx

	switch event.Type {
	case events.UIReady:
		mc.Start(ctx)
	case events.RefreshProducts:
		mc.RefreshProducts(ctx)
	case events.RefreshNews:
		mc.RefreshNews(ctx)
	case events.ProductSelected:
		if product, ok := event.Data["product"].(models.Product); ok {
			mc.SelectProduct(product)
		}
	case events.NewsSelected:
		if item, ok := event.Data["news"].(models.NewsItem); ok {
			mc.SelectNews(item)
		}
	case events.DialogClosed:
		mc.CloseDetail()
	case events.OpenLink:
		if link, ok := event.Data["url"].(string); ok {
			mc.OpenLink(link)
		}
	case events.UpdateLater:
		mc.DismissUpdate()
	case events.UpdateAccept:
		mc.AcceptUpdate()
	default:
		mc.logger.Debug("Controller", "unhandled event", map[string]interface{}{
			"type": event.Type,
		})
	}
}

// Start loads both lists and runs the update check. Repeated calls are ignored.
func (mc *MainController) Start(ctx context.Context) {
	if !mc.started.CompareAndSwap(false, true) {
		mc.logger.Debug("Controller", "already started", nil)
		return
	}

	if last, ok := mc.updates.LastChecked(ctx); ok {
		mc.getView().SetLastUpdateCheck(last)
	}

	mc.RefreshProducts(ctx)
	mc.RefreshNews(ctx)
	mc.CheckForUpdates(ctx)
}

// RefreshProducts reloads the catalog. The view is only touched on success.
func (mc *MainController) RefreshProducts(ctx context.Context) bool {
	products, err := mc.catalog.RefreshProducts(ctx)
	if err != nil {
		mc.logRefreshError("products", err)
		return false
	}

	mc.getView().ShowProducts(products)
	return true
}

// RefreshNews reloads the news feed. The view is only touched on success.
func (mc *MainController) RefreshNews(ctx context.Context) bool {
	news, err := mc.catalog.RefreshNews(ctx)
	if err != nil {
		mc.logRefreshError("news", err)
		return false
	}

	mc.getView().ShowNews(news)
	return true
}

func (mc *MainController) logRefreshError(list string, err error) {
	if errors.Is(err, services.ErrRefreshThrottled) {
		mc.logger.Debug("Controller", "refresh throttled", map[string]interface{}{
			"list": list,
		})
		return
	}
	mc.logger.Error("Controller", err, map[string]interface{}{
		"list": list,
	})
}

// CheckForUpdates runs the one-shot update check and prompts when a newer
// version exists.
func (mc *MainController) CheckForUpdates(ctx context.Context) {
	offer, ok := mc.updates.Check(ctx)

	if last, found := mc.updates.LastChecked(ctx); found {
		mc.getView().SetLastUpdateCheck(last)
	}
	if !ok {
		return
	}

	mc.logger.Info("Controller", "update available", map[string]interface{}{
		"current": offer.CurrentVersion,
		"latest":  offer.Version,
	})
	mc.getView().ShowUpdatePrompt(*offer)
}

func (mc *MainController) SelectProduct(product models.Product) {
	mc.mu.Lock()
	mc.detail = &Detail{Kind: DetailProduct, Product: product}
	mc.mu.Unlock()

	mc.getView().ShowProductDetail(product)
}

func (mc *MainController) SelectNews(item models.NewsItem) {
	mc.mu.Lock()
	mc.detail = &Detail{Kind: DetailNews, News: item}
	mc.mu.Unlock()

	mc.getView().ShowNewsDetail(item)
}

// CloseDetail forgets the open detail after the view dismissed its dialog.
func (mc *MainController) CloseDetail() {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.detail = nil
}

// CurrentDetail returns the item whose dialog is open, if any.
func (mc *MainController) CurrentDetail() (Detail, bool) {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if mc.detail == nil {
		return Detail{}, false
	}
	return *mc.detail, true
}

// OpenLink opens an absolute http(s) URL in the system browser.
func (mc *MainController) OpenLink(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		mc.logger.Warning("Controller", "refusing to open link", map[string]interface{}{
			"url": raw,
		})
		return false
	}

	if err := mc.opener.OpenURL(u); err != nil {
		mc.logger.Error("Controller", errors.Wrap(err, "open link"), map[string]interface{}{
			"url": raw,
		})
		return false
	}
	return true
}

func (mc *MainController) DismissUpdate() {
	if mc.updates.Later() {
		mc.logger.Info("Controller", "update postponed", nil)
	}
}

// AcceptUpdate dismisses the prompt and opens the download URL when there is one.
func (mc *MainController) AcceptUpdate() {
	downloadURL, ok := mc.updates.Accept()
	if !ok {
		return
	}
	if downloadURL == "" {
		mc.logger.Warning("Controller", "update has no download url", nil)
		return
	}
	mc.OpenLink(downloadURL)
}

// Shutdown cancels in-flight fetches.
func (mc *MainController) Shutdown() {
	mc.cancel()
	mc.logger.Info("Controller", "shutdown completed", nil)
}
