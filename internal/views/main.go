package views

import (
	"context"
	"time"

	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
)

// Options carries the static text the view displays
type Options struct {
	AppName  string
	Version  string
	Currency string
	AboutURL string
}

// MainView is the tabbed storefront window content. The Show and Set
// methods may be called from any goroutine.
type MainView struct {
	window    fyne.Window
	publisher events.Publisher
	images    components.ImageSource
	options   Options

	ctx    context.Context
	cancel context.CancelFunc

	// UI Components
	tabs         *container.AppTabs
	productsBar  *components.RefreshBar
	newsBar      *components.RefreshBar
	productsGrid *fyne.Container
	newsList     *fyne.Container
	about        *components.AboutPanel

	// Owned by the UI thread
	productCards []*components.TappableCard
	newsCards    []*components.TappableCard
	activeDialog dialog.Dialog
	updateDialog dialog.Dialog
}

// NewMainView creates the view and installs it as the window content
func NewMainView(window fyne.Window, publisher events.Publisher, images components.ImageSource, options Options) *MainView {
	ctx, cancel := context.WithCancel(context.Background())

	view := &MainView{
		window:    window,
		publisher: publisher,
		images:    images,
		options:   options,
		ctx:       ctx,
		cancel:    cancel,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.productsBar = components.NewRefreshBar()
	mv.newsBar = components.NewRefreshBar()
	mv.productsGrid = container.NewGridWithColumns(2)
	mv.newsList = container.NewVBox()
	mv.about = components.NewAboutPanel(mv.options.AppName, mv.options.Version, mv.options.AboutURL)
}

func (mv *MainView) buildLayout() {
	productsTab := container.NewBorder(
		mv.productsBar.GetContainer(), nil, nil, nil,
		container.NewVScroll(container.NewPadded(mv.productsGrid)),
	)
	newsTab := container.NewBorder(
		mv.newsBar.GetContainer(), nil, nil, nil,
		container.NewVScroll(container.NewPadded(mv.newsList)),
	)

	mv.tabs = container.NewAppTabs(
		container.NewTabItemWithIcon("Products", theme.GridIcon(), productsTab),
		container.NewTabItemWithIcon("News", theme.ListIcon(), newsTab),
		container.NewTabItemWithIcon("About", theme.InfoIcon(), mv.about.GetContainer()),
	)
	mv.tabs.SetTabLocation(container.TabLocationBottom)

	mv.window.SetContent(mv.tabs)
}

func (mv *MainView) setupEventHandlers() {
	mv.productsBar.SetRefreshHandler(func() {
		mv.publish(events.RefreshProducts, nil)
	})
	mv.newsBar.SetRefreshHandler(func() {
		mv.publish(events.RefreshNews, nil)
	})
	mv.about.SetLinkHandler(func(url string) {
		mv.publish(events.OpenLink, map[string]interface{}{"url": url})
	})
}

func (mv *MainView) publish(eventType string, data map[string]interface{}) {
	mv.publisher.Publish(events.Event{Type: eventType, Data: data})
}

// ShowProducts replaces the product grid
func (mv *MainView) ShowProducts(products []models.Product) {
	fyne.Do(func() {
		cards := make([]*components.TappableCard, 0, len(products))
		objects := make([]fyne.CanvasObject, 0, len(products))

		for _, product := range products {
			card := mv.newProductCard(product)
			cards = append(cards, card)
			objects = append(objects, card)
		}

		mv.productCards = cards
		mv.productsGrid.Objects = objects
		mv.productsGrid.Refresh()
	})
}

func (mv *MainView) newProductCard(product models.Product) *components.TappableCard {
	var image *canvas.Image
	if product.Image != "" {
		image = components.NewRemoteImage(mv.ctx, mv.images, product.Image, components.CardImageHeight)
	}

	return components.NewTappableCard(
		product.Name,
		product.Price.Display(mv.options.Currency),
		image,
		nil,
		func() {
			mv.publish(events.ProductSelected, map[string]interface{}{"product": product})
		},
	)
}

// ShowNews replaces the news list
func (mv *MainView) ShowNews(news []models.NewsItem) {
	fyne.Do(func() {
		cards := make([]*components.TappableCard, 0, len(news))
		objects := make([]fyne.CanvasObject, 0, len(news))

		for _, item := range news {
			item := item // per-iteration copy; module targets go 1.21 (pre-1.22 loopvar semantics)
			card := components.NewTappableCard(item.Title, "", nil, nil, func() {
				mv.publish(events.NewsSelected, map[string]interface{}{"news": item})
			})
			cards = append(cards, card)
			objects = append(objects, card)
		}

		mv.newsCards = cards
		mv.newsList.Objects = objects
		mv.newsList.Refresh()
	})
}

// SetLastUpdateCheck shows when updates were last checked
func (mv *MainView) SetLastUpdateCheck(at time.Time) {
	fyne.Do(func() {
		mv.about.SetLastCheck(at)
	})
}

// ProductCount returns the number of rendered product cards
func (mv *MainView) ProductCount() int {
	return len(mv.productCards)
}

// NewsCount returns the number of rendered news cards
func (mv *MainView) NewsCount() int {
	return len(mv.newsCards)
}

// Shutdown stops pending image downloads and closes open dialogs
func (mv *MainView) Shutdown() {
	mv.cancel()
	fyne.Do(func() {
		mv.dismissDetail()
		if mv.updateDialog != nil {
			mv.updateDialog.Hide()
			mv.updateDialog = nil
		}
	})
}
