package services

import (
	"context"

	"github.com/go-faster/errors"
	"golang.org/x/time/rate"

	"storefront/internal/logger"
	"storefront/internal/models"
)

// ErrRefreshThrottled is returned when refreshes arrive faster than the limiter allows.
var ErrRefreshThrottled = errors.New("refresh throttled")

// CatalogService loads products and news into the catalog.
type CatalogService struct {
	fetcher         Fetcher
	catalog         *models.Catalog
	productsLimiter *rate.Limiter
	newsLimiter     *rate.Limiter
	logger          logger.Logger
}

// NewCatalogService throttles each list independently to limit refreshes
// per second with the given burst. Pass rate.Inf to disable throttling.
func NewCatalogService(fetcher Fetcher, catalog *models.Catalog, limit rate.Limit, burst int, log logger.Logger) *CatalogService {
	return &CatalogService{
		fetcher:         fetcher,
		catalog:         catalog,
		productsLimiter: rate.NewLimiter(limit, burst),
		newsLimiter:     rate.NewLimiter(limit, burst),
		logger:          log,
	}
}

func (s *CatalogService) Catalog() *models.Catalog {
	return s.catalog
}

// RefreshProducts replaces the product list with products.json. On any
// error the current list stays as it is.
func (s *CatalogService) RefreshProducts(ctx context.Context) ([]models.Product, error) {
	if !s.productsLimiter.Allow() {
		return nil, ErrRefreshThrottled
	}

	var products []models.Product
	if err := s.fetcher.FetchJSON(ctx, ResourceProducts, &products); err != nil {
		return nil, errors.Wrap(err, "load products")
	}
	if err := s.catalog.ReplaceProducts(products); err != nil {
		return nil, errors.Wrap(err, "load products")
	}

	s.logger.Info("CatalogService", "products refreshed", map[string]interface{}{
		"count": len(products),
	})
	return s.catalog.Products(), nil
}

// RefreshNews replaces the news list with news.json. On any error the
// current list stays as it is.
func (s *CatalogService) RefreshNews(ctx context.Context) ([]models.NewsItem, error) {
	if !s.newsLimiter.Allow() {
		return nil, ErrRefreshThrottled
	}

	var news []models.NewsItem
	if err := s.fetcher.FetchJSON(ctx, ResourceNews, &news); err != nil {
		return nil, errors.Wrap(err, "load news")
	}
	if err := s.catalog.ReplaceNews(news); err != nil {
		return nil, errors.Wrap(err, "load news")
	}

	s.logger.Info("CatalogService", "news refreshed", map[string]interface{}{
		"count": len(news),
	})
	return s.catalog.News(), nil
}
