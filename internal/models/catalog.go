package models

import (
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"
)

var (
	ErrMissingName  = errors.New("product has no name")
	ErrMissingTitle = errors.New("news item has no title")
)

// Product is one entry of products.json
type Product struct {
	Name        string `json:"name"`
	Price       Price  `json:"price"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
	Link        string `json:"link,omitempty"`
}

func (p Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrMissingName
	}
	return nil
}

// NewsItem is one entry of news.json
type NewsItem struct {
	Title   string `json:"title"`
	Image   string `json:"image,omitempty"`
	Content string `json:"content,omitempty"`
}

func (n NewsItem) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrMissingTitle
	}
	return nil
}

// CatalogStats summarises the catalog for the session metrics log line
type CatalogStats struct {
	Products        int
	News            int
	ProductsUpdated time.Time
	NewsUpdated     time.Time
}

// Catalog holds the products and news shown in the current session.
// Lists are only ever swapped as a whole.
type Catalog struct {
	mu              sync.RWMutex
	products        []Product
	news            []NewsItem
	productsUpdated time.Time
	newsUpdated     time.Time
}

// NewCatalog creates an empty catalog
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Products returns a copy of the current product list
func (c *Catalog) Products() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Product, len(c.products))
	copy(result, c.products)
	return result
}

// News returns a copy of the current news list
func (c *Catalog) News() []NewsItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]NewsItem, len(c.news))
	copy(result, c.news)
	return result
}

// ReplaceProducts validates every entry and swaps the list. On error the
// previous list is kept.
func (c *Catalog) ReplaceProducts(products []Product) error {
	for i, p := range products {
		if err := p.Validate(); err != nil {
			return errors.Wrapf(err, "product %d", i)
		}
	}

	next := make([]Product, len(products))
	copy(next, products)

	c.mu.Lock()
	c.products = next
	c.productsUpdated = time.Now()
	c.mu.Unlock()
	return nil
}

// ReplaceNews validates every entry and swaps the list. On error the
// previous list is kept.
func (c *Catalog) ReplaceNews(news []NewsItem) error {
	for i, n := range news {
		if err := n.Validate(); err != nil {
			return errors.Wrapf(err, "news item %d", i)
		}
	}

	next := make([]NewsItem, len(news))
	copy(next, news)

	c.mu.Lock()
	c.news = next
	c.newsUpdated = time.Now()
	c.mu.Unlock()
	return nil
}

func (c *Catalog) Stats() CatalogStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return CatalogStats{
		Products:        len(c.products),
		News:            len(c.news),
		ProductsUpdated: c.productsUpdated,
		NewsUpdated:     c.newsUpdated,
	}
}
