package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogReplaceProductsIsWholesale(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.ReplaceProducts([]Product{{Name: "A"}, {Name: "B"}}))
	require.NoError(t, c.ReplaceProducts([]Product{{Name: "C"}}))

	products := c.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "C", products[0].Name)
}

func TestCatalogRejectsInvalidPayloadAndKeepsPrevious(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.ReplaceProducts([]Product{{Name: "A"}}))
	require.NoError(t, c.ReplaceNews([]NewsItem{{Title: "Opening"}}))

	err := c.ReplaceProducts([]Product{{Name: "B"}, {Name: "  "}})
	assert.ErrorIs(t, err, ErrMissingName)
	assert.Equal(t, []Product{{Name: "A"}}, c.Products())

	err = c.ReplaceNews([]NewsItem{{Content: "no title"}})
	assert.ErrorIs(t, err, ErrMissingTitle)
	assert.Equal(t, []NewsItem{{Title: "Opening"}}, c.News())
}

func TestCatalogReturnsCopies(t *testing.T) {
	c := NewCatalog()
	input := []Product{{Name: "A"}}
	require.NoError(t, c.ReplaceProducts(input))

	input[0].Name = "mutated"
	out := c.Products()
	out[0].Name = "also mutated"

	assert.Equal(t, "A", c.Products()[0].Name)
}

func TestCatalogStats(t *testing.T) {
	c := NewCatalog()
	stats := c.Stats()
	assert.Zero(t, stats.Products)
	assert.True(t, stats.ProductsUpdated.IsZero())

	require.NoError(t, c.ReplaceProducts([]Product{{Name: "A"}, {Name: "B"}}))
	require.NoError(t, c.ReplaceNews(nil))

	stats = c.Stats()
	assert.Equal(t, 2, stats.Products)
	assert.Equal(t, 0, stats.News)
	assert.False(t, stats.ProductsUpdated.IsZero())
	assert.False(t, stats.NewsUpdated.IsZero())
}
