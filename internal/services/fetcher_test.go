package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/logger"
)

func TestResourceURL(t *testing.T) {
	for _, base := range []string{"https://host/data", "https://host/data/", "https://host/data//"} {
		f := NewHTTPFetcher(base, time.Second, logger.NoOpLogger{})
		assert.Equal(t, "https://host/data/products.json", f.ResourceURL("products.json"))
		assert.Equal(t, "https://host/data/news.json", f.ResourceURL("/news.json"))
	}
}

func TestFetchJSON(t *testing.T) {
	host := newStaticHost(t)
	host.set("/data/version.json", `{"version": "1.2", "download_url": "https://example.com/app.apk"}`)
	f := host.fetcher()

	var out map[string]string
	require.NoError(t, f.FetchJSON(context.Background(), ResourceVersion, &out))
	assert.Equal(t, "1.2", out["version"])
	assert.Len(t, f.Timings().GetTimings(ResourceVersion), 1)
}

func TestFetchJSONStatusError(t *testing.T) {
	host := newStaticHost(t)
	f := host.fetcher()

	var out []interface{}
	err := f.FetchJSON(context.Background(), ResourceProducts, &out)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Contains(t, statusErr.Error(), "products.json")
}

func TestFetchJSONDecodeError(t *testing.T) {
	host := newStaticHost(t)
	host.set("/data/news.json", `[{"title": "unterminated"`)
	f := host.fetcher()

	var out []interface{}
	err := f.FetchJSON(context.Background(), ResourceNews, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode news.json")
}

func TestFetchNetworkError(t *testing.T) {
	host := newStaticHost(t)
	f := host.fetcher()
	host.server.Close()

	_, err := f.FetchText(context.Background(), ResourceChangelog)
	assert.Error(t, err)
}

func TestFetchHonoursContext(t *testing.T) {
	host := newStaticHost(t)
	host.set("/data/changelog.txt", "fixes")
	f := host.fetcher()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.FetchText(ctx, ResourceChangelog)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFetchTextAndBytes(t *testing.T) {
	host := newStaticHost(t)
	host.set("/data/changelog.txt", "- faster start\n- new cards")
	host.set("/img/kettle.png", "PNGDATA")
	f := host.fetcher()

	text, err := f.FetchText(context.Background(), ResourceChangelog)
	require.NoError(t, err)
	assert.Equal(t, "- faster start\n- new cards", text)

	data, err := f.FetchBytes(context.Background(), host.server.URL+"/img/kettle.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("PNGDATA"), data)
}

func TestImageTimingsShareOneKey(t *testing.T) {
	host := newStaticHost(t)
	host.set("/img/kettle.png", "PNG1")
	host.set("/img/mug.png", "PNG2")
	f := host.fetcher()

	for i := 0; i < 3; i++ {
		_, err := f.FetchBytes(context.Background(), host.server.URL+"/img/kettle.png")
		require.NoError(t, err)
	}
	_, err := f.FetchBytes(context.Background(), host.server.URL+"/img/mug.png")
	require.NoError(t, err)

	assert.Len(t, f.Timings().GetTimings(OperationImage), 4)
	assert.Nil(t, f.Timings().GetTimings(host.server.URL+"/img/kettle.png"))
	assert.Nil(t, f.Timings().GetTimings(ResourceProducts))
}
