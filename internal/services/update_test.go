package services

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/logger"
	"storefront/internal/store"
)

func newChecker(host *staticHost, current string) (*UpdateChecker, *store.MemoryStore) {
	kv := store.NewMemoryStore()
	c := NewUpdateChecker(host.fetcher(), kv, current, logger.NoOpLogger{})
	c.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return c, kv
}

func TestUpdateAvailable(t *testing.T) {
	host := newStaticHost(t)
	host.set("/data/version.json", `{"version": "1.2", "download_url": "https://example.com/app.apk"}`)
	host.set("/data/changelog.txt", "- new news tab")
	c, kv := newChecker(host, "1.1")

	offer, ok := c.Check(context.Background())
	require.True(t, ok)
	assert.Equal(t, &UpdateOffer{
		CurrentVersion: "1.1",
		Version:        "1.2",
		DownloadURL:    "https://example.com/app.apk",
		Changelog:      "- new news tab",
	}, offer)
	assert.Equal(t, StateUpdateAvailable, c.State())

	v, err := kv.Get(context.Background(), KeyLatestVersion)
	require.NoError(t, err)
	assert.Equal(t, "1.2", v)

	last, ok := c.LastChecked(context.Background())
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), last)
}

func TestUpdateAvailableWithoutChangelog(t *testing.T) {
	host := newStaticHost(t)
	host.set("/data/version.json", `{"version": "2.0", "download_url": ""}`)
	c, _ := newChecker(host, "1.1")

	offer, ok := c.Check(context.Background())
	require.True(t, ok)
	assert.Empty(t, offer.Changelog)
	assert.Equal(t, 1, host.hitCount("/data/changelog.txt"))
}

func TestNoUpdateFound(t *testing.T) {
	cases := map[string]string{
		"same version":           `{"version": "1.1"}`,
		"older remote":           `{"version": "1.0.9"}`,
		"longer equal prefix":    `{"version": "1.1.5"}`,
		"missing version field":  `{"download_url": "https://example.com"}`,
		"non-numeric version":    `{"version": "1.2-beta"}`,
		"malformed version json": `{"version": `,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			host := newStaticHost(t)
			host.set("/data/version.json", body)
			c, _ := newChecker(host, "1.1")

			offer, ok := c.Check(context.Background())
			assert.False(t, ok)
			assert.Nil(t, offer)
			assert.Equal(t, StateNoUpdate, c.State())
			assert.Zero(t, host.hitCount("/data/changelog.txt"))
		})
	}
}

func TestUpdateCheckNetworkFailureIsSilent(t *testing.T) {
	host := newStaticHost(t)
	host.fail("/data/version.json", http.StatusServiceUnavailable)
	c, kv := newChecker(host, "1.1")

	_, ok := c.Check(context.Background())
	assert.False(t, ok)
	assert.Equal(t, StateNoUpdate, c.State())

	_, err := kv.Get(context.Background(), KeyLastCheckedAt)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, ok = c.LastChecked(context.Background())
	assert.False(t, ok)
}

func TestUpdateCheckRunsOnce(t *testing.T) {
	host := newStaticHost(t)
	host.set("/data/version.json", `{"version": "1.2"}`)
	c, _ := newChecker(host, "1.1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	offers := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := c.Check(context.Background()); ok {
				mu.Lock()
				offers++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, offers)
	assert.Equal(t, 1, host.hitCount("/data/version.json"))
}

func TestUpdateLaterAndAccept(t *testing.T) {
	host := newStaticHost(t)
	host.set("/data/version.json", `{"version": "1.2", "download_url": "https://example.com/app.apk"}`)

	c, _ := newChecker(host, "1.1")
	assert.False(t, c.Later(), "nothing to dismiss before a check")
	c.Check(context.Background())
	assert.True(t, c.Later())
	assert.Equal(t, StateDismissed, c.State())
	_, ok := c.Accept()
	assert.False(t, ok)

	c, _ = newChecker(host, "1.1")
	c.Check(context.Background())
	url, ok := c.Accept()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/app.apk", url)
	assert.Equal(t, StateDismissed, c.State())
	assert.False(t, c.Later())
}

func TestUpdateStateString(t *testing.T) {
	assert.Equal(t, "not_checked", StateNotChecked.String())
	assert.Equal(t, "update_available", StateUpdateAvailable.String())
	assert.Equal(t, "unknown", UpdateState(42).String())
}
