package services

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/store"
)

const (
	KeyLastCheckedAt = "update.last_checked_at"
	KeyLatestVersion = "update.latest_version"
)

type UpdateState int

const (
	StateNotChecked UpdateState = iota
	StateChecking
	StateNoUpdate
	StateUpdateAvailable
	StateDismissed
)

func (s UpdateState) String() string {
	switch s {
	case StateNotChecked:
		return "not_checked"
	case StateChecking:
		return "checking"
	case StateNoUpdate:
		return "no_update"
	case StateUpdateAvailable:
		return "update_available"
	case StateDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// UpdateOffer describes a newer release the user can download.
type UpdateOffer struct {
	CurrentVersion string
	Version        string
	DownloadURL    string
	Changelog      string
}

// UpdateChecker runs the update check at most once per process.
type UpdateChecker struct {
	fetcher        Fetcher
	store          store.Store
	currentVersion string
	logger         logger.Logger
	now            func() time.Time

	mu    sync.Mutex
	state UpdateState
	offer *UpdateOffer
}

func NewUpdateChecker(fetcher Fetcher, kv store.Store, currentVersion string, log logger.Logger) *UpdateChecker {
	return &UpdateChecker{
		fetcher:        fetcher,
		store:          kv,
		currentVersion: currentVersion,
		logger:         log,
		now:            time.Now,
		state:          StateNotChecked,
	}
}

func (c *UpdateChecker) State() UpdateState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *UpdateChecker) CurrentVersion() string {
	return c.currentVersion
}

// Check fetches version.json and returns an offer when the remote version
// is newer. Only the first call does any work; failures are logged and
// end the flow with no update.
func (c *UpdateChecker) Check(ctx context.Context) (*UpdateOffer, bool) {
	c.mu.Lock()
	if c.state != StateNotChecked {
		c.mu.Unlock()
		return nil, false
	}
	c.state = StateChecking
	c.mu.Unlock()

	offer, err := c.check(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Error("UpdateChecker", err, map[string]interface{}{
			"current_version": c.currentVersion,
		})
		c.state = StateNoUpdate
		return nil, false
	}
	if offer == nil {
		c.state = StateNoUpdate
		return nil, false
	}

	c.state = StateUpdateAvailable
	c.offer = offer
	return offer, true
}

func (c *UpdateChecker) check(ctx context.Context) (*UpdateOffer, error) {
	info := models.VersionInfo{Version: models.DefaultRemoteVersion}
	if err := c.fetcher.FetchJSON(ctx, ResourceVersion, &info); err != nil {
		return nil, errors.Wrap(err, "check for updates")
	}
	c.record(ctx, info)

	cmp, err := models.CompareVersions(c.currentVersion, info.Version)
	if err != nil {
		return nil, errors.Wrap(err, "compare versions")
	}

	c.logger.Info("UpdateChecker", "version checked", map[string]interface{}{
		"current": c.currentVersion,
		"latest":  info.Version,
	})

	if cmp >= 0 {
		return nil, nil
	}

	changelog, err := c.fetcher.FetchText(ctx, ResourceChangelog)
	if err != nil {
		c.logger.Warning("UpdateChecker", "changelog unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		changelog = ""
	}

	return &UpdateOffer{
		CurrentVersion: c.currentVersion,
		Version:        info.Version,
		DownloadURL:    info.DownloadURL,
		Changelog:      changelog,
	}, nil
}

func (c *UpdateChecker) record(ctx context.Context, info models.VersionInfo) {
	if c.store == nil {
		return
	}

	values := map[string]string{
		KeyLastCheckedAt: c.now().UTC().Format(time.RFC3339),
		KeyLatestVersion: info.Version,
	}
	for key, value := range values {
		if err := c.store.Put(ctx, key, value); err != nil {
			c.logger.Warning("UpdateChecker", "failed to record check", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
}

// LastChecked returns when a check last reached the host, in any session.
func (c *UpdateChecker) LastChecked(ctx context.Context) (time.Time, bool) {
	if c.store == nil {
		return time.Time{}, false
	}

	raw, err := c.store.Get(ctx, KeyLastCheckedAt)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			c.logger.Warning("UpdateChecker", "failed to read last check", map[string]interface{}{
				"error": err.Error(),
			})
		}
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Later dismisses an available update.
func (c *UpdateChecker) Later() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUpdateAvailable {
		return false
	}
	c.state = StateDismissed
	return true
}

// Accept dismisses an available update and returns its download URL.
func (c *UpdateChecker) Accept() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUpdateAvailable || c.offer == nil {
		return "", false
	}
	c.state = StateDismissed
	return c.offer.DownloadURL, true
}
