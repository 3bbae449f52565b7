package services

import (
	"context"
	"net/url"
	"path"

	"fyne.io/fyne/v2"
	"github.com/go-faster/errors"

	"storefront/internal/logger"
)

// ImageLoader downloads card and detail images.
type ImageLoader struct {
	fetcher Fetcher
	logger  logger.Logger
}

func NewImageLoader(fetcher Fetcher, log logger.Logger) *ImageLoader {
	return &ImageLoader{fetcher: fetcher, logger: log}
}

// Load fetches rawURL and wraps the bytes as a resource named after the
// last path segment.
func (l *ImageLoader) Load(ctx context.Context, rawURL string) (fyne.Resource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse image url")
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.Errorf("image url %q is not an absolute http(s) url", rawURL)
	}

	data, err := l.fetcher.FetchBytes(ctx, rawURL)
	if err != nil {
		l.logger.Warning("ImageLoader", "image unavailable", map[string]interface{}{
			"url":   rawURL,
			"error": err.Error(),
		})
		return nil, err
	}

	name := path.Base(u.Path)
	if name == "." || name == "/" {
		name = "image"
	}
	return fyne.NewStaticResource(name, data), nil
}
