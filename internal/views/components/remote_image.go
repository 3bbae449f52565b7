package components

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
)

const (
	CardImageHeight   = 140
	DetailImageHeight = 180
)

// ImageSource resolves an image URL to a displayable resource.
type ImageSource interface {
	Load(ctx context.Context, rawURL string) (fyne.Resource, error)
}

// NewRemoteImage returns an image showing a placeholder until rawURL has
// been downloaded in the background. Failed downloads keep the placeholder.
func NewRemoteImage(ctx context.Context, source ImageSource, rawURL string, height float32) *canvas.Image {
	img := canvas.NewImageFromResource(theme.FileImageIcon())
	img.FillMode = canvas.ImageFillContain
	img.ScaleMode = canvas.ImageScaleSmooth
	img.SetMinSize(fyne.NewSize(height, height))

	if source == nil || rawURL == "" {
		return img
	}

	go func() {
		res, err := source.Load(ctx, rawURL)
		if err != nil || ctx.Err() != nil {
			return
		}
		fyne.Do(func() {
			img.Resource = res
			img.Refresh()
		})
	}()

	return img
}
