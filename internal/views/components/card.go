package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// TappableCard is a widget.Card that reports taps.
type TappableCard struct {
	widget.Card
	OnTapped func()
}

// NewTappableCard creates a card; image and content may be nil.
func NewTappableCard(title, subtitle string, image *canvas.Image, content fyne.CanvasObject, tapped func()) *TappableCard {
	card := &TappableCard{OnTapped: tapped}
	card.Title = title
	card.Subtitle = subtitle
	card.Image = image
	card.Content = content
	card.ExtendBaseWidget(card)
	return card
}

func (c *TappableCard) Tapped(*fyne.PointEvent) {
	if c.OnTapped != nil {
		c.OnTapped()
	}
}
