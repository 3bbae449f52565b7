package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// RefreshBar is the "Refresh" button shown above each list
type RefreshBar struct {
	container      *fyne.Container
	refreshButton  *widget.Button
	refreshHandler func()
}

// NewRefreshBar creates a new refresh bar component
func NewRefreshBar() *RefreshBar {
	bar := &RefreshBar{}
	bar.createComponents()
	bar.buildLayout()
	return bar
}

func (rb *RefreshBar) createComponents() {
	rb.refreshButton = widget.NewButtonWithIcon("Refresh", theme.ViewRefreshIcon(), func() {
		if rb.refreshHandler != nil {
			rb.refreshHandler()
		}
	})
	rb.refreshButton.Importance = widget.HighImportance
}

func (rb *RefreshBar) buildLayout() {
	rb.container = container.NewCenter(rb.refreshButton)
}

// SetRefreshHandler sets the handler for refresh requests
func (rb *RefreshBar) SetRefreshHandler(handler func()) {
	rb.refreshHandler = handler
}

// Button exposes the refresh button
func (rb *RefreshBar) Button() *widget.Button {
	return rb.refreshButton
}

// GetContainer returns the refresh bar container
func (rb *RefreshBar) GetContainer() *fyne.Container {
	return rb.container
}
