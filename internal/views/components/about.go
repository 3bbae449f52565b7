package components

import (
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// AboutPanel shows application name, version, channel link and the time
// of the last update check.
type AboutPanel struct {
	container      *fyne.Container
	nameLabel      *widget.Label
	versionLabel   *widget.Label
	linkButton     *widget.Button
	lastCheckLabel *widget.Label

	linkHandler func(url string)
	url         string
}

// NewAboutPanel creates a new about panel
func NewAboutPanel(appName, version, url string) *AboutPanel {
	ap := &AboutPanel{url: url}
	ap.createComponents(appName, version)
	ap.buildLayout()
	return ap
}

func (ap *AboutPanel) createComponents(appName, version string) {
	ap.nameLabel = widget.NewLabelWithStyle(appName, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	ap.versionLabel = widget.NewLabelWithStyle("Version "+version, fyne.TextAlignCenter, fyne.TextStyle{})

	ap.linkButton = widget.NewButton("Channel: "+ap.url, func() {
		if ap.linkHandler != nil {
			ap.linkHandler(ap.url)
		}
	})
	ap.linkButton.Importance = widget.LowImportance
	if ap.url == "" {
		ap.linkButton.Hide()
	}

	ap.lastCheckLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	ap.SetLastCheck(time.Time{})
}

func (ap *AboutPanel) buildLayout() {
	ap.container = container.NewCenter(container.NewVBox(
		ap.nameLabel,
		ap.versionLabel,
		ap.linkButton,
		widget.NewSeparator(),
		ap.lastCheckLabel,
	))
}

// SetLinkHandler sets the handler invoked with the channel URL
func (ap *AboutPanel) SetLinkHandler(handler func(url string)) {
	ap.linkHandler = handler
}

// SetLastCheck updates the last update check line. Must run on the UI thread.
func (ap *AboutPanel) SetLastCheck(at time.Time) {
	if at.IsZero() {
		ap.lastCheckLabel.SetText("Last update check: never")
		return
	}
	ap.lastCheckLabel.SetText(fmt.Sprintf("Last update check: %s", at.Local().Format("2006-01-02 15:04")))
}

// LastCheckText returns the current last-check line
func (ap *AboutPanel) LastCheckText() string {
	return ap.lastCheckLabel.Text
}

// LinkButton exposes the channel link button
func (ap *AboutPanel) LinkButton() *widget.Button {
	return ap.linkButton
}

// GetContainer returns the about panel container
func (ap *AboutPanel) GetContainer() *fyne.Container {
	return ap.container
}
