package views

import (
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

const (
	detailDialogHeight = 450
	newsDialogHeight   = 400
	updateDialogHeight = 400
	changelogHeight    = 120
)

// ShowProductDetail opens the product dialog, replacing any open detail
func (mv *MainView) ShowProductDetail(product models.Product) {
	fyne.Do(func() {
		content := mv.detailContent(product.Image, product.Description)

		d := dialog.NewCustomWithoutButtons(product.Name, content, mv.window)
		buttons := make([]fyne.CanvasObject, 0, 2)
		if product.Link != "" {
			open := widget.NewButton("Open link", func() {
				mv.publish(events.OpenLink, map[string]interface{}{"url": product.Link})
			})
			buttons = append(buttons, open)
		}
		buttons = append(buttons, widget.NewButton("Close", func() {
			mv.closeDetail(d)
		}))
		d.SetButtons(buttons)

		mv.showDetail(d, detailDialogHeight)
	})
}

// ShowNewsDetail opens the news dialog, replacing any open detail
func (mv *MainView) ShowNewsDetail(item models.NewsItem) {
	fyne.Do(func() {
		content := mv.detailContent(item.Image, item.Content)

		d := dialog.NewCustomWithoutButtons(item.Title, content, mv.window)
		d.SetButtons([]fyne.CanvasObject{
			widget.NewButton("Close", func() {
				mv.closeDetail(d)
			}),
		})

		mv.showDetail(d, newsDialogHeight)
	})
}

func (mv *MainView) detailContent(imageURL, text string) fyne.CanvasObject {
	body := widget.NewLabel(text)
	body.Wrapping = fyne.TextWrapWord

	box := container.NewVBox()
	if imageURL != "" {
		box.Add(components.NewRemoteImage(mv.ctx, mv.images, imageURL, components.DetailImageHeight))
	}
	box.Add(body)

	return container.NewVScroll(box)
}

// showDetail keeps at most one detail dialog on screen. Runs on the UI thread.
func (mv *MainView) showDetail(d dialog.Dialog, height float32) {
	mv.dismissDetail()

	mv.activeDialog = d
	d.Resize(mv.dialogSize(height))
	d.Show()
}

// closeDetail handles the Close button of d. Runs on the UI thread.
func (mv *MainView) closeDetail(d dialog.Dialog) {
	if mv.activeDialog != d {
		d.Hide()
		return
	}
	mv.dismissDetail()
	mv.publish(events.DialogClosed, nil)
}

func (mv *MainView) dismissDetail() {
	if mv.activeDialog == nil {
		return
	}
	previous := mv.activeDialog
	mv.activeDialog = nil
	previous.Hide()
}

func (mv *MainView) dialogSize(height float32) fyne.Size {
	width := mv.window.Canvas().Size().Width * 0.9
	if width <= 0 {
		width = 360
	}
	return fyne.NewSize(width, height)
}

// ShowUpdatePrompt offers the newer version. "Later" and "Update" both
// close the dialog.
func (mv *MainView) ShowUpdatePrompt(offer services.UpdateOffer) {
	fyne.Do(func() {
		if mv.updateDialog != nil {
			mv.updateDialog.Hide()
		}

		headline := widget.NewLabelWithStyle("Version "+offer.Version+" is available", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
		subtitle := widget.NewLabelWithStyle("An application update is available", fyne.TextAlignCenter, fyne.TextStyle{})
		box := container.NewVBox(headline, subtitle)

		if offer.Changelog != "" {
			changelog := widget.NewLabel(offer.Changelog)
			changelog.Wrapping = fyne.TextWrapWord
			scroll := container.NewVScroll(changelog)
			scroll.SetMinSize(fyne.NewSize(0, changelogHeight))
			box.Add(scroll)
		}

		d := dialog.NewCustomWithoutButtons("", box, mv.window)

		later := widget.NewButton("Later", func() {
			mv.closeUpdate(d)
			mv.publish(events.UpdateLater, nil)
		})
		update := widget.NewButton("Update", func() {
			mv.publish(events.UpdateAccept, nil)
			mv.closeUpdate(d)
		})
		update.Importance = widget.HighImportance
		d.SetButtons([]fyne.CanvasObject{later, update})

		mv.updateDialog = d
		d.Resize(mv.dialogSize(updateDialogHeight))
		d.Show()
	})
}

func (mv *MainView) closeUpdate(d dialog.Dialog) {
	d.Hide()
	if mv.updateDialog == d {
		mv.updateDialog = nil
	}
}
