package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/agenda/pkg/form"
)

// DialogAlerter shows notices as single-button dialogs over a window
type DialogAlerter struct {
	window fyne.Window
}

func NewDialogAlerter(window fyne.Window) *DialogAlerter {
	return &DialogAlerter{window: window}
}

// Alert is safe to call from any goroutine
func (a *DialogAlerter) Alert(n form.Notice) {
	fyne.Do(func() {
		noticeDialog(n, a.window).Show()
	})
}

func noticeDialog(n form.Notice, parent fyne.Window) dialog.Dialog {
	icon := theme.ErrorIcon()
	if n.Severity == form.SeverityWarning {
		icon = theme.WarningIcon()
	}

	body := widget.NewLabel(n.Body)
	body.Wrapping = fyne.TextWrapWord
	content := container.NewBorder(nil, nil, widget.NewIcon(icon), nil, body)

	d := dialog.NewCustom(n.Title, "OK", content, parent)
	d.Resize(fyne.NewSize(360, 0))
	return d
}
