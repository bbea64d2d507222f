package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ListManager is a list of strings with an entry to add items and a button
// to remove the selected one
type ListManager struct {
	list        *widget.List
	entry       *widget.Entry
	data        []string
	selectedIdx int
	validate    func(string) error
	onChange    func()
	renderItem  func(string) string
	window      fyne.Window
}

// ListManagerConfig configures the list manager
type ListManagerConfig struct {
	Placeholder string              // Placeholder of the add entry
	RenderItem  func(string) string // Renders an item for display (optional)
	Validate    func(string) error  // Rejects an item before it is added (optional)
	OnChange    func()              // Called after an add or remove
	Window      fyne.Window         // Parent for validation errors
}

// NewListManager creates a new list manager component
func NewListManager(data []string, config ListManagerConfig) (*ListManager, *fyne.Container) {
	lm := &ListManager{
		data:        append([]string{}, data...),
		selectedIdx: -1,
		validate:    config.Validate,
		onChange:    config.OnChange,
		renderItem:  config.RenderItem,
		window:      config.Window,
	}

	lm.list = widget.NewList(
		func() int {
			return len(lm.data)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if i < len(lm.data) {
				text := lm.data[i]
				if lm.renderItem != nil {
					text = lm.renderItem(text)
				}
				label.SetText(text)
			}
		})

	lm.list.OnSelected = func(id widget.ListItemID) {
		lm.selectedIdx = id
	}

	lm.entry = widget.NewEntry()
	lm.entry.SetPlaceHolder(config.Placeholder)
	lm.entry.OnSubmitted = func(string) { lm.submitEntry() }

	plusButton := widget.NewButtonWithIcon("", theme.ContentAddIcon(), lm.submitEntry)
	minusButton := widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), lm.RemoveSelected)

	addControls := container.NewBorder(nil, nil, nil,
		container.NewHBox(plusButton, minusButton),
		lm.entry)

	listScroll := container.NewScroll(lm.list)
	listScroll.SetMinSize(fyne.NewSize(0, 150))

	listWithBorder := container.NewBorder(
		widget.NewSeparator(),
		widget.NewSeparator(),
		widget.NewSeparator(),
		widget.NewSeparator(),
		listScroll,
	)

	return lm, container.NewVBox(listWithBorder, addControls)
}

func (lm *ListManager) submitEntry() {
	if err := lm.AddItem(lm.entry.Text); err != nil {
		if lm.window != nil {
			dialog.ShowError(err, lm.window)
		}
		return
	}
	lm.entry.SetText("")
}

// GetData returns the current data
func (lm *ListManager) GetData() []string {
	return append([]string{}, lm.data...)
}

// SetData updates the data and refreshes
func (lm *ListManager) SetData(data []string) {
	lm.data = append([]string{}, data...)
	lm.list.UnselectAll()
	lm.selectedIdx = -1
	lm.list.Refresh()
}

// AddItem validates and appends an item
func (lm *ListManager) AddItem(item string) error {
	if lm.validate != nil {
		if err := lm.validate(item); err != nil {
			return err
		}
	}

	lm.data = append(lm.data, item)
	lm.list.Refresh()
	if lm.onChange != nil {
		lm.onChange()
	}
	return nil
}

// Select marks the item at index as selected
func (lm *ListManager) Select(index int) {
	lm.list.Select(index)
}

// RemoveSelected removes the currently selected item
func (lm *ListManager) RemoveSelected() {
	if lm.selectedIdx < 0 || lm.selectedIdx >= len(lm.data) {
		return
	}

	lm.data = append(lm.data[:lm.selectedIdx], lm.data[lm.selectedIdx+1:]...)
	lm.list.UnselectAll()
	lm.selectedIdx = -1
	lm.list.Refresh()
	if lm.onChange != nil {
		lm.onChange()
	}
}
