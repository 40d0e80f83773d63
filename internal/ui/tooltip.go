package ui

import (
	"fyne.io/fyne/v2"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// toolButton is an icon-only toolbar button with a hover tooltip.
func toolButton(icon fyne.Resource, tip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tip)
	return btn
}

// historyButton is the undo or redo button. Its tooltip names the step it
// would apply, e.g. "Undo Edit Cliente".
type historyButton struct {
	*ttwidget.Button
	action string
}

func newHistoryButton(icon fyne.Resource, action string, tapped func()) *historyButton {
	return &historyButton{Button: toolButton(icon, action, tapped), action: action}
}

func (b *historyButton) update(enabled bool, step string) {
	if b == nil {
		return
	}
	tip := b.action
	if step != "" {
		tip += " " + step
	}
	b.SetToolTip(tip)
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}
