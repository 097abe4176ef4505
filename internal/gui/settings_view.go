package gui

import (
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// createSettingsView creates the settings view. Changes are written back to
// the config file; the file watcher then applies them, same as an external
// edit would.
func (a *App) createSettingsView() fyne.CanvasObject {
	server := widget.NewLabel("Dealer: " + a.cfg.Server.BaseURL)

	mute := widget.NewCheck("Mute sound cues", func(checked bool) {
		a.cfg.Sound.Muted = checked
		a.sound.SetMuted(checked || !a.cfg.Sound.Enabled)
		a.saveConfig()
	})
	mute.SetChecked(a.cfg.Sound.Muted)

	animations := widget.NewCheck("Animate dealt cards", func(checked bool) {
		a.cfg.Table.Animations = checked
		a.saveConfig()
	})
	animations.SetChecked(a.cfg.Table.Animations)

	return container.NewVBox(
		widget.NewLabelWithStyle("Settings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		server,
		widget.NewSeparator(),
		mute,
		animations,
	)
}

func (a *App) saveConfig() {
	if err := a.cfg.Save(); err != nil {
		log.Printf("[App] Save config: %v", err)
	}
}
