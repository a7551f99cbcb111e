package app

import (
	"focus-warden/internal/activation"
	"focus-warden/internal/wm"
	"focus-warden/pkg/core"
	"focus-warden/pkg/notify"
)

// observers fans activation changes out to every sink.
type observers []activation.Observer

func (o observers) ActiveWindowChanged(w *wm.Window) {
	for _, obs := range o {
		obs.ActiveWindowChanged(w)
	}
}

func (o observers) AttentionChanged(w *wm.Window, demands bool) {
	for _, obs := range o {
		obs.AttentionChanged(w, demands)
	}
}

type changeLog struct {
	log core.Logger
}

func (c changeLog) ActiveWindowChanged(w *wm.Window) {
	if w == nil {
		c.log.Info("No active window")
		return
	}
	c.log.Info("Active window changed", "window", w.ID, "class", w.Class, "title", w.Title)
}

func (c changeLog) AttentionChanged(w *wm.Window, demands bool) {
	c.log.Info("Attention changed", "window", w.ID, "class", w.Class, "demands", demands)
}

// Notifier shows a desktop notification.
type Notifier interface {
	Show(title, message string, nType notify.NotificationType) error
}

// Ringer plays the attention bell.
type Ringer interface {
	Ring() error
}

// attentionAlerts tells the user about windows that were denied focus.
type attentionAlerts struct {
	notifier Notifier
	bell     Ringer
	log      core.Logger
	// async runs slow work off the event loop
	async func(fn func())
}

func (a *attentionAlerts) ActiveWindowChanged(*wm.Window) {}

func (a *attentionAlerts) AttentionChanged(w *wm.Window, demands bool) {
	if !demands {
		return
	}
	if a.bell != nil {
		if err := a.bell.Ring(); err != nil {
			a.log.Error("Failed to ring attention bell, disabling it", err)
			a.bell = nil
		}
	}
	if a.notifier == nil {
		return
	}
	title := w.Class
	if title == "" {
		title = w.ID
	}
	message := w.Title
	if message == "" {
		message = "wants your attention"
	}
	n, log, id := a.notifier, a.log, w.ID
	a.async(func() {
		if err := n.Show(title, message, notify.Attention); err != nil {
			log.Error("Failed to show attention notification", err, "window", id)
		}
	})
}
