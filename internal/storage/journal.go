package storage

import (
	"time"

	"focus-warden/internal/policy"
	"focus-warden/internal/wm"
	"focus-warden/pkg/core"
)

// Store is what the journal writes to.
type Store interface {
	Record(e Entry) error
}

// Journal records coordinator decisions. The first write error disables it
// so a broken database never slows the event loop down.
type Journal struct {
	store    Store
	reg      *wm.Registry
	log      core.Logger
	now      func() time.Time
	disabled bool
}

// NewJournal returns a journal over store. reg resolves the window a
// decision was weighed against; it may be nil.
func NewJournal(store Store, reg *wm.Registry, log core.Logger) *Journal {
	return &Journal{store: store, reg: reg, log: log, now: time.Now}
}

func (j *Journal) Decided(action string, w *wm.Window, v policy.Verdict) {
	if j.disabled {
		return
	}
	e := Entry{
		Timestamp:   j.now(),
		Action:      action,
		Window:      w.ID,
		Class:       w.Class,
		Allowed:     v.Allowed,
		Rule:        string(v.Rule),
		RequestTime: v.Time.String(),
	}
	if j.reg != nil {
		if against := j.reg.Get(v.Against); against != nil {
			e.Against = against.ID
		}
	}
	if err := j.store.Record(e); err != nil {
		j.log.Error("Failed to journal decision, disabling the journal", err, "action", action)
		j.disabled = true
	}
}

func (j *Journal) Disabled() bool { return j.disabled }
