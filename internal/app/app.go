// Package app wires the activation coordinator to its sinks and runs the
// daemon event loop.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"focus-warden/internal/activation"
	"focus-warden/internal/export"
	"focus-warden/internal/ipc"
	"focus-warden/internal/storage"
	"focus-warden/internal/usertime"
	"focus-warden/internal/wm"
	"focus-warden/internal/workspace"
	"focus-warden/pkg/config"
	"focus-warden/pkg/logger"
	"focus-warden/pkg/notify"
	"focus-warden/pkg/sound"
)

const (
	journalRetention = 30 * 24 * time.Hour
	cleanupInterval  = time.Hour
)

// FocusWarden owns the coordinator. Every coordinator call runs on the
// event loop goroutine started by Run.
type FocusWarden struct {
	cfg   *config.Config
	log   *logger.Logger
	clock usertime.Clock

	reg        *wm.Registry
	mgr        *wm.Manager
	rules      *wm.Rules
	matcher    *wm.ProcessMatcher
	desktops   *workspace.Desktops
	activities *workspace.Activities
	screens    *workspace.Screens
	stack      *workspace.Stack
	pointer    *workspace.Pointer
	coord      *activation.Coordinator

	db       *storage.DB
	exporter *export.Exporter
	notifier *notify.NotifyService
	bell     *sound.Bell

	backend wm.Backend
	events  chan func()
	async   sync.WaitGroup
}

type Option func(*FocusWarden)

// WithBackend replaces the backend picked from the configuration.
func WithBackend(b wm.Backend) Option {
	return func(a *FocusWarden) { a.backend = b }
}

func WithClock(c usertime.Clock) Option {
	return func(a *FocusWarden) { a.clock = c }
}

func New(cfg *config.Config, log *logger.Logger, opts ...Option) (*FocusWarden, error) {
	log.Debug("Initializing Focus Warden")

	a := &FocusWarden{
		cfg:    cfg,
		log:    log,
		clock:  usertime.NewSystemClock(),
		events: make(chan func()),
	}
	for _, opt := range opts {
		opt(a)
	}

	options, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	if a.backend != nil {
		a.mgr = wm.NewManagerWithBackend(a.backend, log)
	} else {
		a.mgr, err = wm.NewManager(cfg.GetBackend(), log)
		if err != nil {
			return nil, fmt.Errorf("failed to create window manager: %w", err)
		}
	}

	a.reg = wm.NewRegistry()
	a.rules = rulesFromConfig(cfg)
	a.matcher = wm.NewProcessMatcher(log)
	a.desktops = workspace.NewDesktops(1, a.mgr, log)
	a.activities = workspace.NewActivities(nil)
	a.screens = workspace.NewScreens(1)
	a.stack = workspace.NewStack(a.reg, a.mgr, log)
	a.pointer = workspace.NewPointer(a.reg, a.mgr)

	deps := activation.Deps{
		Registry:   a.reg,
		Matcher:    a.matcher,
		Stacking:   a.stack,
		Desktops:   a.desktops,
		Activities: a.activities,
		Screens:    a.screens,
		Input:      a.stack,
		Pointer:    a.pointer,
		Popups:     workspace.NewPopups(log),
		Observer:   a.buildObservers(),
	}
	if dsn := cfg.GetJournalDSN(); dsn != "" {
		db, err := storage.Open(dsn, log)
		if err != nil {
			log.Error("Failed to open activation journal, continuing without it", err)
		} else {
			a.db = db
			deps.Auditor = storage.NewJournal(db, a.reg, log)
		}
	}

	a.coord = activation.New(deps, a.clock, options, log)
	a.coord.OnDeactivate(func(h wm.Handle) {
		if w := a.reg.Get(h); w != nil {
			log.Debug("Window deactivated", "window", w.ID)
		}
	})

	log.Info("Focus Warden initialized",
		"backend", a.mgr.GetWMName(),
		"focus_policy", options.FocusPolicy.String(),
		"journal", a.db != nil,
		"dbus", a.exporter != nil)
	return a, nil
}

func (a *FocusWarden) buildObservers() observers {
	obs := observers{changeLog{log: a.log}}

	if a.cfg.GetDBusExport() {
		e, err := export.Connect(a.log)
		if err != nil {
			a.log.Error("Failed to start D-Bus export, continuing without it", err)
		} else {
			a.exporter = e
			obs = append(obs, e)
		}
	}

	alerts := &attentionAlerts{log: a.log, async: a.goAsync}
	if a.cfg.GetAttentionNotify() {
		a.notifier = notify.NewNotifyService(a.cfg.GetNotifyCommand(), a.log)
		alerts.notifier = a.notifier
	}
	if a.cfg.GetAttentionBell() {
		bell, err := sound.NewBell()
		if err != nil {
			a.log.Error("Failed to initialize attention bell", err)
		} else {
			a.bell = bell
			alerts.bell = bell
		}
	}
	if alerts.notifier != nil || alerts.bell != nil {
		obs = append(obs, alerts)
	}
	return obs
}

func (a *FocusWarden) goAsync(fn func()) {
	a.async.Add(1)
	go func() {
		defer a.async.Done()
		fn()
	}()
}

// Run serves the control socket and processes events until ctx is done.
func (a *FocusWarden) Run(ctx context.Context) error {
	a.log.Info("Starting Focus Warden")

	server := ipc.NewServer(a.cfg.GetSocketPath(), a, a.log)
	if err := server.Listen(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		server.Serve(ctx)
	}()

	if path := a.cfg.GetPath(); path != "" {
		watcher, err := config.NewWatcher(path, a.log, func(c *config.Config) {
			a.post(ctx, func() { a.applyConfig(c) })
		})
		if err != nil {
			a.log.Error("Config hot reload unavailable", err, "path", path)
		} else {
			defer watcher.Close()
			wg.Add(1)
			go func() {
				defer wg.Done()
				watcher.Run(ctx)
			}()
		}
	}

	a.loop(ctx)
	wg.Wait()
	a.log.Info("Focus Warden stopped")
	return nil
}

func (a *FocusWarden) loop(ctx context.Context) {
	cleanup := time.NewTicker(cleanupInterval)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-a.events:
			fn()
		case <-cleanup.C:
			a.cleanupJournal()
		}
	}
}

// post runs fn on the event loop and waits for it.
func (a *FocusWarden) post(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case a.events <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Handle implements ipc.Handler.
func (a *FocusWarden) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	var resp ipc.Response
	if err := a.post(ctx, func() { resp = a.dispatch(req) }); err != nil {
		return ipc.Failure(fmt.Errorf("daemon is shutting down: %w", err))
	}
	return resp
}

func (a *FocusWarden) cleanupJournal() {
	if a.db == nil {
		return
	}
	if err := a.db.Cleanup(journalRetention); err != nil {
		a.log.Error("Failed to clean up activation journal", err)
	}
}

// applyConfig takes over the settings that can change at runtime. Sinks
// and the backend are fixed until restart.
func (a *FocusWarden) applyConfig(cfg *config.Config) {
	options, err := optionsFromConfig(cfg)
	if err != nil {
		a.log.Error("Ignoring reloaded configuration", err)
		return
	}
	a.coord.SetOptions(options)

	a.rules = rulesFromConfig(cfg)
	for _, h := range a.reg.Handles() {
		w := a.reg.Get(h)
		w.Policy = a.rules.Resolve(w.Class, w.Policy.WantsInput)
	}
	if a.notifier != nil {
		a.notifier.SetCommand(cfg.GetNotifyCommand())
	}
	a.cfg = cfg
	a.log.Info("Configuration reloaded", "path", cfg.GetPath())
}

// Close releases the sinks. Run must have returned.
func (a *FocusWarden) Close() {
	a.log.Info("Cleaning up Focus Warden")
	a.async.Wait()
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("Failed to close activation journal", err)
		}
	}
	if a.exporter != nil {
		if err := a.exporter.Close(); err != nil {
			a.log.Error("Failed to close D-Bus connection", err)
		}
	}
	if a.bell != nil {
		a.bell.Close()
	}
}
