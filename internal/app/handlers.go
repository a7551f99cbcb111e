package app

import (
	"errors"
	"fmt"

	"focus-warden/internal/activation"
	"focus-warden/internal/ipc"
	"focus-warden/internal/policy"
	"focus-warden/internal/usertime"
	"focus-warden/internal/wm"
)

const defaultHistoryLimit = 20

var errJournalDisabled = errors.New("activation journal is disabled")

// dispatch runs one request on the event loop.
func (a *FocusWarden) dispatch(req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CmdMap:
		return a.handleMap(req)
	case ipc.CmdState:
		snap := a.coord.Snapshot()
		return ipc.Response{Status: ipc.StatusSuccess, State: &snap}
	case ipc.CmdHistory:
		return a.handleHistory(req)
	case ipc.CmdActivateAttention:
		ok := a.coord.ActivateAttentionWindow()
		return allowed("activate attention window", ok)
	case ipc.CmdDesktop:
		if req.Desktop < 1 {
			return ipc.Failure(fmt.Errorf("invalid desktop %d", req.Desktop))
		}
		a.desktops.SetCurrent(req.Desktop)
		a.coord.CurrentDesktopChanged(req.Desktop)
		return ipc.Success(fmt.Sprintf("desktop %d", req.Desktop))
	case ipc.CmdScreen:
		if req.Screen < 0 || req.Screen >= a.screens.Count() {
			return ipc.Failure(fmt.Errorf("invalid screen %d", req.Screen))
		}
		a.coord.SetCurrentScreen(req.Screen)
		return ipc.Success(fmt.Sprintf("screen %d", req.Screen))
	case ipc.CmdShowDesktop:
		a.coord.SetShowingDesktop(enabled(req))
		return ipc.Success("show desktop updated")
	case ipc.CmdPointer:
		a.pointer.Set(req.Window)
		return ipc.Success("pointer updated")
	case ipc.CmdSession:
		s, err := policy.ParseSessionState(req.Session)
		if err != nil {
			return ipc.Failure(err)
		}
		a.coord.SetSessionState(s)
		return ipc.Success("session " + s.String())
	case ipc.CmdPopup:
		return a.handlePopup(req)
	}

	h, w, err := a.lookup(req.Window)
	if err != nil {
		return ipc.Failure(err)
	}

	switch req.Command {
	case ipc.CmdUnmap:
		pid := w.PID
		a.coord.WindowRemoved(h)
		a.matcher.Forget(pid)
		return ipc.Success("removed " + req.Window)
	case ipc.CmdHide:
		w.Hidden = true
		a.coord.WindowHidden(h)
		return ipc.Success("hidden " + req.Window)
	case ipc.CmdShow:
		a.coord.Activate(h, false)
		return allowed("show "+req.Window, a.focused(h))
	case ipc.CmdFocusIn:
		a.coord.FocusIn(h)
		return allowed("focus in "+req.Window, a.coord.Active() == h)
	case ipc.CmdClick:
		a.coord.Click(h)
		return allowed("click "+req.Window, a.focused(h))
	case ipc.CmdActivate:
		return a.handleActivate(req, h)
	case ipc.CmdRaise:
		src, err := activation.ParseSource(req.Source)
		if err != nil {
			return ipc.Failure(err)
		}
		ok := a.coord.RaiseRequest(h, src, timeOr(req.Time, usertime.CurrentTime))
		return allowed("raise "+req.Window, ok)
	case ipc.CmdAttention:
		a.coord.SetDemandsAttention(h, enabled(req))
		return ipc.Success("attention updated")
	case ipc.CmdStartup:
		if req.Time == nil {
			return ipc.Failure(errors.New("startup needs a time"))
		}
		merged := a.coord.StartupNotified(h, usertime.Timestamp(*req.Time))
		return allowed("startup notification", merged)
	}

	return ipc.Failure(fmt.Errorf("unknown command %q", req.Command))
}

func (a *FocusWarden) handleMap(req ipc.Request) ipc.Response {
	if req.Window == "" {
		return ipc.Failure(errors.New("map needs a window id"))
	}
	kind, err := wm.ParseKind(req.Kind)
	if err != nil {
		return ipc.Failure(err)
	}

	wantsInput := true
	if req.WantsInput != nil {
		wantsInput = *req.WantsInput
	}
	desktop := req.Desktop
	if desktop == 0 {
		desktop = a.desktops.Current()
	}
	a.desktops.Ensure(desktop)
	a.screens.Ensure(req.Screen + 1)

	w := &wm.Window{
		ID:            req.Window,
		Class:         req.Class,
		Title:         req.Title,
		PID:           req.PID,
		Leader:        req.Leader,
		Kind:          kind,
		Desktop:       desktop,
		OnAllDesktops: req.OnAllDesktops,
		Screen:        req.Screen,
		Activities:    req.Activities,
		Minimized:     req.Minimized,
		Shaded:        req.Shaded,
		InActiveLayer: req.InActiveLayer,
		UserTime:      timeOr(req.UserTime, usertime.Unknown),
		Policy:        a.rules.Resolve(req.Class, wantsInput),
	}
	if req.ModalFor != "" {
		if h, ok := a.reg.Lookup(req.ModalFor); ok {
			w.ModalFor = h
		}
	}
	for _, id := range req.TransientFor {
		if h, ok := a.reg.Lookup(id); ok {
			w.TransientFor = append(w.TransientFor, h)
		}
	}

	if old, ok := a.reg.Lookup(req.Window); ok {
		a.coord.WindowRemoved(old)
	}
	h := a.reg.Add(w)
	ok := a.coord.WindowMapped(h)
	return allowed("mapped "+req.Window, ok)
}

func (a *FocusWarden) handleActivate(req ipc.Request, h wm.Handle) ipc.Response {
	src, err := activation.ParseSource(req.Source)
	if err != nil {
		return ipc.Failure(err)
	}
	requestor := wm.NoWindow
	if req.Requestor != "" {
		if r, ok := a.reg.Lookup(req.Requestor); ok {
			requestor = r
		}
	}
	a.coord.RequestActivation(h, src, timeOr(req.Time, usertime.CurrentTime), requestor)
	return allowed("activate "+req.Window, a.focused(h))
}

func (a *FocusWarden) handlePopup(req ipc.Request) ipc.Response {
	popup, owner := wm.NoWindow, wm.NoWindow
	if req.Window != "" {
		h, _, err := a.lookup(req.Window)
		if err != nil {
			return ipc.Failure(err)
		}
		popup = h
	}
	if req.Owner != "" {
		h, _, err := a.lookup(req.Owner)
		if err != nil {
			return ipc.Failure(err)
		}
		owner = h
	}
	a.coord.SetActivePopup(popup, owner)
	return ipc.Success("popup updated")
}

func (a *FocusWarden) handleHistory(req ipc.Request) ipc.Response {
	if a.db == nil {
		return ipc.Failure(errJournalDisabled)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	entries, err := a.db.Recent(limit)
	if err != nil {
		return ipc.Failure(err)
	}
	return ipc.Response{Status: ipc.StatusSuccess, History: entries}
}

func (a *FocusWarden) lookup(id string) (wm.Handle, *wm.Window, error) {
	if id == "" {
		return wm.NoWindow, nil, errors.New("missing window id")
	}
	h, ok := a.reg.Lookup(id)
	if !ok {
		return wm.NoWindow, nil, fmt.Errorf("unknown window %q", id)
	}
	return h, a.reg.Get(h), nil
}

// focused reports whether h is active or waiting for its focus-in.
func (a *FocusWarden) focused(h wm.Handle) bool {
	return a.coord.Active() == h || a.coord.IsPending(h)
}

func allowed(message string, ok bool) ipc.Response {
	resp := ipc.Success(message)
	resp.Allowed = &ok
	return resp
}

func enabled(req ipc.Request) bool {
	return req.Enabled == nil || *req.Enabled
}

func timeOr(t *uint32, fallback usertime.Timestamp) usertime.Timestamp {
	if t == nil {
		return fallback
	}
	return usertime.Timestamp(*t)
}
