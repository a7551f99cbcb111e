// Package ipc carries window events and queries over a unix socket, one JSON
// request and one JSON response per connection.
package ipc

import (
	"focus-warden/internal/activation"
	"focus-warden/internal/storage"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Commands understood by the daemon.
const (
	CmdMap               = "map"
	CmdUnmap             = "unmap"
	CmdHide              = "hide"
	CmdShow              = "show"
	CmdFocusIn           = "focus_in"
	CmdClick             = "click"
	CmdActivate          = "activate"
	CmdRaise             = "raise"
	CmdAttention         = "attention"
	CmdActivateAttention = "activate_attention"
	CmdDesktop           = "desktop"
	CmdScreen            = "screen"
	CmdShowDesktop       = "show_desktop"
	CmdPointer           = "pointer"
	CmdSession           = "session"
	CmdStartup           = "startup"
	CmdPopup             = "popup"
	CmdState             = "state"
	CmdHistory           = "history"
)

// Request is addressed to a window by its external id. Fields unrelated to
// the command are ignored.
type Request struct {
	Command string `json:"command"`
	Window  string `json:"window,omitempty"`

	// map
	Class         string   `json:"class,omitempty"`
	Title         string   `json:"title,omitempty"`
	PID           int32    `json:"pid,omitempty"`
	Leader        string   `json:"leader,omitempty"`
	Kind          string   `json:"kind,omitempty"`
	OnAllDesktops bool     `json:"on_all_desktops,omitempty"`
	Activities    []string `json:"activities,omitempty"`
	ModalFor      string   `json:"modal_for,omitempty"`
	TransientFor  []string `json:"transient_for,omitempty"`
	UserTime      *uint32  `json:"user_time,omitempty"`
	WantsInput    *bool    `json:"wants_input,omitempty"`
	Minimized     bool     `json:"minimized,omitempty"`
	Shaded        bool     `json:"shaded,omitempty"`
	InActiveLayer bool     `json:"in_active_layer,omitempty"`

	// map, desktop, screen
	Desktop int `json:"desktop,omitempty"`
	Screen  int `json:"screen,omitempty"`

	// activate, raise, startup
	Time      *uint32 `json:"time,omitempty"`
	Source    string  `json:"source,omitempty"`
	Requestor string  `json:"requestor,omitempty"`

	// attention, show_desktop
	Enabled *bool `json:"enabled,omitempty"`

	Session string `json:"session,omitempty"`
	Owner   string `json:"owner,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	// Allowed reports the policy outcome of commands that ask for one.
	Allowed *bool                `json:"allowed,omitempty"`
	State   *activation.Snapshot `json:"state,omitempty"`
	History []storage.Entry      `json:"history,omitempty"`
}

func Success(message string) Response {
	return Response{Status: StatusSuccess, Message: message}
}

func Failure(err error) Response {
	return Response{Status: StatusError, Message: err.Error()}
}

func (r Response) OK() bool { return r.Status == StatusSuccess }
