package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"focus-warden/internal/ipc"
)

func newStateCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the active window, focus chain and attention list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.send(ipc.Request{Command: ipc.CmdState})
			if err != nil {
				return err
			}
			return c.print(resp.State)
		},
	}
}

func newHistoryCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent activation decisions from the journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := c.send(ipc.Request{Command: ipc.CmdHistory, Limit: limit})
			if err != nil {
				return err
			}
			if c.format == formatJSON {
				return c.print(resp.History)
			}
			c.printHistory(resp.History)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of decisions to show")
	return cmd
}

func newMapCmd(c *cli) *cobra.Command {
	var (
		req        = ipc.Request{Command: ipc.CmdMap}
		userTime   uint32
		wantsInput bool
	)
	cmd := &cobra.Command{
		Use:   "map <window>",
		Short: "Report a newly mapped window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Window = args[0]
			if cmd.Flags().Changed("user-time") {
				req.UserTime = &userTime
			}
			if cmd.Flags().Changed("wants-input") {
				req.WantsInput = &wantsInput
			}
			return c.run(req)
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Class, "class", "", "window class")
	f.StringVar(&req.Title, "title", "", "window title")
	f.Int32Var(&req.PID, "pid", 0, "owning process id")
	f.StringVar(&req.Leader, "leader", "", "group leader window id")
	f.StringVar(&req.Kind, "kind", "", "window type: normal, dialog, utility, menu, desktop, dock, splash")
	f.IntVar(&req.Desktop, "desktop", 0, "desktop number, 0 for the current one")
	f.BoolVar(&req.OnAllDesktops, "sticky", false, "window is on all desktops")
	f.IntVar(&req.Screen, "screen", 0, "screen number")
	f.StringSliceVar(&req.Activities, "activity", nil, "activities the window is on")
	f.StringVar(&req.ModalFor, "modal-for", "", "window this one is modal for")
	f.StringSliceVar(&req.TransientFor, "transient-for", nil, "transient leaders")
	f.Uint32Var(&userTime, "user-time", 0, "user time the window was mapped with")
	f.BoolVar(&wantsInput, "wants-input", true, "window accepts keyboard input")
	f.BoolVar(&req.Minimized, "minimized", false, "window is mapped minimized")
	f.BoolVar(&req.Shaded, "shaded", false, "window is shaded")
	f.BoolVar(&req.InActiveLayer, "active-layer", false, "window changes layer when active")
	return cmd
}

func newActivateCmd(c *cli) *cobra.Command {
	var (
		req = ipc.Request{Command: ipc.CmdActivate}
		ts  uint32
	)
	cmd := &cobra.Command{
		Use:   "activate <window>",
		Short: "Request activation of a window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Window = args[0]
			if cmd.Flags().Changed("time") {
				req.Time = &ts
			}
			return c.run(req)
		},
	}
	cmd.Flags().StringVar(&req.Source, "source", "tool", "who asks: application or tool")
	cmd.Flags().Uint32Var(&ts, "time", 0, "timestamp of the request")
	cmd.Flags().StringVar(&req.Requestor, "requestor", "", "window that made the request")
	return cmd
}

func newRaiseCmd(c *cli) *cobra.Command {
	var (
		req = ipc.Request{Command: ipc.CmdRaise}
		ts  uint32
	)
	cmd := &cobra.Command{
		Use:   "raise <window>",
		Short: "Ask to raise a window above the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Window = args[0]
			if cmd.Flags().Changed("time") {
				req.Time = &ts
			}
			return c.run(req)
		},
	}
	cmd.Flags().StringVar(&req.Source, "source", "application", "who asks: application or tool")
	cmd.Flags().Uint32Var(&ts, "time", 0, "timestamp of the request")
	return cmd
}

func newAttentionCmd(c *cli) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "attention <window>",
		Short: "Set or clear the demands-attention flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			on := !off
			return c.run(ipc.Request{Command: ipc.CmdAttention, Window: args[0], Enabled: &on})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "clear the flag")
	return cmd
}

func newShowDesktopCmd(c *cli) *cobra.Command {
	var off bool
	cmd := &cobra.Command{
		Use:   "show-desktop",
		Short: "Enter or leave show-desktop mode",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			on := !off
			return c.run(ipc.Request{Command: ipc.CmdShowDesktop, Enabled: &on})
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "leave show-desktop mode")
	return cmd
}

func newStartupCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "startup <window> <time>",
		Short: "Merge a startup notification timestamp into a window's group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, err := strconv.ParseUint(args[1], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid time %q: %w", args[1], err)
			}
			t := uint32(ts)
			return c.run(ipc.Request{Command: ipc.CmdStartup, Window: args[0], Time: &t})
		},
	}
}

func newPopupCmd(c *cli) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "popup [window]",
		Short: "Record the open popup menu, or clear it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ipc.Request{Command: ipc.CmdPopup, Owner: owner}
			if len(args) == 1 {
				req.Window = args[0]
			}
			return c.run(req)
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "window owning the popup")
	return cmd
}

func newPointerCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pointer [window]",
		Short: "Set the window under the mouse, or hand the question back to the backend",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := ipc.Request{Command: ipc.CmdPointer}
			if len(args) == 1 {
				req.Window = args[0]
			}
			return c.run(req)
		},
	}
}

func newSessionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:       "session <normal|saving|quitting>",
		Short:     "Set the session manager state",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"normal", "saving", "quitting"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(ipc.Request{Command: ipc.CmdSession, Session: args[0]})
		},
	}
}

func newActivateAttentionCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "activate-attention",
		Short: "Activate the window that most recently demanded attention",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.run(ipc.Request{Command: ipc.CmdActivateAttention})
		},
	}
}

// windowCmds are the events that only name a window.
func windowCmds(c *cli) []*cobra.Command {
	events := []struct {
		use, command, short string
	}{
		{"unmap", ipc.CmdUnmap, "Report that a window was destroyed"},
		{"hide", ipc.CmdHide, "Report that a window was minimized or hidden"},
		{"show", ipc.CmdShow, "Unhide a window and activate it"},
		{"focus-in", ipc.CmdFocusIn, "Report a focus-in seen by the window system"},
		{"click", ipc.CmdClick, "Report a user click into a window"},
	}
	var cmds []*cobra.Command
	for _, e := range events {
		command := e.command
		cmds = append(cmds, &cobra.Command{
			Use:   e.use + " <window>",
			Short: e.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.run(ipc.Request{Command: command, Window: args[0]})
			},
		})
	}
	return cmds
}

// numberCmds switch the current desktop or screen.
func numberCmds(c *cli) []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "desktop <n>",
			Short: "Report a switch to desktop n (from 1)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid desktop %q: %w", args[0], err)
				}
				return c.run(ipc.Request{Command: ipc.CmdDesktop, Desktop: n})
			},
		},
		{
			Use:   "screen <n>",
			Short: "Move focus to screen n (from 0)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid screen %q: %w", args[0], err)
				}
				return c.run(ipc.Request{Command: ipc.CmdScreen, Screen: n})
			},
		},
	}
}
