package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"focus-warden/internal/ipc"
	"focus-warden/pkg/config"
	"focus-warden/pkg/logger"
)

// Sender delivers a request to the daemon.
type Sender interface {
	Send(req ipc.Request) (ipc.Response, error)
}

type cli struct {
	socket string
	format string
	debug  bool
	out    io.Writer

	// newSender is replaced in tests
	newSender func(c *cli) (Sender, error)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&cli{newSender: dialDaemon})
}

func dialDaemon(c *cli) (Sender, error) {
	level := zerolog.WarnLevel
	if c.debug {
		level = zerolog.DebugLevel
	}
	log, err := logger.NewLogger(logger.WithLevel(level), logger.WithoutFile())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return ipc.NewClient(c.socket, log), nil
}

func newRootCmdWith(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "focusctl",
		Short:         "Control and inspect the focus-warden daemon",
		Long:          "focusctl feeds window events to focus-warden and shows which window is active, which windows demand attention and why activations were allowed or denied.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.out = cmd.OutOrStdout()
			switch c.format {
			case formatYAML, formatJSON:
				return nil
			default:
				return fmt.Errorf("unsupported format: %s (use yaml or json)", c.format)
			}
		},
	}
	root.Version = "1.0.0"
	root.PersistentFlags().StringVar(&c.socket, "socket", config.DefaultSocketPath(), "daemon control socket")
	root.PersistentFlags().StringVar(&c.format, "format", formatYAML, "output format: yaml or json")
	root.PersistentFlags().BoolVar(&c.debug, "debug", false, "log protocol traffic to stderr")

	root.AddCommand(
		newStateCmd(c),
		newHistoryCmd(c),
		newMapCmd(c),
		newActivateCmd(c),
		newRaiseCmd(c),
		newAttentionCmd(c),
		newShowDesktopCmd(c),
		newStartupCmd(c),
		newPopupCmd(c),
		newPointerCmd(c),
	)
	root.AddCommand(windowCmds(c)...)
	root.AddCommand(numberCmds(c)...)
	root.AddCommand(newSessionCmd(c), newActivateAttentionCmd(c))
	return root
}

// send delivers req and turns a failed response into an error.
func (c *cli) send(req ipc.Request) (ipc.Response, error) {
	s, err := c.newSender(c)
	if err != nil {
		return ipc.Response{}, err
	}
	resp, err := s.Send(req)
	if err != nil {
		return ipc.Response{}, err
	}
	if !resp.OK() {
		return resp, fmt.Errorf("%s: %s", req.Command, resp.Message)
	}
	return resp, nil
}

// run sends req and prints the outcome.
func (c *cli) run(req ipc.Request) error {
	resp, err := c.send(req)
	if err != nil {
		return err
	}
	return c.printResult(resp)
}
