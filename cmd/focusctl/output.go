package main

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"focus-warden/internal/ipc"
	"focus-warden/internal/storage"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

var (
	allowedColor = color.New(color.FgGreen)
	deniedColor  = color.New(color.FgRed)
	dimColor     = color.New(color.Faint)
)

func (c *cli) print(v interface{}) error {
	if c.format == formatJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("json encode: %w", err)
		}
		return nil
	}
	enc := yaml.NewEncoder(c.out)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// printResult prints the message of a command, coloured by the policy
// outcome when there is one.
func (c *cli) printResult(resp ipc.Response) error {
	if c.format == formatJSON {
		return c.print(resp)
	}
	switch {
	case resp.Allowed == nil:
		fmt.Fprintln(c.out, resp.Message)
	case *resp.Allowed:
		allowedColor.Fprint(c.out, "allowed")
		fmt.Fprintf(c.out, "  %s\n", resp.Message)
	default:
		deniedColor.Fprint(c.out, "denied")
		fmt.Fprintf(c.out, "   %s\n", resp.Message)
	}
	return nil
}

func (c *cli) printHistory(entries []storage.Entry) {
	if len(entries) == 0 {
		dimColor.Fprintln(c.out, "no decisions recorded")
		return
	}
	for _, e := range entries {
		dimColor.Fprintf(c.out, "%s ", e.Timestamp.Local().Format("15:04:05.000"))
		verdict := allowedColor.Sprint("allow")
		if !e.Allowed {
			verdict = deniedColor.Sprint("deny ")
		}
		fmt.Fprintf(c.out, "%s %-10s %-16s %-20s rule=%s time=%s",
			verdict, e.Action, e.Window, e.Class, e.Rule, e.RequestTime)
		if e.Against != "" {
			fmt.Fprintf(c.out, " against=%s", e.Against)
		}
		fmt.Fprintln(c.out)
	}
}
