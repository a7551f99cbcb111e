package notify

import (
	"fmt"
	"os/exec"

	"focus-warden/pkg/core"
)

// NotificationType represents the type of notification
type NotificationType int

const (
	Error NotificationType = iota
	Info
	Attention
)

func (t NotificationType) String() string {
	switch t {
	case Error:
		return "ERROR"
	case Attention:
		return "ATTENTION"
	default:
		return "INFO"
	}
}

// NotifyService handles system notifications
type NotifyService struct {
	log           core.Logger
	notifyCommand string
	logPath       string

	// run executes a prepared command; replaced in tests
	run func(cmd *exec.Cmd) error
	// lookPath finds notification tools; replaced in tests
	lookPath func(file string) (string, error)
}

// NewNotifyService creates a new notification service
func NewNotifyService(notifyCommand string, log core.Logger) *NotifyService {
	return &NotifyService{
		log:           log,
		notifyCommand: notifyCommand,
		run:           func(cmd *exec.Cmd) error { return cmd.Run() },
		lookPath:      exec.LookPath,
	}
}

// SetCommand replaces the custom notification command. Empty disables it.
func (n *NotifyService) SetCommand(command string) {
	n.notifyCommand = command
}

// Show displays a notification of the specified type
func (n *NotifyService) Show(title, message string, nType NotificationType) error {
	// First try configured notification command if available
	if n.notifyCommand != "" {
		if err := n.executeNotifyCommand(title, message, nType); err == nil {
			return nil
		}
		n.log.Warn("Custom notification command failed", "command", n.notifyCommand)
	}

	// Try system notification tools
	if err := n.trySystemNotification(title, message, nType); err == nil {
		return nil
	}

	// If running in terminal, print directly
	if isRunningInTerminal() {
		return n.printToTerminal(title, message, nType)
	}

	// Last resort: log file
	return n.writeToLogFile(title, message, nType)
}

// executeNotifyCommand runs the custom command with the type, title and
// message as positional arguments.
func (n *NotifyService) executeNotifyCommand(title, message string, nType NotificationType) error {
	n.log.Debug("Executing notify command", "notifyCommand", n.notifyCommand,
		"nType", nType.String())

	cmd := exec.Command("sh", "-c", n.notifyCommand+` "$1" "$2" "$3"`,
		"focus-warden", nType.String(), title, message)
	if err := n.run(cmd); err != nil {
		return fmt.Errorf("failed to run notify command: %w", err)
	}
	return nil
}
