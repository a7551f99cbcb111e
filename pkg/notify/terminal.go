package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
)

const defaultLogFile = ".local/share/focus-warden/notifications.log"

func (n *NotifyService) notificationLogPath() (string, error) {
	if n.logPath != "" {
		return n.logPath, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, defaultLogFile), nil
}

func (n *NotifyService) writeToLogFile(title string, message string, nType NotificationType) error {
	logPath, err := n.notificationLogPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	logMessage := fmt.Sprintf("[%s] %s - %s: %s\n",
		time.Now().Format("2006-01-02 15:04:05"),
		title,
		nType.String(),
		message)
	if _, err := f.WriteString(logMessage); err != nil {
		return fmt.Errorf("failed to write to log file: %w", err)
	}

	n.log.Debug("Notification written to log file",
		"path", logPath,
		"type", nType.String())
	return nil
}

func (n *NotifyService) printToTerminal(title string, message string, nType NotificationType) error {
	var c *color.Color
	switch nType {
	case Error:
		c = color.New(color.FgRed, color.Bold)
	case Attention:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgGreen)
	}

	c.Fprintf(os.Stderr, "%s - %s:", title, nType.String())
	fmt.Fprintf(os.Stderr, " %s\n", message)
	return nil
}

func isRunningInTerminal() bool {
	// Check if stderr is connected to a terminal
	fileInfo, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
