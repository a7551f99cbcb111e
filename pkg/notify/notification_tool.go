package notify

import (
	"fmt"
	"os/exec"
)

type notificationTool struct {
	name         string
	buildCommand func(tool string, title string, message string, nType NotificationType) *exec.Cmd
}

func urgency(nType NotificationType) string {
	switch nType {
	case Error:
		return "critical"
	case Attention:
		return "normal"
	default:
		return "low"
	}
}

var notificationTools = []notificationTool{
	{
		name: "dunstify",
		buildCommand: func(tool string, title string, message string, nType NotificationType) *exec.Cmd {
			return exec.Command(tool, "-u", urgency(nType), "-t", "5000", title, message)
		},
	},
	{
		name: "notify-send",
		buildCommand: func(tool string, title string, message string, nType NotificationType) *exec.Cmd {
			return exec.Command(tool, "-u", urgency(nType), "-a", "focus-warden", title, message)
		},
	},
}

func (n *NotifyService) trySystemNotification(title string, message string, nType NotificationType) error {
	for _, tool := range notificationTools {
		path, err := n.lookPath(tool.name)
		if err != nil {
			continue
		}
		cmd := tool.buildCommand(path, title, message, nType)
		if err := n.run(cmd); err == nil {
			n.log.Debug("Notification sent successfully",
				"tool", tool.name,
				"type", nType.String())
			return nil
		}
	}
	return fmt.Errorf("no notification tools available")
}
