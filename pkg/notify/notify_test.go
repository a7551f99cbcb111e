package notify

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focus-warden/pkg/logger"
)

func newTestService(t *testing.T, command string) (*NotifyService, *[][]string) {
	t.Helper()
	var ran [][]string
	n := NewNotifyService(command, logger.Nop())
	n.logPath = filepath.Join(t.TempDir(), "notifications.log")
	n.run = func(cmd *exec.Cmd) error {
		ran = append(ran, cmd.Args)
		return nil
	}
	n.lookPath = func(file string) (string, error) {
		return "", errors.New("not found")
	}
	return n, &ran
}

func TestCustomCommandFirst(t *testing.T) {
	n, ran := newTestService(t, "my-notify")
	require.NoError(t, n.Show("Firefox", "wants attention", Attention))
	require.Len(t, *ran, 1)
	assert.Equal(t, []string{"sh", "-c", `my-notify "$1" "$2" "$3"`, "focus-warden", "ATTENTION", "Firefox", "wants attention"}, (*ran)[0])
}

func TestSystemToolFallback(t *testing.T) {
	n, ran := newTestService(t, "")
	n.lookPath = func(file string) (string, error) {
		if file == "notify-send" {
			return "/usr/bin/notify-send", nil
		}
		return "", errors.New("not found")
	}
	require.NoError(t, n.Show("title", "msg", Error))
	require.Len(t, *ran, 1)
	assert.Equal(t, []string{"/usr/bin/notify-send", "-u", "critical", "-a", "focus-warden", "title", "msg"}, (*ran)[0])
}

func TestLogFileFallback(t *testing.T) {
	n, _ := newTestService(t, "")
	require.NoError(t, n.writeToLogFile("a", "first", Info))
	require.NoError(t, n.writeToLogFile("b", "second", Attention))

	data, err := os.ReadFile(n.logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "a - INFO: first")
	assert.Contains(t, string(data), "b - ATTENTION: second")
}

func TestNotificationTypeString(t *testing.T) {
	assert.Equal(t, "ERROR", Error.String())
	assert.Equal(t, "INFO", Info.String())
	assert.Equal(t, "ATTENTION", Attention.String())
}
