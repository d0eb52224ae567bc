// Package notify shows fire-and-forget desktop notifications. Failures
// are logged and swallowed; a missed notification never fails a turn.
package notify

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Notifier shows a desktop notification.
type Notifier interface {
	Show(title, message string)
}

// DesktopNotifier shells out to the platform notification tool.
type DesktopNotifier struct{}

func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{}
}

func (n *DesktopNotifier) Show(title, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q",
			strings.ReplaceAll(message, `"`, `'`), title)
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	default:
		cmd = exec.CommandContext(ctx, "notify-send", title, message)
	}
	if err := cmd.Run(); err != nil {
		log.Printf("notify: %v", err)
	}
}

// LogNotifier prints notifications to the log, for headless runs.
type LogNotifier struct{}

func (LogNotifier) Show(title, message string) {
	log.Printf("[%s] %s", title, message)
}
