package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/corey/lexmatch/internal/adapters/socket"
)

// isDBLockError returns true if the error chain contains a bbolt lock timeout.
// bbolt returns the string "timeout" when it cannot acquire the file lock
// within the configured deadline.
func isDBLockError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "timeout")
}

// diagnoseDBLock returns actionable guidance for a locked result store,
// distinguishing a live daemon, a stale socket and an unknown lock holder.
func diagnoseDBLock(root string) string {
	sockPath := socket.SocketPath(root)
	client := socket.NewClient(sockPath)

	if client.Ping() {
		return "result store is locked by the running daemon\n" +
			"  → drop --lexicons/--policy so the daemon serves the request, or\n" +
			"  → stop it first:  lexmatch daemon stop"
	}

	if _, err := os.Stat(sockPath); err == nil {
		return fmt.Sprintf("result store is locked — daemon socket exists but is not responding\n"+
			"  → a previous daemon may have crashed\n"+
			"  → find the process:  ps aux | grep 'lexmatch daemon'\n"+
			"  → kill it:           kill <PID>\n"+
			"  → clean up socket:   rm %s", sockPath)
	}

	return "result store is locked by another process\n" +
		"  → find the process:  ps aux | grep 'lexmatch'\n" +
		"  → kill it:           kill <PID>\n" +
		"  → then retry your command"
}
