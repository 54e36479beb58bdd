package server

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/blackwitch/wtmux/internal/socketdir"
)

// ForkServer starts a detached wtmux server by re-execing the current
// binary with the hidden _server subcommand, then waits for its socket to
// appear. Grounded on internal/session/daemon.go's ForkDaemon (re-exec
// plus devnull stdio plus socket-appears polling loop), generalized from
// one per-agent socket to the single per-user server socket.
func ForkServer() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("find executable: %w", err)
	}

	cmd := exec.Command(exe, "_server")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	cmd.Env = filteredEnv(os.Environ(), "WTMUX_ATTACHED")

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("open /dev/null: %w", err)
	}
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull

	if err := cmd.Start(); err != nil {
		devNull.Close()
		return fmt.Errorf("start server: %w", err)
	}
	go func() {
		cmd.Wait()
		devNull.Close()
	}()

	sockPath, err := socketdir.ServerSocketPath()
	if err != nil {
		return err
	}
	for i := 0; i < 50; i++ {
		time.Sleep(100 * time.Millisecond)
		if _, err := os.Stat(sockPath); err == nil {
			return nil
		}
	}
	return fmt.Errorf("server did not start (socket %s not found)", sockPath)
}

// filteredEnv returns a copy of env with any entry matching one of the
// given keys removed.
func filteredEnv(env []string, keys ...string) []string {
	filtered := make([]string, 0, len(env))
	for _, e := range env {
		skip := false
		for _, key := range keys {
			if strings.HasPrefix(e, key+"=") {
				skip = true
				break
			}
		}
		if !skip {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
