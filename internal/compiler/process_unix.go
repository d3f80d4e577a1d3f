//go:build unix

package compiler

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// configureProcess starts the compiler in its own process group so a timeout kills
// every child it spawned, not only the direct child.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		}
		return err
	}
}
