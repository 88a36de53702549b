//go:build unix

package services

import (
	"os/exec"
	"syscall"
)

// configureProcessGroup puts the command in its own process group so that
// cancelling it also kills the ffmpeg child yt-dlp delegates to.
func configureProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
}
