//go:build !unix

package services

import "os/exec"

// configureProcessGroup is a no-op where process groups are unavailable;
// cancellation kills only the direct child.
func configureProcessGroup(cmd *exec.Cmd) {}
