//go:build !unix

package compiler

import "os/exec"

// configureProcess keeps the default cancel behavior, which kills the direct child only.
func configureProcess(_ *exec.Cmd) {}
