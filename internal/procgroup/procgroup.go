// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package procgroup starts child processes in their own process group so
// cancelling the command reaps every descendant, not just the leader.
package procgroup

import (
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long Wait blocks on the child's output pipes
// after the group was killed.
const DefaultWaitDelay = 2 * time.Second

// Set configures cmd to start in a new process group and to kill the whole
// group when the command's context is done. Must be called before Start.
func Set(cmd *exec.Cmd) {
	set(cmd)
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}
}
