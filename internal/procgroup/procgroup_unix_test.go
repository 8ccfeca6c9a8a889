// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

//go:build unix

package procgroup

import (
	"bytes"
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConfiguresGroup(t *testing.T) {
	cmd := exec.Command("true")
	Set(cmd)

	require.NotNil(t, cmd.SysProcAttr)
	assert.True(t, cmd.SysProcAttr.Setpgid)
	assert.NotNil(t, cmd.Cancel)
	assert.Equal(t, DefaultWaitDelay, cmd.WaitDelay)
}

func TestCancelKillsWholeGroup(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The background sleep inherits stdout. Killing only the leader would
	// leave the pipe open until WaitDelay expires.
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, "sh", "-c", "sleep 30 & sleep 30")
	cmd.Stdout = &out
	Set(cmd)
	require.NoError(t, cmd.Start())

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	start := time.Now()
	cancel()

	select {
	case err := <-done:
		assert.Error(t, err)
		assert.Less(t, time.Since(start), DefaultWaitDelay, "group kill should close the pipe before WaitDelay")
	case <-time.After(5 * time.Second):
		t.Fatal("command did not exit after cancel")
	}
}
