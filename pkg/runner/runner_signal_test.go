//go:build unix

package runner_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/runner"
	"github.com/aretw0/agentdeck/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunner_InterruptKeepsPendingReply(t *testing.T) {
	release := make(chan struct{})
	exec := session.ExecutorFunc(func(ctx context.Context, _, task string) (*domain.ExecuteResponse, error) {
		if task == "slow" {
			assert.NoError(t, syscall.Kill(os.Getpid(), syscall.SIGINT))
			select {
			case <-release:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			return &domain.ExecuteResponse{Success: true, Output: domain.OutputOf("late reply")}, nil
		}
		return &domain.ExecuteResponse{Success: true, Output: domain.OutputOf("echo: " + task)}, nil
	})
	s := session.New("a", exec)

	pr, pw := io.Pipe()
	out := &lockedBuffer{}
	r := runner.NewRunner(s, runner.WithInputHandler(runner.NewTextHandler(pr, out)))

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	contains := func(sub string) func() bool {
		return func() bool { return strings.Contains(out.String(), sub) }
	}

	_, err := io.WriteString(pw, "slow\n")
	require.NoError(t, err)
	require.Eventually(t, contains("Interrupted."), 2*time.Second, 10*time.Millisecond)
	assert.True(t, s.Pending(), "the request outlives the interrupt")

	_, err = io.WriteString(pw, "again\n")
	require.NoError(t, err)
	require.Eventually(t, contains("A reply is still pending"), 2*time.Second, 10*time.Millisecond)

	close(release)
	require.Eventually(t, contains("agent: late reply"), 2*time.Second, 10*time.Millisecond,
		"the reply is printed without further input")

	_, err = io.WriteString(pw, "next\n")
	require.NoError(t, err)
	require.Eventually(t, contains("agent: echo: next"), 2*time.Second, 10*time.Millisecond)

	require.NoError(t, pw.Close())
	require.NoError(t, <-done)
	assert.NotContains(t, out.String(), "you: again", "refused sends are discarded")
	assert.Equal(t, 1, strings.Count(out.String(), "agent: late reply"), "the late reply is printed once")
}
