package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedExecutor blocks every call until release is closed.
type gatedExecutor struct {
	calls   atomic.Int32
	release chan struct{}
	resp    *domain.ExecuteResponse
	err     error

	mu    sync.Mutex
	tasks []string
}

func newGated(resp *domain.ExecuteResponse, err error) *gatedExecutor {
	return &gatedExecutor{release: make(chan struct{}), resp: resp, err: err}
}

func (g *gatedExecutor) Execute(ctx context.Context, agentID, task string) (*domain.ExecuteResponse, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.tasks = append(g.tasks, task)
	g.mu.Unlock()
	select {
	case <-g.release:
	case <-ctx.Done():
		return nil, &domain.TransportError{Op: "execute", Err: ctx.Err()}
	}
	return g.resp, g.err
}

func reply(output string) *domain.ExecuteResponse {
	return &domain.ExecuteResponse{Success: true, Output: domain.OutputOf(output)}
}

func waitIdle(t *testing.T, s *session.Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestSend_HelloScenario(t *testing.T) {
	exec := newGated(reply("Hi there"), nil)
	s := session.New("agent_1", exec)

	ok := s.Send(context.Background(), "Hello")
	require.True(t, ok)

	assert.Equal(t, []domain.Message{{Role: domain.RoleUser, Content: "Hello"}}, s.Messages())
	assert.True(t, s.Pending())
	assert.Equal(t, session.Sending, s.State())

	close(exec.release)
	waitIdle(t, s)

	assert.Equal(t, []domain.Message{
		{Role: domain.RoleUser, Content: "Hello"},
		{Role: domain.RoleAgent, Content: "Hi there"},
	}, s.Messages())
	assert.False(t, s.Pending())
	assert.Equal(t, session.Idle, s.State())
}

func TestSend_SingleFlight(t *testing.T) {
	exec := newGated(reply("ok"), nil)
	s := session.New("agent_1", exec)

	assert.True(t, s.Send(context.Background(), "first"))
	assert.False(t, s.Send(context.Background(), "second"))

	close(exec.release)
	waitIdle(t, s)

	assert.EqualValues(t, 1, exec.calls.Load())
	assert.Equal(t, []string{"first"}, exec.tasks)
	for _, m := range s.Messages() {
		assert.NotEqual(t, "second", m.Content, "refused text must be discarded")
	}
}

func TestSend_BlankIsRefused(t *testing.T) {
	exec := newGated(reply("ok"), nil)
	s := session.New("agent_1", exec)

	assert.False(t, s.Send(context.Background(), ""))
	assert.False(t, s.Send(context.Background(), " \t\n"))
	assert.Empty(t, s.Messages())
	assert.EqualValues(t, 0, exec.calls.Load())
}

func TestSend_ReplyFormatting(t *testing.T) {
	cases := []struct {
		name   string
		resp   *domain.ExecuteResponse
		err    error
		want   string
		failed bool
	}{
		{
			name: "string output",
			resp: reply("Hi there"),
			want: "Hi there",
		},
		{
			name: "structured output",
			resp: &domain.ExecuteResponse{Success: true, Output: domain.OutputOf(map[string]any{"steps": 2})},
			want: `{"steps":2}`,
		},
		{
			name:   "backend reported error",
			resp:   &domain.ExecuteResponse{Success: false, Error: "model provider not configured: gpt-4o"},
			want:   "Error: model provider not configured: gpt-4o",
			failed: true,
		},
		{
			name:   "http error",
			err:    &domain.BackendError{StatusCode: 404, Message: "Agent not found"},
			want:   "Error: Agent not found",
			failed: true,
		},
		{
			name:   "transport error",
			err:    &domain.TransportError{Op: "execute", Err: errors.New("connection refused")},
			want:   "Network Error",
			failed: true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exec := newGated(tc.resp, tc.err)
			close(exec.release)
			var (
				mu     sync.Mutex
				states []session.State
			)
			var s *session.Session
			s = session.New("agent_1", exec, session.OnChange(func() {
				mu.Lock()
				defer mu.Unlock()
				states = append(states, s.State())
			}))

			require.True(t, s.Send(context.Background(), "go"))
			waitIdle(t, s)

			msgs := s.Messages()
			require.Len(t, msgs, 2)
			assert.Equal(t, domain.Message{Role: domain.RoleAgent, Content: tc.want}, msgs[1])
			assert.Equal(t, session.Idle, s.State())
			assert.False(t, s.Pending())

			want := []session.State{session.Sending, session.Idle}
			if tc.failed {
				want = []session.State{session.Sending, session.ErrorDisplayed, session.Idle}
			}
			assert.Eventually(t, func() bool {
				mu.Lock()
				defer mu.Unlock()
				return len(states) == len(want)
			}, time.Second, 5*time.Millisecond)
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, want, states)
		})
	}
}

func TestSend_RetryAfterError(t *testing.T) {
	exec := newGated(nil, &domain.TransportError{Op: "execute", Err: errors.New("down")})
	close(exec.release)
	s := session.New("agent_1", exec)

	require.True(t, s.Send(context.Background(), "one"))
	waitIdle(t, s)
	require.Equal(t, session.Idle, s.State())

	require.True(t, s.Send(context.Background(), "one"))
	waitIdle(t, s)

	assert.EqualValues(t, 2, exec.calls.Load(), "no automatic retry, only the re-send")
	assert.Len(t, s.Messages(), 4)
}

func TestSend_CancelSurfacesNetworkError(t *testing.T) {
	exec := newGated(reply("late"), nil)
	s := session.New("agent_1", exec)
	ctx, cancel := context.WithCancel(context.Background())

	require.True(t, s.Send(ctx, "slow"))
	cancel()
	waitIdle(t, s)

	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "Network Error", msgs[1].Content)
}

func TestGreetingAndOnChange(t *testing.T) {
	var changes atomic.Int32
	exec := newGated(reply("fine"), nil)
	close(exec.release)
	s := session.New("agent_1", exec,
		session.WithGreeting(session.Greeting("Researcher")),
		session.OnChange(func() { changes.Add(1) }),
	)

	assert.Equal(t, []domain.Message{{Role: domain.RoleAgent, Content: "Hello! I am Researcher. How can I help you?"}}, s.Messages())

	require.True(t, s.Send(context.Background(), "hi"))
	waitIdle(t, s)

	assert.Len(t, s.Messages(), 3)
	assert.Eventually(t, func() bool { return changes.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestAsk(t *testing.T) {
	exec := newGated(reply("42"), nil)
	close(exec.release)
	s := session.New("agent_1", exec)

	msg, err := s.Ask(context.Background(), "meaning?")
	require.NoError(t, err)
	assert.Equal(t, domain.Message{Role: domain.RoleAgent, Content: "42"}, msg)

	_, err = s.Ask(context.Background(), "  ")
	assert.ErrorIs(t, err, session.ErrEmptyMessage)
}

func TestAsk_Busy(t *testing.T) {
	exec := newGated(reply("x"), nil)
	s := session.New("agent_1", exec)
	require.True(t, s.Send(context.Background(), "first"))

	_, err := s.Ask(context.Background(), "second")
	assert.ErrorIs(t, err, session.ErrBusy)

	close(exec.release)
	waitIdle(t, s)
}

func TestWait_NothingInFlight(t *testing.T) {
	s := session.New("agent_1", session.ExecutorFunc(func(context.Context, string, string) (*domain.ExecuteResponse, error) {
		return reply("x"), nil
	}))
	assert.NoError(t, s.Wait(context.Background()))
}
