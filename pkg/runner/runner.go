package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/agentdeck/internal/logging"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/aretw0/agentdeck/pkg/session"
)

// Commands that end the loop.
var quitCommands = map[string]bool{"/quit": true, "/exit": true}

// Runner drives a chat session with the provided IO.
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on stdin/stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Signals makes interrupts end the loop.
	Signals bool

	session *session.Session
}

// NewRunner creates a Runner for the session.
func NewRunner(s *session.Session, opts ...Option) *Runner {
	r := &Runner{
		Logger:  logging.NewNop(),
		Signals: true,
		session: s,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run loops until the input ends, a quit command is read, or ctx is done.
// An interrupt while a reply is pending stops the wait but not the request;
// the reply is printed when it arrives and a second interrupt ends the loop.
// An ended loop is not an error.
func (r *Runner) Run(ctx context.Context) error {
	handler := r.resolveHandler()

	var signals *SignalManager
	if r.Signals {
		signals = NewSignalManager(ctx)
		defer signals.Stop()
	}

	runCtx, cancel := context.WithCancel(ctx)
	var watchers sync.WaitGroup
	defer watchers.Wait()
	defer cancel()

	out := &printer{handler: handler, session: r.session}
	for {
		loopCtx := ctx
		if signals != nil {
			loopCtx = signals.Context()
		}

		if err := out.flush(loopCtx); err != nil {
			return fmt.Errorf("output error: %w", err)
		}

		text, err := handler.Input(loopCtx)
		if err != nil {
			if errors.Is(err, io.EOF) || loopCtx.Err() != nil {
				r.Logger.Debug("chat loop ended", "agent_id", r.session.AgentID(), "reason", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if quitCommands[strings.ToLower(text)] {
			return nil
		}

		clean, err := SanitizeInput(text)
		if err != nil {
			if err := out.system(loopCtx, fmt.Sprintf("Error: %v. Please try again.", err)); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}
		if strings.TrimSpace(clean) == "" {
			continue
		}

		// The request is tied to ctx, not to the interruptible loop context.
		if !r.session.Send(ctx, clean) {
			if err := out.system(loopCtx, "A reply is still pending. Please wait."); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}
		out.waiting(loopCtx)
		if err := r.session.Wait(loopCtx); err != nil {
			if signals == nil || !signals.Interrupted() {
				return nil
			}
			r.Logger.Debug("wait interrupted", "agent_id", r.session.AgentID())
			if err := out.system(ctx, "Interrupted. The reply will show when it arrives; interrupt again to quit."); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			signals.Reset()

			watchers.Add(1)
			go func() {
				defer watchers.Done()
				if r.session.Wait(runCtx) != nil {
					return
				}
				if err := out.flush(runCtx); err != nil {
					r.Logger.Debug("late reply output failed", "agent_id", r.session.AgentID(), "err", err)
				}
			}()
		}
	}
}

// printer serializes handler output between the loop and late-reply watchers.
type printer struct {
	handler IOHandler
	session *session.Session

	mu    sync.Mutex
	shown int
}

// flush outputs the messages not shown yet.
func (p *printer) flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.session.Messages()
	if p.shown >= len(msgs) {
		return nil
	}
	if err := p.handler.Output(ctx, msgs[p.shown:]); err != nil {
		return err
	}
	p.shown = len(msgs)
	return nil
}

func (p *printer) system(ctx context.Context, msg string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.handler.SystemOutput(ctx, msg)
}

func (p *printer) waiting(ctx context.Context) {
	w, ok := p.handler.(Waiter)
	if !ok {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	w.Waiting(ctx)
}

// Transcript returns the messages exchanged so far.
func (r *Runner) Transcript() []domain.Message {
	return r.session.Messages()
}

func (r *Runner) resolveHandler() IOHandler {
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r.Handler
}
