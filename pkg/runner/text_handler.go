package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/agentdeck/internal/presentation/tui"
	"github.com/aretw0/agentdeck/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	Profile  termenv.Profile

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the reply renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerProfile sets the color profile of role prefixes.
func WithTextHandlerProfile(p termenv.Profile) TextHandlerOption {
	return func(h *TextHandler) {
		h.Profile = p
	}
}

// NewTextHandler creates a handler for standard text IO.
// Colors are plain unless w is a terminal.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Profile: termenv.Ascii,
	}
	if IsTerminal(w) {
		h.Profile = termenv.EnvColorProfile()
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// IsTerminal reports whether v is a file attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor cancellation.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, msgs []domain.Message) error {
	for _, m := range msgs {
		content := m.Content
		if m.Role == domain.RoleAgent && h.Renderer != nil && !tui.IsErrorReply(m) {
			if rendered, err := h.Renderer(content); err == nil {
				content = strings.TrimSpace(rendered)
			}
		}
		if _, err := fmt.Fprintf(h.Writer, "%s: %s\n", tui.Speaker(h.Profile, m), content); err != nil {
			return err
		}
	}
	return nil
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		fmt.Fprint(h.Writer, "> ")
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

func (h *TextHandler) Waiting(ctx context.Context) {
	fmt.Fprintln(h.Writer, tui.Thinking(h.Profile))
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}
