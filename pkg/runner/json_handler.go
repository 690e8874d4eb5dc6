package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/agentdeck/pkg/domain"
)

// JSONHandler implements IOHandler for JSON-Lines communication.
// Every message is written as one object; input lines may be a JSON string,
// an object with a "message" field, or plain text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

// Event is one line written by the JSONHandler.
type Event struct {
	Type    string      `json:"type"`
	Role    domain.Role `json:"role,omitempty"`
	Content string      `json:"content"`
}

// Event types.
const (
	EventMessage = "message"
	EventSystem  = "system"
)

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, msgs []domain.Message) error {
	for _, m := range msgs {
		if err := h.Encoder.Encode(Event{Type: EventMessage, Role: m.Role, Content: m.Content}); err != nil {
			return err
		}
	}
	return nil
}

func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return val, nil
	}
	var obj struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal([]byte(text), &obj); err == nil && obj.Message != nil {
		return *obj.Message, nil
	}
	return text, nil
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Event{Type: EventSystem, Content: msg})
}
