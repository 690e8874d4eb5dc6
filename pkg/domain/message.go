package domain

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Message is one entry of a chat transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NetworkErrorMessage is the reply shown when the backend could not be reached.
const NetworkErrorMessage = "Network Error"
