package boarddto

import "time"

type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// SessionState is the wire view of one board session.
type SessionState struct {
	ID        string    `json:"id"`
	Position  string    `json:"position"`
	Turn      string    `json:"turn"`
	Armed     *Cell     `json:"armed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is pushed to websocket subscribers after every session mutation.
type Event struct {
	Type    string        `json:"type"`
	Outcome string        `json:"outcome,omitempty"`
	Notice  string        `json:"notice,omitempty"`
	Session *SessionState `json:"session"`
}

const (
	EventClick   = "click"
	EventRestart = "restart"
)
