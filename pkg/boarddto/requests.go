package boarddto

// ClickRequest carries one pointer release in window pixels. Button follows
// the wire names "primary", "secondary", "other"; anything else is treated as
// "other" and ignored by the board.
type ClickRequest struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button string  `json:"button"`
}

type ClickResponse struct {
	Outcome string        `json:"outcome"`
	Notice  string        `json:"notice,omitempty"`
	Session *SessionState `json:"session"`
}

type CreateSessionResponse struct {
	Session *SessionState `json:"session"`
}

type RestartResponse struct {
	Notice  string        `json:"notice,omitempty"`
	Session *SessionState `json:"session"`
}

type ErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}
