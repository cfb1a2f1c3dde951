package table

import "time"

// Outcome classifies what a board click did.
type Outcome string

const (
	OutcomeArmed    Outcome = "ARMED"
	OutcomeMoved    Outcome = "MOVED"
	OutcomeRejected Outcome = "REJECTED"
)

// Cell is a persisted grid coordinate.
type Cell struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// Session is the stored state of one interactive board. Position carries the
// verbatim position text; Armed is the picked-up square, nil when idle.
type Session struct {
	ID        string    `json:"id"`
	Position  string    `json:"position"`
	Turn      string    `json:"turn"`
	Armed     *Cell     `json:"armed,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
