package boarddto

type DomainError struct {
	Code      string
	Message   string
	Retryable bool
}

func (e DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "board service error"
}

const (
	CodeSessionNotFound   = "SESSION_NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeMalformedPosition = "MALFORMED_POSITION"
	CodeBadRequest        = "BAD_REQUEST"
	CodeInternal          = "INTERNAL"
)
