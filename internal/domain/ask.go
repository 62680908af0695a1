package domain

// AskRequest is the inbound payload of POST /api/ask.
type AskRequest struct {
	Question string `json:"question"`
}

// Validate mirrors the relay's truthiness rule: only an empty question is
// rejected, whitespace is forwarded to the model untouched.
func (r *AskRequest) Validate() error {
	if r == nil || r.Question == "" {
		return ErrQuestionRequired
	}
	return nil
}
