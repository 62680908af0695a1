package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	MinPurports = 2
	MaxPurports = 4
)

// ValidationMode controls what the relay checks in the model's reply before
// forwarding it.
type ValidationMode string

const (
	ValidationOff    ValidationMode = "off"
	ValidationStrict ValidationMode = "strict"
)

func (m ValidationMode) IsValid() bool {
	switch m {
	case ValidationOff, ValidationStrict:
		return true
	default:
		return false
	}
}

// AnswerEnvelope is the top-level object the system prompt asks the model for.
type AnswerEnvelope struct {
	Data *GuruAnswer `json:"data"`
}

type GuruAnswer struct {
	Question             string    `json:"question"`
	Purports             []Purport `json:"purports"`
	PracticalSuggestions []string  `json:"practical_suggestions"`
}

type Purport struct {
	Text        string `json:"text"`
	Shloka      string `json:"shloka"`
	Purport     string `json:"purport"`
	Application string `json:"application"`
	Story       string `json:"story"`
}

// ParseAnswer decodes raw model output into an AnswerEnvelope and checks it.
func ParseAnswer(raw json.RawMessage) (*AnswerEnvelope, error) {
	var env AnswerEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode answer: %w", err)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

func (e *AnswerEnvelope) Validate() error {
	if e.Data == nil {
		return ErrAnswerMissingData
	}
	return e.Data.Validate()
}

func (a *GuruAnswer) Validate() error {
	if strings.TrimSpace(a.Question) == "" {
		return ErrAnswerNoQuestion
	}
	if n := len(a.Purports); n < MinPurports || n > MaxPurports {
		return fmt.Errorf("%w: got %d, want %d..%d", ErrPurportCount, n, MinPurports, MaxPurports)
	}
	for i, p := range a.Purports {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("purport %d: %w", i+1, err)
		}
	}
	if len(a.PracticalSuggestions) == 0 {
		return ErrNoSuggestions
	}
	return nil
}

func (p Purport) Validate() error {
	var missing []string
	if strings.TrimSpace(p.Text) == "" {
		missing = append(missing, "text")
	}
	if strings.TrimSpace(p.Shloka) == "" {
		missing = append(missing, "shloka")
	}
	if strings.TrimSpace(p.Purport) == "" {
		missing = append(missing, "purport")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrPurportIncomplete, strings.Join(missing, ", "))
	}
	return nil
}
