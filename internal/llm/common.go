package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeObject checks that content is exactly one JSON object and returns it
// unchanged.
func DecodeObject(content string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return nil, &CompletionError{Kind: KindEmpty, Err: ErrEmptyResponse}
	}

	raw := []byte(trimmed)
	var probe map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&probe); err != nil {
		return nil, &CompletionError{Kind: KindMalformed, Err: fmt.Errorf("%w: %v", ErrMalformedOutput, err)}
	}
	// null decodes into a nil map; anything after the object is rejected
	if probe == nil || dec.InputOffset() != int64(len(raw)) {
		return nil, &CompletionError{Kind: KindMalformed, Err: ErrMalformedOutput}
	}

	return json.RawMessage(raw), nil
}
