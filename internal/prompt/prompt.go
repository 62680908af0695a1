// Package prompt holds the Guru system prompt. The default text is embedded
// at build time and can be replaced by a file without touching request code.
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:embed guru.txt
var guru string

var ErrEmptyPrompt = errors.New("system prompt is empty")

func Default() string {
	return strings.TrimSpace(guru)
}

// Load returns the prompt stored at path, or the embedded default when path
// is empty.
func Load(path string) (string, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyPrompt)
	}
	return text, nil
}
