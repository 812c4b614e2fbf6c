// Package stages provides concrete, deterministic stage bodies for the
// task-graph kernel, built around a string-edit planning domain: states
// are words, propagation applies single-character edits toward a target,
// and bridging links two partial chains when their frontier words are
// close in edit distance.
package stages

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"
)

// Common errors returned by the stage bodies.
var (
	// ErrEmptyStageName is returned when a stage body is created with an
	// empty name.
	ErrEmptyStageName = errors.New("stage name cannot be empty")

	// ErrNotAWord is returned when a payload is not the string payload
	// this domain operates on.
	ErrNotAWord = errors.New("payload is not a string")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()

// decodeConfig overlays a flexible configuration map onto a defaults
// struct via a YAML round trip, then validates the result. This is the
// boundary adapter between declarative task definitions and typed stage
// configuration.
func decodeConfig(config map[string]any, out any) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}

// fold normalizes a word for comparison. Case-insensitive mode uses
// Unicode-aware case folding rather than strings.ToLower so complex
// characters compare correctly.
func fold(word string, caseSensitive bool) string {
	if caseSensitive {
		return word
	}
	return cases.Fold().String(word)
}

// wordPayload extracts the domain's string payload.
func wordPayload(payload any) (string, error) {
	w, ok := payload.(string)
	if !ok {
		return "", fmt.Errorf("%w: got %T", ErrNotAWord, payload)
	}
	return w, nil
}
