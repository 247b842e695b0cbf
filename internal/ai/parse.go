package ai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError reports that model output could not be parsed as the expected
// JSON shape. Raw carries the original (pre-stripped) text for logging.
type ParseError struct {
	Raw string
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("ai: parsing model output as JSON: %v", e.Err)
}

// Unwrap exposes the underlying unmarshal error.
func (e *ParseError) Unwrap() error { return e.Err }

// fenceRE matches the opening and closing markdown code fences the model
// tends to wrap JSON in, e.g. ```json ... ```.
var fenceRE = regexp.MustCompile("```(?:json)?\n?")

// StripFences removes markdown code fences and trims surrounding whitespace.
func StripFences(s string) string {
	return strings.TrimSpace(fenceRE.ReplaceAllString(s, ""))
}

// ParseJSON strips code fences from raw model output and unmarshals the
// remainder into v with unknown fields rejected. On failure it returns a
// *ParseError wrapping the decode error; v is left unspecified.
func ParseJSON(raw string, v any) error {
	cleaned := StripFences(raw)
	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &ParseError{Raw: raw, Err: err}
	}
	return nil
}
