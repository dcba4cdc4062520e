package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractionError reports that no JSON payload could be recovered from a
// model response. Raw keeps the offending text for operator-facing logs.
type ExtractionError struct {
	Raw string
	Err error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract JSON from response: %v", e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// ExtractJSON recovers a JSON object of type T from a raw model response.
// Text models are not contractually bound to emit pure JSON, so candidates
// are tried in order: a ```json fenced block, any fenced block, the whole
// text, then the substring between the first '{' and the last '}'. The first
// candidate that unmarshals wins.
func ExtractJSON[T any](raw string) (T, error) {
	var zero T

	var lastErr error
	for _, candidate := range candidates(raw) {
		var result T
		if err := json.Unmarshal([]byte(candidate), &result); err != nil {
			lastErr = err
			continue
		}
		return result, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no JSON object found")
	}
	return zero, &ExtractionError{Raw: raw, Err: lastErr}
}

func candidates(raw string) []string {
	var out []string

	if body, ok := fencedBlock(raw, "```json"); ok {
		out = append(out, body)
	}
	if body, ok := fencedBlock(raw, "```"); ok {
		out = append(out, body)
	}

	out = append(out, strings.TrimSpace(raw))

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start != -1 && end != -1 && start < end {
		out = append(out, raw[start:end+1])
	}

	return out
}

// fencedBlock returns the body of the first fenced code block opened by the
// given marker. A language tag on the opening line is skipped.
func fencedBlock(raw, marker string) (string, bool) {
	idx := strings.Index(raw, marker)
	if idx == -1 {
		return "", false
	}
	body := raw[idx+len(marker):]
	if nl := strings.Index(body, "\n"); nl != -1 && nl < 20 && !strings.ContainsAny(body[:nl], "{}") {
		// Opening line holds at most a language tag.
		body = body[nl+1:]
	}
	closing := strings.Index(body, "```")
	if closing == -1 {
		return "", false
	}
	return strings.TrimSpace(body[:closing]), true
}
