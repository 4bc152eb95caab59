package domain

import (
	"strconv"
	"strings"
)

// EvaluateAnswer compares a submitted answer against the stored answer under
// the rules for the given answer kind. It is a total function: malformed or
// missing input produces a mismatch, never an error.
//
// Comparison rules:
//   - text, exact: case-insensitive equality with surrounding whitespace
//     trimmed from both sides.
//   - date: byte-for-byte equality with no normalization. Cross-format
//     matching (e.g. "2020-05-01" vs "05/01/2020") is deliberately not
//     attempted at this layer.
//
// The submitted value may be any JSON scalar; non-string scalars are coerced
// to their string representation before comparison. A nil submission and an
// unknown answer kind both evaluate to false.
func EvaluateAnswer(kind AnswerKind, stored string, submitted any) bool {
	s, ok := coerceAnswer(submitted)
	if !ok {
		return false
	}

	switch kind {
	case AnswerKindText, AnswerKindExact:
		return normalizeAnswer(stored) == normalizeAnswer(s)
	case AnswerKindDate:
		return stored == s
	}

	// Unknown kinds fall through to a mismatch.
	return false
}

// coerceAnswer converts a JSON scalar to its string form.
// Returns false for nil and for non-scalar values.
func coerceAnswer(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		// encoding/json decodes all numbers as float64
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case bool:
		return strconv.FormatBool(t), true
	case nil:
		return "", false
	}
	return "", false
}

// normalizeAnswer applies the shared text/exact normalization.
func normalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
