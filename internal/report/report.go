// Package report turns a users payload into formatted description lines.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const lineFormat = "Usuário %s | Status: %s | Membro desde: %s"

// requiredFields are read from every user record, in line order.
var requiredFields = []string{"username", "status", "since"}

// MissingFieldError reports a user record without one of the required fields.
type MissingFieldError struct {
	Index int
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("user record %d: missing field %q", e.Index, e.Field)
}

// Build decodes payload, a JSON object whose "users" key holds an ordered list
// of user records, and returns one line per record in the same order. A missing
// or null "users" key yields an empty report.
func Build(payload []byte) ([]string, error) {
	var doc struct {
		Users []map[string]json.RawMessage `json:"users"`
	}
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("decode users payload: %w", err)
	}

	lines := make([]string, 0, len(doc.Users))
	for i, rec := range doc.Users {
		vals := make([]any, len(requiredFields))
		for j, field := range requiredFields {
			raw, ok := rec[field]
			if !ok {
				return nil, &MissingFieldError{Index: i, Field: field}
			}
			vals[j] = text(raw)
		}
		lines = append(lines, fmt.Sprintf(lineFormat, vals...))
	}
	return lines, nil
}

// text renders a JSON value for display: strings unquoted, everything else
// (null included) as its JSON text.
func text(raw json.RawMessage) string {
	var s *string
	if err := json.Unmarshal(raw, &s); err == nil && s != nil {
		return *s
	}
	return string(bytes.TrimSpace(raw))
}
