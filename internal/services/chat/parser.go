// File: internal/services/chat/parser.go
package chat

import (
	"encoding/json"
	"regexp"
	"strings"
)

// ParsedResponse is a model reply split at the SQL marker.
type ParsedResponse struct {
	Text   string
	SQL    string
	HasSQL bool
}

var codeFence = regexp.MustCompile("(?i)```(?:sql)?")

// CleanResponse removes markdown code fences the model wraps SQL in.
func CleanResponse(raw string) string {
	return strings.TrimSpace(codeFence.ReplaceAllString(raw, ""))
}

// ParseResponse splits raw at the first SQL marker. It returns nil when raw
// is empty or whitespace, which callers treat as a failed generation.
func ParseResponse(raw string) *ParsedResponse {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	before, after, found := strings.Cut(raw, SQLMarker)
	if !found {
		return &ParsedResponse{Text: strings.TrimSpace(raw)}
	}
	return &ParsedResponse{
		Text:   strings.TrimSpace(before),
		SQL:    strings.TrimSpace(after),
		HasSQL: true,
	}
}

// FormattedSQL is a list of single-line SQL statements. It encodes to JSON as
// a plain string when it holds one statement and as an array otherwise.
type FormattedSQL []string

// FormatSQLForStorage splits sql on ";" and collapses each statement onto one
// line. Empty statements are dropped; terminators are not kept.
func FormatSQLForStorage(sql string) FormattedSQL {
	parts := strings.Split(sql, ";")
	statements := make(FormattedSQL, 0, len(parts))
	for _, part := range parts {
		if stmt := collapseWhitespace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// Single returns the only statement and true when exactly one is held.
func (f FormattedSQL) Single() (string, bool) {
	if len(f) == 1 {
		return f[0], true
	}
	return "", false
}

// First returns the first statement, or "" when empty.
func (f FormattedSQL) First() string {
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// String renders the statements as ";"-terminated lines.
func (f FormattedSQL) String() string {
	if len(f) == 0 {
		return ""
	}
	return strings.Join(f, ";\n") + ";"
}

func (f FormattedSQL) MarshalJSON() ([]byte, error) {
	if single, ok := f.Single(); ok {
		return json.Marshal(single)
	}
	return json.Marshal([]string(f))
}

func (f *FormattedSQL) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*f = FormattedSQL{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*f = FormattedSQL(many)
	return nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
