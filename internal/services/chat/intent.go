// File: internal/services/chat/intent.go
package chat

import (
	"fmt"
	"strings"
)

// Intent is what a user message is trying to do.
type Intent int

const (
	IntentConversation Intent = iota
	IntentSchema
	IntentQuery
	IntentOptimizeSchema
	IntentOptimizeQuery
)

var intentNames = [...]string{
	IntentConversation:   "conversation",
	IntentSchema:         "schema",
	IntentQuery:          "query",
	IntentOptimizeSchema: "optimize_schema",
	IntentOptimizeQuery:  "optimize_query",
}

func (i Intent) String() string {
	if !i.Valid() {
		return fmt.Sprintf("Intent(%d)", int(i))
	}
	return intentNames[i]
}

func (i Intent) Valid() bool {
	return i >= IntentConversation && int(i) < len(intentNames)
}

// ProducesSQL reports whether a reply to this intent is expected to carry SQL.
func (i Intent) ProducesSQL() bool {
	return i != IntentConversation && i.Valid()
}

// ProducesSchema reports whether generated SQL is stored as a schema record.
func (i Intent) ProducesSchema() bool {
	return i == IntentSchema || i == IntentOptimizeSchema
}

func (i Intent) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("invalid intent %d", int(i))
	}
	return []byte(i.String()), nil
}

func (i *Intent) UnmarshalText(b []byte) error {
	parsed, err := ParseIntent(string(b))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// ParseIntent maps a label such as "optimize_query" back to an Intent.
func ParseIntent(s string) (Intent, error) {
	for i, name := range intentNames {
		if name == s {
			return Intent(i), nil
		}
	}
	return IntentConversation, fmt.Errorf("unknown intent %q", s)
}

// Keyword sets are matched as substrings of the lowercased input, so
// "create table" must appear contiguously.
var (
	optimizeKeywords     = []string{"optimize", "improve", "better", "enhance", "refactor", "modify"}
	optimizeQueryRefs    = []string{"query", "above", "previous"}
	optimizeSchemaRefs   = []string{"schema", "table"}
	schemaKeywords       = []string{"create table", "schema", "database design", "table structure", "design database", "design a database"}
	queryKeywords        = []string{"select", "query", "get", "find", "show", "list", "fetch", "retrieve"}
	conversationKeywords = []string{"what", "how", "why", "tell me", "explain", "can you", "should i", "help me"}
)

// Classify picks an intent for input using keyword heuristics and whether the
// chat already has schemas or queries. First matching rule wins.
func Classify(input string, cc *ChatContext) Intent {
	text := strings.ToLower(strings.TrimSpace(input))
	hasSchemas := cc != nil && len(cc.Schemas) > 0
	hasQueries := cc != nil && len(cc.Queries) > 0

	if containsAny(text, optimizeKeywords) {
		switch {
		case containsAny(text, optimizeQueryRefs):
			if hasQueries {
				return IntentOptimizeQuery
			}
			return IntentConversation
		case containsAny(text, optimizeSchemaRefs):
			if hasSchemas {
				return IntentOptimizeSchema
			}
			return IntentConversation
		case hasQueries:
			return IntentOptimizeQuery
		}
	}

	if containsAny(text, schemaKeywords) {
		return IntentSchema
	}

	if containsAny(text, queryKeywords) {
		if hasSchemas {
			return IntentQuery
		}
		return IntentConversation
	}

	if containsAny(text, conversationKeywords) {
		return IntentConversation
	}

	if hasSchemas {
		return IntentQuery
	}
	return IntentConversation
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
