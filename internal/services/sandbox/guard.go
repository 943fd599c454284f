// File: internal/services/sandbox/guard.go
package sandbox

import (
	"fmt"
	"regexp"
	"strings"
)

const identifier = "[`\"]?([A-Za-z_][A-Za-z0-9_]*)[`\"]?"

// Unqualified names only; "other.books" does not match.
var (
	createTableStmt = regexp.MustCompile(`(?i)^CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?` + identifier + `(?:\s|\(|$)`)
	createIndexStmt = regexp.MustCompile(`(?i)^CREATE\s+(?:UNIQUE\s+)?INDEX\s+(?:IF\s+NOT\s+EXISTS\s+)?` + identifier + `\s+ON\s+` + identifier + `(?:\s|\(|$)`)
	alterTableStmt  = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+(?:IF\s+EXISTS\s+)?` + identifier + `(?:\s|$)`)
)

// schemaGuard admits CREATE TABLE, CREATE INDEX and ALTER TABLE statements.
// Index and alter statements must target a table the chat owns: one named in
// its stored schemas or created earlier in the same apply.
type schemaGuard struct {
	owned map[string]bool
}

func newSchemaGuard(ownedTables []string) *schemaGuard {
	g := &schemaGuard{owned: make(map[string]bool, len(ownedTables))}
	for _, t := range ownedTables {
		g.owned[strings.ToLower(t)] = true
	}
	return g
}

// Check validates stmt and records any table it creates.
func (g *schemaGuard) Check(stmt string) error {
	if m := createTableStmt.FindStringSubmatch(stmt); m != nil {
		g.owned[strings.ToLower(m[1])] = true
		return nil
	}
	var target string
	if m := createIndexStmt.FindStringSubmatch(stmt); m != nil {
		target = m[2]
	} else if m := alterTableStmt.FindStringSubmatch(stmt); m != nil {
		target = m[1]
	} else {
		return fmt.Errorf("only CREATE TABLE, CREATE INDEX and ALTER TABLE statements can be applied")
	}
	if !g.owned[strings.ToLower(target)] {
		return fmt.Errorf("table %q does not belong to this chat", target)
	}
	return nil
}
