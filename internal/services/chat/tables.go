// File: internal/services/chat/tables.go
package chat

import (
	"regexp"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

// TableExtractor reads table names out of CREATE TABLE text.
type TableExtractor interface {
	PrimaryTable(sql string) string
	AllTables(sql string) []string
}

var createTablePattern = regexp.MustCompile("(?i)CREATE\\s+TABLE\\s+(?:IF\\s+NOT\\s+EXISTS\\s+)?`?(\\w+)`?")

// RegexTableExtractor matches CREATE TABLE [IF NOT EXISTS] <name>, with the
// name optionally backtick-quoted. It is a heuristic, not a SQL parser.
type RegexTableExtractor struct{}

// PrimaryTable returns the first table name, or domain.UnknownTable.
func (RegexTableExtractor) PrimaryTable(sql string) string {
	m := createTablePattern.FindStringSubmatch(sql)
	if m == nil {
		return domain.UnknownTable
	}
	return m[1]
}

// AllTables returns every table name in order of appearance.
func (RegexTableExtractor) AllTables(sql string) []string {
	matches := createTablePattern.FindAllStringSubmatch(sql, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

func ExtractTableName(sql string) string {
	return RegexTableExtractor{}.PrimaryTable(sql)
}

func ExtractAllTableNames(sql string) []string {
	return RegexTableExtractor{}.AllTables(sql)
}
