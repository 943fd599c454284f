// File: internal/services/chat/prompt.go
package chat

import (
	"fmt"
	"strings"

	"github.com/iyunix/go-sqlchat/internal/domain"
	"github.com/iyunix/go-sqlchat/internal/services/ai"
)

// SQLMarker separates the prose of a model reply from its SQL payload.
const SQLMarker = "SQL:"

const (
	personaPreamble = "You are an expert MySQL database assistant. You help users create database schemas and write SQL queries."
	noSchemaNotice  = "No database schema has been created yet."
	schemaHeading   = "CURRENT DATABASE SCHEMA:"
	tablesLabel     = "Available Tables: "
)

const schemaTask = `TASK: Generate CREATE TABLE statement(s) for MySQL.
INSTRUCTIONS:
- Open with one or two friendly sentences describing what you are creating
- Add any guidance about the business rules the user described, or questions you still have
- Analyze the business requirement carefully
- Generate complete, production-ready MySQL table(s)
- Include PRIMARY KEY and FOREIGN KEY constraints
- Use appropriate data types (INT, VARCHAR, TEXT, DECIMAL, DATE, TIMESTAMP, ENUM)
- Add NOT NULL, UNIQUE and DEFAULT constraints where appropriate
- Add indexes on foreign keys
- If multiple tables are needed, generate all of them`

const queryTask = `TASK: Convert natural language to a MySQL SELECT query.
INSTRUCTIONS:
- Open with one sentence describing what the query does
- Add any guidance about the query the user should know
- Write a single SELECT statement
- Use ONLY the existing tables from the current schema
- Use proper JOINs if multiple tables are needed
- Add WHERE, GROUP BY, ORDER BY and LIMIT as appropriate`

const optimizeQueryTask = `INSTRUCTIONS:
- Open with one or two sentences explaining what you optimized
- Improve the query based on the user's request
- Suggest indexes as SQL comments if they help
- Optimize JOINs and subqueries, or use CTEs where beneficial
- Keep the same result set`

const optimizeSchemaTask = `INSTRUCTIONS:
- Open with one or two sentences explaining the improvements
- Improve the schema based on the user's request
- Add missing indexes, constraints or relationships
- Suggest better data types where applicable
- Normalize where needed`

const conversationTask = `TASK: Have a helpful conversation about databases and SQL.
INSTRUCTIONS:
- Be conversational, friendly and helpful
- If the user is planning to build something, ask clarifying questions
- If discussing database design, give expert advice
- Keep responses concise (4-5 paragraphs max)
- Do not generate SQL unless explicitly asked`

// BuildInstruction assembles the system instruction for intent from the
// chat's schemas and queries. The output is deterministic for equal inputs.
func BuildInstruction(cc *ChatContext, intent Intent) (string, error) {
	if cc == nil {
		cc = &ChatContext{}
	}

	var b strings.Builder
	b.WriteString(personaPreamble)
	b.WriteString("\n\n")
	writeSchemaBlock(&b, cc)

	switch intent {
	case IntentSchema:
		writeTask(&b, schemaTask, "[Your friendly intro text here]", "[SQL statements here]")
	case IntentQuery:
		writeTask(&b, queryTask, "[Your friendly intro text here]", "[SQL query here]")
	case IntentOptimizeQuery:
		if len(cc.Queries) == 0 {
			writeTask(&b, queryTask, "[Your friendly intro text here]", "[SQL query here]")
			break
		}
		last := cc.Queries[len(cc.Queries)-1]
		task := fmt.Sprintf("TASK: Optimize the previous SQL query.\nPrevious Query: %s\nPrevious Request: %s\n\n%s",
			last.GeneratedSQL, last.NaturalLanguage, optimizeQueryTask)
		writeTask(&b, task, "[Your explanation of the optimization]", "[Optimized SQL query here]")
	case IntentOptimizeSchema:
		if len(cc.Schemas) == 0 {
			writeTask(&b, schemaTask, "[Your friendly intro text here]", "[SQL statements here]")
			break
		}
		last := cc.Schemas[len(cc.Schemas)-1]
		task := fmt.Sprintf("TASK: Optimize the database schema.\nCurrent Schema: %s\n\n%s",
			last.SQLStatement, optimizeSchemaTask)
		writeTask(&b, task, "[Your explanation of the improvements]", "[Improved SQL statements here]")
	case IntentConversation:
		b.WriteString(conversationTask)
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownIntent, int(intent))
	}

	return b.String(), nil
}

func writeSchemaBlock(b *strings.Builder, cc *ChatContext) {
	if len(cc.Schemas) == 0 {
		b.WriteString(noSchemaNotice)
		b.WriteString("\n\n")
		return
	}

	b.WriteString(schemaHeading)
	b.WriteString("\n")
	for _, s := range cc.Schemas {
		header := s.Description
		if header == "" {
			header = "Table: " + s.Table
		}
		fmt.Fprintf(b, "-- %s\n%s\n\n", header, s.SQLStatement)
	}
	b.WriteString(tablesLabel)
	b.WriteString(strings.Join(cc.TableNames(), ", "))
	b.WriteString("\n\n")
}

func writeTask(b *strings.Builder, task, introHint, sqlHint string) {
	b.WriteString(task)
	b.WriteString("\n\nFORMAT YOUR RESPONSE EXACTLY LIKE THIS:\n")
	b.WriteString(introHint)
	b.WriteString("\n\n")
	b.WriteString(SQLMarker)
	b.WriteString("\n")
	b.WriteString(sqlHint)
}

// BuildHistory converts stored messages to gateway turns, oldest first.
func BuildHistory(messages []domain.Message) []ai.Turn {
	turns := make([]ai.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, ai.Turn{Role: historyRole(m.Role), Text: m.Content})
	}
	return turns
}

func historyRole(r domain.MessageRole) ai.Role {
	switch r {
	case domain.RoleAssistant:
		return ai.RoleModel
	case domain.RoleSystem:
		return ai.RoleSystem
	default:
		return ai.RoleUser
	}
}
