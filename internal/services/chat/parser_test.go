package chat

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-sqlchat/internal/domain"
)

func TestParseResponseSplit(t *testing.T) {
	got := ParseResponse("Here you go\nSQL:\nSELECT 1;")
	require.NotNil(t, got)
	assert.Equal(t, ParsedResponse{Text: "Here you go", SQL: "SELECT 1;", HasSQL: true}, *got)
}

func TestParseResponseNoMarker(t *testing.T) {
	for _, in := range []string{"just chatting", "  padded text \n", "sql: lowercase is not a marker"} {
		got := ParseResponse(in)
		require.NotNil(t, got)
		assert.Equal(t, strings.TrimSpace(in), got.Text)
		assert.Empty(t, got.SQL)
		assert.False(t, got.HasSQL)
	}
}

func TestParseResponseFirstMarkerOnly(t *testing.T) {
	got := ParseResponse("intro SQL: SELECT 'SQL: nested';")
	require.NotNil(t, got)
	assert.Equal(t, "intro", got.Text)
	assert.Equal(t, "SELECT 'SQL: nested';", got.SQL)
}

func TestParseResponseEmpty(t *testing.T) {
	assert.Nil(t, ParseResponse(""))
	assert.Nil(t, ParseResponse(" \n\t "))
}

func TestCleanResponse(t *testing.T) {
	raw := "Here it is\n\nSQL:\n```sql\nSELECT 1;\n```\n"
	assert.Equal(t, "Here it is\n\nSQL:\n\nSELECT 1;", CleanResponse(raw))
	assert.Equal(t, "x", CleanResponse("```SQL x```"))
}

func TestFormatSQLForStorageMultiple(t *testing.T) {
	got := FormatSQLForStorage("CREATE TABLE a(id INT);\n\nCREATE TABLE b(id INT);")
	assert.Equal(t, FormattedSQL{"CREATE TABLE a(id INT)", "CREATE TABLE b(id INT)"}, got)
}

func TestFormatSQLForStorageCollapses(t *testing.T) {
	got := FormatSQLForStorage("SELECT *\n   FROM\tbooks\n  WHERE id = 1;  ;;")
	single, ok := got.Single()
	require.True(t, ok)
	assert.Equal(t, "SELECT * FROM books WHERE id = 1", single)
}

func TestFormatSQLForStorageIdempotent(t *testing.T) {
	once := FormatSQLForStorage("SELECT  a,\n b FROM t")
	single, ok := once.Single()
	require.True(t, ok)
	assert.Equal(t, once, FormatSQLForStorage(single))
}

func TestFormattedSQLJSONShape(t *testing.T) {
	one, err := json.Marshal(FormattedSQL{"SELECT 1"})
	require.NoError(t, err)
	assert.JSONEq(t, `"SELECT 1"`, string(one))

	two, err := json.Marshal(FormattedSQL{"A", "B"})
	require.NoError(t, err)
	assert.JSONEq(t, `["A","B"]`, string(two))

	var back FormattedSQL
	require.NoError(t, json.Unmarshal([]byte(`"X"`), &back))
	assert.Equal(t, FormattedSQL{"X"}, back)
	require.NoError(t, json.Unmarshal([]byte(`["X","Y"]`), &back))
	assert.Equal(t, FormattedSQL{"X", "Y"}, back)
}

func TestFormattedSQLString(t *testing.T) {
	assert.Equal(t, "A;\nB;", FormattedSQL{"A", "B"}.String())
	assert.Equal(t, "", FormattedSQL{}.String())
	assert.Equal(t, "", FormattedSQL{}.First())
}

func TestExtractTableName(t *testing.T) {
	assert.Equal(t, "orders", ExtractTableName("CREATE TABLE IF NOT EXISTS orders (id INT)"))
	assert.Equal(t, "users", ExtractTableName("create table `users` (id int)"))
	assert.Equal(t, domain.UnknownTable, ExtractTableName("SELECT * FROM orders"))
}

func TestExtractAllTableNames(t *testing.T) {
	sql := "CREATE TABLE a (id INT); create table if not exists `b` (id INT); CREATE TABLE c(id INT);"
	assert.Equal(t, []string{"a", "b", "c"}, ExtractAllTableNames(sql))
	assert.Empty(t, ExtractAllTableNames("SELECT 1"))
}

func TestTitleFromMessage(t *testing.T) {
	sixty := strings.Repeat("abcdefghij", 6)
	assert.Equal(t, sixty[:50]+"...", TitleFromMessage(sixty, 50))
	assert.Equal(t, "short", TitleFromMessage("short", 50))
	assert.Equal(t, strings.Repeat("é", 50), TitleFromMessage(strings.Repeat("é", 50), 50))
	assert.Equal(t, strings.Repeat("é", 3)+"...", TitleFromMessage(strings.Repeat("é", 4), 3))
}
