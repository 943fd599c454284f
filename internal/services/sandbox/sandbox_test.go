package sandbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/iyunix/go-sqlchat/internal/repository"
	"github.com/iyunix/go-sqlchat/internal/services"
	"github.com/iyunix/go-sqlchat/internal/services/chat"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repository.Open("sqlite", ":memory:", false)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

type fixture struct {
	svc    *Service
	store  *repository.GormStore
	spaces *SQLiteWorkspaces
	chatID string
}

func newFixture(t *testing.T, maxRows int) *fixture {
	t.Helper()
	appDB := openMemory(t)
	require.NoError(t, repository.Migrate(appDB))
	store := repository.NewGormStore(appDB)

	c, err := store.CreateSession(context.Background(), 1, "")
	require.NoError(t, err)

	spaces := NewSQLiteWorkspaces(":memory:", time.Hour)
	t.Cleanup(func() { _ = spaces.Close() })
	return &fixture{
		svc:    New(spaces, store, maxRows, 5*time.Second, &services.NoOpLogger{}),
		store:  store,
		spaces: spaces,
		chatID: c.ID,
	}
}

// box returns the sandbox database of chatID, or of the fixture's chat.
func (f *fixture) box(t *testing.T, chatID ...string) *gorm.DB {
	t.Helper()
	id := f.chatID
	if len(chatID) > 0 {
		id = chatID[0]
	}
	ws, err := f.spaces.Acquire(context.Background(), id)
	require.NoError(t, err)
	return ws.DB
}

func (f *fixture) newChat(t *testing.T, userID uint) string {
	t.Helper()
	c, err := f.store.CreateSession(context.Background(), userID, "")
	require.NoError(t, err)
	return c.ID
}

func (f *fixture) addSchema(t *testing.T, sql string) uint {
	t.Helper()
	return f.addSchemaTo(t, f.chatID, sql)
}

func (f *fixture) addSchemaTo(t *testing.T, chatID, sql string) uint {
	t.Helper()
	s, err := f.store.AppendSchema(context.Background(), chatID, chat.ExtractTableName(sql), sql, "")
	require.NoError(t, err)
	return s.ID
}

func (f *fixture) addQuery(t *testing.T, sql string) uint {
	t.Helper()
	q, err := f.store.AppendQuery(context.Background(), f.chatID, "question", sql)
	require.NoError(t, err)
	return q.ID
}

func TestApplySchemaRequiresConfirmation(t *testing.T) {
	f := newFixture(t, 10)
	id := f.addSchema(t, "CREATE TABLE books (id INTEGER PRIMARY KEY);")

	_, err := f.svc.ApplySchema(context.Background(), 1, f.chatID, id, false)
	assert.True(t, chat.IsValidation(err))
	assert.False(t, f.box(t).Migrator().HasTable("books"))
}

func TestApplySchemaCreatesTables(t *testing.T) {
	f := newFixture(t, 10)
	id := f.addSchema(t, "CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT);\nCREATE TABLE authors (id INTEGER PRIMARY KEY);")

	res, err := f.svc.ApplySchema(context.Background(), 1, f.chatID, id, true)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	require.Len(t, res.Statements, 2)
	for _, st := range res.Statements {
		assert.Equal(t, StatementApplied, st.Status)
	}
	assert.True(t, f.box(t).Migrator().HasTable("books"))
	assert.True(t, f.box(t).Migrator().HasTable("authors"))
}

func TestApplySchemaRollsBackOnFailure(t *testing.T) {
	f := newFixture(t, 10)
	id := f.addSchema(t, "CREATE TABLE books (id INTEGER PRIMARY KEY);\nCREATE TABLE books (id INTEGER);\nCREATE TABLE later (id INTEGER);")

	res, err := f.svc.ApplySchema(context.Background(), 1, f.chatID, id, true)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, StatementRolledBack, res.Statements[0].Status)
	assert.Equal(t, StatementFailed, res.Statements[1].Status)
	assert.NotEmpty(t, res.Statements[1].Error)
	assert.Equal(t, StatementSkipped, res.Statements[2].Status)
	assert.False(t, f.box(t).Migrator().HasTable("books"))
}

func TestApplySchemaOwnershipAndMissing(t *testing.T) {
	f := newFixture(t, 10)
	id := f.addSchema(t, "CREATE TABLE books (id INTEGER PRIMARY KEY);")

	_, err := f.svc.ApplySchema(context.Background(), 2, f.chatID, id, true)
	assert.True(t, chat.IsNotFound(err))
	_, err = f.svc.ApplySchema(context.Background(), 1, f.chatID, id+100, true)
	assert.True(t, chat.IsNotFound(err))
}

func TestExecuteQueryRecordsResult(t *testing.T) {
	f := newFixture(t, 2)
	require.NoError(t, f.box(t).Exec("CREATE TABLE books (id INTEGER PRIMARY KEY, title TEXT)").Error)
	require.NoError(t, f.box(t).Exec("INSERT INTO books (id, title) VALUES (1, 'Dune'), (2, 'Emma'), (3, 'Ulysses')").Error)
	id := f.addQuery(t, "SELECT id, title FROM books ORDER BY id;")

	res, err := f.svc.ExecuteQuery(context.Background(), 1, f.chatID, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "title"}, res.Columns)
	assert.Equal(t, 2, res.RowCount)
	assert.True(t, res.Truncated)
	assert.Equal(t, "Dune", res.Rows[0][1])

	q, err := f.store.GetQuery(context.Background(), f.chatID, id)
	require.NoError(t, err)
	assert.True(t, q.WasExecuted)
	require.NotNil(t, q.ExecutedAt)

	var stored QueryResult
	require.NoError(t, json.Unmarshal(q.ExecutionResult, &stored))
	assert.Equal(t, []string{"id", "title"}, stored.Columns)
	assert.Len(t, stored.Rows, 2)
}

func TestExecuteQueryRejectsWrites(t *testing.T) {
	f := newFixture(t, 10)
	require.NoError(t, f.box(t).Exec("CREATE TABLE books (id INTEGER PRIMARY KEY)").Error)

	for _, sql := range []string{
		"DELETE FROM books;",
		"SELECT 1; DROP TABLE books;",
		"WITH x AS (SELECT 1) INSERT INTO books SELECT * FROM x;",
	} {
		id := f.addQuery(t, sql)
		_, err := f.svc.ExecuteQuery(context.Background(), 1, f.chatID, id)
		assert.True(t, chat.IsValidation(err), sql)
	}
	assert.True(t, f.box(t).Migrator().HasTable("books"))
}

func TestExecuteQueryBadSQL(t *testing.T) {
	f := newFixture(t, 10)
	id := f.addQuery(t, "SELECT * FROM nowhere;")
	_, err := f.svc.ExecuteQuery(context.Background(), 1, f.chatID, id)
	assert.True(t, chat.IsValidation(err))
}

func TestDisabledSandbox(t *testing.T) {
	svc, err := Open(Config{}, nil, &services.NoOpLogger{})
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	_, err = svc.ApplySchema(context.Background(), 1, "c", 1, true)
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = svc.ExecuteQuery(context.Background(), 1, "c", 1)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestCheckReadOnly(t *testing.T) {
	stmt, err := CheckReadOnly("  select *\n from orders where updated_at > created_at ;")
	require.NoError(t, err)
	assert.Equal(t, "select * from orders where updated_at > created_at", stmt)

	_, err = CheckReadOnly("WITH t AS (SELECT 1) SELECT * FROM t")
	assert.NoError(t, err)
	_, err = CheckReadOnly("SELECT * INTO backup FROM orders")
	assert.Error(t, err)
	_, err = CheckReadOnly("")
	assert.Error(t, err)
}

func TestApplySchemaIsolatesChats(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	other := f.newChat(t, 2)

	id := f.addSchema(t, "CREATE TABLE books (id INTEGER PRIMARY KEY);")
	res, err := f.svc.ApplySchema(ctx, 1, f.chatID, id, true)
	require.NoError(t, err)
	require.True(t, res.Applied)

	hostile := f.addSchemaTo(t, other, "CREATE TABLE x (id INT);\nDROP TABLE books;")
	_, err = f.svc.ApplySchema(ctx, 2, other, hostile, true)
	assert.True(t, chat.IsValidation(err))
	assert.True(t, f.box(t).Migrator().HasTable("books"))
	assert.False(t, f.box(t, other).Migrator().HasTable("x"))

	same := f.addSchemaTo(t, other, "CREATE TABLE books (id INTEGER PRIMARY KEY, isbn TEXT);")
	res, err = f.svc.ApplySchema(ctx, 2, other, same, true)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.True(t, f.box(t, other).Migrator().HasColumn("books", "isbn"))
	assert.False(t, f.box(t).Migrator().HasColumn("books", "isbn"))
}

func TestApplySchemaAllowsChangesToOwnTables(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	first := f.addSchema(t, "CREATE TABLE books (id INTEGER PRIMARY KEY);")
	_, err := f.svc.ApplySchema(ctx, 1, f.chatID, first, true)
	require.NoError(t, err)

	change := f.addSchema(t, "ALTER TABLE books ADD COLUMN title TEXT;\nCREATE INDEX idx_books_title ON books (title);")
	res, err := f.svc.ApplySchema(ctx, 1, f.chatID, change, true)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.True(t, f.box(t).Migrator().HasColumn("books", "title"))

	foreign := f.addSchema(t, "ALTER TABLE members ADD COLUMN x TEXT;")
	_, err = f.svc.ApplySchema(ctx, 1, f.chatID, foreign, true)
	assert.True(t, chat.IsValidation(err))
}

func TestSchemaGuard(t *testing.T) {
	cases := []struct {
		stmt string
		ok   bool
	}{
		{"CREATE TABLE books (id INT)", true},
		{"create table if not exists `authors`(id int)", true},
		{"CREATE UNIQUE INDEX idx ON books (id)", true},
		{"ALTER TABLE books ADD COLUMN isbn TEXT", true},
		{"ALTER TABLE loans ADD COLUMN due DATE", false},
		{"CREATE INDEX idx ON loans (id)", false},
		{"CREATE TABLE other.books (id INT)", false},
		{"DROP TABLE books", false},
		{"INSERT INTO books VALUES (1)", false},
		{"ATTACH DATABASE 'x.db' AS x", false},
	}
	for _, tc := range cases {
		g := newSchemaGuard([]string{"Books"})
		err := g.Check(tc.stmt)
		if tc.ok {
			assert.NoError(t, err, tc.stmt)
		} else {
			assert.Error(t, err, tc.stmt)
		}
	}
}

func TestWorkspaceScope(t *testing.T) {
	spaces := NewSQLiteWorkspaces(":memory:", time.Hour)
	defer spaces.Close()

	_, err := spaces.Acquire(context.Background(), "not-a-uuid")
	assert.Error(t, err)

	ws, err := spaces.Acquire(context.Background(), "6f1c2b7e-8a4d-4c3e-9b1a-2d5e7f9a0c11")
	require.NoError(t, err)
	assert.Equal(t, "chat_6f1c2b7e8a4d4c3e9b1a2d5e7f9a0c11", ws.Scope)
	assert.NoError(t, ws.checkScope("SELECT * FROM chat_6f1c2b7e8a4d4c3e9b1a2d5e7f9a0c11.books"))
	assert.Error(t, ws.checkScope("SELECT * FROM chat_00000000000000000000000000000000.books"))

	again, err := spaces.Acquire(context.Background(), "6f1c2b7e-8a4d-4c3e-9b1a-2d5e7f9a0c11")
	require.NoError(t, err)
	assert.Same(t, ws.DB, again.DB)
}
