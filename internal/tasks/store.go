package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MemoryLocation opens a private in-memory database.
const MemoryLocation = ":memory:"

// timeLayout is fixed-width so that lexical order of the stored text matches
// chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const selectColumns = "SELECT id, title, description, completed, created_at, updated_at FROM todos"

// Store is the SQLite-backed task repository. Each method is a single
// statement and therefore atomic on its own.
type Store struct {
    db   *sql.DB
    path string // empty for in-memory stores
}

// Open opens or creates the store at location and ensures the schema exists.
//
// Accepted locations: ":memory:" or "sqlite::memory:", "sqlite://<path>",
// a "file:" URI, or a bare filesystem path whose parent directories are
// created on demand.
func Open(location string) (*Store, error) {
    dsn, path, memory, err := resolveLocation(location)
    if err != nil { return nil, connErr("open", err) }
    db, err := sql.Open("sqlite", dsn)
    if err != nil { return nil, connErr("open", err) }
    if memory {
        // every pooled connection would otherwise see its own empty database
        db.SetMaxOpenConns(1)
        db.SetMaxIdleConns(1)
        db.SetConnMaxLifetime(0)
    } else {
        db.SetMaxOpenConns(5)
    }
    ctx := context.Background()
    if err := db.PingContext(ctx); err != nil {
        db.Close()
        return nil, connErr("open "+location, err)
    }
    if err := initSchema(ctx, db); err != nil {
        db.Close()
        return nil, connErr("init schema", err)
    }
    return &Store{db: db, path: path}, nil
}

func resolveLocation(location string) (dsn, path string, memory bool, err error) {
    const pragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
    loc := strings.TrimSpace(location)
    switch {
    case loc == "":
        return "", "", false, errors.New("empty database location")
    case loc == MemoryLocation || loc == "sqlite::memory:":
        return MemoryLocation, "", true, nil
    case strings.HasPrefix(loc, "sqlite://"):
        return resolveLocation(strings.TrimPrefix(loc, "sqlite://"))
    case strings.HasPrefix(loc, "file:"):
        p := strings.TrimPrefix(loc, "file:")
        if i := strings.IndexByte(p, '?'); i >= 0 { p = p[:i] }
        sep := "?"
        if strings.Contains(loc, "?") { sep = "&" }
        if p == "" || p == MemoryLocation || strings.Contains(loc, "mode=memory") {
            return loc, "", true, nil
        }
        if err := ensureParentDir(p); err != nil { return "", "", false, err }
        return loc + sep + pragmas, p, false, nil
    }
    if err := ensureParentDir(loc); err != nil { return "", "", false, err }
    return "file:" + loc + "?mode=rwc&" + pragmas, loc, false, nil
}

func ensureParentDir(path string) error {
    dir := filepath.Dir(path)
    if dir == "." { return nil }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("create db directory: %w", err)
    }
    return nil
}

// initSchema creates the table when absent and adds columns introduced after
// the first schema. Evolution is additive only.
func initSchema(ctx context.Context, db *sql.DB) error {
    if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS todos (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  completed BOOLEAN NOT NULL DEFAULT FALSE,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
)`); err != nil {
        return fmt.Errorf("create todos table: %w", err)
    }
    additive := []struct{ name, ddl string }{
        {"description", `ALTER TABLE todos ADD COLUMN description TEXT`},
        {"completed", `ALTER TABLE todos ADD COLUMN completed BOOLEAN NOT NULL DEFAULT FALSE`},
        {"updated_at", `ALTER TABLE todos ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''`},
    }
    for _, col := range additive {
        ok, err := columnExists(ctx, db, "todos", col.name)
        if err != nil { return fmt.Errorf("check %s column: %w", col.name, err) }
        if ok { continue }
        log.Printf("[store] adding column todos.%s", col.name)
        if _, err := db.ExecContext(ctx, col.ddl); err != nil {
            return fmt.Errorf("add %s column: %w", col.name, err)
        }
    }
    if _, err := db.ExecContext(ctx, `UPDATE todos SET updated_at = created_at WHERE updated_at = ''`); err != nil {
        return fmt.Errorf("backfill updated_at: %w", err)
    }
    if _, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_todos_created_at ON todos(created_at)`); err != nil {
        return fmt.Errorf("create index: %w", err)
    }
    return nil
}

// columnExists closes its cursor before returning; with a single pooled
// connection an open cursor would block the next statement.
func columnExists(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
    rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT name FROM pragma_table_info('%s') WHERE name = ?", table), column)
    if err != nil { return false, err }
    found := rows.Next()
    rows.Close()
    if err := rows.Err(); err != nil { return false, err }
    return found, nil
}

// Path returns the database file path, or "" for in-memory stores.
func (s *Store) Path() string { return s.path }

func (s *Store) Close() error { return s.db.Close() }

// Create inserts t. A duplicate id fails with ErrConflict.
func (s *Store) Create(ctx context.Context, t Task) error {
    _, err := s.db.ExecContext(ctx,
        `INSERT INTO todos (id, title, description, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
        t.ID, t.Title, nullable(t.Description), t.Completed, formatTime(t.CreatedAt), formatTime(t.UpdatedAt))
    if err != nil {
        if isPrimaryKeyViolation(err) {
            return &StorageError{Kind: ErrConflict, Op: "create " + t.ID, Err: err}
        }
        return queryErr("create", err)
    }
    return nil
}

// Get returns nil, nil when no task has the given id.
func (s *Store) Get(ctx context.Context, id string) (*Task, error) {
    row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
    t, err := scanTask(row)
    if err == sql.ErrNoRows { return nil, nil }
    if err != nil { return nil, queryErr("get", err) }
    return &t, nil
}

// Update overwrites the mutable fields of the row matching t.ID and returns
// the number of affected rows. Zero rows is not an error.
func (s *Store) Update(ctx context.Context, t Task) (int64, error) {
    res, err := s.db.ExecContext(ctx,
        `UPDATE todos SET title = ?, description = ?, completed = ?, updated_at = ? WHERE id = ?`,
        t.Title, nullable(t.Description), t.Completed, formatTime(t.UpdatedAt), t.ID)
    if err != nil { return 0, queryErr("update", err) }
    n, err := res.RowsAffected()
    if err != nil { return 0, queryErr("update", err) }
    return n, nil
}

// Delete removes the row matching id and returns the number of affected rows.
// Zero rows is not an error.
func (s *Store) Delete(ctx context.Context, id string) (int64, error) {
    res, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
    if err != nil { return 0, queryErr("delete", err) }
    n, err := res.RowsAffected()
    if err != nil { return 0, queryErr("delete", err) }
    return n, nil
}

// ListAll returns every task, newest first. Equal timestamps fall back to
// reverse insertion order.
func (s *Store) ListAll(ctx context.Context) ([]Task, error) {
    return s.query(ctx, "list all", selectColumns+` ORDER BY created_at DESC, rowid DESC`)
}

// ListByStatus is ListAll restricted to one completion state.
func (s *Store) ListByStatus(ctx context.Context, completed bool) ([]Task, error) {
    return s.query(ctx, "list by status", selectColumns+` WHERE completed = ? ORDER BY created_at DESC, rowid DESC`, completed)
}

func (s *Store) List(ctx context.Context, f Filter) ([]Task, error) {
    switch f {
    case FilterCompleted:
        return s.ListByStatus(ctx, true)
    case FilterPending:
        return s.ListByStatus(ctx, false)
    case FilterAll:
        return s.ListAll(ctx)
    }
    return nil, queryErr("list", fmt.Errorf("unknown filter %d", int(f)))
}

// Backup writes a consistent copy of the database next to it, named
// <db>.bak-<suffix>, and returns its path. A taken suffix gets a -N counter.
func (s *Store) Backup(ctx context.Context, suffix string) (string, error) {
    if s.path == "" { return "", queryErr("backup", errors.New("in-memory database has no file to back up")) }
    dst := backupPath(s.path, suffix)
    for n := 1; fileExists(dst); n++ {
        dst = backupPath(s.path, fmt.Sprintf("%s-%d", suffix, n))
    }
    if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, dst); err != nil {
        return "", queryErr("backup", err)
    }
    return dst, nil
}

func (s *Store) query(ctx context.Context, op, q string, args ...any) ([]Task, error) {
    rows, err := s.db.QueryContext(ctx, q, args...)
    if err != nil { return nil, queryErr(op, err) }
    defer rows.Close()
    out := []Task{}
    for rows.Next() {
        t, err := scanTask(rows)
        if err != nil { return nil, queryErr(op, err) }
        out = append(out, t)
    }
    if err := rows.Err(); err != nil { return nil, queryErr(op, err) }
    return out, nil
}

type scanner interface{ Scan(dest ...any) error }

func scanTask(sc scanner) (Task, error) {
    var t Task
    var desc sql.NullString
    var created, updated string
    if err := sc.Scan(&t.ID, &t.Title, &desc, &t.Completed, &created, &updated); err != nil {
        return Task{}, err
    }
    if desc.Valid { t.Description = desc.String }
    var err error
    if t.CreatedAt, err = parseTime(created); err != nil { return Task{}, fmt.Errorf("task %s created_at: %w", t.ID, err) }
    if t.UpdatedAt, err = parseTime(updated); err != nil { return Task{}, fmt.Errorf("task %s updated_at: %w", t.ID, err) }
    return t, nil
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
    t, err := time.Parse(time.RFC3339Nano, s)
    if err != nil { return time.Time{}, err }
    return t.UTC(), nil
}

func nullable(s string) any {
    if s == "" { return nil }
    return s
}

func isPrimaryKeyViolation(err error) bool {
    var se *sqlite.Error
    if !errors.As(err, &se) { return false }
    return se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY || se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func fileExists(p string) bool {
    _, err := os.Stat(p)
    return err == nil
}
