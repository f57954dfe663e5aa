package tui

import (
    "context"
    "errors"
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    tea "github.com/charmbracelet/bubbletea"

    "todo-tui/internal/config"
    "todo-tui/internal/tasks"
)

// flakyStore wraps a real store and fails the named operation.
type flakyStore struct {
    *tasks.Store
    failOn string
}

var errBoom = &tasks.StorageError{Kind: tasks.ErrQuery, Op: "test", Err: errors.New("boom")}

func (s *flakyStore) Create(ctx context.Context, t tasks.Task) error {
    if s.failOn == "create" { return errBoom }
    return s.Store.Create(ctx, t)
}

func (s *flakyStore) Update(ctx context.Context, t tasks.Task) (int64, error) {
    if s.failOn == "update" { return 0, errBoom }
    return s.Store.Update(ctx, t)
}

func (s *flakyStore) Delete(ctx context.Context, id string) (int64, error) {
    if s.failOn == "delete" { return 0, errBoom }
    return s.Store.Delete(ctx, id)
}

func (s *flakyStore) List(ctx context.Context, f tasks.Filter) ([]tasks.Task, error) {
    if s.failOn == "list" { return nil, errBoom }
    return s.Store.List(ctx, f)
}

func newStore(t *testing.T, titles ...string) *flakyStore {
    t.Helper()
    st, err := tasks.Open(tasks.MemoryLocation)
    if err != nil { t.Fatalf("open: %v", err) }
    t.Cleanup(func() { st.Close() })
    base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
    for i, title := range titles {
        tk := tasks.New(title, "")
        tk.CreatedAt = base.Add(time.Duration(i) * time.Minute)
        tk.UpdatedAt = tk.CreatedAt
        if err := st.Create(context.Background(), tk); err != nil { t.Fatalf("seed: %v", err) }
    }
    return &flakyStore{Store: st}
}

func newModel(t *testing.T, st Store) Model {
    t.Helper()
    m := New(context.Background(), st, config.Default(), nil)
    if err := m.Load(); err != nil { t.Fatalf("load: %v", err) }
    return m
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func press(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
    t.Helper()
    var cmd tea.Cmd
    for _, msg := range msgs {
        var next tea.Model
        next, cmd = m.Update(msg)
        m = next.(Model)
    }
    return m, cmd
}

func isQuit(cmd tea.Cmd) bool {
    if cmd == nil { return false }
    _, ok := cmd().(tea.QuitMsg)
    return ok
}

func titles(m Model) []string {
    out := []string{}
    for _, tk := range m.Tasks() { out = append(out, tk.Title) }
    return out
}

func TestInitialState(t *testing.T) {
    m := newModel(t, newStore(t))
    if m.Mode() != ModeNormal || m.Filter() != tasks.FilterAll { t.Fatalf("unexpected mode/filter %v/%v", m.Mode(), m.Filter()) }
    if m.Cursor() != -1 { t.Fatalf("empty list should have no cursor, got %d", m.Cursor()) }
    if !strings.Contains(m.Status(), "Welcome") { t.Fatalf("unexpected status %q", m.Status()) }

    m = newModel(t, newStore(t, "one"))
    if m.Cursor() != 0 { t.Fatalf("cursor = %d, want 0", m.Cursor()) }
}

func TestTypingAndCreate(t *testing.T) {
    m := newModel(t, newStore(t))
    m, _ = press(t, m, runes("n"))
    if m.Mode() != ModeEditing { t.Fatal("n should enter editing mode") }
    m, _ = press(t, m, runes("a"), runes("b"), runes("c"), tea.KeyMsg{Type: tea.KeyBackspace})
    if m.Input() != "ab" { t.Fatalf("input = %q, want ab", m.Input()) }
    m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
    if isQuit(cmd) { t.Fatal("enter should not quit") }
    if m.Mode() != ModeNormal || m.Input() != "" { t.Fatalf("expected normal mode with empty buffer, got %v %q", m.Mode(), m.Input()) }
    if got := titles(m); len(got) != 1 || got[0] != "ab" { t.Fatalf("titles = %v", got) }
    if m.Status() != "Todo added!" { t.Fatalf("status = %q", m.Status()) }
    if m.Cursor() != 0 { t.Fatalf("cursor = %d", m.Cursor()) }
}

func TestEditingKeysAreLiteral(t *testing.T) {
    m := newModel(t, newStore(t))
    m, cmd := press(t, m, runes("n"), runes("q"), tea.KeyMsg{Type: tea.KeySpace}, runes("d"))
    if isQuit(cmd) { t.Fatal("q must be literal while editing") }
    if m.Input() != "q d" { t.Fatalf("input = %q", m.Input()) }
}

func TestEnterWithBlankBufferStaysEditing(t *testing.T) {
    m := newModel(t, newStore(t))
    m, _ = press(t, m, runes("n"), tea.KeyMsg{Type: tea.KeyEnter})
    if m.Mode() != ModeEditing { t.Fatal("empty enter should be a no-op") }
    m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter})
    if m.Mode() != ModeEditing || len(m.Tasks()) != 0 { t.Fatal("whitespace-only title must not be created") }
}

func TestEscCancels(t *testing.T) {
    m := newModel(t, newStore(t))
    m, _ = press(t, m, runes("n"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
    if m.Mode() != ModeNormal || m.Input() != "" || m.Status() != "Cancelled" { t.Fatalf("esc: mode=%v input=%q status=%q", m.Mode(), m.Input(), m.Status()) }
    if len(m.Tasks()) != 0 { t.Fatal("cancel must not create") }
}

func TestBackspaceOnEmptyBuffer(t *testing.T) {
    m := newModel(t, newStore(t))
    m, _ = press(t, m, runes("n"), tea.KeyMsg{Type: tea.KeyBackspace}, runes("é"), tea.KeyMsg{Type: tea.KeyBackspace})
    if m.Input() != "" || m.Mode() != ModeEditing { t.Fatalf("input = %q", m.Input()) }
}

func TestNavigationWraps(t *testing.T) {
    m := newModel(t, newStore(t, "a", "b", "c"))
    if got := titles(m); strings.Join(got, ",") != "c,b,a" { t.Fatalf("order = %v", got) }
    m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyUp})
    if m.Cursor() != 2 { t.Fatalf("up from 0 should wrap to 2, got %d", m.Cursor()) }
    m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
    if m.Cursor() != 0 { t.Fatalf("down from last should wrap to 0, got %d", m.Cursor()) }
    m, _ = press(t, m, runes("j"), runes("j"))
    if m.Cursor() != 2 { t.Fatalf("j j = %d", m.Cursor()) }
    m, _ = press(t, m, runes("k"))
    if m.Cursor() != 1 { t.Fatalf("k = %d", m.Cursor()) }
}

func TestNavigationSingleAndEmpty(t *testing.T) {
    m := newModel(t, newStore(t, "only"))
    m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyUp})
    if m.Cursor() != 0 { t.Fatalf("single item cursor = %d", m.Cursor()) }

    m = newModel(t, newStore(t))
    m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyUp})
    if m.Cursor() != -1 { t.Fatalf("empty list cursor = %d", m.Cursor()) }
}

func TestToggleAndFilters(t *testing.T) {
    m := newModel(t, newStore(t, "Learn X", "Build Y", "Write Z"))
    // newest first: Write Z, Build Y, Learn X; complete Build Y
    m, _ = press(t, m, runes("j"), runes("c"))
    if m.Status() != "Todo marked as completed!" { t.Fatalf("status = %q", m.Status()) }
    if !m.Tasks()[1].Completed { t.Fatal("Build Y should be completed") }

    m, _ = press(t, m, runes("p"))
    if m.Filter() != tasks.FilterPending || strings.Join(titles(m), ",") != "Write Z,Learn X" { t.Fatalf("pending = %v", titles(m)) }
    if m.Cursor() != 1 { t.Fatalf("cursor should stay in range, got %d", m.Cursor()) }

    m, _ = press(t, m, runes("f"))
    if strings.Join(titles(m), ",") != "Build Y" { t.Fatalf("completed = %v", titles(m)) }
    if m.Cursor() != 0 { t.Fatalf("cursor should clamp to 0, got %d", m.Cursor()) }

    // toggling the only completed row empties the view
    m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace})
    if m.Status() != "Todo marked as pending!" || len(m.Tasks()) != 0 || m.Cursor() != -1 { t.Fatalf("after toggle: %v cursor=%d", titles(m), m.Cursor()) }

    m, _ = press(t, m, runes("a"))
    if len(m.Tasks()) != 3 || m.Cursor() != 0 || m.Status() != "Showing all todos" { t.Fatalf("all: %v cursor=%d", titles(m), m.Cursor()) }
}

func TestDeleteClampsCursor(t *testing.T) {
    m := newModel(t, newStore(t, "a", "b"))
    m, _ = press(t, m, runes("j"))
    m, _ = press(t, m, runes("d"))
    if m.Status() != "Todo deleted!" || len(m.Tasks()) != 1 || m.Cursor() != 0 { t.Fatalf("after delete: %v cursor=%d", titles(m), m.Cursor()) }
    m, _ = press(t, m, runes("d"))
    if len(m.Tasks()) != 0 || m.Cursor() != -1 { t.Fatalf("after second delete: %v cursor=%d", titles(m), m.Cursor()) }
    // nothing selected: no-op
    m, cmd := press(t, m, runes("d"), runes("c"))
    if cmd != nil || m.Err() != nil { t.Fatal("delete/toggle without selection should be no-ops") }
}

func TestHelpAndQuit(t *testing.T) {
    m := newModel(t, newStore(t))
    m, _ = press(t, m, runes("h"))
    if !strings.HasPrefix(m.Status(), "Commands:") { t.Fatalf("status = %q", m.Status()) }
    _, cmd := press(t, m, runes("q"))
    if !isQuit(cmd) { t.Fatal("q should quit") }
    _, cmd = press(t, m, runes("n"), tea.KeyMsg{Type: tea.KeyCtrlC})
    if !isQuit(cmd) { t.Fatal("ctrl+c should quit while editing") }
}

func TestStoreFailureAbortsSession(t *testing.T) {
    cases := []struct {
        failOn string
        keys   []tea.Msg
    }{
        {"create", []tea.Msg{runes("n"), runes("x"), tea.KeyMsg{Type: tea.KeyEnter}}},
        {"update", []tea.Msg{runes("c")}},
        {"delete", []tea.Msg{runes("d")}},
        {"list", []tea.Msg{runes("p")}},
    }
    for _, tc := range cases {
        t.Run(tc.failOn, func(t *testing.T) {
            st := newStore(t, "seed")
            m := newModel(t, st)
            st.failOn = tc.failOn
            m, cmd := press(t, m, tc.keys...)
            if !isQuit(cmd) { t.Fatal("expected the session to quit") }
            if !errors.Is(m.Err(), tasks.ErrQuery) { t.Fatalf("err = %v", m.Err()) }
        })
    }
}

func TestDetailPane(t *testing.T) {
    st := newStore(t)
    tk := tasks.New("Read book", "chapter 3")
    if err := st.Create(context.Background(), tk); err != nil { t.Fatal(err) }
    m := newModel(t, st)
    m, _ = press(t, m, tea.WindowSizeMsg{Width: 80, Height: 40}, tea.KeyMsg{Type: tea.KeyEnter})
    if !strings.Contains(m.View(), "chapter 3") { t.Fatalf("detail view missing description:\n%s", m.View()) }
    // keys in the detail pane do not touch the list
    m, _ = press(t, m, runes("d"), runes("j"))
    if len(m.Tasks()) != 1 { t.Fatal("d in detail pane must not delete") }
    m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
    if strings.Contains(m.View(), "chapter 3") { t.Fatal("esc should close the detail pane") }
}

func TestExportVisible(t *testing.T) {
    cfg := config.Default()
    cfg.ExportDir = t.TempDir()
    m := New(context.Background(), newStore(t, "a", "b"), cfg, nil)
    if err := m.Load(); err != nil { t.Fatal(err) }
    m, cmd := press(t, m, runes("E"))
    if cmd == nil || m.Status() != "Exporting 2 tasks... 0%" { t.Fatalf("status = %q", m.Status()) }
    if !strings.Contains(m.View(), "Exporting 2 tasks") { t.Fatalf("status bar missing progress:\n%s", m.View()) }

    // a second E while running is refused
    m, cmd = press(t, m, runes("E"))
    if cmd != nil || m.Status() != "Export already running" { t.Fatalf("second export: %q", m.Status()) }

    var progress []string
    for m.exporting {
        msg := waitExport(m.exportCh)()
        m, _ = press(t, m, msg)
        if _, ok := msg.(exportProgressMsg); ok { progress = append(progress, m.Status()) }
    }
    if strings.Join(progress, "|") != "Exporting 2 tasks... 50%|Exporting 2 tasks... 100%" { t.Fatalf("progress = %v", progress) }
    if !strings.HasPrefix(m.Status(), "exported 2 tasks to ") { t.Fatalf("status = %q", m.Status()) }
    matches, _ := filepath.Glob(filepath.Join(cfg.ExportDir, "todos-all-*.zip"))
    if len(matches) != 1 { t.Fatalf("zip files = %v", matches) }
}

func TestExportFailureKeepsSession(t *testing.T) {
    cfg := config.Default()
    blocker := filepath.Join(t.TempDir(), "file")
    if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil { t.Fatal(err) }
    cfg.ExportDir = filepath.Join(blocker, "sub")
    m := New(context.Background(), newStore(t, "a"), cfg, nil)
    if err := m.Load(); err != nil { t.Fatal(err) }
    m, _ = press(t, m, runes("E"))
    for m.exporting {
        var cmd tea.Cmd
        m, cmd = press(t, m, waitExport(m.exportCh)())
        if isQuit(cmd) { t.Fatal("a failed export must not end the session") }
    }
    if !strings.HasPrefix(m.Status(), "export failed: ") || m.Err() != nil { t.Fatalf("status = %q err = %v", m.Status(), m.Err()) }
}

func TestExportNothingVisible(t *testing.T) {
    m := newModel(t, newStore(t))
    m, cmd := press(t, m, runes("E"))
    if cmd != nil || m.Status() != "Nothing to export" { t.Fatalf("status = %q", m.Status()) }
}

func TestPollKeepsTicking(t *testing.T) {
    m := newModel(t, newStore(t))
    if m.Init() == nil { t.Fatal("Init should schedule the poll tick") }
    _, cmd := press(t, m, pollMsg(time.Now()))
    if cmd == nil { t.Fatal("poll should reschedule itself") }
}

func TestClampCursor(t *testing.T) {
    cases := []struct{ cur, n, want int }{
        {-1, 0, -1}, {0, 0, -1}, {-1, 3, 0}, {5, 3, 2}, {1, 3, 1},
    }
    for _, c := range cases {
        if got := clampCursor(c.cur, c.n); got != c.want { t.Fatalf("clampCursor(%d,%d) = %d, want %d", c.cur, c.n, got, c.want) }
    }
}
