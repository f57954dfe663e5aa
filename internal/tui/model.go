package tui

import (
    "context"
    "fmt"
    "io"
    "log"
    "os"
    "path/filepath"
    "strings"
    "time"

    "github.com/charmbracelet/bubbles/help"
    "github.com/charmbracelet/bubbles/key"
    "github.com/charmbracelet/bubbles/spinner"
    "github.com/charmbracelet/bubbles/viewport"
    tea "github.com/charmbracelet/bubbletea"
    "github.com/charmbracelet/lipgloss"

    "todo-tui/internal/config"
    "todo-tui/internal/hooks"
    "todo-tui/internal/tasks"
)

// Store is the persistence surface the session needs.
type Store interface {
    Create(ctx context.Context, t tasks.Task) error
    Update(ctx context.Context, t tasks.Task) (int64, error)
    Delete(ctx context.Context, id string) (int64, error)
    List(ctx context.Context, f tasks.Filter) ([]tasks.Task, error)
    Stats(ctx context.Context) (tasks.TaskStats, error)
}

type InputMode int

const (
    ModeNormal InputMode = iota
    ModeEditing
)

const (
    welcomeText  = "Welcome to Todo App! Press 'h' for help."
    helpText     = "Commands: q=quit, n=new todo, d=delete, c=toggle complete, a=all, p=pending, f=finished, ↑↓=navigate, enter=details, E=export"
    promptText   = "Enter todo title (Esc to cancel):"
    pollInterval = 100 * time.Millisecond
    defaultWidth = 80
)

type Model struct {
    ctx   context.Context
    store Store
    cfg   config.Config
    hooks *hooks.HookEnv

    tasks  []tasks.Task
    labels []string
    stats  tasks.TaskStats
    // cursor indexes tasks; -1 when nothing is selected.
    cursor int
    filter tasks.Filter
    mode   InputMode
    input  []rune
    status string

    detail *tasks.Task
    vp     viewport.Model
    help   help.Model
    width  int
    height int

    // background zip export started with E
    exporting bool
    exportCh  <-chan tea.Msg
    spin      spinner.Model

    renderMarkdown func(md string, width int) string
    err            error
}

// New builds a session in Normal mode. Call Load before handing it to a program.
func New(ctx context.Context, store Store, cfg config.Config, env *hooks.HookEnv) Model {
    return Model{
        ctx:            ctx,
        store:          store,
        cfg:            cfg,
        hooks:          env,
        cursor:         0,
        filter:         tasks.FilterAll,
        mode:           ModeNormal,
        status:         welcomeText,
        help:           help.New(),
        spin:           spinner.New(spinner.WithSpinner(spinner.MiniDot)),
        renderMarkdown: plainMarkdown,
    }
}

// Load fetches the list for the current filter.
func (m *Model) Load() error { return m.refresh() }

func (m Model) Init() tea.Cmd { return poll() }

type pollMsg time.Time

func poll() tea.Cmd {
    return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return pollMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
    switch msg := msg.(type) {
    case tea.WindowSizeMsg:
        m.width, m.height = msg.Width, msg.Height
        if m.detail != nil {
            m.vp.Width = m.width
            m.vp.Height = detailHeight(m.height)
        }
        return m, nil
    case pollMsg:
        return m, poll()
    case spinner.TickMsg:
        if !m.exporting { return m, nil }
        var cmd tea.Cmd
        m.spin, cmd = m.spin.Update(msg)
        return m, cmd
    case exportProgressMsg:
        if msg.total > 0 {
            m.status = fmt.Sprintf("Exporting %d tasks... %d%%", msg.total, msg.current*100/msg.total)
        }
        return m, waitExport(m.exportCh)
    case exportDoneMsg:
        m.finishExport(msg)
        return m, nil
    case tea.KeyMsg:
        if m.detail != nil { return m.updateDetail(msg) }
        if m.mode == ModeNormal && key.Matches(msg, keys.export) {
            return m, m.startExport()
        }
        var quit bool
        var err error
        switch m.mode {
        case ModeEditing:
            quit, err = m.handleEditingKey(msg)
        default:
            quit, err = m.handleNormalKey(msg)
        }
        if err != nil {
            log.Printf("[tui] aborting session: %v", err)
            m.err = err
            return m, tea.Quit
        }
        if quit { return m, tea.Quit }
        return m, nil
    }
    return m, nil
}

func (m *Model) handleNormalKey(msg tea.KeyMsg) (bool, error) {
    switch {
    case key.Matches(msg, keys.quit):
        return true, nil
    case key.Matches(msg, keys.help):
        m.status = helpText
    case key.Matches(msg, keys.add):
        m.mode = ModeEditing
        m.input = nil
        m.status = promptText
    case key.Matches(msg, keys.del):
        t, ok := m.Selected()
        if !ok { return false, nil }
        if _, err := m.store.Delete(m.ctx, t.ID); err != nil { return false, err }
        if err := m.refresh(); err != nil { return false, err }
        m.status = "Todo deleted!"
    case key.Matches(msg, keys.toggle):
        t, ok := m.Selected()
        if !ok { return false, nil }
        done := t.Toggle()
        if _, err := m.store.Update(m.ctx, t); err != nil { return false, err }
        if err := m.refresh(); err != nil { return false, err }
        if done {
            m.status = "Todo marked as completed!"
        } else {
            m.status = "Todo marked as pending!"
        }
    case key.Matches(msg, keys.all):
        return false, m.setFilter(tasks.FilterAll, "Showing all todos")
    case key.Matches(msg, keys.pending):
        return false, m.setFilter(tasks.FilterPending, "Showing pending todos")
    case key.Matches(msg, keys.completed):
        return false, m.setFilter(tasks.FilterCompleted, "Showing completed todos")
    case key.Matches(msg, keys.down):
        m.moveDown()
    case key.Matches(msg, keys.up):
        m.moveUp()
    case key.Matches(msg, keys.open):
        m.openDetail()
    }
    return false, nil
}

func (m *Model) handleEditingKey(msg tea.KeyMsg) (bool, error) {
    switch msg.Type {
    case tea.KeyCtrlC:
        return true, nil
    case tea.KeyEnter:
        title := strings.TrimSpace(string(m.input))
        if title == "" { return false, nil }
        if err := m.store.Create(m.ctx, tasks.New(title, "")); err != nil { return false, err }
        m.input = nil
        m.mode = ModeNormal
        if err := m.refresh(); err != nil { return false, err }
        m.status = "Todo added!"
    case tea.KeyEsc:
        m.input = nil
        m.mode = ModeNormal
        m.status = "Cancelled"
    case tea.KeyBackspace:
        if n := len(m.input); n > 0 { m.input = m.input[:n-1] }
    case tea.KeySpace:
        m.input = append(m.input, ' ')
    case tea.KeyRunes:
        m.input = append(m.input, msg.Runes...)
    }
    return false, nil
}

func (m Model) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
    switch msg.String() {
    case "ctrl+c":
        return m, tea.Quit
    case "esc", "h", "q":
        m.detail = nil
        return m, nil
    case "up", "k":
        m.vp.LineUp(1)
    case "down", "j":
        m.vp.LineDown(1)
    case "pgup":
        m.vp.ViewUp()
    case "pgdown":
        m.vp.ViewDown()
    }
    return m, nil
}

func (m *Model) setFilter(f tasks.Filter, status string) error {
    m.filter = f
    if err := m.refresh(); err != nil { return err }
    m.status = status
    return nil
}

// refresh re-reads the filtered list and counters, then clamps the cursor.
func (m *Model) refresh() error {
    list, err := m.store.List(m.ctx, m.filter)
    if err != nil { return err }
    st, err := m.store.Stats(m.ctx)
    if err != nil { return err }
    m.tasks = list
    m.labels = tasks.RowLabels(m.hooks, list)
    m.stats = st
    m.cursor = clampCursor(m.cursor, len(list))
    return nil
}

func clampCursor(cur, n int) int {
    switch {
    case n == 0:
        return -1
    case cur < 0:
        return 0
    case cur >= n:
        return n - 1
    }
    return cur
}

func (m *Model) moveDown() {
    n := len(m.tasks)
    if n == 0 { return }
    if m.cursor < 0 || m.cursor >= n-1 {
        m.cursor = 0
    } else {
        m.cursor++
    }
}

func (m *Model) moveUp() {
    n := len(m.tasks)
    if n == 0 { return }
    if m.cursor <= 0 {
        m.cursor = n - 1
    } else {
        m.cursor--
    }
}

// Selected returns a copy of the highlighted task.
func (m Model) Selected() (tasks.Task, bool) {
    if m.cursor < 0 || m.cursor >= len(m.tasks) { return tasks.Task{}, false }
    return m.tasks[m.cursor], true
}

func (m *Model) openDetail() {
    t, ok := m.Selected()
    if !ok { return }
    width := m.width
    if width <= 0 { width = defaultWidth }
    m.detail = &t
    m.vp = viewport.New(width, detailHeight(m.height))
    m.vp.SetContent(m.renderMarkdown(renderDetailMarkdown(t, m.hooks), width))
}

func detailHeight(h int) int {
    if h-4 < 3 { return 3 }
    return h - 4
}

func (m Model) Mode() InputMode      { return m.mode }
func (m Model) Filter() tasks.Filter { return m.filter }
func (m Model) Cursor() int          { return m.cursor }
func (m Model) Status() string       { return m.status }
func (m Model) Input() string        { return string(m.input) }
func (m Model) Tasks() []tasks.Task  { return m.tasks }

// Err is the persistence error that ended the session, if any.
func (m Model) Err() error { return m.err }

// Run takes over the terminal until the user quits or a store call fails.
// The terminal is restored before Run returns in both cases.
func Run(ctx context.Context, store Store, cfg config.Config, env *hooks.HookEnv, opts ...tea.ProgramOption) error {
    m := New(ctx, store, cfg, env)
    if err := m.Load(); err != nil { return err }
    m.renderMarkdown = glamourRenderer(lipgloss.HasDarkBackground())

    // Anything logged while the alt screen is up would corrupt it.
    prev := log.Writer()
    defer log.SetOutput(prev)
    if cfg.Debug {
        f, err := tea.LogToFile(debugLogPath(), "todo")
        if err != nil { return fmt.Errorf("open debug log: %w", err) }
        defer f.Close()
    } else {
        log.SetOutput(io.Discard)
    }

    p := tea.NewProgram(m, append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)...)
    final, err := p.Run()
    if err != nil { return fmt.Errorf("run session: %w", err) }
    if fm, ok := final.(Model); ok && fm.err != nil { return fm.err }
    return nil
}

func debugLogPath() string {
    if p := os.Getenv("TODO_TUI_LOG"); p != "" { return p }
    return filepath.Join(os.TempDir(), "todo-tui-debug.log")
}
