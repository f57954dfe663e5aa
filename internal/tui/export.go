package tui

import (
    "fmt"
    "log"
    "path/filepath"
    "strings"
    "time"

    tea "github.com/charmbracelet/bubbletea"

    "todo-tui/internal/tasks"
    "todo-tui/internal/zipper"
)

type exportProgressMsg struct{ current, total int }

type exportDoneMsg struct {
    zipPath string
    total   int
    err     error
}

// startExport writes the visible rows into a zip under the export dir in the
// background. Progress and completion come back through exportCh.
func (m *Model) startExport() tea.Cmd {
    if m.exporting {
        m.status = "Export already running"
        return nil
    }
    if len(m.tasks) == 0 {
        m.status = "Nothing to export"
        return nil
    }
    dir := m.cfg.ExportDir
    if dir == "" { dir = "." }
    name := fmt.Sprintf("todos-%s-%s.zip", strings.ToLower(m.filter.String()), time.Now().Format("20060102-150405"))
    zipPath := filepath.Join(dir, name)

    sel := append([]tasks.Task(nil), m.tasks...)
    // buffered for every progress step plus the final message, so the
    // writer never blocks on a session that already quit
    ch := make(chan tea.Msg, len(sel)+1)
    go func() {
        defer close(ch)
        err := zipper.ExportTasksWithProgress(sel, zipPath, func(current, total int) {
            ch <- exportProgressMsg{current: current, total: total}
        })
        ch <- exportDoneMsg{zipPath: zipPath, total: len(sel), err: err}
    }()

    m.exporting = true
    m.exportCh = ch
    m.status = fmt.Sprintf("Exporting %d tasks... 0%%", len(sel))
    return tea.Batch(waitExport(ch), m.spin.Tick)
}

// waitExport delivers the next message from a running export.
func waitExport(ch <-chan tea.Msg) tea.Cmd {
    if ch == nil { return nil }
    return func() tea.Msg {
        msg, ok := <-ch
        if !ok { return nil }
        return msg
    }
}

func (m *Model) finishExport(msg exportDoneMsg) {
    m.exporting = false
    m.exportCh = nil
    if msg.err != nil {
        log.Printf("[tui] export failed: %v", msg.err)
        m.status = "export failed: " + msg.err.Error()
        return
    }
    zipPath := msg.zipPath
    if ap, err := filepath.Abs(zipPath); err == nil { zipPath = ap }
    m.status = fmt.Sprintf("exported %d tasks to %s", msg.total, zipPath)
}
