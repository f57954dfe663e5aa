package tui

import (
    "fmt"
    "os/exec"
    "path/filepath"
    "runtime"
    "strings"

    tea "github.com/charmbracelet/bubbletea"
    "github.com/charmbracelet/lipgloss"

    "todo-tui/internal/tasks"
)

// RestoreModel lets the user pick one of the database backups.
type RestoreModel struct {
    entries        []tasks.BackupInfo
    dbPath         string
    idx            int
    quitting       bool
    selectedSuffix string
    msg            string
}

func NewRestore(infos []tasks.BackupInfo, dbPath string) RestoreModel {
    return RestoreModel{entries: infos, dbPath: dbPath}
}

func (m RestoreModel) Init() tea.Cmd { return nil }

func (m RestoreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
    km, ok := msg.(tea.KeyMsg)
    if !ok { return m, nil }
    switch km.String() {
    case "q", "esc", "ctrl+c":
        m.quitting = true
        return m, tea.Quit
    case "up", "k":
        if m.idx > 0 { m.idx-- }
    case "down", "j":
        if m.idx < len(m.entries)-1 { m.idx++ }
    case "enter":
        if len(m.entries) > 0 { m.selectedSuffix = m.entries[m.idx].Suffix }
        return m, tea.Quit
    case "o":
        dir := filepath.Dir(m.dbPath)
        if err := openDir(dir); err != nil {
            m.msg = "open failed: " + err.Error()
        } else {
            m.msg = fmt.Sprintf("opened: %s", dir)
        }
    }
    return m, nil
}

func (m RestoreModel) View() string {
    if m.quitting { return "" }
    styleSel := lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
    b := &strings.Builder{}
    fmt.Fprintf(b, "Restore %s from backup\n", filepath.Base(m.dbPath))
    fmt.Fprintf(b, "Directory: %s\n", filepath.Dir(m.dbPath))
    b.WriteString("Quit any running todo session before restoring!\n")
    b.WriteString("Use ↑/↓ or j/k to navigate, Enter to restore, o to open folder, q to quit.\n\n")
    if len(m.entries) == 0 { b.WriteString(mutedStyle.Render("No backups found") + "\n") }
    for i, e := range m.entries {
        line := fmt.Sprintf("%s  %s  (%d bytes)", e.ModTime.Format("2006-01-02 15:04:05"), e.Suffix, e.Size)
        if i == m.idx {
            b.WriteString(styleSel.Render("> "+line) + "\n")
        } else {
            b.WriteString("  " + line + "\n")
        }
    }
    if m.msg != "" { b.WriteString("\n" + m.msg + "\n") }
    return b.String()
}

// Selected is the suffix chosen with enter, or "" when the picker was dismissed.
func (m RestoreModel) Selected() string { return m.selectedSuffix }

func openDir(dir string) error {
    switch runtime.GOOS {
    case "darwin":
        return exec.Command("open", dir).Start()
    case "windows":
        return exec.Command("explorer", dir).Start()
    default:
        return exec.Command("xdg-open", dir).Start()
    }
}
