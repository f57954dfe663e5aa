package tui

import (
    "fmt"
    "strings"

    "github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
    if m.detail != nil { return m.detailView() }
    width := m.width
    if width <= 0 { width = defaultWidth }
    return lipgloss.JoinVertical(lipgloss.Left,
        m.bannerView(width),
        m.listView(width),
        m.statusView(width),
    )
}

func (m Model) bannerView(width int) string {
    title := bannerTitleStyle.Render("📝 Todo App") + "  " + mutedStyle.Render(m.stats.String())
    var hints string
    if m.mode == ModeEditing {
        hints = m.help.ShortHelpView(editKeys.ShortHelp())
    } else {
        hints = m.help.ShortHelpView(keys.ShortHelp())
    }
    return blockStyle.Width(width - 2).Render(title + "\n" + hints)
}

// listRows is how many task rows fit between the banner and the status bar.
// Zero means the height is unknown and every row is drawn.
func (m Model) listRows() int {
    if m.height <= 0 { return 0 }
    // banner 4, status 3, list border 2, list title 1
    rows := m.height - 10
    if rows < 1 { rows = 1 }
    return rows
}

func (m Model) listView(width int) string {
    b := &strings.Builder{}
    b.WriteString(blockTitleStyle.Render(fmt.Sprintf("Todos (%s)", m.filter)))
    if len(m.tasks) == 0 {
        b.WriteString("\n" + mutedStyle.Render("No todos"))
    }
    start, end := visibleWindow(m.cursor, len(m.tasks), m.listRows())
    for i := start; i < end; i++ {
        b.WriteString("\n" + m.renderRow(i))
    }
    return blockStyle.Width(width - 2).Render(b.String())
}

func (m Model) renderRow(i int) string {
    t := m.tasks[i]
    label := t.Title
    if i < len(m.labels) { label = m.labels[i] }
    style := pendingStyle
    if t.Completed { style = doneStyle }
    line := style.Render(t.Status() + " " + label)
    if i == m.cursor {
        return selectedStyle.Render(selectionSymbol + line)
    }
    return strings.Repeat(" ", len(selectionSymbol)) + line
}

// visibleWindow returns [start,end) of the rows to draw so that cursor stays
// on screen.
func visibleWindow(cursor, n, rows int) (int, int) {
    if rows <= 0 || n <= rows { return 0, n }
    start := 0
    if cursor >= rows { start = cursor - rows + 1 }
    return start, start + rows
}

func (m Model) statusView(width int) string {
    line := m.status
    if m.exporting { line = m.spin.View() + " " + line }
    if m.mode == ModeEditing {
        line = editingStyle.Render("New todo: " + string(m.input))
    }
    return blockStyle.Width(width - 2).Render(line)
}

func (m Model) detailView() string {
    header := "(esc/h) back  (↑/↓) scroll  (pgup/pgdown) page  (ctrl+c) quit"
    return header + "\n\n" + m.vp.View()
}
