package tui

import "github.com/charmbracelet/lipgloss"

var (
    colorBorder  = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#3F4451"}
    colorTitle   = lipgloss.Color("6")
    colorDone    = lipgloss.Color("2")
    colorPending = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#E5E7EB"}
    colorEditing = lipgloss.Color("3")
    colorSelBg   = lipgloss.Color("8")
    colorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#B0B7C3"}
)

var (
    blockStyle = lipgloss.NewStyle().
            Border(lipgloss.RoundedBorder()).
            BorderForeground(colorBorder).
            Padding(0, 1)

    bannerTitleStyle = lipgloss.NewStyle().Foreground(colorTitle).Bold(true)

    blockTitleStyle = lipgloss.NewStyle().Bold(true)

    doneStyle     = lipgloss.NewStyle().Foreground(colorDone).Strikethrough(true)
    pendingStyle  = lipgloss.NewStyle().Foreground(colorPending)
    selectedStyle = lipgloss.NewStyle().Background(colorSelBg)
    editingStyle  = lipgloss.NewStyle().Foreground(colorEditing)
    mutedStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)

// selectionSymbol marks the highlighted row; other rows get equal padding.
const selectionSymbol = ">> "
