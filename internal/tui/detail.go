package tui

import (
    "fmt"
    "log"
    "strings"
    "time"

    "github.com/charmbracelet/glamour"

    "todo-tui/internal/hooks"
    "todo-tui/internal/tasks"
)

// renderDetailMarkdown builds the markdown shown in the detail viewport.
func renderDetailMarkdown(t tasks.Task, env *hooks.HookEnv) string {
    b := &strings.Builder{}
    title := t.Title
    if title == "" { title = t.ID }
    fmt.Fprintf(b, "# %s\n\n", title)
    fmt.Fprintf(b, "- ID: `%s`\n", t.ID)
    if t.Completed {
        fmt.Fprintf(b, "- Status: %s completed\n", t.Status())
    } else {
        fmt.Fprintf(b, "- Status: %s pending\n", t.Status())
    }
    fmt.Fprintf(b, "- Created: %s\n", humanTime(t.CreatedAt))
    fmt.Fprintf(b, "- Updated: %s\n", humanTime(t.UpdatedAt))
    if t.Description != "" {
        fmt.Fprintf(b, "\n## Description\n\n%s\n", t.Description)
    }

    // Hook-provided sections
    if env != nil {
        if hooks.Debug() { log.Printf("[hooks] calling renderTaskDetail for %s", t.ID) }
        if out, ok := env.CallExported("renderTaskDetail", tasks.TaskToMap(t)); ok {
            if m, ok2 := out.(map[string]any); ok2 {
                if s, ok3 := m["title"].(string); ok3 && s != "" { fmt.Fprintf(b, "\n## %s\n\n", s) }
                if secs, ok3 := m["sections"].([]any); ok3 {
                    for _, sec := range secs {
                        mm, ok4 := sec.(map[string]any)
                        if !ok4 { continue }
                        head, _ := mm["heading"].(string)
                        body, _ := mm["body"].(string)
                        if head != "" { fmt.Fprintf(b, "\n## %s\n\n", head) }
                        if body != "" { fmt.Fprintf(b, "%s\n\n", body) }
                    }
                }
            }
        } else if hooks.Debug() {
            log.Printf("[hooks] renderTaskDetail had no result for %s", t.ID)
        }
    }
    return b.String()
}

func humanTime(t time.Time) string {
    if t.IsZero() { return "" }
    return t.Local().Format("2006-01-02 15:04")
}

// glamourRenderer picks the style once, before the program owns the terminal.
func glamourRenderer(dark bool) func(md string, width int) string {
    style := "light"
    if dark { style = "dark" }
    return func(md string, width int) string {
        wrap := width - 4
        if wrap < 20 { wrap = defaultWidth - 4 }
        r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(wrap))
        if err != nil { return md }
        s, err := r.Render(md)
        if err != nil { return md }
        return s
    }
}

func plainMarkdown(md string, _ int) string { return md }
