package tasks

import (
    "log"
    "time"

    "todo-tui/internal/hooks"
)

// RowLabels returns the one-line label shown for each task. A decorateTaskRow
// hook may override a label; the task itself is never modified.
func RowLabels(env *hooks.HookEnv, list []Task) []string {
    labels := make([]string, len(list))
    for i, t := range list {
        label, _, _ := CleanOneLine(t.Title, 0)
        if env != nil {
            if s, ok := env.CallString("decorateTaskRow", TaskToMap(t)); ok && s != "" {
                if hooks.Debug() { log.Printf("[hooks] decorateTaskRow override for %s", t.ID) }
                label, _, _ = CleanOneLine(s, 0)
            }
        }
        labels[i] = label
    }
    return labels
}

// TaskToMap is the value handed to JS hooks.
func TaskToMap(t Task) map[string]any {
    return map[string]any{
        "id":          t.ID,
        "title":       t.Title,
        "description": t.Description,
        "completed":   t.Completed,
        "createdAt":   t.CreatedAt.Format(time.RFC3339),
        "updatedAt":   t.UpdatedAt.Format(time.RFC3339),
    }
}
