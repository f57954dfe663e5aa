package tasks

import (
    "bufio"
    "context"
    "fmt"
    "io"
    "os"
    "strings"
    "time"
)

// Lister is the read side of the store used by exporters.
type Lister interface {
    List(ctx context.Context, f Filter) ([]Task, error)
}

// DumpMarkdownWithProgress writes the filtered tasks to a markdown file,
// calling progress(cur,total) as it proceeds. progress may be nil.
// The title is constrained to a single line.
func DumpMarkdownWithProgress(ctx context.Context, src Lister, f Filter, filename string, progress func(int, int)) (err error) {
    list, err := src.List(ctx, f)
    if err != nil { return err }
    out, err := os.Create(filename)
    if err != nil { return err }
    defer func() {
        if cerr := out.Close(); err == nil { err = cerr }
    }()
    return writeMarkdownWithProgress(list, out, progress)
}

func writeMarkdownWithProgress(list []Task, dst io.Writer, progress func(int, int)) error {
    const maxTitle = 120
    // bufio keeps the first write error; Flush reports it
    w := bufio.NewWriter(dst)
    total := len(list)
    for i, t := range list {
        tFull := strings.TrimSpace(t.Title)
        title, changed, truncated := CleanOneLine(tFull, maxTitle)
        if title == "" { title = t.ID }
        box := "[ ]"
        if t.Completed { box = "[x]" }
        fmt.Fprintf(w, "# %s %s\n\n", box, title)
        fmt.Fprintf(w, "- ID: %s\n", t.ID)
        // RFC3339 in local time for readability and timezone awareness
        fmt.Fprintf(w, "- Created: %s\n", t.CreatedAt.Local().Format(time.RFC3339))
        fmt.Fprintf(w, "- Updated: %s\n\n", t.UpdatedAt.Local().Format(time.RFC3339))

        // If title was changed or truncated, include full content in a details block
        if changed || truncated {
            fmt.Fprintf(w, "<details><summary>%s</summary>\n\n", escapeHTML(title))
            fmt.Fprintf(w, "```\n%s\n```\n\n", tFull)
            fmt.Fprint(w, "</details>\n\n")
        }
        if d := strings.TrimSpace(t.Description); d != "" {
            fmt.Fprintf(w, "%s\n\n", d)
        }
        if i != len(list)-1 { fmt.Fprint(w, "---\n\n") }

        if progress != nil { progress(i+1, total) }
    }
    return w.Flush()
}

// Minimal HTML escaping for <summary> text
func escapeHTML(s string) string {
    r := strings.NewReplacer(
        "&", "&amp;",
        "<", "&lt;",
        ">", "&gt;",
        "\"", "&quot;",
        "'", "&#39;",
    )
    return r.Replace(s)
}
