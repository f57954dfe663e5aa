package zipper

import (
    "archive/zip"
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strings"
    "time"

    "todo-tui/internal/tasks"
)

const manifestName = "todo-manifest.json"

// ProgressCallback is called during export with current progress (current, total)
type ProgressCallback func(current, total int)

type Manifest struct {
    ID        string    `json:"id"`
    Title     string    `json:"title"`
    CreatedAt time.Time `json:"createdAt"`
}

type ManifestMulti struct {
    Version    int        `json:"version"`
    ExportedAt time.Time  `json:"exportedAt"`
    Tasks      []Manifest `json:"tasks"`
}

// Creator is the write side of the store used by imports.
type Creator interface {
    Create(ctx context.Context, t tasks.Task) error
}

// ImportResult counts what an import did. Tasks whose id already exists are
// skipped, not overwritten.
type ImportResult struct {
    Imported int
    Skipped  int
}

// ExportTask writes a single task into its own zip.
func ExportTask(t tasks.Task, zipPath string) error {
    return ExportTasksWithProgress([]tasks.Task{t}, zipPath, nil)
}

// ExportTasks writes multiple tasks into a single zip with a v2 manifest.
func ExportTasks(ts []tasks.Task, zipPath string) error {
    return ExportTasksWithProgress(ts, zipPath, nil)
}

// ExportTasksWithProgress writes multiple tasks into a single zip with progress reporting.
// Each task is stored as tasks/<id>.json next to the manifest.
func ExportTasksWithProgress(ts []tasks.Task, zipPath string, progress ProgressCallback) (err error) {
    if err := os.MkdirAll(filepath.Dir(zipPath), 0o755); err != nil { return err }
    f, err := os.Create(zipPath)
    if err != nil { return err }
    defer f.Close()
    zw := zip.NewWriter(f)
    defer func() {
        if cerr := zw.Close(); err == nil { err = cerr }
    }()

    mm := ManifestMulti{Version: 2, ExportedAt: time.Now().UTC(), Tasks: []Manifest{}}
    for _, t := range ts {
        mm.Tasks = append(mm.Tasks, Manifest{ID: t.ID, Title: t.Title, CreatedAt: t.CreatedAt})
    }
    if err := writeJSON(zw, manifestName, mm); err != nil { return err }

    for i, t := range ts {
        if err := writeJSON(zw, taskEntry(t.ID), t); err != nil { return fmt.Errorf("write task %s: %w", t.ID, err) }
        if progress != nil { progress(i+1, len(ts)) }
    }
    return nil
}

// ImportAny reads an archive written by ExportTasks and creates every task it
// holds through dst.
func ImportAny(ctx context.Context, zipPath string, dst Creator) (ImportResult, error) {
    var res ImportResult
    r, err := zip.OpenReader(zipPath)
    if err != nil { return res, err }
    defer r.Close()

    files := map[string]*zip.File{}
    for _, f := range r.File {
        if f.FileInfo().IsDir() { continue }
        files[strings.TrimLeft(f.Name, "/\\")] = f
    }
    mf, ok := files[manifestName]
    if !ok { return res, fmt.Errorf("manifest missing in %s", zipPath) }
    var multi ManifestMulti
    if err := readJSON(mf, &multi); err != nil { return res, fmt.Errorf("invalid manifest in %s: %w", zipPath, err) }
    if multi.Version < 2 { return res, fmt.Errorf("unsupported manifest version %d in %s", multi.Version, zipPath) }

    for _, m := range multi.Tasks {
        f, ok := files[taskEntry(m.ID)]
        if !ok { return res, fmt.Errorf("task %s listed in manifest but missing from %s", m.ID, zipPath) }
        var t tasks.Task
        if err := readJSON(f, &t); err != nil { return res, fmt.Errorf("decode task %s: %w", m.ID, err) }
        if t.ID == "" || strings.TrimSpace(t.Title) == "" { return res, fmt.Errorf("task entry %s is incomplete", f.Name) }
        if err := dst.Create(ctx, t); err != nil {
            if errors.Is(err, tasks.ErrConflict) {
                res.Skipped++
                continue
            }
            return res, err
        }
        res.Imported++
    }
    return res, nil
}

func taskEntry(id string) string { return "tasks/" + id + ".json" }

func writeJSON(zw *zip.Writer, name string, v any) error {
    w, err := zw.Create(name)
    if err != nil { return err }
    b, err := json.MarshalIndent(v, "", "  ")
    if err != nil { return err }
    _, err = w.Write(b)
    return err
}

func readJSON(f *zip.File, v any) error {
    rc, err := f.Open()
    if err != nil { return err }
    defer rc.Close()
    b, err := io.ReadAll(rc)
    if err != nil { return err }
    return json.Unmarshal(b, v)
}
