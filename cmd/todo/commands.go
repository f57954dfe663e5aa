package main

import (
    "errors"
    "fmt"
    "path/filepath"
    "strings"
    "time"

    "github.com/spf13/cobra"

    "todo-tui/internal/config"
    "todo-tui/internal/tasks"
    "todo-tui/internal/zipper"
)

// filterFlags registers --completed/--pending and resolves them to a Filter.
func filterFlags(cmd *cobra.Command) func() tasks.Filter {
    var completed, pending bool
    cmd.Flags().BoolVarP(&completed, "completed", "c", false, "only completed todos")
    cmd.Flags().BoolVarP(&pending, "pending", "p", false, "only pending todos")
    cmd.MarkFlagsMutuallyExclusive("completed", "pending")
    return func() tasks.Filter {
        switch {
        case completed:
            return tasks.FilterCompleted
        case pending:
            return tasks.FilterPending
        }
        return tasks.FilterAll
    }
}

func listCmd(a *app) *cobra.Command {
    cmd := &cobra.Command{
        Use:   "list",
        Short: "List todos",
        Args:  cobra.NoArgs,
    }
    filter := filterFlags(cmd)
    cmd.RunE = func(cmd *cobra.Command, args []string) error {
        return printList(cmd, a, filter())
    }
    return cmd
}

func printList(cmd *cobra.Command, a *app, f tasks.Filter) error {
    list, err := a.store.List(cmdContext(cmd), f)
    if err != nil { return err }
    out := cmd.OutOrStdout()
    if len(list) == 0 {
        fmt.Fprintln(out, "No todos found.")
        return nil
    }
    labels := tasks.RowLabels(a.hooks, list)
    for i, t := range list {
        fmt.Fprintf(out, "%s %s - %s\n", t.Status(), labels[i], t.ID)
        if t.Description != "" { fmt.Fprintf(out, "   %s\n", t.Description) }
    }
    return nil
}

func addCmd(a *app) *cobra.Command {
    var description string
    cmd := &cobra.Command{
        Use:   "add <title>",
        Short: "Add a new todo",
        Args:  cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            title := strings.TrimSpace(args[0])
            if title == "" { return errors.New("title must not be empty") }
            t := tasks.New(title, strings.TrimSpace(description))
            if err := a.store.Create(cmdContext(cmd), t); err != nil { return err }
            fmt.Fprintf(cmd.OutOrStdout(), "Todo added: %s\n", t.ID)
            return nil
        },
    }
    cmd.Flags().StringVarP(&description, "description", "d", "", "optional description")
    return cmd
}

func completeCmd(a *app) *cobra.Command {
    return &cobra.Command{
        Use:   "complete <id>",
        Short: "Mark a todo as completed",
        Args:  cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            ctx := cmdContext(cmd)
            t, err := a.store.Get(ctx, args[0])
            if err != nil { return err }
            if t == nil {
                fmt.Fprintf(cmd.ErrOrStderr(), "Todo not found: %s\n", args[0])
                return nil
            }
            t.Complete()
            if _, err := a.store.Update(ctx, *t); err != nil { return err }
            fmt.Fprintf(cmd.OutOrStdout(), "Todo completed: %s\n", t.Title)
            return nil
        },
    }
}

func deleteCmd(a *app) *cobra.Command {
    return &cobra.Command{
        Use:   "delete <id>",
        Short: "Delete a todo",
        Args:  cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            ctx := cmdContext(cmd)
            t, err := a.store.Get(ctx, args[0])
            if err != nil { return err }
            if t == nil {
                fmt.Fprintf(cmd.ErrOrStderr(), "Todo not found: %s\n", args[0])
                return nil
            }
            if _, err := a.store.Delete(ctx, t.ID); err != nil { return err }
            fmt.Fprintf(cmd.OutOrStdout(), "Todo deleted: %s\n", t.Title)
            return nil
        },
    }
}

func statsCmd(a *app) *cobra.Command {
    return &cobra.Command{
        Use:   "stats",
        Short: "Show task counts",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, args []string) error {
            st, err := a.store.Stats(cmdContext(cmd))
            if err != nil { return err }
            fmt.Fprintln(cmd.OutOrStdout(), st.String())
            return nil
        },
    }
}

func exportCmd(a *app) *cobra.Command {
    var id string
    cmd := &cobra.Command{
        Use:   "export [zip-path]",
        Short: "Export todos into a zip archive",
        Args:  cobra.MaximumNArgs(1),
    }
    filter := filterFlags(cmd)
    cmd.Flags().StringVar(&id, "id", "", "export a single todo by id")
    cmd.MarkFlagsMutuallyExclusive("id", "completed")
    cmd.MarkFlagsMutuallyExclusive("id", "pending")
    cmd.RunE = func(cmd *cobra.Command, args []string) error {
        ctx := cmdContext(cmd)
        f := filter()
        zipPath, err := a.exportPath(args, f, id)
        if err != nil { return err }

        if id != "" {
            t, err := a.store.Get(ctx, id)
            if err != nil { return err }
            if t == nil {
                fmt.Fprintf(cmd.ErrOrStderr(), "Todo not found: %s\n", id)
                return nil
            }
            if err := zipper.ExportTask(*t, zipPath); err != nil { return fmt.Errorf("export failed: %w", err) }
            fmt.Fprintf(cmd.OutOrStdout(), "exported %s -> %s\n", t.ID, zipPath)
            return nil
        }

        list, err := a.store.List(ctx, f)
        if err != nil { return err }
        if err := zipper.ExportTasks(list, zipPath); err != nil { return fmt.Errorf("export failed: %w", err) }
        st := tasks.StatsFromList(list)
        fmt.Fprintf(cmd.OutOrStdout(), "exported %d todos (%d done, %d pending) -> %s\n", st.Total, st.Completed, st.Pending, zipPath)
        return nil
    }
    return cmd
}

// exportPath is the explicit zip argument, or a timestamped name in the
// export dir.
func (a *app) exportPath(args []string, f tasks.Filter, id string) (string, error) {
    if len(args) == 1 { return args[0], nil }
    dir := a.cfg.ExportDir
    if dir == "" { dir = "." }
    if err := config.EnsureDir(dir); err != nil { return "", fmt.Errorf("export dir: %w", err) }
    label := strings.ToLower(f.String())
    if id != "" { label = id }
    return filepath.Join(dir, fmt.Sprintf("todos-%s-%s.zip", label, time.Now().Format("20060102-150405"))), nil
}

func importCmd(a *app) *cobra.Command {
    return &cobra.Command{
        Use:   "import <zip-path>",
        Short: "Import todos from a zip archive",
        Args:  cobra.ExactArgs(1),
        RunE: func(cmd *cobra.Command, args []string) error {
            ctx := cmdContext(cmd)
            if a.store.Path() != "" {
                bak, err := a.store.Backup(ctx, tasks.BackupSuffix(time.Now()))
                if err != nil { return fmt.Errorf("backup before import: %w", err) }
                fmt.Fprintf(cmd.OutOrStdout(), "backup: %s\n", bak)
            }
            res, err := zipper.ImportAny(ctx, args[0], a.store)
            if err != nil { return fmt.Errorf("import failed: %w", err) }
            fmt.Fprintf(cmd.OutOrStdout(), "imported %d todos (%d already present)\n", res.Imported, res.Skipped)
            return nil
        },
    }
}

func dumpCmd(a *app) *cobra.Command {
    cmd := &cobra.Command{
        Use:   "dump <file.md>",
        Short: "Write todos to a markdown file",
        Args:  cobra.ExactArgs(1),
    }
    filter := filterFlags(cmd)
    cmd.RunE = func(cmd *cobra.Command, args []string) error {
        var written int
        if err := tasks.DumpMarkdownWithProgress(cmdContext(cmd), a.store, filter(), args[0], func(cur, total int) {
            written = cur
        }); err != nil {
            return err
        }
        fmt.Fprintf(cmd.OutOrStdout(), "dumped %d todos to %s\n", written, args[0])
        return nil
    }
    return cmd
}
