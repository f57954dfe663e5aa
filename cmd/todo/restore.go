package main

import (
    "errors"
    "fmt"
    "os"

    tea "github.com/charmbracelet/bubbletea"
    "github.com/spf13/cobra"
    "golang.org/x/term"

    "todo-tui/internal/tasks"
    "todo-tui/internal/tui"
)

func restoreCmd(a *app) *cobra.Command {
    var suffix string
    cmd := &cobra.Command{
        Use:   "restore",
        Short: "Restore the database from a backup",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, args []string) error {
            dbPath := a.store.Path()
            if dbPath == "" { return errors.New("restore needs a file-backed database") }
            // The file is replaced underneath us; drop our handle first.
            if err := a.close(); err != nil { return err }

            if suffix == "" {
                infos, err := tasks.ListBackups(dbPath)
                if err != nil { return fmt.Errorf("list backups: %w", err) }
                if len(infos) == 0 {
                    fmt.Fprintf(cmd.OutOrStdout(), "no backups found for %s\n", dbPath)
                    return nil
                }
                if !term.IsTerminal(int(os.Stdin.Fd())) {
                    for _, b := range infos {
                        fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d bytes\n", b.Suffix, b.ModTime.Format("2006-01-02 15:04:05"), b.Size)
                    }
                    return errors.New("no terminal; pass --suffix to choose a backup")
                }
                final, err := tea.NewProgram(tui.NewRestore(infos, dbPath)).Run()
                if err != nil { return fmt.Errorf("restore picker: %w", err) }
                rm, _ := final.(tui.RestoreModel)
                suffix = rm.Selected()
                if suffix == "" { return nil }
            }

            if err := tasks.RestoreFromBackup(dbPath, suffix, a.cfg.Debug); err != nil { return fmt.Errorf("restore failed: %w", err) }
            fmt.Fprintf(cmd.OutOrStdout(), "restored %s from backup %s\n", dbPath, suffix)
            return nil
        },
    }
    cmd.Flags().StringVar(&suffix, "suffix", "", "backup suffix to restore (skips the picker)")
    return cmd
}
