package main

import (
    "context"
    "errors"
    "fmt"
    "io"
    "log"
    "os"

    "github.com/spf13/cobra"
    "golang.org/x/term"

    "todo-tui/internal/config"
    "todo-tui/internal/hooks"
    "todo-tui/internal/tasks"
    "todo-tui/internal/tui"
    "todo-tui/internal/version"
)

// app carries what every subcommand shares once flags are parsed.
type app struct {
    cfgPath   string
    dbPath    string
    hooksDir  string
    exportDir string
    debug     bool

    cfg   config.Config
    store *tasks.Store
    hooks *hooks.HookEnv
}

func main() {
    if err := newRootCmd().Execute(); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
}

func newRootCmd() *cobra.Command {
    a := &app{}
    root := &cobra.Command{
        Use:           "todo",
        Short:         "A terminal todo application",
        Version:       version.String(),
        SilenceUsage:  true,
        SilenceErrors: true,
        PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
            return a.setup(cmd)
        },
        PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
            return a.close()
        },
        RunE: func(cmd *cobra.Command, args []string) error {
            return a.runSession(cmd)
        },
    }

    pf := root.PersistentFlags()
    pf.StringVar(&a.cfgPath, "config", config.DefaultPath(), "config file path")
    pf.StringVarP(&a.dbPath, "database", "D", "", "database path, sqlite:// URI or :memory: (overrides config)")
    pf.StringVar(&a.hooksDir, "hooks-dir", "", "directory containing JS hook files")
    pf.StringVar(&a.exportDir, "export-dir", "", "default export directory")
    pf.BoolVar(&a.debug, "debug", false, "verbose logging")

    root.AddCommand(tuiCmd(a))
    root.AddCommand(listCmd(a))
    root.AddCommand(addCmd(a))
    root.AddCommand(completeCmd(a))
    root.AddCommand(deleteCmd(a))
    root.AddCommand(statsCmd(a))
    root.AddCommand(exportCmd(a))
    root.AddCommand(importCmd(a))
    root.AddCommand(dumpCmd(a))
    root.AddCommand(restoreCmd(a))
    root.AddCommand(configCmd(a))
    return root
}

func tuiCmd(a *app) *cobra.Command {
    return &cobra.Command{
        Use:   "tui",
        Short: "Start the interactive session",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, args []string) error {
            return a.runSession(cmd)
        },
    }
}

// setup loads config, applies flag overrides and opens the store.
func (a *app) setup(cmd *cobra.Command) error {
    a.cfg = config.Default()
    if err := config.Load(a.cfgPath, &a.cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
        log.Printf("warning: failed to load config: %v", err)
    }
    if a.dbPath != "" { a.cfg.DatabasePath = a.dbPath }
    if a.hooksDir != "" { a.cfg.HooksDir = a.hooksDir }
    if a.exportDir != "" { a.cfg.ExportDir = a.exportDir }
    if a.debug { a.cfg.Debug = true }

    if !a.cfg.Debug { log.SetOutput(io.Discard) }
    hooks.EnableDebug(a.cfg.Debug)

    st, err := tasks.Open(a.cfg.DatabasePath)
    if err != nil { return fmt.Errorf("open database: %w", err) }
    a.store = st
    if a.cfg.Debug { log.Printf("[todo] database: %s", a.cfg.DatabasePath) }

    env, err := hooks.LoadDir(a.cfg.HooksDir)
    if err != nil { log.Printf("[hooks] load failed: %v", err) }
    a.hooks = env
    return nil
}

func (a *app) close() error {
    if a.store == nil { return nil }
    err := a.store.Close()
    a.store = nil
    return err
}

// runSession starts the interactive session, or prints the list when there
// is no terminal to draw on.
func (a *app) runSession(cmd *cobra.Command) error {
    if !(term.IsTerminal(int(os.Stdin.Fd())) || term.IsTerminal(int(os.Stdout.Fd()))) {
        return printList(cmd, a, tasks.FilterAll)
    }
    return tui.Run(cmdContext(cmd), a.store, a.cfg, a.hooks)
}

func cmdContext(cmd *cobra.Command) context.Context {
    if ctx := cmd.Context(); ctx != nil { return ctx }
    return context.Background()
}
