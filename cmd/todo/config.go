package main

import (
    "encoding/json"
    "fmt"

    "github.com/spf13/cobra"

    "todo-tui/internal/config"
)

func configCmd(a *app) *cobra.Command {
    var save bool
    cmd := &cobra.Command{
        Use:   "config",
        Short: "Print the effective configuration, or save it with --save",
        Args:  cobra.NoArgs,
        RunE: func(cmd *cobra.Command, args []string) error {
            if save {
                if err := config.Save(a.cfgPath, a.cfg); err != nil { return fmt.Errorf("save config: %w", err) }
                fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", a.cfgPath)
                return nil
            }
            b, err := json.MarshalIndent(a.cfg, "", "  ")
            if err != nil { return err }
            fmt.Fprintln(cmd.OutOrStdout(), string(b))
            return nil
        },
    }
    cmd.Flags().BoolVar(&save, "save", false, "write the effective configuration (flags included) to --config")
    return cmd
}
