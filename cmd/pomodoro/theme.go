package main

import (
	"context"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"pomodoro/tracker/internal/service"
	"pomodoro/tracker/internal/theme"
)

func themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "List or choose a color theme",
	}
	cmd.AddCommand(themeListCmd(), themeSetCmd())
	return cmd
}

func themeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				current := svc.Snapshot().Theme
				names := theme.Names()
				if jsonOutput() {
					return printJSON(map[string]any{"themes": names, "current": current})
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"", "Theme", "Preview"})
				for _, name := range names {
					palette, _ := theme.Lookup(name)
					marker := ""
					if name == current {
						marker = "*"
					}
					tw.AppendRow(table.Row{marker, name, palette.Style().Render(" " + name + " ")})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func themeSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <name>",
		Short: "Choose the color theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				state, err := svc.SetTheme(ctx, args[0])
				if err := saved(state, err); err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(map[string]string{"theme": state.Theme})
				}
				printMessage("Theme set to %s", state.Theme)
				return nil
			})
		},
	}
}
