package main

import (
	"context"
	"errors"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"pomodoro/tracker/internal/model"
	"pomodoro/tracker/internal/service"
)

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change timer durations",
	}
	cmd.AddCommand(settingsShowCmd(), settingsSetCmd())
	return cmd
}

func settingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show timer durations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				printSettings(svc.Snapshot().Config)
				return nil
			})
		},
	}
}

func settingsSetCmd() *cobra.Command {
	var work, brk, longBreak, sessions int
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change timer durations (seconds)",
		Example: `  pomodoro settings set --work 1500 --break 300
  pomodoro settings set --sessions 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input service.SettingsInput
			flags := cmd.Flags()
			if flags.Changed("work") {
				input.WorkDuration = &work
			}
			if flags.Changed("break") {
				input.BreakDuration = &brk
			}
			if flags.Changed("long-break") {
				input.LongBreakDuration = &longBreak
			}
			if flags.Changed("sessions") {
				input.SessionsBeforeLongBreak = &sessions
			}
			if input.WorkDuration == nil && input.BreakDuration == nil &&
				input.LongBreakDuration == nil && input.SessionsBeforeLongBreak == nil {
				return errors.New("no settings given; use --work, --break, --long-break or --sessions")
			}

			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				state, err := svc.UpdateSettings(ctx, input)
				if err := saved(state, err); err != nil {
					return err
				}
				printSettings(state.Config)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&work, "work", 0, "work phase length in seconds")
	cmd.Flags().IntVar(&brk, "break", 0, "short break length in seconds")
	cmd.Flags().IntVar(&longBreak, "long-break", 0, "long break length in seconds")
	cmd.Flags().IntVar(&sessions, "sessions", 0, "work sessions before a long break")
	return cmd
}

func printSettings(cfg model.SessionConfig) {
	if jsonOutput() {
		_ = printJSON(cfg)
		return
	}
	tw := newTable()
	tw.AppendHeader(table.Row{"Setting", "Value"})
	tw.AppendRows([]table.Row{
		{"Work", formatDuration(cfg.WorkDuration)},
		{"Break", formatDuration(cfg.BreakDuration)},
		{"Long break", formatDuration(cfg.LongBreakDuration)},
		{"Sessions before long break", cfg.SessionsBeforeLongBreak},
	})
	tw.Render()
}
