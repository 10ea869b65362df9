package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"pomodoro/tracker/internal/service"
)

func statsCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show daily totals recorded by the sqlite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				buckets, err := svc.DailyHistory(ctx, days)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(buckets)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"Date", "Pomodoros", "Work", "Break"})
				for _, b := range buckets {
					tw.AppendRow(table.Row{b.Date, b.Pomodoros, formatDuration(b.WorkSeconds), formatDuration(b.BreakSeconds)})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 14, "number of days to show (1-200)")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently completed phases",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				sessions, err := svc.History(ctx, limit)
				if err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(sessions)
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"Completed", "Phase", "Length", "Tag"})
				for _, s := range sessions {
					tw.AppendRow(table.Row{
						s.CompletedAt.Local().Format(time.DateTime),
						phaseLabel(s.Phase),
						formatDuration(s.Seconds),
						s.Tag,
					})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "number of entries to show (1-200)")
	return cmd
}

func formatDuration(seconds int) string {
	return (time.Duration(seconds) * time.Second).String()
}

func printMessage(format string, args ...any) {
	if jsonOutput() {
		return
	}
	fmt.Printf(format+"\n", args...)
}
