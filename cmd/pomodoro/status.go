package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"pomodoro/tracker/internal/model"
	"pomodoro/tracker/internal/service"
	"pomodoro/tracker/internal/theme"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the saved timer settings, points and theme",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				state := svc.Snapshot()
				if jsonOutput() {
					return printJSON(state)
				}
				fmt.Println(renderStatus(state))
				return nil
			})
		},
	}
}

func renderStatus(state service.StateView) string {
	palette, ok := theme.Lookup(state.Theme)
	if !ok {
		palette, _ = theme.Lookup(model.DefaultTheme)
	}

	header := palette.Style().Padding(0, 2).Render(
		fmt.Sprintf("%s  %s", phaseLabel(state.Phase), state.RemainingText),
	)
	body := lipgloss.NewStyle().
		Foreground(palette.OnSurface).
		Background(palette.Surface).
		Padding(0, 2).
		Render(strings.Join([]string{
			fmt.Sprintf("Points:     %d", state.Points),
			fmt.Sprintf("Tag:        %s", state.CurrentTag),
			fmt.Sprintf("Theme:      %s", state.Theme),
			fmt.Sprintf("Work:       %s", formatSeconds(state.Config.WorkDuration)),
			fmt.Sprintf("Break:      %s", formatSeconds(state.Config.BreakDuration)),
			fmt.Sprintf("Long break: %s every %d sessions", formatSeconds(state.Config.LongBreakDuration), state.Config.SessionsBeforeLongBreak),
		}, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func phaseLabel(phase model.Phase) string {
	switch phase {
	case model.PhaseBreak:
		return "Break"
	case model.PhaseLongBreak:
		return "Long break"
	default:
		return "Work"
	}
}

func formatSeconds(seconds int) string {
	if seconds%60 == 0 {
		return fmt.Sprintf("%dm", seconds/60)
	}
	return fmt.Sprintf("%ds", seconds)
}

func newTable() table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	return tw
}
