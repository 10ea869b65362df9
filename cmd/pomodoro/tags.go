package main

import (
	"context"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"pomodoro/tracker/internal/catalog"
	"pomodoro/tracker/internal/service"
)

func tagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage session tags",
	}
	cmd.AddCommand(tagsListCmd(), tagsAddCmd(), tagsUseCmd(), tagsImportCmd())
	return cmd
}

func tagsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				tags := svc.Tags()
				current := svc.Snapshot().CurrentTag
				if jsonOutput() {
					return printJSON(map[string]any{"tags": tags, "currentTag": current})
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"", "Name", "Color"})
				for _, tag := range tags {
					marker := ""
					if tag.Name == current {
						marker = "*"
					}
					tw.AppendRow(table.Row{marker, tag.Name, tag.Color})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func tagsAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> [color]",
		Short: "Add a tag",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			color := ""
			if len(args) > 1 {
				color = args[1]
			}
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				tag, state, err := svc.AddTag(ctx, args[0], color)
				if err := saved(state, err); err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(tag)
				}
				printMessage("Added tag %q", tag.Name)
				return nil
			})
		},
	}
}

func tagsUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <name>",
		Short: "Select the tag recorded with completed sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				state, err := svc.SetCurrentTag(ctx, args[0])
				if err := saved(state, err); err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(map[string]string{"currentTag": state.CurrentTag})
				}
				printMessage("Current tag is now %q", state.CurrentTag)
				return nil
			})
		},
	}
}

func tagsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append tags from a YAML file",
		Long: `Append the tags listed under 'tags:' in a YAML file. Nothing is added
if any entry is invalid. Shop items in the file are ignored; use
'pomodoro shop import' for those.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp, err := readImport(args[0])
			if err != nil {
				return err
			}
			imp.ShopItems = nil
			return runImport(cmd.Context(), imp, "tags", len(imp.Tags))
		},
	}
}

func readImport(path string) (catalog.Import, error) {
	f, err := os.Open(path)
	if err != nil {
		return catalog.Import{}, err
	}
	defer f.Close()
	return catalog.ParseImport(f)
}

func runImport(ctx context.Context, imp catalog.Import, what string, count int) error {
	return withService(ctx, func(ctx context.Context, svc *service.PomodoroService) error {
		state, err := svc.ImportCatalog(ctx, imp)
		if err := saved(state, err); err != nil {
			return err
		}
		if jsonOutput() {
			return printJSON(map[string]int{what: count})
		}
		printMessage("Imported %d %s", count, what)
		return nil
	})
}
