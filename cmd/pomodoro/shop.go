package main

import (
	"context"
	"errors"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"pomodoro/tracker/internal/service"
)

func shopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Spend points on rewards",
	}
	cmd.AddCommand(shopListCmd(), shopAddCmd(), shopBuyCmd(), shopImportCmd())
	return cmd
}

func shopListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List shop items and the points balance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				items := svc.ShopItems()
				points := svc.Snapshot().Points
				if jsonOutput() {
					return printJSON(map[string]any{"items": items, "points": points})
				}
				tw := newTable()
				tw.AppendHeader(table.Row{"#", "Name", "Cost", "Description"})
				for i, item := range items {
					tw.AppendRow(table.Row{i, item.Name, item.Cost, item.Description})
				}
				tw.AppendFooter(table.Row{"", "Points", points, ""})
				tw.Render()
				return nil
			})
		},
	}
}

func shopAddCmd() *cobra.Command {
	var name, description string
	var cost int
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a shop item",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("cost") {
				return errors.New("--cost is required")
			}
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				item, state, err := svc.AddShopItem(ctx, name, cost, description)
				if err := saved(state, err); err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(item)
				}
				printMessage("Added %q for %d points", item.Name, item.Cost)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "item name")
	cmd.Flags().IntVar(&cost, "cost", 0, "price in points")
	cmd.Flags().StringVar(&description, "description", "", "item description")
	return cmd
}

func shopBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <index>",
		Short: "Buy the item at index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.New("index must be an integer")
			}
			return withService(cmd.Context(), func(ctx context.Context, svc *service.PomodoroService) error {
				item, state, err := svc.Purchase(ctx, index)
				if err := saved(state, err); err != nil {
					return err
				}
				if jsonOutput() {
					return printJSON(map[string]any{"item": item, "points": state.Points})
				}
				printMessage("Bought %q, %d points left", item.Name, state.Points)
				return nil
			})
		},
	}
}

func shopImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append shop items from a YAML file",
		Long: `Append the items listed under 'shopItems:' in a YAML file. Nothing is
added if any entry is invalid. Tags in the file are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp, err := readImport(args[0])
			if err != nil {
				return err
			}
			imp.Tags = nil
			return runImport(cmd.Context(), imp, "shop items", len(imp.ShopItems))
		},
	}
}
