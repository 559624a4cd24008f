package cmd

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"liquorland-scraper/models"
)

func historyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history <product-id>",
		Short: "Show every stored price observation for one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("history needs a catalog store; set CATALOG_DRIVER to sqlite or postgres")
			}
			defer store.Close()

			observations, err := store.History(ctx, args[0])
			if err != nil {
				return err
			}
			if len(observations) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No observations for product %s\n", args[0])
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.Style().Format.Header = text.FormatDefault
			t.SetTitle("Price history for %s", args[0])
			t.AppendHeader(table.Row{"Observed", "Price", "Per 100mL", "Deal"})
			for _, o := range observations {
				t.AppendRow(table.Row{
					o.ObservedAt.Local().Format("2006-01-02 15:04"),
					o.CurrentPrice.StringFixed(2),
					o.PricePer100ml.StringFixed(2),
					describeDeal(o.Deal),
				})
			}
			t.Render()
			return nil
		},
	}
}

func describeDeal(d models.Deal) string {
	if d.Type == models.DealNone {
		return "-"
	}
	if d.Details == "" {
		return string(d.Type)
	}
	return fmt.Sprintf("%s: %s", d.Type, d.Details)
}
