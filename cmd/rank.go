package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"liquorland-scraper/services"
)

func rankCommand() *cobra.Command {
	var noAdvice bool

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the stored catalog by price per 100mL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openCatalog(ctx)
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("rank needs a catalog store; set CATALOG_DRIVER to sqlite or postgres")
			}
			defer store.Close()

			products, err := store.FetchAll(ctx)
			if err != nil {
				return err
			}
			logger.Info("[cmd] Loaded %d products from catalog", len(products))

			ranking := newRanker(noAdvice).RankWithAdvice(ctx, products)

			insights := services.NewInsightService(logger).WithOutput(cmd.OutOrStdout())
			insights.Print(insights.Generate(products), ranking)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noAdvice, "no-advice", false, "skip advisory commentary")
	return cmd
}
