package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/sb-price-watch/internal/feed"
	"github.com/donaldgifford/sb-price-watch/internal/watchlist"
	"github.com/donaldgifford/sb-price-watch/pkg/pricing"
)

func priceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "price <id>",
		Short: "Look up a server's current price in the live feed",
		Long: "Fetch the live Server Bourse feed directly, without a running server,\n" +
			"and print the record and gross monthly price of one auction.",
		Example: `  sbwatch price 2165473
  sbwatch price 2165473 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := watchlist.ValidateID(args[0]); err != nil {
				return fmt.Errorf("invalid server ID %q: %w", args[0], err)
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid server ID %q: %w", args[0], err)
			}

			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}

			rec, err := feed.Lookup(cmd.Context(), newFetcher(&cfg.Feed), id)
			if err != nil {
				return err
			}

			price := pricing.ServerPrice(rec)
			if jsonOutput() {
				return outputJSON(cmd.OutOrStdout(), map[string]any{
					"server":          rec,
					"price":           price,
					"formatted_price": pricing.Format(price),
				})
			}
			return printServerDetail(cmd.OutOrStdout(), rec, price)
		},
	}
}
