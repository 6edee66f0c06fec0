package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/msto63/mTix/internal/client"
	"github.com/msto63/mTix/internal/resilient"
)

var boxofficeCmd = &cobra.Command{
	Use:   "boxoffice",
	Short: "Manage stock and prices",
}

var boxofficeAddStockCmd = &cobra.Command{
	Use:   "add-stock <concert-id> <tier> <tickets>",
	Short: "Add tickets to a seat tier",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseCount(args[2], "tickets")
		if err != nil {
			return err
		}
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			if err := client.NewBoxOffice(rt, logger).UpdateTicketInventory(ctx, args[0], args[1], n); err != nil {
				return err
			}
			fmt.Printf("Added %d %s tickets to %s.\n", n, args[1], args[0])
			return nil
		})
	},
}

var boxofficeAddAfterPartyStockCmd = &cobra.Command{
	Use:   "add-afterparty-stock <concert-id> <tickets>",
	Short: "Add after-party tickets",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := parseCount(args[1], "tickets")
		if err != nil {
			return err
		}
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			if err := client.NewBoxOffice(rt, logger).UpdateAfterPartyInventory(ctx, args[0], n); err != nil {
				return err
			}
			fmt.Printf("Added %d after-party tickets to %s.\n", n, args[0])
			return nil
		})
	},
}

var boxofficeSetPriceCmd = &cobra.Command{
	Use:   "set-price <concert-id> <tier> <price>",
	Short: "Change the price of a seat tier",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := parsePrice(args[2])
		if err != nil {
			return err
		}
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			if err := client.NewBoxOffice(rt, logger).UpdateTicketPrice(ctx, args[0], args[1], price); err != nil {
				return err
			}
			fmt.Printf("%s seats of %s now cost %.2f.\n", args[1], args[0], price)
			return nil
		})
	},
}

var boxofficeSetAfterPartyPriceCmd = &cobra.Command{
	Use:   "set-afterparty-price <concert-id> <price>",
	Short: "Change the after-party price",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := parsePrice(args[1])
		if err != nil {
			return err
		}
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			if err := client.NewBoxOffice(rt, logger).UpdateAfterPartyPrice(ctx, args[0], price); err != nil {
				return err
			}
			fmt.Printf("After-party tickets of %s now cost %.2f.\n", args[0], price)
			return nil
		})
	},
}

var boxofficeInventoryCmd = &cobra.Command{
	Use:   "inventory <concert-id>",
	Short: "Show remaining stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			inv, err := client.NewBoxOffice(rt, logger).GetTicketInventory(ctx, args[0])
			if err != nil {
				return err
			}
			printInventory(inv)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(boxofficeCmd)
	boxofficeCmd.AddCommand(
		boxofficeAddStockCmd,
		boxofficeAddAfterPartyStockCmd,
		boxofficeSetPriceCmd,
		boxofficeSetAfterPartyPriceCmd,
		boxofficeInventoryCmd,
	)
}
