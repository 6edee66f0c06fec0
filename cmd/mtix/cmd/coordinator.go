package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/msto63/mTix/internal/client"
	"github.com/msto63/mTix/internal/resilient"
)

var (
	groupName    string
	noAfterParty bool
)

var coordinatorCmd = &cobra.Command{
	Use:   "coordinator",
	Short: "Group bookings and concert reports",
}

var coordinatorBulkReserveCmd = &cobra.Command{
	Use:   "bulk-reserve <concert-id> <tier> <seats>",
	Short: "Book seats for a group",
	Long: `Books seats for a group as one unit. One after-party ticket per seat
is included unless --no-afterparty is given.

Examples:
  mtix coordinator bulk-reserve c-1 Standard 40 --group "Choir Berlin"
  mtix coordinator bulk-reserve c-1 Standard 40 --group "Choir Berlin" --afterparty-qty 10`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		seats, err := parseCount(args[2], "seats")
		if err != nil {
			return err
		}
		req := client.NewBulkRequest(args[0], groupName, args[1], seats, paymentMethod)
		if noAfterParty {
			req.IncludeAfterParty = false
		}
		req.AfterPartyQuantity = afterPartyQty

		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			r, err := client.NewCoordinator(rt, logger).MakeBulkReservation(ctx, req)
			if err != nil {
				return err
			}
			printBulkReservation(r)
			return nil
		})
	},
}

var coordinatorBulkCancelCmd = &cobra.Command{
	Use:   "bulk-cancel <reservation-id>",
	Short: "Cancel a group booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			if err := client.NewCoordinator(rt, logger).CancelBulkReservation(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Group booking %s cancelled.\n", args[0])
			return nil
		})
	},
}

var coordinatorBulkShowCmd = &cobra.Command{
	Use:   "bulk-show <reservation-id>",
	Short: "Show a group booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			r, err := client.NewCoordinator(rt, logger).GetBulkReservationDetails(ctx, args[0])
			if err != nil {
				return err
			}
			printBulkReservation(r)
			return nil
		})
	},
}

var coordinatorBulkListCmd = &cobra.Command{
	Use:   "bulk-list <concert-id>",
	Short: "List the group bookings of a concert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			rs, err := client.NewCoordinator(rt, logger).ListBulkReservations(ctx, args[0])
			if err != nil {
				return err
			}
			printBulkReservations(rs)
			return nil
		})
	},
}

var coordinatorReservationsCmd = &cobra.Command{
	Use:   "reservations <concert-id>",
	Short: "List every individual reservation of a concert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			rs, err := client.NewCoordinator(rt, logger).ConcertReservations(ctx, args[0])
			if err != nil {
				return err
			}
			printReservations(rs)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(coordinatorCmd)
	coordinatorCmd.AddCommand(
		coordinatorBulkReserveCmd,
		coordinatorBulkCancelCmd,
		coordinatorBulkShowCmd,
		coordinatorBulkListCmd,
		coordinatorReservationsCmd,
	)

	flags := coordinatorBulkReserveCmd.Flags()
	flags.StringVar(&groupName, "group", "", "group name")
	flags.BoolVar(&noAfterParty, "no-afterparty", false, "book seats only")
	flags.IntVar(&afterPartyQty, "afterparty-qty", 0, "after-party tickets (default: one per seat)")
	flags.StringVar(&paymentMethod, "payment", "", "payment method")
	_ = coordinatorBulkReserveCmd.MarkFlagRequired("group")
}
