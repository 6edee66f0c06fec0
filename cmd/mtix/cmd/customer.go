package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/msto63/mTix/internal/client"
	"github.com/msto63/mTix/internal/model"
	"github.com/msto63/mTix/internal/resilient"
)

var (
	customerName   string
	withAfterParty bool
	afterPartyQty  int
	paymentMethod  string
)

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Browse concerts and book tickets",
}

var customerBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "List concerts on sale",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			concerts, err := client.NewCustomer(rt, logger).BrowseConcerts(ctx)
			if err != nil {
				return err
			}
			printConcerts(concerts)
			return nil
		})
	},
}

var customerShowCmd = &cobra.Command{
	Use:   "show <concert-id>",
	Short: "Show concert details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			c, err := client.NewCustomer(rt, logger).GetConcertDetails(ctx, args[0])
			if err != nil {
				return err
			}
			printConcert(c)
			return nil
		})
	},
}

var customerInventoryCmd = &cobra.Command{
	Use:   "inventory <concert-id>",
	Short: "Show remaining tickets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			inv, err := client.NewCustomer(rt, logger).GetTicketInventory(ctx, args[0])
			if err != nil {
				return err
			}
			printInventory(inv)
			return nil
		})
	},
}

var customerCheckCmd = &cobra.Command{
	Use:   "check <concert-id> <tier> <seats>",
	Short: "Check whether a booking would succeed",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := reservationRequest(args)
		if err != nil {
			return err
		}
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			a, err := client.NewCustomer(rt, logger).CheckAvailability(ctx, req)
			if err != nil {
				return err
			}
			if a.Available {
				fmt.Println("Available.")
			} else {
				fmt.Printf("Not available: %s\n", a.Reason)
			}
			return nil
		})
	},
}

var customerReserveCmd = &cobra.Command{
	Use:   "reserve <concert-id> <tier> <seats>",
	Short: "Book seats, optionally with after-party tickets",
	Long: `Books seats and after-party tickets as one unit: either both are
confirmed or nothing is booked.

Examples:
  mtix customer reserve c-1 Premium 2 --name ada
  mtix customer reserve c-1 Premium 2 --name ada --afterparty
  mtix customer reserve c-1 Standard 4 --name ada --afterparty --afterparty-qty 2`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := reservationRequest(args)
		if err != nil {
			return err
		}
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			r, err := client.NewCustomer(rt, logger).MakeReservation(ctx, req)
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		})
	},
}

var customerCancelCmd = &cobra.Command{
	Use:   "cancel <reservation-id>",
	Short: "Cancel a reservation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			if err := client.NewCustomer(rt, logger).CancelReservation(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Reservation %s cancelled.\n", args[0])
			return nil
		})
	},
}

var customerReservationCmd = &cobra.Command{
	Use:   "reservation <reservation-id>",
	Short: "Show a reservation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			r, err := client.NewCustomer(rt, logger).GetReservationDetails(ctx, args[0])
			if err != nil {
				return err
			}
			printReservation(r)
			return nil
		})
	},
}

var customerMineCmd = &cobra.Command{
	Use:   "mine <customer-name>",
	Short: "List the reservations of a customer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			rs, err := client.NewCustomer(rt, logger).ListMyReservations(ctx, args[0])
			if err != nil {
				return err
			}
			printReservations(rs)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(customerCmd)
	customerCmd.AddCommand(
		customerBrowseCmd,
		customerShowCmd,
		customerInventoryCmd,
		customerCheckCmd,
		customerReserveCmd,
		customerCancelCmd,
		customerReservationCmd,
		customerMineCmd,
	)

	for _, c := range []*cobra.Command{customerCheckCmd, customerReserveCmd} {
		c.Flags().BoolVar(&withAfterParty, "afterparty", false, "include after-party tickets")
		c.Flags().IntVar(&afterPartyQty, "afterparty-qty", 0, "after-party tickets (default: one per seat)")
	}
	customerReserveCmd.Flags().StringVar(&customerName, "name", "", "customer name")
	customerReserveCmd.Flags().StringVar(&paymentMethod, "payment", "", "payment method")
	_ = customerReserveCmd.MarkFlagRequired("name")
}

func reservationRequest(args []string) (model.ReservationRequest, error) {
	seats, err := parseCount(args[2], "seats")
	if err != nil {
		return model.ReservationRequest{}, err
	}
	return model.ReservationRequest{
		ConcertID:          args[0],
		CustomerName:       customerName,
		SeatTier:           args[1],
		SeatCount:          seats,
		IncludeAfterParty:  withAfterParty,
		AfterPartyQuantity: afterPartyQty,
		PaymentMethod:      paymentMethod,
	}, nil
}
