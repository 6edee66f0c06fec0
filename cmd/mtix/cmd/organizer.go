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
	concertID         string
	concertName       string
	concertDate       string
	concertVenue      string
	concertTiers      []string
	afterPartyTickets int
	afterPartyPrice   float64
)

var organizerCmd = &cobra.Command{
	Use:   "organizer",
	Short: "Create and maintain concerts",
}

var organizerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a concert",
	Long: `Adds a concert with one or more seat tiers.

Examples:
  mtix organizer add --name "Night Shift" --date 2026-11-20 --venue Arena \
    --tier Premium:100:120 --tier Standard:500:60 \
    --afterparty-tickets 50 --afterparty-price 30`,
	RunE: runOrganizerAdd,
}

var organizerUpdateCmd = &cobra.Command{
	Use:   "update <concert-id>",
	Short: "Change concert details",
	Long: `Changes only the fields given as flags.

Examples:
  mtix organizer update c-1 --venue "Open Air Stage"
  mtix organizer update c-1 --afterparty-tickets 80 --afterparty-price 25`,
	Args: cobra.ExactArgs(1),
	RunE: runOrganizerUpdate,
}

var organizerCancelCmd = &cobra.Command{
	Use:   "cancel <concert-id>",
	Short: "Cancel a concert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			if err := client.NewOrganizer(rt, logger).CancelConcert(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("Concert %s cancelled.\n", args[0])
			return nil
		})
	},
}

var organizerGetCmd = &cobra.Command{
	Use:   "get <concert-id>",
	Short: "Show a concert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			c, err := client.NewOrganizer(rt, logger).GetConcert(ctx, args[0])
			if err != nil {
				return err
			}
			printConcert(c)
			return nil
		})
	},
}

var organizerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all concerts, cancelled ones included",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
			concerts, err := client.NewOrganizer(rt, logger).ListConcerts(ctx)
			if err != nil {
				return err
			}
			printConcerts(concerts)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(organizerCmd)
	organizerCmd.AddCommand(organizerAddCmd, organizerUpdateCmd, organizerCancelCmd, organizerGetCmd, organizerListCmd)

	organizerAddCmd.Flags().StringVar(&concertID, "id", "", "concert id (default: generated)")
	organizerAddCmd.Flags().StringVar(&concertName, "name", "", "concert name")
	organizerAddCmd.Flags().StringVar(&concertDate, "date", "", "concert date")
	organizerAddCmd.Flags().StringVar(&concertVenue, "venue", "", "venue")
	organizerAddCmd.Flags().StringArrayVar(&concertTiers, "tier", nil, "seat tier as Name:capacity:price (repeatable)")
	organizerAddCmd.Flags().IntVar(&afterPartyTickets, "afterparty-tickets", 0, "after-party tickets (0: no after-party)")
	organizerAddCmd.Flags().Float64Var(&afterPartyPrice, "afterparty-price", 0, "after-party ticket price")
	_ = organizerAddCmd.MarkFlagRequired("name")
	_ = organizerAddCmd.MarkFlagRequired("tier")

	organizerUpdateCmd.Flags().StringVar(&concertName, "name", "", "new name")
	organizerUpdateCmd.Flags().StringVar(&concertDate, "date", "", "new date")
	organizerUpdateCmd.Flags().StringVar(&concertVenue, "venue", "", "new venue")
	organizerUpdateCmd.Flags().IntVar(&afterPartyTickets, "afterparty-tickets", 0, "after-party ticket total")
	organizerUpdateCmd.Flags().Float64Var(&afterPartyPrice, "afterparty-price", 0, "after-party ticket price")
}

func runOrganizerAdd(cmd *cobra.Command, args []string) error {
	c := model.Concert{
		ID:    concertID,
		Name:  concertName,
		Date:  concertDate,
		Venue: concertVenue,
	}
	for _, spec := range concertTiers {
		tier, err := parseTier(spec)
		if err != nil {
			return err
		}
		c.SeatTiers = append(c.SeatTiers, tier)
	}
	if afterPartyTickets > 0 {
		c.AfterParty = model.AfterParty{Available: true, TotalTickets: afterPartyTickets, Price: afterPartyPrice}
	}

	return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
		id, err := client.NewOrganizer(rt, logger).AddConcert(ctx, c)
		if err != nil {
			return err
		}
		fmt.Printf("Concert added: %s\n", id)
		return nil
	})
}

func runOrganizerUpdate(cmd *cobra.Command, args []string) error {
	var u model.ConcertUpdate
	flags := cmd.Flags()
	if flags.Changed("name") {
		u.Name = &concertName
	}
	if flags.Changed("date") {
		u.Date = &concertDate
	}
	if flags.Changed("venue") {
		u.Venue = &concertVenue
	}
	if flags.Changed("afterparty-tickets") {
		u.AfterPartyTickets = &afterPartyTickets
	}
	if flags.Changed("afterparty-price") {
		u.AfterPartyPrice = &afterPartyPrice
	}
	if u.Empty() {
		return fmt.Errorf("nothing to update; pass at least one of --name, --date, --venue, --afterparty-tickets, --afterparty-price")
	}

	return withClient(func(ctx context.Context, rt *resilient.Client, logger *slog.Logger) error {
		c, err := client.NewOrganizer(rt, logger).UpdateConcert(ctx, args[0], u)
		if err != nil {
			return err
		}
		printConcert(c)
		return nil
	})
}
