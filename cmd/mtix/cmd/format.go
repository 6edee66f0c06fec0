package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/msto63/mTix/internal/model"
	tixerror "github.com/msto63/mTix/pkg/core/error"
)

func printConcerts(concerts []model.Concert) {
	if len(concerts) == 0 {
		fmt.Println("No concerts.")
		return
	}

	fmt.Printf("%-38s %-28s %-12s %-20s %-10s\n", "ID", "NAME", "DATE", "VENUE", "STATUS")
	fmt.Println(strings.Repeat("-", 112))
	for _, c := range concerts {
		fmt.Printf("%-38s %-28s %-12s %-20s %-10s\n", c.ID, truncate(c.Name, 28), c.Date, truncate(c.Venue, 20), c.Status)
	}
	fmt.Println()
	fmt.Printf("Total: %d concert(s)\n", len(concerts))
}

func printConcert(c model.Concert) {
	fmt.Printf("Concert %s\n", c.ID)
	fmt.Println(strings.Repeat("=", 8+len(c.ID)))
	fmt.Printf("  Name:   %s\n", c.Name)
	fmt.Printf("  Date:   %s\n", c.Date)
	fmt.Printf("  Venue:  %s\n", c.Venue)
	fmt.Printf("  Status: %s\n", c.Status)
	fmt.Println()
	fmt.Println("  Seat tiers:")
	for _, t := range c.SeatTiers {
		fmt.Printf("    %-15s capacity %5d   %8.2f\n", t.Name, t.Capacity, t.Price)
	}
	if c.AfterParty.Available {
		fmt.Printf("  After-party: %d tickets at %.2f\n", c.AfterParty.TotalTickets, c.AfterParty.Price)
	} else {
		fmt.Println("  After-party: none")
	}
}

func printInventory(inv model.TicketInventory) {
	fmt.Printf("Inventory for %s\n", inv.ConcertID)
	fmt.Println()
	fmt.Printf("  %-15s %10s %10s %10s\n", "TIER", "AVAILABLE", "CAPACITY", "PRICE")
	fmt.Println("  " + strings.Repeat("-", 48))
	for _, t := range inv.Tiers {
		fmt.Printf("  %-15s %10d %10d %10.2f\n", t.Name, t.Available, t.Capacity, t.Price)
	}
	if inv.AfterPartyAvailable {
		fmt.Printf("  %-15s %10d %10d %10.2f\n", "after-party", inv.AfterPartyRemaining, inv.AfterPartyTotal, inv.AfterPartyPrice)
	}
}

func printReservation(r model.Reservation) {
	fmt.Printf("Reservation %s (%s)\n", r.ID, r.Status)
	fmt.Printf("  Concert:  %s\n", r.ConcertID)
	fmt.Printf("  Customer: %s\n", r.CustomerName)
	fmt.Printf("  Seats:    %d x %s\n", r.SeatCount, r.SeatTier)
	if r.IncludeAfterParty {
		fmt.Printf("  After-party tickets: %d\n", r.AfterPartyQuantity)
	}
	fmt.Printf("  Total:    %.2f\n", r.TotalPrice)
	if !r.CreatedAt.IsZero() {
		fmt.Printf("  Created:  %s\n", r.CreatedAt.Local().Format(time.DateTime))
	}
}

func printBulkReservation(r model.BulkReservation) {
	fmt.Printf("Group booking %s (%s)\n", r.ID, r.Status)
	fmt.Printf("  Concert: %s\n", r.ConcertID)
	fmt.Printf("  Group:   %s\n", r.GroupName)
	fmt.Printf("  Seats:   %d x %s\n", r.SeatCount, r.SeatTier)
	if r.IncludeAfterParty {
		fmt.Printf("  After-party tickets: %d\n", r.AfterPartyQuantity)
	}
	fmt.Printf("  Total:   %.2f\n", r.TotalPrice)
}

func printReservations(rs []model.Reservation) {
	if len(rs) == 0 {
		fmt.Println("No reservations.")
		return
	}
	fmt.Printf("%-38s %-20s %-12s %6s %6s %10s %-10s\n", "ID", "CUSTOMER", "TIER", "SEATS", "PARTY", "TOTAL", "STATUS")
	fmt.Println(strings.Repeat("-", 108))
	for _, r := range rs {
		fmt.Printf("%-38s %-20s %-12s %6d %6d %10.2f %-10s\n",
			r.ID, truncate(r.CustomerName, 20), r.SeatTier, r.SeatCount, r.AfterPartyQuantity, r.TotalPrice, r.Status)
	}
	fmt.Println()
	fmt.Printf("Total: %d reservation(s)\n", len(rs))
}

func printBulkReservations(rs []model.BulkReservation) {
	if len(rs) == 0 {
		fmt.Println("No group bookings.")
		return
	}
	fmt.Printf("%-38s %-20s %-12s %6s %6s %10s %-10s\n", "ID", "GROUP", "TIER", "SEATS", "PARTY", "TOTAL", "STATUS")
	fmt.Println(strings.Repeat("-", 108))
	for _, r := range rs {
		fmt.Printf("%-38s %-20s %-12s %6d %6d %10.2f %-10s\n",
			r.ID, truncate(r.GroupName, 20), r.SeatTier, r.SeatCount, r.AfterPartyQuantity, r.TotalPrice, r.Status)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func parseCount(arg, what string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, tixerror.Rejected(tixerror.CodeInvalidInput, fmt.Sprintf("%s must be a number, got %q", what, arg))
	}
	return n, nil
}

func parsePrice(arg string) (float64, error) {
	p, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 0, tixerror.Rejected(tixerror.CodeInvalidInput, fmt.Sprintf("price must be a number, got %q", arg))
	}
	return p, nil
}

// parseTier reads "Name:capacity:price"
func parseTier(spec string) (model.SeatTier, error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 || parts[0] == "" {
		return model.SeatTier{}, tixerror.Rejected(tixerror.CodeInvalidInput,
			fmt.Sprintf("seat tier %q: want Name:capacity:price", spec))
	}
	capacity, err := parseCount(parts[1], "capacity")
	if err != nil {
		return model.SeatTier{}, err
	}
	price, err := parsePrice(parts[2])
	if err != nil {
		return model.SeatTier{}, err
	}
	return model.SeatTier{Name: parts[0], Capacity: capacity, Price: price}, nil
}
