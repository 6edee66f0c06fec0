package client

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"

	"github.com/msto63/mTix/api/ticket"
	"github.com/msto63/mTix/internal/model"
	"github.com/msto63/mTix/internal/resilient"
	tixerror "github.com/msto63/mTix/pkg/core/error"
)

// BoxOffice adjusts stock and prices
type BoxOffice struct {
	base
}

// NewBoxOffice creates a box-office facade over runner
func NewBoxOffice(runner resilient.Runner, logger *slog.Logger, opts ...Option) *BoxOffice {
	return &BoxOffice{base: newBase(runner, logger, "boxoffice", opts)}
}

// UpdateTicketInventory adds n seats to a tier. Every attempt carries the
// same request id, so a retried call adds the seats once.
func (b *BoxOffice) UpdateTicketInventory(ctx context.Context, concertID, tier string, n int) error {
	const op = "UpdateTicketInventory"
	if err := model.ValidateStock(n); err != nil {
		return err
	}
	requestID := b.newID()
	err := b.runner.Run(ctx, op, func(ctx context.Context, cc grpc.ClientConnInterface) error {
		resp, err := ticket.NewTicketInventoryServiceClient(cc).UpdateTicketInventory(ctx, &ticket.UpdateTicketInventoryRequest{
			ConcertID:         concertID,
			SeatTierName:      tier,
			AdditionalTickets: int32(n),
			RequestID:         requestID,
		})
		if err != nil {
			return err
		}
		return resp.Result.Err()
	})
	if err != nil {
		return b.rejected(op, err)
	}
	b.logger.Info("tier stock added", "concert_id", concertID, "tier", tier, "tickets", n)
	return nil
}

// UpdateAfterPartyInventory adds n after-party tickets
func (b *BoxOffice) UpdateAfterPartyInventory(ctx context.Context, concertID string, n int) error {
	const op = "UpdateAfterPartyInventory"
	if err := model.ValidateStock(n); err != nil {
		return err
	}
	requestID := b.newID()
	err := b.runner.Run(ctx, op, func(ctx context.Context, cc grpc.ClientConnInterface) error {
		resp, err := ticket.NewTicketInventoryServiceClient(cc).UpdateAfterPartyInventory(ctx, &ticket.UpdateAfterPartyInventoryRequest{
			ConcertID:         concertID,
			AdditionalTickets: int32(n),
			RequestID:         requestID,
		})
		if err != nil {
			return err
		}
		return resp.Result.Err()
	})
	if err != nil {
		return b.rejected(op, err)
	}
	b.logger.Info("after-party stock added", "concert_id", concertID, "tickets", n)
	return nil
}

// UpdateTicketPrice changes the price of an existing tier. An unknown
// tier is rejected before anything is written.
func (b *BoxOffice) UpdateTicketPrice(ctx context.Context, concertID, tier string, price float64) error {
	c, err := b.getConcert(ctx, concertID)
	if err != nil {
		return err
	}

	found := false
	for i := range c.SeatTiers {
		if c.SeatTiers[i].Name == tier {
			c.SeatTiers[i].Price = price
			found = true
		}
	}
	if !found {
		return b.rejected("UpdateTicketPrice", tixerror.Rejected(tixerror.CodeNotFound,
			fmt.Sprintf("concert %s has no seat tier %q", concertID, tier)))
	}
	return b.updateConcert(ctx, c)
}

// UpdateAfterPartyPrice changes the after-party price. The concert must
// offer an after-party.
func (b *BoxOffice) UpdateAfterPartyPrice(ctx context.Context, concertID string, price float64) error {
	c, err := b.getConcert(ctx, concertID)
	if err != nil {
		return err
	}
	if !c.AfterParty.Available {
		return b.rejected("UpdateAfterPartyPrice", tixerror.Rejected(tixerror.CodeRejected,
			fmt.Sprintf("concert %s has no after-party", concertID)))
	}
	c.AfterParty.Price = price
	return b.updateConcert(ctx, c)
}

// GetTicketInventory returns the remaining stock of a concert
func (b *BoxOffice) GetTicketInventory(ctx context.Context, concertID string) (model.TicketInventory, error) {
	return b.ticketInventory(ctx, concertID)
}

// ListConcerts lists the concerts still on sale
func (b *BoxOffice) ListConcerts(ctx context.Context) ([]model.Concert, error) {
	return b.listConcerts(ctx, false)
}
