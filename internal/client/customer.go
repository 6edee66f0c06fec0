package client

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"

	"github.com/msto63/mTix/api/reservation"
	"github.com/msto63/mTix/api/ticket"
	"github.com/msto63/mTix/internal/model"
	"github.com/msto63/mTix/internal/resilient"
	tixerror "github.com/msto63/mTix/pkg/core/error"
)

// Availability is the answer to a prospective booking
type Availability struct {
	Available bool
	Reason    string
}

// Customer browses concerts and books seats for one person
type Customer struct {
	base
}

// NewCustomer creates a customer facade over runner
func NewCustomer(runner resilient.Runner, logger *slog.Logger, opts ...Option) *Customer {
	return &Customer{base: newBase(runner, logger, "customer", opts)}
}

// BrowseConcerts lists the concerts still on sale
func (c *Customer) BrowseConcerts(ctx context.Context) ([]model.Concert, error) {
	return c.listConcerts(ctx, false)
}

// GetConcertDetails fetches one concert
func (c *Customer) GetConcertDetails(ctx context.Context, concertID string) (model.Concert, error) {
	return c.getConcert(ctx, concertID)
}

// GetTicketInventory returns the remaining stock of a concert
func (c *Customer) GetTicketInventory(ctx context.Context, concertID string) (model.TicketInventory, error) {
	return c.ticketInventory(ctx, concertID)
}

// CheckAvailability asks whether req could be booked right now. The
// answer is advisory; MakeReservation may still be rejected.
func (c *Customer) CheckAvailability(ctx context.Context, req model.ReservationRequest) (Availability, error) {
	const op = "CheckAvailability"
	req = req.Normalize()

	out, err := resilient.Do(ctx, c.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) (Availability, error) {
		resp, err := ticket.NewTicketInventoryServiceClient(cc).CheckAvailability(ctx, &ticket.CheckAvailabilityRequest{
			ConcertID:          req.ConcertID,
			SeatTierName:       req.SeatTier,
			SeatCount:          int32(req.SeatCount),
			IncludeAfterParty:  req.IncludeAfterParty,
			AfterPartyQuantity: int32(req.AfterPartyQuantity),
		})
		if err != nil {
			return Availability{}, err
		}
		if err := resp.Result.Err(); err != nil {
			return Availability{}, err
		}
		return Availability{Available: resp.Available, Reason: resp.Reason}, nil
	})
	if err != nil {
		return Availability{}, c.rejected(op, err)
	}
	return out, nil
}

// MakeReservation books seats, and after-party tickets when requested,
// as one unit. The reservation id is generated once and reused on every
// attempt.
func (c *Customer) MakeReservation(ctx context.Context, req model.ReservationRequest) (model.Reservation, error) {
	const op = "MakeReservation"
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return model.Reservation{}, err
	}
	id := c.newID()
	wire := req.ToWire(id)

	out, err := resilient.Do(ctx, c.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) (model.Reservation, error) {
		resp, err := reservation.NewReservationServiceClient(cc).MakeReservation(ctx, wire)
		if err != nil {
			return model.Reservation{}, err
		}
		if err := resp.Result.Err(); err != nil {
			return model.Reservation{}, err
		}
		if resp.Reservation == nil {
			return model.Reservation{}, tixerror.New("reservation confirmed without a body").WithCode(tixerror.CodeInternal)
		}
		return model.ReservationFromWire(*resp.Reservation), nil
	})
	if err != nil {
		return model.Reservation{}, c.rejected(op, tixerror.Wrap(err, "reservation "+id).WithDetail("reservation_id", id))
	}
	c.logger.Info("reservation confirmed",
		"reservation_id", out.ID,
		"concert_id", out.ConcertID,
		"tier", out.SeatTier,
		"seats", out.SeatCount,
		"after_party", out.AfterPartyQuantity,
	)
	return out, nil
}

// CancelReservation cancels a reservation and returns its stock
func (c *Customer) CancelReservation(ctx context.Context, reservationID string) error {
	const op = "CancelReservation"
	err := c.runner.Run(ctx, op, func(ctx context.Context, cc grpc.ClientConnInterface) error {
		resp, err := reservation.NewReservationServiceClient(cc).CancelReservation(ctx, &reservation.CancelReservationRequest{ReservationID: reservationID})
		if err != nil {
			return err
		}
		return resp.Result.Err()
	})
	if err != nil {
		return c.rejected(op, err)
	}
	c.logger.Info("reservation cancelled", "reservation_id", reservationID)
	return nil
}

// GetReservationDetails fetches one reservation
func (c *Customer) GetReservationDetails(ctx context.Context, reservationID string) (model.Reservation, error) {
	const op = "GetReservation"
	out, err := resilient.Do(ctx, c.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) (model.Reservation, error) {
		resp, err := reservation.NewReservationServiceClient(cc).GetReservation(ctx, &reservation.GetReservationRequest{ReservationID: reservationID})
		if err != nil {
			return model.Reservation{}, err
		}
		if err := resp.Result.Err(); err != nil {
			return model.Reservation{}, err
		}
		if resp.Reservation == nil {
			return model.Reservation{}, tixerror.Rejected(tixerror.CodeNotFound, "reservation "+reservationID+" not found")
		}
		return model.ReservationFromWire(*resp.Reservation), nil
	})
	if err != nil {
		return model.Reservation{}, c.rejected(op, err)
	}
	return out, nil
}

// ListMyReservations lists every reservation made under customer
func (c *Customer) ListMyReservations(ctx context.Context, customer string) ([]model.Reservation, error) {
	const op = "GetCustomerReservations"
	out, err := resilient.Do(ctx, c.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) ([]model.Reservation, error) {
		resp, err := reservation.NewReservationServiceClient(cc).GetCustomerReservations(ctx, &reservation.GetCustomerReservationsRequest{CustomerName: customer})
		if err != nil {
			return nil, err
		}
		return model.ReservationsFromWire(resp.Reservations), nil
	})
	if err != nil {
		return nil, c.rejected(op, err)
	}
	return out, nil
}
