package client

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"google.golang.org/grpc"

	"github.com/msto63/mTix/api/reservation"
	"github.com/msto63/mTix/internal/model"
	"github.com/msto63/mTix/internal/resilient"
	tixerror "github.com/msto63/mTix/pkg/core/error"
)

// StreamTimeout bounds how long ConcertReservations waits for the
// server to finish streaming
const StreamTimeout = 10 * time.Second

// Coordinator books and manages seats for groups
type Coordinator struct {
	base
	streamTimeout time.Duration
}

// NewCoordinator creates a coordinator facade over runner
func NewCoordinator(runner resilient.Runner, logger *slog.Logger, opts ...Option) *Coordinator {
	return &Coordinator{
		base:          newBase(runner, logger, "coordinator", opts),
		streamTimeout: StreamTimeout,
	}
}

// NewBulkRequest returns a group booking that includes one after-party
// ticket per seat
func NewBulkRequest(concertID, group, tier string, seats int, payment string) model.BulkReservationRequest {
	return model.BulkReservationRequest{
		ConcertID:         concertID,
		GroupName:         group,
		SeatTier:          tier,
		SeatCount:         seats,
		IncludeAfterParty: true,
		PaymentMethod:     payment,
	}
}

// ListConcerts lists the concerts still on sale
func (c *Coordinator) ListConcerts(ctx context.Context) ([]model.Concert, error) {
	return c.listConcerts(ctx, false)
}

// GetTicketInventory returns the remaining stock of a concert
func (c *Coordinator) GetTicketInventory(ctx context.Context, concertID string) (model.TicketInventory, error) {
	return c.ticketInventory(ctx, concertID)
}

// MakeBulkReservation books a group as one unit: either every seat and
// after-party ticket is granted or nothing is.
func (c *Coordinator) MakeBulkReservation(ctx context.Context, req model.BulkReservationRequest) (model.BulkReservation, error) {
	const op = "MakeBulkReservation"
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return model.BulkReservation{}, err
	}
	id := c.newID()
	wire := req.ToWire(id)

	out, err := resilient.Do(ctx, c.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) (model.BulkReservation, error) {
		resp, err := reservation.NewReservationServiceClient(cc).MakeBulkReservation(ctx, wire)
		if err != nil {
			return model.BulkReservation{}, err
		}
		if err := resp.Result.Err(); err != nil {
			return model.BulkReservation{}, err
		}
		if resp.Reservation == nil {
			return model.BulkReservation{}, tixerror.New("bulk reservation confirmed without a body").WithCode(tixerror.CodeInternal)
		}
		return model.BulkReservationFromWire(*resp.Reservation), nil
	})
	if err != nil {
		return model.BulkReservation{}, c.rejected(op, tixerror.Wrap(err, "bulk reservation "+id).WithDetail("reservation_id", id))
	}
	c.logger.Info("bulk reservation confirmed",
		"reservation_id", out.ID,
		"group", out.GroupName,
		"seats", out.SeatCount,
		"after_party", out.AfterPartyQuantity,
	)
	return out, nil
}

// CancelBulkReservation cancels a group booking and returns its stock
func (c *Coordinator) CancelBulkReservation(ctx context.Context, reservationID string) error {
	const op = "CancelBulkReservation"
	err := c.runner.Run(ctx, op, func(ctx context.Context, cc grpc.ClientConnInterface) error {
		resp, err := reservation.NewReservationServiceClient(cc).CancelBulkReservation(ctx, &reservation.CancelBulkReservationRequest{ReservationID: reservationID})
		if err != nil {
			return err
		}
		return resp.Result.Err()
	})
	if err != nil {
		return c.rejected(op, err)
	}
	c.logger.Info("bulk reservation cancelled", "reservation_id", reservationID)
	return nil
}

// GetBulkReservationDetails fetches one group booking
func (c *Coordinator) GetBulkReservationDetails(ctx context.Context, reservationID string) (model.BulkReservation, error) {
	const op = "GetBulkReservation"
	out, err := resilient.Do(ctx, c.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) (model.BulkReservation, error) {
		resp, err := reservation.NewReservationServiceClient(cc).GetBulkReservation(ctx, &reservation.GetBulkReservationRequest{ReservationID: reservationID})
		if err != nil {
			return model.BulkReservation{}, err
		}
		if err := resp.Result.Err(); err != nil {
			return model.BulkReservation{}, err
		}
		if resp.Reservation == nil {
			return model.BulkReservation{}, tixerror.Rejected(tixerror.CodeNotFound, "bulk reservation "+reservationID+" not found")
		}
		return model.BulkReservationFromWire(*resp.Reservation), nil
	})
	if err != nil {
		return model.BulkReservation{}, c.rejected(op, err)
	}
	return out, nil
}

// ListBulkReservations lists the group bookings of a concert
func (c *Coordinator) ListBulkReservations(ctx context.Context, concertID string) ([]model.BulkReservation, error) {
	const op = "ListBulkReservations"
	out, err := resilient.Do(ctx, c.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) ([]model.BulkReservation, error) {
		resp, err := reservation.NewReservationServiceClient(cc).ListBulkReservations(ctx, &reservation.ListBulkReservationsRequest{ConcertID: concertID})
		if err != nil {
			return nil, err
		}
		return model.BulkReservationsFromWire(resp.Reservations), nil
	})
	if err != nil {
		return nil, c.rejected(op, err)
	}
	return out, nil
}

// ConcertReservations collects every individual reservation of a concert
// from the server stream. A stream broken off midway is retried from the
// start on the next replica.
func (c *Coordinator) ConcertReservations(ctx context.Context, concertID string) ([]model.Reservation, error) {
	const op = "GetConcertReservations"
	out, err := resilient.Do(ctx, c.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) ([]model.Reservation, error) {
		ctx, cancel := context.WithTimeout(ctx, c.streamTimeout)
		defer cancel()

		stream, err := reservation.NewReservationServiceClient(cc).GetConcertReservations(ctx, &reservation.ConcertReservationsRequest{ConcertID: concertID})
		if err != nil {
			return nil, err
		}

		var all []model.Reservation
		batches := 0
		for {
			batch, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, err
			}
			batches++
			all = append(all, model.ReservationsFromWire(batch.Reservations)...)
		}
		c.logger.Debug("stream drained", "concert_id", concertID, "batches", batches, "reservations", len(all))
		return all, nil
	})
	if err != nil {
		return nil, c.rejected(op, err)
	}
	return out, nil
}
