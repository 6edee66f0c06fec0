// Package client provides the role facades of the ticketing platform.
// Every facade is a thin request builder over a shared resilient.Runner:
// stubs are bound to whichever connection the runner hands out, so a
// failover between attempts is picked up without any rebinding here.
package client

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"google.golang.org/grpc"

	"github.com/msto63/mTix/api/concert"
	"github.com/msto63/mTix/api/ticket"
	"github.com/msto63/mTix/internal/model"
	"github.com/msto63/mTix/internal/resilient"
	tixerror "github.com/msto63/mTix/pkg/core/error"
	"github.com/msto63/mTix/pkg/core/logging"
)

// IDGenerator creates client-side identifiers for concerts and reservations
type IDGenerator func() string

// NewID returns a random UUID string
func NewID() string {
	return uuid.NewString()
}

// base is embedded by every facade
type base struct {
	runner resilient.Runner
	newID  IDGenerator
	logger *slog.Logger
}

// Option configures a facade
type Option func(*base)

// WithIDGenerator replaces the UUID generator
func WithIDGenerator(gen IDGenerator) Option {
	return func(b *base) {
		b.newID = gen
	}
}

func newBase(runner resilient.Runner, logger *slog.Logger, component string, opts []Option) base {
	b := base{
		runner: runner,
		newID:  NewID,
		logger: logging.Component(logger, component),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// rejected logs an application failure and returns it unchanged
func (b base) rejected(op string, err error) error {
	if tixerror.IsApplication(err) {
		b.logger.Warn("rejected", "op", op, "code", tixerror.GetCode(err), "error", err)
	}
	return err
}

func (b base) listConcerts(ctx context.Context, includeCancelled bool) ([]model.Concert, error) {
	const op = "ListConcerts"
	out, err := resilient.Do(ctx, b.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) ([]model.Concert, error) {
		resp, err := concert.NewConcertServiceClient(cc).ListConcerts(ctx, &concert.ListConcertsRequest{IncludeCancelled: includeCancelled})
		if err != nil {
			return nil, err
		}
		return model.ConcertsFromWire(resp.Concerts), nil
	})
	if err != nil {
		return nil, b.rejected(op, err)
	}
	return out, nil
}

func (b base) getConcert(ctx context.Context, id string) (model.Concert, error) {
	const op = "GetConcert"
	out, err := resilient.Do(ctx, b.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) (model.Concert, error) {
		resp, err := concert.NewConcertServiceClient(cc).GetConcert(ctx, &concert.GetConcertRequest{ConcertID: id})
		if err != nil {
			return model.Concert{}, err
		}
		if err := resp.Result.Err(); err != nil {
			return model.Concert{}, err
		}
		if resp.Concert == nil {
			return model.Concert{}, tixerror.Rejected(tixerror.CodeNotFound, "concert "+id+" not found")
		}
		return model.ConcertFromWire(*resp.Concert), nil
	})
	if err != nil {
		return model.Concert{}, b.rejected(op, err)
	}
	return out, nil
}

func (b base) updateConcert(ctx context.Context, c model.Concert) error {
	const op = "UpdateConcert"
	if err := c.Validate(); err != nil {
		return err
	}
	err := b.runner.Run(ctx, op, func(ctx context.Context, cc grpc.ClientConnInterface) error {
		resp, err := concert.NewConcertServiceClient(cc).UpdateConcert(ctx, &concert.UpdateConcertRequest{Concert: c.ToWire()})
		if err != nil {
			return err
		}
		return resp.Result.Err()
	})
	return b.rejected(op, err)
}

func (b base) ticketInventory(ctx context.Context, concertID string) (model.TicketInventory, error) {
	const op = "GetTicketInventory"
	out, err := resilient.Do(ctx, b.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) (model.TicketInventory, error) {
		resp, err := ticket.NewTicketInventoryServiceClient(cc).GetTicketInventory(ctx, &ticket.GetTicketInventoryRequest{ConcertID: concertID})
		if err != nil {
			return model.TicketInventory{}, err
		}
		if err := resp.Result.Err(); err != nil {
			return model.TicketInventory{}, err
		}
		if resp.Inventory == nil {
			return model.TicketInventory{}, tixerror.Rejected(tixerror.CodeNotFound, "no inventory for concert "+concertID)
		}
		return model.InventoryFromWire(*resp.Inventory), nil
	})
	if err != nil {
		return model.TicketInventory{}, b.rejected(op, err)
	}
	return out, nil
}
