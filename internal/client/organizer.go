package client

import (
	"context"
	"log/slog"

	"google.golang.org/grpc"

	"github.com/msto63/mTix/api/concert"
	"github.com/msto63/mTix/internal/model"
	"github.com/msto63/mTix/internal/resilient"
)

// Organizer creates and maintains concerts
type Organizer struct {
	base
}

// NewOrganizer creates an organizer facade over runner
func NewOrganizer(runner resilient.Runner, logger *slog.Logger, opts ...Option) *Organizer {
	return &Organizer{base: newBase(runner, logger, "organizer", opts)}
}

// AddConcert registers c and returns its id. An empty c.ID is filled
// with a client-generated UUID before the first attempt.
func (o *Organizer) AddConcert(ctx context.Context, c model.Concert) (string, error) {
	const op = "AddConcert"
	if c.ID == "" {
		c.ID = o.newID()
	}
	if c.Status == "" {
		c.Status = model.ConcertActive
	}
	if err := c.Validate(); err != nil {
		return "", err
	}

	id, err := resilient.Do(ctx, o.runner, op, func(ctx context.Context, cc grpc.ClientConnInterface) (string, error) {
		resp, err := concert.NewConcertServiceClient(cc).AddConcert(ctx, &concert.AddConcertRequest{Concert: c.ToWire()})
		if err != nil {
			return "", err
		}
		if err := resp.Result.Err(); err != nil {
			return "", err
		}
		if resp.ConcertID != "" {
			return resp.ConcertID, nil
		}
		return c.ID, nil
	})
	if err != nil {
		return "", o.rejected(op, err)
	}
	o.logger.Info("concert added", "concert_id", id, "name", c.Name)
	return id, nil
}

// UpdateConcert merges u into the stored concert and writes it back
func (o *Organizer) UpdateConcert(ctx context.Context, id string, u model.ConcertUpdate) (model.Concert, error) {
	c, err := o.getConcert(ctx, id)
	if err != nil {
		return model.Concert{}, err
	}
	if u.Empty() {
		return c, nil
	}
	u.Apply(&c)
	if err := o.updateConcert(ctx, c); err != nil {
		return model.Concert{}, err
	}
	return c, nil
}

// UpdateConcertDetails changes name, date and venue. Empty strings leave
// the field unchanged.
func (o *Organizer) UpdateConcertDetails(ctx context.Context, id, name, date, venue string) (model.Concert, error) {
	var u model.ConcertUpdate
	if name != "" {
		u.Name = &name
	}
	if date != "" {
		u.Date = &date
	}
	if venue != "" {
		u.Venue = &venue
	}
	return o.UpdateConcert(ctx, id, u)
}

// CancelConcert marks the concert cancelled
func (o *Organizer) CancelConcert(ctx context.Context, id string) error {
	const op = "CancelConcert"
	err := o.runner.Run(ctx, op, func(ctx context.Context, cc grpc.ClientConnInterface) error {
		resp, err := concert.NewConcertServiceClient(cc).CancelConcert(ctx, &concert.CancelConcertRequest{ConcertID: id})
		if err != nil {
			return err
		}
		return resp.Result.Err()
	})
	if err != nil {
		return o.rejected(op, err)
	}
	o.logger.Info("concert cancelled", "concert_id", id)
	return nil
}

// GetConcert fetches one concert; a missing id yields tixerror.ErrNotFound
func (o *Organizer) GetConcert(ctx context.Context, id string) (model.Concert, error) {
	return o.getConcert(ctx, id)
}

// ListConcerts lists every concert, cancelled ones included
func (o *Organizer) ListConcerts(ctx context.Context) ([]model.Concert, error) {
	return o.listConcerts(ctx, true)
}
