package server

import (
	"context"

	"github.com/msto63/mTix/api/common"
	"github.com/msto63/mTix/api/concert"
	"github.com/msto63/mTix/internal/model"
)

type concertService struct {
	concert.UnimplementedConcertServiceServer
	s *Server
}

func (h *concertService) AddConcert(ctx context.Context, req *concert.AddConcertRequest) (*concert.AddConcertResponse, error) {
	c := model.ConcertFromWire(req.Concert)
	res, err := h.s.result("AddConcert", h.s.store.AddConcert(ctx, c))
	if err != nil {
		return nil, err
	}
	resp := &concert.AddConcertResponse{Result: res}
	if res.Success {
		resp.ConcertID = c.ID
		h.s.logger.Info("concert added", "concert_id", c.ID, "name", c.Name)
	}
	return resp, nil
}

func (h *concertService) UpdateConcert(ctx context.Context, req *concert.UpdateConcertRequest) (*concert.UpdateConcertResponse, error) {
	c := model.ConcertFromWire(req.Concert)
	res, err := h.s.result("UpdateConcert", h.s.store.UpdateConcert(ctx, c))
	if err != nil {
		return nil, err
	}
	return &concert.UpdateConcertResponse{Result: res}, nil
}

func (h *concertService) CancelConcert(ctx context.Context, req *concert.CancelConcertRequest) (*concert.CancelConcertResponse, error) {
	if req.ConcertID == "" {
		return &concert.CancelConcertResponse{Result: common.Fail(common.CodeInvalidInput, "concert id is required")}, nil
	}
	res, err := h.s.result("CancelConcert", h.s.store.CancelConcert(ctx, req.ConcertID))
	if err != nil {
		return nil, err
	}
	if res.Success {
		h.s.logger.Info("concert cancelled", "concert_id", req.ConcertID)
	}
	return &concert.CancelConcertResponse{Result: res}, nil
}

func (h *concertService) GetConcert(ctx context.Context, req *concert.GetConcertRequest) (*concert.GetConcertResponse, error) {
	if req.ConcertID == "" {
		return &concert.GetConcertResponse{Result: common.Fail(common.CodeInvalidInput, "concert id is required")}, nil
	}
	c, err := h.s.store.GetConcert(ctx, req.ConcertID)
	res, err := h.s.result("GetConcert", err)
	if err != nil {
		return nil, err
	}
	resp := &concert.GetConcertResponse{Result: res}
	if res.Success {
		w := c.ToWire()
		resp.Concert = &w
	}
	return resp, nil
}

func (h *concertService) ListConcerts(ctx context.Context, req *concert.ListConcertsRequest) (*concert.ListConcertsResponse, error) {
	cs, err := h.s.store.ListConcerts(ctx, req.IncludeCancelled)
	if _, err := h.s.result("ListConcerts", err); err != nil {
		return nil, err
	}
	resp := &concert.ListConcertsResponse{Concerts: make([]concert.Concert, 0, len(cs))}
	for _, c := range cs {
		resp.Concerts = append(resp.Concerts, c.ToWire())
	}
	return resp, nil
}
