package server

import (
	"context"

	"github.com/msto63/mTix/api/common"
	"github.com/msto63/mTix/api/reservation"
	"github.com/msto63/mTix/internal/model"
	"github.com/msto63/mTix/internal/replica/events"
	"github.com/msto63/mTix/internal/replica/store"
)

type reservationService struct {
	reservation.UnimplementedReservationServiceServer
	s *Server
}

// reserve books b; a replay answers with the stored booking and
// publishes nothing
func (h *reservationService) reserve(ctx context.Context, op string, b store.Booking) (store.Booking, common.Result, error) {
	stored, replayed, err := h.s.store.Reserve(ctx, b)
	res, err := h.s.result(op, err)
	if err != nil || !res.Success {
		return store.Booking{}, res, err
	}
	if replayed {
		h.s.logger.Info("reservation replayed", "reservation_id", stored.ID)
		return stored, res, nil
	}
	h.s.logger.Info("reservation confirmed",
		"reservation_id", stored.ID, "kind", stored.Kind, "concert_id", stored.ConcertID,
		"tier", stored.SeatTier, "seats", stored.SeatCount, "after_party", stored.AfterPartyQuantity)
	h.s.publish(ctx, events.ReservationConfirmed, stored)
	return stored, res, nil
}

func (h *reservationService) cancel(ctx context.Context, op string, kind store.Kind, id string) (common.Result, error) {
	if id == "" {
		return common.Fail(common.CodeInvalidInput, "reservation id is required"), nil
	}
	b, cancelled, err := h.s.store.Cancel(ctx, kind, id)
	if err == nil && cancelled {
		h.s.logger.Info("reservation cancelled", "reservation_id", id, "kind", kind)
		h.s.publish(ctx, events.ReservationCancelled, b)
	}
	return h.s.result(op, err)
}

func (h *reservationService) get(ctx context.Context, op string, kind store.Kind, id string) (store.Booking, common.Result, error) {
	if id == "" {
		return store.Booking{}, common.Fail(common.CodeInvalidInput, "reservation id is required"), nil
	}
	b, err := h.s.store.Get(ctx, kind, id)
	res, err := h.s.result(op, err)
	return b, res, err
}

func (h *reservationService) MakeReservation(ctx context.Context, req *reservation.ReservationRequest) (*reservation.ReservationResponse, error) {
	b := store.BookingFromReservation(req.ReservationID, model.ReservationRequestFromWire(req))
	stored, res, err := h.reserve(ctx, "MakeReservation", b)
	if err != nil {
		return nil, err
	}
	resp := &reservation.ReservationResponse{Result: res}
	if res.Success {
		w := stored.Reservation().ToWire()
		resp.Reservation = &w
	}
	return resp, nil
}

func (h *reservationService) CancelReservation(ctx context.Context, req *reservation.CancelReservationRequest) (*reservation.CancelReservationResponse, error) {
	res, err := h.cancel(ctx, "CancelReservation", store.KindIndividual, req.ReservationID)
	if err != nil {
		return nil, err
	}
	return &reservation.CancelReservationResponse{Result: res}, nil
}

func (h *reservationService) GetReservation(ctx context.Context, req *reservation.GetReservationRequest) (*reservation.GetReservationResponse, error) {
	b, res, err := h.get(ctx, "GetReservation", store.KindIndividual, req.ReservationID)
	if err != nil {
		return nil, err
	}
	resp := &reservation.GetReservationResponse{Result: res}
	if res.Success {
		w := b.Reservation().ToWire()
		resp.Reservation = &w
	}
	return resp, nil
}

func (h *reservationService) MakeBulkReservation(ctx context.Context, req *reservation.BulkReservationRequest) (*reservation.BulkReservationResponse, error) {
	b := store.BookingFromBulk(req.ReservationID, model.BulkReservationRequestFromWire(req))
	stored, res, err := h.reserve(ctx, "MakeBulkReservation", b)
	if err != nil {
		return nil, err
	}
	resp := &reservation.BulkReservationResponse{Result: res}
	if res.Success {
		w := stored.Bulk().ToWire()
		resp.Reservation = &w
	}
	return resp, nil
}

func (h *reservationService) CancelBulkReservation(ctx context.Context, req *reservation.CancelBulkReservationRequest) (*reservation.CancelBulkReservationResponse, error) {
	res, err := h.cancel(ctx, "CancelBulkReservation", store.KindBulk, req.ReservationID)
	if err != nil {
		return nil, err
	}
	return &reservation.CancelBulkReservationResponse{Result: res}, nil
}

func (h *reservationService) GetBulkReservation(ctx context.Context, req *reservation.GetBulkReservationRequest) (*reservation.GetBulkReservationResponse, error) {
	b, res, err := h.get(ctx, "GetBulkReservation", store.KindBulk, req.ReservationID)
	if err != nil {
		return nil, err
	}
	resp := &reservation.GetBulkReservationResponse{Result: res}
	if res.Success {
		w := b.Bulk().ToWire()
		resp.Reservation = &w
	}
	return resp, nil
}

func (h *reservationService) ListBulkReservations(ctx context.Context, req *reservation.ListBulkReservationsRequest) (*reservation.ListBulkReservationsResponse, error) {
	bs, err := h.s.store.List(ctx, store.Filter{Kind: store.KindBulk, ConcertID: req.ConcertID})
	if _, err := h.s.result("ListBulkReservations", err); err != nil {
		return nil, err
	}
	resp := &reservation.ListBulkReservationsResponse{Reservations: make([]reservation.BulkReservation, 0, len(bs))}
	for _, b := range bs {
		resp.Reservations = append(resp.Reservations, b.Bulk().ToWire())
	}
	return resp, nil
}

func (h *reservationService) GetCustomerReservations(ctx context.Context, req *reservation.GetCustomerReservationsRequest) (*reservation.GetCustomerReservationsResponse, error) {
	resp := &reservation.GetCustomerReservationsResponse{Reservations: []reservation.Reservation{}}
	if req.CustomerName == "" {
		return resp, nil
	}
	bs, err := h.s.store.List(ctx, store.Filter{Kind: store.KindIndividual, Holder: req.CustomerName})
	if _, err := h.s.result("GetCustomerReservations", err); err != nil {
		return nil, err
	}
	for _, b := range bs {
		resp.Reservations = append(resp.Reservations, b.Reservation().ToWire())
	}
	return resp, nil
}

// GetConcertReservations streams the individual reservations of a concert
// in batches. An unknown concert ends the stream with no messages.
func (h *reservationService) GetConcertReservations(req *reservation.ConcertReservationsRequest, stream reservation.ReservationService_GetConcertReservationsServer) error {
	ctx := stream.Context()
	bs, err := h.s.store.List(ctx, store.Filter{Kind: store.KindIndividual, ConcertID: req.ConcertID})
	if _, err := h.s.result("GetConcertReservations", err); err != nil {
		return err
	}

	size := int(req.BatchSize)
	if size <= 0 {
		size = DefaultBatchSize
	}
	for start := 0; start < len(bs); start += size {
		end := min(start+size, len(bs))
		batch := make([]reservation.Reservation, 0, end-start)
		for _, b := range bs[start:end] {
			batch = append(batch, b.Reservation().ToWire())
		}
		if err := stream.Send(&reservation.ConcertReservationsResponse{Reservations: batch}); err != nil {
			return err
		}
	}
	return nil
}
