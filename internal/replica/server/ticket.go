package server

import (
	"context"

	"github.com/msto63/mTix/api/common"
	"github.com/msto63/mTix/api/ticket"
	"github.com/msto63/mTix/internal/replica/store"
)

type ticketService struct {
	ticket.UnimplementedTicketInventoryServiceServer
	s *Server
}

func (h *ticketService) GetTicketInventory(ctx context.Context, req *ticket.GetTicketInventoryRequest) (*ticket.GetTicketInventoryResponse, error) {
	if req.ConcertID == "" {
		return &ticket.GetTicketInventoryResponse{Result: common.Fail(common.CodeInvalidInput, "concert id is required")}, nil
	}
	inv, err := h.s.store.Inventory(ctx, req.ConcertID)
	res, err := h.s.result("GetTicketInventory", err)
	if err != nil {
		return nil, err
	}
	resp := &ticket.GetTicketInventoryResponse{Result: res}
	if res.Success {
		w := inv.ToWire()
		resp.Inventory = &w
	}
	return resp, nil
}

func (h *ticketService) UpdateTicketInventory(ctx context.Context, req *ticket.UpdateTicketInventoryRequest) (*ticket.UpdateTicketInventoryResponse, error) {
	err := h.s.store.AddTierStock(ctx, req.RequestID, req.ConcertID, req.SeatTierName, int(req.AdditionalTickets))
	res, err := h.s.result("UpdateTicketInventory", err)
	if err != nil {
		return nil, err
	}
	if res.Success {
		h.s.logger.Info("stock added", "concert_id", req.ConcertID, "tier", req.SeatTierName, "tickets", req.AdditionalTickets)
	}
	return &ticket.UpdateTicketInventoryResponse{Result: res}, nil
}

func (h *ticketService) UpdateAfterPartyInventory(ctx context.Context, req *ticket.UpdateAfterPartyInventoryRequest) (*ticket.UpdateAfterPartyInventoryResponse, error) {
	err := h.s.store.AddAfterPartyStock(ctx, req.RequestID, req.ConcertID, int(req.AdditionalTickets))
	res, err := h.s.result("UpdateAfterPartyInventory", err)
	if err != nil {
		return nil, err
	}
	if res.Success {
		h.s.logger.Info("after-party stock added", "concert_id", req.ConcertID, "tickets", req.AdditionalTickets)
	}
	return &ticket.UpdateAfterPartyInventoryResponse{Result: res}, nil
}

// CheckAvailability answers with Available=false and a reason for anything
// the booking itself would reject; only failed lookups fail the result.
func (h *ticketService) CheckAvailability(ctx context.Context, req *ticket.CheckAvailabilityRequest) (*ticket.CheckAvailabilityResponse, error) {
	if req.ConcertID == "" || req.SeatTierName == "" || req.SeatCount < 1 {
		return &ticket.CheckAvailabilityResponse{
			Result: common.Fail(common.CodeInvalidInput, "concert, seat tier and a positive seat count are required"),
		}, nil
	}
	qty := int(req.AfterPartyQuantity)
	if req.IncludeAfterParty && qty == 0 {
		qty = int(req.SeatCount)
	}
	ok, reason, err := store.CheckAvailability(ctx, h.s.store, store.Booking{
		ConcertID:          req.ConcertID,
		SeatTier:           req.SeatTierName,
		SeatCount:          int(req.SeatCount),
		IncludeAfterParty:  req.IncludeAfterParty,
		AfterPartyQuantity: qty,
	})
	res, err := h.s.result("CheckAvailability", err)
	if err != nil {
		return nil, err
	}
	return &ticket.CheckAvailabilityResponse{Result: res, Available: ok, Reason: reason}, nil
}
