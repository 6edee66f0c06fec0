package model

import (
	"time"

	"github.com/msto63/mTix/api/concert"
	"github.com/msto63/mTix/api/reservation"
	"github.com/msto63/mTix/api/ticket"
)

// ConcertFromWire converts a wire concert
func ConcertFromWire(w concert.Concert) Concert {
	c := Concert{
		ID:    w.ID,
		Name:  w.Name,
		Date:  w.Date,
		Venue: w.Venue,
		AfterParty: AfterParty{
			Available:    w.AfterParty.Available,
			TotalTickets: int(w.AfterParty.TotalTickets),
			Price:        w.AfterParty.Price,
		},
		Status: ConcertStatus(w.Status),
	}
	if c.Status == "" {
		c.Status = ConcertActive
	}
	for _, t := range w.SeatTiers {
		c.SeatTiers = append(c.SeatTiers, SeatTier{Name: t.Name, Capacity: int(t.Capacity), Price: t.Price})
	}
	return c
}

// ToWire converts a concert to its wire form
func (c Concert) ToWire() concert.Concert {
	w := concert.Concert{
		ID:    c.ID,
		Name:  c.Name,
		Date:  c.Date,
		Venue: c.Venue,
		AfterParty: concert.AfterParty{
			Available:    c.AfterParty.Available,
			TotalTickets: int32(c.AfterParty.TotalTickets),
			Price:        c.AfterParty.Price,
		},
		Status: string(c.Status),
	}
	for _, t := range c.SeatTiers {
		w.SeatTiers = append(w.SeatTiers, concert.SeatTier{Name: t.Name, Capacity: int32(t.Capacity), Price: t.Price})
	}
	return w
}

// ConcertsFromWire converts a list of wire concerts
func ConcertsFromWire(ws []concert.Concert) []Concert {
	out := make([]Concert, 0, len(ws))
	for _, w := range ws {
		out = append(out, ConcertFromWire(w))
	}
	return out
}

// InventoryFromWire converts a wire inventory
func InventoryFromWire(w ticket.TicketInventory) TicketInventory {
	inv := TicketInventory{
		ConcertID:           w.ConcertID,
		AfterPartyAvailable: w.AfterPartyAvailable,
		AfterPartyTotal:     int(w.AfterPartyTotal),
		AfterPartyRemaining: int(w.AfterPartyRemaining),
		AfterPartyPrice:     w.AfterPartyPrice,
	}
	for _, t := range w.Tiers {
		inv.Tiers = append(inv.Tiers, TierInventory{
			Name:      t.Name,
			Capacity:  int(t.Capacity),
			Available: int(t.Available),
			Price:     t.Price,
		})
	}
	return inv
}

// ToWire converts an inventory to its wire form
func (inv TicketInventory) ToWire() ticket.TicketInventory {
	w := ticket.TicketInventory{
		ConcertID:           inv.ConcertID,
		AfterPartyAvailable: inv.AfterPartyAvailable,
		AfterPartyTotal:     int32(inv.AfterPartyTotal),
		AfterPartyRemaining: int32(inv.AfterPartyRemaining),
		AfterPartyPrice:     inv.AfterPartyPrice,
	}
	for _, t := range inv.Tiers {
		w.Tiers = append(w.Tiers, ticket.TierInventory{
			Name:      t.Name,
			Capacity:  int32(t.Capacity),
			Available: int32(t.Available),
			Price:     t.Price,
		})
	}
	return w
}

// ToWire builds the wire request under the given reservation id
func (r ReservationRequest) ToWire(id string) *reservation.ReservationRequest {
	r = r.Normalize()
	return &reservation.ReservationRequest{
		ReservationID:      id,
		ConcertID:          r.ConcertID,
		CustomerName:       r.CustomerName,
		SeatTierName:       r.SeatTier,
		SeatCount:          int32(r.SeatCount),
		IncludeAfterParty:  r.IncludeAfterParty,
		AfterPartyQuantity: int32(r.AfterPartyQuantity),
		PaymentMethod:      r.PaymentMethod,
	}
}

// ReservationRequestFromWire converts a wire request, dropping the id
func ReservationRequestFromWire(w *reservation.ReservationRequest) ReservationRequest {
	return ReservationRequest{
		ConcertID:          w.ConcertID,
		CustomerName:       w.CustomerName,
		SeatTier:           w.SeatTierName,
		SeatCount:          int(w.SeatCount),
		IncludeAfterParty:  w.IncludeAfterParty,
		AfterPartyQuantity: int(w.AfterPartyQuantity),
		PaymentMethod:      w.PaymentMethod,
	}.Normalize()
}

// ToWire builds the wire request under the given reservation id
func (r BulkReservationRequest) ToWire(id string) *reservation.BulkReservationRequest {
	r = r.Normalize()
	return &reservation.BulkReservationRequest{
		ReservationID:      id,
		ConcertID:          r.ConcertID,
		GroupName:          r.GroupName,
		SeatTierName:       r.SeatTier,
		SeatCount:          int32(r.SeatCount),
		IncludeAfterParty:  r.IncludeAfterParty,
		AfterPartyQuantity: int32(r.AfterPartyQuantity),
		PaymentMethod:      r.PaymentMethod,
	}
}

// BulkReservationRequestFromWire converts a wire request, dropping the id
func BulkReservationRequestFromWire(w *reservation.BulkReservationRequest) BulkReservationRequest {
	return BulkReservationRequest{
		ConcertID:          w.ConcertID,
		GroupName:          w.GroupName,
		SeatTier:           w.SeatTierName,
		SeatCount:          int(w.SeatCount),
		IncludeAfterParty:  w.IncludeAfterParty,
		AfterPartyQuantity: int(w.AfterPartyQuantity),
		PaymentMethod:      w.PaymentMethod,
	}.Normalize()
}

// ReservationFromWire converts a wire reservation
func ReservationFromWire(w reservation.Reservation) Reservation {
	return Reservation{
		ID:                 w.ID,
		ConcertID:          w.ConcertID,
		CustomerName:       w.CustomerName,
		SeatTier:           w.SeatTierName,
		SeatCount:          int(w.SeatCount),
		IncludeAfterParty:  w.IncludeAfterParty,
		AfterPartyQuantity: int(w.AfterPartyQuantity),
		PaymentMethod:      w.PaymentMethod,
		TotalPrice:         w.TotalPrice,
		Status:             ReservationStatus(w.Status),
		CreatedAt:          fromUnixMilli(w.CreatedAtUnixMilli),
	}
}

// ToWire converts a reservation to its wire form
func (r Reservation) ToWire() reservation.Reservation {
	return reservation.Reservation{
		ID:                 r.ID,
		ConcertID:          r.ConcertID,
		CustomerName:       r.CustomerName,
		SeatTierName:       r.SeatTier,
		SeatCount:          int32(r.SeatCount),
		IncludeAfterParty:  r.IncludeAfterParty,
		AfterPartyQuantity: int32(r.AfterPartyQuantity),
		PaymentMethod:      r.PaymentMethod,
		TotalPrice:         r.TotalPrice,
		Status:             string(r.Status),
		CreatedAtUnixMilli: toUnixMilli(r.CreatedAt),
	}
}

// ReservationsFromWire converts a list of wire reservations
func ReservationsFromWire(ws []reservation.Reservation) []Reservation {
	out := make([]Reservation, 0, len(ws))
	for _, w := range ws {
		out = append(out, ReservationFromWire(w))
	}
	return out
}

// BulkReservationFromWire converts a wire bulk reservation
func BulkReservationFromWire(w reservation.BulkReservation) BulkReservation {
	return BulkReservation{
		ID:                 w.ID,
		ConcertID:          w.ConcertID,
		GroupName:          w.GroupName,
		SeatTier:           w.SeatTierName,
		SeatCount:          int(w.SeatCount),
		IncludeAfterParty:  w.IncludeAfterParty,
		AfterPartyQuantity: int(w.AfterPartyQuantity),
		PaymentMethod:      w.PaymentMethod,
		TotalPrice:         w.TotalPrice,
		Status:             ReservationStatus(w.Status),
		CreatedAt:          fromUnixMilli(w.CreatedAtUnixMilli),
	}
}

// ToWire converts a bulk reservation to its wire form
func (r BulkReservation) ToWire() reservation.BulkReservation {
	return reservation.BulkReservation{
		ID:                 r.ID,
		ConcertID:          r.ConcertID,
		GroupName:          r.GroupName,
		SeatTierName:       r.SeatTier,
		SeatCount:          int32(r.SeatCount),
		IncludeAfterParty:  r.IncludeAfterParty,
		AfterPartyQuantity: int32(r.AfterPartyQuantity),
		PaymentMethod:      r.PaymentMethod,
		TotalPrice:         r.TotalPrice,
		Status:             string(r.Status),
		CreatedAtUnixMilli: toUnixMilli(r.CreatedAt),
	}
}

// BulkReservationsFromWire converts a list of wire bulk reservations
func BulkReservationsFromWire(ws []reservation.BulkReservation) []BulkReservation {
	out := make([]BulkReservation, 0, len(ws))
	for _, w := range ws {
		out = append(out, BulkReservationFromWire(w))
	}
	return out
}

func fromUnixMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

func toUnixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
