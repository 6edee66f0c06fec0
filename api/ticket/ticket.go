// Package ticket defines the mtix.ticket.v1.TicketInventoryService contract.
package ticket

import (
	"github.com/msto63/mTix/api/common"
)

type TierInventory struct {
	Name      string  `cbor:"name"`
	Capacity  int32   `cbor:"capacity"`
	Available int32   `cbor:"available"`
	Price     float64 `cbor:"price"`
}

type TicketInventory struct {
	ConcertID           string          `cbor:"concert_id"`
	Tiers               []TierInventory `cbor:"tiers"`
	AfterPartyAvailable bool            `cbor:"after_party_available"`
	AfterPartyTotal     int32           `cbor:"after_party_total"`
	AfterPartyRemaining int32           `cbor:"after_party_remaining"`
	AfterPartyPrice     float64         `cbor:"after_party_price"`
}

type GetTicketInventoryRequest struct {
	ConcertID string `cbor:"concert_id"`
}

type GetTicketInventoryResponse struct {
	Result    common.Result    `cbor:"result"`
	Inventory *TicketInventory `cbor:"inventory,omitempty"`
}

// UpdateTicketInventoryRequest adds seats to a tier. A replica applies
// each non-empty RequestID at most once.
type UpdateTicketInventoryRequest struct {
	ConcertID         string `cbor:"concert_id"`
	SeatTierName      string `cbor:"seat_tier_name"`
	AdditionalTickets int32  `cbor:"additional_tickets"`
	RequestID         string `cbor:"request_id,omitempty"`
}

type UpdateTicketInventoryResponse struct {
	Result common.Result `cbor:"result"`
}

type UpdateAfterPartyInventoryRequest struct {
	ConcertID         string `cbor:"concert_id"`
	AdditionalTickets int32  `cbor:"additional_tickets"`
	RequestID         string `cbor:"request_id,omitempty"`
}

type UpdateAfterPartyInventoryResponse struct {
	Result common.Result `cbor:"result"`
}

type CheckAvailabilityRequest struct {
	ConcertID          string `cbor:"concert_id"`
	SeatTierName       string `cbor:"seat_tier_name"`
	SeatCount          int32  `cbor:"seat_count"`
	IncludeAfterParty  bool   `cbor:"include_after_party"`
	AfterPartyQuantity int32  `cbor:"after_party_quantity,omitempty"`
}

// CheckAvailabilityResponse answers a prospective booking. Available=false
// with a successful Result is an answer, not a rejection.
type CheckAvailabilityResponse struct {
	Result    common.Result `cbor:"result"`
	Available bool          `cbor:"available"`
	Reason    string        `cbor:"reason,omitempty"`
}
