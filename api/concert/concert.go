// Package concert defines the mtix.concert.v1.ConcertService contract.
package concert

import (
	"github.com/msto63/mTix/api/common"
)

// Concert status values
const (
	StatusActive    = "ACTIVE"
	StatusCancelled = "CANCELLED"
)

type SeatTier struct {
	Name     string  `cbor:"name"`
	Capacity int32   `cbor:"capacity"`
	Price    float64 `cbor:"price"`
}

type AfterParty struct {
	Available    bool    `cbor:"available"`
	TotalTickets int32   `cbor:"total_tickets"`
	Price        float64 `cbor:"price"`
}

type Concert struct {
	ID         string     `cbor:"id"`
	Name       string     `cbor:"name"`
	Date       string     `cbor:"date"`
	Venue      string     `cbor:"venue"`
	SeatTiers  []SeatTier `cbor:"seat_tiers"`
	AfterParty AfterParty `cbor:"after_party"`
	Status     string     `cbor:"status,omitempty"`
}

type AddConcertRequest struct {
	Concert Concert `cbor:"concert"`
}

type AddConcertResponse struct {
	Result    common.Result `cbor:"result"`
	ConcertID string        `cbor:"concert_id,omitempty"`
}

type UpdateConcertRequest struct {
	Concert Concert `cbor:"concert"`
}

type UpdateConcertResponse struct {
	Result common.Result `cbor:"result"`
}

type CancelConcertRequest struct {
	ConcertID string `cbor:"concert_id"`
}

type CancelConcertResponse struct {
	Result common.Result `cbor:"result"`
}

type GetConcertRequest struct {
	ConcertID string `cbor:"concert_id"`
}

type GetConcertResponse struct {
	Result  common.Result `cbor:"result"`
	Concert *Concert      `cbor:"concert,omitempty"`
}

type ListConcertsRequest struct {
	IncludeCancelled bool `cbor:"include_cancelled,omitempty"`
}

type ListConcertsResponse struct {
	Concerts []Concert `cbor:"concerts"`
}
