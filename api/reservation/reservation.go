// Package reservation defines the mtix.reservation.v1.ReservationService
// contract. Reservation ids are chosen by the caller.
package reservation

import (
	"github.com/msto63/mTix/api/common"
)

// Reservation status values
const (
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

type Reservation struct {
	ID                 string  `cbor:"id"`
	ConcertID          string  `cbor:"concert_id"`
	CustomerName       string  `cbor:"customer_name"`
	SeatTierName       string  `cbor:"seat_tier_name"`
	SeatCount          int32   `cbor:"seat_count"`
	IncludeAfterParty  bool    `cbor:"include_after_party"`
	AfterPartyQuantity int32   `cbor:"after_party_quantity"`
	PaymentMethod      string  `cbor:"payment_method,omitempty"`
	TotalPrice         float64 `cbor:"total_price"`
	Status             string  `cbor:"status"`
	CreatedAtUnixMilli int64   `cbor:"created_at"`
}

type BulkReservation struct {
	ID                 string  `cbor:"id"`
	ConcertID          string  `cbor:"concert_id"`
	GroupName          string  `cbor:"group_name"`
	SeatTierName       string  `cbor:"seat_tier_name"`
	SeatCount          int32   `cbor:"seat_count"`
	IncludeAfterParty  bool    `cbor:"include_after_party"`
	AfterPartyQuantity int32   `cbor:"after_party_quantity"`
	PaymentMethod      string  `cbor:"payment_method,omitempty"`
	TotalPrice         float64 `cbor:"total_price"`
	Status             string  `cbor:"status"`
	CreatedAtUnixMilli int64   `cbor:"created_at"`
}

type ReservationRequest struct {
	ReservationID      string `cbor:"reservation_id"`
	ConcertID          string `cbor:"concert_id"`
	CustomerName       string `cbor:"customer_name"`
	SeatTierName       string `cbor:"seat_tier_name"`
	SeatCount          int32  `cbor:"seat_count"`
	IncludeAfterParty  bool   `cbor:"include_after_party"`
	AfterPartyQuantity int32  `cbor:"after_party_quantity"`
	PaymentMethod      string `cbor:"payment_method,omitempty"`
}

type ReservationResponse struct {
	Result      common.Result `cbor:"result"`
	Reservation *Reservation  `cbor:"reservation,omitempty"`
}

type CancelReservationRequest struct {
	ReservationID string `cbor:"reservation_id"`
}

type CancelReservationResponse struct {
	Result common.Result `cbor:"result"`
}

type GetReservationRequest struct {
	ReservationID string `cbor:"reservation_id"`
}

type GetReservationResponse struct {
	Result      common.Result `cbor:"result"`
	Reservation *Reservation  `cbor:"reservation,omitempty"`
}

type BulkReservationRequest struct {
	ReservationID      string `cbor:"reservation_id"`
	ConcertID          string `cbor:"concert_id"`
	GroupName          string `cbor:"group_name"`
	SeatTierName       string `cbor:"seat_tier_name"`
	SeatCount          int32  `cbor:"seat_count"`
	IncludeAfterParty  bool   `cbor:"include_after_party"`
	AfterPartyQuantity int32  `cbor:"after_party_quantity"`
	PaymentMethod      string `cbor:"payment_method,omitempty"`
}

type BulkReservationResponse struct {
	Result      common.Result    `cbor:"result"`
	Reservation *BulkReservation `cbor:"reservation,omitempty"`
}

type CancelBulkReservationRequest struct {
	ReservationID string `cbor:"reservation_id"`
}

type CancelBulkReservationResponse struct {
	Result common.Result `cbor:"result"`
}

type GetBulkReservationRequest struct {
	ReservationID string `cbor:"reservation_id"`
}

type GetBulkReservationResponse struct {
	Result      common.Result    `cbor:"result"`
	Reservation *BulkReservation `cbor:"reservation,omitempty"`
}

type ListBulkReservationsRequest struct {
	ConcertID string `cbor:"concert_id"`
}

type ListBulkReservationsResponse struct {
	Reservations []BulkReservation `cbor:"reservations"`
}

type GetCustomerReservationsRequest struct {
	CustomerName string `cbor:"customer_name"`
}

type GetCustomerReservationsResponse struct {
	Reservations []Reservation `cbor:"reservations"`
}

type ConcertReservationsRequest struct {
	ConcertID string `cbor:"concert_id"`
	// BatchSize bounds the reservations per stream message; 0 lets the server pick
	BatchSize int32 `cbor:"batch_size,omitempty"`
}

type ConcertReservationsResponse struct {
	Reservations []Reservation `cbor:"reservations"`
}
