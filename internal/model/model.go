// Package model holds the domain values exchanged with the ticketing
// backend. They are transient: the client never caches them.
package model

import (
	"fmt"
	"math"
	"strings"
	"time"

	tixerror "github.com/msto63/mTix/pkg/core/error"
)

// MaxCount is the largest seat or ticket count the wire contract carries
const MaxCount = math.MaxInt32

// ConcertStatus is the lifecycle state of a concert
type ConcertStatus string

const (
	ConcertActive    ConcertStatus = "ACTIVE"
	ConcertCancelled ConcertStatus = "CANCELLED"
)

// ReservationStatus is the lifecycle state of a reservation
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

// SeatTier is one priced seat category of a concert
type SeatTier struct {
	Name     string
	Capacity int
	Price    float64
}

// AfterParty describes the optional after-party. TotalTickets and Price
// only matter when Available is set.
type AfterParty struct {
	Available    bool
	TotalTickets int
	Price        float64
}

// Concert is a scheduled event with its seat tiers
type Concert struct {
	ID         string
	Name       string
	Date       string
	Venue      string
	SeatTiers  []SeatTier
	AfterParty AfterParty
	Status     ConcertStatus
}

// Tier looks up a seat tier by name
func (c Concert) Tier(name string) (SeatTier, bool) {
	for _, t := range c.SeatTiers {
		if t.Name == name {
			return t, true
		}
	}
	return SeatTier{}, false
}

// Cancelled reports whether the concert was cancelled
func (c Concert) Cancelled() bool {
	return c.Status == ConcertCancelled
}

// Clone returns a deep copy
func (c Concert) Clone() Concert {
	c.SeatTiers = append([]SeatTier(nil), c.SeatTiers...)
	return c
}

// Validate checks the invariants a concert must hold before it is sent
func (c Concert) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return invalid("concert name is required")
	}
	seen := make(map[string]struct{}, len(c.SeatTiers))
	for _, t := range c.SeatTiers {
		if strings.TrimSpace(t.Name) == "" {
			return invalid("seat tier name is required")
		}
		if _, dup := seen[t.Name]; dup {
			return invalid("duplicate seat tier %q", t.Name)
		}
		seen[t.Name] = struct{}{}
		if t.Capacity < 0 {
			return invalid("seat tier %q has negative capacity", t.Name)
		}
		if t.Capacity > MaxCount {
			return invalid("seat tier %q capacity must not exceed %d", t.Name, MaxCount)
		}
		if t.Price < 0 {
			return invalid("seat tier %q has negative price", t.Name)
		}
	}
	if c.AfterParty.TotalTickets < 0 {
		return invalid("after-party tickets must not be negative")
	}
	if c.AfterParty.TotalTickets > MaxCount {
		return invalid("after-party tickets must not exceed %d", MaxCount)
	}
	if c.AfterParty.Price < 0 {
		return invalid("after-party price must not be negative")
	}
	return nil
}

// ConcertUpdate carries the optional fields an organizer may change.
// Nil fields are left untouched.
type ConcertUpdate struct {
	Name              *string
	Date              *string
	Venue             *string
	AfterPartyPrice   *float64
	AfterPartyTickets *int
}

// Empty reports whether the update changes nothing
func (u ConcertUpdate) Empty() bool {
	return u.Name == nil && u.Date == nil && u.Venue == nil &&
		u.AfterPartyPrice == nil && u.AfterPartyTickets == nil
}

// Apply merges the update into c. Giving the after-party a positive
// ticket count makes it available.
func (u ConcertUpdate) Apply(c *Concert) {
	if u.Name != nil {
		c.Name = *u.Name
	}
	if u.Date != nil {
		c.Date = *u.Date
	}
	if u.Venue != nil {
		c.Venue = *u.Venue
	}
	if u.AfterPartyPrice != nil {
		c.AfterParty.Price = *u.AfterPartyPrice
	}
	if u.AfterPartyTickets != nil {
		c.AfterParty.TotalTickets = *u.AfterPartyTickets
		if *u.AfterPartyTickets > 0 {
			c.AfterParty.Available = true
		}
	}
}

// TierInventory is the remaining stock of one seat tier
type TierInventory struct {
	Name      string
	Capacity  int
	Available int
	Price     float64
}

// TicketInventory is the remaining stock of a concert
type TicketInventory struct {
	ConcertID           string
	Tiers               []TierInventory
	AfterPartyAvailable bool
	AfterPartyTotal     int
	AfterPartyRemaining int
	AfterPartyPrice     float64
}

// Tier looks up the inventory of a seat tier
func (inv TicketInventory) Tier(name string) (TierInventory, bool) {
	for _, t := range inv.Tiers {
		if t.Name == name {
			return t, true
		}
	}
	return TierInventory{}, false
}

// ReservationRequest is what a customer asks to book
type ReservationRequest struct {
	ConcertID         string
	CustomerName      string
	SeatTier          string
	SeatCount         int
	IncludeAfterParty bool
	// AfterPartyQuantity defaults to SeatCount when the after-party is included
	AfterPartyQuantity int
	PaymentMethod      string
}

// Normalize fills AfterPartyQuantity and clears it when not included
func (r ReservationRequest) Normalize() ReservationRequest {
	r.AfterPartyQuantity = afterPartyQuantity(r.IncludeAfterParty, r.SeatCount, r.AfterPartyQuantity)
	return r
}

// Validate checks the request before it is sent
func (r ReservationRequest) Validate() error {
	if r.CustomerName == "" {
		return invalid("customer name is required")
	}
	return validateBooking(r.ConcertID, r.SeatTier, r.SeatCount, r.IncludeAfterParty, r.AfterPartyQuantity)
}

// BulkReservationRequest is what a coordinator books for a group
type BulkReservationRequest struct {
	ConcertID          string
	GroupName          string
	SeatTier           string
	SeatCount          int
	IncludeAfterParty  bool
	AfterPartyQuantity int
	PaymentMethod      string
}

// Normalize fills AfterPartyQuantity and clears it when not included
func (r BulkReservationRequest) Normalize() BulkReservationRequest {
	r.AfterPartyQuantity = afterPartyQuantity(r.IncludeAfterParty, r.SeatCount, r.AfterPartyQuantity)
	return r
}

// Validate checks the request before it is sent
func (r BulkReservationRequest) Validate() error {
	if r.GroupName == "" {
		return invalid("group name is required")
	}
	return validateBooking(r.ConcertID, r.SeatTier, r.SeatCount, r.IncludeAfterParty, r.AfterPartyQuantity)
}

// Reservation is a confirmed or cancelled individual booking
type Reservation struct {
	ID                 string
	ConcertID          string
	CustomerName       string
	SeatTier           string
	SeatCount          int
	IncludeAfterParty  bool
	AfterPartyQuantity int
	PaymentMethod      string
	TotalPrice         float64
	Status             ReservationStatus
	CreatedAt          time.Time
}

// BulkReservation is a booking made by a coordinator for a named group
type BulkReservation struct {
	ID                 string
	ConcertID          string
	GroupName          string
	SeatTier           string
	SeatCount          int
	IncludeAfterParty  bool
	AfterPartyQuantity int
	PaymentMethod      string
	TotalPrice         float64
	Status             ReservationStatus
	CreatedAt          time.Time
}

func afterPartyQuantity(include bool, seats, qty int) int {
	if !include {
		return 0
	}
	if qty == 0 {
		return seats
	}
	return qty
}

func validateBooking(concertID, tier string, seats int, includeAfterParty bool, afterParty int) error {
	if concertID == "" {
		return invalid("concert id is required")
	}
	if tier == "" {
		return invalid("seat tier is required")
	}
	if seats < 1 {
		return invalid("seat count must be positive, got %d", seats)
	}
	if seats > MaxCount {
		return invalid("seat count must not exceed %d, got %d", MaxCount, seats)
	}
	if includeAfterParty && afterParty < 0 {
		return invalid("after-party quantity must not be negative")
	}
	if includeAfterParty && afterParty > MaxCount {
		return invalid("after-party quantity must not exceed %d, got %d", MaxCount, afterParty)
	}
	return nil
}

// ValidateStock checks a number of tickets to add to a tier or the
// after-party
func ValidateStock(n int) error {
	if n <= 0 {
		return invalid("additional tickets must be positive, got %d", n)
	}
	if n > MaxCount {
		return invalid("additional tickets must not exceed %d, got %d", MaxCount, n)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return tixerror.New(fmt.Sprintf(format, args...)).WithCode(tixerror.CodeInvalidInput)
}
