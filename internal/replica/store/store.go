// Package store is the inventory authority of the dev replica. Every
// booking is decided inside one critical section (a mutex or a SQLite
// write transaction), so replicas sharing a store never overcommit a tier.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msto63/mTix/api/common"
	"github.com/msto63/mTix/internal/model"
	tixerror "github.com/msto63/mTix/pkg/core/error"
)

// Kind separates individual reservations from group bookings. They share
// one id space.
type Kind string

const (
	KindIndividual Kind = "individual"
	KindBulk       Kind = "bulk"
)

// Booking is a reservation of either kind as the store keeps it
type Booking struct {
	Kind               Kind
	ID                 string
	ConcertID          string
	Holder             string // customer or group name
	SeatTier           string
	SeatCount          int
	IncludeAfterParty  bool
	AfterPartyQuantity int
	PaymentMethod      string
	TotalPrice         float64
	Status             model.ReservationStatus
	CreatedAt          time.Time
}

// Filter selects bookings for listing; empty fields match everything
type Filter struct {
	Kind      Kind
	ConcertID string
	Holder    string
}

func (f Filter) match(b Booking) bool {
	return (f.Kind == "" || f.Kind == b.Kind) &&
		(f.ConcertID == "" || f.ConcertID == b.ConcertID) &&
		(f.Holder == "" || f.Holder == b.Holder)
}

// sameRequest reports whether b and other ask for the same thing, which
// makes a repeated id a replay rather than a conflict
func (b Booking) sameRequest(other Booking) bool {
	return b.Kind == other.Kind &&
		b.ConcertID == other.ConcertID &&
		b.Holder == other.Holder &&
		b.SeatTier == other.SeatTier &&
		b.SeatCount == other.SeatCount &&
		b.IncludeAfterParty == other.IncludeAfterParty &&
		b.AfterPartyQuantity == other.AfterPartyQuantity
}

// sameConcert reports whether a stored concert is the one c would create
func sameConcert(stored, c model.Concert) bool {
	if stored.Name != c.Name || stored.Date != c.Date || stored.Venue != c.Venue ||
		stored.AfterParty != c.AfterParty || len(stored.SeatTiers) != len(c.SeatTiers) {
		return false
	}
	for i := range c.SeatTiers {
		if stored.SeatTiers[i] != c.SeatTiers[i] {
			return false
		}
	}
	return true
}

// stockKey identifies a stock change; after-party changes use an empty tier
func stockKey(concertID, tier string, n int) string {
	return fmt.Sprintf("%s\x00%s\x00%d", concertID, tier, n)
}

// BookingFromReservation converts an individual request
func BookingFromReservation(id string, r model.ReservationRequest) Booking {
	r = r.Normalize()
	return Booking{
		Kind:               KindIndividual,
		ID:                 id,
		ConcertID:          r.ConcertID,
		Holder:             r.CustomerName,
		SeatTier:           r.SeatTier,
		SeatCount:          r.SeatCount,
		IncludeAfterParty:  r.IncludeAfterParty,
		AfterPartyQuantity: r.AfterPartyQuantity,
		PaymentMethod:      r.PaymentMethod,
	}
}

// BookingFromBulk converts a group request
func BookingFromBulk(id string, r model.BulkReservationRequest) Booking {
	r = r.Normalize()
	return Booking{
		Kind:               KindBulk,
		ID:                 id,
		ConcertID:          r.ConcertID,
		Holder:             r.GroupName,
		SeatTier:           r.SeatTier,
		SeatCount:          r.SeatCount,
		IncludeAfterParty:  r.IncludeAfterParty,
		AfterPartyQuantity: r.AfterPartyQuantity,
		PaymentMethod:      r.PaymentMethod,
	}
}

// Reservation returns b as an individual reservation
func (b Booking) Reservation() model.Reservation {
	return model.Reservation{
		ID:                 b.ID,
		ConcertID:          b.ConcertID,
		CustomerName:       b.Holder,
		SeatTier:           b.SeatTier,
		SeatCount:          b.SeatCount,
		IncludeAfterParty:  b.IncludeAfterParty,
		AfterPartyQuantity: b.AfterPartyQuantity,
		PaymentMethod:      b.PaymentMethod,
		TotalPrice:         b.TotalPrice,
		Status:             b.Status,
		CreatedAt:          b.CreatedAt,
	}
}

// Bulk returns b as a group booking
func (b Booking) Bulk() model.BulkReservation {
	return model.BulkReservation{
		ID:                 b.ID,
		ConcertID:          b.ConcertID,
		GroupName:          b.Holder,
		SeatTier:           b.SeatTier,
		SeatCount:          b.SeatCount,
		IncludeAfterParty:  b.IncludeAfterParty,
		AfterPartyQuantity: b.AfterPartyQuantity,
		PaymentMethod:      b.PaymentMethod,
		TotalPrice:         b.TotalPrice,
		Status:             b.Status,
		CreatedAt:          b.CreatedAt,
	}
}

// Store is the system of record for concerts, stock and bookings
type Store interface {
	// AddConcert accepts a repeated id carrying an identical concert as a
	// replay
	AddConcert(ctx context.Context, c model.Concert) error
	// UpdateConcert replaces the descriptive fields and tier layout of a
	// concert. Remaining stock moves by the change in capacity.
	UpdateConcert(ctx context.Context, c model.Concert) error
	// CancelConcert is idempotent
	CancelConcert(ctx context.Context, id string) error
	GetConcert(ctx context.Context, id string) (model.Concert, error)
	ListConcerts(ctx context.Context, includeCancelled bool) ([]model.Concert, error)

	Inventory(ctx context.Context, concertID string) (model.TicketInventory, error)
	// AddTierStock and AddAfterPartyStock apply a request id at most once.
	// Repeating it with the same change is a no-op, with a different change
	// it is rejected. An empty id is never deduplicated.
	AddTierStock(ctx context.Context, requestID, concertID, tier string, n int) error
	AddAfterPartyStock(ctx context.Context, requestID, concertID string, n int) error

	// Reserve books seats and after-party tickets together or not at all.
	// A repeated id with identical parameters returns the stored booking
	// with replayed set.
	Reserve(ctx context.Context, b Booking) (stored Booking, replayed bool, err error)
	// Cancel is idempotent and restores stock only on the first call;
	// cancelled reports whether this call performed the transition
	Cancel(ctx context.Context, kind Kind, id string) (b Booking, cancelled bool, err error)
	Get(ctx context.Context, kind Kind, id string) (Booking, error)
	List(ctx context.Context, f Filter) ([]Booking, error)

	Ping(ctx context.Context) error
	Close() error
}

// quote decides availability and price for b against a concert snapshot.
// It is shared by both stores so they reject the same requests.
func quote(c model.Concert, tierAvailable, afterPartyRemaining int, b Booking) (float64, error) {
	if c.Cancelled() {
		return 0, reject(common.CodeConcertCancelled, "concert %s is cancelled", c.ID)
	}
	tier, ok := c.Tier(b.SeatTier)
	if !ok {
		return 0, reject(common.CodeNotFound, "concert %s has no seat tier %q", c.ID, b.SeatTier)
	}
	if b.SeatCount > tierAvailable {
		return 0, reject(common.CodeInsufficientInventory,
			"only %d %s seats left, %d requested", tierAvailable, tier.Name, b.SeatCount)
	}

	total := float64(b.SeatCount) * tier.Price
	if b.IncludeAfterParty && b.AfterPartyQuantity > 0 {
		if !c.AfterParty.Available {
			return 0, reject(common.CodeAfterPartyUnavailable, "concert %s has no after-party", c.ID)
		}
		if b.AfterPartyQuantity > afterPartyRemaining {
			return 0, reject(common.CodeInsufficientInventory,
				"only %d after-party tickets left, %d requested", afterPartyRemaining, b.AfterPartyQuantity)
		}
		total += float64(b.AfterPartyQuantity) * c.AfterParty.Price
	}
	return total, nil
}

// CheckAvailability answers whether b could be booked now without
// booking it. Rejections become a reason, lookups that fail are errors.
func CheckAvailability(ctx context.Context, s Store, b Booking) (bool, string, error) {
	c, err := s.GetConcert(ctx, b.ConcertID)
	if err != nil {
		return false, "", err
	}
	inv, err := s.Inventory(ctx, b.ConcertID)
	if err != nil {
		return false, "", err
	}
	tier, _ := inv.Tier(b.SeatTier)
	if _, err := quote(c, tier.Available, inv.AfterPartyRemaining, b); err != nil {
		var te *tixerror.Error
		if errors.As(err, &te) && te.Code().IsApplication() {
			return false, te.Message(), nil
		}
		return false, "", err
	}
	return true, "", nil
}

// WireCode returns the rejection code to put on the wire for err
func WireCode(err error) string {
	var te *tixerror.Error
	if !errors.As(err, &te) {
		return ""
	}
	if wire, ok := te.Details()["wire_code"].(string); ok {
		return wire
	}
	return string(te.Code())
}

func reject(wire, format string, args ...interface{}) error {
	return tixerror.Rejected(tixerror.FromWire(wire), fmt.Sprintf(format, args...)).WithDetail("wire_code", wire)
}

func notFound(what, id string) error {
	return reject(common.CodeNotFound, "%s %s not found", what, id)
}

func validateBooking(b Booking) error {
	if b.ID == "" {
		return reject(common.CodeInvalidInput, "reservation id is required")
	}
	if b.Holder == "" {
		return reject(common.CodeInvalidInput, "customer or group name is required")
	}
	if b.SeatCount < 1 {
		return reject(common.CodeInvalidInput, "seat count must be positive, got %d", b.SeatCount)
	}
	if b.AfterPartyQuantity < 0 {
		return reject(common.CodeInvalidInput, "after-party quantity must not be negative")
	}
	if b.SeatCount > model.MaxCount || b.AfterPartyQuantity > model.MaxCount {
		return reject(common.CodeInvalidInput, "ticket counts must not exceed %d", model.MaxCount)
	}
	return nil
}

func validateStock(n int) error {
	if n <= 0 {
		return reject(common.CodeInvalidInput, "additional tickets must be positive, got %d", n)
	}
	if n > model.MaxCount {
		return reject(common.CodeInvalidInput, "additional tickets must not exceed %d", model.MaxCount)
	}
	return nil
}

// validateGrowth rejects stock that would no longer fit the wire contract
func validateGrowth(capacity, n int) error {
	if capacity > model.MaxCount-n {
		return reject(common.CodeInvalidInput, "capacity %d plus %d exceeds %d", capacity, n, model.MaxCount)
	}
	return nil
}

func stockConflict(requestID string) error {
	return reject(common.CodeAlreadyExists, "stock request %s was already applied with different values", requestID)
}

// adjust moves remaining stock by the change in capacity, never below zero
func adjust(remaining, oldCap, newCap int) int {
	remaining += newCap - oldCap
	if remaining < 0 {
		return 0
	}
	return remaining
}
