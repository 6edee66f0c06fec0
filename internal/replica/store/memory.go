package store

import (
	"context"
	"sync"
	"time"

	"github.com/msto63/mTix/api/common"
	"github.com/msto63/mTix/internal/model"
)

type concertState struct {
	concert             model.Concert
	available           map[string]int
	afterPartyRemaining int
}

func (s *concertState) inventory() model.TicketInventory {
	inv := model.TicketInventory{
		ConcertID:           s.concert.ID,
		AfterPartyAvailable: s.concert.AfterParty.Available,
		AfterPartyTotal:     s.concert.AfterParty.TotalTickets,
		AfterPartyRemaining: s.afterPartyRemaining,
		AfterPartyPrice:     s.concert.AfterParty.Price,
	}
	for _, t := range s.concert.SeatTiers {
		inv.Tiers = append(inv.Tiers, model.TierInventory{
			Name:      t.Name,
			Capacity:  t.Capacity,
			Available: s.available[t.Name],
			Price:     t.Price,
		})
	}
	return inv
}

// MemoryStore keeps everything in process memory behind one mutex
type MemoryStore struct {
	mu       sync.Mutex
	concerts map[string]*concertState
	order    []string
	bookings map[string]*Booking
	booked   []string
	// applied stock request ids and their stockKey
	stock map[string]string
	now   func() time.Time
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		concerts: make(map[string]*concertState),
		bookings: make(map[string]*Booking),
		stock:    make(map[string]string),
		now:      time.Now,
	}
}

// applied reports whether requestID was already used, and rejects it when
// it was used for a different change
func (m *MemoryStore) applied(requestID, key string) (bool, error) {
	if requestID == "" {
		return false, nil
	}
	prev, ok := m.stock[requestID]
	if !ok {
		return false, nil
	}
	if prev != key {
		return true, stockConflict(requestID)
	}
	return true, nil
}

func (m *MemoryStore) markApplied(requestID, key string) {
	if requestID != "" {
		m.stock[requestID] = key
	}
}

func (m *MemoryStore) AddConcert(ctx context.Context, c model.Concert) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return reject(common.CodeInvalidInput, "concert id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.concerts[c.ID]; ok {
		if sameConcert(st.concert, c) {
			return nil
		}
		return reject(common.CodeAlreadyExists, "concert %s already exists", c.ID)
	}

	c = c.Clone()
	c.Status = model.ConcertActive
	st := &concertState{concert: c, available: make(map[string]int, len(c.SeatTiers))}
	for _, t := range c.SeatTiers {
		st.available[t.Name] = t.Capacity
	}
	if c.AfterParty.Available {
		st.afterPartyRemaining = c.AfterParty.TotalTickets
	}
	m.concerts[c.ID] = st
	m.order = append(m.order, c.ID)
	return nil
}

func (m *MemoryStore) UpdateConcert(ctx context.Context, c model.Concert) error {
	if err := c.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.concerts[c.ID]
	if !ok {
		return notFound("concert", c.ID)
	}

	c = c.Clone()
	c.Status = st.concert.Status
	available := make(map[string]int, len(c.SeatTiers))
	for _, t := range c.SeatTiers {
		if old, ok := st.concert.Tier(t.Name); ok {
			available[t.Name] = adjust(st.available[t.Name], old.Capacity, t.Capacity)
		} else {
			available[t.Name] = t.Capacity
		}
	}

	oldTotal := 0
	if st.concert.AfterParty.Available {
		oldTotal = st.concert.AfterParty.TotalTickets
	}
	newTotal := 0
	if c.AfterParty.Available {
		newTotal = c.AfterParty.TotalTickets
	}

	st.afterPartyRemaining = adjust(st.afterPartyRemaining, oldTotal, newTotal)
	st.available = available
	st.concert = c
	return nil
}

func (m *MemoryStore) CancelConcert(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.concerts[id]
	if !ok {
		return notFound("concert", id)
	}
	st.concert.Status = model.ConcertCancelled
	return nil
}

func (m *MemoryStore) GetConcert(ctx context.Context, id string) (model.Concert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.concerts[id]
	if !ok {
		return model.Concert{}, notFound("concert", id)
	}
	return st.concert.Clone(), nil
}

func (m *MemoryStore) ListConcerts(ctx context.Context, includeCancelled bool) ([]model.Concert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Concert, 0, len(m.order))
	for _, id := range m.order {
		c := m.concerts[id].concert
		if c.Cancelled() && !includeCancelled {
			continue
		}
		out = append(out, c.Clone())
	}
	return out, nil
}

func (m *MemoryStore) Inventory(ctx context.Context, concertID string) (model.TicketInventory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.concerts[concertID]
	if !ok {
		return model.TicketInventory{}, notFound("concert", concertID)
	}
	return st.inventory(), nil
}

func (m *MemoryStore) AddTierStock(ctx context.Context, requestID, concertID, tier string, n int) error {
	if err := validateStock(n); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := stockKey(concertID, tier, n)
	if done, err := m.applied(requestID, key); done {
		return err
	}
	st, ok := m.concerts[concertID]
	if !ok {
		return notFound("concert", concertID)
	}
	for i := range st.concert.SeatTiers {
		t := &st.concert.SeatTiers[i]
		if t.Name != tier {
			continue
		}
		if err := validateGrowth(t.Capacity, n); err != nil {
			return err
		}
		t.Capacity += n
		st.available[tier] += n
		m.markApplied(requestID, key)
		return nil
	}
	return reject(common.CodeNotFound, "concert %s has no seat tier %q", concertID, tier)
}

func (m *MemoryStore) AddAfterPartyStock(ctx context.Context, requestID, concertID string, n int) error {
	if err := validateStock(n); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	key := stockKey(concertID, "", n)
	if done, err := m.applied(requestID, key); done {
		return err
	}
	st, ok := m.concerts[concertID]
	if !ok {
		return notFound("concert", concertID)
	}
	if !st.concert.AfterParty.Available {
		st.concert.AfterParty.Available = true
		st.concert.AfterParty.TotalTickets = 0
		st.afterPartyRemaining = 0
	}
	if err := validateGrowth(st.concert.AfterParty.TotalTickets, n); err != nil {
		return err
	}
	st.concert.AfterParty.TotalTickets += n
	st.afterPartyRemaining += n
	m.markApplied(requestID, key)
	return nil
}

func (m *MemoryStore) Reserve(ctx context.Context, b Booking) (Booking, bool, error) {
	if err := validateBooking(b); err != nil {
		return Booking{}, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.bookings[b.ID]; ok {
		if prev.sameRequest(b) {
			return *prev, true, nil
		}
		return Booking{}, false, reject(common.CodeAlreadyExists, "reservation %s already exists", b.ID)
	}

	st, ok := m.concerts[b.ConcertID]
	if !ok {
		return Booking{}, false, notFound("concert", b.ConcertID)
	}
	total, err := quote(st.concert, st.available[b.SeatTier], st.afterPartyRemaining, b)
	if err != nil {
		return Booking{}, false, err
	}

	st.available[b.SeatTier] -= b.SeatCount
	if b.IncludeAfterParty {
		st.afterPartyRemaining -= b.AfterPartyQuantity
	}

	b.TotalPrice = total
	b.Status = model.ReservationConfirmed
	b.CreatedAt = m.now().UTC().Truncate(time.Millisecond)
	stored := b
	m.bookings[b.ID] = &stored
	m.booked = append(m.booked, b.ID)
	return b, false, nil
}

func (m *MemoryStore) Cancel(ctx context.Context, kind Kind, id string) (Booking, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, ok := m.bookings[id]
	if !ok || b.Kind != kind {
		return Booking{}, false, notFound("reservation", id)
	}
	if b.Status == model.ReservationCancelled {
		return *b, false, nil
	}

	if st, ok := m.concerts[b.ConcertID]; ok {
		if _, ok := st.available[b.SeatTier]; ok {
			st.available[b.SeatTier] += b.SeatCount
		}
		if b.IncludeAfterParty {
			st.afterPartyRemaining += b.AfterPartyQuantity
		}
	}
	b.Status = model.ReservationCancelled
	return *b, true, nil
}

func (m *MemoryStore) Get(ctx context.Context, kind Kind, id string) (Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok || b.Kind != kind {
		return Booking{}, notFound("reservation", id)
	}
	return *b, nil
}

func (m *MemoryStore) List(ctx context.Context, f Filter) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Booking
	for _, id := range m.booked {
		if b := m.bookings[id]; f.match(*b) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
