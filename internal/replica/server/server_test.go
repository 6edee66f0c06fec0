package server

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/msto63/mTix/api/common"
	"github.com/msto63/mTix/api/concert"
	"github.com/msto63/mTix/api/reservation"
	"github.com/msto63/mTix/api/ticket"
	"github.com/msto63/mTix/internal/model"
	"github.com/msto63/mTix/internal/replica/events"
	"github.com/msto63/mTix/internal/replica/store"
	"github.com/msto63/mTix/pkg/core/discovery"
	coregrpc "github.com/msto63/mTix/pkg/core/grpc"
	"github.com/msto63/mTix/pkg/core/health"
	"github.com/msto63/mTix/pkg/core/logging"
)

type fixture struct {
	server   *Server
	events   *events.Memory
	concerts concert.ConcertServiceClient
	tickets  ticket.TicketInventoryServiceClient
	bookings reservation.ReservationServiceClient
}

func start(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	return startWith(t, Config{Host: "127.0.0.1", Port: 0}, store.NewMemoryStore(), opts...)
}

func startWith(t *testing.T, cfg Config, st store.Store, opts ...Option) *fixture {
	t.Helper()
	pub := &events.Memory{}
	opts = append([]Option{WithPublisher(pub)}, opts...)
	s := New(cfg, st, logging.Discard(), opts...)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		s.Stop(ctx)
	})

	conn, err := coregrpc.Dial(coregrpc.DefaultClientConfig(s.Address()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &fixture{
		server:   s,
		events:   pub,
		concerts: concert.NewConcertServiceClient(conn),
		tickets:  ticket.NewTicketInventoryServiceClient(conn),
		bookings: reservation.NewReservationServiceClient(conn),
	}
}

func sampleConcert(id string) concert.Concert {
	return model.Concert{
		ID:    id,
		Name:  "Night Shift",
		Date:  "2026-11-20",
		Venue: "Arena",
		SeatTiers: []model.SeatTier{
			{Name: "Premium", Capacity: 10, Price: 120},
			{Name: "Standard", Capacity: 50, Price: 60},
		},
		AfterParty: model.AfterParty{Available: true, TotalTickets: 5, Price: 30},
	}.ToWire()
}

func (f *fixture) addConcert(t *testing.T, id string) {
	t.Helper()
	resp, err := f.concerts.AddConcert(context.Background(), &concert.AddConcertRequest{Concert: sampleConcert(id)})
	require.NoError(t, err)
	require.True(t, resp.Result.Success, resp.Result.Message)
}

func TestConcerts(t *testing.T) {
	f := start(t)
	ctx := context.Background()
	f.addConcert(t, "c-1")

	dup, err := f.concerts.AddConcert(ctx, &concert.AddConcertRequest{Concert: sampleConcert("c-1")})
	require.NoError(t, err)
	assert.False(t, dup.Result.Success)
	assert.Equal(t, common.CodeAlreadyExists, dup.Result.Code)

	got, err := f.concerts.GetConcert(ctx, &concert.GetConcertRequest{ConcertID: "c-1"})
	require.NoError(t, err)
	require.True(t, got.Result.Success)
	require.NotNil(t, got.Concert)
	assert.Equal(t, "Night Shift", got.Concert.Name)
	assert.Equal(t, concert.StatusActive, got.Concert.Status)

	missing, err := f.concerts.GetConcert(ctx, &concert.GetConcertRequest{ConcertID: "nope"})
	require.NoError(t, err)
	assert.False(t, missing.Result.Success)
	assert.Equal(t, common.CodeNotFound, missing.Result.Code)
	assert.Nil(t, missing.Concert)

	cancelled, err := f.concerts.CancelConcert(ctx, &concert.CancelConcertRequest{ConcertID: "c-1"})
	require.NoError(t, err)
	assert.True(t, cancelled.Result.Success)

	active, err := f.concerts.ListConcerts(ctx, &concert.ListConcertsRequest{})
	require.NoError(t, err)
	assert.Empty(t, active.Concerts)

	all, err := f.concerts.ListConcerts(ctx, &concert.ListConcertsRequest{IncludeCancelled: true})
	require.NoError(t, err)
	require.Len(t, all.Concerts, 1)
	assert.Equal(t, concert.StatusCancelled, all.Concerts[0].Status)
}

func TestEmptyIDsAreInvalid(t *testing.T) {
	f := start(t)
	ctx := context.Background()

	c, err := f.concerts.CancelConcert(ctx, &concert.CancelConcertRequest{})
	require.NoError(t, err)
	assert.Equal(t, common.CodeInvalidInput, c.Result.Code)

	inv, err := f.tickets.GetTicketInventory(ctx, &ticket.GetTicketInventoryRequest{})
	require.NoError(t, err)
	assert.Equal(t, common.CodeInvalidInput, inv.Result.Code)

	r, err := f.bookings.GetReservation(ctx, &reservation.GetReservationRequest{})
	require.NoError(t, err)
	assert.Equal(t, common.CodeInvalidInput, r.Result.Code)
}

func TestInventoryAndAvailability(t *testing.T) {
	f := start(t)
	ctx := context.Background()
	f.addConcert(t, "c-1")

	up, err := f.tickets.UpdateTicketInventory(ctx, &ticket.UpdateTicketInventoryRequest{
		ConcertID: "c-1", SeatTierName: "Premium", AdditionalTickets: 5,
	})
	require.NoError(t, err)
	assert.True(t, up.Result.Success)

	bad, err := f.tickets.UpdateAfterPartyInventory(ctx, &ticket.UpdateAfterPartyInventoryRequest{ConcertID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, common.CodeInvalidInput, bad.Result.Code)

	inv, err := f.tickets.GetTicketInventory(ctx, &ticket.GetTicketInventoryRequest{ConcertID: "c-1"})
	require.NoError(t, err)
	require.NotNil(t, inv.Inventory)
	premium := model.InventoryFromWire(*inv.Inventory)
	tier, ok := premium.Tier("Premium")
	require.True(t, ok)
	assert.Equal(t, 15, tier.Available)
	assert.Equal(t, 5, premium.AfterPartyRemaining)

	yes, err := f.tickets.CheckAvailability(ctx, &ticket.CheckAvailabilityRequest{
		ConcertID: "c-1", SeatTierName: "Premium", SeatCount: 4, IncludeAfterParty: true,
	})
	require.NoError(t, err)
	assert.True(t, yes.Result.Success)
	assert.True(t, yes.Available)

	no, err := f.tickets.CheckAvailability(ctx, &ticket.CheckAvailabilityRequest{
		ConcertID: "c-1", SeatTierName: "Premium", SeatCount: 6, IncludeAfterParty: true,
	})
	require.NoError(t, err)
	assert.True(t, no.Result.Success)
	assert.False(t, no.Available)
	assert.Contains(t, no.Reason, "after-party")

	unknown, err := f.tickets.CheckAvailability(ctx, &ticket.CheckAvailabilityRequest{
		ConcertID: "nope", SeatTierName: "Premium", SeatCount: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, common.CodeNotFound, unknown.Result.Code)
}

func TestReservationLifecycle(t *testing.T) {
	f := start(t)
	ctx := context.Background()
	f.addConcert(t, "c-1")

	req := &reservation.ReservationRequest{
		ReservationID: "r-1", ConcertID: "c-1", CustomerName: "ada",
		SeatTierName: "Premium", SeatCount: 2, IncludeAfterParty: true,
	}
	made, err := f.bookings.MakeReservation(ctx, req)
	require.NoError(t, err)
	require.True(t, made.Result.Success, made.Result.Message)
	require.NotNil(t, made.Reservation)
	assert.Equal(t, int32(2), made.Reservation.AfterPartyQuantity)
	assert.InDelta(t, 2*120.0+2*30.0, made.Reservation.TotalPrice, 0.001)

	// a replay answers with the stored booking and emits nothing new
	again, err := f.bookings.MakeReservation(ctx, req)
	require.NoError(t, err)
	require.True(t, again.Result.Success)
	assert.Equal(t, made.Reservation.CreatedAtUnixMilli, again.Reservation.CreatedAtUnixMilli)

	conflict := *req
	conflict.SeatCount = 3
	c, err := f.bookings.MakeReservation(ctx, &conflict)
	require.NoError(t, err)
	assert.Equal(t, common.CodeAlreadyExists, c.Result.Code)

	for range 2 {
		cancelled, err := f.bookings.CancelReservation(ctx, &reservation.CancelReservationRequest{ReservationID: "r-1"})
		require.NoError(t, err)
		assert.True(t, cancelled.Result.Success)
	}

	got, err := f.bookings.GetReservation(ctx, &reservation.GetReservationRequest{ReservationID: "r-1"})
	require.NoError(t, err)
	require.NotNil(t, got.Reservation)
	assert.Equal(t, reservation.StatusCancelled, got.Reservation.Status)

	// individual and bulk ids do not cross
	bulk, err := f.bookings.GetBulkReservation(ctx, &reservation.GetBulkReservationRequest{ReservationID: "r-1"})
	require.NoError(t, err)
	assert.Equal(t, common.CodeNotFound, bulk.Result.Code)

	evs := f.events.Events()
	require.Len(t, evs, 2)
	assert.Equal(t, events.ReservationConfirmed, evs[0].Type)
	assert.Equal(t, events.ReservationCancelled, evs[1].Type)
	assert.Equal(t, "r-1", evs[1].ReservationID)
}

func TestConcurrentCancelsPublishOnce(t *testing.T) {
	f := start(t)
	ctx := context.Background()
	f.addConcert(t, "c-1")

	made, err := f.bookings.MakeReservation(ctx, &reservation.ReservationRequest{
		ReservationID: "r-1", ConcertID: "c-1", CustomerName: "ada", SeatTierName: "Premium", SeatCount: 1,
	})
	require.NoError(t, err)
	require.True(t, made.Result.Success, made.Result.Message)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.bookings.CancelReservation(ctx, &reservation.CancelReservationRequest{ReservationID: "r-1"})
			if assert.NoError(t, err) {
				assert.True(t, resp.Result.Success)
			}
		}()
	}
	wg.Wait()

	cancels := 0
	for _, e := range f.events.Events() {
		if e.Type == events.ReservationCancelled {
			cancels++
		}
	}
	assert.Equal(t, 1, cancels)
}

func TestBulkReservations(t *testing.T) {
	f := start(t)
	ctx := context.Background()
	f.addConcert(t, "c-1")

	made, err := f.bookings.MakeBulkReservation(ctx, &reservation.BulkReservationRequest{
		ReservationID: "b-1", ConcertID: "c-1", GroupName: "choir",
		SeatTierName: "Standard", SeatCount: 5, IncludeAfterParty: true,
	})
	require.NoError(t, err)
	require.True(t, made.Result.Success, made.Result.Message)

	combo, err := f.bookings.MakeReservation(ctx, &reservation.ReservationRequest{
		ReservationID: "r-1", ConcertID: "c-1", CustomerName: "ada",
		SeatTierName: "Premium", SeatCount: 1, IncludeAfterParty: true,
	})
	require.NoError(t, err)
	assert.Equal(t, common.CodeInsufficientInventory, combo.Result.Code)

	list, err := f.bookings.ListBulkReservations(ctx, &reservation.ListBulkReservationsRequest{ConcertID: "c-1"})
	require.NoError(t, err)
	require.Len(t, list.Reservations, 1)
	assert.Equal(t, "choir", list.Reservations[0].GroupName)

	mine, err := f.bookings.GetCustomerReservations(ctx, &reservation.GetCustomerReservationsRequest{CustomerName: "choir"})
	require.NoError(t, err)
	assert.Empty(t, mine.Reservations)

	cancelled, err := f.bookings.CancelBulkReservation(ctx, &reservation.CancelBulkReservationRequest{ReservationID: "b-1"})
	require.NoError(t, err)
	assert.True(t, cancelled.Result.Success)

	inv, err := f.tickets.GetTicketInventory(ctx, &ticket.GetTicketInventoryRequest{ConcertID: "c-1"})
	require.NoError(t, err)
	assert.Equal(t, int32(5), inv.Inventory.AfterPartyRemaining)
}

func TestConcertReservationsStreamsInBatches(t *testing.T) {
	f := start(t)
	ctx := context.Background()
	f.addConcert(t, "c-1")

	for i, name := range []string{"a", "b", "c", "d", "e"} {
		resp, err := f.bookings.MakeReservation(ctx, &reservation.ReservationRequest{
			ReservationID: "r-" + name, ConcertID: "c-1", CustomerName: name,
			SeatTierName: "Standard", SeatCount: int32(i + 1),
		})
		require.NoError(t, err)
		require.True(t, resp.Result.Success)
	}

	stream, err := f.bookings.GetConcertReservations(ctx, &reservation.ConcertReservationsRequest{ConcertID: "c-1", BatchSize: 2})
	require.NoError(t, err)

	var sizes []int
	var ids []string
	for {
		msg, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sizes = append(sizes, len(msg.Reservations))
		for _, r := range msg.Reservations {
			ids = append(ids, r.ID)
		}
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, []string{"r-a", "r-b", "r-c", "r-d", "r-e"}, ids)

	empty, err := f.bookings.GetConcertReservations(ctx, &reservation.ConcertReservationsRequest{ConcertID: "nope"})
	require.NoError(t, err)
	_, err = empty.Recv()
	assert.Equal(t, io.EOF, err)
}

func TestRegistration(t *testing.T) {
	reg := discovery.NewMemoryRegistry()
	f := start(t, WithRegistrar(reg.Registrar("concert-servers")))

	got, err := reg.Get(context.Background(), "concert-servers")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, f.server.AdvertiseAddress(), got[0])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	f.server.Stop(ctx)

	got, err = reg.Get(context.Background(), "concert-servers")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestAdvertiseAddress(t *testing.T) {
	s := New(Config{Host: "0.0.0.0", Port: 0, Advertise: "replica-1:50051"}, store.NewMemoryStore(), nil)
	assert.Equal(t, "replica-1:50051", s.AdvertiseAddress())
}

func TestHealth(t *testing.T) {
	f := start(t)
	report := f.server.Health(context.Background())
	assert.Equal(t, health.StatusHealthy, report.Status)

	pool := coregrpc.NewConnectionPool(coregrpc.DefaultClientConfig(""))
	defer pool.Close()
	res := health.GRPCChecker("replica", f.server.Address(), pool, 2*time.Second).Check(context.Background())
	assert.Equal(t, health.StatusHealthy, res.Status, res.Message)
}

// flakyStore fails Ping while down is set
type flakyStore struct {
	store.Store
	down atomic.Bool
}

func (s *flakyStore) Ping(ctx context.Context) error {
	if s.down.Load() {
		return errors.New("database is locked")
	}
	return s.Store.Ping(ctx)
}

func TestServingFollowsStoreHealth(t *testing.T) {
	st := &flakyStore{Store: store.NewMemoryStore()}
	st.down.Store(true)
	f := startWith(t, Config{Host: "127.0.0.1", Port: 0, HealthInterval: 20 * time.Millisecond}, st)

	pool := coregrpc.NewConnectionPool(coregrpc.DefaultClientConfig(""))
	defer pool.Close()
	servingStatus := func() health.Status {
		return health.GRPCChecker("replica", f.server.Address(), pool, time.Second).Check(context.Background()).Status
	}

	assert.Equal(t, health.StatusDegraded, servingStatus(), "a replica without its store starts not serving")
	report := f.server.Health(context.Background())
	assert.Equal(t, health.StatusUnhealthy, report.Status)
	assert.Equal(t, []string{"store"}, report.Failing())

	st.down.Store(false)
	assert.Eventually(t, func() bool { return servingStatus() == health.StatusHealthy }, 2*time.Second, 20*time.Millisecond)

	st.down.Store(true)
	assert.Eventually(t, func() bool { return servingStatus() == health.StatusDegraded }, 2*time.Second, 20*time.Millisecond)
}

func TestKillDropsConnections(t *testing.T) {
	f := start(t)
	f.addConcert(t, "c-1")
	f.server.Kill()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := f.concerts.GetConcert(ctx, &concert.GetConcertRequest{ConcertID: "c-1"}, grpc.WaitForReady(false))
	assert.Error(t, err)
}
