package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/msto63/mTix/api/common"
	"github.com/msto63/mTix/internal/model"
	tixerror "github.com/msto63/mTix/pkg/core/error"
)

// SQLiteStore keeps state in a SQLite file. Write transactions start with
// BEGIN IMMEDIATE, so bookings from several replicas on the same file are
// serialized by SQLite itself.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// SQLiteConfig holds configuration for the SQLite store
type SQLiteConfig struct {
	// Path of the database file; ":memory:" keeps it in process
	Path string
}

// DefaultSQLiteConfig returns default configuration
func DefaultSQLiteConfig() SQLiteConfig {
	return SQLiteConfig{Path: "./data/mtix.db"}
}

// NewSQLiteStore opens (and if needed creates) the database
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	var dsn string
	if cfg.Path == ":memory:" {
		dsn = "file::memory:?_txlock=immediate"
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		dsn = "file:" + cfg.Path + "?_txlock=immediate&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.Path == ":memory:" {
		// every connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS concerts (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		date TEXT NOT NULL,
		venue TEXT NOT NULL,
		status TEXT NOT NULL,
		ap_available INTEGER NOT NULL,
		ap_total INTEGER NOT NULL,
		ap_remaining INTEGER NOT NULL,
		ap_price REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS seat_tiers (
		concert_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		capacity INTEGER NOT NULL,
		available INTEGER NOT NULL CHECK (available >= 0),
		price REAL NOT NULL,
		PRIMARY KEY (concert_id, name)
	);

	CREATE TABLE IF NOT EXISTS bookings (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		kind TEXT NOT NULL,
		concert_id TEXT NOT NULL,
		holder TEXT NOT NULL,
		seat_tier TEXT NOT NULL,
		seat_count INTEGER NOT NULL,
		include_ap INTEGER NOT NULL,
		ap_quantity INTEGER NOT NULL,
		payment_method TEXT NOT NULL,
		total_price REAL NOT NULL,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS stock_requests (
		id TEXT PRIMARY KEY,
		change TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bookings_concert ON bookings(concert_id);
	CREATE INDEX IF NOT EXISTS idx_bookings_holder ON bookings(holder);
	`
	_, err := s.db.Exec(schema)
	return err
}

// tx runs fn inside one write transaction
func (s *SQLiteStore) tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

type concertRow struct {
	concert             model.Concert
	afterPartyRemaining int
	available           map[string]int
}

func loadConcert(ctx context.Context, q queryer, id string) (concertRow, error) {
	var (
		row     concertRow
		status  string
		apAvail int
	)
	err := q.QueryRowContext(ctx, `
		SELECT id, name, date, venue, status, ap_available, ap_total, ap_remaining, ap_price
		FROM concerts WHERE id = ?`, id).Scan(
		&row.concert.ID, &row.concert.Name, &row.concert.Date, &row.concert.Venue, &status,
		&apAvail, &row.concert.AfterParty.TotalTickets, &row.afterPartyRemaining, &row.concert.AfterParty.Price,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return concertRow{}, notFound("concert", id)
	}
	if err != nil {
		return concertRow{}, fmt.Errorf("failed to load concert: %w", err)
	}
	row.concert.Status = model.ConcertStatus(status)
	row.concert.AfterParty.Available = apAvail != 0

	rows, err := q.QueryContext(ctx, `
		SELECT name, capacity, available, price FROM seat_tiers
		WHERE concert_id = ? ORDER BY position`, id)
	if err != nil {
		return concertRow{}, fmt.Errorf("failed to load seat tiers: %w", err)
	}
	defer rows.Close()

	row.available = make(map[string]int)
	for rows.Next() {
		var t model.SeatTier
		var avail int
		if err := rows.Scan(&t.Name, &t.Capacity, &avail, &t.Price); err != nil {
			return concertRow{}, fmt.Errorf("failed to scan seat tier: %w", err)
		}
		row.concert.SeatTiers = append(row.concert.SeatTiers, t)
		row.available[t.Name] = avail
	}
	return row, rows.Err()
}

func insertTiers(ctx context.Context, tx *sql.Tx, c model.Concert, available map[string]int) error {
	for i, t := range c.SeatTiers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO seat_tiers (concert_id, position, name, capacity, available, price)
			VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, i, t.Name, t.Capacity, available[t.Name], t.Price); err != nil {
			return fmt.Errorf("failed to insert seat tier: %w", err)
		}
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *SQLiteStore) AddConcert(ctx context.Context, c model.Concert) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return reject(common.CodeInvalidInput, "concert id is required")
	}

	return s.tx(ctx, func(tx *sql.Tx) error {
		cur, err := loadConcert(ctx, tx, c.ID)
		if err == nil {
			if sameConcert(cur.concert, c) {
				return nil
			}
			return reject(common.CodeAlreadyExists, "concert %s already exists", c.ID)
		}
		if !tixerror.HasCode(err, tixerror.CodeNotFound) {
			return err
		}

		remaining := 0
		if c.AfterParty.Available {
			remaining = c.AfterParty.TotalTickets
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO concerts (id, name, date, venue, status, ap_available, ap_total, ap_remaining, ap_price)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Date, c.Venue, string(model.ConcertActive),
			boolInt(c.AfterParty.Available), c.AfterParty.TotalTickets, remaining, c.AfterParty.Price); err != nil {
			return fmt.Errorf("failed to insert concert: %w", err)
		}

		available := make(map[string]int, len(c.SeatTiers))
		for _, t := range c.SeatTiers {
			available[t.Name] = t.Capacity
		}
		return insertTiers(ctx, tx, c, available)
	})
}

func (s *SQLiteStore) UpdateConcert(ctx context.Context, c model.Concert) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return s.tx(ctx, func(tx *sql.Tx) error {
		cur, err := loadConcert(ctx, tx, c.ID)
		if err != nil {
			return err
		}

		available := make(map[string]int, len(c.SeatTiers))
		for _, t := range c.SeatTiers {
			if old, ok := cur.concert.Tier(t.Name); ok {
				available[t.Name] = adjust(cur.available[t.Name], old.Capacity, t.Capacity)
			} else {
				available[t.Name] = t.Capacity
			}
		}

		oldTotal, newTotal := 0, 0
		if cur.concert.AfterParty.Available {
			oldTotal = cur.concert.AfterParty.TotalTickets
		}
		if c.AfterParty.Available {
			newTotal = c.AfterParty.TotalTickets
		}
		remaining := adjust(cur.afterPartyRemaining, oldTotal, newTotal)

		if _, err := tx.ExecContext(ctx, `
			UPDATE concerts SET name = ?, date = ?, venue = ?,
				ap_available = ?, ap_total = ?, ap_remaining = ?, ap_price = ?
			WHERE id = ?`,
			c.Name, c.Date, c.Venue,
			boolInt(c.AfterParty.Available), c.AfterParty.TotalTickets, remaining, c.AfterParty.Price,
			c.ID); err != nil {
			return fmt.Errorf("failed to update concert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM seat_tiers WHERE concert_id = ?`, c.ID); err != nil {
			return fmt.Errorf("failed to replace seat tiers: %w", err)
		}
		return insertTiers(ctx, tx, c, available)
	})
}

func (s *SQLiteStore) CancelConcert(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE concerts SET status = ? WHERE id = ?`, string(model.ConcertCancelled), id)
	if err != nil {
		return fmt.Errorf("failed to cancel concert: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("concert", id)
	}
	return nil
}

func (s *SQLiteStore) GetConcert(ctx context.Context, id string) (model.Concert, error) {
	row, err := loadConcert(ctx, s.db, id)
	if err != nil {
		return model.Concert{}, err
	}
	return row.concert, nil
}

func (s *SQLiteStore) ListConcerts(ctx context.Context, includeCancelled bool) ([]model.Concert, error) {
	query := `SELECT id FROM concerts ORDER BY seq`
	var args []interface{}
	if !includeCancelled {
		query = `SELECT id FROM concerts WHERE status != ? ORDER BY seq`
		args = append(args, string(model.ConcertCancelled))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list concerts: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]model.Concert, 0, len(ids))
	for _, id := range ids {
		c, err := s.GetConcert(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *SQLiteStore) Inventory(ctx context.Context, concertID string) (model.TicketInventory, error) {
	row, err := loadConcert(ctx, s.db, concertID)
	if err != nil {
		return model.TicketInventory{}, err
	}
	inv := model.TicketInventory{
		ConcertID:           concertID,
		AfterPartyAvailable: row.concert.AfterParty.Available,
		AfterPartyTotal:     row.concert.AfterParty.TotalTickets,
		AfterPartyRemaining: row.afterPartyRemaining,
		AfterPartyPrice:     row.concert.AfterParty.Price,
	}
	for _, t := range row.concert.SeatTiers {
		inv.Tiers = append(inv.Tiers, model.TierInventory{
			Name:      t.Name,
			Capacity:  t.Capacity,
			Available: row.available[t.Name],
			Price:     t.Price,
		})
	}
	return inv, nil
}

// stockApplied reports whether requestID was already used inside tx, and
// rejects it when it was used for a different change
func stockApplied(ctx context.Context, tx *sql.Tx, requestID, key string) (bool, error) {
	if requestID == "" {
		return false, nil
	}
	var prev string
	err := tx.QueryRowContext(ctx, `SELECT change FROM stock_requests WHERE id = ?`, requestID).Scan(&prev)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to look up stock request: %w", err)
	}
	if prev != key {
		return true, stockConflict(requestID)
	}
	return true, nil
}

func markStockApplied(ctx context.Context, tx *sql.Tx, requestID, key string) error {
	if requestID == "" {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO stock_requests (id, change) VALUES (?, ?)`, requestID, key); err != nil {
		return fmt.Errorf("failed to record stock request: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddTierStock(ctx context.Context, requestID, concertID, tier string, n int) error {
	if err := validateStock(n); err != nil {
		return err
	}
	key := stockKey(concertID, tier, n)
	return s.tx(ctx, func(tx *sql.Tx) error {
		if done, err := stockApplied(ctx, tx, requestID, key); done || err != nil {
			return err
		}
		cur, err := loadConcert(ctx, tx, concertID)
		if err != nil {
			return err
		}
		t, ok := cur.concert.Tier(tier)
		if !ok {
			return reject(common.CodeNotFound, "concert %s has no seat tier %q", concertID, tier)
		}
		if err := validateGrowth(t.Capacity, n); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE seat_tiers SET capacity = capacity + ?, available = available + ?
			WHERE concert_id = ? AND name = ?`, n, n, concertID, tier); err != nil {
			return fmt.Errorf("failed to add stock: %w", err)
		}
		return markStockApplied(ctx, tx, requestID, key)
	})
}

func (s *SQLiteStore) AddAfterPartyStock(ctx context.Context, requestID, concertID string, n int) error {
	if err := validateStock(n); err != nil {
		return err
	}
	key := stockKey(concertID, "", n)
	return s.tx(ctx, func(tx *sql.Tx) error {
		if done, err := stockApplied(ctx, tx, requestID, key); done || err != nil {
			return err
		}
		cur, err := loadConcert(ctx, tx, concertID)
		if err != nil {
			return err
		}
		if cur.concert.AfterParty.Available {
			if err := validateGrowth(cur.concert.AfterParty.TotalTickets, n); err != nil {
				return err
			}
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE concerts SET
				ap_total = CASE WHEN ap_available = 1 THEN ap_total + ? ELSE ? END,
				ap_remaining = CASE WHEN ap_available = 1 THEN ap_remaining + ? ELSE ? END,
				ap_available = 1
			WHERE id = ?`, n, n, n, n, concertID)
		if err != nil {
			return fmt.Errorf("failed to add after-party stock: %w", err)
		}
		return markStockApplied(ctx, tx, requestID, key)
	})
}

const bookingColumns = `kind, id, concert_id, holder, seat_tier, seat_count, include_ap, ap_quantity,
	payment_method, total_price, status, created_at`

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(sc scanner) (Booking, error) {
	var (
		b         Booking
		kind      string
		status    string
		includeAP int
		createdAt int64
	)
	err := sc.Scan(&kind, &b.ID, &b.ConcertID, &b.Holder, &b.SeatTier, &b.SeatCount, &includeAP,
		&b.AfterPartyQuantity, &b.PaymentMethod, &b.TotalPrice, &status, &createdAt)
	if err != nil {
		return Booking{}, err
	}
	b.Kind = Kind(kind)
	b.Status = model.ReservationStatus(status)
	b.IncludeAfterParty = includeAP != 0
	b.CreatedAt = time.UnixMilli(createdAt).UTC()
	return b, nil
}

func getBooking(ctx context.Context, q queryer, id string) (Booking, error) {
	b, err := scanBooking(q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Booking{}, notFound("reservation", id)
	}
	if err != nil {
		return Booking{}, fmt.Errorf("failed to load reservation: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) Reserve(ctx context.Context, b Booking) (Booking, bool, error) {
	if err := validateBooking(b); err != nil {
		return Booking{}, false, err
	}

	var (
		stored   Booking
		replayed bool
	)
	err := s.tx(ctx, func(tx *sql.Tx) error {
		prev, err := getBooking(ctx, tx, b.ID)
		if err == nil {
			if !prev.sameRequest(b) {
				return reject(common.CodeAlreadyExists, "reservation %s already exists", b.ID)
			}
			stored, replayed = prev, true
			return nil
		}
		if !tixerror.HasCode(err, tixerror.CodeNotFound) {
			return err
		}

		cur, err := loadConcert(ctx, tx, b.ConcertID)
		if err != nil {
			return err
		}
		total, err := quote(cur.concert, cur.available[b.SeatTier], cur.afterPartyRemaining, b)
		if err != nil {
			return err
		}

		// the guards repeat the quote so a stale read can never overcommit
		res, err := tx.ExecContext(ctx, `
			UPDATE seat_tiers SET available = available - ?
			WHERE concert_id = ? AND name = ? AND available >= ?`,
			b.SeatCount, b.ConcertID, b.SeatTier, b.SeatCount)
		if err != nil {
			return fmt.Errorf("failed to take seats: %w", err)
		}
		if n, _ := res.RowsAffected(); n != 1 {
			return reject(common.CodeInsufficientInventory, "not enough %s seats left", b.SeatTier)
		}

		if b.IncludeAfterParty && b.AfterPartyQuantity > 0 {
			res, err := tx.ExecContext(ctx, `
				UPDATE concerts SET ap_remaining = ap_remaining - ?
				WHERE id = ? AND ap_available = 1 AND ap_remaining >= ?`,
				b.AfterPartyQuantity, b.ConcertID, b.AfterPartyQuantity)
			if err != nil {
				return fmt.Errorf("failed to take after-party tickets: %w", err)
			}
			if n, _ := res.RowsAffected(); n != 1 {
				return reject(common.CodeInsufficientInventory, "not enough after-party tickets left")
			}
		}

		b.TotalPrice = total
		b.Status = model.ReservationConfirmed
		b.CreatedAt = s.now().UTC().Truncate(time.Millisecond)
		if _, err := tx.ExecContext(ctx, `INSERT INTO bookings (`+bookingColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(b.Kind), b.ID, b.ConcertID, b.Holder, b.SeatTier, b.SeatCount, boolInt(b.IncludeAfterParty),
			b.AfterPartyQuantity, b.PaymentMethod, b.TotalPrice, string(b.Status), b.CreatedAt.UnixMilli()); err != nil {
			return fmt.Errorf("failed to insert reservation: %w", err)
		}
		stored = b
		return nil
	})
	if err != nil {
		return Booking{}, false, err
	}
	return stored, replayed, nil
}

func (s *SQLiteStore) Cancel(ctx context.Context, kind Kind, id string) (Booking, bool, error) {
	var (
		out       Booking
		cancelled bool
	)
	err := s.tx(ctx, func(tx *sql.Tx) error {
		b, err := getBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if b.Kind != kind {
			return notFound("reservation", id)
		}
		if b.Status == model.ReservationCancelled {
			out = b
			return nil
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE seat_tiers SET available = available + ?
			WHERE concert_id = ? AND name = ?`, b.SeatCount, b.ConcertID, b.SeatTier); err != nil {
			return fmt.Errorf("failed to restore seats: %w", err)
		}
		if b.IncludeAfterParty && b.AfterPartyQuantity > 0 {
			if _, err := tx.ExecContext(ctx, `
				UPDATE concerts SET ap_remaining = ap_remaining + ? WHERE id = ?`,
				b.AfterPartyQuantity, b.ConcertID); err != nil {
				return fmt.Errorf("failed to restore after-party tickets: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ?`,
			string(model.ReservationCancelled), id); err != nil {
			return fmt.Errorf("failed to cancel reservation: %w", err)
		}
		b.Status = model.ReservationCancelled
		out, cancelled = b, true
		return nil
	})
	if err != nil {
		return Booking{}, false, err
	}
	return out, cancelled, nil
}

func (s *SQLiteStore) Get(ctx context.Context, kind Kind, id string) (Booking, error) {
	b, err := getBooking(ctx, s.db, id)
	if err != nil {
		return Booking{}, err
	}
	if b.Kind != kind {
		return Booking{}, notFound("reservation", id)
	}
	return b, nil
}

func (s *SQLiteStore) List(ctx context.Context, f Filter) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1 = 1`
	var args []interface{}
	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	if f.ConcertID != "" {
		query += ` AND concert_id = ?`
		args = append(args, f.ConcertID)
	}
	if f.Holder != "" {
		query += ` AND holder = ?`
		args = append(args, f.Holder)
	}
	query += ` ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
