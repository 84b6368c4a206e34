package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"takemeto75/config"
	"takemeto75/logger"
	"takemeto75/trip"
)

const (
	connectAttempts = 10
	connectBackoff  = 2 * time.Second
)

// Open connects to PostgreSQL, waits for it to accept connections and
// applies the schema.
func Open(ctx context.Context, cfg config.Database, log logger.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Managed databases may take a moment to come up.
	for i := 1; i <= connectAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		log.Warn("waiting for database", "attempt", i, "of", connectAttempts, "error", err)
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(connectBackoff):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database after %d attempts: %w", connectAttempts, err)
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	log.Info("database connected and migrated")
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS packages (
			id          TEXT PRIMARY KEY,
			tier        TEXT NOT NULL,
			city        TEXT NOT NULL,
			total_price NUMERIC(12,2) NOT NULL,
			degraded    BOOLEAN NOT NULL DEFAULT FALSE,
			data        JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id              TEXT PRIMARY KEY,
			package_id      TEXT NOT NULL,
			status          TEXT NOT NULL,
			email           TEXT NOT NULL,
			data            JSONB NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL,
			refund_deadline TIMESTAMPTZ NOT NULL,
			cancelled_at    TIMESTAMPTZ
		)`,

		`CREATE INDEX IF NOT EXISTS idx_bookings_email
			ON bookings(email)`,

		`CREATE INDEX IF NOT EXISTS idx_packages_created_at
			ON packages(created_at DESC)`,
	}

	for _, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// uniqueViolation is the SQLSTATE for a duplicate primary key.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// ─── Bookings ────────────────────────────────────────────────────────────────

type PostgresBookings struct {
	db *sql.DB
}

func NewPostgresBookings(db *sql.DB) *PostgresBookings {
	return &PostgresBookings{db: db}
}

func (s *PostgresBookings) Create(ctx context.Context, b trip.Booking) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("encode booking %s: %w", b.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO bookings (id, package_id, status, email, data, created_at, refund_deadline, cancelled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.Package.ID, string(b.Status), b.Passenger.Email, data, b.CreatedAt, b.RefundDeadline, b.CancelledAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (s *PostgresBookings) Get(ctx context.Context, id string) (trip.Booking, error) {
	return scanBooking(s.db.QueryRowContext(ctx, `SELECT data FROM bookings WHERE id = $1`, id))
}

// Update locks the row for the length of the transaction so two cancels on
// the same booking serialize.
func (s *PostgresBookings) Update(ctx context.Context, id string, fn func(*trip.Booking) error) (trip.Booking, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return trip.Booking{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	current, err := scanBooking(tx.QueryRowContext(ctx, `SELECT data FROM bookings WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return trip.Booking{}, err
	}

	b := current
	if err := fn(&b); err != nil {
		return current, err
	}

	data, err := json.Marshal(b)
	if err != nil {
		return trip.Booking{}, fmt.Errorf("encode booking %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE bookings SET status = $1, data = $2, cancelled_at = $3 WHERE id = $4`,
		string(b.Status), data, b.CancelledAt, id); err != nil {
		return trip.Booking{}, fmt.Errorf("update booking %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return trip.Booking{}, fmt.Errorf("commit: %w", err)
	}
	return b, nil
}

func scanBooking(row *sql.Row) (trip.Booking, error) {
	var data []byte
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return trip.Booking{}, ErrNotFound
		}
		return trip.Booking{}, err
	}
	var b trip.Booking
	if err := json.Unmarshal(data, &b); err != nil {
		return trip.Booking{}, fmt.Errorf("decode booking: %w", err)
	}
	return b, nil
}

// ─── Packages ────────────────────────────────────────────────────────────────

type PostgresPackages struct {
	db *sql.DB
}

func NewPostgresPackages(db *sql.DB) *PostgresPackages {
	return &PostgresPackages{db: db}
}

func (s *PostgresPackages) Save(ctx context.Context, pkg trip.TripPackage) error {
	data, err := json.Marshal(pkg)
	if err != nil {
		return fmt.Errorf("encode package %s: %w", pkg.ID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO packages (id, tier, city, total_price, degraded, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data`,
		pkg.ID, string(pkg.Tier), pkg.Destination.City, pkg.TotalPrice, pkg.Degraded, data, pkg.CreatedAt)
	return err
}

func (s *PostgresPackages) Get(ctx context.Context, id string) (trip.TripPackage, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM packages WHERE id = $1`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return trip.TripPackage{}, ErrNotFound
	}
	if err != nil {
		return trip.TripPackage{}, err
	}
	var pkg trip.TripPackage
	if err := json.Unmarshal(data, &pkg); err != nil {
		return trip.TripPackage{}, fmt.Errorf("decode package %s: %w", id, err)
	}
	return pkg, nil
}
