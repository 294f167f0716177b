package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/fjod/go_food/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var ErrSessionNotFound = errors.New("payment session not found")

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// Repository stores payment sessions and the order event audit trail in Postgres.
type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	log.Printf("Connected to postgres at %s:%d", cred.Host, cred.Port)
	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(cred *Credentials) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{
		MigrationsTable: "ledger_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cred.MigrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) RecordSession(ctx context.Context, s *domain.PaymentSession) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = domain.PaymentSessionOpen
	}

	query := `INSERT INTO payment_sessions (id, order_id, provider_id, url, amount_paise, currency, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.OrderID, s.ProviderID, s.URL, s.AmountPaise, s.Currency, string(s.Status))
	if err != nil {
		return fmt.Errorf("failed to insert payment session: %w", err)
	}

	return nil
}

// RecordOutcome sets the status of every open session of the order.
func (r *Repository) RecordOutcome(ctx context.Context, orderID string, status domain.PaymentSessionStatus) error {
	query := `UPDATE payment_sessions SET status = $1, updated_at = NOW()
	          WHERE order_id = $2 AND status = $3`

	result, err := r.db.ExecContext(ctx, query, string(status), orderID, string(domain.PaymentSessionOpen))
	if err != nil {
		return fmt.Errorf("failed to update payment session: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *Repository) GetSessionsByOrderID(ctx context.Context, orderID string) ([]*domain.PaymentSession, error) {
	query := `SELECT id, order_id, provider_id, url, amount_paise, currency, status, created_at, updated_at
	          FROM payment_sessions WHERE order_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*domain.PaymentSession
	for rows.Next() {
		var s domain.PaymentSession
		var status string
		if err := rows.Scan(&s.ID, &s.OrderID, &s.ProviderID, &s.URL, &s.AmountPaise, &s.Currency, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment session: %w", err)
		}
		s.Status = domain.PaymentSessionStatus(status)
		sessions = append(sessions, &s)
	}

	return sessions, rows.Err()
}

// RecordEvent is idempotent on the event id so redelivered messages are ignored.
func (r *Repository) RecordEvent(ctx context.Context, e domain.OrderEvent) error {
	query := `INSERT INTO order_events (id, event_type, order_id, user_id, amount, status, occurred_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (id) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		string(e.Type),
		e.OrderID,
		nullString(e.UserID),
		decimal.NewFromFloat(e.Amount),
		nullString(e.Status),
		e.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to insert order event: %w", err)
	}

	return nil
}

func (r *Repository) ListEvents(ctx context.Context, orderID string) ([]domain.OrderEvent, error) {
	query := `SELECT id, event_type, order_id, user_id, amount, status, occurred_at
	          FROM order_events WHERE order_id = $1 ORDER BY occurred_at`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order events: %w", err)
	}
	defer rows.Close()

	var events []domain.OrderEvent
	for rows.Next() {
		var (
			e      domain.OrderEvent
			typ    string
			userID sql.NullString
			amount decimal.NullDecimal
			status sql.NullString
		)
		if err := rows.Scan(&e.ID, &typ, &e.OrderID, &userID, &amount, &status, &e.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan order event: %w", err)
		}
		e.Type = domain.OrderEventType(typ)
		e.UserID = userID.String
		e.Status = status.String
		if amount.Valid {
			e.Amount = amount.Decimal.InexactFloat64()
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
