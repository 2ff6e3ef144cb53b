package reminders

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

type Kind string

const (
	KindExpiringSoon Kind = "expiring_soon"
	KindExpired      Kind = "expired"
)

type Reminder struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"owner_id"`
	EmployeeID      string    `json:"employee_id"`
	EmployeeName    string    `json:"employee_name"`
	CertificateID   string    `json:"certificate_id"`
	CertificateName string    `json:"certificate_name"`
	Kind            Kind      `json:"kind"`
	ExpiryDate      string    `json:"expiry_date"`
	DaysLeft        int       `json:"days_left"`
	CreatedAt       time.Time `json:"created_at"`
}

type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Open connects to Postgres for the reminder tables.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("reminders: dsn is empty")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("reminders: open: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("reminders: ping: %w", err)
	}
	return db, nil
}

// Record stores one reminder row. Re-recording the same certificate for
// the same kind and expiry date is a no-op, so nightly sweeps can run
// repeatedly without piling up duplicates.
func (r *Repo) Record(ctx context.Context, rem Reminder) error {
	const q = `
		INSERT INTO certificate_reminders
			(id, owner_id, employee_id, employee_name, certificate_id,
			 certificate_name, kind, expiry_date, days_left, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		ON CONFLICT (owner_id, certificate_id, kind, expiry_date) DO NOTHING
	`

	id := rem.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := r.db.ExecContext(ctx, q,
		id, rem.OwnerID, rem.EmployeeID, rem.EmployeeName,
		rem.CertificateID, rem.CertificateName, string(rem.Kind),
		rem.ExpiryDate, rem.DaysLeft,
	)
	if err != nil {
		return fmt.Errorf("reminders: record: %w", err)
	}
	return nil
}

// ListForOwner returns the most recent reminders for one owner.
func (r *Repo) ListForOwner(ctx context.Context, ownerID string, limit int) ([]Reminder, error) {
	if limit <= 0 {
		limit = 50
	}

	const q = `
		SELECT id, owner_id, employee_id, employee_name, certificate_id,
		       certificate_name, kind, expiry_date, days_left, created_at
		FROM certificate_reminders
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, q, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("reminders: list: %w", err)
	}
	defer rows.Close()

	var out []Reminder
	for rows.Next() {
		var rem Reminder
		var kind string
		err := rows.Scan(
			&rem.ID, &rem.OwnerID, &rem.EmployeeID, &rem.EmployeeName,
			&rem.CertificateID, &rem.CertificateName, &kind,
			&rem.ExpiryDate, &rem.DaysLeft, &rem.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("reminders: scan: %w", err)
		}
		rem.Kind = Kind(kind)
		out = append(out, rem)
	}
	return out, rows.Err()
}
