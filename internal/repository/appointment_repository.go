package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bookbot-ai/bookbot-api/internal/models"
)

// AppointmentRepository manages persistence for the single-resource calendar.
type AppointmentRepository struct {
	db *sqlx.DB
}

// NewAppointmentRepository constructs an AppointmentRepository.
func NewAppointmentRepository(db *sqlx.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

// EnsureSchema creates the appointments table and its slot uniqueness index.
// Safe to call more than once; a second call changes nothing.
func (r *AppointmentRepository) EnsureSchema(ctx context.Context) error {
	const table = `CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		time TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := r.db.ExecContext(ctx, table); err != nil {
		return fmt.Errorf("create appointments table: %w", err)
	}

	const index = `CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_slot ON appointments (date, time)`
	if _, err := r.db.ExecContext(ctx, index); err != nil {
		return fmt.Errorf("create slot index: %w", err)
	}

	return nil
}

// IsSlotFree reports whether no appointment occupies the given slot.
func (r *AppointmentRepository) IsSlotFree(ctx context.Context, date, timeOfDay string) (bool, error) {
	const query = `SELECT COUNT(*) FROM appointments WHERE date = $1 AND time = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, date, timeOfDay); err != nil {
		return false, fmt.Errorf("check slot availability: %w", err)
	}
	return count == 0, nil
}

// Reserve claims the slot atomically. The unique slot index makes the insert
// a check-and-write in one statement, so a reservation lost to a concurrent
// writer reports false rather than silently succeeding.
func (r *AppointmentRepository) Reserve(ctx context.Context, date, timeOfDay string) (bool, error) {
	const query = `INSERT INTO appointments (id, date, time, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (date, time) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, uuid.NewString(), date, timeOfDay, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("reserve slot: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reserve slot result: %w", err)
	}
	return rows == 1, nil
}

// List returns appointments matching the filter along with a total count,
// ordered chronologically.
func (r *AppointmentRepository) List(ctx context.Context, filter models.AppointmentFilter) ([]models.Appointment, int, error) {
	base := "FROM appointments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, filter.Date)
	}
	if filter.FromDate != "" {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, filter.FromDate)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, date, time, created_at %s ORDER BY date, time LIMIT %d OFFSET %d", base, size, offset)
	var appointments []models.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	return appointments, total, nil
}

// DeleteByID removes an appointment, reporting whether a row was deleted.
func (r *AppointmentRepository) DeleteByID(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM appointments WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete appointment result: %w", err)
	}
	return rows == 1, nil
}
