// Package postgres implements the PostgreSQL persistence layer for StudyPulse.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/studypulse/studypulse/internal/domain/calendar"
	"github.com/studypulse/studypulse/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// CALENDAR EVENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EventRepository implements calendar.Repository for PostgreSQL.
type EventRepository struct {
	conn *Connection
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(conn *Connection) *EventRepository {
	return &EventRepository{conn: conn}
}

const eventColumns = `
	id, title, event_type, start_date, end_date, duration_hours,
	institutional, created_by, created_at
`

// Create creates a new calendar event.
func (r *EventRepository) Create(ctx context.Context, e *calendar.Event) error {
	query := `
		INSERT INTO calendar_events (
			id, title, event_type, start_date, end_date, duration_hours,
			institutional, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	var createdBy interface{}
	if e.CreatedBy != "" {
		createdBy = e.CreatedBy
	}

	_, err := r.conn.Exec(ctx, query,
		e.ID,
		e.Title,
		string(e.Type),
		e.StartDate,
		e.EndDate,
		e.DurationHours,
		e.Institutional,
		createdBy,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create calendar event: %w", err)
	}

	return nil
}

// GetByID returns an event by ID.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*calendar.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = $1`

	e, err := r.scanEvent(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

// Delete removes an event.
func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx, `DELETE FROM calendar_events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete calendar event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrEventNotFound
	}

	return nil
}

// GetVisibleInRange returns the union of institutional events and the
// student's personal events starting in [from, to], ordered by start date.
func (r *EventRepository) GetVisibleInRange(ctx context.Context, studentID string, from, to time.Time) ([]*calendar.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM calendar_events
		WHERE start_date >= $2 AND start_date <= $3
		  AND (institutional OR created_by = $1)
		ORDER BY start_date
	`

	rows, err := r.conn.Query(ctx, query, studentID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar events: %w", err)
	}
	defer rows.Close()

	var events []*calendar.Event
	for rows.Next() {
		e, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning
// ─────────────────────────────────────────────────────────────────────────────

func (r *EventRepository) scanEvent(row pgx.Row) (*calendar.Event, error) {
	var (
		e         calendar.Event
		eventType string
		createdBy *string
	)

	err := row.Scan(
		&e.ID,
		&e.Title,
		&eventType,
		&e.StartDate,
		&e.EndDate,
		&e.DurationHours,
		&e.Institutional,
		&createdBy,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Type = calendar.EventType(eventType)
	if createdBy != nil {
		e.CreatedBy = *createdBy
	}

	return &e, nil
}
