package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/google/uuid"
)

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

// Event is a journaled action firing.
type Event struct {
	ID      string    `json:"id"`
	Gesture string    `json:"gesture"`
	Action  string    `json:"action"`
	Error   string    `json:"error,omitempty"`
	FiredAt time.Time `json:"fired_at"`
}

// EventRepository stores fired actions. It implements action.EventSink.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts e, assigning an ID if it has none.
func (r *EventRepository) Create(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.FiredAt.IsZero() {
		e.FiredAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, gesture, action, error, fired_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Gesture, e.Action, e.Error, e.FiredAt.UTC(),
	)
	return err
}

// Record journals a dispatcher event.
func (r *EventRepository) Record(e action.Event) error {
	ev := &Event{
		Gesture: e.Gesture.String(),
		Action:  e.Action.String(),
		FiredAt: e.Time,
	}
	if e.Err != nil {
		ev.Error = e.Err.Error()
	}
	return r.Create(ev)
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(id string) (*Event, error) {
	e := &Event{}
	err := r.db.QueryRow(
		`SELECT id, gesture, action, error, fired_at FROM events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Gesture, &e.Action, &e.Error, &e.FiredAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// List returns up to limit events, newest first.
func (r *EventRepository) List(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.Query(
		`SELECT id, gesture, action, error, fired_at FROM events
		 ORDER BY fired_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(&e.ID, &e.Gesture, &e.Action, &e.Error, &e.FiredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// Count returns the number of journaled events.
func (r *EventRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM events`).Scan(&n)
	return n, err
}

// DeleteBefore removes events fired before t and returns how many were removed.
func (r *EventRepository) DeleteBefore(t time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE fired_at < ?`, t.UTC())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
