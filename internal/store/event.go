package store

import (
	"database/sql"
	"time"
)

// EventKind is the direction of a presence edge.
type EventKind string

const (
	// EventAppeared is recorded when a hand becomes visible.
	EventAppeared EventKind = "appeared"
	// EventDisappeared is recorded when a visible hand is lost.
	EventDisappeared EventKind = "disappeared"
)

// PresenceEvent is a single presence transition within a session.
type PresenceEvent struct {
	ID        int64
	SessionID string
	Kind      EventKind
	Frame     int64
	CreatedAt time.Time
}

// EventRepository provides access to the presence_events table.
type EventRepository struct {
	db *sql.DB
}

// Events returns the presence event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record inserts a presence event and fills in its ID and CreatedAt.
func (r *EventRepository) Record(e *PresenceEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	result, err := r.db.Exec(
		`INSERT INTO presence_events (session_id, kind, frame, created_at)
		 VALUES (?, ?, ?, ?)`,
		e.SessionID, string(e.Kind), e.Frame, e.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id
	return nil
}

// ListBySession returns the events of a session in the order they happened.
func (r *EventRepository) ListBySession(sessionID string) ([]*PresenceEvent, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, kind, frame, created_at
		 FROM presence_events WHERE session_id = ? ORDER BY frame, id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*PresenceEvent
	for rows.Next() {
		e := &PresenceEvent{}
		var kind string
		if err := rows.Scan(&e.ID, &e.SessionID, &kind, &e.Frame, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = EventKind(kind)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
