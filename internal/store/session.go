package store

import (
	"database/sql"
	"errors"
	"time"
)

// StopReason records why a capture session ended.
type StopReason string

const (
	// StopReasonNone marks a session that is still running.
	StopReasonNone StopReason = ""
	// StopReasonUser means the session was stopped on request.
	StopReasonUser StopReason = "stopped"
	// StopReasonError means a detection failure ended the session.
	StopReasonError StopReason = "error"
	// StopReasonInterrupted marks a session the process never finished,
	// found open when the journal was next opened.
	StopReasonInterrupted StopReason = "interrupted"
)

// Session is one capture session as recorded in the journal.
type Session struct {
	ID         string
	OSCTarget  string
	StartedAt  time.Time
	StoppedAt  *time.Time
	StopReason StopReason
	Frames     int64
}

// Running reports whether the session has not been finished.
func (s *Session) Running() bool {
	return s.StoppedAt == nil
}

// SessionRepository provides access to the sessions table.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new running session. StartedAt is set when zero.
func (r *SessionRepository) Create(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, osc_target, started_at, stop_reason, frames)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.OSCTarget, sess.StartedAt, string(sess.StopReason), sess.Frames,
	)
	return err
}

// Finish marks a session as stopped with the given reason and frame count.
func (r *SessionRepository) Finish(id string, reason StopReason, frames int64) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET stopped_at = ?, stop_reason = ?, frames = ?
		 WHERE id = ?`,
		time.Now(), string(reason), frames, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// FinishInterrupted stops every session that is still open with
// StopReasonInterrupted and returns how many were closed. Frame counts are
// left as last recorded.
func (r *SessionRepository) FinishInterrupted() (int64, error) {
	result, err := r.db.Exec(
		`UPDATE sessions SET stopped_at = ?, stop_reason = ?
		 WHERE stopped_at IS NULL`,
		time.Now(), string(StopReasonInterrupted),
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, osc_target, started_at, stopped_at, stop_reason, frames
		 FROM sessions WHERE id = ?`,
		id,
	)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return sess, nil
}

// List retrieves the most recent sessions, newest first. A limit of zero
// or less returns every session.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, osc_target, started_at, stopped_at, stop_reason, frames
		 FROM sessions ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session and its events.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	sess := &Session{}
	var stoppedAt sql.NullTime
	var reason string

	err := row.Scan(&sess.ID, &sess.OSCTarget, &sess.StartedAt, &stoppedAt, &reason, &sess.Frames)
	if err != nil {
		return nil, err
	}

	if stoppedAt.Valid {
		t := stoppedAt.Time
		sess.StoppedAt = &t
	}
	sess.StopReason = StopReason(reason)
	return sess, nil
}
