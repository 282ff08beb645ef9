// Package db wraps the SQLite database behind hand-written queries for
// users, their settings blobs, and finished review attempts.
package db

import (
	"context"
	"database/sql"
	"time"
)

type Queries struct {
	db *sql.DB
}

func New(database *sql.DB) *Queries {
	return &Queries{db: database}
}

type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
}

// Attempt is one finished review session. Mid-review state is never
// persisted; a row exists only once the deck was exhausted.
type Attempt struct {
	ID         string
	UserID     int64
	Grade      string
	Level      string
	Subject    string
	Chapter    string
	Correct    int64
	Total      int64
	Percent    float64
	FinishedAt time.Time
}

type CreateUserParams struct {
	Username     string
	DisplayName  string
	PasswordHash string
}

func (q *Queries) CreateUser(ctx context.Context, p CreateUserParams) (User, error) {
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO users (username, display_name, password_hash) VALUES (?, ?, ?)`,
		p.Username, p.DisplayName, p.PasswordHash)
	if err != nil {
		return User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, err
	}
	return q.GetUserByID(ctx, id)
}

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, username, display_name, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT id, username, display_name, password_hash, created_at FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.DisplayName, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// GetSettings returns the raw settings blob for a user. sql.ErrNoRows means
// the user has never saved settings.
func (q *Queries) GetSettings(ctx context.Context, userID int64) ([]byte, error) {
	var data []byte
	err := q.db.QueryRowContext(ctx,
		`SELECT data FROM user_settings WHERE user_id = ?`, userID).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (q *Queries) SaveSettings(ctx context.Context, userID int64, data []byte) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`,
		userID, data)
	return err
}

type CreateAttemptParams struct {
	ID      string
	UserID  int64
	Grade   string
	Level   string
	Subject string
	Chapter string
	Correct int64
	Total   int64
	Percent float64
}

func (q *Queries) CreateAttempt(ctx context.Context, p CreateAttemptParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO attempts (id, user_id, grade, level, subject, chapter, correct, total, percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Grade, p.Level, p.Subject, p.Chapter, p.Correct, p.Total, p.Percent)
	return err
}

// ListAttempts returns a user's most recent finished attempts, newest first.
func (q *Queries) ListAttempts(ctx context.Context, userID int64, limit int) ([]Attempt, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, user_id, grade, level, subject, chapter, correct, total, percent, finished_at
		FROM attempts WHERE user_id = ? ORDER BY finished_at DESC LIMIT ?`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.UserID, &a.Grade, &a.Level, &a.Subject, &a.Chapter,
			&a.Correct, &a.Total, &a.Percent, &a.FinishedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
