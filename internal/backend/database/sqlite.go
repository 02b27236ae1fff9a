package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// fixed width so that lexical order equals chronological order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type SQLiteDatabase struct {
	db               *sql.DB
	connectionString string
	now              func() time.Time
}

func NewSQLiteDatabase(connectionString string) (DatabaseService, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}
	// in-memory databases and pragmas are per connection
	db.SetMaxOpenConns(1)

	return &SQLiteDatabase{
		db:               db,
		connectionString: connectionString,
		now:              time.Now,
	}, nil
}

func (s *SQLiteDatabase) CreateDatabase() (*sql.DB, error) {
	statements := []string{
		`PRAGMA foreign_keys = ON`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash BLOB NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			before_image TEXT NOT NULL,
			after_image TEXT NOT NULL,
			prompt TEXT NOT NULL,
			style TEXT NOT NULL,
			budget REAL,
			size TEXT,
			items TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_user_created ON results (user_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS objects (
			bucket TEXT NOT NULL,
			path TEXT NOT NULL,
			content_type TEXT NOT NULL,
			data BLOB NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (bucket, path)
		)`,
	}
	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return nil, err
		}
	}

	return s.db, nil
}

func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteDatabase) DoesDatabaseExist() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteDatabase) CreateUser(email string, passwordHash []byte) (*User, error) {
	id, err := generateID()
	if err != nil {
		return nil, err
	}
	user := &User{
		ID:           id,
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}

	_, err = s.db.Exec("INSERT INTO users (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)",
		user.ID, user.Email, user.PasswordHash, user.CreatedAt.Format(timeLayout))
	if err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

func (s *SQLiteDatabase) GetUserByEmail(email string) (*User, error) {
	row := s.db.QueryRow("SELECT id, email, password_hash, created_at FROM users WHERE email = ?",
		strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var user User
	var createdAt string
	if err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for user %s: %w", user.ID, err)
	}
	user.CreatedAt = parsed
	return &user, nil
}

func (s *SQLiteDatabase) CreateResult(result *Result) (*Result, error) {
	if result == nil {
		return nil, errors.New("result must not be nil")
	}
	id, err := generateID()
	if err != nil {
		return nil, err
	}

	stored := *result
	stored.ID = id
	stored.CreatedAt = s.now().UTC()

	var items sql.NullString
	if stored.Items != nil {
		encoded, err := json.Marshal(stored.Items)
		if err != nil {
			return nil, fmt.Errorf("failed to encode items: %w", err)
		}
		items = sql.NullString{String: string(encoded), Valid: true}
	}

	_, err = s.db.Exec(`INSERT INTO results
		(id, user_id, before_image, after_image, prompt, style, budget, size, items, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		stored.ID,
		stored.UserID,
		stored.BeforeImage,
		stored.AfterImage,
		stored.Prompt,
		stored.Style,
		nullFloat(stored.Budget),
		nullString(stored.Size),
		items,
		stored.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, translateError(err)
	}
	return &stored, nil
}

const resultColumns = "id, user_id, before_image, after_image, prompt, style, budget, size, items, created_at"

func (s *SQLiteDatabase) GetResultByID(id string, userID string) (*Result, error) {
	row := s.db.QueryRow("SELECT "+resultColumns+" FROM results WHERE id = ? AND user_id = ?", id, userID)
	result, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return result, err
}

func (s *SQLiteDatabase) GetResultsByUser(userID string) ([]*Result, error) {
	rows, err := s.db.Query("SELECT "+resultColumns+" FROM results WHERE user_id = ? ORDER BY created_at DESC, rowid DESC", userID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close() // Explicitly ignore error as we're already returning an error from the function
	}()

	results := make([]*Result, 0)
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*Result, error) {
	var result Result
	var budget sql.NullFloat64
	var size, items sql.NullString
	var createdAt string
	if err := row.Scan(
		&result.ID,
		&result.UserID,
		&result.BeforeImage,
		&result.AfterImage,
		&result.Prompt,
		&result.Style,
		&budget,
		&size,
		&items,
		&createdAt,
	); err != nil {
		return nil, err
	}

	if budget.Valid {
		result.Budget = &budget.Float64
	}
	if size.Valid {
		result.Size = &size.String
	}
	if items.Valid {
		if err := json.Unmarshal([]byte(items.String), &result.Items); err != nil {
			return nil, fmt.Errorf("invalid items for result %s: %w", result.ID, err)
		}
	}
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for result %s: %w", result.ID, err)
	}
	result.CreatedAt = parsed
	return &result, nil
}

func (s *SQLiteDatabase) PutObject(object *Object) error {
	if object == nil {
		return errors.New("object must not be nil")
	}
	if object.CreatedAt.IsZero() {
		object.CreatedAt = s.now().UTC()
	}
	_, err := s.db.Exec("INSERT INTO objects (bucket, path, content_type, data, created_at) VALUES (?, ?, ?, ?, ?)",
		object.Bucket, object.Path, object.ContentType, object.Data, object.CreatedAt.UTC().Format(timeLayout))
	return translateError(err)
}

func (s *SQLiteDatabase) GetObject(bucket, path string) (*Object, error) {
	row := s.db.QueryRow("SELECT bucket, path, content_type, data, created_at FROM objects WHERE bucket = ? AND path = ?", bucket, path)
	var object Object
	var createdAt string
	if err := row.Scan(&object.Bucket, &object.Path, &object.ContentType, &object.Data, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	parsed, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at for object %s/%s: %w", bucket, path, err)
	}
	object.CreatedAt = parsed
	return &object, nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY constraint failed") {
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	}
	return err
}

func nullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}
