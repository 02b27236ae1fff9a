package database

import "database/sql"

type DatabaseService interface {
	CreateDatabase() (*sql.DB, error)
	DoesDatabaseExist() bool
	Close() error

	CreateUser(email string, passwordHash []byte) (*User, error)
	GetUserByEmail(email string) (*User, error)

	// CreateResult persists a new result row. ID and CreatedAt are assigned by the database layer.
	CreateResult(result *Result) (*Result, error)
	// GetResultByID returns nil without error if no row with this id is owned by userID.
	GetResultByID(id string, userID string) (*Result, error)
	// GetResultsByUser returns all results of a user, newest first.
	GetResultsByUser(userID string) ([]*Result, error)

	// PutObject stores a blob. Existing objects are never overwritten.
	PutObject(object *Object) error
	// GetObject returns nil without error if the object does not exist.
	GetObject(bucket, path string) (*Object, error)
}
