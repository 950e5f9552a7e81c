package storage

import "time"

// Visitor is one visitor log entry. VisitedAt defaults to the creation
// time and is immutable afterwards; edits touch Name and Purpose only.
type Visitor struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Purpose   string    `db:"purpose"`
	VisitedAt time.Time `db:"visited_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Admin is an administrator account. PasswordHash is a bcrypt hash,
// never the plain credential.
type Admin struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}
