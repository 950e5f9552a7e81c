package storage

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"visitorlog/internal/config"
)

var (
	ErrVisitorNotFound = errors.New("visitor not found")
	ErrAdminNotFound   = errors.New("admin not found")
	ErrAdminExists     = errors.New("admin already exists")
)

type Provider interface {
	Close() error
	GetSchemaVersion(ctx context.Context) (int, error)

	// Visitor records
	CreateVisitor(ctx context.Context, visitor Visitor) (int64, error)
	GetVisitor(ctx context.Context, id int64) (*Visitor, error)
	UpdateVisitor(ctx context.Context, id int64, name, purpose string) error
	DeleteVisitor(ctx context.Context, id int64) error
	CountVisitors(ctx context.Context, filter VisitorFilter) (int, error)
	ListVisitors(ctx context.Context, filter VisitorFilter, limit, offset int) ([]Visitor, error)
	// ListAllVisitors returns the whole collection ordered most recent
	// first, for the report renderers.
	ListAllVisitors(ctx context.Context) ([]Visitor, error)
	CountVisitorsSince(ctx context.Context, since time.Time) (int, error)

	// Admin accounts
	CreateAdmin(ctx context.Context, admin Admin) error
	GetAdmin(ctx context.Context, username string) (*Admin, error)
	UpdateAdminPassword(ctx context.Context, username, passwordHash string) error

	// Session nonces
	CreateNonce(ctx context.Context, nonce string, expiresAt time.Time) error
	ExistsNonce(ctx context.Context, nonce string) (bool, error)
	ConsumeNonce(ctx context.Context, nonce string) (bool, error)
	ExpireNonces(ctx context.Context, now time.Time) error
}

func NewProvider(config *config.Storage) Provider {
	switch {
	case config.SQLite != nil:
		provider := NewSQLiteProvider(config)
		if provider == nil {
			return nil
		}
		if err := provider.runMigrations("sqlite3"); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			return nil
		}
		return provider

	default:
		slog.Error("Unsupported storage configuration", "config", config)
	}

	return nil
}
