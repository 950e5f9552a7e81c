package storage

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"visitorlog/internal/config"
)

type SQLProvider struct {
	db *sqlx.DB

	config *config.Storage

	logger *slog.Logger
}

func NewSQLProvider(config *config.Storage, driverName string, dataSource string) *SQLProvider {
	db, err := sqlx.Open(driverName, dataSource)
	if err != nil {
		slog.Error("Failed to open database", "driver", driverName, "error", err)
		return nil
	}

	logger := slog.With("component", "storage")

	return &SQLProvider{
		db:     db,
		config: config,
		logger: logger,
	}
}

func (p *SQLProvider) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

func (p *SQLProvider) GetSchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := p.db.GetContext(ctx, &version, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err != nil {
		// No migrations table yet means zero state
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, err
	}
	return version, nil
}

// Visitor records

func (p *SQLProvider) CreateVisitor(ctx context.Context, visitor Visitor) (int64, error) {
	if visitor.VisitedAt.IsZero() {
		visitor.VisitedAt = time.Now()
	}
	if visitor.CreatedAt.IsZero() {
		visitor.CreatedAt = time.Now()
	}

	res, err := p.db.ExecContext(ctx,
		"INSERT INTO visitors (name, purpose, visited_at, created_at) VALUES (?, ?, ?, ?)",
		visitor.Name, visitor.Purpose, visitor.VisitedAt, visitor.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (p *SQLProvider) GetVisitor(ctx context.Context, id int64) (*Visitor, error) {
	var visitor Visitor
	err := p.db.GetContext(ctx, &visitor,
		"SELECT id, name, purpose, visited_at, created_at FROM visitors WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVisitorNotFound
	}
	if err != nil {
		return nil, err
	}
	return &visitor, nil
}

func (p *SQLProvider) UpdateVisitor(ctx context.Context, id int64, name, purpose string) error {
	res, err := p.db.ExecContext(ctx,
		"UPDATE visitors SET name = ?, purpose = ? WHERE id = ?", name, purpose, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVisitorNotFound
	}
	return nil
}

func (p *SQLProvider) DeleteVisitor(ctx context.Context, id int64) error {
	res, err := p.db.ExecContext(ctx, "DELETE FROM visitors WHERE id = ?", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrVisitorNotFound
	}
	return nil
}

func (p *SQLProvider) CountVisitors(ctx context.Context, filter VisitorFilter) (int, error) {
	where, args := filter.whereClause()

	var count int
	err := p.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM visitors"+where, args...)
	return count, err
}

func (p *SQLProvider) ListVisitors(ctx context.Context, filter VisitorFilter, limit, offset int) ([]Visitor, error) {
	where, args := filter.whereClause()

	// Most recent first; ties fall back to insertion order.
	query := "SELECT id, name, purpose, visited_at, created_at FROM visitors" + where +
		" ORDER BY visited_at DESC, id ASC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	visitors := []Visitor{}
	if err := p.db.SelectContext(ctx, &visitors, query, args...); err != nil {
		return nil, err
	}
	return visitors, nil
}

func (p *SQLProvider) ListAllVisitors(ctx context.Context) ([]Visitor, error) {
	visitors := []Visitor{}
	err := p.db.SelectContext(ctx, &visitors,
		"SELECT id, name, purpose, visited_at, created_at FROM visitors ORDER BY visited_at DESC, id ASC")
	if err != nil {
		return nil, err
	}
	return visitors, nil
}

func (p *SQLProvider) CountVisitorsSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := p.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM visitors WHERE visited_at >= ?", since)
	return count, err
}

// Admin accounts

func (p *SQLProvider) CreateAdmin(ctx context.Context, admin Admin) error {
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now()
	}

	_, err := p.db.ExecContext(ctx,
		"INSERT INTO admins (username, password_hash, created_at) VALUES (?, ?, ?)",
		admin.Username, admin.PasswordHash, admin.CreatedAt)
	if err != nil {
		// Unique constraint on username closes the original
		// check-then-insert race.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrAdminExists
		}
		return err
	}
	return nil
}

func (p *SQLProvider) GetAdmin(ctx context.Context, username string) (*Admin, error) {
	var admin Admin
	err := p.db.GetContext(ctx, &admin,
		"SELECT id, username, password_hash, created_at FROM admins WHERE username = ?", username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (p *SQLProvider) UpdateAdminPassword(ctx context.Context, username, passwordHash string) error {
	res, err := p.db.ExecContext(ctx,
		"UPDATE admins SET password_hash = ? WHERE username = ?", passwordHash, username)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// Session nonces

func (p *SQLProvider) CreateNonce(ctx context.Context, nonce string, expiresAt time.Time) error {
	_, err := p.db.ExecContext(ctx,
		"INSERT INTO nonces (nonce, expires_at) VALUES (?, ?)", nonce, expiresAt)
	return err
}

func (p *SQLProvider) ExistsNonce(ctx context.Context, nonce string) (bool, error) {
	var count int
	err := p.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM nonces WHERE nonce = ? AND expires_at > ?", nonce, time.Now())
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *SQLProvider) ConsumeNonce(ctx context.Context, nonce string) (bool, error) {
	res, err := p.db.ExecContext(ctx,
		"DELETE FROM nonces WHERE nonce = ? AND expires_at > ?", nonce, time.Now())
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (p *SQLProvider) ExpireNonces(ctx context.Context, now time.Time) error {
	_, err := p.db.ExecContext(ctx, "DELETE FROM nonces WHERE expires_at <= ?", now)
	return err
}
