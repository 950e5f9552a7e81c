package nonce

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"visitorlog/internal/config"
	"visitorlog/internal/storage"
)

var Store StoreInterface

type MissingError struct {
	Nonce string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("nonce not found: %s", e.Nonce)
}

type ExpiredError struct {
	Nonce  string
	Expiry time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("nonce expired: %s (expiry: %s)", e.Nonce, e.Expiry)
}

type StoreInterface interface {
	// Put stores a nonce with a TTL.
	Put(ctx context.Context, nonce string, ttl time.Duration) error
	// Consume verifies and deletes the nonce.
	// Returns true if the nonce existed (valid request), false otherwise.
	Consume(ctx context.Context, nonce string) (bool, error)

	Exists(ctx context.Context, nonce string) bool

	ExpireNonces(ctx context.Context) error
}

// NewStore builds the appropriate Store implementation based on cfg.
func NewStore(cfg *config.Config) (StoreInterface, error) {
	switch cfg.NonceStore {
	case "memory":
		return NewMemoryStore(), nil
	case "sql":
		return &SQLStore{}, nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.NonceStore)
	}
}

func InitStore(cfg *config.Config, storageProvider storage.Provider) error {
	store, err := NewStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize nonce store: %w", err)
	}

	switch s := store.(type) {
	case *SQLStore:
		s.storage = storageProvider
		go s.janitor()
	case *MemoryStore:
		go s.janitor()
	}

	// Make the store globally accessible
	Store = store

	slog.Info("Initialized nonce store", "type", cfg.NonceStore)
	return nil
}
