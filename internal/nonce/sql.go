package nonce

import (
	"context"
	"log/slog"
	"time"

	"visitorlog/internal/storage"
)

// SQLStore persists nonces through the storage provider, so revocations
// survive a process restart.
type SQLStore struct {
	storage storage.Provider
}

func (s *SQLStore) Put(ctx context.Context, nonce string, ttl time.Duration) error {
	return s.storage.CreateNonce(ctx, nonce, time.Now().Add(ttl))
}

func (s *SQLStore) Consume(ctx context.Context, nonce string) (bool, error) {
	return s.storage.ConsumeNonce(ctx, nonce)
}

func (s *SQLStore) Exists(ctx context.Context, nonce string) bool {
	exists, err := s.storage.ExistsNonce(ctx, nonce)
	if err != nil {
		slog.Error("Failed to check nonce existence", "error", err)
		return false
	}
	return exists
}

func (s *SQLStore) ExpireNonces(ctx context.Context) error {
	return s.storage.ExpireNonces(ctx, time.Now())
}

func (s *SQLStore) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for range ticker.C {
		if err := s.ExpireNonces(context.Background()); err != nil {
			slog.Warn("Failed to expire nonces", "error", err)
		}
	}
}
