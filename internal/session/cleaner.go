package session

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// StartCleaner removes expired sessions from store every interval until ctx is done.
func StartCleaner(
	ctx context.Context,
	store Store,
	interval time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed, err := store.CleanupExpired(ctx)
				if err != nil {
					log.Error("failed to clean expired sessions", zap.Error(err))
					continue
				}
				if removed > 0 {
					log.Info("cleaned expired sessions", zap.Int("removed", removed))
				}
			}
		}
	}()
}
