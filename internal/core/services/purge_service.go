package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vncsmyrnk/dailygoals/internal/core/domain"
	"github.com/vncsmyrnk/dailygoals/internal/core/ports"
	"github.com/vncsmyrnk/dailygoals/internal/metrics"
)

type purgeService struct {
	repo ports.TokenRepository
	now  func() time.Time
}

func NewPurgeService(repo ports.TokenRepository) ports.PurgeService {
	return &purgeService{
		repo: repo,
		now:  time.Now,
	}
}

// PurgeDeadTokens deletes access and refresh tokens that expired or were
// revoked more than retention ago. Both kinds are purged concurrently.
func (s *purgeService) PurgeDeadTokens(ctx context.Context, retention time.Duration) (map[domain.TokenKind]int64, error) {
	cutoff := s.now().UTC().Add(-retention)
	kinds := []domain.TokenKind{domain.TokenKindAccess, domain.TokenKindRefresh}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		deleted = make(map[domain.TokenKind]int64, len(kinds))
		errChan = make(chan error, len(kinds))
	)

	for _, kind := range kinds {
		wg.Add(1)
		go func(kind domain.TokenKind) {
			defer wg.Done()
			n, err := s.repo.PurgeDead(ctx, kind, cutoff)
			if err != nil {
				errChan <- fmt.Errorf("failed to purge %s tokens: %w", kind, err)
				return
			}
			metrics.RecordTokensPurged(string(kind), n)
			mu.Lock()
			deleted[kind] = n
			mu.Unlock()
		}(kind)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return deleted, err
		}
	}

	return deleted, nil
}
