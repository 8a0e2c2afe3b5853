package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-peer/internal/entity"
)

type memoryResult struct {
	mu      sync.RWMutex
	results []*entity.Result
	stats   entity.Stats
}

// NewMemoryResultRepository - results store used when redis is disabled. Nothing survives a restart.
func NewMemoryResultRepository() ResultRepository {
	return &memoryResult{}
}

func (that *memoryResult) Save(_ context.Context, result *entity.Result) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	stored := *result
	that.results = append([]*entity.Result{&stored}, that.results...)
	if len(that.results) > MaxResults {
		that.results = that.results[:MaxResults]
	}

	switch statsField(result.Winner) {
	case statsFieldX:
		that.stats.XWins++
	case statsFieldO:
		that.stats.OWins++
	default:
		that.stats.Draws++
	}

	return nil
}

func (that *memoryResult) Stats(_ context.Context) (entity.Stats, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return that.stats, nil
}

func (that *memoryResult) List(_ context.Context, limit int) ([]*entity.Result, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	limit = min(clampLimit(limit), len(that.results))

	results := make([]*entity.Result, 0, limit)
	for _, result := range that.results[:limit] {
		copied := *result
		results = append(results, &copied)
	}

	return results, nil
}
