package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-peer/internal/entity"
)

const (
	resultsKey = "results"
	statsKey   = "stats"

	// MaxResults - number of finished rounds kept in the history list.
	MaxResults = 100

	statsFieldX    = "x"
	statsFieldO    = "o"
	statsFieldDraw = "draw"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	Stats(ctx context.Context) (entity.Stats, error)
	List(ctx context.Context, limit int) ([]*entity.Result, error)
}

type dbResult struct {
	client *redis.Client
}

func NewResultRepository(client *redis.Client) ResultRepository {
	return &dbResult{
		client: client,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal result: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, resultsKey, resultJSON)
		pipe.LTrim(ctx, resultsKey, 0, MaxResults-1)
		pipe.HIncrBy(ctx, statsKey, statsField(result.Winner), 1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}

	return nil
}

func (that *dbResult) Stats(ctx context.Context) (entity.Stats, error) {
	values, err := that.client.HGetAll(ctx, statsKey).Result()
	if err != nil {
		return entity.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	var stats entity.Stats
	for field, target := range map[string]*int64{
		statsFieldX:    &stats.XWins,
		statsFieldO:    &stats.OWins,
		statsFieldDraw: &stats.Draws,
	} {
		raw, ok := values[field]
		if !ok {
			continue
		}

		if *target, err = strconv.ParseInt(raw, 10, 64); err != nil {
			return entity.Stats{}, fmt.Errorf("failed to parse %s counter: %w", field, err)
		}
	}

	return stats, nil
}

func (that *dbResult) List(ctx context.Context, limit int) ([]*entity.Result, error) {
	limit = clampLimit(limit)

	response, err := that.client.LRange(ctx, resultsKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	results := make([]*entity.Result, 0, len(response))
	for _, raw := range response {
		var result entity.Result
		if err = json.Unmarshal([]byte(raw), &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result: %w", err)
		}
		results = append(results, &result)
	}

	return results, nil
}

func statsField(winner entity.Cell) string {
	switch winner {
	case entity.MarkX:
		return statsFieldX
	case entity.MarkO:
		return statsFieldO
	default:
		return statsFieldDraw
	}
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxResults {
		return MaxResults
	}
	return limit
}
