package peer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/rocketscienceinc/tictactoe-peer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-peer/internal/entity"
)

const (
	movePath  = "/game/move"
	resetPath = "/game/reset"

	maxBodyBytes = 1 << 10

	initialBackoff = 100 * time.Millisecond
)

var ErrRejected = errors.New("peer rejected the request")

// Client notifies the opponent instance about moves and resets.
type Client struct {
	logger     *slog.Logger
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
}

func New(logger *slog.Logger, baseURL string, timeout time.Duration, maxRetries uint64) *Client {
	return &Client{
		logger:     logger.With("component", "peer"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}
}

// NotifyMove - asks the peer to apply the move on its board and returns its reply.
// Retries are safe only for sequenced moves, so unsequenced ones are sent once.
func (that *Client) NotifyMove(ctx context.Context, move entity.Move) (string, error) {
	query := url.Values{}
	query.Set("row", strconv.Itoa(move.Row))
	query.Set("col", strconv.Itoa(move.Col))
	if move.Seq > 0 {
		// lets the peer answer a retried delivery without applying it twice
		query.Set("seq", strconv.Itoa(move.Seq))
	}

	retries := that.maxRetries
	if move.Seq == 0 {
		retries = 0
	}

	body, err := that.post(ctx, movePath+"?"+query.Encode(), retries)
	if err != nil {
		return "", fmt.Errorf("failed to notify move %d,%d: %w", move.Row, move.Col, err)
	}

	return body, nil
}

// NotifyReset - tells the peer that the round is over and boards start fresh.
func (that *Client) NotifyReset(ctx context.Context) error {
	if _, err := that.post(ctx, resetPath, that.maxRetries); err != nil {
		return fmt.Errorf("failed to notify reset: %w", err)
	}

	return nil
}

func (that *Client) post(ctx context.Context, path string, maxRetries uint64) (string, error) {
	log := that.logger.With("method", "post", "path", path)

	var body string
	attempt := 0

	operation := func() error {
		attempt++

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, that.baseURL+path, http.NoBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
		}

		resp, err := that.httpClient.Do(req)
		if err != nil {
			log.Debug("peer request failed", "attempt", attempt, "error", err)
			return fmt.Errorf("%w: %w", apperror.ErrPeerUnavailable, err)
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		body = string(raw)

		switch {
		case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
			return nil
		case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
			return backoff.Permanent(fmt.Errorf("%w: status %d: %s", ErrRejected, resp.StatusCode, body))
		default:
			log.Debug("peer returned server error", "attempt", attempt, "status", resp.StatusCode)
			return fmt.Errorf("%w: status %d", apperror.ErrPeerUnavailable, resp.StatusCode)
		}
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialBackoff

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx))
	if err != nil {
		return "", err
	}

	return body, nil
}
