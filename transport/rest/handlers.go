package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rocketscienceinc/tictactoe-peer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-peer/internal/entity"
	"github.com/rocketscienceinc/tictactoe-peer/internal/usecase"
)

const (
	msgInvalidMove = "Invalid move"
	msgGameReset   = "Game reset"
	msgRoundOver   = "Round is finished"

	defaultHistoryLimit = 10
)

type gameUseCase interface {
	MakeSequencedMove(ctx context.Context, row, col, seq int) (*usecase.MoveResult, error)
	Reset(ctx context.Context)
	Board(ctx context.Context) usecase.BoardView
	Stats(ctx context.Context) (entity.Stats, error)
	History(ctx context.Context, limit int) ([]*entity.Result, error)
}

type GameHandlers struct {
	logger *slog.Logger
	game   gameUseCase
}

func NewGameHandlers(logger *slog.Logger, game gameUseCase) *GameHandlers {
	return &GameHandlers{
		logger: logger.With("component", "rest"),
		game:   game,
	}
}

func (that *GameHandlers) Ping(w http.ResponseWriter, _ *http.Request) {
	that.writeText(w, http.StatusOK, "pong")
}

// MakeMove - POST /game/move?row=R&col=C[&seq=N].
func (that *GameHandlers) MakeMove(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "MakeMove")

	query := r.URL.Query()
	row, rowErr := strconv.Atoi(query.Get("row"))
	col, colErr := strconv.Atoi(query.Get("col"))
	if rowErr != nil || colErr != nil {
		that.writeText(w, http.StatusBadRequest, msgInvalidMove)
		return
	}

	seq := 0
	if raw := query.Get("seq"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			that.writeText(w, http.StatusBadRequest, msgInvalidMove)
			return
		}
		seq = parsed
	}

	result, err := that.game.MakeSequencedMove(r.Context(), row, col, seq)
	switch {
	case errors.Is(err, apperror.ErrInvalidMove):
		log.Debug("move rejected", "row", row, "col", col, "seq", seq, "error", err)
		that.writeText(w, http.StatusBadRequest, msgInvalidMove)
		return
	case errors.Is(err, apperror.ErrRoundFinished):
		that.writeText(w, http.StatusConflict, msgRoundOver)
		return
	case err != nil:
		log.Error("failed to make move", "error", err)
		that.writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	switch result.Outcome {
	case usecase.OutcomeWin:
		that.writeText(w, http.StatusOK, usecase.ReplyWinnerPrefix+string(result.Winner))
	case usecase.OutcomeDraw:
		that.writeText(w, http.StatusOK, usecase.ReplyDraw)
	default:
		that.writeText(w, http.StatusOK, usecase.ReplyMoveAccepted)
	}
}

// GetBoard - GET /game/board, the grid as 3x3 single characters.
func (that *GameHandlers) GetBoard(w http.ResponseWriter, r *http.Request) {
	that.writeJSON(w, http.StatusOK, that.game.Board(r.Context()).Board)
}

func (that *GameHandlers) GetState(w http.ResponseWriter, r *http.Request) {
	that.writeJSON(w, http.StatusOK, that.game.Board(r.Context()))
}

// Reset - POST /game/reset, sent by the peer after it finished a round.
func (that *GameHandlers) Reset(w http.ResponseWriter, r *http.Request) {
	that.game.Reset(r.Context())
	that.writeText(w, http.StatusOK, msgGameReset)
}

func (that *GameHandlers) Redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/game/board", http.StatusFound)
}

func (that *GameHandlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.game.Stats(r.Context())
	if err != nil {
		that.logger.Error("failed to get stats", "error", err)
		that.writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

// GetHistory - GET /game/history?limit=N, newest first.
func (that *GameHandlers) GetHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			that.writeText(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	results, err := that.game.History(r.Context(), limit)
	if err != nil {
		that.logger.Error("failed to get history", "error", err)
		that.writeText(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	that.writeJSON(w, http.StatusOK, results)
}

func (that *GameHandlers) writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *GameHandlers) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		that.logger.Error("failed to encode response", "error", err)
	}
}
