package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/tictactoe-peer/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-peer/internal/entity"
)

type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeWin      Outcome = "win"
	OutcomeDraw     Outcome = "draw"
)

// Replies to POST /game/move, read back by the sending instance.
const (
	ReplyMoveAccepted = "Move accepted"
	ReplyWinnerPrefix = "Winner is "
	ReplyDraw         = "It's a draw!"
)

const (
	// outboundTimeout bounds storing a result and telling the peer to reset.
	outboundTimeout = 10 * time.Second

	// defaultPeerResetWait is how long a finished round waits for the peer's reset.
	defaultPeerResetWait = 15 * time.Second
)

// RoundEndedReply - reports whether a move reply announces a win or a draw.
func RoundEndedReply(reply string) bool {
	return strings.HasPrefix(reply, ReplyWinnerPrefix) || reply == ReplyDraw
}

type engine interface {
	ApplyMove(row, col int) bool
	CheckWinner() entity.Cell
	IsBoardFull() bool
	Board() entity.Board
	CurrentPlayer() entity.Player
	Moves() int
	Reset()
}

type peerNotifier interface {
	NotifyMove(ctx context.Context, move entity.Move) (string, error)
	NotifyReset(ctx context.Context) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
	Stats(ctx context.Context) (entity.Stats, error)
	List(ctx context.Context, limit int) ([]*entity.Result, error)
}

type MoveResult struct {
	Move    entity.Move
	Outcome Outcome
	Winner  entity.Cell
}

// BoardView is a point in time copy of the round.
type BoardView struct {
	RoundID       string        `json:"round_id"`
	Board         entity.Board  `json:"board"`
	CurrentPlayer entity.Player `json:"current_player"`
	Winner        entity.Cell   `json:"winner"`
	Moves         int           `json:"moves"`
	SkipNextTurn  bool          `json:"skip_next_turn"`
}

// GameManager owns the engine. Every engine call happens under mu; peer calls never do.
type GameManager struct {
	logger  *slog.Logger
	peer    peerNotifier
	results resultRepo

	mu           sync.Mutex
	engine       engine
	roundID      string
	skipNextTurn bool

	// lastInbound is the answer given to the last sequenced peer move, kept to answer its redelivery.
	lastInbound *MoveResult

	// resetDeadline is set while a round finished by our own move waits for the peer's reset.
	resetDeadline time.Time
	peerResetWait time.Duration

	pick func(n int) int
	now  func() time.Time
}

func NewGameManager(logger *slog.Logger, engine engine, peer peerNotifier, results resultRepo) *GameManager {
	return &GameManager{
		logger:  logger.With("component", "game_manager"),
		peer:    peer,
		results: results,

		engine:  engine,
		roundID: uuid.NewString(),

		// the very first tick after start is skipped, the same way as after finishing a round
		skipNextTurn:  true,
		peerResetWait: defaultPeerResetWait,

		pick: rand.Intn, //nolint: gosec // it's ok
		now:  time.Now,
	}
}

// MakeMove - applies a move received from the peer or a user.
// A move that ends the round finishes it: the result is stored, the board is reset and the peer is told to reset.
func (that *GameManager) MakeMove(ctx context.Context, row, col int) (*MoveResult, error) {
	return that.MakeSequencedMove(ctx, row, col, 0)
}

// MakeSequencedMove - MakeMove for a move that carries its position in the round.
// A redelivery of the last applied move gets the same answer without touching the board,
// any other seq that is not the next one is rejected.
func (that *GameManager) MakeSequencedMove(ctx context.Context, row, col, seq int) (*MoveResult, error) {
	that.mu.Lock()

	if last := that.lastInbound; seq > 0 && last != nil &&
		last.Move.Seq == seq && last.Move.Row == row && last.Move.Col == col {
		replay := *last
		that.mu.Unlock()

		that.logger.Debug("repeated move delivery", "row", row, "col", col, "seq", seq)
		return &replay, nil
	}

	if that.roundOverLocked() {
		that.mu.Unlock()
		return nil, apperror.ErrRoundFinished
	}

	if seq > 0 && seq != that.engine.Moves()+1 {
		moves := that.engine.Moves()
		that.mu.Unlock()
		return nil, fmt.Errorf("%w: seq %d after %d moves", apperror.ErrInvalidMove, seq, moves)
	}

	player := that.engine.CurrentPlayer()
	if !that.engine.ApplyMove(row, col) {
		that.mu.Unlock()
		return nil, fmt.Errorf("%w: row %d col %d", apperror.ErrInvalidMove, row, col)
	}

	moveResult := &MoveResult{
		Move:    entity.Move{Row: row, Col: col, Player: player, Seq: that.engine.Moves()},
		Outcome: OutcomeAccepted,
	}

	finished := that.finishRoundLocked()
	if finished != nil {
		moveResult.Winner = finished.Winner
		moveResult.Outcome = OutcomeWin
		if finished.IsDraw() {
			moveResult.Outcome = OutcomeDraw
		}
	}

	that.lastInbound = nil
	if seq > 0 {
		remembered := *moveResult
		that.lastInbound = &remembered
	}
	that.mu.Unlock()

	if finished == nil {
		return moveResult, nil
	}

	// the caller may hang up before the peer has been told to reset
	outCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), outboundTimeout)
	defer cancel()

	that.recordResult(outCtx, finished)
	that.notifyReset(outCtx)

	return moveResult, nil
}

// Reset - the peer finished the round, this instance moves first in the next one.
func (that *GameManager) Reset(_ context.Context) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.resetLocked()
	that.skipNextTurn = false
	that.lastInbound = nil

	that.logger.Info("game reset by peer", "round_id", that.roundID)
}

// AutoMove - one auto-player tick. Returns nil move when the tick was skipped.
func (that *GameManager) AutoMove(ctx context.Context) (*entity.Move, error) {
	log := that.logger.With("method", "AutoMove")

	that.mu.Lock()

	if that.roundOverLocked() {
		if that.resetDeadline.IsZero() || that.now().Before(that.resetDeadline) {
			that.mu.Unlock()
			return nil, nil
		}

		// the peer announced the end but its reset never arrived
		log.Warn("no reset from opponent, resetting locally", "round_id", that.roundID)
		that.resetLocked()
		that.skipNextTurn = false
	}

	if that.skipNextTurn {
		that.skipNextTurn = false
		that.mu.Unlock()
		log.Debug("skipping turn, the peer moves first")
		return nil, nil
	}

	cells := that.engine.Board().EmptyCells()
	cell := cells[that.pick(len(cells))]

	move := entity.Move{Row: cell[0], Col: cell[1], Player: that.engine.CurrentPlayer()}
	if !that.engine.ApplyMove(move.Row, move.Col) {
		that.mu.Unlock()
		return nil, fmt.Errorf("%w: picked cell %d,%d", apperror.ErrInvalidMove, move.Row, move.Col)
	}
	move.Seq = that.engine.Moves()

	roundID := that.roundID
	over := that.roundOverLocked()
	that.mu.Unlock()

	log.Info("auto move", "row", move.Row, "col", move.Col, "player", move.Player, "round_id", roundID)

	reply, err := that.peer.NotifyMove(ctx, move)
	if err != nil {
		log.Error("error notifying opponent", "error", err)

		// the peer would normally detect the end and reset both boards
		if over {
			that.finishRoundIfCurrent(ctx, roundID)
		}

		return &move, fmt.Errorf("failed to notify opponent: %w", err)
	}

	if over {
		if RoundEndedReply(reply) {
			that.awaitPeerReset(roundID)
		} else {
			log.Warn("opponent did not see the round end", "reply", reply, "round_id", roundID)
			that.finishRoundIfCurrent(ctx, roundID)
		}
	}

	return &move, nil
}

func (that *GameManager) Board(_ context.Context) BoardView {
	that.mu.Lock()
	defer that.mu.Unlock()

	return BoardView{
		RoundID:       that.roundID,
		Board:         that.engine.Board(),
		CurrentPlayer: that.engine.CurrentPlayer(),
		Winner:        that.engine.CheckWinner(),
		Moves:         that.engine.Moves(),
		SkipNextTurn:  that.skipNextTurn,
	}
}

func (that *GameManager) Stats(ctx context.Context) (entity.Stats, error) {
	stats, err := that.results.Stats(ctx)
	if err != nil {
		return entity.Stats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	return stats, nil
}

func (that *GameManager) History(ctx context.Context, limit int) ([]*entity.Result, error) {
	results, err := that.results.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return results, nil
}

func (that *GameManager) awaitPeerReset(roundID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.roundID == roundID {
		that.resetDeadline = that.now().Add(that.peerResetWait)
	}
}

func (that *GameManager) finishRoundIfCurrent(ctx context.Context, roundID string) {
	that.mu.Lock()
	if that.roundID != roundID {
		that.mu.Unlock()
		return
	}
	finished := that.finishRoundLocked()
	that.mu.Unlock()

	if finished != nil {
		that.recordResult(ctx, finished)
	}
}

// finishRoundLocked - resets the board when the round is over and returns its result, nil otherwise.
func (that *GameManager) finishRoundLocked() *entity.Result {
	if !that.roundOverLocked() {
		return nil
	}

	result := &entity.Result{
		RoundID:    that.roundID,
		Winner:     that.engine.CheckWinner(),
		Board:      that.engine.Board(),
		Moves:      that.engine.Moves(),
		FinishedAt: that.now().UTC(),
	}

	that.resetLocked()
	that.skipNextTurn = true

	return result
}

func (that *GameManager) roundOverLocked() bool {
	return !that.engine.CheckWinner().IsEmpty() || that.engine.IsBoardFull()
}

func (that *GameManager) resetLocked() {
	that.engine.Reset()
	that.roundID = uuid.NewString()
	that.resetDeadline = time.Time{}
}

func (that *GameManager) recordResult(ctx context.Context, result *entity.Result) {
	log := that.logger.With("method", "recordResult")

	if result.IsDraw() {
		log.Info("It's a draw! Resetting game...", "round_id", result.RoundID, "board", result.Board.Rows())
	} else {
		log.Info("Winner is "+string(result.Winner)+" Resetting game...", "round_id", result.RoundID, "board", result.Board.Rows())
	}

	if err := that.results.Save(ctx, result); err != nil {
		log.Error("failed to save result", "error", err)
	}
}

func (that *GameManager) notifyReset(ctx context.Context) {
	if err := that.peer.NotifyReset(ctx); err != nil {
		that.logger.Error("error notifying opponent about reset", "error", err)
	}
}
