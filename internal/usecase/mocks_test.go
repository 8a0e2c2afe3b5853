package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/rocketscienceinc/tictactoe-peer/internal/entity"
)

type mockPeer struct {
	mock.Mock
}

func (that *mockPeer) NotifyMove(ctx context.Context, move entity.Move) (string, error) {
	args := that.Called(ctx, move)
	return args.String(0), args.Error(1)
}

func (that *mockPeer) NotifyReset(ctx context.Context) error {
	args := that.Called(ctx)
	return args.Error(0)
}

type mockResults struct {
	mock.Mock
}

func (that *mockResults) Save(ctx context.Context, result *entity.Result) error {
	args := that.Called(ctx, result)
	return args.Error(0)
}

func (that *mockResults) Stats(ctx context.Context) (entity.Stats, error) {
	args := that.Called(ctx)
	return args.Get(0).(entity.Stats), args.Error(1)
}

func (that *mockResults) List(ctx context.Context, limit int) ([]*entity.Result, error) {
	args := that.Called(ctx, limit)

	results, _ := args.Get(0).([]*entity.Result)
	return results, args.Error(1)
}
