package viewmodel

import (
	"context"
	"math/big"

	"github.com/dragon-bot-z/dragonfire-client/internal/interfaces"
	"github.com/ethereum/go-ethereum/common"
)

type ChainReader interface {
	CurrentPrice(ctx context.Context) (*big.Int, error)
	TimeUntilLock(ctx context.Context) (uint64, error)
	IsActive(ctx context.Context) (bool, error)
	Locked(ctx context.Context) (bool, error)
	TotalSupply(ctx context.Context) (uint64, error)
	TotalBurned(ctx context.Context) (*big.Int, error)
	BalanceOf(ctx context.Context, account common.Address) (*big.Int, error)
	Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error)
}

type ChainWriter interface {
	Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (interfaces.PendingTx, error)
	Mint(ctx context.Context, from common.Address) (interfaces.PendingTx, error)
}

// Session reports the connected account and notifies about connection changes
type Session interface {
	Account() (common.Address, bool)
	Subscribe(handler func(account common.Address, connected bool)) (unsubscribe func())
}

// Recorder receives counters of the view model, implemented by metrics.Metrics
type Recorder interface {
	ReadFailed(field string)
	Refreshed(scope string)
	TxFinished(kind, outcome string)
	ObserveLocked(locked bool)
}

type nopRecorder struct{}

func (nopRecorder) ReadFailed(string)         {}
func (nopRecorder) Refreshed(string)          {}
func (nopRecorder) TxFinished(string, string) {}
func (nopRecorder) ObserveLocked(bool)        {}
