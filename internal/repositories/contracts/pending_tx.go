package contracts

import (
	"context"
	"errors"
	"fmt"

	"github.com/dragon-bot-z/dragonfire-client/internal/lib"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrReverted = errors.New("transaction reverted")
	ErrWait     = errors.New("transaction wait error")
)

// PendingTx is a submitted transaction that can be awaited
type PendingTx struct {
	tx      *types.Transaction
	backend bind.DeployBackend
}

func NewPendingTx(tx *types.Transaction, backend bind.DeployBackend) *PendingTx {
	return &PendingTx{
		tx:      tx,
		backend: backend,
	}
}

func (p *PendingTx) Hash() common.Hash {
	return p.tx.Hash()
}

// Wait has no own timeout, it ends when the transaction is mined or ctx is done
func (p *PendingTx) Wait(ctx context.Context) error {
	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return lib.WrapError(ErrWait, err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return lib.WrapError(ErrReverted, fmt.Errorf("tx %s, block %s", p.tx.Hash().Hex(), receipt.BlockNumber))
	}
	return nil
}
