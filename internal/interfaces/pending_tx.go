package interfaces

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
)

// PendingTx is a handle of a submitted transaction
type PendingTx interface {
	Hash() common.Hash
	// Wait blocks until the transaction is included. Returns error if it was reverted or waiting failed
	Wait(ctx context.Context) error
}
