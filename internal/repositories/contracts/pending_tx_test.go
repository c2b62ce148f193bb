package contracts

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func newTestTx() *types.Transaction {
	to := common.HexToAddress("0x01")
	return types.NewTx(&types.LegacyTx{Nonce: 1, To: &to, Gas: 21000, GasPrice: big.NewInt(1), Value: big.NewInt(0)})
}

func TestPendingTxSuccess(t *testing.T) {
	client := newEthClientMock()
	client.receipt = &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(10)}

	tx := newTestTx()
	pending := NewPendingTx(tx, client)
	require.Equal(t, tx.Hash(), pending.Hash())
	require.NoError(t, pending.Wait(context.Background()))
}

func TestPendingTxReverted(t *testing.T) {
	client := newEthClientMock()
	client.receipt = &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(10)}

	err := NewPendingTx(newTestTx(), client).Wait(context.Background())
	require.ErrorIs(t, err, ErrReverted)
}

func TestPendingTxWaitCancelled(t *testing.T) {
	client := newEthClientMock() // receipt never arrives

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewPendingTx(newTestTx(), client).Wait(ctx)
	require.ErrorIs(t, err, ErrWait)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
