package viewmodel

import (
	"context"
	"math/big"
	"sync"

	"github.com/dragon-bot-z/dragonfire-client/internal/interfaces"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/google/uuid"
)

const (
	TxKindApprove = "approve"
	TxKindMint    = "mint"
)

// tx outcomes, used as metric labels
const (
	OutcomeConfirmed = "confirmed"
	OutcomeRejected  = "rejected"
	OutcomeReverted  = "reverted"
)

// UnlimitedApproval is the approved amount, 2^256-1, so the approval is needed only once per account
func UnlimitedApproval() *big.Int {
	return new(big.Int).Set(math.MaxBig256)
}

// Approve starts an approval of the mint contract to spend the burn token of the connected account.
// Returns the attempt ID, the transaction is processed in background.
func (v *ViewModel) Approve() (string, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if !v.mounted.Load() {
		return "", ErrNotMounted
	}
	if v.approval.InProgress() {
		return "", ErrTxInProgress
	}
	if v.contract.IsLocked() {
		return "", ErrLocked
	}
	if v.account == nil {
		return "", ErrNotConnected
	}

	attemptID := uuid.NewString()
	from := v.account.Address
	gen := v.generation.Load()

	v.approval = TxState{Status: TxSubmitting, AttemptID: attemptID}
	v.mintSuccess = false

	v.spawn(func(ctx context.Context) {
		v.processTx(ctx, gen, TxKindApprove, attemptID, func(ctx context.Context) (interfaces.PendingTx, error) {
			return v.writer.Approve(ctx, from, v.mintAddr, v.approveAmount)
		}, func(ctx context.Context) {
			v.recorder.Refreshed(scopeAllowance)
			v.refreshAccount(ctx, gen, from, false, true)
		})
	})

	return attemptID, nil
}

// Mint starts burning the current price in the burn token for one new token.
// Returns the attempt ID, the transaction is processed in background.
func (v *ViewModel) Mint() (string, error) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if !v.mounted.Load() {
		return "", ErrNotMounted
	}
	if v.mint.InProgress() {
		return "", ErrTxInProgress
	}
	if v.contract.IsLocked() {
		return "", ErrLocked
	}
	if v.account == nil {
		return "", ErrNotConnected
	}
	if NeedsApproval(v.account, v.contract.CurrentPrice) {
		return "", ErrNeedsApproval
	}
	if !HasEnoughBalance(v.account, v.contract.CurrentPrice) {
		return "", ErrInsufficientBalance
	}

	attemptID := uuid.NewString()
	from := v.account.Address
	gen := v.generation.Load()

	v.mint = TxState{Status: TxSubmitting, AttemptID: attemptID}
	v.mintSuccess = false

	v.spawn(func(ctx context.Context) {
		v.processTx(ctx, gen, TxKindMint, attemptID, func(ctx context.Context) (interfaces.PendingTx, error) {
			return v.writer.Mint(ctx, from)
		}, func(ctx context.Context) {
			// allowance is not re-read after mint
			v.recorder.Refreshed(scopeMint)
			wg := sync.WaitGroup{}
			wg.Add(2)
			go func() {
				defer wg.Done()
				v.refreshContract(ctx, gen)
			}()
			go func() {
				defer wg.Done()
				v.refreshAccount(ctx, gen, from, true, false)
			}()
			wg.Wait()
		})
	})

	return attemptID, nil
}

// processTx submits the transaction, waits for it and runs onConfirmed if the attempt is still current
func (v *ViewModel) processTx(ctx context.Context, gen uint64, kind string, attemptID string, submit func(ctx context.Context) (interfaces.PendingTx, error), onConfirmed func(ctx context.Context)) {
	log := v.log.With("kind", kind, "attempt", attemptID)

	tx, err := submit(ctx)
	if err != nil {
		log.Warnf("transaction rejected: %s", err)
		v.finishTx(gen, kind, attemptID, err, OutcomeRejected, log)
		return
	}

	hash := tx.Hash()
	ok := v.updateTx(gen, kind, attemptID, func(s *TxState) {
		s.Status = TxConfirming
		s.TxHash = &hash
	})
	if !ok {
		log.Debugf("discarded stale submission of %s", hash.Hex())
		return
	}
	log.Infof("transaction submitted %s", hash.Hex())

	// no own timeout, the wait ends with the mount
	err = tx.Wait(ctx)
	if err != nil {
		log.Warnf("transaction %s failed: %s", hash.Hex(), err)
		v.finishTx(gen, kind, attemptID, err, OutcomeReverted, log)
		return
	}

	if !v.finishTx(gen, kind, attemptID, nil, OutcomeConfirmed, log) {
		return
	}
	log.Infof("transaction confirmed %s", hash.Hex())
	onConfirmed(ctx)
}

// finishTx moves the attempt to Confirmed or Failed, reports false if the result is stale
func (v *ViewModel) finishTx(gen uint64, kind string, attemptID string, err error, outcome string, log interfaces.ILogger) bool {
	ok := v.updateTx(gen, kind, attemptID, func(s *TxState) {
		if err != nil {
			s.Status = TxFailed
			s.Reason = err.Error()
			return
		}
		s.Status = TxConfirmed
		if kind == TxKindMint {
			v.mintSuccess = true
		}
	})
	if !ok {
		log.Debugf("discarded stale %s result", outcome)
		return false
	}
	v.recorder.TxFinished(kind, outcome)
	return true
}

func (v *ViewModel) updateTx(gen uint64, kind string, attemptID string, f func(s *TxState)) bool {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if !v.isCurrent(gen) {
		return false
	}

	state := &v.approval
	if kind == TxKindMint {
		state = &v.mint
	}
	if state.AttemptID != attemptID {
		return false
	}

	f(state)
	return true
}

// ConnectedAccount returns the account the view model currently shows
func (v *ViewModel) ConnectedAccount() (common.Address, bool) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if v.account == nil {
		return common.Address{}, false
	}
	return v.account.Address, true
}
