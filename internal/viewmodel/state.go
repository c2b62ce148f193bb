package viewmodel

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Read fields, also used as metric labels
const (
	FieldCurrentPrice  = "currentPrice"
	FieldTimeUntilLock = "timeUntilLock"
	FieldIsActive      = "isActive"
	FieldLocked        = "locked"
	FieldTotalSupply   = "totalSupply"
	FieldTotalBurned   = "totalBurned"
	FieldBalance       = "balance"
	FieldAllowance     = "allowance"
)

// ContractSnapshot is the last known state of the mint contract. Nil fields are not loaded yet
type ContractSnapshot struct {
	CurrentPrice  *big.Int
	TimeUntilLock *uint64
	IsActive      *bool
	TotalSupply   *uint64
	TotalBurned   *big.Int
	Locked        *bool
}

func (c ContractSnapshot) IsLocked() bool {
	return c.Locked != nil && *c.Locked
}

func (c ContractSnapshot) Copy() ContractSnapshot {
	return ContractSnapshot{
		CurrentPrice:  copyBigInt(c.CurrentPrice),
		TimeUntilLock: copyPtr(c.TimeUntilLock),
		IsActive:      copyPtr(c.IsActive),
		TotalSupply:   copyPtr(c.TotalSupply),
		TotalBurned:   copyBigInt(c.TotalBurned),
		Locked:        copyPtr(c.Locked),
	}
}

// AccountSnapshot exists only while the session is connected
type AccountSnapshot struct {
	Address       common.Address
	DragonBalance *big.Int
	Allowance     *big.Int
}

func (a *AccountSnapshot) Copy() *AccountSnapshot {
	if a == nil {
		return nil
	}
	return &AccountSnapshot{
		Address:       a.Address,
		DragonBalance: copyBigInt(a.DragonBalance),
		Allowance:     copyBigInt(a.Allowance),
	}
}

type TxStatus int

const (
	TxIdle TxStatus = iota
	TxSubmitting
	TxConfirming
	TxConfirmed
	TxFailed
)

func (s TxStatus) String() string {
	switch s {
	case TxIdle:
		return "idle"
	case TxSubmitting:
		return "submitting"
	case TxConfirming:
		return "confirming"
	case TxConfirmed:
		return "confirmed"
	case TxFailed:
		return "failed"
	}
	return "unknown"
}

// TxState is the lifecycle of the latest transaction attempt of one kind
type TxState struct {
	Status    TxStatus
	AttemptID string
	TxHash    *common.Hash // set from Confirming on
	Reason    string       // set in Failed
}

func (s TxState) InProgress() bool {
	return s.Status == TxSubmitting || s.Status == TxConfirming
}

// Snapshot is a consistent copy of the view model state
type Snapshot struct {
	Mounted          bool
	Contract         ContractSnapshot
	Account          *AccountSnapshot
	SecondsRemaining uint64
	Approval         TxState
	Mint             TxState
	MintSuccess      bool
	NeedsApproval    bool
	HasEnoughBalance bool
}

// NeedsApproval is true only when both allowance and price are known and allowance is below price
func NeedsApproval(account *AccountSnapshot, price *big.Int) bool {
	if account == nil || account.Allowance == nil || price == nil {
		return false
	}
	return account.Allowance.Cmp(price) < 0
}

// HasEnoughBalance is true only when both balance and price are known and balance covers the price
func HasEnoughBalance(account *AccountSnapshot, price *big.Int) bool {
	if account == nil || account.DragonBalance == nil || price == nil {
		return false
	}
	return account.DragonBalance.Cmp(price) >= 0
}

func copyBigInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
