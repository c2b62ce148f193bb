package httphandlers

import (
	"math/big"

	"github.com/dragon-bot-z/dragonfire-client/internal/viewmodel"
)

type ConfigResponse struct {
	Version string      `json:"version"`
	Config  interface{} `json:"config"`
}

type TxStartedResponse struct {
	Kind      string `json:"kind"`
	AttemptID string `json:"attemptId"`
}

// SnapshotResponse is the raw view model state, 256-bit values are decimal strings, nil is not loaded yet
type SnapshotResponse struct {
	Mounted          bool             `json:"mounted"`
	Contract         ContractResponse `json:"contract"`
	Account          *AccountResponse `json:"account"`
	SecondsRemaining uint64           `json:"secondsRemaining"`
	NeedsApproval    bool             `json:"needsApproval"`
	HasEnoughBalance bool             `json:"hasEnoughBalance"`
	Approval         TxStateResponse  `json:"approval"`
	Mint             TxStateResponse  `json:"mint"`
	MintSuccess      bool             `json:"mintSuccess"`
}

type ContractResponse struct {
	CurrentPrice         *string `json:"currentPrice"`
	TimeUntilLockSeconds *uint64 `json:"timeUntilLockSeconds"`
	IsActive             *bool   `json:"isActive"`
	TotalSupply          *uint64 `json:"totalSupply"`
	TotalBurned          *string `json:"totalBurned"`
	Locked               *bool   `json:"locked"`
}

type AccountResponse struct {
	Address       string  `json:"address"`
	DragonBalance *string `json:"dragonBalance"`
	Allowance     *string `json:"allowance"`
}

type TxStateResponse struct {
	Status    string  `json:"status"`
	AttemptID string  `json:"attemptId,omitempty"`
	TxHash    *string `json:"txHash,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

func MapSnapshot(snap viewmodel.Snapshot) *SnapshotResponse {
	res := &SnapshotResponse{
		Mounted: snap.Mounted,
		Contract: ContractResponse{
			CurrentPrice:         BigIntPtrToStringPtr(snap.Contract.CurrentPrice),
			TimeUntilLockSeconds: snap.Contract.TimeUntilLock,
			IsActive:             snap.Contract.IsActive,
			TotalSupply:          snap.Contract.TotalSupply,
			TotalBurned:          BigIntPtrToStringPtr(snap.Contract.TotalBurned),
			Locked:               snap.Contract.Locked,
		},
		SecondsRemaining: snap.SecondsRemaining,
		NeedsApproval:    snap.NeedsApproval,
		HasEnoughBalance: snap.HasEnoughBalance,
		Approval:         MapTxState(snap.Approval),
		Mint:             MapTxState(snap.Mint),
		MintSuccess:      snap.MintSuccess,
	}

	if snap.Account != nil {
		res.Account = &AccountResponse{
			Address:       snap.Account.Address.Hex(),
			DragonBalance: BigIntPtrToStringPtr(snap.Account.DragonBalance),
			Allowance:     BigIntPtrToStringPtr(snap.Account.Allowance),
		}
	}

	return res
}

func MapTxState(s viewmodel.TxState) TxStateResponse {
	res := TxStateResponse{
		Status:    s.Status.String(),
		AttemptID: s.AttemptID,
		Reason:    s.Reason,
	}
	if s.TxHash != nil {
		hash := s.TxHash.Hex()
		res.TxHash = &hash
	}
	return res
}

// BigIntPtrToStringPtr converts nullable big.Int to nullable decimal string
func BigIntPtrToStringPtr(v *big.Int) *string {
	if v != nil {
		s := v.String()
		return &s
	}
	return nil
}
