package viewmodel

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func uint64Ptr(v uint64) *uint64 { return &v }
func boolPtr(v bool) *bool       { return &v }

func loadedSnapshot() Snapshot {
	account := &AccountSnapshot{
		Address:       alice,
		DragonBalance: tokens(10),
		Allowance:     tokens(1_000_000_000),
	}
	contract := ContractSnapshot{
		CurrentPrice:  tokens(5),
		TimeUntilLock: uint64Ptr(7200),
		IsActive:      boolPtr(true),
		TotalSupply:   uint64Ptr(12),
		TotalBurned:   tokens(2_500_000),
		Locked:        boolPtr(false),
	}
	return Snapshot{
		Mounted:          true,
		Contract:         contract,
		Account:          account,
		SecondsRemaining: 7200,
		NeedsApproval:    NeedsApproval(account, contract.CurrentPrice),
		HasEnoughBalance: HasEnoughBalance(account, contract.CurrentPrice),
	}
}

func TestCountdownLevel(t *testing.T) {
	require.Equal(t, CountdownCritical, countdownLevel(0))
	require.Equal(t, CountdownCritical, countdownLevel(3599))
	require.Equal(t, CountdownWarning, countdownLevel(3600))
	require.Equal(t, CountdownWarning, countdownLevel(7199))
	require.Equal(t, CountdownOK, countdownLevel(7200))
}

func TestCardMintReady(t *testing.T) {
	links := Links{Marketplace: "https://opensea.io/collection/dragon-fire-475567302"}
	card := BuildCard(loadedSnapshot(), links)

	require.False(t, card.Locked)
	require.Equal(t, "02:00:00", card.Countdown)
	require.Equal(t, CountdownOK, card.CountdownLevel)
	require.Equal(t, "5.00", card.Price)
	require.Equal(t, "12", card.TotalSupply)
	require.Equal(t, "2.50M", card.TotalBurned)
	require.True(t, card.Connected)
	require.Equal(t, alice.Hex(), card.Account)
	require.Equal(t, ActionMint, card.Action)
	require.True(t, card.ActionEnabled)
	require.Equal(t, links, card.Links)
}

func TestCardMinting(t *testing.T) {
	snap := loadedSnapshot()
	hash := common.HexToHash("0x01")
	snap.Mint = TxState{Status: TxConfirming, AttemptID: "a", TxHash: &hash}

	card := BuildCard(snap, Links{})
	require.Equal(t, "Minting...", card.ActionLabel)
	require.False(t, card.ActionEnabled)
}

func TestCardErrors(t *testing.T) {
	snap := loadedSnapshot()
	snap.Approval = TxState{Status: TxFailed, Reason: "user rejected"}
	snap.Mint = TxState{Status: TxFailed, Reason: "execution reverted"}

	card := BuildCard(snap, Links{})
	require.Equal(t, "user rejected", card.ApproveError)
	require.Equal(t, "execution reverted", card.MintError)
	// failed attempts can be retried
	require.True(t, card.ActionEnabled)
}

func TestCardBalanceWarning(t *testing.T) {
	snap := loadedSnapshot()
	snap.Account.DragonBalance = big.NewInt(1_500_000_000_000_000_000)
	snap.HasEnoughBalance = false

	card := BuildCard(snap, Links{})
	require.Equal(t, "Insufficient $DRAGON", card.ActionLabel)
	require.False(t, card.ActionEnabled)
	require.Equal(t, "Your balance: 1.50 $DRAGON", card.BalanceWarning)

	snap.Account.DragonBalance = nil
	card = BuildCard(snap, Links{})
	require.Empty(t, card.BalanceWarning)
}

func TestCardCountdownLevels(t *testing.T) {
	snap := loadedSnapshot()
	snap.SecondsRemaining = 3599
	require.Equal(t, CountdownCritical, BuildCard(snap, Links{}).CountdownLevel)

	snap.SecondsRemaining = 5000
	require.Equal(t, CountdownWarning, BuildCard(snap, Links{}).CountdownLevel)
}

func TestCardLockedHidesActions(t *testing.T) {
	snap := loadedSnapshot()
	snap.Contract.Locked = boolPtr(true)
	snap.MintSuccess = true

	card := BuildCard(snap, Links{})
	require.True(t, card.Locked)
	require.Equal(t, "LOCKED FOREVER", card.LockedTitle)
	require.Equal(t, ActionNone, card.Action)
	require.False(t, card.ActionEnabled)
	require.Empty(t, card.ActionLabel)
}

func TestCardDisconnected(t *testing.T) {
	snap := loadedSnapshot()
	snap.Account = nil
	snap.NeedsApproval = false
	snap.HasEnoughBalance = false

	card := BuildCard(snap, Links{})
	require.False(t, card.Connected)
	require.Empty(t, card.Account)
	require.Equal(t, ActionNone, card.Action)
	require.Equal(t, "5.00", card.Price)
}
