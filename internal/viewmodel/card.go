package viewmodel

import (
	"strconv"

	"github.com/dragon-bot-z/dragonfire-client/internal/format"
)

const (
	CountdownCritical = "critical"
	CountdownWarning  = "warning"
	CountdownOK       = "ok"

	ActionNone    = "none"
	ActionApprove = "approve"
	ActionMint    = "mint"
)

const (
	lockedTitle        = "LOCKED FOREVER"
	lockedSubtitle     = "The collection has been sealed."
	labelApprove       = "Approve $DRAGON"
	labelApproving     = "Approving..."
	labelMint          = "Burn & Mint Fire"
	labelMinting       = "Minting..."
	labelInsufficient  = "Insufficient $DRAGON"
	mintSuccessMessage = "Fire minted! Clock reset."

	criticalBelowSeconds = 3600
	warningBelowSeconds  = 7200
)

// Links are the outbound links shown under the card
type Links struct {
	Marketplace string `json:"marketplace"`
	Explorer    string `json:"explorer"`
	Source      string `json:"source"`
}

// Card is the render-ready status card
type Card struct {
	Locked         bool   `json:"locked"`
	LockedTitle    string `json:"lockedTitle,omitempty"`
	LockedSubtitle string `json:"lockedSubtitle,omitempty"`

	Countdown      string `json:"countdown"`
	CountdownLevel string `json:"countdownLevel"`
	Price          string `json:"price"`
	TotalSupply    string `json:"totalSupply"`
	TotalBurned    string `json:"totalBurned"`

	Connected      bool   `json:"connected"`
	Account        string `json:"account,omitempty"`
	Action         string `json:"action"`
	ActionEnabled  bool   `json:"actionEnabled"`
	ActionLabel    string `json:"actionLabel,omitempty"`
	BalanceWarning string `json:"balanceWarning,omitempty"`
	MintSuccess    bool   `json:"mintSuccess"`
	MintMessage    string `json:"mintMessage,omitempty"`
	ApproveError   string `json:"approveError,omitempty"`
	MintError      string `json:"mintError,omitempty"`

	Links Links `json:"links"`
}

// Card derives the status card from the current state
func (v *ViewModel) Card() Card {
	v.mutex.Lock()
	snap := v.snapshot()
	links := v.links
	v.mutex.Unlock()

	return BuildCard(snap, links)
}

func BuildCard(snap Snapshot, links Links) Card {
	card := Card{
		Countdown:      format.Unknown,
		CountdownLevel: CountdownOK,
		Price:          format.Price(snap.Contract.CurrentPrice),
		TotalSupply:    format.Unknown,
		TotalBurned:    format.Price(snap.Contract.TotalBurned),
		Action:         ActionNone,
		Links:          links,
	}

	if snap.Contract.TimeUntilLock != nil {
		card.Countdown = format.Duration(snap.SecondsRemaining)
		card.CountdownLevel = countdownLevel(snap.SecondsRemaining)
	}
	if snap.Contract.TotalSupply != nil {
		card.TotalSupply = strconv.FormatUint(*snap.Contract.TotalSupply, 10)
	}

	if snap.Contract.IsLocked() {
		card.Locked = true
		card.LockedTitle = lockedTitle
		card.LockedSubtitle = lockedSubtitle
	}

	if snap.Account == nil {
		return card
	}
	card.Connected = true
	card.Account = snap.Account.Address.Hex()

	if snap.Approval.Status == TxFailed {
		card.ApproveError = snap.Approval.Reason
	}
	if snap.Mint.Status == TxFailed {
		card.MintError = snap.Mint.Reason
	}

	if card.Locked {
		return card
	}

	if snap.NeedsApproval {
		card.Action = ActionApprove
		card.ActionLabel = labelApprove
		card.ActionEnabled = true
		if snap.Approval.InProgress() {
			card.ActionLabel = labelApproving
			card.ActionEnabled = false
		}
	} else {
		card.Action = ActionMint
		switch {
		case snap.Mint.InProgress():
			card.ActionLabel = labelMinting
		case !snap.HasEnoughBalance:
			card.ActionLabel = labelInsufficient
		default:
			card.ActionLabel = labelMint
			card.ActionEnabled = true
		}
	}

	if !snap.HasEnoughBalance && snap.Account.DragonBalance != nil {
		card.BalanceWarning = "Your balance: " + format.Price(snap.Account.DragonBalance) + " $DRAGON"
	}

	if snap.MintSuccess {
		card.MintSuccess = true
		card.MintMessage = mintSuccessMessage
	}

	return card
}

func countdownLevel(seconds uint64) string {
	switch {
	case seconds < criticalBelowSeconds:
		return CountdownCritical
	case seconds < warningBelowSeconds:
		return CountdownWarning
	}
	return CountdownOK
}
