package viewmodelmock

import (
	"context"
	"math/big"
	"sync"

	"github.com/dragon-bot-z/dragonfire-client/internal/interfaces"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// method names used to count calls and to inject errors
const (
	MethodCurrentPrice  = "CurrentPrice"
	MethodTimeUntilLock = "TimeUntilLock"
	MethodIsActive      = "IsActive"
	MethodLocked        = "Locked"
	MethodTotalSupply   = "TotalSupply"
	MethodTotalBurned   = "TotalBurned"
	MethodBalanceOf     = "BalanceOf"
	MethodAllowance     = "Allowance"
	MethodApprove       = "Approve"
	MethodMint          = "Mint"
)

// ChainMock is an in-memory DragonFire chain. A confirmed mint burns the price from the minter,
// increments the supply and restarts the lock timer.
type ChainMock struct {
	// chain state
	price         *big.Int
	timeUntilLock uint64
	lockPeriod    uint64
	isActive      bool
	locked        bool
	supply        uint64
	burned        *big.Int
	balances      map[common.Address]*big.Int
	allowances    map[common.Address]*big.Int

	// behaviour
	readErrs    map[string]error
	readGate    chan struct{}
	submitErrs  map[string]error
	revert      map[string]bool
	AutoConfirm bool

	// recorded
	calls       map[string]int
	txs         map[string][]*PendingTxMock
	ApproveArgs []ApproveArgs
	mutex       sync.Mutex
}

type ApproveArgs struct {
	From    common.Address
	Spender common.Address
	Amount  *big.Int
}

func NewChainMock() *ChainMock {
	return &ChainMock{
		price:      big.NewInt(0),
		burned:     big.NewInt(0),
		lockPeriod: 86400,
		balances:   make(map[common.Address]*big.Int),
		allowances: make(map[common.Address]*big.Int),
		readErrs:   make(map[string]error),
		submitErrs: make(map[string]error),
		revert:     make(map[string]bool),
		calls:      make(map[string]int),
		txs:        make(map[string][]*PendingTxMock),
	}
}

func (m *ChainMock) SetPrice(price *big.Int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.price = new(big.Int).Set(price)
}

func (m *ChainMock) SetTimeUntilLock(seconds uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.timeUntilLock = seconds
}

func (m *ChainMock) SetIsActive(isActive bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.isActive = isActive
}

func (m *ChainMock) SetLocked(locked bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.locked = locked
}

func (m *ChainMock) SetSupply(supply uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.supply = supply
}

func (m *ChainMock) SetBurned(burned *big.Int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.burned = new(big.Int).Set(burned)
}

func (m *ChainMock) SetBalance(account common.Address, balance *big.Int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.balances[account] = new(big.Int).Set(balance)
}

func (m *ChainMock) SetAllowance(account common.Address, allowance *big.Int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.allowances[account] = new(big.Int).Set(allowance)
}

// SetReadErr makes calls of method fail with err, nil clears it
func (m *ChainMock) SetReadErr(method string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err == nil {
		delete(m.readErrs, method)
		return
	}
	m.readErrs[method] = err
}

// HoldReads blocks all reads until the returned function is called
func (m *ChainMock) HoldReads() (release func()) {
	gate := make(chan struct{})
	m.mutex.Lock()
	m.readGate = gate
	m.mutex.Unlock()

	once := sync.Once{}
	return func() {
		once.Do(func() {
			m.mutex.Lock()
			if m.readGate == gate {
				m.readGate = nil
			}
			m.mutex.Unlock()
			close(gate)
		})
	}
}

// SetSubmitErr makes calls of the Approve or Mint method fail synchronously
func (m *ChainMock) SetSubmitErr(method string, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.submitErrs[method] = err
}

// SetRevert makes confirmed transactions of the Approve or Mint method revert
func (m *ChainMock) SetRevert(method string, revert bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.revert[method] = revert
}

// Calls returns the number of calls of method
func (m *ChainMock) Calls(method string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.calls[method]
}

// LastTx returns the latest transaction submitted by method
func (m *ChainMock) LastTx(method string) *PendingTxMock {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	txs := m.txs[method]
	if len(txs) == 0 {
		return nil
	}
	return txs[len(txs)-1]
}

func (m *ChainMock) CurrentPrice(ctx context.Context) (*big.Int, error) {
	if err := m.wait(ctx, MethodCurrentPrice); err != nil {
		return nil, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.readErrs[MethodCurrentPrice]; err != nil {
		return nil, err
	}
	return new(big.Int).Set(m.price), nil
}

func (m *ChainMock) TimeUntilLock(ctx context.Context) (uint64, error) {
	if err := m.wait(ctx, MethodTimeUntilLock); err != nil {
		return 0, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.readErrs[MethodTimeUntilLock]; err != nil {
		return 0, err
	}
	return m.timeUntilLock, nil
}

func (m *ChainMock) IsActive(ctx context.Context) (bool, error) {
	if err := m.wait(ctx, MethodIsActive); err != nil {
		return false, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.readErrs[MethodIsActive]; err != nil {
		return false, err
	}
	return m.isActive, nil
}

func (m *ChainMock) Locked(ctx context.Context) (bool, error) {
	if err := m.wait(ctx, MethodLocked); err != nil {
		return false, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.readErrs[MethodLocked]; err != nil {
		return false, err
	}
	return m.locked, nil
}

func (m *ChainMock) TotalSupply(ctx context.Context) (uint64, error) {
	if err := m.wait(ctx, MethodTotalSupply); err != nil {
		return 0, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.readErrs[MethodTotalSupply]; err != nil {
		return 0, err
	}
	return m.supply, nil
}

func (m *ChainMock) TotalBurned(ctx context.Context) (*big.Int, error) {
	if err := m.wait(ctx, MethodTotalBurned); err != nil {
		return nil, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.readErrs[MethodTotalBurned]; err != nil {
		return nil, err
	}
	return new(big.Int).Set(m.burned), nil
}

func (m *ChainMock) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	if err := m.wait(ctx, MethodBalanceOf); err != nil {
		return nil, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.readErrs[MethodBalanceOf]; err != nil {
		return nil, err
	}
	return valueOrZero(m.balances[account]), nil
}

func (m *ChainMock) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	if err := m.wait(ctx, MethodAllowance); err != nil {
		return nil, err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if err := m.readErrs[MethodAllowance]; err != nil {
		return nil, err
	}
	return valueOrZero(m.allowances[owner]), nil
}

func (m *ChainMock) Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (interfaces.PendingTx, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls[MethodApprove]++
	m.ApproveArgs = append(m.ApproveArgs, ApproveArgs{From: from, Spender: spender, Amount: new(big.Int).Set(amount)})
	if err := m.submitErrs[MethodApprove]; err != nil {
		return nil, err
	}

	return m.newTx(MethodApprove, func() {
		m.allowances[from] = new(big.Int).Set(amount)
	}), nil
}

func (m *ChainMock) Mint(ctx context.Context, from common.Address) (interfaces.PendingTx, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.calls[MethodMint]++
	if err := m.submitErrs[MethodMint]; err != nil {
		return nil, err
	}

	return m.newTx(MethodMint, func() {
		price := new(big.Int).Set(m.price)
		m.balances[from] = new(big.Int).Sub(valueOrZero(m.balances[from]), price)
		m.burned = new(big.Int).Add(m.burned, price)
		m.supply++
		m.timeUntilLock = m.lockPeriod
	}), nil
}

// newTx must be called with mutex held
func (m *ChainMock) newTx(method string, effect func()) *PendingTxMock {
	nonce := len(m.txs[MethodApprove]) + len(m.txs[MethodMint])
	hash := common.BytesToHash(crypto.Keccak256([]byte(method), big.NewInt(int64(nonce)).Bytes()))

	revert := m.revert[method]
	tx := NewPendingTxMock(hash, func() error {
		if revert {
			return ErrTxReverted
		}
		m.mutex.Lock()
		defer m.mutex.Unlock()
		effect()
		return nil
	})
	m.txs[method] = append(m.txs[method], tx)

	if m.AutoConfirm {
		go tx.Confirm()
	}
	return tx
}

// wait counts the read and blocks while reads are held
func (m *ChainMock) wait(ctx context.Context, method string) error {
	m.mutex.Lock()
	m.calls[method]++
	gate := m.readGate
	m.mutex.Unlock()

	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func valueOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}
