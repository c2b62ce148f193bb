package viewmodel

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/dragon-bot-z/dragonfire-client/internal/interfaces"
	"github.com/dragon-bot-z/dragonfire-client/internal/lib"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/atomic"
)

var (
	ErrAlreadyRunning      = errors.New("view model is already running")
	ErrNotMounted          = errors.New("view model is not mounted")
	ErrTxInProgress        = errors.New("transaction is in progress")
	ErrLocked              = errors.New("collection is locked")
	ErrNotConnected        = errors.New("wallet is not connected")
	ErrNeedsApproval       = errors.New("allowance is below the current price")
	ErrInsufficientBalance = errors.New("balance is below the current price")
)

const (
	DefaultRefreshInterval   = 10 * time.Second
	DefaultCountdownInterval = time.Second
)

// refresh scopes, used as metric labels
const (
	scopeFull      = "full"
	scopePeriodic  = "periodic"
	scopeAccount   = "account"
	scopeAllowance = "allowance"
	scopeMint      = "mint"
)

type Config struct {
	RefreshInterval   time.Duration
	CountdownInterval time.Duration
	MintAddress       common.Address // spender of the approval
	Links             Links
}

// ViewModel keeps the snapshot of the DragonFire contracts fresh and drives approve and mint transactions.
// State is mutated only under the mutex. Results of requests issued under an older generation are discarded.
type ViewModel struct {
	// config
	refreshInterval   time.Duration
	countdownInterval time.Duration
	mintAddr          common.Address
	approveAmount     *big.Int
	links             Links

	// state
	contract         ContractSnapshot
	account          *AccountSnapshot
	secondsRemaining uint64
	approval         TxState
	mint             TxState
	mintSuccess      bool
	isRunning        atomic.Bool
	mounted          atomic.Bool
	generation       atomic.Uint64
	mountCtx         context.Context
	background       sync.WaitGroup
	mutex            sync.Mutex

	// deps
	reader   ChainReader
	writer   ChainWriter
	session  Session
	recorder Recorder
	log      interfaces.ILogger
}

func NewViewModel(cfg Config, reader ChainReader, writer ChainWriter, session Session, recorder Recorder, log interfaces.ILogger) *ViewModel {
	if cfg.RefreshInterval == 0 {
		cfg.RefreshInterval = DefaultRefreshInterval
	}
	if cfg.CountdownInterval == 0 {
		cfg.CountdownInterval = DefaultCountdownInterval
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &ViewModel{
		refreshInterval:   cfg.RefreshInterval,
		countdownInterval: cfg.CountdownInterval,
		mintAddr:          cfg.MintAddress,
		approveAmount:     UnlimitedApproval(),
		links:             cfg.Links,
		reader:            reader,
		writer:            writer,
		session:           session,
		recorder:          recorder,
		log:               log,
	}
}

// Run mounts the view model and keeps it mounted until ctx is done.
// Both timers are stopped and in-flight requests are discarded on every exit path.
func (v *ViewModel) Run(ctx context.Context) error {
	if !v.isRunning.CAS(false, true) {
		return ErrAlreadyRunning
	}
	defer v.isRunning.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// changes that arrive before mount are picked up by mount itself
	unsubscribe := v.session.Subscribe(v.onSessionChange)
	defer unsubscribe()

	gen := v.mount(ctx)
	defer func() {
		v.unmount()
		cancel()
		v.background.Wait()
		v.log.Infof("unmounted, generation %d", gen)
	}()

	countdown := lib.NewTaskFunc("countdown", v.runCountdown)
	refresh := lib.NewTaskFunc("refresh", func(ctx context.Context) error {
		return v.runRefresh(ctx, gen)
	})

	defer func() {
		countdownStopped, refreshStopped := countdown.Stop(), refresh.Stop()
		<-countdownStopped
		<-refreshStopped
	}()

	if err := countdown.Start(ctx); err != nil {
		return err
	}
	if err := refresh.Start(ctx); err != nil {
		return err
	}

	v.log.Infof("mounted, generation %d", gen)

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-countdown.Done():
		return countdown.Err()
	case <-refresh.Done():
		return refresh.Err()
	}
}

func (v *ViewModel) mount(ctx context.Context) uint64 {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	gen := v.generation.Inc()
	v.mountCtx = ctx
	v.approval = TxState{}
	v.mint = TxState{}
	v.mintSuccess = false
	v.account = nil
	if addr, ok := v.session.Account(); ok {
		v.account = &AccountSnapshot{Address: addr}
	}
	v.mounted.Store(true)

	return gen
}

func (v *ViewModel) unmount() {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.mounted.Store(false)
	v.generation.Inc()
	v.mountCtx = nil
}

func (v *ViewModel) IsMounted() bool {
	return v.mounted.Load()
}

// spawn runs f in background under the current mount, must be called with mutex held
func (v *ViewModel) spawn(f func(ctx context.Context)) {
	ctx := v.mountCtx
	v.background.Add(1)
	go func() {
		defer v.background.Done()
		f(ctx)
	}()
}

// isCurrent reports if results issued under gen may still be applied, must be called with mutex held
func (v *ViewModel) isCurrent(gen uint64) bool {
	return v.mounted.Load() && v.generation.Load() == gen
}

func (v *ViewModel) onSessionChange(account common.Address, connected bool) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if !v.mounted.Load() {
		return
	}

	if !connected {
		if v.account != nil {
			v.log.Infof("wallet disconnected %s", lib.AddrShort(v.account.Address.Hex()))
		}
		v.account = nil
		return
	}

	if v.account != nil && v.account.Address == account {
		return
	}

	v.log.Infof("wallet connected %s", lib.AddrShort(account.Hex()))
	v.account = &AccountSnapshot{Address: account}

	gen := v.generation.Load()
	v.spawn(func(ctx context.Context) {
		v.recorder.Refreshed(scopeAccount)
		v.refreshAccount(ctx, gen, account, true, true)
	})
}

func (v *ViewModel) runCountdown(ctx context.Context) error {
	ticker := time.NewTicker(v.countdownInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			v.tick()
		}
	}
}

// tick decrements the local countdown, it is cosmetic and never affects lock state
func (v *ViewModel) tick() {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if v.secondsRemaining > 0 {
		v.secondsRemaining--
	}
}

func (v *ViewModel) runRefresh(ctx context.Context, gen uint64) error {
	v.refresh(ctx, gen, scopeFull)

	ticker := time.NewTicker(v.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			v.refresh(ctx, gen, scopePeriodic)
		}
	}
}

// refresh reads contract fields unless locked and account fields if connected
func (v *ViewModel) refresh(ctx context.Context, gen uint64, scope string) {
	v.mutex.Lock()
	locked := v.contract.IsLocked()
	var account *common.Address
	if v.account != nil {
		addr := v.account.Address
		account = &addr
	}
	v.mutex.Unlock()

	v.recorder.Refreshed(scope)

	wg := sync.WaitGroup{}
	if !locked {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.refreshContract(ctx, gen)
		}()
	}
	if account != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.refreshAccount(ctx, gen, *account, true, true)
		}()
	}
	wg.Wait()
}

// refreshContract reads all six contract fields in parallel and applies the successful ones together
func (v *ViewModel) refreshContract(ctx context.Context, gen uint64) {
	var (
		update ContractSnapshot
		mutex  sync.Mutex
		wg     sync.WaitGroup
	)

	read := func(field string, f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f()
			if err != nil {
				v.readFailed(ctx, field, err)
			}
		}()
	}

	read(FieldCurrentPrice, func() error {
		price, err := v.reader.CurrentPrice(ctx)
		if err != nil {
			return err
		}
		mutex.Lock()
		update.CurrentPrice = price
		mutex.Unlock()
		return nil
	})
	read(FieldTimeUntilLock, func() error {
		seconds, err := v.reader.TimeUntilLock(ctx)
		if err != nil {
			return err
		}
		mutex.Lock()
		update.TimeUntilLock = &seconds
		mutex.Unlock()
		return nil
	})
	read(FieldIsActive, func() error {
		isActive, err := v.reader.IsActive(ctx)
		if err != nil {
			return err
		}
		mutex.Lock()
		update.IsActive = &isActive
		mutex.Unlock()
		return nil
	})
	read(FieldLocked, func() error {
		locked, err := v.reader.Locked(ctx)
		if err != nil {
			return err
		}
		mutex.Lock()
		update.Locked = &locked
		mutex.Unlock()
		return nil
	})
	read(FieldTotalSupply, func() error {
		supply, err := v.reader.TotalSupply(ctx)
		if err != nil {
			return err
		}
		mutex.Lock()
		update.TotalSupply = &supply
		mutex.Unlock()
		return nil
	})
	read(FieldTotalBurned, func() error {
		burned, err := v.reader.TotalBurned(ctx)
		if err != nil {
			return err
		}
		mutex.Lock()
		update.TotalBurned = burned
		mutex.Unlock()
		return nil
	})

	wg.Wait()
	v.applyContract(gen, update)
}

// applyContract writes loaded fields of update. Nothing is written once the collection is locked
func (v *ViewModel) applyContract(gen uint64, update ContractSnapshot) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	if !v.isCurrent(gen) {
		v.log.Debugf("discarded stale contract read, generation %d", gen)
		return
	}
	if v.contract.IsLocked() {
		v.log.Debugf("discarded contract read, collection is locked")
		return
	}

	if update.CurrentPrice != nil {
		v.contract.CurrentPrice = update.CurrentPrice
	}
	if update.TimeUntilLock != nil {
		v.contract.TimeUntilLock = update.TimeUntilLock
		v.secondsRemaining = *update.TimeUntilLock
	}
	if update.IsActive != nil {
		v.contract.IsActive = update.IsActive
	}
	if update.TotalSupply != nil {
		v.contract.TotalSupply = update.TotalSupply
	}
	if update.TotalBurned != nil {
		v.contract.TotalBurned = update.TotalBurned
	}
	if update.Locked != nil {
		v.contract.Locked = update.Locked
		if *update.Locked {
			v.log.Warnf("collection is locked, contract fields are frozen")
		}
		v.recorder.ObserveLocked(*update.Locked)
	}
}

// refreshAccount reads the requested account fields of account in parallel
func (v *ViewModel) refreshAccount(ctx context.Context, gen uint64, account common.Address, balance bool, allowance bool) {
	var (
		newBalance   *big.Int
		newAllowance *big.Int
		wg           sync.WaitGroup
	)

	if balance {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := v.reader.BalanceOf(ctx, account)
			if err != nil {
				v.readFailed(ctx, FieldBalance, err)
				return
			}
			newBalance = res
		}()
	}
	if allowance {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := v.reader.Allowance(ctx, account, v.mintAddr)
			if err != nil {
				v.readFailed(ctx, FieldAllowance, err)
				return
			}
			newAllowance = res
		}()
	}
	wg.Wait()

	v.mutex.Lock()
	defer v.mutex.Unlock()

	if !v.isCurrent(gen) {
		v.log.Debugf("discarded stale account read, generation %d", gen)
		return
	}
	if v.account == nil || v.account.Address != account {
		v.log.Debugf("discarded account read of %s, account changed", lib.AddrShort(account.Hex()))
		return
	}

	if newBalance != nil {
		v.account.DragonBalance = newBalance
	}
	if newAllowance != nil {
		v.account.Allowance = newAllowance
	}
}

func (v *ViewModel) readFailed(ctx context.Context, field string, err error) {
	if ctx.Err() != nil {
		v.log.Debugf("read of %s cancelled: %s", field, err)
		return
	}
	v.log.Warnf("read of %s failed, keeping last value: %s", field, err)
	v.recorder.ReadFailed(field)
}

// Snapshot returns a copy of the current state with the derived guards
func (v *ViewModel) Snapshot() Snapshot {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	return v.snapshot()
}

func (v *ViewModel) snapshot() Snapshot {
	return Snapshot{
		Mounted:          v.mounted.Load(),
		Contract:         v.contract.Copy(),
		Account:          v.account.Copy(),
		SecondsRemaining: v.secondsRemaining,
		Approval:         v.approval,
		Mint:             v.mint,
		MintSuccess:      v.mintSuccess,
		NeedsApproval:    NeedsApproval(v.account, v.contract.CurrentPrice),
		HasEnoughBalance: HasEnoughBalance(v.account, v.contract.CurrentPrice),
	}
}
