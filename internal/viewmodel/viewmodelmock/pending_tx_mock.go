package viewmodelmock

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrTxReverted is the wait result of transactions set to revert
var ErrTxReverted = errors.New("execution reverted")

// PendingTxMock resolves when Confirm or Fail is called
type PendingTxMock struct {
	hash     common.Hash
	resolve  func() error
	doneCh   chan struct{}
	err      error
	once     sync.Once
	waitCall int
	mutex    sync.Mutex
}

// NewPendingTxMock creates a pending transaction, resolve is run on Confirm and its error is the result
func NewPendingTxMock(hash common.Hash, resolve func() error) *PendingTxMock {
	return &PendingTxMock{
		hash:    hash,
		resolve: resolve,
		doneCh:  make(chan struct{}),
	}
}

func (p *PendingTxMock) Hash() common.Hash {
	return p.hash
}

func (p *PendingTxMock) Wait(ctx context.Context) error {
	p.mutex.Lock()
	p.waitCall++
	p.mutex.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.doneCh:
		return p.err
	}
}

// Confirm includes the transaction applying its effect
func (p *PendingTxMock) Confirm() {
	p.once.Do(func() {
		if p.resolve != nil {
			p.err = p.resolve()
		}
		close(p.doneCh)
	})
}

// Fail resolves the wait with err without any effect
func (p *PendingTxMock) Fail(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.doneCh)
	})
}

func (p *PendingTxMock) WaitCalls() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.waitCall
}
