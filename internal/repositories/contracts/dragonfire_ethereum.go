package contracts

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math"
	"math/big"
	"sync"

	"github.com/dragon-bot-z/dragonfire-client/internal/interfaces"
	"github.com/dragon-bot-z/dragonfire-client/internal/lib"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrCall     = errors.New("contract call error")
	ErrTransact = errors.New("contract transaction error")
	ErrNoKey    = errors.New("no signing key for account")
)

// KeyStore provides signing keys of the connected accounts
type KeyStore interface {
	PrivateKey(addr common.Address) (*ecdsa.PrivateKey, error)
}

// DragonFireEthereum reads and writes the DragonFire mint contract and its burn token
type DragonFireEthereum struct {
	// config
	legacyTx  bool // use legacy transaction fee, for local node testing
	mintAddr  common.Address
	tokenAddr common.Address

	// state
	nonce uint64
	mutex sync.Mutex

	// deps
	dragonFire *bind.BoundContract
	token      *bind.BoundContract
	client     EthereumClient
	keys       KeyStore
	log        interfaces.ILogger
}

func NewDragonFireEthereum(mintAddr, tokenAddr common.Address, client EthereumClient, keys KeyStore, log interfaces.ILogger) *DragonFireEthereum {
	return &DragonFireEthereum{
		mintAddr:   mintAddr,
		tokenAddr:  tokenAddr,
		dragonFire: bind.NewBoundContract(mintAddr, DragonFireABI, client, client, client),
		token:      bind.NewBoundContract(tokenAddr, ERC20ABI, client, client, client),
		client:     client,
		keys:       keys,
		log:        log,
	}
}

func (g *DragonFireEthereum) SetLegacyTx(legacyTx bool) {
	g.legacyTx = legacyTx
}

func (g *DragonFireEthereum) MintAddress() common.Address {
	return g.mintAddr
}

func (g *DragonFireEthereum) TokenAddress() common.Address {
	return g.tokenAddr
}

func (g *DragonFireEthereum) CurrentPrice(ctx context.Context) (*big.Int, error) {
	return g.callBigInt(ctx, g.dragonFire, "currentPrice")
}

func (g *DragonFireEthereum) TimeUntilLock(ctx context.Context) (uint64, error) {
	v, err := g.callBigInt(ctx, g.dragonFire, "timeUntilLock")
	if err != nil {
		return 0, err
	}
	return saturatingUint64(v), nil
}

func (g *DragonFireEthereum) IsActive(ctx context.Context) (bool, error) {
	return g.callBool(ctx, g.dragonFire, "isActive")
}

func (g *DragonFireEthereum) Locked(ctx context.Context) (bool, error) {
	return g.callBool(ctx, g.dragonFire, "locked")
}

func (g *DragonFireEthereum) TotalSupply(ctx context.Context) (uint64, error) {
	v, err := g.callBigInt(ctx, g.dragonFire, "totalSupply")
	if err != nil {
		return 0, err
	}
	return saturatingUint64(v), nil
}

func (g *DragonFireEthereum) TotalBurned(ctx context.Context) (*big.Int, error) {
	return g.callBigInt(ctx, g.dragonFire, "totalDragonBurned")
}

func (g *DragonFireEthereum) BalanceOf(ctx context.Context, account common.Address) (*big.Int, error) {
	return g.callBigInt(ctx, g.token, "balanceOf", account)
}

func (g *DragonFireEthereum) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	return g.callBigInt(ctx, g.token, "allowance", owner, spender)
}

// Approve submits approve(spender, amount) on the token contract on behalf of from
func (g *DragonFireEthereum) Approve(ctx context.Context, from, spender common.Address, amount *big.Int) (interfaces.PendingTx, error) {
	return g.transact(ctx, g.token, from, "approve", spender, amount)
}

// Mint submits mint() on the DragonFire contract on behalf of from
func (g *DragonFireEthereum) Mint(ctx context.Context, from common.Address) (interfaces.PendingTx, error) {
	return g.transact(ctx, g.dragonFire, from, "mint")
}

func (g *DragonFireEthereum) transact(ctx context.Context, contract *bind.BoundContract, from common.Address, method string, params ...interface{}) (interfaces.PendingTx, error) {
	opts, err := g.getTransactOpts(ctx, from)
	if err != nil {
		return nil, lib.WrapError(ErrTransact, err)
	}

	tx, err := contract.Transact(opts, method, params...)
	if err != nil {
		// nonce was not consumed
		g.resetNonce()
		return nil, lib.WrapError(ErrTransact, err)
	}

	g.log.Debugf("submitted %s, tx %s, nonce %d", method, tx.Hash().Hex(), tx.Nonce())
	return NewPendingTx(tx, g.client), nil
}

func (g *DragonFireEthereum) callBigInt(ctx context.Context, contract *bind.BoundContract, method string, params ...interface{}) (*big.Int, error) {
	out, err := g.call(ctx, contract, method, params...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new(*big.Int)).(**big.Int), nil
}

func (g *DragonFireEthereum) callBool(ctx context.Context, contract *bind.BoundContract, method string, params ...interface{}) (bool, error) {
	out, err := g.call(ctx, contract, method, params...)
	if err != nil {
		return false, err
	}
	return *abi.ConvertType(out[0], new(bool)).(*bool), nil
}

func (g *DragonFireEthereum) call(ctx context.Context, contract *bind.BoundContract, method string, params ...interface{}) ([]interface{}, error) {
	var out []interface{}
	err := contract.Call(&bind.CallOpts{Context: ctx}, &out, method, params...)
	if err != nil {
		return nil, lib.WrapError(ErrCall, err)
	}
	if len(out) == 0 {
		return nil, lib.WrapError(ErrCall, errors.New("empty result of "+method))
	}
	return out, nil
}

func (g *DragonFireEthereum) getTransactOpts(ctx context.Context, from common.Address) (*bind.TransactOpts, error) {
	if g.keys == nil {
		return nil, ErrNoKey
	}
	privateKey, err := g.keys.PrivateKey(from)
	if err != nil {
		return nil, lib.WrapError(ErrNoKey, err)
	}

	chainId, err := g.client.ChainID(ctx)
	if err != nil {
		return nil, err
	}

	transactOpts, err := bind.NewKeyedTransactorWithChainID(privateKey, chainId)
	if err != nil {
		return nil, err
	}

	if g.legacyTx {
		gasPrice, err := g.client.SuggestGasPrice(ctx)
		if err != nil {
			return nil, err
		}
		transactOpts.GasPrice = gasPrice
	}

	nonce, err := g.getNonce(ctx, from)
	if err != nil {
		return nil, err
	}

	transactOpts.Value = big.NewInt(0)
	transactOpts.Nonce = nonce
	transactOpts.Context = ctx

	return transactOpts, nil
}

// getNonce keeps a local nonce so approval and mint can be submitted back to back
// before the first one reaches the mempool
func (g *DragonFireEthereum) getNonce(ctx context.Context, from common.Address) (*big.Int, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	blockchainNonce, err := g.client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, err
	}

	nonce := blockchainNonce
	if g.nonce > blockchainNonce {
		nonce = g.nonce
	}
	g.nonce = nonce + 1

	return new(big.Int).SetUint64(nonce), nil
}

func (g *DragonFireEthereum) resetNonce() {
	g.mutex.Lock()
	g.nonce = 0
	g.mutex.Unlock()
}

func saturatingUint64(v *big.Int) uint64 {
	if v.Sign() < 0 {
		return 0
	}
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}
