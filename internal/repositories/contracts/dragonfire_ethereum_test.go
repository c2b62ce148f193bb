package contracts

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/dragon-bot-z/dragonfire-client/internal/lib"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

var (
	testMintAddr  = common.HexToAddress("0xa21b9Ab723669743934F5Fa78E8cC7D4Fc72600e")
	testTokenAddr = common.HexToAddress("0xD113b2cb6A38863F8e8232cBD5743B61Bb3c6B07")
	testChainID   = big.NewInt(8453)
)

// ethClientMock answers contract calls from a table of method results and records sent transactions.
// Methods that are not overridden panic through the nil embedded interface.
type ethClientMock struct {
	EthereumClient

	results    map[common.Address]map[string][]interface{}
	callErr    error
	sendErr    error
	nonce      uint64
	receipt    *types.Receipt
	mutex      sync.Mutex
	sent       []*types.Transaction
	lastCallTo common.Address
}

func newEthClientMock() *ethClientMock {
	return &ethClientMock{
		results: map[common.Address]map[string][]interface{}{
			testMintAddr:  {},
			testTokenAddr: {},
		},
	}
}

func (m *ethClientMock) abiFor(addr common.Address) abi.ABI {
	if addr == testTokenAddr {
		return ERC20ABI
	}
	return DragonFireABI
}

func (m *ethClientMock) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if m.callErr != nil {
		return nil, m.callErr
	}
	m.lastCallTo = *call.To
	contractABI := m.abiFor(*call.To)
	method, err := contractABI.MethodById(call.Data[:4])
	if err != nil {
		return nil, err
	}
	values, ok := m.results[*call.To][method.Name]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return method.Outputs.Pack(values...)
}

func (m *ethClientMock) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (m *ethClientMock) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	return []byte{0x1}, nil
}

func (m *ethClientMock) ChainID(ctx context.Context) (*big.Int, error) {
	return testChainID, nil
}

func (m *ethClientMock) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return m.nonce, nil
}

func (m *ethClientMock) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(100), BaseFee: big.NewInt(1_000_000)}, nil
}

func (m *ethClientMock) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000), nil
}

func (m *ethClientMock) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(2_000_000), nil
}

func (m *ethClientMock) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	return 100_000, nil
}

func (m *ethClientMock) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sent = append(m.sent, tx)
	return nil
}

func (m *ethClientMock) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if m.receipt == nil {
		return nil, ethereum.NotFound
	}
	return m.receipt, nil
}

type keyStoreMock struct {
	key *ecdsa.PrivateKey
}

func (k *keyStoreMock) PrivateKey(addr common.Address) (*ecdsa.PrivateKey, error) {
	if k.key == nil || crypto.PubkeyToAddress(k.key.PublicKey) != addr {
		return nil, errors.New("unknown account")
	}
	return k.key, nil
}

func newTestKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return key, crypto.PubkeyToAddress(key.PublicKey)
}

func TestContractReads(t *testing.T) {
	client := newEthClientMock()
	owner := common.HexToAddress("0x0000000000000000000000000000000000000abc")

	price, _ := new(big.Int).SetString("2500000000000000000", 10)
	burned, _ := new(big.Int).SetString("123000000000000000000000", 10)
	client.results[testMintAddr] = map[string][]interface{}{
		"currentPrice":      {price},
		"timeUntilLock":     {big.NewInt(90065)},
		"isActive":          {true},
		"locked":            {false},
		"totalSupply":       {big.NewInt(42)},
		"totalDragonBurned": {burned},
	}
	client.results[testTokenAddr] = map[string][]interface{}{
		"balanceOf": {big.NewInt(7)},
		"allowance": {big.NewInt(0)},
	}

	repo := NewDragonFireEthereum(testMintAddr, testTokenAddr, client, nil, lib.NewTestLogger())
	require.Equal(t, testMintAddr, repo.MintAddress())
	require.Equal(t, testTokenAddr, repo.TokenAddress())
	ctx := context.Background()

	gotPrice, err := repo.CurrentPrice(ctx)
	require.NoError(t, err)
	require.Equal(t, price, gotPrice)

	timeUntilLock, err := repo.TimeUntilLock(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 90065, timeUntilLock)

	isActive, err := repo.IsActive(ctx)
	require.NoError(t, err)
	require.True(t, isActive)

	locked, err := repo.Locked(ctx)
	require.NoError(t, err)
	require.False(t, locked)

	supply, err := repo.TotalSupply(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 42, supply)

	gotBurned, err := repo.TotalBurned(ctx)
	require.NoError(t, err)
	require.Equal(t, burned, gotBurned)
	require.Equal(t, testMintAddr, client.lastCallTo)

	balance, err := repo.BalanceOf(ctx, owner)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(7), balance)
	require.Equal(t, testTokenAddr, client.lastCallTo)

	allowance, err := repo.Allowance(ctx, owner, testMintAddr)
	require.NoError(t, err)
	require.Equal(t, 0, allowance.Sign())
}

func TestContractReadError(t *testing.T) {
	client := newEthClientMock()
	client.callErr = errors.New("rpc down")
	repo := NewDragonFireEthereum(testMintAddr, testTokenAddr, client, nil, lib.NewTestLogger())

	_, err := repo.CurrentPrice(context.Background())
	require.ErrorIs(t, err, ErrCall)

	_, err = repo.Locked(context.Background())
	require.ErrorIs(t, err, ErrCall)
}

func TestTimeUntilLockSaturates(t *testing.T) {
	client := newEthClientMock()
	client.results[testMintAddr]["timeUntilLock"] = []interface{}{math.MaxBig256}
	repo := NewDragonFireEthereum(testMintAddr, testTokenAddr, client, nil, lib.NewTestLogger())

	v, err := repo.TimeUntilLock(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, uint64(1<<64-1), v)
}

func TestApproveSubmitsUnlimitedApproval(t *testing.T) {
	key, from := newTestKey(t)
	client := newEthClientMock()
	client.nonce = 5
	repo := NewDragonFireEthereum(testMintAddr, testTokenAddr, client, &keyStoreMock{key: key}, lib.NewTestLogger())

	pending, err := repo.Approve(context.Background(), from, testMintAddr, math.MaxBig256)
	require.NoError(t, err)
	require.Len(t, client.sent, 1)

	tx := client.sent[0]
	require.Equal(t, pending.Hash(), tx.Hash())
	require.Equal(t, testTokenAddr, *tx.To())
	require.EqualValues(t, 5, tx.Nonce())

	expectedData, err := ERC20ABI.Pack("approve", testMintAddr, math.MaxBig256)
	require.NoError(t, err)
	require.Equal(t, expectedData, tx.Data())

	sender, err := types.Sender(types.LatestSignerForChainID(testChainID), tx)
	require.NoError(t, err)
	require.Equal(t, from, sender)
}

func TestMintSubmitsNoArgs(t *testing.T) {
	key, from := newTestKey(t)
	client := newEthClientMock()
	repo := NewDragonFireEthereum(testMintAddr, testTokenAddr, client, &keyStoreMock{key: key}, lib.NewTestLogger())

	_, err := repo.Mint(context.Background(), from)
	require.NoError(t, err)
	require.Len(t, client.sent, 1)
	require.Equal(t, testMintAddr, *client.sent[0].To())
	require.Equal(t, crypto.Keccak256([]byte("mint()"))[:4], client.sent[0].Data())
}

func TestLocalNonceIncrements(t *testing.T) {
	key, from := newTestKey(t)
	client := newEthClientMock()
	client.nonce = 3
	repo := NewDragonFireEthereum(testMintAddr, testTokenAddr, client, &keyStoreMock{key: key}, lib.NewTestLogger())

	_, err := repo.Approve(context.Background(), from, testMintAddr, math.MaxBig256)
	require.NoError(t, err)
	_, err = repo.Mint(context.Background(), from)
	require.NoError(t, err)

	require.EqualValues(t, 3, client.sent[0].Nonce())
	require.EqualValues(t, 4, client.sent[1].Nonce())
}

func TestLegacyTxUsesGasPrice(t *testing.T) {
	key, from := newTestKey(t)
	client := newEthClientMock()
	repo := NewDragonFireEthereum(testMintAddr, testTokenAddr, client, &keyStoreMock{key: key}, lib.NewTestLogger())
	repo.SetLegacyTx(true)

	_, err := repo.Mint(context.Background(), from)
	require.NoError(t, err)
	require.Equal(t, uint8(types.LegacyTxType), client.sent[0].Type())
	require.Equal(t, big.NewInt(2_000_000), client.sent[0].GasPrice())
}

func TestTransactRejected(t *testing.T) {
	key, from := newTestKey(t)
	client := newEthClientMock()
	client.sendErr = errors.New("insufficient funds for gas")
	repo := NewDragonFireEthereum(testMintAddr, testTokenAddr, client, &keyStoreMock{key: key}, lib.NewTestLogger())

	_, err := repo.Mint(context.Background(), from)
	require.ErrorIs(t, err, ErrTransact)
}

func TestTransactUnknownAccount(t *testing.T) {
	key, _ := newTestKey(t)
	_, other := newTestKey(t)
	repo := NewDragonFireEthereum(testMintAddr, testTokenAddr, newEthClientMock(), &keyStoreMock{key: key}, lib.NewTestLogger())

	_, err := repo.Mint(context.Background(), other)
	require.ErrorIs(t, err, ErrNoKey)

	readOnly := NewDragonFireEthereum(testMintAddr, testTokenAddr, newEthClientMock(), nil, lib.NewTestLogger())
	_, err = readOnly.Mint(context.Background(), other)
	require.ErrorIs(t, err, ErrNoKey)
}

func TestERC20Selectors(t *testing.T) {
	require.Equal(t, common.FromHex("0x095ea7b3"), ERC20ABI.Methods["approve"].ID)
	require.Equal(t, common.FromHex("0x70a08231"), ERC20ABI.Methods["balanceOf"].ID)
	require.Equal(t, common.FromHex("0xdd62ed3e"), ERC20ABI.Methods["allowance"].ID)
	require.Equal(t, crypto.Keccak256([]byte("totalDragonBurned()"))[:4], DragonFireABI.Methods["totalDragonBurned"].ID)
}
