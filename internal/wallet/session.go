package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"sync"

	"github.com/dragon-bot-z/dragonfire-client/internal/lib"
	"github.com/ethereum/go-ethereum/common"
	hdwallet "github.com/miguelmota/go-ethereum-hdwallet"
)

var (
	ErrNoKey        = errors.New("session has no signing key")
	ErrNotConnected = errors.New("session is not connected")
	ErrWrongAccount = errors.New("key for the account is not available")
)

// ChangeHandler is called on every connection change. Account is zero value when disconnected
type ChangeHandler = func(account common.Address, connected bool)

// KeySession is a wallet session backed by a locally held private key.
// A session without a key is read-only and can never be connected.
type KeySession struct {
	// state
	privateKey *ecdsa.PrivateKey
	address    common.Address
	connected  bool
	handlers   map[int]ChangeHandler
	nextID     int
	mutex      sync.RWMutex
}

// NewReadOnlySession creates a session that is always disconnected
func NewReadOnlySession() *KeySession {
	return &KeySession{handlers: make(map[int]ChangeHandler)}
}

// NewSessionFromPrivateKey creates a connected session, 0x prefix of the key is optional
func NewSessionFromPrivateKey(privateKey string) (*KeySession, error) {
	key, err := lib.HexToPrivKey(privateKey)
	if err != nil {
		return nil, err
	}
	return newKeySession(key)
}

// NewSessionFromMnemonic derives the key at m/44'/60'/0'/0/{accountIndex} and creates a connected session
func NewSessionFromMnemonic(mnemonic string, accountIndex int) (*KeySession, error) {
	wallet, err := hdwallet.NewFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	path, err := hdwallet.ParseDerivationPath(fmt.Sprintf("m/44'/60'/0'/0/%d", accountIndex))
	if err != nil {
		return nil, err
	}

	account, err := wallet.Derive(path, false)
	if err != nil {
		return nil, err
	}

	key, err := wallet.PrivateKey(account)
	if err != nil {
		return nil, err
	}

	return newKeySession(key)
}

func newKeySession(key *ecdsa.PrivateKey) (*KeySession, error) {
	addr, err := lib.PrivKeyToAddr(key)
	if err != nil {
		return nil, err
	}
	return &KeySession{
		privateKey: key,
		address:    addr,
		connected:  true,
		handlers:   make(map[int]ChangeHandler),
	}, nil
}

// Account returns the connected account
func (s *KeySession) Account() (common.Address, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.connected {
		return common.Address{}, false
	}
	return s.address, true
}

func (s *KeySession) Connect() error {
	s.mutex.Lock()
	if s.privateKey == nil {
		s.mutex.Unlock()
		return ErrNoKey
	}
	if s.connected {
		s.mutex.Unlock()
		return nil
	}
	s.connected = true
	handlers := s.handlersSnapshot()
	s.mutex.Unlock()

	for _, h := range handlers {
		h(s.address, true)
	}
	return nil
}

func (s *KeySession) Disconnect() {
	s.mutex.Lock()
	if !s.connected {
		s.mutex.Unlock()
		return
	}
	s.connected = false
	handlers := s.handlersSnapshot()
	s.mutex.Unlock()

	for _, h := range handlers {
		h(common.Address{}, false)
	}
}

// Subscribe registers handler for connection changes, returned function removes it
func (s *KeySession) Subscribe(handler ChangeHandler) (unsubscribe func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := s.nextID
	s.nextID++
	s.handlers[id] = handler

	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		delete(s.handlers, id)
	}
}

// PrivateKey returns the signing key if the account is connected
func (s *KeySession) PrivateKey(addr common.Address) (*ecdsa.PrivateKey, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if s.privateKey == nil {
		return nil, ErrNoKey
	}
	if !s.connected {
		return nil, ErrNotConnected
	}
	if addr != s.address {
		return nil, ErrWrongAccount
	}
	return s.privateKey, nil
}

func (s *KeySession) handlersSnapshot() []ChangeHandler {
	handlers := make([]ChangeHandler, 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	return handlers
}
