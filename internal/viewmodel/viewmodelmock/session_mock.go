package viewmodelmock

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// SessionMock is a wallet session that can switch to any account
type SessionMock struct {
	account   common.Address
	connected bool
	handlers  map[int]func(common.Address, bool)
	nextID    int
	mutex     sync.Mutex
}

func NewSessionMock() *SessionMock {
	return &SessionMock{handlers: make(map[int]func(common.Address, bool))}
}

func (s *SessionMock) Account() (common.Address, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.account, s.connected
}

func (s *SessionMock) Subscribe(handler func(account common.Address, connected bool)) func() {
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

func (s *SessionMock) Connect(account common.Address) {
	s.set(account, true)
}

func (s *SessionMock) Disconnect() {
	s.set(common.Address{}, false)
}

func (s *SessionMock) Subscribers() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.handlers)
}

func (s *SessionMock) set(account common.Address, connected bool) {
	s.mutex.Lock()
	s.account, s.connected = account, connected
	handlers := make([]func(common.Address, bool), 0, len(s.handlers))
	for _, h := range s.handlers {
		handlers = append(handlers, h)
	}
	s.mutex.Unlock()

	for _, h := range handlers {
		h(account, connected)
	}
}
