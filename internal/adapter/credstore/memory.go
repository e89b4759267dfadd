package credstore

import (
	"sync"

	"github.com/iho/authgate/internal/domain"
)

// Memory is an in-process credential store for tests and sessions that
// should not survive a restart.
type Memory struct {
	mu   sync.Mutex
	cred domain.Credential
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Get returns the stored credential pair.
func (m *Memory) Get() (domain.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred, nil
}

// Set overwrites the credential pair.
func (m *Memory) Set(cred domain.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = cred
	return nil
}

// Clear removes the credential pair.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = domain.Credential{}
	return nil
}
