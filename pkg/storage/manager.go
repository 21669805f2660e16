package storage

import (
	"fmt"
	"sync"
)

// Manager holds the named disks configured at boot.
type Manager struct {
	mu          sync.RWMutex
	disks       map[string]Disk
	defaultName string
}

// New returns an empty Manager whose Default resolves to defaultName.
func New(defaultName string) *Manager {
	return &Manager{disks: map[string]Disk{}, defaultName: defaultName}
}

// Register adds (or replaces) a named disk.
func (m *Manager) Register(name string, d Disk) {
	m.mu.Lock()
	m.disks[name] = d
	m.mu.Unlock()
}

// Use returns the named disk.
func (m *Manager) Use(name string) (Disk, error) {
	m.mu.RLock()
	d, ok := m.disks[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the default disk, falling back to "local" when the
// configured default never booted (e.g. S3 without a bucket).
func (m *Manager) Default() Disk {
	if d, err := m.Use(m.defaultName); err == nil {
		return d
	}
	d, err := m.Use("local")
	if err != nil {
		panic(err)
	}
	return d
}
