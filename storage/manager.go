package storage

import (
	"context"
	"errors"
	"fmt"
)

type Manager struct {
	adapter Adapter
	driver  Driver
}

func NewManager() *Manager {
	return &Manager{}
}

// Start resolves the adapter and driver for an already opened connection
// (*sql.DB, *mongo.Database, *redis.Client or *clientv3.Client). A nil conn
// leaves the manager unconfigured.
func (m *Manager) Start(conn any) error {
	if conn == nil {
		return nil
	}
	a, err := RegistryAdapter(conn)
	if err != nil {
		return err
	}
	d, err := RegistryDriver(a)
	if err != nil {
		return err
	}
	m.adapter = a
	m.driver = d
	return nil
}

func (m *Manager) Adapter() Adapter { return m.adapter }
func (m *Manager) Driver() Driver   { return m.driver }
func (m *Manager) Dialect() string {
	if m.adapter == nil {
		return ""
	}
	return m.adapter.Dialect()
}

// Build runs the driver's migrations.
func (m *Manager) Build(ctx context.Context) error {
	if m.driver == nil {
		return nil
	}
	return m.driver.Migrate(ctx)
}

// Repos returns the repositories of the active driver.
func (m *Manager) Repos() (Repos, error) {
	if m.driver == nil {
		return nil, ErrNoDriver
	}
	repos, ok := m.driver.(Repos)
	if !ok {
		return nil, fmt.Errorf("driver %s does not implement Repos", m.driver.Dialect())
	}
	return repos, nil
}

var (
	ErrNoAdapter = errors.New("no adapter registered for connection type")
	ErrNoDriver  = errors.New("storage not started")
	ErrNotFound  = errors.New("memory item not found")
)
