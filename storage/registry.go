package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

type Adapter interface {
	Dialect() string
}

type Driver interface {
	Dialect() string
	Migrate(ctx context.Context) error
}

type adapterMatcher func(conn any) bool
type adapterFactory func(conn any) (Adapter, error)
type driverFactory func(adapter Adapter) (Driver, error)

type adapterEntry struct {
	match   adapterMatcher
	factory adapterFactory
}

var (
	registryMu      sync.RWMutex
	adapterRegistry = make([]adapterEntry, 0)
	driverRegistry  = make(map[string]driverFactory)
)

func RegisterAdapter(match adapterMatcher, factory adapterFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	adapterRegistry = append(adapterRegistry, adapterEntry{match: match, factory: factory})
}

func RegisterDriver(dialect string, factory driverFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	driverRegistry[dialect] = factory
}

// Dialects lists the dialects a driver is registered for, sorted.
func Dialects() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]string, 0, len(driverRegistry))
	for d := range driverRegistry {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func RegistryAdapter(conn any) (Adapter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, entry := range adapterRegistry {
		if entry.match(conn) {
			return entry.factory(conn)
		}
	}
	return nil, fmt.Errorf("%w: %T", ErrNoAdapter, conn)
}

func RegistryDriver(adapter Adapter) (Driver, error) {
	dialect := adapter.Dialect()
	registryMu.RLock()
	f, ok := driverRegistry[dialect]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no driver registered for dialect: %s", dialect)
	}
	return f(adapter)
}
