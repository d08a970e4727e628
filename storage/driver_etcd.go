package storage

import (
	"context"
	"fmt"
)

type EtcdDriver struct {
	a *EtcdAdapter
}

func newEtcdDriver(adapter Adapter) (Driver, error) {
	a, ok := adapter.(*EtcdAdapter)
	if !ok {
		return nil, fmt.Errorf("etcd driver expects *EtcdAdapter, got %T", adapter)
	}
	return &EtcdDriver{a: a}, nil
}

func (d *EtcdDriver) Dialect() string { return DialectEtcd }

// Migrate verifies the cluster answers reads; etcd has no schema.
func (d *EtcdDriver) Migrate(ctx context.Context) error {
	if d.a == nil || d.a.Client == nil {
		return nil
	}
	if _, err := d.a.Client.Get(ctx, etcdPrefix+"health-check"); err != nil {
		return fmt.Errorf("etcd health check failed: %w", err)
	}
	return nil
}

func (d *EtcdDriver) Memory() MemoryRepo {
	return &etcdMemoryRepo{client: d.a.Client}
}
