package storage

import (
	"fmt"

	clientv3 "go.etcd.io/etcd/client/v3"
)

type EtcdAdapter struct {
	Client *clientv3.Client
}

func (a *EtcdAdapter) Dialect() string { return DialectEtcd }

func isEtcdClient(conn any) bool {
	_, ok := conn.(*clientv3.Client)
	return ok
}

func newEtcdAdapter(conn any) (Adapter, error) {
	c := conn.(*clientv3.Client)
	if c == nil {
		return nil, fmt.Errorf("etcd adapter: nil *clientv3.Client")
	}
	return &EtcdAdapter{Client: c}, nil
}
