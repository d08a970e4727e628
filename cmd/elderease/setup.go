package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	clientv3 "go.etcd.io/etcd/client/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	_ "modernc.org/sqlite"

	"elderease/api"
	"elderease/config"
	"elderease/log"
	"elderease/memory"
	"elderease/nlp"
	"elderease/srv"
	"elderease/storage"
)

const connectTimeout = 5 * time.Second

// NewServices wires the memory service and the HTTP API. Store and parser
// failures are logged and leave the service unconfigured instead of stopping
// the process.
func NewServices(ctx context.Context, cfg *config.Config) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	opts := []memory.Option{memory.WithTimeout(cfg.Timeouts.Store)}

	// 1. Storage
	mgr, closeStore, err := initStorage(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Str("store", cfg.Store.Backend).Msg("store unavailable")
	} else {
		logger.Info().Str("dialect", mgr.Dialect()).Msg("store initialised")
		opts = append(opts, memory.WithStorage(mgr))
	}

	// 2. Parser
	parser, err := initParser(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Str("parser", cfg.Parser.Provider).Msg("parser unavailable")
	} else {
		logger.Info().Str("provider", parser.Provider()).Msg("parser initialised")
		opts = append(opts, memory.WithParser(parser))
	}

	m := memory.New(opts...)

	// 3. Transport; shut down before the store is closed
	server := api.NewServer(m, *logger)
	services = append(services, api.NewService(cfg.Addr, server))
	if closeStore != nil {
		services = append(services, srv.NewCleanup(closeStore))
	}

	return services
}

// initStorage connects the configured backend and runs its migrations.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.Manager, func() error, error) {
	conn, closeConn, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	mgr := storage.NewManager()
	if err := mgr.Start(conn); err != nil {
		_ = closeConn()
		return nil, nil, err
	}

	buildCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Store)
	defer cancel()
	if err := mgr.Build(buildCtx); err != nil {
		_ = closeConn()
		return nil, nil, fmt.Errorf("migrate %s store: %w", mgr.Dialect(), err)
	}
	return mgr, closeConn, nil
}

// openStore returns a connection storage.Manager accepts and a func that
// closes it.
func openStore(ctx context.Context, cfg config.StoreConfig) (any, func() error, error) {
	switch cfg.Backend {
	case config.StoreSQLite:
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		return db, db.Close, nil

	case config.StorePostgres:
		if cfg.PostgresDSN == "" {
			return nil, nil, errors.New("POSTGRES_DSN is required")
		}
		// pgx stdlib driver so the store gets a *sql.DB
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		return db, db.Close, nil

	case config.StoreMongo:
		if cfg.MongoURI == "" {
			return nil, nil, errors.New("MONGODB_URI is required")
		}
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ping mongodb: %w", err)
		}
		closeFn := func() error { return client.Disconnect(context.Background()) }
		return client.Database(cfg.MongoDatabase), closeFn, nil

	case config.StoreRedis:
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		opts.DialTimeout = connectTimeout
		client := redis.NewClient(opts)
		return client, client.Close, nil

	case config.StoreEtcd:
		cli, err := clientv3.New(clientv3.Config{
			Endpoints:   cfg.EtcdEndpoints,
			DialTimeout: connectTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create etcd client: %w", err)
		}
		return cli, cli.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Backend)
	}
}

// initParser builds the configured parser and checks that it can serve.
func initParser(ctx context.Context, cfg *config.Config) (nlp.Parser, error) {
	p, err := nlp.NewParser(nlp.Config{
		Provider: cfg.Parser.Provider,
		BaseURL:  cfg.Parser.URL,
		Model:    cfg.Parser.Model,
		Timeout:  cfg.Parser.Timeout,
	})
	if err != nil {
		return nil, err
	}

	readyCtx, cancel := context.WithTimeout(ctx, cfg.Parser.Timeout)
	defer cancel()
	if err := p.Ready(readyCtx); err != nil {
		return nil, err
	}
	return p, nil
}
