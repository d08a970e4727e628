package storage

func init() {
	RegisterAdapter(isSQLDB, newSQLAdapter)
	RegisterAdapter(isMongoDB, newMongoAdapter)
	RegisterAdapter(isRedisClient, newRedisAdapter)
	RegisterAdapter(isEtcdClient, newEtcdAdapter)

	// drivers
	RegisterDriver(DialectSQLite, newSQLDriver(DialectSQLite))
	RegisterDriver(DialectPostgres, newSQLDriver(DialectPostgres))
	RegisterDriver(DialectMongo, newMongoDriver)
	RegisterDriver(DialectRedis, newRedisDriver)
	RegisterDriver(DialectEtcd, newEtcdDriver)
}

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
	DialectMongo    = "mongodb"
	DialectRedis    = "redis"
	DialectEtcd     = "etcd"
)

// collection is the table / collection / key namespace every backend stores
// memory items under.
const collection = "memory_items"
