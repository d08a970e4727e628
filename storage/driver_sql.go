package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type SQLDriver struct {
	a       *SQLAdapter
	dialect string
	memory  *sqlMemoryRepo
}

func newSQLDriver(dialect string) driverFactory {
	return func(adapter Adapter) (Driver, error) {
		a, ok := adapter.(*SQLAdapter)
		if !ok {
			return nil, fmt.Errorf("sql driver expects *SQLAdapter, got %T", adapter)
		}
		return &SQLDriver{
			a:       a,
			dialect: dialect,
			memory:  &sqlMemoryRepo{db: a.DB, dialect: dialect},
		}, nil
	}
}

func (d *SQLDriver) Dialect() string { return d.dialect }

func (d *SQLDriver) Migrate(ctx context.Context) error {
	if d.a == nil || d.a.DB == nil {
		return nil
	}

	var migrations map[int][]string
	switch d.dialect {
	case DialectSQLite:
		migrations = sqliteMigrations
	case DialectPostgres:
		migrations = postgresMigrations
	default:
		return fmt.Errorf("unsupported SQL dialect: %s", d.dialect)
	}

	currentVersion := d.getSchemaVersion(ctx)
	maxVersion := latestVersion(migrations)

	if currentVersion >= maxVersion {
		return nil
	}

	tx, err := d.a.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for v := currentVersion + 1; v <= maxVersion; v++ {
		ops, ok := migrations[v]
		if !ok {
			continue
		}

		for _, op := range ops {
			if _, err := tx.ExecContext(ctx, op); err != nil {
				return fmt.Errorf("migration %d failed: %w", v, err)
			}
		}

		// Update schema version
		var updateSQL string
		if currentVersion == 0 {
			updateSQL = "INSERT INTO memory_schema_version (num) VALUES (" + d.placeholder(1) + ")"
		} else {
			updateSQL = "UPDATE memory_schema_version SET num = " + d.placeholder(1)
		}
		if _, err := tx.ExecContext(ctx, updateSQL, v); err != nil {
			return err
		}
		currentVersion = v
	}

	return tx.Commit()
}

func (d *SQLDriver) getSchemaVersion(ctx context.Context) int {
	var version sql.NullInt64
	err := d.a.DB.QueryRowContext(ctx, "SELECT num FROM memory_schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) || err != nil || !version.Valid {
		// missing table means nothing has been applied yet
		return 0
	}
	return int(version.Int64)
}

func (d *SQLDriver) placeholder(n int) string {
	if d.dialect == DialectPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (d *SQLDriver) Memory() MemoryRepo {
	return d.memory
}

func latestVersion[T any](migrations map[int][]T) int {
	maxVersion := 0
	for v := range migrations {
		if v > maxVersion {
			maxVersion = v
		}
	}
	return maxVersion
}
