package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/root-talis/susume/driver"
	"github.com/root-talis/susume/unit"
)

type DriverConfig struct {
	DatabaseName    string
	LedgerTableName string
}

type mysqlDriver struct {
	conn   *sql.DB
	config DriverConfig
}

func NewDriver(conn *sql.DB, config DriverConfig) driver.Driver {
	return &mysqlDriver{
		conn:   conn,
		config: config,
	}
}

const mysqlErrDuplicateEntry = 1062

func (drv *mysqlDriver) EnsureLedger(ctx context.Context) error {
	tableName := drv.makeEscapedLedgerTableName()

	_, err := drv.conn.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s ("+
			"id         int not null auto_increment, "+
			"name       varchar(255) not null, "+
			"applied_at datetime default CURRENT_TIMESTAMP not null, "+
			"primary key (id), "+
			"unique key uq_name (name)"+
			") default charset utf8mb4",
		tableName,
	))
	if err != nil {
		return fmt.Errorf("failed to create ledger table %s: %w", tableName, err)
	}

	return nil
}

func (drv *mysqlDriver) ListApplied(ctx context.Context) (*[]unit.Entry, error) {
	tableName := drv.makeEscapedLedgerTableName()

	rows, err := drv.conn.QueryContext(ctx, fmt.Sprintf(
		"SELECT name, applied_at FROM %s ORDER BY name",
		tableName,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to list applied units: %w", err)
	}
	defer rows.Close()

	result, err := drv.fetchEntries(rows)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (drv *mysqlDriver) fetchEntries(rows *sql.Rows) ([]unit.Entry, error) {
	result := make([]unit.Entry, 0)
	for rows.Next() {
		var entry unit.Entry
		var appliedAt string

		err := rows.Scan(
			&entry.Name,
			&appliedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to read ledger table: %w", err)
		}

		entry.AppliedAt, err = time.Parse("2006-01-02 15:04:05", appliedAt)
		if err != nil {
			entry.AppliedAt = time.Time{}
		}

		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger table: %w", err)
	}

	return result, nil
}

func (drv *mysqlDriver) RecordApplied(ctx context.Context, name string) error {
	tableName := drv.makeEscapedLedgerTableName()

	_, err := drv.conn.ExecContext(ctx, fmt.Sprintf(
		"INSERT INTO %s (name) VALUES (?)",
		tableName,
	), name)

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
		return fmt.Errorf("%w: %s", driver.ErrDuplicateEntry, name)
	}
	if err != nil {
		return fmt.Errorf("failed to record unit %s: %w", name, err)
	}

	return nil
}

func (drv *mysqlDriver) makeEscapedLedgerTableName() string {
	return fmt.Sprintf(
		"`%s`.`%s`",
		escapeMysqlString(drv.config.DatabaseName),
		escapeMysqlString(drv.config.LedgerTableName),
	)
}

// originally from https://gist.github.com/siddontang/8875771
func escapeMysqlString(sql string) string { //nolint:cyclop
	const prealloc = 2
	dest := make([]rune, 0, prealloc*len(sql))

	for _, character := range sql {
		var escape rune

		switch character {
		case 0:
			escape = '0'
		case '\n':
			escape = 'n'
		case '\r':
			escape = 'r'
		case '\\':
			escape = '\\'
		case '\'':
			escape = '\''
		case '"':
			escape = '"'
		case '`':
			escape = '`'
		case '\032':
			escape = 'Z'
		}

		if escape != 0 {
			dest = append(dest, '\\', escape)
		} else {
			dest = append(dest, character)
		}
	}

	return string(dest)
}
