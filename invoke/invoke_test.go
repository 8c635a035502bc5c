package invoke_test

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/root-talis/susume/invoke"
	"github.com/root-talis/susume/unit"
)

// -- testing double for the store connection ----------

type connMock struct {
	executed []string
	err      error
}

func (m *connMock) ExecContext(_ context.Context, query string, _ ...any) (sql.Result, error) {
	m.executed = append(m.executed, query)
	return nil, m.err
}

// ---

var ErrAny = errors.New("test error")

var migrationsFS = fstest.MapFS{ // nolint:gochecknoglobals
	"migrations": {
		Mode: fs.ModeDir,
	},
	"migrations/001_initial.sql": {
		Data: []byte("CREATE TABLE users (id int);"),
	},
	"migrations/002_backfill.sh": {
		Data: []byte("#!/bin/sh\nexit 0\n"),
	},
}

func TestInvokeExecutesCallableUnit(t *testing.T) {
	t.Parallel()

	conn := connMock{}
	inv := invoke.NewSQLInvoker(migrationsFS, &conn)

	err := inv.Invoke(context.Background(), unit.Unit{
		Name: "001_initial.sql",
		Kind: unit.Callable,
		Path: "migrations/001_initial.sql",
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"CREATE TABLE users (id int);"}, conn.executed)
}

func TestInvokeWrapsExecutionFailure(t *testing.T) {
	t.Parallel()

	conn := connMock{err: ErrAny}
	inv := invoke.NewSQLInvoker(migrationsFS, &conn)

	err := inv.Invoke(context.Background(), unit.Unit{
		Name: "001_initial.sql",
		Kind: unit.Callable,
		Path: "migrations/001_initial.sql",
	})

	assert.ErrorIs(t, err, ErrAny)
}

func TestInvokeRejectsSelfContainedUnit(t *testing.T) {
	t.Parallel()

	conn := connMock{}
	inv := invoke.NewSQLInvoker(migrationsFS, &conn)

	err := inv.Invoke(context.Background(), unit.Unit{
		Name: "002_backfill.sh",
		Kind: unit.SelfContained,
		Path: "migrations/002_backfill.sh",
	})

	assert.ErrorIs(t, err, invoke.ErrUnsupportedUnit)
	assert.ErrorContains(t, err, "adopt")
	assert.Empty(t, conn.executed, "a self-contained unit must never be executed")
}

func TestInvokeFailsOnMissingUnitBody(t *testing.T) {
	t.Parallel()

	conn := connMock{}
	inv := invoke.NewSQLInvoker(migrationsFS, &conn)

	err := inv.Invoke(context.Background(), unit.Unit{
		Name: "003_vanished.sql",
		Kind: unit.Callable,
		Path: "migrations/003_vanished.sql",
	})

	assert.Error(t, err)
	assert.Empty(t, conn.executed)
}
