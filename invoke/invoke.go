package invoke

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/root-talis/susume/unit"
)

// Invoker executes one unit against the target store.
type Invoker interface {
	Invoke(ctx context.Context, u unit.Unit) error
}

// ErrUnsupportedUnit means a unit exposes no shape the runner can
// execute. Such units must be fast-forwarded with `susume adopt`.
var ErrUnsupportedUnit = errors.New("unit cannot be executed by the runner")

// ---

// Conn is the slice of *sql.DB the invoker needs.
type Conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type sqlInvoker struct {
	fsys fs.FS
	conn Conn
}

// NewSQLInvoker creates an Invoker that reads a callable unit's body
// from fsys and executes it on conn. The connection must allow
// multi-statement execution for units with more than one statement.
func NewSQLInvoker(fsys fs.FS, conn Conn) Invoker {
	return &sqlInvoker{
		fsys: fsys,
		conn: conn,
	}
}

func (inv *sqlInvoker) Invoke(ctx context.Context, u unit.Unit) error {
	if u.Kind != unit.Callable {
		return fmt.Errorf(
			"%w: %s is self-contained; if it has already been applied out-of-band, run `susume adopt`",
			ErrUnsupportedUnit, u.Name,
		)
	}

	body, err := fs.ReadFile(inv.fsys, u.Path)
	if err != nil {
		return fmt.Errorf("failed to read unit %s: %w", u.Name, err)
	}

	if _, err = inv.conn.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("unit %s failed: %w", u.Name, err)
	}

	return nil
}
