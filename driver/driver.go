package driver

import (
	"context"
	"errors"

	"github.com/root-talis/susume/unit"
)

// Driver persists the ledger of applied units. The ledger is
// append-only: rows are never updated or deleted.
type Driver interface {
	// EnsureLedger idempotently creates the ledger table.
	EnsureLedger(ctx context.Context) error
	// ListApplied returns all ledger entries ordered by unit name.
	ListApplied(ctx context.Context) (*[]unit.Entry, error)
	// RecordApplied inserts one ledger row. Inserting a name that is
	// already present returns ErrDuplicateEntry.
	RecordApplied(ctx context.Context, name string) error
}

var (
	// ErrStoreUnavailable means the target store cannot be reached or
	// authenticated to. Fatal for the whole invocation.
	ErrStoreUnavailable = errors.New("target store is unavailable")

	// ErrDuplicateEntry means a ledger insert hit the unique name
	// constraint. This signals broken sequencing, never a condition to
	// retry or ignore.
	ErrDuplicateEntry = errors.New("unit is already recorded in the ledger")
)
