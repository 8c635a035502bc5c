package source

import (
	"github.com/root-talis/susume/unit"
)

// Source enumerates migration units. Implementations must return units
// sorted lexicographically by name and perform no side effects: listing
// never executes anything.
type Source interface {
	ListUnits() (*[]unit.Unit, error)
}
