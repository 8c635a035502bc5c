package unit

import "time"

// Kind tells the runner how a unit may be executed.
type Kind rune

const (
	// Callable units expose a body the runner can execute against the
	// target store (a plain .sql script).
	Callable Kind = 'c'
	// SelfContained units manage their own store connection end-to-end
	// and must never be re-invoked by the runner; they can only be
	// adopted into the ledger.
	SelfContained Kind = 's'
)

// ---

// Unit identifies one discovered schema/data change. Name is the ledger
// key and the sole ordering mechanism; Path locates the unit's body
// inside its source filesystem.
type Unit struct {
	Name string
	Kind Kind
	Path string
}

// ---

type Status uint

const (
	Pending Status = iota
	Applied
	// Missing marks a ledger entry whose unit is no longer discoverable.
	// A data-integrity warning, never repaired automatically.
	Missing
)

func (s Status) String() string {
	switch s {
	case Applied:
		return "applied"
	case Missing:
		return "missing"
	default:
		return "PENDING"
	}
}

// ---

// Entry is one ledger row.
type Entry struct {
	Name      string
	AppliedAt time.Time
}

// State is a unit's position in the status report.
type State struct {
	Unit
	Status    Status
	AppliedAt time.Time
}
