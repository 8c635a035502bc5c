// Package susume is a forward-only schema migration runner. It discovers
// units from a source, tracks applied units in a ledger owned by a
// driver, and executes the pending remainder strictly in name order.
package susume

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/root-talis/susume/driver"
	"github.com/root-talis/susume/invoke"
	source2 "github.com/root-talis/susume/source"
	"github.com/root-talis/susume/unit"
)

// ---

type Susume interface {
	Run(ctx context.Context) (*RunResult, error)
	Status(ctx context.Context) (*StatusReport, error)
	Adopt(ctx context.Context) (*AdoptResult, error)
}

// RunResult is the outcome of one Run invocation. Err is non-nil
// exactly when Failed > 0 and carries the failing unit's error.
type RunResult struct {
	Applied    uint
	Failed     uint
	Skipped    uint
	FailedUnit string
	Err        error
}

type StatusReport struct {
	Units        []unit.State
	AppliedCount uint
	PendingCount uint
	MissingCount uint
}

// AdoptResult lists the units fast-forwarded into the ledger, in order.
type AdoptResult struct {
	Adopted []string
}

// ---

type susumeImpl struct {
	source  source2.Source
	driver  driver.Driver
	invoker invoke.Invoker
	log     *slog.Logger
}

// ---

func New(source source2.Source, driver driver.Driver, invoker invoke.Invoker, log *slog.Logger) Susume {
	if log == nil {
		log = slog.Default()
	}
	return &susumeImpl{
		source:  source,
		driver:  driver,
		invoker: invoker,
		log:     log,
	}
}

// ---

// Run applies all pending units sequentially, recording each success
// immediately, and halts on the first failure. Units after the failing
// one are left untouched and counted as skipped: the ledger always
// holds a contiguous prefix of the pending set in name order.
func (s *susumeImpl) Run(ctx context.Context) (*RunResult, error) {
	pending, err := s.computePending(ctx)
	if err != nil {
		return nil, err
	}

	result := RunResult{}

	if len(pending) == 0 {
		s.log.Info("nothing to do: no pending units")
		return &result, nil
	}

	for i, u := range pending {
		s.log.Info("applying unit", "unit", u.Name)

		if err = s.invoker.Invoke(ctx, u); err != nil {
			result.Failed = 1
			result.FailedUnit = u.Name
			result.Err = err
			result.Skipped = uint(len(pending) - i - 1)
			s.log.Error("unit failed, halting", "unit", u.Name, "error", err)
			return &result, nil
		}

		// A failure here is not a unit failure: the change is applied
		// but unrecorded, and the ledger can no longer be trusted.
		if err = s.driver.RecordApplied(ctx, u.Name); err != nil {
			return nil, fmt.Errorf("failed to record unit %s after it succeeded: %w", u.Name, err)
		}

		result.Applied++
	}

	return &result, nil
}

// Status is a pure read: it never mutates the ledger. Ledger entries
// with no matching discovered unit are reported as missing.
func (s *susumeImpl) Status(ctx context.Context) (*StatusReport, error) {
	availableUnits, appliedEntries, err := s.loadBothSides(ctx)
	if err != nil {
		return nil, err
	}

	appliedByName := make(map[string]unit.Entry, len(*appliedEntries))
	for _, entry := range *appliedEntries {
		appliedByName[entry.Name] = entry
	}

	report := StatusReport{
		Units: make([]unit.State, 0, len(*availableUnits)),
	}

	for _, availableUnit := range *availableUnits {
		entry, ok := appliedByName[availableUnit.Name]

		var status unit.Status
		if ok {
			status = unit.Applied
			report.AppliedCount++
		} else {
			status = unit.Pending
			report.PendingCount++
		}

		report.Units = append(report.Units, unit.State{
			Unit:      availableUnit,
			Status:    status,
			AppliedAt: entry.AppliedAt,
		})
	}

	for _, entry := range *appliedEntries {
		found := false
		for _, availableUnit := range *availableUnits {
			if entry.Name == availableUnit.Name {
				found = true
				break
			}
		}

		if !found {
			report.Units = append(report.Units, unit.State{
				Unit:      unit.Unit{Name: entry.Name},
				Status:    unit.Missing,
				AppliedAt: entry.AppliedAt,
			})
			report.MissingCount++
		}
	}

	sort.Slice(report.Units, func(i, j int) bool {
		return report.Units[i].Name < report.Units[j].Name
	})

	return &report, nil
}

// Adopt records every pending unit as applied without executing it.
// The operator is trusted completely: no verification that the change
// actually exists in the target schema.
func (s *susumeImpl) Adopt(ctx context.Context) (*AdoptResult, error) {
	pending, err := s.computePending(ctx)
	if err != nil {
		return nil, err
	}

	result := AdoptResult{
		Adopted: make([]string, 0, len(pending)),
	}

	for _, u := range pending {
		if err = s.driver.RecordApplied(ctx, u.Name); err != nil {
			return nil, fmt.Errorf("failed to adopt unit %s: %w", u.Name, err)
		}

		s.log.Info("adopted unit without executing it", "unit", u.Name)
		result.Adopted = append(result.Adopted, u.Name)
	}

	return &result, nil
}

// ---

// computePending returns discovered − applied, preserving discovery
// order.
func (s *susumeImpl) computePending(ctx context.Context) ([]unit.Unit, error) {
	availableUnits, appliedEntries, err := s.loadBothSides(ctx)
	if err != nil {
		return nil, err
	}

	appliedNames := make(map[string]struct{}, len(*appliedEntries))
	for _, entry := range *appliedEntries {
		appliedNames[entry.Name] = struct{}{}
	}

	pending := make([]unit.Unit, 0, len(*availableUnits))
	for _, availableUnit := range *availableUnits {
		if _, ok := appliedNames[availableUnit.Name]; !ok {
			pending = append(pending, availableUnit)
		}
	}

	return pending, nil
}

func (s *susumeImpl) loadBothSides(ctx context.Context) (*[]unit.Unit, *[]unit.Entry, error) {
	if err := s.driver.EnsureLedger(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure ledger table: %w", err)
	}

	availableUnits, err := s.source.ListUnits()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get the list of available units: %w", err)
	}

	appliedEntries, err := s.driver.ListApplied(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get the list of applied units: %w", err)
	}

	return availableUnits, appliedEntries, nil
}
