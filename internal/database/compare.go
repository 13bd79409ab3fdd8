package database

import (
	"context"
	"fmt"
	"sort"

	"github.com/oss-compliance/license-report/internal/model"
)

// PackageChange describes one package whose version or license differs
// between two runs.
type PackageChange struct {
	// Before is the package as stored in the older run.
	Before model.Package `json:"before"`

	// After is the package as stored in the newer run.
	After model.Package `json:"after"`
}

// Diff is the result of comparing the package lists of two runs.
type Diff struct {
	// OldRunID and NewRunID identify the compared runs.
	OldRunID int64 `json:"old_run_id"`
	NewRunID int64 `json:"new_run_id"`

	// Added lists packages present only in the newer run.
	Added []model.Package `json:"added,omitempty"`

	// Removed lists packages present only in the older run.
	Removed []model.Package `json:"removed,omitempty"`

	// Changed lists packages whose version or license differs.
	Changed []PackageChange `json:"changed,omitempty"`
}

// HasChanges reports whether the two runs differ at all.
func (d *Diff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Changed) > 0
}

// packageKey identifies a package across runs.
// Name alone is ambiguous when the same package appears in both inputs.
type packageKey struct {
	source model.Source
	name   string
}

// CompareRuns diffs the package lists of two stored runs.
// Packages are matched by source and name; a matched package counts as
// changed when its version or license differs.
func (hdb *HistoryDB) CompareRuns(ctx context.Context, oldRunID, newRunID int64) (*Diff, error) {
	for _, id := range []int64{oldRunID, newRunID} {
		run, err := hdb.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		if run == nil {
			return nil, fmt.Errorf("run %d not found", id)
		}
	}

	oldPackages, err := hdb.GetPackages(ctx, oldRunID)
	if err != nil {
		return nil, err
	}
	newPackages, err := hdb.GetPackages(ctx, newRunID)
	if err != nil {
		return nil, err
	}

	return diffPackages(oldRunID, newRunID, oldPackages, newPackages), nil
}

// CompareLatest diffs the two most recent runs for a source directory.
func (hdb *HistoryDB) CompareLatest(ctx context.Context, sourceDir string) (*Diff, error) {
	runs, err := hdb.ListRuns(ctx, sourceDir, 2)
	if err != nil {
		return nil, err
	}
	if len(runs) < 2 {
		return nil, fmt.Errorf("need at least two runs for %q, found %d", sourceDir, len(runs))
	}

	// ListRuns returns newest first
	return hdb.CompareRuns(ctx, runs[1].ID, runs[0].ID)
}

// diffPackages computes the diff between two package lists.
func diffPackages(oldRunID, newRunID int64, oldPackages, newPackages []model.Package) *Diff {
	diff := &Diff{
		OldRunID: oldRunID,
		NewRunID: newRunID,
	}

	oldByKey := make(map[packageKey]model.Package, len(oldPackages))
	for _, pkg := range oldPackages {
		oldByKey[packageKey{pkg.Source, pkg.Name}] = pkg
	}

	seen := make(map[packageKey]bool, len(newPackages))
	for _, pkg := range newPackages {
		key := packageKey{pkg.Source, pkg.Name}
		seen[key] = true

		old, ok := oldByKey[key]
		if !ok {
			diff.Added = append(diff.Added, pkg)
			continue
		}
		if old.Version != pkg.Version || old.License != pkg.License {
			diff.Changed = append(diff.Changed, PackageChange{Before: old, After: pkg})
		}
	}

	for _, pkg := range oldPackages {
		if !seen[packageKey{pkg.Source, pkg.Name}] {
			diff.Removed = append(diff.Removed, pkg)
		}
	}

	sortPackages(diff.Added)
	sortPackages(diff.Removed)
	sort.Slice(diff.Changed, func(i, j int) bool {
		if diff.Changed[i].After.Source != diff.Changed[j].After.Source {
			return diff.Changed[i].After.Source < diff.Changed[j].After.Source
		}
		return diff.Changed[i].After.Name < diff.Changed[j].After.Name
	})

	return diff
}

// sortPackages orders packages by source then name for stable output.
func sortPackages(packages []model.Package) {
	sort.Slice(packages, func(i, j int) bool {
		if packages[i].Source != packages[j].Source {
			return packages[i].Source < packages[j].Source
		}
		return packages[i].Name < packages[j].Name
	})
}
