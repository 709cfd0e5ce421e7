// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"fmt"
	"maps"
	"slices"
	"sort"
)

// ExportSet is the module's advertised surface: the function and alias lists
// rendered into both generated artifacts. Both lists are sorted in lexical
// byte order and free of duplicates, so rendering is deterministic for a
// given set of source files regardless of enumeration order.
type ExportSet struct {
	// Functions holds the exported function names.
	Functions []string

	// Aliases holds the exported alias names, unique across the module.
	Aliases []string

	// AliasTargets maps each exported alias to the function it expands to.
	AliasTargets map[string]string
}

// BuildExportSet folds scan records into the export surface. Records flagged
// WIP are dropped entirely: their names and their aliases stay out of both
// lists. Function names de-duplicate case-sensitively (the same base name in
// two subdirectories exports once); aliases de-duplicate across the whole
// module. When two functions claim the same alias, the lexically-first
// function keeps it and a warning diagnostic records the loser.
func BuildExportSet(records []FunctionRecord) (*ExportSet, []Diagnostic) {
	exported := make([]FunctionRecord, 0, len(records))
	for _, rec := range records {
		if rec.WIP {
			continue
		}
		exported = append(exported, rec)
	}

	// Name-sorted iteration makes alias ownership deterministic: the
	// lexically-first function wins a contested alias.
	sort.Slice(exported, func(i, j int) bool {
		if exported[i].Name != exported[j].Name {
			return exported[i].Name < exported[j].Name
		}
		return exported[i].Path < exported[j].Path
	})

	functions := make(map[string]struct{}, len(exported))
	targets := make(map[string]string)
	var diags []Diagnostic

	for _, rec := range exported {
		functions[rec.Name] = struct{}{}
		for _, alias := range rec.Aliases {
			owner, claimed := targets[alias]
			if !claimed {
				targets[alias] = rec.Name
				continue
			}
			if owner != rec.Name {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeAliasContention,
					Message: fmt.Sprintf("alias %q declared by both %q and %q; keeping %q",
						alias, owner, rec.Name, owner),
					Path: rec.Path,
				})
			}
		}
	}

	return &ExportSet{
		Functions:    slices.Sorted(maps.Keys(functions)),
		Aliases:      slices.Sorted(maps.Keys(targets)),
		AliasTargets: targets,
	}, diags
}
