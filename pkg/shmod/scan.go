// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// aliasAnnotationPattern matches one alias annotation anywhere in a function
// file, e.g. `# [alias: sb, "get-f"]`. The capture group is the raw
// comma-separated token list. A file may carry any number of annotations.
var aliasAnnotationPattern = regexp.MustCompile(`\[alias:[ \t]*([^\]]*)\]`)

type (
	// FunctionRecord describes one discovered function file under public/.
	FunctionRecord struct {
		// Name is the exported function name, taken verbatim from the file
		// base name (extension stripped).
		Name string

		// Path is the absolute path of the backing file.
		Path string

		// Aliases holds the alias tokens declared by the file's annotations,
		// in declaration order, quoting and surrounding whitespace stripped.
		Aliases []string

		// WIP reports whether the base name carries the work-in-progress
		// suffix. WIP files stay loadable but are excluded from export.
		WIP bool
	}

	// ScanResult is the outcome of enumerating a module's public directory.
	ScanResult struct {
		// Records lists every readable function file, in walk order.
		// Duplicate names across subdirectories are preserved here;
		// de-duplication happens when the export set is built.
		Records []FunctionRecord

		// FilesScanned counts the function files considered, readable or not.
		FilesScanned int

		// Diagnostics collects per-file warnings (e.g. unreadable files).
		Diagnostics []Diagnostic
	}
)

// ScanPublicDir enumerates the module's public directory recursively and
// returns a record per readable function file. A missing public directory is
// a precondition failure and aborts the module's run; an unreadable file
// only excludes that file and is reported as a warning diagnostic.
func ScanPublicDir(mod *Module) (*ScanResult, error) {
	publicDir := mod.PublicDir()

	info, err := os.Stat(publicDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPublicDirMissing, publicDir)
		}
		return nil, fmt.Errorf("failed to stat public dir %s: %w", publicDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrPublicDirMissing, publicDir)
	}

	result := &ScanResult{}

	walkErr := filepath.WalkDir(publicDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// An unreadable subtree excludes its files from this run but
			// does not abort the scan.
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeFileUnreadable,
				Message:  fmt.Sprintf("cannot access %s: %v", path, walkErr),
				Path:     path,
				Cause:    walkErr,
			})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}
		if filepath.Ext(d.Name()) != FunctionFileExt {
			return nil
		}

		result.FilesScanned++

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeFileUnreadable,
				Message:  fmt.Sprintf("cannot read %s: %v; excluded from exports", path, readErr),
				Path:     path,
				Cause:    readErr,
			})
			return nil
		}

		name := strings.TrimSuffix(d.Name(), FunctionFileExt)
		result.Records = append(result.Records, FunctionRecord{
			Name:    name,
			Path:    path,
			Aliases: ParseAliasAnnotations(data),
			WIP:     strings.HasSuffix(name, WIPSuffix),
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk public dir %s: %w", publicDir, walkErr)
	}

	return result, nil
}

// ParseAliasAnnotations extracts every alias token declared by the source's
// alias annotations. Tokens are returned in declaration order with
// surrounding whitespace and one layer of matching quotes stripped; empty
// tokens are dropped. Duplicates are preserved here and collapsed later.
func ParseAliasAnnotations(src []byte) []string {
	var aliases []string
	for _, match := range aliasAnnotationPattern.FindAllSubmatch(src, -1) {
		for _, raw := range strings.Split(string(match[1]), ",") {
			token := stripQuotes(strings.TrimSpace(raw))
			if token == "" {
				continue
			}
			aliases = append(aliases, token)
		}
	}
	return aliases
}

// stripQuotes removes one layer of matching single or double quotes and
// trims whitespace inside them.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			return strings.TrimSpace(s[1 : len(s)-1])
		}
	}
	return s
}
