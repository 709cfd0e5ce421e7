// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"
	"mvdan.cc/sh/v3/syntax"
)

// LintConfigName is the optional per-module exception file.
const LintConfigName = "lint.toml"

// Lint finding codes.
const (
	LintSyntaxError     = "syntax-error"
	LintMissingFunction = "missing-function"
	LintAliasGrammar    = "alias-grammar"
	LintDuplicateAlias  = "duplicate-alias"
	LintWIPFile         = "wip-file"
	LintLoaderMissing   = "loader-missing"
	LintFileUnreadable  = "file-unreadable"
)

type (
	// Finding is one lint result. Line is 1-based and zero when the finding
	// applies to the whole file.
	Finding struct {
		Severity Severity
		Code     string
		Path     string
		Line     int
		Message  string
	}

	// LintResult aggregates findings across one module.
	LintResult struct {
		Findings    []Finding
		FilesLinted int
		// Suppressed counts findings dropped by lint.toml exceptions.
		Suppressed int
	}

	// LintOptions configures a lint run.
	LintOptions struct {
		// ConfigFile overrides the exception file location; default is
		// lint.toml in the module root. A missing file means no exceptions.
		ConfigFile string
	}

	// LintConfig is the parsed lint.toml.
	LintConfig struct {
		// Exclude lists glob patterns (relative to the module root) whose
		// files are not linted at all.
		Exclude []string `toml:"exclude"`
		// Exceptions suppress individual findings.
		Exceptions []LintException `toml:"exception"`
	}

	// LintException suppresses findings matching a code and/or path glob.
	// Reason documents why; it is required so exceptions stay auditable.
	LintException struct {
		Code   string `toml:"code"`
		Path   string `toml:"path"`
		Reason string `toml:"reason"`
	}
)

// Error implements the error interface so findings can travel as errors.
func (f Finding) Error() string {
	if f.Line > 0 {
		return fmt.Sprintf("%s:%d: %s: %s", f.Path, f.Line, f.Code, f.Message)
	}
	return fmt.Sprintf("%s: %s: %s", f.Path, f.Code, f.Message)
}

// HasErrors reports whether any finding is error-level.
func (r *LintResult) HasErrors() bool {
	return r.ErrorCount() > 0
}

// ErrorCount returns the number of error-level findings.
func (r *LintResult) ErrorCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Lint checks every function file plus the generated loader: shell syntax
// (bash dialect), the one-function-per-file contract, alias token grammar,
// and duplicate aliases. Findings are returned, never printed; error-level
// findings stop a build before the reimport step.
func Lint(mod *Module, opts LintOptions) (*LintResult, error) {
	cfg, err := loadLintConfig(mod, opts)
	if err != nil {
		return nil, err
	}

	scan, err := ScanPublicDir(mod)
	if err != nil {
		return nil, err
	}

	result := &LintResult{}
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))

	for _, diag := range scan.Diagnostics {
		result.add(cfg, Finding{
			Severity: SeverityWarning,
			Code:     LintFileUnreadable,
			Path:     relOrSelf(mod.Root, diag.Path),
			Message:  diag.Message,
		})
	}

	for _, rec := range scan.Records {
		lintFunctionFile(mod, cfg, parser, rec, result)
	}

	// Private helpers get the syntax check only: they are sourced by the
	// loader but export nothing, so the naming contracts do not apply.
	for _, path := range listFunctionFiles(mod.PrivateDir()) {
		relPath := relOrSelf(mod.Root, path)
		if cfg.excluded(relPath) {
			continue
		}
		result.FilesLinted++
		lintSyntax(cfg, parser, path, relPath, result)
	}

	_, contentions := BuildExportSet(scan.Records)
	for _, diag := range contentions {
		result.add(cfg, Finding{
			Severity: SeverityWarning,
			Code:     LintDuplicateAlias,
			Path:     relOrSelf(mod.Root, diag.Path),
			Message:  diag.Message,
		})
	}

	if _, err := os.Stat(mod.LoaderPath()); os.IsNotExist(err) {
		result.add(cfg, Finding{
			Severity: SeverityWarning,
			Code:     LintLoaderMissing,
			Path:     mod.LoaderName(),
			Message:  "loader not generated yet; run 'shmod regen'",
		})
	} else {
		result.FilesLinted++
		lintSyntax(cfg, parser, mod.LoaderPath(), mod.LoaderName(), result)
	}

	sort.Slice(result.Findings, func(i, j int) bool {
		a, b := result.Findings[i], result.Findings[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Code < b.Code
	})

	return result, nil
}

// lintFunctionFile runs the per-file checks for one public function file.
func lintFunctionFile(mod *Module, cfg *LintConfig, parser *syntax.Parser, rec FunctionRecord, result *LintResult) {
	relPath := relOrSelf(mod.Root, rec.Path)
	if cfg.excluded(relPath) {
		return
	}
	result.FilesLinted++

	if rec.WIP {
		result.add(cfg, Finding{
			Severity: SeverityNote,
			Code:     LintWIPFile,
			Path:     relPath,
			Message:  "work in progress; excluded from exports",
		})
	}

	for _, alias := range rec.Aliases {
		if !IsValidFunctionName(alias) {
			result.add(cfg, Finding{
				Severity: SeverityError,
				Code:     LintAliasGrammar,
				Path:     relPath,
				Message:  fmt.Sprintf("alias %q is not a valid alias name", alias),
			})
		}
	}

	file, ok := lintSyntax(cfg, parser, rec.Path, relPath, result)
	if !ok || rec.WIP {
		// Unparseable files already have a syntax finding; WIP files are
		// exempt from the function-name contract while in progress.
		return
	}

	declared := false
	syntax.Walk(file, func(node syntax.Node) bool {
		if decl, isFunc := node.(*syntax.FuncDecl); isFunc && decl.Name.Value == rec.Name {
			declared = true
		}
		return true
	})
	if !declared {
		result.add(cfg, Finding{
			Severity: SeverityError,
			Code:     LintMissingFunction,
			Path:     relPath,
			Message:  fmt.Sprintf("file must define a function named %q", rec.Name),
		})
	}
}

// lintSyntax parses one file with the bash grammar and records a finding on
// failure. Returns the parsed file and whether parsing succeeded.
func lintSyntax(cfg *LintConfig, parser *syntax.Parser, path, relPath string, result *LintResult) (*syntax.File, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		result.add(cfg, Finding{
			Severity: SeverityWarning,
			Code:     LintFileUnreadable,
			Path:     relPath,
			Message:  fmt.Sprintf("cannot read file: %v", err),
		})
		return nil, false
	}

	file, err := parser.Parse(bytes.NewReader(data), relPath)
	if err != nil {
		finding := Finding{
			Severity: SeverityError,
			Code:     LintSyntaxError,
			Path:     relPath,
			Message:  err.Error(),
		}
		var parseErr syntax.ParseError
		if errors.As(err, &parseErr) {
			finding.Line = int(parseErr.Pos.Line())
			finding.Message = parseErr.Text
		}
		result.add(cfg, finding)
		return nil, false
	}
	return file, true
}

// add records a finding unless an exception suppresses it.
func (r *LintResult) add(cfg *LintConfig, f Finding) {
	if cfg.suppresses(f) {
		r.Suppressed++
		return
	}
	r.Findings = append(r.Findings, f)
}

// loadLintConfig reads the module's exception file. Absence is not an
// error; a file that exists but cannot be parsed is.
func loadLintConfig(mod *Module, opts LintOptions) (*LintConfig, error) {
	path := opts.ConfigFile
	if path == "" {
		path = filepath.Join(mod.Root, LintConfigName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LintConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg LintConfig
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	for i, exc := range cfg.Exceptions {
		if exc.Reason == "" {
			return nil, fmt.Errorf("%s: exception %d has no reason; every exception must document why", path, i+1)
		}
	}
	return &cfg, nil
}

// excluded reports whether relPath matches an exclude pattern.
func (c *LintConfig) excluded(relPath string) bool {
	for _, pattern := range c.Exclude {
		if matchGlob(pattern, relPath) {
			return true
		}
	}
	return false
}

// suppresses reports whether an exception matches the finding. An empty
// code or path in the exception matches anything.
func (c *LintConfig) suppresses(f Finding) bool {
	for _, exc := range c.Exceptions {
		if exc.Code != "" && exc.Code != f.Code {
			continue
		}
		if exc.Path != "" && !matchGlob(exc.Path, f.Path) {
			continue
		}
		return true
	}
	return false
}

// matchGlob matches a doublestar pattern against a slash-normalized path.
func matchGlob(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, filepath.ToSlash(path))
	return err == nil && ok
}

// listFunctionFiles returns every function file under dir, sorted by walk
// order. A missing directory yields an empty list.
func listFunctionFiles(dir string) []string {
	var files []string
	_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // Intentionally skip errors to continue walking
		}
		if !d.IsDir() && filepath.Ext(d.Name()) == FunctionFileExt {
			files = append(files, path)
		}
		return nil
	})
	return files
}
