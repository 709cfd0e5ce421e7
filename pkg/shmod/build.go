// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Build failure sentinels. The CLI maps each to its own issue card, so they
// stay distinct instead of collapsing into a generic error.
var (
	// ErrLintFailed means lint reported at least one error-severity finding.
	ErrLintFailed = errors.New("lint reported errors")
	// ErrReimportFailed means the regenerated loader could not be sourced,
	// or a function it should export never got defined.
	ErrReimportFailed = errors.New("loader reimport failed")
)

type (
	// BuildOptions tunes the build pipeline. The zero value runs every step.
	BuildOptions struct {
		// SkipLint drops the lint step.
		SkipLint bool
		// SkipReimport drops the reimport smoke test.
		SkipReimport bool
		// LintConfigFile overrides the lint config location (see LintOptions).
		LintConfigFile string
	}

	// FunctionProbe records whether one exported function was actually
	// defined after sourcing the loader in the embedded interpreter.
	FunctionProbe struct {
		Function string
		Defined  bool
	}

	// BuildResult aggregates the outcome of every step that ran. It is
	// returned even on error so callers can render the partial outcome,
	// e.g. the lint findings that stopped the build.
	BuildResult struct {
		Regen  *RegenerationResult
		Lint   *LintResult
		Probes []FunctionProbe
	}
)

// Build runs the full pipeline for one module: regenerate both artifacts,
// lint the module, then source the fresh loader in the embedded interpreter
// and probe that every exported function is defined. The first failing step
// stops the pipeline. Lint warnings do not fail the build; lint errors do.
func Build(ctx context.Context, mod *Module, opts BuildOptions) (*BuildResult, error) {
	result := &BuildResult{}

	regen, err := Regenerate(mod)
	if err != nil {
		return result, err
	}
	result.Regen = regen

	if !opts.SkipLint {
		lint, err := Lint(mod, LintOptions{ConfigFile: opts.LintConfigFile})
		if err != nil {
			return result, err
		}
		result.Lint = lint
		if lint.HasErrors() {
			return result, fmt.Errorf("%w: %d error(s) in %s", ErrLintFailed, lint.ErrorCount(), mod.Name)
		}
	}

	if !opts.SkipReimport {
		probes, err := reimportLoader(ctx, mod, regen.Exports)
		result.Probes = probes
		if err != nil {
			return result, err
		}
		if missing := missingProbes(probes); len(missing) > 0 {
			return result, fmt.Errorf("%w: %s not defined after sourcing %s",
				ErrReimportFailed, strings.Join(missing, ", "), mod.LoaderName())
		}
	}

	return result, nil
}

// reimportLoader sources the loader inside an in-process shell and checks
// that each export resolves to a defined function. This smoke-tests the
// generated artifact itself, not the module's behavior: a function file
// whose top level fails at source time, or a file whose function name does
// not match its basename, surfaces here before any user hits it.
func reimportLoader(ctx context.Context, mod *Module, set *ExportSet) ([]FunctionProbe, error) {
	data, err := os.ReadFile(mod.LoaderPath())
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read loader: %v", ErrReimportFailed, err)
	}

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	prog, err := parser.Parse(bytes.NewReader(data), mod.LoaderName())
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse loader: %v", ErrReimportFailed, err)
	}

	runner, err := interp.New(
		interp.Dir(mod.Root),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, io.Discard, io.Discard),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return nil, fmt.Errorf("%w: sourcing %s exited with status %d",
				ErrReimportFailed, mod.LoaderName(), int(exitStatus))
		}
		return nil, fmt.Errorf("%w: sourcing %s: %v", ErrReimportFailed, mod.LoaderName(), err)
	}

	// The runner keeps its state across Run calls, so every probe sees the
	// functions the loader defined.
	probes := make([]FunctionProbe, 0, len(set.Functions))
	for _, fn := range set.Functions {
		if err := ctx.Err(); err != nil {
			return probes, err
		}
		src := fmt.Sprintf("command -v -- %s >/dev/null", quoteShellWord(fn))
		probe, err := parser.Parse(strings.NewReader(src), "probe")
		if err != nil {
			return probes, fmt.Errorf("failed to parse probe for %q: %w", fn, err)
		}
		defined := true
		if err := runner.Run(ctx, probe); err != nil {
			var exitStatus interp.ExitStatus
			if !errors.As(err, &exitStatus) {
				return probes, fmt.Errorf("probe for %q failed: %w", fn, err)
			}
			defined = false
		}
		probes = append(probes, FunctionProbe{Function: fn, Defined: defined})
	}

	return probes, nil
}

func missingProbes(probes []FunctionProbe) []string {
	var missing []string
	for _, p := range probes {
		if !p.Defined {
			missing = append(missing, p.Function)
		}
	}
	return missing
}
