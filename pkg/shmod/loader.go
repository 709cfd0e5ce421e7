// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// GeneratedHeader is the first comment line of every generated loader.
// Its presence distinguishes generated loaders from hand-written scripts.
const GeneratedHeader = "# Code generated by shmod regen; DO NOT EDIT."

// RenderLoader produces the module's loader script. The skeleton is fixed:
// a header, a root-resolution line, one sourcing stanza for private/ and one
// for public/, then the two generated export regions (function list, alias
// list). Output depends only on the module name and the export set, so
// regenerating without source changes is byte-stable.
func RenderLoader(mod *Module, set *ExportSet) string {
	var sb strings.Builder

	ident := shellVarIdent(mod.Name)

	sb.WriteString("#!/usr/bin/env bash\n")
	sb.WriteString(GeneratedHeader + "\n")
	sb.WriteString("#\n")
	fmt.Fprintf(&sb, "# Loader for the %q module. Source it to define the module's functions\n", mod.Name)
	sb.WriteString("# and aliases in the current shell:\n")
	sb.WriteString("#\n")
	fmt.Fprintf(&sb, "#   . path/to/%s\n", mod.LoaderName())
	sb.WriteString("\n")
	sb.WriteString(`_shmod_root=$(CDPATH= cd -- "$(dirname -- "${BASH_SOURCE:-$0}")" && pwd)` + "\n")
	sb.WriteString("\n")

	// Helpers first: public functions may call private ones at load time.
	writeSourcingStanza(&sb, PrivateDirName)
	sb.WriteString("\n")
	writeSourcingStanza(&sb, PublicDirName)
	sb.WriteString("unset _shmod_root _shmod_file\n")
	sb.WriteString("\n")

	sb.WriteString("# Exported functions, derived from public/ file names.\n")
	fmt.Fprintf(&sb, "SHMOD_%s_FUNCTIONS=%s\n", ident, quoteShellWord(strings.Join(set.Functions, " ")))
	sb.WriteString("\n")

	sb.WriteString("# Exported aliases, derived from [alias: ...] annotations.\n")
	for _, alias := range set.Aliases {
		fmt.Fprintf(&sb, "alias %s=%s\n", alias, quoteShellWord(set.AliasTargets[alias]))
	}
	fmt.Fprintf(&sb, "SHMOD_%s_ALIASES=%s\n", ident, quoteShellWord(strings.Join(set.Aliases, " ")))

	return sb.String()
}

// writeSourcingStanza emits a glob-based sourcing loop for one directory.
// Globs cover nesting up to MaxLoaderDepth levels; deeper files are not
// sourced (validation warns about them). Globbing keeps the loader free of
// external commands and safe for paths containing whitespace.
func writeSourcingStanza(sb *strings.Builder, dir string) {
	sb.WriteString("for _shmod_file in")
	for depth := 1; depth <= MaxLoaderDepth; depth++ {
		fmt.Fprintf(sb, ` "$_shmod_root"/%s/%s*%s`, dir, strings.Repeat("*/", depth-1), FunctionFileExt)
	}
	sb.WriteString("; do\n")
	sb.WriteString("\t[ -e \"$_shmod_file\" ] || continue\n")
	sb.WriteString("\t. \"$_shmod_file\"\n")
	sb.WriteString("done\n")
}

// shellVarIdent converts a module name to the uppercase identifier used in
// the loader's export variable names. The name grammar guarantees the result
// is a valid shell identifier.
func shellVarIdent(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// quoteShellWord renders s as a single shell word. Falls back to plain
// single quotes for strings the bash grammar cannot represent (e.g. NUL
// bytes); lint rejects such names before they get here.
func quoteShellWord(s string) string {
	quoted, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return "'" + s + "'"
	}
	// syntax.Quote leaves simple words bare; the export lines always quote
	// so the skeleton stays visually uniform.
	if quoted == s && !strings.ContainsAny(s, "'") {
		return "'" + s + "'"
	}
	return quoted
}
