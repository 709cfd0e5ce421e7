// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"fmt"
	"regexp"
	"strings"
)

// The export arrays are located inside the manifest by pattern, not by CUE
// AST rewriting: everything outside the matched field (comments, ordering,
// user fields) must survive regeneration byte-for-byte. The character class
// `[^\]]` crosses newlines, so multi-line arrays collapse to the generated
// single-line form.
var (
	functionsArrayPattern = regexp.MustCompile(`(?m)^([ \t]*)functions:[ \t]*\[[^\]]*\]`)
	aliasesArrayPattern   = regexp.MustCompile(`(?m)^([ \t]*)aliases:[ \t]*\[[^\]]*\]`)
)

// SyncManifestExports splices the export set into the manifest source,
// replacing the first `functions:` and `aliases:` array fields and leaving
// every other byte untouched. A field whose pattern is not found is skipped
// with a warning diagnostic; the other field is still replaced.
func SyncManifestExports(manifest []byte, set *ExportSet) ([]byte, []Diagnostic) {
	var diags []Diagnostic

	out, ok := spliceArrayField(manifest, functionsArrayPattern, "functions", set.Functions)
	if !ok {
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeExportPatternMissing,
			Message:  "functions array not found in manifest; skipping that replacement",
		})
	}

	out, ok = spliceArrayField(out, aliasesArrayPattern, "aliases", set.Aliases)
	if !ok {
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeExportPatternMissing,
			Message:  "aliases array not found in manifest; skipping that replacement",
		})
	}

	return out, diags
}

// spliceArrayField replaces the first match of pattern with a rendered
// single-line array, preserving the matched line's indentation. Returns the
// input unchanged with ok=false when the pattern does not match.
func spliceArrayField(src []byte, pattern *regexp.Regexp, field string, values []string) ([]byte, bool) {
	loc := pattern.FindSubmatchIndex(src)
	if loc == nil {
		return src, false
	}

	indent := string(src[loc[2]:loc[3]])
	rendered := fmt.Sprintf("%s%s: %s", indent, field, renderCUEStringList(values))

	out := make([]byte, 0, len(src)+len(rendered))
	out = append(out, src[:loc[0]]...)
	out = append(out, rendered...)
	out = append(out, src[loc[1]:]...)
	return out, true
}

// renderCUEStringList renders values as a single-line CUE string array.
func renderCUEStringList(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i, v := range values {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", v)
	}
	sb.WriteString("]")
	return sb.String()
}

// NormalizeArtifact prepares generated or on-disk artifact text for
// comparison: line endings collapse to LF and surrounding whitespace is
// trimmed from both ends. Writes always use the full rendered content; the
// normalized form exists only to decide whether a write is needed.
func NormalizeArtifact(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}
