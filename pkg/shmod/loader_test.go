// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"strings"
	"testing"
)

func TestRenderLoader(t *testing.T) {
	t.Parallel()

	mod := &Module{Name: "netkit", Root: "/m/netkit"}
	set := &ExportSet{
		Functions:    []string{"get-foo", "set-bar"},
		Aliases:      []string{"gf", "sb"},
		AliasTargets: map[string]string{"gf": "get-foo", "sb": "set-bar"},
	}

	want := `#!/usr/bin/env bash
# Code generated by shmod regen; DO NOT EDIT.
#
# Loader for the "netkit" module. Source it to define the module's functions
# and aliases in the current shell:
#
#   . path/to/netkit.sh

_shmod_root=$(CDPATH= cd -- "$(dirname -- "${BASH_SOURCE:-$0}")" && pwd)

for _shmod_file in "$_shmod_root"/private/*.sh "$_shmod_root"/private/*/*.sh "$_shmod_root"/private/*/*/*.sh; do
	[ -e "$_shmod_file" ] || continue
	. "$_shmod_file"
done

for _shmod_file in "$_shmod_root"/public/*.sh "$_shmod_root"/public/*/*.sh "$_shmod_root"/public/*/*/*.sh; do
	[ -e "$_shmod_file" ] || continue
	. "$_shmod_file"
done
unset _shmod_root _shmod_file

# Exported functions, derived from public/ file names.
SHMOD_NETKIT_FUNCTIONS='get-foo set-bar'

# Exported aliases, derived from [alias: ...] annotations.
alias gf='get-foo'
alias sb='set-bar'
SHMOD_NETKIT_ALIASES='gf sb'
`

	got := RenderLoader(mod, set)
	if got != want {
		t.Errorf("RenderLoader() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderLoader_EmptyExports(t *testing.T) {
	t.Parallel()

	mod := &Module{Name: "netkit", Root: "/m/netkit"}
	got := RenderLoader(mod, &ExportSet{})

	if !strings.Contains(got, "SHMOD_NETKIT_FUNCTIONS=''\n") {
		t.Errorf("loader missing empty functions line:\n%s", got)
	}
	if !strings.Contains(got, "SHMOD_NETKIT_ALIASES=''\n") {
		t.Errorf("loader missing empty aliases line:\n%s", got)
	}
	if strings.Contains(got, "\nalias ") {
		t.Errorf("loader has alias lines for empty set:\n%s", got)
	}
}

func TestRenderLoader_Deterministic(t *testing.T) {
	t.Parallel()

	mod := &Module{Name: "netkit", Root: "/m/netkit"}
	set := &ExportSet{
		Functions:    []string{"get-foo"},
		Aliases:      []string{"gf"},
		AliasTargets: map[string]string{"gf": "get-foo"},
	}

	first := RenderLoader(mod, set)
	for range 3 {
		if got := RenderLoader(mod, set); got != first {
			t.Fatal("RenderLoader() output varies across calls")
		}
	}
}

func TestRenderLoader_HyphenatedModuleName(t *testing.T) {
	t.Parallel()

	mod := &Module{Name: "aws-tools", Root: "/m/aws-tools"}
	got := RenderLoader(mod, &ExportSet{Functions: []string{"upload"}})

	if !strings.Contains(got, "SHMOD_AWS_TOOLS_FUNCTIONS='upload'\n") {
		t.Errorf("loader export variable not derived from module name:\n%s", got)
	}
	if !strings.Contains(got, "#   . path/to/aws-tools.sh\n") {
		t.Errorf("loader usage comment missing loader name:\n%s", got)
	}
}
