// SPDX-License-Identifier: MPL-2.0

package modtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shmod-cli/pkg/shmod"
)

type (
	// ModuleOption configures a test module before it is written to disk.
	// Apply options to customize beyond the minimal defaults.
	ModuleOption func(*moduleSpec)

	// fileSpec is one file to create, with rel interpreted per the option
	// that added it.
	fileSpec struct {
		rel  string
		body string
	}

	moduleSpec struct {
		version     string
		description string
		functions   []string
		aliases     []string
		rawManifest string
		noManifest  bool
		noPublicDir bool
		files       []fileSpec
	}
)

// WriteModule creates a module directory named name under parent and returns
// its path. By default the module has:
//   - a shmod.cue manifest with version 0.1.0 and empty export arrays
//   - an empty public/ directory
//
// Usage:
//
//	root := modtest.WriteModule(t, t.TempDir(), "netkit")
//	root := modtest.WriteModule(t, t.TempDir(), "netkit",
//	    modtest.WithVersion("1.2.0"),
//	    modtest.WithFunction("net/probe-host.sh", modtest.FunctionBody("probe-host")),
//	)
func WriteModule(t testing.TB, parent, name string, opts ...ModuleOption) string {
	t.Helper()

	spec := &moduleSpec{version: "0.1.0"}
	for _, opt := range opts {
		opt(spec)
	}

	root := filepath.Join(parent, name)
	mustMkdir(t, root)
	if !spec.noPublicDir {
		mustMkdir(t, filepath.Join(root, shmod.PublicDirName))
	}

	if !spec.noManifest {
		manifest := spec.rawManifest
		if manifest == "" {
			manifest = renderManifest(name, spec)
		}
		mustWrite(t, filepath.Join(root, shmod.ManifestName), manifest)
	}

	for _, f := range spec.files {
		mustWrite(t, filepath.Join(root, filepath.FromSlash(f.rel)), f.body)
	}

	return root
}

// FunctionBody returns a minimal function file body defining name, with an
// alias annotation when aliases are given. The definition follows the
// name-matches-basename convention, so a file written as name+".sh" probes
// clean after a loader reimport.
func FunctionBody(name string, aliases ...string) string {
	var b strings.Builder
	b.WriteString("#!/usr/bin/env bash\n")
	if len(aliases) > 0 {
		fmt.Fprintf(&b, "# [alias: %s]\n", strings.Join(aliases, ", "))
	}
	fmt.Fprintf(&b, "%s() {\n  :\n}\n", name)
	return b.String()
}

// --- Module Options ---

// WithVersion sets the manifest version field.
func WithVersion(v string) ModuleOption {
	return func(s *moduleSpec) {
		s.version = v
	}
}

// WithDescription sets the manifest description field.
func WithDescription(desc string) ModuleOption {
	return func(s *moduleSpec) {
		s.description = desc
	}
}

// WithExports pre-populates the manifest's export arrays. Useful for tests
// that need a manifest already in sync (or deliberately out of sync) with
// the function files on disk.
func WithExports(functions, aliases []string) ModuleOption {
	return func(s *moduleSpec) {
		s.functions = functions
		s.aliases = aliases
	}
}

// WithFunction adds a function file under public/. rel is slash-separated
// and relative to public/, e.g. "probe-host.sh" or "net/probe-host.sh".
func WithFunction(rel, body string) ModuleOption {
	return func(s *moduleSpec) {
		s.files = append(s.files, fileSpec{rel: shmod.PublicDirName + "/" + rel, body: body})
	}
}

// WithPrivateFunction adds a function file under private/.
func WithPrivateFunction(rel, body string) ModuleOption {
	return func(s *moduleSpec) {
		s.files = append(s.files, fileSpec{rel: shmod.PrivateDirName + "/" + rel, body: body})
	}
}

// WithFile adds an arbitrary file. rel is slash-separated and relative to
// the module root.
func WithFile(rel, body string) ModuleOption {
	return func(s *moduleSpec) {
		s.files = append(s.files, fileSpec{rel: rel, body: body})
	}
}

// WithRawManifest replaces the generated manifest with src verbatim.
// Use for malformed-manifest tests.
func WithRawManifest(src string) ModuleOption {
	return func(s *moduleSpec) {
		s.rawManifest = src
	}
}

// WithoutManifest skips writing shmod.cue, leaving a directory that module
// discovery will not recognize.
func WithoutManifest() ModuleOption {
	return func(s *moduleSpec) {
		s.noManifest = true
	}
}

// WithoutPublicDir skips creating public/.
func WithoutPublicDir() ModuleOption {
	return func(s *moduleSpec) {
		s.noPublicDir = true
	}
}

func renderManifest(name string, spec *moduleSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "module: %q\n", name)
	fmt.Fprintf(&b, "version: %q\n", spec.version)
	if spec.description != "" {
		fmt.Fprintf(&b, "description: %q\n", spec.description)
	}
	b.WriteString("\nexports: {\n")
	fmt.Fprintf(&b, "\tfunctions: %s\n", renderStringList(spec.functions))
	fmt.Fprintf(&b, "\taliases: %s\n", renderStringList(spec.aliases))
	b.WriteString("}\n")
	return b.String()
}

func renderStringList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func mustMkdir(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", path, err)
	}
}

func mustWrite(t testing.TB, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
