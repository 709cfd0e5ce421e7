// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		setup       func(t *testing.T) string // returns module path
		expectValid bool
		wantType    string // at least one error issue of this type
	}{
		{
			name: "freshly created module is clean",
			setup: func(t *testing.T) string {
				t.Helper()
				mod, err := Create(CreateOptions{Name: "netkit", ParentDir: t.TempDir()})
				if err != nil {
					t.Fatal(err)
				}
				return mod.Root
			},
			expectValid: true,
		},
		{
			name: "missing path",
			setup: func(t *testing.T) string {
				t.Helper()
				return filepath.Join(t.TempDir(), "absent")
			},
			expectValid: false,
			wantType:    "structure",
		},
		{
			name: "path is a file",
			setup: func(t *testing.T) string {
				t.Helper()
				path := filepath.Join(t.TempDir(), "netkit")
				if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
					t.Fatal(err)
				}
				return path
			},
			expectValid: false,
			wantType:    "structure",
		},
		{
			name: "directory name outside the grammar",
			setup: func(t *testing.T) string {
				t.Helper()
				mod := newTestModule(t, "NetKit")
				return mod.Root
			},
			expectValid: false,
			wantType:    "naming",
		},
		{
			name: "missing manifest",
			setup: func(t *testing.T) string {
				t.Helper()
				mod := newTestModule(t, "netkit")
				if err := os.Remove(mod.ManifestPath()); err != nil {
					t.Fatal(err)
				}
				return mod.Root
			},
			expectValid: false,
			wantType:    "structure",
		},
		{
			name: "manifest fails schema validation",
			setup: func(t *testing.T) string {
				t.Helper()
				mod := newTestModule(t, "netkit")
				writeModuleFile(t, mod, ManifestName, "module: 123\n")
				return mod.Root
			},
			expectValid: false,
			wantType:    "manifest",
		},
		{
			name: "manifest module field mismatch",
			setup: func(t *testing.T) string {
				t.Helper()
				mod := newTestModule(t, "netkit")
				writeModuleFile(t, mod, ManifestName, `module: "other"
version: "0.1.0"
exports: {
	functions: []
	aliases: []
}
`)
				return mod.Root
			},
			expectValid: false,
			wantType:    "naming",
		},
		{
			name: "missing public directory",
			setup: func(t *testing.T) string {
				t.Helper()
				mod := newTestModule(t, "netkit")
				if err := os.RemoveAll(mod.PublicDir()); err != nil {
					t.Fatal(err)
				}
				return mod.Root
			},
			expectValid: false,
			wantType:    "structure",
		},
		{
			name: "function file name outside the grammar",
			setup: func(t *testing.T) string {
				t.Helper()
				mod := newTestModule(t, "netkit")
				writeModuleFile(t, mod, "public/Bad_Name.sh", "Bad_Name() { :; }\n")
				return mod.Root
			},
			expectValid: false,
			wantType:    "naming",
		},
		{
			name: "wip suffix strips before the grammar check",
			setup: func(t *testing.T) string {
				t.Helper()
				mod := newTestModule(t, "netkit")
				writeModuleFile(t, mod, "public/old-thing-wip.sh", "old-thing-wip() { :; }\n")
				if _, err := Regenerate(mod); err != nil {
					t.Fatal(err)
				}
				return mod.Root
			},
			expectValid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			result, err := Validate(tt.setup(t))
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}

			if result.Valid != tt.expectValid {
				t.Errorf("Valid = %v, want %v; issues: %v", result.Valid, tt.expectValid, result.Issues)
			}

			if tt.wantType != "" {
				var found bool
				for _, issue := range result.Issues {
					if issue.Type == tt.wantType && issue.Severity == SeverityError {
						found = true
					}
				}
				if !found {
					t.Errorf("no %q error issue; issues: %v", tt.wantType, result.Issues)
				}
			}
		})
	}
}

func hasWarningContaining(result *ValidationResult, substr string) bool {
	for _, issue := range result.Warnings() {
		if strings.Contains(issue.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidate_StaleArtifactsWarn(t *testing.T) {
	t.Parallel()

	mod := newTestModule(t, "netkit")
	writeModuleFile(t, mod, "public/get-foo.sh", "get-foo() { :; }\n")
	if _, err := Regenerate(mod); err != nil {
		t.Fatal(err)
	}
	writeModuleFile(t, mod, "public/set-bar.sh", "set-bar() { :; }\n")

	result, err := Validate(mod.Root)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Valid {
		t.Errorf("staleness must stay a warning; issues: %v", result.Issues)
	}
	if !hasWarningContaining(result, "out of date") {
		t.Errorf("no staleness warning; issues: %v", result.Issues)
	}
}

func TestValidate_MissingLoaderWarns(t *testing.T) {
	t.Parallel()

	mod := newTestModule(t, "netkit")
	writeModuleFile(t, mod, "public/get-foo.sh", "get-foo() { :; }\n")

	result, err := Validate(mod.Root)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Valid {
		t.Errorf("missing loader must stay a warning; issues: %v", result.Issues)
	}
	if !hasWarningContaining(result, "not generated yet") {
		t.Errorf("no missing-loader warning; issues: %v", result.Issues)
	}
}

func TestValidate_DeepNestingWarns(t *testing.T) {
	t.Parallel()

	mod := newTestModule(t, "netkit")
	writeModuleFile(t, mod, "public/a/b/c/deep.sh", "deep() { :; }\n")
	if _, err := Regenerate(mod); err != nil {
		t.Fatal(err)
	}

	result, err := Validate(mod.Root)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Valid {
		t.Errorf("deep nesting must stay a warning; issues: %v", result.Issues)
	}
	if !hasWarningContaining(result, "nested deeper") {
		t.Errorf("no nesting warning; issues: %v", result.Issues)
	}
}

func TestValidate_SymlinkWarns(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	mod := newTestModule(t, "netkit")
	target := writeModuleFile(t, mod, "public/get-foo.sh", "get-foo() { :; }\n")
	if err := os.Symlink(target, filepath.Join(mod.PublicDir(), "linked.sh")); err != nil {
		t.Fatal(err)
	}
	if _, err := Regenerate(mod); err != nil {
		t.Fatal(err)
	}

	result, err := Validate(mod.Root)
	if err != nil {
		t.Fatal(err)
	}

	if !hasWarningContaining(result, "symlinks are not portable") {
		t.Errorf("no symlink warning; issues: %v", result.Issues)
	}
}

func TestValidate_WindowsReservedNameWarns(t *testing.T) {
	t.Parallel()

	mod := newTestModule(t, "netkit")
	writeModuleFile(t, mod, "public/con.sh", "con() { :; }\n")
	if _, err := Regenerate(mod); err != nil {
		t.Fatal(err)
	}

	result, err := Validate(mod.Root)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Valid {
		t.Errorf("reserved name must stay a warning; issues: %v", result.Issues)
	}
	if !hasWarningContaining(result, "reserved on Windows") {
		t.Errorf("no reserved-name warning; issues: %v", result.Issues)
	}
}

func TestValidate_AliasContentionWarns(t *testing.T) {
	t.Parallel()

	mod := newTestModule(t, "netkit")
	writeModuleFile(t, mod, "public/get-foo.sh", "# [alias: x]\nget-foo() { :; }\n")
	writeModuleFile(t, mod, "public/set-bar.sh", "# [alias: x]\nset-bar() { :; }\n")
	if _, err := Regenerate(mod); err != nil {
		t.Fatal(err)
	}

	result, err := Validate(mod.Root)
	if err != nil {
		t.Fatal(err)
	}

	if !result.Valid {
		t.Errorf("alias contention must stay a warning; issues: %v", result.Issues)
	}
	if !hasWarningContaining(result, "declared by both") {
		t.Errorf("no contention warning; issues: %v", result.Issues)
	}
}

func TestValidationIssue_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		issue ValidationIssue
		want  string
	}{
		{
			name:  "with path",
			issue: ValidationIssue{Type: "naming", Message: "bad name", Path: "public/X.sh"},
			want:  "[naming] public/X.sh: bad name",
		},
		{
			name:  "without path",
			issue: ValidationIssue{Type: "structure", Message: "missing public/ directory"},
			want:  "[structure] missing public/ directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.issue.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}
