// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		opts      CreateOptions
		expectErr bool
		validate  func(t *testing.T, mod *Module)
	}{
		{
			name: "create simple module",
			opts: CreateOptions{
				Name: "netkit",
			},
			validate: func(t *testing.T, mod *Module) {
				t.Helper()
				info, err := os.Stat(mod.Root)
				if err != nil {
					t.Fatalf("module directory not created: %v", err)
				}
				if !info.IsDir() {
					t.Error("module path is not a directory")
				}

				for _, rel := range []string{
					ManifestName,
					mod.LoaderName(),
					filepath.Join(PublicDirName, "hello.sh"),
					filepath.Join(PrivateDirName, ".gitkeep"),
				} {
					if _, err := os.Stat(filepath.Join(mod.Root, rel)); err != nil {
						t.Errorf("%s not created: %v", rel, err)
					}
				}

				// The scaffold must come out of Create already regenerated.
				manifest := readModuleFile(t, mod, ManifestName)
				if !strings.Contains(manifest, `functions: ["hello"]`) {
					t.Errorf("manifest exports not regenerated:\n%s", manifest)
				}
				loader := readModuleFile(t, mod, mod.LoaderName())
				if !strings.Contains(loader, "SHMOD_NETKIT_FUNCTIONS='hello'") {
					t.Errorf("loader exports not regenerated:\n%s", loader)
				}

				meta, err := mod.LoadManifest()
				if err != nil {
					t.Fatalf("created manifest does not parse: %v", err)
				}
				if meta.Module != "netkit" {
					t.Errorf("manifest module = %q, want netkit", meta.Module)
				}
				if meta.Version != "0.1.0" {
					t.Errorf("manifest version = %q, want 0.1.0", meta.Version)
				}
			},
		},
		{
			name: "create hyphenated module",
			opts: CreateOptions{
				Name: "aws-tools",
			},
			validate: func(t *testing.T, mod *Module) {
				t.Helper()
				if mod.LoaderName() != "aws-tools.sh" {
					t.Errorf("loader name = %q, want aws-tools.sh", mod.LoaderName())
				}
				loader := readModuleFile(t, mod, mod.LoaderName())
				if !strings.Contains(loader, "SHMOD_AWS_TOOLS_FUNCTIONS=") {
					t.Errorf("loader variable not derived from hyphenated name:\n%s", loader)
				}
			},
		},
		{
			name: "create module with custom description",
			opts: CreateOptions{
				Name:        "netkit",
				Description: "Network helpers",
			},
			validate: func(t *testing.T, mod *Module) {
				t.Helper()
				manifest := readModuleFile(t, mod, ManifestName)
				if !strings.Contains(manifest, `description: "Network helpers"`) {
					t.Errorf("custom description not written:\n%s", manifest)
				}
			},
		},
		{
			name:      "empty name fails",
			opts:      CreateOptions{Name: ""},
			expectErr: true,
		},
		{
			name:      "name starting with digit fails",
			opts:      CreateOptions{Name: "1netkit"},
			expectErr: true,
		},
		{
			name:      "uppercase name fails",
			opts:      CreateOptions{Name: "NetKit"},
			expectErr: true,
		},
		{
			name:      "name with slash fails",
			opts:      CreateOptions{Name: "net/kit"},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := tt.opts
			opts.ParentDir = t.TempDir()

			mod, err := Create(opts)
			if tt.expectErr {
				if err == nil {
					t.Error("Create() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() unexpected error: %v", err)
			}

			if tt.validate != nil {
				tt.validate(t, mod)
			}
		})
	}
}

func TestCreate_ExistingModule(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	opts := CreateOptions{Name: "netkit", ParentDir: tmpDir}

	mod, err := Create(opts)
	if err != nil {
		t.Fatalf("first Create() error: %v", err)
	}

	if _, err := Create(opts); err == nil {
		t.Fatal("second Create() on the same path succeeded")
	}

	// The existing module must survive the failed attempt.
	if _, err := os.Stat(mod.ManifestPath()); err != nil {
		t.Errorf("existing module damaged by failed Create(): %v", err)
	}
}

func TestCreate_ScaffoldIsFresh(t *testing.T) {
	t.Parallel()

	mod, err := Create(CreateOptions{Name: "netkit", ParentDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	result, err := Check(mod)
	if err != nil {
		t.Fatalf("Check() error: %v", err)
	}
	if result.Stale() {
		t.Errorf("fresh scaffold reports stale artifacts: %+v", result.Artifacts)
	}
}
