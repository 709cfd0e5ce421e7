// SPDX-License-Identifier: MPL-2.0

package shmod

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"
)

func TestScanPublicDir(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		files       map[string]string // path under public/ -> content
		wantNames   []string
		wantScanned int
		validate    func(t *testing.T, result *ScanResult)
	}{
		{
			name: "flat directory",
			files: map[string]string{
				"get-foo.sh": "get-foo() { echo foo; }\n",
				"set-bar.sh": "set-bar() { echo bar; }\n",
			},
			wantNames:   []string{"get-foo", "set-bar"},
			wantScanned: 2,
		},
		{
			name: "nested subdirectories",
			files: map[string]string{
				"top.sh":           "top() { :; }\n",
				"net/ping.sh":      "ping() { :; }\n",
				"net/deep/dig.sh":  "dig() { :; }\n",
				"aws/s3/upload.sh": "upload() { :; }\n",
			},
			wantNames:   []string{"upload", "dig", "ping", "top"},
			wantScanned: 4,
		},
		{
			name: "non-function files ignored",
			files: map[string]string{
				"get-foo.sh": "get-foo() { :; }\n",
				"README.md":  "docs\n",
				"notes.txt":  "notes\n",
			},
			wantNames:   []string{"get-foo"},
			wantScanned: 1,
		},
		{
			name: "wip suffix flagged but still recorded",
			files: map[string]string{
				"get-foo.sh":       "get-foo() { :; }\n",
				"old-thing-wip.sh": "old-thing-wip() { :; }\n",
			},
			wantNames:   []string{"get-foo", "old-thing-wip"},
			wantScanned: 2,
			validate: func(t *testing.T, result *ScanResult) {
				t.Helper()
				for _, rec := range result.Records {
					want := rec.Name == "old-thing-wip"
					if rec.WIP != want {
						t.Errorf("record %q: WIP = %v, want %v", rec.Name, rec.WIP, want)
					}
				}
			},
		},
		{
			name: "duplicate base names across subdirectories both recorded",
			files: map[string]string{
				"net/ping.sh": "ping() { :; }\n",
				"dns/ping.sh": "ping() { :; }\n",
			},
			wantNames:   []string{"ping", "ping"},
			wantScanned: 2,
		},
		{
			name:        "empty public directory",
			files:       map[string]string{},
			wantNames:   nil,
			wantScanned: 0,
		},
		{
			name: "aliases parsed from annotations",
			files: map[string]string{
				"set-bar.sh": "# [alias: sb]\nset-bar() { :; }\n",
			},
			wantNames:   []string{"set-bar"},
			wantScanned: 1,
			validate: func(t *testing.T, result *ScanResult) {
				t.Helper()
				if got := result.Records[0].Aliases; !slices.Equal(got, []string{"sb"}) {
					t.Errorf("Aliases = %v, want [sb]", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mod := newTestModule(t, "netkit")
			for rel, content := range tt.files {
				writeModuleFile(t, mod, PublicDirName+"/"+rel, content)
			}

			result, err := ScanPublicDir(mod)
			if err != nil {
				t.Fatalf("ScanPublicDir() unexpected error: %v", err)
			}

			var gotNames []string
			for _, rec := range result.Records {
				gotNames = append(gotNames, rec.Name)
			}
			if !slices.Equal(gotNames, tt.wantNames) {
				t.Errorf("record names = %v, want %v", gotNames, tt.wantNames)
			}
			if result.FilesScanned != tt.wantScanned {
				t.Errorf("FilesScanned = %d, want %d", result.FilesScanned, tt.wantScanned)
			}
			if len(result.Diagnostics) != 0 {
				t.Errorf("unexpected diagnostics: %v", result.Diagnostics)
			}
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestScanPublicDir_MissingDir(t *testing.T) {
	t.Parallel()

	mod := newTestModule(t, "netkit")
	if err := os.RemoveAll(mod.PublicDir()); err != nil {
		t.Fatal(err)
	}

	_, err := ScanPublicDir(mod)
	if !errors.Is(err, ErrPublicDirMissing) {
		t.Errorf("ScanPublicDir() error = %v, want ErrPublicDirMissing", err)
	}
}

func TestScanPublicDir_PublicIsFile(t *testing.T) {
	t.Parallel()

	mod := newTestModule(t, "netkit")
	if err := os.RemoveAll(mod.PublicDir()); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(mod.PublicDir(), []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := ScanPublicDir(mod)
	if !errors.Is(err, ErrPublicDirMissing) {
		t.Errorf("ScanPublicDir() error = %v, want ErrPublicDirMissing", err)
	}
}

func TestScanPublicDir_UnreadableFileExcluded(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	mod := newTestModule(t, "netkit")
	writeModuleFile(t, mod, "public/get-foo.sh", "get-foo() { :; }\n")

	// A dangling symlink fails ReadFile for every caller, root included.
	broken := filepath.Join(mod.PublicDir(), "broken.sh")
	if err := os.Symlink(filepath.Join(mod.Root, "nope"), broken); err != nil {
		t.Fatal(err)
	}

	result, err := ScanPublicDir(mod)
	if err != nil {
		t.Fatalf("ScanPublicDir() unexpected error: %v", err)
	}

	if len(result.Records) != 1 || result.Records[0].Name != "get-foo" {
		t.Errorf("records = %+v, want only get-foo", result.Records)
	}
	if result.FilesScanned != 2 {
		t.Errorf("FilesScanned = %d, want 2", result.FilesScanned)
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one", result.Diagnostics)
	}
	diag := result.Diagnostics[0]
	if diag.Code != CodeFileUnreadable || diag.Severity != SeverityWarning {
		t.Errorf("diagnostic = %+v, want %s warning", diag, CodeFileUnreadable)
	}
	if diag.Path != broken {
		t.Errorf("diagnostic path = %q, want %q", diag.Path, broken)
	}
}

func TestParseAliasAnnotations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "single alias",
			src:  "# [alias: sb]\nset-bar() { :; }\n",
			want: []string{"sb"},
		},
		{
			name: "comma separated list",
			src:  "# [alias: sb, setb, s]\n",
			want: []string{"sb", "setb", "s"},
		},
		{
			name: "quoted tokens stripped",
			src:  `# [alias: "sb", 'setb']` + "\n",
			want: []string{"sb", "setb"},
		},
		{
			name: "whitespace inside quotes trimmed",
			src:  `# [alias: " sb "]` + "\n",
			want: []string{"sb"},
		},
		{
			name: "multiple annotations accumulate in order",
			src:  "# [alias: sb]\nset-bar() { :; }\n# [alias: setb]\n",
			want: []string{"sb", "setb"},
		},
		{
			name: "empty tokens dropped",
			src:  "# [alias: sb,, ]\n",
			want: []string{"sb"},
		},
		{
			name: "empty annotation yields nothing",
			src:  "# [alias:]\n",
			want: nil,
		},
		{
			name: "no annotation",
			src:  "set-bar() { :; }\n",
			want: nil,
		},
		{
			name: "annotation anywhere in the file counts",
			src:  "set-bar() {\n\t: # [alias: sb]\n}\n",
			want: []string{"sb"},
		},
		{
			name: "duplicates preserved at parse time",
			src:  "# [alias: sb]\n# [alias: sb]\n",
			want: []string{"sb", "sb"},
		},
		{
			name: "mismatched quotes kept verbatim",
			src:  `# [alias: "sb']` + "\n",
			want: []string{`"sb'`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseAliasAnnotations([]byte(tt.src))
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseAliasAnnotations() = %v, want %v", got, tt.want)
			}
		})
	}
}
