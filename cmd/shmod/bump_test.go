// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"shmod-cli/pkg/shmod"
)

func TestParseBumpArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		set      string
		wantPart shmod.BumpPart
		wantDir  string
		wantErr  error
	}{
		{
			name:     "part only",
			args:     []string{"minor"},
			wantPart: shmod.BumpMinor,
		},
		{
			name:     "part and dir",
			args:     []string{"patch", "./netkit"},
			wantPart: shmod.BumpPatch,
			wantDir:  "./netkit",
		},
		{
			name: "set without args",
			args: nil,
			set:  "2.0.0",
		},
		{
			name:    "set with dir",
			args:    []string{"./netkit"},
			set:     "2.0.0",
			wantDir: "./netkit",
		},
		{
			name:    "invalid part",
			args:    []string{"mega"},
			wantErr: shmod.ErrInvalidBumpPart,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			part, dir, err := parseBumpArgs(tt.args, tt.set)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseBumpArgs: %v", err)
			}
			if part != tt.wantPart {
				t.Errorf("part = %q, want %q", part, tt.wantPart)
			}
			if dir != tt.wantDir {
				t.Errorf("dir = %q, want %q", dir, tt.wantDir)
			}
		})
	}

	t.Run("no part and no set", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseBumpArgs(nil, ""); err == nil {
			t.Fatal("expected an error when neither a part nor --set is given")
		}
	})

	t.Run("set rejects extra args", func(t *testing.T) {
		t.Parallel()

		if _, _, err := parseBumpArgs([]string{"./a", "./b"}, "2.0.0"); err == nil {
			t.Fatal("expected an error for --set with two positional args")
		}
	})
}
