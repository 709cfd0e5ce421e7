// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"shmod-cli/internal/discovery"
	"shmod-cli/internal/testutil/modtest"
	"shmod-cli/pkg/shmod"
)

func TestRunListEmpty(t *testing.T) {
	t.Parallel()

	app, stdout, _ := testApp(t, &stubModuleResolver{})

	if err := runList(context.Background(), app, "", false); err != nil {
		t.Fatalf("runList: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "No modules found") {
		t.Errorf("stdout missing the empty message:\n%s", out)
	}
	if !strings.Contains(out, "shmod create") {
		t.Errorf("stdout missing the create hint:\n%s", out)
	}
}

func TestRunListFlat(t *testing.T) {
	t.Parallel()

	resolver := &stubModuleResolver{
		modules: []*discovery.DiscoveredModule{
			{
				Module: &shmod.Module{Name: "netkit", Root: "/home/sam/modules/netkit"},
				Source: discovery.SourceUserDir,
				Manifest: &shmod.Manifest{
					Module:      "netkit",
					Version:     "1.2.0",
					Description: "Networking helpers",
					Exports: shmod.Exports{
						Functions: []string{"get-ip", "probe-host"},
						Aliases:   []string{"gi"},
					},
				},
			},
			{
				Module: &shmod.Module{Name: "brokenkit", Root: "/home/sam/modules/brokenkit"},
				Source: discovery.SourceConfigRoot,
				Error:  errors.New("manifest parse failed"),
			},
		},
	}
	app, stdout, _ := testApp(t, resolver)

	if err := runList(context.Background(), app, "", false); err != nil {
		t.Fatalf("runList: %v", err)
	}

	out := stdout.String()
	wants := []string{
		"Found 2 module(s)",
		"netkit",
		"1.2.0",
		"user modules (~/.shmod/modules)",
		"2 function(s), 1 alias(es)",
		"Networking helpers",
		"brokenkit",
		"manifest parse failed",
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRunListTree(t *testing.T) {
	t.Parallel()

	resolver := &stubModuleResolver{
		modules: []*discovery.DiscoveredModule{
			{
				Module: &shmod.Module{Name: "netkit", Root: "/home/sam/modules/netkit"},
				Source: discovery.SourceUserDir,
				Manifest: &shmod.Manifest{
					Module:  "netkit",
					Version: "1.2.0",
					Exports: shmod.Exports{
						Functions: []string{"get-ip", "probe-host"},
						Aliases:   []string{"gi"},
					},
				},
			},
		},
	}
	app, stdout, _ := testApp(t, resolver)

	if err := runList(context.Background(), app, "", true); err != nil {
		t.Fatalf("runList: %v", err)
	}

	out := stdout.String()
	wants := []string{"netkit 1.2.0", "├── functions", "└── aliases", "probe-host", "gi"}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("tree output missing %q:\n%s", want, out)
		}
	}
}

func TestRunListUnderRootLoadsManifests(t *testing.T) {
	t.Parallel()

	root := modtest.WriteModule(t, t.TempDir(), "netkit",
		modtest.WithVersion("0.3.1"),
		modtest.WithExports([]string{"get-ip"}, nil),
	)
	mod, err := shmod.NewModule(root)
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}
	resolver := &stubModuleResolver{
		modules: []*discovery.DiscoveredModule{
			{Module: mod, Source: discovery.SourceConfigRoot},
		},
	}
	app, stdout, _ := testApp(t, resolver)

	if err := runList(context.Background(), app, root, false); err != nil {
		t.Fatalf("runList: %v", err)
	}

	out := stdout.String()
	if !strings.Contains(out, "0.3.1") {
		t.Errorf("stdout missing the manifest version:\n%s", out)
	}
	if !strings.Contains(out, "1 function(s), 0 alias(es)") {
		t.Errorf("stdout missing the export counts:\n%s", out)
	}
}

func TestRunListUnderRootManifestError(t *testing.T) {
	t.Parallel()

	root := modtest.WriteModule(t, t.TempDir(), "netkit",
		modtest.WithRawManifest("module: netkit\nversion: {{{\n"),
	)
	mod, err := shmod.NewModule(root)
	if err != nil {
		t.Fatalf("NewModule: %v", err)
	}
	resolver := &stubModuleResolver{
		modules: []*discovery.DiscoveredModule{
			{Module: mod, Source: discovery.SourceConfigRoot},
		},
	}
	app, stdout, _ := testApp(t, resolver)

	if err := runList(context.Background(), app, root, false); err != nil {
		t.Fatalf("runList: %v", err)
	}
	if !strings.Contains(stdout.String(), "Manifest:") {
		t.Errorf("stdout missing the manifest error line:\n%s", stdout.String())
	}
}
