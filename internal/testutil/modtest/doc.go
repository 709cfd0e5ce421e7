// SPDX-License-Identifier: MPL-2.0

// Package modtest provides test helpers for building shell modules on disk.
//
// This package is separate from testutil to avoid import cycles: modtest
// imports pkg/shmod for its layout constants, so pkg/shmod's own tests keep
// using plain testutil while every other package builds fixtures here.
//
// # Usage
//
//	import "shmod-cli/internal/testutil/modtest"
//
//	root := modtest.WriteModule(t, t.TempDir(), "netkit",
//	    modtest.WithFunction("probe-host.sh", modtest.FunctionBody("probe-host", "ph")),
//	)
package modtest
