// SPDX-License-Identifier: MPL-2.0

// Package platform holds small cross-platform tables: OS name constants for
// runtime.GOOS switches and the Windows reserved-filename check used when
// validating module and function file names.
package platform
