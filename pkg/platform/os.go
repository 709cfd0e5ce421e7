// SPDX-License-Identifier: MPL-2.0

package platform

// OS names as reported by runtime.GOOS. Config-dir resolution switches on
// these; keeping them here avoids scattering the literals.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
