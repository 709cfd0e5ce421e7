// SPDX-License-Identifier: MPL-2.0

// Command shmod manages shell function modules: directories of one-function-
// per-file shell scripts with a CUE manifest and a generated loader script.
package main

import cmd "shmod-cli/cmd/shmod"

func main() {
	cmd.Execute()
}
