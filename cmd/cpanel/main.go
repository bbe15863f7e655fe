// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

// Command cpanel discovers control-panel applets and serves them, grouped
// into categories, over HTTP.
package main

import (
	"fmt"
	"os"
)

var (
	version = "0.1.0"
)

func main() {
	if err := newRootCommand(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
