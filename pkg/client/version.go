// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package client

// API version constants.
//
// Each version names the API as it existed on that date. The client sends
// the version via the Cpanel-Version header on every request.
const (
	// LatestVersion is the current API version.
	LatestVersion = Version20261001

	// Version20261001 is the initial API version.
	Version20261001 = "2026-10-01"
)

// VersionHeader is the HTTP header used to specify the API version.
const VersionHeader = "Cpanel-Version"
