// ============================================================================
// mTix - Concert ticketing client
// ============================================================================
//
// Package:     version
// Description: Central version management for the client and dev replica
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants
const (
	// Platform version
	Platform = "1.0.0"

	// Component versions
	Client  = "1.0.0"
	Replica = "1.0.0"

	// WireAPI is the version of the mtix.*.v1 service contracts
	WireAPI = "v1"
)

// Set by -ldflags "-X github.com/msto63/mTix/pkg/core/version.Commit=..."
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "client":
		return Client
	case "replica":
		return Replica
	default:
		return Platform
	}
}

// String returns a one-line build description
func String() string {
	return fmt.Sprintf("mtix %s (api %s, commit %s, built %s)", Platform, WireAPI, Commit, BuildDate)
}
