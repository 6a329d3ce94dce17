// ============================================================================
// DexComX - Bulk Scripting Toolkit
// ============================================================================
//
// Package:     version
// Description: Central version information for the CLI and host
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package version

import "fmt"

// Version constants
const (
	// Platform version shown in the about card
	Platform = "1.0"

	// Engine is the script engine version
	Engine = "1.0.0"
)

// Set through -ldflags at build time
var (
	Commit    = "dev"
	BuildDate = "unknown"
)

// String returns the full version line
func String() string {
	return fmt.Sprintf("DexComX %s (engine %s, commit %s, built %s)", Platform, Engine, Commit, BuildDate)
}
