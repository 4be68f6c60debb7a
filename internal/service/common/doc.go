// Package common holds helpers shared by several services.
//
// It provides the ProximityService gRPC client used by the CLI and the MCP
// server, detection of the calling system actor, and the single-instance
// guard of the monitor daemon.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
