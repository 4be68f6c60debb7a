// Package client implements the pingo CLI operations.
//
// The commands connect to the monitor daemon over gRPC, edit alarms, run
// ticks on demand, and serve the daemon to AI agents over MCP.
package client
