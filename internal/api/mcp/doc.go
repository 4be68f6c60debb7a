// Package mcp exposes the proximity monitor to AI agents over the Model
// Context Protocol. Tools forward to the monitor daemon through a Service.
package mcp
