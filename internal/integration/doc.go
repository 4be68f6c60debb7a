// Package integration holds end-to-end tests that run the monitor daemon
// and talk to it over gRPC and HTTP.
package integration
