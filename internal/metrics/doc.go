// Package metrics defines the Prometheus collectors of the proximity monitor.
// A nil *Metrics is valid and records nothing.
package metrics
