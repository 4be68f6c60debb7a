// Package monitor runs proximity ticks.
//
// A tick reads the current position, loads every alarm, evaluates the
// enabled ones active today against the notification gate, dispatches the
// fired alarms and persists their new timestamps. Ticks never overlap: a tick
// requested while another is running joins the running one.
//
// Run wires the monitor into the pingo-monitor daemon together with the
// scheduler, the gRPC API and the metrics endpoint.
package monitor
