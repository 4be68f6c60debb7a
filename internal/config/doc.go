// Package config defines the PinGo settings shared by every binary and
// provides helpers to load, validate and save them in YAML format.
//
// Sections cover the alarm store backend, the monitor daemon, the position
// source, local notifications and outbound messaging. Validate fills in
// defaults, so a zero Config is a working single-user setup.
package config
