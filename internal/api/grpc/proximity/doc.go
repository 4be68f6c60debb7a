// Package proximity implements the gRPC transport of the proximity monitor.
//
// The ProximityService descriptor is declared by hand over protobuf
// well-known types: alarms and tick summaries travel as google.protobuf.Struct
// values carrying the same JSON shape the store persists. The package provides
// the server adapter, a thin client stub and the conversions used by both.
package proximity
