// Package alarms persists the alarm collection.
//
// The whole collection is stored as one JSON array under a single record
// key. Store implements the CRUD operations on top of a Records backend;
// backends exist for a local file, SQLite and Redis.
package alarms
