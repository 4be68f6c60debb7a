// Package geo holds the coordinate type and great-circle distance used to
// evaluate circular geofences.
package geo
