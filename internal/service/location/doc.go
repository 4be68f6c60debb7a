// Package location provides the current device position.
package location
