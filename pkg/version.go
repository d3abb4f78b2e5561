// Package wdimodel holds build information of the wdimodel application.
package wdimodel

var (
	// Version of the app, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
