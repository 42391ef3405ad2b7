// Package gnvariants keeps the version of the application.
package gnvariants

var (
	// Version of gnvariants, set by build flags.
	Version = "v0.1.0"

	// Build timestamp, set by build flags.
	Build = "n/a"
)
