// Package version holds build metadata for logview.
package version

// Version is overridden at build time with -ldflags "-X".
var Version = "0.3.0-dev"
