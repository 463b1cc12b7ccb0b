// Package app wires manifest loading, resolution, rendering and plan
// execution together, independent of the CLI that configures it.
package app
