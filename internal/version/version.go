// Package version contains information on the current version of gudgeon. It
// is split out so it can be imported by cmd/ and server/ without pulling in
// the rest of the module.
package version

// Current is the string representing the current version of gudgeon.
const Current = "0.1.0"
