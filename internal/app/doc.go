// Package app contains the core application logic. It wires the spec parsers
// to a configuration, runs a single parse, and renders the result, decoupled
// from any specific entrypoint like a CLI.
package app
