// Package rt is the runtime support called by generated doc tests.
//
// A generated test assembles its snippet from (template, text) parts, then
// asks a Runner to compile it, and optionally run it, against the artifacts
// of an existing Cargo build. The Resolver discovers those artifacts by
// cross-referencing Cargo.lock with the build's fingerprint directory.
package rt
