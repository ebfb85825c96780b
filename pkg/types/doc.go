// Package types defines the core types and interfaces used throughout composer.
// This includes the tree mapping produced by scanners, the command set
// consumed by the executor, the rule derivation policy and the filesystem
// interface the executor mutates through.
package types
