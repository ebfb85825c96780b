// Package remote maps a repository published as HTTP directory listings
// and writes a shell script that recreates its layout locally, with empty
// files, for testing.
package remote
