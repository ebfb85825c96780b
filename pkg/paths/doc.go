// Package paths resolves where composer keeps its own files, following the
// XDG Base Directory specification with environment overrides.
package paths
