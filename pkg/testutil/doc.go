// Package testutil provides utilities for testing composer components.
//
// Key components:
//   - MemoryFS: in-memory types.FS with hardlinks, inode numbers and
//     per-mount device ids, plus error injection and call hooks
//   - Entry / Mapping: concise builders for tree mapping fixtures
//
// Tests that need real kernel hardlink semantics use t.TempDir() with the
// OS filesystem instead.
package testutil
