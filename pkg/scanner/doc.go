// Package scanner walks a repository tree and indexes its package files
// into a types.TreeMapping.
//
// Every file whose name matches the mask is classified from its directory
// path, relative to the scanned root:
//
//   - architecture: the first configured architecture the path contains
//   - channel: the first priority channel found as a "/Name/" segment
//     (or "/Name" prefix with beta channels, or lower-cased anywhere with
//     extra channels)
//   - package subpath: from the last "Packages" segment down
//
// Files that cannot be classified, or live in a skipped directory, are
// left out.
package scanner
