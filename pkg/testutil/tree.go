package testutil

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/composer/pkg/types"
)

// Entry builds a tree entry rooted at base for a file under rel.
// The package subpath starts at the last "Packages" segment of rel, the
// same way the scanner derives it.
func Entry(base, rel, name, channel, arch string) types.TreeEntry {
	rel = strings.Trim(rel, "/")
	pkg := ""
	if idx := strings.LastIndex("/"+rel+"/", "/Packages/"); idx >= 0 {
		pkg = rel[idx:]
	}
	return types.TreeEntry{
		Name:           name,
		AbsoluteBase:   base,
		FullPath:       filepath.Join(base, rel, name),
		Architecture:   arch,
		Channel:        channel,
		Base:           base,
		RelativeDir:    rel,
		PackageSubpath: pkg,
	}
}

// Mapping collects entries into a tree mapping.
func Mapping(entries ...types.TreeEntry) types.TreeMapping {
	m := make(types.TreeMapping, len(entries))
	for _, e := range entries {
		m.Add(e)
	}
	return m
}

// TouchAll writes an empty file at every path, creating parents.
func TouchAll(fs types.FS, paths ...string) error {
	for _, p := range paths {
		if err := fs.WriteFile(p, nil, 0644); err != nil {
			return err
		}
	}
	return nil
}
