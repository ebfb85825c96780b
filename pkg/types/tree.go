package types

import (
	"sort"
	"strings"
)

// KeySeparator joins the parts of a tree mapping key.
const KeySeparator = ":"

// TreeEntry is one package file discovered in a repository tree.
// Entries are values; nothing mutates an entry after a scanner creates it.
type TreeEntry struct {
	Name           string `json:"elem_name"`
	AbsoluteBase   string `json:"elem_abs"`
	FullPath       string `json:"elem_path"`
	Architecture   string `json:"elem_arch"`
	Channel        string `json:"elem_repo"`
	Base           string `json:"elem_base"`
	RelativeDir    string `json:"elem_rel"`
	PackageSubpath string `json:"elem_pkg"`
}

// Key returns the composite mapping key of the entry.
func (e TreeEntry) Key() string {
	return MakeKey(e.Channel, e.Architecture, e.PackageSubpath, e.Name)
}

// MakeKey builds a `channel:architecture:packageSubpath:filename` key.
func MakeKey(channel, arch, pkgSubpath, name string) string {
	return strings.Join([]string{channel, arch, pkgSubpath, name}, KeySeparator)
}

// SplitKey splits a key into its channel, architecture and the
// `packageSubpath:filename` remainder.
func SplitKey(key string) (channel, arch, rest string, ok bool) {
	parts := strings.SplitN(key, KeySeparator, 3)
	if len(parts) != 3 {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

// TreeMapping indexes the files of one repository tree by composite key.
// Adding an entry whose key already exists replaces the previous entry.
type TreeMapping map[string]TreeEntry

// Add stores the entry under its own key.
func (m TreeMapping) Add(e TreeEntry) {
	m[e.Key()] = e
}

// Lookup returns the entry stored under key, if any.
func (m TreeMapping) Lookup(key string) (TreeEntry, bool) {
	e, ok := m[key]
	return e, ok
}

// SortedKeys returns the mapping keys in lexical order.
func (m TreeMapping) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
