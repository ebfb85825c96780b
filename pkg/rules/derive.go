package rules

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/composer/pkg/logging"
	"github.com/arthur-debert/composer/pkg/types"
)

var debugNameMarkers = []string{"-debuginfo-", "-debugsource-"}

// DeriveRules computes the moves and links that reshape dest after source.
// Custom rules are not applied here, see Generator.
//
// If either mapping is empty a warning is logged and an empty set returned.
func DeriveRules(source, dest types.TreeMapping, policy types.Policy) *types.CommandSet {
	logger := logging.GetLogger("rules")
	cmds := types.NewCommandSet()

	if len(source) == 0 || len(dest) == 0 {
		logger.Warn().
			Int("source", len(source)).
			Int("dest", len(dest)).
			Msg("One or both mappings are empty, nothing to derive")
		return cmds
	}

	if policy.MoveDebugPackages {
		cmds.Mv = append(cmds.Mv, debugMoves(dest, policy)...)
	}

	for _, key := range source.SortedKeys() {
		entry := source[key]
		match, found := findMatch(key, entry, dest, policy)
		if !found {
			logger.Trace().Str("key", key).Msg("No destination match")
			continue
		}
		cmds.Ln = append(cmds.Ln, types.Pair{
			Src: match.entry.FullPath,
			Dst: linkTarget(entry, match, policy),
		})
	}

	logger.Debug().
		Int("mv", len(cmds.Mv)).
		Int("ln", len(cmds.Ln)).
		Msg("Derived rules")
	return cmds
}

// debugMoves relocates debug packages that sit in the all layout.
func debugMoves(dest types.TreeMapping, policy types.Policy) []types.Pair {
	var moves []types.Pair
	for _, key := range dest.SortedKeys() {
		entry := dest[key]
		rel := slashed(entry.RelativeDir)
		if !strings.Contains(rel, policy.AllDirMarker) || !isDebugPackage(entry.Name) {
			continue
		}
		rel = strings.ReplaceAll(rel, policy.AllDirMarker, policy.DebugDirMarker)
		moves = append(moves, types.Pair{
			Src: entry.FullPath,
			Dst: filepath.Join(entry.AbsoluteBase, rel, entry.Name),
		})
	}
	return moves
}

func isDebugPackage(name string) bool {
	for _, marker := range debugNameMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// match is a destination entry found for a source entry, along with the
// channel and architecture it was found under.
type match struct {
	entry   types.TreeEntry
	channel string
	arch    string
}

// findMatch runs the two-level priority search for one source entry.
func findMatch(key string, entry types.TreeEntry, dest types.TreeMapping, policy types.Policy) (match, bool) {
	_, _, suffix, ok := types.SplitKey(key)
	if !ok {
		return match{}, false
	}

	archs := append([]string{entry.Architecture}, policy.Architectures...)
	for _, arch := range archs {
		for _, channel := range policy.ChannelPriority {
			if hit, found := dest.Lookup(channel + types.KeySeparator + arch + types.KeySeparator + suffix); found {
				return match{entry: hit, channel: channel, arch: arch}, true
			}
		}
	}
	return match{}, false
}

// linkTarget places the matched destination file where the source entry
// lives: source channel (after replacement), source architecture, and the
// os layout instead of the all layout.
func linkTarget(src types.TreeEntry, m match, policy types.Policy) string {
	target := policy.ReplaceChannel(src.Channel)

	rel := strings.ReplaceAll(slashed(m.entry.RelativeDir), m.channel+"/", target+"/")
	rel = strings.ReplaceAll(rel, m.arch+"/", src.Architecture+"/")
	rel = strings.ReplaceAll(rel, policy.AllDirMarker, policy.OSDirMarker)

	return filepath.Join(m.entry.AbsoluteBase, rel, m.entry.Name)
}

// slashed wraps a relative dir in slashes so "/name/" markers also match
// its first and last segments. filepath.Join drops the extra slashes.
func slashed(rel string) string {
	return "/" + strings.Trim(rel, "/") + "/"
}
