package executor

import (
	"path/filepath"
	"sort"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/types"
)

// validate collapses exact duplicates and rejects buckets where two
// different sources share a destination. Nothing has been touched yet
// when it fails.
func (e *Executor) validate(cmds *types.CommandSet) error {
	cmds.Normalize()

	var err error
	if cmds.Mv, err = e.dedupe("mv", cmds.Mv); err != nil {
		return err
	}
	cmds.Ln, err = e.dedupe("ln", cmds.Ln)
	return err
}

func (e *Executor) dedupe(bucket string, pairs []types.Pair) ([]types.Pair, error) {
	seen := make(map[string]string, len(pairs))
	out := make([]types.Pair, 0, len(pairs))

	for _, p := range pairs {
		src, ok := seen[p.Dst]
		switch {
		case !ok:
			seen[p.Dst] = p.Src
			out = append(out, p)
		case src == p.Src:
			e.logger.Warn().
				Str("bucket", bucket).
				Str("src", p.Src).
				Str("dst", p.Dst).
				Msg("Dropping duplicate command")
		default:
			return nil, composerErrors.Newf(composerErrors.ErrOverlappingTargets,
				"%s: %s and %s both target %s", bucket, src, p.Src, p.Dst).
				WithDetail("bucket", bucket).
				WithDetail("dst", p.Dst).
				WithDetail("sources", []string{src, p.Src})
		}
	}
	return out, nil
}

// planDirs returns the sorted parent directories of every move and link
// destination that do not exist yet.
func (e *Executor) planDirs(cmds *types.CommandSet) []string {
	parents := make(map[string]struct{})
	for _, bucket := range [][]types.Pair{cmds.Mv, cmds.Ln} {
		for _, p := range bucket {
			parents[filepath.Dir(p.Dst)] = struct{}{}
		}
	}

	dirs := make([]string, 0, len(parents))
	for dir := range parents {
		if _, err := e.fs.Stat(dir); err == nil {
			continue
		}
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
