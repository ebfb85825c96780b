// Package scripts renders shell scripts that recreate a mapped repository
// tree with empty files, so the rest of composer can be exercised without
// downloading real packages.
package scripts

import (
	"bufio"
	"io"
	"path"
	"sort"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/types"
)

const shebang = "#!/bin/bash\n"

// WriteFakeRepo writes a bash script that recreates mapping relative to
// the working directory: sorted unique mkdir lines, then sorted unique
// touch lines.
func WriteFakeRepo(mapping types.TreeMapping, w io.Writer) error {
	dirs := make(map[string]struct{})
	files := make(map[string]struct{})
	for _, e := range mapping {
		if e.RelativeDir != "" {
			dirs["mkdir -p "+e.RelativeDir] = struct{}{}
		}
		files["touch "+path.Join(e.RelativeDir, e.Name)] = struct{}{}
	}

	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(shebang)
	for _, line := range sortedLines(dirs) {
		_, _ = bw.WriteString(line + "\n")
	}
	for _, line := range sortedLines(files) {
		_, _ = bw.WriteString(line + "\n")
	}
	if err := bw.Flush(); err != nil {
		return composerErrors.Wrap(err, composerErrors.ErrScriptWrite, "failed to write fake repo script")
	}
	return nil
}

func sortedLines(set map[string]struct{}) []string {
	lines := make([]string, 0, len(set))
	for l := range set {
		lines = append(lines, l)
	}
	sort.Strings(lines)
	return lines
}
