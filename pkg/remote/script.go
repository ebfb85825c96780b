package remote

import (
	"bufio"
	"io"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
)

// WriteTreeScript writes a bash script recreating the tree under root:
// every directory (children before parents) is created with mkdir -p,
// then every file is touched.
func WriteTreeScript(root *Node, w io.Writer) error {
	var mkdirs, touches []string
	collect(root, &mkdirs, &touches)

	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString("#!/bin/bash\n")
	for _, line := range mkdirs {
		_, _ = bw.WriteString(line + "\n")
	}
	for _, line := range touches {
		_, _ = bw.WriteString(line + "\n")
	}
	if err := bw.Flush(); err != nil {
		return composerErrors.Wrap(err, composerErrors.ErrScriptWrite, "failed to write tree script")
	}
	return nil
}

func collect(dir *Node, mkdirs, touches *[]string) {
	if dir == nil {
		return
	}
	for _, child := range dir.Children {
		if len(child.Children) > 0 {
			collect(child, mkdirs, touches)
		}
		if child.Dir {
			*mkdirs = append(*mkdirs, "mkdir -p "+child.Rel+child.Name)
		} else {
			*touches = append(*touches, "touch "+child.Rel+child.Name)
		}
	}
}
