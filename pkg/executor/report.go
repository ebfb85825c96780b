package executor

import (
	"fmt"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/types"
)

// report writes the dry-run plan, one line per step.
func (e *Executor) report(cmds *types.CommandSet) (*Result, error) {
	res := &Result{}

	for _, dir := range cmds.Mkdir {
		if err := e.printf("mkdir -p %s\n", dir); err != nil {
			return res, err
		}
		res.Dirs++
	}

	for _, p := range cmds.Mv {
		if err := e.printf("mv %s %s\n", p.Src, p.Dst); err != nil {
			return res, err
		}
		res.Moved++
	}

	for _, p := range cmds.Ln {
		outcome, err := e.plan(p)
		if err != nil {
			return res, err
		}
		switch outcome {
		case outcomeUnchanged:
			err = e.printf("# already linked: %s %s\n", p.Src, p.Dst)
			res.Unchanged++
		case outcomeReplaced:
			err = e.printf("rm %s\nln %s %s\n", p.Dst, p.Src, p.Dst)
			res.Replaced++
		default:
			err = e.printf("ln %s %s\n", p.Src, p.Dst)
			res.Linked++
		}
		if err != nil {
			return res, err
		}
	}

	e.logger.Info().Str("result", res.String()).Msg("Dry run complete")
	return res, nil
}

func (e *Executor) printf(format string, args ...interface{}) error {
	if _, err := fmt.Fprintf(e.out, format, args...); err != nil {
		return composerErrors.Wrap(err, composerErrors.ErrInternal, "failed to write dry-run report")
	}
	return nil
}
