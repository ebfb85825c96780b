package executor

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/arthur-debert/composer/pkg/filesystem"
	"github.com/arthur-debert/composer/pkg/logging"
	"github.com/arthur-debert/composer/pkg/types"
	"github.com/rs/zerolog"
)

const dirPerm = 0755

// Options contains configuration for the executor
type Options struct {
	// Parallelism is the number of workers per phase. Values below 2 run
	// sequentially.
	Parallelism int
	DryRun      bool
	// Out receives the dry-run report. Defaults to stdout.
	Out io.Writer
	// Logger defaults to the "executor" component logger.
	Logger *zerolog.Logger
	// Filesystem operations interface for testing
	FS types.FS
}

// Result counts what a run did, or would do in dry-run mode.
type Result struct {
	Dirs      int
	Moved     int
	Linked    int
	Replaced  int
	Unchanged int
}

func (r Result) String() string {
	return fmt.Sprintf("%d dirs, %d moved, %d linked, %d replaced, %d unchanged",
		r.Dirs, r.Moved, r.Linked, r.Replaced, r.Unchanged)
}

type counters struct {
	dirs, moved, linked, replaced, unchanged atomic.Int64
}

func (c *counters) result() *Result {
	return &Result{
		Dirs:      int(c.dirs.Load()),
		Moved:     int(c.moved.Load()),
		Linked:    int(c.linked.Load()),
		Replaced:  int(c.replaced.Load()),
		Unchanged: int(c.unchanged.Load()),
	}
}

// Executor applies command sets through a types.FS
type Executor struct {
	fs          types.FS
	parallelism int
	dryRun      bool
	out         io.Writer
	logger      zerolog.Logger
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	fs := opts.FS
	if fs == nil {
		fs = filesystem.NewOS()
	}

	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}

	return &Executor{
		fs:          fs,
		parallelism: parallelism,
		dryRun:      opts.DryRun,
		out:         out,
		logger:      logger,
	}
}

// Apply validates cmds, recomputes its mkdir list and executes it.
//
// cmds.Mkdir is overwritten. On error the returned result still reports
// what was done before the batch stopped.
func (e *Executor) Apply(ctx context.Context, cmds *types.CommandSet) (*Result, error) {
	defer logging.LogOperationStart(e.logger, "apply")()

	if err := e.validate(cmds); err != nil {
		return &Result{}, err
	}
	cmds.Mkdir = e.planDirs(cmds)

	e.logger.Info().
		Int("mkdir", len(cmds.Mkdir)).
		Int("mv", len(cmds.Mv)).
		Int("ln", len(cmds.Ln)).
		Int("parallelism", e.parallelism).
		Bool("dry_run", e.dryRun).
		Msg("Applying commands")

	if e.dryRun {
		return e.report(cmds)
	}

	c := &counters{}
	if err := e.run(ctx, cmds, c); err != nil {
		e.logger.Error().Err(err).Msg("Batch aborted")
		return c.result(), err
	}

	res := c.result()
	e.logger.Info().Str("result", res.String()).Msg("Commands applied")
	return res, nil
}

func (e *Executor) run(ctx context.Context, cmds *types.CommandSet, c *counters) error {
	err := runPartitioned(ctx, cmds.Mkdir, e.parallelism, func(dir string) error {
		if err := e.mkdir(dir); err != nil {
			return err
		}
		c.dirs.Add(1)
		return nil
	})
	if err != nil {
		return err
	}

	err = runPartitioned(ctx, cmds.Mv, e.parallelism, func(p types.Pair) error {
		if err := e.move(p); err != nil {
			return err
		}
		c.moved.Add(1)
		return nil
	})
	if err != nil {
		return err
	}

	// Links start only once every move has landed.
	return runPartitioned(ctx, cmds.Ln, e.parallelism, func(p types.Pair) error {
		outcome, err := e.link(p)
		if err != nil {
			return err
		}
		switch outcome {
		case outcomeLinked:
			c.linked.Add(1)
		case outcomeReplaced:
			c.replaced.Add(1)
		case outcomeUnchanged:
			c.unchanged.Add(1)
		}
		return nil
	})
}
