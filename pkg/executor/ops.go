package executor

import (
	"errors"
	"io/fs"
	"path/filepath"
	"syscall"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/types"
)

type linkOutcome int

const (
	outcomeLinked linkOutcome = iota
	outcomeReplaced
	outcomeUnchanged
)

func (e *Executor) mkdir(dir string) error {
	if err := e.fs.MkdirAll(dir, dirPerm); err != nil {
		return composerErrors.Wrapf(err, composerErrors.ErrDirCreate, "failed to create directory %s", dir).
			WithDetail("path", dir)
	}
	e.logger.Debug().Str("dir", dir).Msg("Created directory")
	return nil
}

func (e *Executor) move(p types.Pair) error {
	if err := e.fs.Rename(p.Src, p.Dst); err != nil {
		return composerErrors.Wrapf(err, composerErrors.ErrRename, "failed to move %s", p).
			WithDetail("src", p.Src).
			WithDetail("dst", p.Dst)
	}
	e.logger.Debug().Str("src", p.Src).Str("dst", p.Dst).Msg("Moved")
	return nil
}

// link hardlinks p.Src at p.Dst and reconciles an existing destination.
func (e *Executor) link(p types.Pair) (linkOutcome, error) {
	err := e.fs.Link(p.Src, p.Dst)
	if err == nil {
		e.logger.Debug().Str("src", p.Src).Str("dst", p.Dst).Msg("Linked")
		return outcomeLinked, nil
	}
	if errors.Is(err, syscall.EXDEV) {
		return 0, crossDevice(p, err)
	}
	if !errors.Is(err, fs.ErrExist) {
		return 0, composerErrors.Wrapf(err, composerErrors.ErrLinkCreate, "failed to link %s", p).
			WithDetail("src", p.Src).
			WithDetail("dst", p.Dst)
	}

	decision, err := e.compare(p.Src, p.Dst)
	if err != nil {
		return 0, err
	}
	if decision == outcomeUnchanged {
		e.logger.Debug().Str("src", p.Src).Str("dst", p.Dst).Msg("Already linked")
		return outcomeUnchanged, nil
	}

	e.logger.Info().Str("src", p.Src).Str("dst", p.Dst).Msg("Replacing stale link")
	if err := e.fs.Remove(p.Dst); err != nil {
		return 0, composerErrors.Wrapf(err, composerErrors.ErrLinkReplace, "failed to remove stale %s", p.Dst).
			WithDetail("src", p.Src).
			WithDetail("dst", p.Dst)
	}
	if err := e.fs.Link(p.Src, p.Dst); err != nil {
		return 0, composerErrors.Wrapf(err, composerErrors.ErrLinkReplace, "failed to relink %s", p).
			WithDetail("src", p.Src).
			WithDetail("dst", p.Dst)
	}
	return outcomeReplaced, nil
}

// compare decides what to do with an existing destination: unchanged when
// it is the source inode, replaced when it is another inode on the same
// device, and a cross-device error otherwise.
func (e *Executor) compare(src, dst string) (linkOutcome, error) {
	srcID, err := e.fs.Identify(src)
	if err != nil {
		return 0, composerErrors.Wrapf(err, composerErrors.ErrLinkCreate, "failed to stat %s", src).
			WithDetail("path", src)
	}
	dstID, err := e.fs.Identify(dst)
	if err != nil {
		return 0, composerErrors.Wrapf(err, composerErrors.ErrLinkCreate, "failed to stat %s", dst).
			WithDetail("path", dst)
	}

	switch {
	case !srcID.SameDevice(dstID):
		return 0, crossDevice(types.Pair{Src: src, Dst: dst}, nil)
	case srcID.SameFile(dstID):
		return outcomeUnchanged, nil
	default:
		return outcomeReplaced, nil
	}
}

// plan predicts the outcome of linking p without touching anything.
// Missing files make the prediction optimistic: a planned move may create
// the source, a planned mkdir the destination parent.
func (e *Executor) plan(p types.Pair) (linkOutcome, error) {
	if _, err := e.fs.Identify(p.Dst); err == nil {
		if _, err := e.fs.Identify(p.Src); err != nil {
			return outcomeLinked, nil
		}
		return e.compare(p.Src, p.Dst)
	}

	srcID, err := e.fs.Identify(p.Src)
	if err != nil {
		return outcomeLinked, nil
	}
	parentID, err := e.fs.Identify(filepath.Dir(p.Dst))
	if err == nil && !srcID.SameDevice(parentID) {
		return 0, crossDevice(p, nil)
	}
	return outcomeLinked, nil
}

const crossDeviceMsg = "cannot hardlink %s to %s: they are on different devices"

func crossDevice(p types.Pair, cause error) error {
	var err *composerErrors.ComposerError
	if cause != nil {
		err = composerErrors.Wrapf(cause, composerErrors.ErrCrossDevice, crossDeviceMsg, p.Src, p.Dst)
	} else {
		err = composerErrors.Newf(composerErrors.ErrCrossDevice, crossDeviceMsg, p.Src, p.Dst)
	}
	return err.WithDetails(map[string]interface{}{"src": p.Src, "dst": p.Dst})
}
