package scanner

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/logging"
	"github.com/arthur-debert/composer/pkg/types"
	"github.com/spf13/afero"
)

const packagesSegment = "/Packages/"

// Options controls which files are indexed and how they are classified.
type Options struct {
	Architectures   []string
	ChannelPriority []string
	// SkipDirs are "/name/" markers; directories containing one are not walked.
	SkipDirs     []string
	Mask         string
	IncludeBeta  bool
	IncludeExtra bool
}

// Scanner indexes repository trees
type Scanner struct {
	fs   afero.Fs
	opts Options
	mask *regexp.Regexp
}

// New creates a scanner over fs. The mask is anchored at the start of the
// file name.
func New(fs afero.Fs, opts Options) (*Scanner, error) {
	mask, err := regexp.Compile("^(?:" + opts.Mask + ")")
	if err != nil {
		return nil, composerErrors.Wrapf(err, composerErrors.ErrInvalidInput, "invalid mask %q", opts.Mask).
			WithDetail("mask", opts.Mask)
	}
	return &Scanner{fs: fs, opts: opts, mask: mask}, nil
}

// NewOS creates a scanner over the real filesystem
func NewOS(opts Options) (*Scanner, error) {
	return New(afero.NewOsFs(), opts)
}

// Map indexes the tree rooted at target. A target that does not exist
// yields an empty mapping and a warning.
func (s *Scanner) Map(target string) (types.TreeMapping, error) {
	logger := logging.GetLogger("scanner")
	mapping := types.TreeMapping{}

	exists, err := afero.Exists(s.fs, target)
	if err != nil {
		return nil, composerErrors.Wrapf(err, composerErrors.ErrScan, "failed to stat %s", target).
			WithDetail("target", target)
	}
	if !exists {
		logger.Warn().Str("target", target).Msg("Target does not exist, returning empty mapping")
		return mapping, nil
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, composerErrors.Wrapf(err, composerErrors.ErrScan, "failed to resolve %s", target).
			WithDetail("target", target)
	}
	logger.Info().Str("target", abs).Msg("Mapping target")

	err = afero.Walk(s.fs, abs, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if s.skipped(relativeDir(abs, path)) {
				logger.Trace().Str("dir", path).Msg("Skipping directory")
				return filepath.SkipDir
			}
			return nil
		}

		if entry, ok := s.classify(abs, target, path); ok {
			mapping.Add(entry)
		}
		return nil
	})
	if err != nil {
		return nil, composerErrors.Wrapf(err, composerErrors.ErrScan, "failed to walk %s", abs).
			WithDetail("target", abs)
	}

	logger.Info().Str("target", abs).Int("files", len(mapping)).Msg("Mapped target")
	return mapping, nil
}

func (s *Scanner) classify(abs, base, path string) (types.TreeEntry, bool) {
	name := filepath.Base(path)
	if !s.mask.MatchString(name) {
		return types.TreeEntry{}, false
	}

	rel := relativeDir(abs, filepath.Dir(path))
	wrapped := "/" + rel + "/"

	arch, ok := s.architecture(wrapped)
	if !ok {
		return types.TreeEntry{}, false
	}
	channel, ok := s.channel(wrapped)
	if !ok {
		return types.TreeEntry{}, false
	}
	// wrapped has one extra leading slash, so an index of its "/Packages/"
	// is the index of "Packages/" in rel.
	idx := strings.LastIndex(wrapped, packagesSegment)
	if idx < 0 {
		return types.TreeEntry{}, false
	}

	return types.TreeEntry{
		Name:           name,
		AbsoluteBase:   abs,
		FullPath:       path,
		Architecture:   arch,
		Channel:        channel,
		Base:           base,
		RelativeDir:    rel,
		PackageSubpath: rel[idx:],
	}, true
}

func (s *Scanner) skipped(rel string) bool {
	wrapped := "/" + rel + "/"
	for _, dir := range s.opts.SkipDirs {
		if strings.Contains(wrapped, dir) {
			return true
		}
	}
	return false
}

func (s *Scanner) architecture(dir string) (string, bool) {
	for _, arch := range s.opts.Architectures {
		if strings.Contains(dir, arch) {
			return arch, true
		}
	}
	return "", false
}

// channel returns the canonical channel name, so "AppStream-beta" with
// beta channels included still maps to "AppStream".
func (s *Scanner) channel(dir string) (string, bool) {
	for _, ch := range s.opts.ChannelPriority {
		marker := "/" + ch + "/"
		if s.opts.IncludeBeta {
			marker = "/" + ch
		}
		if strings.Contains(dir, marker) {
			return ch, true
		}
		if s.opts.IncludeExtra && strings.Contains(dir, strings.ToLower(ch)) {
			return ch, true
		}
	}
	return "", false
}

// relativeDir returns dir relative to root without leading or trailing
// slashes. The root itself is "".
func relativeDir(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}
