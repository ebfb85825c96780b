package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/logging"
	"github.com/avast/retry-go"
	"github.com/rs/zerolog"
)

const (
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
)

// Node is one entry of a remote listing. Directory names keep their
// trailing slash, as the listing shows them.
type Node struct {
	Name string
	Dir  bool
	// Rel is the path of the parent directory relative to the base URL,
	// with a trailing slash, or "" at the top level.
	Rel      string
	Children []*Node
}

// Options configures a Mapper
type Options struct {
	Client   *http.Client
	Attempts uint
	Delay    time.Duration
}

// Mapper walks remote directory listings
type Mapper struct {
	client   *http.Client
	attempts uint
	delay    time.Duration
	logger   zerolog.Logger
}

// NewMapper creates a mapper with retrying fetches
func NewMapper(opts Options) *Mapper {
	m := &Mapper{
		client:   opts.Client,
		attempts: opts.Attempts,
		delay:    opts.Delay,
		logger:   logging.GetLogger("remote"),
	}
	if m.client == nil {
		m.client = &http.Client{Timeout: 30 * time.Second}
	}
	if m.attempts == 0 {
		m.attempts = defaultAttempts
	}
	if m.delay == 0 {
		m.delay = defaultDelay
	}
	return m
}

// Map walks the listing tree under baseURL. The top-level listing must be
// readable; a subdirectory that cannot be listed is dropped with a warning.
func (m *Mapper) Map(ctx context.Context, baseURL string) (*Node, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	root := &Node{Name: "/", Dir: true}
	if err := m.walk(ctx, baseURL, root, ""); err != nil {
		return nil, err
	}
	return root, nil
}

func (m *Mapper) walk(ctx context.Context, base string, dir *Node, rel string) error {
	url := base + rel
	m.logger.Info().Str("url", url).Msg("Mapping remote target")

	hrefs, err := m.list(ctx, url)
	if err != nil {
		return err
	}

	for _, href := range hrefs {
		child := &Node{Name: href, Dir: strings.HasSuffix(href, "/"), Rel: rel}
		if child.Dir {
			if err := m.walk(ctx, base, child, rel+href); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				m.logger.Warn().Err(err).Str("url", base+rel+href).Msg("Skipping unreadable directory")
				continue
			}
		}
		dir.Children = append(dir.Children, child)
	}
	return nil
}

// statusError is a non-200 response
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.code, http.StatusText(e.code))
}

func (m *Mapper) list(ctx context.Context, url string) ([]string, error) {
	var hrefs []string

	err := retry.Do(
		func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if err != nil {
				return err
			}
			resp, err := m.client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				_, _ = io.Copy(io.Discard, resp.Body)
				return &statusError{code: resp.StatusCode}
			}
			hrefs, err = parseListing(resp.Body)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(m.attempts),
		retry.Delay(m.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(n uint, err error) {
			m.logger.Debug().Err(err).Uint("attempt", n+1).Str("url", url).Msg("Retrying fetch")
		}),
	)
	if err != nil {
		return nil, composerErrors.Wrapf(err, composerErrors.ErrRemoteFetch, "failed to list %s", url).
			WithDetail("url", url)
	}
	return hrefs, nil
}

// retryable reports whether a failed fetch is worth another attempt:
// transport errors and server errors are, client errors are not.
func retryable(err error) bool {
	if se, ok := err.(*statusError); ok {
		return se.code >= http.StatusInternalServerError
	}
	return true
}
