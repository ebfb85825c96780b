package document

import (
	"io"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/types"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Query evaluates a JSONPath expression against the document at path,
// e.g. `$.ln[*][1]` for every link destination of a command set or
// `$[?(@.elem_arch == 'noarch')].elem_path` for the noarch files of a
// tree mapping.
func Query(fs types.FS, path, expr string) ([]interface{}, error) {
	x, err := jp.ParseString(expr)
	if err != nil {
		return nil, composerErrors.Wrapf(err, composerErrors.ErrDocumentQuery, "invalid jsonpath '%s'", expr).
			WithDetail("expr", expr)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, composerErrors.Wrapf(err, composerErrors.ErrDocumentLoad, "failed to read %s", path).
			WithDetail("path", path)
	}
	root, err := oj.Parse(data)
	if err != nil {
		return nil, composerErrors.Wrapf(err, composerErrors.ErrDocumentLoad, "failed to decode %s", path).
			WithDetail("path", path)
	}

	return x.Get(root), nil
}

// WriteResults prints one result per line: strings as-is, anything else
// as compact JSON with sorted keys.
func WriteResults(w io.Writer, results []interface{}) error {
	for _, r := range results {
		line, ok := r.(string)
		if !ok {
			line = oj.JSON(r, &oj.Options{Sort: true})
		}
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return composerErrors.Wrap(err, composerErrors.ErrInternal, "failed to write query results")
		}
	}
	return nil
}
