package document

import (
	"encoding/json"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/logging"
	"github.com/arthur-debert/composer/pkg/types"
)

const filePerm = 0644

// SaveCommands writes cmds to path. Empty buckets are written as [].
func SaveCommands(fs types.FS, path string, cmds *types.CommandSet) error {
	cmds.Normalize()
	return save(fs, path, cmds)
}

// LoadCommands reads a command set document.
func LoadCommands(fs types.FS, path string) (*types.CommandSet, error) {
	cmds := types.NewCommandSet()
	if err := load(fs, path, cmds); err != nil {
		return nil, err
	}
	cmds.Normalize()
	return cmds, nil
}

// SaveMapping writes a tree mapping to path.
func SaveMapping(fs types.FS, path string, mapping types.TreeMapping) error {
	if mapping == nil {
		mapping = types.TreeMapping{}
	}
	return save(fs, path, mapping)
}

// LoadMapping reads a tree mapping document.
func LoadMapping(fs types.FS, path string) (types.TreeMapping, error) {
	mapping := types.TreeMapping{}
	if err := load(fs, path, &mapping); err != nil {
		return nil, err
	}
	return mapping, nil
}

func save(fs types.FS, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return composerErrors.Wrapf(err, composerErrors.ErrDocumentSave, "failed to encode %s", path).
			WithDetail("path", path)
	}
	if err := fs.WriteFile(path, append(data, '\n'), filePerm); err != nil {
		return composerErrors.Wrapf(err, composerErrors.ErrDocumentSave, "failed to write %s", path).
			WithDetail("path", path)
	}

	logger := logging.GetLogger("document")
	logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("Saved document")
	return nil
}

func load(fs types.FS, path string, v interface{}) error {
	data, err := fs.ReadFile(path)
	if err != nil {
		return composerErrors.Wrapf(err, composerErrors.ErrDocumentLoad, "failed to read %s", path).
			WithDetail("path", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return composerErrors.Wrapf(err, composerErrors.ErrDocumentLoad, "failed to decode %s", path).
			WithDetail("path", path)
	}
	return nil
}
