package rules

import (
	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/logging"
	"github.com/arthur-debert/composer/pkg/types"
)

// Generator derives a command set and applies the policy's custom rules file.
type Generator struct {
	fs     types.FS
	policy types.Policy
}

// NewGenerator creates a generator that reads custom rules through fs.
func NewGenerator(fs types.FS, policy types.Policy) *Generator {
	return &Generator{fs: fs, policy: policy}
}

// Generate derives rules for dest after source. Links from the custom rules
// file, if configured, are appended after the derived links.
func (g *Generator) Generate(source, dest types.TreeMapping) (*types.CommandSet, error) {
	logger := logging.GetLogger("rules")
	defer logging.LogOperationStart(logger, "generate")()

	cmds := DeriveRules(source, dest, g.policy)
	if len(source) == 0 || len(dest) == 0 || g.policy.CustomRulesFile == "" {
		return cmds, nil
	}

	data, err := g.fs.ReadFile(g.policy.CustomRulesFile)
	if err != nil {
		return nil, composerErrors.Wrapf(err, composerErrors.ErrRulesParse, "failed to read custom rules file %s", g.policy.CustomRulesFile).
			WithDetail("path", g.policy.CustomRulesFile)
	}
	custom, err := ParseCustomRules(data)
	if err != nil {
		return nil, err
	}
	links, err := AppendCustomRules(dest, custom, g.policy)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("file", g.policy.CustomRulesFile).
		Int("links", len(links)).
		Msg("Applied custom rules")
	cmds.Ln = append(cmds.Ln, links...)
	return cmds, nil
}
