package rules

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/logging"
	"github.com/arthur-debert/composer/pkg/types"
)

const lineRuleArrow = "->"

// CustomRule links destination files the derivation cannot place on its own.
type CustomRule struct {
	FilePattern string `json:"file_pattern"`
	SrcRepo     string `json:"src_repo"`
	SrcArch     string `json:"src_arch"`
	DstRepo     string `json:"dst_repo,omitempty"`
	DstArch     string `json:"dst_arch,omitempty"`
}

// Pattern returns the regular expression matched against mapping keys.
// An empty SrcArch, possible only in the line form, matches any architecture.
func (r CustomRule) Pattern() string {
	if r.SrcArch == "" {
		return "^" + r.SrcRepo + types.KeySeparator + ".*" + types.KeySeparator + r.FilePattern
	}
	return "^" + r.SrcRepo + types.KeySeparator + r.SrcArch + types.KeySeparator + ".*?" + types.KeySeparator + r.FilePattern
}

func (r CustomRule) validate(index int) error {
	missing := ""
	switch {
	case r.FilePattern == "":
		missing = "file_pattern"
	case r.SrcRepo == "":
		missing = "src_repo"
	case r.SrcArch == "":
		missing = "src_arch"
	}
	if missing != "" {
		return composerErrors.Newf(composerErrors.ErrRulesParse, "custom rule %d is missing %s", index, missing).
			WithDetail("rule", index)
	}
	return nil
}

// ParseCustomRules reads a custom rules document.
//
// The JSON array form is tried first. Only when the document is not JSON
// at all is it read as line rules; JSON of the wrong shape is an error.
func ParseCustomRules(data []byte) ([]CustomRule, error) {
	logger := logging.GetLogger("rules.custom")

	var rules []CustomRule
	err := json.Unmarshal(data, &rules)
	if err == nil {
		for i, r := range rules {
			if err := r.validate(i); err != nil {
				return nil, err
			}
		}
		logger.Debug().Int("count", len(rules)).Msg("Parsed JSON custom rules")
		return rules, nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return nil, composerErrors.Wrap(err, composerErrors.ErrRulesParse, "invalid custom rules document")
	}

	logger.Debug().Err(err).Msg("Custom rules are not JSON, reading line rules")
	return parseLineRules(data)
}

// parseLineRules reads `pattern -> channel[:arch][/dstChannel[:dstArch]]` lines.
func parseLineRules(data []byte) ([]CustomRule, error) {
	var rules []CustomRule

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		pattern, target, ok := strings.Cut(line, lineRuleArrow)
		if !ok {
			return nil, composerErrors.Newf(composerErrors.ErrRulesParse, "line %d: missing %q", lineNo, lineRuleArrow).
				WithDetail("line", line)
		}

		selector, override, _ := strings.Cut(strings.TrimSpace(target), "/")
		rule := CustomRule{FilePattern: strings.TrimSpace(pattern)}
		rule.SrcRepo, rule.SrcArch, _ = strings.Cut(strings.TrimSpace(selector), types.KeySeparator)
		if override != "" {
			rule.DstRepo, rule.DstArch, _ = strings.Cut(override, types.KeySeparator)
		}

		if rule.FilePattern == "" || rule.SrcRepo == "" {
			return nil, composerErrors.Newf(composerErrors.ErrRulesParse, "line %d: empty pattern or selector", lineNo).
				WithDetail("line", line)
		}
		rules = append(rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, composerErrors.Wrap(err, composerErrors.ErrRulesParse, "failed to read line rules")
	}
	return rules, nil
}

// AppendCustomRules evaluates rules against the destination mapping and
// returns the links they produce. Only entries in the all layout are
// considered; each is linked into the os layout, renamed to the rule's
// destination channel and architecture when those are given.
func AppendCustomRules(dest types.TreeMapping, rules []CustomRule, policy types.Policy) ([]types.Pair, error) {
	logger := logging.GetLogger("rules.custom")
	keys := dest.SortedKeys()

	var links []types.Pair
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern())
		if err != nil {
			return nil, composerErrors.Wrapf(err, composerErrors.ErrRulesPattern, "invalid custom rule pattern %q", rule.FilePattern).
				WithDetail("pattern", rule.Pattern())
		}

		hits := 0
		for _, key := range keys {
			entry := dest[key]
			if !strings.Contains(entry.FullPath, policy.AllDirMarker) || !re.MatchString(key) {
				continue
			}

			out := strings.ReplaceAll(entry.FullPath, policy.AllDirMarker, policy.OSDirMarker)
			if repo := strings.TrimSpace(rule.DstRepo); repo != "" {
				out = strings.ReplaceAll(out, entry.Channel, repo)
			}
			if arch := strings.TrimSpace(rule.DstArch); arch != "" {
				out = strings.ReplaceAll(out, entry.Architecture, arch)
			}
			links = append(links, types.Pair{Src: entry.FullPath, Dst: out})
			hits++
		}
		logger.Debug().Str("pattern", rule.Pattern()).Int("hits", hits).Msg("Applied custom rule")
	}
	return links, nil
}
