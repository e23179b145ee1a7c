package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/fmtconf/internal/options"
	"github.com/donaldgifford/fmtconf/internal/resolver"
)

const overridesKey = "overrides"

// Parse decodes a document. Option keys and values are checked against the
// option table; the base is filled from defaults but is not otherwise
// validated until a resolver is built from it.
func Parse(data []byte, format Format) (*Document, error) {
	raw, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}

	doc := DefaultDocument()

	rawOverrides, hasOverrides := raw[overridesKey]
	delete(raw, overridesKey)

	baseOpts, err := options.Decode(raw)
	if err != nil {
		return nil, optionError(resolver.BaseRule, nil, err)
	}
	doc.Base.Apply(baseOpts)

	if hasOverrides {
		rules, err := decodeOverrides(rawOverrides)
		if err != nil {
			return nil, err
		}
		doc.Overrides = rules
	}
	return doc, nil
}

func decodeRaw(data []byte, format Format) (map[string]any, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	if raw == nil {
		raw = make(map[string]any)
	}
	return raw, nil
}

func decodeOverrides(v any) ([]resolver.Rule, error) {
	if v == nil {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &resolver.InvalidConfigError{
			Rule: resolver.BaseRule,
			Key:  overridesKey,
			Err:  fmt.Errorf("%w: want list, got %T", options.ErrInvalidValue, v),
		}
	}

	rules := make([]resolver.Rule, 0, len(list))
	for i, item := range list {
		rule, err := decodeRule(i, item)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func decodeRule(index int, v any) (resolver.Rule, error) {
	entry, ok := v.(map[string]any)
	if !ok {
		return resolver.Rule{}, ruleError(index, nil, "", fmt.Errorf("want mapping, got %T", v))
	}

	var rule resolver.Rule
	for _, key := range slices.Sorted(maps.Keys(entry)) {
		if key != "files" && key != "excludeFiles" && key != "options" {
			return resolver.Rule{}, ruleError(index, nil, key, errors.New("unknown override field"))
		}
	}

	files, err := patterns(entry["files"])
	if err != nil {
		return resolver.Rule{}, ruleError(index, nil, "files", err)
	}
	if len(files) == 0 {
		return resolver.Rule{}, ruleError(index, nil, "files", errors.New("required"))
	}
	rule.Files = files

	if rule.ExcludeFiles, err = patterns(entry["excludeFiles"]); err != nil {
		return resolver.Rule{}, ruleError(index, files, "excludeFiles", err)
	}

	switch rawOpts := entry["options"].(type) {
	case nil:
	case map[string]any:
		o, err := options.Decode(rawOpts)
		if err != nil {
			return resolver.Rule{}, optionError(index, files, err)
		}
		rule.Options = o
	default:
		return resolver.Rule{}, ruleError(index, files, "options", fmt.Errorf("want mapping, got %T", rawOpts))
	}
	return rule, nil
}

// patterns accepts a single pattern or a list of patterns.
func patterns(v any) ([]string, error) {
	switch p := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{p}, nil
	case []any:
		out := make([]string, 0, len(p))
		for i, item := range p {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("pattern %d: want string, got %T", i, item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("want string or list of strings, got %T", v)
	}
}

// optionError converts an options.KeyError into the resolver error
// taxonomy, attributing it to the base or to an override.
func optionError(rule int, files []string, err error) error {
	var ke *options.KeyError
	if errors.As(err, &ke) && errors.Is(err, options.ErrUnknownKey) {
		return &resolver.UnknownOptionError{Rule: rule, Files: files, Key: ke.Key}
	}
	key := ""
	if ke != nil {
		key = ke.Key
	}
	return &resolver.InvalidConfigError{Rule: rule, Files: files, Key: key, Err: err}
}

func ruleError(index int, files []string, key string, err error) error {
	if key != "" {
		err = fmt.Errorf("%s: %w", key, err)
	}
	return &resolver.InvalidConfigError{Rule: index, Files: files, Key: key, Err: err}
}
