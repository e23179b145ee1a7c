package resolver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BaseRule is the rule index reported for the base configuration.
const BaseRule = -1

// ErrEmptyPath is returned when Resolve is called with an empty file path.
var ErrEmptyPath = errors.New("empty file path")

// InvalidConfigError reports a base configuration that is incomplete or
// holds a value outside its type or enum. Rule is BaseRule for the base;
// override values of the wrong type are reported with their rule index.
type InvalidConfigError struct {
	Rule  int
	Files []string
	Key   string
	Err   error
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %v", where(e.Rule, e.Files), e.Err)
}

func (e *InvalidConfigError) Unwrap() error {
	return e.Err
}

// InvalidGlobError reports a pattern that cannot be compiled.
type InvalidGlobError struct {
	Rule    int
	Files   []string
	Pattern string
	Err     error
}

func (e *InvalidGlobError) Error() string {
	return fmt.Sprintf("invalid glob %q in %s: %v", e.Pattern, where(e.Rule, e.Files), e.Err)
}

func (e *InvalidGlobError) Unwrap() error {
	return e.Err
}

// UnknownOptionError reports an override that sets a key the parser of the
// matched file does not recognize. Path is empty when the key was rejected
// while decoding, before any file was matched; Parser is empty when the
// file has no parser context.
type UnknownOptionError struct {
	Rule   int
	Files  []string
	Key    string
	Parser string
	Path   string
}

func (e *UnknownOptionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: unknown option %q", where(e.Rule, e.Files), e.Key)
	}
	parser := "no parser"
	if e.Parser != "" {
		parser = "parser " + strconv.Quote(e.Parser)
	}
	return fmt.Sprintf("%s: option %q is not recognized by %s for %s",
		where(e.Rule, e.Files), e.Key, parser, e.Path)
}

func where(rule int, files []string) string {
	if rule == BaseRule {
		return "base config"
	}
	if len(files) == 0 {
		return fmt.Sprintf("overrides[%d]", rule)
	}
	quoted := make([]string, len(files))
	for i, f := range files {
		quoted[i] = strconv.Quote(f)
	}
	return fmt.Sprintf("overrides[%d] (files %s)", rule, strings.Join(quoted, ", "))
}
