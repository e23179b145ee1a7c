package resolver

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/donaldgifford/fmtconf/internal/options"
)

// Source identifies where an effective option value came from.
type Source struct {
	// Rule is the override index, or BaseRule.
	Rule  int
	Files []string
}

func (s Source) String() string {
	if s.Rule == BaseRule {
		return "base"
	}
	quoted := make([]string, len(s.Files))
	for i, f := range s.Files {
		quoted[i] = strconv.Quote(f)
	}
	return fmt.Sprintf("overrides[%d] %s", s.Rule, strings.Join(quoted, ", "))
}

// Explanation is an effective configuration together with the provenance
// of each key.
type Explanation struct {
	Path    string
	Parser  string
	Options options.Options
	Sources map[options.Key]Source
	// Matched lists the indices of the rules that matched, in order.
	Matched []int
	// Warnings holds the options dropped under PolicyWarn.
	Warnings []*UnknownOptionError
}

// Explain resolves file and records which rule set each key.
func (r *Resolver) Explain(file string) (*Explanation, error) {
	ex := &Explanation{}
	if _, err := r.resolve(file, ex); err != nil {
		return nil, err
	}
	return ex, nil
}

// SourceOf returns the source of key and whether the key is set.
func (e *Explanation) SourceOf(key options.Key) (Source, bool) {
	s, ok := e.Sources[key]
	return s, ok
}

func (e *Explanation) init(file string, base options.Options) {
	if e == nil {
		return
	}
	e.Path = file
	e.Sources = make(map[options.Key]Source)
	for _, k := range base.Keys() {
		e.Sources[k] = Source{Rule: BaseRule}
	}
}

func (e *Explanation) record(cr compiledRule, written []options.Key) {
	if e == nil {
		return
	}
	e.Matched = append(e.Matched, cr.index)
	for _, k := range written {
		e.Sources[k] = Source{Rule: cr.index, Files: slices.Clone(cr.rule.Files)}
	}
}

func (e *Explanation) warn(err *UnknownOptionError) {
	if e == nil {
		return
	}
	e.Warnings = append(e.Warnings, err)
}

func (e *Explanation) finish(o options.Options, parser string) {
	if e == nil {
		return
	}
	e.Options = o.Clone()
	e.Parser = parser
}
