package resolver

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/donaldgifford/fmtconf/internal/options"
)

func testBase() options.Options {
	base := options.Defaults()
	base.PrintWidth = options.Ptr(100)
	base.SingleQuote = options.Ptr(true)
	return base
}

func rule(files string, o options.Options) Rule {
	return Rule{Files: []string{files}, Options: o}
}

func TestResolveEmptyRulesReturnsBase(t *testing.T) {
	base := testBase()
	for _, f := range []string{"readme.md", "src/index.ts", "Makefile", "a/b/c/d.yaml"} {
		got, err := Resolve(f, base, nil)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if !options.Equal(got, base) {
			t.Errorf("%s: got %+v, want base", f, got.Fields())
		}
	}
}

func TestResolveUnmatchedRulesReturnBase(t *testing.T) {
	base := testBase()
	rules := []Rule{
		rule("*.md", options.Options{PrintWidth: options.Ptr(80)}),
		rule("docs/**", options.Options{TabWidth: options.Ptr(4)}),
	}

	got, err := Resolve("src/index.ts", base, rules)
	if err != nil {
		t.Fatal(err)
	}
	if !options.Equal(got, base) {
		t.Errorf("got %+v, want base", got.Fields())
	}
}

func TestResolveScenario(t *testing.T) {
	base := testBase()
	rules := []Rule{rule("*.md", options.Options{PrintWidth: options.Ptr(80)})}

	md, err := Resolve("readme.md", base, rules)
	if err != nil {
		t.Fatal(err)
	}
	if *md.PrintWidth != 80 {
		t.Errorf("readme.md printWidth: got %d, want 80", *md.PrintWidth)
	}
	if !*md.SingleQuote {
		t.Error("readme.md singleQuote: got false, want true")
	}

	ts, err := Resolve("index.ts", base, rules)
	if err != nil {
		t.Fatal(err)
	}
	if *ts.PrintWidth != 100 {
		t.Errorf("index.ts printWidth: got %d, want 100", *ts.PrintWidth)
	}
	if !*ts.SingleQuote {
		t.Error("index.ts singleQuote: got false, want true")
	}
}

func TestResolveOrderSensitivity(t *testing.T) {
	base := testBase()
	r1 := rule("*.ts", options.Options{PrintWidth: options.Ptr(60)})
	r2 := rule("src/**/*.ts", options.Options{PrintWidth: options.Ptr(120)})

	tests := []struct {
		name  string
		rules []Rule
		want  int
	}{
		{"R1 then R2", []Rule{r1, r2}, 120},
		{"R2 then R1", []Rule{r2, r1}, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve("src/app/index.ts", base, tt.rules)
			if err != nil {
				t.Fatal(err)
			}
			if *got.PrintWidth != tt.want {
				t.Errorf("printWidth: got %d, want %d", *got.PrintWidth, tt.want)
			}
		})
	}
}

func TestResolveShallowMergeKeyByKey(t *testing.T) {
	base := testBase()
	rules := []Rule{
		rule("*.ts", options.Options{PrintWidth: options.Ptr(60), Semi: options.Ptr(false)}),
		rule("*.ts", options.Options{PrintWidth: options.Ptr(70)}),
	}

	got, err := Resolve("a.ts", base, rules)
	if err != nil {
		t.Fatal(err)
	}
	if *got.PrintWidth != 70 {
		t.Errorf("printWidth: got %d, want 70", *got.PrintWidth)
	}
	if *got.Semi {
		t.Error("semi from the first rule should survive the second")
	}
	if *got.TabWidth != 2 {
		t.Errorf("tabWidth: got %d, want base value 2", *got.TabWidth)
	}
}

func TestResolveIdempotent(t *testing.T) {
	r, err := New(testBase(), []Rule{
		rule("*.md", options.Options{PrintWidth: options.Ptr(80), ProseWrap: options.Ptr(options.ProseWrapAlways)}),
	})
	if err != nil {
		t.Fatal(err)
	}

	first, err := r.Resolve("docs/guide.md")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve("docs/guide.md")
	if err != nil {
		t.Fatal(err)
	}
	if !options.Equal(first, second) {
		t.Error("resolving twice gave different results")
	}

	// The result is a fresh value; changing it must not leak into later calls.
	*first.PrintWidth = 1
	third, err := r.Resolve("docs/guide.md")
	if err != nil {
		t.Fatal(err)
	}
	if *third.PrintWidth != 80 {
		t.Errorf("result aliased resolver state: got %d", *third.PrintWidth)
	}
}

func TestResolveDoesNotRetainInputs(t *testing.T) {
	base := testBase()
	rules := []Rule{rule("*.md", options.Options{PrintWidth: options.Ptr(80)})}

	r, err := New(base, rules)
	if err != nil {
		t.Fatal(err)
	}
	*base.TabWidth = 8
	*rules[0].Options.PrintWidth = 10
	rules[0].Files[0] = "*.ts"

	got, err := r.Resolve("a.md")
	if err != nil {
		t.Fatal(err)
	}
	if *got.TabWidth != 2 || *got.PrintWidth != 80 {
		t.Errorf("resolver saw caller mutation: tabWidth=%d printWidth=%d", *got.TabWidth, *got.PrintWidth)
	}
}

func TestResolveRuleSpecificKeys(t *testing.T) {
	rules := []Rule{
		rule("*.md", options.Options{ProseWrap: options.Ptr(options.ProseWrapNever)}),
		rule("*.mdx", options.Options{Parser: options.Ptr("mdx")}),
	}

	got, err := Resolve("notes.md", testBase(), rules)
	if err != nil {
		t.Fatal(err)
	}
	if got.ProseWrap == nil || *got.ProseWrap != options.ProseWrapNever {
		t.Errorf("proseWrap: got %v", got.ProseWrap)
	}
	if got.Parser != nil {
		t.Errorf("parser should stay unset, got %q", *got.Parser)
	}
	if err := options.Validate(got); err != nil {
		t.Errorf("effective config is incomplete: %v", err)
	}
}

func TestResolveUnknownOption(t *testing.T) {
	rules := []Rule{
		rule("*.{md,ts}", options.Options{ProseWrap: options.Ptr(options.ProseWrapAlways)}),
	}

	if _, err := Resolve("readme.md", testBase(), rules); err != nil {
		t.Fatalf("markdown should accept proseWrap: %v", err)
	}

	_, err := Resolve("index.ts", testBase(), rules)
	var uerr *UnknownOptionError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UnknownOptionError, got %v", err)
	}
	if uerr.Key != "proseWrap" || uerr.Parser != "typescript" || uerr.Rule != 0 {
		t.Errorf("unexpected error fields: %+v", uerr)
	}
	if uerr.Path != "index.ts" || uerr.Files[0] != "*.{md,ts}" {
		t.Errorf("error should name the file and glob: %+v", uerr)
	}
	if !strings.Contains(err.Error(), `overrides[0]`) {
		t.Errorf("error message should carry the rule index: %v", err)
	}
}

func TestResolveUnknownOptionWithoutParser(t *testing.T) {
	rules := []Rule{rule("Makefile", options.Options{Semi: options.Ptr(false)})}

	_, err := Resolve("Makefile", testBase(), rules)
	var uerr *UnknownOptionError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UnknownOptionError, got %v", err)
	}
	if uerr.Parser != "" {
		t.Errorf("Parser: got %q, want empty", uerr.Parser)
	}
	if !strings.Contains(err.Error(), "no parser") {
		t.Errorf("message: %v", err)
	}

	// Global options are fine on files without a parser.
	rules = []Rule{rule("Makefile", options.Options{UseTabs: options.Ptr(true)})}
	if _, err := Resolve("Makefile", testBase(), rules); err != nil {
		t.Errorf("global option rejected: %v", err)
	}
}

func TestResolveParserOverrideChangesContext(t *testing.T) {
	rules := []Rule{
		rule("*.txt", options.Options{Parser: options.Ptr("markdown"), ProseWrap: options.Ptr(options.ProseWrapAlways)}),
	}

	got, err := Resolve("notes.txt", testBase(), rules)
	if err != nil {
		t.Fatal(err)
	}
	if *got.ProseWrap != options.ProseWrapAlways {
		t.Errorf("proseWrap: got %q", *got.ProseWrap)
	}
}

func TestResolveParserSetByEarlierRule(t *testing.T) {
	rules := []Rule{
		rule("*.txt", options.Options{Parser: options.Ptr("yaml")}),
		rule("notes/*.txt", options.Options{ProseWrap: options.Ptr(options.ProseWrapNever)}),
	}

	if _, err := Resolve("notes/a.txt", testBase(), rules); err != nil {
		t.Errorf("parser from earlier rule should apply: %v", err)
	}
}

func TestResolveScopeUsesFinalParser(t *testing.T) {
	// A later rule switching the parser invalidates keys an earlier rule
	// set for the old parser.
	rules := []Rule{
		rule("*.foo", options.Options{Parser: options.Ptr("markdown"), ProseWrap: options.Ptr(options.ProseWrapAlways)}),
		rule("*.foo", options.Options{Parser: options.Ptr("babel")}),
	}
	_, err := Resolve("x.foo", testBase(), rules)
	var uerr *UnknownOptionError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected *UnknownOptionError, got %v", err)
	}
	if uerr.Key != "proseWrap" || uerr.Parser != "babel" || uerr.Rule != 0 {
		t.Errorf("unexpected error fields: %+v", uerr)
	}

	// A key set before the rule that picks the parser is checked against
	// that parser.
	rules = []Rule{
		rule("*.txt", options.Options{ProseWrap: options.Ptr(options.ProseWrapAlways)}),
		rule("*.txt", options.Options{Parser: options.Ptr("markdown")}),
	}
	got, err := Resolve("x.txt", testBase(), rules)
	if err != nil {
		t.Fatalf("later parser should accept proseWrap: %v", err)
	}
	if got.ParserName() != "markdown" || *got.ProseWrap != options.ProseWrapAlways {
		t.Errorf("got parser %q proseWrap %v", got.ParserName(), got.ProseWrap)
	}
}

func TestPolicyWarnRestoresEarlierValue(t *testing.T) {
	base := testBase()
	base.ProseWrap = options.Ptr(options.ProseWrapPreserve)
	r, err := New(base, []Rule{
		rule("*.foo", options.Options{Parser: options.Ptr("markdown"), ProseWrap: options.Ptr(options.ProseWrapAlways)}),
		rule("*.foo", options.Options{Parser: options.Ptr("babel")}),
	}, WithPolicy(PolicyWarn))
	if err != nil {
		t.Fatal(err)
	}

	ex, err := r.Explain("x.foo")
	if err != nil {
		t.Fatal(err)
	}
	if *ex.Options.ProseWrap != options.ProseWrapPreserve {
		t.Errorf("proseWrap: got %q, want preserve", *ex.Options.ProseWrap)
	}
	if src, _ := ex.SourceOf(options.ProseWrapKey); src.Rule != BaseRule {
		t.Errorf("proseWrap source: got %v, want base", src)
	}
	if src, _ := ex.SourceOf(options.Parser); src.Rule != 1 || ex.Parser != "babel" {
		t.Errorf("parser: got %q from %v", ex.Parser, src)
	}
	if len(ex.Warnings) != 1 || ex.Warnings[0].Parser != "babel" {
		t.Errorf("Warnings: got %v", ex.Warnings)
	}
}

func TestNewWarnsUnregisteredPlugin(t *testing.T) {
	var buf bytes.Buffer
	base := testBase()
	base.Plugins = options.Ptr([]string{"prettier-plugin-sh"})
	rules := []Rule{
		rule("*.css", options.Options{Plugins: options.Ptr([]string{"prettier-plugin-tailwindcss"})}),
	}

	if _, err := New(base, rules, WithLogger(log.New(&buf))); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "prettier-plugin-tailwindcss") {
		t.Errorf("expected a warning naming the plugin, got %q", buf.String())
	}
	if strings.Contains(buf.String(), "prettier-plugin-sh") {
		t.Errorf("registered plugin should not be reported: %q", buf.String())
	}
}

func TestResolvePluginLanguages(t *testing.T) {
	base := testBase()
	rules := []Rule{
		rule("*.sh", options.Options{Plugins: options.Ptr([]string{"prettier-plugin-sh"})}),
		rule("*.sh", options.Options{Parser: options.Ptr("sh")}),
	}

	got, err := Resolve("deploy.sh", base, rules)
	if err != nil {
		t.Fatal(err)
	}
	if got.ParserName() != "sh" {
		t.Errorf("parser: got %q, want sh", got.ParserName())
	}

	// The parser is unknown when no matching rule enables the plugin.
	rules = []Rule{
		rule("*.sh", options.Options{Plugins: options.Ptr([]string{"prettier-plugin-sh"})}),
		rule("*.bash", options.Options{Parser: options.Ptr("sh")}),
	}
	_, err = Resolve("run.bash", base, rules)
	var cerr *InvalidConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *InvalidConfigError, got %v", err)
	}
	if cerr.Rule != 1 || cerr.Key != "parser" {
		t.Errorf("unexpected error fields: %+v", cerr)
	}
}

func TestResolveExcludeFiles(t *testing.T) {
	rules := []Rule{{
		Files:        []string{"**/*.yml"},
		ExcludeFiles: []string{"vendor/**"},
		Options:      options.Options{TabWidth: options.Ptr(4)},
	}}

	got, err := Resolve("config/app.yml", testBase(), rules)
	if err != nil {
		t.Fatal(err)
	}
	if *got.TabWidth != 4 {
		t.Errorf("config/app.yml: got %d, want 4", *got.TabWidth)
	}

	got, err = Resolve("vendor/lib/app.yml", testBase(), rules)
	if err != nil {
		t.Fatal(err)
	}
	if *got.TabWidth != 2 {
		t.Errorf("vendor/lib/app.yml: got %d, want 2", *got.TabWidth)
	}
}

func TestResolveEmptyPath(t *testing.T) {
	if _, err := Resolve("", testBase(), nil); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath, got %v", err)
	}
	if _, err := Resolve("   ", testBase(), nil); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath for blank path, got %v", err)
	}
}

func TestNewInvalidBase(t *testing.T) {
	tests := []struct {
		name string
		base options.Options
		key  string
	}{
		{"missing printWidth", func() options.Options { o := testBase(); o.PrintWidth = nil; return o }(), "printWidth"},
		{"missing plugins", func() options.Options { o := testBase(); o.Plugins = nil; return o }(), "plugins"},
		{"bad quoteProps", func() options.Options {
			o := testBase()
			o.QuoteProps = options.Ptr(options.QuoteProps("always"))
			return o
		}(), "quoteProps"},
		{"unknown parser", func() options.Options { o := testBase(); o.Parser = options.Ptr("cobol"); return o }(), "parser"},
		{"empty", options.Options{}, "printWidth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.base, nil)
			var cerr *InvalidConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("expected *InvalidConfigError, got %v", err)
			}
			if cerr.Rule != BaseRule {
				t.Errorf("Rule: got %d, want BaseRule", cerr.Rule)
			}
			if cerr.Key != tt.key {
				t.Errorf("Key: got %q, want %q", cerr.Key, tt.key)
			}
		})
	}
}

func TestNewInvalidRuleValue(t *testing.T) {
	rules := []Rule{
		rule("*.md", options.Options{PrintWidth: options.Ptr(80)}),
		rule("*.ts", options.Options{TabWidth: options.Ptr(0)}),
	}

	_, err := New(testBase(), rules)
	var cerr *InvalidConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *InvalidConfigError, got %v", err)
	}
	if cerr.Rule != 1 || cerr.Key != "tabWidth" || cerr.Files[0] != "*.ts" {
		t.Errorf("unexpected error fields: %+v", cerr)
	}
	if !errors.Is(err, options.ErrInvalidValue) {
		t.Error("error should wrap options.ErrInvalidValue")
	}
}

func TestNewUnknownParserInRule(t *testing.T) {
	_, err := New(testBase(), []Rule{rule("*.x", options.Options{Parser: options.Ptr("cobol")})})
	var cerr *InvalidConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *InvalidConfigError, got %v", err)
	}
	if cerr.Rule != 0 {
		t.Errorf("Rule: got %d, want 0", cerr.Rule)
	}
	if !strings.Contains(err.Error(), "available: ") || !strings.Contains(err.Error(), "markdown") {
		t.Errorf("message should list available parsers: %v", err)
	}
}

func TestNewInvalidGlob(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		pattern string
	}{
		{"unclosed class", Rule{Files: []string{"*.md", "[a-"}}, "[a-"},
		{"unclosed alternation", Rule{Files: []string{"*.{yml,yaml"}}, "*.{yml,yaml"},
		{"empty pattern", Rule{Files: []string{""}}, ""},
		{"bad exclude", Rule{Files: []string{"*.md"}, ExcludeFiles: []string{"[z"}}, "[z"},
		{"no patterns", Rule{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := []Rule{rule("*.ts", options.Options{}), tt.rule}
			_, err := New(testBase(), rules)
			var gerr *InvalidGlobError
			if !errors.As(err, &gerr) {
				t.Fatalf("expected *InvalidGlobError, got %v", err)
			}
			if gerr.Rule != 1 {
				t.Errorf("Rule: got %d, want 1", gerr.Rule)
			}
			if gerr.Pattern != tt.pattern {
				t.Errorf("Pattern: got %q, want %q", gerr.Pattern, tt.pattern)
			}
		})
	}
}

func TestPolicyWarnDropsOption(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	r, err := New(testBase(), []Rule{
		rule("*.ts", options.Options{PrintWidth: options.Ptr(90), ProseWrap: options.Ptr(options.ProseWrapAlways)}),
	}, WithPolicy(PolicyWarn), WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}

	got, err := r.Resolve("index.ts")
	if err != nil {
		t.Fatalf("warn policy should not fail: %v", err)
	}
	if got.Has(options.ProseWrapKey) {
		t.Error("proseWrap should have been dropped")
	}
	if *got.PrintWidth != 90 {
		t.Errorf("printWidth: got %d, want 90", *got.PrintWidth)
	}
	if !strings.Contains(buf.String(), "proseWrap") {
		t.Errorf("expected a warning naming the option, got %q", buf.String())
	}

	ex, err := r.Explain("index.ts")
	if err != nil {
		t.Fatal(err)
	}
	if len(ex.Warnings) != 1 || ex.Warnings[0].Key != "proseWrap" {
		t.Errorf("Warnings: got %v", ex.Warnings)
	}
}

func TestResolveConcurrent(t *testing.T) {
	r, err := New(testBase(), []Rule{
		rule("*.md", options.Options{PrintWidth: options.Ptr(80)}),
		rule("*.ts", options.Options{Semi: options.Ptr(false)}),
	})
	if err != nil {
		t.Fatal(err)
	}

	files := []string{"a.md", "b.ts", "c.json", "d/e.md"}
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := range 64 {
		wg.Add(1)
		go func(f string) {
			defer wg.Done()
			if _, err := r.Resolve(f); err != nil {
				errs <- err
			}
		}(files[i%len(files)])
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
