package runner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/fmtconf/internal/options"
	"github.com/donaldgifford/fmtconf/internal/resolver"
)

// Format selects how results are rendered.
type Format string

// Output formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatTOML}
}

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	for _, f := range Formats() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want text, json, yaml or toml)", s)
}

// Result is the rendered outcome for one file.
type Result struct {
	Path    string          `json:"path" yaml:"path" toml:"path"`
	Parser  string          `json:"parser,omitempty" yaml:"parser,omitempty" toml:"parser,omitempty"`
	Options options.Options `json:"options" yaml:"options" toml:"options"`
	// Sources, Matched and Warnings are only filled in explain mode.
	Sources  map[string]string `json:"sources,omitempty" yaml:"sources,omitempty" toml:"sources,omitempty"`
	Matched  []int             `json:"matched,omitempty" yaml:"matched,omitempty" toml:"matched,omitempty"`
	Warnings []string          `json:"warnings,omitempty" yaml:"warnings,omitempty" toml:"warnings,omitempty"`

	explained bool
	sources   []string
}

func explainResult(file string, ex *resolver.Explanation) Result {
	res := Result{
		Path:      file,
		Parser:    ex.Parser,
		Options:   ex.Options,
		Sources:   make(map[string]string, len(ex.Sources)),
		Matched:   ex.Matched,
		explained: true,
	}
	for _, k := range ex.Options.Keys() {
		src, _ := ex.SourceOf(k)
		res.Sources[string(k)] = src.String()
		res.sources = append(res.sources, src.String())
	}
	for _, w := range ex.Warnings {
		res.Warnings = append(res.Warnings, w.Error())
	}
	return res
}

// RenderResults writes results to w in the given format.
func RenderResults(w io.Writer, format Format, results []Result) error {
	switch format {
	case FormatText:
		for i, res := range results {
			if i > 0 {
				writeOut(w, "\n")
			}
			writeOut(w, textResult(res))
		}
		return nil
	case FormatTOML:
		return encode(w, format, struct {
			Files []Result `toml:"files"`
		}{results})
	default:
		if results == nil {
			results = []Result{}
		}
		return encode(w, format, results)
	}
}

// RenderOptions writes a bare option record to w in the given format.
func RenderOptions(w io.Writer, format Format, o options.Options) error {
	if format == FormatText {
		writeOut(w, textFields(o.Fields(), nil, ""))
		return nil
	}
	return encode(w, format, o)
}

func encode(w io.Writer, format Format, v any) error {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(&buf).Encode(v); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func textResult(res Result) string {
	var b strings.Builder
	b.WriteString(res.Path)
	if res.Parser != "" {
		fmt.Fprintf(&b, " (%s)", res.Parser)
	}
	b.WriteString("\n")

	var sources []string
	if res.explained {
		sources = res.sources
	}
	b.WriteString(textFields(res.Options.Fields(), sources, "  "))
	for _, w := range res.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return b.String()
}

// textFields renders aligned "key: value" lines. When sources is non-nil
// each line gets the matching source in a third column.
func textFields(fields []options.Field, sources []string, indent string) string {
	keyWidth, valueWidth := 0, 0
	values := make([]string, len(fields))
	for i, f := range fields {
		values[i] = formatValue(f.Value)
		keyWidth = max(keyWidth, len(f.Key)+1)
		valueWidth = max(valueWidth, len(values[i]))
	}

	var b strings.Builder
	for i, f := range fields {
		key := string(f.Key) + ":"
		if sources == nil {
			fmt.Fprintf(&b, "%s%-*s %s\n", indent, keyWidth, key, values[i])
			continue
		}
		fmt.Fprintf(&b, "%s%-*s %-*s  %s\n", indent, keyWidth, key, valueWidth, values[i], sources[i])
	}
	return b.String()
}

func formatValue(v any) string {
	if list, ok := v.([]string); ok {
		return "[" + strings.Join(list, ", ") + "]"
	}
	return fmt.Sprint(v)
}
