package options

import (
	"errors"
	"slices"
	"testing"
)

func TestDecode(t *testing.T) {
	raw := map[string]any{
		"printWidth":    100,
		"tabWidth":      int64(4),
		"singleQuote":   true,
		"trailingComma": "es5",
		"plugins":       []any{"prettier-plugin-sh"},
		"proseWrap":     "always",
	}

	o, err := Decode(raw)
	if err != nil {
		t.Fatal(err)
	}

	if *o.PrintWidth != 100 {
		t.Errorf("PrintWidth: got %d, want 100", *o.PrintWidth)
	}
	if *o.TabWidth != 4 {
		t.Errorf("TabWidth: got %d, want 4", *o.TabWidth)
	}
	if !*o.SingleQuote {
		t.Error("SingleQuote: got false, want true")
	}
	if *o.TrailingComma != TrailingCommaES5 {
		t.Errorf("TrailingComma: got %q, want es5", *o.TrailingComma)
	}
	if !slices.Equal(o.PluginList(), []string{"prettier-plugin-sh"}) {
		t.Errorf("Plugins: got %v", o.PluginList())
	}
	if *o.ProseWrap != ProseWrapAlways {
		t.Errorf("ProseWrap: got %q", *o.ProseWrap)
	}
	if o.Has(UseTabs) {
		t.Error("UseTabs should be unset")
	}
}

func TestDecodeJSONNumbers(t *testing.T) {
	o, err := Decode(map[string]any{"printWidth": float64(120)})
	if err != nil {
		t.Fatal(err)
	}
	if *o.PrintWidth != 120 {
		t.Errorf("PrintWidth: got %d, want 120", *o.PrintWidth)
	}

	_, err = Decode(map[string]any{"printWidth": 80.5})
	if !errors.Is(err, ErrInvalidValue) {
		t.Errorf("fractional width: expected ErrInvalidValue, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     map[string]any
		key     string
		wantErr error
	}{
		{"unknown key", map[string]any{"indentStyle": "tab"}, "indentStyle", ErrUnknownKey},
		{"string width", map[string]any{"printWidth": "80"}, "printWidth", ErrInvalidValue},
		{"zero width", map[string]any{"printWidth": 0}, "printWidth", ErrInvalidValue},
		{"bool as string", map[string]any{"semi": "yes"}, "semi", ErrInvalidValue},
		{"enum outside set", map[string]any{"trailingComma": "always"}, "trailingComma", ErrInvalidValue},
		{"plugin list of ints", map[string]any{"plugins": []any{1}}, "plugins", ErrInvalidValue},
		{"plugin string", map[string]any{"plugins": "a"}, "plugins", ErrInvalidValue},
		{"null value", map[string]any{"useTabs": nil}, "useTabs", ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got %v, want %v", err, tt.wantErr)
			}
			var ke *KeyError
			if !errors.As(err, &ke) {
				t.Fatalf("expected *KeyError, got %T", err)
			}
			if ke.Key != tt.key {
				t.Errorf("Key: got %q, want %q", ke.Key, tt.key)
			}
		})
	}
}

func TestDecodeReportsFirstKeyInSortedOrder(t *testing.T) {
	_, err := Decode(map[string]any{"zzz": 1, "aaa": 1})
	var ke *KeyError
	if !errors.As(err, &ke) {
		t.Fatalf("expected *KeyError, got %v", err)
	}
	if ke.Key != "aaa" {
		t.Errorf("Key: got %q, want %q", ke.Key, "aaa")
	}
}
