package parser

import (
	"errors"
	"reflect"
	"testing"
)

// TestParseLine tests the property-line grammar.
// Grammar: Line = Name { ";" Param } ":" Value
func TestParseLine(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantGroup string
		wantParam map[string]string
		wantValue string
		wantRaw   string
	}{
		{
			name:      "simple",
			input:     "FN:John Doe",
			wantName:  "FN",
			wantParam: map[string]string{},
			wantValue: "John Doe",
			wantRaw:   "John Doe",
		},
		{
			name:      "lower-case name",
			input:     "fn:John",
			wantName:  "FN",
			wantParam: map[string]string{},
			wantValue: "John",
			wantRaw:   "John",
		},
		{
			name:      "empty value",
			input:     "NOTE:",
			wantName:  "NOTE",
			wantParam: map[string]string{},
		},
		{
			name:      "value contains colons",
			input:     "PHOTO:http://example.com/a.jpg",
			wantName:  "PHOTO",
			wantParam: map[string]string{},
			wantValue: "http://example.com/a.jpg",
			wantRaw:   "http://example.com/a.jpg",
		},
		{
			name:      "type parameter",
			input:     "TEL;TYPE=HOME,VOICE:123-555-0100",
			wantName:  "TEL",
			wantParam: map[string]string{"TYPE": "HOME,VOICE"},
			wantValue: "123-555-0100",
			wantRaw:   "123-555-0100",
		},
		{
			name:      "parameter names are upper-cased, values kept",
			input:     "tel;type=home:1",
			wantName:  "TEL",
			wantParam: map[string]string{"TYPE": "home"},
			wantValue: "1",
			wantRaw:   "1",
		},
		{
			name:      "repeated TYPE parameters merge",
			input:     "TEL;TYPE=HOME;TYPE=WORK:1",
			wantName:  "TEL",
			wantParam: map[string]string{"TYPE": "HOME,WORK"},
			wantValue: "1",
			wantRaw:   "1",
		},
		{
			name:      "repeated parameter keeps the last value",
			input:     "PHOTO;VALUE=text;VALUE=uri:x",
			wantName:  "PHOTO",
			wantParam: map[string]string{"VALUE": "uri"},
			wantValue: "x",
			wantRaw:   "x",
		},
		{
			name:      "split on first equals",
			input:     "X-A;P=a=b:v",
			wantName:  "X-A",
			wantParam: map[string]string{"P": "a=b"},
			wantValue: "v",
			wantRaw:   "v",
		},
		{
			name:      "quoted parameter value",
			input:     `ADR;LABEL="1 Main St; Springfield: USA":;;1 Main St`,
			wantName:  "ADR",
			wantParam: map[string]string{"LABEL": "1 Main St; Springfield: USA"},
			wantValue: ";;1 Main St",
			wantRaw:   ";;1 Main St",
		},
		{
			name:      "bare 2.1 types",
			input:     "TEL;HOME;VOICE:1",
			wantName:  "TEL",
			wantParam: map[string]string{"TYPE": "HOME,VOICE"},
			wantValue: "1",
			wantRaw:   "1",
		},
		{
			name:      "bare encoding",
			input:     "PHOTO;JPEG;BASE64:AQID",
			wantName:  "PHOTO",
			wantParam: map[string]string{"TYPE": "JPEG", "ENCODING": "BASE64"},
			wantValue: "AQID",
			wantRaw:   "AQID",
		},
		{
			name:      "empty parameter segment ignored",
			input:     "TEL;;TYPE=CELL:1",
			wantName:  "TEL",
			wantParam: map[string]string{"TYPE": "CELL"},
			wantValue: "1",
			wantRaw:   "1",
		},
		{
			name:      "group prefix",
			input:     "item1.X-ABLabel:Work",
			wantName:  "X-ABLABEL",
			wantGroup: "item1",
			wantParam: map[string]string{},
			wantValue: "Work",
			wantRaw:   "Work",
		},
		{
			name:      "escapes in value",
			input:     `NOTE:a\,b\;c\\d\ne\x`,
			wantName:  "NOTE",
			wantParam: map[string]string{},
			wantValue: "a,b;c\\d\ne\\x",
			wantRaw:   `a\,b\;c\\d\ne\x`,
		},
		{
			name:      "escaped colon in name",
			input:     `X-A\:B:v`,
			wantName:  `X-A\:B`,
			wantParam: map[string]string{},
			wantValue: "v",
			wantRaw:   "v",
		},
		{
			name:      "space around name trimmed",
			input:     " FN :John",
			wantName:  "FN",
			wantParam: map[string]string{},
			wantValue: "John",
			wantRaw:   "John",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prop, err := ParseLine(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if prop.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", prop.Name, tt.wantName)
			}
			if prop.Group != tt.wantGroup {
				t.Errorf("Group = %q, want %q", prop.Group, tt.wantGroup)
			}
			if !reflect.DeepEqual(prop.Params, tt.wantParam) {
				t.Errorf("Params = %v, want %v", prop.Params, tt.wantParam)
			}
			if prop.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", prop.Value, tt.wantValue)
			}
			if prop.Raw != tt.wantRaw {
				t.Errorf("Raw = %q, want %q", prop.Raw, tt.wantRaw)
			}
		})
	}
}

// TestParseLine_Errors tests malformed lines.
func TestParseLine_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"no colon", "FN John", ErrMissingSeparator},
		{"empty line", "", ErrMissingSeparator},
		{"escaped colon only", `FN\:John`, ErrMissingSeparator},
		{"colon only inside quotes", `X;P="a:b"`, ErrMissingSeparator},
		{"empty name", ":value", ErrMissingName},
		{"blank name", "  :value", ErrMissingName},
		{"empty parameter name", "TEL;=HOME:1", ErrBadParameter},
		{"unterminated quote", `X;P="abc:v`, ErrBadParameter},
		{"quote after bare parameter", `X;A"b":v`, ErrBadParameter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.input)
			if err == nil {
				t.Fatalf("expected error for %q", tt.input)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("error %v does not wrap ErrMalformed", err)
			}
		})
	}
}

// TestProperty_Helpers tests Param, Key and Components.
func TestProperty_Helpers(t *testing.T) {
	prop, err := ParseLine(`item2.ADR;type=HOME:;;1 Main St\, Apt 2;Springfield`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v, ok := prop.Param("type"); !ok || v != "HOME" {
		t.Errorf("Param(type) = %q, %v", v, ok)
	}
	if _, ok := prop.Param("ENCODING"); ok {
		t.Error("Param(ENCODING) should be absent")
	}
	if got := prop.Key(); got != "ITEM2.ADR" {
		t.Errorf("Key() = %q", got)
	}

	want := []string{"", "", "1 Main St, Apt 2", "Springfield"}
	if got := prop.Components(); !reflect.DeepEqual(got, want) {
		t.Errorf("Components() = %q, want %q", got, want)
	}

	plain := Property{Name: "FN"}
	if plain.Key() != "FN" {
		t.Errorf("Key() without group = %q", plain.Key())
	}
}

// TestSplitComponents tests splitting at unescaped semicolons.
func TestSplitComponents(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{""}},
		{"Doe", []string{"Doe"}},
		{"Doe;John", []string{"Doe", "John"}},
		{"Doe;John;;;", []string{"Doe", "John", "", "", ""}},
		{`a\;b;c`, []string{"a;b", "c"}},
		{`a\\;b`, []string{`a\`, "b"}},
		{`trailing\`, []string{`trailing\`}},
	}

	for _, tt := range tests {
		if got := SplitComponents(tt.raw); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitComponents(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

// TestEscape tests escaping and its inverse.
func TestEscape(t *testing.T) {
	tests := []struct {
		plain   string
		escaped string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"a,b", `a\,b`},
		{"a;b", `a\;b`},
		{`a\b`, `a\\b`},
		{"line1\nline2", `line1\nline2`},
		{"tab\tand:colon", "tab\tand:colon"},
		{`\n`, `\\n`},
		{"Zoë, Ångström", `Zoë\, Ångström`},
	}

	for _, tt := range tests {
		if got := Escape(tt.plain); got != tt.escaped {
			t.Errorf("Escape(%q) = %q, want %q", tt.plain, got, tt.escaped)
		}
		if got := Unescape(tt.escaped); got != tt.plain {
			t.Errorf("Unescape(%q) = %q, want %q", tt.escaped, got, tt.plain)
		}
	}
}

// TestUnescape_Unknown tests that unknown escapes pass through.
func TestUnescape_Unknown(t *testing.T) {
	tests := map[string]string{
		`\t`:    `\t`,
		`\N`:    `\N`,
		`\:`:    `\:`,
		`end\`:  `end\`,
		`\\\\`:  `\\`,
		`\\\n`:  "\\\n",
		`a\,\,`: "a,,",
	}
	for in, want := range tests {
		if got := Unescape(in); got != want {
			t.Errorf("Unescape(%q) = %q, want %q", in, got, want)
		}
	}
}

// TestJoinComponents tests that joined components split back.
func TestJoinComponents(t *testing.T) {
	components := []string{"", "Apt; 2", `C:\dir`, "a,b", "line\nbreak"}
	raw := JoinComponents(components)
	if raw != `;Apt\; 2;C:\\dir;a\,b;line\nbreak` {
		t.Errorf("JoinComponents = %q", raw)
	}
	if got := SplitComponents(raw); !reflect.DeepEqual(got, components) {
		t.Errorf("SplitComponents(JoinComponents) = %q, want %q", got, components)
	}
}
