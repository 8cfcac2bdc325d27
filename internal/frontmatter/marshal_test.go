package frontmatter_test

import (
	"strings"
	"testing"

	"github.com/patternkb/patternkb/internal/frontmatter"
)

func Test_Marshal_WritesCanonicalHeader_When_KeyOrderGiven(t *testing.T) {
	t.Parallel()

	fm := frontmatter.Frontmatter{
		"pattern":   frontmatter.StringValue("retry-backoff"),
		"category":  frontmatter.StringValue("resilience"),
		"framework": frontmatter.StringValue("stdlib"),
		"tags":      frontmatter.ListValue([]string{"go", "retry"}),
	}

	got, err := frontmatter.Marshal(fm, []string{"pattern", "category", "framework", "tags"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := strings.Join([]string{
		"---",
		"pattern: retry-backoff",
		"category: resilience",
		"framework: stdlib",
		"tags: [go, retry]",
		"---",
		"",
	}, "\n")

	if got != want {
		t.Fatalf("header mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func Test_Marshal_QuotesScalars_When_NotRoundTrippable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty string", value: "", want: `note: ""`},
		{name: "leading space", value: " padded", want: `note: " padded"`},
		{name: "reserved prefix", value: "*glob", want: `note: "*glob"`},
		{name: "leading quote", value: `"quoted"`, want: `note: "\"quoted\""`},
		{name: "plain value untouched", value: "plain value", want: "note: plain value"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			fm := frontmatter.Frontmatter{"note": frontmatter.StringValue(tc.value)}

			got, err := frontmatter.Marshal(fm, []string{"note"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.Contains(got, tc.want+"\n") {
				t.Fatalf("output %q does not contain line %q", got, tc.want)
			}

			// Quoting is only useful if Parse recovers the original value.
			fm2, _, err := frontmatter.Parse([]byte(got))
			if err != nil {
				t.Fatalf("re-parse failed: %v", err)
			}

			back, ok := fm2.GetString("note")
			if !ok || back != tc.value {
				t.Fatalf("round-trip mismatch: got %q, want %q", back, tc.value)
			}
		})
	}
}

func Test_Marshal_ReturnsError_When_InputInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		fm       frontmatter.Frontmatter
		keyOrder []string
	}{
		{
			name:     "missing ordered key",
			fm:       frontmatter.Frontmatter{"pattern": frontmatter.StringValue("a")},
			keyOrder: []string{"pattern", "category"},
		},
		{
			name:     "empty list item",
			fm:       frontmatter.Frontmatter{"tags": frontmatter.ListValue([]string{"go", ""})},
			keyOrder: []string{"tags"},
		},
		{
			name:     "comma in list item",
			fm:       frontmatter.Frontmatter{"tags": frontmatter.ListValue([]string{"a, b"})},
			keyOrder: []string{"tags"},
		},
		{
			name:     "nil map",
			fm:       nil,
			keyOrder: []string{"pattern"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := frontmatter.Marshal(tc.fm, tc.keyOrder)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}
