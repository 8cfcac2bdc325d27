package pattern_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/patternkb/patternkb/internal/pattern"
)

func testLibrary() *pattern.Library {
	return pattern.NewLibrary([]pattern.Pattern{
		{
			Metadata: pattern.Metadata{
				Name:      "retry-backoff",
				Category:  "resilience",
				Framework: "stdlib",
				Tags:      []string{"go", "retry"},
			},
			Content: "Exponential backoff with jitter around an axum handler.",
		},
		{
			Metadata: pattern.Metadata{
				Name:     "circuit-breaker",
				Category: "resilience",
				Tags:     []string{"go"},
			},
			Content: "Trip after N consecutive failures.",
		},
		{
			Metadata: pattern.Metadata{
				Name:      "lambda-deploy",
				Category:  "aws",
				Framework: "lambda",
				Tags:      []string{"aws", "deploy"},
			},
			Content: "Package and publish a function.",
		},
	})
}

func names(patterns []pattern.Pattern) []string {
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, p.Metadata.Name)
	}

	return out
}

func Test_List_ReturnsAllSummaries_InCollectionOrder(t *testing.T) {
	t.Parallel()

	lib := testLibrary()

	want := []pattern.Summary{
		{Name: "retry-backoff", Category: "resilience"},
		{Name: "circuit-breaker", Category: "resilience"},
		{Name: "lambda-deploy", Category: "aws"},
	}

	if diff := cmp.Diff(want, lib.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func Test_Search_AppliesCriteria_AsConjunction(t *testing.T) {
	t.Parallel()

	lib := testLibrary()

	cases := []struct {
		name string
		req  pattern.SearchRequest
		want []string
	}{
		{
			name: "no criteria returns everything",
			req:  pattern.SearchRequest{},
			want: []string{"retry-backoff", "circuit-breaker", "lambda-deploy"},
		},
		{
			name: "category exact match",
			req:  pattern.SearchRequest{Category: "resilience"},
			want: []string{"retry-backoff", "circuit-breaker"},
		},
		{
			name: "category is case-sensitive",
			req:  pattern.SearchRequest{Category: "Resilience"},
			want: nil,
		},
		{
			name: "framework exact match",
			req:  pattern.SearchRequest{Framework: "lambda"},
			want: []string{"lambda-deploy"},
		},
		{
			name: "framework never matches patterns without one",
			req:  pattern.SearchRequest{Framework: "stdlib", Category: "resilience"},
			want: []string{"retry-backoff"},
		},
		{
			name: "tag membership",
			req:  pattern.SearchRequest{Tag: "go"},
			want: []string{"retry-backoff", "circuit-breaker"},
		},
		{
			name: "tag is exact not substring",
			req:  pattern.SearchRequest{Tag: "g"},
			want: nil,
		},
		{
			name: "query is case-insensitive",
			req:  pattern.SearchRequest{Query: "AXUM"},
			want: []string{"retry-backoff"},
		},
		{
			name: "query matches name",
			req:  pattern.SearchRequest{Query: "circuit"},
			want: []string{"circuit-breaker"},
		},
		{
			name: "conjunction of all criteria",
			req: pattern.SearchRequest{
				Query: "backoff", Category: "resilience", Framework: "stdlib", Tag: "retry",
			},
			want: []string{"retry-backoff"},
		},
		{
			name: "conjunction fails when one criterion misses",
			req:  pattern.SearchRequest{Query: "backoff", Category: "aws"},
			want: nil,
		},
		{
			name: "unknown tag matches nothing",
			req:  pattern.SearchRequest{Tag: "circuit-breaker"},
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := names(lib.Search(tc.req))
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func Test_Get_ReturnsFirstMatch_ByScanOrder(t *testing.T) {
	t.Parallel()

	lib := pattern.NewLibrary([]pattern.Pattern{
		{Metadata: pattern.Metadata{Name: "dup", Category: "first"}},
		{Metadata: pattern.Metadata{Name: "dup", Category: "second"}},
	})

	p, ok := lib.Get("dup")
	if !ok {
		t.Fatal("expected match")
	}

	if p.Metadata.Category != "first" {
		t.Fatalf("expected first match to win, got %q", p.Metadata.Category)
	}
}

func Test_Get_ReportsNotFound_When_NameUnknown(t *testing.T) {
	t.Parallel()

	lib := testLibrary()

	_, ok := lib.Get("missing")
	if ok {
		t.Fatal("expected not-found")
	}

	// Exact match only; neither prefix nor case-insensitive.
	_, ok = lib.Get("retry")
	if ok {
		t.Fatal("expected not-found for prefix")
	}

	_, ok = lib.Get("Retry-Backoff")
	if ok {
		t.Fatal("expected not-found for different casing")
	}
}

func Test_Snippet_CountsRunes_NotBytes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		content string
		limit   int
		want    string
	}{
		{name: "shorter than limit", content: "short", limit: 200, want: "short"},
		{name: "exactly at limit", content: strings.Repeat("a", 200), limit: 200, want: strings.Repeat("a", 200)},
		{name: "truncated", content: strings.Repeat("ab", 200), limit: 200, want: strings.Repeat("ab", 100)},
		{name: "multi-byte runes preserved", content: strings.Repeat("é", 300), limit: 200, want: strings.Repeat("é", 200)},
		{name: "empty content", content: "", limit: 200, want: ""},
		{name: "zero limit", content: "abc", limit: 0, want: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := pattern.Snippet(tc.content, tc.limit)
			if got != tc.want {
				t.Fatalf("snippet mismatch: got %d bytes, want %d bytes", len(got), len(tc.want))
			}
		})
	}
}
