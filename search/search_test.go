package search

import (
	"testing"

	"github.com/signadot/yamlpath/ir"
	"github.com/signadot/yamlpath/path"
)

func TestMatchesNumeric(t *testing.T) {
	tests := []struct {
		name     string
		method   path.SearchMethod
		needle   string
		haystack *ir.Node
		want     bool
	}{
		{"int equals", path.EqualsMethod, "42", ir.FromInt(42), true},
		{"int not equals", path.EqualsMethod, "41", ir.FromInt(42), false},
		{"int vs junk needle", path.EqualsMethod, "forty", ir.FromInt(42), false},
		{"int greater", path.GreaterThanMethod, "9000", ir.FromInt(9001), true},
		{"int lte", path.LessThanOrEqualMethod, "42", ir.FromInt(42), true},
		{"float equals", path.EqualsMethod, "3.14", ir.FromFloat(3.14), true},
		{"float less", path.LessThanMethod, "4", ir.FromFloat(3.14), true},
		{"float vs junk needle", path.GreaterThanMethod, "pi", ir.FromFloat(3.14), false},
		{"number starts-with is textual", path.StartsWithMethod, "42", ir.FromInt(421), true},
		{"number contains is textual", path.ContainsMethod, ".1", ir.FromFloat(3.14), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Matches(tt.method, tt.needle, tt.haystack)
			if err != nil {
				t.Fatalf("Matches(): %v", err)
			}
			if got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesString(t *testing.T) {
	tests := []struct {
		name     string
		method   path.SearchMethod
		needle   string
		haystack string
		want     bool
	}{
		{"equals", path.EqualsMethod, "abc", "abc", true},
		{"starts", path.StartsWithMethod, "ab", "abc", true},
		{"ends", path.EndsWithMethod, "bc", "abc", true},
		{"contains", path.ContainsMethod, "b", "abc", true},
		{"lexical greater", path.GreaterThanMethod, "abc", "abd", true},
		{"lexical less", path.LessThanMethod, "abd", "abc", true},
		{"regex substring", path.RegexMethod, "b+c", "xabbcz", true},
		{"regex no match", path.RegexMethod, "^z", "xabbcz", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchesString(tt.method, tt.needle, tt.haystack)
			if err != nil {
				t.Fatalf("MatchesString(): %v", err)
			}
			if got != tt.want {
				t.Errorf("MatchesString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatchesBadRegex(t *testing.T) {
	if _, err := MatchesString(path.RegexMethod, "(", "abc"); err == nil {
		t.Error("MatchesString with invalid pattern succeeded, want error")
	}
}

func TestMatchAnchor(t *testing.T) {
	terms := &path.SearchTerms{
		Method:    path.EqualsMethod,
		Attribute: ".",
		Term:      "keeper",
	}
	anchored := ir.FromString("x").WithAnchor("keeper")
	other := ir.FromString("y").WithAnchor("other")
	plain := ir.FromString("z")

	seen := map[string]bool{}
	if m, _ := MatchAnchor(plain, terms, seen, true, false); m != NoAnchor {
		t.Errorf("plain node = %s, want %s", m, NoAnchor)
	}
	if m, _ := MatchAnchor(anchored, terms, seen, true, false); m != Match {
		t.Errorf("first sighting = %s, want %s", m, Match)
	}
	if m, _ := MatchAnchor(anchored, terms, seen, true, false); m != AliasExcluded {
		t.Errorf("second sighting = %s, want %s", m, AliasExcluded)
	}
	if m, _ := MatchAnchor(anchored, terms, seen, true, true); m != AliasIncluded {
		t.Errorf("second sighting with aliases = %s, want %s", m, AliasIncluded)
	}
	if m, _ := MatchAnchor(other, terms, seen, true, false); m != NoMatch {
		t.Errorf("non-matching anchor = %s, want %s", m, NoMatch)
	}

	seen = map[string]bool{}
	if m, _ := MatchAnchor(anchored, terms, seen, false, false); m != UnsearchableAnchor {
		t.Errorf("unsearchable first = %s, want %s", m, UnsearchableAnchor)
	}
	if m, _ := MatchAnchor(anchored, terms, seen, false, false); m != UnsearchableAlias {
		t.Errorf("unsearchable alias = %s, want %s", m, UnsearchableAlias)
	}

	inverted := &path.SearchTerms{
		Inverted:  true,
		Method:    path.EqualsMethod,
		Attribute: ".",
		Term:      "keeper",
	}
	seen = map[string]bool{}
	if m, _ := MatchAnchor(anchored, inverted, seen, true, false); m != NoMatch {
		t.Errorf("inverted match = %s, want %s", m, NoMatch)
	}
	if m, _ := MatchAnchor(other, inverted, seen, true, false); m != Match {
		t.Errorf("inverted non-match = %s, want %s", m, Match)
	}
}
