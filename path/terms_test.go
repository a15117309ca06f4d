package path

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestKeywordParams(t *testing.T) {
	tests := []struct {
		name       string
		parameters string
		want       []string
		wantErr    bool
	}{
		{"single", "abc", []string{"abc"}, false},
		{"two", "abc,def", []string{"abc", "def"}, false},
		{"spaces stripped", " abc , def ", []string{"abc", "def"}, false},
		{"quoted comma", `"a,b",c`, []string{"a,b", "c"}, false},
		{"quoted spaces kept", "' a b ',c", []string{" a b ", "c"}, false},
		{"escaped comma", `a\,b,c`, []string{"a,b", "c"}, false},
		{"nested quotes", `"it's",x`, []string{"it's", "x"}, false},
		{"empty", "", nil, false},
		{"unmatched quote", `"abc`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kt := &SearchKeywordTerms{
				Keyword:    HasChildKeyword,
				Parameters: tt.parameters,
			}
			got, err := kt.Params()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Params() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("Params() mismatch (-want +got):\n%s", d)
			}

			// Repeated calls serve the cached split.
			again, err := kt.Params()
			if err != nil {
				t.Fatalf("cached Params(): %v", err)
			}
			if d := cmp.Diff(got, again); d != "" {
				t.Errorf("cached Params() mismatch (-first +second):\n%s", d)
			}
		})
	}
}

func TestSearchTermsString(t *testing.T) {
	tests := []struct {
		name string
		st   SearchTerms
		want string
	}{
		{"equals",
			SearchTerms{Method: EqualsMethod, Attribute: "id", Term: "2"},
			"[id=2]"},
		{"inverted contains",
			SearchTerms{
				Inverted: true, Method: ContainsMethod,
				Attribute: "name", Term: "bad",
			},
			"[name!%bad]"},
		{"regex delimiters",
			SearchTerms{
				Method: RegexMethod, Attribute: "name", Term: "a/b",
			},
			`[name=~/a\/b/]`},
		{"space in term",
			SearchTerms{
				Method: EqualsMethod, Attribute: "name", Term: "two words",
			},
			`[name=two\ words]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.st.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeywordTermsString(t *testing.T) {
	kt := &SearchKeywordTerms{
		Inverted:   true,
		Keyword:    HasChildKeyword,
		Parameters: "a,b",
	}
	if got := kt.String(); got != "[!has_child(a,b)]" {
		t.Errorf("String() = %q, want %q", got, "[!has_child(a,b)]")
	}
}

func TestParseKeyword(t *testing.T) {
	for _, name := range Keywords() {
		k, ok := ParseKeyword(name)
		if !ok {
			t.Errorf("ParseKeyword(%q) not found", name)
			continue
		}
		if k.String() != name {
			t.Errorf("ParseKeyword(%q).String() = %q", name, k.String())
		}
	}
	if _, ok := ParseKeyword("bogus"); ok {
		t.Error(`ParseKeyword("bogus") found, want not found`)
	}
}
