package encode

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/yamlpath/ir"
	"github.com/signadot/yamlpath/parse"
)

func mustParse(t *testing.T, in string) *ir.Node {
	t.Helper()
	doc, err := parse.Parse([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestEncodeRoundTrip(t *testing.T) {
	for _, in := range []string{
		"count: 3\nratio: 0.5\nflag: true\nnothing: null\nword: hello\n",
		"items:\n  - 1\n  - two\n  - false\n",
		"quoted: \"7\"\nblock: |\n  line one\n  line two\n",
		"defaults: &d\n  retries: 3\nservice:\n  conf: *d\n",
		"base: &base\n  port: 80\nsvc:\n  <<: *base\n  name: web\n",
		"crew: !!set\n  ? alice\n  ? bob\n",
	} {
		doc := mustParse(t, in)
		out := MustString(doc)
		again := mustParse(t, out+"\n")
		if diff := cmp.Diff(doc, again); diff != "" {
			t.Errorf("round trip of %q changed the tree (-before +after):\n%s",
				in, diff)
		}
	}
}

func TestEncodeAliases(t *testing.T) {
	doc := mustParse(t, `
defaults: &d
  retries: 3
service:
  conf: *d
`)
	out := MustString(doc)
	if !strings.Contains(out, "&d") {
		t.Errorf("anchor definition missing from:\n%s", out)
	}
	if !strings.Contains(out, "*d") {
		t.Errorf("alias missing from:\n%s", out)
	}
	if strings.Count(out, "retries") != 1 {
		t.Errorf("shared mapping emitted more than once:\n%s", out)
	}
}

func TestEncodeGeneratesAnchorNames(t *testing.T) {
	shared := ir.FromString("Hello")
	doc := ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("a"), Val: shared},
		{Key: ir.FromString("b"), Val: shared},
	})

	out := MustString(doc)
	if !strings.Contains(out, "&id001") || !strings.Contains(out, "*id001") {
		t.Errorf("shared node did not get a generated anchor:\n%s", out)
	}
}

func TestEncodeGeneratedNamesAvoidCollisions(t *testing.T) {
	taken := ir.FromString("taken").WithAnchor("id001")
	shared := ir.FromString("Hello")
	doc := ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("a"), Val: taken},
		{Key: ir.FromString("b"), Val: shared},
		{Key: ir.FromString("c"), Val: shared},
	})

	out := MustString(doc)
	if !strings.Contains(out, "&id002") {
		t.Errorf("generated name collided with an existing anchor:\n%s", out)
	}
}

func TestEncodeMergeKeys(t *testing.T) {
	doc := mustParse(t, `
base: &base
  port: 80
extra: &extra
  host: web
single:
  <<: *base
  port: 8080
multi:
  <<: [*base, *extra]
`)
	out := MustString(doc)
	if !strings.Contains(out, "<<: *base") {
		t.Errorf("single-source merge key missing from:\n%s", out)
	}
	if !strings.Contains(out, "<<: [*base, *extra]") {
		t.Errorf("multi-source merge key missing from:\n%s", out)
	}
}

func TestEncodeSets(t *testing.T) {
	doc := mustParse(t, "crew: !!set\n  ? alice\n  ? bob\n")
	out := MustString(doc)
	if !strings.Contains(out, "!!set") {
		t.Errorf("set tag missing from:\n%s", out)
	}
	if !strings.Contains(out, "alice") || !strings.Contains(out, "bob") {
		t.Errorf("set members missing from:\n%s", out)
	}
}

func TestEncodeStyles(t *testing.T) {
	doc := mustParse(t, "quoted: \"7\"\nsingle: 'hi'\n")
	out := MustString(doc)
	if !strings.Contains(out, `"7"`) {
		t.Errorf("double-quoted style lost:\n%s", out)
	}
	if !strings.Contains(out, "'hi'") {
		t.Errorf("single-quoted style lost:\n%s", out)
	}
}

func TestEncodeIndent(t *testing.T) {
	doc := mustParse(t, "top:\n  nested: 1\n")
	out := MustString(doc, Indent(4))
	if !strings.Contains(out, "    nested: 1") {
		t.Errorf("indent option ignored:\n%s", out)
	}
}

func TestEncodeComments(t *testing.T) {
	doc := mustParse(t, "key: value # trailing\n")
	out := MustString(doc)
	if !strings.Contains(out, "# trailing") {
		t.Errorf("comment lost:\n%s", out)
	}
	out = MustString(doc, EncodeComments(false))
	if strings.Contains(out, "# trailing") {
		t.Errorf("comment kept with EncodeComments(false):\n%s", out)
	}
}

func TestEncodeNil(t *testing.T) {
	if got := MustString(nil); got != "null" {
		t.Errorf("nil encodes as %q, want %q", got, "null")
	}
}
