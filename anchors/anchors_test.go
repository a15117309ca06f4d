package anchors

import (
	"testing"

	"github.com/signadot/yamlpath/ir"
)

func testDoc() (*ir.Node, *ir.Node) {
	shared := ir.FromString("Hello")
	shared.Anchor = "x"
	doc := ir.FromMap(map[string]*ir.Node{
		"aliases":  ir.FromSlice([]*ir.Node{shared}),
		"greeting": shared,
	})
	return doc, shared
}

func TestScan(t *testing.T) {
	doc, shared := testDoc()
	got := Scan(doc)
	if len(got) != 1 {
		t.Fatalf("Scan found %d anchors, want 1", len(got))
	}
	if got["x"] != shared {
		t.Errorf("Scan[x] is not the defining node")
	}
}

func TestScanLastDefinitionWins(t *testing.T) {
	first := ir.FromString("one")
	first.Anchor = "dup"
	second := ir.FromString("two")
	second.Anchor = "dup"
	doc := ir.FromSlice([]*ir.Node{first, second})

	got := Scan(doc)
	if got["dup"] != second {
		t.Errorf("Scan[dup] = %q, want later definition", got["dup"].Scalar())
	}
}

func TestReplaceRewritesAllLocations(t *testing.T) {
	doc, shared := testDoc()
	repl := ir.FromString("Hi")
	repl.Anchor = shared.Anchor

	Replace(doc, shared, repl)

	aliases := ir.Get(doc, "aliases")
	if aliases.Values[0] != repl {
		t.Errorf("sequence slot still holds the old node")
	}
	if ir.Get(doc, "greeting") != repl {
		t.Errorf("alias slot still holds the old node")
	}
}

func TestReplaceMergeRef(t *testing.T) {
	base := ir.FromMap(map[string]*ir.Node{"port": ir.FromInt(80)})
	base.Anchor = "defaults"
	owner := ir.FromMap(map[string]*ir.Node{})
	owner.Merge = []*ir.Node{base}
	doc := ir.FromMap(map[string]*ir.Node{
		"defaults": base,
		"server":   owner,
	})

	repl := base.Clone()
	Replace(doc, base, repl)
	if owner.Merge[0] != repl {
		t.Errorf("merge directive still references the old node")
	}
}

func TestGenerateUniqueName(t *testing.T) {
	doc, _ := testDoc()
	tests := []struct {
		name     string
		basename string
		want     string
	}{
		{"free basename", "greeting", "greeting"},
		{"taken basename", "x", "x001"},
		{"no basename", "", "id001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateUniqueName(doc, tt.basename, nil)
			if got != tt.want {
				t.Errorf("GenerateUniqueName(%q) = %q, want %q",
					tt.basename, got, tt.want)
			}
		})
	}
}

func TestRename(t *testing.T) {
	doc, shared := testDoc()
	Rename(doc, "x", "y")
	if shared.Anchor != "y" {
		t.Errorf("anchor = %q, want %q", shared.Anchor, "y")
	}
}
