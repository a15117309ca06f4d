package yamlpath

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/yamlpath/parse"
	"github.com/signadot/yamlpath/path"
)

const accountsDoc = `---
aliases:
  - &adminUser admin
  - &adminPass 1234567890abcdef
accounts:
  admin:
    username: *adminUser
    password: *adminPass
    locked: false
  guest:
    username: guest
    password: guest
    locked: true
`

const warriorsDoc = `---
warriors:
  - name: Goku
    power_level: 9001
    style: turtle
  - name: Krillin
    power_level: 5000
    style: turtle
  - name: Piccolo
    power_level: 8200
    style: demon
`

const mergedDoc = `---
anchored_hash: &core
  retries: 3
  timeout: 30
service_one:
  <<: *core
  timeout: 60
`

func docOf(t *testing.T, text string) *Processor {
	t.Helper()
	node, err := parse.Parse([]byte(text))
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}
	return NewProcessor(node)
}

func values(
	t *testing.T, pr *Processor, expr string, options ...Option,
) []string {
	t.Helper()
	var out []string
	for nc, err := range pr.GetNodes(path.New(expr), options...) {
		if err != nil {
			t.Fatalf("GetNodes(%q): %v", expr, err)
		}
		if nc.IsVirtual() {
			for _, sub := range nc.Virtual {
				out = append(out, sub.Unwrap().Scalar())
			}
			continue
		}
		out = append(out, nc.Unwrap().Scalar())
	}
	return out
}

func translated(
	t *testing.T, pr *Processor, expr string, options ...Option,
) []string {
	t.Helper()
	var out []string
	for nc, err := range pr.GetNodes(path.New(expr), options...) {
		if err != nil {
			t.Fatalf("GetNodes(%q): %v", expr, err)
		}
		out = append(out, nc.String())
	}
	return out
}

func firstErr(
	t *testing.T, pr *Processor, expr string, options ...Option,
) error {
	t.Helper()
	for _, err := range pr.GetNodes(path.New(expr), options...) {
		if err != nil {
			return err
		}
	}
	return nil
}

func TestGetNodesByKey(t *testing.T) {
	pr := docOf(t, accountsDoc)
	tests := []struct {
		expr string
		want []string
	}{
		{"accounts.admin.username", []string{"admin"}},
		{"/accounts/guest/password", []string{"guest"}},
		{"aliases[0]", []string{"admin"}},
		{"aliases.1", []string{"1234567890abcdef"}},
		{"aliases[-1]", []string{"1234567890abcdef"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := values(t, pr, tt.expr, MustExist())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetNodesTranslatedPaths(t *testing.T) {
	pr := docOf(t, accountsDoc)
	got := translated(t, pr, "/accounts/*/username", MustExist())
	want := []string{"accounts.admin.username", "accounts.guest.username"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("translated paths mismatch (-want +got):\n%s", diff)
	}
}

func TestGetNodesMustExist(t *testing.T) {
	pr := docOf(t, accountsDoc)
	err := firstErr(t, pr, "accounts.nobody.username", MustExist())
	if err == nil {
		t.Fatal("expected an error for a missing required path")
	}
	var rerr *ResolutionError
	if !errors.As(err, &rerr) {
		t.Fatalf("error type = %T, want *ResolutionError", err)
	}
}

func TestGetNodesSearch(t *testing.T) {
	pr := docOf(t, warriorsDoc)
	tests := []struct {
		expr string
		want []string
	}{
		{"warriors[power_level>9000].name", []string{"Goku"}},
		{"warriors[power_level<=5000].name", []string{"Krillin"}},
		{"warriors[name^K].power_level", []string{"5000"}},
		{"warriors[!style=turtle].name", []string{"Piccolo"}},
		{`warriors[name=~/llin$/].name`, []string{"Krillin"}},
		{"warriors[style%urt].name", []string{"Goku", "Krillin"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := values(t, pr, tt.expr, MustExist())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetNodesSearchOwnValue(t *testing.T) {
	pr := docOf(t, accountsDoc)

	got := values(t, pr, "aliases[.^admin]", MustExist())
	if diff := cmp.Diff([]string{"admin"}, got); diff != "" {
		t.Errorf("list own-value search (-want +got):\n%s", diff)
	}

	got = values(t, pr, "accounts[.=guest].username", MustExist())
	if diff := cmp.Diff([]string{"guest"}, got); diff != "" {
		t.Errorf("key-name search (-want +got):\n%s", diff)
	}
}

func TestGetNodesDescendantSearch(t *testing.T) {
	pr := docOf(t, accountsDoc)
	got := values(t, pr, "accounts[admin.locked=false].admin.username",
		MustExist())
	if diff := cmp.Diff([]string{"admin"}, got); diff != "" {
		t.Errorf("descendant search (-want +got):\n%s", diff)
	}
}

func TestGetNodesMatchAll(t *testing.T) {
	pr := docOf(t, warriorsDoc)

	got := values(t, pr, "warriors.*.name", MustExist())
	want := []string{"Goku", "Krillin", "Piccolo"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("filtered match-all (-want +got):\n%s", diff)
	}

	acc := docOf(t, accountsDoc)
	got = values(t, acc, "accounts.admin.*", MustExist())
	want = []string{"admin", "1234567890abcdef", "false"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unfiltered match-all (-want +got):\n%s", diff)
	}
}

func TestGetNodesSplats(t *testing.T) {
	pr := docOf(t, accountsDoc)

	got := values(t, pr, "accounts.g*.username", MustExist())
	if diff := cmp.Diff([]string{"guest"}, got); diff != "" {
		t.Errorf("starts-with splat (-want +got):\n%s", diff)
	}

	got = values(t, pr, "accounts.*min.username", MustExist())
	if diff := cmp.Diff([]string{"admin"}, got); diff != "" {
		t.Errorf("ends-with splat (-want +got):\n%s", diff)
	}

	got = values(t, pr, "accounts.a*n.username", MustExist())
	if diff := cmp.Diff([]string{"admin"}, got); diff != "" {
		t.Errorf("contains splat (-want +got):\n%s", diff)
	}
}

func TestGetNodesTraverse(t *testing.T) {
	pr := docOf(t, warriorsDoc)

	got := values(t, pr, "**.power_level", MustExist())
	want := []string{"9001", "5000", "8200"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("deep traversal (-want +got):\n%s", diff)
	}

	got = values(t, pr, "warriors[0].**", MustExist())
	want = []string{"Goku", "9001", "turtle"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("leaf traversal (-want +got):\n%s", diff)
	}
}

func TestGetNodesCollectors(t *testing.T) {
	pr := docOf(t, warriorsDoc)
	tests := []struct {
		expr string
		want []string
	}{
		{"(warriors.*.name)", []string{"Goku", "Krillin", "Piccolo"}},
		{"(warriors.*.name)[1]", []string{"Krillin"}},
		{"(warriors[0].name)+(warriors[2].name)",
			[]string{"Goku", "Piccolo"}},
		{"(warriors.*.name)-(warriors[name=Krillin].name)",
			[]string{"Goku", "Piccolo"}},
		// A single array result flattens into its elements.
		{"(warriors)[0].name", []string{"Goku"}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got := values(t, pr, tt.expr, MustExist())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGetNodesAnchors(t *testing.T) {
	pr := docOf(t, mergedDoc)

	got := values(t, pr, "[&core].retries", MustExist())
	if diff := cmp.Diff([]string{"3"}, got); diff != "" {
		t.Errorf("anchor lookup (-want +got):\n%s", diff)
	}

	got = values(t, pr, "&core.timeout", MustExist())
	if diff := cmp.Diff([]string{"30"}, got); diff != "" {
		t.Errorf("bare anchor lookup (-want +got):\n%s", diff)
	}

	got = values(t, pr, "service_one[&core].retries", MustExist())
	if diff := cmp.Diff([]string{"3"}, got); diff != "" {
		t.Errorf("merge-ref anchor lookup (-want +got):\n%s", diff)
	}
}

func TestGetNodesAnchorsIncludeAliases(t *testing.T) {
	pr := docOf(t, `---
aliases:
  - &x Hello
  - *x
greeting: *x
`)
	// Both the defining occurrence and the in-sequence alias resolve.
	got := values(t, pr, "aliases[&x]", MustExist())
	if diff := cmp.Diff([]string{"Hello", "Hello"}, got); diff != "" {
		t.Errorf("anchor occurrences (-want +got):\n%s", diff)
	}
}

func TestSetValueThroughScalarAnchor(t *testing.T) {
	pr := docOf(t, `---
aliases:
  - &x Hello
greeting: *x
`)
	if err := pr.SetValue(path.New("aliases[&x]"), "Hi"); err != nil {
		t.Fatalf("SetValue(): %v", err)
	}
	got := values(t, pr, "aliases[0]", MustExist())
	if diff := cmp.Diff([]string{"Hi"}, got); diff != "" {
		t.Errorf("anchored value (-want +got):\n%s", diff)
	}
	got = values(t, pr, "greeting", MustExist())
	if diff := cmp.Diff([]string{"Hi"}, got); diff != "" {
		t.Errorf("aliased value (-want +got):\n%s", diff)
	}
}

func TestGetNodesMergeKeys(t *testing.T) {
	pr := docOf(t, mergedDoc)

	got := values(t, pr, "service_one.retries", MustExist())
	if diff := cmp.Diff([]string{"3"}, got); diff != "" {
		t.Errorf("merge-inherited key (-want +got):\n%s", diff)
	}

	got = values(t, pr, "service_one.timeout", MustExist())
	if diff := cmp.Diff([]string{"60"}, got); diff != "" {
		t.Errorf("local override (-want +got):\n%s", diff)
	}
}

func TestGetNodesSlices(t *testing.T) {
	pr := docOf(t, warriorsDoc)
	got := values(t, pr, "warriors[0:2].name", MustExist())
	if diff := cmp.Diff([]string{"Goku", "Krillin"}, got); diff != "" {
		t.Errorf("array slice (-want +got):\n%s", diff)
	}

	acc := docOf(t, accountsDoc)
	got = values(t, acc, "accounts[admin:guest].username", MustExist())
	if diff := cmp.Diff([]string{"admin", "guest"}, got); diff != "" {
		t.Errorf("lexical map slice (-want +got):\n%s", diff)
	}
}

func TestGetNodesSetIndexError(t *testing.T) {
	pr := docOf(t, "ports: !!set\n  ? 80\n  ? 443\n")
	if err := firstErr(t, pr, "ports[0]", MustExist()); err == nil {
		t.Fatal("expected an error indexing a set")
	}
}

func TestGetNodesCreateOnDemand(t *testing.T) {
	pr := docOf(t, "a:\n  b: 1\n")
	got := values(t, pr, "a.c", WithDefault("x"))
	if diff := cmp.Diff([]string{"x"}, got); diff != "" {
		t.Errorf("created node (-want +got):\n%s", diff)
	}
	got = values(t, pr, "a.c", MustExist())
	if diff := cmp.Diff([]string{"x"}, got); diff != "" {
		t.Errorf("created node persisted (-want +got):\n%s", diff)
	}
}

func TestGetNodesCreateExtendsArrays(t *testing.T) {
	pr := docOf(t, "arr:\n  - 0\n")
	values(t, pr, "arr[3]", WithDefault(int64(9)))
	got := values(t, pr, "arr.*", MustExist())
	if diff := cmp.Diff([]string{"0", "9", "9", "9"}, got); diff != "" {
		t.Errorf("extended array (-want +got):\n%s", diff)
	}
}

func TestGetNodesCreateSetMember(t *testing.T) {
	pr := docOf(t, "ports: !!set\n  ? 80\n")
	values(t, pr, "ports.8080", WithDefault(nil))
	got := values(t, pr, "ports[.=8080]", MustExist())
	if diff := cmp.Diff([]string{"8080"}, got); diff != "" {
		t.Errorf("set member (-want +got):\n%s", diff)
	}
}

func TestGetNodesCreateAnchorKeyError(t *testing.T) {
	pr := docOf(t, "a:\n  b: 1\n")
	if err := firstErr(t, pr, "a[&x]", WithDefault("v")); err == nil {
		t.Fatal("expected an error adding an anchor key to a map")
	}
}

func TestSetValueScalar(t *testing.T) {
	pr := docOf(t, accountsDoc)
	if err := pr.SetValue(
		path.New("accounts.admin.password"), "newpass"); err != nil {
		t.Fatalf("SetValue(): %v", err)
	}
	got := values(t, pr, "accounts.admin.password", MustExist())
	if diff := cmp.Diff([]string{"newpass"}, got); diff != "" {
		t.Errorf("updated value (-want +got):\n%s", diff)
	}
	// The password is aliased; its anchor location updates too.
	got = values(t, pr, "aliases[1]", MustExist())
	if diff := cmp.Diff([]string{"newpass"}, got); diff != "" {
		t.Errorf("aliased value (-want +got):\n%s", diff)
	}
}

func TestSetValueMustExist(t *testing.T) {
	pr := docOf(t, accountsDoc)
	err := pr.SetValue(
		path.New("accounts.nobody.password"), "x", MustExist())
	if err == nil {
		t.Fatal("expected an error for a missing required path")
	}
}

func TestSetValueCreates(t *testing.T) {
	pr := docOf(t, accountsDoc)
	if err := pr.SetValue(
		path.New("accounts.admin.role"), "superuser"); err != nil {
		t.Fatalf("SetValue(): %v", err)
	}
	got := values(t, pr, "accounts.admin.role", MustExist())
	if diff := cmp.Diff([]string{"superuser"}, got); diff != "" {
		t.Errorf("created value (-want +got):\n%s", diff)
	}
}

func TestSetValueRenamesKeys(t *testing.T) {
	pr := docOf(t, accountsDoc)
	if err := pr.SetValue(
		path.New("accounts.admin.username[name()]"), "user"); err != nil {
		t.Fatalf("SetValue(): %v", err)
	}
	got := values(t, pr, "accounts.admin.user", MustExist())
	if diff := cmp.Diff([]string{"admin"}, got); diff != "" {
		t.Errorf("renamed key's value (-want +got):\n%s", diff)
	}
	if err := firstErr(
		t, pr, "accounts.admin.username", MustExist()); err == nil {
		t.Error("old key still resolves after rename")
	}

	// Renaming onto an existing key must fail.
	err := pr.SetValue(
		path.New("accounts.admin.user[name()]"), "password")
	if err == nil {
		t.Fatal("expected an error renaming onto an existing key")
	}
}

func TestSetValueWithTag(t *testing.T) {
	pr := docOf(t, accountsDoc)
	if err := pr.SetValue(
		path.New("accounts.admin.locked"), "true",
		WithTag("!!str")); err != nil {
		t.Fatalf("SetValue(): %v", err)
	}
	gathered, err := pr.GatherNodes(
		path.New("accounts.admin.locked"), MustExist())
	if err != nil {
		t.Fatalf("GatherNodes(): %v", err)
	}
	if len(gathered) != 1 || gathered[0].Node.Tag != "!!str" {
		t.Errorf("tag not applied: %+v", gathered)
	}
}

func TestDeleteNodes(t *testing.T) {
	pr := docOf(t, warriorsDoc)
	deleted, err := pr.DeleteNodes(path.New("warriors[1]"))
	if err != nil {
		t.Fatalf("DeleteNodes(): %v", err)
	}
	if len(deleted) != 1 {
		t.Fatalf("deleted %d nodes, want 1", len(deleted))
	}
	got := values(t, pr, "warriors.*.name", MustExist())
	if diff := cmp.Diff([]string{"Goku", "Piccolo"}, got); diff != "" {
		t.Errorf("remaining names (-want +got):\n%s", diff)
	}
}

func TestDeleteNodesAllMatches(t *testing.T) {
	pr := docOf(t, warriorsDoc)
	if _, err := pr.DeleteNodes(path.New("warriors.*")); err != nil {
		t.Fatalf("DeleteNodes(): %v", err)
	}
	gathered, err := pr.GatherNodes(path.New("warriors"), MustExist())
	if err != nil {
		t.Fatalf("GatherNodes(): %v", err)
	}
	if n := len(gathered[0].Node.Values); n != 0 {
		t.Errorf("warriors still has %d elements", n)
	}
}

func TestDeleteNodesRefusesRoot(t *testing.T) {
	pr := docOf(t, accountsDoc)
	if _, err := pr.DeleteNodes(path.New("")); err == nil {
		t.Fatal("expected an error deleting the document root")
	}
}

func TestDeleteNodesMergeRef(t *testing.T) {
	pr := docOf(t, mergedDoc)
	if _, err := pr.DeleteNodes(
		path.New("service_one[&core]")); err != nil {
		t.Fatalf("DeleteNodes(): %v", err)
	}
	// The merge reference is gone; the anchored data is not.
	if err := firstErr(
		t, pr, "service_one.retries", MustExist()); err == nil {
		t.Error("merge-inherited key still resolves")
	}
	got := values(t, pr, "anchored_hash.retries", MustExist())
	if diff := cmp.Diff([]string{"3"}, got); diff != "" {
		t.Errorf("anchored data (-want +got):\n%s", diff)
	}
}

func TestTagNodes(t *testing.T) {
	pr := docOf(t, accountsDoc)
	tagged, err := pr.TagNodes(
		path.New("accounts.admin.password"), "!!str")
	if err != nil {
		t.Fatalf("TagNodes(): %v", err)
	}
	if len(tagged) != 1 || tagged[0].Node.Tag != "!!str" {
		t.Errorf("tag not applied: %+v", tagged)
	}
}

func TestAliasNodes(t *testing.T) {
	pr := docOf(t, "a:\n  key: value\nb:\n  key: other\n")
	if err := pr.AliasNodes(
		path.New("b.key"), path.New("a.key")); err != nil {
		t.Fatalf("AliasNodes(): %v", err)
	}
	got := values(t, pr, "b.key", MustExist())
	if diff := cmp.Diff([]string{"value"}, got); diff != "" {
		t.Errorf("aliased value (-want +got):\n%s", diff)
	}

	// Both locations share one node now.
	if err := pr.SetValue(path.New("a.key"), "changed"); err != nil {
		t.Fatalf("SetValue(): %v", err)
	}
	got = values(t, pr, "b.key", MustExist())
	if diff := cmp.Diff([]string{"changed"}, got); diff != "" {
		t.Errorf("write-through value (-want +got):\n%s", diff)
	}
}

func TestAliasNodesWithAnchorName(t *testing.T) {
	pr := docOf(t, "a:\n  key: value\nb:\n  key: other\n")
	if err := pr.AliasNodes(
		path.New("b.key"), path.New("a.key"),
		WithAnchorName("shared")); err != nil {
		t.Fatalf("AliasNodes(): %v", err)
	}
	gathered, err := pr.GatherNodes(path.New("a.key"), MustExist())
	if err != nil {
		t.Fatalf("GatherNodes(): %v", err)
	}
	if gathered[0].Node.Anchor != "shared" {
		t.Errorf("anchor = %q, want %q", gathered[0].Node.Anchor, "shared")
	}
}

func TestMergeKeyNodes(t *testing.T) {
	pr := docOf(t, "base:\n  x: 1\ntarget:\n  y: 2\n")
	if err := pr.MergeKeyNodes(
		path.New("target"), path.New("base")); err != nil {
		t.Fatalf("MergeKeyNodes(): %v", err)
	}
	got := values(t, pr, "target.x", MustExist())
	if diff := cmp.Diff([]string{"1"}, got); diff != "" {
		t.Errorf("merge-inherited key (-want +got):\n%s", diff)
	}
	got = values(t, pr, "target.y", MustExist())
	if diff := cmp.Diff([]string{"2"}, got); diff != "" {
		t.Errorf("local key (-want +got):\n%s", diff)
	}

	err := pr.MergeKeyNodes(path.New("target.y"), path.New("base"))
	if err == nil {
		t.Fatal("expected an error merging into a scalar")
	}
}
