package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

func mustParse(t *testing.T, name, src string) *ParsedFile {
	t.Helper()
	f, err := Parse(name, src)
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	t.Cleanup(f.Close)
	return f
}

func TestParse_DialectByExtension(t *testing.T) {
	tests := []struct {
		name string
		want Dialect
	}{
		{"a.jsx", DialectJavaScript},
		{"a.js", DialectJavaScript},
		{"a.tsx", DialectTSX},
		{"a.ts", DialectTypeScript},
		{"tsconfig.json", DialectJSON},
	}
	for _, tt := range tests {
		got, ok := DialectFor(tt.name)
		if !ok || got != tt.want {
			t.Errorf("DialectFor(%q) = %q, %v; want %q", tt.name, got, ok, tt.want)
		}
	}
}

func TestParse_Unsupported(t *testing.T) {
	_, err := Parse("README.md", "# hi")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse("broken.tsx", "const x = <div>{ ;;; </span>\nfunction (")
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("expected *SyntaxError, got %T", err)
	}
	if synErr.Pos.Line < 1 {
		t.Errorf("expected positive line, got %d", synErr.Pos.Line)
	}
}

func TestParse_JSONHasNoTree(t *testing.T) {
	f := mustParse(t, "package.json", `{"name": "x"}`)
	if f.HasTree() {
		t.Error("json files should not carry a syntax tree")
	}
	if !f.Kind.Has(KindPackageManifest) {
		t.Error("expected package manifest kind")
	}
}

func TestVisit_PreOrderRootFirst(t *testing.T) {
	f := mustParse(t, "a.js", "const a = 1;")
	var order []string
	Visit(f.Root, func(n *sitter.Node) bool {
		order = append(order, n.Type())
		return true
	})
	if len(order) == 0 || order[0] != "program" {
		t.Fatalf("expected root first, got %v", order)
	}
	if len(order) != len(f.Nodes) {
		t.Errorf("Nodes (%d) should match a full visit (%d)", len(f.Nodes), len(order))
	}
}

func TestVisit_PruneChildren(t *testing.T) {
	f := mustParse(t, "a.js", "function a() { return 1 }")
	count := 0
	Visit(f.Root, func(n *sitter.Node) bool {
		count++
		return n.Type() != "function_declaration"
	})
	if count != 2 {
		t.Errorf("expected program + function only, visited %d", count)
	}
}

func TestParse_NodeBudgetTruncates(t *testing.T) {
	f, err := New(5).Parse(context.Background(), "a.js", "const a = [1, 2, 3, 4, 5, 6, 7, 8];")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if !f.Truncated || len(f.Nodes) != 5 {
		t.Errorf("expected truncation at 5 nodes, got %d (truncated=%v)", len(f.Nodes), f.Truncated)
	}
}

func TestWalk_SharesFileBudget(t *testing.T) {
	src := "const f = " + strings.Repeat("() => ", 500) + "1;\n"
	f, err := New(10).Parse(context.Background(), "deep.js", src)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	visits := 0
	for i := 0; i < 5; i++ {
		f.Walk(f.Root, func(*sitter.Node) bool {
			visits++
			return true
		})
	}
	if limit := 10 * walkBudgetFactor; visits != limit {
		t.Errorf("walks visited %d nodes, want exactly the budget %d", visits, limit)
	}
	if !f.BudgetExhausted() {
		t.Error("budget should be reported as exhausted")
	}
	deepest := f.Nodes[len(f.Nodes)-1]
	if f.Ancestor(deepest, func(*sitter.Node) bool { return true }) != nil {
		t.Error("ancestor search should stop once the budget is spent")
	}
	if found := f.FindIn(f.Root, func(*sitter.Node) bool { return true }); len(found) != 0 {
		t.Errorf("FindIn after exhaustion returned %d nodes", len(found))
	}
}

func TestParent_MatchesTree(t *testing.T) {
	f := mustParse(t, "a.js", "function a() { if (x) { return <div /> } }")
	for _, n := range f.Nodes[1:] {
		if !SameNode(f.Parent(n), n.Parent()) {
			t.Fatalf("cached parent of %s differs from tree parent", n.Type())
		}
	}
	if f.Parent(f.Root) != nil {
		t.Error("root has no parent")
	}
	ret := f.NodesOfType("return_statement")[0]
	if fn := f.EnclosingFunction(ret); fn == nil || fn.Type() != "function_declaration" {
		t.Errorf("EnclosingFunction = %v", fn)
	}
}

func TestPositionOf(t *testing.T) {
	f := mustParse(t, "a.js", "const a = 1;\nconst é = 'ü'; let b")
	tests := []struct {
		offset int
		want   Position
	}{
		{0, Position{1, 1}},
		{6, Position{1, 7}},
		{13, Position{2, 1}},
		// "const é = 'ü'; " is 15 runes but 17 bytes
		{13 + 17, Position{2, 16}},
	}
	for _, tt := range tests {
		if got := f.PositionOf(tt.offset); got != tt.want {
			t.Errorf("PositionOf(%d) = %+v, want %+v", tt.offset, got, tt.want)
		}
	}
}

func TestIsComponentLike(t *testing.T) {
	src := `
function Card() { return <div>hi</div> }
const helper = (x) => x * 2;
const List = ({ items }) => items.map((i) => <li>{i}</li>);
function Typed(): JSX.Element { return null as any }
`
	f := mustParse(t, "a.tsx", src)
	var names []string
	for _, fn := range f.Components() {
		names = append(names, f.FunctionName(fn))
	}
	// the map callback returns JSX directly, so it is component-shaped on its own
	want := map[string]bool{"Card": true, "anonymous": true, "Typed": true}
	for _, n := range names {
		if !want[n] {
			t.Errorf("unexpected component %q (all: %v)", n, names)
		}
		delete(want, n)
	}
	for n := range want {
		t.Errorf("component %q not detected (got %v)", n, names)
	}
}

func TestIsHookCall(t *testing.T) {
	f := mustParse(t, "a.jsx", "useState(1); React.useEffect(() => {}); user(); use2D(); useful();")
	got := map[string]bool{}
	for _, call := range f.NodesOfType("call_expression") {
		got[f.CalleeName(call)] = f.IsHookCall(call)
	}
	want := map[string]bool{"useState": true, "useEffect": true, "user": false, "use2D": true, "useful": false}
	for name, w := range want {
		if got[name] != w {
			t.Errorf("IsHookCall(%s) = %v, want %v", name, got[name], w)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		flag Kind
		want bool
	}{
		{"src/app/page.tsx", KindRouteEntry, true},
		{"src/app/dashboard/layout.tsx", KindRouteEntry, true},
		{"src/app/dashboard/Chart.tsx", KindRouteEntry, false},
		{"src/app/dashboard/Chart.tsx", KindAppRouter, true},
		{"pages/index.jsx", KindRouteEntry, true},
		{"src/Button.test.tsx", KindTest, true},
		{"src/__tests__/util.js", KindTest, true},
		{"next.config.js", KindFrameworkConfig, true},
		{"vite.config.ts", KindToolConfig, true},
		{"tsconfig.json", KindTSConfig, true},
		{"tsconfig.build.json", KindTSConfig, true},
		{"src/Button.tsx", KindTest, false},
	}
	for _, tt := range tests {
		if got := Classify(tt.name).Has(tt.flag); got != tt.want {
			t.Errorf("Classify(%q).Has(%d) = %v, want %v", tt.name, tt.flag, got, tt.want)
		}
	}
}
