package rules

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

func parse(t *testing.T, name, src string) *parser.ParsedFile {
	t.Helper()
	f, err := parser.Parse(name, src)
	if err != nil {
		t.Fatalf("parse %s: %v", name, err)
	}
	t.Cleanup(f.Close)
	return f
}

func ofType(issues []types.Issue, issueType string) []types.Issue {
	var out []types.Issue
	for _, issue := range issues {
		if issue.Type == issueType {
			out = append(out, issue)
		}
	}
	return out
}

func checkFile(t *testing.T, name, src string) []types.Issue {
	t.Helper()
	return NewEngine(config.Default()).CheckFile(parse(t, name, src))
}

func expectCount(t *testing.T, issues []types.Issue, issueType string, want int) []types.Issue {
	t.Helper()
	got := ofType(issues, issueType)
	if len(got) != want {
		t.Errorf("expected %d %s issue(s), got %d: %+v", want, issueType, len(got), got)
	}
	return got
}

func TestEntityCorruption_SingleQuotEntity(t *testing.T) {
	issues := checkFile(t, "a.js", "const label = \"Say &quot;hi\";\n")
	got := expectCount(t, issues, "corruption", 1)
	if len(got) == 0 {
		return
	}
	if got[0].Suggestion != `"` {
		t.Errorf("suggestion = %q, want the bare literal", got[0].Suggestion)
	}
	if !strings.Contains(got[0].Example, `"Say "hi"`) {
		t.Errorf("example should show the replaced line, got %q", got[0].Example)
	}
	if got[0].Line != 1 || got[0].Layer != 2 {
		t.Errorf("unexpected position/layer: %+v", got[0])
	}
	if lit, ok := EntityLiteral("&quot;"); !ok || lit != `"` {
		t.Errorf("EntityLiteral(&quot;) = %q, %v", lit, ok)
	}
}

func TestEntityCorruption_EveryOccurrence(t *testing.T) {
	issues := checkFile(t, "a.jsx", "const a = <p>Tom &amp; Jerry &copy; 2024 &hellip;</p>;\n")
	expectCount(t, issues, "corruption", 3)
}

func functionWithIfs(n int) string {
	var b strings.Builder
	b.WriteString("function branchy(x) {\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "  if (x > %d) { x += 1 }\n", i)
	}
	b.WriteString("  return x\n}\n")
	return b.String()
}

func TestCyclomaticComplexity_Boundaries(t *testing.T) {
	rule := NewCyclomaticComplexityRule(10, 15)
	tests := []struct {
		ifs      int
		wantType string
	}{
		// 복잡도 = 1 + 분기 수
		{9, ""},
		{10, "moderate-complexity"},
		{14, "moderate-complexity"},
		{15, "high-complexity"},
	}
	for _, tt := range tests {
		issues := rule.Check(parse(t, "a.js", functionWithIfs(tt.ifs)))
		if tt.wantType == "" {
			if len(issues) != 0 {
				t.Errorf("%d ifs: expected no issues, got %+v", tt.ifs, issues)
			}
			continue
		}
		if len(issues) != 1 || issues[0].Type != tt.wantType {
			t.Errorf("%d ifs: expected one %s, got %+v", tt.ifs, tt.wantType, issues)
			continue
		}
		wantSeverity := config.SeverityWarning
		if tt.wantType == "high-complexity" {
			wantSeverity = config.SeverityError
		}
		if issues[0].Severity != wantSeverity {
			t.Errorf("%d ifs: severity %s, want %s", tt.ifs, issues[0].Severity, wantSeverity)
		}
	}
}

func TestCyclomatic_CountsEveryBranchKind(t *testing.T) {
	src := `function f(x) {
  for (const a of x) {}
  while (x) {}
  do {} while (x)
  try {} catch (e) {}
  switch (x) { case 1: break; case 2: break; default: }
  return x ? 1 : 2
}`
	f := parse(t, "a.js", src)
	fn := f.NodesOfType("function_declaration")[0]
	// 1 + for + while + do + catch + switch + 2 case + ternary
	if got := cyclomatic(f, fn, false); got != 9 {
		t.Errorf("cyclomatic = %d, want 9", got)
	}
	g := parse(t, "b.js", "function g(a, b) { return a && b || a }")
	if got := cyclomatic(g, g.NodesOfType("function_declaration")[0], true); got != 3 {
		t.Errorf("strict cyclomatic = %d, want 3", got)
	}
}

func TestMissingKeyProp(t *testing.T) {
	without := "function List({ items }) { return <ul>{items.map(i => <Row>{i}</Row>)}</ul> }\n"
	got := expectCount(t, checkFile(t, "List.jsx", without), "missing-key-prop", 1)
	if len(got) == 1 && got[0].Severity != config.SeverityError {
		t.Errorf("missing-key-prop should be an error, got %s", got[0].Severity)
	}

	with := "function List({ items }) { return <ul>{items.map(i => <Row key={i.id}>{i}</Row>)}</ul> }\n"
	expectCount(t, checkFile(t, "List.jsx", with), "missing-key-prop", 0)
}

func TestUnusedImport_ReportedOnceAcrossDetectors(t *testing.T) {
	src := "import { useState, useEffect } from 'react';\nexport function useCounter() { const [a] = useState(0); return a }\n"
	got := expectCount(t, checkFile(t, "a.js", src), "unused-import", 1)
	if len(got) == 1 {
		if !strings.Contains(got[0].Message, "useEffect") || got[0].AutoFixable {
			t.Errorf("unexpected unused-import issue %+v", got[0])
		}
		if got[0].Severity != config.SeverityWarning {
			t.Errorf("unused-import severity %s, want warning", got[0].Severity)
		}
	}
}

func TestMissingHookImport(t *testing.T) {
	src := "export function useCounter() { const [a] = useState(0); useState(1); return a }\n"
	got := expectCount(t, checkFile(t, "a.js", src), "missing-hook-import", 1)
	if len(got) == 1 && !got[0].AutoFixable {
		t.Error("missing-hook-import should be auto-fixable")
	}
}

func TestTSConfig_JSONCWithOutdatedTarget(t *testing.T) {
	src := `{
  // build settings
  "compilerOptions": {
    "target": "es5",
    "module": "esnext",
  },
}`
	issues := checkFile(t, "tsconfig.json", src)
	expectCount(t, issues, "invalid-json", 0)
	expectCount(t, issues, "missing-strict-mode", 1)
	expectCount(t, issues, "missing-path-alias", 1)
	got := expectCount(t, issues, "outdated-target", 1)
	if len(got) == 1 && got[0].Line != 4 {
		t.Errorf("outdated-target line = %d, want 4", got[0].Line)
	}
}

func TestTSConfig_MalformedJSONC(t *testing.T) {
	src := "{\n  // build settings\n  \"compilerOptions\": {\n    \"target\": \"es2022\"\n    \"strict\": true\n  }\n}\n"
	issues := checkFile(t, "tsconfig.json", src)
	if len(issues) != 1 || issues[0].Type != "invalid-json" {
		t.Fatalf("expected exactly one invalid-json issue, got %+v", issues)
	}
	if issues[0].Line < 4 {
		t.Errorf("invalid-json line = %d, want the broken member (>= 4)", issues[0].Line)
	}
}

func TestHujsonOffset(t *testing.T) {
	content := "a\nbc\ndef"
	tests := []struct {
		msg  string
		want int
	}{
		{"hujson: line 3, column 2: invalid character", 6},
		{"hujson: line 1, column 1: unexpected EOF", 0},
		{"hujson: line 9, column 1: past the end", len(content)},
		{"something else", 0},
	}
	for _, tt := range tests {
		if got := hujsonOffset(content, errors.New(tt.msg)); got != tt.want {
			t.Errorf("hujsonOffset(%q) = %d, want %d", tt.msg, got, tt.want)
		}
	}
}

func TestMalformedJSON_SingleIssue(t *testing.T) {
	issues := checkFile(t, "package.json", `{"name": "app", "scripts": }`)
	if len(issues) != 1 || issues[0].Type != "invalid-json" || issues[0].Severity != config.SeverityError {
		t.Fatalf("expected exactly one invalid-json error, got %+v", issues)
	}
	if issues[0].Layer != 1 {
		t.Errorf("invalid-json layer = %d, want 1", issues[0].Layer)
	}
}

func TestPackageManifest(t *testing.T) {
	src := `{"scripts": {"dev": "next dev", "build": "next build"},
"dependencies": {"react": "^17.0.2", "next": "14.1.0", "typescript": "latest"}}`
	issues := checkFile(t, "package.json", src)
	expectCount(t, issues, "missing-script", 2)
	got := expectCount(t, issues, "outdated-dependency", 1)
	if len(got) == 1 && !strings.HasPrefix(got[0].Message, "react ") {
		t.Errorf("unexpected outdated dependency %q", got[0].Message)
	}
}

func TestMajorVersion(t *testing.T) {
	tests := []struct {
		spec string
		want int
		ok   bool
	}{
		{"^17.0.2", 17, true},
		{"~5.1", 5, true},
		{">=13", 13, true},
		{"latest", 0, false},
		{"workspace:*", 0, false},
	}
	for _, tt := range tests {
		got, ok := majorVersion(tt.spec)
		if got != tt.want || ok != tt.ok {
			t.Errorf("majorVersion(%q) = %d, %v; want %d, %v", tt.spec, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMissingReactImport(t *testing.T) {
	expectCount(t, checkFile(t, "Card.jsx", "export function Card() { return <div>hi</div> }\n"), "missing-react-import", 1)
	expectCount(t, checkFile(t, "Card.jsx", "import React from 'react';\nexport function Card() { return <div>hi</div> }\n"), "missing-react-import", 0)
}

func TestDirectivePlacement(t *testing.T) {
	misplaced := "import x from 'y';\nconst n = 1;\n'use client';\nexport default function Page() { return x }\n"
	got := expectCount(t, checkFile(t, "src/app/page.js", misplaced), "misplaced-directive", 1)
	if len(got) == 1 && (!got[0].AutoFixable || got[0].Severity != config.SeverityError || got[0].Line != 3) {
		t.Errorf("misplaced-directive should be an auto-fixable error on line 3: %+v", got[0])
	}

	for name, src := range map[string]string{
		"comment first": "// header comment\n'use client';\nimport x from 'y';\nexport default function Page() { return x }\n",
		"imports first": "import x from 'y';\n'use client';\nexport default function Page() { return x }\n",
		"mixed":         "/* a */\nimport x from 'y';\n// b\nimport z from 'z';\n'use client';\nexport default function Page() { return x + z }\n",
	} {
		if n := len(ofType(checkFile(t, "src/app/page.js", src), "misplaced-directive")); n != 0 {
			t.Errorf("%s: got %d misplaced-directive issues, want 0", name, n)
		}
	}
}

func TestRouteEntry_DefaultExport(t *testing.T) {
	expectCount(t, checkFile(t, "src/app/about/page.js", "export function About() { return null }\n"), "missing-default-export", 1)
	expectCount(t, checkFile(t, "src/app/about/page.js", "export default function About() { return null }\n"), "missing-default-export", 0)
	expectCount(t, checkFile(t, "src/components/About.js", "export function About() { return null }\n"), "missing-default-export", 0)
}

func TestClientBoundary(t *testing.T) {
	src := "import { useState } from 'react';\nexport default function Counter() { const [n] = useState(0); return n }\n"
	expectCount(t, checkFile(t, "src/app/counter/page.js", src), "missing-client-directive", 1)
	expectCount(t, checkFile(t, "src/app/counter/page.js", "'use client';\n"+src), "missing-client-directive", 0)

	meta := "'use client';\nexport const metadata = { title: 'x' };\nexport default function Page() { return null }\n"
	expectCount(t, checkFile(t, "src/app/page.js", meta), "client-metadata-export", 1)
}

func TestDebuggerStatement(t *testing.T) {
	got := expectCount(t, checkFile(t, "a.js", "function f() { debugger; return 1 }\n"), "debugger-statement", 1)
	if len(got) == 1 && (got[0].Severity != config.SeverityError || !got[0].AutoFixable || got[0].Layer != 6) {
		t.Errorf("unexpected debugger issue %+v", got[0])
	}
}

func TestConsoleRouting(t *testing.T) {
	src := "export function f() {\n  console.log('a');\n  console.error('b');\n  console.table([]);\n}\n"
	issues := checkFile(t, "src/util.js", src)
	expectCount(t, issues, "console-log", 1)
	expectCount(t, issues, "console-error-statement", 1)
	expectCount(t, issues, "console-statement", 1)

	expectCount(t, checkFile(t, "src/util.test.js", src), "console-log", 0)
}

func TestEmptyTestFile(t *testing.T) {
	expectCount(t, checkFile(t, "src/a.test.js", "const x = 1;\n"), "empty-test-file", 1)
	expectCount(t, checkFile(t, "src/a.test.js", "describe.each([1])('x', () => {});\n"), "empty-test-file", 0)
	expectCount(t, checkFile(t, "src/a.test.js", "it('works', () => {});\n"), "empty-test-file", 0)
}

func TestConditionalHook(t *testing.T) {
	src := "import { useState } from 'react';\nexport function Panel({ open }) {\n  if (open) { useState(1) }\n  return <div />\n}\n"
	expectCount(t, checkFile(t, "Panel.jsx", src), "conditional-hook", 1)

	invalid := "import { useState } from 'react';\nexport function helper() { return useState(1) }\n"
	expectCount(t, checkFile(t, "helper.js", invalid), "invalid-hook-call", 1)

	owners := map[string]string{
		"anonymous default export":  "import { useState } from 'react';\nexport default function () { const [n] = useState(0); return <div>{n}</div> }\n",
		"forwardRef arrow":          "import { forwardRef, useState } from 'react';\nexport default forwardRef((props, ref) => { const [v] = useState(''); return <input ref={ref} value={v} /> });\n",
		"forwardRef returning null": "import React, { useImperativeHandle } from 'react';\nexport default React.forwardRef(function (props, ref) { useImperativeHandle(ref, () => ({})); return null });\n",
		"memo arrow":                "import { memo, useState } from 'react';\nexport default memo(() => { useState(0); return null });\n",
	}
	for name, src := range owners {
		if n := len(ofType(checkFile(t, "Owner.jsx", src), "invalid-hook-call")); n != 0 {
			t.Errorf("%s: got %d invalid-hook-call issues, want 0", name, n)
		}
	}
}

func TestIndexAsKey(t *testing.T) {
	src := "export function L({ items }) { return <ul>{items.map((item, index) => <li key={index}>{item}</li>)}</ul> }\n"
	issues := checkFile(t, "L.jsx", src)
	expectCount(t, issues, "index-as-key", 1)
	expectCount(t, issues, "missing-key-prop", 0)
}

func TestStateMutation(t *testing.T) {
	src := "import { useState } from 'react';\nexport function L() {\n  const [items, setItems] = useState([]);\n  const add = () => { items.push(1); setItems(items) };\n  return <button onClick={add}>add</button>\n}\n"
	expectCount(t, checkFile(t, "L.jsx", src), "state-mutation", 1)
}

func TestEffectCleanup(t *testing.T) {
	leak := "import { useEffect } from 'react';\nexport function W() {\n  useEffect(() => { window.addEventListener('resize', f) }, []);\n  return <div />\n}\n"
	got := expectCount(t, checkFile(t, "W.jsx", leak), "missing-effect-cleanup", 1)
	if len(got) == 1 && got[0].Severity != config.SeverityError {
		t.Errorf("missing-effect-cleanup severity %s, want error", got[0].Severity)
	}

	clean := "import { useEffect } from 'react';\nexport function W() {\n  useEffect(() => {\n    window.addEventListener('resize', f);\n    return () => window.removeEventListener('resize', f);\n  }, []);\n  return <div />\n}\n"
	expectCount(t, checkFile(t, "W.jsx", clean), "missing-effect-cleanup", 0)
}

func TestSecurity(t *testing.T) {
	src := `export function Html({ html }) {
  document.body.innerHTML = html;
  const apiKey = "sk_live_abcdefghijklmnop1234";
  const session = Math.random().toString(36);
  return <div dangerouslySetInnerHTML={{ __html: html }} />
}
`
	issues := NewSecurityRule().Check(parse(t, "Html.jsx", src))
	expectCount(t, issues, "direct-inner-html", 1)
	expectCount(t, issues, "unsafe-inner-html", 1)
	expectCount(t, issues, "insecure-randomness", 1)
	secrets := expectCount(t, issues, "hardcoded-secret", 1)
	if len(secrets) == 1 && secrets[0].AutoFixable {
		t.Error("hardcoded-secret must never be auto-fixable")
	}

	safe := "export function Html({ html }) { return <div dangerouslySetInnerHTML={{ __html: DOMPurify.sanitize(html) }} /> }\n"
	expectCount(t, NewSecurityRule().Check(parse(t, "Html.jsx", safe)), "unsafe-inner-html", 0)
}

func TestSecurity_CodeExecutionAndURLs(t *testing.T) {
	src := "eval(code);\nconst f = new Function('a', 'return a');\nconst link = <a href=\"javascript:void(0)\">x</a>;\nconst q = `SELECT * FROM users WHERE id = ${id}`;\n"
	issues := NewSecurityRule().Check(parse(t, "a.jsx", src))
	expectCount(t, issues, "eval-usage", 2)
	expectCount(t, issues, "unsafe-url", 1)
	expectCount(t, issues, "sql-injection-risk", 1)
}

func TestAccessibility(t *testing.T) {
	src := "export function G() { return <section><img src={s} /><div onClick={go}>Go</div><button><Icon /></button></section> }\n"
	issues := NewAccessibilityRule().Check(parse(t, "G.jsx", src))
	expectCount(t, issues, "missing-alt-text", 1)
	expectCount(t, issues, "missing-role", 1)
	expectCount(t, issues, "missing-keyboard-handler", 1)
	expectCount(t, issues, "missing-tabindex", 1)
	expectCount(t, issues, "use-semantic-element", 1)
	expectCount(t, issues, "missing-accessible-name", 1)

	styled := "export function S() { return <p style={{ color: '#777' }}>x</p> }\n"
	got := expectCount(t, NewAccessibilityRule().Check(parse(t, "S.jsx", styled)), "color-contrast-review", 1)
	if len(got) == 1 && (got[0].Severity != config.SeverityInfo || got[0].AutoFixable) {
		t.Errorf("color-contrast-review should be info and not auto-fixable: %+v", got[0])
	}
}

func TestBrowserGlobalGuard(t *testing.T) {
	unguarded := "export function width() { return window.innerWidth }\n"
	expectCount(t, checkFile(t, "src/width.js", unguarded), "unguarded-browser-global", 1)

	guarded := "export function width() {\n  if (typeof window === 'undefined') return 0;\n  return window.innerWidth\n}\n"
	expectCount(t, checkFile(t, "src/width.js", guarded), "unguarded-browser-global", 0)

	effect := "import { useEffect } from 'react';\nexport function W() { useEffect(() => { document.title = 'x' }, []); return null }\n"
	expectCount(t, checkFile(t, "src/W.js", effect), "unguarded-browser-global", 0)
}

func TestMagicNumbers(t *testing.T) {
	src := "const timeout = 3000;\nconst MAX_RETRIES = 7;\nconst ratio = 0.5;\nconst big = 1000;\n"
	got := expectCount(t, checkFile(t, "src/a.js", src), "magic-number", 1)
	if len(got) == 1 && got[0].Message != "Magic number found: 3000" {
		t.Errorf("unexpected message %q", got[0].Message)
	}
}

func TestDeepNesting(t *testing.T) {
	nested := func(depth int) string {
		return "function f(x) {\n" + strings.Repeat("if (x) {\n", depth) + "x()\n" + strings.Repeat("}\n", depth) + "}\n"
	}
	rule := NewNestingDepthRule(4)
	if issues := rule.Check(parse(t, "a.js", nested(4))); len(issues) != 0 {
		t.Errorf("depth 4 should pass, got %+v", issues)
	}
	if issues := rule.Check(parse(t, "a.js", nested(5))); len(issues) != 1 || issues[0].Type != "deep-nesting" {
		t.Errorf("depth 5 should be flagged, got %+v", issues)
	}
	// else-if 체인은 깊이를 늘리지 않는다
	chain := "function f(x) {\n" + strings.Repeat("if (x === 1) { x() } else ", 6) + "{ x() }\n}\n"
	if issues := rule.Check(parse(t, "a.js", chain)); len(issues) != 0 {
		t.Errorf("else-if chain should pass, got %+v", issues)
	}
}

func TestDuplicateFunction_ReportedOnce(t *testing.T) {
	body := "{\n  const total = items.reduce((sum, item) => sum + item.price * item.quantity, 0);\n  // tax\n  return total + total * rate;\n}\n"
	src := "function first(items, rate) " + body + "function second(items, rate) " + body
	got := expectCount(t, checkFile(t, "src/a.js", src), "duplicate-function", 1)
	if len(got) == 1 && !strings.Contains(got[0].Message, "second duplicates first") {
		t.Errorf("unexpected message %q", got[0].Message)
	}
}

func TestComplexityModule(t *testing.T) {
	params := "function many(a, b, c, d, e, f) { return a }\n"
	expectCount(t, NewComplexityRule(config.Default().Thresholds).Check(parse(t, "a.js", params)), "too-many-parameters", 1)

	var b strings.Builder
	b.WriteString("import { useState } from 'react';\nexport function Form() {\n")
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, "  const [v%d, set%d] = useState(0);\n", i, i)
	}
	b.WriteString("  return <form />\n}\n")
	expectCount(t, NewComplexityRule(config.Default().Thresholds).Check(parse(t, "Form.jsx", b.String())), "too-many-state-hooks", 1)

	// 기본 복잡도 8, 논리 연산자 포함 시 15
	var s strings.Builder
	s.WriteString("function cond(a, b) {\n")
	for i := 0; i < 7; i++ {
		fmt.Fprintf(&s, "  if (a > %d && b) { a-- }\n", i)
	}
	s.WriteString("  return a\n}\n")
	expectCount(t, NewComplexityRule(config.Default().Thresholds).Check(parse(t, "a.js", s.String())), "cyclomatic-complexity", 1)
}

func TestPerformance(t *testing.T) {
	src := `import _ from 'lodash';
import * as utils from './utils';
import { useEffect } from 'react';
export function Table({ rows, columns, sort, onSelect }) {
  const visible = rows.filter((r) => r.visible);
  return <Grid style={{ width: '100%' }} data={visible} render={() => utils.cell(_)} />
}
`
	issues := NewPerformanceRule(config.Default().Thresholds).Check(parse(t, "Table.jsx", src))
	expectCount(t, issues, "heavy-import", 1)
	expectCount(t, issues, "namespace-import", 1)
	expectCount(t, issues, "missing-memoization", 1)
	expectCount(t, issues, "inline-jsx-prop", 2)
	expectCount(t, issues, "expensive-computation", 1)
	expectCount(t, issues, "unused-import", 1)
}

func TestModernization(t *testing.T) {
	src := `import React from 'react';
import ReactDOM from 'react-dom';
class Legacy extends React.Component {
  render() { return <div ref="box" /> }
}
ReactDOM.render(<Legacy />, root);
const node = ReactDOM.findDOMNode(this);
`
	issues := NewModernizationRule().Check(parse(t, "Legacy.jsx", src))
	expectCount(t, issues, "legacy-class-component", 1)
	expectCount(t, issues, "string-ref", 1)
	expectCount(t, issues, "deprecated-api", 2)

	typed := "export function Card(props: any) { return <div /> }\n"
	tsIssues := NewModernizationRule().Check(parse(t, "Card.tsx", typed))
	expectCount(t, tsIssues, "explicit-any", 1)
	expectCount(t, tsIssues, "missing-return-type", 1)
}

func TestComponentStructure(t *testing.T) {
	src := `import React, { forwardRef } from 'react';
interface ButtonProps { label: string }
export const Field = forwardRef((props, ref) => <input ref={ref} />);
export function Toolbar(props: ButtonProps) { return <Button>{props.label}</Button> }
`
	issues := checkFile(t, "Toolbar.tsx", src)
	expectCount(t, issues, "missing-variant", 1)
	expectCount(t, issues, "missing-input-type", 1)
	expectCount(t, issues, "props-missing-html-attributes", 1)
	expectCount(t, issues, "missing-display-name", 1)
}

func TestEngine_DeterministicAndFiltered(t *testing.T) {
	src := "function f() { debugger; console.log('x') }\n"
	first := checkFile(t, "src/a.js", src)
	second := checkFile(t, "src/a.js", src)
	if len(first) != len(second) {
		t.Fatalf("issue counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("issue %d id differs: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}

	cfg := config.Default()
	cfg.DisableRule("debugger-statement")
	cfg.FilterBySeverity(config.SeverityError)
	issues := NewEngine(cfg).CheckFile(parse(t, "src/a.js", src))
	for _, issue := range issues {
		if issue.Type == "debugger-statement" || issue.Severity != config.SeverityError {
			t.Errorf("issue should have been filtered: %+v", issue)
		}
	}
}

func TestEngine_LayerOrder(t *testing.T) {
	engine := NewEngine(config.Default())
	layers := engine.Layers()
	if len(layers) != config.LayerCount {
		t.Fatalf("expected %d layers, got %d", config.LayerCount, len(layers))
	}
	for i, layer := range layers {
		if layer.Number != i+1 {
			t.Errorf("layer %d has number %d", i, layer.Number)
		}
		for _, rule := range layer.Rules {
			if rule.Layer() != layer.Number {
				t.Errorf("rule %s reports layer %d inside layer %d", rule.ID(), rule.Layer(), layer.Number)
			}
		}
	}
}

func TestIsInsideConditional_StopsAtFunction(t *testing.T) {
	f := parse(t, "a.js", "if (x) { const cb = () => { useThing() } }\nconst y = x && useOther();\n")
	for _, call := range f.NodesOfType("call_expression") {
		name := f.CalleeName(call)
		got := IsInsideConditional(f, call)
		switch name {
		case "useThing":
			if got {
				t.Error("useThing is inside its own function; the outer if should not count")
			}
		case "useOther":
			if !got {
				t.Error("useOther is guarded by && and should count as conditional")
			}
		}
	}
}
