package rules

import (
	"strings"
	"testing"

	"component-quality-checker/internal/config"
)

func TestFileSize_Thresholds(t *testing.T) {
	withLines := func(n int) string {
		return "export default function Big() { return <div /> }" + strings.Repeat("\n", n-1)
	}
	withBytes := func(n int) string {
		return "export const s = '" + strings.Repeat("a", n-20) + "';"
	}
	tests := []struct {
		name      string
		src       string
		component int
		file      int
	}{
		{"200 lines", withLines(200), 0, 0},
		{"201 lines", withLines(201), 1, 0},
		{"500 lines", withLines(500), 1, 0},
		{"501 lines", withLines(501), 1, 1},
		{"10240 bytes", withBytes(10240), 0, 0},
		{"10241 bytes", withBytes(10241), 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := NewFileSizeRule(200, 500, 10*1024).Check(parse(t, "Big.jsx", tt.src))
			expectCount(t, issues, "large-component", tt.component)
			got := expectCount(t, issues, "large-file", tt.file)
			if len(got) == 1 && (got[0].Line != 1 || got[0].Severity != config.SeverityInfo) {
				t.Errorf("unexpected large-file issue %+v", got[0])
			}
		})
	}
}

func TestTodoComment(t *testing.T) {
	src := "// TODO: wire retries\nexport const a = 1; /* FIXME later */\nconst s = 'TODO in a string';\n// todo in lower case\n"
	got := expectCount(t, NewTodoCommentRule().Check(parse(t, "a.js", src)), "todo-comment", 2)
	if len(got) != 2 {
		return
	}
	if got[0].Line != 1 || got[0].Column != 4 || !strings.HasPrefix(got[0].Message, "TODO comment") {
		t.Errorf("unexpected TODO issue %+v", got[0])
	}
	if got[1].Line != 2 || !strings.HasPrefix(got[1].Message, "FIXME comment") {
		t.Errorf("unexpected FIXME issue %+v", got[1])
	}
}

func TestUnsafeTypeAssertion(t *testing.T) {
	src := "export const x = (y as any).z;\n// cast as any here\nexport const w = y as unknown;\n"
	got := expectCount(t, checkFile(t, "a.ts", src), "unsafe-type-assertion", 1)
	if len(got) == 1 && (got[0].Line != 1 || got[0].Severity != config.SeverityWarning || got[0].Layer != 2) {
		t.Errorf("unexpected unsafe-type-assertion issue %+v", got[0])
	}
}

func TestVerboseFragment(t *testing.T) {
	src := "import React, { Fragment } from 'react';\nexport function F({ items }) {\n  return <React.Fragment><Fragment>{items}</Fragment><Fragment key=\"k\" /><>{items}</></React.Fragment>\n}\n"
	got := expectCount(t, checkFile(t, "F.jsx", src), "verbose-fragment", 2)
	for _, issue := range got {
		if !issue.AutoFixable || issue.Severity != config.SeverityInfo {
			t.Errorf("unexpected verbose-fragment issue %+v", issue)
		}
	}
}

func TestUnvalidatedFileUpload(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"file input without accept", "export function Up() { return <input type=\"file\" /> }\n", 1},
		{"file input with accept", "export function Up() { return <input type=\"file\" accept=\"image/png\" /> }\n", 0},
		{"text input", "export function Up() { return <input type=\"text\" /> }\n", 0},
		{"upload without checks", "export async function send(f) { await uploadFile(f) }\n", 1},
		{"upload after size check", "export async function send(f) { if (f.size > 1e6) return; await uploadFile(f) }\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCount(t, NewSecurityRule().Check(parse(t, "Up.jsx", tt.src)), "unvalidated-file-upload", tt.want)
		})
	}
}

func TestPropDrilling(t *testing.T) {
	layout := func(spreads int) string {
		return "export function Layout({ a, b, c, d, e, f, ...rest }) {\n  return <div>" +
			strings.Repeat("<Panel {...rest} />", spreads) + "{a}{b}{c}{d}{e}{f}</div>\n}\n"
	}
	rule := NewPerformanceRule(config.Default().Thresholds)
	got := expectCount(t, rule.Check(parse(t, "Layout.jsx", layout(4))), "prop-drilling", 1)
	if len(got) == 1 && !strings.Contains(got[0].Message, "7 props") {
		t.Errorf("unexpected prop-drilling message %q", got[0].Message)
	}
	expectCount(t, rule.Check(parse(t, "Layout.jsx", layout(3))), "prop-drilling", 0)

	few := "export function Small({ a, ...rest }) { return <div><P {...rest} /><P {...rest} /><P {...rest} /><P {...rest} />{a}</div> }\n"
	expectCount(t, rule.Check(parse(t, "Small.jsx", few)), "prop-drilling", 0)
}

func TestFrameworkConfig(t *testing.T) {
	legacy := "module.exports = {\n  experimental: { appDir: true, typedRoutes: true, serverActions: true },\n};\n"
	issues := checkFile(t, "next.config.js", legacy)
	got := expectCount(t, issues, "deprecated-experimental-flag", 2)
	for _, issue := range got {
		if !issue.AutoFixable || issue.Line != 2 {
			t.Errorf("unexpected deprecated-experimental-flag issue %+v", issue)
		}
	}
	expectCount(t, issues, "missing-minification", 1)

	modern := "module.exports = { compress: true, experimental: { typedRoutes: true } };\n"
	issues = checkFile(t, "next.config.js", modern)
	expectCount(t, issues, "deprecated-experimental-flag", 0)
	expectCount(t, issues, "missing-minification", 0)

	expectCount(t, checkFile(t, "src/config.js", legacy), "deprecated-experimental-flag", 0)
}

func TestMissingTypeImport(t *testing.T) {
	body := "export function f(e: ChangeEvent<HTMLInputElement>, n: ReactNode): ReactNode { return n }\nexport const g = (x: React.ReactNode) => x;\n"
	got := expectCount(t, checkFile(t, "f.ts", body), "missing-type-import", 2)
	for _, issue := range got {
		if issue.Severity != config.SeverityError || !issue.AutoFixable {
			t.Errorf("unexpected missing-type-import issue %+v", issue)
		}
	}
	expectCount(t, checkFile(t, "f.ts", "import { ChangeEvent, ReactNode } from 'react';\n"+body), "missing-type-import", 0)
	expectCount(t, checkFile(t, "f.ts", "interface ReactNode {}\ntype ChangeEvent<T> = { target: T };\n"+body), "missing-type-import", 0)
}

func TestMissingEffectDeps(t *testing.T) {
	src := `import { useEffect, useMemo } from 'react';
export function Title({ n }) {
  useEffect(() => { document.title = n });
  useEffect(() => { document.title = n }, [n]);
  const doubled = useMemo(() => n * 2);
  return <p>{doubled}</p>
}
`
	got := expectCount(t, NewBestPracticesRule().Check(parse(t, "Title.jsx", src)), "missing-effect-deps", 2)
	if len(got) == 2 && (got[0].Line != 3 || got[1].Line != 5) {
		t.Errorf("missing-effect-deps lines = %d, %d; want 3, 5", got[0].Line, got[1].Line)
	}
}

func TestAttributeValue(t *testing.T) {
	f := parse(t, "a.jsx", "const el = <a href=\"/x\" target={'_blank'} rel={rel} download />;\n")
	el := f.NodesOfType("jsx_self_closing_element")[0]
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"href", "/x", true},
		{"target", "_blank", true},
		{"rel", "", false},
		{"download", "", false},
		{"title", "", false},
	}
	for _, tt := range tests {
		value, ok := AttributeValue(f, el, tt.name)
		if value != tt.value || ok != tt.ok {
			t.Errorf("AttributeValue(%s) = %q, %v; want %q, %v", tt.name, value, ok, tt.value, tt.ok)
		}
	}
	if !HasAttribute(f, el, "download") {
		t.Error("boolean attribute should still be found")
	}
}

func TestIsComponentImported(t *testing.T) {
	f := parse(t, "a.js", "import React from 'react';\nimport helper from './react';\nexport default helper(React);\n")
	if !IsComponentImported(f, "react") {
		t.Error("react import not found")
	}
	if IsComponentImported(f, "next/link") {
		t.Error("next/link is not imported")
	}
	if IsComponentImported(parse(t, "package.json", `{"name": "x"}`), "react") {
		t.Error("json files have no imports")
	}
}

func TestIdentifierScans(t *testing.T) {
	content := "const FooBar = 1; Foo.displayName = 'Foo'; export default memo( Card );"
	if got := findIdentifier(content, "Foo", 0); got != 18 {
		t.Errorf("findIdentifier(Foo) = %d, want 18", got)
	}
	if got := findIdentifier(content, "Bar", 0); got != -1 {
		t.Errorf("findIdentifier(Bar) = %d, want -1", got)
	}
	if !hasDisplayName(content, "Foo") || hasDisplayName(content, "FooBar") {
		t.Error("hasDisplayName should only match a displayName assignment on the exact binding")
	}
	if !hasIdentifierPrefix("Card );", "Card") || hasIdentifierPrefix("Cards", "Card") {
		t.Error("hasIdentifierPrefix boundary mismatch")
	}

	f := parse(t, "Card.jsx", "function Card({ a }) { return <p>{a}</p> }\nexport default memo( Card );\n")
	comp := f.Components()[0]
	if !isMemoized(f, comp, "Card") || isMemoized(f, comp, "Car") {
		t.Error("isMemoized should match memo(Card) by whole identifier")
	}
}
