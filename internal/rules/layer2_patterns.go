package rules

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"component-quality-checker/internal/config"
	"component-quality-checker/internal/parser"
	"component-quality-checker/internal/types"
)

func patternRules(_ *config.Config) []Rule {
	return []Rule{
		NewEntityCorruptionRule(),
		NewTypeAssertionRule(),
		NewDebugPrintRule(),
		NewVerboseFragmentRule(),
		NewUnusedImportRule(CategoryPatterns, 2),
		NewMissingKeyPropRule(),
		NewMissingHookImportRule(),
	}
}

// htmlEntities 소스에 섞여 들어간 HTML 엔티티와 실제 문자
var htmlEntities = []struct {
	entity  string
	literal string
}{
	{"&quot;", `"`},
	{"&#34;", `"`},
	{"&apos;", "'"},
	{"&#39;", "'"},
	{"&#x27;", "'"},
	{"&amp;", "&"},
	{"&lt;", "<"},
	{"&gt;", ">"},
	{"&nbsp;", " "},
	{"&copy;", "©"},
	{"&reg;", "®"},
	{"&trade;", "™"},
	{"&euro;", "€"},
	{"&pound;", "£"},
	{"&yen;", "¥"},
	{"&cent;", "¢"},
	{"&mdash;", "—"},
	{"&ndash;", "–"},
	{"&hellip;", "…"},
	{"&lsquo;", "‘"},
	{"&rsquo;", "’"},
	{"&ldquo;", "“"},
	{"&rdquo;", "”"},
	{"&laquo;", "«"},
	{"&raquo;", "»"},
	{"&bull;", "•"},
	{"&middot;", "·"},
	{"&deg;", "°"},
	{"&times;", "×"},
	{"&divide;", "÷"},
	{"&sect;", "§"},
}

var entityRegex = func() *regexp.Regexp {
	alternatives := make([]string, 0, len(htmlEntities))
	for _, e := range htmlEntities {
		alternatives = append(alternatives, regexp.QuoteMeta(e.entity))
	}
	return regexp.MustCompile(strings.Join(alternatives, "|"))
}()

// EntityLiteral 엔티티에 대응하는 문자
func EntityLiteral(entity string) (string, bool) {
	for _, e := range htmlEntities {
		if e.entity == entity {
			return e.literal, true
		}
	}
	return "", false
}

// EntityCorruptionRule HTML 엔티티 오염 검사
type EntityCorruptionRule struct {
	Base
}

func NewEntityCorruptionRule() Rule {
	return &EntityCorruptionRule{Base: newBase("entity-corruption", "HTML entity corruption", 2, CategoryPatterns,
		"Escaped HTML entities in source should be the literal characters")}
}

func (r *EntityCorruptionRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	var issues []types.Issue
	for _, m := range scanLines(file, entityRegex) {
		entity := m.Groups[0]
		literal, _ := EntityLiteral(entity)
		issues = append(issues, r.CreateIssueAt(file, m.Offset, "corruption", config.SeverityError,
			fmt.Sprintf("HTML entity %s found in source", entity),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: literal,
				Example: beforeAfter(m.Text, entity, literal)}))
	}
	return issues
}

// beforeAfter 매치를 치환한 "전 → 후" 예시
func beforeAfter(line, match, replacement string) string {
	before := strings.TrimSpace(line)
	after := strings.TrimSpace(strings.Replace(line, match, replacement, 1))
	return truncate(before, 80) + " → " + truncate(after, 80)
}

// TypeAssertionRule `as any` 탈출구 사용 검사
type TypeAssertionRule struct {
	Base
}

func NewTypeAssertionRule() Rule {
	return &TypeAssertionRule{Base: newBase("type-assertion", "Unsafe type assertion", 2, CategoryPatterns,
		"Casting to any disables type checking for the expression")}
}

var asAnyRegex = regexp.MustCompile(`\bas\s+any\b`)

func (r *TypeAssertionRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) || !file.IsTypeScript() {
		return nil
	}
	var issues []types.Issue
	for _, m := range scanLines(file, asAnyRegex) {
		if isCommentLine(m.Text) {
			continue
		}
		issues = append(issues, r.CreateIssueAt(file, m.Offset, "unsafe-type-assertion", config.SeverityWarning,
			"Type assertion to any bypasses type checking",
			IssueOptions{Fixable: true, Suggestion: "Assert to a concrete type or narrow with a type guard",
				Example: beforeAfter(m.Text, m.Groups[0], "as unknown")}))
	}
	return issues
}

// DebugPrintRule 프로덕션 코드의 console.log/debug/info 검사
type DebugPrintRule struct {
	Base
}

func NewDebugPrintRule() Rule {
	return &DebugPrintRule{Base: newBase("debug-print", "Debug print statements", 2, CategoryPatterns,
		"Debug console output should not ship outside tests")}
}

var debugPrintRegex = regexp.MustCompile(`\bconsole\.(log|debug|info)\s*\(`)

func (r *DebugPrintRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isProductionSource(file) {
		return nil
	}
	var issues []types.Issue
	for _, m := range scanLines(file, debugPrintRegex) {
		if isCommentLine(m.Text) {
			continue
		}
		issues = append(issues, r.CreateIssueAt(file, m.Offset, "console-log", config.SeverityWarning,
			fmt.Sprintf("console.%s left in production code", m.Groups[1]),
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Remove the statement or use a logger",
				Example: beforeAfter(m.Text, strings.TrimSpace(m.Text), "// removed")}))
	}
	return issues
}

// VerboseFragmentRule <React.Fragment> 대신 <> 사용 권장
type VerboseFragmentRule struct {
	Base
}

func NewVerboseFragmentRule() Rule {
	return &VerboseFragmentRule{Base: newBase("verbose-fragment", "Verbose fragment syntax", 2, CategoryPatterns,
		"Fragments without props can use the short syntax")}
}

var verboseFragmentRegex = regexp.MustCompile(`<(?:React\.)?Fragment>`)

func (r *VerboseFragmentRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) || !file.AllowsJSX() {
		return nil
	}
	var issues []types.Issue
	for _, m := range scanLines(file, verboseFragmentRegex) {
		issues = append(issues, r.CreateIssueAt(file, m.Offset, "verbose-fragment", config.SeverityInfo,
			"Verbose fragment syntax can be shortened",
			IssueOptions{Fixable: true, AutoFixable: true, Suggestion: "Use <>...</> instead",
				Example: beforeAfter(m.Text, m.Groups[0], "<>")}))
	}
	return issues
}

// UnusedImportRule 사용되지 않는 import (텍스트 출현 휴리스틱)
type UnusedImportRule struct {
	Base
}

// NewUnusedImportRule Layer 2와 성능 검사기 양쪽에서 독립적으로 쓰인다
func NewUnusedImportRule(category string, layer int) Rule {
	return &UnusedImportRule{Base: newBase("unused-import", "Unused imports", layer, category,
		"Imported bindings that never appear in the file body")}
}

func (r *UnusedImportRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	var issues []types.Issue
	for _, b := range unusedImports(file) {
		issues = append(issues, r.CreateIssue(file, b.Statement, "unused-import", config.SeverityWarning,
			unusedImportMessage(b),
			IssueOptions{Fixable: true, Suggestion: fmt.Sprintf("Remove %s from the import", b.Name)}))
	}
	return issues
}

// MissingKeyPropRule JSX 안에서 렌더되는 .map 콜백의 key 누락 검사
type MissingKeyPropRule struct {
	Base
}

func NewMissingKeyPropRule() Rule {
	return &MissingKeyPropRule{Base: newBase("missing-key-prop", "Missing key prop", 2, CategoryPatterns,
		"Elements rendered from .map need a stable key")}
}

func (r *MissingKeyPropRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) || !file.AllowsJSX() {
		return nil
	}
	var issues []types.Issue
	for _, call := range file.FindNodes(func(n *sitter.Node) bool { return isMapCall(file, n) }) {
		if !renderedInJSX(file, call) {
			continue
		}
		args := parser.CallArguments(call)
		if len(args) == 0 || !parser.IsFunction(args[0]) {
			continue
		}
		for _, el := range returnedJSX(file, args[0]) {
			if el.Type() != "jsx_fragment" && HasAttribute(file, el, "key") {
				continue
			}
			name := file.ElementName(el)
			if name == "" {
				name = "Fragment"
			}
			issues = append(issues, r.CreateIssue(file, el, "missing-key-prop", config.SeverityError,
				fmt.Sprintf("<%s> rendered in .map() is missing a key prop", name),
				IssueOptions{Fixable: true, Suggestion: "Add a key prop with a stable unique value",
					Example: fmt.Sprintf("<%s> → <%s key={item.id}>", name, name)}))
		}
	}
	return issues
}

// renderedInJSX 호출이 JSX 식 컨테이너 안에서 평가되는지
func renderedInJSX(file *parser.ParsedFile, call *sitter.Node) bool {
	for p := file.Parent(call); p != nil; p = file.Parent(p) {
		switch {
		case p.Type() == "jsx_expression":
			return true
		case parser.IsFunction(p), strings.HasSuffix(p.Type(), "statement"), p.Type() == "variable_declarator":
			return false
		}
	}
	return false
}

// MissingHookImportRule import 없이 사용된 기본 훅 검사
type MissingHookImportRule struct {
	Base
}

func NewMissingHookImportRule() Rule {
	return &MissingHookImportRule{Base: newBase("missing-hook-import", "Missing hook import", 2, CategoryPatterns,
		"Core hooks must be imported before use")}
}

var coreHooks = map[string]bool{
	"useState":    true,
	"useEffect":   true,
	"useCallback": true,
	"useMemo":     true,
	"useContext":  true,
	"useRef":      true,
}

func (r *MissingHookImportRule) Check(file *parser.ParsedFile) []types.Issue {
	if !isSourceFile(file) {
		return nil
	}
	imported := map[string]bool{}
	for _, b := range Imports(file) {
		imported[b.Name] = true
	}
	declared := map[string]bool{}
	for _, fn := range file.NodesOfType("function_declaration", "variable_declarator") {
		declared[file.Text(parser.Field(fn, "name"))] = true
	}

	var issues []types.Issue
	reported := map[string]bool{}
	for _, call := range file.NodesOfType("call_expression") {
		callee := parser.Field(call, "function")
		if callee == nil || callee.Type() != "identifier" {
			continue
		}
		name := file.Text(callee)
		if !coreHooks[name] || imported[name] || declared[name] || reported[name] {
			continue
		}
		reported[name] = true
		issues = append(issues, r.CreateIssue(file, call, "missing-hook-import", config.SeverityError,
			fmt.Sprintf("%s is used but not imported", name),
			IssueOptions{Fixable: true, AutoFixable: true,
				Suggestion: fmt.Sprintf("Add %s to the react import", name),
				Example:    fmt.Sprintf("import { %s } from 'react';", name)}))
	}
	return issues
}
